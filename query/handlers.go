package query

import (
	"context"

	"github.com/goliatone/go-odoo/core"
)

type PartnerReader interface {
	GetPartner(ctx context.Context, lookup core.PartnerLookup) (core.Record, error)
}

type ProductReader interface {
	GetProduct(ctx context.Context, lookup core.ProductLookup, templateFirst bool) (core.Record, error)
	SearchProductsByName(ctx context.Context, name string) ([]core.Record, error)
	ListProducts(ctx context.Context) ([]core.Record, error)
	ProductImages(ctx context.Context, productID int64, sku string) ([]core.BinaryPayload, error)
}

type CategoryReader interface {
	GetCategories(ctx context.Context, lookup core.CategoryLookup) ([]core.Record, error)
	ProductsByCategoryID(ctx context.Context, categoryID int64) ([]core.Record, error)
	ProductsByCategoryName(ctx context.Context, name string) (map[string][]core.Record, error)
}

type OrderReader interface {
	GetSaleOrders(ctx context.Context, lookup core.OrderLookup) ([]core.Record, error)
	SaleOrdersByPartner(ctx context.Context, partnerID int64) ([]core.Record, error)
	OrdersByDate(ctx context.Context, dates core.DateRange) ([]core.Record, error)
	BuildOrderLines(ctx context.Context, desired []core.DesiredProduct) ([]core.OrderLine, error)
	SaleOrderReport(ctx context.Context, orderID int64, raw bool) (core.BinaryPayload, error)
}

type ReportingReader interface {
	PendingInvoices(ctx context.Context, partnerID int64) ([]core.Record, error)
	TopCustomers(ctx context.Context, dates core.DateRange, limit int) ([]core.CustomerTotal, error)
	TopSellingProducts(ctx context.Context, dates core.DateRange, limit int) ([]core.ProductSales, error)
}

type SupportReader interface {
	HelpdeskTickets(ctx context.Context, partnerID int64) ([]core.Record, error)
	ReplenishmentInfo(ctx context.Context, productID int64) ([]core.Record, error)
}

type ActivityReader interface {
	ListActivity(ctx context.Context, filter core.ActivityFilter) (core.ActivityPage, error)
}

type GetPartnerQuery struct {
	reader PartnerReader
}

func NewGetPartnerQuery(reader PartnerReader) *GetPartnerQuery {
	return &GetPartnerQuery{reader: reader}
}

func (q *GetPartnerQuery) Query(ctx context.Context, msg GetPartnerMessage) (core.Record, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: partner reader is required")
	}
	lookup, err := core.NewPartnerLookup(msg.ID, msg.Phone, msg.Email)
	if err != nil {
		return nil, queryWrapValidation(err, "lookup")
	}
	return q.reader.GetPartner(ctx, lookup)
}

type GetProductQuery struct {
	reader ProductReader
}

func NewGetProductQuery(reader ProductReader) *GetProductQuery {
	return &GetProductQuery{reader: reader}
}

func (q *GetProductQuery) Query(ctx context.Context, msg GetProductMessage) (core.Record, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: product reader is required")
	}
	lookup, err := core.NewProductLookup(msg.ID, msg.SKU, msg.Name)
	if err != nil {
		return nil, queryWrapValidation(err, "lookup")
	}
	return q.reader.GetProduct(ctx, lookup, msg.TemplateFirst)
}

type SearchProductsByNameQuery struct {
	reader ProductReader
}

func NewSearchProductsByNameQuery(reader ProductReader) *SearchProductsByNameQuery {
	return &SearchProductsByNameQuery{reader: reader}
}

func (q *SearchProductsByNameQuery) Query(ctx context.Context, msg SearchProductsByNameMessage) ([]core.Record, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: product reader is required")
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return q.reader.SearchProductsByName(ctx, msg.Name)
}

type ListProductsQuery struct {
	reader ProductReader
}

func NewListProductsQuery(reader ProductReader) *ListProductsQuery {
	return &ListProductsQuery{reader: reader}
}

func (q *ListProductsQuery) Query(ctx context.Context, _ ListProductsMessage) ([]core.Record, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: product reader is required")
	}
	return q.reader.ListProducts(ctx)
}

type ProductImagesQuery struct {
	reader ProductReader
}

func NewProductImagesQuery(reader ProductReader) *ProductImagesQuery {
	return &ProductImagesQuery{reader: reader}
}

func (q *ProductImagesQuery) Query(ctx context.Context, msg ProductImagesMessage) ([]core.BinaryPayload, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: product reader is required")
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return q.reader.ProductImages(ctx, msg.ProductID, msg.SKU)
}

type GetCategoriesQuery struct {
	reader CategoryReader
}

func NewGetCategoriesQuery(reader CategoryReader) *GetCategoriesQuery {
	return &GetCategoriesQuery{reader: reader}
}

func (q *GetCategoriesQuery) Query(ctx context.Context, msg GetCategoriesMessage) ([]core.Record, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: category reader is required")
	}
	lookup, err := core.NewCategoryLookup(msg.ID, msg.Name, msg.ParentID, msg.ChildID)
	if err != nil {
		return nil, queryWrapValidation(err, "lookup")
	}
	return q.reader.GetCategories(ctx, lookup)
}

type ProductsByCategoryIDQuery struct {
	reader CategoryReader
}

func NewProductsByCategoryIDQuery(reader CategoryReader) *ProductsByCategoryIDQuery {
	return &ProductsByCategoryIDQuery{reader: reader}
}

func (q *ProductsByCategoryIDQuery) Query(ctx context.Context, msg ProductsByCategoryIDMessage) ([]core.Record, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: category reader is required")
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return q.reader.ProductsByCategoryID(ctx, msg.CategoryID)
}

type ProductsByCategoryNameQuery struct {
	reader CategoryReader
}

func NewProductsByCategoryNameQuery(reader CategoryReader) *ProductsByCategoryNameQuery {
	return &ProductsByCategoryNameQuery{reader: reader}
}

func (q *ProductsByCategoryNameQuery) Query(
	ctx context.Context,
	msg ProductsByCategoryNameMessage,
) (map[string][]core.Record, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: category reader is required")
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return q.reader.ProductsByCategoryName(ctx, msg.Name)
}

type GetSaleOrdersQuery struct {
	reader OrderReader
}

func NewGetSaleOrdersQuery(reader OrderReader) *GetSaleOrdersQuery {
	return &GetSaleOrdersQuery{reader: reader}
}

func (q *GetSaleOrdersQuery) Query(ctx context.Context, msg GetSaleOrdersMessage) ([]core.Record, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: order reader is required")
	}
	lookup, err := core.NewOrderLookup(msg.ID, msg.Name, msg.Marketplace)
	if err != nil {
		return nil, queryWrapValidation(err, "lookup")
	}
	return q.reader.GetSaleOrders(ctx, lookup)
}

type SaleOrdersByPartnerQuery struct {
	reader OrderReader
}

func NewSaleOrdersByPartnerQuery(reader OrderReader) *SaleOrdersByPartnerQuery {
	return &SaleOrdersByPartnerQuery{reader: reader}
}

func (q *SaleOrdersByPartnerQuery) Query(ctx context.Context, msg SaleOrdersByPartnerMessage) ([]core.Record, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: order reader is required")
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return q.reader.SaleOrdersByPartner(ctx, msg.PartnerID)
}

type OrdersByDateQuery struct {
	reader OrderReader
}

func NewOrdersByDateQuery(reader OrderReader) *OrdersByDateQuery {
	return &OrdersByDateQuery{reader: reader}
}

func (q *OrdersByDateQuery) Query(ctx context.Context, msg OrdersByDateMessage) ([]core.Record, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: order reader is required")
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return q.reader.OrdersByDate(ctx, msg.Dates)
}

type BuildOrderLinesQuery struct {
	reader OrderReader
}

func NewBuildOrderLinesQuery(reader OrderReader) *BuildOrderLinesQuery {
	return &BuildOrderLinesQuery{reader: reader}
}

func (q *BuildOrderLinesQuery) Query(ctx context.Context, msg BuildOrderLinesMessage) ([]core.OrderLine, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: order reader is required")
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return q.reader.BuildOrderLines(ctx, msg.Products)
}

type SaleOrderReportQuery struct {
	reader OrderReader
}

func NewSaleOrderReportQuery(reader OrderReader) *SaleOrderReportQuery {
	return &SaleOrderReportQuery{reader: reader}
}

func (q *SaleOrderReportQuery) Query(ctx context.Context, msg SaleOrderReportMessage) (core.BinaryPayload, error) {
	if q == nil || q.reader == nil {
		return core.BinaryPayload{}, queryDependencyError("query: order reader is required")
	}
	if err := msg.Validate(); err != nil {
		return core.BinaryPayload{}, err
	}
	return q.reader.SaleOrderReport(ctx, msg.OrderID, msg.Raw)
}

type PendingInvoicesQuery struct {
	reader ReportingReader
}

func NewPendingInvoicesQuery(reader ReportingReader) *PendingInvoicesQuery {
	return &PendingInvoicesQuery{reader: reader}
}

func (q *PendingInvoicesQuery) Query(ctx context.Context, msg PendingInvoicesMessage) ([]core.Record, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: reporting reader is required")
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return q.reader.PendingInvoices(ctx, msg.PartnerID)
}

type TopCustomersQuery struct {
	reader ReportingReader
}

func NewTopCustomersQuery(reader ReportingReader) *TopCustomersQuery {
	return &TopCustomersQuery{reader: reader}
}

func (q *TopCustomersQuery) Query(ctx context.Context, msg TopCustomersMessage) ([]core.CustomerTotal, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: reporting reader is required")
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return q.reader.TopCustomers(ctx, msg.Dates, msg.Limit)
}

type TopSellingProductsQuery struct {
	reader ReportingReader
}

func NewTopSellingProductsQuery(reader ReportingReader) *TopSellingProductsQuery {
	return &TopSellingProductsQuery{reader: reader}
}

func (q *TopSellingProductsQuery) Query(ctx context.Context, msg TopSellingProductsMessage) ([]core.ProductSales, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: reporting reader is required")
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return q.reader.TopSellingProducts(ctx, msg.Dates, msg.Limit)
}

type HelpdeskTicketsQuery struct {
	reader SupportReader
}

func NewHelpdeskTicketsQuery(reader SupportReader) *HelpdeskTicketsQuery {
	return &HelpdeskTicketsQuery{reader: reader}
}

func (q *HelpdeskTicketsQuery) Query(ctx context.Context, msg HelpdeskTicketsMessage) ([]core.Record, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: support reader is required")
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return q.reader.HelpdeskTickets(ctx, msg.PartnerID)
}

type ReplenishmentInfoQuery struct {
	reader SupportReader
}

func NewReplenishmentInfoQuery(reader SupportReader) *ReplenishmentInfoQuery {
	return &ReplenishmentInfoQuery{reader: reader}
}

func (q *ReplenishmentInfoQuery) Query(ctx context.Context, msg ReplenishmentInfoMessage) ([]core.Record, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: support reader is required")
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return q.reader.ReplenishmentInfo(ctx, msg.ProductID)
}

type ListActivityQuery struct {
	reader ActivityReader
}

func NewListActivityQuery(reader ActivityReader) *ListActivityQuery {
	return &ListActivityQuery{reader: reader}
}

func (q *ListActivityQuery) Query(ctx context.Context, msg ListActivityMessage) (core.ActivityPage, error) {
	if q == nil || q.reader == nil {
		return core.ActivityPage{}, queryDependencyError("query: activity reader is required")
	}
	if err := msg.Validate(); err != nil {
		return core.ActivityPage{}, err
	}
	return q.reader.ListActivity(ctx, msg.Filter)
}
