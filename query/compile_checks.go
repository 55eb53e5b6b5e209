package query

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-odoo/core"
)

var (
	_ gocmd.Querier[GetPartnerMessage, core.Record]                          = (*GetPartnerQuery)(nil)
	_ gocmd.Querier[GetProductMessage, core.Record]                          = (*GetProductQuery)(nil)
	_ gocmd.Querier[SearchProductsByNameMessage, []core.Record]              = (*SearchProductsByNameQuery)(nil)
	_ gocmd.Querier[ListProductsMessage, []core.Record]                      = (*ListProductsQuery)(nil)
	_ gocmd.Querier[ProductImagesMessage, []core.BinaryPayload]              = (*ProductImagesQuery)(nil)
	_ gocmd.Querier[GetCategoriesMessage, []core.Record]                     = (*GetCategoriesQuery)(nil)
	_ gocmd.Querier[ProductsByCategoryIDMessage, []core.Record]              = (*ProductsByCategoryIDQuery)(nil)
	_ gocmd.Querier[ProductsByCategoryNameMessage, map[string][]core.Record] = (*ProductsByCategoryNameQuery)(nil)
	_ gocmd.Querier[GetSaleOrdersMessage, []core.Record]                     = (*GetSaleOrdersQuery)(nil)
	_ gocmd.Querier[SaleOrdersByPartnerMessage, []core.Record]               = (*SaleOrdersByPartnerQuery)(nil)
	_ gocmd.Querier[OrdersByDateMessage, []core.Record]                      = (*OrdersByDateQuery)(nil)
	_ gocmd.Querier[BuildOrderLinesMessage, []core.OrderLine]                = (*BuildOrderLinesQuery)(nil)
	_ gocmd.Querier[SaleOrderReportMessage, core.BinaryPayload]              = (*SaleOrderReportQuery)(nil)
	_ gocmd.Querier[PendingInvoicesMessage, []core.Record]                   = (*PendingInvoicesQuery)(nil)
	_ gocmd.Querier[TopCustomersMessage, []core.CustomerTotal]               = (*TopCustomersQuery)(nil)
	_ gocmd.Querier[TopSellingProductsMessage, []core.ProductSales]          = (*TopSellingProductsQuery)(nil)
	_ gocmd.Querier[HelpdeskTicketsMessage, []core.Record]                   = (*HelpdeskTicketsQuery)(nil)
	_ gocmd.Querier[ReplenishmentInfoMessage, []core.Record]                 = (*ReplenishmentInfoQuery)(nil)
	_ gocmd.Querier[ListActivityMessage, core.ActivityPage]                  = (*ListActivityQuery)(nil)

	_ PartnerReader   = (*core.Service)(nil)
	_ ProductReader   = (*core.Service)(nil)
	_ CategoryReader  = (*core.Service)(nil)
	_ OrderReader     = (*core.Service)(nil)
	_ ReportingReader = (*core.Service)(nil)
	_ SupportReader   = (*core.Service)(nil)
	_ ActivityReader  = (*core.Service)(nil)
)
