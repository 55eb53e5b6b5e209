package query

import (
	"strings"

	"github.com/goliatone/go-odoo/core"
)

const (
	TypeGetPartner             = "odoo.query.partner.get"
	TypeGetProduct             = "odoo.query.product.get"
	TypeSearchProductsByName   = "odoo.query.product.search_by_name"
	TypeListProducts           = "odoo.query.product.list"
	TypeProductImages          = "odoo.query.product.images"
	TypeGetCategories          = "odoo.query.category.list"
	TypeProductsByCategoryID   = "odoo.query.category.products_by_id"
	TypeProductsByCategoryName = "odoo.query.category.products_by_name"
	TypeGetSaleOrders          = "odoo.query.sale_order.list"
	TypeSaleOrdersByPartner    = "odoo.query.sale_order.by_partner"
	TypeOrdersByDate           = "odoo.query.sale_order.by_date"
	TypeBuildOrderLines        = "odoo.query.sale_order.build_lines"
	TypeSaleOrderReport        = "odoo.query.sale_order.report"
	TypePendingInvoices        = "odoo.query.invoice.pending"
	TypeTopCustomers           = "odoo.query.reporting.top_customers"
	TypeTopSellingProducts     = "odoo.query.reporting.top_selling_products"
	TypeHelpdeskTickets        = "odoo.query.helpdesk_ticket.list"
	TypeReplenishmentInfo      = "odoo.query.inventory.replenishment"
	TypeListActivity           = "odoo.query.activity.list"
)

// GetPartnerMessage selects a partner by exactly one of ID, Phone or Email.
type GetPartnerMessage struct {
	ID    int64
	Phone string
	Email string
}

func (GetPartnerMessage) Type() string { return TypeGetPartner }

func (m GetPartnerMessage) Validate() error {
	_, err := core.NewPartnerLookup(m.ID, m.Phone, m.Email)
	return queryWrapValidation(err, "lookup")
}

// GetProductMessage selects a product by exactly one of ID, SKU or Name.
type GetProductMessage struct {
	ID            int64
	SKU           string
	Name          string
	TemplateFirst bool
}

func (GetProductMessage) Type() string { return TypeGetProduct }

func (m GetProductMessage) Validate() error {
	_, err := core.NewProductLookup(m.ID, m.SKU, m.Name)
	return queryWrapValidation(err, "lookup")
}

type SearchProductsByNameMessage struct {
	Name string
}

func (SearchProductsByNameMessage) Type() string { return TypeSearchProductsByName }

func (m SearchProductsByNameMessage) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return queryValidationError("name", "product name is required")
	}
	return nil
}

type ListProductsMessage struct{}

func (ListProductsMessage) Type() string { return TypeListProducts }

func (ListProductsMessage) Validate() error { return nil }

type ProductImagesMessage struct {
	ProductID int64
	SKU       string
}

func (ProductImagesMessage) Type() string { return TypeProductImages }

func (m ProductImagesMessage) Validate() error {
	if m.ProductID <= 0 {
		return queryValidationError("product_id", "product id must be positive")
	}
	return nil
}

// GetCategoriesMessage lists all categories when no selector is set.
type GetCategoriesMessage struct {
	ID       int64
	Name     string
	ParentID int64
	ChildID  int64
}

func (GetCategoriesMessage) Type() string { return TypeGetCategories }

func (m GetCategoriesMessage) Validate() error {
	_, err := core.NewCategoryLookup(m.ID, m.Name, m.ParentID, m.ChildID)
	return queryWrapValidation(err, "lookup")
}

type ProductsByCategoryIDMessage struct {
	CategoryID int64
}

func (ProductsByCategoryIDMessage) Type() string { return TypeProductsByCategoryID }

func (m ProductsByCategoryIDMessage) Validate() error {
	if m.CategoryID <= 0 {
		return queryValidationError("category_id", "category id must be positive")
	}
	return nil
}

type ProductsByCategoryNameMessage struct {
	Name string
}

func (ProductsByCategoryNameMessage) Type() string { return TypeProductsByCategoryName }

func (m ProductsByCategoryNameMessage) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return queryValidationError("name", "category name is required")
	}
	return nil
}

// GetSaleOrdersMessage lists orders with amount_total > 0 when no selector
// is set.
type GetSaleOrdersMessage struct {
	ID          int64
	Name        string
	Marketplace string
}

func (GetSaleOrdersMessage) Type() string { return TypeGetSaleOrders }

func (m GetSaleOrdersMessage) Validate() error {
	_, err := core.NewOrderLookup(m.ID, m.Name, m.Marketplace)
	return queryWrapValidation(err, "lookup")
}

type SaleOrdersByPartnerMessage struct {
	PartnerID int64
}

func (SaleOrdersByPartnerMessage) Type() string { return TypeSaleOrdersByPartner }

func (m SaleOrdersByPartnerMessage) Validate() error {
	if m.PartnerID <= 0 {
		return queryValidationError("partner_id", "partner id must be positive")
	}
	return nil
}

type OrdersByDateMessage struct {
	Dates core.DateRange
}

func (OrdersByDateMessage) Type() string { return TypeOrdersByDate }

func (m OrdersByDateMessage) Validate() error {
	if strings.TrimSpace(m.Dates.From) == "" || strings.TrimSpace(m.Dates.To) == "" {
		return queryValidationError("dates", "date_from and date_to are required")
	}
	return nil
}

type BuildOrderLinesMessage struct {
	Products []core.DesiredProduct
}

func (BuildOrderLinesMessage) Type() string { return TypeBuildOrderLines }

func (m BuildOrderLinesMessage) Validate() error {
	if len(m.Products) == 0 {
		return queryValidationError("products", "at least one product is required")
	}
	return nil
}

type SaleOrderReportMessage struct {
	OrderID int64
	Raw     bool
}

func (SaleOrderReportMessage) Type() string { return TypeSaleOrderReport }

func (m SaleOrderReportMessage) Validate() error {
	if m.OrderID <= 0 {
		return queryValidationError("order_id", "order id must be positive")
	}
	return nil
}

type PendingInvoicesMessage struct {
	PartnerID int64
}

func (PendingInvoicesMessage) Type() string { return TypePendingInvoices }

func (m PendingInvoicesMessage) Validate() error {
	if m.PartnerID <= 0 {
		return queryValidationError("partner_id", "partner id must be positive")
	}
	return nil
}

type TopCustomersMessage struct {
	Dates core.DateRange
	Limit int
}

func (TopCustomersMessage) Type() string { return TypeTopCustomers }

func (m TopCustomersMessage) Validate() error {
	if m.Limit < 0 {
		return queryValidationError("limit", "limit must be >= 0")
	}
	return nil
}

type TopSellingProductsMessage struct {
	Dates core.DateRange
	Limit int
}

func (TopSellingProductsMessage) Type() string { return TypeTopSellingProducts }

func (m TopSellingProductsMessage) Validate() error {
	if m.Limit < 0 {
		return queryValidationError("limit", "limit must be >= 0")
	}
	return nil
}

type HelpdeskTicketsMessage struct {
	PartnerID int64
}

func (HelpdeskTicketsMessage) Type() string { return TypeHelpdeskTickets }

func (m HelpdeskTicketsMessage) Validate() error {
	if m.PartnerID <= 0 {
		return queryValidationError("partner_id", "partner id must be positive")
	}
	return nil
}

// ReplenishmentInfoMessage covers every product when ProductID is zero.
type ReplenishmentInfoMessage struct {
	ProductID int64
}

func (ReplenishmentInfoMessage) Type() string { return TypeReplenishmentInfo }

func (m ReplenishmentInfoMessage) Validate() error {
	if m.ProductID < 0 {
		return queryValidationError("product_id", "product id must be >= 0")
	}
	return nil
}

type ListActivityMessage struct {
	Filter core.ActivityFilter
}

func (ListActivityMessage) Type() string { return TypeListActivity }

func (m ListActivityMessage) Validate() error {
	if m.Filter.Page < 0 {
		return queryValidationError("page", "page must be >= 0")
	}
	if m.Filter.PerPage < 0 {
		return queryValidationError("per_page", "per_page must be >= 0")
	}
	return nil
}
