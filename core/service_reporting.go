package core

import "context"

const (
	accountMoveModel        = "account.move"
	defaultReportingLimit   = 10
	topCustomersOrderWindow = 1000
	topProductsLineWindow   = 5000
)

var invoiceFields = []string{
	"id", "name", "invoice_date", "invoice_date_due", "amount_total", "payment_state", "partner_id",
}

// PendingInvoices lists the customer invoices of a partner that are not
// fully paid, newest first.
func (s *Service) PendingInvoices(ctx context.Context, partnerID int64) (invoices []Record, err error) {
	startedAt := s.now()
	fields := map[string]any{"model": accountMoveModel, "partner_id": partnerID}
	defer func() {
		fields["count"] = len(invoices)
		s.observeOperation(ctx, startedAt, "pending_invoices", err, fields)
	}()
	if partnerID <= 0 {
		err = s.mapError(BadInputError("partner id must be positive", map[string]any{"partner_id": partnerID}))
		return nil, err
	}
	invoices, err = s.search(ctx, SearchRequest{
		Model:  accountMoveModel,
		Fields: invoiceFields,
		Domain: All(
			Where("partner_id", OpEq, partnerID),
			Where("move_type", OpEq, "out_invoice"),
			Where("payment_state", OpNe, "paid"),
		),
		Order: "invoice_date desc",
	})
	return invoices, s.mapError(err)
}

// TopCustomers sums confirmed order totals per partner.
func (s *Service) TopCustomers(ctx context.Context, dates DateRange, limit int) (customers []CustomerTotal, err error) {
	startedAt := s.now()
	fields := map[string]any{"model": saleOrderModel, "date_from": dates.From, "date_to": dates.To}
	defer func() {
		fields["count"] = len(customers)
		s.observeOperation(ctx, startedAt, "top_customers", err, fields)
	}()
	if err = dates.validate(); err != nil {
		return nil, s.mapError(err)
	}
	if limit <= 0 {
		limit = defaultReportingLimit
	}

	domain := All(Where("state", OpIn, []string{"sale", "done"}))
	domain = append(domain, All(dates.conditions("date_order")...)...)
	orders, err := s.search(ctx, SearchRequest{
		Model:  saleOrderModel,
		Fields: []string{"id", "name", "partner_id", "amount_total", "date_order", "state"},
		Domain: domain,
		Order:  "amount_total desc",
		Limit:  topCustomersOrderWindow,
	})
	if err != nil {
		return nil, s.mapError(err)
	}

	groups := GroupAndSum(orders, Many2OneKey("partner_id"), []string{"amount_total"}, limit)
	customers = make([]CustomerTotal, 0, len(groups))
	for _, group := range groups {
		customers = append(customers, CustomerTotal{
			PartnerID:   group.Key,
			PartnerName: group.Label,
			AmountTotal: group.Totals["amount_total"],
			Orders:      group.Count,
		})
	}
	return customers, nil
}

// TopSellingProducts sums ordered quantity and revenue per product, ranked
// by quantity.
func (s *Service) TopSellingProducts(ctx context.Context, dates DateRange, limit int) (products []ProductSales, err error) {
	startedAt := s.now()
	fields := map[string]any{"model": saleOrderLineModel, "date_from": dates.From, "date_to": dates.To}
	defer func() {
		fields["count"] = len(products)
		s.observeOperation(ctx, startedAt, "top_selling_products", err, fields)
	}()
	if err = dates.validate(); err != nil {
		return nil, s.mapError(err)
	}
	if limit <= 0 {
		limit = defaultReportingLimit
	}

	lines, err := s.search(ctx, SearchRequest{
		Model:  saleOrderLineModel,
		Fields: []string{"product_id", "product_uom_qty", "price_total", "order_id", "create_date"},
		Domain: All(dates.conditions("create_date")...),
		Limit:  topProductsLineWindow,
	})
	if err != nil {
		return nil, s.mapError(err)
	}

	groups := GroupAndSum(lines, Many2OneKey("product_id"), []string{"product_uom_qty", "price_total"}, limit)
	products = make([]ProductSales, 0, len(groups))
	for _, group := range groups {
		products = append(products, ProductSales{
			ProductID:   group.Key,
			ProductName: group.Label,
			Quantity:    group.Totals["product_uom_qty"],
			Revenue:     group.Totals["price_total"],
		})
	}
	return products, nil
}
