package core

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	saleOrderModel     = "sale.order"
	saleOrderLineModel = "sale.order.line"
)

func (s *Service) saleOrderFields() []string {
	fields := []string{
		"id", "name", "partner_id", "date_order", "order_line", "state", "amount_total",
		"user_id", "company_id", "access_token", "access_url",
	}
	if field := strings.TrimSpace(s.config.CustomFields.Marketplace); field != "" {
		fields = append(fields, field)
	}
	if field := strings.TrimSpace(s.config.CustomFields.OrderReference); field != "" {
		fields = append(fields, field)
	}
	return append(fields, "origin", "activity_ids")
}

var partnerOrderFields = []string{
	"id", "name", "partner_id", "date_order", "order_line", "state", "amount_total",
	"user_id", "company_id", "access_token", "access_url",
}

var orderSummaryFields = []string{"id", "name", "partner_id", "date_order", "amount_total", "state"}

// GetSaleOrders returns matching orders with their portal link attached.
func (s *Service) GetSaleOrders(ctx context.Context, lookup OrderLookup) (orders []Record, err error) {
	startedAt := s.now()
	fields := map[string]any{"model": saleOrderModel}
	defer func() {
		fields["count"] = len(orders)
		s.observeOperation(ctx, startedAt, "get_sale_orders", err, fields)
	}()
	if lookup == nil {
		lookup = AllOrders{}
	}
	for key, value := range lookup.fields() {
		fields[key] = value
	}

	domain, err := lookup.orderDomain(s.config.CustomFields)
	if err != nil {
		return nil, s.mapError(err)
	}
	orders, err = s.search(ctx, SearchRequest{Model: saleOrderModel, Fields: s.saleOrderFields(), Domain: domain})
	if err != nil {
		return nil, s.mapError(err)
	}
	return s.withPortalLinks(orders), nil
}

func (s *Service) SaleOrdersByPartner(ctx context.Context, partnerID int64) (orders []Record, err error) {
	startedAt := s.now()
	fields := map[string]any{"model": saleOrderModel, "partner_id": partnerID}
	defer func() {
		fields["count"] = len(orders)
		s.observeOperation(ctx, startedAt, "sale_orders_by_partner", err, fields)
	}()
	if partnerID <= 0 {
		err = s.mapError(BadInputError("partner id must be positive", map[string]any{"partner_id": partnerID}))
		return nil, err
	}
	orders, err = s.search(ctx, SearchRequest{
		Model:  saleOrderModel,
		Fields: partnerOrderFields,
		Domain: All(Where("partner_id", OpEq, partnerID)),
	})
	if err != nil {
		return nil, s.mapError(err)
	}
	return s.withPortalLinks(orders), nil
}

// PortalLink builds the customer portal URL of an order, or "" when the
// order has no access_url.
func (s *Service) PortalLink(order Record) string {
	accessURL := order.String("access_url")
	if accessURL == "" {
		return ""
	}
	link := strings.TrimSuffix(s.config.BaseURL, "/") + accessURL
	if token := order.String("access_token"); token != "" {
		link += "?access_token=" + url.QueryEscape(token)
	}
	return link
}

func (s *Service) withPortalLinks(orders []Record) []Record {
	out := make([]Record, 0, len(orders))
	for _, order := range orders {
		linked := order.Clone()
		if link := s.PortalLink(order); link != "" {
			linked["link"] = link
		}
		out = append(out, linked)
	}
	return out
}

// OrdersByDate lists orders placed within the inclusive range, newest first.
func (s *Service) OrdersByDate(ctx context.Context, dates DateRange) (orders []Record, err error) {
	startedAt := s.now()
	fields := map[string]any{"model": saleOrderModel, "date_from": dates.From, "date_to": dates.To}
	defer func() {
		fields["count"] = len(orders)
		s.observeOperation(ctx, startedAt, "orders_by_date", err, fields)
	}()
	if strings.TrimSpace(dates.From) == "" || strings.TrimSpace(dates.To) == "" {
		err = s.mapError(BadInputError("date_from and date_to are required", nil))
		return nil, err
	}
	if err = dates.validate(); err != nil {
		return nil, s.mapError(err)
	}
	orders, err = s.search(ctx, SearchRequest{
		Model:  saleOrderModel,
		Fields: orderSummaryFields,
		Domain: All(dates.conditions("date_order")...),
		Order:  "date_order desc",
	})
	return orders, s.mapError(err)
}

// BuildOrderLines resolves each desired product by code. Missing, out of
// stock or invalid items are logged and excluded.
func (s *Service) BuildOrderLines(ctx context.Context, desired []DesiredProduct) (lines []OrderLine, err error) {
	startedAt := s.now()
	fields := map[string]any{"model": productTemplateModel, "requested": len(desired)}
	defer func() {
		fields["count"] = len(lines)
		s.observeOperation(ctx, startedAt, "build_order_lines", err, fields)
	}()
	lines, err = s.buildOrderLines(ctx, desired)
	return lines, s.mapError(err)
}

func (s *Service) buildOrderLines(ctx context.Context, desired []DesiredProduct) ([]OrderLine, error) {
	lines := make([]OrderLine, 0, len(desired))
	for _, item := range desired {
		sku := strings.TrimSpace(item.SKU)
		if sku == "" || item.Quantity <= 0 {
			s.logWarn(ctx, "order item excluded: invalid code or quantity", map[string]any{
				"sku":      sku,
				"quantity": item.Quantity,
			})
			continue
		}
		product, err := s.findProduct(ctx, ProductBySKU{SKU: sku}, true)
		if err != nil {
			if isTerminal(ctx, err) {
				return nil, err
			}
			s.logWarn(ctx, "order item excluded: product lookup failed", map[string]any{"sku": sku, "error": err.Error()})
			continue
		}
		if product == nil {
			s.logWarn(ctx, "order item excluded: product does not exist", map[string]any{"sku": sku})
			continue
		}
		if product.Float("qty_available") < 1 {
			s.logWarn(ctx, "order item excluded: out of stock", map[string]any{"sku": sku, "name": item.Name})
			continue
		}
		productID, ok := product.ID()
		if !ok {
			s.logWarn(ctx, "order item excluded: product has no id", map[string]any{"sku": sku})
			continue
		}
		price := product.Float("list_price")
		lines = append(lines, OrderLine{
			ProductID: productID,
			Quantity:  item.Quantity,
			PriceUnit: price,
			Total:     price * item.Quantity,
		})
	}
	return lines, nil
}

// CreateSaleOrder creates an order for partnerID with one create command per
// line and a fresh portal access token.
func (s *Service) CreateSaleOrder(ctx context.Context, partnerID int64, lines []OrderLine) (order Record, err error) {
	startedAt := s.now()
	fields := map[string]any{"model": saleOrderModel, "partner_id": partnerID, "lines": len(lines)}
	defer func() {
		s.observeOperation(ctx, startedAt, "create_sale_order", err, fields)
	}()
	order, err = s.createSaleOrder(ctx, partnerID, lines)
	return order, s.mapError(err)
}

func (s *Service) createSaleOrder(ctx context.Context, partnerID int64, lines []OrderLine) (Record, error) {
	if partnerID <= 0 {
		return nil, BadInputError("partner id must be positive", map[string]any{"partner_id": partnerID})
	}
	if len(lines) == 0 {
		return nil, BadInputError("sale order requires at least one line", map[string]any{"partner_id": partnerID})
	}
	commands := make([]any, 0, len(lines))
	for _, line := range lines {
		commands = append(commands, []any{0, 0, map[string]any{
			"product_id":      line.ProductID,
			"product_uom_qty": line.Quantity,
			"price_unit":      line.PriceUnit,
		}})
	}
	return s.create(ctx, saleOrderModel, Record{
		"partner_id":   partnerID,
		"order_line":   commands,
		"company_id":   s.config.CompanyID,
		"access_token": s.newAccessToken(),
	})
}

// CreateSaleOrderFromProducts builds the lines first and only creates the
// order when at least one product is orderable.
func (s *Service) CreateSaleOrderFromProducts(ctx context.Context, partnerID int64, desired []DesiredProduct) (order Record, err error) {
	startedAt := s.now()
	fields := map[string]any{"model": saleOrderModel, "partner_id": partnerID, "requested": len(desired)}
	defer func() {
		s.observeOperation(ctx, startedAt, "create_sale_order_from_products", err, fields)
	}()

	lines, err := s.buildOrderLines(ctx, desired)
	if err != nil {
		return nil, s.mapError(err)
	}
	fields["lines"] = len(lines)
	if len(lines) == 0 {
		err = s.mapError(BadInputError("none of the requested products can be ordered", map[string]any{
			"requested": len(desired),
		}))
		return nil, err
	}
	order, err = s.createSaleOrder(ctx, partnerID, lines)
	return order, s.mapError(err)
}

func (s *Service) CreateSaleOrderByProductID(ctx context.Context, partnerID int64, productID int64, quantity float64) (order Record, err error) {
	startedAt := s.now()
	fields := map[string]any{"model": saleOrderModel, "partner_id": partnerID, "product_id": productID}
	defer func() {
		s.observeOperation(ctx, startedAt, "create_sale_order_by_product_id", err, fields)
	}()
	if quantity <= 0 {
		quantity = 1
	}

	product, err := s.findProduct(ctx, ProductByID{ID: productID}, true)
	if err != nil {
		return nil, s.mapError(err)
	}
	if product == nil {
		err = s.mapError(NotFoundError(
			fmt.Sprintf("product %d not found", productID),
			map[string]any{"product_id": productID},
		))
		return nil, err
	}
	price := product.Float("list_price")
	order, err = s.createSaleOrder(ctx, partnerID, []OrderLine{{
		ProductID: productID,
		Quantity:  quantity,
		PriceUnit: price,
		Total:     price * quantity,
	}})
	return order, s.mapError(err)
}

var dateLayouts = []string{"2006-01-02", "2006-01-02 15:04:05", time.RFC3339}

func (d DateRange) validate() error {
	for key, value := range map[string]string{"date_from": d.From, "date_to": d.To} {
		if strings.TrimSpace(value) == "" {
			continue
		}
		if !isDate(value) {
			return BadInputError(
				fmt.Sprintf("%s must be YYYY-MM-DD or YYYY-MM-DD HH:MM:SS", key),
				map[string]any{key: value},
			)
		}
	}
	return nil
}

func isDate(value string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, strings.TrimSpace(value)); err == nil {
			return true
		}
	}
	return false
}

func (d DateRange) conditions(field string) []Condition {
	conditions := []Condition{}
	if strings.TrimSpace(d.From) != "" {
		conditions = append(conditions, Where(field, OpGte, strings.TrimSpace(d.From)))
	}
	if strings.TrimSpace(d.To) != "" {
		conditions = append(conditions, Where(field, OpLte, strings.TrimSpace(d.To)))
	}
	return conditions
}
