package cli

import (
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-odoo/core"
)

// parseDesiredProducts reads SKU:QTY pairs. A missing quantity means 1.
func parseDesiredProducts(values []string) ([]core.DesiredProduct, error) {
	out := make([]core.DesiredProduct, 0, len(values))
	for _, value := range values {
		sku, qtyText, hasQty := strings.Cut(strings.TrimSpace(value), ":")
		sku = strings.TrimSpace(sku)
		if sku == "" {
			return nil, core.BadInputError("product entries must look like SKU:QTY", map[string]any{"value": value})
		}
		qty := 1.0
		if hasQty {
			parsed, err := strconv.ParseFloat(strings.TrimSpace(qtyText), 64)
			if err != nil || parsed <= 0 {
				return nil, core.BadInputError("product quantity must be a positive number", map[string]any{"value": value})
			}
			qty = parsed
		}
		out = append(out, core.DesiredProduct{SKU: sku, Quantity: qty})
	}
	return out, nil
}

// parseOrderLines reads PRODUCT_ID:QTY[:PRICE] triples.
func parseOrderLines(values []string) ([]core.OrderLine, error) {
	out := make([]core.OrderLine, 0, len(values))
	for _, value := range values {
		parts := strings.Split(strings.TrimSpace(value), ":")
		if len(parts) < 2 || len(parts) > 3 {
			return nil, core.BadInputError("order lines must look like PRODUCT_ID:QTY[:PRICE]", map[string]any{"value": value})
		}
		productID, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
		if err != nil || productID <= 0 {
			return nil, core.BadInputError("order line product id must be a positive integer", map[string]any{"value": value})
		}
		qty, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil || qty <= 0 {
			return nil, core.BadInputError("order line quantity must be a positive number", map[string]any{"value": value})
		}
		line := core.OrderLine{ProductID: productID, Quantity: qty}
		if len(parts) == 3 {
			price, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
			if err != nil || price < 0 {
				return nil, core.BadInputError("order line price must be a non-negative number", map[string]any{"value": value})
			}
			line.PriceUnit = price
			line.Total = price * qty
		}
		out = append(out, line)
	}
	return out, nil
}

// parseTimeFlag accepts RFC3339 or a plain date. Empty means unset.
func parseTimeFlag(name string, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if parsed, err := time.Parse(layout, value); err == nil {
			parsed = parsed.UTC()
			return &parsed, nil
		}
	}
	return nil, core.BadInputError("--"+name+" must be RFC3339 or YYYY-MM-DD", map[string]any{"value": value})
}
