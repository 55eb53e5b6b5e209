package core

import "context"

const (
	stockRuleModel        = "stock.rule"
	procurementGroupModel = "procurement.group"
)

var replenishmentFields = []string{
	"id", "product_id", "product_qty", "product_uom_id", "date_planned", "origin",
	"state", "priority", "rule_id", "warehouse_id",
}

// ReplenishmentInfo reads stock rules, for one product when productID > 0.
// Instances without stock rules fall back to open procurement groups; when
// neither model is available the result is empty.
func (s *Service) ReplenishmentInfo(ctx context.Context, productID int64) (items []Record, err error) {
	startedAt := s.now()
	fields := map[string]any{"model": stockRuleModel, "product_id": productID}
	defer func() {
		fields["count"] = len(items)
		s.observeOperation(ctx, startedAt, "replenishment_info", err, fields)
	}()

	domain := All(Where("state", OpIn, []string{"confirmed", "assigned", "waiting"}))
	if productID > 0 {
		domain = All(Where("product_id", OpEq, productID))
	}
	items, err = s.search(ctx, SearchRequest{
		Model:  stockRuleModel,
		Fields: replenishmentFields,
		Domain: domain,
		Order:  "date_planned asc",
		Limit:  100,
	})
	if err == nil {
		return items, nil
	}
	if isTerminal(ctx, err) {
		return nil, s.mapError(err)
	}
	s.logWarn(ctx, "stock rules unavailable, using procurement groups", map[string]any{"error": err.Error()})

	fields["model"] = procurementGroupModel
	items, err = s.search(ctx, SearchRequest{
		Model:  procurementGroupModel,
		Fields: []string{"id", "name", "partner_id", "move_type", "state"},
		Domain: All(Where("state", OpNe, "done")),
		Limit:  50,
	})
	if err == nil {
		return items, nil
	}
	if isTerminal(ctx, err) {
		return nil, s.mapError(err)
	}
	s.logWarn(ctx, "no replenishment models available", map[string]any{"error": err.Error()})
	return []Record{}, nil
}
