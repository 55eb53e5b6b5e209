package core

import "testing"

func TestDedupByKey_FirstSeenWinsInEncounterOrder(t *testing.T) {
	items := []Record{
		{"default_code": "X", "name": "first"},
		{"default_code": "X", "name": "second"},
		{"default_code": "Y", "name": "third"},
	}
	out := DedupByKey(items, productCode)
	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out))
	}
	if out[0].String("default_code") != "X" || out[0].String("name") != "first" {
		t.Fatalf("expected first X record kept, got %#v", out[0])
	}
	if out[1].String("default_code") != "Y" {
		t.Fatalf("expected Y second, got %#v", out[1])
	}
}

func TestDedupByKey_EmptyInput(t *testing.T) {
	out := DedupByKey([]int(nil), func(v int) int { return v })
	if out == nil || len(out) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", out)
	}
}

func TestGroupAndSum_TopCustomerAggregation(t *testing.T) {
	orders := []Record{
		{"partner_id": []any{float64(1), "Acme"}, "amount_total": float64(50)},
		{"partner_id": []any{float64(1), "Acme"}, "amount_total": float64(30)},
		{"partner_id": []any{float64(2), "Beta"}, "amount_total": float64(10)},
	}
	groups := GroupAndSum(orders, Many2OneKey("partner_id"), []string{"amount_total"}, 1)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	top := groups[0]
	if top.Key != 1 || top.Label != "Acme" {
		t.Fatalf("expected partner 1 Acme, got %d %q", top.Key, top.Label)
	}
	if top.Totals["amount_total"] != 80 {
		t.Fatalf("expected total 80, got %v", top.Totals["amount_total"])
	}
	if top.Count != 2 {
		t.Fatalf("expected 2 orders, got %d", top.Count)
	}
}

func TestGroupAndSum_SortsByPrimaryMetricAndSkipsUnkeyed(t *testing.T) {
	lines := []Record{
		{"product_id": []any{float64(7), "Bolt"}, "product_uom_qty": float64(1), "price_total": float64(100)},
		{"product_id": false, "product_uom_qty": float64(99), "price_total": float64(1)},
		{"product_id": []any{float64(8), "Nut"}, "product_uom_qty": float64(5), "price_total": float64(10)},
		{"product_id": []any{float64(7), "Bolt"}, "product_uom_qty": float64(2), "price_total": float64(200)},
	}
	groups := GroupAndSum(lines, Many2OneKey("product_id"), []string{"product_uom_qty", "price_total"}, 0)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Key != 8 || groups[0].Totals["product_uom_qty"] != 5 {
		t.Fatalf("expected product 8 first by quantity, got %#v", groups[0])
	}
	if groups[1].Key != 7 || groups[1].Totals["price_total"] != 300 {
		t.Fatalf("expected product 7 revenue 300, got %#v", groups[1])
	}
}

func TestGroupAndSum_TiesKeepEncounterOrder(t *testing.T) {
	rows := []Record{
		{"partner_id": []any{float64(3), "C"}, "amount_total": float64(10)},
		{"partner_id": []any{float64(1), "A"}, "amount_total": float64(10)},
	}
	groups := GroupAndSum(rows, Many2OneKey("partner_id"), []string{"amount_total"}, 0)
	if groups[0].Key != 3 || groups[1].Key != 1 {
		t.Fatalf("expected encounter order for ties, got %d,%d", groups[0].Key, groups[1].Key)
	}
}
