package core

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestTopCustomers_GroupsByPartner(t *testing.T) {
	store := newStubRecordStore().on(saleOrderModel, records(
		Record{"partner_id": []any{float64(1), "Ana"}, "amount_total": 50.0},
		Record{"partner_id": []any{float64(2), "Luis"}, "amount_total": 70.0},
		Record{"partner_id": []any{float64(1), "Ana"}, "amount_total": 30.0},
		Record{"partner_id": false, "amount_total": 500.0},
	))
	svc, err := newTestService(store)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	customers, err := svc.TopCustomers(context.Background(), DateRange{From: "2026-01-01"}, 1)
	if err != nil {
		t.Fatalf("top customers: %v", err)
	}
	if len(customers) != 1 {
		t.Fatalf("expected one customer, got %#v", customers)
	}
	top := customers[0]
	if top.PartnerID != 1 || top.PartnerName != "Ana" || top.AmountTotal != 80 || top.Orders != 2 {
		t.Fatalf("unexpected top customer %#v", top)
	}
	call := store.searchCalls(saleOrderModel)[0]
	want := `[["state","in",["sale","done"]],["date_order",">=","2026-01-01"]]`
	if got := call.Domain.String(); got != want || call.Limit != topCustomersOrderWindow {
		t.Fatalf("unexpected request %s limit %d", got, call.Limit)
	}
}

func TestTopSellingProducts_RanksByQuantity(t *testing.T) {
	store := newStubRecordStore().on(saleOrderLineModel, records(
		Record{"product_id": []any{float64(5), "Pen"}, "product_uom_qty": 3.0, "price_total": 6.0},
		Record{"product_id": []any{float64(6), "Ink"}, "product_uom_qty": 10.0, "price_total": 50.0},
		Record{"product_id": []any{float64(5), "Pen"}, "product_uom_qty": 4.0, "price_total": 8.0},
	))
	svc, err := newTestService(store)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	products, err := svc.TopSellingProducts(context.Background(), DateRange{}, 0)
	if err != nil {
		t.Fatalf("top selling products: %v", err)
	}
	if len(products) != 2 || products[0].ProductID != 6 {
		t.Fatalf("expected Ink first, got %#v", products)
	}
	if products[1].Quantity != 7 || products[1].Revenue != 14 {
		t.Fatalf("unexpected totals %#v", products[1])
	}
}

func TestPendingInvoices_Domain(t *testing.T) {
	store := newStubRecordStore()
	svc, err := newTestService(store)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	invoices, err := svc.PendingInvoices(context.Background(), 4)
	if err != nil {
		t.Fatalf("pending invoices: %v", err)
	}
	if invoices == nil || len(invoices) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", invoices)
	}
	want := `[["partner_id","=",4],["move_type","=","out_invoice"],["payment_state","!=","paid"]]`
	if got := store.searchCalls(accountMoveModel)[0].Domain.String(); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestReplenishmentInfo_FallsBackToProcurementGroups(t *testing.T) {
	store := newStubRecordStore().
		on(stockRuleModel, failing(errors.New("transport: remote returned status 500: unknown field"))).
		on(procurementGroupModel, records(Record{"id": float64(1), "state": "confirmed"}))
	svc, err := newTestService(store)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	items, err := svc.ReplenishmentInfo(context.Background(), 0)
	if err != nil {
		t.Fatalf("replenishment info: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected procurement group fallback, got %#v", items)
	}
}

func TestReplenishmentInfo_EmptyWhenNothingAvailable(t *testing.T) {
	failure := failing(errors.New("transport: remote returned status 500"))
	store := newStubRecordStore().on(stockRuleModel, failure).on(procurementGroupModel, failure)
	svc, err := newTestService(store)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	items, err := svc.ReplenishmentInfo(context.Background(), 9)
	if err != nil {
		t.Fatalf("replenishment info: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty list, got %#v", items)
	}
	if got := store.searchCalls(stockRuleModel)[0].Domain.String(); got != `[["product_id","=",9]]` {
		t.Fatalf("unexpected stock rule domain %s", got)
	}
}

func TestReplenishmentInfo_AuthFailureAborts(t *testing.T) {
	authErr := MapError(errors.New("persistent authentication failure"))
	store := newStubRecordStore().on(stockRuleModel, failing(authErr))
	svc, err := newTestService(store)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if _, err := svc.ReplenishmentInfo(context.Background(), 0); !HasTextCode(err, ErrorPersistentAuthFailure) {
		t.Fatalf("expected auth failure, got %v", err)
	}
	if len(store.searchCalls(procurementGroupModel)) != 0 {
		t.Fatalf("expected no fallback after auth failure")
	}
}

func TestSaleOrderReport_ReturnsPayload(t *testing.T) {
	store := newStubRecordStore()
	store.reportFn = func(req ReportRequest) ([]byte, error) {
		return []byte("%PDF"), nil
	}
	svc, err := newTestService(store)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	report, err := svc.SaleOrderReport(context.Background(), 42, true)
	if err != nil {
		t.Fatalf("sale order report: %v", err)
	}
	if report.Name != "42.pdf" || report.Path != filepath.Join("static/reports", "42.pdf") || report.ContentType != "application/pdf" {
		t.Fatalf("unexpected report payload %#v", report)
	}
	if len(store.reports) != 1 || store.reports[0].Report != saleOrderRawReport || store.reports[0].IDs[0] != 42 {
		t.Fatalf("unexpected report request %#v", store.reports)
	}
}

func TestProductsByCategoryID_SkipsFailingCategory(t *testing.T) {
	store := newStubRecordStore().
		on(categoryModel, categoryTree(map[int64][]Record{1: {category(2), category(3)}})).
		on(productVariantModel, func(req SearchRequest) ([]Record, error) {
			switch req.Domain[0].(Condition).Value.(int64) {
			case 2:
				return nil, errors.New("transport: remote returned status 500")
			case 3:
				return []Record{{"id": float64(30)}}, nil
			default:
				return []Record{{"id": float64(10)}}, nil
			}
		})
	svc, err := newTestService(store)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	products, err := svc.ProductsByCategoryID(context.Background(), 1)
	if err != nil {
		t.Fatalf("products by category: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected products of categories 1 and 3, got %#v", products)
	}
	for _, call := range store.searchCalls(productVariantModel) {
		if call.Limit != productsPerCategoryLimit {
			t.Fatalf("expected per category limit, got %d", call.Limit)
		}
	}
}
