package query

import (
	"context"
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-odoo/core"
)

type stubReader struct {
	partnerLookup  core.PartnerLookup
	productLookup  core.ProductLookup
	templateFirst  bool
	categoryLookup core.CategoryLookup
	orderLookup    core.OrderLookup
	dates          core.DateRange
	limit          int
	filter         core.ActivityFilter
	err            error
}

func (s *stubReader) GetPartner(_ context.Context, lookup core.PartnerLookup) (core.Record, error) {
	s.partnerLookup = lookup
	return core.Record{"id": float64(7)}, s.err
}

func (s *stubReader) GetProduct(_ context.Context, lookup core.ProductLookup, templateFirst bool) (core.Record, error) {
	s.productLookup = lookup
	s.templateFirst = templateFirst
	return core.Record{"id": float64(10)}, s.err
}

func (s *stubReader) SearchProductsByName(context.Context, string) ([]core.Record, error) {
	return []core.Record{{"id": float64(1)}}, s.err
}

func (s *stubReader) ListProducts(context.Context) ([]core.Record, error) {
	return []core.Record{{"id": float64(1)}, {"id": float64(2)}}, s.err
}

func (s *stubReader) ProductImages(context.Context, int64, string) ([]core.BinaryPayload, error) {
	return []core.BinaryPayload{{Name: "SKU_0.jpg"}}, s.err
}

func (s *stubReader) GetCategories(_ context.Context, lookup core.CategoryLookup) ([]core.Record, error) {
	s.categoryLookup = lookup
	return nil, s.err
}

func (s *stubReader) ProductsByCategoryID(context.Context, int64) ([]core.Record, error) {
	return nil, s.err
}

func (s *stubReader) ProductsByCategoryName(context.Context, string) (map[string][]core.Record, error) {
	return map[string][]core.Record{"Chairs": nil}, s.err
}

func (s *stubReader) GetSaleOrders(_ context.Context, lookup core.OrderLookup) ([]core.Record, error) {
	s.orderLookup = lookup
	return nil, s.err
}

func (s *stubReader) SaleOrdersByPartner(context.Context, int64) ([]core.Record, error) {
	return nil, s.err
}

func (s *stubReader) OrdersByDate(_ context.Context, dates core.DateRange) ([]core.Record, error) {
	s.dates = dates
	return nil, s.err
}

func (s *stubReader) BuildOrderLines(context.Context, []core.DesiredProduct) ([]core.OrderLine, error) {
	return []core.OrderLine{{ProductID: 10, Quantity: 1}}, s.err
}

func (s *stubReader) SaleOrderReport(_ context.Context, orderID int64, raw bool) (core.BinaryPayload, error) {
	return core.BinaryPayload{Name: "report.pdf"}, s.err
}

func (s *stubReader) PendingInvoices(context.Context, int64) ([]core.Record, error) {
	return nil, s.err
}

func (s *stubReader) TopCustomers(_ context.Context, dates core.DateRange, limit int) ([]core.CustomerTotal, error) {
	s.dates = dates
	s.limit = limit
	return nil, s.err
}

func (s *stubReader) TopSellingProducts(_ context.Context, dates core.DateRange, limit int) ([]core.ProductSales, error) {
	s.dates = dates
	s.limit = limit
	return nil, s.err
}

func (s *stubReader) HelpdeskTickets(context.Context, int64) ([]core.Record, error) {
	return nil, s.err
}

func (s *stubReader) ReplenishmentInfo(context.Context, int64) ([]core.Record, error) {
	return nil, s.err
}

func (s *stubReader) ListActivity(_ context.Context, filter core.ActivityFilter) (core.ActivityPage, error) {
	s.filter = filter
	return core.ActivityPage{Total: 3}, s.err
}

func TestGetPartnerQuery_BuildsLookupFromSelector(t *testing.T) {
	reader := &stubReader{}
	record, err := NewGetPartnerQuery(reader).Query(context.Background(), GetPartnerMessage{Phone: "+1555"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if id, _ := record.ID(); id != 7 {
		t.Fatalf("expected partner 7, got %v", record)
	}
	lookup, ok := reader.partnerLookup.(core.PartnerByPhone)
	if !ok || lookup.Phone != "+1555" {
		t.Fatalf("expected phone lookup, got %#v", reader.partnerLookup)
	}
}

func TestGetPartnerQuery_RejectsAmbiguousSelectors(t *testing.T) {
	reader := &stubReader{}
	_, err := NewGetPartnerQuery(reader).Query(context.Background(), GetPartnerMessage{ID: 1, Email: "a@b.c"})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !core.HasTextCode(err, core.ErrorBadInput) {
		t.Fatalf("expected bad input code, got %v", err)
	}
	if reader.partnerLookup != nil {
		t.Fatalf("expected reader not to be called")
	}
}

func TestGetProductQuery_ForwardsTemplateFirst(t *testing.T) {
	reader := &stubReader{}
	_, err := NewGetProductQuery(reader).Query(context.Background(), GetProductMessage{SKU: "SKU7", TemplateFirst: true})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if !reader.templateFirst {
		t.Fatalf("expected template-first flag to be forwarded")
	}
	if lookup, ok := reader.productLookup.(core.ProductBySKU); !ok || lookup.SKU != "SKU7" {
		t.Fatalf("expected sku lookup, got %#v", reader.productLookup)
	}
}

func TestGetCategoriesQuery_DefaultsToAll(t *testing.T) {
	reader := &stubReader{}
	if _, err := NewGetCategoriesQuery(reader).Query(context.Background(), GetCategoriesMessage{}); err != nil {
		t.Fatalf("query: %v", err)
	}
	if _, ok := reader.categoryLookup.(core.AllCategories); !ok {
		t.Fatalf("expected all-categories lookup, got %#v", reader.categoryLookup)
	}
}

func TestGetSaleOrdersQuery_SelectsMarketplace(t *testing.T) {
	reader := &stubReader{}
	if _, err := NewGetSaleOrdersQuery(reader).Query(context.Background(), GetSaleOrdersMessage{Marketplace: "MELI-1"}); err != nil {
		t.Fatalf("query: %v", err)
	}
	if lookup, ok := reader.orderLookup.(core.OrderByMarketplace); !ok || lookup.Marketplace != "MELI-1" {
		t.Fatalf("expected marketplace lookup, got %#v", reader.orderLookup)
	}
}

func TestReportingQueries_ForwardDatesAndLimit(t *testing.T) {
	reader := &stubReader{}
	dates := core.DateRange{From: "2026-01-01", To: "2026-01-31"}
	if _, err := NewTopCustomersQuery(reader).Query(context.Background(), TopCustomersMessage{Dates: dates, Limit: 5}); err != nil {
		t.Fatalf("top customers: %v", err)
	}
	if reader.dates != dates || reader.limit != 5 {
		t.Fatalf("unexpected forwarded values: %#v %d", reader.dates, reader.limit)
	}
	if _, err := NewTopSellingProductsQuery(reader).Query(context.Background(), TopSellingProductsMessage{Limit: 3}); err != nil {
		t.Fatalf("top selling: %v", err)
	}
	if reader.limit != 3 {
		t.Fatalf("expected limit 3, got %d", reader.limit)
	}
}

func TestListActivityQuery_ForwardsFilter(t *testing.T) {
	reader := &stubReader{}
	page, err := NewListActivityQuery(reader).Query(context.Background(), ListActivityMessage{
		Filter: core.ActivityFilter{Operation: "create_partner", PerPage: 10},
	})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if page.Total != 3 || reader.filter.Operation != "create_partner" {
		t.Fatalf("unexpected page or filter: %#v %#v", page, reader.filter)
	}
}

func TestQueries_PropagateReaderErrors(t *testing.T) {
	sentinel := errors.New("remote down")
	reader := &stubReader{err: sentinel}
	if _, err := NewListProductsQuery(reader).Query(context.Background(), ListProductsMessage{}); !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel from list products, got %v", err)
	}
	if _, err := NewSaleOrderReportQuery(reader).Query(context.Background(), SaleOrderReportMessage{OrderID: 42}); !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel from report, got %v", err)
	}
}

func TestMessages_Validate(t *testing.T) {
	tests := []struct {
		name    string
		msg     interface{ Validate() error }
		wantErr bool
	}{
		{name: "search name required", msg: SearchProductsByNameMessage{Name: " "}, wantErr: true},
		{name: "search name ok", msg: SearchProductsByNameMessage{Name: "Blue Widget"}},
		{name: "images product id", msg: ProductImagesMessage{}, wantErr: true},
		{name: "category id", msg: ProductsByCategoryIDMessage{}, wantErr: true},
		{name: "category name", msg: ProductsByCategoryNameMessage{}, wantErr: true},
		{name: "orders by partner", msg: SaleOrdersByPartnerMessage{PartnerID: -1}, wantErr: true},
		{name: "orders by date missing to", msg: OrdersByDateMessage{Dates: core.DateRange{From: "2026-01-01"}}, wantErr: true},
		{name: "orders by date ok", msg: OrdersByDateMessage{Dates: core.DateRange{From: "2026-01-01", To: "2026-01-31"}}},
		{name: "build lines empty", msg: BuildOrderLinesMessage{}, wantErr: true},
		{name: "report order id", msg: SaleOrderReportMessage{}, wantErr: true},
		{name: "pending invoices", msg: PendingInvoicesMessage{}, wantErr: true},
		{name: "top customers negative limit", msg: TopCustomersMessage{Limit: -1}, wantErr: true},
		{name: "helpdesk partner", msg: HelpdeskTicketsMessage{}, wantErr: true},
		{name: "replenishment all", msg: ReplenishmentInfoMessage{}},
		{name: "activity negative page", msg: ListActivityMessage{Filter: core.ActivityFilter{Page: -1}}, wantErr: true},
		{name: "partner lookup empty", msg: GetPartnerMessage{}, wantErr: true},
		{name: "orders lookup all", msg: GetSaleOrdersMessage{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.msg.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestMessages_ValidationErrorsAreRich(t *testing.T) {
	err := OrdersByDateMessage{}.Validate()
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected rich error, got %T", err)
	}
	if rich.Category != goerrors.CategoryValidation {
		t.Fatalf("expected validation category, got %s", rich.Category)
	}
	if rich.TextCode != core.ErrorBadInput {
		t.Fatalf("expected bad input text code, got %q", rich.TextCode)
	}
}

func TestQueries_NilReaderReturnsDependencyError(t *testing.T) {
	var q *GetPartnerQuery
	_, err := q.Query(context.Background(), GetPartnerMessage{ID: 1})
	if !core.HasTextCode(err, core.ErrorDependencyNotConfigured) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	_, err = NewListActivityQuery(nil).Query(context.Background(), ListActivityMessage{})
	if !core.HasTextCode(err, core.ErrorDependencyNotConfigured) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
