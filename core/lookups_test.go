package core

import "testing"

func TestPartnerLookup_IDSearchesByID(t *testing.T) {
	domain, err := PartnerByID{ID: 7}.partnerDomain()
	if err != nil {
		t.Fatalf("partner domain: %v", err)
	}
	if got := domain.String(); got != `[["id","=",7]]` {
		t.Fatalf("expected id domain, got %s", got)
	}
}

func TestNewPartnerLookup_RequiresExactlyOneSelector(t *testing.T) {
	if _, err := NewPartnerLookup(0, "", ""); !HasTextCode(err, ErrorBadInput) {
		t.Fatalf("expected bad input for no selector, got %v", err)
	}
	if _, err := NewPartnerLookup(3, "+1555", ""); !HasTextCode(err, ErrorBadInput) {
		t.Fatalf("expected bad input for two selectors, got %v", err)
	}
	lookup, err := NewPartnerLookup(0, "", "a@b.c")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if _, ok := lookup.(PartnerByEmail); !ok {
		t.Fatalf("expected email lookup, got %T", lookup)
	}
}

func TestNewOrderLookup_DefaultsToAllOrders(t *testing.T) {
	lookup, err := NewOrderLookup(0, "", "")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	domain, err := lookup.orderDomain(DefaultConfig().CustomFields)
	if err != nil {
		t.Fatalf("order domain: %v", err)
	}
	if got := domain.String(); got != `[["amount_total",">",0]]` {
		t.Fatalf("expected all-orders domain, got %s", got)
	}
}

func TestOrderByName_MatchesNameReferenceAndOrigin(t *testing.T) {
	domain, err := OrderByName{Name: "S0042"}.orderDomain(DefaultConfig().CustomFields)
	if err != nil {
		t.Fatalf("order domain: %v", err)
	}
	want := `["|","|",["name","ilike","%S0042%"],["reference_request","ilike","%S0042%"],["origin","ilike","%S0042%"]]`
	if got := domain.String(); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestNewCategoryLookup_Selectors(t *testing.T) {
	lookup, err := NewCategoryLookup(0, "", 9, 0)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	domain, err := lookup.categoryDomain()
	if err != nil {
		t.Fatalf("category domain: %v", err)
	}
	if got := domain.String(); got != `[["parent_id","=",9]]` {
		t.Fatalf("expected parent domain, got %s", got)
	}
	if _, err := NewCategoryLookup(1, "x", 0, 0); err == nil {
		t.Fatalf("expected error for two selectors")
	}
	all, err := NewCategoryLookup(0, "", 0, 0)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if _, ok := all.(AllCategories); !ok {
		t.Fatalf("expected AllCategories, got %T", all)
	}
}

func TestProductLookup_RejectsBlankSelectors(t *testing.T) {
	if _, err := (ProductBySKU{SKU: "  "}).productDomain(); !HasTextCode(err, ErrorBadInput) {
		t.Fatalf("expected bad input for blank sku, got %v", err)
	}
	if _, err := (ProductByID{}).productDomain(); !HasTextCode(err, ErrorBadInput) {
		t.Fatalf("expected bad input for zero id, got %v", err)
	}
}
