package core

import (
	"encoding/json"
	"testing"
)

func TestILikePattern_ConvertsWhitespaceToWildcards(t *testing.T) {
	cases := map[string]string{
		"Blue Widget":        "%Blue%Widget%",
		"  Blue   Widget  ":  "%Blue%Widget%",
		"widget":             "%widget%",
		"":                   "%",
		"Blue\tLarge Widget": "%Blue%Large%Widget%",
	}
	for input, want := range cases {
		if got := ILikePattern(input); got != want {
			t.Fatalf("ILikePattern(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestDomain_NameSearchUsesWildcardPattern(t *testing.T) {
	domain, err := ProductByName{Name: "Blue Widget"}.productDomain()
	if err != nil {
		t.Fatalf("product domain: %v", err)
	}
	if got := domain.String(); got != `[["name","ilike","%Blue%Widget%"]]` {
		t.Fatalf("unexpected product domain %s", got)
	}

	domain, err = CategoryByName{Name: "Blue Widget"}.categoryDomain()
	if err != nil {
		t.Fatalf("category domain: %v", err)
	}
	if got := domain.String(); got != `[["name","ilike","%Blue%Widget%"]]` {
		t.Fatalf("unexpected category domain %s", got)
	}
}

func TestDomain_MarshalsPrefixOperators(t *testing.T) {
	domain := Or(
		Where("name", OpILike, "a"),
		Where("origin", OpILike, "a"),
		Where("reference", OpILike, "a"),
	)
	raw, err := json.Marshal(domain)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `["|","|",["name","ilike","a"],["origin","ilike","a"],["reference","ilike","a"]]`
	if string(raw) != want {
		t.Fatalf("expected %s, got %s", want, raw)
	}
}

func TestDomain_EmptyMarshalsAsEmptyList(t *testing.T) {
	var domain Domain
	if got := domain.String(); got != "[]" {
		t.Fatalf("expected [], got %s", got)
	}
	if got := Or().String(); got != "[]" {
		t.Fatalf("expected [] for empty or, got %s", got)
	}
}

func TestDomain_AndConcatenatesCompleteExpressions(t *testing.T) {
	domain := And(
		Or(Where("a", OpEq, 1), Where("b", OpEq, 2)),
		All(Where("c", OpIn, []string{"x", "y"})),
	)
	want := `["|",["a","=",1],["b","=",2],["c","in",["x","y"]]]`
	if got := domain.String(); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}
