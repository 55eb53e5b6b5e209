package core

import (
	"encoding/json"
	"strings"
)

type Operator string

const (
	OpEq      Operator = "="
	OpNe      Operator = "!="
	OpGt      Operator = ">"
	OpGte     Operator = ">="
	OpLt      Operator = "<"
	OpLte     Operator = "<="
	OpILike   Operator = "ilike"
	OpIn      Operator = "in"
	OpNotIn   Operator = "not in"
	OpChildOf Operator = "child_of"
)

// Term is one element of a filter domain: a condition or a prefix logical
// operator.
type Term interface {
	domainTerm()
}

type Condition struct {
	Field    string
	Operator Operator
	Value    any
}

func (Condition) domainTerm() {}

func (c Condition) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{c.Field, string(c.Operator), c.Value})
}

type Logical string

const (
	LogicalOr  Logical = "|"
	LogicalAnd Logical = "&"
	LogicalNot Logical = "!"
)

func (Logical) domainTerm() {}

// Domain is a filter expression in the remote prefix notation. Adjacent
// terms are implicitly AND-ed.
type Domain []Term

func Where(field string, op Operator, value any) Condition {
	return Condition{Field: field, Operator: op, Value: value}
}

func All(conditions ...Condition) Domain {
	out := make(Domain, 0, len(conditions))
	for _, condition := range conditions {
		out = append(out, condition)
	}
	return out
}

// Or joins the conditions with n-1 leading "|" operators.
func Or(conditions ...Condition) Domain {
	if len(conditions) == 0 {
		return Domain{}
	}
	out := make(Domain, 0, len(conditions)*2-1)
	for i := 1; i < len(conditions); i++ {
		out = append(out, LogicalOr)
	}
	for _, condition := range conditions {
		out = append(out, condition)
	}
	return out
}

// And combines domains. Every complete expression at the top level is
// implicitly AND-ed by the remote side, so concatenation is enough.
func And(domains ...Domain) Domain {
	out := Domain{}
	for _, domain := range domains {
		out = append(out, domain...)
	}
	return out
}

// ILikePattern turns "Blue Widget" into "%Blue%Widget%".
func ILikePattern(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "%"
	}
	return "%" + strings.Join(fields, "%") + "%"
}

func NameContains(field string, query string) Condition {
	return Where(field, OpILike, ILikePattern(query))
}

func (d Domain) MarshalJSON() ([]byte, error) {
	items := make([]any, 0, len(d))
	for _, term := range d {
		switch typed := term.(type) {
		case Logical:
			items = append(items, string(typed))
		case Condition:
			items = append(items, typed)
		case *Condition:
			if typed != nil {
				items = append(items, *typed)
			}
		}
	}
	return json.Marshal(items)
}

func (d Domain) String() string {
	raw, err := d.MarshalJSON()
	if err != nil {
		return "[]"
	}
	return string(raw)
}
