package core

import (
	"fmt"
	"strings"
)

// PartnerLookup selects partners by exactly one key.
type PartnerLookup interface {
	partnerDomain() (Domain, error)
	fields() map[string]any
}

type PartnerByID struct{ ID int64 }

type PartnerByPhone struct{ Phone string }

type PartnerByEmail struct{ Email string }

func (l PartnerByID) partnerDomain() (Domain, error) {
	if l.ID <= 0 {
		return nil, BadInputError("partner id must be positive", map[string]any{"id": l.ID})
	}
	return All(Where("id", OpEq, l.ID)), nil
}

func (l PartnerByID) fields() map[string]any { return map[string]any{"partner_id": l.ID} }

func (l PartnerByPhone) partnerDomain() (Domain, error) {
	phone := strings.TrimSpace(l.Phone)
	if phone == "" {
		return nil, BadInputError("partner phone is required", nil)
	}
	return All(Where("phone", OpEq, phone)), nil
}

func (l PartnerByPhone) fields() map[string]any { return map[string]any{"lookup": "phone"} }

func (l PartnerByEmail) partnerDomain() (Domain, error) {
	email := strings.TrimSpace(l.Email)
	if email == "" {
		return nil, BadInputError("partner email is required", nil)
	}
	return All(Where("email", OpEq, email)), nil
}

func (l PartnerByEmail) fields() map[string]any { return map[string]any{"lookup": "email"} }

// ProductLookup selects products by exactly one key.
type ProductLookup interface {
	productDomain() (Domain, error)
	fields() map[string]any
}

type ProductByID struct{ ID int64 }

type ProductBySKU struct{ SKU string }

type ProductByName struct{ Name string }

func (l ProductByID) productDomain() (Domain, error) {
	if l.ID <= 0 {
		return nil, BadInputError("product id must be positive", map[string]any{"id": l.ID})
	}
	return All(Where("id", OpEq, l.ID)), nil
}

func (l ProductByID) fields() map[string]any { return map[string]any{"product_id": l.ID} }

func (l ProductBySKU) productDomain() (Domain, error) {
	sku := strings.TrimSpace(l.SKU)
	if sku == "" {
		return nil, BadInputError("product sku is required", nil)
	}
	return All(Where("default_code", OpEq, sku)), nil
}

func (l ProductBySKU) fields() map[string]any { return map[string]any{"sku": l.SKU} }

func (l ProductByName) productDomain() (Domain, error) {
	if strings.TrimSpace(l.Name) == "" {
		return nil, BadInputError("product name is required", nil)
	}
	return All(NameContains("name", l.Name)), nil
}

func (l ProductByName) fields() map[string]any { return map[string]any{"name": l.Name} }

// OrderLookup selects sale orders.
type OrderLookup interface {
	orderDomain(custom CustomFieldsConfig) (Domain, error)
	fields() map[string]any
}

type OrderByID struct{ ID int64 }

// OrderByName matches the order name, the customer reference or the origin.
type OrderByName struct{ Name string }

type OrderByMarketplace struct{ Marketplace string }

type AllOrders struct{}

func (l OrderByID) orderDomain(CustomFieldsConfig) (Domain, error) {
	if l.ID <= 0 {
		return nil, BadInputError("order id must be positive", map[string]any{"id": l.ID})
	}
	return All(Where("id", OpEq, l.ID)), nil
}

func (l OrderByID) fields() map[string]any { return map[string]any{"order_id": l.ID} }

func (l OrderByName) orderDomain(custom CustomFieldsConfig) (Domain, error) {
	if strings.TrimSpace(l.Name) == "" {
		return nil, BadInputError("order name is required", nil)
	}
	conditions := []Condition{NameContains("name", l.Name)}
	if field := strings.TrimSpace(custom.OrderReference); field != "" {
		conditions = append(conditions, NameContains(field, l.Name))
	}
	conditions = append(conditions, NameContains("origin", l.Name))
	return Or(conditions...), nil
}

func (l OrderByName) fields() map[string]any { return map[string]any{"name": l.Name} }

func (l OrderByMarketplace) orderDomain(custom CustomFieldsConfig) (Domain, error) {
	marketplace := strings.TrimSpace(l.Marketplace)
	if marketplace == "" {
		return nil, BadInputError("marketplace is required", nil)
	}
	field := strings.TrimSpace(custom.Marketplace)
	if field == "" {
		return nil, BadInputError("marketplace field is not configured", nil)
	}
	return All(Where(field, OpILike, marketplace)), nil
}

func (l OrderByMarketplace) fields() map[string]any {
	return map[string]any{"marketplace": l.Marketplace}
}

func (AllOrders) orderDomain(CustomFieldsConfig) (Domain, error) {
	return All(Where("amount_total", OpGt, 0)), nil
}

func (AllOrders) fields() map[string]any { return map[string]any{"lookup": "all"} }

// CategoryLookup selects product categories.
type CategoryLookup interface {
	categoryDomain() (Domain, error)
	fields() map[string]any
}

type CategoryByID struct{ ID int64 }

type CategoryByName struct{ Name string }

// CategoryByParent lists the direct children of a category.
type CategoryByParent struct{ ParentID int64 }

// CategoryByChild finds the parent of a category.
type CategoryByChild struct{ ChildID int64 }

type AllCategories struct{}

func (l CategoryByID) categoryDomain() (Domain, error) {
	if l.ID <= 0 {
		return nil, BadInputError("category id must be positive", map[string]any{"id": l.ID})
	}
	return All(Where("id", OpEq, l.ID)), nil
}

func (l CategoryByID) fields() map[string]any { return map[string]any{"category_id": l.ID} }

func (l CategoryByName) categoryDomain() (Domain, error) {
	if strings.TrimSpace(l.Name) == "" {
		return nil, BadInputError("category name is required", nil)
	}
	return All(NameContains("name", l.Name)), nil
}

func (l CategoryByName) fields() map[string]any { return map[string]any{"name": l.Name} }

func (l CategoryByParent) categoryDomain() (Domain, error) {
	if l.ParentID <= 0 {
		return nil, BadInputError("parent category id must be positive", map[string]any{"parent_id": l.ParentID})
	}
	return All(Where("parent_id", OpEq, l.ParentID)), nil
}

func (l CategoryByParent) fields() map[string]any { return map[string]any{"parent_id": l.ParentID} }

func (l CategoryByChild) categoryDomain() (Domain, error) {
	if l.ChildID <= 0 {
		return nil, BadInputError("child category id must be positive", map[string]any{"child_id": l.ChildID})
	}
	return All(Where("child_id", OpEq, l.ChildID)), nil
}

func (l CategoryByChild) fields() map[string]any { return map[string]any{"child_id": l.ChildID} }

func (AllCategories) categoryDomain() (Domain, error) { return Domain{}, nil }

func (AllCategories) fields() map[string]any { return map[string]any{"lookup": "all"} }

// NewPartnerLookup builds a lookup from loosely typed input and enforces that
// exactly one selector is set.
func NewPartnerLookup(id int64, phone string, email string) (PartnerLookup, error) {
	var selected []PartnerLookup
	if id != 0 {
		selected = append(selected, PartnerByID{ID: id})
	}
	if strings.TrimSpace(phone) != "" {
		selected = append(selected, PartnerByPhone{Phone: phone})
	}
	if strings.TrimSpace(email) != "" {
		selected = append(selected, PartnerByEmail{Email: email})
	}
	if len(selected) != 1 {
		return nil, exactlyOneError("partner", len(selected))
	}
	return selected[0], nil
}

func NewProductLookup(id int64, sku string, name string) (ProductLookup, error) {
	var selected []ProductLookup
	if id != 0 {
		selected = append(selected, ProductByID{ID: id})
	}
	if strings.TrimSpace(sku) != "" {
		selected = append(selected, ProductBySKU{SKU: sku})
	}
	if strings.TrimSpace(name) != "" {
		selected = append(selected, ProductByName{Name: name})
	}
	if len(selected) != 1 {
		return nil, exactlyOneError("product", len(selected))
	}
	return selected[0], nil
}

// NewOrderLookup returns AllOrders when no selector is set.
func NewOrderLookup(id int64, name string, marketplace string) (OrderLookup, error) {
	var selected []OrderLookup
	if id != 0 {
		selected = append(selected, OrderByID{ID: id})
	}
	if strings.TrimSpace(name) != "" {
		selected = append(selected, OrderByName{Name: name})
	}
	if strings.TrimSpace(marketplace) != "" {
		selected = append(selected, OrderByMarketplace{Marketplace: marketplace})
	}
	switch len(selected) {
	case 0:
		return AllOrders{}, nil
	case 1:
		return selected[0], nil
	default:
		return nil, exactlyOneError("order", len(selected))
	}
}

// NewCategoryLookup returns AllCategories when no selector is set.
func NewCategoryLookup(id int64, name string, parentID int64, childID int64) (CategoryLookup, error) {
	var selected []CategoryLookup
	if id != 0 {
		selected = append(selected, CategoryByID{ID: id})
	}
	if strings.TrimSpace(name) != "" {
		selected = append(selected, CategoryByName{Name: name})
	}
	if parentID != 0 {
		selected = append(selected, CategoryByParent{ParentID: parentID})
	}
	if childID != 0 {
		selected = append(selected, CategoryByChild{ChildID: childID})
	}
	switch len(selected) {
	case 0:
		return AllCategories{}, nil
	case 1:
		return selected[0], nil
	default:
		return nil, exactlyOneError("category", len(selected))
	}
}

func exactlyOneError(kind string, got int) error {
	return BadInputError(
		fmt.Sprintf("%s lookup requires exactly one selector, got %d", kind, got),
		map[string]any{"selectors": got},
	)
}
