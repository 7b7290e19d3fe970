// Package entity defines the document model for the storefront API and the
// per-entity descriptors that drive the generic CRUD core. The four entities
// (user, shop, item, order) share one code path; everything entity-specific
// lives in configuration data here.
package entity

import (
	apperrors "github.com/shopfront/shopfront/pkg/errors"
)

// Document is the schemaless representation of a stored entity, as produced
// by decoding a JSON request body.
type Document map[string]any

// Clone returns a shallow copy of the document. Nested values are shared;
// the merge resolver only ever replaces top-level fields.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// ID returns the document identifier, or "" when absent or not a string.
func (d Document) ID() string {
	id, _ := d["id"].(string)
	return id
}

// FilterKind describes how a list-filter value is parsed from its query
// string parameter.
type FilterKind int

const (
	// FilterString matches the raw parameter value by equality
	FilterString FilterKind = iota
	// FilterBool parses "true"/"false"; any other value is treated as false
	FilterBool
)

// FilterField is one recognized list-filter parameter for an entity.
type FilterField struct {
	Name string
	Kind FilterKind
}

// Descriptor is the declarative configuration for one entity kind. The CRUD
// service, validators, query builder and merge resolver are all driven by it.
type Descriptor struct {
	// Kind is the singular entity name used in response envelopes ("user").
	Kind string
	// Label is the capitalized kind used in client messages ("User").
	Label string
	// Container is the document store container holding this kind ("users").
	Container string

	// Required lists the fields a create payload must carry.
	Required []string
	// RequiredLabel annotates the required set in the 400 message when the
	// plain comma join is not descriptive enough. Empty means join Required.
	RequiredLabel string
	// Immutable lists fields beyond id and createdAt that updates must never
	// change (ownership and unique reference fields).
	Immutable []string
	// BoolDefaults lists boolean fields defaulted to true only when absent
	// from the create payload; an explicit false is preserved.
	BoolDefaults []string
	// Defaults maps fields to values applied at create when the payload
	// carries nothing usable for them.
	Defaults Document
	// Fields is the recognized field set; an update payload is reduced to
	// these before merging, so unknown keys never reach the store. Derived
	// fields are deliberately not listed.
	Fields []string
	// Filters are the list-endpoint query parameters this kind supports.
	Filters []FilterField
	// Unique names a field whose value must not repeat across the container
	// (checked at create). Empty means no uniqueness constraint.
	Unique string

	// Recompute refreshes derived fields from the document in place.
	Recompute func(Document)
	// RecomputeOn names the field whose presence (as a non-empty sequence) in
	// an update payload triggers Recompute on the merged document.
	RecomputeOn string
	// ExtraCheck performs structural validation beyond required-field
	// presence, e.g. the shape of order line items.
	ExtraCheck func(Document) *apperrors.ValidationError
}

// User holds account identity; email is unique and immutable after creation.
var User = Descriptor{
	Kind:      "user",
	Label:     "User",
	Container: "users",
	Required:  []string{"email", "name"},
	Immutable: []string{"email"},
	Fields:    []string{"id", "email", "name", "createdAt", "updatedAt"},
	Unique:    "email",
}

// Shop is a storefront; isActive defaults to true and gates item listings.
var Shop = Descriptor{
	Kind:         "shop",
	Label:        "Shop",
	Container:    "shops",
	Required:     []string{"name", "address"},
	BoolDefaults: []string{"isActive"},
	Fields:       []string{"id", "name", "address", "isActive", "createdAt", "updatedAt"},
	Filters: []FilterField{
		{Name: "isActive", Kind: FilterBool},
	},
}

// Item belongs to exactly one shop; shopId never changes after creation.
var Item = Descriptor{
	Kind:         "item",
	Label:        "Item",
	Container:    "items",
	Required:     []string{"shopId", "name", "price"},
	Immutable:    []string{"shopId"},
	BoolDefaults: []string{"isAvailable"},
	Fields:       []string{"id", "shopId", "name", "price", "isAvailable", "createdAt", "updatedAt"},
	Filters: []FilterField{
		{Name: "shopId", Kind: FilterString},
		{Name: "isAvailable", Kind: FilterBool},
	},
}

// Order descriptor constants live outside the Order var so its validation
// hooks can use them without referring back to the descriptor itself.
const (
	orderKind          = "order"
	orderRequiredLabel = "userId, shopId, items (must be non-empty array)"
)

var orderRequired = []string{"userId", "shopId", "items"}

// Order references a user and a shop (both immutable) and carries line
// items. totalAmount is derived from items and never taken from a payload.
var Order = Descriptor{
	Kind:          orderKind,
	Label:         "Order",
	Container:     "orders",
	Required:      orderRequired,
	RequiredLabel: orderRequiredLabel,
	Immutable:     []string{"userId", "shopId"},
	Defaults:      Document{"status": "pending"},
	Fields:        []string{"id", "userId", "shopId", "items", "status", "createdAt", "updatedAt"},
	Filters: []FilterField{
		{Name: "userId", Kind: FilterString},
		{Name: "shopId", Kind: FilterString},
		{Name: "status", Kind: FilterString},
	},
	Recompute:   recomputeOrderTotal,
	RecomputeOn: "items",
	ExtraCheck:  checkOrderItems,
}

// All lists every entity descriptor, in route registration order.
var All = []Descriptor{User, Shop, Item, Order}

// recomputeOrderTotal sets totalAmount to the sum of price*quantity over the
// order's line items, with IEEE-754 double semantics.
func recomputeOrderTotal(doc Document) {
	items, _ := doc["items"].([]any)
	var total float64
	for _, raw := range items {
		line, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		total += toNumber(line["price"]) * toNumber(line["quantity"])
	}
	doc["totalAmount"] = total
}

// checkOrderItems rejects an items value that is not a sequence and
// validates the shape of every line item.
func checkOrderItems(doc Document) *apperrors.ValidationError {
	items, ok := doc["items"].([]any)
	if !ok {
		return apperrors.NewValidationError(orderKind, orderRequired, orderRequiredLabel)
	}
	for _, raw := range items {
		line, _ := raw.(map[string]any)
		if line == nil || !present(line["itemId"]) || !present(line["quantity"]) || !present(line["price"]) {
			return &apperrors.ValidationError{
				Kind:    orderKind,
				Fields:  []string{"itemId", "quantity", "price"},
				Message: "Each item must have itemId, quantity, and price",
			}
		}
	}
	return nil
}

// toNumber reads a JSON-decoded numeric value as float64.
func toNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}
