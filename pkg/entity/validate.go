package entity

import (
	apperrors "github.com/shopfront/shopfront/pkg/errors"
)

// Validate runs the presence checks a create payload must pass for the given
// entity kind. It is purely structural: required scalars must be present and
// non-empty, sequences non-empty, and line items well shaped. Referential
// existence of ids against other containers is deliberately not checked.
func Validate(desc Descriptor, doc Document) error {
	for _, field := range desc.Required {
		if !present(doc[field]) {
			return apperrors.NewValidationError(desc.Kind, desc.Required, desc.RequiredLabel)
		}
	}
	if desc.ExtraCheck != nil {
		if verr := desc.ExtraCheck(doc); verr != nil {
			return verr
		}
	}
	return nil
}

// present reports whether a decoded JSON value counts as supplied. Empty
// strings, zero numbers and empty sequences count as missing, matching the
// API's historical falsy semantics (a price of 0 is rejected).
func present(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case []any:
		return len(t) > 0
	}
	return true
}
