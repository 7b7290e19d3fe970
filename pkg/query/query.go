// Package query builds the parameterized list queries for the storefront
// containers. The builder only assembles query text and bindings; executing
// against a store is the store implementation's job.
package query

import (
	"fmt"
	"strings"

	"github.com/shopfront/shopfront/pkg/entity"
)

// Param is one named binding for a query statement. Params are ordered to
// match the positional placeholders in the statement text.
type Param struct {
	Name  string
	Value any
}

// Spec is a ready-to-execute list query: a parameterized statement, its
// ordered bindings and the ordering the results must come back in. Filter
// values are never concatenated into the statement text.
type Spec struct {
	Container string
	Statement string
	Params    []Param
	SortField string
	SortDesc  bool
}

// StatementWithoutOrderBy strips the trailing ORDER BY clause. Stores that
// cannot sort a filtered scan server side (DynamoDB PartiQL) execute this
// form and apply SortField/SortDesc to the fetched results instead.
func (s Spec) StatementWithoutOrderBy() string {
	if i := strings.LastIndex(s.Statement, " ORDER BY "); i >= 0 {
		return s.Statement[:i]
	}
	return s.Statement
}

// BuildListQuery translates the optional filter parameters of a list request
// into a query over the entity's container. Only the entity's recognized
// filter fields are consulted, in descriptor order, so the same filter set
// always yields the same statement no matter how the map was populated.
// Boolean filters parse the literal "true"/"false"; anything else present is
// treated as false. Results always order by createdAt, newest first.
func BuildListQuery(desc entity.Descriptor, filters map[string]string) Spec {
	spec := Spec{
		Container: desc.Container,
		SortField: "createdAt",
		SortDesc:  true,
	}

	var conditions []string
	for _, f := range desc.Filters {
		raw, ok := filters[f.Name]
		if !ok {
			continue
		}
		var value any = raw
		if f.Kind == entity.FilterBool {
			value = raw == "true"
		} else if raw == "" {
			// Empty string filters are treated as not supplied; boolean
			// filters keep the present-means-false coercion.
			continue
		}
		conditions = append(conditions, fmt.Sprintf("%q = ?", f.Name))
		spec.Params = append(spec.Params, Param{Name: f.Name, Value: value})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT * FROM %q", desc.Container)
	if len(conditions) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conditions, " AND "))
	}
	fmt.Fprintf(&b, " ORDER BY %q DESC", spec.SortField)
	spec.Statement = b.String()
	return spec
}

// ByField builds a single-field equality query with no ordering, used for
// uniqueness lookups such as the duplicate-email check on user creation.
func ByField(container, field string, value any) Spec {
	return Spec{
		Container: container,
		Statement: fmt.Sprintf("SELECT * FROM %q WHERE %q = ?", container, field),
		Params:    []Param{{Name: field, Value: value}},
	}
}
