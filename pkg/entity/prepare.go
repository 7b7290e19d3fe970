package entity

import (
	"time"
)

// TimeLayout renders timestamps as ISO-8601 UTC with millisecond precision.
// The representation is sortable, so createdAt ordering is string ordering.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// Timestamp formats an instant in the document timestamp representation.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// PrepareForCreate enriches a validated payload into a storable document:
// it assigns an identifier when absent, applies entity defaults, refreshes
// derived fields and stamps creation and update times. The input document is
// not modified and no I/O happens here.
func PrepareForCreate(desc Descriptor, doc Document, now time.Time, newID func() string) Document {
	out := doc.Clone()

	// Identifiers are opaque strings; anything else in the payload's id
	// slot is replaced with a generated one.
	if out.ID() == "" {
		out["id"] = newID()
	}

	// Boolean defaults apply only when the field is absent; an explicit
	// false must survive.
	for _, field := range desc.BoolDefaults {
		if _, ok := out[field]; !ok {
			out[field] = true
		}
	}
	for field, value := range desc.Defaults {
		if !present(out[field]) {
			out[field] = value
		}
	}

	if desc.Recompute != nil {
		desc.Recompute(out)
	}

	ts := Timestamp(now)
	out["createdAt"] = ts
	out["updatedAt"] = ts
	return out
}
