package entity

import (
	"time"
)

// ResolveUpdate computes the document to upsert from the stored state and a
// partial update payload. existing must be the full current document; a
// missing document is the caller's not-found case, never handled here.
//
// The merge is shallow: every recognized field present in partial replaces
// the stored field, including fields present with a JSON null. Unrecognized
// keys are dropped. Immutable fields are then re-asserted from existing in a
// fixed order (id, entity reference fields, createdAt) so nothing the caller
// supplied can move them, and updatedAt is always refreshed.
func ResolveUpdate(desc Descriptor, existing, partial Document, now time.Time) Document {
	merged := existing.Clone()

	for _, field := range desc.Fields {
		if field == desc.RecomputeOn {
			continue
		}
		if value, ok := partial[field]; ok {
			merged[field] = value
		}
	}

	// Derived fields follow the new sequence when one was supplied. An
	// absent or empty sequence leaves both the sequence and the derived
	// value exactly as stored.
	if desc.Recompute != nil && desc.RecomputeOn != "" {
		if seq, ok := partial[desc.RecomputeOn].([]any); ok && len(seq) > 0 {
			merged[desc.RecomputeOn] = seq
			desc.Recompute(merged)
		}
	}

	merged["id"] = existing["id"]
	for _, field := range desc.Immutable {
		merged[field] = existing[field]
	}
	merged["createdAt"] = existing["createdAt"]
	merged["updatedAt"] = Timestamp(now)
	return merged
}
