package domain

import (
	"strings"

	"github.com/quotescout/quotescout/internal/fieldpath"
)

// Internal bookkeeping segments the remote form carries for its own pricing
// machinery. Fields whose path ends in one of these are captured for faithful
// resubmission but excluded from label inference and default display. Rider
// checkboxes are exempt at the call sites: a rider is recognized by its
// premium-amount data attribute, and rider fields always get labels even
// though they live under a denylisted [riders] segment.
var internalSegments = map[string]bool{
	"id":          true,
	"uuid":        true,
	"token":       true,
	"hash":        true,
	"factor":      true,
	"factors":     true,
	"rate":        true,
	"tax":         true,
	"taxes":       true,
	"iva":         true,
	"recalc":      true,
	"recalculate": true,
	"computed":    true,
}

// Fields the purchase page pre-fills from the quote itself; a human never
// edits them, so they are excluded from default display.
var autofillSegments = map[string]bool{
	"plan":    true,
	"plan_id": true,
	"agent":   true,
	"agency":  true,
}

// IsInternalFieldName reports whether a field name denotes remote bookkeeping
// (identifiers, UUIDs, computed factors, tax data, premium-recalculation
// triggers) or lives under a riders text segment.
func IsInternalFieldName(name string) bool {
	path := fieldpath.Parse(name)
	if path.IsEmpty() {
		return false
	}

	last := strings.ToLower(path.Last())
	if internalSegments[last] || strings.HasSuffix(last, "_id") || strings.HasSuffix(last, "_uuid") {
		return true
	}
	for seg := range internalSegments {
		if path.Contains(seg) {
			return true
		}
	}
	return path.Contains("riders")
}

// IsAutofillFieldName reports whether a field is pre-filled plan/agent data
func IsAutofillFieldName(name string) bool {
	path := fieldpath.Parse(name)
	return autofillSegments[strings.ToLower(path.Last())]
}

// ShouldDisplay is the default-display predicate: internal and autofill fields
// are hidden, as is anything with neither a label nor a required flag. Hidden
// inputs never display. Excluded fields stay in the raw submission payload.
func ShouldDisplay(f *PurchaseField) bool {
	if f.IsHidden() {
		return false
	}
	if f.IsRider() {
		return true
	}
	if f.Name != "" && (IsInternalFieldName(f.Name) || IsAutofillFieldName(f.Name)) {
		return false
	}
	if f.Label == "" && !f.Required {
		return false
	}
	return true
}
