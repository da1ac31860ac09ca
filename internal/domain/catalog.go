package domain

import (
	"strings"
	"time"
)

// CatalogOption is one option scraped from a remote select element. Immutable
// once built; the whole catalog is replaced on re-scrape, never patched.
type CatalogOption struct {
	Value      string `json:"value"`
	Text       string `json:"text"`
	Disabled   bool   `json:"disabled,omitempty"`
	DataFilter string `json:"data_filter,omitempty"`
}

// Catalog is the precomputed matrix of valid trip-type/origin/destination/agent
// combinations. Destination lists never include disabled or hidden options;
// they are filtered at scrape time. The base lists keep disabled options,
// flagged, so consumers can show what the remote form shows. Every
// Destinations key corresponds to a TripTypes value.
type Catalog struct {
	TripTypes    []CatalogOption            `json:"trip_types"`
	Origins      []CatalogOption            `json:"origins"`
	Destinations map[string][]CatalogOption `json:"destinations"`
	Agents       []CatalogOption            `json:"agents"`
	BuiltAt      time.Time                  `json:"built_at"`
}

// DestinationsFor returns the destination options valid for a trip-type value
func (c *Catalog) DestinationsFor(tripTypeValue string) []CatalogOption {
	if c.Destinations == nil {
		return nil
	}
	return c.Destinations[tripTypeValue]
}

// FindOption fuzzy-matches a human-entered value against a list of options.
// Matching is case-insensitive substring containment in either direction, so
// "Europa" matches both "Europa Schengen" and "Eur". Exact value or exact text
// matches win over substring matches. Disabled options never match; the
// remote form would reject them.
func FindOption(options []CatalogOption, query string) (CatalogOption, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return CatalogOption{}, false
	}

	for _, opt := range options {
		if opt.Disabled {
			continue
		}
		if strings.ToLower(opt.Value) == q || strings.ToLower(opt.Text) == q {
			return opt, true
		}
	}

	for _, opt := range options {
		if opt.Disabled {
			continue
		}
		text := strings.ToLower(opt.Text)
		if strings.Contains(text, q) || strings.Contains(q, text) {
			return opt, true
		}
	}

	return CatalogOption{}, false
}
