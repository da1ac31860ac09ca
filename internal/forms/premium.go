package forms

import (
	"fmt"
	"strings"

	"github.com/quotescout/quotescout/internal/domain"
)

// Premium amounts are carried as int64 cents so rider sums stay exact. The
// recomputed total is a best-effort mirror of the remote pricing rules and is
// informational only; the remote system's own recalculation on submission is
// authoritative.

// ParseCents parses a currency string ("US$ 1,234.56", "105.50", "$89") into
// cents, stripping the currency prefix and grouping separators.
func ParseCents(raw string) (int64, error) {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			return r
		}
		return -1
	}, raw)
	if cleaned == "" {
		return 0, fmt.Errorf("no numeric content in %q", raw)
	}

	// The last separator is decimal iff it is followed by 1-2 digits; every
	// other separator groups thousands.
	sepIdx := strings.LastIndexAny(cleaned, ".,")
	intPart := cleaned
	fracPart := ""
	if sepIdx >= 0 {
		frac := cleaned[sepIdx+1:]
		if len(frac) >= 1 && len(frac) <= 2 && !strings.ContainsAny(frac, ".,") {
			intPart = cleaned[:sepIdx]
			fracPart = frac
		}
	}
	intPart = strings.NewReplacer(".", "", ",", "").Replace(intPart)
	if intPart == "" {
		intPart = "0"
	}

	var major int64
	for _, r := range intPart {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("malformed amount %q", raw)
		}
		major = major*10 + int64(r-'0')
	}
	cents := major * 100

	switch len(fracPart) {
	case 1:
		cents += int64(fracPart[0]-'0') * 10
	case 2:
		cents += int64(fracPart[0]-'0')*10 + int64(fracPart[1]-'0')
	}

	return cents, nil
}

// FormatUSD renders cents with the fixed currency prefix and exactly two
// decimals, the form the premium field resubmits.
func FormatUSD(cents int64) string {
	return fmt.Sprintf("US$ %d.%02d", cents/100, cents%100)
}

// premiumFieldTokens mark a field as the displayed-premium holder
var premiumFieldTokens = []string{"premium", "prima"}

// denotesPremium reports whether a field's name or inferred label semantically
// means "premium"
func denotesPremium(f *domain.PurchaseField) bool {
	name := strings.ToLower(f.Name)
	label := strings.ToLower(f.Label)
	for _, token := range premiumFieldTokens {
		if strings.Contains(name, token) || strings.Contains(label, token) {
			return true
		}
	}
	return false
}

// Rider is an optional benefit checkbox with its tracked client-side value
type Rider struct {
	Name         string
	PremiumCents int64
	OnValue      string
	Tracked      string
}

// Selected reports whether the rider is checked. The tracked value must equal
// the checkbox's own on-value; any other truthy placeholder does not count.
func (r Rider) Selected() bool {
	return r.OnValue != "" && r.Tracked == r.OnValue
}

// Engine recomputes the displayed total premium as a pure function of the base
// premium plus the selected riders' premiums.
type Engine struct {
	baseCents        int64
	premiumFieldName string
}

// NewEngine extracts the base premium once, at load time, from the first
// non-rider field denoting "premium". ok is false when no such field exists,
// in which case recalculation is unavailable for this form.
func NewEngine(fields []domain.PurchaseField) (*Engine, bool) {
	for i := range fields {
		f := &fields[i]
		if f.IsRider() || !denotesPremium(f) {
			continue
		}
		cents, err := ParseCents(f.Value)
		if err != nil {
			continue
		}
		return &Engine{baseCents: cents, premiumFieldName: f.Name}, true
	}
	return nil, false
}

// NewEngineWithBase builds an engine from an already-known base premium
func NewEngineWithBase(baseCents int64, premiumFieldName string) *Engine {
	return &Engine{baseCents: baseCents, premiumFieldName: premiumFieldName}
}

// BaseCents returns the base premium
func (e *Engine) BaseCents() int64 {
	return e.baseCents
}

// PremiumFieldName returns the name of the field holding the displayed total
func (e *Engine) PremiumFieldName() string {
	return e.premiumFieldName
}

// Total returns base + the sum of selected rider premiums, in cents
func (e *Engine) Total(riders []Rider) int64 {
	total := e.baseCents
	for _, r := range riders {
		if r.Selected() {
			total += r.PremiumCents
		}
	}
	return total
}

// Recalculate recomputes the total for the current rider selections and writes
// the currency-formatted result back into the premium field's tracked value,
// which is what gets resubmitted.
func (e *Engine) Recalculate(riders []Rider, tracked map[string]string) (int64, string) {
	total := e.Total(riders)
	formatted := FormatUSD(total)
	if e.premiumFieldName != "" && tracked != nil {
		tracked[e.premiumFieldName] = formatted
	}
	return total, formatted
}

// RidersOf collects the rider checkboxes of a field list, pairing each with
// its tracked value. An untracked rider keeps its scraped checked state, the
// same fallback BuildPayload applies.
func RidersOf(fields []domain.PurchaseField, tracked map[string]string) []Rider {
	var riders []Rider
	for i := range fields {
		f := &fields[i]
		if !f.IsRider() {
			continue
		}
		current, ok := tracked[f.Name]
		if !ok && f.Checked {
			current = f.Value
		}
		riders = append(riders, Rider{
			Name:         f.Name,
			PremiumCents: *f.RiderPremiumCents,
			OnValue:      f.Value,
			Tracked:      current,
		})
	}
	return riders
}
