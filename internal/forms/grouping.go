package forms

import (
	"github.com/quotescout/quotescout/internal/domain"
	"github.com/quotescout/quotescout/internal/fieldpath"
)

// Grouped is the rendered view of a purchase form: fields routed to the
// logical entity they describe. Passenger keys are 1-based (breakdown index 0
// is passenger 1). Fields failing the default-display predicate appear in no
// group; BuildPayload still carries them.
type Grouped struct {
	Passengers map[int][]domain.PurchaseField `json:"passengers"`
	Contact    []domain.PurchaseField         `json:"contact"`
	Benefits   []domain.PurchaseField         `json:"benefits"`
	Other      []domain.PurchaseField         `json:"other"`
}

// Group routes fields by their bracket path: a [breakdowns][P] segment routes
// to passenger group P+1, a [contact] segment to the contact group, rider
// checkboxes to the benefits group regardless of their breakdown index, and
// everything else to "other".
func Group(fields []domain.PurchaseField) Grouped {
	grouped := Grouped{
		Passengers: make(map[int][]domain.PurchaseField),
	}

	for _, f := range fields {
		if !domain.ShouldDisplay(&f) {
			continue
		}

		if f.IsRider() {
			grouped.Benefits = append(grouped.Benefits, f)
			continue
		}

		path := fieldpath.Parse(f.Name)
		if idx, ok := path.IndexAfter("breakdowns"); ok {
			passenger := idx + 1
			grouped.Passengers[passenger] = append(grouped.Passengers[passenger], f)
			continue
		}
		if path.Contains("contact") {
			grouped.Contact = append(grouped.Contact, f)
			continue
		}

		grouped.Other = append(grouped.Other, f)
	}

	return grouped
}
