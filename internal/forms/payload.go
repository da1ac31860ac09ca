package forms

import "github.com/quotescout/quotescout/internal/domain"

// BuildPayload produces the resubmission set for a form. tracked holds the
// user's edits keyed by field name; fields absent from tracked keep their
// scraped value.
//
// Checkbox semantics are load-bearing: an unchecked checkbox is OMITTED from
// the set, never submitted as an empty string. The remote system may treat an
// explicitly-empty value differently from an absent key. A checked checkbox
// submits its own value attribute. An untracked checkbox falls back to its
// scraped checked state, so a pre-checked box resubmits until toggled off.
func BuildPayload(fields []domain.PurchaseField, tracked map[string]string) map[string]string {
	payload := make(map[string]string)

	for i := range fields {
		f := &fields[i]
		if f.Name == "" {
			continue
		}

		if f.Tag == domain.TagInput && f.Type == "checkbox" {
			current, ok := tracked[f.Name]
			if !ok {
				if f.Checked && f.Value != "" {
					payload[f.Name] = f.Value
				}
				continue
			}
			if f.Value != "" && current == f.Value {
				payload[f.Name] = f.Value
			}
			continue
		}

		if current, ok := tracked[f.Name]; ok {
			payload[f.Name] = current
			continue
		}
		payload[f.Name] = f.Value
	}

	return payload
}
