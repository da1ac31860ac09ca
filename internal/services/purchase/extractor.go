package purchase

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/quotescout/quotescout/internal/domain"
	"github.com/quotescout/quotescout/internal/forms"
)

// Data attributes the remote page uses to carry a rider's incremental premium
// on its checkbox. Their presence is what distinguishes an optional benefit
// from a plain internal field.
var riderPremiumAttrs = []string{"data-premium", "data-rider-premium"}

// ExtractForms walks every form and every field of a purchase-page document.
// Hidden and denylisted internal fields are still captured (the payload must
// resubmit them faithfully) but skipped for label inference; rider checkboxes
// are always labeled regardless of their denylisted [riders] path.
func ExtractForms(doc *goquery.Document) []domain.PurchaseForm {
	var extracted []domain.PurchaseForm

	doc.Find("form").Each(func(index int, form *goquery.Selection) {
		formModel := domain.PurchaseForm{
			Index:  index,
			Method: "GET",
		}

		if id, ok := form.Attr("id"); ok {
			formModel.ID = id
		}
		if action, ok := form.Attr("action"); ok {
			formModel.Action = action
		}
		if method, ok := form.Attr("method"); ok && method != "" {
			formModel.Method = strings.ToUpper(method)
		}

		form.Find("input, select, textarea").Each(func(_ int, sel *goquery.Selection) {
			formModel.Fields = append(formModel.Fields, extractField(sel, doc))
		})

		extracted = append(extracted, formModel)
	})

	return extracted
}

// extractField reads a single field's static attributes and runs label
// inference when the field qualifies. A panic anywhere in the per-field work
// (a malformed node, a label lookup blowing up) degrades to "no label" instead
// of aborting extraction of the remaining fields.
func extractField(sel *goquery.Selection, doc *goquery.Document) (field domain.PurchaseField) {
	defer func() {
		if r := recover(); r != nil {
			field.Label = ""
		}
	}()

	field.Tag = goquery.NodeName(sel)

	if typ, ok := sel.Attr("type"); ok {
		field.Type = typ
	} else if field.Tag == domain.TagInput {
		field.Type = "text"
	}
	field.Name, _ = sel.Attr("name")
	field.ID, _ = sel.Attr("id")
	field.Placeholder, _ = sel.Attr("placeholder")
	if _, ok := sel.Attr("required"); ok {
		field.Required = true
	}

	switch field.Tag {
	case domain.TagSelect:
		field.Options = selectOptions(sel)
		if selected := sel.Find("option[selected]").First(); selected.Length() > 0 {
			field.Value, _ = selected.Attr("value")
		}
	case domain.TagTextarea:
		field.Value = strings.TrimSpace(sel.Text())
	default:
		field.Value, _ = sel.Attr("value")
	}

	if field.Type == "checkbox" || field.Type == "radio" {
		_, field.Checked = sel.Attr("checked")
	}

	if field.Type == "checkbox" {
		field.RiderPremiumCents = riderPremium(sel)
	}

	if wantsLabel(&field) {
		field.Label = InferLabel(sel, doc, field.Name, field.ID)
	}

	return field
}

// wantsLabel applies the inference denylist: hidden fields and internal
// bookkeeping fields skip the pipeline, riders never do.
func wantsLabel(field *domain.PurchaseField) bool {
	if field.IsRider() {
		return true
	}
	if field.IsHidden() {
		return false
	}
	if field.Name != "" && domain.IsInternalFieldName(field.Name) {
		return false
	}
	return true
}

func selectOptions(sel *goquery.Selection) []domain.OptionValue {
	options := []domain.OptionValue{}
	sel.Find("option").Each(func(_ int, opt *goquery.Selection) {
		value, _ := opt.Attr("value")
		options = append(options, domain.OptionValue{
			Value: value,
			Text:  strings.TrimSpace(opt.Text()),
		})
	})
	return options
}

func riderPremium(sel *goquery.Selection) *int64 {
	for _, attr := range riderPremiumAttrs {
		if raw, ok := sel.Attr(attr); ok {
			if cents, err := forms.ParseCents(raw); err == nil {
				return &cents
			}
		}
	}
	return nil
}
