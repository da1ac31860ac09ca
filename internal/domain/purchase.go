package domain

// Field tags recognized by the purchase-form extractor
const (
	TagInput    = "input"
	TagSelect   = "select"
	TagTextarea = "textarea"
)

// OptionValue is one <option> of a select field, in document order
type OptionValue struct {
	Value string `json:"value"`
	Text  string `json:"text"`
}

// PurchaseField is one extracted form field. Options is non-nil iff the field
// is a select. RiderPremiumCents is non-nil only for checkbox fields
// representing optional rider benefits. Checked records the scraped state of
// a checkbox or radio, the default until the user toggles it.
type PurchaseField struct {
	Tag               string        `json:"tag"`
	Type              string        `json:"type,omitempty"`
	Name              string        `json:"name,omitempty"`
	ID                string        `json:"id,omitempty"`
	Placeholder       string        `json:"placeholder,omitempty"`
	Label             string        `json:"label,omitempty"`
	Required          bool          `json:"required"`
	Checked           bool          `json:"checked,omitempty"`
	Value             string        `json:"value,omitempty"`
	Options           []OptionValue `json:"options,omitempty"`
	RiderPremiumCents *int64        `json:"rider_premium_cents,omitempty"`
}

// IsRider reports whether the field is an optional-benefit checkbox. Riders
// are distinguished from plain internal fields by carrying a premium amount,
// not by their name.
func (f *PurchaseField) IsRider() bool {
	return f.Tag == TagInput && f.Type == "checkbox" && f.RiderPremiumCents != nil
}

// IsHidden reports whether the field is a hidden input
func (f *PurchaseField) IsHidden() bool {
	return f.Tag == TagInput && f.Type == "hidden"
}

// PurchaseForm is one <form> of the purchase page
type PurchaseForm struct {
	Index  int             `json:"index"`
	ID     string          `json:"id,omitempty"`
	Action string          `json:"action,omitempty"`
	Method string          `json:"method"`
	Fields []PurchaseField `json:"fields"`
}

// PurchaseFormData is the full extraction result for a purchase page. RawHTML
// is retained only for diagnostic offline re-analysis, never for redisplay;
// RawHTMLURI points at its uploaded diagnostics copy when storage is
// configured.
type PurchaseFormData struct {
	URL        string         `json:"url"`
	RawHTML    string         `json:"-"`
	RawHTMLURI string         `json:"raw_html_uri,omitempty"`
	Forms      []PurchaseForm `json:"forms"`
	Error      string         `json:"error,omitempty"`
}
