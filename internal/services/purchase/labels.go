package purchase

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/quotescout/quotescout/internal/fieldpath"
)

// The purchase page rarely carries reliable semantic labels, so inference runs
// a prioritized chain of strategies: DOM context first, then field-name
// decomposition, then progressively cruder cleanups. First accepted result
// wins.

// maxLabelLen rejects label text that looks programmatic rather than human
const maxLabelLen = 80

// fallbackLabel is the absolute last resort for a field with no id either
const fallbackLabel = "Campo"

// labelEntry maps a known field-name token to its display string. Entries are
// evaluated in fixed order so matching stays deterministic.
type labelEntry struct {
	token   string
	display string
}

var labelDictionary = []labelEntry{
	{"first_name", "Nombre"},
	{"last_name", "Apellido"},
	{"full_name", "Nombre completo"},
	{"birth_date", "Fecha de nacimiento"},
	{"birthdate", "Fecha de nacimiento"},
	{"date_of_birth", "Fecha de nacimiento"},
	{"document_number", "Número de documento"},
	{"document", "Documento"},
	{"dni", "DNI"},
	{"passport", "Pasaporte"},
	{"email", "Correo electrónico"},
	{"phone", "Teléfono"},
	{"telephone", "Teléfono"},
	{"address", "Dirección"},
	{"city", "Ciudad"},
	{"province", "Provincia"},
	{"state", "Provincia"},
	{"postal_code", "Código postal"},
	{"zip", "Código postal"},
	{"country", "País"},
	{"age", "Edad"},
	{"gender", "Sexo"},
	{"sex", "Sexo"},
	{"premium", "Prima"},
}

// Structural tokens stripped by the shared cleaner: the form's own namespace
// prefix and the repeated grouping words of the bracket-path convention.
var boilerplateTokens = map[string]bool{
	"root":       true,
	"quotes":     true,
	"breakdowns": true,
	"riders":     true,
	"passenger":  true,
	"contact":    true,
}

// InferLabel derives a human-meaningful label for a field from its DOM context
// or its name. sel is the field's own node inside doc. Every strategy result,
// the id fallback included, passes the accepted rejection rule, so the return
// value never carries bracket-path punctuation.
func InferLabel(sel *goquery.Selection, doc *goquery.Document, name, id string) string {
	if label := labelByIDReference(doc, id); accepted(label) {
		return label
	}
	if label := wrappingLabel(sel); accepted(label) {
		return label
	}
	if label := precedingSiblingLabel(sel); accepted(label) {
		return label
	}
	if label := ancestorLabel(sel, id); accepted(label) {
		return label
	}
	if label := dictionaryLabel(name); accepted(label) {
		return label
	}
	if label := cleanFieldName(name); accepted(label) {
		return label
	}
	if accepted(id) {
		return id
	}
	return fallbackLabel
}

// accepted is the rejection rule applied to every strategy result: label text
// containing structural-path punctuation or running too long is programmatic,
// not human.
func accepted(label string) bool {
	if label == "" {
		return false
	}
	if strings.ContainsAny(label, "[]") {
		return false
	}
	return len(label) <= maxLabelLen
}

// Strategy 1: an explicit label element associated by id-reference
func labelByIDReference(doc *goquery.Document, id string) string {
	if id == "" {
		return ""
	}
	return labelText(doc.Find(`label[for="` + id + `"]`).First())
}

// Strategy 2: an ancestor label that directly wraps the field
func wrappingLabel(sel *goquery.Selection) string {
	return labelText(sel.Closest("label"))
}

// Strategy 3: a label immediately preceding the field as a sibling
func precedingSiblingLabel(sel *goquery.Selection) string {
	prev := sel.Prev()
	if !prev.Is("label") {
		return ""
	}
	return labelText(prev)
}

// Strategy 4: search up to 3 ancestor levels for any label, bounded so the
// search never crosses into a different fieldset or passenger-group container.
// A found label is accepted only if it has no id-reference at all or its
// reference matches this field, so a label meant for a sibling field is never
// stolen.
func ancestorLabel(sel *goquery.Selection, fieldID string) string {
	ancestor := sel.Parent()
	for level := 0; level < 3 && ancestor.Length() > 0; level++ {
		var found string
		ancestor.Find("label").EachWithBreak(func(_ int, label *goquery.Selection) bool {
			forAttr, hasFor := label.Attr("for")
			if hasFor && forAttr != "" && forAttr != fieldID {
				return true
			}
			found = labelText(label)
			return found == ""
		})
		if found != "" {
			return found
		}
		if isGroupBoundary(ancestor) {
			return ""
		}
		ancestor = ancestor.Parent()
	}
	return ""
}

func isGroupBoundary(sel *goquery.Selection) bool {
	if sel.Is("fieldset, form") {
		return true
	}
	class, _ := sel.Attr("class")
	class = strings.ToLower(class)
	return strings.Contains(class, "passenger") || strings.Contains(class, "breakdown")
}

// Strategy 5: decompose the bracket-path name into tokens and look each one up
// in the dictionary, first hit in token order wins
func dictionaryLabel(name string) string {
	if name == "" {
		return ""
	}
	for _, token := range fieldpath.Parse(name).Segments {
		token = strings.ToLower(token)
		for _, entry := range labelDictionary {
			if token == entry.token {
				return entry.display
			}
		}
	}
	return ""
}

// Strategy 6 (shared cleaner with strategy 5's tokenization): drop bracket
// segments and boilerplate tokens, turn underscores into spaces, title-case
// each word
func cleanFieldName(name string) string {
	if name == "" {
		return ""
	}

	var words []string
	for _, seg := range fieldpath.Parse(name).Segments {
		seg = strings.ToLower(seg)
		if seg == "" || boilerplateTokens[seg] || isNumeric(seg) {
			continue
		}
		for _, word := range strings.FieldsFunc(seg, func(r rune) bool { return r == '_' || r == '-' }) {
			words = append(words, titleWord(word))
		}
	}
	return strings.Join(words, " ")
}

func titleWord(word string) string {
	if word == "" {
		return ""
	}
	return strings.ToUpper(word[:1]) + word[1:]
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func labelText(sel *goquery.Selection) string {
	if sel == nil || sel.Length() == 0 {
		return ""
	}
	return strings.Join(strings.Fields(sel.Text()), " ")
}
