package purchase

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docOf(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func inferFor(t *testing.T, html, selector string) string {
	t.Helper()
	doc := docOf(t, html)
	sel := doc.Find(selector).First()
	require.Equal(t, 1, sel.Length(), "selector %q matched nothing", selector)
	name, _ := sel.Attr("name")
	id, _ := sel.Attr("id")
	return InferLabel(sel, doc, name, id)
}

func TestInferLabel_ByIDReference(t *testing.T) {
	html := `<form>
<label for="fld-email">Correo de contacto</label>
<div><input id="fld-email" name="root[contact][email]" type="text"/></div>
</form>`

	assert.Equal(t, "Correo de contacto", inferFor(t, html, "input"))
}

func TestInferLabel_WrappingLabel(t *testing.T) {
	html := `<form><label>Nombre del pasajero <input name="x" type="text"/></label></form>`

	assert.Equal(t, "Nombre del pasajero", inferFor(t, html, "input"))
}

func TestInferLabel_PrecedingSibling(t *testing.T) {
	html := `<form><div>
<label>Fecha de salida</label><input name="x" type="text"/>
</div></form>`

	assert.Equal(t, "Fecha de salida", inferFor(t, html, "input"))
}

func TestInferLabel_AncestorBounded(t *testing.T) {
	html := `<form><div class="group">
<label>Datos del viaje</label>
<div><span><input name="x" type="text"/></span></div>
</div></form>`

	assert.Equal(t, "Datos del viaje", inferFor(t, html, "input"))
}

func TestInferLabel_AncestorNeverStealsSiblingsLabel(t *testing.T) {
	// The only nearby label points at a different field by id
	html := `<form><div>
<label for="other-field">Apellido</label>
<input id="other-field" name="root[other]" type="text"/>
<input id="this-field" name="plain_custom" type="text"/>
</div></form>`

	got := inferFor(t, html, "#this-field")
	assert.NotEqual(t, "Apellido", got)
}

func TestInferLabel_AncestorStopsAtPassengerBoundary(t *testing.T) {
	// The label lives outside the passenger group container; the bounded
	// search must not cross it, so inference falls through to the dictionary.
	html := `<form>
<label>Titular de la cuenta</label>
<div class="passenger-block">
  <div><input name="root[quotes][0][breakdowns][0][passenger][first_name]" type="text"/></div>
</div>
</form>`

	assert.Equal(t, "Nombre", inferFor(t, html, "input"))
}

func TestInferLabel_Dictionary(t *testing.T) {
	tests := []struct {
		name, want string
	}{
		{"root[quotes][0][breakdowns][0][passenger][first_name]", "Nombre"},
		{"root[quotes][0][breakdowns][1][passenger][last_name]", "Apellido"},
		{"root[quotes][0][breakdowns][0][passenger][birth_date]", "Fecha de nacimiento"},
		{"root[contact][email]", "Correo electrónico"},
		{"root[contact][phone]", "Teléfono"},
		{"a[b][first_name]", "Nombre"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := `<form><input name="` + tt.name + `" type="text"/></form>`
			assert.Equal(t, tt.want, inferFor(t, html, "input"))
		})
	}
}

func TestInferLabel_CleanedNameFallback(t *testing.T) {
	html := `<form><input name="root[quotes][0][emergency_contact_name]" type="text"/></form>`

	assert.Equal(t, "Emergency Contact Name", inferFor(t, html, "input"))
}

func TestInferLabel_IDFallback(t *testing.T) {
	html := `<form><input id="mystery-widget" type="text"/></form>`

	assert.Equal(t, "mystery-widget", inferFor(t, html, "input"))
}

func TestInferLabel_BracketedIDRejected(t *testing.T) {
	// An id carrying raw field-path text is just as programmatic as a
	// bracketed name; it must fall through to the absolute fallback.
	html := `<form><input id="root[widgets][0]" type="text"/></form>`

	assert.Equal(t, "Campo", inferFor(t, html, "input"))
}

func TestInferLabel_AbsoluteFallback(t *testing.T) {
	html := `<form><input type="text"/></form>`

	assert.Equal(t, "Campo", inferFor(t, html, "input"))
}

func TestInferLabel_RejectsProgrammaticText(t *testing.T) {
	// A "label" holding raw field-path text must be rejected for the
	// bracket characters, falling through to the dictionary.
	html := `<form><label>root[quotes][0][breakdowns][0][passenger][first_name] <input name="root[quotes][0][breakdowns][0][passenger][first_name]" type="text"/></label></form>`

	assert.Equal(t, "Nombre", inferFor(t, html, "input"))
}

func TestInferLabel_RejectsOverlongText(t *testing.T) {
	long := strings.Repeat("palabra ", 20)
	html := `<form><label>` + long + `<input name="root[contact][email]" type="text"/></label></form>`

	assert.Equal(t, "Correo electrónico", inferFor(t, html, "input"))
}

func TestAccepted(t *testing.T) {
	assert.True(t, accepted("Nombre"))
	assert.False(t, accepted(""))
	assert.False(t, accepted("root[contact][email]"))
	assert.False(t, accepted(strings.Repeat("x", maxLabelLen+1)))
	assert.True(t, accepted(strings.Repeat("x", maxLabelLen)))
}
