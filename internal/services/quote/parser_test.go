package quote

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func planCard(id, name, description, price string) string {
	return fmt.Sprintf(`
<div class="card plan-card">
  <h3 class="font-weight-bold">%s<br/><small>%s</small></h3>
  <p class="plan-price">%s<br/><span class="per-day">per trip</span></p>
  <label>
    <form id="%s" name="select-plan" action="/select" method="post">
      <input type="hidden" name="plan" value="%s"/>
      <button type="submit">Select</button>
    </form>
  </label>
</div>`, name, description, price, id, id)
}

func resultsPage(cards ...string) string {
	return `<html><body><div id="quote-results">` + strings.Join(cards, "\n") + `</div></body></html>`
}

func TestParsePlans_Structural(t *testing.T) {
	html := resultsPage(
		planCard("D-30", "Traveler 30", "Coverage up to US$ 30.000", "US$ 89.50"),
		planCard("D-60", "Traveler 60", "Coverage up to US$ 60.000", "US$ 129.00"),
	)

	plans := ParsePlans(html)
	require.Len(t, plans, 2)

	assert.Equal(t, "D-30", plans[0].PlanID)
	assert.Equal(t, "Traveler 30\nCoverage up to US$ 30.000", plans[0].Name)
	assert.Equal(t, "US$ 89.50", plans[0].Price)

	assert.Equal(t, "D-60", plans[1].PlanID)
}

func TestParsePlans_BrAndSmallBecomeNewlines(t *testing.T) {
	html := resultsPage(planCard("D-15", "Basic", "Regional only", "US$ 45.00"))

	plans := ParsePlans(html)
	require.Len(t, plans, 1)

	lines := strings.Split(plans[0].Name, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Basic", lines[0])
	assert.Equal(t, "Regional only", lines[1])

	// Price keeps only its first line
	assert.Equal(t, "US$ 45.00", plans[0].Price)
}

func TestParsePlans_IgnoresNonPlanForms(t *testing.T) {
	html := resultsPage(
		planCard("D-30", "Traveler 30", "x", "US$ 89.50"),
		`<form id="search" name="search-again"><input name="q"/></form>`,
		`<form id="not-a-plan-id" name="select-plan"><button>pick</button></form>`,
	)

	plans := ParsePlans(html)
	require.Len(t, plans, 1)
	assert.Equal(t, "D-30", plans[0].PlanID)
}

func TestParsePlans_EmptyIsValid(t *testing.T) {
	assert.Empty(t, ParsePlans(""))
	assert.Empty(t, ParsePlans("<html><body><p>No plans available for this trip</p></body></html>"))
	assert.Empty(t, ParsePlans("<<<<< not html at all \x00"))
}

func TestParsePlans_Idempotent(t *testing.T) {
	html := resultsPage(
		planCard("D-30", "Traveler 30", "desc", "US$ 89.50"),
		planCard("D-100", "Traveler 100", "desc", "US$ 210.00"),
	)

	first := ParsePlans(html)
	second := ParsePlans(html)
	assert.Equal(t, first, second)
}

func TestParsePlans_WindowedFallback(t *testing.T) {
	// The form's ancestors carry none of the recognized card classes and its
	// direct parent holds neither heading nor price, so the structural pass
	// yields nothing and the windowed scan over the section must take over.
	html := `<html><body>
<section class="plan-box">
  <h2>Fallback Plan</h2>
  <p class="price">U$S 77,50</p>
  <div class="wrapper">
    <form id="D-77" name="select-plan"></form>
  </div>
</section>
</body></html>`

	plans := ParsePlans(html)
	require.Len(t, plans, 1)
	assert.Equal(t, "D-77", plans[0].PlanID)
	assert.Equal(t, "Fallback Plan", plans[0].Name)
	assert.Equal(t, "U$S 77,50", plans[0].Price)
}

func TestParsePlans_CurrencyFallbackWhenNoPriceElement(t *testing.T) {
	html := resultsPage(`
<div class="card">
  <h3 class="font-weight-bold">Bare Card</h3>
  <span>from US$ 99.90 total</span>
  <form id="D-99" name="select-plan"></form>
</div>`)

	plans := ParsePlans(html)
	require.Len(t, plans, 1)
	assert.Equal(t, "US$ 99.90", plans[0].Price)
}

func TestNormalizeFragment(t *testing.T) {
	got := normalizeFragment(`  Plan&nbsp;A <br/> up to &amp; beyond <span>ignored</span>extra  `)
	assert.Equal(t, "Plan A\nup to & beyond ignored extra", got)
}
