package quote

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/quotescout/quotescout/internal/domain"
)

// Plan cards carry a selection form like
//
//	<form id="D-30" name="select-plan" ...>
//
// where the id is the quote-page plan identifier. The parser extracts
// (id, name, price) per card with a structural pass over the parsed DOM and
// two regex fallbacks for markup the structural pass cannot place.

var (
	planIDRe = regexp.MustCompile(`^[A-Z]-\d+$`)

	// Fallback scanning. Window bounds trade off against worst-case nesting:
	// a card wider than the window silently yields nothing for that card.
	formTagRe      = regexp.MustCompile(`(?is)<form\b[^>]*>`)
	attrRe         = regexp.MustCompile(`(?is)([a-z-]+)\s*=\s*"([^"]*)"`)
	containerRe    = regexp.MustCompile(`(?is)<div\b[^>]*class="[^"]*(?:card|plan)[^"]*"[^>]*>`)
	labelCloseRe   = regexp.MustCompile(`(?is)</label>`)
	altContainerRe = regexp.MustCompile(`(?is)<(?:li|article|section)\b[^>]*class="[^"]*(?:plan|product|box)[^"]*"[^>]*>`)
	altCloseRe     = regexp.MustCompile(`(?is)</form>`)

	boldHeadingRe = regexp.MustCompile(`(?is)<h3\b[^>]*class="[^"]*font-weight-bold[^"]*"[^>]*>(.*?)</h3>`)
	anyHeadingRe  = regexp.MustCompile(`(?is)<h[2-4]\b[^>]*>(.*?)</h[2-4]>`)
	priceParaRe   = regexp.MustCompile(`(?is)<p\b[^>]*class="[^"]*(?:plan-price|text-price|price)[^"]*"[^>]*>(.*?)</p>`)
	currencyRe    = regexp.MustCompile(`(?:US\$|U\$S|\$)\s?\d[\d.,]*`)

	lineBreakTagRe = regexp.MustCompile(`(?is)<(?:br\s*/?|/?small)[^>]*>`)
	anyTagRe       = regexp.MustCompile(`(?s)<[^>]*>`)
	spaceRe        = regexp.MustCompile(`[ \t\r\f\v]+`)
)

const scanWindow = 5000

// ParsePlans extracts every plan offered on a quote-result page. It is total:
// identical input yields an identical list, unparseable input yields an empty
// list, never an error. The caller must treat an empty list as a valid "no
// plans" outcome.
func ParsePlans(html string) []domain.QuotePlan {
	plans := parseStructural(html)
	if len(plans) == 0 {
		plans = parseWindowed(html, containerRe, labelCloseRe)
	}
	if len(plans) == 0 {
		plans = parseWindowed(html, altContainerRe, altCloseRe)
	}
	return plans
}

// parseStructural is the primary strategy: walk the parsed DOM from each
// select-plan form up to its card container and read name and price inside it.
func parseStructural(html string) []domain.QuotePlan {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var plans []domain.QuotePlan

	doc.Find(`form[name="select-plan"]`).Each(func(_ int, form *goquery.Selection) {
		id, _ := form.Attr("id")
		if !planIDRe.MatchString(id) {
			return
		}

		card := form.Closest("div.card, div.plan, li.plan, article")
		if card.Length() == 0 {
			card = form.Parent()
		}

		name := headingText(card)
		price := priceText(card)
		if name == "" && price == "" {
			return
		}

		plans = append(plans, domain.QuotePlan{PlanID: id, Name: name, Price: price})
	})

	return plans
}

func headingText(card *goquery.Selection) string {
	heading := card.Find("h3.font-weight-bold").First()
	if heading.Length() == 0 {
		heading = card.Find("h2, h3, h4").First()
	}
	if heading.Length() == 0 {
		return ""
	}
	inner, err := heading.Html()
	if err != nil {
		return normalizeFragment(heading.Text())
	}
	return normalizeFragment(inner)
}

func priceText(card *goquery.Selection) string {
	price := card.Find("p.plan-price, p.text-price, p.price").First()
	if price.Length() > 0 {
		if inner, err := price.Html(); err == nil {
			return firstLine(normalizeFragment(inner))
		}
		return firstLine(normalizeFragment(price.Text()))
	}
	if cardHTML, err := card.Html(); err == nil {
		if m := currencyRe.FindString(anyTagRe.ReplaceAllString(cardHTML, " ")); m != "" {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

// parseWindowed is the fallback strategy: for each select-plan form tag, scan
// a bounded window backward for the card's opening tag and forward for its
// closing tag, then extract from the slice in between.
func parseWindowed(html string, openRe, closeRe *regexp.Regexp) []domain.QuotePlan {
	var plans []domain.QuotePlan

	for _, loc := range formTagRe.FindAllStringIndex(html, -1) {
		tag := html[loc[0]:loc[1]]
		attrs := tagAttributes(tag)
		if attrs["name"] != "select-plan" || !planIDRe.MatchString(attrs["id"]) {
			continue
		}

		back := loc[0] - scanWindow
		if back < 0 {
			back = 0
		}
		opens := openRe.FindAllStringIndex(html[back:loc[0]], -1)
		if len(opens) == 0 {
			continue
		}
		start := back + opens[len(opens)-1][0]

		fwd := loc[1] + scanWindow
		if fwd > len(html) {
			fwd = len(html)
		}
		closeLoc := closeRe.FindStringIndex(html[loc[1]:fwd])
		if closeLoc == nil {
			continue
		}
		end := loc[1] + closeLoc[1]

		card := html[start:end]
		name := headingFromSlice(card)
		price := priceFromSlice(card)
		if name == "" && price == "" {
			continue
		}

		plans = append(plans, domain.QuotePlan{PlanID: attrs["id"], Name: name, Price: price})
	}

	return plans
}

func headingFromSlice(card string) string {
	if m := boldHeadingRe.FindStringSubmatch(card); m != nil {
		return normalizeFragment(m[1])
	}
	if m := anyHeadingRe.FindStringSubmatch(card); m != nil {
		return normalizeFragment(m[1])
	}
	return ""
}

func priceFromSlice(card string) string {
	if m := priceParaRe.FindStringSubmatch(card); m != nil {
		return firstLine(normalizeFragment(m[1]))
	}
	if m := currencyRe.FindString(anyTagRe.ReplaceAllString(card, " ")); m != "" {
		return strings.TrimSpace(m)
	}
	return ""
}

func tagAttributes(tag string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range attrRe.FindAllStringSubmatch(tag, -1) {
		attrs[strings.ToLower(m[1])] = m[2]
	}
	return attrs
}

// normalizeFragment converts an HTML fragment to display text: <br> and
// <small> boundaries become embedded newlines (line 0 = product name, line 1 =
// coverage description), every other tag is stripped, whitespace collapses
// within each line.
func normalizeFragment(fragment string) string {
	text := lineBreakTagRe.ReplaceAllString(fragment, "\n")
	text = anyTagRe.ReplaceAllString(text, " ")
	text = strings.NewReplacer("&nbsp;", " ", "&amp;", "&", "&lt;", "<", "&gt;", ">", "&#39;", "'", "&quot;", `"`).Replace(text)

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(spaceRe.ReplaceAllString(line, " "))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
