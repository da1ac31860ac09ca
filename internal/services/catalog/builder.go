package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/quotescout/quotescout/internal/browser"
	"github.com/quotescout/quotescout/internal/domain"
)

// Selectors of the remote quote form's base page
const (
	SelTripType    = "select#trip-type"
	SelOrigin      = "select#origin-country"
	SelDestination = "select#destination-country"
	SelAgent       = "select#agency"
)

// BuilderConfig bounds the catalog scrape
type BuilderConfig struct {
	BaseURL     string
	WaitTimeout time.Duration
	SettleDelay time.Duration
}

// DefaultBuilderConfig returns the production scrape bounds
func DefaultBuilderConfig(baseURL string) BuilderConfig {
	return BuilderConfig{
		BaseURL:     baseURL,
		WaitTimeout: 30 * time.Second,
		SettleDelay: 1200 * time.Millisecond,
	}
}

// Builder drives the remote base form through every trip-type option and
// records which destination options are enabled for each, producing the
// trip-type → destinations matrix.
type Builder struct {
	config BuilderConfig
	logger *zap.Logger

	onProgress func(done, total int)
}

// NewBuilder creates a catalog builder
func NewBuilder(config BuilderConfig, logger *zap.Logger) *Builder {
	return &Builder{config: config, logger: logger}
}

// SetProgressCallback sets a callback invoked after each trip type is scraped
func (b *Builder) SetProgressCallback(fn func(done, total int)) {
	b.onProgress = fn
}

// Build scrapes the full catalog. The remote session's form state is left
// mutated: the last-selected trip type is the last one iterated, so callers
// must not reuse the session assuming base-page state.
//
// A missing trip-type selector is fatal (no catalog is usable without it); a
// failure scraping one trip type's destinations degrades to an empty list for
// that type.
func (b *Builder) Build(ctx context.Context, session browser.Session) (*domain.Catalog, error) {
	if err := session.Navigate(ctx, b.config.BaseURL); err != nil {
		return nil, domain.RemoteInteractionError("loading base form", err)
	}

	if err := session.WaitForSelector(ctx, SelTripType, b.config.WaitTimeout); err != nil {
		return nil, domain.RemoteInteractionError("locating trip-type selector", err)
	}

	html, err := session.Content(ctx)
	if err != nil {
		return nil, domain.RemoteInteractionError("reading base form", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, domain.RemoteInteractionError("parsing base form", err)
	}

	catalog := &domain.Catalog{
		TripTypes:    selectOptions(doc, SelTripType),
		Origins:      selectOptions(doc, SelOrigin),
		Destinations: make(map[string][]domain.CatalogOption),
		Agents:       selectOptions(doc, SelAgent),
		BuiltAt:      time.Now().UTC(),
	}

	total := 0
	for _, tripType := range catalog.TripTypes {
		if !tripType.Disabled {
			total++
		}
	}

	done := 0
	for _, tripType := range catalog.TripTypes {
		// A disabled trip type cannot be selected on the remote form, so
		// there is no destination list to scrape for it.
		if tripType.Disabled {
			continue
		}

		destinations, err := b.scrapeDestinations(ctx, session, tripType.Value)
		if err != nil {
			b.logger.Warn("Destination scrape failed for trip type, degrading to empty list",
				zap.String("trip_type", tripType.Value),
				zap.Error(err),
			)
			destinations = []domain.CatalogOption{}
		}
		catalog.Destinations[tripType.Value] = destinations

		done++
		if b.onProgress != nil {
			b.onProgress(done, total)
		}
	}

	b.logger.Info("Catalog built",
		zap.Int("trip_types", len(catalog.TripTypes)),
		zap.Int("origins", len(catalog.Origins)),
		zap.Int("agents", len(catalog.Agents)),
	)

	return catalog, nil
}

// scrapeDestinations selects a trip type and re-reads the dependent
// destination options after the page's own logic refreshes them
func (b *Builder) scrapeDestinations(ctx context.Context, session browser.Session, tripTypeValue string) ([]domain.CatalogOption, error) {
	if err := session.SelectByValue(ctx, SelTripType, tripTypeValue); err != nil {
		return nil, err
	}
	if err := session.Settle(ctx, b.config.SettleDelay); err != nil {
		return nil, err
	}

	html, err := session.Content(ctx)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	return enabledOptions(doc, SelDestination), nil
}

// selectOptions reads the visible options of a select element, recording the
// disabled flag. Style-hidden options are presentation leftovers and never
// make it into the catalog.
func selectOptions(doc *goquery.Document, selector string) []domain.CatalogOption {
	var options []domain.CatalogOption

	doc.Find(selector + " option").Each(func(_ int, opt *goquery.Selection) {
		value, _ := opt.Attr("value")
		if value == "" {
			return
		}
		if style, ok := opt.Attr("style"); ok && isHiddenStyle(style) {
			return
		}

		_, disabled := opt.Attr("disabled")
		dataFilter, _ := opt.Attr("data-filter")
		options = append(options, domain.CatalogOption{
			Value:      value,
			Text:       strings.TrimSpace(opt.Text()),
			Disabled:   disabled,
			DataFilter: dataFilter,
		})
	})

	return options
}

// enabledOptions drops disabled options entirely. Destination lists carry
// only what the remote form would actually let a user pick.
func enabledOptions(doc *goquery.Document, selector string) []domain.CatalogOption {
	var options []domain.CatalogOption
	for _, opt := range selectOptions(doc, selector) {
		if opt.Disabled {
			continue
		}
		options = append(options, opt)
	}
	return options
}

func isHiddenStyle(style string) bool {
	compact := strings.ReplaceAll(strings.ToLower(style), " ", "")
	return strings.Contains(compact, "display:none") || strings.Contains(compact, "visibility:hidden")
}
