package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/quotescout/quotescout/internal/browser"
	"github.com/quotescout/quotescout/internal/config"
	"github.com/quotescout/quotescout/internal/domain"
	"github.com/quotescout/quotescout/internal/forms"
	"github.com/quotescout/quotescout/internal/services/catalog"
	"github.com/quotescout/quotescout/internal/services/purchase"
	"github.com/quotescout/quotescout/internal/services/quote"
)

var (
	green = color.New(color.FgGreen, color.Bold)
	red   = color.New(color.FgRed, color.Bold)
	cyan  = color.New(color.FgCyan, color.Bold)
	bold  = color.New(color.Bold)
	dim   = color.New(color.Faint)
)

func main() {
	tripType := flag.String("trip-type", "daily", "Trip type: daily or annual")
	origin := flag.String("origin", "", "Origin country (free text, resolved against the catalog)")
	destination := flag.String("destination", "", "Destination (free text, resolved against the catalog)")
	departure := flag.String("departure", "", "Departure date DD/MM/YYYY")
	returnDate := flag.String("return", "", "Return date DD/MM/YYYY")
	agesFlag := flag.String("ages", "30", "Comma-separated passenger ages")
	agent := flag.String("agent", "", "Agent name (optional)")
	planID := flag.String("plan", "", "Also fetch the purchase form for this plan ID")
	headless := flag.Bool("headless", true, "Run browser in headless mode")
	timeout := flag.Duration("timeout", 5*time.Minute, "Overall timeout")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		red.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	ages, err := parseAges(*agesFlag)
	if err != nil {
		red.Fprintf(os.Stderr, "Invalid -ages: %v\n", err)
		os.Exit(1)
	}

	quoteConfig := domain.QuoteConfig{
		TripType:       domain.TripType(*tripType),
		Origin:         *origin,
		Destination:    *destination,
		PassengerCount: len(ages),
		Ages:           ages,
		Agent:          *agent,
	}
	if *departure != "" {
		d, err := domain.ParseHumanDate(*departure)
		if err != nil {
			red.Fprintf(os.Stderr, "Invalid -departure, expected DD/MM/YYYY\n")
			os.Exit(1)
		}
		quoteConfig.DepartureDate = d
	}
	if *returnDate != "" {
		d, err := domain.ParseHumanDate(*returnDate)
		if err != nil {
			red.Fprintf(os.Stderr, "Invalid -return, expected DD/MM/YYYY\n")
			os.Exit(1)
		}
		quoteConfig.ReturnDate = d
	}
	if err := quoteConfig.Validate(domain.DateOf(time.Now())); err != nil {
		red.Fprintf(os.Stderr, "Invalid trip configuration: %v\n", err)
		os.Exit(1)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	bold.Printf("Quoting %s -> %s (%d passengers)\n", *origin, *destination, len(ages))
	fmt.Println("---")

	manager, err := browser.NewManager(browser.ManagerConfig{
		Headless:          *headless,
		SessionsPerMinute: cfg.Scraper.SessionsPerMinute,
	}, logger)
	if err != nil {
		red.Fprintf(os.Stderr, "Failed to launch browser: %v\n", err)
		os.Exit(1)
	}
	defer manager.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	// Build a throwaway catalog for this run
	builder := catalog.NewBuilder(catalog.BuilderConfig{
		BaseURL:     cfg.Scraper.TargetURL,
		WaitTimeout: cfg.Scraper.WaitTimeout,
		SettleDelay: cfg.Scraper.SettleDelay,
	}, logger)
	resolver := catalog.NewResolver(catalog.ResolverConfig{
		FallbackDestinationID: cfg.Scraper.ResolveFallbackID,
	}, logger)
	catalogService := catalog.NewService(manager, builder, resolver, nil, logger)

	bar := spinner("   Building catalog...")
	if _, err := catalogService.Rebuild(ctx); err != nil {
		bar.Finish()
		red.Fprintf(os.Stderr, "\nCatalog build failed: %v\n", err)
		os.Exit(1)
	}
	bar.Finish()
	fmt.Println()

	resolved, err := catalogService.Resolve(ctx, quoteConfig)
	if err != nil {
		red.Fprintf(os.Stderr, "Resolution failed: %v\n", err)
		os.Exit(1)
	}
	dim.Printf("Resolved: trip_type=%s origin=%s destination=%s\n",
		resolved.TripTypeID, resolved.OriginID, resolved.DestinationID)

	quoteService := quote.NewService(manager, quote.Config{
		BaseURL:       cfg.Scraper.TargetURL,
		WaitTimeout:   cfg.Scraper.WaitTimeout,
		ResultTimeout: cfg.Scraper.ResultTimeout,
		SettleDelay:   cfg.Scraper.SettleDelay,
	}, nil, nil, logger)

	bar = spinner("   Submitting quote...")
	session, err := quoteService.Submit(ctx, resolved)
	bar.Finish()
	fmt.Println()
	if err != nil {
		red.Fprintf(os.Stderr, "Quote failed: %v\n", err)
		os.Exit(1)
	}

	green.Printf("Got %d plans\n", len(session.Plans))
	for _, plan := range session.Plans {
		cyan.Printf("  %s", plan.PlanID)
		fmt.Printf("  %s", plan.Name)
		if plan.Price != "" {
			fmt.Printf("  (%s)", plan.Price)
		}
		fmt.Println()
	}
	dim.Printf("Quote URL: %s\n", session.URL)

	if *planID == "" {
		return
	}

	purchaseService := purchase.NewService(manager, purchase.Config{
		BaseURL:     cfg.Scraper.TargetURL,
		WaitTimeout: cfg.Scraper.WaitTimeout,
		SettleDelay: cfg.Scraper.SettleDelay,
	}, nil, logger)

	bar = spinner(fmt.Sprintf("   Fetching purchase form for %s...", *planID))
	data, err := purchaseService.Fetch(ctx, *planID, session.URL)
	bar.Finish()
	fmt.Println()
	if err != nil {
		red.Fprintf(os.Stderr, "Purchase form fetch failed: %v\n", err)
		os.Exit(1)
	}
	if data.Error != "" {
		red.Printf("Extraction degraded: %s\n", data.Error)
	}

	for _, form := range data.Forms {
		bold.Printf("Form #%d (%s %s): %d fields\n", form.Index, form.Method, form.Action, len(form.Fields))
		grouped := forms.Group(form.Fields)
		for idx, passengerFields := range grouped.Passengers {
			fmt.Printf("  Passenger %d: %d fields\n", idx, len(passengerFields))
		}
		if len(grouped.Contact) > 0 {
			fmt.Printf("  Contact: %d fields\n", len(grouped.Contact))
		}
		for _, field := range grouped.Benefits {
			premium := ""
			if field.RiderPremiumCents != nil {
				premium = " +" + forms.FormatUSD(*field.RiderPremiumCents)
			}
			fmt.Printf("  Rider: %s%s\n", field.Label, premium)
		}
		if engine, ok := forms.NewEngine(form.Fields); ok {
			green.Printf("  Base premium: %s\n", forms.FormatUSD(engine.BaseCents()))
		}
	}
}

func spinner(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
	)
}

func parseAges(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	ages := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		age, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid age %q", p)
		}
		ages = append(ages, age)
	}
	if len(ages) == 0 {
		return nil, fmt.Errorf("at least one age is required")
	}
	return ages, nil
}
