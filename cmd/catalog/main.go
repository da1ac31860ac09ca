package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/quotescout/quotescout/internal/browser"
	"github.com/quotescout/quotescout/internal/config"
	rediscache "github.com/quotescout/quotescout/internal/repository/redis"
	"github.com/quotescout/quotescout/internal/services/catalog"
)

var (
	green  = color.New(color.FgGreen, color.Bold)
	red    = color.New(color.FgRed, color.Bold)
	yellow = color.New(color.FgYellow, color.Bold)
	bold   = color.New(color.Bold)
)

func main() {
	output := flag.String("output", "", "Output file for JSON catalog (empty for stdout summary only)")
	timeout := flag.Duration("timeout", 5*time.Minute, "Catalog build timeout")
	headless := flag.Bool("headless", true, "Run browser in headless mode")
	persist := flag.Bool("persist", false, "Store the catalog in Redis for the API to pick up")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		red.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	bold.Printf("Building option catalog for: %s\n", cfg.Scraper.TargetURL)
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

	builder := catalog.NewBuilder(catalog.BuilderConfig{
		BaseURL:     cfg.Scraper.TargetURL,
		WaitTimeout: cfg.Scraper.WaitTimeout,
		SettleDelay: cfg.Scraper.SettleDelay,
	}, logger)

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("   Scraping trip types..."),
		progressbar.OptionSpinnerType(14),
	)
	builder.SetProgressCallback(func(done, total int) {
		bar.ChangeMax(total)
		bar.Set(done)
		bar.Describe(fmt.Sprintf("   Destinations %d/%d...", done, total))
	})

	var store catalog.Store
	if *persist {
		cache, err := rediscache.New(cfg.Redis)
		if err != nil {
			yellow.Fprintf(os.Stderr, "Redis unavailable, catalog will not be persisted: %v\n", err)
		} else {
			defer cache.Close()
			store = cache
		}
	}

	resolver := catalog.NewResolver(catalog.ResolverConfig{
		FallbackDestinationID: cfg.Scraper.ResolveFallbackID,
	}, logger)
	service := catalog.NewService(manager, builder, resolver, store, logger)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	start := time.Now()
	cat, err := service.Rebuild(ctx)
	bar.Finish()
	fmt.Println()
	if err != nil {
		red.Fprintf(os.Stderr, "Catalog build failed: %v\n", err)
		os.Exit(1)
	}

	green.Println("Catalog built")
	fmt.Printf("├── Trip Types: %d\n", len(cat.TripTypes))
	fmt.Printf("├── Origins: %d\n", len(cat.Origins))
	for _, tt := range cat.TripTypes {
		fmt.Printf("├── Destinations (%s): %d\n", tt.Text, len(cat.Destinations[tt.Value]))
	}
	fmt.Printf("├── Agents: %d\n", len(cat.Agents))
	fmt.Printf("└── Duration: %s\n", time.Since(start).Round(time.Millisecond))

	if *output != "" {
		jsonData, err := json.MarshalIndent(cat, "", "  ")
		if err != nil {
			red.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*output, jsonData, 0644); err != nil {
			red.Fprintf(os.Stderr, "Error writing file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nJSON catalog saved to: %s\n", *output)
	}
}
