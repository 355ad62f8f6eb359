package commands

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"

	"dealforge-backend/lib/dealstore"
	"dealforge-backend/lib/restyutil"
	"dealforge-backend/lib/scrapers"
	"dealforge-backend/lib/scrapers/bensbargains"
	"dealforge-backend/lib/scrapers/newegg"
	"dealforge-backend/lib/scrapers/slickdeals"
	"dealforge-backend/lib/serviceutil"
	"dealforge-backend/lib/timezone"
	"dealforge-backend/services/pipeline"

	"github.com/spf13/cobra"
)

var scrapeSource *string
var scrapeExport *bool
var scrapeAlert *bool
var scrapeDebugHTTP *bool

func init() {
	scrapeSource = scrapeCmd.Flags().String("source", "", "Scrape only the named source (slickdeals, newegg, bensbargains).")
	scrapeExport = scrapeCmd.Flags().Bool("export", false, "Also write the scraped batch to a timestamped csv.")
	scrapeAlert = scrapeCmd.Flags().Bool("alert", false, "Email a price drop alert after the run.")
	scrapeDebugHTTP = scrapeCmd.Flags().Bool("debug-http", false, "Dump every fetched page to .dev/resty/forge.")
	rootCmd.AddCommand(scrapeCmd)
}

func buildRegistry(cfg Config) *scrapers.Registry {
	var sources []scrapers.Source
	if src := cfg.Sources["slickdeals"]; !src.Disabled {
		sources = append(sources, slickdeals.NewSource(slickdeals.Options{
			Listings:        src.Listings,
			ExcludedDomains: cfg.ExcludedDomains,
		}))
	}
	if src := cfg.Sources["newegg"]; !src.Disabled {
		sources = append(sources, newegg.NewSource(newegg.Options{
			Listings:        src.Listings,
			ExcludedDomains: cfg.ExcludedDomains,
		}))
	}
	if src := cfg.Sources["bensbargains"]; !src.Disabled {
		sources = append(sources, bensbargains.NewSource(bensbargains.Options{
			Listings:        src.Listings,
			ExcludedDomains: cfg.ExcludedDomains,
		}))
	}
	return scrapers.NewRegistry(sources...)
}

func buildNormalizer(cfg Config) pipeline.Normalizer {
	return pipeline.NewNormalizer(pipeline.NormalizerOptions{
		MinTitleLen: map[string]int{
			// anchor-walk scraping picks up navigation text, so the
			// bar is higher there
			"bensbargains": 15,
		},
		BaseURLs: map[string]*url.URL{
			"slickdeals":   {Scheme: "https", Host: "slickdeals.net"},
			"newegg":       {Scheme: "https", Host: "www.newegg.com"},
			"bensbargains": {Scheme: "https", Host: "bensbargains.com"},
		},
		ExcludedDomains: cfg.ExcludedDomains,
	})
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--source <name>] [--export] [--alert]",
	Short: "Scrapes every configured source and appends observations to the database.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		store, database := openStore(cfg)
		defer database.Close()

		if *scrapeDebugHTTP {
			scrapers.SetDebugOutput(restyutil.NewFilesystemOutput(".dev/resty/forge"))
		}

		registry := buildRegistry(cfg)
		if *scrapeSource != "" {
			source := registry.Find(*scrapeSource)
			if source == nil {
				fmt.Fprintf(os.Stderr, "unknown source %q\n", *scrapeSource)
				os.Exit(1)
			}
			registry = scrapers.NewRegistry(source)
		}

		base, jitter := cfg.throttle()
		service := pipeline.NewService(store, pipeline.Options{
			Registry:       registry,
			Normalizer:     buildNormalizer(cfg),
			ThrottleBase:   base,
			ThrottleJitter: jitter,
		})

		report := service.Run(cmd.Context())
		slog.Info(
			"run complete",
			"scraped", report.Scraped,
			"inserted", report.Inserted,
			"dropped", report.Dropped,
			"skipped", report.Skipped,
			"failed_listings", len(report.SourceErrors),
		)
		slog.Info(
			"batch quality",
			"with_price", report.Quality.WithPrice,
			"with_image", report.Quality.WithImage,
			"with_rating", report.Quality.WithRating,
			"with_discount", report.Quality.WithDiscount,
		)
		if report.StoreErr != nil {
			serviceutil.Fatal("run ended with a store failure", report.StoreErr)
		}

		if *scrapeExport {
			dir := cfg.ExportDir
			if dir == "" {
				dir = "exports"
			}
			path, err := dealstore.Export(dir, report.Deals, timezone.Now())
			if err != nil {
				serviceutil.Fatal("failed to export csv", err)
			}
			slog.Info("exported batch", "path", path, "rows", len(report.Deals))
		}

		if *scrapeAlert {
			drops, err := store.Drops(cmd.Context(), 20)
			if err != nil {
				serviceutil.Fatal("failed to query price drops", err)
			}
			alerter := pipeline.NewAlerter(cfg.Alert)
			err = alerter.SendDropAlert(cmd.Context(), drops)
			if err != nil {
				serviceutil.Fatal("failed to send drop alert", err)
			}
		}
	},
}
