// Package pipeline turns raw scraper output into canonical deal
// history. A run walks every registered source, normalizes what the
// sources hand back, and appends the batch to the store. Sources that
// fail are skipped and reported; correctness only depends on coverage
// across repeated runs, not on any single run being complete.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"dealforge-backend/lib/dealstore"
	"dealforge-backend/lib/scrapers"
	"dealforge-backend/lib/timezone"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/pipeline")

// SourceError records a listing fetch that failed. The run continues
// with the next listing.
type SourceError struct {
	Source string
	URL    string
	Err    error
}

// QualityStats counts how many records in a batch carried each
// optional field, a rough signal for selector drift on a source.
type QualityStats struct {
	WithPrice    int
	WithImage    int
	WithRating   int
	WithDiscount int
}

// Report summarizes one run for the caller. Dropped counts records
// missing mandatory fields, Skipped counts noise titles and excluded
// links; neither is fatal.
type Report struct {
	Scraped      int
	Inserted     int
	Dropped      int
	Skipped      int
	Quality      QualityStats
	SourceErrors []SourceError
	StoreErr     error
	// the normalized batch, for callers that also export per run
	Deals []dealstore.Deal
}

type Options struct {
	Registry   *scrapers.Registry
	Normalizer Normalizer
	// delay between page loads, jittered to stay under detection
	// thresholds
	ThrottleBase   time.Duration
	ThrottleJitter time.Duration
}

type Service struct {
	store      dealstore.Store
	registry   *scrapers.Registry
	normalizer Normalizer
	throttle   time.Duration
	jitter     time.Duration
}

func NewService(store dealstore.Store, opts Options) Service {
	throttle := opts.ThrottleBase
	if throttle == 0 {
		throttle = 3 * time.Second
	}
	return Service{
		store:      store,
		registry:   opts.Registry,
		normalizer: opts.Normalizer,
		throttle:   throttle,
		jitter:     opts.ThrottleJitter,
	}
}

// Run scrapes every listing of every registered source sequentially
// and persists the normalized batch. A store failure ends the run but
// keeps whatever chunks were already committed.
func (s Service) Run(ctx context.Context) Report {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	var raws []scrapers.RawDeal
	var report Report
	first := true
	for _, source := range s.registry.All() {
		for _, listing := range source.Listings() {
			if ctx.Err() != nil {
				return report
			}
			if !first {
				scrapers.Throttle(ctx, s.throttle, s.jitter)
			}
			first = false

			deals, err := source.Fetch(ctx, listing)
			if err != nil {
				slog.Warn(
					"listing fetch failed",
					"source", source.Name(),
					"url", listing.URL,
					"err", err,
				)
				span.RecordError(err)
				report.SourceErrors = append(report.SourceErrors, SourceError{
					Source: source.Name(),
					URL:    listing.URL,
					Err:    err,
				})
				continue
			}
			slog.Info(
				"scraped listing",
				"source", source.Name(),
				"url", listing.URL,
				"deals", len(deals),
			)
			raws = append(raws, deals...)
		}
	}

	s.Process(ctx, raws, &report)
	span.SetAttributes(
		attribute.Int("scraped", report.Scraped),
		attribute.Int("inserted", report.Inserted),
	)
	return report
}

// Process normalizes a batch of raw deals and appends them to the
// store, accumulating counts into the report. Every record in the
// batch shares one observation timestamp.
func (s Service) Process(ctx context.Context, raws []scrapers.RawDeal, report *Report) {
	ctx, span := tracer.Start(ctx, "Process")
	defer span.End()

	scrapedAt := timezone.Now()
	batch := make([]dealstore.Deal, 0, len(raws))
	for _, raw := range raws {
		report.Scraped++

		deal, err := s.normalizer.Normalize(raw, scrapedAt)
		var validation *ValidationError
		switch {
		case err == nil:
			batch = append(batch, deal)
			if deal.PriceNumeric != nil {
				report.Quality.WithPrice++
			}
			if deal.ImageURL != nil {
				report.Quality.WithImage++
			}
			if deal.Rating != nil {
				report.Quality.WithRating++
			}
			if deal.DiscountPercent != nil {
				report.Quality.WithDiscount++
			}
		case errors.As(err, &validation):
			report.Dropped++
		case errors.Is(err, ErrNoisyTitle), errors.Is(err, ErrExcludedLink):
			report.Skipped++
		default:
			report.Dropped++
		}
	}

	report.Deals = batch
	committed, err := s.store.Push(ctx, batch)
	report.Inserted = committed
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "batch write failed")
		slog.Error("batch write failed", "committed", committed, "err", err)
		report.StoreErr = err
	}
}
