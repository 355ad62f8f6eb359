package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"dealforge-backend/lib/dealstore"
	"dealforge-backend/lib/scrapers"
	"dealforge-backend/lib/textutil"
)

// ValidationError means a raw deal is missing a mandatory field. The
// record is unusable; the run keeps going without it.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("raw deal is missing required field %q", e.Field)
}

// ErrNoisyTitle marks a record whose title is too short to be a real
// product name ("Read More", "Details"). Filtered out, not a failure.
var ErrNoisyTitle = errors.New("title is below the minimum length")

// ErrExcludedLink marks a record whose link points at ad or
// site-chrome urls rather than a product.
var ErrExcludedLink = errors.New("link matches an exclusion rule")

const descriptionMaxLen = 300

// default titles shorter than this are treated as noise; sources with
// less reliable markup override it upward
const defaultMinTitleLen = 5

type NormalizerOptions struct {
	// per-website minimum title length, keyed by source name
	MinTitleLen map[string]int
	// per-website base url for resolving relative links
	BaseURLs map[string]*url.URL
	// domains that disqualify a link outright
	ExcludedDomains []string
}

// Normalizer turns loosely typed raw deals into canonical records.
// It is pure: the same raw input and timestamp always produce the
// same record.
type Normalizer struct {
	opts NormalizerOptions
}

func NewNormalizer(opts NormalizerOptions) Normalizer {
	if len(opts.ExcludedDomains) == 0 {
		opts.ExcludedDomains = scrapers.DefaultExcludedDomains
	}
	return Normalizer{opts: opts}
}

// Normalize produces a canonical record from one raw deal. Missing
// optional fields stay nil. Unparseable numeric text also yields nil,
// never an error; only a missing title or link fails outright.
func (n Normalizer) Normalize(raw scrapers.RawDeal, scrapedAt time.Time) (dealstore.Deal, error) {
	title := textutil.CollapseWhitespace(stringField(raw, "title"))
	if title == "" {
		return dealstore.Deal{}, &ValidationError{Field: "title"}
	}
	link := stringField(raw, "link")
	if link == "" {
		return dealstore.Deal{}, &ValidationError{Field: "link"}
	}

	website := stringField(raw, "website")
	link = n.canonicalLink(link, website)
	if scrapers.ShouldExcludeLink(link, n.opts.ExcludedDomains) {
		return dealstore.Deal{}, ErrExcludedLink
	}

	minTitle := n.opts.MinTitleLen[website]
	if minTitle == 0 {
		minTitle = defaultMinTitleLen
	}
	if utf8.RuneCountInString(title) < minTitle {
		return dealstore.Deal{}, ErrNoisyTitle
	}

	deal := dealstore.Deal{
		Title:     title,
		Link:      link,
		Category:  textutil.CollapseWhitespace(stringField(raw, "category")),
		Website:   website,
		Active:    true,
		ScrapedAt: scrapedAt,
	}

	if priceText := stringField(raw, "price_text"); priceText != "" {
		deal.PriceText = &priceText
		if price, ok := textutil.ExtractPrice(priceText); ok {
			deal.PriceNumeric = &price
		} else {
			slog.Warn("could not parse price text", "website", website, "link", link, "price_text", priceText)
		}
	}
	if price, ok := floatField(raw, "price_numeric"); ok && deal.PriceNumeric == nil {
		deal.PriceNumeric = &price
	}
	if original, ok := floatField(raw, "original_price_text"); ok {
		deal.OriginalPrice = &original
	} else if original, ok := floatField(raw, "original_price"); ok {
		deal.OriginalPrice = &original
	}

	deal.DiscountPercent = n.discount(raw, deal.PriceNumeric, deal.OriginalPrice)

	if rating, ok := floatField(raw, "rating_text"); ok {
		deal.Rating = clampRating(rating)
	} else if rating, ok := floatField(raw, "rating"); ok {
		deal.Rating = clampRating(rating)
	}
	if reviewsText := stringField(raw, "reviews_text"); reviewsText != "" {
		if reviews, ok := textutil.ExtractInt(reviewsText); ok {
			deal.ReviewsCount = &reviews
		}
	} else if reviews, ok := floatField(raw, "reviews_count"); ok && reviews >= 0 {
		count := int64(reviews)
		deal.ReviewsCount = &count
	}

	if image := stringField(raw, "image_url"); image != "" {
		resolved := n.canonicalLink(image, website)
		deal.ImageURL = &resolved
	}
	if description := textutil.CollapseWhitespace(stringField(raw, "description")); description != "" {
		description = textutil.Truncate(description, descriptionMaxLen)
		deal.Description = &description
	}

	if availability := textutil.CollapseWhitespace(stringField(raw, "availability")); availability != "" {
		deal.Availability = &availability
		inStock := !isOutOfStock(availability)
		deal.InStock = &inStock
	}
	if inStock, ok := boolField(raw, "in_stock"); ok {
		deal.InStock = &inStock
	}

	if shippingText := stringField(raw, "shipping_text"); shippingText != "" {
		if strings.Contains(strings.ToLower(shippingText), "free") {
			zero := 0.0
			deal.ShippingCost = &zero
		} else if cost, ok := textutil.ExtractPrice(shippingText); ok {
			deal.ShippingCost = &cost
		}
	} else if cost, ok := floatField(raw, "shipping_cost"); ok {
		deal.ShippingCost = &cost
	}

	return deal, nil
}

// discount picks the canonical discount: derived from the price
// difference when both prices are present, else whatever percent the
// source displayed. Sites round their badges inconsistently, the
// derived number is the one the two stored prices actually agree on.
func (n Normalizer) discount(raw scrapers.RawDeal, price, original *float64) *float64 {
	if price != nil && original != nil && *original > 0 && *original >= *price {
		derived := roundTenth((*original - *price) / *original * 100)
		return &derived
	}
	if text := stringField(raw, "discount_text"); text != "" {
		if percent, ok := textutil.ExtractPercent(text); ok && percent >= 0 && percent <= 100 {
			rounded := roundTenth(percent)
			return &rounded
		}
	}
	if percent, ok := floatField(raw, "discount_percent"); ok && percent >= 0 && percent <= 100 {
		rounded := roundTenth(percent)
		return &rounded
	}
	return nil
}

func (n Normalizer) canonicalLink(link, website string) string {
	link = strings.TrimSpace(link)
	if strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
		return link
	}
	base := n.opts.BaseURLs[website]
	if base == nil {
		return link
	}
	resolved, err := url.Parse(link)
	if err != nil {
		return link
	}
	return base.ResolveReference(resolved).String()
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

func clampRating(rating float64) *float64 {
	if rating < 0 {
		return nil
	}
	if rating > 5 {
		rating = 5
	}
	return &rating
}

func isOutOfStock(availability string) bool {
	lower := strings.ToLower(availability)
	return strings.Contains(lower, "out of stock") ||
		strings.Contains(lower, "sold out") ||
		strings.Contains(lower, "unavailable")
}

func stringField(raw scrapers.RawDeal, key string) string {
	value, ok := raw[key]
	if !ok {
		return ""
	}
	s, ok := value.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

func floatField(raw scrapers.RawDeal, key string) (float64, bool) {
	value, ok := raw[key]
	if !ok {
		return 0, false
	}
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		return textutil.ExtractPrice(v)
	}
	return 0, false
}

func boolField(raw scrapers.RawDeal, key string) (bool, bool) {
	value, ok := raw[key]
	if !ok {
		return false, false
	}
	b, ok := value.(bool)
	return b, ok
}
