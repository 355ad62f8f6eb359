package pipeline

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"dealforge-backend/lib/scrapers"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func TestNormalize(t *testing.T) {
	normalizer := NewNormalizer(NormalizerOptions{})

	deal, err := normalizer.Normalize(scrapers.RawDeal{
		"title":               "  Samsung   990 Pro 2TB NVMe SSD ",
		"link":                "https://example.com/deal/990-pro",
		"website":             "newegg",
		"category":            "ssd",
		"price_text":          "$1,299.99",
		"original_price_text": "$1,499.99",
		"rating_text":         "4.6",
		"reviews_text":        "(1,234)",
		"shipping_text":       "Free Shipping",
		"availability":        "In stock",
	}, testTime)
	require.NoError(t, err)

	require.Equal(t, "Samsung 990 Pro 2TB NVMe SSD", deal.Title)
	require.Equal(t, "https://example.com/deal/990-pro", deal.Link)
	require.Equal(t, testTime, deal.ScrapedAt)
	require.True(t, deal.Active)

	require.NotNil(t, deal.PriceNumeric)
	require.InDelta(t, 1299.99, *deal.PriceNumeric, 0.001)
	require.NotNil(t, deal.OriginalPrice)
	require.InDelta(t, 1499.99, *deal.OriginalPrice, 0.001)
	require.NotNil(t, deal.DiscountPercent)
	require.InDelta(t, 13.3, *deal.DiscountPercent, 0.001)

	require.NotNil(t, deal.Rating)
	require.InDelta(t, 4.6, *deal.Rating, 0.001)
	require.NotNil(t, deal.ReviewsCount)
	require.Equal(t, int64(1234), *deal.ReviewsCount)

	require.NotNil(t, deal.ShippingCost)
	require.Equal(t, 0.0, *deal.ShippingCost)
	require.NotNil(t, deal.InStock)
	require.True(t, *deal.InStock)
}

func TestNormalizeIdempotent(t *testing.T) {
	normalizer := NewNormalizer(NormalizerOptions{})
	raw := scrapers.RawDeal{
		"title":      "Anker 737 Power Bank",
		"link":       "https://example.com/deal/anker-737",
		"website":    "slickdeals",
		"price_text": "$74.99",
	}

	first, err := normalizer.Normalize(raw, testTime)
	require.NoError(t, err)
	second, err := normalizer.Normalize(raw, testTime)
	require.NoError(t, err)

	require.Empty(t, cmp.Diff(first, second))
}

func TestNormalizeValidation(t *testing.T) {
	normalizer := NewNormalizer(NormalizerOptions{})

	_, err := normalizer.Normalize(scrapers.RawDeal{
		"link": "https://example.com/deal/1",
	}, testTime)
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	require.Equal(t, "title", validation.Field)

	_, err = normalizer.Normalize(scrapers.RawDeal{
		"title": "Some Deal Title",
	}, testTime)
	require.ErrorAs(t, err, &validation)
	require.Equal(t, "link", validation.Field)
}

func TestNormalizeTitleNoise(t *testing.T) {
	normalizer := NewNormalizer(NormalizerOptions{
		MinTitleLen: map[string]int{"bensbargains": 15},
	})

	_, err := normalizer.Normalize(scrapers.RawDeal{
		"title": "Read",
		"link":  "https://example.com/deal/1",
	}, testTime)
	require.ErrorIs(t, err, ErrNoisyTitle)

	deal, err := normalizer.Normalize(scrapers.RawDeal{
		"title": "Read More About This",
		"link":  "https://example.com/deal/1",
	}, testTime)
	require.NoError(t, err)
	require.Equal(t, "Read More About This", deal.Title)

	// bensbargains markup is unreliable, its threshold is higher
	_, err = normalizer.Normalize(scrapers.RawDeal{
		"title":   "Hot Deal Here",
		"link":    "https://bensbargains.com/deal/1",
		"website": "bensbargains",
	}, testTime)
	require.ErrorIs(t, err, ErrNoisyTitle)

	// the floor counts runes, multibyte noise does not sneak past it
	_, err = normalizer.Normalize(scrapers.RawDeal{
		"title":   "Écran «4K» 144™", // 15 runes but well over 15 bytes
		"link":    "https://bensbargains.com/deal/2",
		"website": "bensbargains",
	}, testTime)
	require.NoError(t, err)
	_, err = normalizer.Normalize(scrapers.RawDeal{
		"title":   "Économisez 20€", // 14 runes, 17 bytes
		"link":    "https://bensbargains.com/deal/3",
		"website": "bensbargains",
	}, testTime)
	require.ErrorIs(t, err, ErrNoisyTitle)
}

func TestNormalizeExcludedLink(t *testing.T) {
	normalizer := NewNormalizer(NormalizerOptions{})

	_, err := normalizer.Normalize(scrapers.RawDeal{
		"title": "Sponsored Placement",
		"link":  "https://ad.doubleclick.net/ddm/clk/123",
	}, testTime)
	require.ErrorIs(t, err, ErrExcludedLink)
}

func TestNormalizeRelativeLink(t *testing.T) {
	normalizer := NewNormalizer(NormalizerOptions{
		BaseURLs: map[string]*url.URL{
			"slickdeals": {Scheme: "https", Host: "slickdeals.net"},
		},
	})

	deal, err := normalizer.Normalize(scrapers.RawDeal{
		"title":   "Logitech MX Master 3S",
		"link":    "/f/17482944-logitech-mouse",
		"website": "slickdeals",
	}, testTime)
	require.NoError(t, err)
	require.Equal(t, "https://slickdeals.net/f/17482944-logitech-mouse", deal.Link)
}

func TestNormalizeDiscountDerivation(t *testing.T) {
	normalizer := NewNormalizer(NormalizerOptions{})

	// both prices present: derived from the difference, whatever the
	// site's own badge claimed
	deal, err := normalizer.Normalize(scrapers.RawDeal{
		"title":          "Corsair Vengeance 32GB DDR5",
		"link":           "https://example.com/deal/ram",
		"price_text":     "$75.00",
		"original_price": 100.0,
		"discount_text":  "30% OFF",
	}, testTime)
	require.NoError(t, err)
	require.NotNil(t, deal.DiscountPercent)
	require.Equal(t, 25.0, *deal.DiscountPercent)

	// only the displayed percent available: use it as-is
	deal, err = normalizer.Normalize(scrapers.RawDeal{
		"title":         "Corsair Vengeance 32GB DDR5",
		"link":          "https://example.com/deal/ram",
		"discount_text": "30% OFF",
	}, testTime)
	require.NoError(t, err)
	require.NotNil(t, deal.DiscountPercent)
	require.Equal(t, 30.0, *deal.DiscountPercent)
}

func TestNormalizeUnparseableNumbers(t *testing.T) {
	normalizer := NewNormalizer(NormalizerOptions{})

	deal, err := normalizer.Normalize(scrapers.RawDeal{
		"title":      "Mystery Box Bundle",
		"link":       "https://example.com/deal/box",
		"price_text": "See price in cart",
	}, testTime)
	require.NoError(t, err)
	require.NotNil(t, deal.PriceText)
	require.Nil(t, deal.PriceNumeric)
	require.Nil(t, deal.DiscountPercent)
	require.Nil(t, deal.Rating)
}

func TestNormalizeRatingClamp(t *testing.T) {
	normalizer := NewNormalizer(NormalizerOptions{})

	deal, err := normalizer.Normalize(scrapers.RawDeal{
		"title":  "LG C4 55 inch OLED TV",
		"link":   "https://example.com/deal/tv",
		"rating": 9.7,
	}, testTime)
	require.NoError(t, err)
	require.NotNil(t, deal.Rating)
	require.Equal(t, 5.0, *deal.Rating)
}

func TestNormalizeOutOfStock(t *testing.T) {
	normalizer := NewNormalizer(NormalizerOptions{})

	deal, err := normalizer.Normalize(scrapers.RawDeal{
		"title":        "Steam Deck OLED 1TB",
		"link":         "https://example.com/deal/steamdeck",
		"availability": "OUT OF STOCK",
	}, testTime)
	require.NoError(t, err)
	require.NotNil(t, deal.InStock)
	require.False(t, *deal.InStock)
}

func TestNormalizeDescriptionTruncation(t *testing.T) {
	normalizer := NewNormalizer(NormalizerOptions{})

	long := ""
	for i := 0; i < 50; i++ {
		long += "specs and more "
	}
	deal, err := normalizer.Normalize(scrapers.RawDeal{
		"title":       "ASUS TUF Gaming Laptop",
		"link":        "https://example.com/deal/laptop",
		"description": long,
	}, testTime)
	require.NoError(t, err)
	require.NotNil(t, deal.Description)
	require.LessOrEqual(t, len(*deal.Description), descriptionMaxLen+len("..."))
}

func TestNormalizeErrorKinds(t *testing.T) {
	normalizer := NewNormalizer(NormalizerOptions{})
	_, err := normalizer.Normalize(scrapers.RawDeal{}, testTime)
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrNoisyTitle))
}
