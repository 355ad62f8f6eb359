package newegg

import (
	"bytes"
	"context"
	"net/url"
	"regexp"
	"slices"
	"strings"

	"dealforge-backend/lib/htmlutil"
	"dealforge-backend/lib/scrapers"
	"dealforge-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("dealforge.lib.scrapers.newegg")

var baseURL = &url.URL{Scheme: "https", Host: "www.newegg.com"}

var defaultListings = []scrapers.Listing{
	{URL: "https://www.newegg.com/p/pl?d=graphics+cards&N=100007709", Category: "graphics cards"},
	{URL: "https://www.newegg.com/p/pl?d=processors&N=100007671", Category: "processors"},
	{URL: "https://www.newegg.com/p/pl?d=laptops&N=100006740", Category: "laptops"},
	{URL: "https://www.newegg.com/p/pl?d=motherboards&N=100007627", Category: "motherboards"},
}

type Options struct {
	Listings        []scrapers.Listing
	ExcludedDomains []string
}

type Source struct {
	client   *resty.Client
	listings []scrapers.Listing
	excluded []string
}

func NewSource(opts Options) *Source {
	listings := opts.Listings
	if len(listings) == 0 {
		listings = defaultListings
	}
	excluded := slices.Clone(scrapers.DefaultExcludedDomains)
	// sibling newegg properties that listing markup links to but that
	// are not product pages
	excluded = append(excluded, "neweggbusiness.com", "secure.newegg.com")
	excluded = append(excluded, opts.ExcludedDomains...)

	return &Source{
		client:   scrapers.NewClient("scrapers/newegg/http"),
		listings: listings,
		excluded: excluded,
	}
}

func (s *Source) Name() string {
	return "newegg"
}

func (s *Source) Listings() []scrapers.Listing {
	return s.listings
}

func (s *Source) Fetch(ctx context.Context, listing scrapers.Listing) ([]scrapers.RawDeal, error) {
	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()
	span.SetAttributes(attribute.String("url", listing.URL))

	res, err := s.client.R().
		SetContext(ctx).
		Get(listing.URL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch listing page")
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse listing page")
		return nil, err
	}

	deals := parseListing(doc, listing, s.excluded)
	span.SetAttributes(attribute.Int("deals", len(deals)))
	return deals, nil
}

// newegg swaps between a few card layouts depending on the listing
var cardSelectors = []string{
	".item-container",
	".item-cell",
	".items-view .item",
}

var titleSelectors = []string{
	"a.item-title",
	".item-info a",
	"h3 a",
}

func parseListing(doc *goquery.Document, listing scrapers.Listing, excluded []string) []scrapers.RawDeal {
	var cards *goquery.Selection
	for _, selector := range cardSelectors {
		cards = doc.Find(selector)
		if cards.Length() > 0 {
			break
		}
	}

	category := listing.Category
	if category == "" {
		category = categoryFromURL(listing.URL)
	}

	var deals []scrapers.RawDeal
	cards.Each(func(_ int, card *goquery.Selection) {
		var anchor *goquery.Selection
		for _, selector := range titleSelectors {
			anchor = card.Find(selector).First()
			if anchor.Length() > 0 {
				break
			}
		}
		if anchor == nil || anchor.Length() == 0 {
			return
		}

		href := anchor.AttrOr("href", "")
		if scrapers.ShouldExcludeLink(href, excluded) {
			return
		}
		link, err := htmlutil.ResolveURL(baseURL, href)
		if err != nil {
			return
		}

		deal := scrapers.RawDeal{
			"title":    anchor.Text(),
			"link":     link,
			"website":  "newegg",
			"category": category,
		}

		if price := card.Find(".price-current").First(); price.Length() > 0 {
			deal["price_text"] = textutil.CollapseWhitespace(price.Text())
		}
		if was := card.Find(".price-was").First(); was.Length() > 0 {
			deal["original_price_text"] = textutil.CollapseWhitespace(was.Text())
		}
		if save := card.Find(".price-save-percent").First(); save.Length() > 0 {
			deal["discount_text"] = save.Text()
		}
		if ship := card.Find(".price-ship").First(); ship.Length() > 0 {
			deal["shipping_text"] = textutil.CollapseWhitespace(ship.Text())
		}

		if ratingAttr := card.Find("[data-rating]").First().AttrOr("data-rating", ""); ratingAttr != "" {
			deal["rating_text"] = ratingAttr
		} else if rating := card.Find(".item-rating").First().AttrOr("title", ""); rating != "" {
			deal["rating_text"] = rating
		}
		if reviews := card.Find(".item-rating-num").First(); reviews.Length() > 0 {
			deal["reviews_text"] = reviews.Text()
		}

		if img := card.Find(".item-img img").First(); img.Length() > 0 {
			src := img.AttrOr("src", "")
			if resolved, err := htmlutil.ResolveURL(baseURL, src); err == nil && src != "" {
				deal["image_url"] = resolved
			}
		}
		if features := card.Find(".item-features").First(); features.Length() > 0 {
			deal["description"] = features.Text()
		}
		if stock := card.Find(".item-stock").First(); stock.Length() > 0 {
			deal["availability"] = stock.Text()
		}

		deals = append(deals, deal)
	})
	return deals
}

var searchTermRegex = regexp.MustCompile(`d=([^&]+)`)

// categoryFromURL derives a category name from a listing url, first
// from the d= search parameter, then from keywords in the path.
func categoryFromURL(listingURL string) string {
	if groups := searchTermRegex.FindStringSubmatch(listingURL); len(groups) > 1 {
		return strings.ReplaceAll(groups[1], "+", " ")
	}

	lower := strings.ToLower(listingURL)
	switch {
	case strings.Contains(lower, "graphics"):
		return "graphics cards"
	case strings.Contains(lower, "processor"), strings.Contains(lower, "cpu"):
		return "processors"
	case strings.Contains(lower, "laptop"):
		return "laptops"
	case strings.Contains(lower, "motherboard"):
		return "motherboards"
	case strings.Contains(lower, "memory"), strings.Contains(lower, "ram"):
		return "memory"
	case strings.Contains(lower, "ssd"):
		return "storage"
	case strings.Contains(lower, "monitor"):
		return "monitors"
	case strings.Contains(lower, "power"):
		return "power supplies"
	}
	return "tech products"
}
