package slickdeals

import (
	"bytes"
	"context"
	"net/url"
	"slices"
	"strings"
	"unicode/utf8"

	"dealforge-backend/lib/htmlutil"
	"dealforge-backend/lib/scrapers"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("dealforge.lib.scrapers.slickdeals")

var baseURL = &url.URL{Scheme: "https", Host: "slickdeals.net"}

var defaultListings = []scrapers.Listing{
	{URL: "https://slickdeals.net/computer-deals/", Category: "computer-deals"},
	{URL: "https://slickdeals.net/deals/tech/", Category: "tech"},
	{URL: "https://slickdeals.net/laptop-deals/", Category: "laptop-deals"},
	{URL: "https://slickdeals.net/monitor-deals/", Category: "monitor-deals"},
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
	return &Source{
		client:   scrapers.NewClient("scrapers/slickdeals/http"),
		listings: listings,
		excluded: append(slices.Clone(scrapers.DefaultExcludedDomains), opts.ExcludedDomains...),
	}
}

func (s *Source) Name() string {
	return "slickdeals"
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

func parseListing(doc *goquery.Document, listing scrapers.Listing, excluded []string) []scrapers.RawDeal {
	category := listing.Category
	if category == "" {
		category = categoryFromURL(listing.URL)
	}

	var deals []scrapers.RawDeal
	doc.Find(".bp-c-card").Each(func(_ int, card *goquery.Selection) {
		// deal permalinks live under /f/, anything else in the card is
		// chrome (voting, comments, store pages)
		anchor := card.Find(`a[href*="/f/"]`).First()
		if anchor.Length() == 0 {
			anchor = card.Find("a[href]").First()
		}
		if anchor.Length() == 0 {
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

		// card titles hide in different places depending on layout:
		// title attribute, aria-label, then the anchor text itself
		title := anchor.AttrOr("title", "")
		if utf8.RuneCountInString(title) <= 5 {
			title = anchor.AttrOr("aria-label", "")
		}
		if utf8.RuneCountInString(title) <= 5 {
			title = strings.TrimSpace(anchor.Text())
		}
		if utf8.RuneCountInString(title) <= 5 {
			return
		}

		deal := scrapers.RawDeal{
			"title":    title,
			"link":     link,
			"website":  "slickdeals",
			"category": category,
		}

		if price := card.Find(".bp-p-dealCard_price").First(); price.Length() > 0 {
			deal["price_text"] = strings.TrimSpace(price.Text())
		}
		if original := card.Find(".bp-p-dealCard_originalPrice").First(); original.Length() > 0 {
			deal["original_price_text"] = strings.TrimSpace(original.Text())
		}
		if img := card.Find("img").First(); img.Length() > 0 {
			src := img.AttrOr("src", "")
			if resolved, err := htmlutil.ResolveURL(baseURL, src); err == nil && src != "" {
				deal["image_url"] = resolved
			}
		}

		deals = append(deals, deal)
	})
	return deals
}

func categoryFromURL(listingURL string) string {
	category := strings.TrimPrefix(listingURL, "https://slickdeals.net/")
	if i := strings.IndexByte(category, '?'); i >= 0 {
		category = category[:i]
	}
	category = strings.Trim(category, "/")
	if category == "" {
		return "deals"
	}
	return category
}
