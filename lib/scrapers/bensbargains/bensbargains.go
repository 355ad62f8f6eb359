// Package bensbargains scrapes deal listings from bensbargains.com.
//
// The site renders its deal cards client-side with unstable class
// names, so instead of chasing card selectors this source walks every
// anchor on the page and keeps the ones that look like deal links:
// on-site urls with real titles. Short anchor text ("Read More",
// navigation chrome) is discarded.
package bensbargains

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

var tracer = otel.Tracer("dealforge.lib.scrapers.bensbargains")

var baseURL = &url.URL{Scheme: "https", Host: "bensbargains.com"}

// anchors shorter than this are navigation text, not deal titles
const minTitleLen = 15

var defaultListings = []scrapers.Listing{
	{URL: "https://bensbargains.com/c/desktop-computers/", Category: "desktop-computers"},
	{URL: "https://bensbargains.com/c/laptops/", Category: "laptops"},
	{URL: "https://bensbargains.com/c/wireless-headphones/", Category: "wireless-headphones"},
	{URL: "https://bensbargains.com/c/tablets/", Category: "tablets"},
	{URL: "https://bensbargains.com/c/cpus/", Category: "cpus"},
	{URL: "https://bensbargains.com/c/smartphones/", Category: "smartphones"},
	{URL: "https://bensbargains.com/c/tvs/", Category: "tvs"},
	{URL: "https://bensbargains.com/c/motherboards/", Category: "motherboards"},
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
	excluded = append(excluded, opts.ExcludedDomains...)

	return &Source{
		client:   scrapers.NewClient("scrapers/bensbargains/http"),
		listings: listings,
		excluded: excluded,
	}
}

func (s *Source) Name() string {
	return "bensbargains"
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

	deals := parseListing(ctx, doc, listing, s.excluded)
	span.SetAttributes(attribute.Int("deals", len(deals)))
	return deals, nil
}

func parseListing(ctx context.Context, doc *goquery.Document, listing scrapers.Listing, excluded []string) []scrapers.RawDeal {
	category := listing.Category
	if category == "" {
		category = categoryFromURL(listing.URL)
	}

	var deals []scrapers.RawDeal
	seen := map[string]bool{}
	for _, anchor := range htmlutil.GetAnchors(ctx, baseURL, doc.Find("a[href]")) {
		if !strings.Contains(anchor.Href, "bensbargains.com") {
			continue
		}
		if scrapers.ShouldExcludeLink(anchor.Href, excluded) {
			continue
		}
		if utf8.RuneCountInString(anchor.Name) < minTitleLen {
			continue
		}
		if seen[anchor.Href] {
			continue
		}
		seen[anchor.Href] = true

		deals = append(deals, scrapers.RawDeal{
			"title":    anchor.Name,
			"link":     anchor.Href,
			"website":  "bensbargains",
			"category": category,
		})
	}
	return deals
}

func categoryFromURL(listingURL string) string {
	parts := strings.Split(strings.Trim(listingURL, "/"), "/")
	if len(parts) == 0 {
		return "deals"
	}
	last := parts[len(parts)-1]
	if last == "" || strings.Contains(last, ".") {
		return "deals"
	}
	return last
}
