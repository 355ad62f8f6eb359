package scrapers

import (
	"context"
	"strings"

	"dealforge-backend/lib/textutil"
)

// A RawDeal is the loosely typed mapping a source hands to the
// pipeline. Keys vary by source, the only hard requirement is a
// non-empty "title" and "link". The normalizer owns turning these
// into typed records, so selector strategy can change per site
// without touching the pipeline.
type RawDeal map[string]any

// Listing is one category page to scrape.
type Listing struct {
	URL      string `json:"url"`
	Category string `json:"category"`
}

// Source scrapes one website. Implementations are read-only: each
// Fetch is independent, output depends only on the page it pulled.
type Source interface {
	Name() string
	Listings() []Listing
	Fetch(ctx context.Context, listing Listing) ([]RawDeal, error)
}

// Registry holds the sources available to a run.
type Registry struct {
	sources []Source
}

func NewRegistry(sources ...Source) *Registry {
	return &Registry{sources: sources}
}

func (r *Registry) All() []Source {
	return r.sources
}

func (r *Registry) Find(name string) Source {
	for _, source := range r.sources {
		if source.Name() == name {
			return source
		}
	}
	return nil
}

// promotional/ad hosts that show up inside listing markup but never
// point at a product
var DefaultExcludedDomains = []string{
	"adzerk.net",
	"doubleclick.net",
	"googleadservices.com",
	"googlesyndication.com",
	"amazon-adsystem.com",
}

var excludedPathPatterns = []string{
	"/help/", "/customer-service/", "/info/", "/contact/",
	"/account/", "/login/", "/register/", "/cart/",
	"/checkout/", "/warranty/", "/rebate/", "/promotion/",
	"javascript:", "mailto:", "void(0)",
}

// ShouldExcludeLink reports whether a scraped href is a promotional,
// ad, or site-chrome link rather than a product.
func ShouldExcludeLink(link string, excludedDomains []string) bool {
	if link == "" || strings.HasPrefix(link, "#") {
		return true
	}
	for _, domain := range excludedDomains {
		if strings.Contains(link, domain) {
			return true
		}
	}
	return textutil.MatchName(link, excludedPathPatterns)
}
