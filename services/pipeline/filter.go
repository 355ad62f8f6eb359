package pipeline

import (
	"strings"

	"dealforge-backend/lib/dealstore"
)

// FilterOptions is the configuration surface for row filtering. Every
// option set composes with the others by logical AND; an unset option
// passes everything through.
type FilterOptions struct {
	// nil price bounds pass rows with unknown prices, an unknown
	// price is not an excluded price
	MinPrice        *float64 `json:"min_price"`
	MaxPrice        *float64 `json:"max_price"`
	Keywords        []string `json:"keywords"`
	ExcludeKeywords []string `json:"exclude_keywords"`
	Categories      []string `json:"categories"`
	InStockOnly     bool     `json:"in_stock_only"`
}

// Filter applies the configured predicates to a table of deals. Pure:
// the input slice is never mutated and option order never matters.
func Filter(deals []dealstore.Deal, opts FilterOptions) []dealstore.Deal {
	var kept []dealstore.Deal
	for _, deal := range deals {
		if matches(deal, opts) {
			kept = append(kept, deal)
		}
	}
	return kept
}

func matches(deal dealstore.Deal, opts FilterOptions) bool {
	if deal.PriceNumeric != nil {
		if opts.MinPrice != nil && *deal.PriceNumeric < *opts.MinPrice {
			return false
		}
		if opts.MaxPrice != nil && *deal.PriceNumeric > *opts.MaxPrice {
			return false
		}
	}

	title := strings.ToLower(deal.Title)
	if len(opts.Keywords) > 0 && !containsAny(title, opts.Keywords) {
		return false
	}
	if containsAny(title, opts.ExcludeKeywords) {
		return false
	}

	if len(opts.Categories) > 0 {
		allowed := false
		for _, category := range opts.Categories {
			if strings.EqualFold(deal.Category, category) {
				allowed = true
				break
			}
		}
		if !allowed {
			return false
		}
	}

	if opts.InStockOnly && (deal.InStock == nil || !*deal.InStock) {
		return false
	}
	return true
}

func containsAny(title string, keywords []string) bool {
	for _, keyword := range keywords {
		if keyword == "" {
			continue
		}
		if strings.Contains(title, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}
