package pipeline

import (
	"sort"

	"dealforge-backend/lib/dealstore"
	"dealforge-backend/lib/textutil"

	"github.com/antzucaro/matchr"
)

// SimilarPair is the same product spotted on two different sites,
// matched by fuzzy title similarity.
type SimilarPair struct {
	A     dealstore.Deal
	B     dealstore.Deal
	Score float64
}

// FindSimilar matches deals across websites by Jaro-Winkler title
// similarity. Pairs from the same website are never reported, those
// are just different observations or different products from one
// catalog. minScore is in [0, 1]; 0.9 works well for product titles.
func FindSimilar(deals []dealstore.Deal, minScore float64) []SimilarPair {
	var pairs []SimilarPair
	for i := 0; i < len(deals); i++ {
		for j := i + 1; j < len(deals); j++ {
			a, b := deals[i], deals[j]
			if a.Website == b.Website {
				continue
			}
			score := matchr.JaroWinkler(textutil.NormalizeName(a.Title), textutil.NormalizeName(b.Title), false)
			if score >= minScore {
				pairs = append(pairs, SimilarPair{A: a, B: b, Score: score})
			}
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Score > pairs[j].Score
	})
	return pairs
}
