package recommend

import (
	"math"
	"strings"

	"smartMarket/domain"
)

const (
	categoryMatchWeight = 0.5

	contentTagOverlapWeight  = 0.15
	contentPriceRatioWeight  = 0.25
	contentDescSharedWeight  = 0.05
	descriptionMinWordLength = 3

	itemCFTagOverlapWeight = 0.1
)

// tagOverlap counts tags present on both products. Order is irrelevant.
func tagOverlap(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, t := range a {
		set[t] = struct{}{}
	}
	n := 0
	for _, t := range b {
		if _, ok := set[t]; ok {
			n++
		}
	}
	return n
}

// priceRatio is min/max of the two prices, in (0, 1]. Identical prices give
// 1; a zero price on either side gives 0.
func priceRatio(a, b float64) float64 {
	max := math.Max(a, b)
	if max <= 0 {
		return 0
	}
	return math.Min(a, b) / max
}

// priceBandScore rewards prices close to the user's engagement-weighted
// average: 1/(1+|p-avg|/avg).
func priceBandScore(price, avgPrice float64) float64 {
	return 1 / (1 + math.Abs(price-avgPrice)/avgPrice)
}

// sharedDescriptionWords counts distinct words longer than three characters
// appearing in both descriptions (case-insensitive).
func sharedDescriptionWords(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	words := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(a)) {
		words[w] = struct{}{}
	}
	n := 0
	seen := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(b)) {
		if len(w) <= descriptionMinWordLength {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		if _, ok := words[w]; ok {
			n++
		}
	}
	return n
}

// contentSimilarity is the full attribute similarity used by the
// content-based filter: category + tags + price + description.
func contentSimilarity(a, b *domain.Product) float64 {
	sim := 0.0
	if a.Category == b.Category {
		sim += categoryMatchWeight
	}
	sim += float64(tagOverlap(a.Tags, b.Tags)) * contentTagOverlapWeight
	sim += priceRatio(a.Price, b.Price) * contentPriceRatioWeight
	sim += float64(sharedDescriptionWords(a.Description, b.Description)) * contentDescSharedWeight
	return sim
}

// itemSimilarity is the cheaper pairwise similarity used by item-based CF:
// category and tags only.
func itemSimilarity(a, b *domain.Product) float64 {
	sim := 0.0
	if a.Category == b.Category {
		sim += categoryMatchWeight
	}
	sim += float64(tagOverlap(a.Tags, b.Tags)) * itemCFTagOverlapWeight
	return sim
}
