package recommend

import (
	"math"

	"smartMarket/domain"
)

const (
	itemCFCategoryWeight   = 0.4
	itemCFPriceWeight      = 0.3
	itemCFSimilarityWeight = 0.3
)

// collaborativeScores is item-based collaborative filtering against the
// user's own profile: engagement-summed category preferences, an
// engagement-weighted average price, and the best engagement-weighted
// similarity to any interacted product.
func (e *Engine) collaborativeScores(idx *catalogIndex, interactions map[string]*domain.ProductInteraction) map[string]float64 {
	scores := make(map[string]float64)

	type weightedProduct struct {
		product    *domain.Product
		engagement float64
	}

	categoryPreferences := make(map[string]float64)
	interacted := make([]weightedProduct, 0, len(interactions))
	weightedPriceSum := 0.0
	weightSum := 0.0

	for id, interaction := range interactions {
		product := idx.lookup(id)
		if product == nil {
			continue
		}
		engagement := e.engagementScore(interaction)
		categoryPreferences[product.Category] += engagement
		weightedPriceSum += product.Price * engagement
		weightSum += engagement
		interacted = append(interacted, weightedProduct{product, engagement})
	}

	avgPrice := 0.0
	if weightSum > 0 {
		avgPrice = weightedPriceSum / weightSum
	}

	for i := range idx.products {
		candidate := &idx.products[i]
		if _, ok := interactions[candidate.ID]; ok {
			continue
		}

		score := categoryPreferences[candidate.Category] * itemCFCategoryWeight

		if weightSum > 0 {
			score += priceBandScore(candidate.Price, avgPrice) * itemCFPriceWeight
		}

		maxSimilarity := 0.0
		for _, w := range interacted {
			similarity := itemSimilarity(candidate, w.product) * w.engagement
			maxSimilarity = math.Max(maxSimilarity, similarity)
		}
		score += maxSimilarity * itemCFSimilarityWeight

		scores[candidate.ID] = score
	}

	return scores
}
