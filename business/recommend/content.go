package recommend

import "smartMarket/domain"

// contentBasedScores rates every un-interacted product by attribute
// similarity to the products the user engaged with, weighted by that
// engagement. A user with no usable engagement weight produces an empty
// map: absence of a score, not a zero score.
func (e *Engine) contentBasedScores(idx *catalogIndex, interactions map[string]*domain.ProductInteraction) map[string]float64 {
	scores := make(map[string]float64)
	if len(interactions) == 0 {
		return scores
	}

	type weightedProduct struct {
		product    *domain.Product
		engagement float64
	}

	interacted := make([]weightedProduct, 0, len(interactions))
	for id, interaction := range interactions {
		if product := idx.lookup(id); product != nil {
			interacted = append(interacted, weightedProduct{product, e.engagementScore(interaction)})
		}
	}

	for i := range idx.products {
		candidate := &idx.products[i]
		if _, ok := interactions[candidate.ID]; ok {
			continue
		}

		totalSimilarity := 0.0
		totalWeight := 0.0
		for _, w := range interacted {
			totalSimilarity += contentSimilarity(candidate, w.product) * w.engagement
			totalWeight += w.engagement
		}

		if totalWeight > 0 {
			scores[candidate.ID] = totalSimilarity / totalWeight
		}
	}

	return scores
}
