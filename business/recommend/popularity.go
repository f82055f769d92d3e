package recommend

import (
	"math"

	"smartMarket/domain"
)

// categoryPopularityScores boosts products that are popular (by summed
// engagement across every supplied user, target included) within categories
// the target user cares about. Popularity is normalized by the user count
// and damped by the target's interest capped at 1. Products nobody ever
// touched stay absent from the map.
func (e *Engine) categoryPopularityScores(idx *catalogIndex, targetInteractions map[string]*domain.ProductInteraction, allBehaviors []domain.UserBehavior) map[string]float64 {
	scores := make(map[string]float64)
	if len(allBehaviors) == 0 {
		return scores
	}

	targetInterest := e.categoryInterest(idx, targetInteractions)

	popularity := make(map[string]map[string]float64) // category -> productID -> summed engagement
	for _, behavior := range allBehaviors {
		for id, interaction := range e.interactionMap(behavior) {
			product := idx.lookup(id)
			if product == nil {
				continue
			}
			byProduct := popularity[product.Category]
			if byProduct == nil {
				byProduct = make(map[string]float64)
				popularity[product.Category] = byProduct
			}
			byProduct[id] += e.engagementScore(interaction)
		}
	}

	for i := range idx.products {
		candidate := &idx.products[i]
		if _, ok := targetInteractions[candidate.ID]; ok {
			continue
		}

		interest := targetInterest[candidate.Category]
		if interest <= 0 {
			continue
		}

		productPopularity := popularity[candidate.Category][candidate.ID]
		if productPopularity <= 0 {
			continue
		}

		normalized := productPopularity / float64(len(allBehaviors))
		scores[candidate.ID] = normalized * math.Min(interest, 1.0)
	}

	return scores
}
