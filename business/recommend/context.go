package recommend

import "smartMarket/domain"

const (
	contextPriceBandWeight  = 0.3
	premiumBoost            = 0.25
	premiumPriceFloor       = 100.0
	checkoutBandBoost       = 0.3
	checkoutBandLow         = 0.8
	checkoutBandHigh        = 1.2
	eveningBoost            = 0.15
	mobileBoost             = 0.1
	mobilePriceLow          = 20.0
	mobilePriceHigh         = 100.0
	ratingBoostWeight       = 0.15
	highEngagementThreshold = 1.0
)

// contextAwareScores applies the heuristic rules driven by price band,
// device, time of day, and behavioral flags. Every un-interacted product
// also gets a uniform random trending term in [0, TrendingNoise), the one
// documented non-deterministic contribution in the engine.
func (e *Engine) contextAwareScores(idx *catalogIndex, behavior domain.UserBehavior, interactions map[string]*domain.ProductInteraction) map[string]float64 {
	scores := make(map[string]float64)

	hasCheckoutBehavior := false
	hasHighEngagement := false
	weightedPriceSum := 0.0
	weightSum := 0.0

	for id, interaction := range interactions {
		if interaction.CheckoutActions != nil && interaction.CheckoutActions.ProceededToCheckout {
			hasCheckoutBehavior = true
		}

		engagement := e.engagementScore(interaction)
		if engagement > highEngagementThreshold {
			hasHighEngagement = true
		}

		if product := idx.lookup(id); product != nil {
			weightedPriceSum += product.Price * engagement
			weightSum += engagement
		}
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

		score := 0.0

		if weightSum > 0 {
			score += priceBandScore(candidate.Price, avgPrice) * contextPriceBandWeight
		}

		if hasHighEngagement && candidate.Price > premiumPriceFloor {
			score += premiumBoost
		}

		if hasCheckoutBehavior &&
			candidate.Price >= avgPrice*checkoutBandLow &&
			candidate.Price <= avgPrice*checkoutBandHigh {
			score += checkoutBandBoost
		}

		if behavior.TimeOfDay == domain.TimeOfDayEvening && candidate.Price > premiumPriceFloor {
			score += eveningBoost
		}

		if behavior.DeviceType == domain.DeviceMobile &&
			candidate.Price >= mobilePriceLow && candidate.Price <= mobilePriceHigh {
			score += mobileBoost
		}

		if rating, ok := behavior.Ratings[candidate.ID]; ok {
			score += rating * ratingBoostWeight
		}

		score += e.rand() * e.cfg.TrendingNoise

		scores[candidate.ID] = score
	}

	return scores
}
