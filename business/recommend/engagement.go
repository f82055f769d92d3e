package recommend

import (
	"math"

	"smartMarket/domain"
)

// Engagement scoring weights. The cart/checkout terms deliberately push the
// score past 1.0 for heavy purchasers; the high-engagement threshold in the
// context-aware rules depends on that.
const (
	viewDurationFullSeconds = 60.0
	viewDurationWeight      = 0.3

	viewCountFull   = 5.0
	viewCountWeight = 0.2

	interactionFlagTypes = 5.0
	interactionWeight    = 0.3

	cartAddBonus      = 0.5
	cartAddPerTime    = 0.2
	cartAddCap        = 0.6
	cartRemovePenalty = 0.3
	cartRemovePerTime = 0.15
	cartRemoveCap     = 0.4

	checkoutBonus     = 0.7
	purchaseBonus     = 1.5
	purchasePerTime   = 0.5
	purchaseRepeatCap = 2.0

	ratingScale  = 5.0
	ratingWeight = 0.4

	recencyWindowDays = 30.0
	recencyWeight     = 0.3
)

// engagementScore folds one interaction record into a single scalar.
// Every field is optional and contributes 0 when absent; the result is
// clamped at 0 but has no upper bound.
func (e *Engine) engagementScore(in *domain.ProductInteraction) float64 {
	if in == nil {
		return 0
	}

	score := 0.0

	if in.ViewDuration > 0 {
		score += math.Min(in.ViewDuration/viewDurationFullSeconds, 1) * viewDurationWeight
	}

	if in.ViewCount > 0 {
		score += math.Min(float64(in.ViewCount)/viewCountFull, 1) * viewCountWeight
	}

	if n := in.Interactions.Count(); n > 0 {
		score += (float64(n) / interactionFlagTypes) * interactionWeight
	}

	if ca := in.CartActions; ca != nil {
		if ca.AddedToCart > 0 {
			score += cartAddBonus
		}
		score += math.Min(float64(ca.TimesAddedToCart)*cartAddPerTime, cartAddCap)

		if ca.RemovedFromCart > 0 {
			score -= cartRemovePenalty
		}
		score -= math.Min(float64(ca.TimesRemovedFromCart)*cartRemovePerTime, cartRemoveCap)
	}

	if co := in.CheckoutActions; co != nil {
		if co.ProceededToCheckout {
			score += checkoutBonus
		}
		if co.CompletedPurchase {
			score += purchaseBonus
		}
		score += math.Min(float64(co.PurchaseCount)*purchasePerTime, purchaseRepeatCap)
	}

	if in.Rating > 0 {
		score += (in.Rating / ratingScale) * ratingWeight
	}

	if in.Timestamp > 0 {
		days := float64(e.now().UnixMilli()-in.Timestamp) / (1000 * 60 * 60 * 24)
		score += math.Max(0, 1-days/recencyWindowDays) * recencyWeight
	}

	return math.Max(0, score)
}
