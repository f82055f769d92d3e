package recommend

import "smartMarket/domain"

// interactionMap merges the structured and legacy behavior formats into one
// authoritative per-product interaction map for a single scoring call.
//
// The merge is deliberately asymmetric and must stay that way:
//
//  1. productInteractions entries are authoritative and copied as-is.
//  2. viewedProducts only fills gaps: an id with an existing entry is left
//     untouched, otherwise it becomes {viewCount: 1}.
//  3. purchasedProducts always merges: completedPurchase is set and
//     purchaseCount incremented even on a complete structured record.
//  4. cartItems always merges: addedToCart is stamped with "now" and
//     timesAddedToCart incremented.
//  5. ratings always merges the rating value in.
//
// Entries are cloned before mutation so the caller's UserBehavior survives
// the call unchanged.
func (e *Engine) interactionMap(behavior domain.UserBehavior) map[string]*domain.ProductInteraction {
	m := make(map[string]*domain.ProductInteraction, len(behavior.ProductInteractions))

	for productID, interaction := range behavior.ProductInteractions {
		m[productID] = interaction.Clone()
	}

	for _, productID := range behavior.ViewedProducts {
		if _, ok := m[productID]; !ok {
			m[productID] = &domain.ProductInteraction{ProductID: productID, ViewCount: 1}
		}
	}

	for _, productID := range behavior.PurchasedProducts {
		entry := m[productID]
		if entry == nil {
			entry = &domain.ProductInteraction{ProductID: productID}
			m[productID] = entry
		}
		if entry.CheckoutActions == nil {
			entry.CheckoutActions = &domain.CheckoutActions{}
		}
		entry.CheckoutActions.CompletedPurchase = true
		entry.CheckoutActions.PurchaseCount++
	}

	for _, productID := range behavior.CartItems {
		entry := m[productID]
		if entry == nil {
			entry = &domain.ProductInteraction{ProductID: productID}
			m[productID] = entry
		}
		if entry.CartActions == nil {
			entry.CartActions = &domain.CartActions{}
		}
		entry.CartActions.AddedToCart = e.now().UnixMilli()
		entry.CartActions.TimesAddedToCart++
	}

	for productID, rating := range behavior.Ratings {
		entry := m[productID]
		if entry == nil {
			entry = &domain.ProductInteraction{ProductID: productID}
			m[productID] = entry
		}
		entry.Rating = rating
	}

	return m
}
