package recommend

import (
	"testing"

	"smartMarket/domain"
)

func TestInteractionMapStructuredEntriesAreAuthoritative(t *testing.T) {
	e := newTestEngine(t)

	behavior := domain.UserBehavior{
		UserID:         "u1",
		ViewedProducts: []string{"p1"},
		ProductInteractions: map[string]*domain.ProductInteraction{
			"p1": {ProductID: "p1", ViewDuration: 45, ViewCount: 3},
		},
	}

	m := e.interactionMap(behavior)

	in := m["p1"]
	if in == nil {
		t.Fatal("p1 missing from interaction map")
	}
	// the legacy viewed list must not reset the structured record
	if in.ViewCount != 3 || in.ViewDuration != 45 {
		t.Fatalf("structured entry overwritten: %+v", in)
	}
}

func TestInteractionMapViewedFillsGapsOnly(t *testing.T) {
	e := newTestEngine(t)

	behavior := domain.UserBehavior{
		UserID:         "u1",
		ViewedProducts: []string{"p1", "p2"},
		ProductInteractions: map[string]*domain.ProductInteraction{
			"p1": {ProductID: "p1", ViewCount: 7},
		},
	}

	m := e.interactionMap(behavior)

	if m["p1"].ViewCount != 7 {
		t.Fatalf("p1 view count: got %d, want 7", m["p1"].ViewCount)
	}
	if m["p2"] == nil || m["p2"].ViewCount != 1 {
		t.Fatalf("p2 should become a single-view entry, got %+v", m["p2"])
	}
}

func TestInteractionMapPurchasesAlwaysMerge(t *testing.T) {
	e := newTestEngine(t)

	behavior := domain.UserBehavior{
		UserID:            "u1",
		PurchasedProducts: []string{"p1", "p2"},
		ProductInteractions: map[string]*domain.ProductInteraction{
			"p1": {
				ProductID:       "p1",
				CheckoutActions: &domain.CheckoutActions{PurchaseCount: 2},
			},
		},
	}

	m := e.interactionMap(behavior)

	// even a complete structured record gets the purchase merged in
	if co := m["p1"].CheckoutActions; !co.CompletedPurchase || co.PurchaseCount != 3 {
		t.Fatalf("p1 checkout merge: %+v", co)
	}
	if co := m["p2"].CheckoutActions; co == nil || !co.CompletedPurchase || co.PurchaseCount != 1 {
		t.Fatalf("p2 checkout merge: %+v", co)
	}
}

func TestInteractionMapCartItemsAlwaysMerge(t *testing.T) {
	e := newTestEngine(t)

	behavior := domain.UserBehavior{
		UserID:    "u1",
		CartItems: []string{"p1"},
		ProductInteractions: map[string]*domain.ProductInteraction{
			"p1": {
				ProductID:   "p1",
				CartActions: &domain.CartActions{TimesAddedToCart: 1},
			},
		},
	}

	m := e.interactionMap(behavior)

	ca := m["p1"].CartActions
	if ca.TimesAddedToCart != 2 {
		t.Fatalf("times added: got %d, want 2", ca.TimesAddedToCart)
	}
	if ca.AddedToCart != testNow.UnixMilli() {
		t.Fatalf("added-to-cart timestamp: got %d, want %d", ca.AddedToCart, testNow.UnixMilli())
	}
}

func TestInteractionMapRatingsMerge(t *testing.T) {
	e := newTestEngine(t)

	behavior := domain.UserBehavior{
		UserID:  "u1",
		Ratings: map[string]float64{"p1": 4, "p2": 2},
		ProductInteractions: map[string]*domain.ProductInteraction{
			"p1": {ProductID: "p1", Rating: 1},
		},
	}

	m := e.interactionMap(behavior)

	if m["p1"].Rating != 4 {
		t.Fatalf("p1 rating: got %v, want 4", m["p1"].Rating)
	}
	if m["p2"] == nil || m["p2"].Rating != 2 {
		t.Fatalf("p2 rating entry: %+v", m["p2"])
	}
}

func TestInteractionMapDoesNotMutateCaller(t *testing.T) {
	e := newTestEngine(t)

	original := &domain.ProductInteraction{
		ProductID:       "p1",
		CheckoutActions: &domain.CheckoutActions{PurchaseCount: 1},
	}
	behavior := domain.UserBehavior{
		UserID:            "u1",
		PurchasedProducts: []string{"p1"},
		CartItems:         []string{"p1"},
		ProductInteractions: map[string]*domain.ProductInteraction{
			"p1": original,
		},
	}

	_ = e.interactionMap(behavior)

	if original.CheckoutActions.PurchaseCount != 1 {
		t.Fatalf("caller's purchase count mutated: %d", original.CheckoutActions.PurchaseCount)
	}
	if original.CartActions != nil {
		t.Fatal("caller's interaction grew cart actions")
	}
}
