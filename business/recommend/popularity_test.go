package recommend

import (
	"testing"

	"smartMarket/domain"
)

func TestCategoryPopularityScores(t *testing.T) {
	e := newTestEngine(t)
	idx := newCatalogIndex(testCatalog())

	target := behaviorWithViews("u1", "p1")
	other := behaviorWithViews("u2", "p2")
	roster := []domain.UserBehavior{target, other}

	scores := e.categoryPopularityScores(idx, e.interactionMap(target), roster)

	// p2: popularity 0.5 across 2 users, damped by target interest 0.5
	want := (0.5 / 2.0) * 0.5
	if !almostEqual(scores["p2"], want) {
		t.Fatalf("p2: got %v, want %v", scores["p2"], want)
	}

	if _, ok := scores["p1"]; ok {
		t.Fatal("target's own product must not be scored")
	}
}

func TestCategoryPopularityOmitsZeroPopularity(t *testing.T) {
	e := newTestEngine(t)
	idx := newCatalogIndex(testCatalog())

	target := behaviorWithViews("u1", "p1")
	other := behaviorWithViews("u2", "p2")
	roster := []domain.UserBehavior{target, other}

	scores := e.categoryPopularityScores(idx, e.interactionMap(target), roster)

	// p5 is outerwear, a category the target cares about, but nobody ever
	// touched it: it must be absent, not present with zero
	if _, ok := scores["p5"]; ok {
		t.Fatalf("untouched product leaked into popularity: %v", scores["p5"])
	}
}

func TestCategoryPopularityOmitsUninterestingCategories(t *testing.T) {
	e := newTestEngine(t)
	idx := newCatalogIndex(testCatalog())

	target := behaviorWithViews("u1", "p1")
	// footwear is popular with u2 but the target never engaged with it
	other := behaviorWithViews("u2", "p3")
	roster := []domain.UserBehavior{target, other}

	scores := e.categoryPopularityScores(idx, e.interactionMap(target), roster)

	if _, ok := scores["p3"]; ok {
		t.Fatalf("category without target interest leaked: %v", scores["p3"])
	}
}

func TestCategoryPopularityInterestCap(t *testing.T) {
	e := newTestEngine(t)
	idx := newCatalogIndex(testCatalog())

	// heavy engagement pushes interest far past 1.0; the damping factor
	// must cap at 1
	target := domain.UserBehavior{
		UserID: "u1",
		ProductInteractions: map[string]*domain.ProductInteraction{
			"p1": {
				ProductID:       "p1",
				CheckoutActions: &domain.CheckoutActions{CompletedPurchase: true, PurchaseCount: 4},
			},
		},
	}
	other := behaviorWithViews("u2", "p2")
	roster := []domain.UserBehavior{target, other}

	scores := e.categoryPopularityScores(idx, e.interactionMap(target), roster)

	want := 0.5 / 2.0 // interest capped at 1.0
	if !almostEqual(scores["p2"], want) {
		t.Fatalf("capped interest: got %v, want %v", scores["p2"], want)
	}
}
