package recommend

import (
	"math"
	"testing"
	"time"

	"smartMarket/domain"
)

func behaviorWithViews(userID string, productIDs ...string) domain.UserBehavior {
	interactions := make(map[string]*domain.ProductInteraction, len(productIDs))
	for _, id := range productIDs {
		interactions[id] = &domain.ProductInteraction{ProductID: id, ViewDuration: 60, ViewCount: 5}
	}
	return domain.UserBehavior{UserID: userID, ProductInteractions: interactions}
}

func TestUserBasedScoresPropagateNeighbourEngagement(t *testing.T) {
	e := newTestEngine(t)
	idx := newCatalogIndex(testCatalog())

	target := behaviorWithViews("u1", "p1")
	// u2 shares p1 with the target and also engaged with p2
	other := behaviorWithViews("u2", "p1", "p2")
	roster := []domain.UserBehavior{target, other}

	scores := e.userBasedScores(idx, target, e.interactionMap(target), roster)

	if _, ok := scores["p1"]; ok {
		t.Fatal("products the target touched must not be propagated back")
	}
	if scores["p2"] <= 0 {
		t.Fatalf("neighbour's product should score positive, got %v", scores["p2"])
	}

	// engagement is 0.5 per interaction; similarity = min overlap 0.5 +
	// category ratio boost, amplified by 1+ln(2) for one shared product
	overlap := 0.5
	categoryRatio := (0.5 / 1.0) * categoryOverlapBoost // interests 0.5 vs 1.0
	similarity := (overlap + categoryRatio) * (1 + math.Log(2))
	want := (0.5*similarity)/1 + math.Log(2)*neighbourCountBoost
	if !almostEqual(scores["p2"], want) {
		t.Fatalf("p2: got %v, want %v", scores["p2"], want)
	}
}

func TestUserBasedScoresIgnoreDissimilarUsers(t *testing.T) {
	e := newTestEngine(t)
	idx := newCatalogIndex(testCatalog())

	target := behaviorWithViews("u1", "p1")
	// u2 shares nothing with the target: no products, no categories
	other := behaviorWithViews("u2", "p3")
	roster := []domain.UserBehavior{target, other}

	scores := e.userBasedScores(idx, target, e.interactionMap(target), roster)
	if len(scores) != 0 {
		t.Fatalf("zero-similarity neighbour must contribute nothing, got %v", scores)
	}
}

func TestUserBasedScoresCapNeighbours(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TopSimilarUsers = 1
	e := NewEngine(cfg,
		WithRandFunc(func() float64 { return 0 }),
		WithNowFunc(func() time.Time { return testNow }),
	)
	idx := newCatalogIndex(testCatalog())

	target := behaviorWithViews("u1", "p1")
	// u2 shares a product with the target, u3 only a category
	strong := behaviorWithViews("u2", "p1", "p2")
	weak := domain.UserBehavior{
		UserID: "u3",
		ProductInteractions: map[string]*domain.ProductInteraction{
			"p5": {ProductID: "p5", ViewCount: 1},
		},
	}
	roster := []domain.UserBehavior{target, strong, weak}

	scores := e.userBasedScores(idx, target, e.interactionMap(target), roster)

	// only the strongest neighbour survives the cap, so u3's p5 never shows
	if _, ok := scores["p5"]; ok {
		t.Fatalf("capped-out neighbour leaked into scores: %v", scores)
	}
	if scores["p2"] <= 0 {
		t.Fatalf("strongest neighbour should still propagate, got %v", scores["p2"])
	}
}

func TestUserBasedScoresSkipUnknownProducts(t *testing.T) {
	e := newTestEngine(t)
	idx := newCatalogIndex(testCatalog())

	target := behaviorWithViews("u1", "p1")
	other := behaviorWithViews("u2", "p1", "ghost")
	roster := []domain.UserBehavior{target, other}

	scores := e.userBasedScores(idx, target, e.interactionMap(target), roster)
	if _, ok := scores["ghost"]; ok {
		t.Fatal("products outside the catalog must not be scored")
	}
}
