package recommend

import (
	"testing"

	"smartMarket/domain"
)

func TestCollaborativeScoresCategoryAndPrice(t *testing.T) {
	e := newTestEngine(t)
	idx := newCatalogIndex(testCatalog())

	// engagement for p1: 60s view (0.3) + 5 views (0.2) = 0.5
	interactions := map[string]*domain.ProductInteraction{
		"p1": {ProductID: "p1", ViewDuration: 60, ViewCount: 5},
	}

	scores := e.collaborativeScores(idx, interactions)

	if _, ok := scores["p1"]; ok {
		t.Fatal("interacted product must not be scored")
	}

	// p2: category preference 0.5*0.4, price band vs avg 80, best item
	// similarity (0.5 + 2 tags * 0.1) * 0.5 engagement * 0.3
	wantP2 := 0.5*0.4 + priceBandScore(90, 80)*0.3 + (0.7*0.5)*0.3
	if !almostEqual(scores["p2"], wantP2) {
		t.Fatalf("p2: got %v, want %v", scores["p2"], wantP2)
	}

	// p3 gets no category preference and no tag overlap, price band only
	wantP3 := priceBandScore(60, 80) * 0.3
	if !almostEqual(scores["p3"], wantP3) {
		t.Fatalf("p3: got %v, want %v", scores["p3"], wantP3)
	}

	if scores["p2"] <= scores["p3"] {
		t.Fatalf("same-category product should outrank: p2=%v p3=%v", scores["p2"], scores["p3"])
	}
}

func TestCollaborativeScoresWithoutEngagement(t *testing.T) {
	e := newTestEngine(t)
	idx := newCatalogIndex(testCatalog())

	scores := e.collaborativeScores(idx, map[string]*domain.ProductInteraction{})

	// every candidate is scored, but with no profile everything lands on 0
	for id, score := range scores {
		if score != 0 {
			t.Fatalf("%s scored %v with an empty profile", id, score)
		}
	}
}
