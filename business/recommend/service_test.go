package recommend

import (
	"context"
	"errors"
	"strings"
	"testing"

	"smartMarket/domain"
)

type fakeProductRepo struct {
	products []domain.Product
	err      error
}

func (f *fakeProductRepo) FindAll(ctx context.Context) ([]domain.Product, error) {
	return f.products, f.err
}

type fakeBehaviorProvider struct {
	behavior domain.UserBehavior
	roster   []domain.UserBehavior
}

func (f *fakeBehaviorProvider) BehaviorForUser(ctx context.Context, userID string) (domain.UserBehavior, error) {
	return f.behavior, nil
}

func (f *fakeBehaviorProvider) AllBehaviors(ctx context.Context) ([]domain.UserBehavior, error) {
	return f.roster, nil
}

type fakeParser struct {
	products  []domain.Product
	behaviors []domain.UserBehavior
	roster    []domain.UserBehavior
	err       error
}

func (f *fakeParser) ParseProducts(ctx context.Context, input string) ([]domain.Product, error) {
	return f.products, f.err
}

func (f *fakeParser) ParseUserBehaviors(ctx context.Context, input string, productIDs []string) ([]domain.UserBehavior, error) {
	if f.err != nil {
		return nil, f.err
	}
	if input == "roster" {
		return f.roster, nil
	}
	return f.behaviors, nil
}

type fakeExplainer struct {
	text string
	err  error
}

func (f *fakeExplainer) Explain(ctx context.Context, product domain.Product, behavior domain.UserBehavior, breakdown domain.ScoreBreakdown) (string, error) {
	return f.text, f.err
}

type fakeCache struct {
	stored map[string][]domain.RecommendationItem
	hit    []domain.RecommendationItem
}

func (f *fakeCache) Store(ctx context.Context, userID string, items []domain.RecommendationItem) error {
	if f.stored == nil {
		f.stored = map[string][]domain.RecommendationItem{}
	}
	f.stored[userID] = items
	return nil
}

func (f *fakeCache) Fetch(ctx context.Context, userID string) ([]domain.RecommendationItem, bool, error) {
	if f.hit != nil {
		return f.hit, true, nil
	}
	return nil, false, nil
}

func newTestService(t *testing.T, repo *fakeProductRepo, behaviors *fakeBehaviorProvider, parser Parser, explainer Explainer, cache ResultCache) *Service {
	t.Helper()
	return NewService(newTestEngine(t), repo, behaviors, parser, explainer, cache)
}

func TestRecommendForUserRequiresUserID(t *testing.T) {
	s := newTestService(t, &fakeProductRepo{}, &fakeBehaviorProvider{}, nil, nil, nil)
	if _, err := s.RecommendForUser(context.Background(), "", 10); err == nil {
		t.Fatal("empty user id must fail")
	}
}

func TestRecommendForUserServesFromCache(t *testing.T) {
	cached := []domain.RecommendationItem{{Recommendation: domain.Recommendation{ProductID: "p9", Score: 1}}}
	repo := &fakeProductRepo{err: errors.New("db down")}
	s := newTestService(t, repo, &fakeBehaviorProvider{}, nil, nil, &fakeCache{hit: cached})

	items, err := s.RecommendForUser(context.Background(), "u1", 10)
	if err != nil {
		t.Fatalf("cache hit must not touch the repos: %v", err)
	}
	if len(items) != 1 || items[0].ProductID != "p9" {
		t.Fatalf("got %+v", items)
	}
}

func TestRecommendForUserScoresAndCaches(t *testing.T) {
	behavior := behaviorWithViews("u1", "p1")
	cache := &fakeCache{}
	s := newTestService(t,
		&fakeProductRepo{products: testCatalog()},
		&fakeBehaviorProvider{behavior: behavior, roster: []domain.UserBehavior{behavior}},
		nil, nil, cache,
	)

	items, err := s.RecommendForUser(context.Background(), "u1", 10)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if len(items) == 0 {
		t.Fatal("expected recommendations")
	}

	for _, item := range items {
		if item.Product.ID != item.ProductID {
			t.Fatalf("product not joined: %+v", item)
		}
		if item.Explanation == "" {
			t.Fatalf("fallback explanation missing for %s", item.ProductID)
		}
	}

	if len(cache.stored["u1"]) != len(items) {
		t.Fatalf("result not cached: %v", cache.stored)
	}
}

func TestRecommendForUserPrefersExplainer(t *testing.T) {
	behavior := behaviorWithViews("u1", "p1")
	s := newTestService(t,
		&fakeProductRepo{products: testCatalog()},
		&fakeBehaviorProvider{behavior: behavior, roster: []domain.UserBehavior{behavior}},
		nil, &fakeExplainer{text: "because you love wool"}, nil,
	)

	items, err := s.RecommendForUser(context.Background(), "u1", 10)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	for _, item := range items {
		if item.Explanation != "because you love wool" {
			t.Fatalf("explainer output ignored: %q", item.Explanation)
		}
	}
}

func TestRecommendForUserFallsBackWhenExplainerFails(t *testing.T) {
	behavior := behaviorWithViews("u1", "p1")
	s := newTestService(t,
		&fakeProductRepo{products: testCatalog()},
		&fakeBehaviorProvider{behavior: behavior, roster: []domain.UserBehavior{behavior}},
		nil, &fakeExplainer{err: errors.New("quota exceeded")}, nil,
	)

	items, err := s.RecommendForUser(context.Background(), "u1", 10)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	for _, item := range items {
		if item.Explanation == "" {
			t.Fatalf("template fallback missing for %s", item.ProductID)
		}
	}
}

func TestRecommendFromInputWithoutParser(t *testing.T) {
	s := newTestService(t, &fakeProductRepo{}, &fakeBehaviorProvider{}, nil, nil, nil)
	_, err := s.RecommendFromInput(context.Background(), FreeTextRequest{ProductsInput: "anything"})
	if err == nil {
		t.Fatal("missing parser must fail")
	}
}

func TestRecommendFromInputRunsParsedRecords(t *testing.T) {
	parser := &fakeParser{
		products: testCatalog(),
		behaviors: []domain.UserBehavior{
			behaviorWithViews("alice", "p1"),
			behaviorWithViews("bob", "p3"),
		},
	}
	s := newTestService(t, &fakeProductRepo{}, &fakeBehaviorProvider{}, parser, nil, nil)

	result, err := s.RecommendFromInput(context.Background(), FreeTextRequest{
		ProductsInput:     "five products",
		UserBehaviorInput: "two shoppers",
		TargetUserID:      "bob",
		TopN:              10,
	})
	if err != nil {
		t.Fatalf("recommend from input: %v", err)
	}

	if result.UserID != "bob" {
		t.Fatalf("target: got %s", result.UserID)
	}
	if len(result.Products) != 5 {
		t.Fatalf("parsed products: got %d", len(result.Products))
	}
	for _, item := range result.Recommendations {
		if item.ProductID == "p3" {
			t.Fatal("bob's own product recommended back to him")
		}
	}
}

func TestRecommendFromInputRejectsEmptyParses(t *testing.T) {
	s := newTestService(t, &fakeProductRepo{}, &fakeBehaviorProvider{}, &fakeParser{}, nil, nil)
	_, err := s.RecommendFromInput(context.Background(), FreeTextRequest{ProductsInput: "gibberish"})
	if err == nil {
		t.Fatal("zero parsed products must fail")
	}
}

func TestDetectUsersListsParsedIDs(t *testing.T) {
	parser := &fakeParser{
		products: testCatalog(),
		behaviors: []domain.UserBehavior{
			behaviorWithViews("alice", "p1"),
			{UserID: ""}, // anonymous rows are dropped from the id list
			behaviorWithViews("bob", "p3"),
		},
	}
	s := newTestService(t, &fakeProductRepo{}, &fakeBehaviorProvider{}, parser, nil, nil)

	detected, err := s.DetectUsers(context.Background(), "catalog", "shoppers")
	if err != nil {
		t.Fatalf("detect users: %v", err)
	}
	if len(detected.Users) != 2 || detected.Users[0] != "alice" || detected.Users[1] != "bob" {
		t.Fatalf("users: got %v", detected.Users)
	}
	if len(detected.Behaviors) != 3 {
		t.Fatalf("behaviors: got %d", len(detected.Behaviors))
	}
}

func TestPickTarget(t *testing.T) {
	alice := behaviorWithViews("alice", "p1")
	bob := behaviorWithViews("bob", "p2")
	carol := behaviorWithViews("carol", "p3")

	got := pickTarget([]domain.UserBehavior{alice, bob}, nil, "bob")
	if got.UserID != "bob" {
		t.Fatalf("explicit target: got %s", got.UserID)
	}

	// roster is searched when the primary parse misses the id
	got = pickTarget([]domain.UserBehavior{alice}, []domain.UserBehavior{carol}, "carol")
	if got.UserID != "carol" {
		t.Fatalf("roster target: got %s", got.UserID)
	}

	// unknown or empty target falls back to the first behavior
	got = pickTarget([]domain.UserBehavior{alice, bob}, nil, "nobody")
	if got.UserID != "alice" {
		t.Fatalf("fallback target: got %s", got.UserID)
	}
	got = pickTarget([]domain.UserBehavior{bob}, nil, "")
	if got.UserID != "bob" {
		t.Fatalf("default target: got %s", got.UserID)
	}
}

func TestFallbackExplanationNamesDominantFactor(t *testing.T) {
	product := domain.Product{ID: "p1", Category: "Outerwear"}

	cases := []struct {
		breakdown domain.ScoreBreakdown
		want      string
	}{
		{domain.ScoreBreakdown{UserBased: 0.9}, "similar tastes"},
		{domain.ScoreBreakdown{Collaborative: 0.9}, "browse and buy"},
		{domain.ScoreBreakdown{ContentBased: 0.9}, "items you engaged with"},
		{domain.ScoreBreakdown{CategoryPopularity: 0.9}, "top seller"},
		{domain.ScoreBreakdown{ContextAware: 0.9}, "Trending"},
	}

	for _, tc := range cases {
		got := fallbackExplanation(product, tc.breakdown)
		if !strings.Contains(got, tc.want) {
			t.Fatalf("breakdown %+v: %q does not mention %q", tc.breakdown, got, tc.want)
		}
		if !strings.Contains(got, "outerwear") {
			t.Fatalf("category not lowercased into %q", got)
		}
	}
}
