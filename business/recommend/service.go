package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"smartMarket/domain"
	"smartMarket/pkg/logger"
)

// ProductRepository contract interface
type ProductRepository interface {
	FindAll(ctx context.Context) ([]domain.Product, error)
}

// BehaviorProvider assembles user behavior from the event log.
type BehaviorProvider interface {
	BehaviorForUser(ctx context.Context, userID string) (domain.UserBehavior, error)
	AllBehaviors(ctx context.Context) ([]domain.UserBehavior, error)
}

// Parser is the upstream collaborator turning free text (or raw JSON) into
// typed catalog and behavior records. The engine trusts its output shape.
type Parser interface {
	ParseProducts(ctx context.Context, input string) ([]domain.Product, error)
	ParseUserBehaviors(ctx context.Context, input string, productIDs []string) ([]domain.UserBehavior, error)
}

// Explainer is the downstream text-generation collaborator. It receives the
// full breakdown and decides which component to narrate.
type Explainer interface {
	Explain(ctx context.Context, product domain.Product, behavior domain.UserBehavior, breakdown domain.ScoreBreakdown) (string, error)
}

// ResultCache holds finished recommendation lists per user for a short TTL.
type ResultCache interface {
	Store(ctx context.Context, userID string, items []domain.RecommendationItem) error
	Fetch(ctx context.Context, userID string) ([]domain.RecommendationItem, bool, error)
}

type Service struct {
	engine      *Engine
	productRepo ProductRepository
	behaviors   BehaviorProvider
	parser      Parser
	explainer   Explainer
	cache       ResultCache
}

// NewService wires the engine to its collaborators. parser, explainer and
// cache may be nil; the free-text endpoints then report unavailability and
// explanations fall back to templates.
func NewService(
	engine *Engine,
	productRepo ProductRepository,
	behaviors BehaviorProvider,
	parser Parser,
	explainer Explainer,
	cache ResultCache,
) *Service {
	return &Service{
		engine:      engine,
		productRepo: productRepo,
		behaviors:   behaviors,
		parser:      parser,
		explainer:   explainer,
		cache:       cache,
	}
}

// RecommendForUser scores the stored catalog against the user's tracked
// behavior (plus every other tracked user for the collaborative
// strategies) and returns explained, ranked items.
func (s *Service) RecommendForUser(ctx context.Context, userID string, topN int) ([]domain.RecommendationItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if userID == "" {
		return nil, errors.New("user id is required")
	}

	if s.cache != nil {
		if items, ok, err := s.cache.Fetch(ctx, userID); err == nil && ok {
			return items, nil
		}
	}

	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	behavior, err := s.behaviors.BehaviorForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user behavior: %w", err)
	}

	allBehaviors, err := s.behaviors.AllBehaviors(ctx)
	if err != nil {
		return nil, fmt.Errorf("load behavior roster: %w", err)
	}

	items := s.run(ctx, products, behavior, topN, allBehaviors)

	if s.cache != nil {
		if err := s.cache.Store(ctx, userID, items); err != nil {
			logger.Debug("recommendation cache store failed", "user_id", userID, "error", err.Error())
		}
	}

	return items, nil
}

// FreeTextRequest mirrors the storefront's "describe your catalog and your
// shoppers" flow: raw text or JSON for each piece, parsed upstream.
type FreeTextRequest struct {
	ProductsInput         string
	UserBehaviorInput     string
	AllUserBehaviorsInput string
	TargetUserID          string
	TopN                  int
}

type FreeTextResult struct {
	UserID          string                      `json:"userId"`
	Recommendations []domain.RecommendationItem `json:"recommendations"`
	Products        []domain.Product            `json:"products"`
	GeneratedAt     time.Time                   `json:"timestamp"`
}

// RecommendFromInput parses the supplied catalog and behavior descriptions,
// picks the target user, and runs the engine over the parsed records.
func (s *Service) RecommendFromInput(ctx context.Context, req FreeTextRequest) (*FreeTextResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if s.parser == nil {
		return nil, errors.New("free-text parsing is not configured")
	}

	products, err := s.parser.ParseProducts(ctx, req.ProductsInput)
	if err != nil {
		return nil, fmt.Errorf("parse products: %w", err)
	}
	if len(products) == 0 {
		return nil, errors.New("no products could be parsed from input")
	}

	behaviors, err := s.parser.ParseUserBehaviors(ctx, req.UserBehaviorInput, productIDs(products))
	if err != nil {
		return nil, fmt.Errorf("parse user behavior: %w", err)
	}
	if len(behaviors) == 0 {
		return nil, errors.New("no user behavior could be parsed from input")
	}

	roster := behaviors
	if req.AllUserBehaviorsInput != "" {
		roster, err = s.parser.ParseUserBehaviors(ctx, req.AllUserBehaviorsInput, productIDs(products))
		if err != nil {
			return nil, fmt.Errorf("parse behavior roster: %w", err)
		}
	}

	target := pickTarget(behaviors, roster, req.TargetUserID)

	items := s.run(ctx, products, target, req.TopN, roster)

	return &FreeTextResult{
		UserID:          target.UserID,
		Recommendations: items,
		Products:        products,
		GeneratedAt:     time.Now(),
	}, nil
}

// DetectedUsers is the parse-only first pass: the caller shows the roster
// and lets the shopper pick a target before the full run.
type DetectedUsers struct {
	Users     []string              `json:"users"`
	Products  []domain.Product      `json:"parsedProducts"`
	Behaviors []domain.UserBehavior `json:"parsedUserBehavior"`
}

func (s *Service) DetectUsers(ctx context.Context, productsInput, behaviorInput string) (*DetectedUsers, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if s.parser == nil {
		return nil, errors.New("free-text parsing is not configured")
	}

	products, err := s.parser.ParseProducts(ctx, productsInput)
	if err != nil {
		return nil, fmt.Errorf("parse products: %w", err)
	}

	behaviors, err := s.parser.ParseUserBehaviors(ctx, behaviorInput, productIDs(products))
	if err != nil {
		return nil, fmt.Errorf("parse user behavior: %w", err)
	}

	users := make([]string, 0, len(behaviors))
	for _, b := range behaviors {
		if b.UserID != "" {
			users = append(users, b.UserID)
		}
	}

	return &DetectedUsers{Users: users, Products: products, Behaviors: behaviors}, nil
}

// run executes one engine invocation and joins the output with products and
// explanations.
func (s *Service) run(ctx context.Context, products []domain.Product, target domain.UserBehavior, topN int, roster []domain.UserBehavior) []domain.RecommendationItem {
	result := s.engine.Recommend(products, target, topN, roster)

	tid := TraceIDFromContext(ctx)

	if len(result.IgnoredProductIDs) > 0 {
		IgnoredBehaviorIDsTotal.Add(float64(len(result.IgnoredProductIDs)))
		logger.Warn("behavior references unknown products",
			"trace_id", tid,
			"user_id", target.UserID,
			"ignored_ids", result.IgnoredProductIDs,
		)
	}

	mode := "single_user"
	if len(roster) > 1 {
		mode = "multi_user"
	}
	RecommendationsServedTotal.WithLabelValues(mode).Inc()

	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]domain.RecommendationItem, 0, len(result.Recommendations))
	for _, rec := range result.Recommendations {
		product := byID[rec.ProductID]
		items = append(items, domain.RecommendationItem{
			Recommendation: rec,
			Product:        product,
			Explanation:    s.explain(ctx, product, target, rec.Breakdown),
		})
	}

	logger.Info("recommendations served",
		"trace_id", tid,
		"user_id", target.UserID,
		"mode", mode,
		"count", len(items),
	)

	return items
}

func productIDs(products []domain.Product) []string {
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids
}

// pickTarget resolves the behavior to score for: an explicit target id wins,
// searched first in the primary parse then in the roster; otherwise the
// first parsed behavior is the target.
func pickTarget(behaviors, roster []domain.UserBehavior, targetUserID string) domain.UserBehavior {
	if targetUserID != "" {
		for _, b := range behaviors {
			if b.UserID == targetUserID {
				return b
			}
		}
		for _, b := range roster {
			if b.UserID == targetUserID {
				return b
			}
		}
	}
	return behaviors[0]
}
