package recommend

import (
	"math/rand"
	"sort"
	"time"

	"smartMarket/domain"
)

// Engine is the hybrid recommendation scorer. It is a pure function of its
// inputs: no I/O, no state between calls, safe for concurrent use. The only
// non-deterministic term is the context-aware trending noise, which comes
// from the injectable rand source so tests can pin it.
type Engine struct {
	cfg  Config
	rand func() float64
	now  func() time.Time
}

type Option func(*Engine)

// WithRandFunc replaces the trending-noise source. The function must return
// uniform values in [0, 1).
func WithRandFunc(fn func() float64) Option {
	return func(e *Engine) { e.rand = fn }
}

// WithNowFunc replaces the clock used for recency decay and legacy cart
// merge timestamps.
func WithNowFunc(fn func() time.Time) Option {
	return func(e *Engine) { e.now = fn }
}

func NewEngine(cfg Config, opts ...Option) *Engine {
	e := &Engine{
		cfg:  cfg,
		rand: rand.Float64,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// catalogIndex gives the strategies O(1) product lookup and preserves the
// caller's catalog order for stable tie-breaking.
type catalogIndex struct {
	products []domain.Product
	byID     map[string]*domain.Product
}

func newCatalogIndex(products []domain.Product) *catalogIndex {
	idx := &catalogIndex{
		products: products,
		byID:     make(map[string]*domain.Product, len(products)),
	}
	for i := range products {
		idx.byID[products[i].ID] = &products[i]
	}
	return idx
}

func (idx *catalogIndex) lookup(id string) *domain.Product {
	return idx.byID[id]
}

// Result bundles the ranked recommendations with a diagnostic list of
// behavior product ids that resolved to no catalog entry. Unknown ids are
// skipped during scoring (they carry no category or price to score with),
// but surfacing them lets callers spot upstream data-quality problems.
type Result struct {
	Recommendations   []domain.Recommendation
	IgnoredProductIDs []string
}

// Recommend scores every catalog product the target user has not interacted
// with and returns the topN, descending by final score. Products the user
// has touched in any form never appear in the output, and neither do
// products whose combined score is not strictly positive.
//
// Multi-user mode (user-based CF and category popularity) activates when
// allBehaviors contains more than one entry; otherwise only the three
// single-user strategies run.
func (e *Engine) Recommend(products []domain.Product, target domain.UserBehavior, topN int, allBehaviors []domain.UserBehavior) Result {
	if topN <= 0 {
		topN = e.cfg.DefaultTopN
	}

	idx := newCatalogIndex(products)
	interactions := e.interactionMap(target)

	collaborative := e.collaborativeScores(idx, interactions)
	content := e.contentBasedScores(idx, interactions)
	contextual := e.contextAwareScores(idx, target, interactions)

	multiUser := len(allBehaviors) > 1
	var userBased, popularity map[string]float64
	if multiUser {
		userBased = e.userBasedScores(idx, target, interactions, allBehaviors)
		popularity = e.categoryPopularityScores(idx, interactions, allBehaviors)
	}

	recs := make([]domain.Recommendation, 0, len(products))
	for i := range products {
		id := products[i].ID
		breakdown := domain.ScoreBreakdown{
			Collaborative:      collaborative[id],
			ContentBased:       content[id],
			ContextAware:       contextual[id],
			UserBased:          userBased[id],
			CategoryPopularity: popularity[id],
		}

		if multiUser {
			w := e.cfg.MultiUser
			breakdown.Final = breakdown.UserBased*w.UserBased +
				breakdown.Collaborative*w.Collaborative +
				breakdown.ContentBased*w.ContentBased +
				breakdown.ContextAware*w.ContextAware +
				breakdown.CategoryPopularity*w.CategoryPopularity
		} else {
			w := e.cfg.SingleUser
			breakdown.Final = breakdown.Collaborative*w.Collaborative +
				breakdown.ContentBased*w.ContentBased +
				breakdown.ContextAware*w.ContextAware
		}

		if breakdown.Final > 0 {
			recs = append(recs, domain.Recommendation{
				ProductID: id,
				Score:     breakdown.Final,
				Breakdown: breakdown,
			})
		}
	}

	// Stable sort keeps catalog order for equal scores.
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})
	if len(recs) > topN {
		recs = recs[:topN]
	}

	return Result{
		Recommendations:   recs,
		IgnoredProductIDs: unknownProductIDs(idx, interactions),
	}
}

// unknownProductIDs lists interaction map keys missing from the catalog,
// sorted for reproducible output.
func unknownProductIDs(idx *catalogIndex, interactions map[string]*domain.ProductInteraction) []string {
	var ids []string
	for id := range interactions {
		if idx.lookup(id) == nil {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// categoryInterest sums engagement per category over one interaction map.
// Ids without a catalog entry are skipped.
func (e *Engine) categoryInterest(idx *catalogIndex, interactions map[string]*domain.ProductInteraction) map[string]float64 {
	interest := make(map[string]float64)
	for id, interaction := range interactions {
		product := idx.lookup(id)
		if product == nil {
			continue
		}
		interest[product.Category] += e.engagementScore(interaction)
	}
	return interest
}
