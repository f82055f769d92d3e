package domain

// ScoreBreakdown carries every strategy's raw contribution for one product.
// Downstream consumers (explanation generation, debug views) pick the
// dominant component from here; the engine only fills it in.
type ScoreBreakdown struct {
	Collaborative      float64 `json:"collaborative"`
	ContentBased       float64 `json:"contentBased"`
	ContextAware       float64 `json:"contextAware"`
	UserBased          float64 `json:"userBased"`
	CategoryPopularity float64 `json:"categoryPopularity"`
	Final              float64 `json:"final"`
}

const (
	FactorCollaborative      = "collaborative"
	FactorContentBased       = "contentBased"
	FactorContextAware       = "contextAware"
	FactorUserBased          = "userBased"
	FactorCategoryPopularity = "categoryPopularity"
)

// DominantFactor returns the name of the highest-scoring component.
// Ties resolve in the order collaborative, contentBased, contextAware,
// userBased, categoryPopularity.
func (b ScoreBreakdown) DominantFactor() string {
	factor := FactorCollaborative
	max := b.Collaborative
	if b.ContentBased > max {
		factor, max = FactorContentBased, b.ContentBased
	}
	if b.ContextAware > max {
		factor, max = FactorContextAware, b.ContextAware
	}
	if b.UserBased > max {
		factor, max = FactorUserBased, b.UserBased
	}
	if b.CategoryPopularity > max {
		factor = FactorCategoryPopularity
	}
	return factor
}

// Recommendation is one ranked engine output row.
type Recommendation struct {
	ProductID string         `json:"productId"`
	Score     float64        `json:"score"`
	Breakdown ScoreBreakdown `json:"breakdown"`
}

// RecommendationItem is the API-facing record: the engine row joined with
// its catalog product and an optional natural-language explanation produced
// by the text-generation collaborator (never by the engine).
type RecommendationItem struct {
	Recommendation
	Product     Product `json:"product"`
	Explanation string  `json:"explanation,omitempty"`
}
