package recommend

import (
	"context"
	"fmt"
	"strings"

	"smartMarket/domain"
	"smartMarket/pkg/logger"
)

// explain fills in a natural-language explanation for one recommended item.
// The wording comes from the text-generation collaborator when one is
// configured; the templated fallback keys off the dominant breakdown
// component so it still names the right reason.
func (s *Service) explain(ctx context.Context, product domain.Product, behavior domain.UserBehavior, breakdown domain.ScoreBreakdown) string {
	if s.explainer != nil {
		explanation, err := s.explainer.Explain(ctx, product, behavior, breakdown)
		if err == nil && explanation != "" {
			return explanation
		}
		if err != nil {
			logger.Debug("explanation generation failed, using template",
				"trace_id", TraceIDFromContext(ctx),
				"product_id", product.ID,
				"error", err.Error(),
			)
		}
	}

	ExplanationFallbacksTotal.Inc()
	return fallbackExplanation(product, breakdown)
}

func fallbackExplanation(product domain.Product, breakdown domain.ScoreBreakdown) string {
	category := strings.ToLower(product.Category)

	switch breakdown.DominantFactor() {
	case domain.FactorUserBased:
		return fmt.Sprintf("Shoppers with similar tastes loved this %s pick - known for quality and value.", category)
	case domain.FactorCollaborative:
		return fmt.Sprintf("Fits the %s profile of what you already browse and buy - a customer favorite.", category)
	case domain.FactorContentBased:
		return fmt.Sprintf("Closely matches the %s items you engaged with - popular for its design and reviews.", category)
	case domain.FactorCategoryPopularity:
		return fmt.Sprintf("A top seller in %s among shoppers like you - consistently highly rated.", category)
	default:
		return fmt.Sprintf("Trending %s item that matches your interests.", category)
	}
}
