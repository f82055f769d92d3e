package recommend

import (
	"fmt"
	"math"
)

// SingleUserWeights blend the three strategies that only need the target
// user's own history.
type SingleUserWeights struct {
	Collaborative float64
	ContentBased  float64
	ContextAware  float64
}

func (w SingleUserWeights) sum() float64 {
	return w.Collaborative + w.ContentBased + w.ContextAware
}

// MultiUserWeights blend all five strategies once a roster of other users'
// behavior is available.
type MultiUserWeights struct {
	UserBased          float64
	Collaborative      float64
	ContentBased       float64
	ContextAware       float64
	CategoryPopularity float64
}

func (w MultiUserWeights) sum() float64 {
	return w.UserBased + w.Collaborative + w.ContentBased + w.ContextAware + w.CategoryPopularity
}

type Config struct {
	SingleUser SingleUserWeights
	MultiUser  MultiUserWeights

	// TrendingNoise is the amplitude of the uniform random term added to
	// every context-aware score. Set to 0 for fully deterministic output.
	TrendingNoise float64

	// TopSimilarUsers caps how many neighbours user-based CF propagates from.
	TopSimilarUsers int

	// DefaultTopN is used when the caller passes a non-positive topN.
	DefaultTopN int
}

const (
	defaultSingleCollaborative = 0.4
	defaultSingleContentBased  = 0.3
	defaultSingleContextAware  = 0.3

	defaultMultiUserBased          = 0.25
	defaultMultiCollaborative      = 0.20
	defaultMultiContentBased       = 0.20
	defaultMultiContextAware       = 0.20
	defaultMultiCategoryPopularity = 0.15

	defaultTrendingNoise   = 0.2
	defaultTopSimilarUsers = 10
	defaultTopN            = 10
)

func DefaultConfig() Config {
	return Config{
		SingleUser: SingleUserWeights{
			Collaborative: defaultSingleCollaborative,
			ContentBased:  defaultSingleContentBased,
			ContextAware:  defaultSingleContextAware,
		},
		MultiUser: MultiUserWeights{
			UserBased:          defaultMultiUserBased,
			Collaborative:      defaultMultiCollaborative,
			ContentBased:       defaultMultiContentBased,
			ContextAware:       defaultMultiContextAware,
			CategoryPopularity: defaultMultiCategoryPopularity,
		},
		TrendingNoise:   defaultTrendingNoise,
		TopSimilarUsers: defaultTopSimilarUsers,
		DefaultTopN:     defaultTopN,
	}
}

const weightTolerance = 1e-9

// Validate enforces weight conservation: each mode's weights must sum to 1
// so the final score stays on the same scale as the per-strategy scores.
func (c Config) Validate() error {
	if s := c.SingleUser.sum(); math.Abs(s-1.0) > weightTolerance {
		return fmt.Errorf("single-user weights sum to %v, want 1.0", s)
	}
	if s := c.MultiUser.sum(); math.Abs(s-1.0) > weightTolerance {
		return fmt.Errorf("multi-user weights sum to %v, want 1.0", s)
	}
	if c.TrendingNoise < 0 {
		return fmt.Errorf("trending noise must be non-negative, got %v", c.TrendingNoise)
	}
	if c.TopSimilarUsers <= 0 {
		return fmt.Errorf("top similar users must be positive, got %d", c.TopSimilarUsers)
	}
	return nil
}
