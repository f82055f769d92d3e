package recommend

import "testing"

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config: %v", err)
	}
}

func TestConfigValidateRejectsBrokenWeights(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SingleUser.Collaborative = 0.5
	if err := cfg.Validate(); err == nil {
		t.Fatal("single-user weights summing past 1.0 must fail")
	}

	cfg = DefaultConfig()
	cfg.MultiUser.UserBased = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("multi-user weights summing below 1.0 must fail")
	}
}

func TestConfigValidateRejectsBadKnobs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TrendingNoise = -0.1
	if err := cfg.Validate(); err == nil {
		t.Fatal("negative trending noise must fail")
	}

	cfg = DefaultConfig()
	cfg.TopSimilarUsers = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("non-positive neighbour cap must fail")
	}
}
