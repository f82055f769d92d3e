package recommend

import (
	"testing"

	"smartMarket/domain"
)

func TestTagOverlap(t *testing.T) {
	cases := []struct {
		name string
		a, b []string
		want int
	}{
		{"both empty", nil, nil, 0},
		{"one empty", []string{"warm"}, nil, 0},
		{"disjoint", []string{"warm"}, []string{"cold"}, 0},
		{"partial", []string{"warm", "wool", "winter"}, []string{"wool", "winter", "soft"}, 2},
		{"order irrelevant", []string{"a", "b"}, []string{"b", "a"}, 2},
	}

	for _, tc := range cases {
		if got := tagOverlap(tc.a, tc.b); got != tc.want {
			t.Errorf("%s: got %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestPriceRatio(t *testing.T) {
	if got := priceRatio(50, 100); !almostEqual(got, 0.5) {
		t.Errorf("50/100: got %v", got)
	}
	if got := priceRatio(100, 50); !almostEqual(got, 0.5) {
		t.Errorf("symmetric: got %v", got)
	}
	if got := priceRatio(80, 80); !almostEqual(got, 1) {
		t.Errorf("identical: got %v", got)
	}
	if got := priceRatio(0, 100); got != 0 {
		t.Errorf("zero price: got %v", got)
	}
	if got := priceRatio(0, 0); got != 0 {
		t.Errorf("both zero: got %v", got)
	}
}

func TestPriceBandScore(t *testing.T) {
	if got := priceBandScore(100, 100); !almostEqual(got, 1) {
		t.Errorf("at average: got %v", got)
	}
	// |150-100|/100 = 0.5 -> 1/1.5
	if got := priceBandScore(150, 100); !almostEqual(got, 1.0/1.5) {
		t.Errorf("above average: got %v", got)
	}
	if priceBandScore(50, 100) != priceBandScore(150, 100) {
		t.Error("band should be symmetric around the average")
	}
}

func TestSharedDescriptionWords(t *testing.T) {
	// short words (<= 3 chars) never count
	if got := sharedDescriptionWords("the red hat", "the red cap"); got != 0 {
		t.Errorf("short words: got %d", got)
	}
	if got := sharedDescriptionWords("Warm wool sweater", "warm WOOL jacket"); got != 2 {
		t.Errorf("case-insensitive: got %d", got)
	}
	// duplicates in b count once
	if got := sharedDescriptionWords("wool coat", "wool wool wool"); got != 1 {
		t.Errorf("distinct count: got %d", got)
	}
	if got := sharedDescriptionWords("", "anything here"); got != 0 {
		t.Errorf("empty side: got %d", got)
	}
}

func TestContentSimilarity(t *testing.T) {
	a := &domain.Product{
		ID: "a", Category: "outerwear", Price: 100,
		Tags:        []string{"warm", "wool"},
		Description: "heavy winter jacket",
	}
	b := &domain.Product{
		ID: "b", Category: "outerwear", Price: 100,
		Tags:        []string{"warm", "wool"},
		Description: "heavy winter jacket",
	}

	// category 0.5 + 2 tags * 0.15 + price 0.25 + 3 shared words * 0.05
	want := 0.5 + 0.3 + 0.25 + 0.15
	if got := contentSimilarity(a, b); !almostEqual(got, want) {
		t.Fatalf("identical products: got %v, want %v", got, want)
	}

	c := &domain.Product{ID: "c", Category: "footwear", Price: 0, Tags: nil, Description: ""}
	if got := contentSimilarity(a, c); got != 0 {
		t.Fatalf("nothing in common: got %v", got)
	}
}

func TestItemSimilarity(t *testing.T) {
	a := &domain.Product{ID: "a", Category: "outerwear", Tags: []string{"warm", "wool"}}
	b := &domain.Product{ID: "b", Category: "outerwear", Tags: []string{"wool"}}

	// category 0.5 + 1 tag * 0.1; price and description are ignored here
	if got := itemSimilarity(a, b); !almostEqual(got, 0.6) {
		t.Fatalf("got %v, want 0.6", got)
	}
}
