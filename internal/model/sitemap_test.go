package model

import (
	"testing"
	"time"
)

// TestComputeFinalScore verifies the weighted combination and its
// monotonicity in each input held individually constant.
func TestComputeFinalScore(t *testing.T) {
	t.Parallel()

	t.Run("weighted combination", func(t *testing.T) {
		t.Parallel()

		u := &SitemapURL{
			BusinessValue:  80,
			FreshnessScore: 100,
			Priority:       0.5,
		}
		u.ComputeFinalScore()

		want := 0.5*80 + 0.3*100 + 0.2*50
		if u.FinalScore != want {
			t.Errorf("expected final score %v, got %v", want, u.FinalScore)
		}
	})

	t.Run("monotonic in business value", func(t *testing.T) {
		t.Parallel()

		prev := -1.0
		for _, bv := range []float64{0, 25, 50, 75, 100} {
			u := &SitemapURL{BusinessValue: bv, FreshnessScore: 50, Priority: 0.5}
			u.ComputeFinalScore()
			if u.FinalScore <= prev {
				t.Fatalf("final score not increasing at business value %v", bv)
			}
			prev = u.FinalScore
		}
	})

	t.Run("monotonic in freshness", func(t *testing.T) {
		t.Parallel()

		prev := -1.0
		for _, fs := range []float64{25, 50, 85, 100} {
			u := &SitemapURL{BusinessValue: 50, FreshnessScore: fs, Priority: 0.5}
			u.ComputeFinalScore()
			if u.FinalScore <= prev {
				t.Fatalf("final score not increasing at freshness %v", fs)
			}
			prev = u.FinalScore
		}
	})

	t.Run("monotonic in declared priority", func(t *testing.T) {
		t.Parallel()

		prev := -1.0
		for _, p := range []float64{0, 0.3, 0.5, 0.8, 1.0} {
			u := &SitemapURL{BusinessValue: 50, FreshnessScore: 50, Priority: p}
			u.ComputeFinalScore()
			if u.FinalScore <= prev {
				t.Fatalf("final score not increasing at priority %v", p)
			}
			prev = u.FinalScore
		}
	})
}

func TestSitemapURLLastMod(t *testing.T) {
	t.Parallel()

	now := time.Now()
	u := &SitemapURL{Loc: "https://example.com/blog/post", LastMod: &now}
	if u.LastMod == nil || !u.LastMod.Equal(now) {
		t.Error("lastmod should round-trip through the struct")
	}
}
