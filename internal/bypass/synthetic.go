package bypass

import (
	"context"
	"fmt"
	"strings"

	"github.com/brandlens/sitescan/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// domainIndustryHints maps domain-name tokens to industry guesses.
// This is the weakest signal in the system and is scored accordingly.
var domainIndustryHints = map[string]string{
	"shop":     "ecommerce",
	"store":    "ecommerce",
	"boutique": "ecommerce",
	"tech":     "technology",
	"soft":     "technology",
	"app":      "technology",
	"cloud":    "technology",
	"law":      "legal",
	"legal":    "legal",
	"health":   "healthcare",
	"medical":  "healthcare",
	"clinic":   "healthcare",
	"dental":   "healthcare",
	"bank":     "finance",
	"capital":  "finance",
	"invest":   "finance",
	"travel":   "travel",
	"hotel":    "travel",
	"food":     "food",
	"kitchen":  "food",
	"cafe":     "food",
	"studio":   "creative",
	"design":   "creative",
	"media":    "creative",
}

// SyntheticStrategy fabricates a minimal evidence record from nothing
// but the brand name and domain. It always succeeds, which makes it
// the chain terminator: with it in place the engine can guarantee a
// well-formed result for any input.
type SyntheticStrategy struct{}

// NewSyntheticStrategy creates the strategy.
func NewSyntheticStrategy() *SyntheticStrategy {
	return &SyntheticStrategy{}
}

// Name returns the strategy name.
func (s *SyntheticStrategy) Name() string { return "synthetic" }

// Attempt synthesizes a placeholder page and industry guess.
func (s *SyntheticStrategy) Attempt(_ context.Context, target Target) (*model.BypassResult, error) {
	host := target.Host()
	brand := target.BrandName
	if brand == "" {
		name, _, _ := strings.Cut(host, ".")
		brand = cases.Title(language.English).String(strings.ReplaceAll(name, "-", " "))
	}

	result := newResult(s.Name(), ConfidenceSynthetic)
	result.Data["brand"] = brand
	result.Data["domain"] = host
	if industry := guessIndustry(host); industry != "" {
		result.Data["industry_guess"] = industry
	}
	result.HTML = fmt.Sprintf(
		"<html><head><title>%s</title></head><body><h1>%s</h1><p>%s</p></body></html>",
		brand, brand, host)
	return result, nil
}

// guessIndustry matches domain-name tokens against the hint table.
func guessIndustry(host string) string {
	name, _, _ := strings.Cut(host, ".")
	lower := strings.ToLower(name)
	for token, industry := range domainIndustryHints {
		if strings.Contains(lower, token) {
			return industry
		}
	}
	return ""
}
