package extract

import (
	"sort"
	"strings"

	"github.com/brandlens/sitescan/internal/htmldoc"
	"github.com/brandlens/sitescan/internal/model"
)

// Target length ranges for on-page elements. Values follow common
// search-result display limits.
const (
	titleMinLength       = 30
	titleMaxLength       = 60
	descriptionMinLength = 70
	descriptionMaxLength = 160

	// topKeywordCount is how many high-frequency terms keyword density
	// reports.
	topKeywordCount = 10
)

// stopwords are excluded from keyword-density counting.
var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "our": true,
	"your": true, "with": true, "this": true, "that": true, "from": true,
	"have": true, "has": true, "was": true, "will": true, "more": true,
	"about": true, "what": true, "when": true, "how": true, "why": true,
	"who": true, "their": true, "they": true, "its": true, "into": true,
	"than": true, "then": true, "them": true, "out": true, "get": true,
	"one": true, "two": true, "use": true, "also": true, "any": true,
}

// SEOExtractor scores on-page search-optimization signals.
type SEOExtractor struct{}

// NewSEOExtractor creates a new SEOExtractor.
func NewSEOExtractor() *SEOExtractor {
	return &SEOExtractor{}
}

// Name returns the extractor name.
func (x *SEOExtractor) Name() string {
	return "seo"
}

// Extract fills the SEO section of the extraction.
func (x *SEOExtractor) Extract(doc *htmldoc.Document, _ Input, out *model.PageExtraction) error {
	title := doc.Title()
	description := doc.MetaDescription()

	seo := &model.SEOAnalysis{
		Title:            title,
		TitleScore:       lengthScore(len(title), titleMinLength, titleMaxLength),
		Description:      description,
		DescriptionScore: lengthScore(len(description), descriptionMinLength, descriptionMaxLength),
		HeadingIssues:    validateHeadings(doc.Headings()),
		KeywordDensity:   keywordDensity(doc.Text(), topKeywordCount),
		Readability:      readability(doc.Text()),
	}

	out.SEO = seo
	return nil
}

// lengthScore rates a text length against a target range: 100 inside the
// range, decaying linearly outside it, 0 for empty text.
func lengthScore(length, min, max int) float64 {
	switch {
	case length == 0:
		return 0
	case length >= min && length <= max:
		return 100
	case length < min:
		return 100 * float64(length) / float64(min)
	default:
		over := float64(length-max) / float64(max)
		score := 100 * (1 - over)
		if score < 0 {
			return 0
		}
		return score
	}
}

// validateHeadings checks heading structure: a page should have exactly one
// H1 and should not skip levels on the way down.
func validateHeadings(headings []htmldoc.Heading) []model.AuditIssue {
	issues := make([]model.AuditIssue, 0)

	h1Count := 0
	for _, h := range headings {
		if h.Level == 1 {
			h1Count++
		}
	}

	switch {
	case h1Count == 0:
		issues = append(issues, model.AuditIssue{
			Type:         "missing_h1",
			Description:  "The page has no H1 heading.",
			Severity:     model.SeverityHigh,
			SeverityText: model.SeverityHigh.String(),
			Suggestion:   "Add a single H1 describing the page's main topic.",
		})
	case h1Count > 1:
		issues = append(issues, model.AuditIssue{
			Type:         "duplicate_h1",
			Description:  "The page has more than one H1 heading.",
			Severity:     model.SeverityMedium,
			SeverityText: model.SeverityMedium.String(),
			Suggestion:   "Keep one H1 and demote the others to H2.",
		})
	}

	prev := 0
	for _, h := range headings {
		if prev > 0 && h.Level > prev+1 {
			issues = append(issues, model.AuditIssue{
				Type:         "skipped_heading_level",
				Description:  "A heading level was skipped (e.g. H2 followed by H4).",
				Severity:     model.SeverityMedium,
				SeverityText: model.SeverityMedium.String(),
				Suggestion:   "Use heading levels in order without gaps.",
			})
			break
		}
		prev = h.Level
	}

	return issues
}

// keywordDensity returns the top-N non-stopword terms as a share of all
// counted words.
func keywordDensity(text string, topN int) map[string]float64 {
	counts := make(map[string]int)
	total := 0

	for _, raw := range strings.Fields(strings.ToLower(text)) {
		word := strings.Trim(raw, ".,;:!?()[]\"'")
		if len(word) < 3 || stopwords[word] {
			continue
		}
		counts[word]++
		total++
	}
	if total == 0 {
		return nil
	}

	type wordCount struct {
		word  string
		count int
	}
	ranked := make([]wordCount, 0, len(counts))
	for w, c := range counts {
		ranked = append(ranked, wordCount{w, c})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].word < ranked[j].word
	})

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}

	density := make(map[string]float64, len(ranked))
	for _, wc := range ranked {
		density[wc.word] = float64(wc.count) / float64(total)
	}
	return density
}

// readability is a simplified estimate from average sentence length:
// 100 at or below 10 words per sentence, falling linearly to 0 at 40.
func readability(text string) float64 {
	sentences := 0
	for _, r := range text {
		if r == '.' || r == '!' || r == '?' {
			sentences++
		}
	}
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	if sentences == 0 {
		sentences = 1
	}

	avg := float64(words) / float64(sentences)
	switch {
	case avg <= 10:
		return 100
	case avg >= 40:
		return 0
	default:
		return 100 * (40 - avg) / 30
	}
}

// Ensure SEOExtractor implements Extractor.
var _ Extractor = (*SEOExtractor)(nil)
