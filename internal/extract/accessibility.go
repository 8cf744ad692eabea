package extract

import (
	"github.com/brandlens/sitescan/internal/htmldoc"
	"github.com/brandlens/sitescan/internal/model"
)

// Deduction table for the accessibility audit. The audit starts at 100
// points; each issue occurrence deducts a fixed amount, floored at 0.
const (
	accessibilityBaseline = 100.0

	// deductMissingAlt applies per image without alt text.
	deductMissingAlt = 15.0

	// deductMissingH1 applies once when the page has no H1.
	deductMissingH1 = 25.0

	// deductDuplicateH1 applies once when the page has multiple H1s.
	deductDuplicateH1 = 10.0

	// deductEmptyLink applies per anchor with no visible text.
	deductEmptyLink = 10.0
)

// AccessibilityExtractor audits the document against a deduction table.
type AccessibilityExtractor struct{}

// NewAccessibilityExtractor creates a new AccessibilityExtractor.
func NewAccessibilityExtractor() *AccessibilityExtractor {
	return &AccessibilityExtractor{}
}

// Name returns the extractor name.
func (x *AccessibilityExtractor) Name() string {
	return "accessibility"
}

// Extract fills the accessibility section of the extraction.
func (x *AccessibilityExtractor) Extract(doc *htmldoc.Document, _ Input, out *model.PageExtraction) error {
	audit := &model.AccessibilityAudit{
		Score:  accessibilityBaseline,
		Issues: make([]model.AuditIssue, 0),
	}

	for _, img := range doc.Images() {
		if img.Alt == "" {
			audit.Score -= deductMissingAlt
			audit.Issues = append(audit.Issues, model.AuditIssue{
				Type:         "missing_alt",
				Description:  "Image has no alt text.",
				Severity:     model.SeverityHigh,
				SeverityText: model.SeverityHigh.String(),
				Suggestion:   "Add descriptive alt text so screen readers can convey the image.",
				Location:     img.Src,
			})
		}
	}

	h1Count := 0
	for _, h := range doc.Headings() {
		if h.Level == 1 {
			h1Count++
		}
	}
	switch {
	case h1Count == 0:
		audit.Score -= deductMissingH1
		audit.Issues = append(audit.Issues, model.AuditIssue{
			Type:         "missing_h1",
			Description:  "The page has no H1 heading.",
			Severity:     model.SeverityHigh,
			SeverityText: model.SeverityHigh.String(),
			Suggestion:   "Add a single H1 so assistive technology can announce the page topic.",
		})
	case h1Count > 1:
		audit.Score -= deductDuplicateH1
		audit.Issues = append(audit.Issues, model.AuditIssue{
			Type:         "duplicate_h1",
			Description:  "The page has more than one H1 heading.",
			Severity:     model.SeverityMedium,
			SeverityText: model.SeverityMedium.String(),
			Suggestion:   "Keep a single H1 per page.",
		})
	}

	for _, link := range doc.Links() {
		if link.Text == "" {
			audit.Score -= deductEmptyLink
			audit.Issues = append(audit.Issues, model.AuditIssue{
				Type:         "empty_link",
				Description:  "Link has no visible text.",
				Severity:     model.SeverityMedium,
				SeverityText: model.SeverityMedium.String(),
				Suggestion:   "Give the link descriptive text or an aria-label.",
				Location:     link.Href,
			})
		}
	}

	if audit.Score < 0 {
		audit.Score = 0
	}

	out.Accessibility = audit
	return nil
}

// Ensure AccessibilityExtractor implements Extractor.
var _ Extractor = (*AccessibilityExtractor)(nil)
