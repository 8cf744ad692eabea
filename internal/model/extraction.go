package model

// PageExtraction is the full content-intelligence output for one page.
// All fields are derived by pure functions over the parsed document, so the
// same HTML always yields the same extraction.
type PageExtraction struct {
	// SEO is the search-optimization analysis.
	SEO *SEOAnalysis `json:"seo,omitempty"`

	// Accessibility is the accessibility audit.
	Accessibility *AccessibilityAudit `json:"accessibility,omitempty"`

	// Business is the heuristic business-intelligence inference.
	Business *BusinessIntel `json:"business,omitempty"`

	// Contacts holds extracted contact channels.
	Contacts *ContactInfo `json:"contacts,omitempty"`

	// Quality is the content-quality assessment.
	Quality *ContentQuality `json:"quality,omitempty"`
}

// SEOAnalysis scores on-page search-optimization signals.
type SEOAnalysis struct {
	// Title is the page title.
	Title string `json:"title,omitempty"`

	// TitleScore rates the title length against the target range, 0-100.
	TitleScore float64 `json:"title_score"`

	// Description is the meta description.
	Description string `json:"description,omitempty"`

	// DescriptionScore rates the description length, 0-100.
	DescriptionScore float64 `json:"description_score"`

	// HeadingIssues lists structural problems (missing H1, duplicate H1,
	// skipped levels).
	HeadingIssues []AuditIssue `json:"heading_issues,omitempty"`

	// KeywordDensity maps the top non-stopword terms to their frequency
	// share of the body text.
	KeywordDensity map[string]float64 `json:"keyword_density,omitempty"`

	// Readability is a simplified estimate from average sentence length,
	// 0-100 where higher is easier to read.
	Readability float64 `json:"readability"`
}

// AccessibilityAudit is the deduction-based accessibility score.
// The score starts at 100 and each issue class deducts a fixed amount.
type AccessibilityAudit struct {
	// Score is the remaining points after deductions, floored at 0.
	Score float64 `json:"score"`

	// Issues lists every deduction with severity and a remediation hint.
	Issues []AuditIssue `json:"issues,omitempty"`
}

// BusinessIntel holds heuristic business inferences. None of these values
// are guaranteed accurate; they are keyword and pattern matches.
type BusinessIntel struct {
	// Industry is the best-matching industry classification.
	Industry string `json:"industry,omitempty"`

	// IndustryConfidence is the 0-100 strength of the industry match.
	IndustryConfidence float64 `json:"industry_confidence"`

	// Audience is "b2b", "b2c", or "mixed" from indicator-word scoring.
	Audience string `json:"audience,omitempty"`

	// Products lists detected product or service names.
	Products []string `json:"products,omitempty"`

	// Locations lists address-bearing text fragments.
	Locations []string `json:"locations,omitempty"`

	// BrandMentions counts occurrences of the brand token (first segment
	// of the title) in body text.
	BrandMentions int `json:"brand_mentions"`

	// CompetitorMentions lists phrases that compare against other brands.
	CompetitorMentions []string `json:"competitor_mentions,omitempty"`
}

// ContactInfo holds extracted contact channels.
type ContactInfo struct {
	Emails       []string          `json:"emails,omitempty"`
	Phones       []string          `json:"phones,omitempty"`
	SocialLinks  map[string]string `json:"social_links,omitempty"`
	ContactPages []string          `json:"contact_pages,omitempty"`
}

// ContentQuality rates the substance of the page content.
type ContentQuality struct {
	// WordCount is the total body word count.
	WordCount int `json:"word_count"`

	// HasHeadings is true when the page uses any heading structure.
	HasHeadings bool `json:"has_headings"`

	// AltCoverage is the share of images with non-empty alt text, 0-1.
	AltCoverage float64 `json:"alt_coverage"`

	// Score combines the above into a 0-100 quality rating.
	Score float64 `json:"score"`
}
