package model

// Severity represents the impact level of an audit issue.
// It is used by the SEO and accessibility audits to rank findings.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and sorting. The String() method provides
// human-readable output when needed.
type Severity int

const (
	// SeverityInfo indicates informational findings with no direct impact.
	// Examples: missing Open Graph tags, short paragraphs.
	SeverityInfo Severity = iota

	// SeverityLow indicates minor issues with limited impact.
	// Examples: title slightly outside the recommended length range.
	SeverityLow

	// SeverityMedium indicates moderate issues that warrant attention.
	// Examples: empty-text links, skipped heading levels.
	SeverityMedium

	// SeverityHigh indicates serious issues that hurt ranking or usability.
	// Examples: missing H1, images without alt text, missing meta description.
	SeverityHigh

	// SeverityCritical indicates severe issues that likely block indexing
	// or make the page unusable for assistive technology.
	SeverityCritical
)

// String returns a human-readable representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityLow:
		return "LOW"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// AuditIssue is a single finding produced by an audit extractor.
type AuditIssue struct {
	// Type is a stable machine-readable identifier (e.g. "missing_alt").
	Type string `json:"type"`

	// Description explains the issue in human terms.
	Description string `json:"description"`

	// Severity ranks the issue's impact.
	Severity Severity `json:"severity"`

	// SeverityText is the string form of Severity for serialized output.
	SeverityText string `json:"severity_text"`

	// Suggestion is a remediation hint for the issue.
	Suggestion string `json:"suggestion,omitempty"`

	// Location identifies where the issue was found (URL or element hint).
	Location string `json:"location,omitempty"`
}
