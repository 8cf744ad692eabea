package extract

import (
	"regexp"
	"strings"

	"github.com/brandlens/sitescan/internal/htmldoc"
	"github.com/brandlens/sitescan/internal/model"
)

// industryKeywords maps industry names to the terms whose frequency in body
// text votes for that classification.
var industryKeywords = map[string][]string{
	"ecommerce":    {"shop", "cart", "checkout", "shipping", "order", "store", "buy"},
	"saas":         {"software", "platform", "integration", "api", "dashboard", "subscription", "workflow"},
	"finance":      {"bank", "loan", "invest", "insurance", "credit", "payment", "mortgage"},
	"healthcare":   {"health", "clinic", "patient", "doctor", "medical", "treatment", "care"},
	"education":    {"course", "learn", "student", "training", "curriculum", "lesson", "school"},
	"hospitality":  {"hotel", "restaurant", "menu", "booking", "reservation", "stay", "dining"},
	"real_estate":  {"property", "listing", "rent", "mortgage", "apartment", "realtor", "homes"},
	"legal":        {"law", "attorney", "legal", "firm", "counsel", "litigation", "lawyer"},
	"marketing":    {"marketing", "brand", "campaign", "audience", "advertising", "seo", "agency"},
	"manufacturing": {"manufacturer", "industrial", "factory", "production", "machinery", "supplier", "equipment"},
}

// b2bIndicators and b2cIndicators score the audience classification.
var (
	b2bIndicators = []string{"enterprise", "businesses", "teams", "roi", "procurement", "wholesale", "b2b", "clients", "solutions"}
	b2cIndicators = []string{"family", "personal", "everyday", "gift", "shoppers", "b2c", "home", "lifestyle", "you and yours"}
)

// competitorPhrases detect comparisons against other brands.
var competitorPhrases = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b([A-Za-z][\w.-]{1,40})\s+vs\.?\s+([A-Za-z][\w.-]{1,40})`),
	regexp.MustCompile(`(?i)compared to\s+([A-Z][\w.-]{1,40})`),
	regexp.MustCompile(`(?i)alternative to\s+([A-Z][\w.-]{1,40})`),
}

// addressPattern is a loose street-address matcher. False positives are
// acceptable; results feed a heuristic location list, not a contract.
var addressPattern = regexp.MustCompile(`\b\d{1,5}\s+[A-Z][A-Za-z]+\s+(?:Street|St\.?|Avenue|Ave\.?|Road|Rd\.?|Boulevard|Blvd\.?|Lane|Ln\.?|Drive|Dr\.?|Way|Suite)\b[^.<]{0,40}`)

// BusinessExtractor infers industry, audience, products, locations, and
// brand/competitor mentions.
type BusinessExtractor struct{}

// NewBusinessExtractor creates a new BusinessExtractor.
func NewBusinessExtractor() *BusinessExtractor {
	return &BusinessExtractor{}
}

// Name returns the extractor name.
func (x *BusinessExtractor) Name() string {
	return "business"
}

// Extract fills the business-intelligence section of the extraction.
func (x *BusinessExtractor) Extract(doc *htmldoc.Document, in Input, out *model.PageExtraction) error {
	text := strings.ToLower(doc.Text())

	intel := &model.BusinessIntel{}
	intel.Industry, intel.IndustryConfidence = classifyIndustry(text)
	intel.Audience = classifyAudience(text)
	intel.Products = detectProducts(doc)
	intel.Locations = detectLocations(doc)
	intel.BrandMentions = countBrandMentions(doc, in.BrandName)
	intel.CompetitorMentions = detectCompetitorMentions(doc.Text())

	out.Business = intel
	return nil
}

// classifyIndustry picks the industry whose keyword set matches most often.
// Confidence reflects the winning margin, capped at 100.
func classifyIndustry(text string) (string, float64) {
	best, bestHits, secondHits := "", 0, 0
	for industry, words := range industryKeywords {
		hits := 0
		for _, w := range words {
			hits += strings.Count(text, w)
		}
		switch {
		case hits > bestHits:
			secondHits = bestHits
			best, bestHits = industry, hits
		case hits > secondHits:
			secondHits = hits
		}
	}
	if bestHits == 0 {
		return "", 0
	}

	confidence := 40 + 10*float64(bestHits-secondHits)
	if confidence > 100 {
		confidence = 100
	}
	return best, confidence
}

// classifyAudience scores B2B vs B2C indicator words.
func classifyAudience(text string) string {
	b2b, b2c := 0, 0
	for _, w := range b2bIndicators {
		b2b += strings.Count(text, w)
	}
	for _, w := range b2cIndicators {
		b2c += strings.Count(text, w)
	}

	switch {
	case b2b == 0 && b2c == 0:
		return ""
	case b2b > b2c*2:
		return "b2b"
	case b2c > b2b*2:
		return "b2c"
	default:
		return "mixed"
	}
}

// detectProducts pulls product names from structured data first, then from
// product-path link text.
func detectProducts(doc *htmldoc.Document) []string {
	products := make([]string, 0)
	seen := make(map[string]bool)

	add := func(name string) {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if name != "" && !seen[key] {
			seen[key] = true
			products = append(products, name)
		}
	}

	sd := doc.Structured()
	for _, block := range sd.JSONLD {
		if t, ok := block["@type"].(string); ok && (t == "Product" || t == "Service") {
			if name, ok := block["name"].(string); ok {
				add(name)
			}
		}
	}
	for _, item := range sd.Microdata {
		if strings.Contains(item.Type, "Product") {
			add(item.Properties["name"])
		}
	}

	for _, link := range doc.Links() {
		if !link.Internal || link.Text == "" {
			continue
		}
		lower := strings.ToLower(link.Href)
		if strings.Contains(lower, "/product") || strings.Contains(lower, "/service") {
			add(link.Text)
		}
	}

	return products
}

// detectLocations finds address-bearing fragments in structured data and
// body text.
func detectLocations(doc *htmldoc.Document) []string {
	locations := make([]string, 0)
	seen := make(map[string]bool)

	add := func(loc string) {
		loc = strings.TrimSpace(loc)
		if loc != "" && !seen[loc] {
			seen[loc] = true
			locations = append(locations, loc)
		}
	}

	for _, item := range doc.Structured().Microdata {
		for prop, value := range item.Properties {
			if strings.Contains(strings.ToLower(prop), "address") {
				add(value)
			}
		}
	}
	for _, match := range addressPattern.FindAllString(doc.Text(), -1) {
		add(match)
	}

	return locations
}

// countBrandMentions counts occurrences of the brand token in body text.
// When no brand was supplied, the first segment of the title (before a
// separator such as | or -) stands in for it.
func countBrandMentions(doc *htmldoc.Document, brandName string) int {
	brand := brandName
	if brand == "" {
		title := doc.Title()
		for _, sep := range []string{"|", " - ", " – ", ":"} {
			if idx := strings.Index(title, sep); idx > 0 {
				title = title[:idx]
				break
			}
		}
		brand = strings.TrimSpace(title)
	}
	if brand == "" {
		return 0
	}

	return strings.Count(strings.ToLower(doc.Text()), strings.ToLower(brand))
}

// detectCompetitorMentions finds comparison phrases in body text.
func detectCompetitorMentions(text string) []string {
	mentions := make([]string, 0)
	seen := make(map[string]bool)

	for _, pattern := range competitorPhrases {
		for _, match := range pattern.FindAllString(text, -1) {
			key := strings.ToLower(match)
			if !seen[key] {
				seen[key] = true
				mentions = append(mentions, strings.TrimSpace(match))
			}
		}
	}
	return mentions
}

// Ensure BusinessExtractor implements Extractor.
var _ Extractor = (*BusinessExtractor)(nil)
