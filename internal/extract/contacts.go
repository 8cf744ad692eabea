package extract

import (
	"regexp"
	"strings"

	"github.com/brandlens/sitescan/internal/htmldoc"
	"github.com/brandlens/sitescan/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Design decision: We use a permissive email regex rather than strict
// RFC 5322 because:
// 1. We want to catch lightly obfuscated addresses
// 2. False positives are acceptable for heuristic business intelligence
// 3. Strict parsing would miss many real-world cases
var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// phonePattern matches common international and US phone formats.
var phonePattern = regexp.MustCompile(`\+?\d{1,3}[-.\s]?\(?\d{2,4}\)?[-.\s]?\d{3,4}[-.\s]?\d{3,4}`)

// socialHosts maps recognized social platforms to their host fragments.
var socialHosts = map[string][]string{
	"twitter":   {"twitter.com", "x.com"},
	"facebook":  {"facebook.com", "fb.com"},
	"instagram": {"instagram.com"},
	"linkedin":  {"linkedin.com"},
	"youtube":   {"youtube.com", "youtu.be"},
	"tiktok":    {"tiktok.com"},
	"github":    {"github.com"},
	"pinterest": {"pinterest.com"},
}

// ContactExtractor pulls contact channels and social profiles from the
// document.
type ContactExtractor struct{}

// NewContactExtractor creates a new ContactExtractor.
func NewContactExtractor() *ContactExtractor {
	return &ContactExtractor{}
}

// Name returns the extractor name.
func (x *ContactExtractor) Name() string {
	return "contacts"
}

// Extract fills the contacts section of the extraction.
func (x *ContactExtractor) Extract(doc *htmldoc.Document, _ Input, out *model.PageExtraction) error {
	text := doc.Text()

	contacts := &model.ContactInfo{
		Emails:      dedupeLower(emailPattern.FindAllString(text, -1)),
		Phones:      collectPhones(text),
		SocialLinks: make(map[string]string),
	}

	// Structured data often carries the canonical phone/email.
	for _, item := range doc.Structured().Microdata {
		if v := item.Properties["telephone"]; v != "" {
			contacts.Phones = appendUnique(contacts.Phones, v)
		}
		if v := item.Properties["email"]; v != "" {
			contacts.Emails = appendUnique(contacts.Emails, strings.ToLower(v))
		}
	}

	for _, link := range doc.Links() {
		lower := strings.ToLower(link.Href)
		for platform, hosts := range socialHosts {
			for _, host := range hosts {
				if strings.Contains(lower, host) {
					if _, exists := contacts.SocialLinks[platform]; !exists {
						contacts.SocialLinks[platform] = link.Href
					}
				}
			}
		}
		if link.Internal && strings.Contains(lower, "contact") {
			contacts.ContactPages = appendUnique(contacts.ContactPages, link.Href)
		}
	}

	out.Contacts = contacts
	return nil
}

// PlatformTitle returns a display name for a social platform key.
func PlatformTitle(platform string) string {
	titles := map[string]string{
		"twitter":  "Twitter/X",
		"linkedin": "LinkedIn",
		"youtube":  "YouTube",
		"tiktok":   "TikTok",
		"github":   "GitHub",
	}
	if title, ok := titles[platform]; ok {
		return title
	}
	return cases.Title(language.English).String(platform)
}

// collectPhones extracts phone numbers, filtering matches that are too
// short or digit-sparse to be real numbers.
func collectPhones(text string) []string {
	phones := make([]string, 0)
	seen := make(map[string]bool)
	for _, match := range phonePattern.FindAllString(text, -1) {
		digits := 0
		for _, r := range match {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		if digits < 10 || digits > 15 {
			continue
		}
		normalized := strings.TrimSpace(match)
		if !seen[normalized] {
			seen[normalized] = true
			phones = append(phones, normalized)
		}
	}
	return phones
}

func dedupeLower(values []string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(values))
	for _, v := range values {
		lower := strings.ToLower(v)
		if !seen[lower] {
			seen[lower] = true
			out = append(out, lower)
		}
	}
	return out
}

func appendUnique(values []string, v string) []string {
	for _, existing := range values {
		if existing == v {
			return values
		}
	}
	return append(values, v)
}

// Ensure ContactExtractor implements Extractor.
var _ Extractor = (*ContactExtractor)(nil)
