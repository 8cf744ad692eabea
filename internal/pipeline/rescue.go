package pipeline

import (
	"regexp"
	"strings"

	"github.com/brandlens/sitescan/internal/model"
)

// Regex rescue for pages whose full HTML processing failed. Deliberately
// crude: it runs against malformed or truncated markup that the parser
// already gave up on.
var (
	titlePattern = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	descPattern  = regexp.MustCompile(`(?is)<meta[^>]+name=["']description["'][^>]*content=["']([^"']*)["']`)
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
)

// rescueMeta salvages the title and meta description from raw markup
// and marks the page as not enhanced.
func rescueMeta(page *model.Page) {
	raw := string(page.Raw)

	if m := titlePattern.FindStringSubmatch(raw); len(m) > 1 {
		page.Title = strings.TrimSpace(tagPattern.ReplaceAllString(m[1], ""))
	}
	if m := descPattern.FindStringSubmatch(raw); len(m) > 1 {
		page.Description = strings.TrimSpace(m[1])
	}
	page.Enhanced = false
}
