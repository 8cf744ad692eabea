package htmldoc

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Document wraps a parsed HTML page and resolves relative URLs against the
// page's base URL.
//
// Design decision: We build on goquery rather than walking x/net/html nodes
// by hand because:
// 1. CSS selection keeps extraction code declarative and short
// 2. goquery's parser (x/net/html) already tolerates malformed markup
// 3. The same selection API serves both extraction and region splitting
type Document struct {
	doc     *goquery.Document
	baseURL *url.URL
}

// Heading is a heading element with its level (1-6) and trimmed text.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// Link is an anchor with its resolved destination and visible text.
type Link struct {
	Href     string `json:"href"`
	Text     string `json:"text"`
	Internal bool   `json:"internal"`
}

// Image is an image reference with its resolved source and alt text.
type Image struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// minParagraphLength filters out boilerplate fragments ("Read more",
// cookie-banner stubs) that carry no analyzable content.
const minParagraphLength = 30

// Load parses markup and returns a Document. The base URL is used to
// resolve relative links and classify them as internal or external.
func Load(markup string, baseURL string) (*Document, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, err
	}

	return &Document{doc: doc, baseURL: base}, nil
}

// Title returns the trimmed <title> text.
func (d *Document) Title() string {
	return strings.TrimSpace(d.doc.Find("title").First().Text())
}

// MetaDescription returns the meta description content, if any.
func (d *Document) MetaDescription() string {
	desc, _ := d.doc.Find(`meta[name="description"]`).First().Attr("content")
	return strings.TrimSpace(desc)
}

// Canonical returns the canonical URL declared by the page, resolved
// against the base URL, or empty when absent.
func (d *Document) Canonical() string {
	href, ok := d.doc.Find(`link[rel="canonical"]`).First().Attr("href")
	if !ok {
		return ""
	}
	return d.resolve(href)
}

// RobotsMeta returns the content of the robots meta tag, if any.
func (d *Document) RobotsMeta() string {
	content, _ := d.doc.Find(`meta[name="robots"]`).First().Attr("content")
	return strings.TrimSpace(content)
}

// MetaTags returns all name/property meta tags as a map. Open Graph tags
// (property=) and named tags share the same map; later duplicates win.
func (d *Document) MetaTags() map[string]string {
	tags := make(map[string]string)
	d.doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		name, ok := s.Attr("name")
		if !ok {
			name, ok = s.Attr("property") // Open Graph uses property
		}
		content, hasContent := s.Attr("content")
		if ok && hasContent && name != "" {
			tags[name] = content
		}
	})
	return tags
}

// OpenGraph returns og:* metadata keyed without the prefix.
func (d *Document) OpenGraph() map[string]string {
	return d.prefixedMeta("og:")
}

// TwitterMeta returns twitter:* metadata keyed without the prefix.
func (d *Document) TwitterMeta() map[string]string {
	return d.prefixedMeta("twitter:")
}

func (d *Document) prefixedMeta(prefix string) map[string]string {
	out := make(map[string]string)
	for k, v := range d.MetaTags() {
		if strings.HasPrefix(k, prefix) {
			out[strings.TrimPrefix(k, prefix)] = v
		}
	}
	return out
}

// Headings returns all h1-h6 elements in document order.
func (d *Document) Headings() []Heading {
	headings := make([]Heading, 0)
	d.doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		level := int(s.Get(0).Data[1] - '0')
		headings = append(headings, Heading{
			Level: level,
			Text:  strings.TrimSpace(s.Text()),
		})
	})
	return headings
}

// Paragraphs returns paragraph texts, filtered to remove very short
// fragments that carry no analyzable content.
func (d *Document) Paragraphs() []string {
	paragraphs := make([]string, 0)
	d.doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if len(text) >= minParagraphLength {
			paragraphs = append(paragraphs, text)
		}
	})
	return paragraphs
}

// Links returns all anchors with a usable destination, resolved against
// the base URL and classified as internal or external.
func (d *Document) Links() []Link {
	links := make([]Link, 0)
	d.doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		resolved := d.resolve(href)
		if resolved == "" {
			return
		}
		links = append(links, Link{
			Href:     resolved,
			Text:     strings.TrimSpace(s.Text()),
			Internal: d.isInternal(resolved),
		})
	})
	return links
}

// InternalLinks returns only same-host link destinations.
func (d *Document) InternalLinks() []string {
	out := make([]string, 0)
	seen := make(map[string]bool)
	for _, l := range d.Links() {
		if l.Internal && !seen[l.Href] {
			seen[l.Href] = true
			out = append(out, l.Href)
		}
	}
	return out
}

// Images returns all images with resolved sources.
func (d *Document) Images() []Image {
	images := make([]Image, 0)
	d.doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		alt, _ := s.Attr("alt")
		resolved := d.resolve(src)
		if resolved == "" && src == "" {
			return
		}
		if resolved == "" {
			resolved = src
		}
		images = append(images, Image{Src: resolved, Alt: alt})
	})
	return images
}

// Text returns the full visible text of the page body with collapsed
// whitespace. Script and style contents are excluded.
func (d *Document) Text() string {
	body := d.doc.Find("body").Clone()
	body.Find("script, style, noscript").Remove()
	return strings.Join(strings.Fields(body.Text()), " ")
}

// WordCount returns the number of whitespace-separated words in the body.
func (d *Document) WordCount() int {
	return len(strings.Fields(d.Text()))
}

// Find exposes raw CSS selection for callers with one-off needs.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// resolve resolves a possibly-relative href against the base URL.
// javascript:, mailto:, tel:, data: and bare-fragment links resolve to "".
func (d *Document) resolve(href string) string {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return d.baseURL.ResolveReference(u).String()
}

// isInternal reports whether a resolved URL shares the base URL's host.
func (d *Document) isInternal(resolved string) bool {
	u, err := url.Parse(resolved)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Hostname(), d.baseURL.Hostname())
}
