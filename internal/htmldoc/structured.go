package htmldoc

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StructuredData holds machine-readable metadata embedded in the page.
type StructuredData struct {
	// JSONLD contains each successfully decoded JSON-LD block. Blocks that
	// fail to decode are skipped, per the parser's tolerance contract.
	JSONLD []map[string]any `json:"json_ld,omitempty"`

	// Microdata contains itemscope items keyed by itemprop name.
	Microdata []MicrodataItem `json:"microdata,omitempty"`
}

// MicrodataItem is one itemscope element with its declared type and
// collected property values.
type MicrodataItem struct {
	Type       string            `json:"type,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

// Structured extracts JSON-LD and microdata from the document.
func (d *Document) Structured() *StructuredData {
	sd := &StructuredData{
		JSONLD:    make([]map[string]any, 0),
		Microdata: make([]MicrodataItem, 0),
	}

	d.doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}

		// A block may hold a single object or an array of objects.
		var obj map[string]any
		if err := json.Unmarshal([]byte(raw), &obj); err == nil {
			sd.JSONLD = append(sd.JSONLD, obj)
			return
		}
		var list []map[string]any
		if err := json.Unmarshal([]byte(raw), &list); err == nil {
			sd.JSONLD = append(sd.JSONLD, list...)
		}
		// Undecodable blocks are dropped silently: malformed embedded
		// metadata must not fail the whole document.
	})

	d.doc.Find("[itemscope]").Each(func(_ int, s *goquery.Selection) {
		item := MicrodataItem{Properties: make(map[string]string)}
		if t, ok := s.Attr("itemtype"); ok {
			item.Type = t
		}
		s.Find("[itemprop]").Each(func(_ int, p *goquery.Selection) {
			name, _ := p.Attr("itemprop")
			if name == "" {
				return
			}
			value, ok := p.Attr("content")
			if !ok {
				value = strings.TrimSpace(p.Text())
			}
			if value != "" {
				item.Properties[name] = value
			}
		})
		if len(item.Properties) > 0 || item.Type != "" {
			sd.Microdata = append(sd.Microdata, item)
		}
	})

	return sd
}

// JSONLDTypes returns the @type values across all JSON-LD blocks.
func (sd *StructuredData) JSONLDTypes() []string {
	types := make([]string, 0, len(sd.JSONLD))
	for _, block := range sd.JSONLD {
		if t, ok := block["@type"].(string); ok {
			types = append(types, t)
		}
	}
	return types
}

// Regions is the content-region split of a page.
type Regions struct {
	// Main is the primary content text.
	Main string `json:"main,omitempty"`

	// Navigation is the combined text of nav regions.
	Navigation string `json:"navigation,omitempty"`

	// Footer is the footer text.
	Footer string `json:"footer,omitempty"`

	// Sidebar is the aside text.
	Sidebar string `json:"sidebar,omitempty"`
}

// SplitRegions separates the page into main content, navigation, footer,
// and sidebar.
//
// Main content is located by semantic tags first (main, article,
// [role=main]); when none exist we fall back to the largest text block
// among top-level containers, which handles div-soup layouts.
func (d *Document) SplitRegions() *Regions {
	r := &Regions{
		Navigation: collapsedText(d.doc.Find("nav, [role=navigation]")),
		Footer:     collapsedText(d.doc.Find("footer, [role=contentinfo]")),
		Sidebar:    collapsedText(d.doc.Find("aside, [role=complementary]")),
	}

	main := d.doc.Find("main, article, [role=main]").First()
	if main.Length() > 0 {
		r.Main = collapsedText(main)
		return r
	}

	// Largest text block fallback: score direct containers by text length
	// after stripping chrome regions.
	var best string
	d.doc.Find("div, section").Each(func(_ int, s *goquery.Selection) {
		clone := s.Clone()
		clone.Find("nav, footer, aside, script, style").Remove()
		text := strings.Join(strings.Fields(clone.Text()), " ")
		if len(text) > len(best) {
			best = text
		}
	})
	if best == "" {
		best = d.Text()
	}
	r.Main = best
	return r
}

func collapsedText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}
