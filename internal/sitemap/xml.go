package sitemap

import (
	"bytes"
	"compress/gzip"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/brandlens/sitescan/internal/model"
)

type xmlURLEntry struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

type xmlURLSet struct {
	XMLName xml.Name      `xml:"urlset"`
	URLs    []xmlURLEntry `xml:"url"`
}

type xmlSitemapRef struct {
	Loc string `xml:"loc"`
}

type xmlSitemapIndex struct {
	XMLName  xml.Name        `xml:"sitemapindex"`
	Sitemaps []xmlSitemapRef `xml:"sitemap"`
}

// lastModLayouts covers the date formats seen in the wild. The sitemap
// protocol says W3C Datetime but plenty of generators emit bare dates
// or RFC 3339 with offsets.
var lastModLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseSitemap decodes a sitemap document. Exactly one of urls or
// children is populated: a urlset yields URLs, a sitemapindex yields
// child sitemap locations.
func parseSitemap(data []byte) (urls []*model.SitemapURL, children []string, err error) {
	data, err = maybeGunzip(data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decompress sitemap: %w", err)
	}

	root, err := rootElement(data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse sitemap XML: %w", err)
	}

	switch root {
	case "sitemapindex":
		var index xmlSitemapIndex
		if err := xml.Unmarshal(data, &index); err != nil {
			return nil, nil, fmt.Errorf("failed to parse sitemap index: %w", err)
		}
		for _, ref := range index.Sitemaps {
			if loc := strings.TrimSpace(ref.Loc); loc != "" {
				children = append(children, loc)
			}
		}
		return nil, children, nil
	case "urlset":
		var set xmlURLSet
		if err := xml.Unmarshal(data, &set); err != nil {
			return nil, nil, fmt.Errorf("failed to parse urlset: %w", err)
		}
		for _, entry := range set.URLs {
			loc := strings.TrimSpace(entry.Loc)
			if loc == "" {
				continue
			}
			u := &model.SitemapURL{
				Loc:        loc,
				ChangeFreq: strings.TrimSpace(entry.ChangeFreq),
			}
			if t, ok := parseLastMod(entry.LastMod); ok {
				u.LastMod = &t
			}
			if p, err := strconv.ParseFloat(strings.TrimSpace(entry.Priority), 64); err == nil && p >= 0 && p <= 1 {
				u.Priority = p
			}
			urls = append(urls, u)
		}
		return urls, nil, nil
	default:
		return nil, nil, fmt.Errorf("unrecognized sitemap root element %q", root)
	}
}

// rootElement returns the local name of the document's first start
// element.
func rootElement(data []byte) (string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := decoder.Token()
		if err != nil {
			return "", err
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start.Name.Local, nil
		}
	}
}

// maybeGunzip transparently decompresses gzip-served sitemaps
// (sitemap.xml.gz is common).
func maybeGunzip(data []byte) ([]byte, error) {
	if len(data) < 2 || data[0] != 0x1f || data[1] != 0x8b {
		return data, nil
	}
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

func parseLastMod(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range lastModLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
