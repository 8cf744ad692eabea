package model

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Page represents a fetched web page with its raw response data.
// This structure holds both the raw body and the metadata needed for
// change detection and downstream extraction.
//
// Design decision: We store both raw bytes and a text snapshot because:
// 1. Raw bytes are what the snapshot store hashes for change detection
// 2. The snapshot is what heuristic extractors scan for text patterns
// 3. The hash allows deduplication without re-reading the body
type Page struct {
	// URL is the full URL of the page.
	URL string `json:"url"`

	// StatusCode is the HTTP response status code.
	StatusCode int `json:"status_code"`

	// Headers contains all HTTP response headers.
	Headers map[string][]string `json:"headers,omitempty"`

	// ContentType is the MIME type from the Content-Type header.
	ContentType string `json:"content_type"`

	// Title is the page title extracted from the <title> tag.
	Title string `json:"title,omitempty"`

	// Description is the meta description, when present.
	Description string `json:"description,omitempty"`

	// Snapshot is a text snapshot of the page content, limited to
	// MaxSnapshotSize bytes to prevent memory issues.
	Snapshot string `json:"snapshot,omitempty"`

	// Raw contains the raw response body bytes, limited to MaxPageSize.
	Raw []byte `json:"-"` // Excluded from JSON to reduce report size

	// Hash is the SHA-256 hash of the raw content.
	Hash string `json:"hash,omitempty"`

	// FetchedAt is when the page was retrieved.
	FetchedAt time.Time `json:"fetched_at"`

	// Elapsed is how long the network fetch took.
	Elapsed time.Duration `json:"elapsed,omitempty"`

	// Enhanced is true when full content extraction succeeded, false when
	// only the basic regex rescue produced title/description.
	Enhanced bool `json:"enhanced"`
}

// MaxSnapshotSize is the maximum size of the text snapshot in bytes.
const MaxSnapshotSize = 512 * 1024 // 512 KB

// MaxPageSize is the maximum size of raw page content to keep.
// Larger bodies are truncated to this size.
const MaxPageSize = 5 * 1024 * 1024 // 5 MB

// ComputeHash calculates and sets the SHA-256 hash of the page's raw content.
// This should be called after setting the Raw field.
func (p *Page) ComputeHash() {
	if len(p.Raw) == 0 {
		p.Hash = ""
		return
	}

	hash := sha256.Sum256(p.Raw)
	p.Hash = hex.EncodeToString(hash[:])
}

// IsHTML returns true if the page content type indicates HTML.
func (p *Page) IsHTML() bool {
	return strings.HasPrefix(p.ContentType, "text/html") ||
		strings.HasPrefix(p.ContentType, "application/xhtml+xml")
}

// TruncateSnapshot ensures the snapshot doesn't exceed MaxSnapshotSize.
func (p *Page) TruncateSnapshot() {
	if len(p.Snapshot) > MaxSnapshotSize {
		p.Snapshot = p.Snapshot[:MaxSnapshotSize]
	}
}

// TruncateRaw ensures the raw content doesn't exceed MaxPageSize.
func (p *Page) TruncateRaw() {
	if len(p.Raw) > MaxPageSize {
		p.Raw = p.Raw[:MaxPageSize]
	}
}
