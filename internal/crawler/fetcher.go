package crawler

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/brandlens/sitescan/internal/model"
	"github.com/brandlens/sitescan/internal/session"
)

const defaultFetchTimeout = 20 * time.Second

// Fetcher retrieves pages through managed sessions.
type Fetcher struct {
	client       *http.Client
	sessions     *session.Manager
	logger       *slog.Logger
	extraHeaders map[string]string
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithLogger sets the fetcher logger.
func WithLogger(logger *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithExtraHeaders sets site-specific headers sent on every request,
// applied after the session's identity headers so they win on conflict.
func WithExtraHeaders(headers map[string]string) FetcherOption {
	return func(f *Fetcher) {
		f.extraHeaders = headers
	}
}

// NewFetcher creates a Fetcher using the given session manager.
func NewFetcher(sessions *session.Manager, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client: &http.Client{
			Timeout: defaultFetchTimeout,
			// Identity headers are managed per session; the transport
			// must not silently negotiate its own encoding on top.
			Transport: &http.Transport{DisableCompression: true},
		},
		sessions: sessions,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchPage retrieves one page. A 403 response invalidates the domain
// session and retries once with a fresh fingerprint; the second 403 is
// returned as-is for the caller's bypass handling.
func (f *Fetcher) FetchPage(ctx context.Context, rawURL string) (*model.Page, error) {
	page, err := f.fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	if page.StatusCode != http.StatusForbidden {
		return page, nil
	}

	f.logger.Debug("got 403, rotating session", slog.String("url", rawURL))
	f.sessions.Invalidate(rawURL)
	retried, err := f.fetch(ctx, rawURL)
	if err != nil {
		return page, nil
	}
	return retried, nil
}

func (f *Fetcher) fetch(ctx context.Context, rawURL string) (*model.Page, error) {
	if err := f.sessions.Wait(ctx, rawURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", rawURL, err)
	}
	sess := f.sessions.GetOrCreate(rawURL)
	sess.Apply(req)
	for k, v := range f.extraHeaders {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	sess.Absorb(resp)

	body, err := readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read body of %s: %w", rawURL, err)
	}

	page := &model.Page{
		URL:         rawURL,
		StatusCode:  resp.StatusCode,
		Headers:     resp.Header,
		ContentType: resp.Header.Get("Content-Type"),
		Raw:         body,
		FetchedAt:   start,
		Elapsed:     time.Since(start),
	}
	page.TruncateRaw()
	page.ComputeHash()

	f.logger.Debug("fetched page",
		slog.String("url", rawURL),
		slog.Int("status", page.StatusCode),
		slog.Int("bytes", len(page.Raw)),
		slog.Duration("elapsed", page.Elapsed))

	return page, nil
}

// readBody decodes the response body, handling gzip that the server
// applied because the session advertises Accept-Encoding. Reads are
// capped at one byte past MaxPageSize so truncation is detectable.
func readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body
	if strings.Contains(resp.Header.Get("Content-Encoding"), "gzip") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		reader = gz
	}
	return io.ReadAll(io.LimitReader(reader, model.MaxPageSize+1))
}

// Get fetches a URL and returns its body and status. It satisfies the
// getter interfaces of the sitemap and bypass packages.
func (f *Fetcher) Get(ctx context.Context, rawURL string) ([]byte, int, error) {
	page, err := f.FetchPage(ctx, rawURL)
	if err != nil {
		return nil, 0, err
	}
	return page.Raw, page.StatusCode, nil
}
