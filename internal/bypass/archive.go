package bypass

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/brandlens/sitescan/internal/model"
)

const waybackAvailableAPI = "https://archive.org/wayback/available?url="

// ArchiveStrategy pulls the closest Wayback Machine capture of the
// page via the availability API.
type ArchiveStrategy struct {
	getter HTTPGetter
}

// NewArchiveStrategy creates the strategy around an HTTP getter.
func NewArchiveStrategy(getter HTTPGetter) *ArchiveStrategy {
	return &ArchiveStrategy{getter: getter}
}

// Name returns the strategy name.
func (s *ArchiveStrategy) Name() string { return "internet_archive" }

type waybackAvailability struct {
	ArchivedSnapshots struct {
		Closest struct {
			Available bool   `json:"available"`
			URL       string `json:"url"`
			Timestamp string `json:"timestamp"`
			Status    string `json:"status"`
		} `json:"closest"`
	} `json:"archived_snapshots"`
}

// Attempt looks up the closest capture and fetches its HTML.
func (s *ArchiveStrategy) Attempt(ctx context.Context, target Target) (*model.BypassResult, error) {
	body, status, err := s.getter.Get(ctx, waybackAvailableAPI+url.QueryEscape(target.URL))
	if err != nil {
		return nil, fmt.Errorf("wayback availability lookup failed: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("wayback availability lookup returned status %d", status)
	}

	var availability waybackAvailability
	if err := json.Unmarshal(body, &availability); err != nil {
		return nil, fmt.Errorf("failed to decode wayback response: %w", err)
	}
	closest := availability.ArchivedSnapshots.Closest
	if !closest.Available || closest.URL == "" {
		return &model.BypassResult{Method: s.Name(), RetrievedAt: time.Now()}, nil
	}

	snapshot, snapStatus, err := s.getter.Get(ctx, closest.URL)
	if err != nil {
		return nil, fmt.Errorf("wayback snapshot fetch failed: %w", err)
	}
	if snapStatus != http.StatusOK || len(snapshot) == 0 {
		return &model.BypassResult{Method: s.Name(), RetrievedAt: time.Now()}, nil
	}

	result := newResult(s.Name(), ConfidenceArchive)
	result.HTML = string(snapshot)
	result.Data["snapshot_url"] = closest.URL
	result.Data["snapshot_timestamp"] = closest.Timestamp
	return result, nil
}

// SearchCacheStrategy fetches a search engine's cached rendering of
// the page. Cache availability is spotty, so this sits below the
// archive in the chain despite serving similar content.
type SearchCacheStrategy struct {
	getter HTTPGetter
}

// NewSearchCacheStrategy creates the strategy around an HTTP getter.
func NewSearchCacheStrategy(getter HTTPGetter) *SearchCacheStrategy {
	return &SearchCacheStrategy{getter: getter}
}

// Name returns the strategy name.
func (s *SearchCacheStrategy) Name() string { return "search_cache" }

// Attempt fetches the cached copy when the cache has one.
func (s *SearchCacheStrategy) Attempt(ctx context.Context, target Target) (*model.BypassResult, error) {
	cacheURL := "https://webcache.googleusercontent.com/search?q=cache:" + url.QueryEscape(target.URL)
	body, status, err := s.getter.Get(ctx, cacheURL)
	if err != nil {
		return nil, fmt.Errorf("search cache fetch failed: %w", err)
	}
	if status != http.StatusOK || len(body) == 0 {
		return &model.BypassResult{Method: s.Name(), RetrievedAt: time.Now()}, nil
	}

	result := newResult(s.Name(), ConfidenceSearchCache)
	result.HTML = string(body)
	result.Data["cache_url"] = cacheURL
	return result, nil
}
