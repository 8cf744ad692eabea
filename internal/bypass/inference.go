package bypass

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/brandlens/sitescan/internal/model"
)

// socialProfileURLs builds candidate profile locations for a brand
// slug, keyed by platform.
func socialProfileURLs(slug string) map[string]string {
	return map[string]string{
		"linkedin":  "https://www.linkedin.com/company/" + slug,
		"twitter":   "https://twitter.com/" + slug,
		"facebook":  "https://www.facebook.com/" + slug,
		"instagram": "https://www.instagram.com/" + slug + "/",
	}
}

// SocialProfileStrategy probes well-known social platforms for a
// profile matching the brand. Finding one proves the brand exists and
// yields profile URLs, but nothing about the site content itself.
type SocialProfileStrategy struct {
	getter HTTPGetter
}

// NewSocialProfileStrategy creates the strategy around an HTTP getter.
func NewSocialProfileStrategy(getter HTTPGetter) *SocialProfileStrategy {
	return &SocialProfileStrategy{getter: getter}
}

// Name returns the strategy name.
func (s *SocialProfileStrategy) Name() string { return "social_inference" }

// Attempt probes candidate profiles and reports the ones that exist.
func (s *SocialProfileStrategy) Attempt(ctx context.Context, target Target) (*model.BypassResult, error) {
	slug := target.Slug()
	if slug == "" {
		return &model.BypassResult{Method: s.Name(), RetrievedAt: time.Now()}, nil
	}

	found := make(map[string]string)
	for platform, profileURL := range socialProfileURLs(slug) {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		_, status, err := s.getter.Get(ctx, profileURL)
		if err != nil || status != http.StatusOK {
			continue
		}
		found[platform] = profileURL
	}
	if len(found) == 0 {
		return &model.BypassResult{Method: s.Name(), RetrievedAt: time.Now()}, nil
	}

	result := newResult(s.Name(), ConfidenceSocialProfile)
	for platform, profileURL := range found {
		result.Data["social_"+platform] = profileURL
	}
	result.Data["profiles_found"] = strconv.Itoa(len(found))
	return result, nil
}

// directorySources maps directory names to their profile URL builders.
var directorySources = map[string]func(slug string) string{
	"crunchbase": func(slug string) string { return "https://www.crunchbase.com/organization/" + slug },
	"clutch":     func(slug string) string { return "https://clutch.co/profile/" + slug },
}

// DirectoryStrategy probes business directories for a listing. Sits at
// the speculative boundary: a listing confirms existence and rough
// categorization only.
type DirectoryStrategy struct {
	getter HTTPGetter
}

// NewDirectoryStrategy creates the strategy around an HTTP getter.
func NewDirectoryStrategy(getter HTTPGetter) *DirectoryStrategy {
	return &DirectoryStrategy{getter: getter}
}

// Name returns the strategy name.
func (s *DirectoryStrategy) Name() string { return "business_directory" }

// Attempt probes the directories and reports found listings.
func (s *DirectoryStrategy) Attempt(ctx context.Context, target Target) (*model.BypassResult, error) {
	slug := target.Slug()
	if slug == "" {
		return &model.BypassResult{Method: s.Name(), RetrievedAt: time.Now()}, nil
	}

	found := 0
	result := newResult(s.Name(), ConfidenceDirectory)
	for name, build := range directorySources {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		listingURL := build(slug)
		_, status, err := s.getter.Get(ctx, listingURL)
		if err != nil || status != http.StatusOK {
			continue
		}
		result.Data["directory_"+name] = listingURL
		found++
	}
	if found == 0 {
		return &model.BypassResult{Method: s.Name(), RetrievedAt: time.Now()}, nil
	}
	return result, nil
}

// Resolver is the subset of net.Resolver the DNS strategy needs.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
}

// DNSStrategy infers basic liveness facts from DNS. A domain that
// resolves and receives mail belongs to an operating business even
// when its web tier blocks us.
type DNSStrategy struct {
	resolver Resolver
}

// NewDNSStrategy creates the strategy. A nil resolver uses the default
// system resolver.
func NewDNSStrategy(resolver Resolver) *DNSStrategy {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	return &DNSStrategy{resolver: resolver}
}

// Name returns the strategy name.
func (s *DNSStrategy) Name() string { return "dns_heuristics" }

// Attempt resolves the domain and checks for mail service.
func (s *DNSStrategy) Attempt(ctx context.Context, target Target) (*model.BypassResult, error) {
	host := target.Host()
	if host == "" {
		return &model.BypassResult{Method: s.Name(), RetrievedAt: time.Now()}, nil
	}

	addrs, err := s.resolver.LookupHost(ctx, host)
	if err != nil || len(addrs) == 0 {
		return &model.BypassResult{Method: s.Name(), RetrievedAt: time.Now()}, nil
	}

	result := newResult(s.Name(), ConfidenceDNSHeuristics)
	result.Data["resolves"] = "true"
	result.Data["address_count"] = strconv.Itoa(len(addrs))

	if mx, err := s.resolver.LookupMX(ctx, host); err == nil && len(mx) > 0 {
		hosts := make([]string, 0, len(mx))
		for _, record := range mx {
			hosts = append(hosts, strings.TrimSuffix(record.Host, "."))
		}
		result.Data["mx_hosts"] = strings.Join(hosts, ",")
	}
	return result, nil
}
