package session

import (
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// DefaultTTL is how long a session stays valid before the manager
// issues a fresh identity for the domain.
const DefaultTTL = 30 * time.Minute

// Session is one browsing identity for a single domain. It accumulates
// cookies across requests and remembers the last page visited so that
// follow-up requests carry a believable same-origin Referer.
type Session struct {
	mu sync.Mutex

	// Domain is the host this session is bound to.
	Domain string
	// Fingerprint is the browser identity used for every request in
	// this session.
	Fingerprint Fingerprint

	cookies      map[string]string
	createdAt    time.Time
	lastVisited  string
	requestCount int
	entryReferer string
}

func newSession(domain string, fp Fingerprint, entryReferer string, now time.Time) *Session {
	return &Session{
		Domain:       domain,
		Fingerprint:  fp,
		cookies:      make(map[string]string),
		createdAt:    now,
		entryReferer: entryReferer,
	}
}

// Expired reports whether the session has outlived ttl.
func (s *Session) Expired(ttl time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createdAt.Before(ttl)
}

// RequestCount returns how many requests this session has prepared.
func (s *Session) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requestCount
}

// Apply sets the session's identity headers on req and records the
// request. The first request of a session carries an external search
// referrer; later requests refer to the previously visited page on the
// same origin.
func (s *Session) Apply(req *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fp := s.Fingerprint
	req.Header.Set("User-Agent", fp.UserAgent)
	req.Header.Set("Accept", fp.Accept)
	req.Header.Set("Accept-Language", fp.AcceptLanguage)
	req.Header.Set("Accept-Encoding", fp.AcceptEncoding)
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	if fp.SendsClientHints() {
		req.Header.Set("sec-ch-ua", fp.SecChUA)
		req.Header.Set("sec-ch-ua-mobile", fp.SecChUAMobile)
		req.Header.Set("sec-ch-ua-platform", fp.SecChUAPlatform)
	}

	if s.requestCount == 0 {
		req.Header.Set("Referer", s.entryReferer)
	} else if s.lastVisited != "" {
		req.Header.Set("Referer", s.lastVisited)
	}

	if len(s.cookies) > 0 {
		pairs := make([]string, 0, len(s.cookies))
		for name, value := range s.cookies {
			pairs = append(pairs, name+"="+value)
		}
		req.Header.Set("Cookie", strings.Join(pairs, "; "))
	}

	s.requestCount++
	s.lastVisited = req.URL.String()
}

// Absorb stores cookies from a response so subsequent requests replay
// them. Expired and deleted cookies (Max-Age=0 or empty value) are
// dropped from the jar.
func (s *Session) Absorb(resp *http.Response) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, cookie := range resp.Cookies() {
		if cookie.Name == "" {
			continue
		}
		if cookie.MaxAge < 0 || cookie.Value == "" {
			delete(s.cookies, cookie.Name)
			continue
		}
		s.cookies[cookie.Name] = cookie.Value
	}
}

// CookieCount returns the number of cookies accumulated so far.
func (s *Session) CookieCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cookies)
}

// normalizeDomain reduces a URL or host to the bare host key used for
// session lookup.
func normalizeDomain(raw string) string {
	if strings.Contains(raw, "://") {
		if u, err := url.Parse(raw); err == nil && u.Host != "" {
			raw = u.Host
		}
	}
	raw = strings.ToLower(raw)
	raw = strings.TrimPrefix(raw, "www.")
	if host, _, ok := strings.Cut(raw, ":"); ok {
		return host
	}
	return raw
}
