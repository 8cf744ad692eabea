package session

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Pacing defaults. One request per interval with a small burst keeps
// the crawler under the thresholds most rate limiters trip on, and the
// random extra delay breaks up the metronome pattern of fixed-interval
// clients.
const (
	defaultRequestInterval = 1500 * time.Millisecond
	defaultBurst           = 2
	defaultMaxJitter       = 900 * time.Millisecond
)

// Manager hands out sessions keyed by domain. Each domain gets one
// live session and one rate limiter; the session rotates when it
// expires or is invalidated after a block.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	limiters map[string]*rate.Limiter

	ttl       time.Duration
	interval  time.Duration
	burst     int
	maxJitter time.Duration
	rng       *rand.Rand
	logger    *slog.Logger
	now       func() time.Time
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithTTL sets the session lifetime.
func WithTTL(ttl time.Duration) ManagerOption {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithRequestInterval sets the minimum spacing between requests to the
// same domain.
func WithRequestInterval(interval time.Duration) ManagerOption {
	return func(m *Manager) {
		if interval > 0 {
			m.interval = interval
		}
	}
}

// WithMaxJitter sets the upper bound of the random delay added on top
// of rate limiting. Zero disables jitter, which tests rely on.
func WithMaxJitter(max time.Duration) ManagerOption {
	return func(m *Manager) {
		if max >= 0 {
			m.maxJitter = max
		}
	}
}

// WithLogger sets the logger used for rotation events.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a session manager with the given options.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		sessions:  make(map[string]*Session),
		limiters:  make(map[string]*rate.Limiter),
		ttl:       DefaultTTL,
		interval:  defaultRequestInterval,
		burst:     defaultBurst,
		maxJitter: defaultMaxJitter,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// GetOrCreate returns the live session for the domain of rawURL,
// creating one with a random fingerprint if none exists or the current
// one has expired.
func (m *Manager) GetOrCreate(rawURL string) *Session {
	domain := normalizeDomain(rawURL)

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[domain]; ok && !s.Expired(m.now().Add(-m.ttl)) {
		return s
	}

	s := newSession(domain, m.pickFingerprint(nil), m.pickReferer(), m.now())
	m.sessions[domain] = s
	m.logger.Debug("session created",
		slog.String("domain", domain),
		slog.String("user_agent", s.Fingerprint.UserAgent))
	return s
}

// Invalidate discards the current session for the domain and returns a
// replacement with a different fingerprint. Called when a site starts
// rejecting requests, typically on a 403.
func (m *Manager) Invalidate(rawURL string) *Session {
	domain := normalizeDomain(rawURL)

	m.mu.Lock()
	defer m.mu.Unlock()

	var old *Fingerprint
	if prev, ok := m.sessions[domain]; ok {
		old = &prev.Fingerprint
	}
	s := newSession(domain, m.pickFingerprint(old), m.pickReferer(), m.now())
	m.sessions[domain] = s
	m.logger.Debug("session rotated", slog.String("domain", domain))
	return s
}

// Wait blocks until the domain's rate limiter admits the next request,
// then sleeps a random jitter. Returns early with the context error if
// ctx is canceled.
func (m *Manager) Wait(ctx context.Context, rawURL string) error {
	domain := normalizeDomain(rawURL)

	m.mu.Lock()
	limiter, ok := m.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(m.interval), m.burst)
		m.limiters[domain] = limiter
	}
	var jitter time.Duration
	if m.maxJitter > 0 {
		jitter = time.Duration(m.rng.Int63n(int64(m.maxJitter)))
	}
	m.mu.Unlock()

	if err := limiter.Wait(ctx); err != nil {
		return err
	}
	if jitter > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(jitter):
		}
	}
	return nil
}

// pickFingerprint selects a random fingerprint, excluding avoid when a
// replacement is requested and other candidates exist.
func (m *Manager) pickFingerprint(avoid *Fingerprint) Fingerprint {
	candidates := make([]Fingerprint, 0, len(fingerprints))
	for _, fp := range fingerprints {
		if avoid != nil && fp.UserAgent == avoid.UserAgent {
			continue
		}
		candidates = append(candidates, fp)
	}
	if len(candidates) == 0 {
		candidates = fingerprints
	}
	return candidates[m.rng.Intn(len(candidates))]
}

func (m *Manager) pickReferer() string {
	return referrers[m.rng.Intn(len(referrers))]
}
