package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestManagerReusesLiveSession(t *testing.T) {
	t.Parallel()

	m := NewManager()
	first := m.GetOrCreate("https://example.com/page")
	second := m.GetOrCreate("https://www.example.com/other")

	if first != second {
		t.Error("expected the same session for one domain regardless of www prefix")
	}
}

func TestManagerRotatesExpiredSession(t *testing.T) {
	t.Parallel()

	m := NewManager(WithTTL(10 * time.Minute))
	first := m.GetOrCreate("https://example.com/")

	// Move the clock past the TTL.
	m.now = func() time.Time { return time.Now().Add(11 * time.Minute) }

	second := m.GetOrCreate("https://example.com/")
	if first == second {
		t.Error("expected a fresh session after TTL expiry")
	}
}

func TestInvalidateChangesFingerprint(t *testing.T) {
	t.Parallel()

	m := NewManager()
	first := m.GetOrCreate("https://example.com/")
	second := m.Invalidate("https://example.com/")

	if first == second {
		t.Fatal("expected a replacement session")
	}
	if first.Fingerprint.UserAgent == second.Fingerprint.UserAgent {
		t.Error("expected a different fingerprint after invalidation")
	}
	if m.GetOrCreate("https://example.com/") != second {
		t.Error("replacement session must become the live one")
	}
}

func TestSessionRefererProgression(t *testing.T) {
	t.Parallel()

	m := NewManager()
	s := m.GetOrCreate("https://example.com/")

	first := httptest.NewRequest(http.MethodGet, "https://example.com/", nil)
	s.Apply(first)
	if ref := first.Header.Get("Referer"); ref == "" || ref == "https://example.com/" {
		t.Errorf("first request must carry an external referrer, got %q", ref)
	}

	second := httptest.NewRequest(http.MethodGet, "https://example.com/about", nil)
	s.Apply(second)
	if ref := second.Header.Get("Referer"); ref != "https://example.com/" {
		t.Errorf("follow-up request must refer to the previous page, got %q", ref)
	}
}

func TestSessionHeadersMatchFingerprint(t *testing.T) {
	t.Parallel()

	s := NewManager().GetOrCreate("https://example.com/")
	req := httptest.NewRequest(http.MethodGet, "https://example.com/", nil)
	s.Apply(req)

	if req.Header.Get("User-Agent") != s.Fingerprint.UserAgent {
		t.Error("user agent must come from the session fingerprint")
	}
	if s.Fingerprint.SendsClientHints() != (req.Header.Get("sec-ch-ua") != "") {
		t.Error("client hints must be sent exactly when the fingerprint defines them")
	}
}

func TestSessionCookieAccumulation(t *testing.T) {
	t.Parallel()

	s := NewManager().GetOrCreate("https://example.com/")

	resp := &http.Response{Header: http.Header{}}
	resp.Header.Add("Set-Cookie", "sid=abc123")
	resp.Header.Add("Set-Cookie", "pref=dark")
	s.Absorb(resp)

	if s.CookieCount() != 2 {
		t.Fatalf("expected 2 cookies, got %d", s.CookieCount())
	}

	req := httptest.NewRequest(http.MethodGet, "https://example.com/next", nil)
	s.Apply(req)
	cookie := req.Header.Get("Cookie")
	if cookie == "" {
		t.Fatal("expected accumulated cookies on the next request")
	}

	// Deletion via Max-Age=0 removes the cookie from the jar.
	del := &http.Response{Header: http.Header{}}
	del.Header.Add("Set-Cookie", "sid=; Max-Age=0")
	s.Absorb(del)
	if s.CookieCount() != 1 {
		t.Errorf("expected sid to be dropped, jar has %d cookies", s.CookieCount())
	}
}

func TestWaitHonorsContext(t *testing.T) {
	t.Parallel()

	m := NewManager(WithRequestInterval(time.Hour), WithMaxJitter(0))

	// Drain the burst allowance so the next Wait would block.
	ctx := context.Background()
	for i := 0; i < defaultBurst; i++ {
		if err := m.Wait(ctx, "https://example.com/"); err != nil {
			t.Fatalf("burst request %d should not block: %v", i, err)
		}
	}

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	if err := m.Wait(canceled, "https://example.com/"); err == nil {
		t.Error("expected context error once the burst is exhausted")
	}
}
