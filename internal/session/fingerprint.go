package session

// Fingerprint is a coherent set of browser identity headers. All fields
// of one fingerprint must describe the same browser build; mixing a
// Chrome user agent with Firefox client hints is an instant bot signal.
type Fingerprint struct {
	// UserAgent is the User-Agent header value.
	UserAgent string
	// Accept is the Accept header value.
	Accept string
	// AcceptLanguage is the Accept-Language header value.
	AcceptLanguage string
	// AcceptEncoding is the Accept-Encoding header value.
	AcceptEncoding string
	// SecChUA is the sec-ch-ua client hint, empty for browsers that do
	// not send client hints.
	SecChUA string
	// SecChUAMobile is the sec-ch-ua-mobile client hint.
	SecChUAMobile string
	// SecChUAPlatform is the sec-ch-ua-platform client hint.
	SecChUAPlatform string
}

// SendsClientHints reports whether this fingerprint emits sec-ch-ua
// headers.
func (f Fingerprint) SendsClientHints() bool {
	return f.SecChUA != ""
}

// fingerprints is the rotation pool. Kept small and current: a handful
// of recent desktop browser builds covers the realistic population, and
// stale entries (old Chrome majors) are themselves a detection signal.
var fingerprints = []Fingerprint{
	{
		UserAgent:       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
		Accept:          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
		AcceptLanguage:  "en-US,en;q=0.9",
		AcceptEncoding:  "gzip, deflate",
		SecChUA:         `"Not/A)Brand";v="8", "Chromium";v="126", "Google Chrome";v="126"`,
		SecChUAMobile:   "?0",
		SecChUAPlatform: `"Windows"`,
	},
	{
		UserAgent:       "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
		Accept:          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
		AcceptLanguage:  "en-US,en;q=0.9",
		AcceptEncoding:  "gzip, deflate",
		SecChUA:         `"Not/A)Brand";v="8", "Chromium";v="126", "Google Chrome";v="126"`,
		SecChUAMobile:   "?0",
		SecChUAPlatform: `"macOS"`,
	},
	{
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:127.0) Gecko/20100101 Firefox/127.0",
		Accept:         "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
		AcceptLanguage: "en-US,en;q=0.5",
		AcceptEncoding: "gzip, deflate",
	},
	{
		UserAgent:      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.5 Safari/605.1.15",
		Accept:         "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		AcceptLanguage: "en-US,en;q=0.9",
		AcceptEncoding: "gzip, deflate",
	},
	{
		UserAgent:       "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36",
		Accept:          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
		AcceptLanguage:  "en-US,en;q=0.9",
		AcceptEncoding:  "gzip, deflate",
		SecChUA:         `"Chromium";v="125", "Not.A/Brand";v="24"`,
		SecChUAMobile:   "?0",
		SecChUAPlatform: `"Linux"`,
	},
}

// referrers are plausible origins for the first request of a session.
// Real visitors arrive from somewhere; a cold request with no Referer
// on every page is a crawler tell.
var referrers = []string{
	"https://www.google.com/",
	"https://www.bing.com/",
	"https://duckduckgo.com/",
	"https://www.google.com/search",
}
