// Package crawler performs the HTTP fetching for a site evaluation.
//
// The fetcher routes every request through the per-domain session
// manager so pacing, cookies, and fingerprints stay coherent, and it
// retries exactly once with a rotated identity when a site answers
// 403. When no sitemap exists, the fallback crawler walks same-domain
// links from the homepage to assemble a bounded URL list.
package crawler
