// Package sitemap discovers and prioritizes a site's crawlable URLs.
//
// Discovery walks robots.txt declarations and well-known sitemap paths,
// following sitemap indexes to their children under hard caps. The
// resulting URL set is then classified by page type, scored for
// business value and freshness, and ordered so the crawler spends its
// page budget on the URLs most likely to matter.
package sitemap
