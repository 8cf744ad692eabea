// Package session manages per-domain browsing sessions for the crawler.
//
// A session binds a browser fingerprint, an accumulated cookie jar, and
// request pacing to a single domain so that consecutive requests look
// like one visitor instead of a burst of unrelated clients. Sessions
// expire after a fixed lifetime and can be invalidated early when a
// site starts rejecting the current fingerprint.
package session
