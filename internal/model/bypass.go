package model

import "time"

// BypassResult is the outcome of one fallback data-source strategy.
// Strategies are tried in fixed reliability order and the first success
// is returned to the caller.
type BypassResult struct {
	// Success is true when the strategy produced usable data.
	Success bool `json:"success"`

	// Method names the strategy that produced the result
	// (e.g. "internet_archive", "synthetic").
	Method string `json:"method"`

	// Confidence is the 0-100 evidentiary strength of the data. Archived
	// HTML scores around 75; pure domain-name heuristics score 25-40.
	Confidence float64 `json:"confidence"`

	// HTML is retrieved or synthesized markup, when the strategy yields any.
	HTML string `json:"html,omitempty"`

	// Data holds strategy-specific facts (industry guess, profile URLs,
	// registration hints). Values are free-form strings by design: this is
	// best-effort inference, not a typed contract.
	Data map[string]string `json:"data,omitempty"`

	// RetrievedAt is when the strategy ran.
	RetrievedAt time.Time `json:"retrieved_at"`
}

// Speculative reports whether the result's confidence is low enough that
// consumers must present it with disclaimers.
func (r *BypassResult) Speculative() bool {
	return r.Confidence <= SpeculativeThreshold
}
