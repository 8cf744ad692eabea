// Package bypass recovers brand evidence when direct crawling fails.
//
// Strategies are ordered by evidentiary strength, from previously
// stored snapshots down to pure synthesis from the domain name. The
// engine runs the chain once per URL, returns the first success, and
// caches the outcome so repeated failures don't re-probe external
// services. Low-confidence results carry a speculative flag that
// consumers must surface.
package bypass
