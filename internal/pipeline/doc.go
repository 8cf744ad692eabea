// Package pipeline orchestrates a site evaluation run.
//
// A run is a sequence of steps (robots analysis, sitemap discovery,
// page crawling) accumulating evidence into one report. The
// orchestrator wraps the pipeline with the run's outer deadline and
// guarantees a well-formed result for every input: a run that times
// out is rescued from partial state, and a run that collected nothing
// falls back to synthesized evidence.
package pipeline
