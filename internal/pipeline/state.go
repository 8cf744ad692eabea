package pipeline

import "sync"

// PartialState tracks run progress independently of the report so the
// orchestrator can decide how to rescue a run that died mid-phase.
// Appends are the only mutation during a run; Reset is called once at
// run start.
type PartialState struct {
	mu     sync.Mutex
	phases []string
	pages  int
	errors []string
}

// NewPartialState creates an empty state.
func NewPartialState() *PartialState {
	return &PartialState{}
}

// Reset clears all accumulated state. Called at the start of a run so
// a reused orchestrator never mixes runs.
func (s *PartialState) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phases = nil
	s.pages = 0
	s.errors = nil
}

// MarkPhase records that a phase completed.
func (s *PartialState) MarkPhase(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phases = append(s.phases, name)
}

// AddPage records one successfully fetched page.
func (s *PartialState) AddPage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages++
}

// RecordError appends a non-fatal error message.
func (s *PartialState) RecordError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, msg)
}

// Pages returns the number of pages fetched so far.
func (s *PartialState) Pages() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pages
}

// Phases returns the completed phases in order.
func (s *PartialState) Phases() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.phases))
	copy(out, s.phases)
	return out
}

// Errors returns the recorded error messages.
func (s *PartialState) Errors() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.errors))
	copy(out, s.errors)
	return out
}
