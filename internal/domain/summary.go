package domain

import "time"

// CreateFailure records one site whose monitor could not be created.
type CreateFailure struct {
	URL    string `json:"url"`
	Reason string `json:"reason"`
}

// RunSummary is what a single sync run did. It is logged at the end of the
// run and, when configured, sent as a notification.
type RunSummary struct {
	RunID      string          `json:"run_id"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Sources    int             `json:"sources"`
	Existing   int             `json:"existing"`
	Missing    []string        `json:"missing"`
	Created    []string        `json:"created"`
	Failed     []CreateFailure `json:"failed,omitempty"`
	// Degraded is set when a listing step failed open and returned an
	// empty result instead of real data.
	Degraded bool `json:"degraded"`
	// Aborted is set when the creation phase could not open a session.
	Aborted bool `json:"aborted"`
}

// Changed reports whether the run has anything worth telling a human about.
func (s RunSummary) Changed() bool {
	return len(s.Created) > 0 || len(s.Failed) > 0 || s.Aborted
}

// Clean reports whether the run completed without any fail-open event or
// per-site failure.
func (s RunSummary) Clean() bool {
	return !s.Degraded && !s.Aborted && len(s.Failed) == 0
}
