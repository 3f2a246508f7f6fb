package model

import "time"

// Run holds the state of one newsbrief run.
// Each pipeline step reads what earlier steps produced and adds its own
// result. Nothing in a Run outlives the process.
type Run struct {
	// Query is the search query.
	Query string

	// Limit is the maximum number of candidates to harvest.
	Limit int

	// StartedAt is set when the run is created.
	StartedAt time.Time

	// Candidates are the harvested search results in page order.
	Candidates []Candidate

	// Outcomes hold one entry per candidate, in candidate order.
	Outcomes []Outcome

	// Articles are the collected articles, in candidate order.
	Articles []CollectedArticle

	// Summary is the parsed model response.
	Summary *SummaryResult

	// PerformedSteps records the names of the steps that completed.
	PerformedSteps []string

	// Error is the error that ended the run, if any.
	Error error

	// ErrorMessage is Error rendered as text.
	ErrorMessage string
}

// NewRun creates a Run for query with the given candidate limit.
func NewRun(query string, limit int) *Run {
	return &Run{
		Query:          query,
		Limit:          limit,
		StartedAt:      time.Now(),
		PerformedSteps: make([]string, 0),
	}
}

// Elapsed returns the time since the run started.
func (r *Run) Elapsed() time.Duration {
	return time.Since(r.StartedAt)
}
