package model

import "errors"

// ErrNoArticles is returned when collection produced no article at all.
// It is a user-visible condition rather than a failure of a component.
var ErrNoArticles = errors.New("no articles found")

// Candidate is a search result that has not been fetched yet.
// Candidates keep the order of the result page and are not deduplicated.
type Candidate struct {
	// Title is the visible result title.
	Title string `json:"title"`

	// URL is the result link.
	URL string `json:"url"`
}

// CollectedArticle is a candidate whose page was allowed by robots.txt,
// fetched successfully and reduced to plain text.
//
// Title, URL and Body always belong to the same source candidate: they are
// carried by one value, so a partial article cannot exist.
type CollectedArticle struct {
	Title string `json:"title"`
	URL   string `json:"url"`

	// Body is the extracted text, at most MaxArticleChars characters.
	Body string `json:"body"`
}

// OutcomeStatus classifies what happened to a candidate during collection.
type OutcomeStatus int

const (
	// OutcomeCollected means the article was fetched and extracted.
	OutcomeCollected OutcomeStatus = iota

	// OutcomeSkipped means robots.txt did not permit the fetch.
	// Skipping is policy compliance, not an error.
	OutcomeSkipped

	// OutcomeFailed means the fetch or the extraction failed.
	OutcomeFailed
)

// String returns a human-readable representation of the status.
func (s OutcomeStatus) String() string {
	switch s {
	case OutcomeCollected:
		return "collected"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the result of processing one candidate.
type Outcome struct {
	// Index is the 0-based position of the candidate in the harvested list.
	Index int

	// Candidate is the processed candidate.
	Candidate Candidate

	// Status tells whether the candidate was collected, skipped or failed.
	Status OutcomeStatus

	// Reason is a short human-readable explanation for skipped and failed outcomes.
	Reason string

	// Err is the underlying error of a failed outcome.
	Err error

	// Article is set only when Status is OutcomeCollected.
	Article *CollectedArticle
}

// Articles returns the collected articles of outcomes, in outcome order.
func Articles(outcomes []Outcome) []CollectedArticle {
	articles := make([]CollectedArticle, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Status == OutcomeCollected && o.Article != nil {
			articles = append(articles, *o.Article)
		}
	}
	return articles
}

// CountByStatus returns how many outcomes have the given status.
func CountByStatus(outcomes []Outcome, status OutcomeStatus) int {
	n := 0
	for _, o := range outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}
