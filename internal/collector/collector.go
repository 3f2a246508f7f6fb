// Package collector turns harvested candidates into collected articles.
//
// For each candidate the collector asks the robots checker for permission,
// fetches the page with a bounded timeout and extracts a length-limited
// text body. The result of every candidate is an explicit model.Outcome;
// a skipped or failed candidate never aborts the batch.
package collector

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/newsbrief/internal/fetch"
	"github.com/nao1215/newsbrief/internal/model"
	"golang.org/x/sync/errgroup"
)

// Defaults for a Collector.
const (
	DefaultTimeout  = 10 * time.Second
	DefaultMaxChars = 5000
)

// Fetcher fetches a single URL.
type Fetcher interface {
	Get(ctx context.Context, rawURL string) (*fetch.Response, error)
}

// PermissionChecker decides whether a URL may be fetched.
// Implementations must not return true on uncertainty.
type PermissionChecker interface {
	CanFetch(ctx context.Context, rawURL string) bool
}

// ProgressFunc is called before a candidate is processed.
// index is 1-based; total is the number of candidates.
type ProgressFunc func(index, total int, c model.Candidate)

// OutcomeFunc is called after a candidate has been processed.
type OutcomeFunc func(o model.Outcome)

// Collector fetches and extracts candidate articles.
type Collector struct {
	fetcher     Fetcher
	permission  PermissionChecker
	extractor   Extractor
	timeout     time.Duration
	maxChars    int
	parallelism int
	onProgress  ProgressFunc
	onOutcome   OutcomeFunc
	logger      *slog.Logger
}

// Option configures a Collector.
type Option func(*Collector)

// WithExtractor sets the text extractor. The default is ParagraphExtractor.
func WithExtractor(e Extractor) Option {
	return func(c *Collector) {
		if e != nil {
			c.extractor = e
		}
	}
}

// WithTimeout sets the per-article fetch timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Collector) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMaxChars sets the maximum body length in characters. Values above
// DefaultMaxChars are capped at DefaultMaxChars.
func WithMaxChars(n int) Option {
	return func(c *Collector) {
		if n > 0 {
			c.maxChars = min(n, DefaultMaxChars)
		}
	}
}

// WithParallelism sets how many candidates are processed at the same time.
// The order of the returned outcomes does not depend on it.
func WithParallelism(n int) Option {
	return func(c *Collector) {
		if n > 0 {
			c.parallelism = n
		}
	}
}

// WithProgress sets a callback invoked before each candidate.
// With parallelism above 1, callbacks may run concurrently.
func WithProgress(fn ProgressFunc) Option {
	return func(c *Collector) {
		c.onProgress = fn
	}
}

// WithOutcome sets a callback invoked after each candidate.
func WithOutcome(fn OutcomeFunc) Option {
	return func(c *Collector) {
		c.onOutcome = fn
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Collector) {
		c.logger = logger
	}
}

// New creates a Collector that fetches through f and consults p before
// every fetch.
func New(f Fetcher, p PermissionChecker, opts ...Option) *Collector {
	c := &Collector{
		fetcher:     f,
		permission:  p,
		extractor:   ParagraphExtractor{},
		timeout:     DefaultTimeout,
		maxChars:    DefaultMaxChars,
		parallelism: 1,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Collect processes candidates and returns one outcome per candidate, in
// candidate order. Use model.Articles to keep only collected articles.
//
// Cancellation of ctx stops processing; candidates that were not reached
// are reported as failed with the context error.
func (c *Collector) Collect(ctx context.Context, candidates []model.Candidate) []model.Outcome {
	outcomes := make([]model.Outcome, len(candidates))
	total := len(candidates)

	if c.parallelism <= 1 {
		for i, cand := range candidates {
			outcomes[i] = c.process(ctx, i, total, cand)
		}
		return outcomes
	}

	// Each goroutine owns exactly one slot of outcomes, so no locking is
	// needed and order is preserved.
	g := new(errgroup.Group)
	g.SetLimit(c.parallelism)
	for i, cand := range candidates {
		g.Go(func() error {
			outcomes[i] = c.process(ctx, i, total, cand)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

// process handles one candidate and reports the outcome.
func (c *Collector) process(ctx context.Context, i, total int, cand model.Candidate) model.Outcome {
	if c.onProgress != nil {
		c.onProgress(i+1, total, cand)
	}

	o := c.collectOne(ctx, i, cand)

	switch o.Status {
	case model.OutcomeCollected:
		c.logger.Debug("article collected", "index", i+1, "url", cand.URL, "chars", len([]rune(o.Article.Body)))
	case model.OutcomeSkipped:
		c.logger.Info("article skipped", "index", i+1, "url", cand.URL, "reason", o.Reason)
	case model.OutcomeFailed:
		c.logger.Debug("article failed", "index", i+1, "url", cand.URL, "error", o.Err)
	}

	if c.onOutcome != nil {
		c.onOutcome(o)
	}
	return o
}

func (c *Collector) collectOne(ctx context.Context, i int, cand model.Candidate) model.Outcome {
	o := model.Outcome{Index: i, Candidate: cand}

	if err := ctx.Err(); err != nil {
		o.Status = model.OutcomeFailed
		o.Reason = "cancelled"
		o.Err = err
		return o
	}

	if !c.permission.CanFetch(ctx, cand.URL) {
		o.Status = model.OutcomeSkipped
		o.Reason = "blocked by robots.txt"
		return o
	}

	fetchCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.fetcher.Get(fetchCtx, cand.URL)
	if err != nil {
		o.Status = model.OutcomeFailed
		o.Reason = "fetch failed"
		o.Err = err
		return o
	}

	text, err := c.extractor.Extract(resp.Body, resp.URL)
	if err != nil {
		o.Status = model.OutcomeFailed
		o.Reason = "extraction failed"
		o.Err = fmt.Errorf("extract %s: %w", cand.URL, err)
		return o
	}

	o.Status = model.OutcomeCollected
	o.Article = &model.CollectedArticle{
		Title: cand.Title,
		URL:   cand.URL,
		Body:  Truncate(text, c.maxChars),
	}
	return o
}
