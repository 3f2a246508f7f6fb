package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nao1215/newsbrief/internal/model"
)

// ErrSearchFailed wraps failures of the search request.
var ErrSearchFailed = errors.New("failed to fetch search results")

// ErrNoSummary is returned by RenderStep when no summary is available.
var ErrNoSummary = errors.New("no summary to render")

// Harvester produces candidates for a query.
type Harvester interface {
	Harvest(ctx context.Context, query string, limit int) ([]model.Candidate, error)
}

// Collector turns candidates into per-candidate outcomes.
type Collector interface {
	Collect(ctx context.Context, candidates []model.Candidate) []model.Outcome
}

// Summarizer produces a structured summary of articles.
type Summarizer interface {
	Summarize(ctx context.Context, query string, articles []model.CollectedArticle) (*model.SummaryResult, error)
}

// Writer outputs a summary.
type Writer interface {
	Write(result *model.SummaryResult) (int, error)
}

// Reporter is told about run milestones so it can show progress.
type Reporter interface {
	Searching(query string)
	FoundArticles(candidates []model.Candidate)
	Analyzing(n int)
	Generating()
}

type nopReporter struct{}

func (nopReporter) Searching(string)                {}
func (nopReporter) FoundArticles([]model.Candidate) {}
func (nopReporter) Analyzing(int)                   {}
func (nopReporter) Generating()                     {}

// StepOption configures the steps of this package.
type StepOption func(*stepConfig)

type stepConfig struct {
	reporter Reporter
	logger   *slog.Logger
}

// WithReporter sets the progress reporter.
func WithReporter(r Reporter) StepOption {
	return func(c *stepConfig) {
		if r != nil {
			c.reporter = r
		}
	}
}

// WithStepLogger sets a custom logger for a step.
func WithStepLogger(logger *slog.Logger) StepOption {
	return func(c *stepConfig) {
		c.logger = logger
	}
}

func newStepConfig(opts []StepOption) stepConfig {
	c := stepConfig{reporter: nopReporter{}}
	for _, opt := range opts {
		opt(&c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// HarvestStep fetches the search result page and stores the candidates.
// A failed search ends the run.
type HarvestStep struct {
	harvester Harvester
	stepConfig
}

// NewHarvestStep creates a new harvest step.
func NewHarvestStep(h Harvester, opts ...StepOption) *HarvestStep {
	return &HarvestStep{harvester: h, stepConfig: newStepConfig(opts)}
}

// Name returns the step name.
func (s *HarvestStep) Name() string {
	return "harvest"
}

// Do executes the harvest step.
func (s *HarvestStep) Do(ctx context.Context, run *model.Run) error {
	s.reporter.Searching(run.Query)

	candidates, err := s.harvester.Harvest(ctx, run.Query, run.Limit)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}

	run.Candidates = candidates
	s.logger.Debug("candidates harvested", "query", run.Query, "count", len(candidates))
	s.reporter.FoundArticles(candidates)
	return nil
}

// CollectStep fetches the candidates and stores outcomes and articles.
// It returns model.ErrNoArticles when nothing was collected, so later
// steps never run on an empty set.
type CollectStep struct {
	collector Collector
	stepConfig
}

// NewCollectStep creates a new collect step.
func NewCollectStep(c Collector, opts ...StepOption) *CollectStep {
	return &CollectStep{collector: c, stepConfig: newStepConfig(opts)}
}

// Name returns the step name.
func (s *CollectStep) Name() string {
	return "collect"
}

// Do executes the collect step.
func (s *CollectStep) Do(ctx context.Context, run *model.Run) error {
	s.reporter.Analyzing(len(run.Candidates))

	run.Outcomes = s.collector.Collect(ctx, run.Candidates)
	run.Articles = model.Articles(run.Outcomes)

	s.logger.Debug("collection finished",
		"collected", len(run.Articles),
		"skipped", model.CountByStatus(run.Outcomes, model.OutcomeSkipped),
		"failed", model.CountByStatus(run.Outcomes, model.OutcomeFailed),
	)

	if err := ctx.Err(); err != nil {
		return err
	}
	if len(run.Articles) == 0 {
		return model.ErrNoArticles
	}
	return nil
}

// SummarizeStep asks the model for a summary of the collected articles.
type SummarizeStep struct {
	summarizer Summarizer
	stepConfig
}

// NewSummarizeStep creates a new summarize step.
func NewSummarizeStep(sum Summarizer, opts ...StepOption) *SummarizeStep {
	return &SummarizeStep{summarizer: sum, stepConfig: newStepConfig(opts)}
}

// Name returns the step name.
func (s *SummarizeStep) Name() string {
	return "summarize"
}

// Do executes the summarize step.
func (s *SummarizeStep) Do(ctx context.Context, run *model.Run) error {
	if len(run.Articles) == 0 {
		return model.ErrNoArticles
	}

	s.reporter.Generating()

	summary, err := s.summarizer.Summarize(ctx, run.Query, run.Articles)
	if err != nil {
		return err
	}
	run.Summary = summary
	return nil
}

// RenderStep writes the summary.
type RenderStep struct {
	writer Writer
	stepConfig
}

// NewRenderStep creates a new render step.
func NewRenderStep(w Writer, opts ...StepOption) *RenderStep {
	return &RenderStep{writer: w, stepConfig: newStepConfig(opts)}
}

// Name returns the step name.
func (s *RenderStep) Name() string {
	return "render"
}

// Do executes the render step.
func (s *RenderStep) Do(_ context.Context, run *model.Run) error {
	if run.Summary == nil {
		return ErrNoSummary
	}

	n, err := s.writer.Write(run.Summary)
	if err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	s.logger.Debug("summary written", "bytes", n, "headlines", len(run.Summary.Articles))
	return nil
}

// NewNewsPipeline creates a pipeline running harvest, collect, summarize
// and render in that order. opts apply to every step.
func NewNewsPipeline(h Harvester, c Collector, sum Summarizer, w Writer, logger *slog.Logger, opts ...StepOption) *Pipeline {
	if logger != nil {
		opts = append([]StepOption{WithStepLogger(logger)}, opts...)
	}
	p := New(WithLogger(logger))
	p.AddSteps(
		NewHarvestStep(h, opts...),
		NewCollectStep(c, opts...),
		NewSummarizeStep(sum, opts...),
		NewRenderStep(w, opts...),
	)
	return p
}
