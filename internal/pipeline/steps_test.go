package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nao1215/newsbrief/internal/collector"
	"github.com/nao1215/newsbrief/internal/fetch"
	"github.com/nao1215/newsbrief/internal/model"
	"github.com/nao1215/newsbrief/internal/render"
	"github.com/nao1215/newsbrief/internal/robots"
	"github.com/nao1215/newsbrief/internal/search"
	"github.com/nao1215/newsbrief/internal/summarizer"
	openai "github.com/sashabaranov/go-openai"
)

type fakeHarvester struct {
	candidates []model.Candidate
	err        error
}

func (f fakeHarvester) Harvest(_ context.Context, _ string, limit int) ([]model.Candidate, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.candidates) > limit {
		return f.candidates[:limit], nil
	}
	return f.candidates, nil
}

type fakeCollector struct {
	outcomes []model.Outcome
}

func (f fakeCollector) Collect(context.Context, []model.Candidate) []model.Outcome {
	return f.outcomes
}

type fakeSummarizer struct {
	result *model.SummaryResult
	err    error
	calls  int
}

func (f *fakeSummarizer) Summarize(context.Context, string, []model.CollectedArticle) (*model.SummaryResult, error) {
	f.calls++
	return f.result, f.err
}

// recordingReporter remembers the milestones it was told about.
type recordingReporter struct {
	events []string
}

func (r *recordingReporter) Searching(q string) {
	r.events = append(r.events, "searching "+q)
}

func (r *recordingReporter) FoundArticles(c []model.Candidate) {
	r.events = append(r.events, fmt.Sprintf("found %d", len(c)))
}

func (r *recordingReporter) Analyzing(n int) {
	r.events = append(r.events, fmt.Sprintf("analyzing %d", n))
}

func (r *recordingReporter) Generating() {
	r.events = append(r.events, "generating")
}

// TestHarvestStep tests the harvest step.
func TestHarvestStep(t *testing.T) {
	t.Parallel()

	t.Run("stores candidates", func(t *testing.T) {
		t.Parallel()

		rep := &recordingReporter{}
		step := NewHarvestStep(fakeHarvester{candidates: []model.Candidate{{Title: "a"}, {Title: "b"}, {Title: "c"}}}, WithReporter(rep))

		run := model.NewRun("go", 2)
		if err := step.Do(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(run.Candidates) != 2 {
			t.Errorf("expected 2 candidates, got %d", len(run.Candidates))
		}
		if strings.Join(rep.events, ";") != "searching go;found 2" {
			t.Errorf("unexpected events: %v", rep.events)
		}
	})

	t.Run("search failure ends the run", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("connection refused")
		step := NewHarvestStep(fakeHarvester{err: cause})

		err := step.Do(context.Background(), model.NewRun("go", 2))
		if !errors.Is(err, ErrSearchFailed) || !errors.Is(err, cause) {
			t.Errorf("expected wrapped search error, got %v", err)
		}
	})
}

// TestCollectStep tests the collect step.
func TestCollectStep(t *testing.T) {
	t.Parallel()

	t.Run("stores outcomes and collected articles", func(t *testing.T) {
		t.Parallel()

		step := NewCollectStep(fakeCollector{outcomes: []model.Outcome{
			{Index: 0, Status: model.OutcomeSkipped},
			{Index: 1, Status: model.OutcomeCollected, Article: &model.CollectedArticle{Title: "kept"}},
		}})

		run := model.NewRun("go", 2)
		run.Candidates = []model.Candidate{{Title: "skipped"}, {Title: "kept"}}
		if err := step.Do(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(run.Outcomes) != 2 || len(run.Articles) != 1 || run.Articles[0].Title != "kept" {
			t.Errorf("unexpected run state: %+v", run)
		}
	})

	t.Run("nothing collected is ErrNoArticles", func(t *testing.T) {
		t.Parallel()

		step := NewCollectStep(fakeCollector{outcomes: []model.Outcome{{Status: model.OutcomeFailed}}})
		err := step.Do(context.Background(), model.NewRun("go", 1))
		if !errors.Is(err, model.ErrNoArticles) {
			t.Errorf("expected ErrNoArticles, got %v", err)
		}
	})
}

// TestSummarizeStep tests the summarize step.
func TestSummarizeStep(t *testing.T) {
	t.Parallel()

	t.Run("stores the summary", func(t *testing.T) {
		t.Parallel()

		want := &model.SummaryResult{Topic: "go"}
		sum := &fakeSummarizer{result: want}
		run := model.NewRun("go", 1)
		run.Articles = []model.CollectedArticle{{Title: "a"}}

		if err := NewSummarizeStep(sum).Do(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if run.Summary != want {
			t.Error("expected summary to be stored")
		}
	})

	t.Run("never called without articles", func(t *testing.T) {
		t.Parallel()

		sum := &fakeSummarizer{}
		err := NewSummarizeStep(sum).Do(context.Background(), model.NewRun("go", 1))
		if !errors.Is(err, model.ErrNoArticles) {
			t.Errorf("expected ErrNoArticles, got %v", err)
		}
		if sum.calls != 0 {
			t.Error("summarizer must not be invoked")
		}
	})

	t.Run("summary error is returned unchanged", func(t *testing.T) {
		t.Parallel()

		serr := &summarizer.SummaryError{Kind: summarizer.KindMalformedJSON, Raw: "{"}
		run := model.NewRun("go", 1)
		run.Articles = []model.CollectedArticle{{Title: "a"}}

		err := NewSummarizeStep(&fakeSummarizer{err: serr}).Do(context.Background(), run)
		var got *summarizer.SummaryError
		if !errors.As(err, &got) || got.Kind != summarizer.KindMalformedJSON {
			t.Errorf("expected malformed JSON summary error, got %v", err)
		}
		if run.Summary != nil {
			t.Error("expected no partial summary")
		}
	})
}

// TestRenderStep tests the render step.
func TestRenderStep(t *testing.T) {
	t.Parallel()

	t.Run("writes the summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		run := model.NewRun("go", 1)
		run.Summary = &model.SummaryResult{Topic: "Go"}

		if err := NewRenderStep(render.NewMarkdownWriter(&buf)).Do(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "# 📰 Go") {
			t.Errorf("unexpected output: %s", buf.String())
		}
	})

	t.Run("missing summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		err := NewRenderStep(render.NewMarkdownWriter(&buf)).Do(context.Background(), model.NewRun("go", 1))
		if !errors.Is(err, ErrNoSummary) {
			t.Errorf("expected ErrNoSummary, got %v", err)
		}
	})
}

// scriptedCompleter answers every request with content.
type scriptedCompleter struct {
	content string
	calls   int
	lastReq openai.ChatCompletionRequest
}

func (s *scriptedCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.calls++
	s.lastReq = req
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: s.content}}},
	}, nil
}

// newNewsServer serves a search page listing the given article paths,
// robots.txt and the article pages themselves.
func newNewsServer(t *testing.T, robotsTxt string, articles map[string]string) *httptest.Server {
	t.Helper()

	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/search":
			var sb strings.Builder
			sb.WriteString(`<html><body><ol id="b_results">`)
			for _, path := range []string{"/ev-sales", "/battery"} {
				fmt.Fprintf(&sb, `<li class="b_algo"><h2><a href="%s%s">Story %s</a></h2></li>`, server.URL, path, path)
			}
			sb.WriteString(`</ol></body></html>`)
			_, _ = w.Write([]byte(sb.String()))
		case r.URL.Path == "/robots.txt":
			_, _ = w.Write([]byte(robotsTxt))
		default:
			body, ok := articles[r.URL.Path]
			if !ok {
				http.NotFound(w, r)
				return
			}
			_, _ = w.Write([]byte("<html><body><p>" + body + "</p></body></html>"))
		}
	}))
	t.Cleanup(server.Close)
	return server
}

// TestNewsPipeline runs all steps against a local server.
func TestNewsPipeline(t *testing.T) {
	t.Parallel()

	t.Run("electric vehicles scenario renders one headline", func(t *testing.T) {
		t.Parallel()

		server := newNewsServer(t, "User-agent: *\nAllow: /\n", map[string]string{
			"/ev-sales": strings.Repeat("A", 100),
			"/battery":  strings.Repeat("B", 100),
		})
		client := fetch.NewClient(server.Client())

		completer := &scriptedCompleter{content: `{"news_summary":{"topic":"Electric vehicles","articles":[
			{"headline":"EV makers expand","key_points":["Sales grow","Batteries get cheaper"],
			"source":{"title":"Story /ev-sales","url":"` + server.URL + `/ev-sales"}}]}}`}

		var out bytes.Buffer
		p := NewNewsPipeline(
			search.NewHarvester(client, search.WithBaseURL(server.URL+"/search?q=")),
			collector.New(client, robots.NewChecker(client)),
			summarizer.New(completer),
			render.NewMarkdownWriter(&out),
			nil,
		)

		run := model.NewRun("electric vehicles", 2)
		if err := p.Execute(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(run.Articles) != 2 {
			t.Fatalf("expected 2 collected articles, got %d", len(run.Articles))
		}
		if run.Articles[0].Body != strings.Repeat("A", 100) || run.Articles[1].Body != strings.Repeat("B", 100) {
			t.Error("collected bodies do not match their pages")
		}
		if completer.calls != 1 {
			t.Errorf("expected one model call, got %d", completer.calls)
		}
		if !strings.Contains(completer.lastReq.Messages[1].Content, "about 'electric vehicles'") {
			t.Error("expected the query in the user message")
		}
		if c := strings.Count(out.String(), "### "); c != 1 {
			t.Errorf("expected exactly one headline section, got %d:\n%s", c, out.String())
		}
		if strings.Join(run.PerformedSteps, ",") != "harvest,collect,summarize,render" {
			t.Errorf("unexpected steps: %v", run.PerformedSteps)
		}
	})

	t.Run("all candidates denied never reaches the model", func(t *testing.T) {
		t.Parallel()

		server := newNewsServer(t, "User-agent: *\nDisallow: /\n", map[string]string{
			"/ev-sales": "A",
			"/battery":  "B",
		})
		client := fetch.NewClient(server.Client())
		completer := &scriptedCompleter{content: "{}"}

		var out bytes.Buffer
		p := NewNewsPipeline(
			search.NewHarvester(client, search.WithBaseURL(server.URL+"/search?q=")),
			collector.New(client, robots.NewChecker(client)),
			summarizer.New(completer),
			render.NewMarkdownWriter(&out),
			nil,
		)

		run := model.NewRun("electric vehicles", 2)
		err := p.Execute(context.Background(), run)
		if !errors.Is(err, model.ErrNoArticles) {
			t.Fatalf("expected ErrNoArticles, got %v", err)
		}
		if completer.calls != 0 {
			t.Error("model must not be called without articles")
		}
		if model.CountByStatus(run.Outcomes, model.OutcomeSkipped) != 2 {
			t.Errorf("expected both candidates skipped, got %+v", run.Outcomes)
		}
		if out.Len() != 0 {
			t.Error("expected no summary output")
		}
	})
}
