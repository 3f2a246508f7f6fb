package model

import (
	"encoding/json"
	"errors"
	"testing"
)

// TestDecodeSummary tests decoding of well-formed summary documents.
func TestDecodeSummary(t *testing.T) {
	t.Parallel()

	t.Run("decodes all fields in order", func(t *testing.T) {
		t.Parallel()

		data := []byte(`{"news_summary":{"topic":"EVs","articles":[
			{"headline":"First","key_points":["a","b"],"source":{"title":"T1","url":"https://one.example"}},
			{"headline":"Second","key_points":[],"source":{"title":"T2","url":"https://two.example"}}
		]}}`)

		got, err := DecodeSummary(data)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Topic != "EVs" {
			t.Errorf("expected topic EVs, got %q", got.Topic)
		}
		if len(got.Articles) != 2 {
			t.Fatalf("expected 2 articles, got %d", len(got.Articles))
		}
		if got.Articles[0].Headline != "First" || got.Articles[1].Headline != "Second" {
			t.Errorf("unexpected headline order: %+v", got.Articles)
		}
		if len(got.Articles[0].KeyPoints) != 2 || got.Articles[0].KeyPoints[1] != "b" {
			t.Errorf("unexpected key points: %v", got.Articles[0].KeyPoints)
		}
		if got.Articles[1].Source.URL != "https://two.example" {
			t.Errorf("unexpected source: %+v", got.Articles[1].Source)
		}
	})

	t.Run("empty article list is valid", func(t *testing.T) {
		t.Parallel()

		got, err := DecodeSummary([]byte(`{"news_summary":{"topic":"x","articles":[]}}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got.Articles) != 0 {
			t.Errorf("expected no articles, got %d", len(got.Articles))
		}
	})
}

// TestDecodeSummary_MissingFields tests that the first absent field is reported by path.
func TestDecodeSummary_MissingFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
		path string
	}{
		{name: "no envelope", data: `{"topic":"x"}`, path: "news_summary"},
		{name: "null envelope", data: `{"news_summary":null}`, path: "news_summary"},
		{name: "no topic", data: `{"news_summary":{"articles":[]}}`, path: "news_summary.topic"},
		{name: "no articles", data: `{"news_summary":{"topic":"x"}}`, path: "news_summary.articles"},
		{
			name: "no headline",
			data: `{"news_summary":{"topic":"x","articles":[{"key_points":[],"source":{"title":"t","url":"u"}}]}}`,
			path: "news_summary.articles[0].headline",
		},
		{
			name: "no key points in second article",
			data: `{"news_summary":{"topic":"x","articles":[
				{"headline":"h","key_points":[],"source":{"title":"t","url":"u"}},
				{"headline":"h","source":{"title":"t","url":"u"}}]}}`,
			path: "news_summary.articles[1].key_points",
		},
		{
			name: "no source",
			data: `{"news_summary":{"topic":"x","articles":[{"headline":"h","key_points":[]}]}}`,
			path: "news_summary.articles[0].source",
		},
		{
			name: "no source url",
			data: `{"news_summary":{"topic":"x","articles":[{"headline":"h","key_points":[],"source":{"title":"t"}}]}}`,
			path: "news_summary.articles[0].source.url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := DecodeSummary([]byte(tt.data))
			if got != nil {
				t.Errorf("expected no partial result, got %+v", got)
			}
			var mf *MissingFieldError
			if !errors.As(err, &mf) {
				t.Fatalf("expected MissingFieldError, got %v", err)
			}
			if mf.Path != tt.path {
				t.Errorf("expected path %q, got %q", tt.path, mf.Path)
			}
		})
	}
}

// TestDecodeSummary_Malformed tests that syntax errors are returned unchanged.
func TestDecodeSummary_Malformed(t *testing.T) {
	t.Parallel()

	_, err := DecodeSummary([]byte(`{"news_summary": {`))
	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Errorf("expected json.SyntaxError, got %T: %v", err, err)
	}
}

// TestArticles tests that only collected outcomes contribute articles, in order.
func TestArticles(t *testing.T) {
	t.Parallel()

	a := &CollectedArticle{Title: "A", URL: "https://a.example", Body: "aaa"}
	c := &CollectedArticle{Title: "C", URL: "https://c.example", Body: "ccc"}
	outcomes := []Outcome{
		{Index: 0, Status: OutcomeCollected, Article: a},
		{Index: 1, Status: OutcomeSkipped, Reason: "blocked by robots.txt"},
		{Index: 2, Status: OutcomeCollected, Article: c},
		{Index: 3, Status: OutcomeFailed, Err: errors.New("timeout")},
	}

	got := Articles(outcomes)
	if len(got) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(got))
	}
	if got[0].Title != "A" || got[1].Title != "C" {
		t.Errorf("unexpected order: %+v", got)
	}

	if n := CountByStatus(outcomes, OutcomeSkipped); n != 1 {
		t.Errorf("expected 1 skipped, got %d", n)
	}
	if n := CountByStatus(outcomes, OutcomeFailed); n != 1 {
		t.Errorf("expected 1 failed, got %d", n)
	}
}

// TestOutcomeStatusString tests status names.
func TestOutcomeStatusString(t *testing.T) {
	t.Parallel()

	tests := map[OutcomeStatus]string{
		OutcomeCollected:  "collected",
		OutcomeSkipped:    "skipped",
		OutcomeFailed:     "failed",
		OutcomeStatus(42): "unknown",
	}
	for status, want := range tests {
		if got := status.String(); got != want {
			t.Errorf("%d: expected %q, got %q", status, want, got)
		}
	}
}
