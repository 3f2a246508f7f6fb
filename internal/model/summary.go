package model

import (
	"encoding/json"
	"fmt"
)

// SummaryResult is the structured summary of one run.
type SummaryResult struct {
	// Topic is the overall topic chosen by the model.
	Topic string `json:"topic"`

	// Articles are the summarized headlines in response order.
	Articles []SummaryArticle `json:"articles"`
}

// SummaryArticle is one headline with its key points and source.
type SummaryArticle struct {
	Headline  string   `json:"headline"`
	KeyPoints []string `json:"key_points"`
	Source    Source   `json:"source"`
}

// Source attributes a summarized headline to a collected article.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// MissingFieldError reports a required field absent from a summary document.
type MissingFieldError struct {
	// Path is the JSON path of the missing field,
	// e.g. "news_summary.articles[1].source.url".
	Path string
}

// Error implements the error interface.
func (e *MissingFieldError) Error() string {
	return "missing required field: " + e.Path
}

// The wire types use pointers so that absent fields can be told apart
// from empty ones.
type (
	summaryEnvelope struct {
		NewsSummary *summaryBody `json:"news_summary"`
	}

	summaryBody struct {
		Topic    *string          `json:"topic"`
		Articles *[]summaryRecord `json:"articles"`
	}

	summaryRecord struct {
		Headline  *string        `json:"headline"`
		KeyPoints *[]string      `json:"key_points"`
		Source    *summarySource `json:"source"`
	}

	summarySource struct {
		Title *string `json:"title"`
		URL   *string `json:"url"`
	}
)

// DecodeSummary decodes a {"news_summary": {...}} document.
//
// It returns the json package's error for malformed input or mismatched
// types, and a *MissingFieldError naming the first required field that is
// absent (or null). No partial result is returned on error.
func DecodeSummary(data []byte) (*SummaryResult, error) {
	var env summaryEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}

	if env.NewsSummary == nil {
		return nil, &MissingFieldError{Path: "news_summary"}
	}
	body := env.NewsSummary
	if body.Topic == nil {
		return nil, &MissingFieldError{Path: "news_summary.topic"}
	}
	if body.Articles == nil {
		return nil, &MissingFieldError{Path: "news_summary.articles"}
	}

	result := &SummaryResult{
		Topic:    *body.Topic,
		Articles: make([]SummaryArticle, 0, len(*body.Articles)),
	}

	for i, rec := range *body.Articles {
		prefix := fmt.Sprintf("news_summary.articles[%d]", i)
		switch {
		case rec.Headline == nil:
			return nil, &MissingFieldError{Path: prefix + ".headline"}
		case rec.KeyPoints == nil:
			return nil, &MissingFieldError{Path: prefix + ".key_points"}
		case rec.Source == nil:
			return nil, &MissingFieldError{Path: prefix + ".source"}
		case rec.Source.Title == nil:
			return nil, &MissingFieldError{Path: prefix + ".source.title"}
		case rec.Source.URL == nil:
			return nil, &MissingFieldError{Path: prefix + ".source.url"}
		}

		result.Articles = append(result.Articles, SummaryArticle{
			Headline:  *rec.Headline,
			KeyPoints: append(make([]string, 0, len(*rec.KeyPoints)), *rec.KeyPoints...),
			Source: Source{
				Title: *rec.Source.Title,
				URL:   *rec.Source.URL,
			},
		})
	}

	return result, nil
}
