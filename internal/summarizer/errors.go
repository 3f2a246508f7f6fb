package summarizer

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nao1215/newsbrief/internal/model"
)

// ErrNoChoices is returned when the model service answers without any choice.
var ErrNoChoices = errors.New("response contains no choices")

// Kind classifies a SummaryError.
type Kind int

const (
	// KindOther covers service failures and anything not classified below.
	KindOther Kind = iota

	// KindMalformedJSON means the response content is not valid JSON.
	KindMalformedJSON

	// KindMissingField means the JSON lacks a required field.
	KindMissingField
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindMalformedJSON:
		return "malformed_json"
	case KindMissingField:
		return "missing_field"
	default:
		return "other"
	}
}

// SummaryError is returned by Summarize when no summary could be produced.
type SummaryError struct {
	Kind Kind

	// Field is the JSON path of the missing field for KindMissingField.
	Field string

	// Raw is diagnostic context: the raw response content for
	// KindMalformedJSON, the structure received for KindMissingField.
	Raw string

	Err error
}

// Error implements the error interface.
func (e *SummaryError) Error() string {
	switch e.Kind {
	case KindMalformedJSON:
		return fmt.Sprintf("invalid JSON response from AI: %v", e.Err)
	case KindMissingField:
		return "missing expected field in response: " + e.Field
	default:
		return fmt.Sprintf("unexpected error: %v", e.Err)
	}
}

// Unwrap returns the underlying error.
func (e *SummaryError) Unwrap() error {
	return e.Err
}

// classify turns a decoding error of content into a SummaryError.
func classify(content string, err error) *SummaryError {
	var syntaxErr *json.SyntaxError
	var missing *model.MissingFieldError

	switch {
	case errors.As(err, &syntaxErr):
		return &SummaryError{Kind: KindMalformedJSON, Raw: content, Err: err}
	case errors.As(err, &missing):
		return &SummaryError{
			Kind:  KindMissingField,
			Field: missing.Path,
			Raw:   received(content),
			Err:   err,
		}
	default:
		return &SummaryError{Kind: KindOther, Err: err}
	}
}

// received pretty prints content with two-space indentation.
func received(content string) string {
	var v any
	if err := json.Unmarshal([]byte(content), &v); err != nil {
		return content
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return content
	}
	return string(out)
}
