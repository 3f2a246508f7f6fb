package render

import (
	"encoding/json"
	"io"

	"github.com/nao1215/newsbrief/internal/model"
)

// JSONWriter outputs a summary as a {"news_summary": ...} document, the
// same shape the model service answers with.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	indentPrefix string
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint is WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// jsonDocument wraps a summary in its wire envelope.
type jsonDocument struct {
	NewsSummary *model.SummaryResult `json:"news_summary"`
}

// Write outputs the summary followed by a newline.
func (w *JSONWriter) Write(result *model.SummaryResult) (int, error) {
	if result == nil {
		return 0, ErrNilSummary
	}

	var data []byte
	var err error
	if w.indent {
		data, err = json.MarshalIndent(jsonDocument{NewsSummary: result}, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(jsonDocument{NewsSummary: result})
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
