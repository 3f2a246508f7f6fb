package render

import (
	"errors"
	"io"

	"github.com/nao1215/markdown"
	"github.com/nao1215/newsbrief/internal/model"
)

// ErrNilSummary is returned when a writer is given no summary.
var ErrNilSummary = errors.New("summary is nil")

// MarkdownWriter outputs a summary as Markdown:
//
//	# 📰 <topic>
//
//	### <headline>
//
//	- <key point>
//
//	*Source: [<title>](<url>)*
//
//	---
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the summary in response order.
func (w *MarkdownWriter) Write(result *model.SummaryResult) (int, error) {
	if result == nil {
		return 0, ErrNilSummary
	}

	md := markdown.NewMarkdown(w.output)

	md.PlainText("")
	md.H1("📰 " + result.Topic)
	md.PlainText("")

	for _, a := range result.Articles {
		w.writeArticle(md, a)
	}

	return len(md.String()), md.Build()
}

// writeArticle writes one headline section followed by a separator.
func (w *MarkdownWriter) writeArticle(md *markdown.Markdown, a model.SummaryArticle) {
	md.H3(a.Headline)
	md.PlainText("")

	if len(a.KeyPoints) > 0 {
		md.BulletList(a.KeyPoints...)
		md.PlainText("")
	}

	md.PlainTextf("*Source: [%s](%s)*", a.Source.Title, a.Source.URL)
	md.PlainText("")
	md.HorizontalRule()
	md.PlainText("")
}
