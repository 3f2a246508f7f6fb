package collector

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/text/unicode/norm"
)

// Extractor reduces an HTML document to plain text.
type Extractor interface {
	Extract(body []byte, pageURL string) (string, error)
}

// ParagraphExtractor joins the trimmed text of every <p> element with
// newlines, in document order.
type ParagraphExtractor struct{}

// Extract implements Extractor.
func (ParagraphExtractor) Extract(body []byte, _ string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	paragraphs := doc.Find("p").Map(func(_ int, s *goquery.Selection) string {
		return strings.TrimSpace(s.Text())
	})
	return norm.NFC.String(strings.Join(paragraphs, "\n")), nil
}

// ReadabilityExtractor extracts the main article content the way reader
// views do, dropping navigation and boilerplate.
type ReadabilityExtractor struct{}

// Extract implements Extractor.
func (ReadabilityExtractor) Extract(body []byte, pageURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", err
	}
	article, err := readability.FromReader(bytes.NewReader(body), u)
	if err != nil {
		return "", err
	}
	return norm.NFC.String(strings.TrimSpace(article.TextContent)), nil
}

// Truncate returns the first n characters of s. Characters are runes, so
// multi-byte text is never cut in the middle of a character.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
