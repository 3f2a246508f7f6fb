// Package search harvests candidate articles from a search-engine result page.
package search

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nao1215/newsbrief/internal/fetch"
	"github.com/nao1215/newsbrief/internal/model"
)

// DefaultBaseURL is the Bing web search endpoint.
const DefaultBaseURL = "https://www.bing.com/search?q="

// Selectors for Bing's organic result list.
const (
	resultSelector = "li.b_algo"
	titleSelector  = "h2"
	linkSelector   = "a"
)

// ErrInvalidLimit is returned when the requested candidate count is not positive.
var ErrInvalidLimit = errors.New("invalid limit: must be positive")

// Fetcher fetches a single URL.
type Fetcher interface {
	Get(ctx context.Context, rawURL string) (*fetch.Response, error)
}

// Harvester turns a query into an ordered list of candidates.
type Harvester struct {
	fetcher Fetcher
	baseURL string
	logger  *slog.Logger
}

// Option configures a Harvester.
type Option func(*Harvester)

// WithBaseURL sets the search endpoint prefix the query is appended to.
func WithBaseURL(base string) Option {
	return func(h *Harvester) {
		if base != "" {
			h.baseURL = base
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harvester) {
		h.logger = logger
	}
}

// NewHarvester creates a Harvester that issues requests through f.
func NewHarvester(f Fetcher, opts ...Option) *Harvester {
	h := &Harvester{
		fetcher: f,
		baseURL: DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	return h
}

// BuildSearchURL appends query to base with spaces replaced by '+'.
// No other character is escaped: a query containing '&' or '#' reaches
// the search engine as written.
func BuildSearchURL(base, query string) string {
	return base + strings.ReplaceAll(query, " ", "+")
}

// Harvest fetches the result page for query and returns at most limit
// candidates in page order. A failed request is returned as *fetch.Error.
func (h *Harvester) Harvest(ctx context.Context, query string, limit int) ([]model.Candidate, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	searchURL := BuildSearchURL(h.baseURL, query)
	h.logger.Debug("searching", "query", query, "url", searchURL, "limit", limit)

	resp, err := h.fetcher.Get(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	candidates, err := ParseResults(bytes.NewReader(resp.Body), resp.URL, limit)
	if err != nil {
		return nil, fmt.Errorf("parse search results: %w", err)
	}

	h.logger.Debug("harvested candidates", "query", query, "count", len(candidates))
	return candidates, nil
}

// ParseResults extracts up to limit candidates from a result page.
//
// Each result item contributes its first heading's trimmed text as the
// title and the first link inside that heading as the URL. Items without a
// title or link are skipped and do not count toward limit. Relative links
// are resolved against pageURL.
func ParseResults(r io.Reader, pageURL string, limit int) ([]model.Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	base, _ := url.Parse(pageURL)
	candidates := make([]model.Candidate, 0, limit)

	doc.Find(resultSelector).EachWithBreak(func(_ int, item *goquery.Selection) bool {
		heading := item.Find(titleSelector).First()
		title := strings.TrimSpace(heading.Text())
		if title == "" {
			return true
		}

		href, ok := heading.Find(linkSelector).First().Attr("href")
		href = strings.TrimSpace(href)
		if !ok || href == "" {
			return true
		}

		candidates = append(candidates, model.Candidate{
			Title: title,
			URL:   resolve(base, href),
		})
		return len(candidates) < limit
	})

	return candidates, nil
}

func resolve(base *url.URL, href string) string {
	if base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
