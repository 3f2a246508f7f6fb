package render

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"github.com/nao1215/newsbrief/internal/model"
	"github.com/nao1215/newsbrief/internal/summarizer"
)

// Style selects the color of a panel.
type Style int

const (
	// StyleInfo is bold blue.
	StyleInfo Style = iota
	// StyleWorking is bold yellow.
	StyleWorking
	// StyleSuccess is bold green.
	StyleSuccess
)

// Console writes run progress and errors for a human reader.
// It is safe for concurrent use.
type Console struct {
	mu  sync.Mutex
	out io.Writer

	info    *color.Color
	working *color.Color
	success *color.Color
	warn    *color.Color
	failure *color.Color
	bold    *color.Color
	dim     *color.Color
}

// ConsoleOption configures a Console.
type ConsoleOption func(*consoleOptions)

type consoleOptions struct {
	colorSet bool
	color    bool
}

// WithColor forces colored output on or off.
func WithColor(enabled bool) ConsoleOption {
	return func(o *consoleOptions) {
		o.colorSet = true
		o.color = enabled
	}
}

// NewConsole creates a Console writing to out. Unless WithColor is given,
// colors are used only when out is a terminal and NO_COLOR is unset.
func NewConsole(out io.Writer, opts ...ConsoleOption) *Console {
	var o consoleOptions
	for _, opt := range opts {
		opt(&o)
	}
	enabled := o.color
	if !o.colorSet {
		enabled = isTerminal(out) && os.Getenv("NO_COLOR") == ""
	}

	c := &Console{
		out:     out,
		info:    color.New(color.FgBlue, color.Bold),
		working: color.New(color.FgYellow, color.Bold),
		success: color.New(color.FgGreen, color.Bold),
		warn:    color.New(color.FgYellow),
		failure: color.New(color.FgRed, color.Bold),
		bold:    color.New(color.Bold),
		dim:     color.New(color.Faint),
	}
	for _, col := range []*color.Color{c.info, c.working, c.success, c.warn, c.failure, c.bold, c.dim} {
		if enabled {
			col.EnableColor()
		} else {
			col.DisableColor()
		}
	}
	return c
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (c *Console) style(s Style) *color.Color {
	switch s {
	case StyleWorking:
		return c.working
	case StyleSuccess:
		return c.success
	default:
		return c.info
	}
}

// Panel writes text inside a rounded box sized to fit it.
func (c *Console) Panel(text string, s Style) {
	width := runewidth.StringWidth(text)
	line := strings.Repeat("─", width+2)

	c.mu.Lock()
	defer c.mu.Unlock()

	col := c.style(s)
	col.Fprintln(c.out, "╭"+line+"╮")
	col.Fprintln(c.out, "│ "+text+" │")
	col.Fprintln(c.out, "╰"+line+"╯")
}

// Searching announces the search for query.
func (c *Console) Searching(query string) {
	c.Panel(fmt.Sprintf("🔍 Fetching news about: %s...", query), StyleInfo)
}

// Generating announces the summary request.
func (c *Console) Generating() {
	c.Panel("🤖 Generating summary...", StyleWorking)
}

// FoundArticles writes the harvested candidates as a tree.
func (c *Console) FoundArticles(candidates []model.Candidate) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintln(c.out, "📋 "+c.bold.Sprint("Found Articles"))
	for i, cand := range candidates {
		branch := "├── "
		if i == len(candidates)-1 {
			branch = "└── "
		}
		fmt.Fprintln(c.out, branch+c.dim.Sprint("• "+cand.Title))
	}
	fmt.Fprintln(c.out)
}

// Analyzing announces the collection of n candidates.
func (c *Console) Analyzing(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.success.Fprintf(c.out, "Analyzing %d articles...\n", n)
}

// Processing reports that candidate index of total is being processed.
func (c *Console) Processing(index, total int, _ model.Candidate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.success.Fprintf(c.out, "Processing article %d/%d...\n", index, total)
}

// Outcome writes a notice for skipped candidates. Failed candidates are
// dropped silently and only logged.
func (c *Console) Outcome(o model.Outcome) {
	if o.Status != model.OutcomeSkipped {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.warn.Fprintf(c.out, "Skipping %s (%s)\n", o.Candidate.URL, o.Reason)
}

// NoArticles reports that nothing could be collected.
func (c *Console) NoArticles() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failure.Fprintln(c.out, "No articles found!")
}

// Error reports a run-level error. Summary errors are written with their
// diagnostic context.
func (c *Console) Error(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var serr *summarizer.SummaryError
	if !errors.As(err, &serr) {
		c.failure.Fprintf(c.out, "Error: %v\n", err)
		return
	}

	switch serr.Kind {
	case summarizer.KindMalformedJSON:
		c.failure.Fprintln(c.out, "Error: Invalid JSON response from AI")
		fmt.Fprintf(c.out, "Raw response: %s\n", serr.Raw)
	case summarizer.KindMissingField:
		c.failure.Fprintf(c.out, "Error: Missing expected field in response: %s\n", serr.Field)
		fmt.Fprintf(c.out, "Received structure: %s\n", serr.Raw)
	default:
		c.failure.Fprintf(c.out, "Unexpected error: %v\n", serr.Err)
	}
}
