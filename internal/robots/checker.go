// Package robots decides whether a URL may be fetched according to its
// host's robots.txt.
//
// The check fails closed: if the robots URL cannot be derived, the file
// cannot be fetched, the server answers with a non-2xx status or the file
// cannot be parsed, the URL is treated as disallowed.
package robots

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/nao1215/newsbrief/internal/fetch"
	"github.com/temoto/robotstxt"
)

// WildcardAgent is the user agent evaluated against robots.txt groups.
const WildcardAgent = "*"

// ErrUnsupportedURL is returned by RobotsURL for URLs that have no
// http(s) scheme or no host.
var ErrUnsupportedURL = errors.New("unsupported URL: need http or https scheme and a host")

// Fetcher fetches a single URL.
type Fetcher interface {
	Get(ctx context.Context, rawURL string) (*fetch.Response, error)
}

// Checker evaluates robots.txt policies. Every call fetches robots.txt
// again; there is no cache.
type Checker struct {
	fetcher Fetcher
	agent   string
	logger  *slog.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithAgent sets the user agent matched against robots.txt groups.
func WithAgent(agent string) Option {
	return func(c *Checker) {
		if agent != "" {
			c.agent = agent
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		c.logger = logger
	}
}

// NewChecker creates a Checker that fetches robots.txt through f.
func NewChecker(f Fetcher, opts ...Option) *Checker {
	c := &Checker{
		fetcher: f,
		agent:   WildcardAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// RobotsURL returns scheme://host/robots.txt for rawURL.
func RobotsURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedURL, rawURL)
	}
	return (&url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/robots.txt"}).String(), nil
}

// CanFetch reports whether rawURL may be fetched. It never returns an
// error: any failure along the way means false.
func (c *Checker) CanFetch(ctx context.Context, rawURL string) bool {
	allowed, err := c.check(ctx, rawURL)
	if err != nil {
		c.logger.Debug("robots check failed, denying", "url", rawURL, "error", err)
		return false
	}
	c.logger.Debug("robots check", "url", rawURL, "agent", c.agent, "allowed", allowed)
	return allowed
}

func (c *Checker) check(ctx context.Context, rawURL string) (bool, error) {
	robotsURL, err := RobotsURL(rawURL)
	if err != nil {
		return false, err
	}

	// RobotsURL already parsed rawURL successfully.
	target, _ := url.Parse(rawURL)

	resp, err := c.fetcher.Get(ctx, robotsURL)
	if err != nil {
		return false, err
	}

	data, err := robotstxt.FromBytes(resp.Body)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", robotsURL, err)
	}

	return data.TestAgent(target.RequestURI(), c.agent), nil
}
