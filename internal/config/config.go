package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "newsbrief"

	// DefaultQuery is searched when --query is not given.
	DefaultQuery = "latest tech news"

	// DefaultArticleCount is the number of search results to analyze.
	DefaultArticleCount = 5

	// DefaultSearchURL is the search endpoint. The query is appended verbatim
	// after spaces have been replaced by '+'.
	DefaultSearchURL = "https://www.bing.com/search?q="

	// DefaultModel supports strict json_schema structured output.
	DefaultModel = "gpt-4o-2024-08-06"

	// DefaultArticleTimeout bounds each article fetch.
	DefaultArticleTimeout = 10 * time.Second

	// DefaultMaxArticleChars is the maximum number of characters kept per article body.
	DefaultMaxArticleChars = 5000

	// DefaultMaxBodySize limits the response body size read per request.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultParallelism of 1 fetches articles one after another.
	DefaultParallelism = 1

	// DefaultUserAgent is sent with every outbound request.
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"

	// DefaultEnvFile is loaded at startup when present.
	DefaultEnvFile = ".env"

	// ExtractorParagraphs joins the text of every <p> element.
	ExtractorParagraphs = "paragraphs"

	// ExtractorReadability extracts the main content with a readability parser.
	ExtractorReadability = "readability"

	// FormatMarkdown renders the summary as Markdown.
	FormatMarkdown = "markdown"

	// FormatJSON writes the summary as a news_summary JSON document.
	FormatJSON = "json"

	// EnvAPIKey holds the model-service credential.
	EnvAPIKey = "OPENAI_API_KEY"

	// EnvBaseURL optionally overrides the model-service endpoint.
	EnvBaseURL = "OPENAI_BASE_URL"
)

// Config holds all configuration options for a single newsbrief run.
// It is populated from defaults, the optional config file, the environment
// and CLI flags, in that order, and then passed down explicitly.
type Config struct {
	// Query is the search query.
	Query string

	// ArticleCount is the maximum number of search results to analyze.
	ArticleCount int

	// SearchURL is the search endpoint prefix the query is appended to.
	SearchURL string

	// Model is the chat-completion model identifier.
	Model string

	// APIKey is the model-service credential. Never logged.
	APIKey string

	// BaseURL overrides the model-service endpoint when non-empty.
	BaseURL string

	// ArticleTimeout bounds each article fetch.
	ArticleTimeout time.Duration

	// MaxArticleChars is the maximum length of a collected article body in characters.
	MaxArticleChars int

	// MaxBodySize is the maximum response body size in bytes to read.
	MaxBodySize int64

	// Parallelism is the number of candidates collected at the same time.
	// Output order does not depend on it.
	Parallelism int

	// Extractor selects the article text extractor.
	Extractor string

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// Format selects how the summary is written to stdout.
	Format string

	// EnvFile is the optional environment file loaded at startup.
	EnvFile string

	// ConfigFilePath is the path to the YAML configuration file.
	// If empty, FindConfigFile searches the default locations.
	ConfigFilePath string

	// Verbose enables debug logging.
	Verbose bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Query:           DefaultQuery,
		ArticleCount:    DefaultArticleCount,
		SearchURL:       DefaultSearchURL,
		Model:           DefaultModel,
		ArticleTimeout:  DefaultArticleTimeout,
		MaxArticleChars: DefaultMaxArticleChars,
		MaxBodySize:     DefaultMaxBodySize,
		Parallelism:     DefaultParallelism,
		Extractor:       ExtractorParagraphs,
		UserAgent:       DefaultUserAgent,
		Format:          FormatMarkdown,
		EnvFile:         DefaultEnvFile,
	}
}

// LoadEnv copies the model-service settings from the process environment.
// Values already set on the Config are kept when the variable is empty.
func (c *Config) LoadEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvAPIKey)); v != "" {
		c.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		c.BaseURL = v
	}
}

// XDGConfigDir returns the XDG config directory for newsbrief.
// On Linux: ~/.config/newsbrief
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
//
// The API key is checked separately by ValidateCredentials, which the
// root command calls after Validate and before any request is sent.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Query) == "" {
		return ErrEmptyQuery
	}
	if c.ArticleCount <= 0 {
		return ErrInvalidArticleCount
	}
	if c.ArticleTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Parallelism <= 0 {
		return ErrInvalidParallelism
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.MaxArticleChars <= 0 || c.MaxArticleChars > DefaultMaxArticleChars {
		return ErrInvalidMaxArticleChars
	}
	switch c.Extractor {
	case ExtractorParagraphs, ExtractorReadability:
	default:
		return ErrUnknownExtractor
	}
	switch c.Format {
	case FormatMarkdown, FormatJSON:
	default:
		return ErrUnknownFormat
	}
	if strings.TrimSpace(c.Model) == "" {
		return ErrEmptyModel
	}
	return nil
}

// ValidateCredentials reports whether the model-service credential is present.
func (c *Config) ValidateCredentials() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}
