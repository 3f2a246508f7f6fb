package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can use
// errors.Is() while still printing a readable message.
var (
	// ErrEmptyQuery is returned when the search query is blank.
	ErrEmptyQuery = errors.New("empty query: --query must not be blank")

	// ErrInvalidArticleCount is returned when the article count is not positive.
	ErrInvalidArticleCount = errors.New("invalid article count: --articles must be positive")

	// ErrInvalidTimeout is returned when the per-article timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid article timeout: must be positive")

	// ErrInvalidParallelism is returned when parallelism is not positive.
	ErrInvalidParallelism = errors.New("invalid parallelism: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidMaxArticleChars is returned when the article body limit is not
	// between 1 and DefaultMaxArticleChars.
	ErrInvalidMaxArticleChars = errors.New("invalid article length limit: must be between 1 and 5000")

	// ErrUnknownExtractor is returned when the extractor name is not recognized.
	ErrUnknownExtractor = errors.New("unknown extractor: must be \"paragraphs\" or \"readability\"")

	// ErrUnknownFormat is returned when the output format is not recognized.
	ErrUnknownFormat = errors.New("unknown format: must be \"markdown\" or \"json\"")

	// ErrEmptyModel is returned when no model identifier is configured.
	ErrEmptyModel = errors.New("empty model: a model identifier is required")

	// ErrMissingAPIKey is returned when the model-service credential is not set.
	ErrMissingAPIKey = errors.New("missing API key: set OPENAI_API_KEY in the environment or the env file")
)
