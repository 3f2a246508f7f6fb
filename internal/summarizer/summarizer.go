// Package summarizer asks a chat-completion model for a structured summary
// of collected articles.
//
// The request carries a strict JSON schema, so a well-behaved model answers
// with a {"news_summary": {...}} document. Anything else is reported as a
// *SummaryError and no partial result is returned.
package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nao1215/newsbrief/internal/model"
	openai "github.com/sashabaranov/go-openai"
)

// DefaultModel supports structured outputs.
const DefaultModel = "gpt-4o-2024-08-06"

// SystemPrompt fixes the persona of the assistant.
const SystemPrompt = "You are a news summarizer that provides concise, accurate summaries with proper source attribution."

// ChatCompleter creates chat completions. *openai.Client satisfies it.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Summarizer produces summaries through a ChatCompleter.
type Summarizer struct {
	client ChatCompleter
	model  string
	logger *slog.Logger
}

// Option configures a Summarizer.
type Option func(*Summarizer)

// WithModel sets the model identifier.
func WithModel(name string) Option {
	return func(s *Summarizer) {
		if name != "" {
			s.model = name
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Summarizer) {
		s.logger = logger
	}
}

// New creates a Summarizer backed by client.
func New(client ChatCompleter, opts ...Option) *Summarizer {
	s := &Summarizer{
		client: client,
		model:  DefaultModel,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// BuildContext renders articles as "Title:", "Content:" and "Link:" blocks
// separated by a blank line, in the given order.
func BuildContext(articles []model.CollectedArticle) string {
	blocks := make([]string, 0, len(articles))
	for _, a := range articles {
		blocks = append(blocks, fmt.Sprintf("Title: %s\nContent: %s\nLink: %s", a.Title, a.Body, a.URL))
	}
	return strings.Join(blocks, "\n\n")
}

// UserPrompt returns the user message for query and a context block.
func UserPrompt(query, block string) string {
	return fmt.Sprintf("Analyze and summarize these articles about '%s' into their key points but not cutting out details:\n\n%s", query, block)
}

// Request builds the chat completion request for query and articles.
func (s *Summarizer) Request(query string, articles []model.CollectedArticle) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: UserPrompt(query, BuildContext(articles))},
		},
		ResponseFormat: ResponseFormat(),
	}
}

// Summarize sends articles to the model and decodes its answer.
// Every failure is a *SummaryError.
func (s *Summarizer) Summarize(ctx context.Context, query string, articles []model.CollectedArticle) (*model.SummaryResult, error) {
	req := s.Request(query, articles)
	s.logger.Debug("requesting summary", "model", s.model, "articles", len(articles))

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, &SummaryError{Kind: KindOther, Err: fmt.Errorf("chat completion: %w", err)}
	}
	if len(resp.Choices) == 0 {
		return nil, &SummaryError{Kind: KindOther, Err: ErrNoChoices}
	}

	content := resp.Choices[0].Message.Content
	result, err := model.DecodeSummary([]byte(content))
	if err != nil {
		serr := classify(content, err)
		s.logger.Debug("summary rejected", "kind", serr.Kind.String(), "error", err)
		return nil, serr
	}

	s.logger.Debug("summary received", "topic", result.Topic, "headlines", len(result.Articles))
	return result, nil
}
