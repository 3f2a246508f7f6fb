package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/newsbrief/internal/collector"
	"github.com/nao1215/newsbrief/internal/config"
	"github.com/nao1215/newsbrief/internal/fetch"
	applog "github.com/nao1215/newsbrief/internal/log"
	"github.com/nao1215/newsbrief/internal/model"
	"github.com/nao1215/newsbrief/internal/pipeline"
	"github.com/nao1215/newsbrief/internal/render"
	"github.com/nao1215/newsbrief/internal/robots"
	"github.com/nao1215/newsbrief/internal/search"
	"github.com/nao1215/newsbrief/internal/summarizer"
	openai "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"
)

// reportedError marks an error the console has already shown to the user.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// NewRootCmd creates the root command for newsbrief.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "newsbrief",
		Short: "Summarize the latest news on a topic",
		Long: `newsbrief searches the web for a query, reads the result pages that
robots.txt permits and asks a language model for a headline summary
with source links.

The model-service key is read from OPENAI_API_KEY. A .env file in the
current directory is loaded first when present.`,
		Version:       getVersion(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRootCmd,
	}
	cmd.SetVersionTemplate(versionTemplate())

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.Flags().StringP("query", "q", config.DefaultQuery,
		"The search query for news articles")
	cmd.Flags().IntP("articles", "n", config.DefaultArticleCount,
		"Number of articles to analyze")
	cmd.Flags().StringP("config", "c", "",
		"Path to configuration file (default: .newsbrief or ~/.config/newsbrief/config.yaml)")
	cmd.Flags().String("model", config.DefaultModel,
		"Chat-completion model with structured output support")
	cmd.Flags().IntP("parallel", "p", config.DefaultParallelism,
		"Number of articles fetched at the same time")
	cmd.Flags().DurationP("timeout", "t", config.DefaultArticleTimeout,
		"Timeout for each article fetch")
	cmd.Flags().String("extractor", config.ExtractorParagraphs,
		"Article text extractor: paragraphs or readability")
	cmd.Flags().StringP("format", "f", config.FormatMarkdown,
		"Summary output format: markdown or json")
	cmd.Flags().String("env-file", config.DefaultEnvFile,
		"Environment file loaded at startup when present")

	return cmd
}

// Execute runs the root command and exits with status 1 on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

// runRootCmd executes a newsbrief run.
func runRootCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if err := cfg.ValidateCredentials(); err != nil {
		return err
	}

	logger := applog.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return run(ctx, cfg, runEnv{
		stdout:     cmd.OutOrStdout(),
		stderr:     cmd.ErrOrStderr(),
		httpClient: &http.Client{},
		completer:  newOpenAIClient(cfg),
		logger:     logger,
	})
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from defaults, the config file, the
// environment and the flags the user set, in that order.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicitly given config file must exist; otherwise the default
	// locations are optional.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.Apply(cfg)
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	cfg.EnvFile, err = flags.GetString("env-file")
	if err != nil {
		return nil, err
	}
	if err := config.LoadEnvFile(cfg.EnvFile); err != nil {
		return nil, fmt.Errorf("failed to load env file %s: %w", cfg.EnvFile, err)
	}
	cfg.LoadEnv()

	if flags.Changed("query") {
		if cfg.Query, err = flags.GetString("query"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("articles") {
		if cfg.ArticleCount, err = flags.GetInt("articles"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("model") {
		if cfg.Model, err = flags.GetString("model"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("parallel") {
		if cfg.Parallelism, err = flags.GetInt("parallel"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("timeout") {
		if cfg.ArticleTimeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("extractor") {
		if cfg.Extractor, err = flags.GetString("extractor"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("format") {
		if cfg.Format, err = flags.GetString("format"); err != nil {
			return nil, err
		}
	}

	cfg.Verbose = getVerboseFlag(cmd)
	return cfg, nil
}

// newOpenAIClient creates the model-service client.
func newOpenAIClient(cfg *config.Config) *openai.Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return openai.NewClientWithConfig(clientCfg)
}

// runEnv carries the collaborators of a run.
type runEnv struct {
	stdout     io.Writer
	stderr     io.Writer
	httpClient *http.Client
	completer  summarizer.ChatCompleter
	logger     *slog.Logger
}

// run executes one query end to end. Progress goes to stderr, the summary
// to stdout. "No articles found" is reported and is not an error.
func run(ctx context.Context, cfg *config.Config, env runEnv) error {
	logger := env.logger
	if logger == nil {
		logger = slog.Default()
	}
	console := render.NewConsole(env.stderr)

	client := fetch.NewClient(env.httpClient,
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
		fetch.WithLogger(logger),
	)

	var extractor collector.Extractor = collector.ParagraphExtractor{}
	if cfg.Extractor == config.ExtractorReadability {
		extractor = collector.ReadabilityExtractor{}
	}

	var writer render.Writer = render.NewMarkdownWriter(env.stdout)
	if cfg.Format == config.FormatJSON {
		writer = render.NewJSONWriter(env.stdout, render.WithPrettyPrint())
	}

	p := pipeline.NewNewsPipeline(
		search.NewHarvester(client,
			search.WithBaseURL(cfg.SearchURL),
			search.WithLogger(logger),
		),
		collector.New(client, robots.NewChecker(client, robots.WithLogger(logger)),
			collector.WithExtractor(extractor),
			collector.WithTimeout(cfg.ArticleTimeout),
			collector.WithMaxChars(cfg.MaxArticleChars),
			collector.WithParallelism(cfg.Parallelism),
			collector.WithProgress(console.Processing),
			collector.WithOutcome(console.Outcome),
			collector.WithLogger(logger),
		),
		summarizer.New(env.completer,
			summarizer.WithModel(cfg.Model),
			summarizer.WithLogger(logger),
		),
		writer,
		logger,
		pipeline.WithReporter(console),
	)

	runState := model.NewRun(cfg.Query, cfg.ArticleCount)
	err := p.Execute(ctx, runState)
	switch {
	case err == nil:
		logger.Debug("run complete",
			"query", cfg.Query,
			"steps", runState.PerformedSteps,
			"elapsed", runState.Elapsed(),
		)
		return nil
	case errors.Is(err, model.ErrNoArticles):
		console.NoArticles()
		return nil
	default:
		console.Error(err)
		return &reportedError{err: err}
	}
}
