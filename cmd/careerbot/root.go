package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/amishk599/careerbot/internal/ai"
	"github.com/amishk599/careerbot/internal/assistant"
	"github.com/amishk599/careerbot/internal/config"
	"github.com/amishk599/careerbot/internal/jobs"
	"github.com/amishk599/careerbot/internal/model"
	"github.com/amishk599/careerbot/internal/ratelimit"
	"github.com/amishk599/careerbot/internal/retry"
	"github.com/amishk599/careerbot/internal/store"
	"github.com/amishk599/careerbot/internal/tui"
)

var (
	cfgPath string
	debug   bool
	userID  string
)

var rootCmd = &cobra.Command{
	Use:   "careerbot",
	Short: "Career assistant for jobs, resumes and interviews",
	Long:  "careerbot answers career questions, searches job boards and analyzes your resume against job descriptions.",
	// Default to `chat` so that `careerbot` with no args opens the chat window.
	RunE:         runChat,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: CAREERBOT_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&userID, "user", "u", "", "session user ID (default: default_user from config)")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > CAREERBOT_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("CAREERBOT_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool, w io.Writer) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

// app bundles the wired components shared by every subcommand.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   model.SessionStore
	router  *assistant.Router
	analyst *assistant.Analyst
	user    string
	closers []func() error
}

// newApp loads config and builds the store, the model gateway and the job searcher.
func newApp(ctx context.Context, logger *slog.Logger) (*app, error) {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	a := &app{cfg: cfg, logger: logger, user: cfg.DefaultUser}
	if userID != "" {
		a.user = userID
	}

	a.store, err = a.setupStore()
	if err != nil {
		a.Close()
		return nil, err
	}

	gateway, err := a.setupGateway(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	searcher := a.setupSearcher()

	a.router = assistant.NewRouter(a.store, gateway, searcher, logger)
	a.analyst = assistant.NewAnalyst(a.store, gateway, searcher, logger)

	logger.Debug("config loaded",
		"provider", cfg.AI.Provider,
		"model", cfg.AI.Model,
		"jobs_source", cfg.Jobs.Source,
		"store", cfg.Store.Type,
		"user", a.user,
	)
	return a, nil
}

func (a *app) setupStore() (model.SessionStore, error) {
	switch a.cfg.Store.Type {
	case config.StoreSQLite:
		s, err := store.NewSQLiteStore(a.cfg.Store.Path, a.logger)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		a.closers = append(a.closers, s.Close)
		return s, nil
	default:
		return store.NewJSONStore(a.cfg.Store.Path, a.logger), nil
	}
}

func (a *app) setupGateway(ctx context.Context) (*ai.Gateway, error) {
	var provider ai.LLMProvider
	switch a.cfg.AI.Provider {
	case config.ProviderOpenAI:
		httpClient := &http.Client{Timeout: a.cfg.AI.Timeout}
		provider = ai.NewOpenAIProvider(a.cfg.AI.BaseURL, a.cfg.AI.APIKey, a.cfg.AI.Model, httpClient)
		a.logger.Debug("using openai provider", "model", a.cfg.AI.Model)
	default:
		gemini, err := ai.NewGeminiProvider(ctx, a.cfg.AI.APIKey, a.cfg.AI.Model)
		if err != nil {
			return nil, fmt.Errorf("create gemini provider: %w", err)
		}
		a.closers = append(a.closers, gemini.Close)
		provider = gemini
	}

	provider = retry.NewRetryProvider(provider, retry.Policy{
		MaxRetries: a.cfg.AI.Retries,
		BaseDelay:  2 * time.Second,
		Logger:     a.logger,
	})
	return ai.NewGateway(provider, a.logger).WithTimeout(a.cfg.AI.Timeout), nil
}

func (a *app) setupSearcher() *jobs.Searcher {
	httpClient := &http.Client{Timeout: a.cfg.Jobs.Timeout}

	var source model.JobSource
	switch a.cfg.Jobs.Source {
	case config.SourceJSearch:
		source = jobs.NewJSearchSource(a.cfg.Jobs.APIKey, httpClient)
	default:
		source = jobs.NewLinkedInSource(httpClient)
	}

	// Rate limit each attempt, retry outside the limiter.
	limiter := ratelimit.NewLimiter(a.cfg.Jobs.MinDelay)
	source = ratelimit.NewRateLimitedSource(source, limiter, a.cfg.Jobs.Source)
	source = retry.NewRetrySource(source, retry.Policy{
		MaxRetries: a.cfg.Jobs.Retries,
		BaseDelay:  3 * time.Second,
		Logger:     a.logger,
	})

	return jobs.NewSearcher(source, a.cfg.Jobs.Limit, a.logger)
}

// Close releases the store and provider clients.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("close failed", "error", err)
		}
	}
}

// openApp builds the app with a stderr logger for one-shot commands.
func openApp(cmd *cobra.Command) (*app, error) {
	return newApp(cmd.Context(), setupLogger(debug, os.Stderr))
}

// withSpinner runs work behind an inline spinner when stdout is a terminal.
func withSpinner(ctx context.Context, label string, work func(ctx context.Context) (string, error)) (string, error) {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return work(ctx)
	}
	return tui.RunSpinner(label, work)
}
