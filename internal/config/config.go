package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration for careerbot.
type Config struct {
	AI          AIConfig
	Jobs        JobsConfig
	Store       StoreConfig
	Server      ServerConfig
	DefaultUser string
}

// AIConfig selects and configures the language model provider.
type AIConfig struct {
	Provider string        // "gemini" or "openai"
	Model    string        // e.g. "gemini-2.5-flash"
	APIKey   string        // expanded from env var by Load
	BaseURL  string        // only used by the openai provider
	Timeout  time.Duration // per-request timeout, zero keeps the provider default
	Retries  int
}

// JobsConfig controls the job board adapter.
type JobsConfig struct {
	Source   string        // "linkedin" or "jsearch"
	Limit    int           // listings per search
	Timeout  time.Duration // per-request timeout
	APIKey   string        // RapidAPI key, required for jsearch
	Retries  int           // extra attempts on transient failures
	MinDelay time.Duration // minimum gap between requests to the same board
}

// StoreConfig selects the session store.
type StoreConfig struct {
	Type string `yaml:"type"` // "json" or "sqlite"
	Path string `yaml:"path"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	SourceLinkedIn = "linkedin"
	SourceJSearch  = "jsearch"

	StoreJSON   = "json"
	StoreSQLite = "sqlite"

	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultGeminiModel   = "gemini-2.5-flash"
	defaultOpenAIModel   = "gpt-4o-mini"
)

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	AI          rawAIConfig   `yaml:"ai"`
	Jobs        rawJobsConfig `yaml:"jobs"`
	Store       StoreConfig   `yaml:"store"`
	Server      ServerConfig  `yaml:"server"`
	DefaultUser string        `yaml:"default_user"`
}

type rawAIConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"`
	Timeout  string `yaml:"timeout"`
	Retries  *int   `yaml:"retries"`
}

type rawJobsConfig struct {
	Source   string `yaml:"source"`
	Limit    int    `yaml:"limit"`
	Timeout  string `yaml:"timeout"`
	APIKey   string `yaml:"api_key"`
	Retries  *int   `yaml:"retries"`
	MinDelay string `yaml:"min_delay"`
}

// Load reads the YAML config at path, expands environment variables, applies
// defaults and validates the result. A .env file in the working directory is
// merged into the environment first. A missing config file yields the
// defaults, which still require GEMINI_API_KEY to be set.
func Load(path string) (*Config, error) {
	// .env is optional; variables already set take precedence.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg, err := fromRaw(raw)
	if err != nil {
		return nil, err
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromRaw(raw rawConfig) (*Config, error) {
	var err error

	provider := raw.AI.Provider
	if provider == "" {
		provider = ProviderGemini
	}

	apiKey := raw.AI.APIKey
	if apiKey == "" {
		apiKey = defaultAPIKey(provider)
	}

	model := raw.AI.Model
	if model == "" {
		model = defaultGeminiModel
		if provider == ProviderOpenAI {
			model = defaultOpenAIModel
		}
	}

	baseURL := raw.AI.BaseURL
	if baseURL == "" && provider == ProviderOpenAI {
		baseURL = defaultOpenAIBaseURL
	}

	var aiTimeout time.Duration
	if raw.AI.Timeout != "" {
		aiTimeout, err = time.ParseDuration(raw.AI.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse ai.timeout %q: %w", raw.AI.Timeout, err)
		}
	}

	source := raw.Jobs.Source
	if source == "" {
		source = SourceLinkedIn
	}

	jobsAPIKey := raw.Jobs.APIKey
	if jobsAPIKey == "" {
		jobsAPIKey = os.Getenv("JSEARCH_API_KEY")
	}

	limit := raw.Jobs.Limit
	if limit == 0 {
		limit = 5
	}

	jobsTimeout := 10 * time.Second // default
	if raw.Jobs.Timeout != "" {
		jobsTimeout, err = time.ParseDuration(raw.Jobs.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse jobs.timeout %q: %w", raw.Jobs.Timeout, err)
		}
	}

	minDelay := 2 * time.Second // default
	if raw.Jobs.MinDelay != "" {
		minDelay, err = time.ParseDuration(raw.Jobs.MinDelay)
		if err != nil {
			return nil, fmt.Errorf("parse jobs.min_delay %q: %w", raw.Jobs.MinDelay, err)
		}
	}

	store := raw.Store
	if store.Type == "" {
		store.Type = StoreJSON
	}
	if store.Path == "" {
		store.Path = "user_memory.json"
		if store.Type == StoreSQLite {
			store.Path = "careerbot.db"
		}
	}

	server := raw.Server
	if server.Addr == "" {
		server.Addr = ":8000"
	}
	if len(server.AllowedOrigins) == 0 {
		server.AllowedOrigins = []string{"*"}
	}

	defaultUser := raw.DefaultUser
	if defaultUser == "" {
		defaultUser = "default"
	}

	return &Config{
		AI: AIConfig{
			Provider: provider,
			Model:    model,
			APIKey:   apiKey,
			BaseURL:  baseURL,
			Timeout:  aiTimeout,
			Retries:  intOr(raw.AI.Retries, 1),
		},
		Jobs: JobsConfig{
			Source:   source,
			Limit:    limit,
			Timeout:  jobsTimeout,
			APIKey:   jobsAPIKey,
			Retries:  intOr(raw.Jobs.Retries, 1),
			MinDelay: minDelay,
		},
		Store:       store,
		Server:      server,
		DefaultUser: defaultUser,
	}, nil
}

func defaultAPIKey(provider string) string {
	if provider == ProviderOpenAI {
		return os.Getenv("OPENAI_API_KEY")
	}
	return os.Getenv("GEMINI_API_KEY")
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func validate(cfg *Config) error {
	switch cfg.AI.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("ai.provider must be %q or %q, got %q", ProviderGemini, ProviderOpenAI, cfg.AI.Provider)
	}
	if cfg.AI.APIKey == "" {
		return fmt.Errorf("ai.api_key is required (set GEMINI_API_KEY or ai.api_key)")
	}
	if cfg.AI.Retries < 0 {
		return fmt.Errorf("ai.retries must not be negative, got %d", cfg.AI.Retries)
	}

	switch cfg.Jobs.Source {
	case SourceLinkedIn:
	case SourceJSearch:
		if cfg.Jobs.APIKey == "" {
			return fmt.Errorf("jobs.api_key is required when jobs.source is %q", SourceJSearch)
		}
	default:
		return fmt.Errorf("jobs.source must be %q or %q, got %q", SourceLinkedIn, SourceJSearch, cfg.Jobs.Source)
	}
	if cfg.Jobs.Limit < 1 || cfg.Jobs.Limit > 10 {
		return fmt.Errorf("jobs.limit must be between 1 and 10, got %d", cfg.Jobs.Limit)
	}
	if cfg.Jobs.Timeout <= 0 {
		return fmt.Errorf("jobs.timeout must be positive, got %v", cfg.Jobs.Timeout)
	}
	if cfg.Jobs.Retries < 0 {
		return fmt.Errorf("jobs.retries must not be negative, got %d", cfg.Jobs.Retries)
	}

	switch cfg.Store.Type {
	case StoreJSON, StoreSQLite:
	default:
		return fmt.Errorf("store.type must be %q or %q, got %q", StoreJSON, StoreSQLite, cfg.Store.Type)
	}

	return nil
}
