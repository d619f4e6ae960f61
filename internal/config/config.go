// Package config provides configuration management for appmatch.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultListenPort is the default HTTP port for the matching service.
	DefaultListenPort = 8094

	// DefaultChatModel is the completion model used for translation,
	// extraction and question generation.
	DefaultChatModel = "gpt-4o-mini"

	// DefaultEmbeddingModel produces the query vectors for catalog search.
	DefaultEmbeddingModel = "text-embedding-3-small"

	// DefaultEmbeddingDimensions is the dimensionality of catalog embeddings.
	DefaultEmbeddingDimensions = 1536

	// DefaultTopK is how many candidates the vector search retrieves.
	DefaultTopK = 30

	// DefaultTopN is how many results a match returns.
	DefaultTopN = 10

	// DefaultProviderRetries bounds retry attempts against the AI provider.
	DefaultProviderRetries = 2
)

// Config holds the application configuration.
type Config struct {
	// HTTP settings
	ListenPort  int           `yaml:"listen_port"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`

	// Catalog store settings
	DatabaseURL string `yaml:"database_url"`

	// AI provider settings
	OpenAIBaseURL       string `yaml:"openai_base_url"`
	OpenAIAPIKey        string `yaml:"openai_api_key"`
	ChatModel           string `yaml:"chat_model"`
	EmbeddingModel      string `yaml:"embedding_model"`
	EmbeddingDimensions int    `yaml:"embedding_dimensions"`
	ProviderRetries     int    `yaml:"provider_retries"`

	// Matching defaults
	TopK int `yaml:"top_k"`
	TopN int `yaml:"top_n"`
}

var (
	globalConfig *Config
	configOnce   sync.Once
)

// SettingsPath returns the settings file path (~/.appmatch/settings.yaml).
func SettingsPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".appmatch", "settings.yaml")
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		ListenPort:          DefaultListenPort,
		HTTPTimeout:         30 * time.Second,
		ChatModel:           DefaultChatModel,
		EmbeddingModel:      DefaultEmbeddingModel,
		EmbeddingDimensions: DefaultEmbeddingDimensions,
		ProviderRetries:     DefaultProviderRetries,
		TopK:                DefaultTopK,
		TopN:                DefaultTopN,
	}
}

// Load loads configuration from the settings file and environment,
// merging with defaults. A missing or unparsable settings file keeps
// the defaults; environment variables win over the file.
func Load() (*Config, error) {
	cfg := Default()

	if data, err := os.ReadFile(SettingsPath()); err == nil {
		_ = yaml.Unmarshal(data, cfg)
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	applyEnv(cfg)

	if cfg.ListenPort <= 0 {
		cfg.ListenPort = DefaultListenPort
	}
	if cfg.EmbeddingDimensions <= 0 {
		cfg.EmbeddingDimensions = DefaultEmbeddingDimensions
	}
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.TopN <= 0 {
		cfg.TopN = DefaultTopN
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}

	return cfg, nil
}

// applyEnv overlays APPMATCH_* environment variables onto cfg.
func applyEnv(cfg *Config) {
	if v := os.Getenv("APPMATCH_LISTEN_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			cfg.ListenPort = p
		}
	}
	if v := os.Getenv("APPMATCH_DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.OpenAIBaseURL = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAIAPIKey = v
	}
	if v := os.Getenv("APPMATCH_CHAT_MODEL"); v != "" {
		cfg.ChatModel = v
	}
	if v := os.Getenv("APPMATCH_EMBEDDING_MODEL"); v != "" {
		cfg.EmbeddingModel = v
	}
	if v := os.Getenv("APPMATCH_EMBEDDING_DIMENSIONS"); v != "" {
		if d, err := strconv.Atoi(v); err == nil && d > 0 {
			cfg.EmbeddingDimensions = d
		}
	}
	if v := os.Getenv("APPMATCH_TOP_K"); v != "" {
		if k, err := strconv.Atoi(v); err == nil && k > 0 {
			cfg.TopK = k
		}
	}
	if v := os.Getenv("APPMATCH_TOP_N"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TopN = n
		}
	}
}

// Get returns the global configuration, loading it if necessary.
func Get() *Config {
	configOnce.Do(func() {
		var err error
		globalConfig, err = Load()
		if err != nil {
			globalConfig = Default()
		}
	})
	return globalConfig
}
