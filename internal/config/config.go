package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type (
	// Config holds configuration settings for the assistant service
	Config struct {
		// API Server
		APIHost  string
		APIPort  int
		LogLevel string

		// Mode & External Services
		OfflineForced bool
		Model         ModelConfig
		BackendURL    string

		// Pacing
		StatusDelay time.Duration
		FrameDelay  time.Duration

		// Timeouts
		ClassifyTimeout  time.Duration
		SynthesisTimeout time.Duration
		ChatTimeout      time.Duration
		ShutdownTimeout  time.Duration

		// Blueprint Store
		Store StoreConfig
	}

	// ModelConfig selects and addresses the external text-generation model
	ModelConfig struct {
		Provider string
		APIKey   string
		BaseURL  string
		Name     string
	}

	// StoreConfig addresses the generated blueprint store
	StoreConfig struct {
		URL       string
		Prefix    string
		CacheSize int
	}
)

const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

const (
	DefaultAPIPort = 8080
	DefaultAPIHost = "0.0.0.0"
	MaxTCPPort     = 65535

	DefaultOpenAIModel = "gpt-3.5-turbo"
	DefaultOllamaModel = "llama3.1"
	DefaultBackendURL  = "http://localhost:8080"

	DefaultStatusDelay      = 800 * time.Millisecond
	DefaultFrameDelay       = 100 * time.Millisecond
	DefaultClassifyTimeout  = 10 * time.Second
	DefaultSynthesisTimeout = 60 * time.Second
	DefaultChatTimeout      = 120 * time.Second
	DefaultShutdownTimeout  = 10 * time.Second

	DefaultStoreURL       = "memory://"
	DefaultStorePrefix    = "workflows/"
	DefaultStoreCacheSize = 1024

	MaxDelayMillis    = 60_000
	MaxTimeoutMillis  = 3_600_000
	MaxStoreCacheSize = 1_000_000
)

var (
	ErrInvalidAPIPort    = errors.New("invalid API port")
	ErrInvalidProvider   = errors.New("invalid model provider")
	ErrInvalidBackendURL = errors.New("invalid backend URL")
	ErrInvalidDelay      = errors.New("pacing delay cannot be negative")
	ErrInvalidTimeout    = errors.New("timeout must be positive")
	ErrInvalidStoreURL   = errors.New("store URL is required")
	ErrInvalidCacheSize  = errors.New("store cache size must be positive")
	ErrInvalidBool       = errors.New("invalid boolean")
)

// NewDefaultConfig creates a configuration with sensible defaults. With no
// model credentials configured, the defaults run the service offline
func NewDefaultConfig() *Config {
	return &Config{
		APIPort:  DefaultAPIPort,
		APIHost:  DefaultAPIHost,
		LogLevel: "info",
		Model: ModelConfig{
			Provider: ProviderOpenAI,
			Name:     DefaultOpenAIModel,
		},
		BackendURL:       DefaultBackendURL,
		StatusDelay:      DefaultStatusDelay,
		FrameDelay:       DefaultFrameDelay,
		ClassifyTimeout:  DefaultClassifyTimeout,
		SynthesisTimeout: DefaultSynthesisTimeout,
		ChatTimeout:      DefaultChatTimeout,
		ShutdownTimeout:  DefaultShutdownTimeout,
		Store: StoreConfig{
			URL:       DefaultStoreURL,
			Prefix:    DefaultStorePrefix,
			CacheSize: DefaultStoreCacheSize,
		},
	}
}

// LoadDotEnv loads variables from the given .env files (or ".env" when
// none are given) into the process environment. Missing files are ignored
// and variables already set are not overridden
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// LoadFromEnv populates configuration values from environment variables.
// Returns an error if any env var cannot be parsed.
func (c *Config) LoadFromEnv() error {
	if apiHost := os.Getenv("API_HOST"); apiHost != "" {
		c.APIHost = apiHost
	}
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.LogLevel = logLevel
	}
	if backendURL := os.Getenv("BACKEND_URL"); backendURL != "" {
		c.BackendURL = backendURL
	}
	if err := loadEnvBool("MOCK_MODE", &c.OfflineForced); err != nil {
		return err
	}
	c.loadModelFromEnv()
	if err := loadEnvInt("API_PORT", &c.APIPort, 0, MaxTCPPort); err != nil {
		return err
	}

	if err := loadEnvMillis(
		"STATUS_DELAY_MS", &c.StatusDelay, -1, MaxDelayMillis,
	); err != nil {
		return err
	}
	if err := loadEnvMillis(
		"FRAME_DELAY_MS", &c.FrameDelay, -1, MaxDelayMillis,
	); err != nil {
		return err
	}
	if err := loadEnvMillis(
		"CLASSIFY_TIMEOUT_MS", &c.ClassifyTimeout, 0, MaxTimeoutMillis,
	); err != nil {
		return err
	}
	if err := loadEnvMillis(
		"SYNTHESIS_TIMEOUT_MS", &c.SynthesisTimeout, 0, MaxTimeoutMillis,
	); err != nil {
		return err
	}
	if err := loadEnvMillis(
		"CHAT_TIMEOUT_MS", &c.ChatTimeout, 0, MaxTimeoutMillis,
	); err != nil {
		return err
	}
	if err := loadEnvMillis(
		"SHUTDOWN_TIMEOUT_MS", &c.ShutdownTimeout, 0, MaxTimeoutMillis,
	); err != nil {
		return err
	}

	if storeURL := os.Getenv("STORE_URL"); storeURL != "" {
		c.Store.URL = storeURL
	}
	if prefix := os.Getenv("STORE_PREFIX"); prefix != "" {
		c.Store.Prefix = prefix
	}
	return loadEnvInt(
		"STORE_CACHE_SIZE", &c.Store.CacheSize, 0, MaxStoreCacheSize,
	)
}

func (c *Config) loadModelFromEnv() {
	if provider := os.Getenv("LLM_PROVIDER"); provider != "" {
		c.Model.Provider = provider
	}

	switch c.Model.Provider {
	case ProviderOllama:
		if c.Model.Name == DefaultOpenAIModel {
			c.Model.Name = DefaultOllamaModel
		}
		if baseURL := os.Getenv("OLLAMA_URL"); baseURL != "" {
			c.Model.BaseURL = baseURL
		}
		if name := os.Getenv("OLLAMA_MODEL"); name != "" {
			c.Model.Name = name
		}
	default:
		if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
			c.Model.APIKey = apiKey
		}
		if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
			c.Model.BaseURL = baseURL
		}
		if name := os.Getenv("OPENAI_MODEL"); name != "" {
			c.Model.Name = name
		}
	}
}

// Offline reports whether the service runs without external models or
// services, using deterministic rules only
func (c *Config) Offline() bool {
	return c.OfflineForced || !c.Model.Configured()
}

// Configured reports whether enough is known to reach the model
func (m ModelConfig) Configured() bool {
	switch m.Provider {
	case ProviderOllama:
		return m.BaseURL != ""
	default:
		return m.APIKey != ""
	}
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.APIPort <= 0 || c.APIPort > MaxTCPPort {
		return fmt.Errorf("%w: %d", ErrInvalidAPIPort, c.APIPort)
	}

	if c.Model.Provider != ProviderOpenAI &&
		c.Model.Provider != ProviderOllama {
		return fmt.Errorf("%w: %s", ErrInvalidProvider, c.Model.Provider)
	}

	u, err := url.Parse(c.BackendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidBackendURL, c.BackendURL)
	}

	if c.StatusDelay < 0 || c.FrameDelay < 0 {
		return ErrInvalidDelay
	}

	if c.ClassifyTimeout <= 0 || c.SynthesisTimeout <= 0 ||
		c.ChatTimeout <= 0 || c.ShutdownTimeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.Store.URL == "" {
		return ErrInvalidStoreURL
	}

	if c.Store.CacheSize <= 0 {
		return ErrInvalidCacheSize
	}

	return nil
}

// loadEnvInt reads key from the environment, parses it as an integer, and
// sets *dst if the value is in the range (min, max]. Returns an error if
// the value cannot be parsed or falls outside the valid range.
func loadEnvInt[T ~int | ~int64](key string, dst *T, min, max T) error {
	s := os.Getenv(key)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %q", key, s)
	}
	tv := T(v)
	if tv <= min || tv > max {
		return fmt.Errorf("invalid %s: %d out of range [%d, %d]",
			key, tv, min+1, max)
	}
	*dst = tv
	return nil
}

// loadEnvMillis reads a millisecond count from the environment into a
// duration, with the same range rules as loadEnvInt
func loadEnvMillis(key string, dst *time.Duration, min, max int64) error {
	if os.Getenv(key) == "" {
		return nil
	}
	var ms int64
	if err := loadEnvInt(key, &ms, min, max); err != nil {
		return err
	}
	*dst = time.Duration(ms) * time.Millisecond
	return nil
}

func loadEnvBool(key string, dst *bool) error {
	s := os.Getenv(key)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("%w: %s=%q", ErrInvalidBool, key, s)
	}
	*dst = v
	return nil
}
