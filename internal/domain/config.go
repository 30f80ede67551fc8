package domain

import "time"

// Config is the complete service configuration, loaded by internal/config.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Sources   SourcesConfig   `mapstructure:"sources"`
	Translate TranslateConfig `mapstructure:"translate"`
	MeSH      MeSHConfig      `mapstructure:"mesh"`
	AI        AIConfig        `mapstructure:"ai"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// SourceConfig is the per-adapter upstream configuration. RateLimit is
// requests per second for outbound pacing; zero disables pacing.
type SourceConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	APIKey    string        `mapstructure:"api_key"`
	Email     string        `mapstructure:"email"`
	Timeout   time.Duration `mapstructure:"timeout"`
	RateLimit int           `mapstructure:"rate_limit"`
	MaxResult int           `mapstructure:"max_results"`
}

// SourcesConfig groups the six external bibliographic sources.
type SourcesConfig struct {
	PubMed   SourceConfig `mapstructure:"pubmed"`
	JStage   SourceConfig `mapstructure:"jstage"`
	S2       SourceConfig `mapstructure:"s2"`
	OpenAlex SourceConfig `mapstructure:"openalex"`
	CiNii    SourceConfig `mapstructure:"cinii"`
	EPMC     SourceConfig `mapstructure:"epmc"`
}

// TranslateConfig holds the translation endpoint settings.
type TranslateConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// MeSHConfig holds the MeSH suggest endpoint settings.
type MeSHConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// AIConfig holds the generative-model proxy settings. The client supplies
// its own API key per request; only the endpoint and model are server-side.
type AIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// RateLimitConfig controls the per-IP fixed request window.
type RateLimitConfig struct {
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// CORSConfig lists the origins echoed back by the CORS middleware.
// AllowNull admits the "null" origin sent by file:// pages.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowNull      bool     `mapstructure:"allow_null"`
}

// LoggingConfig controls the logrus logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
