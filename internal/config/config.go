package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/medlit-search-server/internal/domain"
)

// Manager loads and validates service configuration using Viper.
type Manager struct {
	config *domain.Config
}

// NewManager creates a configuration manager, reading config.yaml when
// present and falling back to defaults and MEDLIT_-prefixed env vars.
func NewManager() (*Manager, error) {
	m := &Manager{}
	if err := m.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

func (m *Manager) loadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/medlit-search-server/")

	viper.SetEnvPrefix("MEDLIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	m.setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; defaults and environment variables apply.
	}

	config := &domain.Config{}
	if err := viper.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	m.config = config
	return nil
}

func (m *Manager) setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "60s")
	viper.SetDefault("server.idle_timeout", "120s")

	// External bibliographic sources. Every adapter uses an 8-second
	// per-request deadline so a slow upstream bounds only its own task.
	viper.SetDefault("sources.pubmed.base_url", "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/")
	viper.SetDefault("sources.pubmed.timeout", "8s")
	viper.SetDefault("sources.pubmed.rate_limit", 3) // NCBI etiquette without an API key
	viper.SetDefault("sources.pubmed.max_results", 50)

	viper.SetDefault("sources.jstage.base_url", "https://api.jstage.jst.go.jp/searchapi/do")
	viper.SetDefault("sources.jstage.timeout", "8s")
	viper.SetDefault("sources.jstage.max_results", 25)

	viper.SetDefault("sources.s2.base_url", "https://api.semanticscholar.org/graph/v1/")
	viper.SetDefault("sources.s2.timeout", "8s")
	viper.SetDefault("sources.s2.max_results", 25)

	viper.SetDefault("sources.openalex.base_url", "https://api.openalex.org/")
	viper.SetDefault("sources.openalex.timeout", "8s")
	viper.SetDefault("sources.openalex.max_results", 25)

	viper.SetDefault("sources.cinii.base_url", "https://cir.nii.ac.jp/opensearch/articles")
	viper.SetDefault("sources.cinii.timeout", "8s")
	viper.SetDefault("sources.cinii.max_results", 25)

	viper.SetDefault("sources.epmc.base_url", "https://www.ebi.ac.uk/europepmc/webservices/rest/search")
	viper.SetDefault("sources.epmc.timeout", "8s")
	viper.SetDefault("sources.epmc.max_results", 25)

	// Translation endpoint
	viper.SetDefault("translate.base_url", "https://translate.googleapis.com/translate_a/single")
	viper.SetDefault("translate.timeout", "5s")
	viper.SetDefault("translate.cache_ttl", "1h")

	// MeSH suggest endpoint
	viper.SetDefault("mesh.base_url", "https://clinicaltables.nlm.nih.gov/api/mesh_terms/v3/search")
	viper.SetDefault("mesh.timeout", "5s")
	viper.SetDefault("mesh.cache_ttl", "6h")

	// Generative-model proxy
	viper.SetDefault("ai.base_url", "https://generativelanguage.googleapis.com/v1beta")
	viper.SetDefault("ai.model", "gemini-2.0-flash")
	viper.SetDefault("ai.timeout", "30s")

	// Per-IP request window
	viper.SetDefault("rate_limit.requests", 60)
	viper.SetDefault("rate_limit.window", "60s")

	// CORS allow-list; the null origin covers file:// pages
	viper.SetDefault("cors.allowed_origins", []string{
		"http://localhost:3000",
		"http://localhost:8080",
		"https://medlit-search.example.org",
	})
	viper.SetDefault("cors.allow_null", true)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
}

// GetConfig returns the complete configuration.
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// Validate checks the loaded configuration for unusable values.
func (m *Manager) Validate() error {
	config := m.config

	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	sources := map[string]string{
		"pubmed":   config.Sources.PubMed.BaseURL,
		"jstage":   config.Sources.JStage.BaseURL,
		"s2":       config.Sources.S2.BaseURL,
		"openalex": config.Sources.OpenAlex.BaseURL,
		"cinii":    config.Sources.CiNii.BaseURL,
		"epmc":     config.Sources.EPMC.BaseURL,
	}
	for name, url := range sources {
		if url == "" {
			return fmt.Errorf("%s base URL is required", name)
		}
	}

	if config.Translate.BaseURL == "" {
		return fmt.Errorf("translate base URL is required")
	}
	if config.RateLimit.Requests <= 0 || config.RateLimit.Window <= 0 {
		return fmt.Errorf("rate limit requires a positive request count and window")
	}
	if len(config.CORS.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one CORS origin is required")
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	return nil
}
