// Package config loads the service configuration from a YAML file with
// environment-variable overrides for credentials and provider selection.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"ats-optimizer-go/internal/logger"
	"ats-optimizer-go/internal/store"
)

// ProviderSettings is one provider's credential and model pair.
type ProviderSettings struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// OracleConfig selects and configures the generation provider.
type OracleConfig struct {
	Provider       string           `yaml:"provider"` // groq, gemini, openai, openrouter
	TimeoutSeconds int              `yaml:"timeout_seconds"`
	Groq           ProviderSettings `yaml:"groq"`
	Gemini         ProviderSettings `yaml:"gemini"`
	OpenAI         ProviderSettings `yaml:"openai"`
	OpenRouter     ProviderSettings `yaml:"openrouter"`
}

// PipelineConfig carries the chunking and retry knobs of the core.
type PipelineConfig struct {
	ChunkMaxChars           int     `yaml:"chunk_max_chars"`
	ChunkMinChars           int     `yaml:"chunk_min_chars"`
	ChunkOverlapChars       int     `yaml:"chunk_overlap_chars"`
	MaxSelectedChunks       int     `yaml:"max_selected_chunks"`
	MaxRetries              int     `yaml:"max_retries"`
	RequirementsTemperature float64 `yaml:"requirements_temperature"`
	FactsTemperature        float64 `yaml:"facts_temperature"`
	RewriteTemperature      float64 `yaml:"rewrite_temperature"`
}

// LimitsConfig bounds what the HTTP surface accepts.
type LimitsConfig struct {
	MaxPDFSizeMB           int `yaml:"max_pdf_size_mb"`
	MaxJobDescriptionChars int `yaml:"max_job_description_chars"`
}

// StoreConfig selects the run-bookkeeping store backend.
type StoreConfig struct {
	Type          string            `yaml:"type"` // memory or redis
	Capacity      int               `yaml:"capacity"`
	RunTTLSeconds int               `yaml:"run_ttl_seconds"`
	Redis         store.RedisConfig `yaml:"redis"`
}

// ServerConfig holds the listener settings.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// Config is the root configuration document.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Logger   logger.Config  `yaml:"logger"`
	Oracle   OracleConfig   `yaml:"oracle"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Limits   LimitsConfig   `yaml:"limits"`
	Store    StoreConfig    `yaml:"store"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Address: ":8080"},
		Logger: logger.Config{Level: "info", Format: "json"},
		Oracle: OracleConfig{
			Provider:       "groq",
			TimeoutSeconds: 90,
			Groq:           ProviderSettings{Model: "llama-3.1-8b-instant"},
			Gemini:         ProviderSettings{Model: "gemini-1.5-flash"},
			OpenAI:         ProviderSettings{Model: "gpt-4o-mini"},
			OpenRouter:     ProviderSettings{Model: "meta-llama/llama-3.1-8b-instruct:free"},
		},
		Pipeline: PipelineConfig{
			ChunkMaxChars:           1100,
			ChunkMinChars:           260,
			ChunkOverlapChars:       150,
			MaxSelectedChunks:       6,
			MaxRetries:              2,
			RequirementsTemperature: 0.10,
			FactsTemperature:        0.05,
			RewriteTemperature:      0.15,
		},
		Limits: LimitsConfig{
			MaxPDFSizeMB:           5,
			MaxJobDescriptionChars: 15000,
		},
		Store: StoreConfig{
			Type:          "memory",
			Capacity:      1024,
			RunTTLSeconds: 3600,
		},
	}
}

// Load reads the YAML file at path (when it exists) over the defaults and
// then applies environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config file %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv maps the environment surface onto the config. Credentials only
// ever come from the environment in practice; the YAML keys exist for
// local development.
func (c *Config) applyEnv() {
	setString(&c.Oracle.Provider, "AI_PROVIDER")
	setInt(&c.Oracle.TimeoutSeconds, "AI_TIMEOUT_SECONDS")
	setString(&c.Oracle.Groq.APIKey, "GROQ_API_KEY")
	setString(&c.Oracle.Groq.Model, "GROQ_MODEL")
	setString(&c.Oracle.Gemini.APIKey, "GEMINI_API_KEY")
	setString(&c.Oracle.Gemini.Model, "GEMINI_MODEL")
	setString(&c.Oracle.OpenAI.APIKey, "OPENAI_API_KEY")
	setString(&c.Oracle.OpenAI.Model, "OPENAI_MODEL")
	setString(&c.Oracle.OpenRouter.APIKey, "OPENROUTER_API_KEY")
	setString(&c.Oracle.OpenRouter.Model, "OPENROUTER_MODEL")
	setInt(&c.Pipeline.ChunkMaxChars, "RESUME_CHUNK_MAX_CHARS")
	setInt(&c.Pipeline.ChunkMinChars, "RESUME_CHUNK_MIN_CHARS")
	setInt(&c.Pipeline.ChunkOverlapChars, "RESUME_CHUNK_OVERLAP_CHARS")
	setInt(&c.Pipeline.MaxSelectedChunks, "RESUME_CHUNK_MAX_SELECTED")
	setInt(&c.Pipeline.MaxRetries, "AI_JSON_MAX_RETRIES")
	setString(&c.Server.Address, "SERVER_ADDRESS")
	setString(&c.Store.Type, "STORE_TYPE")
	setString(&c.Store.Redis.Address, "REDIS_ADDRESS")
	setString(&c.Store.Redis.Password, "REDIS_PASSWORD")
	setString(&c.Logger.Level, "LOG_LEVEL")
	setString(&c.Logger.Format, "LOG_FORMAT")
}

func setString(target *string, env string) {
	if value, ok := os.LookupEnv(env); ok && value != "" {
		*target = value
	}
}

func setInt(target *int, env string) {
	if value, ok := os.LookupEnv(env); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			*target = parsed
		}
	}
}
