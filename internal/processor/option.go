package processor

import (
	"github.com/rs/zerolog"

	"ats-optimizer-go/internal/parser"
)

// Settings carries the tunable knobs of a pipeline. Zero values are
// replaced by defaults in NewPipeline.
type Settings struct {
	Chunker                 parser.ChunkerConfig
	MaxSelectedChunks       int
	MaxRetries              int
	RequirementsTemperature float64
	FactsTemperature        float64
	RewriteTemperature      float64
}

// Default knobs, matching the configuration floors and the per-stage
// temperatures the stages were tuned with.
const (
	DefaultMaxSelectedChunks       = 6
	DefaultMaxRetries              = 2
	DefaultRequirementsTemperature = 0.10
	DefaultFactsTemperature        = 0.05
	DefaultRewriteTemperature      = 0.15
	DefaultChunkMaxChars           = 1100
	DefaultChunkMinChars           = 260
	DefaultChunkOverlapChars       = 150
)

// Option mutates a pipeline during construction.
type Option func(*Pipeline)

// WithSettings replaces the full settings block.
func WithSettings(settings Settings) Option {
	return func(p *Pipeline) {
		p.settings = settings
	}
}

// WithChunkerConfig overrides the chunking bounds.
func WithChunkerConfig(cfg parser.ChunkerConfig) Option {
	return func(p *Pipeline) {
		p.settings.Chunker = cfg
	}
}

// WithMaxSelectedChunks bounds the optimization selection.
func WithMaxSelectedChunks(n int) Option {
	return func(p *Pipeline) {
		p.settings.MaxSelectedChunks = n
	}
}

// WithMaxRetries bounds repair retries per generation stage.
func WithMaxRetries(n int) Option {
	return func(p *Pipeline) {
		p.settings.MaxRetries = n
	}
}

// WithTemperatures sets the per-stage oracle temperatures.
func WithTemperatures(requirements, facts, rewrite float64) Option {
	return func(p *Pipeline) {
		p.settings.RequirementsTemperature = requirements
		p.settings.FactsTemperature = facts
		p.settings.RewriteTemperature = rewrite
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}
