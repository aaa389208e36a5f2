package main

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	hertzzerolog "github.com/hertz-contrib/logger/zerolog"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"ats-optimizer-go/internal/api/handler"
	"ats-optimizer-go/internal/api/router"
	"ats-optimizer-go/internal/config"
	"ats-optimizer-go/internal/llm"
	"ats-optimizer-go/internal/logger"
	"ats-optimizer-go/internal/parser"
	"ats-optimizer-go/internal/pdftext"
	"ats-optimizer-go/internal/processor"
	"ats-optimizer-go/internal/store"
)

func main() {
	configPath := pflag.StringP("config", "c", "config.yaml", "path to the YAML configuration file")
	pflag.Parse()

	// Local development convenience; a missing .env is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.Init(cfg.Logger)
	hlog.SetLogger(hertzzerolog.From(logger.Logger))

	oracle, err := llm.NewOracle(cfg.Oracle)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build generation oracle")
	}

	pipeline, err := processor.NewPipeline(oracle,
		processor.WithChunkerConfig(parser.ChunkerConfig{
			MaxChars:     cfg.Pipeline.ChunkMaxChars,
			MinChars:     cfg.Pipeline.ChunkMinChars,
			OverlapChars: cfg.Pipeline.ChunkOverlapChars,
		}),
		processor.WithMaxSelectedChunks(cfg.Pipeline.MaxSelectedChunks),
		processor.WithMaxRetries(cfg.Pipeline.MaxRetries),
		processor.WithTemperatures(
			cfg.Pipeline.RequirementsTemperature,
			cfg.Pipeline.FactsTemperature,
			cfg.Pipeline.RewriteTemperature,
		),
		processor.WithLogger(logger.Logger),
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build pipeline")
	}

	runStore, err := buildStore(cfg.Store)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build run store")
	}
	defer func() {
		if err := runStore.Close(); err != nil {
			logger.Warn().Err(err).Msg("run store close failed")
		}
	}()

	runTTL := time.Duration(cfg.Store.RunTTLSeconds) * time.Second
	resumeHandler, err := handler.NewResumeHandler(pipeline, pdftext.NewExtractor(), runStore, cfg.Limits, runTTL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build resume handler")
	}

	h := server.Default(server.WithHostPorts(cfg.Server.Address))
	maxPDFBytes := int64(cfg.Limits.MaxPDFSizeMB) * 1024 * 1024
	router.RegisterRoutes(h, resumeHandler, maxPDFBytes)

	logger.Info().
		Str("address", cfg.Server.Address).
		Str("provider", cfg.Oracle.Provider).
		Msg("server starting")
	h.Spin()
}

func buildStore(cfg config.StoreConfig) (store.Store, error) {
	if cfg.Type == "redis" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return store.NewRedis(ctx, cfg.Redis)
	}
	return store.NewMemory(cfg.Capacity), nil
}
