package ingest

import (
	"github.com/promolabs/promosync/internal/config"
	"github.com/promolabs/promosync/internal/cosmos"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("ingest",
	fx.Provide(
		func(cfg config.Config, log *zap.Logger) *cosmos.Client {
			return cosmos.NewClient(cosmos.ClientConfig{
				BaseURL:   cfg.Cosmos.BaseURL,
				Token:     cfg.Cosmos.Token,
				UserAgent: cfg.Cosmos.UserAgent,
			}, log)
		},
		func(cfg config.Config) Config {
			return Config{
				BatchSize:   cfg.Ingest.BatchSize,
				MaxLines:    cfg.Ingest.MaxLines,
				MaxProducts: cfg.Ingest.MaxProducts,
				MaxPages:    cfg.Ingest.MaxPages,
				FilePath:    cfg.Ingest.OFFFilePath,
			}
		},
		New,
	),
)
