package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/promolabs/promosync/internal/config"
	"github.com/promolabs/promosync/internal/observability/logger"
	"github.com/promolabs/promosync/internal/observability/metrics"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(
		provideLoggerConfig,
		logger.New,
		provideRegistry,
		providePipelineMetrics,
	),
)

func provideLoggerConfig(cfg config.Config) logger.Config {
	return logger.Config{
		ServiceName: cfg.AppName,
		Environment: cfg.Environment,
		Version:     cfg.AppVersion,
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
	}
}

func provideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	return reg
}

func providePipelineMetrics(reg *prometheus.Registry) (*metrics.Pipeline, error) {
	return metrics.NewPipeline(reg)
}
