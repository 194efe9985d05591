package imageresolver

import (
	"net/url"

	"github.com/promolabs/promosync/internal/assetstore"
	"github.com/promolabs/promosync/internal/config"
	obsmetrics "github.com/promolabs/promosync/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("imageresolver",
	fx.Provide(func(store assetstore.ObjectStore, cfg config.Config, log *zap.Logger, m *obsmetrics.Pipeline) *Resolver {
		return New(store, Config{
			UserAgent:   cfg.Cosmos.UserAgent,
			Referer:     cfg.Cosmos.Referer,
			SourceHost:  hostOf(cfg.Cosmos.BaseURL),
			SourceToken: cfg.Cosmos.Token,
		}, log, m)
	}),
)

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	// api.cosmos.bluesoft.com.br and cosmos.bluesoft.com.br share the token.
	host := u.Hostname()
	const prefix = "api."
	if len(host) > len(prefix) && host[:len(prefix)] == prefix {
		return host[len(prefix):]
	}
	return host
}
