package assetstore

import (
	"context"

	"github.com/promolabs/promosync/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("assetstore",
	fx.Provide(func(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (ObjectStore, error) {
		store, err := NewMinioStore(Config{
			Endpoint:      cfg.Asset.Endpoint,
			AccessKey:     cfg.Asset.AccessKey,
			SecretKey:     cfg.Asset.SecretKey,
			Bucket:        cfg.Asset.Bucket,
			Region:        cfg.Asset.Region,
			UseSSL:        cfg.Asset.UseSSL,
			PublicBaseURL: cfg.Asset.PublicBaseURL,
		}, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				return store.EnsureBucket(ctx)
			},
		})
		return store, nil
	}),
)
