package checkpoint

import (
	"github.com/promolabs/promosync/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("checkpoint",
	fx.Provide(func(cfg config.Config) (Store, error) {
		return NewFileStore(cfg.StateDir)
	}),
)
