package product

import (
	"github.com/promolabs/promosync/internal/product/repository"
	"github.com/promolabs/promosync/internal/product/service"
	"go.uber.org/fx"
)

var Module = fx.Module("product.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
