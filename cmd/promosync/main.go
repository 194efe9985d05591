package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/promolabs/promosync/internal/assetstore"
	"github.com/promolabs/promosync/internal/checkpoint"
	"github.com/promolabs/promosync/internal/clock"
	"github.com/promolabs/promosync/internal/config"
	"github.com/promolabs/promosync/internal/imageresolver"
	"github.com/promolabs/promosync/internal/ingest"
	"github.com/promolabs/promosync/internal/migration"
	"github.com/promolabs/promosync/internal/observability"
	"github.com/promolabs/promosync/internal/product"
	"github.com/promolabs/promosync/internal/server"
	"github.com/promolabs/promosync/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Pipeline domains
		checkpoint.Module,
		assetstore.Module,
		imageresolver.Module,
		product.Module,
		ingest.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
