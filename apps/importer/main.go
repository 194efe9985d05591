package main

import (
	"context"
	"flag"
	"os"

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
	"github.com/promolabs/promosync/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Headless Open Food Facts back-fill. Runs one file import to completion and
// exits; no HTTP server.
func main() {
	file := flag.String("file", "", "path to the JSONL dump (defaults to OFF_FILE_PATH)")
	flag.Parse()

	var exitCode int
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		checkpoint.Module,
		assetstore.Module,
		imageresolver.Module,
		product.Module,
		ingest.Module,

		fx.Invoke(func(lc fx.Lifecycle, shutdowner fx.Shutdowner, svc *ingest.Service, log *zap.Logger) {
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					go func() {
						summary, err := svc.ImportFile(context.Background(), *file)
						if err != nil {
							log.Error("import failed", zap.Error(err))
							exitCode = 1
						}
						if summary != nil {
							log.Info("import finished",
								zap.Int64("lines", summary.LinesRead),
								zap.Int("candidates", summary.Candidates),
								zap.Int("inserted", summary.Inserted),
								zap.Int("rejected", summary.Rejected),
								zap.Int("skipped", summary.Skipped),
							)
						}
						_ = shutdowner.Shutdown()
					}()
					return nil
				},
			})
		}),
	)
	app.Run()
	os.Exit(exitCode)
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
