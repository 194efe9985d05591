package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/promolabs/promosync/internal/config"
	"github.com/promolabs/promosync/internal/cosmos"
	"github.com/promolabs/promosync/internal/ingest"
	productdomain "github.com/promolabs/promosync/internal/product/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, log *zap.Logger, reg *prometheus.Registry) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log.Named("http")))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	// The gorm prometheus plugin registers its pool stats on the default
	// registry, so /metrics gathers both.
	gatherers := prometheus.Gatherers{reg, prometheus.DefaultGatherer}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{})))

	return r
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

type Server struct {
	engine     *gin.Engine
	productSvc productdomain.Service
	ingestSvc  *ingest.Service
	catalog    *cosmos.Client
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	ProductSvc productdomain.Service
	IngestSvc  *ingest.Service
	Catalog    *cosmos.Client
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:     p.Gin,
		productSvc: p.ProductSvc,
		ingestSvc:  p.IngestSvc,
		catalog:    p.Catalog,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	v1 := s.engine.Group("/v1")
	v1.POST("/cosmos/gpc/:code/sync", s.SyncGPC)
	v1.GET("/cosmos/gtin/:code", s.GetGTIN)
	v1.POST("/imports/openfoodfacts", s.ImportOpenFoodFacts)
	v1.GET("/products", s.ListProducts)
	v1.GET("/products/:barcode", s.GetProductByBarcode)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
