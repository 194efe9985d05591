package ingest

import (
	"github.com/bwmarrin/snowflake"
	"github.com/promolabs/promosync/internal/checkpoint"
	"github.com/promolabs/promosync/internal/clock"
	"github.com/promolabs/promosync/internal/cosmos"
	"github.com/promolabs/promosync/internal/imageresolver"
	obsmetrics "github.com/promolabs/promosync/internal/observability/metrics"
	productdomain "github.com/promolabs/promosync/internal/product/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Repo        productdomain.Repository
	Client      *cosmos.Client
	Resolver    *imageresolver.Resolver
	Checkpoints checkpoint.Store
	Clock       clock.Clock
	Metrics     *obsmetrics.Pipeline `optional:"true"`
	Config      Config               `optional:"true"`
}

// Service drives ingestion runs: the paginated Cosmos sync and the Open Food
// Facts file import. One run is a single logical worker; the only internal
// concurrency is the bounded per-product image fan-out inside the resolver.
type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	cfg         Config
	genID       *snowflake.Node
	repo        productdomain.Repository
	client      *cosmos.Client
	resolver    *imageresolver.Resolver
	checkpoints checkpoint.Store
	clk         clock.Clock
	metrics     *obsmetrics.Pipeline

	upsert BatchWriter
	bulk   BatchWriter
}

func New(p Params) *Service {
	cfg := p.Config.withDefaults()
	log := p.Log.Named("ingest")
	return &Service{
		db:          p.DB,
		log:         log,
		cfg:         cfg,
		genID:       p.GenID,
		repo:        p.Repo,
		client:      p.Client,
		resolver:    p.Resolver,
		checkpoints: p.Checkpoints,
		clk:         p.Clock,
		metrics:     p.Metrics,
		upsert:      NewCheckedUpsert(p.DB, p.Repo, p.GenID, p.Clock, log),
		bulk:        NewBulkInsert(p.DB, p.Repo, p.GenID, p.Clock, log),
	}
}

func (s *Service) countScanned(source string, n int) {
	if s.metrics != nil {
		s.metrics.RecordsScanned.WithLabelValues(source).Add(float64(n))
	}
}

func (s *Service) countBatch(source string, res BatchResult) {
	if s.metrics == nil {
		return
	}
	s.metrics.BatchesFlushed.WithLabelValues(source).Inc()
	s.metrics.RecordsInserted.WithLabelValues(source).Add(float64(res.Inserted))
	s.metrics.RecordsUpdated.WithLabelValues(source).Add(float64(res.Updated))
	s.metrics.RecordsSkipped.WithLabelValues(source, "persistence").Add(float64(res.Skipped))
}

func (s *Service) countSkipped(source, reason string, n int) {
	if s.metrics != nil && n > 0 {
		s.metrics.RecordsSkipped.WithLabelValues(source, reason).Add(float64(n))
	}
}
