package ingest

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/promolabs/promosync/internal/clock"
	productdomain "github.com/promolabs/promosync/internal/product/domain"
	"github.com/promolabs/promosync/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BatchResult counts the outcome of one flushed batch.
type BatchResult struct {
	Inserted int
	Updated  int
	Skipped  int
}

// BatchWriter persists one batch of canonical products. The two
// implementations deliberately differ in failure and idempotence semantics:
// the checked upsert enriches existing rows per record, the bulk insert only
// back-fills new rows. They are kept separate for that reason.
type BatchWriter interface {
	Write(ctx context.Context, batch []productdomain.Product) (BatchResult, error)
}

// checkedUpsert decides insert-vs-update per record by barcode lookup.
// A single record's failure is logged and counted, never aborting siblings.
type checkedUpsert struct {
	db    *gorm.DB
	repo  productdomain.Repository
	genID *snowflake.Node
	clk   clock.Clock
	log   *zap.Logger
}

func NewCheckedUpsert(conn *gorm.DB, repo productdomain.Repository, genID *snowflake.Node, clk clock.Clock, log *zap.Logger) BatchWriter {
	return &checkedUpsert{db: conn, repo: repo, genID: genID, clk: clk, log: log.Named("persist.upsert")}
}

func (w *checkedUpsert) Write(ctx context.Context, batch []productdomain.Product) (BatchResult, error) {
	var res BatchResult
	now := w.clk.Now()

	for i := range batch {
		rec := batch[i]

		existing, err := w.repo.FindByBarcode(ctx, w.db, rec.Barcode)
		if err != nil {
			w.log.Warn("lookup failed", zap.String("barcode", rec.Barcode), zap.Error(err))
			res.Skipped++
			continue
		}

		if existing != nil {
			mergeImages(&rec, existing)
			rec.ID = existing.ID
			rec.CreatedAt = existing.CreatedAt
			rec.UpdatedAt = now
			if err := w.repo.Update(ctx, w.db, &rec); err != nil {
				w.log.Warn("update failed", zap.String("barcode", rec.Barcode), zap.Error(err))
				res.Skipped++
				continue
			}
			res.Updated++
			continue
		}

		rec.ID = w.genID.Generate().Int64()
		rec.CreatedAt = now
		rec.UpdatedAt = now
		if err := w.repo.Create(ctx, w.db, &rec); err != nil {
			if db.IsDuplicateKeyErr(err) {
				// Raced with a concurrent writer; the row exists, nothing lost.
				res.Skipped++
				continue
			}
			w.log.Warn("insert failed", zap.String("barcode", rec.Barcode), zap.Error(err))
			res.Skipped++
			continue
		}
		res.Inserted++
	}

	return res, nil
}

// mergeImages keeps already-resolved image URLs: a non-null stored URL is
// never replaced by a null resolution.
func mergeImages(rec, existing *productdomain.Product) {
	if rec.ImageURL == nil {
		rec.ImageURL = existing.ImageURL
	}
	if rec.BrandImageURL == nil {
		rec.BrandImageURL = existing.BrandImageURL
	}
	if rec.BarcodeImageURL == nil {
		rec.BarcodeImageURL = existing.BarcodeImageURL
	}
}

// bulkInsert persists a batch with store-level duplicate-skip semantics
// (insert-on-conflict-do-nothing by barcode). An engine-level failure skips
// the whole batch and surfaces the error so the caller can withhold the
// checkpoint; a future run re-attempts the same lines safely.
type bulkInsert struct {
	db    *gorm.DB
	repo  productdomain.Repository
	genID *snowflake.Node
	clk   clock.Clock
	log   *zap.Logger
}

func NewBulkInsert(conn *gorm.DB, repo productdomain.Repository, genID *snowflake.Node, clk clock.Clock, log *zap.Logger) BatchWriter {
	return &bulkInsert{db: conn, repo: repo, genID: genID, clk: clk, log: log.Named("persist.bulk")}
}

func (w *bulkInsert) Write(ctx context.Context, batch []productdomain.Product) (BatchResult, error) {
	if len(batch) == 0 {
		return BatchResult{}, nil
	}

	now := w.clk.Now()
	for i := range batch {
		batch[i].ID = w.genID.Generate().Int64()
		batch[i].CreatedAt = now
		batch[i].UpdatedAt = now
	}

	inserted, err := w.repo.BulkCreateSkipDuplicates(ctx, w.db, batch)
	if err != nil {
		w.log.Warn("bulk insert failed", zap.Int("batch", len(batch)), zap.Error(err))
		return BatchResult{Skipped: len(batch)}, err
	}

	return BatchResult{
		Inserted: int(inserted),
		Skipped:  len(batch) - int(inserted),
	}, nil
}
