package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/promolabs/promosync/internal/checkpoint"
	"github.com/promolabs/promosync/internal/openfoodfacts"
	productdomain "github.com/promolabs/promosync/internal/product/domain"
	"go.uber.org/zap"
)

// fileSourceKey scopes the file-import checkpoint. The dump is treated as a
// single append-only stream, so one cursor covers it regardless of path.
const fileSourceKey = "openfoodfacts:dump"

// ImportFile streams the Open Food Facts JSONL dump at path (or the
// configured default when path is empty), keeping only Brazil candidates and
// bulk-inserting them with duplicates skipped. The line cursor is saved only
// after the batch holding those lines has been persisted, so a rerun replays
// at most one batch and the duplicate skip absorbs the overlap.
//
// Malformed lines and unusable records are rejected individually; the scan
// keeps going. A failed batch write drops the batch, counts its lines as
// skipped and keeps scanning without advancing the cursor. Line and product
// ceilings end the run normally.
func (s *Service) ImportFile(ctx context.Context, path string) (*FileImportSummary, error) {
	if path == "" {
		path = s.cfg.FilePath
	}
	if path == "" {
		return nil, errors.New("ingest: no dump file configured")
	}
	log := s.log.With(zap.String("file", path))
	summary := &FileImportSummary{}

	var resumeFrom int64
	cp, present, err := s.checkpoints.Load(fileSourceKey)
	if err != nil {
		return summary, fmt.Errorf("load checkpoint: %w", err)
	}
	if present && cp.LastLine > 0 {
		resumeFrom = cp.LastLine
		log.Info("resuming from checkpoint", zap.Int64("last_line", resumeFrom))
	}

	src, err := openfoodfacts.OpenSource(path)
	if err != nil {
		return summary, err
	}
	defer src.Close()

	batch := make([]productdomain.Product, 0, s.cfg.BatchSize)
	var batchLastLine int64

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		res, err := s.bulk.Write(ctx, batch)
		if err != nil {
			// The batch is dropped, the cursor stays where it was, and the
			// scan keeps going; a rerun replays these lines.
			log.Warn("batch persist failed",
				zap.Int64("last_line", batchLastLine),
				zap.Int("size", len(batch)),
				zap.Error(err),
			)
			summary.Skipped += len(batch)
			s.countSkipped(openfoodfacts.SourceName, "persist_failed", len(batch))
			batch = batch[:0]
			return nil
		}
		summary.Inserted += res.Inserted
		summary.Skipped += res.Skipped
		s.countBatch(openfoodfacts.SourceName, res)
		batch = batch[:0]
		return s.checkpoints.Save(fileSourceKey, checkpoint.Checkpoint{
			LastLine:  batchLastLine,
			UpdatedAt: s.clk.Now(),
		})
	}

	for {
		if err := ctx.Err(); err != nil {
			log.Info("import cancelled", zap.Int64("lines", summary.LinesRead))
			return summary, flush()
		}
		if s.cfg.MaxLines > 0 && summary.LinesRead >= s.cfg.MaxLines {
			log.Info("line ceiling reached", zap.Int64("lines", summary.LinesRead))
			return summary, flush()
		}
		if s.cfg.MaxProducts > 0 && summary.Mapped >= s.cfg.MaxProducts {
			log.Info("product ceiling reached", zap.Int("mapped", summary.Mapped))
			return summary, flush()
		}

		line, lineNo, err := src.Next()
		if errors.Is(err, io.EOF) {
			if err := flush(); err != nil {
				return summary, err
			}
			log.Info("dump exhausted",
				zap.Int64("lines", summary.LinesRead),
				zap.Int("candidates", summary.Candidates),
				zap.Int("inserted", summary.Inserted),
			)
			return summary, nil
		}
		if err != nil {
			return summary, err
		}

		summary.LinesRead++
		if summary.LinesRead%s.cfg.ProgressEvery == 0 {
			log.Info("import progress",
				zap.Int64("lines", summary.LinesRead),
				zap.Int("candidates", summary.Candidates),
				zap.Int("inserted", summary.Inserted),
			)
		}
		if lineNo <= resumeFrom {
			continue
		}
		if len(line) == 0 {
			continue
		}

		var rec openfoodfacts.Record
		if err := json.Unmarshal(line, &rec); err != nil {
			summary.Rejected++
			s.countSkipped(openfoodfacts.SourceName, "malformed", 1)
			continue
		}
		summary.ParsedLines++

		if !openfoodfacts.IsBrazilCandidate(rec) {
			continue
		}
		summary.Candidates++
		s.countScanned(openfoodfacts.SourceName, 1)

		mapped, ok := openfoodfacts.Map(rec)
		if !ok {
			summary.Rejected++
			s.countSkipped(openfoodfacts.SourceName, "no_identity", 1)
			continue
		}
		summary.Mapped++

		batch = append(batch, mapped)
		batchLastLine = lineNo
		if len(batch) >= s.cfg.BatchSize {
			if err := flush(); err != nil {
				return summary, err
			}
		}
	}
}
