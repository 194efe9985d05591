package ingest

import (
	"context"
	"fmt"
	"strconv"

	"github.com/promolabs/promosync/internal/checkpoint"
	"github.com/promolabs/promosync/internal/cosmos"
	"github.com/promolabs/promosync/internal/imageresolver"
	productdomain "github.com/promolabs/promosync/internal/product/domain"
	"go.uber.org/zap"
)

// SyncGPC runs the paginated Cosmos ingestion for one GPC category. Pages
// stream from startPage when given, otherwise from the saved checkpoint
// cursor. Each page is normalized, image-resolved and upserted as one batch;
// the checkpoint advances only after its page has been persisted.
//
// The run ends normally on an exhausted stream (nil next_page), a page or
// product ceiling, or context cancellation. Only an unreachable upstream or
// an unwritable checkpoint is fatal, and even then the summary accumulated
// so far is returned with the error.
func (s *Service) SyncGPC(ctx context.Context, gpcCode, startPage string) (*GPCSyncSummary, error) {
	sourceKey := "cosmos:gpc:" + gpcCode
	log := s.log.With(zap.String("gpc", gpcCode))
	summary := &GPCSyncSummary{GPCCode: gpcCode}

	page := startPage
	if page == "" {
		cp, present, err := s.checkpoints.Load(sourceKey)
		if err != nil {
			return summary, fmt.Errorf("load checkpoint: %w", err)
		}
		if present && cp.NextPage != nil {
			page = *cp.NextPage
			log.Info("resuming from checkpoint", zap.Int("last_page", cp.LastPage))
		}
		// An exhausted checkpoint (nil next_page) restarts from page 1 as a
		// refresh pass; upserts make that safe.
	}

	for {
		if err := ctx.Err(); err != nil {
			log.Info("sync cancelled", zap.Int("pages", summary.Pages))
			return summary, nil
		}

		resp, err := s.client.GetGPC(ctx, gpcCode, page)
		if err != nil {
			return summary, fmt.Errorf("fetch gpc %s page %q: %w", gpcCode, page, err)
		}

		currentPage := resp.ResolveCurrentPage(page)
		summary.CurrentPage = currentPage
		summary.NextPage = resp.NextPage
		summary.TotalReceived += len(resp.Products)
		summary.Pages++
		s.countScanned(cosmos.SourceName, len(resp.Products))

		meta := cosmos.PageMeta{
			GPCEnglishDescription:    resp.EnglishDescription,
			GPCPortugueseDescription: resp.Portuguese,
		}
		segment := segmentFolder(resp.EnglishDescription, resp.Portuguese, gpcCode)

		batch := make([]productdomain.Product, 0, len(resp.Products))
		for i := range resp.Products {
			raw := resp.Products[i]
			gtin := raw.GTIN.Normalize()
			if gtin == "" {
				summary.Skipped++
				s.countSkipped(cosmos.SourceName, "no_identity", 1)
				continue
			}
			rec, err := s.buildCosmosProduct(ctx, raw, gtin, gpcCode, segment, meta)
			if err != nil {
				log.Warn("product preparation failed", zap.String("gtin", gtin), zap.Error(err))
				summary.Skipped++
				s.countSkipped(cosmos.SourceName, "lookup", 1)
				continue
			}
			batch = append(batch, rec)
		}

		res, err := s.upsert.Write(ctx, batch)
		summary.Inserted += res.Inserted
		summary.Updated += res.Updated
		summary.Skipped += res.Skipped
		s.countBatch(cosmos.SourceName, res)
		if err != nil {
			// Engine-level failure: the page is counted skipped and the
			// checkpoint is withheld so a later run re-attempts it.
			log.Warn("page persistence failed", zap.Int("page", currentPage), zap.Error(err))
		} else {
			if err := s.checkpoints.Save(sourceKey, checkpoint.Checkpoint{
				LastPage:  currentPage,
				NextPage:  resp.NextPage,
				UpdatedAt: s.clk.Now(),
			}); err != nil {
				return summary, fmt.Errorf("save checkpoint: %w", err)
			}
		}

		if resp.NextPage == nil {
			log.Info("category exhausted",
				zap.Int("pages", summary.Pages),
				zap.Int("inserted", summary.Inserted),
				zap.Int("updated", summary.Updated),
			)
			return summary, nil
		}
		if s.cfg.MaxPages > 0 && summary.Pages >= s.cfg.MaxPages {
			log.Info("page ceiling reached", zap.Int("pages", summary.Pages))
			return summary, nil
		}
		if s.cfg.MaxProducts > 0 && summary.Inserted+summary.Updated >= s.cfg.MaxProducts {
			log.Info("product ceiling reached", zap.Int("processed", summary.Inserted+summary.Updated))
			return summary, nil
		}

		page = *resp.NextPage
		if page == "" {
			page = strconv.Itoa(currentPage + 1)
		}
	}
}

// buildCosmosProduct resolves the product's images and maps it to the
// canonical shape. Image URLs already resolved on the stored row are kept
// as-is so re-runs do not re-upload them.
func (s *Service) buildCosmosProduct(ctx context.Context, raw cosmos.Product, gtin, gpcCode, segment string, meta cosmos.PageMeta) (productdomain.Product, error) {
	existing, err := s.repo.FindByBarcode(ctx, s.db, gtin)
	if err != nil {
		return productdomain.Product{}, err
	}

	brandName := gtin
	var brandPicture string
	if raw.Brand != nil {
		if raw.Brand.Name != "" {
			brandName = raw.Brand.Name
		}
		if raw.Brand.Picture != nil {
			brandPicture = *raw.Brand.Picture
		}
	}

	productReq := imageresolver.Request{Folder: "products/" + segment, AssetID: gtin}
	brandReq := imageresolver.Request{Folder: "brands", AssetID: slugify(brandName)}
	barcodeReq := imageresolver.Request{Folder: "barcodes/" + segment, AssetID: gtin}

	var images cosmos.ImageSet
	if existing != nil && existing.ImageURL != nil {
		images.ProductURL = *existing.ImageURL
	} else if raw.Thumbnail != nil {
		productReq.URL = *raw.Thumbnail
	}
	if existing != nil && existing.BrandImageURL != nil {
		images.BrandURL = *existing.BrandImageURL
	} else {
		brandReq.URL = brandPicture
	}
	if existing != nil && existing.BarcodeImageURL != nil {
		images.BarcodeURL = *existing.BarcodeImageURL
	} else if raw.BarcodeImage != nil {
		barcodeReq.URL = *raw.BarcodeImage
	}

	if productReq.URL != "" || brandReq.URL != "" || barcodeReq.URL != "" {
		productURL, brandURL, barcodeURL := s.resolver.ResolveSet(ctx, productReq, brandReq, barcodeReq)
		if images.ProductURL == "" {
			images.ProductURL = productURL
		}
		if images.BrandURL == "" {
			images.BrandURL = brandURL
		}
		if images.BarcodeURL == "" {
			images.BarcodeURL = barcodeURL
		}
	}

	return cosmos.MapProduct(raw, gtin, gpcCode, images, meta), nil
}
