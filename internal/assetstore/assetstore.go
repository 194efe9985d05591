package assetstore

import (
	"context"
	"errors"
)

// Upload describes an object persisted to the asset store.
type Upload struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
	Format   string `json:"format"`
	Bytes    int64  `json:"bytes"`
}

// ObjectStore is the durable image/object store consumed by the image
// resolver. Uploading to an existing asset ID overwrites it, which is what
// makes re-runs safe.
type ObjectStore interface {
	Upload(ctx context.Context, data []byte, folder, assetID, contentType string, overwrite bool) (Upload, error)
	// Owns reports whether url already points at this store, in which case
	// it is returned unchanged instead of re-uploaded.
	Owns(url string) bool
}

var ErrUploadFailed = errors.New("asset upload failed")
