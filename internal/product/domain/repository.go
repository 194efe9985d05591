package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	// FindByBarcode returns (nil, nil) when no row matches.
	FindByBarcode(ctx context.Context, db *gorm.DB, barcode string) (*Product, error)
	Create(ctx context.Context, db *gorm.DB, product *Product) error
	Update(ctx context.Context, db *gorm.DB, product *Product) error
	// BulkCreateSkipDuplicates inserts many rows at once, silently omitting
	// rows whose barcode already exists. Returns the number of rows inserted.
	BulkCreateSkipDuplicates(ctx context.Context, db *gorm.DB, products []Product) (int64, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Product, error)
}

type ListFilter struct {
	Source  string
	GPCCode string
	Active  *bool
	Limit   int
	Offset  int
}
