package domain

import (
	"context"
	"errors"
)

type Service interface {
	GetByBarcode(ctx context.Context, barcode string) (*Product, error)
	List(ctx context.Context, req ListRequest) ([]Product, error)
}

type ListRequest struct {
	Source  string
	GPCCode string
	Active  *bool
	Limit   int
	Offset  int
}

var (
	ErrInvalidBarcode = errors.New("invalid_barcode")
	ErrNotFound       = errors.New("not_found")
)
