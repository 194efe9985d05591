package ingest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/promolabs/promosync/internal/clock"
	productdomain "github.com/promolabs/promosync/internal/product/domain"
	productrepo "github.com/promolabs/promosync/internal/product/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&productdomain.Product{}))
	return conn
}

func newTestNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return node
}

func strptr(s string) *string { return &s }

func TestCheckedUpsertInsertsNewRecord(t *testing.T) {
	conn := newTestDB(t)
	repo := productrepo.Provide()
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	w := NewCheckedUpsert(conn, repo, newTestNode(t), clk, zap.NewNop())

	res, err := w.Write(context.Background(), []productdomain.Product{
		{Barcode: "7891000100103", Name: "Leite Moça", Source: "cosmos"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 0, res.Updated)

	stored, err := repo.FindByBarcode(context.Background(), conn, "7891000100103")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotZero(t, stored.ID)
	assert.Equal(t, clk.Now(), stored.CreatedAt.UTC())
}

func TestCheckedUpsertMergesByBarcode(t *testing.T) {
	conn := newTestDB(t)
	repo := productrepo.Provide()
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	w := NewCheckedUpsert(conn, repo, newTestNode(t), clk, zap.NewNop())

	ctx := context.Background()
	_, err := w.Write(ctx, []productdomain.Product{
		{Barcode: "7891000100103", Name: "Leite Moça", Source: "cosmos", ImageURL: strptr("http://assets.local/a.jpg")},
	})
	require.NoError(t, err)

	first, err := repo.FindByBarcode(ctx, conn, "7891000100103")
	require.NoError(t, err)
	require.NotNil(t, first)

	clk.Advance(time.Hour)
	res, err := w.Write(ctx, []productdomain.Product{
		{Barcode: "7891000100103", Name: "Leite Moça 395g", Source: "cosmos"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 0, res.Inserted)

	second, err := repo.FindByBarcode(ctx, conn, "7891000100103")
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, first.ID, second.ID, "same barcode must stay one row")
	assert.Equal(t, "Leite Moça 395g", second.Name)
	require.NotNil(t, second.ImageURL, "stored image must survive a null resolution")
	assert.Equal(t, "http://assets.local/a.jpg", *second.ImageURL)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)

	var count int64
	require.NoError(t, conn.Model(&productdomain.Product{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCheckedUpsertNewImageWins(t *testing.T) {
	conn := newTestDB(t)
	repo := productrepo.Provide()
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	w := NewCheckedUpsert(conn, repo, newTestNode(t), clk, zap.NewNop())

	ctx := context.Background()
	_, err := w.Write(ctx, []productdomain.Product{
		{Barcode: "7891000100103", Name: "Leite Moça", Source: "cosmos", ImageURL: strptr("http://assets.local/old.jpg")},
	})
	require.NoError(t, err)

	_, err = w.Write(ctx, []productdomain.Product{
		{Barcode: "7891000100103", Name: "Leite Moça", Source: "cosmos", ImageURL: strptr("http://assets.local/new.jpg")},
	})
	require.NoError(t, err)

	stored, err := repo.FindByBarcode(ctx, conn, "7891000100103")
	require.NoError(t, err)
	require.NotNil(t, stored.ImageURL)
	assert.Equal(t, "http://assets.local/new.jpg", *stored.ImageURL)
}

func TestBulkInsertSkipsDuplicates(t *testing.T) {
	conn := newTestDB(t)
	repo := productrepo.Provide()
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	w := NewBulkInsert(conn, repo, newTestNode(t), clk, zap.NewNop())

	ctx := context.Background()
	res, err := w.Write(ctx, []productdomain.Product{
		{Barcode: "7891000100103", Name: "Leite Moça", Source: "openfoodfacts"},
		{Barcode: "7891000053508", Name: "Nescau", Source: "openfoodfacts"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Inserted)

	// Overlapping rerun only lands the new row.
	res, err = w.Write(ctx, []productdomain.Product{
		{Barcode: "7891000053508", Name: "Nescau", Source: "openfoodfacts"},
		{Barcode: "7891910000197", Name: "Açúcar União", Source: "openfoodfacts"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 1, res.Skipped)

	var count int64
	require.NoError(t, conn.Model(&productdomain.Product{}).Count(&count).Error)
	assert.EqualValues(t, 3, count)
}

func TestBulkInsertEmptyBatch(t *testing.T) {
	conn := newTestDB(t)
	repo := productrepo.Provide()
	clk := clock.NewFakeClock(time.Now())
	w := NewBulkInsert(conn, repo, newTestNode(t), clk, zap.NewNop())

	res, err := w.Write(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, res.Inserted)
	assert.Zero(t, res.Skipped)
}
