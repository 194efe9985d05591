package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/promolabs/promosync/internal/checkpoint"
	"github.com/promolabs/promosync/internal/cosmos"
	productdomain "github.com/promolabs/promosync/internal/product/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCatalog struct {
	pages     map[string]map[string]cosmos.GPCPage // code -> page -> response
	hits      []string
	failAfter int // fail every request once this many have been served; 0 disables
}

func (f *fakeCatalog) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits = append(f.hits, r.URL.String())
		if f.failAfter > 0 && len(f.hits) > f.failAfter {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		code := r.URL.Path[len("/gpcs/"):]
		page := r.URL.Query().Get("page")
		if page == "" {
			page = "1"
		}
		resp, ok := f.pages[code][page]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})
}

func intptr(n int) *int { return &n }

func gpcProduct(gtin, name string) cosmos.Product {
	return cosmos.Product{Description: name, GTIN: cosmos.GTIN(gtin)}
}

func twoPageCatalog() *fakeCatalog {
	english := "Milk Products"
	return &fakeCatalog{
		pages: map[string]map[string]cosmos.GPCPage{
			"50131702": {
				"1": {
					Code:               "50131702",
					EnglishDescription: &english,
					CurrentPage:        intptr(1),
					NextPage:           strptr("2"),
					Products: []cosmos.Product{
						gpcProduct("7891000100103", "Leite Moça"),
						gpcProduct("7891000053508", "Nescau"),
					},
				},
				"2": {
					Code:               "50131702",
					EnglishDescription: &english,
					CurrentPage:        intptr(2),
					NextPage:           nil,
					Products: []cosmos.Product{
						gpcProduct("7891910000197", "Açúcar União"),
						gpcProduct("", "sem código"),
					},
				},
			},
		},
	}
}

func TestSyncGPCWalksAllPages(t *testing.T) {
	catalog := twoPageCatalog()
	srv := httptest.NewServer(catalog.handler(t))
	defer srv.Close()

	client := cosmos.NewClient(cosmos.ClientConfig{BaseURL: srv.URL}, zap.NewNop())
	h := newTestService(t, Config{}, client)

	summary, err := h.svc.SyncGPC(context.Background(), "50131702", "")
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Pages)
	assert.Equal(t, 4, summary.TotalReceived)
	assert.Equal(t, 3, summary.Inserted)
	assert.Equal(t, 1, summary.Skipped, "empty gtin carries no identity")
	assert.Nil(t, summary.NextPage)

	stored, err := h.svc.repo.FindByBarcode(context.Background(), h.conn, "7891000100103")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Leite Moça", stored.Name)
	require.NotNil(t, stored.GPCCode)
	assert.Equal(t, "50131702", *stored.GPCCode)
}

func TestSyncGPCCheckpointPerPage(t *testing.T) {
	catalog := twoPageCatalog()
	srv := httptest.NewServer(catalog.handler(t))
	defer srv.Close()

	client := cosmos.NewClient(cosmos.ClientConfig{BaseURL: srv.URL}, zap.NewNop())
	h := newTestService(t, Config{MaxPages: 1}, client)

	summary, err := h.svc.SyncGPC(context.Background(), "50131702", "")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Pages)

	cp, present, err := h.svc.checkpoints.Load("cosmos:gpc:50131702")
	require.NoError(t, err)
	require.True(t, present)
	assert.Equal(t, 1, cp.LastPage)
	require.NotNil(t, cp.NextPage)
	assert.Equal(t, "2", *cp.NextPage)
}

func TestSyncGPCResumesFromCheckpoint(t *testing.T) {
	catalog := twoPageCatalog()
	srv := httptest.NewServer(catalog.handler(t))
	defer srv.Close()

	client := cosmos.NewClient(cosmos.ClientConfig{BaseURL: srv.URL}, zap.NewNop())
	h := newTestService(t, Config{}, client)

	require.NoError(t, h.svc.checkpoints.Save("cosmos:gpc:50131702", checkpoint.Checkpoint{
		LastPage:  1,
		NextPage:  strptr("2"),
		UpdatedAt: h.clk.Now(),
	}))

	summary, err := h.svc.SyncGPC(context.Background(), "50131702", "")
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Pages, "resumed run must start at the saved cursor")
	assert.Equal(t, 2, summary.CurrentPage)
	require.Len(t, catalog.hits, 1)
	assert.Contains(t, catalog.hits[0], "page=2")
}

func TestSyncGPCExplicitStartPageBeatsCheckpoint(t *testing.T) {
	catalog := twoPageCatalog()
	srv := httptest.NewServer(catalog.handler(t))
	defer srv.Close()

	client := cosmos.NewClient(cosmos.ClientConfig{BaseURL: srv.URL}, zap.NewNop())
	h := newTestService(t, Config{}, client)

	require.NoError(t, h.svc.checkpoints.Save("cosmos:gpc:50131702", checkpoint.Checkpoint{
		LastPage:  1,
		NextPage:  strptr("2"),
		UpdatedAt: h.clk.Now(),
	}))

	summary, err := h.svc.SyncGPC(context.Background(), "50131702", "1")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Pages)
}

func TestSyncGPCUpstreamFailureReturnsPartialSummary(t *testing.T) {
	catalog := twoPageCatalog()
	catalog.failAfter = 1
	srv := httptest.NewServer(catalog.handler(t))
	defer srv.Close()

	client := cosmos.NewClient(cosmos.ClientConfig{BaseURL: srv.URL}, zap.NewNop())
	h := newTestService(t, Config{}, client)

	summary, err := h.svc.SyncGPC(context.Background(), "50131702", "")
	require.Error(t, err)
	assert.Equal(t, 1, summary.Pages, "first page's work must be reported")
	assert.Equal(t, 2, summary.Inserted)

	// The persisted page survives the failed run.
	cp, present, loadErr := h.svc.checkpoints.Load("cosmos:gpc:50131702")
	require.NoError(t, loadErr)
	require.True(t, present)
	assert.Equal(t, 1, cp.LastPage)
}

func TestSyncGPCRerunUpdatesInsteadOfDuplicating(t *testing.T) {
	catalog := twoPageCatalog()
	srv := httptest.NewServer(catalog.handler(t))
	defer srv.Close()

	client := cosmos.NewClient(cosmos.ClientConfig{BaseURL: srv.URL}, zap.NewNop())
	h := newTestService(t, Config{}, client)

	_, err := h.svc.SyncGPC(context.Background(), "50131702", "1")
	require.NoError(t, err)

	summary, err := h.svc.SyncGPC(context.Background(), "50131702", "1")
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Inserted)
	assert.Equal(t, 3, summary.Updated)

	var count int64
	require.NoError(t, h.conn.Model(&productdomain.Product{}).Count(&count).Error)
	assert.EqualValues(t, 3, count)
}

func TestSyncGPCPreservesResolvedImages(t *testing.T) {
	imgSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		fmt.Fprint(w, "jpeg-bytes")
	}))
	defer imgSrv.Close()

	english := "Milk Products"
	thumb := imgSrv.URL + "/leite.jpg"
	catalog := &fakeCatalog{
		pages: map[string]map[string]cosmos.GPCPage{
			"50131702": {
				"1": {
					Code:               "50131702",
					EnglishDescription: &english,
					CurrentPage:        intptr(1),
					Products: []cosmos.Product{
						{Description: "Leite Moça", GTIN: "7891000100103", Thumbnail: &thumb},
					},
				},
			},
		},
	}
	srv := httptest.NewServer(catalog.handler(t))
	defer srv.Close()

	client := cosmos.NewClient(cosmos.ClientConfig{BaseURL: srv.URL}, zap.NewNop())
	h := newTestService(t, Config{}, client)

	ctx := context.Background()
	_, err := h.svc.SyncGPC(ctx, "50131702", "1")
	require.NoError(t, err)
	require.Len(t, h.store.uploads, 1)

	first, err := h.svc.repo.FindByBarcode(ctx, h.conn, "7891000100103")
	require.NoError(t, err)
	require.NotNil(t, first.ImageURL)
	assert.Equal(t, h.store.uploads[0], *first.ImageURL)

	// A rerun must not re-upload: the stored asset URL wins.
	_, err = h.svc.SyncGPC(ctx, "50131702", "1")
	require.NoError(t, err)
	assert.Len(t, h.store.uploads, 1)

	second, err := h.svc.repo.FindByBarcode(ctx, h.conn, "7891000100103")
	require.NoError(t, err)
	require.NotNil(t, second.ImageURL)
	assert.Equal(t, *first.ImageURL, *second.ImageURL)
}
