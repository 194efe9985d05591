package imageresolver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/promolabs/promosync/internal/assetstore"
	obsmetrics "github.com/promolabs/promosync/internal/observability/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxImageBytes caps a single fetched image.
const maxImageBytes = 20 * 1024 * 1024

type Config struct {
	UserAgent string
	Referer   string
	// SourceHost is the host whose image URLs require the source auth token.
	SourceHost  string
	SourceToken string
	Timeout     time.Duration
}

// Resolver turns candidate image URLs into durable asset-store URLs. It owns
// the run-scoped negative cache of URLs known to have failed: each failing
// URL is warned about once per run and never re-fetched within the run. The
// cache is never persisted; a fresh Resolver retries everything once.
type Resolver struct {
	http    *http.Client
	store   assetstore.ObjectStore
	cfg     Config
	log     *zap.Logger
	metrics *obsmetrics.Pipeline

	mu     sync.Mutex
	failed map[string]struct{}
}

func New(store assetstore.ObjectStore, cfg Config, log *zap.Logger, m *obsmetrics.Pipeline) *Resolver {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Resolver{
		http:    &http.Client{Timeout: timeout},
		store:   store,
		cfg:     cfg,
		log:     log.Named("imageresolver"),
		metrics: m,
		failed:  make(map[string]struct{}),
	}
}

type options struct {
	fallbackToOriginal bool
}

type Option func(*options)

// WithoutFallback makes a failed resolution return "" instead of the
// original URL.
func WithoutFallback() Option {
	return func(o *options) { o.fallbackToOriginal = false }
}

// Resolve maps a candidate URL to a durable asset URL:
//   - empty input resolves to "" without any attempt;
//   - URLs already served by the asset store are returned unchanged;
//   - relative/placeholder paths resolve to "" and are never fetched;
//   - fetch or upload failure falls back to the original URL (an upstream
//     URL beats no URL) unless WithoutFallback is set.
func (r *Resolver) Resolve(ctx context.Context, rawURL, folder, assetID string, opts ...Option) string {
	o := options{fallbackToOriginal: true}
	for _, opt := range opts {
		opt(&o)
	}

	if rawURL == "" {
		return ""
	}
	if r.store.Owns(rawURL) {
		return rawURL
	}

	normalized := strings.TrimSpace(rawURL)
	if !strings.HasPrefix(normalized, "http://") && !strings.HasPrefix(normalized, "https://") {
		return ""
	}

	if r.knownFailed(normalized) {
		if r.metrics != nil {
			r.metrics.ImageFallbacks.Inc()
		}
		if o.fallbackToOriginal {
			return rawURL
		}
		return ""
	}

	data, contentType, err := r.fetch(ctx, normalized)
	if err != nil {
		r.markFailed(normalized, "image download failed", err)
		if o.fallbackToOriginal {
			return rawURL
		}
		return ""
	}

	uploaded, err := r.store.Upload(ctx, data, folder, assetID, contentType, true)
	if err != nil {
		r.markFailed(normalized, "asset upload failed", err)
		if o.fallbackToOriginal {
			return rawURL
		}
		return ""
	}

	if r.metrics != nil {
		r.metrics.ImageUploads.Inc()
	}
	return uploaded.URL
}

// ResolveSet resolves the three per-product images concurrently. The fan-out
// is bounded per product (3), never global.
func (r *Resolver) ResolveSet(ctx context.Context, product, brand, barcode Request) (productURL, brandURL, barcodeURL string) {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		productURL = r.Resolve(ctx, product.URL, product.Folder, product.AssetID, product.Opts...)
		return nil
	})
	g.Go(func() error {
		brandURL = r.Resolve(ctx, brand.URL, brand.Folder, brand.AssetID, brand.Opts...)
		return nil
	})
	g.Go(func() error {
		barcodeURL = r.Resolve(ctx, barcode.URL, barcode.Folder, barcode.AssetID, barcode.Opts...)
		return nil
	})
	_ = g.Wait()
	return productURL, brandURL, barcodeURL
}

// Request is one image resolution job for ResolveSet.
type Request struct {
	URL     string
	Folder  string
	AssetID string
	Opts    []Option
}

func (r *Resolver) fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Accept", "image/*")
	if r.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", r.cfg.UserAgent)
	}
	if r.cfg.Referer != "" {
		req.Header.Set("Referer", r.cfg.Referer)
	}
	if r.cfg.SourceHost != "" && r.cfg.SourceToken != "" && strings.Contains(url, r.cfg.SourceHost) {
		req.Header.Set("X-Cosmos-Token", r.cfg.SourceToken)
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", &statusError{code: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, "", err
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return data, contentType, nil
}

// knownFailed reports membership in the negative cache.
func (r *Resolver) knownFailed(url string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.failed[url]
	return ok
}

// markFailed records the URL in the negative cache, warning only on first
// entry so a broken URL produces exactly one log line per run.
func (r *Resolver) markFailed(url, msg string, err error) {
	r.mu.Lock()
	_, seen := r.failed[url]
	r.failed[url] = struct{}{}
	r.mu.Unlock()

	if !seen {
		r.log.Warn(msg, zap.String("url", url), zap.Error(err))
	}
	if r.metrics != nil {
		r.metrics.ImageFallbacks.Inc()
	}
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.code)
}
