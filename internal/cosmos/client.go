package cosmos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrUpstreamUnreachable marks transport-level failures against the catalog
// API, distinct from an exhausted stream (nil next_page) and from upstream
// error statuses.
var ErrUpstreamUnreachable = errors.New("catalog upstream unreachable")

// StatusError carries a non-2xx upstream response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog upstream returned status %d", e.StatusCode)
}

type ClientConfig struct {
	BaseURL   string
	Token     string
	UserAgent string
	Timeout   time.Duration
}

// Client talks to the Cosmos catalog API.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
	ua      string
	log     *zap.Logger
}

func NewClient(cfg ClientConfig, log *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		ua:      cfg.UserAgent,
		log:     log.Named("cosmos.client"),
	}
}

// GetGPC fetches one page of a GPC category listing. page may be a plain
// page number or the absolute next-page URL returned by a previous call;
// absolute cursors are requested as-is.
func (c *Client) GetGPC(ctx context.Context, code string, page string) (*GPCPage, error) {
	var out GPCPage
	if err := c.get(ctx, "/gpcs/"+url.PathEscape(code), page, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetGTIN looks up a single product by its GTIN.
func (c *Client) GetGTIN(ctx context.Context, code string) (*Product, error) {
	var out Product
	if err := c.get(ctx, "/gtins/"+url.PathEscape(code), "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path, page string, out any) error {
	reqURL, err := c.resolveURL(path, page)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.ua != "" {
		req.Header.Set("User-Agent", c.ua)
	}
	if c.token != "" {
		req.Header.Set("X-Cosmos-Token", c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", zap.String("url", reqURL), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrUpstreamUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrUpstreamUnreachable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response from %s: %w", reqURL, err)
	}
	return nil
}

// resolveURL honors absolute next-page cursors as-is; otherwise it joins
// path onto the base URL and appends page as a query parameter.
func (c *Client) resolveURL(path, page string) (string, error) {
	if strings.HasPrefix(page, "https://") || strings.HasPrefix(page, "http://") {
		return page, nil
	}

	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return "", fmt.Errorf("invalid request url: %w", err)
	}
	if page != "" {
		q := u.Query()
		q.Set("page", page)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}
