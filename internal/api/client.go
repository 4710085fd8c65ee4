package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultTimeout = 15 * time.Second
	userAgent      = "storefront/1.0 (+https://github.com/tayloree/storefront)"
)

// DefaultSources are tried in order: the upcoming catalog first, then the
// stable one.
var DefaultSources = []string{
	"data/products-future.json",
	"data/products.json",
}

// Catalog is a fetched product list together with the source it came from.
type Catalog struct {
	Source   string
	Products []Product
}

// ErrNoSources is returned by FetchCatalog when the chain is empty.
var ErrNoSources = errors.New("no sources configured")

// SourceError records why a single source in the fallback chain failed.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// Client loads the catalog from an ordered list of sources. Each source is an
// http(s) URL or a local file path.
type Client struct {
	httpClient *http.Client
	sources    []string
	now        func() time.Time
	log        logrus.FieldLogger
}

// NewClient creates a client for the default source chain.
func NewClient() *Client {
	return NewClientWithSources(DefaultSources...)
}

// NewClientWithSources creates a client trying the given sources in order.
func NewClientWithSources(sources ...string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		sources:    append([]string(nil), sources...),
		now:        time.Now,
		log:        logrus.StandardLogger(),
	}
}

// WithTimeout sets the per-request HTTP timeout.
func (c *Client) WithTimeout(d time.Duration) *Client {
	if d > 0 {
		c.httpClient.Timeout = d
	}
	return c
}

// WithLogger sets the logger used to report source fallbacks.
func (c *Client) WithLogger(log logrus.FieldLogger) *Client {
	if log != nil {
		c.log = log
	}
	return c
}

// Sources returns the configured source chain.
func (c *Client) Sources() []string {
	return append([]string(nil), c.sources...)
}

// FetchCatalog returns the catalog from the first source that loads and
// decodes successfully.
func (c *Client) FetchCatalog(ctx context.Context) (*Catalog, error) {
	if len(c.sources) == 0 {
		return nil, fmt.Errorf("fetching catalog: %w", ErrNoSources)
	}

	var failures []error
	for _, source := range c.sources {
		products, err := c.load(ctx, source)
		if err == nil {
			c.log.WithFields(logrus.Fields{
				"source":   source,
				"products": len(products),
			}).Debug("catalog loaded")
			return &Catalog{Source: source, Products: products}, nil
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("fetching catalog: %w", ctx.Err())
		}

		c.log.WithFields(logrus.Fields{
			"source": source,
			"error":  err.Error(),
		}).Warn("catalog source failed, trying next")
		failures = append(failures, &SourceError{Source: source, Err: err})
	}

	return nil, fmt.Errorf("fetching catalog: all %d sources failed: %w", len(failures), errors.Join(failures...))
}

func (c *Client) load(ctx context.Context, source string) ([]Product, error) {
	if isRemote(source) {
		return c.getAndDecode(ctx, source)
	}

	path := strings.TrimPrefix(source, "file://")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return DecodeCatalog(data)
}

func (c *Client) getAndDecode(ctx context.Context, rawURL string) ([]Product, error) {
	reqURL, err := c.cacheBusted(rawURL)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return DecodeCatalog(body)
}

// cacheBusted appends a cache parameter so intermediaries never serve a stale
// catalog.
func (c *Client) cacheBusted(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("cache", strconv.FormatInt(c.now().UnixMilli(), 10))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func isRemote(source string) bool {
	lower := strings.ToLower(strings.TrimSpace(source))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
