package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/greenbasket/storefront/internal/domain"
)

// Loader fetches the product sheet and installs the result into a Snapshot.
// A load is a single attempt: on failure the snapshot is marked ready
// without data and the storefront runs against an empty catalog. There is
// no retry policy.
type Loader struct {
	url    string
	client *http.Client
	snap   *Snapshot
	log    *slog.Logger
	sfg    singleflight.Group // collapses concurrent load requests
}

func NewLoader(url string, snap *Snapshot, log *slog.Logger) *Loader {
	return &Loader{
		url:    url,
		client: &http.Client{Timeout: 15 * time.Second},
		snap:   snap,
		log:    log,
	}
}

// Load fetches and parses the sheet, replacing the snapshot wholesale on
// success. Concurrent callers share one fetch. The returned error is
// informational; the snapshot is always left in a usable state.
func (l *Loader) Load(ctx context.Context) ([]domain.Product, error) {
	v, err, _ := l.sfg.Do("load", func() (interface{}, error) {
		products, err := l.fetch(ctx)
		if err != nil {
			l.log.Warn("catalog load failed, continuing with empty catalog", "error", err)
			l.snap.signalReady()
			return nil, err
		}

		l.snap.Replace(products)
		l.log.Info("catalog loaded", "products", len(products))
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Product), nil
}

func (l *Loader) fetch(ctx context.Context) ([]domain.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, fmt.Errorf("building sheet request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching sheet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sheet responded with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading sheet response: %w", err)
	}

	return ParseSheet(body)
}
