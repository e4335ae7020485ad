// Package diagram talks to the external diagram rasterizer: a Kroki-style
// service that turns mermaid source into a PNG. Results are cached by source
// hash so repeated exports of the same document do not re-render.
package diagram

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"image/png"
	"io"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Result is one rasterized diagram.
type Result struct {
	Data     []byte
	WidthPx  int
	HeightPx int
}

// Rasterizer renders diagram source text to an image. Render is safe for
// concurrent use; a failure affects only the ordinal being rendered.
type Rasterizer interface {
	Render(ctx context.Context, source string) (*Result, error)
}

// KrokiRasterizer renders mermaid via an HTTP rasterizer endpoint
// (POST {base}/mermaid/png with the diagram source as the body).
type KrokiRasterizer struct {
	baseURL string
	client  *http.Client
	cache   *gocache.Cache
}

func NewKrokiRasterizer(baseURL string, timeout time.Duration, cacheTTL time.Duration) *KrokiRasterizer {
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	return &KrokiRasterizer{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		cache:   gocache.New(cacheTTL, 2*cacheTTL),
	}
}

func (r *KrokiRasterizer) Render(ctx context.Context, source string) (*Result, error) {
	key := fmt.Sprintf("%x", sha256.Sum256([]byte(source)))
	if cached, found := r.cache.Get(key); found {
		return cached.(*Result), nil
	}

	endpoint := fmt.Sprintf("%s/mermaid/png", r.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBufferString(source))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("diagram rasterizer error (%d): %s", resp.StatusCode, string(body))
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("rasterizer returned non-PNG payload: %w", err)
	}

	result := &Result{Data: body, WidthPx: cfg.Width, HeightPx: cfg.Height}
	r.cache.Set(key, result, gocache.DefaultExpiration)
	return result, nil
}
