// Package media proxies product images into right-sized WebP thumbnails so
// the grid never downloads full-resolution catalog photos.
package media

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"storefront.GO/core/cache"
)

const (
	// DefaultWidth matches the card slot; the grid never needs more.
	DefaultWidth = 400
	MaxWidth     = 1200

	thumbTTL      = 24 * time.Hour
	thumbCacheTag = "thumbs"
	webpQuality   = 80
)

// Thumbnailer fetches an upstream image and returns it resized and
// re-encoded as WebP. Results are cached by (url, width).
type Thumbnailer struct {
	http  *http.Client
	cache *cache.Cache
}

func NewThumbnailer(c *cache.Cache, timeout time.Duration) *Thumbnailer {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Thumbnailer{
		http:  &http.Client{Timeout: timeout},
		cache: c,
	}
}

// Thumb returns the WebP bytes for src scaled to width. Only absolute
// http(s) URLs are fetched; anything else is refused before a request is
// made.
func (t *Thumbnailer) Thumb(ctx context.Context, src string, width int) ([]byte, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	if width > MaxWidth {
		width = MaxWidth
	}
	if err := validateSource(src); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("thumb:%s|w=%d", src, width)
	if t.cache != nil {
		if v, ok := t.cache.Get(key); ok {
			if data, ok := v.([]byte); ok {
				return data, nil
			}
		}
	}

	data, err := t.build(ctx, src, width)
	if err != nil {
		return nil, err
	}
	if t.cache != nil {
		t.cache.Set(key, data, thumbTTL, []string{thumbCacheTag})
	}
	return data, nil
}

func (t *Thumbnailer) build(ctx context.Context, src string, width int) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	res, err := t.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("media: upstream returned %d for %s", res.StatusCode, src)
	}

	img, err := imaging.Decode(res.Body, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("media: decode %s: %w", src, err)
	}
	// Height 0 keeps the aspect ratio; images narrower than the target stay
	// as they are.
	if img.Bounds().Dx() > width {
		img = imaging.Resize(img, width, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: webpQuality}); err != nil {
		return nil, fmt.Errorf("media: encode webp: %w", err)
	}
	return buf.Bytes(), nil
}

// Invalidate drops every cached thumbnail.
func (t *Thumbnailer) Invalidate() {
	if t.cache != nil {
		t.cache.DeleteByTag(thumbCacheTag)
	}
}

func validateSource(src string) error {
	u, err := url.Parse(src)
	if err != nil {
		return fmt.Errorf("media: bad source url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("media: refusing scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("media: source url has no host")
	}
	return nil
}
