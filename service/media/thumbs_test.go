package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"storefront.GO/core/cache"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func TestThumb_ResizesAndEncodesWebP(t *testing.T) {
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.Write(pngBytes(t, 800, 600))
	}))
	defer srv.Close()

	thumbs := NewThumbnailer(cache.New(), time.Second)
	data, err := thumbs.Thumb(context.Background(), srv.URL+"/drill.png", 400)
	if err != nil {
		t.Fatalf("Thumb: %v", err)
	}
	// WebP container: RIFF....WEBP
	if len(data) < 12 || string(data[:4]) != "RIFF" || string(data[8:12]) != "WEBP" {
		t.Errorf("output is not webp, header = %q", data[:12])
	}

	// Second request for the same (url, width) must come from cache.
	if _, err := thumbs.Thumb(context.Background(), srv.URL+"/drill.png", 400); err != nil {
		t.Fatalf("cached Thumb: %v", err)
	}
	if got := atomic.LoadInt64(&hits); got != 1 {
		t.Errorf("upstream fetched %d times, want 1", got)
	}
}

func TestThumb_RefusesNonHTTPSources(t *testing.T) {
	thumbs := NewThumbnailer(nil, time.Second)
	for _, src := range []string{"file:///etc/passwd", "ftp://host/x.png", "not a url at all", "/relative.png"} {
		if _, err := thumbs.Thumb(context.Background(), src, 400); err == nil {
			t.Errorf("Thumb(%q) succeeded, want refusal", src)
		}
	}
}

func TestThumb_UpstreamErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	thumbs := NewThumbnailer(nil, time.Second)
	if _, err := thumbs.Thumb(context.Background(), srv.URL+"/missing.png", 400); err == nil {
		t.Error("want error for 404 upstream")
	}
}
