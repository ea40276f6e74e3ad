package export

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 10, G: 120, B: 10, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestAssetLoaderFetch(t *testing.T) {
	payload := pngBytes(t, 40, 20)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/logo.png":
			_, _ = w.Write(payload)
		case "/broken":
			_, _ = w.Write([]byte("not an image"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	loader := NewAssetLoader(time.Second, 1<<20, nil)
	ctx := context.Background()

	asset := loader.Fetch(ctx, srv.URL+"/logo.png")
	require.NotNil(t, asset)
	assert.Equal(t, "PNG", asset.Format)
	assert.Equal(t, 40, asset.Width)
	assert.Equal(t, 20, asset.Height)

	assert.Nil(t, loader.Fetch(ctx, ""))
	assert.Nil(t, loader.Fetch(ctx, srv.URL+"/missing"))
	assert.Nil(t, loader.Fetch(ctx, srv.URL+"/broken"))
}

func TestAssetLoaderFetchSizeCap(t *testing.T) {
	payload := pngBytes(t, 64, 64)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	loader := NewAssetLoader(time.Second, 16, nil)
	assert.Nil(t, loader.Fetch(context.Background(), srv.URL))
}

func TestAssetLoaderFetchAll(t *testing.T) {
	payload := pngBytes(t, 10, 10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	loader := NewAssetLoader(time.Second, 1<<20, nil)
	urls := []string{srv.URL + "/a", srv.URL + "/bad", "", srv.URL + "/a"}
	results := loader.FetchAll(context.Background(), urls, 2)

	require.Len(t, results, 2)
	assert.NotNil(t, results[srv.URL+"/a"])
	assert.Nil(t, results[srv.URL+"/bad"])
}

func TestFitBox(t *testing.T) {
	w, h := FitBox(200, 100, 60, 60)
	assert.InDelta(t, 60.0, w, 0.001)
	assert.InDelta(t, 30.0, h, 0.001)

	w, h = FitBox(100, 200, 60, 60)
	assert.InDelta(t, 30.0, w, 0.001)
	assert.InDelta(t, 60.0, h, 0.001)

	// Degenerate dimensions fall back to the box itself.
	w, h = FitBox(0, 0, 60, 40)
	assert.Equal(t, 60.0, w)
	assert.Equal(t, 40.0, h)
}
