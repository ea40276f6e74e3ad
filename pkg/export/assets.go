package export

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Asset is a decoded remote image ready for embedding. Width and Height are
// the intrinsic pixel dimensions.
type Asset struct {
	Data   []byte
	Format string
	Width  int
	Height int
}

// AssetLoader fetches report images over HTTP. A missing or broken image is
// never an error: the report renders without it.
type AssetLoader struct {
	client   *http.Client
	maxBytes int64
	logger   *zap.Logger
}

// NewAssetLoader builds a loader with the given fetch timeout and size cap.
func NewAssetLoader(timeout time.Duration, maxBytes int64, logger *zap.Logger) *AssetLoader {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if maxBytes <= 0 {
		maxBytes = 8 << 20
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssetLoader{
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// Fetch downloads and decodes the image at rawURL. It returns nil when the
// URL is empty, the fetch fails, the body exceeds the size cap, or the bytes
// are not a supported image format.
func (l *AssetLoader) Fetch(ctx context.Context, rawURL string) *Asset {
	if strings.TrimSpace(rawURL) == "" {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		l.logger.Debug("asset request build failed", zap.String("url", rawURL), zap.Error(err))
		return nil
	}
	resp, err := l.client.Do(req)
	if err != nil {
		l.logger.Debug("asset fetch failed", zap.String("url", rawURL), zap.Error(err))
		return nil
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		l.logger.Debug("asset fetch non-200", zap.String("url", rawURL), zap.Int("status", resp.StatusCode))
		return nil
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes+1))
	if err != nil {
		l.logger.Debug("asset read failed", zap.String("url", rawURL), zap.Error(err))
		return nil
	}
	if int64(len(data)) > l.maxBytes {
		l.logger.Debug("asset exceeds size cap", zap.String("url", rawURL), zap.Int("bytes", len(data)))
		return nil
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		l.logger.Debug("asset decode failed", zap.String("url", rawURL), zap.Error(err))
		return nil
	}
	imageType := strings.ToUpper(format)
	switch imageType {
	case "PNG", "JPEG", "GIF":
	default:
		l.logger.Debug("asset format unsupported", zap.String("url", rawURL), zap.String("format", format))
		return nil
	}
	return &Asset{
		Data:   data,
		Format: imageType,
		Width:  cfg.Width,
		Height: cfg.Height,
	}
}

// FetchAll resolves a set of URLs with bounded concurrency and returns a map
// keyed by URL. Unavailable assets map to nil entries, so lookups during
// layout stay deterministic regardless of network behaviour.
func (l *AssetLoader) FetchAll(ctx context.Context, urls []string, workers int) map[string]*Asset {
	if workers <= 0 {
		workers = 4
	}
	unique := make([]string, 0, len(urls))
	seen := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		if strings.TrimSpace(u) == "" {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		unique = append(unique, u)
	}

	results := make(map[string]*Asset, len(unique))
	if len(unique) == 0 {
		return results
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	jobs := make(chan string)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for u := range jobs {
				asset := l.Fetch(ctx, u)
				mu.Lock()
				results[u] = asset
				mu.Unlock()
			}
		}()
	}
	for _, u := range unique {
		jobs <- u
	}
	close(jobs)
	wg.Wait()
	return results
}

// FitBox scales intrinsic dimensions to fit inside maxW x maxH while
// preserving aspect ratio.
func FitBox(w, h, maxW, maxH float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return maxW, maxH
	}
	aspect := w / h
	var outW, outH float64
	if aspect > 1 {
		outW = maxW
		outH = maxW / aspect
		if outH > maxH {
			outH = maxH
			outW = maxH * aspect
		}
	} else {
		outH = maxH
		outW = maxH * aspect
		if outW > maxW {
			outW = maxW
			outH = maxW / aspect
		}
	}
	return outW, outH
}
