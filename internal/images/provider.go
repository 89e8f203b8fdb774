// Package images fetches, captures and stores recipe photos.
package images

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nfnt/resize"

	"github.com/mmcdole/nomnom/internal/domain"
)

const (
	defaultMaxHeight = 500
	defaultTimeout   = 30 * time.Second
	maxImageBytes    = 20 << 20
)

// Capturer writes a photo from a capture device to outPath
type Capturer interface {
	Capture(ctx context.Context, outPath string) error
}

// Provider implements domain.ImageFetcher and domain.ImageProvider
type Provider struct {
	store      *Store
	camera     Capturer
	httpClient *http.Client
	maxHeight  uint
	logger     *slog.Logger
}

// NewProvider creates a provider that stores into store.
// camera may be nil; Capture then fails with ErrNoCamera.
func NewProvider(store *Store, camera Capturer, maxHeight int, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	if maxHeight <= 0 {
		maxHeight = defaultMaxHeight
	}
	return &Provider{
		store:      store,
		camera:     camera,
		httpClient: &http.Client{Timeout: defaultTimeout},
		maxHeight:  uint(maxHeight),
		logger:     logger,
	}
}

// FetchAndStore downloads the image at url, downsizes it and stores it
func (p *Provider) FetchAndStore(ctx context.Context, url string) (string, error) {
	if url == "" {
		return "", fmt.Errorf("fetch image: empty url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("failed to fetch image: status %d", resp.StatusCode)
	}

	ref, err := p.storeFrom(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return "", err
	}
	p.logger.Debug("stored remote image", "url", url, "ref", ref)
	return ref, nil
}

// FromFile imports the image file at path
func (p *Provider) FromFile(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path = expandHome(strings.TrimSpace(path))

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	ref, err := p.storeFrom(f)
	if err != nil {
		return "", err
	}
	p.logger.Debug("stored gallery image", "path", path, "ref", ref)
	return ref, nil
}

// Capture takes a photo with the configured camera command
func (p *Provider) Capture(ctx context.Context) (string, error) {
	if p.camera == nil {
		return "", domain.ErrNoCamera
	}

	dir, err := os.MkdirTemp("", "nomnom-capture")
	if err != nil {
		return "", fmt.Errorf("failed to create capture dir: %w", err)
	}
	defer os.RemoveAll(dir)

	out := filepath.Join(dir, "capture.jpg")
	if err := p.camera.Capture(ctx, out); err != nil {
		return "", fmt.Errorf("capture failed: %w", err)
	}
	return p.FromFile(ctx, out)
}

// Load resolves a reference through the backing store
func (p *Provider) Load(ref string) ([]byte, error) {
	return p.store.Load(ref)
}

// storeFrom decodes, downsizes and re-encodes an image before storing it
func (p *Provider) storeFrom(r io.Reader) (string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	// Keep aspect ratio, never upscale
	if bounds := img.Bounds(); uint(bounds.Dy()) > p.maxHeight {
		img = resize.Resize(0, p.maxHeight, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	switch strings.ToLower(format) {
	case "png":
		err = png.Encode(&buf, img)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	return p.store.Put(buf.Bytes())
}

// Info describes a stored image
type Info struct {
	Format string
	Width  int
	Height int
	Bytes  int
}

// Describe decodes the header of the image behind ref
func Describe(loader domain.ImageLoader, ref string) (Info, error) {
	data, err := loader.Load(ref)
	if err != nil {
		return Info{}, err
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, fmt.Errorf("failed to decode image: %w", err)
	}
	return Info{Format: format, Width: cfg.Width, Height: cfg.Height, Bytes: len(data)}, nil
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
