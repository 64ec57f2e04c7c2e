// Package media loads recipe images and renders them as terminal art.
package media

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/qeesung/image2ascii/convert"
)

// maxImageBytes caps image downloads.
const maxImageBytes = 10 << 20

// Loader fetches images from local paths or http(s) URLs and caches the
// rendered output.
type Loader struct {
	httpClient *http.Client

	mu    sync.Mutex
	cache map[string]string
}

// NewLoader returns a loader whose downloads time out after timeout.
func NewLoader(timeout time.Duration) *Loader {
	return &Loader{
		httpClient: &http.Client{Timeout: timeout},
		cache:      make(map[string]string),
	}
}

// Load decodes the image at src.
func (l *Loader) Load(ctx context.Context, src string) (image.Image, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, fmt.Errorf("no image")
	}
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return l.fetch(ctx, src)
	}
	if strings.Contains(src, "://") {
		return nil, fmt.Errorf("unsupported image source %q", src)
	}

	f, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

func (l *Loader) fetch(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("request creation failed: %w", err)
	}
	req.Header.Set("Accept", "image/*")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image request failed with status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// Render loads src and converts it to colored ASCII art width columns wide.
// Results are cached per source and width.
func (l *Loader) Render(ctx context.Context, src string, width int) (string, error) {
	key := fmt.Sprintf("%s@%d", src, width)
	l.mu.Lock()
	if art, ok := l.cache[key]; ok {
		l.mu.Unlock()
		return art, nil
	}
	l.mu.Unlock()

	img, err := l.Load(ctx, src)
	if err != nil {
		return "", err
	}
	art := ToASCII(img, width)

	l.mu.Lock()
	l.cache[key] = art
	l.mu.Unlock()
	return art, nil
}

// ToASCII converts an image to colored ASCII art. Height follows the image
// aspect ratio, halved for the shape of terminal cells.
func ToASCII(img image.Image, width int) string {
	converter := convert.NewImageConverter()

	opts := convert.DefaultOptions
	opts.FixedWidth = width
	b := img.Bounds()
	if b.Dx() > 0 {
		opts.FixedHeight = max(1, width*b.Dy()/b.Dx()/2)
	}
	opts.Colored = true

	return converter.Image2ASCIIString(img, &opts)
}
