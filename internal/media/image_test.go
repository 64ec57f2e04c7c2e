package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	for x := 0; x < 8; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: 120, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestLoadLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pie.png")
	if err := os.WriteFile(path, testPNG(t), 0o644); err != nil {
		t.Fatal(err)
	}
	l := NewLoader(time.Second)
	img, err := l.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if img.Bounds().Dx() != 8 {
		t.Errorf("width = %d", img.Bounds().Dx())
	}

	art, err := l.Render(context.Background(), path, 16)
	if err != nil || art == "" {
		t.Fatalf("Render = %q, %v", art, err)
	}
	// Second render is served from the cache even if the file is gone.
	os.Remove(path)
	if again, err := l.Render(context.Background(), path, 16); err != nil || again != art {
		t.Errorf("cached render = %v", err)
	}
}

func TestLoadHTTP(t *testing.T) {
	data := testPNG(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(data)
	}))
	defer srv.Close()

	l := NewLoader(time.Second)
	if _, err := l.Load(context.Background(), srv.URL+"/pie.png"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := l.Load(context.Background(), srv.URL+"/missing.png"); err == nil {
		t.Error("expected error for 404")
	}
}

func TestLoadRejects(t *testing.T) {
	l := NewLoader(time.Second)
	for _, src := range []string{"", "ftp://example.com/a.png", filepath.Join(t.TempDir(), "none.png")} {
		if _, err := l.Load(context.Background(), src); err == nil {
			t.Errorf("Load(%q) should fail", src)
		}
	}
}
