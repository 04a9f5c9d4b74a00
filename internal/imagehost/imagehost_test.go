package imagehost

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, solid(w, h, color.RGBA{0, 0, 255, 255})); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, solid(w, h, color.RGBA{255, 0, 0, 255}), nil); err != nil {
		t.Fatalf("jpeg.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestProcess(t *testing.T) {
	cases := []struct {
		name         string
		data         func(t *testing.T) []byte
		wantW, wantH int
	}{
		{"small_png", func(t *testing.T) []byte { return encodePNG(t, 40, 30) }, 40, 30},
		{"wide_jpeg", func(t *testing.T) []byte { return encodeJPEG(t, 2048, 1024) }, 1024, 512},
		{"tall_png", func(t *testing.T) []byte { return encodePNG(t, 600, 1200) }, 512, 1024},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			photo, err := Process(bytes.NewReader(tc.data(t)))
			if err != nil {
				t.Fatalf("Process: %v", err)
			}
			if photo.MIME != "image/jpeg" {
				t.Fatalf("MIME = %q, want image/jpeg", photo.MIME)
			}
			if photo.Width != tc.wantW || photo.Height != tc.wantH {
				t.Fatalf("size = %dx%d, want %dx%d", photo.Width, photo.Height, tc.wantW, tc.wantH)
			}
			cfg, err := jpeg.DecodeConfig(bytes.NewReader(photo.Data))
			if err != nil {
				t.Fatalf("output is not JPEG: %v", err)
			}
			if cfg.Width != tc.wantW || cfg.Height != tc.wantH {
				t.Fatalf("encoded size = %dx%d", cfg.Width, cfg.Height)
			}
		})
	}
}

func TestProcessRejectsNonImages(t *testing.T) {
	if _, err := Process(bytes.NewReader([]byte("GIF89a not really"))); err == nil {
		t.Fatal("Process accepted a GIF")
	}
	if _, err := Process(bytes.NewReader([]byte("hello world"))); err == nil {
		t.Fatal("Process accepted plain text")
	}
}

func TestProcessRejectsOversizedInput(t *testing.T) {
	data := make([]byte, MaxInputBytes+1)
	copy(data, encodePNG(t, 8, 8))
	if _, err := Process(bytes.NewReader(data)); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("err = %v, want ErrTooLarge", err)
	}
}

func TestUploadFile(t *testing.T) {
	var gotPreset, gotName string
	var gotSize int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(8 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotPreset = r.FormValue("upload_preset")
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		gotName = hdr.Filename
		gotSize = len(data)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"secure_url":"https://img.example/abc.jpg"}`))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "couch.png")
	if err := os.WriteFile(path, encodePNG(t, 64, 64), 0o600); err != nil {
		t.Fatalf("write photo: %v", err)
	}

	u := New(srv.URL, "unsigned", time.Second, nil)
	got, err := u.UploadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("UploadFile: %v", err)
	}
	if got != "https://img.example/abc.jpg" {
		t.Fatalf("url = %q", got)
	}
	if gotPreset != "unsigned" {
		t.Fatalf("upload_preset = %q, want unsigned", gotPreset)
	}
	if gotName != "couch.jpg" {
		t.Fatalf("filename = %q, want couch.jpg", gotName)
	}
	if gotSize == 0 {
		t.Fatal("empty file part")
	}
}

func TestUploadErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bad":
			http.Error(w, "invalid preset", http.StatusBadRequest)
		default:
			_, _ = w.Write([]byte(`{}`))
		}
	}))
	defer srv.Close()

	photo := &Photo{Data: []byte{0xff, 0xd8}, MIME: "image/jpeg"}

	if _, err := New(srv.URL+"/bad", "p", time.Second, nil).Upload(context.Background(), "a.jpg", photo); err == nil {
		t.Fatal("expected status error")
	}
	if _, err := New(srv.URL, "p", time.Second, nil).Upload(context.Background(), "a.jpg", photo); err == nil {
		t.Fatal("expected missing secure_url error")
	}
	_, err := New(srv.URL, "", time.Second, nil).Upload(context.Background(), "a.jpg", photo)
	if !errors.Is(err, ErrDisabled) {
		t.Fatalf("err = %v, want ErrDisabled", err)
	}
}
