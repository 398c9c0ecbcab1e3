package imagefile

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func translucent() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 128})
	// (2, 0) and row 1 stay transparent black
	return img
}

func TestOutputType(t *testing.T) {
	tests := []struct {
		imgType, format, want string
	}{
		{"png", "same", "png"},
		{"webp", "same", "webp"},
		{"jpeg", "png", "png"},
		{"jpeg", "unsup:png", "jpeg"},
		{"webp", "unsup:png", "png"},
		{"gif", "unsup:tiff", "gif"},
	}
	for _, tt := range tests {
		if got := OutputType(tt.imgType, tt.format); got != tt.want {
			t.Errorf("OutputType(%q, %q) = %q, want %q", tt.imgType, tt.format, got, tt.want)
		}
	}
}

func TestDestPath(t *testing.T) {
	if got, want := DestPath("/out", "photo.final.JPG", "png"), filepath.Join("/out", "photo.final.png"); got != want {
		t.Errorf("DestPath() = %q, want %q", got, want)
	}
	if got, want := DestPath("/out", "noext", "tiff"), filepath.Join("/out", "noext.tiff"); got != want {
		t.Errorf("DestPath() = %q, want %q", got, want)
	}
}

func TestSaveRoundTripsAlpha(t *testing.T) {
	src := translucent()
	dest := filepath.Join(t.TempDir(), "x.png")
	if err := Save(src, "png", dest, false); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	img, imgType, err := Load(dest)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if imgType != "png" {
		t.Errorf("type = %q, want png", imgType)
	}
	got, ok := img.(*image.NRGBA)
	if !ok {
		t.Fatalf("decoded %T, want *image.NRGBA", img)
	}
	if diff := cmp.Diff(src.Pix, got.Pix); diff != "" {
		t.Errorf("pixels changed (-want +got):\n%s", diff)
	}
}

func TestSaveRefusesExisting(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "x.png")
	if err := os.WriteFile(dest, []byte("keep me"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Save(translucent(), "png", dest, false); err == nil {
		t.Fatal("Save replaced an existing file")
	}
	if b, _ := os.ReadFile(dest); string(b) != "keep me" {
		t.Errorf("existing file changed: %q", b)
	}

	if err := Save(translucent(), "png", dest, true); err != nil {
		t.Fatalf("Save with overwrite failed: %v", err)
	}
	if _, _, err := Load(dest); err != nil {
		t.Errorf("overwritten file does not load: %v", err)
	}
}

func TestSaveRejectsUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "x.webp")
	if err := Save(translucent(), "webp", dest, false); err == nil {
		t.Fatal("Save succeeded for webp")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("left %d files behind after failed save", len(entries))
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, _, err := Decode(bytes.NewReader([]byte("definitely not an image"))); err == nil {
		t.Error("Decode accepted garbage")
	}
}

func TestDecodeReportsType(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, translucent()); err != nil {
		t.Fatal(err)
	}
	img, imgType, err := Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if imgType != "png" || img.Bounds().Dx() != 3 {
		t.Errorf("Decode() = %s %v, want png 3x2", imgType, img.Bounds())
	}
}
