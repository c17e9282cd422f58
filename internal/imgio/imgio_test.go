package imgio

import (
	"bytes"
	"image"
	"image/color"
	"path/filepath"
	"testing"
)

func TestFlattenAndToImageRoundTrip(t *testing.T) {
	rgb := []uint8{
		255, 0, 0, 0, 255, 0,
		0, 0, 255, 128, 64, 32,
	}

	img, err := ToImage(rgb, 2, 2)
	if err != nil {
		t.Fatalf("ToImage failed: %v", err)
	}

	flat, width, height := Flatten(img)
	if width != 2 || height != 2 {
		t.Fatalf("Expected 2x2, got %dx%d", width, height)
	}
	if !bytes.Equal(flat, rgb) {
		t.Errorf("Round trip changed pixels: got %v, want %v", flat, rgb)
	}
}

func TestToImageSizeMismatch(t *testing.T) {
	if _, err := ToImage(make([]uint8, 11), 2, 2); err == nil {
		t.Error("Expected error for mismatched buffer length")
	}
}

func TestFlattenNonZeroOrigin(t *testing.T) {
	img := image.NewRGBA(image.Rect(3, 5, 5, 7))
	img.Set(3, 5, color.RGBA{R: 200, A: 255})

	flat, width, height := Flatten(img)
	if width != 2 || height != 2 {
		t.Fatalf("Expected 2x2, got %dx%d", width, height)
	}
	if flat[0] != 200 {
		t.Errorf("Expected first pixel R=200, got %d", flat[0])
	}
}

func TestLoadSavePNG(t *testing.T) {
	rgb := []uint8{10, 20, 30, 200, 100, 50}
	img, err := ToImage(rgb, 2, 1)
	if err != nil {
		t.Fatalf("ToImage failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "test.png")
	if err := SavePNG(path, img); err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}

	loaded, width, height, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if width != 2 || height != 1 {
		t.Fatalf("Expected 2x1, got %dx%d", width, height)
	}
	if !bytes.Equal(loaded, rgb) {
		t.Errorf("PNG round trip changed pixels: got %v, want %v", loaded, rgb)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, _, _, err := Load(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestChannelToGray(t *testing.T) {
	values := []float64{0, 50, 100, 120}
	gray, err := ChannelToGray(values, 2, 2, 100)
	if err != nil {
		t.Fatalf("ChannelToGray failed: %v", err)
	}

	want := []uint8{0, 128, 255, 255} // 120 clamps to max
	for i, w := range want {
		if gray.Pix[i] != w {
			t.Errorf("pixel %d: got %d, want %d", i, gray.Pix[i], w)
		}
	}
}

func TestChannelToGrayValidation(t *testing.T) {
	if _, err := ChannelToGray(make([]float64, 3), 2, 2, 100); err == nil {
		t.Error("Expected error for mismatched channel length")
	}
	if _, err := ChannelToGray(make([]float64, 4), 2, 2, 0); err == nil {
		t.Error("Expected error for non-positive maxVal")
	}
}

func TestDownscale(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	small := Downscale(img, 50)
	bounds := small.Bounds()
	if bounds.Dx() != 50 || bounds.Dy() != 25 {
		t.Errorf("Expected 50x25, got %dx%d", bounds.Dx(), bounds.Dy())
	}

	tall := image.NewRGBA(image.Rect(0, 0, 100, 400))
	smallTall := Downscale(tall, 50)
	bounds = smallTall.Bounds()
	if bounds.Dx() != 12 || bounds.Dy() != 50 {
		t.Errorf("Expected 12x50, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestDownscaleNoop(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 30, 40))
	if got := Downscale(img, 50); got != image.Image(img) {
		t.Error("Expected small image to be returned unchanged")
	}
}
