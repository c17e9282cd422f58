// Package imgio bridges image files and the flat interleaved RGB buffers the
// conversion pipeline operates on.
package imgio

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"golang.org/x/image/draw"

	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
)

// Load decodes an image file into a flat interleaved R,G,B buffer.
// Alpha is dropped; the pipeline has no alpha semantics.
func Load(path string) (rgb []uint8, width, height int, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	rgb, width, height = Flatten(img)
	return rgb, width, height, nil
}

// Flatten converts a decoded image into a flat interleaved RGB buffer.
func Flatten(img image.Image) (rgb []uint8, width, height int) {
	bounds := img.Bounds()
	width, height = bounds.Dx(), bounds.Dy()
	rgb = make([]uint8, 3*width*height)

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			// RGBA() returns 16-bit values; take the high byte.
			rgb[i] = uint8(r >> 8)
			rgb[i+1] = uint8(g >> 8)
			rgb[i+2] = uint8(b >> 8)
			i += 3
		}
	}
	return rgb, width, height
}

// ToImage converts a flat interleaved RGB buffer back into an image.
func ToImage(rgb []uint8, width, height int) (*image.RGBA, error) {
	if len(rgb) != 3*width*height {
		return nil, fmt.Errorf("buffer length %d does not match %dx%d", len(rgb), width, height)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	i := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			o := img.PixOffset(x, y)
			img.Pix[o] = rgb[i]
			img.Pix[o+1] = rgb[i+1]
			img.Pix[o+2] = rgb[i+2]
			img.Pix[o+3] = 255
			i += 3
		}
	}
	return img, nil
}

// ChannelToGray renders one float channel as a grayscale image, mapping
// [0,maxVal] onto [0,255].
func ChannelToGray(values []float64, width, height int, maxVal float64) (*image.Gray, error) {
	if len(values) != width*height {
		return nil, fmt.Errorf("channel length %d does not match %dx%d", len(values), width, height)
	}
	if maxVal <= 0 {
		return nil, fmt.Errorf("maxVal must be positive")
	}
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i, v := range values {
		scaled := v / maxVal * 255.0
		if scaled < 0 {
			scaled = 0
		} else if scaled > 255 {
			scaled = 255
		}
		img.Pix[i] = uint8(scaled + 0.5)
	}
	return img, nil
}

// SavePNG writes an image as PNG.
func SavePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("failed to encode PNG %s: %w", path, err)
	}
	return nil
}

// Downscale resizes an image so its longer edge is at most maxDim, keeping
// aspect ratio. Images already small enough are returned unchanged. Used for
// histogram sampling, where full resolution buys nothing.
func Downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	var dw, dh int
	if w >= h {
		dw = maxDim
		dh = h * maxDim / w
	} else {
		dh = maxDim
		dw = w * maxDim / h
	}
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}
