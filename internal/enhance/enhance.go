// Package enhance provides the image-pipeline operations HUSL exists for:
// perceptually meaningful hue masks and saturation/lightness adjustment.
// All functions operate on flat interleaved H,S,L buffers as produced by the
// pipeline package.
package enhance

import (
	"fmt"
	"image"

	"github.com/disintegration/gift"
)

// MaskOptions selects which pixels a hue mask covers.
type MaskOptions struct {
	// HueMin and HueMax bound the hue range in degrees. HueMin > HueMax
	// selects a range wrapping through 0 (e.g. 330..30 for reds).
	HueMin float64
	HueMax float64
	// MinSaturation excludes near-gray pixels whose hue is mostly noise.
	MinSaturation float64
	// MinLightness and MaxLightness bound the lightness band. A zero
	// MaxLightness means 100.
	MinLightness float64
	MaxLightness float64
	// BlurSigma softens the mask edges when > 0.
	BlurSigma float32
}

// HueMask builds a binary mask of the pixels whose hue falls in the given
// range, optionally smoothed with a Gaussian blur.
func HueMask(hsl []float64, width, height int, opts MaskOptions) (*image.Gray, error) {
	if len(hsl) != 3*width*height {
		return nil, fmt.Errorf("buffer length %d does not match %dx%d", len(hsl), width, height)
	}
	maxLight := opts.MaxLightness
	if maxLight <= 0 {
		maxLight = 100
	}

	mask := image.NewGray(image.Rect(0, 0, width, height))
	for i := 0; i < width*height; i++ {
		h := hsl[3*i]
		s := hsl[3*i+1]
		l := hsl[3*i+2]
		if s < opts.MinSaturation || l < opts.MinLightness || l > maxLight {
			continue
		}
		if hueInRange(h, opts.HueMin, opts.HueMax) {
			mask.Pix[i] = 255
		}
	}

	if opts.BlurSigma > 0 {
		mask = Smooth(mask, opts.BlurSigma)
	}
	return mask, nil
}

// hueInRange reports whether h lies within [min,max], treating min > max as a
// range wrapping through 0 degrees.
func hueInRange(h, min, max float64) bool {
	if min <= max {
		return h >= min && h <= max
	}
	return h >= min || h <= max
}

// Smooth applies a Gaussian blur to soften mask edges.
func Smooth(mask *image.Gray, sigma float32) *image.Gray {
	g := gift.New(gift.GaussianBlur(sigma))
	dst := image.NewGray(g.Bounds(mask.Bounds()))
	g.Draw(dst, mask)
	return dst
}

// Threshold sharpens a smoothed mask back to binary. Values at or above the
// threshold become white.
func Threshold(mask *image.Gray, threshold uint8) *image.Gray {
	result := image.NewGray(mask.Bounds())
	for i, v := range mask.Pix {
		if v >= threshold {
			result.Pix[i] = 255
		}
	}
	return result
}

// AdjustSaturation scales the saturation channel in place, clamped to
// [0,100]. Because HUSL saturation is normalized to the gamut, the result is
// always representable in sRGB.
func AdjustSaturation(hsl []float64, factor float64) error {
	if len(hsl)%3 != 0 {
		return fmt.Errorf("buffer length %d is not a multiple of 3", len(hsl))
	}
	if factor < 0 {
		return fmt.Errorf("factor must be non-negative")
	}
	for i := 1; i < len(hsl); i += 3 {
		s := hsl[i] * factor
		if s > 100 {
			s = 100
		}
		hsl[i] = s
	}
	return nil
}

// AdjustLightness scales the lightness channel in place, clamped to [0,100].
func AdjustLightness(hsl []float64, factor float64) error {
	if len(hsl)%3 != 0 {
		return fmt.Errorf("buffer length %d is not a multiple of 3", len(hsl))
	}
	if factor < 0 {
		return fmt.Errorf("factor must be non-negative")
	}
	for i := 2; i < len(hsl); i += 3 {
		l := hsl[i] * factor
		if l > 100 {
			l = 100
		}
		hsl[i] = l
	}
	return nil
}

// ApplyMask multiplies an RGB buffer by a mask, darkening pixels outside it.
// Used to visualize a hue mask against the source image.
func ApplyMask(rgb []uint8, mask *image.Gray) ([]uint8, error) {
	if len(rgb) != 3*len(mask.Pix) {
		return nil, fmt.Errorf("rgb length %d does not match mask size %d", len(rgb), len(mask.Pix))
	}
	out := make([]uint8, len(rgb))
	for i, m := range mask.Pix {
		f := uint32(m)
		out[3*i] = uint8(uint32(rgb[3*i]) * f / 255)
		out[3*i+1] = uint8(uint32(rgb[3*i+1]) * f / 255)
		out[3*i+2] = uint8(uint32(rgb[3*i+2]) * f / 255)
	}
	return out, nil
}
