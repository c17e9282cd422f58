// Package synth generates deterministic synthetic test images as flat
// interleaved RGB buffers, for benchmarks, golden tests, and eyeballing the
// conversion pipeline.
package synth

import (
	"fmt"
	"math/rand"

	"github.com/aquilax/go-perlin"

	"github.com/MeKo-Tech/huslpix/internal/husl"
)

// RandomRGB returns n pixels of uniform random RGB noise.
func RandomRGB(n int, seed int64) []uint8 {
	rng := rand.New(rand.NewSource(seed))
	buf := make([]uint8, 3*n)
	for i := range buf {
		buf[i] = uint8(rng.Intn(256))
	}
	return buf
}

// HueSweep renders a hue gradient left to right and a lightness gradient top
// to bottom at fixed saturation, built through the reverse pipeline so every
// pixel is exactly in gamut.
func HueSweep(width, height int, saturation float64) ([]uint8, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("dimensions must be positive")
	}
	if saturation < 0 || saturation > 100 {
		return nil, fmt.Errorf("saturation must be within [0,100]")
	}

	conv := husl.New(husl.Default(), husl.Options{})
	rows := float64(height - 1)
	if rows == 0 {
		rows = 1
	}
	buf := make([]uint8, 3*width*height)
	i := 0
	for y := 0; y < height; y++ {
		// Keep lightness off the exact extremes so hue stays meaningful.
		l := 5.0 + 90.0*float64(y)/rows
		for x := 0; x < width; x++ {
			h := 360.0 * float64(x) / float64(width)
			r, g, b := conv.HUSLToRGB(h, saturation, l)
			buf[i], buf[i+1], buf[i+2] = r, g, b
			i += 3
		}
	}
	return buf, nil
}

// NoiseImage renders Perlin noise into the HUSL space: noise drives hue
// around a base angle, a second octave drives lightness. scale controls the
// noise frequency (smaller = more detail).
func NoiseImage(width, height int, scale float64, seed int64) ([]uint8, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("dimensions must be positive")
	}
	if scale <= 0 {
		return nil, fmt.Errorf("scale must be positive")
	}

	p := perlin.NewPerlin(2.0, 2.0, 3, seed)
	conv := husl.New(husl.Default(), husl.Options{})

	buf := make([]uint8, 3*width*height)
	i := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			nx := float64(x) / scale
			ny := float64(y) / scale
			val := p.Noise2D(nx, ny)               // roughly [-1,1]
			lum := p.Noise2D(nx+1000.5, ny+1000.5) // decorrelated octave

			h := normalizeHue(180.0 + val*180.0)
			l := 20.0 + (lum+1.0)/2.0*60.0
			r, g, b := conv.HUSLToRGB(h, 65.0, l)
			buf[i], buf[i+1], buf[i+2] = r, g, b
			i += 3
		}
	}
	return buf, nil
}

func normalizeHue(h float64) float64 {
	for h < 0 {
		h += 360
	}
	for h >= 360 {
		h -= 360
	}
	return h
}
