package husl

import (
	"math"
	"sync"
)

const (
	// chromaTableSize is the edge length of the square max-chroma table.
	// 1024 keeps bilinear interpolation within about one saturation unit of
	// the exact computation across the 8-bit RGB cube.
	chromaTableSize = 1024

	// The lightness table covers Y in [0,1] with three segments of different
	// step sizes, because the lightness curve is much steeper near black than
	// near white.
	lightSegmentSize = 1024
	lightThresh0     = 0.05
	lightThresh1     = 0.4
)

const (
	chromaHueStep   = 360.0 / (chromaTableSize - 1)
	chromaLightStep = 100.0 / (chromaTableSize - 1)

	lightStep0 = lightThresh0 / lightSegmentSize
	lightStep1 = (lightThresh1 - lightThresh0) / lightSegmentSize
	lightStep2 = (1.0 - lightThresh1) / lightSegmentSize

	lightTableSize = 3 * lightSegmentSize
)

// Tables holds the precomputed lookup tables shared by all conversions:
// the 256-entry gamma decode table, the segmented lightness table, and the
// 2D max-chroma table. A Tables value is immutable after construction and is
// safe for unsynchronized concurrent reads.
type Tables struct {
	linear [256]float64
	light  []float64
	chroma []float64 // hue-major, chromaTableSize x chromaTableSize
}

// NewTables builds all lookup tables from the exact formulas.
// Building the max-chroma table is the dominant cost (about a million exact
// evaluations); construct once and share.
func NewTables() *Tables {
	t := &Tables{
		light:  make([]float64, lightTableSize),
		chroma: make([]float64, chromaTableSize*chromaTableSize),
	}

	for i := range t.linear {
		c := float64(i) / 255.0
		if c > 0.04045 {
			t.linear[i] = math.Pow((c+0.055)/1.055, 2.4)
		} else {
			t.linear[i] = c / 12.92
		}
	}

	for i := 0; i < lightSegmentSize; i++ {
		t.light[i] = lightnessExact(float64(i) * lightStep0)
		t.light[lightSegmentSize+i] = lightnessExact(lightThresh0 + float64(i)*lightStep1)
		t.light[2*lightSegmentSize+i] = lightnessExact(lightThresh1 + float64(i)*lightStep2)
	}

	for hi := 0; hi < chromaTableSize; hi++ {
		hue := float64(hi) * chromaHueStep
		row := t.chroma[hi*chromaTableSize : (hi+1)*chromaTableSize]
		// Row 0 holds the L->0 limit, which is 0: the gamut pinches to the
		// black point and max chroma is linear in L near it. The exact
		// formula degenerates to its sentinel at L=0 and must not be stored,
		// or interpolation would poison every sub-step lightness.
		row[0] = 0
		for li := 1; li < len(row); li++ {
			row[li] = maxChromaExact(float64(li)*chromaLightStep, hue)
		}
	}

	return t
}

var (
	defaultTables     *Tables
	defaultTablesOnce sync.Once
)

// Default returns the process-wide shared tables, built on first use.
func Default() *Tables {
	defaultTablesOnce.Do(func() {
		defaultTables = NewTables()
	})
	return defaultTables
}

// Linear returns the linear-light value for an 8-bit sRGB channel.
func (t *Tables) Linear(c uint8) float64 {
	return t.linear[c]
}
