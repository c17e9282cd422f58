// Package stats computes HUSL channel histograms for images and persists
// them to a SQLite database, so an image library can be sorted or queried by
// perceptual hue, saturation, or lightness.
package stats

import "fmt"

const (
	// HueBins spans [0,360) in 10-degree buckets.
	HueBins = 36
	// SatBins and LightBins span [0,100] in 5-unit buckets.
	SatBins   = 20
	LightBins = 20

	// MinMaskSaturation excludes near-gray pixels from the hue histogram;
	// their hue is numerical noise.
	MinMaskSaturation = 5.0
)

// Histogram aggregates HUSL channel distributions for one image.
type Histogram struct {
	Hue        [HueBins]int64
	Saturation [SatBins]int64
	Lightness  [LightBins]int64
	Pixels     int64
	SumSat     float64
	SumLight   float64
}

// Compute builds a histogram from an interleaved H,S,L buffer.
func Compute(hsl []float64) (Histogram, error) {
	var hist Histogram
	if len(hsl)%3 != 0 {
		return hist, fmt.Errorf("buffer length %d is not a multiple of 3", len(hsl))
	}

	for i := 0; i+2 < len(hsl); i += 3 {
		h, s, l := hsl[i], hsl[i+1], hsl[i+2]
		if s >= MinMaskSaturation {
			hist.Hue[binIndex(h, 360, HueBins)]++
		}
		hist.Saturation[binIndex(s, 100, SatBins)]++
		hist.Lightness[binIndex(l, 100, LightBins)]++
		hist.SumSat += s
		hist.SumLight += l
		hist.Pixels++
	}
	return hist, nil
}

func binIndex(v, max float64, bins int) int {
	i := int(v / max * float64(bins))
	if i < 0 {
		return 0
	}
	if i >= bins {
		return bins - 1
	}
	return i
}

// DominantHueBin returns the hue bucket with the highest count, or -1 when
// no pixel cleared the saturation floor (a gray image has no dominant hue).
func (h *Histogram) DominantHueBin() int {
	best := -1
	var bestCount int64
	for i, c := range h.Hue {
		if c > bestCount {
			best = i
			bestCount = c
		}
	}
	return best
}

// DominantHue returns the center of the dominant hue bucket in degrees, or
// -1 when the image has no dominant hue.
func (h *Histogram) DominantHue() float64 {
	bin := h.DominantHueBin()
	if bin < 0 {
		return -1
	}
	return (float64(bin) + 0.5) * 360.0 / HueBins
}

// MeanSaturation returns the average saturation over all pixels.
func (h *Histogram) MeanSaturation() float64 {
	if h.Pixels == 0 {
		return 0
	}
	return h.SumSat / float64(h.Pixels)
}

// MeanLightness returns the average lightness over all pixels.
func (h *Histogram) MeanLightness() float64 {
	if h.Pixels == 0 {
		return 0
	}
	return h.SumLight / float64(h.Pixels)
}
