// Package husl implements the HUSL color space: a hue/saturation/lightness
// encoding derived from CIE-LUV in which saturation is normalized to [0,100]
// by the maximum chroma the sRGB gamut allows at a given hue and lightness.
//
// The forward path is RGB -> linear RGB -> CIE-XYZ -> CIE-LUV -> HUSL. The
// two expensive sub-computations (lightness and max chroma) and the hue angle
// each have an exact strategy and a cheaper approximate strategy selected via
// Options.
package husl

import "math"

const degPerRad = 180.0 / math.Pi

// Conv converts single pixels between sRGB and HUSL using a shared set of
// precomputed tables. A Conv is immutable and safe for concurrent use.
type Conv struct {
	tables *Tables
	opts   Options
}

// New returns a converter using the given tables and strategy options.
// A nil tables uses the process-wide default set.
func New(tables *Tables, opts Options) *Conv {
	if tables == nil {
		tables = Default()
	}
	return &Conv{tables: tables, opts: opts}
}

// Tables returns the table set backing this converter.
func (c *Conv) Tables() *Tables { return c.tables }

// Options returns the strategy options this converter was built with.
func (c *Conv) Options() Options { return c.opts }

// RGBToLUV converts one 8-bit sRGB pixel to CIE-LUV.
func (c *Conv) RGBToLUV(r, g, b uint8) (l, u, v float64) {
	rl := c.tables.linear[r]
	gl := c.tables.linear[g]
	bl := c.tables.linear[b]
	x, y, z := linearToXYZ(rl, gl, bl)
	return c.xyzToLUV(x, y, z)
}

// RGBToHUSL converts one 8-bit sRGB pixel to HUSL. Pure black and pure white
// map to their fixed boundary values.
func (c *Conv) RGBToHUSL(r, g, b uint8) (h, s, l float64) {
	if r == 255 && g == 255 && b == 255 {
		return WhiteHue, WhiteSaturation, WhiteLightness
	}
	if r == 0 && g == 0 && b == 0 {
		return 0, 0, 0
	}
	lv, u, v := c.RGBToLUV(r, g, b)
	return c.LUVToHUSL(lv, u, v)
}

// LUVToHUSL converts a CIE-LUV triple to HUSL. The caller is responsible for
// intercepting boundary pixels; at the LUV origin the hue is undefined and
// saturation degenerates to 0/0.
func (c *Conv) LUVToHUSL(l, u, v float64) (h, s, lo float64) {
	h = c.Hue(u, v)
	s = 100.0 * math.Sqrt(u*u+v*v) / c.MaxChroma(l, h)
	// Gamut-surface pixels land a float ulp or two past the chroma bound.
	if s > 100.0 {
		s = 100.0
	}
	return h, s, l
}

// Lightness maps an XYZ luminance in [0,1] to perceptual lightness in [0,100]
// using the configured strategy.
func (c *Conv) Lightness(y float64) float64 {
	if c.opts.Light == LightLUT {
		return c.lightnessLUT(y)
	}
	return lightnessExact(y)
}

// Hue returns the HUSL hue angle in [0,360) for a (U,V) pair.
func (c *Conv) Hue(u, v float64) float64 {
	var rad float64
	if c.opts.Hue == HueApprox {
		rad = atan2Approx(v, u)
	} else {
		rad = math.Atan2(v, u)
	}
	h := rad * degPerRad
	if h < 0 {
		h += 360.0
	}
	return h
}

// MaxChroma returns the largest chroma magnitude at (lightness, hue) that
// stays inside the sRGB gamut. This is the dominant cost of the forward
// conversion; the LUT strategy replaces it with four table reads.
func (c *Conv) MaxChroma(lightness, hue float64) float64 {
	if c.opts.Chroma == ChromaLUT {
		return c.maxChromaLUT(lightness, hue)
	}
	return maxChromaExact(lightness, hue)
}

// LinearLuminance returns the CIE Y channel for a linear RGB triple, for
// callers that only need lightness and can skip the full XYZ projection.
func LinearLuminance(r, g, b float64) float64 {
	return mInv[1][0]*r + mInv[1][1]*g + mInv[1][2]*b
}

func linearToXYZ(r, g, b float64) (x, y, z float64) {
	x = mInv[0][0]*r + mInv[0][1]*g + mInv[0][2]*b
	y = mInv[1][0]*r + mInv[1][1]*g + mInv[1][2]*b
	z = mInv[2][0]*r + mInv[2][1]*g + mInv[2][2]*b
	return x, y, z
}

func (c *Conv) xyzToLUV(x, y, z float64) (l, u, v float64) {
	scale := x + 15.0*y + 3.0*z
	uVar := 4.0 * x / scale
	vVar := 9.0 * y / scale
	l = c.Lightness(y)
	l13 := l * 13.0
	u = l13 * (uVar - refU)
	v = l13 * (vVar - refV)
	return l, u, v
}

func lightnessExact(y float64) float64 {
	if y > epsilon {
		return 116.0*math.Cbrt(y/refY) - 16.0
	}
	return (y / refY) * kappa
}

// lightnessLUT picks the segment the luminance falls in, derives a table
// index from the segment's step size, and reads the nearest entry.
func (c *Conv) lightnessLUT(y float64) float64 {
	var idx float64
	switch {
	case y < lightThresh0:
		idx = y / lightStep0
	case y < lightThresh1:
		idx = (y-lightThresh0)/lightStep1 + lightSegmentSize
	default:
		idx = (y-lightThresh1)/lightStep2 + 2*lightSegmentSize
	}
	i := int(math.Round(idx))
	if i < 0 {
		i = 0
	} else if i > lightTableSize-1 {
		i = lightTableSize - 1
	}
	return c.tables.light[i]
}

// maxChromaExact intersects the chroma ray at the given hue with both bound
// lines of each of the three sRGB gamut planes and takes the tightest
// positive intersection.
func maxChromaExact(lightness, hue float64) float64 {
	sub1 := (lightness + 16.0) * (lightness + 16.0) * (lightness + 16.0) / 1560896.0
	sub2 := sub1
	if sub1 <= epsilon {
		sub2 = lightness / kappa
	}
	theta := hue / 360.0 * 2.0 * math.Pi
	sinTheta := math.Sin(theta)
	cosTheta := math.Cos(theta)

	minLen := math.Min(
		minChromaLength(0, lightness, sub2, sinTheta, cosTheta),
		minChromaLength(1, lightness, sub2, sinTheta, cosTheta),
	)
	return math.Min(minLen, minChromaLength(2, lightness, sub2, sinTheta, cosTheta))
}

// minChromaLength returns the smaller positive ray length for one gamut
// plane's two bound lines. 10000 is a sentinel meaning neither candidate was
// positive, which only happens for degenerate (L,H) inputs; it is large
// enough to never win the cross-plane minimum for in-range pixels.
func minChromaLength(plane int, lightness, sub2, sinTheta, cosTheta float64) float64 {
	top1 := scaleTop1[plane] * sub2
	top2 := scaleTop2[plane] * lightness * sub2
	top2B := top2 - 769860.0*lightness
	bottom := scaleBottom[plane] * sub2
	bottomB := bottom + 126452.0

	minLength := 10000.0
	// NaN lengths (0/0 at the black corner) fail both comparisons and leave
	// the sentinel in place, matching the degenerate-input contract.
	if l := (top2 / bottom) / (sinTheta - (top1/bottom)*cosTheta); l > 0 {
		minLength = l
	}
	if l := (top2B / bottomB) / (sinTheta - (top1/bottomB)*cosTheta); l > 0 && l < minLength {
		minLength = l
	}
	return minLength
}

// maxChromaLUT bilinearly interpolates the chroma table over the unit square
// surrounding the fractional (hue, lightness) index.
func (c *Conv) maxChromaLUT(lightness, hue float64) float64 {
	hIdx := hue / chromaHueStep
	lIdx := lightness / chromaLightStep
	hFloor := clampIndex(int(math.Floor(hIdx)), chromaTableSize-2)
	lFloor := clampIndex(int(math.Floor(lIdx)), chromaTableSize-2)

	row0 := c.tables.chroma[hFloor*chromaTableSize:]
	row1 := c.tables.chroma[(hFloor+1)*chromaTableSize:]
	c00 := row0[lFloor]
	c01 := row0[lFloor+1]
	c10 := row1[lFloor]
	c11 := row1[lFloor+1]

	hNorm := hIdx - float64(hFloor)
	lNorm := lIdx - float64(lFloor)
	hInv := 1.0 - hNorm
	lInv := 1.0 - lNorm

	return c00*hInv*lInv + c10*hNorm*lInv + c01*hInv*lNorm + c11*hNorm*lNorm
}

func clampIndex(i, max int) int {
	if i < 0 {
		return 0
	}
	if i > max {
		return max
	}
	return i
}

// atan2Approx is a self-normalizing, quadrant-aware rational approximation
// of atan2 with a maximum error of 0.01 radians.
func atan2Approx(y, x float64) float64 {
	const (
		pi4  = math.Pi / 4.0
		pi34 = 3.0 * math.Pi / 4.0
	)
	absY := math.Abs(y) + 1e-10 // prevents 0/0 at the origin
	var r, angle float64
	if x < 0 {
		r = (x + absY) / (absY - x)
		angle = pi34
	} else {
		r = (x - absY) / (x + absY)
		angle = pi4
	}
	angle += (0.1963*r*r - 0.9817) * r
	if y < 0 {
		return -angle
	}
	return angle
}
