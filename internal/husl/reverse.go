package husl

import "math"

// Lightness extremes below/above which the reverse conversion snaps to pure
// black/white chroma. Mirrors the forward boundary handling: saturation is
// meaningless that close to the lightness limits.
const (
	lightnessMax = 99.99
	lightnessMin = 0.01
)

// HUSLToRGB converts one HUSL triple back to 8-bit sRGB: HUSL -> LCH -> LUV
// -> XYZ -> linear RGB -> gamma-encoded 8-bit channels.
func (c *Conv) HUSLToRGB(h, s, l float64) (r, g, b uint8) {
	l, chroma := c.huslToLCH(h, s, l)
	u, v := lchToLUV(h, chroma)
	x, y, z := luvToXYZ(l, u, v)
	return xyzToRGB(x, y, z)
}

// huslToLCH scales saturation back into an absolute chroma using the same
// max-chroma bound the forward direction divides by.
func (c *Conv) huslToLCH(h, s, l float64) (outL, chroma float64) {
	switch {
	case l > lightnessMax:
		return 100.0, 0.0
	case l < lightnessMin:
		return 0.0, 0.0
	}
	return l, c.MaxChroma(l, h) / 100.0 * s
}

func lchToLUV(h, chroma float64) (u, v float64) {
	hrad := h / degPerRad
	return math.Cos(hrad) * chroma, math.Sin(hrad) * chroma
}

func luvToXYZ(l, u, v float64) (x, y, z float64) {
	if l == 0 {
		return 0, 0, 0
	}
	yVar := lightnessToY(l)
	l13 := 13.0 * l
	uVar := u/l13 + refU
	vVar := v/l13 + refV
	y = yVar * refY
	x = -(9.0 * y * uVar) / ((uVar-4.0)*vVar - uVar*vVar)
	z = (9.0*y - 15.0*vVar*y - vVar*x) / (3.0 * vVar)
	return x, y, z
}

// lightnessToY inverts the piecewise CIE lightness formula.
func lightnessToY(l float64) float64 {
	if l > 8.0 {
		t := (l + 16.0) / 116.0
		return refY * t * t * t
	}
	return refY * l / kappa
}

func xyzToRGB(x, y, z float64) (r, g, b uint8) {
	r = encodeChannel(m[0][0]*x + m[0][1]*y + m[0][2]*z)
	g = encodeChannel(m[1][0]*x + m[1][1]*y + m[1][2]*z)
	b = encodeChannel(m[2][0]*x + m[2][1]*y + m[2][2]*z)
	return r, g, b
}

// encodeChannel gamma-encodes a linear value and quantizes to 8 bits.
func encodeChannel(lin float64) uint8 {
	var c float64
	if lin <= 0.0031308 {
		c = 12.92 * lin
	} else {
		c = 1.055*math.Pow(lin, 1.0/2.4) - 0.055
	}
	v := math.Round(c * 255.0)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
