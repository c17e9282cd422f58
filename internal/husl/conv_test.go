package husl

import (
	"math"
	"testing"
)

// Reference HUSL values derived from the exact CIE formulas (independently
// cross-checked against the husl reference implementation). The primaries sit
// on the gamut surface, where the raw ratio overshoots 100 by a float ulp or
// two and is clamped.
var huslReference = []struct {
	r, g, b uint8
	h, s, l float64
}{
	{128, 64, 32, 27.165204, 80.671979, 34.723560},
	{255, 0, 0, 12.177021, 100.0, 53.237115},
	{0, 255, 0, 127.715079, 100.0, 87.735535},
	{0, 0, 255, 265.874404, 100.0, 32.300803},
	{12, 200, 77, 132.535734, 98.980406, 70.816213},
	{30, 140, 230, 248.936643, 96.042313, 56.825097},
}

func TestRGBToHUSL_ReferenceValues(t *testing.T) {
	conv := New(Default(), Options{})

	for _, ref := range huslReference {
		h, s, l := conv.RGBToHUSL(ref.r, ref.g, ref.b)
		if math.Abs(h-ref.h) > 1e-4 || math.Abs(s-ref.s) > 1e-4 || math.Abs(l-ref.l) > 1e-4 {
			t.Errorf("RGBToHUSL(%d,%d,%d) = (%f,%f,%f), want (%f,%f,%f)",
				ref.r, ref.g, ref.b, h, s, l, ref.h, ref.s, ref.l)
		}
	}
}

func TestRGBToHUSL_Boundaries(t *testing.T) {
	conv := New(Default(), Options{})

	h, s, l := conv.RGBToHUSL(0, 0, 0)
	if h != 0 || s != 0 || l != 0 {
		t.Errorf("black = (%f,%f,%f), want (0,0,0)", h, s, l)
	}

	h, s, l = conv.RGBToHUSL(255, 255, 255)
	if h != WhiteHue || s != WhiteSaturation || l != WhiteLightness {
		t.Errorf("white = (%f,%f,%f), want (%f,0,100)", h, s, l, WhiteHue)
	}
}

// Near-black and near-white pixels take the general path; they must still
// produce finite, in-range output.
func TestRGBToHUSL_NearBoundaries(t *testing.T) {
	conv := New(Default(), Options{})

	for _, px := range []struct{ r, g, b uint8 }{
		{1, 1, 1}, {254, 254, 254}, {255, 255, 254}, {0, 0, 1}, {1, 0, 0},
	} {
		h, s, l := conv.RGBToHUSL(px.r, px.g, px.b)
		if math.IsNaN(h) || math.IsNaN(s) || math.IsNaN(l) {
			t.Fatalf("RGBToHUSL(%d,%d,%d) produced NaN", px.r, px.g, px.b)
		}
		if h < 0 || h >= 360 || s < 0 || s > 100 || l < 0 || l > 100.001 {
			t.Errorf("RGBToHUSL(%d,%d,%d) = (%f,%f,%f) out of range", px.r, px.g, px.b, h, s, l)
		}
	}
}

func TestRGBToHUSL_RangesOverGrid(t *testing.T) {
	conv := New(Default(), Options{})

	for r := 0; r < 256; r += 17 {
		for g := 0; g < 256; g += 17 {
			for b := 0; b < 256; b += 17 {
				h, s, l := conv.RGBToHUSL(uint8(r), uint8(g), uint8(b))
				if h < 0 || h >= 360 {
					t.Fatalf("hue %f out of [0,360) for (%d,%d,%d)", h, r, g, b)
				}
				if s < -1e-9 || s > 100 {
					t.Fatalf("saturation %f out of [0,100] for (%d,%d,%d)", s, r, g, b)
				}
				if l < -1e-9 || l > 100.001 {
					t.Fatalf("lightness %f out of [0,100] for (%d,%d,%d)", l, r, g, b)
				}
			}
		}
	}
}

func TestLinearTable(t *testing.T) {
	tables := Default()

	cases := []struct {
		c    uint8
		want float64
	}{
		{0, 0.0},
		{1, 0.0003035269835488375},
		{10, 0.003035269835488375},
		{11, 0.003346535763899161},
		{128, 0.21586050011389926},
		{255, 1.0},
	}
	for _, tc := range cases {
		if got := tables.Linear(tc.c); math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("Linear(%d) = %v, want %v", tc.c, got, tc.want)
		}
	}
}

func TestGrayPixelsHaveNoSaturation(t *testing.T) {
	conv := New(Default(), Options{})

	for _, v := range []uint8{1, 10, 100, 200, 254} {
		_, s, _ := conv.RGBToHUSL(v, v, v)
		if s > 0.01 {
			t.Errorf("gray (%d,%d,%d) saturation = %f, want ~0", v, v, v, s)
		}
	}
}

func BenchmarkRGBToHUSL_Exact(b *testing.B) {
	conv := New(Default(), Options{})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		conv.RGBToHUSL(uint8(i), uint8(i>>8), uint8(i>>16))
	}
}

func BenchmarkRGBToHUSL_LUT(b *testing.B) {
	conv := New(Default(), Options{Light: LightLUT, Chroma: ChromaLUT, Hue: HueApprox})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		conv.RGBToHUSL(uint8(i), uint8(i>>8), uint8(i>>16))
	}
}
