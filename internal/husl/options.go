package husl

import "fmt"

// LightStrategy selects how XYZ luminance is mapped to lightness L.
type LightStrategy int

const (
	// LightExact uses the piecewise CIE cube-root formula.
	LightExact LightStrategy = iota
	// LightLUT uses the segmented nearest-neighbor lightness table.
	// Max absolute error against LightExact is 0.05 lightness units.
	LightLUT
)

// ChromaStrategy selects how the maximum in-gamut chroma is computed.
type ChromaStrategy int

const (
	// ChromaExact intersects the chroma ray with the three gamut planes.
	ChromaExact ChromaStrategy = iota
	// ChromaLUT bilinearly interpolates the precomputed chroma table.
	// Saturation stays within 1.5 units of ChromaExact across the RGB cube.
	ChromaLUT
)

// HueStrategy selects how the (U,V) angle is computed.
type HueStrategy int

const (
	// HueAtan2 uses math.Atan2.
	HueAtan2 HueStrategy = iota
	// HueApprox uses a self-normalizing rational approximation with a max
	// error of 0.6 degrees, avoiding the transcendental call.
	HueApprox
)

// Options selects the accuracy/performance strategy for each of the three
// tunable sub-computations. The zero value selects the exact strategies.
type Options struct {
	Light  LightStrategy
	Chroma ChromaStrategy
	Hue    HueStrategy
}

func (s LightStrategy) String() string {
	if s == LightLUT {
		return "lut"
	}
	return "exact"
}

func (s ChromaStrategy) String() string {
	if s == ChromaLUT {
		return "lut"
	}
	return "exact"
}

func (s HueStrategy) String() string {
	if s == HueApprox {
		return "approx"
	}
	return "atan2"
}

// ParseLightStrategy parses "exact" or "lut".
func ParseLightStrategy(s string) (LightStrategy, error) {
	switch s {
	case "exact":
		return LightExact, nil
	case "lut":
		return LightLUT, nil
	}
	return 0, fmt.Errorf("invalid light strategy %q: must be 'exact' or 'lut'", s)
}

// ParseChromaStrategy parses "exact" or "lut".
func ParseChromaStrategy(s string) (ChromaStrategy, error) {
	switch s {
	case "exact":
		return ChromaExact, nil
	case "lut":
		return ChromaLUT, nil
	}
	return 0, fmt.Errorf("invalid chroma strategy %q: must be 'exact' or 'lut'", s)
}

// ParseHueStrategy parses "atan2" or "approx".
func ParseHueStrategy(s string) (HueStrategy, error) {
	switch s {
	case "atan2":
		return HueAtan2, nil
	case "approx":
		return HueApprox, nil
	}
	return 0, fmt.Errorf("invalid hue strategy %q: must be 'atan2' or 'approx'", s)
}
