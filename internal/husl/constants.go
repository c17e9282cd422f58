package husl

// CIE constants shared by both conversion directions. REF_U/REF_V are the
// chromaticity coordinates of the D65 reference white.
const (
	refY    = 1.0
	refU    = 0.19783000664283
	refV    = 0.46831999493879
	kappa   = 903.2962962
	epsilon = 0.0088564516
)

// Fixed HUSL value for pure white. Hue is ill-defined at zero chroma, so white
// pixels bypass the general formula entirely.
const (
	WhiteHue        = 19.916405993809086
	WhiteSaturation = 0.0
	WhiteLightness  = 100.0
)

// m projects CIE-XYZ onto linear sRGB. Its rows also define the three sRGB
// gamut boundary planes used by the max-chroma computation.
var m = [3][3]float64{
	{3.240969941904521, -1.537383177570093, -0.498610760293},
	{-0.96924363628087, 1.87596750150772, 0.041555057407175},
	{0.055630079696993, -0.20397695888897, 1.056971514242878},
}

// mInv projects linear sRGB onto CIE-XYZ (Celebi's minimax coefficients).
var mInv = [3][3]float64{
	{0.412391, 0.357584, 0.180481},
	{0.212639, 0.715169, 0.072192},
	{0.019331, 0.119195, 0.950532},
}

// Per-plane scale constants for the gamut bound lines, derived from the rows
// of m. Computed once at startup.
var (
	scaleTop1   [3]float64
	scaleTop2   [3]float64
	scaleBottom [3]float64
)

func init() {
	for i, row := range m {
		scaleTop1[i] = 284517.0*row[0] - 94839.0*row[2]
		scaleTop2[i] = 838422.0*row[2] + 769860.0*row[1] + 731718.0*row[0]
		scaleBottom[i] = 632260.0*row[2] - 126452.0*row[1]
	}
}
