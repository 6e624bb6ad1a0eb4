package colorblob

import "gocv.io/x/gocv"

const (
	// Full-range HSV encoding keeps every channel in [0, 255]
	channelMin = 0.0
	channelMax = 255.0
)

// HSV is a target color in full-range HSV encoding
type HSV struct {
	H float64
	S float64
	V float64
}

// ColorRadius is the per-channel tolerance around a target color
type ColorRadius struct {
	H float64
	S float64
	V float64
	A float64
}

// DefaultColorRadius is used until SetColorRadius is called
var DefaultColorRadius = ColorRadius{H: 25, S: 50, V: 50, A: 0}

// Bounds is one corner of an HSV box. A is unused and always zero.
type Bounds struct {
	H float64
	S float64
	V float64
	A float64
}

func (b Bounds) scalar() gocv.Scalar {
	return gocv.NewScalar(b.H, b.S, b.V, b.A)
}

// ColorRange is the inclusive HSV box used for thresholding
type ColorRange struct {
	Lower Bounds
	Upper Bounds
}

// NewColorRange derives lower and upper bounds around target.
// Hue is always kept inside [0, 255]. Saturation and value are clamped only when clampSV is set.
func NewColorRange(target HSV, radius ColorRadius, clampSV bool) ColorRange {
	cr := ColorRange{
		Lower: Bounds{
			H: clamp(target.H-radius.H, channelMin, channelMax),
			S: target.S - radius.S,
			V: target.V - radius.V,
		},
		Upper: Bounds{
			H: clamp(target.H+radius.H, channelMin, channelMax),
			S: target.S + radius.S,
			V: target.V + radius.V,
		},
	}
	if clampSV {
		cr.Lower.S = clamp(cr.Lower.S, channelMin, channelMax)
		cr.Upper.S = clamp(cr.Upper.S, channelMin, channelMax)
		cr.Lower.V = clamp(cr.Lower.V, channelMin, channelMax)
		cr.Upper.V = clamp(cr.Upper.V, channelMin, channelMax)
	}
	return cr
}

// Contains reports whether the given HSV pixel falls inside the range
func (cr ColorRange) Contains(pixel HSV) bool {
	return pixel.H >= cr.Lower.H && pixel.H <= cr.Upper.H &&
		pixel.S >= cr.Lower.S && pixel.S <= cr.Upper.S &&
		pixel.V >= cr.Lower.V && pixel.V <= cr.Upper.V
}

func (cr ColorRange) scalars() (gocv.Scalar, gocv.Scalar) {
	return cr.Lower.scalar(), cr.Upper.scalar()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
