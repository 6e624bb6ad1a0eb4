package colorblob

import (
	"image/color"

	"go.uber.org/zap"
)

// ColorOrder is the channel order of frames passed to Detector.Process
type ColorOrder uint16

const (
	// ColorOrderRGB is used for RGB and RGBA frames (e.g. mobile camera buffers)
	ColorOrderRGB ColorOrder = iota
	// ColorOrderBGR is used for BGR frames (gocv.VideoCapture, gocv.IMRead)
	ColorOrderBGR
)

const (
	// DefaultMinContourArea is a fraction of the largest contour area in the frame
	DefaultMinContourArea = 0.1
	// DefaultMinDrawRadius is the floor for drawn circle radius
	DefaultMinDrawRadius = 10.0
	// DefaultDrawThickness is the stroke width of drawn circles
	DefaultDrawThickness = 4
)

// DefaultDrawColor sets the first frame channel to 100, gocv maps B to channel 0
var DefaultDrawColor = color.RGBA{B: 100, A: 255}

// Option configures Detector
type Option func(*Detector)

// WithLogger sets logger. Default is no-op logger
func WithLogger(logger *zap.Logger) Option {
	return func(d *Detector) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithMinContourArea sets relative min contour area
func WithMinContourArea(area float64) Option {
	return func(d *Detector) {
		d.minContourArea = area
	}
}

// WithColorRadius sets per-channel radius used to derive color range
func WithColorRadius(radius ColorRadius) Option {
	return func(d *Detector) {
		d.colorRadius = radius
	}
}

// WithTarget sets target color right away
func WithTarget(target HSV) Option {
	return func(d *Detector) {
		d.target = target
		d.hasTarget = true
	}
}

// WithDrawing enables circle annotation on processed frames
func WithDrawing(enabled bool) Option {
	return func(d *Detector) {
		d.enabledDraw = enabled
	}
}

// WithDrawStyle sets annotation color, min radius and thickness
func WithDrawStyle(c color.RGBA, minRadius float64, thickness int) Option {
	return func(d *Detector) {
		d.drawColor = c
		d.minDrawRadius = minRadius
		d.drawThickness = thickness
	}
}

// WithColorOrder sets channel order of incoming frames
func WithColorOrder(order ColorOrder) Option {
	return func(d *Detector) {
		d.colorOrder = order
	}
}

// WithSaturationValueClamp clamps saturation and value bounds to [0, 255]
func WithSaturationValueClamp(enabled bool) Option {
	return func(d *Detector) {
		d.clampSV = enabled
	}
}

// WithHistory sets blob history capacity and proximity radius
func WithHistory(capacity int, matchRadius float64) Option {
	return func(d *Detector) {
		d.history = NewHistory(capacity, matchRadius)
	}
}
