// Package bridge exposes a colorblob.Detector to a host application in the
// shape of flat foreign calls: scalar setters, a packed float buffer of blobs
// and a blocking frame processing call.
//
// The detector is injected by the caller; the bridge never owns a global instance.
package bridge

import (
	"github.com/LdDl/colorblob-go/colorblob"
	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

// ValuesPerBlob is the stride of the packed blob buffer: center x, center y, radius
const ValuesPerBlob = 3

// Bridge adapts Detector to flat scalar arguments
type Bridge struct {
	detector *colorblob.Detector
	logger   *zap.Logger
}

// New creates Bridge around detector. Nil logger means no logging
func New(detector *colorblob.Detector, logger *zap.Logger) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bridge{
		detector: detector,
		logger:   logger,
	}
}

// Detector returns wrapped detector
func (b *Bridge) Detector() *colorblob.Detector {
	return b.detector
}

// SetHsvColor sets target color from three channel values
func (b *Bridge) SetHsvColor(v0, v1, v2 float64) {
	b.detector.SetHsvColor(colorblob.HSV{H: v0, S: v1, V: v2})
}

// SetMinContourArea sets relative min contour area
func (b *Bridge) SetMinContourArea(area float64) {
	b.detector.SetMinContourArea(area)
}

// SetEnableDraw toggles annotation of processed frames
func (b *Bridge) SetEnableDraw(enabled bool) {
	b.detector.SetEnableDraw(enabled)
}

// ListBlobs packs circles of the last processed frame into a flat buffer.
// Blob i occupies indices 3*i, 3*i+1, 3*i+2.
func (b *Bridge) ListBlobs() []float32 {
	return PackBlobs(b.detector.Blobs())
}

// DetectColor processes frame and blocks until done. Frame stays owned by the caller.
func (b *Bridge) DetectColor(frame *gocv.Mat) {
	b.detector.Process(frame)
	if ce := b.logger.Check(zap.DebugLevel, "detect color"); ce != nil {
		ce.Write(zap.Int("blobs", len(b.detector.Blobs())))
	}
}

// PackBlobs flattens circles into center x, center y, radius triples
func PackBlobs(circles []colorblob.Circle) []float32 {
	out := make([]float32, ValuesPerBlob*len(circles))
	for i, circle := range circles {
		out[ValuesPerBlob*i] = float32(circle.Center.X)
		out[ValuesPerBlob*i+1] = float32(circle.Center.Y)
		out[ValuesPerBlob*i+2] = float32(circle.Radius)
	}
	return out
}

// UnpackBlobs is the inverse of PackBlobs. Trailing values that do not form a whole triple are ignored
func UnpackBlobs(values []float32) []colorblob.Circle {
	out := make([]colorblob.Circle, len(values)/ValuesPerBlob)
	for i := range out {
		out[i] = colorblob.Circle{
			Center: colorblob.Point{
				X: float64(values[ValuesPerBlob*i]),
				Y: float64(values[ValuesPerBlob*i+1]),
			},
			Radius: float64(values[ValuesPerBlob*i+2]),
		}
	}
	return out
}
