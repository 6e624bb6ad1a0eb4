package colorblob

import (
	"image"
	"image/color"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

const (
	// Frames are halved twice before thresholding
	downsampleFactor = 4
	dilateKernelSize = 5
	approxEpsilon    = 3.0
)

var (
	ErrNegativeRadius = errors.New("color radius must not be negative")
)

// Detector thresholds frames by an HSV range, extracts external contours,
// fits enclosing circles and keeps a rolling history of blob centers.
//
// Process and setters take the write lock; accessors take the read lock,
// so a single Detector can be shared between goroutines.
type Detector struct {
	mu sync.RWMutex

	target      HSV
	hasTarget   bool
	colorRadius ColorRadius
	colorRange  ColorRange
	clampSV     bool
	colorOrder  ColorOrder

	minContourArea float64

	enabledDraw   bool
	drawColor     color.RGBA
	minDrawRadius float64
	drawThickness int

	contours [][]image.Point
	circles  []Circle
	history  *History

	// Intermediate Mats are allocated once and reused across frames
	pyrHalf     gocv.Mat
	pyrQuarter  gocv.Mat
	hsv         gocv.Mat
	mask        gocv.Mat
	dilatedMask gocv.Mat
	kernel      gocv.Mat
	closed      bool

	logger *zap.Logger
}

// NewDetector creates new instance of Detector. Call Close when done to release native memory.
func NewDetector(opts ...Option) *Detector {
	d := &Detector{
		colorRadius:    DefaultColorRadius,
		minContourArea: DefaultMinContourArea,
		drawColor:      DefaultDrawColor,
		minDrawRadius:  DefaultMinDrawRadius,
		drawThickness:  DefaultDrawThickness,
		contours:       make([][]image.Point, 0),
		circles:        make([]Circle, 0),
		history:        NewHistoryDefault(),
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.hasTarget {
		d.colorRange = NewColorRange(d.target, d.colorRadius, d.clampSV)
	}
	d.pyrHalf = gocv.NewMat()
	d.pyrQuarter = gocv.NewMat()
	d.hsv = gocv.NewMat()
	d.mask = gocv.NewMat()
	d.dilatedMask = gocv.NewMat()
	d.kernel = gocv.GetStructuringElement(gocv.MorphRect, image.Pt(dilateKernelSize, dilateKernelSize))
	return d
}

// SetHsvColor sets target color and recomputes the color range
func (d *Detector) SetHsvColor(target HSV) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.target = target
	d.hasTarget = true
	d.colorRange = NewColorRange(d.target, d.colorRadius, d.clampSV)
	d.logger.Debug("target color set",
		zap.Float64("h", target.H), zap.Float64("s", target.S), zap.Float64("v", target.V),
		zap.Any("range", d.colorRange),
	)
}

// SetColorRadius sets per-channel radius. The color range is recomputed if a target has been set already.
func (d *Detector) SetColorRadius(radius ColorRadius) error {
	if radius.H < 0 || radius.S < 0 || radius.V < 0 || radius.A < 0 {
		return errors.Wrapf(ErrNegativeRadius, "got %+v", radius)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.colorRadius = radius
	if d.hasTarget {
		d.colorRange = NewColorRange(d.target, d.colorRadius, d.clampSV)
	}
	return nil
}

// SetMinContourArea sets min contour area as a fraction of the largest contour area in a frame
func (d *Detector) SetMinContourArea(area float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.minContourArea = area
}

// SetEnableDraw toggles circle annotation on processed frames
func (d *Detector) SetEnableDraw(enabled bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enabledDraw = enabled
}

// Process runs the detection pipeline over frame. Empty frame is ignored,
// as is any frame after Close.
// When drawing is enabled, circles are drawn on frame in place.
func (d *Detector) Process(frame *gocv.Mat) {
	if frame == nil || frame.Empty() {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}

	gocv.PyrDown(*frame, &d.pyrHalf, image.Point{}, gocv.BorderDefault)
	gocv.PyrDown(d.pyrHalf, &d.pyrQuarter, image.Point{}, gocv.BorderDefault)
	gocv.CvtColor(d.pyrQuarter, &d.hsv, d.conversionCode())

	lower, upper := d.colorRange.scalars()
	gocv.InRangeWithScalar(d.hsv, lower, upper, &d.mask)
	gocv.Dilate(d.mask, &d.dilatedMask, d.kernel)

	contours := gocv.FindContours(d.dilatedMask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	// Find max contour area
	areas := make([]float64, contours.Size())
	maxArea := 0.0
	for i := 0; i < contours.Size(); i++ {
		areas[i] = gocv.ContourArea(contours.At(i))
		if areas[i] > maxArea {
			maxArea = areas[i]
		}
	}

	// Filter contours by relative area and map them back to the original frame size
	threshold := d.minContourArea * maxArea
	kept := make([][]image.Point, 0, contours.Size())
	circles := make([]Circle, 0, contours.Size())
	centers := make([]Point, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		if areas[i] <= threshold {
			continue
		}
		scaled := scalePoints(contours.At(i).ToPoints(), downsampleFactor)
		circle := fitCircle(scaled)
		if d.enabledDraw {
			d.drawCircle(frame, circle)
		}
		kept = append(kept, scaled)
		circles = append(circles, circle)
		centers = append(centers, circle.Center)
	}
	d.contours = kept
	d.circles = circles

	if d.history.Len()+len(centers) > d.history.Capacity() {
		d.logger.Debug("blob history reset", zap.Int("capacity", d.history.Capacity()))
	}
	d.history.Append(centers...)

	d.logger.Debug("frame processed",
		zap.Int("contours", contours.Size()),
		zap.Int("kept", len(kept)),
		zap.Float64("max_area", maxArea),
		zap.Int("history", d.history.Len()),
	)
}

func (d *Detector) conversionCode() gocv.ColorConversionCode {
	if d.colorOrder == ColorOrderBGR {
		return gocv.ColorBGRToHSVFull
	}
	return gocv.ColorRGBToHSVFull
}

func (d *Detector) drawCircle(frame *gocv.Mat, circle Circle) {
	radius := circle.Radius
	if radius < d.minDrawRadius {
		radius = d.minDrawRadius
	}
	gocv.Circle(frame, circle.Center.ImagePoint(), int(radius), d.drawColor, d.drawThickness)
}

// fitCircle approximates contour as a closed polygon and fits minimal enclosing circle around it
func fitCircle(contour []image.Point) Circle {
	pv := gocv.NewPointVectorFromPoints(contour)
	defer pv.Close()
	approx := gocv.ApproxPolyDP(pv, approxEpsilon, true)
	defer approx.Close()
	x, y, radius := gocv.MinEnclosingCircle(approx)
	return Circle{
		Center: Point{X: float64(x), Y: float64(y)},
		Radius: float64(radius),
	}
}

// Contours returns copy of contours kept on the last processed frame
func (d *Detector) Contours() [][]image.Point {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([][]image.Point, len(d.contours))
	for i, contour := range d.contours {
		out[i] = make([]image.Point, len(contour))
		copy(out[i], contour)
	}
	return out
}

// Blobs returns copy of circles fitted on the last processed frame
func (d *Detector) Blobs() []Circle {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Circle, len(d.circles))
	copy(out, d.circles)
	return out
}

// FindBlob looks up blob history for the first center close to p
func (d *Detector) FindBlob(p Point) (Point, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.history.Find(p)
}

// HistoryLen returns number of centers in blob history
func (d *Detector) HistoryLen() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.history.Len()
}

// HistoryPoints returns copy of blob history
func (d *Detector) HistoryPoints() []Point {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.history.Points()
}

// ColorRange returns current thresholding range
func (d *Detector) ColorRange() ColorRange {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.colorRange
}

// MinContourArea returns relative min contour area
func (d *Detector) MinContourArea() float64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.minContourArea
}

// EnabledDraw returns true if circles are drawn on processed frames
func (d *Detector) EnabledDraw() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.enabledDraw
}

// Close releases native memory held by intermediate Mats. Subsequent calls are no-op.
func (d *Detector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	return multierr.Combine(
		d.pyrHalf.Close(),
		d.pyrQuarter.Close(),
		d.hsv.Close(),
		d.mask.Close(),
		d.dilatedMask.Close(),
		d.kernel.Close(),
	)
}
