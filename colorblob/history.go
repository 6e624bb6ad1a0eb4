package colorblob

const (
	// DefaultHistoryCapacity is the number of centers kept before the history is reset
	DefaultHistoryCapacity = 1024 * 2
	// DefaultMatchRadius is the proximity radius (in pixels) used by History.Find
	DefaultMatchRadius = 50.0
)

// History is an append-only list of recently seen blob centers.
// It is not safe for concurrent use on its own: Detector guards it.
type History struct {
	points      []Point
	capacity    int
	matchRadius float64
}

// NewHistoryDefault creates History with default capacity and match radius
func NewHistoryDefault() *History {
	return NewHistory(DefaultHistoryCapacity, DefaultMatchRadius)
}

// NewHistory creates new instance of History
func NewHistory(capacity int, matchRadius float64) *History {
	if capacity < 0 {
		capacity = 0
	}
	return &History{
		points:      make([]Point, 0, capacity),
		capacity:    capacity,
		matchRadius: matchRadius,
	}
}

// Append adds centers in order. Once the length exceeds capacity the whole history is dropped.
func (h *History) Append(points ...Point) {
	h.points = append(h.points, points...)
	if len(h.points) > h.capacity {
		h.points = h.points[:0]
	}
}

// Find returns the first stored center (in insertion order) within match radius of p
func (h *History) Find(p Point) (Point, bool) {
	for _, stored := range h.points {
		if isInside(stored, p, h.matchRadius) {
			return stored, true
		}
	}
	return Point{}, false
}

// Len returns number of stored centers
func (h *History) Len() int {
	return len(h.points)
}

// Capacity returns max number of centers kept before reset
func (h *History) Capacity() int {
	return h.capacity
}

// Points returns copy of stored centers
func (h *History) Points() []Point {
	out := make([]Point, len(h.points))
	copy(out, h.points)
	return out
}

// Reset drops every stored center
func (h *History) Reset() {
	h.points = h.points[:0]
}
