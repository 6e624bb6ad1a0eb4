package colorblob

import (
	"image"
	"math"
)

// Point is a blob center in frame coordinates
type Point struct {
	X float64
	Y float64
}

// ImagePoint rounds point to the nearest pixel
func (p Point) ImagePoint() image.Point {
	return image.Pt(int(math.Round(p.X)), int(math.Round(p.Y)))
}

// Circle is a minimal enclosing circle fitted around a contour
type Circle struct {
	Center Point
	Radius float64
}

func squaredDistance(p1, p2 Point) float64 {
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	return dx*dx + dy*dy
}

// isInside reports whether p2 lies within radius of p1 (boundary included)
func isInside(p1, p2 Point, radius float64) bool {
	return squaredDistance(p1, p2) <= radius*radius
}

func euclideanDistance(p1, p2 Point) float64 {
	return math.Sqrt(squaredDistance(p1, p2))
}

// Distance returns euclidean distance between two points
func Distance(p1, p2 Point) float64 {
	return euclideanDistance(p1, p2)
}

func scalePoints(points []image.Point, factor int) []image.Point {
	scaled := make([]image.Point, len(points))
	for i, pt := range points {
		scaled[i] = pt.Mul(factor)
	}
	return scaled
}
