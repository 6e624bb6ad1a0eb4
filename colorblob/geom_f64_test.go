package colorblob

import (
	"image"
	"math"
	"testing"
)

const (
	eps = 0.00001
)

func TestEuclideanDistance(t *testing.T) {
	p1 := Point{X: 341, Y: 264}
	p2 := Point{X: 421, Y: 427}
	correnctAnswer := 181.57367
	answer := euclideanDistance(p1, p2)
	if math.Abs(answer-correnctAnswer) > eps {
		t.Errorf("Wrong answer: %v, correct answer: %v", answer, correnctAnswer)
	}
}

func TestIsInside(t *testing.T) {
	center := Point{X: 0, Y: 0}
	if !isInside(center, Point{X: 30, Y: 40}, 50) {
		t.Error("Point on the circle should be inside")
	}
	if isInside(center, Point{X: 30, Y: 40.1}, 50) {
		t.Error("Point beyond the circle should be outside")
	}
}

func TestScalePoints(t *testing.T) {
	points := []image.Point{{X: 1, Y: 2}, {X: 10, Y: 0}}
	scaled := scalePoints(points, 4)
	correct := []image.Point{{X: 4, Y: 8}, {X: 40, Y: 0}}
	for i := range correct {
		if scaled[i] != correct[i] {
			t.Errorf("Wrong point %d: %v, correct: %v", i, scaled[i], correct[i])
		}
	}
	if points[0].X != 1 {
		t.Error("Input points should not be modified")
	}
}

func TestImagePoint(t *testing.T) {
	tests := []struct {
		p       Point
		correct image.Point
	}{
		{Point{X: 10.4, Y: 10.6}, image.Pt(10, 11)},
		{Point{X: 199.5, Y: 200.49}, image.Pt(200, 200)},
		{Point{X: 0, Y: 0}, image.Pt(0, 0)},
	}
	for _, tt := range tests {
		if got := tt.p.ImagePoint(); got != tt.correct {
			t.Errorf("Wrong image point for %v: %v, correct: %v", tt.p, got, tt.correct)
		}
	}
}
