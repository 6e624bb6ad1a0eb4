package tracker

import (
	"testing"
)

func TestDistanceHeapOrder(t *testing.T) {
	h := make(distanceHeap, 0)
	for i, d := range []float64{7, 1, 5, 3, 9, 0.5} {
		h.Push(&candidate{detection: i, distance: d})
	}
	correct := []float64{0.5, 1, 3, 5, 7, 9}
	for i := range correct {
		popped := h.Pop()
		if popped.distance != correct[i] {
			t.Errorf("Wrong distance at %d: %v, correct: %v", i, popped.distance, correct[i])
		}
	}
	if h.Len() != 0 {
		t.Errorf("Heap should be empty, got %d", h.Len())
	}
}
