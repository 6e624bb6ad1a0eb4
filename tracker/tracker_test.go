package tracker

import (
	"testing"

	"github.com/LdDl/colorblob-go/colorblob"
	"github.com/google/uuid"
)

func movingCircles(frames int, start colorblob.Point, step colorblob.Point, radius float64) [][]colorblob.Circle {
	out := make([][]colorblob.Circle, frames)
	for i := 0; i < frames; i++ {
		out[i] = []colorblob.Circle{{
			Center: colorblob.Point{X: start.X + float64(i)*step.X, Y: start.Y + float64(i)*step.Y},
			Radius: radius,
		}}
	}
	return out
}

func TestMatchObjectsSingle(t *testing.T) {
	for _, algorithm := range []MatchingAlgorithm{MatchingAlgorithmGreedy, MatchingAlgorithmHungarian} {
		tracker := NewTracker(30.0, 5, 1.0, algorithm)
		iterations := movingCircles(20, colorblob.Point{X: 100, Y: 100}, colorblob.Point{X: 5, Y: 3}, 20)

		var firstID uuid.UUID
		for idx, circles := range iterations {
			err := tracker.MatchObjects(circles)
			if err != nil {
				t.Error(err)
				return
			}
			if idx == 0 {
				for objectID := range tracker.Objects {
					firstID = objectID
				}
			}
		}

		correctNumOfObjects := 1
		numOfObjects := len(tracker.Objects)
		if numOfObjects != correctNumOfObjects {
			t.Errorf("[%d] incorrect number of objects: %d, expected: %d", algorithm, numOfObjects, correctNumOfObjects)
			return
		}
		object, ok := tracker.Objects[firstID]
		if !ok {
			t.Errorf("[%d] track %s should survive all frames", algorithm, firstID)
			return
		}
		if len(object.GetTrack()) != 20 {
			t.Errorf("[%d] incorrect track length: %d, expected: %d", algorithm, len(object.GetTrack()), 20)
		}
		if !object.IsActive() {
			t.Errorf("[%d] track should be active", algorithm)
		}
	}
}

func TestMatchObjectsSpread(t *testing.T) {
	for _, algorithm := range []MatchingAlgorithm{MatchingAlgorithmGreedy, MatchingAlgorithmHungarian} {
		tracker := NewTracker(30.0, 5, 1.0, algorithm)
		one := movingCircles(15, colorblob.Point{X: 100, Y: 100}, colorblob.Point{X: 4, Y: 0}, 15)
		two := movingCircles(15, colorblob.Point{X: 400, Y: 300}, colorblob.Point{X: -4, Y: 2}, 25)
		three := movingCircles(15, colorblob.Point{X: 100, Y: 400}, colorblob.Point{X: 0, Y: -3}, 10)
		for idx := range one {
			circles := []colorblob.Circle{one[idx][0], two[idx][0]}
			if idx >= 5 {
				// Third blob appears later
				circles = append(circles, three[idx][0])
			}
			err := tracker.MatchObjects(circles)
			if err != nil {
				t.Error(err)
				return
			}
		}
		correctNumOfObjects := 3
		numOfObjects := len(tracker.Objects)
		if numOfObjects != correctNumOfObjects {
			t.Errorf("[%d] incorrect number of objects: %d, expected: %d", algorithm, numOfObjects, correctNumOfObjects)
		}
	}
}

func TestMatchObjectsRemoveLost(t *testing.T) {
	tracker := NewTracker(30.0, 2, 1.0, MatchingAlgorithmGreedy)
	err := tracker.MatchObjects([]colorblob.Circle{{Center: colorblob.Point{X: 10, Y: 10}, Radius: 5}})
	if err != nil {
		t.Error(err)
		return
	}
	for i := 0; i < 2; i++ {
		err = tracker.MatchObjects(nil)
		if err != nil {
			t.Error(err)
			return
		}
		if len(tracker.Objects) != 1 {
			t.Errorf("incorrect number of objects after %d empty frames: %d, expected: %d", i+1, len(tracker.Objects), 1)
			return
		}
		for _, object := range tracker.Objects {
			if object.GetNoMatchTimes() != i+1 {
				t.Errorf("incorrect no match times: %d, expected: %d", object.GetNoMatchTimes(), i+1)
			}
			if colorblob.Distance(object.GetPredicted(), colorblob.Point{X: 10, Y: 10}) > 5 {
				t.Errorf("Predicted position %v drifted too far from last seen center", object.GetPredicted())
			}
		}
	}
	err = tracker.MatchObjects(nil)
	if err != nil {
		t.Error(err)
		return
	}
	if len(tracker.Objects) != 0 {
		t.Errorf("incorrect number of objects: %d, expected: %d", len(tracker.Objects), 0)
	}
}

func TestMatchObjectsJump(t *testing.T) {
	tracker := NewTrackerDefault()
	err := tracker.MatchObjects([]colorblob.Circle{{Center: colorblob.Point{X: 10, Y: 10}, Radius: 5}})
	if err != nil {
		t.Error(err)
		return
	}
	// Too far from existing track: must be registered as a new one
	err = tracker.MatchObjects([]colorblob.Circle{{Center: colorblob.Point{X: 300, Y: 300}, Radius: 5}})
	if err != nil {
		t.Error(err)
		return
	}
	if len(tracker.Objects) != 2 {
		t.Errorf("incorrect number of objects: %d, expected: %d", len(tracker.Objects), 2)
	}
}

func TestParseMatchingAlgorithm(t *testing.T) {
	tests := []struct {
		in      string
		want    MatchingAlgorithm
		wantErr bool
	}{
		{"", MatchingAlgorithmGreedy, false},
		{"greedy", MatchingAlgorithmGreedy, false},
		{"hungarian", MatchingAlgorithmHungarian, false},
		{"iou", MatchingAlgorithmGreedy, true},
	}
	for _, tt := range tests {
		got, err := ParseMatchingAlgorithm(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMatchingAlgorithm(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMatchingAlgorithm(%q) = %v, expected: %v", tt.in, got, tt.want)
		}
	}
}
