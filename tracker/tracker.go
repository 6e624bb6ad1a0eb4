package tracker

import (
	"math"
	"sort"

	"github.com/LdDl/colorblob-go/colorblob"
	"github.com/arthurkushman/go-hungarian"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// MatchingAlgorithm is for algorithm type for matching detections to tracks
type MatchingAlgorithm uint16

const (
	// MatchingAlgorithmGreedy matches detections to nearest tracks in order of increasing distance
	MatchingAlgorithmGreedy MatchingAlgorithm = iota
	// MatchingAlgorithmHungarian uses the Hungarian algorithm (Kuhn-Munkres) for optimal assignment
	MatchingAlgorithmHungarian
)

// ParseMatchingAlgorithm converts "greedy" or "hungarian" to MatchingAlgorithm
func ParseMatchingAlgorithm(s string) (MatchingAlgorithm, error) {
	switch s {
	case "", "greedy":
		return MatchingAlgorithmGreedy, nil
	case "hungarian":
		return MatchingAlgorithmHungarian, nil
	default:
		return MatchingAlgorithmGreedy, errors.Errorf("unknown matching algorithm '%s'", s)
	}
}

// Tracker assigns persistent identifiers to blobs detected on consecutive frames
type Tracker struct {
	// Main storage
	Objects map[uuid.UUID]*Track
	// Threshold distance in pixels. Tracks with larger radius use the radius instead. Default 30.0
	minDistThreshold float64
	// Max number of frames when object could not be found again. Default is 75
	maxNoMatch int
	// Time between frames for Kalman filter. Default 1.0
	dt        float64
	algorithm MatchingAlgorithm
	logger    *zap.Logger
}

// NewTrackerDefault creates default instance of Tracker
func NewTrackerDefault() *Tracker {
	return NewTracker(30.0, 75, 1.0, MatchingAlgorithmGreedy)
}

// NewTracker creates new instance of Tracker
func NewTracker(minDistThreshold float64, maxNoMatch int, dt float64, algorithm MatchingAlgorithm) *Tracker {
	return &Tracker{
		Objects:          make(map[uuid.UUID]*Track),
		minDistThreshold: minDistThreshold,
		maxNoMatch:       maxNoMatch,
		dt:               dt,
		algorithm:        algorithm,
		logger:           zap.NewNop(),
	}
}

// SetLogger sets logger for track lifecycle events
func (tracker *Tracker) SetLogger(logger *zap.Logger) {
	if logger != nil {
		tracker.logger = logger
	}
}

// MatchObjects matches circles detected on a new frame to existing tracks.
// Unmatched circles become new tracks; tracks lost for more than maxNoMatch frames are removed.
func (tracker *Tracker) MatchObjects(circles []colorblob.Circle) error {
	for _, object := range tracker.Objects {
		object.active = false
		object.PredictNextPosition()
	}

	var assignments map[int]uuid.UUID
	switch tracker.algorithm {
	case MatchingAlgorithmHungarian:
		assignments = tracker.matchHungarian(circles)
	default:
		assignments = tracker.matchGreedy(circles)
	}

	for i, circle := range circles {
		trackID, ok := assignments[i]
		if !ok {
			newTrack := NewTrackWithTime(circle, tracker.dt)
			newTrack.active = true
			tracker.Objects[newTrack.id] = newTrack
			tracker.logger.Debug("track registered", zap.String("id", newTrack.id.String()))
			continue
		}
		err := tracker.Objects[trackID].update(circle)
		if err != nil {
			return errors.Wrapf(err, "Can't update track with id %s", trackID.String())
		}
	}

	// Clean up existing data
	for objectID, object := range tracker.Objects {
		if object.active {
			continue
		}
		object.noMatchTimes++
		// Remove object if it was not found for a long time
		if object.noMatchTimes > tracker.maxNoMatch {
			delete(tracker.Objects, objectID)
			tracker.logger.Debug("track removed", zap.String("id", objectID.String()))
		}
	}
	return nil
}

// matchGreedy returns detection index to track id assignments
func (tracker *Tracker) matchGreedy(circles []colorblob.Circle) map[int]uuid.UUID {
	priorityQueue := make(distanceHeap, 0, len(circles))
	for i, circle := range circles {
		minID := uuid.UUID{}
		minDistance := math.MaxFloat64
		for objectID, object := range tracker.Objects {
			dist := object.distanceTo(circle)
			if dist < minDistance {
				minDistance = dist
				minID = objectID
			}
		}
		priorityQueue.Push(&candidate{
			detection: i,
			trackID:   minID,
			distance:  minDistance,
		})
	}

	assignments := make(map[int]uuid.UUID, len(circles))
	// We need to prevent double update of objects
	reservedObjects := make(map[uuid.UUID]struct{})
	for priorityQueue.Len() > 0 {
		popped := priorityQueue.Pop()
		// Min-heap guarantees that each track is taken by its closest detection first
		if _, ok := reservedObjects[popped.trackID]; ok {
			continue
		}
		object, ok := tracker.Objects[popped.trackID]
		if !ok {
			continue
		}
		if popped.distance <= object.gate(tracker.minDistThreshold) {
			assignments[popped.detection] = popped.trackID
			reservedObjects[popped.trackID] = struct{}{}
		}
	}
	return assignments
}

// matchHungarian returns detection index to track id assignments maximizing total closeness
func (tracker *Tracker) matchHungarian(circles []colorblob.Circle) map[int]uuid.UUID {
	assignments := make(map[int]uuid.UUID, len(circles))
	if len(tracker.Objects) == 0 || len(circles) == 0 {
		return assignments
	}
	trackIDs := make([]uuid.UUID, 0, len(tracker.Objects))
	for objectID := range tracker.Objects {
		trackIDs = append(trackIDs, objectID)
	}
	sort.Slice(trackIDs, func(i, j int) bool {
		return trackIDs[i].String() < trackIDs[j].String()
	})

	// Pad to square matrix with zero scores (no match)
	size := len(trackIDs)
	if len(circles) > size {
		size = len(circles)
	}
	scores := make([][]float64, size)
	for i := range scores {
		scores[i] = make([]float64, size)
	}
	for i, objectID := range trackIDs {
		object := tracker.Objects[objectID]
		gate := object.gate(tracker.minDistThreshold)
		for j, circle := range circles {
			dist := object.distanceTo(circle)
			if dist <= gate {
				// Keep strictly positive score for in-gate pairs
				scores[i][j] = gate - dist + 1.0
			}
		}
	}

	for trackIndex, rowMap := range hungarian.SolveMax(scores) {
		for detectionIndex := range rowMap {
			if trackIndex >= len(trackIDs) || detectionIndex >= len(circles) {
				continue
			}
			if scores[trackIndex][detectionIndex] <= 0 {
				continue
			}
			assignments[detectionIndex] = trackIDs[trackIndex]
		}
	}
	return assignments
}
