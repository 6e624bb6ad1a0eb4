package tracker

import (
	kalman_filter "github.com/LdDl/kalman-filter"
	"github.com/LdDl/colorblob-go/colorblob"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	defaultMaxTrackLen = 150
)

// Track is a color blob followed across frames.
// Its center is smoothed by a 2D Kalman filter.
type Track struct {
	id                    uuid.UUID
	currentCenter         colorblob.Point
	predictedNextPosition colorblob.Point
	radius                float64
	track                 []colorblob.Point
	maxTrackLen           int
	active                bool
	noMatchTimes          int
	kf                    *kalman_filter.Kalman2D
}

// NewTrackWithTime creates new Track from detected circle. dt is time between frames
func NewTrackWithTime(circle colorblob.Circle, dt float64) *Track {
	/* Kalman filter props */
	ux := 1.0
	uy := 1.0
	stdDevA := 2.0
	stdDevMx := 0.1
	stdDevMy := 0.1
	kf := kalman_filter.NewKalman2D(dt, ux, uy, stdDevA, stdDevMx, stdDevMy, kalman_filter.WithState2D(circle.Center.X, circle.Center.Y))
	tr := Track{
		id:                    uuid.New(),
		currentCenter:         circle.Center,
		predictedNextPosition: circle.Center,
		radius:                circle.Radius,
		track:                 make([]colorblob.Point, 0, defaultMaxTrackLen),
		maxTrackLen:           defaultMaxTrackLen,
		active:                false,
		noMatchTimes:          0,
		kf:                    kf,
	}
	tr.track = append(tr.track, tr.currentCenter)
	return &tr
}

// GetID returns track's identifier
func (tr *Track) GetID() uuid.UUID {
	return tr.id
}

// GetCenter returns track's smoothed center
func (tr *Track) GetCenter() colorblob.Point {
	return tr.currentCenter
}

// GetPredicted returns center predicted for the next frame
func (tr *Track) GetPredicted() colorblob.Point {
	return tr.predictedNextPosition
}

// GetRadius returns radius of the last matched circle
func (tr *Track) GetRadius() float64 {
	return tr.radius
}

// GetTrack returns copy of past centers
func (tr *Track) GetTrack() []colorblob.Point {
	out := make([]colorblob.Point, len(tr.track))
	copy(out, tr.track)
	return out
}

// IsActive returns true if track has been matched on the last frame
func (tr *Track) IsActive() bool {
	return tr.active
}

// GetNoMatchTimes returns number of frames since track was matched
func (tr *Track) GetNoMatchTimes() int {
	return tr.noMatchTimes
}

// PredictNextPosition executes Kalman filter's predict step
func (tr *Track) PredictNextPosition() {
	tr.kf.Predict()
	stateX, stateY := tr.kf.GetState()
	tr.predictedNextPosition.X = stateX
	tr.predictedNextPosition.Y = stateY
}

// gate returns the max distance at which a detection may be assigned to this track
func (tr *Track) gate(minDistThreshold float64) float64 {
	if tr.radius > minDistThreshold {
		return tr.radius
	}
	return minDistThreshold
}

// distanceTo returns min of distances from circle to current and predicted centers
func (tr *Track) distanceTo(circle colorblob.Circle) float64 {
	dist := colorblob.Distance(tr.currentCenter, circle.Center)
	distPredicted := colorblob.Distance(tr.predictedNextPosition, circle.Center)
	if distPredicted < dist {
		return distPredicted
	}
	return dist
}

// update feeds matched circle into Kalman filter's update step
func (tr *Track) update(circle colorblob.Circle) error {
	err := tr.kf.Update(circle.Center.X, circle.Center.Y)
	if err != nil {
		return errors.Wrap(err, "Can't update track's Kalman filter")
	}
	stateX, stateY := tr.kf.GetState()
	tr.currentCenter.X = stateX
	tr.currentCenter.Y = stateY
	tr.radius = circle.Radius
	tr.active = true
	tr.noMatchTimes = 0
	tr.track = append(tr.track, tr.currentCenter)
	if len(tr.track) > tr.maxTrackLen {
		tr.track = tr.track[1:]
	}
	return nil
}
