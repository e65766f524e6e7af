// Package pose turns body-joint positions from an external pose estimator into
// joint angles and a shoulder-press posture classification.
package pose

import (
	"errors"
	"fmt"
	"strings"
)

// ErrLandmarkMissing is returned when a frame lacks a joint the classifier needs.
var ErrLandmarkMissing = errors.New("landmark missing")

// Joint identifies an anatomical landmark.
type Joint string

const (
	LeftShoulder  Joint = "left_shoulder"
	RightShoulder Joint = "right_shoulder"
	LeftElbow     Joint = "left_elbow"
	RightElbow    Joint = "right_elbow"
	LeftWrist     Joint = "left_wrist"
	RightWrist    Joint = "right_wrist"
	LeftHip       Joint = "left_hip"
	RightHip      Joint = "right_hip"
)

// RequiredJoints lists every joint MeasureAngles reads.
var RequiredJoints = []Joint{
	LeftShoulder, RightShoulder,
	LeftElbow, RightElbow,
	LeftWrist, RightWrist,
	LeftHip, RightHip,
}

// landmarkIndex maps joints to their position in a 33-point MediaPipe landmark list.
var landmarkIndex = map[Joint]int{
	LeftShoulder:  11,
	RightShoulder: 12,
	LeftElbow:     13,
	RightElbow:    14,
	LeftWrist:     15,
	RightWrist:    16,
	LeftHip:       23,
	RightHip:      24,
}

// Point is a joint position. Z is carried but ignored by angle measurement.
type Point struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
	Z float64 `json:"z" msgpack:"z"`
}

// Frame is one per-tick snapshot of joint positions. Treat it as immutable
// once handed to a session.
type Frame map[Joint]Point

// FromLandmarks builds a Frame from an indexed landmark list. Indices beyond
// the end of the list are left out, so the result may be incomplete.
func FromLandmarks(landmarks []Point) Frame {
	f := make(Frame, len(landmarkIndex))
	for j, idx := range landmarkIndex {
		if idx < len(landmarks) {
			f[j] = landmarks[idx]
		}
	}
	return f
}

// Missing returns the required joints absent from the frame, in RequiredJoints order.
func (f Frame) Missing() []Joint {
	var missing []Joint
	for _, j := range RequiredJoints {
		if _, ok := f[j]; !ok {
			missing = append(missing, j)
		}
	}
	return missing
}

// Validate reports ErrLandmarkMissing naming the absent joints.
func (f Frame) Validate() error {
	missing := f.Missing()
	if len(missing) == 0 {
		return nil
	}
	names := make([]string, len(missing))
	for i, j := range missing {
		names[i] = string(j)
	}
	return fmt.Errorf("%w: %s", ErrLandmarkMissing, strings.Join(names, ", "))
}

// Scale returns a copy with normalised coordinates mapped into a width x height
// image. Z is scaled by width, matching how pose estimators report depth.
func (f Frame) Scale(width, height float64) Frame {
	out := make(Frame, len(f))
	for j, p := range f {
		out[j] = Point{X: p.X * width, Y: p.Y * height, Z: p.Z * width}
	}
	return out
}
