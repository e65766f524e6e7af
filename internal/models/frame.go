package models

import (
	"fmt"

	"github.com/claude/presscoach/internal/pose"
)

// FramePayload is a landmark frame as sent by the pose estimator. Joints may
// be named or given as a 33-point landmark list; named joints win when both
// are present. Width and Height, when set, scale normalised coordinates into
// image pixels.
type FramePayload struct {
	Timestamp int64                 `json:"ts,omitempty" msgpack:"ts,omitempty"`
	Width     float64               `json:"width,omitempty" msgpack:"width,omitempty"`
	Height    float64               `json:"height,omitempty" msgpack:"height,omitempty"`
	Joints    map[string]pose.Point `json:"joints,omitempty" msgpack:"joints,omitempty"`
	Landmarks []pose.Point          `json:"landmarks,omitempty" msgpack:"landmarks,omitempty"`
}

// Frame converts the payload into a pose.Frame. It does not check that the
// required joints are present; the session does that per tick.
func (p FramePayload) Frame() (pose.Frame, error) {
	var f pose.Frame
	switch {
	case len(p.Joints) > 0:
		f = make(pose.Frame, len(p.Joints))
		for name, pt := range p.Joints {
			f[pose.Joint(name)] = pt
		}
	case len(p.Landmarks) > 0:
		f = pose.FromLandmarks(p.Landmarks)
	default:
		return nil, fmt.Errorf("payload has neither joints nor landmarks")
	}

	if p.Width < 0 || p.Height < 0 {
		return nil, fmt.Errorf("negative frame size %vx%v", p.Width, p.Height)
	}
	if p.Width > 0 && p.Height > 0 {
		f = f.Scale(p.Width, p.Height)
	}
	return f, nil
}
