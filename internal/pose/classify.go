package pose

import "fmt"

// Label is the posture verdict for one frame.
type Label string

const (
	Correct Label = "CORRECT"
	Wrong   Label = "WRONG"
)

// band is an open interval; both bounds are excluded.
type band struct {
	lo, hi float64
}

func (b band) contains(v float64) bool {
	return b.lo < v && v < b.hi
}

// Tolerance bands, in degrees.
var (
	rackShoulderBand  = band{80, 110}  // phase A: upper arms level with the shoulders
	rackElbowBand     = band{50, 110}  // phase A: forearms roughly vertical
	pressShoulderBand = band{110, 195} // phase B: arms raised overhead
	pressElbowBand    = band{40, 195}  // phase B: elbows opening out
	progressBand      = band{80, 195}  // right shoulder range that drives the progress bars
)

// Progress source ranges, remapped onto 0..100.
var (
	barRange     = band{105, 160}
	percentRange = band{90, 160}
)

// Angles holds the four joint angles the classifier reads.
type Angles struct {
	LeftElbow     float64 `json:"left_elbow"`
	RightElbow    float64 `json:"right_elbow"`
	LeftShoulder  float64 `json:"left_shoulder"`
	RightShoulder float64 `json:"right_shoulder"`
}

// Progress is one progress channel: a bar fill and a percent readout, both 0..100.
type Progress struct {
	Bar     float64 `json:"bar"`
	Percent float64 `json:"percent"`
}

// Classification is the classifier output for one frame.
type Classification struct {
	Label     Label    `json:"label"`
	Primary   Progress `json:"progress_primary"`
	Secondary Progress `json:"progress_secondary"`
	PhaseA    bool     `json:"phase_a"`
	PhaseB    bool     `json:"phase_b"`
	Angles    Angles   `json:"angles"`
}

// MeasureAngles computes the elbow and shoulder angles of a frame.
func MeasureAngles(f Frame) (Angles, error) {
	if err := f.Validate(); err != nil {
		return Angles{}, fmt.Errorf("measuring angles: %w", err)
	}
	return Angles{
		LeftElbow:     Angle(f[LeftShoulder], f[LeftElbow], f[LeftWrist]),
		RightElbow:    Angle(f[RightWrist], f[RightElbow], f[RightShoulder]),
		LeftShoulder:  Angle(f[LeftElbow], f[LeftShoulder], f[LeftHip]),
		RightShoulder: Angle(f[RightHip], f[RightShoulder], f[RightElbow]),
	}, nil
}

// Classify labels a set of angles and reports which motion phase, if any, they
// show. Progress channels are carried over from prev when the right shoulder
// lies outside the progress band in both orientations. The result depends only
// on the arguments.
func Classify(a Angles, prev Classification) Classification {
	c := Classification{
		Label:     Wrong,
		Primary:   prev.Primary,
		Secondary: prev.Secondary,
		Angles:    a,
	}

	if progressBand.contains(a.RightShoulder) {
		c.Primary = remap(a.RightShoulder)
		c.Secondary = remap(a.RightShoulder)
	} else if progressBand.contains(mirror(a.RightShoulder)) {
		c.Primary = remap(mirror(a.RightShoulder))
		c.Secondary = remap(a.RightShoulder)
	}

	shoulders := pair{a.LeftShoulder, a.RightShoulder}
	elbows := pair{a.LeftElbow, a.RightElbow}

	switch {
	case shoulders.within(rackShoulderBand):
		if elbows.within(rackElbowBand) {
			c.Label = Correct
			c.PhaseA = true
		}
	case shoulders.within(pressShoulderBand):
		if elbows.within(pressElbowBand) {
			c.Label = Correct
			c.PhaseB = true
		}
	}
	return c
}

// pair is a left/right angle pair. The estimator may report either side's
// angle measured the other way round, so a pair is tested in both its raw and
// mirrored orientation, never mixing the two.
type pair struct {
	left, right float64
}

func (p pair) mirrored() pair {
	return pair{mirror(p.left), mirror(p.right)}
}

func (p pair) within(b band) bool {
	for _, o := range [2]pair{p, p.mirrored()} {
		if b.contains(o.left) && b.contains(o.right) {
			return true
		}
	}
	return false
}

func mirror(deg float64) float64 {
	return 360 - deg
}

func remap(deg float64) Progress {
	return Progress{
		Bar:     interp(deg, barRange),
		Percent: interp(deg, percentRange),
	}
}

// interp maps v linearly from r onto 0..100, clamping outside r.
func interp(v float64, r band) float64 {
	switch {
	case v <= r.lo:
		return 0
	case v >= r.hi:
		return 100
	}
	return (v - r.lo) / (r.hi - r.lo) * 100
}
