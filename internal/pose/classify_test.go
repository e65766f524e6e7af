package pose

import (
	"errors"
	"math"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

// TestClassifyRackPosition verifies that level upper arms with bent elbows are
// labelled CORRECT and latch phase A.
func TestClassifyRackPosition(t *testing.T) {
	c := Classify(Angles{LeftShoulder: 95, RightShoulder: 95, LeftElbow: 80, RightElbow: 80}, Classification{})
	if c.Label != Correct {
		t.Errorf("label = %s, want CORRECT", c.Label)
	}
	if !c.PhaseA || c.PhaseB {
		t.Errorf("phaseA=%v phaseB=%v, want true/false", c.PhaseA, c.PhaseB)
	}
	if c.Primary.Bar != 0 {
		t.Errorf("primary bar = %v, want 0 (below 105 clamps)", c.Primary.Bar)
	}
	if !approx(c.Primary.Percent, 5.0/70*100) {
		t.Errorf("primary percent = %v, want %v", c.Primary.Percent, 5.0/70*100)
	}
	if c.Secondary != c.Primary {
		t.Errorf("secondary = %+v, want it to match primary %+v for a raw angle", c.Secondary, c.Primary)
	}
}

// TestClassifyPressPosition verifies that raised arms latch phase B.
func TestClassifyPressPosition(t *testing.T) {
	c := Classify(Angles{LeftShoulder: 150, RightShoulder: 150, LeftElbow: 120, RightElbow: 120}, Classification{})
	if c.Label != Correct {
		t.Errorf("label = %s, want CORRECT", c.Label)
	}
	if c.PhaseA || !c.PhaseB {
		t.Errorf("phaseA=%v phaseB=%v, want false/true", c.PhaseA, c.PhaseB)
	}
	if !approx(c.Primary.Bar, 45.0/55*100) {
		t.Errorf("primary bar = %v, want %v", c.Primary.Bar, 45.0/55*100)
	}
	if !approx(c.Primary.Percent, 60.0/70*100) {
		t.Errorf("primary percent = %v, want %v", c.Primary.Percent, 60.0/70*100)
	}
}

// TestClassifyMirroredAngles verifies that complements are accepted when both
// sides of a pair are mirrored, and that the secondary channel keeps using the
// raw right shoulder angle.
func TestClassifyMirroredAngles(t *testing.T) {
	c := Classify(Angles{LeftShoulder: 265, RightShoulder: 265, LeftElbow: 280, RightElbow: 280}, Classification{})
	if c.Label != Correct || !c.PhaseA {
		t.Fatalf("label=%s phaseA=%v, want CORRECT/true", c.Label, c.PhaseA)
	}
	if !approx(c.Primary.Percent, 5.0/70*100) {
		t.Errorf("primary percent = %v, want %v (from complement 95)", c.Primary.Percent, 5.0/70*100)
	}
	if c.Secondary.Bar != 100 || c.Secondary.Percent != 100 {
		t.Errorf("secondary = %+v, want clamped 100/100 from raw 265", c.Secondary)
	}
}

// TestClassifyMixedOrientation verifies that a pair with one raw and one
// mirrored angle does not match a band.
func TestClassifyMixedOrientation(t *testing.T) {
	c := Classify(Angles{LeftShoulder: 95, RightShoulder: 265, LeftElbow: 80, RightElbow: 80}, Classification{})
	if c.Label != Wrong || c.PhaseA || c.PhaseB {
		t.Errorf("got label=%s phaseA=%v phaseB=%v, want WRONG with no latch", c.Label, c.PhaseA, c.PhaseB)
	}
}

// TestClassifyBoundaries verifies that band edges are excluded.
func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		name string
		a    Angles
	}{
		{"shoulder at 110 sits between rack and press", Angles{LeftShoulder: 110, RightShoulder: 110, LeftElbow: 80, RightElbow: 80}},
		{"shoulder at 80", Angles{LeftShoulder: 80, RightShoulder: 80, LeftElbow: 80, RightElbow: 80}},
		{"rack elbow at 50", Angles{LeftShoulder: 95, RightShoulder: 95, LeftElbow: 50, RightElbow: 50}},
		{"rack elbow at 110", Angles{LeftShoulder: 95, RightShoulder: 95, LeftElbow: 110, RightElbow: 110}},
		{"press elbow at 40", Angles{LeftShoulder: 150, RightShoulder: 150, LeftElbow: 40, RightElbow: 40}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.a, Classification{})
			if c.Label != Wrong || c.PhaseA || c.PhaseB {
				t.Errorf("got label=%s phaseA=%v phaseB=%v, want WRONG with no latch", c.Label, c.PhaseA, c.PhaseB)
			}
		})
	}
}

// TestClassifyCarriesProgress verifies that progress is retained from the
// previous frame when the right shoulder is outside the progress band.
func TestClassifyCarriesProgress(t *testing.T) {
	prev := Classification{
		Primary:   Progress{Bar: 42, Percent: 43},
		Secondary: Progress{Bar: 44, Percent: 45},
	}
	c := Classify(Angles{LeftShoulder: 30, RightShoulder: 30, LeftElbow: 30, RightElbow: 30}, prev)
	if c.Primary != prev.Primary || c.Secondary != prev.Secondary {
		t.Errorf("progress = %+v/%+v, want carried %+v/%+v", c.Primary, c.Secondary, prev.Primary, prev.Secondary)
	}
	if c.Label != Wrong {
		t.Errorf("label = %s, want WRONG", c.Label)
	}
}

// TestClassifyDeterministic verifies identical inputs give identical outputs.
func TestClassifyDeterministic(t *testing.T) {
	a := Angles{LeftShoulder: 140, RightShoulder: 141, LeftElbow: 100, RightElbow: 99}
	prev := Classification{Primary: Progress{Bar: 1, Percent: 2}}
	if first, second := Classify(a, prev), Classify(a, prev); first != second {
		t.Errorf("Classify not deterministic: %+v != %+v", first, second)
	}
}

// TestMeasureAngles verifies each angle is taken over the right joint triple.
func TestMeasureAngles(t *testing.T) {
	f := Frame{
		LeftShoulder:  {X: 0.40, Y: 0.30},
		RightShoulder: {X: 0.60, Y: 0.30},
		LeftElbow:     {X: 0.30, Y: 0.32},
		RightElbow:    {X: 0.70, Y: 0.31},
		LeftWrist:     {X: 0.31, Y: 0.20},
		RightWrist:    {X: 0.69, Y: 0.21},
		LeftHip:       {X: 0.42, Y: 0.60},
		RightHip:      {X: 0.58, Y: 0.60},
	}
	a, err := MeasureAngles(f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Angles{
		LeftElbow:     Angle(f[LeftShoulder], f[LeftElbow], f[LeftWrist]),
		RightElbow:    Angle(f[RightWrist], f[RightElbow], f[RightShoulder]),
		LeftShoulder:  Angle(f[LeftElbow], f[LeftShoulder], f[LeftHip]),
		RightShoulder: Angle(f[RightHip], f[RightShoulder], f[RightElbow]),
	}
	if a != want {
		t.Errorf("angles = %+v, want %+v", a, want)
	}
}

// TestMeasureAnglesMissingJoint verifies that an incomplete frame reports
// ErrLandmarkMissing.
func TestMeasureAnglesMissingJoint(t *testing.T) {
	f := Frame{LeftShoulder: {}, RightShoulder: {}}
	_, err := MeasureAngles(f)
	if !errors.Is(err, ErrLandmarkMissing) {
		t.Fatalf("err = %v, want ErrLandmarkMissing", err)
	}
}
