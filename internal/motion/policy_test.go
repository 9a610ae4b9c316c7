package motion

import (
	"math"
	"testing"
)

func TestStageSpeeds(t *testing.T) {
	tests := []struct {
		stage int
		speed float64
	}{
		{1, 1000},
		{2, 1100},
		{3, 1625},
		{4, 1500},
		{5, 0},
		{0, 1000}, // out of range falls back to stage 1
		{9, 1000},
	}

	for _, tc := range tests {
		if got := StageSpeed(tc.stage); got != tc.speed {
			t.Errorf("StageSpeed(%d) = %v, expected %v", tc.stage, got, tc.speed)
		}
	}
}

func TestPolicyFor(t *testing.T) {
	expected := map[int]StagePolicy{
		1: PolicyLinear,
		2: PolicyLinear,
		3: PolicyAxisLock,
		4: PolicyNudge,
		5: PolicyOrbit,
	}
	for stage, want := range expected {
		if got := PolicyFor(stage); got != want {
			t.Errorf("PolicyFor(%d) = %v, expected %v", stage, got, want)
		}
	}
}

func TestStageDirectionRanges(t *testing.T) {
	deg := func(r float64) float64 { return r * 180 / math.Pi }

	tests := []struct {
		stage int
		check func(d Vec2) bool
	}{
		{1, func(d Vec2) bool {
			a := deg(math.Atan2(d.Y, math.Abs(d.X)))
			return d.Y > 0 && a >= 10 && a <= 20
		}},
		{2, func(d Vec2) bool {
			a := deg(math.Atan2(math.Abs(d.X), math.Abs(d.Y)))
			return a >= 5 && a <= 15
		}},
		{3, func(d Vec2) bool {
			return d.X == 0 && math.Abs(d.Y) == 1
		}},
		{4, func(d Vec2) bool {
			a := deg(math.Atan2(math.Abs(d.X), d.Y))
			return d.Y > 0 && a >= 20 && a <= 70
		}},
		{5, func(d Vec2) bool {
			a := deg(math.Atan2(d.Y, math.Abs(d.X)))
			return d.Y > 0 && a >= 10 && a <= 20
		}},
	}

	for _, tc := range tests {
		rng := NewRand(int64(tc.stage))
		var neg, pos int
		for i := 0; i < 2000; i++ {
			d := StageDirection(tc.stage, rng)
			if !approx(d.Len(), 1) {
				t.Fatalf("stage %d: direction %v is not a unit vector", tc.stage, d)
			}
			if !tc.check(d) {
				t.Fatalf("stage %d: direction %v outside the stage's range", tc.stage, d)
			}
			// Stage 3 randomizes the vertical sign, the rest the horizontal one.
			s := d.X
			if tc.stage == 3 {
				s = d.Y
			}
			if s < 0 {
				neg++
			} else {
				pos++
			}
		}
		if neg == 0 || pos == 0 {
			t.Errorf("stage %d: sign never randomized (neg=%d pos=%d)", tc.stage, neg, pos)
		}
	}
}

func TestStageTwoSignsIndependent(t *testing.T) {
	rng := NewRand(11)
	seen := map[[2]bool]bool{}
	for i := 0; i < 500; i++ {
		d := StageDirection(2, rng)
		seen[[2]bool{d.X < 0, d.Y < 0}] = true
	}
	if len(seen) != 4 {
		t.Errorf("stage 2 produced %d sign quadrants, expected all 4", len(seen))
	}
}

func TestStageDirectionScripted(t *testing.T) {
	// 0.5 picks the middle of 10–20°, 0.9 loses the coin flip.
	d := StageDirection(1, &seqRand{vals: []float64{0.5, 0.9}})

	want := Vec2{X: math.Cos(15 * math.Pi / 180), Y: math.Sin(15 * math.Pi / 180)}
	if !approx(d.X, want.X) || !approx(d.Y, want.Y) {
		t.Errorf("StageDirection(1) = %v, expected %v", d, want)
	}

	d = StageDirection(3, &seqRand{vals: []float64{0.1}})
	if d != (Vec2{X: 0, Y: -1}) {
		t.Errorf("StageDirection(3) with heads = %v, expected straight up", d)
	}
}

func TestStages(t *testing.T) {
	stages := Stages()
	if len(stages) != FinalStage {
		t.Fatalf("Stages() returned %d entries, expected %d", len(stages), FinalStage)
	}
	for i, s := range stages {
		if s.Stage != i+1 {
			t.Errorf("entry %d has stage %d", i, s.Stage)
		}
		if s.Summary == "" {
			t.Errorf("stage %d has no summary", s.Stage)
		}
	}
}
