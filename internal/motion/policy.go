package motion

import "math"

// StagePolicy selects the kinematics a stage runs each tick.
type StagePolicy int

const (
	// PolicyLinear is free linear motion with bounces (stages 1 and 2).
	PolicyLinear StagePolicy = iota
	// PolicyAxisLock oscillates along one axis, vertical then horizontal (stage 3).
	PolicyAxisLock
	// PolicyNudge is linear motion with a random angle nudge on every bounce (stage 4).
	PolicyNudge
	// PolicyOrbit is circular motion about the screen center (stage 5).
	PolicyOrbit
)

// String returns a human-readable name for the policy.
func (p StagePolicy) String() string {
	switch p {
	case PolicyLinear:
		return "Linear"
	case PolicyAxisLock:
		return "Axis lock"
	case PolicyNudge:
		return "Nudge"
	case PolicyOrbit:
		return "Orbit"
	default:
		return "Unknown"
	}
}

// stageSpec is one row of the stage table.
type stageSpec struct {
	speed     float64
	policy    StagePolicy
	direction func(rng Rand) Vec2
	summary   string
}

// stageTable is indexed by stage-1. The angle ranges set each stage's feel.
var stageTable = [FinalStage]stageSpec{
	{1000, PolicyLinear, shallowDirection, "shallow diagonal sweeps"},
	{1100, PolicyLinear, steepDirection, "near-vertical sweeps"},
	{1625, PolicyAxisLock, verticalDirection, "vertical then horizontal oscillation"},
	{1500, PolicyNudge, wideDirection, "steep diagonals with jittered bounces"},
	{0, PolicyOrbit, shallowDirection, "orbit, reversing at the midpoint"},
}

// StageInfo describes a stage for listings.
type StageInfo struct {
	Stage   int
	Speed   float64
	Policy  StagePolicy
	Summary string
}

// Stages returns the stage table in order.
func Stages() []StageInfo {
	out := make([]StageInfo, 0, FinalStage)
	for i, s := range stageTable {
		out = append(out, StageInfo{Stage: i + 1, Speed: s.speed, Policy: s.policy, Summary: s.summary})
	}
	return out
}

// ValidStage reports whether stage is in 1..FinalStage.
func ValidStage(stage int) bool {
	return stage >= 1 && stage <= FinalStage
}

// PolicyFor returns the kinematics policy of a stage. Out-of-range stages
// behave like stage 1.
func PolicyFor(stage int) StagePolicy {
	return specFor(stage).policy
}

// StageSpeed returns the base speed (pixels per second) a stage is seeded with.
func StageSpeed(stage int) float64 {
	return specFor(stage).speed
}

// StageDirection samples a stage's initial direction as a unit vector.
func StageDirection(stage int, rng Rand) Vec2 {
	return specFor(stage).direction(rng)
}

func specFor(stage int) stageSpec {
	if !ValidStage(stage) {
		return stageTable[0]
	}
	return stageTable[stage-1]
}

// shallowDirection: 10–20° from horizontal, horizontal sign randomized.
func shallowDirection(rng Rand) Vec2 {
	a := degToRad(uniform(rng, 10, 20))
	d := Vec2{X: math.Cos(a), Y: math.Sin(a)}
	if coin(rng) {
		d.X = -d.X
	}
	return d
}

// steepDirection: 5–15° off vertical, both signs randomized independently.
func steepDirection(rng Rand) Vec2 {
	a := degToRad(uniform(rng, 5, 15))
	d := Vec2{X: math.Sin(a), Y: math.Cos(a)}
	if coin(rng) {
		d.X = -d.X
	}
	if coin(rng) {
		d.Y = -d.Y
	}
	return d
}

// verticalDirection: straight up or down.
func verticalDirection(rng Rand) Vec2 {
	if coin(rng) {
		return Vec2{X: 0, Y: -1}
	}
	return Vec2{X: 0, Y: 1}
}

// wideDirection: 20–70° from vertical, horizontal sign randomized.
func wideDirection(rng Rand) Vec2 {
	a := degToRad(uniform(rng, 20, 70))
	d := Vec2{X: math.Sin(a), Y: math.Cos(a)}
	if coin(rng) {
		d.X = -d.X
	}
	return d
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}
