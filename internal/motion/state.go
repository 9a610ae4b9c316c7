// Package motion is the stage-driven simulation behind the eye-tracking
// exercise: ball kinematics, the per-stage policy table and the state machine
// that times stages and emits events. It has no dependencies beyond the
// standard library and never blocks; hosts drive it one Tick at a time and
// serialize access to it themselves.
package motion

import (
	"errors"
	"math"
)

// Timing constants owned by the state machine.
const (
	StageDurationMS   = 45000 // Length of every stage in milliseconds
	TransitionSeconds = 3.0   // Countdown between stages
	FinalStage        = 5

	// MidpointSeconds is where stages 3, 4 and 5 change behavior.
	MidpointSeconds = StageDurationMS / 2000.0
)

// Stage-specific tuning.
const (
	OrbitAngularSpeed  = 0.8  // Stage 5 angular speed in rad/s
	OrbitPauseSeconds  = 0.3  // Stage 5 pause at the reversal
	OrbitEdgeMargin    = 16.0 // Stage 5 minimum gap between ball and edge, in pixels
	NudgeRadians       = 0.1  // Stage 4 maximum bounce perturbation
	AxisLockSlowFactor = 0.7  // Stage 3 speed multiplier for the first half
)

// Phase is the host-facing summary of the state flags.
type Phase int

const (
	PhaseStartScreen Phase = iota
	PhaseTransition
	PhasePlaying
	PhasePaused
	PhaseGameOver
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseStartScreen:
		return "Start screen"
	case PhaseTransition:
		return "Transition"
	case PhasePlaying:
		return "Playing"
	case PhasePaused:
		return "Paused"
	case PhaseGameOver:
		return "Game over"
	default:
		return "Unknown"
	}
}

// GameState is one training session. Every field is serialized so a host can
// snapshot it or ship it to a UI process; the random source is not.
type GameState struct {
	Ball               Ball    `json:"ball"`
	Stage              int     `json:"stage"`
	StageElapsed       float64 `json:"stage_elapsed"`
	Paused             bool    `json:"paused"`
	IsTransitioning    bool    `json:"is_transitioning"`
	TransitionTimer    float64 `json:"transition_timer"`
	IsGameOver         bool    `json:"is_game_over"`
	IsStartScreen      bool    `json:"is_start_screen"`
	Stage5Paused       bool    `json:"stage5_paused"`
	Stage5PauseElapsed float64 `json:"stage5_pause_elapsed"`

	rng Rand
}

// NewGameState creates a session on a w×h screen at stage 1, counting down
// into play. A nil rng gets a clock-seeded source.
func NewGameState(w, h float64, rng Rand) *GameState {
	g := &GameState{
		Ball:            NewBall(w, h),
		Stage:           1,
		IsTransitioning: true,
		TransitionTimer: TransitionSeconds,
		rng:             rng,
	}
	r := g.random()
	g.Ball.SetSpeed(StageSpeed(1), StageDirection(1, r), r)
	return g
}

// SetRand replaces the random source, e.g. after decoding a snapshot.
func (g *GameState) SetRand(rng Rand) {
	g.rng = rng
}

func (g *GameState) random() Rand {
	if g.rng == nil {
		g.rng = NewRand(0)
	}
	return g.rng
}

// Phase returns which screen the host should show.
func (g *GameState) Phase() Phase {
	switch {
	case g.IsGameOver:
		return PhaseGameOver
	case g.IsStartScreen:
		return PhaseStartScreen
	case g.Paused:
		return PhasePaused
	case g.IsTransitioning:
		return PhaseTransition
	default:
		return PhasePlaying
	}
}

// Remaining returns the seconds left in the current stage.
func (g *GameState) Remaining() float64 {
	if g.IsTransitioning {
		return StageDurationMS / 1000.0
	}
	return math.Max(0, StageDurationMS/1000.0-g.StageElapsed)
}

// Tick advances the session by dt seconds and returns the events it produced.
// Negative or NaN dt is treated as zero. If the kinematics produce a
// non-finite value the state is rolled back to its value before the call and
// a *PhysicsError is returned.
func (g *GameState) Tick(dt float64) (Update, error) {
	if !(dt > 0) {
		dt = 0
	}

	if g.IsGameOver || g.IsStartScreen || g.Paused {
		return g.update(nil), nil
	}

	if g.IsTransitioning {
		g.TransitionTimer -= dt
		if g.TransitionTimer <= 0 {
			g.IsTransitioning = false
			g.StageElapsed = 0
		}
		return g.update(nil), nil
	}

	prev := *g
	events, err := g.advance(dt)
	if err != nil {
		*g = prev
		var pe *PhysicsError
		if errors.As(err, &pe) {
			pe.Stage = g.Stage
		}
		return g.update(nil), err
	}
	return g.update(events), nil
}

func (g *GameState) update(events []Event) Update {
	return Update{Events: events, TimeElapsed: g.StageElapsed}
}

// advance runs one playing tick: kinematics for the stage, then the duration check.
func (g *GameState) advance(dt float64) ([]Event, error) {
	before := g.StageElapsed
	g.StageElapsed += dt

	var events []Event
	bounced, err := g.step(dt, before)
	if err != nil {
		return nil, err
	}
	if bounced {
		events = append(events, BallBounced{})
	}

	if g.StageElapsed*1000 > StageDurationMS {
		events = append(events, g.completeStage()...)
	}
	return events, nil
}

func (g *GameState) step(dt, before float64) (bool, error) {
	switch PolicyFor(g.Stage) {
	case PolicyOrbit:
		return false, g.stepOrbit(dt, before)
	case PolicyNudge:
		return g.stepNudge(dt, before)
	case PolicyAxisLock:
		return g.stepAxisLock(dt)
	case PolicyLinear:
		return g.Ball.IntegrateLinear(dt)
	default:
		return false, &PhysicsError{Op: "dispatch", X: g.Ball.X, Y: g.Ball.Y, VX: g.Ball.VX, VY: g.Ball.VY}
	}
}

// stepOrbit circles the center, pausing once for OrbitPauseSeconds at the
// midpoint where the direction reverses.
func (g *GameState) stepOrbit(dt, before float64) error {
	if g.Stage5Paused {
		g.Stage5PauseElapsed += dt
		if g.Stage5PauseElapsed >= OrbitPauseSeconds {
			g.Stage5Paused = false
		}
		return nil
	}

	if crossedMidpoint(before, g.StageElapsed) {
		g.Stage5Paused = true
		g.Stage5PauseElapsed = 0
		return nil
	}

	omega := OrbitAngularSpeed
	if g.StageElapsed >= MidpointSeconds {
		omega = -omega
	}

	b := &g.Ball
	maxOrbit := math.Min(b.ScreenW, b.ScreenH)/2 - b.Radius - OrbitEdgeMargin
	orbit := math.Max(0, math.Min(b.DefaultOrbitRadius(), maxOrbit))
	if err := b.IntegrateCircular(dt, omega, orbit); err != nil {
		return err
	}
	b.clampToMargin(OrbitEdgeMargin)
	return nil
}

// stepNudge is linear motion where every bounce jitters the heading, plus a
// fresh stage 4 heading once at the midpoint.
func (g *GameState) stepNudge(dt, before float64) (bool, error) {
	bounced, err := g.Ball.IntegrateLinear(dt)
	if err != nil {
		return false, err
	}

	rng := g.random()
	if bounced {
		b := &g.Ball
		if speed := b.Speed(); speed > 0 {
			angle := math.Atan2(b.VY, b.VX) + uniform(rng, -NudgeRadians, NudgeRadians)
			b.VX = speed * math.Cos(angle)
			b.VY = speed * math.Sin(angle)
		}
	}

	if crossedMidpoint(before, g.StageElapsed) {
		g.Ball.SetSpeed(StageSpeed(4), StageDirection(4, rng), rng)
	}
	return bounced, nil
}

// stepAxisLock pins the ball to the vertical center line for the first half
// and the horizontal center line for the second, then moves it along the
// free axis.
func (g *GameState) stepAxisLock(dt float64) (bool, error) {
	b := &g.Ball
	cx, cy := b.Center()
	base := StageSpeed(3)
	rng := g.random()

	if g.StageElapsed < MidpointSeconds {
		b.X = cx
		b.VX = 0
		b.VY = keepSign(b.VY, AxisLockSlowFactor*base, rng)
	} else {
		b.Y = cy
		b.VY = 0
		b.VX = keepSign(b.VX, base, rng)
	}
	return b.IntegrateLinear(dt)
}

// completeStage handles a stage running out of time.
func (g *GameState) completeStage() []Event {
	events := []Event{StageCompleted{Stage: g.Stage}}
	if g.Stage >= FinalStage {
		g.IsGameOver = true
		return append(events, GameOver{})
	}
	return append(events, g.enterStage(g.Stage+1))
}

// enterStage switches to stage `to` behind a fresh transition countdown,
// relocating and reseeding the ball.
func (g *GameState) enterStage(to int) Event {
	from := g.Stage
	g.Stage = to
	g.IsTransitioning = true
	g.TransitionTimer = TransitionSeconds
	g.Stage5Paused = false
	g.Stage5PauseElapsed = 0

	rng := g.random()
	g.Ball.ResetRandom(g.Ball.ScreenW, g.Ball.ScreenH, rng)
	g.Ball.SetSpeed(StageSpeed(to), StageDirection(to, rng), rng)
	return StageChanged{From: from, To: to}
}

// Start leaves the start screen and begins the countdown into play.
func (g *GameState) Start() {
	if !g.IsStartScreen {
		return
	}
	g.IsStartScreen = false
	g.IsTransitioning = true
	g.TransitionTimer = TransitionSeconds
}

// SetStartScreen shows or hides the start screen.
func (g *GameState) SetStartScreen(on bool) {
	g.IsStartScreen = on
}

// SetPaused sets the pause flag.
func (g *GameState) SetPaused(paused bool) {
	g.Paused = paused
}

// TogglePause flips the pause flag while a session is running.
// It does nothing on the start and game over screens.
func (g *GameState) TogglePause() {
	if g.IsStartScreen || g.IsGameOver {
		return
	}
	g.Paused = !g.Paused
}

// Reset restarts the session at stage 1 on a w×h screen, with the ball
// centered and a fresh countdown. Invalid sizes keep the current screen.
func (g *GameState) Reset(w, h float64) {
	if !validSize(w, h) {
		w, h = g.Ball.ScreenW, g.Ball.ScreenH
	}
	g.Stage = 1
	g.StageElapsed = 0
	g.Paused = false
	g.IsGameOver = false
	g.IsStartScreen = false
	g.IsTransitioning = true
	g.TransitionTimer = TransitionSeconds
	g.Stage5Paused = false
	g.Stage5PauseElapsed = 0

	rng := g.random()
	g.Ball.ResetCentered(w, h)
	g.Ball.SetSpeed(StageSpeed(1), StageDirection(1, rng), rng)
}

// Resize forwards a viewport change to the ball. Timers and stage are untouched.
func (g *GameState) Resize(w, h float64) {
	g.Ball.Resize(w, h)
}

// AdvanceStage moves to the next stage as if the current one had run out.
// It is a no-op on the final stage and after game over.
func (g *GameState) AdvanceStage() []Event {
	return g.GoToStage(g.Stage + 1)
}

// RetreatStage moves back one stage. It is a no-op on stage 1 and after game over.
func (g *GameState) RetreatStage() []Event {
	return g.GoToStage(g.Stage - 1)
}

// GoToStage jumps to any valid stage through the normal transition.
// Returns the StageChanged event, or nil when nothing changed.
func (g *GameState) GoToStage(stage int) []Event {
	if g.IsGameOver || !ValidStage(stage) || stage == g.Stage {
		return nil
	}
	return []Event{g.enterStage(stage)}
}

func crossedMidpoint(before, after float64) bool {
	return before < MidpointSeconds && after >= MidpointSeconds
}

// keepSign returns magnitude with the sign of v, or a random sign when v is zero.
func keepSign(v, magnitude float64, rng Rand) float64 {
	switch {
	case v > 0:
		return magnitude
	case v < 0:
		return -magnitude
	case coin(rng):
		return -magnitude
	default:
		return magnitude
	}
}
