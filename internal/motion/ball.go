package motion

import "math"

// RadiusRatio is the ball radius as a fraction of the screen width.
const RadiusRatio = 1.0 / 40.0

// DefaultOrbit asks IntegrateCircular for the default orbit radius.
const DefaultOrbit = -1.0

// spawnMargin is the extra distance from every edge kept by ResetRandom.
const spawnMargin = 50.0

// Vec2 is a plain 2D vector. The zero value doubles as "no direction".
type Vec2 struct {
	X, Y float64
}

// Len returns the vector magnitude.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Ball is the point mass under observation, bounded by a screen rectangle.
// All coordinates are in logical pixels with the origin at the top-left.
type Ball struct {
	ScreenW float64 `json:"screen_w"`
	ScreenH float64 `json:"screen_h"`
	Radius  float64 `json:"radius"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	VX      float64 `json:"vx"`
	VY      float64 `json:"vy"`
}

// NewBall creates a motionless ball centered on a w×h screen.
func NewBall(w, h float64) Ball {
	return Ball{
		ScreenW: w,
		ScreenH: h,
		Radius:  w * RadiusRatio,
		X:       w / 2,
		Y:       h / 2,
	}
}

// Center returns the center of the bounding rectangle.
func (b *Ball) Center() (float64, float64) {
	return b.ScreenW / 2, b.ScreenH / 2
}

// Speed returns the velocity magnitude.
func (b *Ball) Speed() float64 {
	return math.Hypot(b.VX, b.VY)
}

// Resize rescales the position per axis to a new screen size, recomputes the
// radius and clamps the ball back inside the boundary.
// Non-positive or non-finite sizes are ignored.
func (b *Ball) Resize(w, h float64) {
	if !validSize(w, h) {
		return
	}
	if validSize(b.ScreenW, b.ScreenH) {
		b.X *= w / b.ScreenW
		b.Y *= h / b.ScreenH
	} else {
		b.X, b.Y = w/2, h/2
	}
	b.ScreenW = w
	b.ScreenH = h
	b.updateRadius()
	b.clampInside()
}

// ResetCentered places the ball at the center of a w×h screen with zero velocity.
func (b *Ball) ResetCentered(w, h float64) {
	b.ScreenW = w
	b.ScreenH = h
	b.updateRadius()
	b.X = w / 2
	b.Y = h / 2
	b.VX, b.VY = 0, 0
}

// ResetRandom places the ball uniformly inside a margin of radius+50 from every
// edge, with zero velocity. An axis too short for the margin is centered.
func (b *Ball) ResetRandom(w, h float64, rng Rand) {
	b.ScreenW = w
	b.ScreenH = h
	b.updateRadius()
	m := b.Radius + spawnMargin
	b.X = sampleAxis(rng, m, w-m, w/2)
	b.Y = sampleAxis(rng, m, h-m, h/2)
	b.VX, b.VY = 0, 0
}

// SetSpeed sets the velocity to speed along dir. A zero or non-finite dir falls
// back to a uniformly random direction so a nonzero speed never leaves the ball
// stationary.
func (b *Ball) SetSpeed(speed float64, dir Vec2, rng Rand) {
	l := dir.Len()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		dir = randomDirection(rng)
		l = 1
	}
	b.VX = dir.X / l * speed
	b.VY = dir.Y / l * speed
}

// IntegrateLinear advances the position by velocity*dt and reflects off the
// edges. Each axis is corrected independently after the move; at very large dt
// the ball can skip past a bounce it would have made in continuous time.
// Returns true if any axis bounced.
func (b *Ball) IntegrateLinear(dt float64) (bool, error) {
	b.X += b.VX * dt
	b.Y += b.VY * dt

	r := b.Radius
	bounced := false

	if b.X < r {
		b.X = r
		b.VX = math.Abs(b.VX)
		bounced = true
	} else if b.X > b.ScreenW-r {
		b.X = b.ScreenW - r
		b.VX = -math.Abs(b.VX)
		bounced = true
	}

	if b.Y < r {
		b.Y = r
		b.VY = math.Abs(b.VY)
		bounced = true
	} else if b.Y > b.ScreenH-r {
		b.Y = b.ScreenH - r
		b.VY = -math.Abs(b.VY)
		bounced = true
	}

	if !b.finite() {
		return false, b.physicsError("integrate_linear")
	}
	return bounced, nil
}

// IntegrateCircular rotates the position about the screen center by
// angularSpeed*dt radians and re-places it at orbitRadius from the center.
// A negative orbitRadius (DefaultOrbit) selects screenH/2 - radius.
// Velocity is left untouched.
func (b *Ball) IntegrateCircular(dt, angularSpeed, orbitRadius float64) error {
	if orbitRadius < 0 {
		orbitRadius = b.DefaultOrbitRadius()
	}
	cx, cy := b.Center()
	angle := math.Atan2(b.Y-cy, b.X-cx) + angularSpeed*dt

	b.X = cx + orbitRadius*math.Cos(angle)
	b.Y = cy + orbitRadius*math.Sin(angle)

	if !b.finite() {
		return b.physicsError("integrate_circular")
	}
	return nil
}

// DefaultOrbitRadius is the orbit used when none is given: the largest circle
// that keeps the ball inside the screen height.
func (b *Ball) DefaultOrbitRadius() float64 {
	return b.ScreenH/2 - b.Radius
}

// InBounds reports whether the ball is at least margin away from every edge.
// A margin of 0 is the regular bounce boundary (radius).
func (b *Ball) InBounds(margin float64) bool {
	lo := b.Radius + margin
	return b.X >= lo && b.X <= b.ScreenW-lo && b.Y >= lo && b.Y <= b.ScreenH-lo
}

func (b *Ball) updateRadius() {
	b.Radius = b.ScreenW * RadiusRatio
}

func (b *Ball) clampInside() {
	b.clampToMargin(0)
}

// clampToMargin keeps the center at least radius+margin from every edge.
// An axis too short for the margin collapses to its center.
func (b *Ball) clampToMargin(margin float64) {
	lo := b.Radius + margin
	b.X = clampAxis(b.X, lo, b.ScreenW-lo, b.ScreenW/2)
	b.Y = clampAxis(b.Y, lo, b.ScreenH-lo, b.ScreenH/2)
}

func (b *Ball) finite() bool {
	for _, v := range [...]float64{b.X, b.Y, b.VX, b.VY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (b *Ball) physicsError(op string) *PhysicsError {
	return &PhysicsError{Op: op, X: b.X, Y: b.Y, VX: b.VX, VY: b.VY}
}

func clampAxis(v, lo, hi, mid float64) float64 {
	if lo > hi {
		return mid
	}
	return math.Max(lo, math.Min(hi, v))
}

func sampleAxis(rng Rand, lo, hi, mid float64) float64 {
	if lo >= hi {
		return mid
	}
	return uniform(rng, lo, hi)
}

func randomDirection(rng Rand) Vec2 {
	a := uniform(rng, 0, 2*math.Pi)
	return Vec2{X: math.Cos(a), Y: math.Sin(a)}
}

func validSize(w, h float64) bool {
	return w > 0 && h > 0 && !math.IsInf(w, 0) && !math.IsInf(h, 0)
}
