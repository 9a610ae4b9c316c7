package motion

import (
	"errors"
	"math"
	"testing"
)

// seqRand replays a fixed sequence of values, cycling when exhausted.
type seqRand struct {
	vals []float64
	i    int
}

func (s *seqRand) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNewBall(t *testing.T) {
	b := NewBall(1000, 800)

	if b.ScreenW != 1000 || b.ScreenH != 800 {
		t.Errorf("screen = %vx%v, expected 1000x800", b.ScreenW, b.ScreenH)
	}
	if !approx(b.Radius, 25) {
		t.Errorf("Radius = %v, expected 25", b.Radius)
	}
	if b.X != 500 || b.Y != 400 {
		t.Errorf("position = (%v, %v), expected (500, 400)", b.X, b.Y)
	}
	if b.VX != 0 || b.VY != 0 {
		t.Errorf("velocity = (%v, %v), expected zero", b.VX, b.VY)
	}
}

func TestIntegrateLinearBounce(t *testing.T) {
	b := NewBall(100, 100)
	b.SetSpeed(1000, Vec2{X: 1, Y: 0}, NewRand(1))
	b.X = 95

	bounced, err := b.IntegrateLinear(0.01)
	if err != nil {
		t.Fatalf("IntegrateLinear() error: %v", err)
	}
	if !bounced {
		t.Error("expected a bounce off the right edge")
	}
	if b.X != 100-b.Radius {
		t.Errorf("X = %v, expected %v", b.X, 100-b.Radius)
	}
	if b.VX >= 0 {
		t.Errorf("VX = %v, expected negative after right-edge bounce", b.VX)
	}
}

func TestIntegrateLinearEdges(t *testing.T) {
	tests := []struct {
		name         string
		x, y, vx, vy float64
		wantX, wantY float64
		wantVXSign   float64
		wantVYSign   float64
	}{
		{"left", 12, 50, -200, 0, 10, 50, 1, 0},
		{"right", 388, 50, 200, 0, 390, 50, -1, 0},
		{"top", 200, 12, 0, -200, 200, 10, 0, 1},
		{"bottom", 200, 88, 0, 200, 200, 90, 0, -1},
		{"corner", 12, 12, -200, -200, 10, 10, 1, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBall(400, 100) // radius 10
			b.X, b.Y, b.VX, b.VY = tc.x, tc.y, tc.vx, tc.vy

			bounced, err := b.IntegrateLinear(0.1)
			if err != nil {
				t.Fatalf("IntegrateLinear() error: %v", err)
			}
			if !bounced {
				t.Error("expected bounce")
			}
			if !approx(b.X, tc.wantX) || !approx(b.Y, tc.wantY) {
				t.Errorf("position = (%v, %v), expected (%v, %v)", b.X, b.Y, tc.wantX, tc.wantY)
			}
			if math.Copysign(1, b.VX) != tc.wantVXSign && tc.wantVXSign != 0 {
				t.Errorf("VX = %v, expected sign %v", b.VX, tc.wantVXSign)
			}
			if math.Copysign(1, b.VY) != tc.wantVYSign && tc.wantVYSign != 0 {
				t.Errorf("VY = %v, expected sign %v", b.VY, tc.wantVYSign)
			}
		})
	}
}

func TestIntegrateLinearZeroVelocity(t *testing.T) {
	b := NewBall(800, 600)
	x, y := b.X, b.Y

	for i := 0; i < 1000; i++ {
		bounced, err := b.IntegrateLinear(0.05)
		if err != nil {
			t.Fatalf("IntegrateLinear() error: %v", err)
		}
		if bounced {
			t.Fatalf("tick %d: stationary ball reported a bounce", i)
		}
	}
	if b.X != x || b.Y != y {
		t.Errorf("stationary ball moved from (%v, %v) to (%v, %v)", x, y, b.X, b.Y)
	}
}

func TestIntegrateLinearNonFinite(t *testing.T) {
	b := NewBall(800, 600)
	b.VX = math.NaN()

	_, err := b.IntegrateLinear(0.016)
	if !errors.Is(err, ErrPhysics) {
		t.Fatalf("expected ErrPhysics, got %v", err)
	}
	var pe *PhysicsError
	if !errors.As(err, &pe) || pe.Op != "integrate_linear" {
		t.Errorf("expected *PhysicsError for integrate_linear, got %#v", err)
	}
}

func TestResizeRoundTrip(t *testing.T) {
	b := NewBall(800, 600)
	b.X, b.Y = 310.5, 170.25

	b.Resize(1920, 1080)
	b.Resize(800, 600)

	if !approx(b.X, 310.5) || !approx(b.Y, 170.25) {
		t.Errorf("position after round trip = (%v, %v), expected (310.5, 170.25)", b.X, b.Y)
	}
	if !approx(b.Radius, 20) {
		t.Errorf("Radius = %v, expected 20", b.Radius)
	}
}

func TestResizeClamps(t *testing.T) {
	b := NewBall(800, 600)
	b.X, b.Y = 790, 20 // past the boundary of radius 20, placed by hand

	b.Resize(1600, 300)

	if !b.InBounds(0) {
		t.Errorf("ball out of bounds after resize: (%v, %v) r=%v screen %vx%v",
			b.X, b.Y, b.Radius, b.ScreenW, b.ScreenH)
	}
	if !approx(b.Radius, 40) {
		t.Errorf("Radius = %v, expected 40", b.Radius)
	}
}

func TestResizeIgnoresInvalid(t *testing.T) {
	b := NewBall(800, 600)
	before := b

	b.Resize(0, 600)
	b.Resize(800, -1)
	b.Resize(math.NaN(), 600)
	b.Resize(math.Inf(1), 600)

	if b != before {
		t.Errorf("invalid resize changed ball: %+v -> %+v", before, b)
	}
}

func TestResetCentered(t *testing.T) {
	b := NewBall(1000, 800)
	b.X, b.Y, b.VX, b.VY = 100, 100, 5, 5

	b.ResetCentered(800, 600)

	if b.ScreenW != 800 || b.ScreenH != 600 {
		t.Errorf("screen = %vx%v, expected 800x600", b.ScreenW, b.ScreenH)
	}
	if b.X != 400 || b.Y != 300 {
		t.Errorf("position = (%v, %v), expected (400, 300)", b.X, b.Y)
	}
	if b.VX != 0 || b.VY != 0 {
		t.Errorf("velocity = (%v, %v), expected zero", b.VX, b.VY)
	}
}

func TestResetRandomMargin(t *testing.T) {
	rng := NewRand(7)
	b := NewBall(800, 600)

	for i := 0; i < 2000; i++ {
		b.ResetRandom(800, 600, rng)
		if !b.InBounds(spawnMargin) {
			t.Fatalf("sample %d at (%v, %v) is inside the spawn margin", i, b.X, b.Y)
		}
		if b.VX != 0 || b.VY != 0 {
			t.Fatalf("sample %d velocity not zeroed", i)
		}
	}
}

func TestResetRandomTinyScreen(t *testing.T) {
	b := NewBall(100, 60)
	b.ResetRandom(100, 60, NewRand(3))

	if b.X != 50 || b.Y != 30 {
		t.Errorf("position = (%v, %v), expected center (50, 30) on a screen smaller than the margin", b.X, b.Y)
	}
}

func TestSetSpeedNormalizes(t *testing.T) {
	b := NewBall(800, 600)
	b.SetSpeed(500, Vec2{X: 3, Y: 4}, NewRand(1))

	if !approx(b.VX, 300) || !approx(b.VY, 400) {
		t.Errorf("velocity = (%v, %v), expected (300, 400)", b.VX, b.VY)
	}
}

func TestSetSpeedDegenerateDirection(t *testing.T) {
	tests := []struct {
		name string
		dir  Vec2
	}{
		{"zero", Vec2{}},
		{"nan", Vec2{X: math.NaN(), Y: 1}},
		{"inf", Vec2{X: math.Inf(1), Y: 0}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBall(800, 600)
			b.SetSpeed(1000, tc.dir, NewRand(5))

			if !approx(b.Speed(), 1000) {
				t.Errorf("Speed() = %v, expected 1000", b.Speed())
			}
		})
	}
}

func TestSetSpeedRandomDirectionUniform(t *testing.T) {
	const (
		samples = 20000
		bins    = 8
	)
	rng := NewRand(99)
	b := NewBall(800, 600)
	var counts [bins]int

	for i := 0; i < samples; i++ {
		b.SetSpeed(1, Vec2{}, rng)
		a := math.Atan2(b.VY, b.VX)
		if a < 0 {
			a += 2 * math.Pi
		}
		counts[int(a/(2*math.Pi)*bins)%bins]++
	}

	expected := float64(samples) / bins
	for i, c := range counts {
		if math.Abs(float64(c)-expected) > expected*0.1 {
			t.Errorf("bin %d has %d samples, expected about %.0f", i, c, expected)
		}
	}
}

func TestIntegrateCircularAngle(t *testing.T) {
	b := NewBall(800, 600)
	b.X, b.Y = 500, 300 // 100 right of center
	b.VX, b.VY = 7, -3

	if err := b.IntegrateCircular(1, math.Pi/2, 100); err != nil {
		t.Fatalf("IntegrateCircular() error: %v", err)
	}

	if !approx(b.X, 400) || !approx(b.Y, 400) {
		t.Errorf("position = (%v, %v), expected (400, 400)", b.X, b.Y)
	}
	if b.VX != 7 || b.VY != -3 {
		t.Errorf("velocity changed to (%v, %v), expected frozen (7, -3)", b.VX, b.VY)
	}
}

func TestIntegrateCircularDefaultOrbit(t *testing.T) {
	b := NewBall(800, 600)
	b.X, b.Y = 450, 300

	if err := b.IntegrateCircular(0.1, 0.8, DefaultOrbit); err != nil {
		t.Fatalf("IntegrateCircular() error: %v", err)
	}

	cx, cy := b.Center()
	dist := math.Hypot(b.X-cx, b.Y-cy)
	if !approx(dist, 280) {
		t.Errorf("orbit radius = %v, expected 280 (h/2 - radius)", dist)
	}
}
