package motion

import (
	"errors"
	"fmt"
)

// ErrPhysics is the sentinel matched by every PhysicsError.
var ErrPhysics = errors.New("motion: physics error")

// PhysicsError reports a kinematics computation that produced a non-finite result.
// Tick restores the pre-tick state before returning one, so the caller only needs
// to log it and keep going.
type PhysicsError struct {
	Op     string  // Operation that failed, e.g. "integrate_linear"
	Stage  int     // Stage being simulated, 0 when raised outside Tick
	X, Y   float64 // Offending position
	VX, VY float64 // Offending velocity
}

func (e *PhysicsError) Error() string {
	return fmt.Sprintf("motion: physics error in %s (stage %d): pos=(%g, %g) vel=(%g, %g)",
		e.Op, e.Stage, e.X, e.Y, e.VX, e.VY)
}

// Is makes errors.Is(err, ErrPhysics) true for any PhysicsError.
func (e *PhysicsError) Is(target error) bool {
	return target == ErrPhysics
}
