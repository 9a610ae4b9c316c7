package core

// RuntimeConfig holds the per-run settings a host passes to the simulation loop.
type RuntimeConfig struct {
	ScreenW  int     // Terminal columns
	ScreenH  int     // Terminal rows
	TickRate int     // Frames per second
	Seed     int64   // RNG seed, 0 = seed from the clock
	MaxDt    float64 // Largest dt handed to a single tick, in seconds
	Stage    int     // Stage the session starts at
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		MaxDt:    0.1,
		Stage:    1,
	}
}

// ClampDt bounds a measured frame time to [0, MaxDt]. A non-positive MaxDt
// disables the upper bound.
func (c RuntimeConfig) ClampDt(dt float64) float64 {
	if !(dt > 0) {
		return 0
	}
	if c.MaxDt > 0 {
		return ClampF(dt, 0, c.MaxDt)
	}
	return dt
}
