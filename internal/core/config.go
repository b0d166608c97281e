package core

// RuntimeConfig describes the host surface the engine is displayed on.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Frame ticks per second (default 60)
	Seed     int64 // RNG seed; 0 means derive from the current time
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}

// Aspect returns the display aspect ratio. Terminal cells are roughly twice
// as tall as they are wide, so rows count double.
func (c RuntimeConfig) Aspect() float64 {
	if c.ScreenW <= 0 || c.ScreenH <= 0 {
		return 1
	}
	return float64(c.ScreenW) / float64(c.ScreenH*2)
}
