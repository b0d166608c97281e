package tui

import (
	"github.com/vovakirdan/fruit-mukbang/internal/core"
	"github.com/vovakirdan/fruit-mukbang/internal/engine"
)

// Simulated mouth geometry, normalized units.
const (
	MouthStep   = 0.02
	OpenGap     = 0.05
	ClosedGap   = 0.005
	mouthStartY = 0.7
)

// Sensor stands in for the tracking service: the mouse is the hand and the
// arrow keys steer the mouth. Its state becomes one SensorFrame per tick.
type Sensor struct {
	HandX, HandY float64
	HandHidden   bool
	Pinching     bool
	MouthX       float64
	MouthY       float64
	MouthOpen    bool
}

// NewSensor starts with the hand at the center and a closed mouth below it.
func NewSensor() Sensor {
	return Sensor{HandX: 0.5, HandY: 0.5, MouthX: 0.5, MouthY: mouthStartY}
}

// Apply handles the sensor actions and reports whether a was one.
func (s *Sensor) Apply(a core.Action) bool {
	switch a {
	case core.ActionPinch:
		s.Pinching = !s.Pinching
	case core.ActionToggleMouth:
		s.MouthOpen = !s.MouthOpen
	case core.ActionToggleHand:
		s.HandHidden = !s.HandHidden
	case core.ActionMouthUp:
		s.MouthY = core.ClampF(s.MouthY-MouthStep, 0, 1)
	case core.ActionMouthDown:
		s.MouthY = core.ClampF(s.MouthY+MouthStep, 0, 1)
	case core.ActionMouthLeft:
		s.MouthX = core.ClampF(s.MouthX-MouthStep, 0, 1)
	case core.ActionMouthRight:
		s.MouthX = core.ClampF(s.MouthX+MouthStep, 0, 1)
	default:
		return false
	}
	return true
}

// PointAt moves the hand to a normalized position.
func (s *Sensor) PointAt(x, y float64) {
	s.HandX = core.ClampF(x, 0, 1)
	s.HandY = core.ClampF(y, 0, 1)
}

// Gap returns the simulated lip distance.
func (s Sensor) Gap() float64 {
	if s.MouthOpen {
		return OpenGap
	}
	return ClosedGap
}

// Frame builds the sensor reading for one tick.
func (s Sensor) Frame(ts int64) engine.SensorFrame {
	f := engine.SensorFrame{Timestamp: ts}
	if !s.HandHidden {
		f.Hand = &engine.HandSample{X: s.HandX, Y: s.HandY, Pinching: s.Pinching}
	}
	gap := s.Gap()
	f.Mouth = &engine.MouthSample{
		TopX: s.MouthX, TopY: s.MouthY - gap/2,
		BottomX: s.MouthX, BottomY: s.MouthY + gap/2,
		Open: s.MouthOpen,
	}
	return f
}
