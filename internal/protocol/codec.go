package protocol

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/vovakirdan/fruit-mukbang/internal/engine"
	"github.com/vovakirdan/fruit-mukbang/internal/scene"
)

// Decode validates an inbound message and converts it to an engine command.
func Decode(raw []byte) (engine.Command, error) {
	base, err := DecodeBase(raw)
	if err != nil {
		return nil, err
	}
	if err := Validate(base.Type, raw); err != nil {
		return nil, err
	}

	switch base.Type {
	case TypeUpdateData:
		var m UpdateDataMsg
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("protocol: decode %s: %w", base.Type, err)
		}
		return m.Command(), nil
	case TypeSpawnFruit, TypeSpawnBanana:
		var m SpawnMsg
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("protocol: decode %s: %w", base.Type, err)
		}
		kind := scene.KindApple
		if base.Type == TypeSpawnBanana {
			kind = scene.KindBanana
		}
		return engine.SpawnCommand{Kind: kind, X: m.X, Y: m.Y}, nil
	case TypeClear:
		return engine.ClearCommand{}, nil
	case TypeResize:
		var m ResizeMsg
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("protocol: decode %s: %w", base.Type, err)
		}
		return engine.ResizeCommand{Aspect: m.Aspect}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, base.Type)
}

// Command converts a tracker frame to a sensor frame. Absent records stay nil.
func (m UpdateDataMsg) Command() engine.SensorFrame {
	f := engine.SensorFrame{Timestamp: int64(math.Round(m.Timestamp * 1000))}
	if h := m.Hand; h != nil {
		f.Hand = &engine.HandSample{X: h.X, Y: h.Y, Z: h.Z, Pinching: h.IsPinching}
	}
	if mo := m.Mouth; mo != nil {
		f.Mouth = &engine.MouthSample{
			TopX: mo.TopX, TopY: mo.TopY,
			BottomX: mo.BottomX, BottomY: mo.BottomY,
			Open: mo.IsOpen,
		}
	}
	return f
}

// UpdateData is the inverse of Command, used by simulated trackers.
func UpdateData(f engine.SensorFrame) UpdateDataMsg {
	m := UpdateDataMsg{Type: TypeUpdateData, Timestamp: float64(f.Timestamp) / 1000}
	if h := f.Hand; h != nil {
		m.Hand = &HandMsg{X: h.X, Y: h.Y, Z: h.Z, IsPinching: h.Pinching}
	}
	if mo := f.Mouth; mo != nil {
		m.Mouth = &MouthMsg{TopX: mo.TopX, TopY: mo.TopY, BottomX: mo.BottomX, BottomY: mo.BottomY, IsOpen: mo.Open}
	}
	return m
}

// Connected returns the handshake sent to a new client.
func Connected(clientID string) ConnectedMsg {
	return ConnectedMsg{
		Type:     TypeConnected,
		Status:   "ok",
		Message:  "Connected to fruit mukbang engine",
		ClientID: clientID,
	}
}

// EncodeEvent returns the wire form of an outbound engine event. Only eaten
// events leave the engine; ok is false for the others.
func EncodeEvent(ev engine.Event) (b []byte, ok bool, err error) {
	e, isEaten := ev.(engine.EatenEvent)
	if !isEaten {
		return nil, false, nil
	}
	b, err = json.Marshal(EatenMsg{Type: TypeEaten, Score: e.Score, Timestamp: e.Timestamp})
	if err != nil {
		return nil, false, fmt.Errorf("protocol: encode eaten: %w", err)
	}
	return b, true, nil
}

// Scene builds the display broadcast for a snapshot.
func Scene(s engine.Snapshot) SceneMsg {
	m := SceneMsg{
		Type:      TypeScene,
		Tick:      s.Tick,
		Score:     s.Score,
		Entities:  make([]SceneEntity, 0, len(s.Entities)),
		Particles: len(s.Particles),
	}
	for _, e := range s.Entities {
		m.Entities = append(m.Entities, SceneEntity{
			ID:       e.ID,
			Kind:     e.Kind.String(),
			Pos:      e.Position,
			Rot:      e.Rotation,
			Scale:    e.Scale,
			Bites:    e.BiteCount,
			MaxBites: e.MaxBites,
			Grabbed:  e.Grabbed,
		})
	}
	if s.Hand != nil {
		m.Hand = &SceneHand{Pos: s.Hand.World, Pinching: s.Hand.Pinching}
	}
	if s.Mouth != nil {
		m.Mouth = &SceneMouth{Pos: s.Mouth.World, Openness: s.Mouth.Openness, Open: s.Mouth.Open}
	}
	return m
}
