package protocol

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/vovakirdan/fruit-mukbang/internal/core"
	"github.com/vovakirdan/fruit-mukbang/internal/engine"
	"github.com/vovakirdan/fruit-mukbang/internal/scene"
)

func TestDecodeUpdateData(t *testing.T) {
	raw := []byte(`{
	  "type":"update_data",
	  "timestamp":1700000000.25,
	  "hand":{"x":0.4,"y":0.6,"z":-0.05,"thumb_x":0.41,"thumb_y":0.61,"thumb_z":-0.04,"is_pinching":true,"pinch_distance":0.03},
	  "mouth":{"top_x":0.5,"top_y":0.48,"bottom_x":0.5,"bottom_y":0.53,"is_open":true}
	}`)

	cmd, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	f, ok := cmd.(engine.SensorFrame)
	if !ok {
		t.Fatalf("command = %T, expected SensorFrame", cmd)
	}
	if f.Timestamp != 1700000000250 {
		t.Errorf("Timestamp = %d", f.Timestamp)
	}
	if f.Hand == nil || f.Hand.X != 0.4 || f.Hand.Y != 0.6 || f.Hand.Z != -0.05 || !f.Hand.Pinching {
		t.Errorf("hand = %+v", f.Hand)
	}
	if f.Mouth == nil || !f.Mouth.Open || f.Mouth.TopY != 0.48 || f.Mouth.BottomY != 0.53 {
		t.Errorf("mouth = %+v", f.Mouth)
	}
}

func TestDecodeAbsentRecords(t *testing.T) {
	for _, raw := range []string{
		`{"type":"update_data"}`,
		`{"type":"update_data","hand":null,"mouth":null}`,
	} {
		cmd, err := Decode([]byte(raw))
		if err != nil {
			t.Fatalf("Decode(%s): %v", raw, err)
		}
		f := cmd.(engine.SensorFrame)
		if f.Hand != nil || f.Mouth != nil {
			t.Errorf("Decode(%s) = %+v, expected no hand and no mouth", raw, f)
		}
	}
}

func TestDecodeCommands(t *testing.T) {
	tests := []struct {
		raw  string
		want engine.Command
	}{
		{`{"type":"spawn_fruit","x":0.5,"y":0.5}`, engine.SpawnCommand{Kind: scene.KindApple, X: 0.5, Y: 0.5}},
		{`{"type":"spawn_banana","x":0.3,"y":0.5}`, engine.SpawnCommand{Kind: scene.KindBanana, X: 0.3, Y: 0.5}},
		{`{"type":"clear"}`, engine.ClearCommand{}},
		{`{"type":"resize","aspect":1.5}`, engine.ResizeCommand{Aspect: 1.5}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := Decode([]byte(tt.raw))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got != tt.want {
				t.Errorf("Decode = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"unknown type", `{"type":"eaten","score":5}`, ErrUnknownType},
		{"missing type", `{"x":1}`, ErrUnknownType},
		{"spawn without y", `{"type":"spawn_fruit","x":0.5}`, ErrInvalid},
		{"spawn off screen", `{"type":"spawn_banana","x":1.5,"y":0.5}`, ErrInvalid},
		{"hand without pinch", `{"type":"update_data","hand":{"x":0.1,"y":0.2}}`, ErrInvalid},
		{"mouth with string", `{"type":"update_data","mouth":{"top_x":"a","top_y":0,"bottom_x":0,"bottom_y":0,"is_open":false}}`, ErrInvalid},
		{"clear with payload", `{"type":"clear","all":true}`, ErrInvalid},
		{"zero aspect", `{"type":"resize","aspect":0}`, ErrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.raw))
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode error = %v, expected %v", err, tt.want)
			}
		})
	}

	if _, err := Decode([]byte(`not json`)); err == nil {
		t.Error("expected an error for malformed JSON")
	}
}

func TestUpdateDataRoundTrip(t *testing.T) {
	f := engine.SensorFrame{
		Hand:      &engine.HandSample{X: 0.2, Y: 0.3, Pinching: true},
		Timestamp: 1234,
	}
	b, err := json.Marshal(UpdateData(f))
	if err != nil {
		t.Fatal(err)
	}
	cmd, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode(%s): %v", b, err)
	}
	got := cmd.(engine.SensorFrame)
	if got.Timestamp != 1234 || got.Hand == nil || *got.Hand != *f.Hand || got.Mouth != nil {
		t.Errorf("round trip = %+v", got)
	}
}

func TestEncodeEvent(t *testing.T) {
	b, ok, err := EncodeEvent(engine.EatenEvent{EntityID: 3, Kind: scene.KindApple, Score: 75, Timestamp: 1700000000000})
	if err != nil || !ok {
		t.Fatalf("EncodeEvent: ok=%t err=%v", ok, err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatal(err)
	}
	if m["type"] != TypeEaten || m["score"] != float64(75) || m["timestamp"] != float64(1700000000000) {
		t.Errorf("eaten message = %s", b)
	}
	if len(m) != 3 {
		t.Errorf("eaten carries only score and timestamp, got %s", b)
	}

	if _, ok, _ := EncodeEvent(engine.BittenEvent{Score: 5}); ok {
		t.Error("bitten events stay inside the engine")
	}
}

func TestScene(t *testing.T) {
	snap := engine.Snapshot{
		Tick:  9,
		Score: 10,
		Entities: []engine.EntityView{
			{ID: 1, Kind: scene.KindBanana, Position: core.Vec3{1, 2, 3}, Scale: 0.5, BiteCount: 2, MaxBites: 6, Grabbed: true},
		},
		Particles: make([]engine.ParticleView, 4),
		Mouth:     &engine.MouthView{World: core.Vec3{0, 1, 0}, Openness: 0.05, Open: true},
	}
	m := Scene(snap)
	if m.Type != TypeScene || m.Tick != 9 || m.Score != 10 || m.Particles != 4 {
		t.Errorf("scene header = %+v", m)
	}
	if len(m.Entities) != 1 || m.Entities[0].Kind != "banana" || m.Entities[0].Pos != [3]float64{1, 2, 3} || !m.Entities[0].Grabbed {
		t.Errorf("scene entities = %+v", m.Entities)
	}
	if m.Hand != nil || m.Mouth == nil || !m.Mouth.Open {
		t.Errorf("indicators hand=%+v mouth=%+v", m.Hand, m.Mouth)
	}
}

func TestValidateRoutesByDirection(t *testing.T) {
	for _, typ := range []string{TypeUpdateData, TypeSpawnFruit, TypeSpawnBanana, TypeClear, TypeResize} {
		if err := Validate(typ, []byte(`{"type":"`+typ+`"}`)); errors.Is(err, ErrUnknownType) {
			t.Errorf("%s should be accepted as inbound, got %v", typ, err)
		}
	}
	for _, typ := range []string{TypeConnected, TypeEaten, TypeScene, ""} {
		if err := Validate(typ, []byte(`{}`)); !errors.Is(err, ErrUnknownType) {
			t.Errorf("%q should be rejected as not inbound, got %v", typ, err)
		}
	}
}
