package protocol

// UPDATE_DATA (tracker -> engine)
type UpdateDataMsg struct {
	Type      string    `json:"type"`
	Hand      *HandMsg  `json:"hand,omitempty"`
	Mouth     *MouthMsg `json:"mouth,omitempty"`
	Timestamp float64   `json:"timestamp,omitempty"` // seconds since the epoch
}

type HandMsg struct {
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Z             float64 `json:"z"`
	ThumbX        float64 `json:"thumb_x,omitempty"`
	ThumbY        float64 `json:"thumb_y,omitempty"`
	ThumbZ        float64 `json:"thumb_z,omitempty"`
	IsPinching    bool    `json:"is_pinching"`
	PinchDistance float64 `json:"pinch_distance,omitempty"`
}

type MouthMsg struct {
	TopX    float64 `json:"top_x"`
	TopY    float64 `json:"top_y"`
	BottomX float64 `json:"bottom_x"`
	BottomY float64 `json:"bottom_y"`
	IsOpen  bool    `json:"is_open"`
}

// SPAWN_FRUIT / SPAWN_BANANA (tracker -> engine)
type SpawnMsg struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// CLEAR (client -> engine)
type ClearMsg struct {
	Type string `json:"type"`
}

// RESIZE (display -> engine)
type ResizeMsg struct {
	Type   string  `json:"type"`
	Aspect float64 `json:"aspect"`
}

// CONNECTED (engine -> client)
type ConnectedMsg struct {
	Type     string `json:"type"`
	Status   string `json:"status"`
	Message  string `json:"message"`
	ClientID string `json:"client_id"`
}

// EATEN (engine -> client)
type EatenMsg struct {
	Type      string `json:"type"`
	Score     int    `json:"score"`
	Timestamp int64  `json:"timestamp"` // Unix milliseconds
}

// SCENE (engine -> display)
type SceneMsg struct {
	Type      string        `json:"type"`
	Tick      uint64        `json:"tick"`
	Score     int           `json:"score"`
	Entities  []SceneEntity `json:"entities"`
	Particles int           `json:"particles"`
	Hand      *SceneHand    `json:"hand,omitempty"`
	Mouth     *SceneMouth   `json:"mouth,omitempty"`
}

type SceneEntity struct {
	ID       int        `json:"id"`
	Kind     string     `json:"kind"`
	Pos      [3]float64 `json:"pos"`
	Rot      [3]float64 `json:"rot"`
	Scale    float64    `json:"scale"`
	Bites    int        `json:"bites"`
	MaxBites int        `json:"max_bites"`
	Grabbed  bool       `json:"grabbed,omitempty"`
}

type SceneHand struct {
	Pos      [3]float64 `json:"pos"`
	Pinching bool       `json:"pinching"`
}

type SceneMouth struct {
	Pos      [3]float64 `json:"pos"`
	Openness float64    `json:"openness"`
	Open     bool       `json:"open"`
}
