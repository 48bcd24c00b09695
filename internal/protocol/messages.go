package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type            string            `json:"type"`
	ProtocolVersion string            `json:"protocol_version"`
	ClientName      string            `json:"client_name"`
	Capabilities    HelloCapabilities `json:"capabilities,omitempty"`
}

type HelloCapabilities struct {
	MaxQueue int `json:"max_queue,omitempty"`
}

// WELCOME (server -> client): session id, world parameters and the full
// occupied set, one delta-varint coordinate string per block kind.
type WelcomeMsg struct {
	Type            string            `json:"type"`
	ProtocolVersion string            `json:"protocol_version"`
	ClientID        string            `json:"client_id"`
	WorldParams     WorldParams       `json:"world_params"`
	Voxels          map[string]string `json:"voxels"`
	Player          PlayerState       `json:"player"`
}

type WorldParams struct {
	TickRateHz   int     `json:"tick_rate_hz"`
	Seed         int64   `json:"seed"`
	BoundaryR    int     `json:"boundary_r"`
	PlayerHeight int     `json:"player_height"`
	Pad          float64 `json:"pad"`
	AtlasN       int     `json:"atlas_n"`
}

// PlayerState mirrors the controller's kinematic state.
type PlayerState struct {
	Pos    [3]float64 `json:"pos"`
	Yaw    float64    `json:"yaw"`
	Pitch  float64    `json:"pitch"`
	DY     float64    `json:"dy"`
	Flying bool       `json:"flying"`
}

// STATE (server -> client): one message per tick.
type StateMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	Tick            uint64      `json:"tick"`
	Player          PlayerState `json:"player"`
	VoxelCount      int         `json:"voxel_count"`
	// Target is the cell currently under the crosshair, if any.
	Target *[3]int     `json:"target,omitempty"`
	Edits  []EditEvent `json:"edits,omitempty"`
}

// EditEvent records one committed world mutation.
type EditEvent struct {
	Action string `json:"action"` // "PLACE" | "REMOVE"
	Pos    [3]int `json:"pos"`
	Kind   string `json:"kind,omitempty"`
}

// INPUT (client -> server): the sampled action set. Held keys are
// resent every change, not every tick.
type InputMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	Input           InputActions `json:"input"`
}

type InputActions struct {
	Forward       bool `json:"forward,omitempty"`
	Back          bool `json:"back,omitempty"`
	Left          bool `json:"left,omitempty"`
	Right         bool `json:"right,omitempty"`
	Jump          bool `json:"jump,omitempty"`
	ToggleFly     bool `json:"toggle_fly,omitempty"`
	ToggleCapture bool `json:"toggle_capture,omitempty"`
	Menu          bool `json:"menu,omitempty"`
}

// LOOK (client -> server): pointer delta since the last sample.
type LookMsg struct {
	Type            string  `json:"type"`
	ProtocolVersion string  `json:"protocol_version"`
	DX              float64 `json:"dx"`
	DY              float64 `json:"dy"`
}

// PICK (client -> server): crosshair action against the current sight
// ray. PLACE targets the empty cell in front of the hit face; REMOVE
// targets the hit cell itself.
type PickMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Action          string `json:"action"` // "PLACE" | "REMOVE"
	Kind            string `json:"kind,omitempty"`
}

// ERROR (server -> client)
type ErrorMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Code            string `json:"code"`
	Message         string `json:"message,omitempty"`
}
