// Package snapshot defines the whole-world snapshot format: a JSON
// header line followed by a gob body, zstd-compressed. Snapshots are
// written between ticks, never concurrently with mutation.
package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

type Header struct {
	Version int    `json:"version"`
	WorldID string `json:"world_id"`
	Tick    uint64 `json:"tick"`
}

type WorldV1 struct {
	Header Header `json:"header"`

	Seed               int64 `json:"seed"`
	TickRateHz         int   `json:"tick_rate_hz"`
	BoundaryR          int   `json:"boundary_r"`
	SnapshotEveryTicks int   `json:"snapshot_every_ticks,omitempty"`

	// Kinematic tuning (captured for deterministic resume).
	Params ParamsV1 `json:"params"`

	Voxels []VoxelV1 `json:"voxels"`
	Player PlayerV1  `json:"player"`

	// Latched session input: the pointer-capture flag and the most
	// recent INPUT message. Without these a resumed session ignores
	// look deltas and drops held movement keys, so its per-tick digests
	// diverge from the live session's.
	Captured bool    `json:"captured,omitempty"`
	Input    InputV1 `json:"input,omitempty"`
}

type InputV1 struct {
	Forward       bool `json:"forward,omitempty"`
	Back          bool `json:"back,omitempty"`
	Left          bool `json:"left,omitempty"`
	Right         bool `json:"right,omitempty"`
	Jump          bool `json:"jump,omitempty"`
	ToggleFly     bool `json:"toggle_fly,omitempty"`
	ToggleCapture bool `json:"toggle_capture,omitempty"`
	Menu          bool `json:"menu,omitempty"`
}

type ParamsV1 struct {
	WalkSpeed        float64 `json:"walk_speed"`
	FlySpeed         float64 `json:"fly_speed"`
	Gravity          float64 `json:"gravity"`
	TerminalVelocity float64 `json:"terminal_velocity"`
	MaxJumpHeight    float64 `json:"max_jump_height"`
	PlayerHeight     int     `json:"player_height"`
	Pad              float64 `json:"pad"`
	Sensitivity      float64 `json:"sensitivity"`
	HitMaxDistance   int     `json:"hit_max_distance"`
}

type VoxelV1 struct {
	Pos  [3]int `json:"pos"`
	Kind uint16 `json:"kind"`
}

type PlayerV1 struct {
	Pos    [3]float64 `json:"pos"`
	Yaw    float64    `json:"yaw"`
	Pitch  float64    `json:"pitch"`
	DY     float64    `json:"dy"`
	Flying bool       `json:"flying"`

	// PrevJump is the jump-edge latch; a held jump key must not re-fire
	// on the first resumed tick.
	PrevJump bool `json:"prev_jump,omitempty"`
}

func WriteSnapshot(path string, snap WorldV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	defer enc.Close()

	bw := bufio.NewWriterSize(enc, 256*1024)
	defer bw.Flush()

	hb, _ := json.Marshal(snap.Header)
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}

	if err := gob.NewEncoder(bw).Encode(&snap); err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}
	return nil
}

func ReadSnapshot(path string) (WorldV1, error) {
	var snap WorldV1
	f, err := os.Open(path)
	if err != nil {
		return snap, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)

	// Skip the header line; the gob body carries the header too.
	_, _ = br.ReadBytes('\n')

	if err := gob.NewDecoder(br).Decode(&snap); err != nil {
		return snap, fmt.Errorf("gob decode: %w", err)
	}
	return snap, nil
}

// ReadHeader decodes only the JSON header line, for cheap inspection of
// snapshot directories.
func ReadHeader(path string) (Header, error) {
	var h Header
	f, err := os.Open(path)
	if err != nil {
		return h, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return h, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 64*1024)
	line, err := br.ReadBytes('\n')
	if err != nil {
		return h, err
	}
	if err := json.Unmarshal(line, &h); err != nil {
		return h, err
	}
	return h, nil
}
