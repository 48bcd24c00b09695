package snapshot

import (
	"path/filepath"
	"reflect"
	"testing"
)

func testSnap() WorldV1 {
	return WorldV1{
		Header:     Header{Version: 1, WorldID: "T1", Tick: 1234},
		Seed:       42,
		TickRateHz: 60,
		BoundaryR:  10,
		Params: ParamsV1{
			WalkSpeed: 5, FlySpeed: 15, Gravity: 20, TerminalVelocity: 50,
			MaxJumpHeight: 5, PlayerHeight: 2, Pad: 0.25, Sensitivity: 0.15,
			HitMaxDistance: 8,
		},
		Voxels: []VoxelV1{
			{Pos: [3]int{0, -1, 0}, Kind: 1},
			{Pos: [3]int{-10, 10, 3}, Kind: 4},
		},
		Player: PlayerV1{Pos: [3]float64{0.5, -0.25, 1}, Yaw: 12, Pitch: -3, DY: -1.5, Flying: true},
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshots", "1234.snap.zst")
	snap := testSnap()
	if err := WriteSnapshot(path, snap); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := ReadSnapshot(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !reflect.DeepEqual(got, snap) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, snap)
	}
}

func TestReadHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "1234.snap.zst")
	if err := WriteSnapshot(path, testSnap()); err != nil {
		t.Fatalf("write: %v", err)
	}

	h, err := ReadHeader(path)
	if err != nil {
		t.Fatalf("read header: %v", err)
	}
	if h.Version != 1 || h.WorldID != "T1" || h.Tick != 1234 {
		t.Fatalf("header = %+v", h)
	}
}

func TestReadMissing(t *testing.T) {
	if _, err := ReadSnapshot(filepath.Join(t.TempDir(), "nope.snap.zst")); err == nil {
		t.Fatalf("missing snapshot read succeeded")
	}
}
