package world

import (
	"testing"

	"voxelforge.dev/internal/protocol"
)

func newTestWorld() *World {
	return New(WorldConfig{ID: "T1", TickRateHz: 60, Seed: 42})
}

// seedPlatform gives the player something to stand on so digests are
// not dominated by free fall.
func seedPlatform(w *World) {
	for x := -2; x <= 2; x++ {
		for z := -2; z <= 2; z++ {
			w.Store().Place(KindSolid, Vec3i{X: x, Y: -1, Z: z})
		}
	}
}

func TestStepOnceDeterminism(t *testing.T) {
	script := func(w *World) (uint64, string) {
		seedPlatform(w)
		var tick uint64
		var digest string
		for i := 0; i < 30; i++ {
			in := []protocol.InputActions{{Forward: true}}
			looks := []LookDelta{{DX: 3, DY: -1}}
			tick, digest = w.StepOnce(in, looks, nil)
		}
		return tick, digest
	}

	t1, d1 := script(newTestWorld())
	t2, d2 := script(newTestWorld())
	if t1 != t2 || d1 != d2 {
		t.Fatalf("identical scripts diverged: (%d,%s) vs (%d,%s)", t1, d1, t2, d2)
	}

	// A divergent input changes the digest.
	w3 := newTestWorld()
	seedPlatform(w3)
	var d3 string
	for i := 0; i < 30; i++ {
		_, d3 = w3.StepOnce([]protocol.InputActions{{Back: true}}, []LookDelta{{DX: 3, DY: -1}}, nil)
	}
	if d3 == d1 {
		t.Fatalf("different inputs produced the same digest")
	}
}

func TestPickPlaceAndRemove(t *testing.T) {
	w := newTestWorld()
	seedPlatform(w)
	w.player.Pos = Vec3f{Y: -0.25}
	w.Store().Place(KindSolid, Vec3i{Z: -3})

	// Yaw 0, pitch 0 looks toward -Z. The first pick only captures the
	// pointer; the second places against the hit face.
	w.StepOnce(nil, nil, []PickRequest{
		{ClientID: "C0001", Action: "PLACE", Kind: KindMissile},
		{ClientID: "C0001", Action: "PLACE", Kind: KindMissile},
	})
	placed := Vec3i{Z: -2}
	v, ok := w.Store().Get(placed)
	if !ok {
		t.Fatalf("PLACE did not fill the cell in front of the hit face")
	}
	if v.Kind != KindMissile {
		t.Fatalf("placed kind = %d, want %d", v.Kind, KindMissile)
	}

	// REMOVE takes the nearest occupied cell, which is now the one we
	// just placed.
	w.StepOnce(nil, nil, []PickRequest{{ClientID: "C0001", Action: "REMOVE"}})
	if w.Store().Contains(placed) {
		t.Fatalf("REMOVE left the cell occupied")
	}
	if !w.Store().Contains(Vec3i{Z: -3}) {
		t.Fatalf("REMOVE took the wrong cell")
	}
}

func TestPickBoundaryProtected(t *testing.T) {
	w := newTestWorld()
	seedPlatform(w)
	w.player.Pos = Vec3f{Y: -0.25}
	w.Store().Place(KindBoundary, Vec3i{Z: -3})

	// Capture, then try to remove the boundary voxel.
	w.StepOnce(nil, nil, []PickRequest{
		{ClientID: "C0001", Action: "REMOVE"},
		{ClientID: "C0001", Action: "REMOVE"},
	})
	if !w.Store().Contains(Vec3i{Z: -3}) {
		t.Fatalf("boundary voxel was removed")
	}
}

func TestPickPlaceWithoutTarget(t *testing.T) {
	w := newTestWorld()
	seedPlatform(w)
	w.player.Pos = Vec3f{Y: -0.25}
	before := w.Store().Len()

	w.StepOnce(nil, nil, []PickRequest{
		{ClientID: "C0001", Action: "PLACE"},
		{ClientID: "C0001", Action: "PLACE"},
	})
	// Looking at empty space within range: nothing to place against.
	if w.Store().Len() != before {
		t.Fatalf("PLACE with no target mutated the store")
	}
}

func TestToggleFlyAndCapture(t *testing.T) {
	w := newTestWorld()
	seedPlatform(w)
	w.player.Pos = Vec3f{Y: -0.25}

	w.StepOnce([]protocol.InputActions{{ToggleFly: true}}, nil, nil)
	if !w.player.Flying {
		t.Fatalf("ToggleFly did not enable flight")
	}

	// Look deltas are ignored until the pointer is captured.
	w.StepOnce(nil, []LookDelta{{DX: 100}}, nil)
	if w.player.Yaw != 0 {
		t.Fatalf("uncaptured look moved the camera: yaw = %v", w.player.Yaw)
	}
	w.StepOnce([]protocol.InputActions{{ToggleCapture: true}}, []LookDelta{{DX: 100}}, nil)
	if w.player.Yaw == 0 {
		t.Fatalf("captured look did not move the camera")
	}

	// Menu releases the capture.
	w.StepOnce([]protocol.InputActions{{Menu: true}}, nil, nil)
	yaw := w.player.Yaw
	w.StepOnce(nil, []LookDelta{{DX: 100}}, nil)
	if w.player.Yaw != yaw {
		t.Fatalf("look applied after menu released the capture")
	}
}

func TestSnapshotRoundTripPreservesDigest(t *testing.T) {
	w := newTestWorld()
	seedPlatform(w)
	w.Store().Place(KindHazard, Vec3i{X: 5, Y: 2, Z: -5})
	w.player.Pos = Vec3f{X: 1.5, Y: 0.75, Z: -2}
	w.player.Yaw = 33
	w.player.Pitch = -10
	w.player.Flying = true
	// Capture the pointer and leave a movement key held, so the
	// snapshot carries live session state beyond the player kinematics.
	w.StepOnce([]protocol.InputActions{{ToggleCapture: true, Forward: true}}, nil, nil)

	snap := w.ExportSnapshot()
	w2 := NewFromSnapshot(WorldConfig{ID: "T1"}, snap)

	if w.Tick() != w2.Tick() {
		t.Fatalf("tick: %d vs %d", w.Tick(), w2.Tick())
	}
	if w.StateDigest() != w2.StateDigest() {
		t.Fatalf("state digest changed across snapshot round trip")
	}

	// Resumed sessions must keep stepping identically: the latched
	// Forward key keeps driving motion and the captured pointer keeps
	// accepting look deltas without any new INPUT message.
	for i := 0; i < 5; i++ {
		_, d1 := w.StepOnce(nil, []LookDelta{{DX: 10, DY: -2}}, nil)
		_, d2 := w2.StepOnce(nil, []LookDelta{{DX: 10, DY: -2}}, nil)
		if d1 != d2 {
			t.Fatalf("resumed session diverged at step %d: %s vs %s", i, d1, d2)
		}
	}
}

func TestSnapshotCarriesSessionInput(t *testing.T) {
	w := newTestWorld()
	seedPlatform(w)
	w.player.Pos = Vec3f{Y: -0.25}
	w.StepOnce([]protocol.InputActions{{ToggleCapture: true, Back: true}}, nil, nil)

	snap := w.ExportSnapshot()
	if !snap.Captured || !snap.Input.Back {
		t.Fatalf("snapshot dropped session input: captured=%v input=%+v", snap.Captured, snap.Input)
	}

	w2 := NewFromSnapshot(WorldConfig{ID: "T1"}, snap)
	if !w2.captured || !w2.input.Back {
		t.Fatalf("resume dropped session input: captured=%v input=%+v", w2.captured, w2.input)
	}
}

func TestConfigPadZeroKept(t *testing.T) {
	zero := 0.0
	w := New(WorldConfig{ID: "T1", Pad: &zero})
	if got := w.player.collider.Pad; got != 0 {
		t.Fatalf("explicit pad 0 rewritten to %v", got)
	}

	// Unset pad still falls back to the default.
	w2 := New(WorldConfig{ID: "T1"})
	if got := w2.player.collider.Pad; got != DefaultPad {
		t.Fatalf("unset pad = %v, want %v", got, DefaultPad)
	}

	// With no tolerance any overlap collides: a body sunk slightly into
	// the cell below is pushed up flush with the face.
	w.Store().Place(KindSolid, Vec3i{Y: -1})
	pos, hitY := w.player.collider.Collide(Vec3f{Y: -0.1}, 2)
	if !hitY || pos.Y != 0 {
		t.Fatalf("pad 0 collide = (%v, %v), want (0, true)", pos.Y, hitY)
	}
}

func TestStateDigestCoversPlayer(t *testing.T) {
	a := newTestWorld()
	b := newTestWorld()
	seedPlatform(a)
	seedPlatform(b)
	b.player.Yaw = 90

	if a.StateDigest() == b.StateDigest() {
		t.Fatalf("digest ignores player orientation")
	}
}
