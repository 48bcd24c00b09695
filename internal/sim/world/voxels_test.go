package world

import (
	"errors"
	"testing"

	"voxelforge.dev/internal/sim/mesh"
)

func TestPlaceIdempotent(t *testing.T) {
	s := NewVoxelStore()
	pos := Vec3i{X: 1, Y: 2, Z: 3}

	if !s.Place(KindSolid, pos) {
		t.Fatalf("first place returned false")
	}
	if s.Place(KindHazard, pos) {
		t.Fatalf("second place on occupied cell returned true")
	}
	if s.Len() != 1 {
		t.Fatalf("len = %d, want 1", s.Len())
	}
	v, ok := s.Get(pos)
	if !ok || v.Kind != KindSolid {
		t.Fatalf("occupied cell was overwritten: %+v", v)
	}
}

func TestRemoveMissing(t *testing.T) {
	s := NewVoxelStore()
	if err := s.Remove(Vec3i{X: 9, Y: 9, Z: 9}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("remove on empty cell: err = %v, want ErrNotFound", err)
	}
}

func TestRemoveCompactsSlots(t *testing.T) {
	s := NewVoxelStore()
	a := Vec3i{X: 0, Y: 0, Z: 0}
	b := Vec3i{X: 1, Y: 0, Z: 0}
	c := Vec3i{X: 2, Y: 0, Z: 0}
	s.Place(KindSolid, a)
	s.Place(KindSolid, b)
	s.Place(KindSolid, c)

	if err := s.Remove(a); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if got := s.Buffer().Rows(); got != 2 {
		t.Fatalf("buffer rows = %d, want 2", got)
	}

	// The tail row (c) must have been swapped into slot 0 and c's
	// bookkeeping rewritten.
	vc, ok := s.Get(c)
	if !ok {
		t.Fatalf("c disappeared")
	}
	if vc.Slot != 0 {
		t.Fatalf("c slot = %d, want 0", vc.Slot)
	}
	vert := s.Buffer().Vertex(0)
	// First corner of a cube centered at (2,0,0) is (1.5, 0.5, -0.5).
	if vert.Pos != [3]float32{1.5, 0.5, -0.5} {
		t.Fatalf("moved row vertex = %v, want cube at (2,0,0)", vert.Pos)
	}

	// b is now the tail row; removing it moves nothing.
	if err := s.Remove(b); err != nil {
		t.Fatalf("remove b: %v", err)
	}
	vc, _ = s.Get(c)
	if vc.Slot != 0 {
		t.Fatalf("c slot changed to %d on tail removal", vc.Slot)
	}
	if got := s.Buffer().Rows(); got != 1 {
		t.Fatalf("buffer rows = %d, want 1", got)
	}
}

func TestExposure(t *testing.T) {
	s := NewVoxelStore()
	center := Vec3i{}
	s.Place(KindSolid, center)
	if !s.Exposed(center) {
		t.Fatalf("lone voxel not exposed")
	}

	for _, f := range Faces {
		s.Place(KindSolid, center.Add(f))
	}
	if s.Exposed(center) {
		t.Fatalf("fully enclosed voxel still exposed")
	}

	if err := s.Remove(center.Add(Faces[0])); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !s.Exposed(center) {
		t.Fatalf("voxel with an open face not exposed")
	}
}

func TestVisibleIndicesSkipsEnclosed(t *testing.T) {
	s := NewVoxelStore()
	center := Vec3i{}
	s.Place(KindSolid, center)
	for _, f := range Faces {
		s.Place(KindSolid, center.Add(f))
	}

	// 7 voxels, only the 6 neighbors are exposed.
	idx := s.VisibleIndices()
	if got, want := len(idx), 6*mesh.IndicesPerCube; got != want {
		t.Fatalf("visible index count = %d, want %d", got, want)
	}
}

func TestDigestInsertionOrderIndependent(t *testing.T) {
	a := NewVoxelStore()
	b := NewVoxelStore()

	cells := []Vec3i{{X: 0, Y: 0, Z: 0}, {X: -3, Y: 1, Z: 7}, {X: 2, Y: -2, Z: 2}}
	for _, c := range cells {
		a.Place(KindSolid, c)
	}
	for i := len(cells) - 1; i >= 0; i-- {
		b.Place(KindSolid, cells[i])
	}

	if a.Digest() != b.Digest() {
		t.Fatalf("digest depends on insertion order")
	}

	a.Place(KindHazard, Vec3i{X: 9, Y: 9, Z: 9})
	if a.Digest() == b.Digest() {
		t.Fatalf("digest unchanged after mutation")
	}
}

func TestKindNameRoundTrip(t *testing.T) {
	for _, k := range []uint16{KindSolid, KindMissile, KindHazard, KindBoundary} {
		if got := KindByName(KindName(k)); got != k {
			t.Fatalf("KindByName(KindName(%d)) = %d", k, got)
		}
	}
	if KindByName("DIRT") != 0 {
		t.Fatalf("unknown kind name must map to 0")
	}
}
