package world

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"sort"

	"voxelforge.dev/internal/sim/mesh"
)

// ErrNotFound reports a removal at an empty cell. The caller decides
// whether that is a no-op or a protocol error.
var ErrNotFound = errors.New("no voxel at position")

// Block kinds. The palette is fixed; kind 0 is reserved for "empty".
const (
	KindSolid uint16 = iota + 1
	KindMissile
	KindHazard
	KindBoundary
)

// AtlasN is the texture atlas dimension (n x n squares).
const AtlasN = 4

// tileSets maps each kind to its atlas squares (top, bottom, side).
var tileSets = map[uint16]mesh.TileSet{
	KindSolid:    {Top: mesh.Tile{X: 2, Y: 0}, Bottom: mesh.Tile{X: 2, Y: 0}, Side: mesh.Tile{X: 2, Y: 0}},
	KindMissile:  {Top: mesh.Tile{X: 1, Y: 0}, Bottom: mesh.Tile{X: 0, Y: 1}, Side: mesh.Tile{X: 0, Y: 0}},
	KindHazard:   {Top: mesh.Tile{X: 1, Y: 1}, Bottom: mesh.Tile{X: 1, Y: 1}, Side: mesh.Tile{X: 1, Y: 1}},
	KindBoundary: {Top: mesh.Tile{X: 2, Y: 1}, Bottom: mesh.Tile{X: 2, Y: 1}, Side: mesh.Tile{X: 2, Y: 1}},
}

func KindName(k uint16) string {
	switch k {
	case KindSolid:
		return "SOLID"
	case KindMissile:
		return "MISSILE"
	case KindHazard:
		return "HAZARD"
	case KindBoundary:
		return "BOUNDARY"
	}
	return ""
}

// KindByName is the wire-name inverse of KindName. Unknown names map to
// zero; callers choose the fallback.
func KindByName(name string) uint16 {
	switch name {
	case "SOLID":
		return KindSolid
	case "MISSILE":
		return KindMissile
	case "HAZARD":
		return KindHazard
	case "BOUNDARY":
		return KindBoundary
	}
	return 0
}

// Voxel is one occupied, opaque unit cube. Slot is the base offset of
// its reserved row in the vertex buffer and is rewritten when removal
// compaction moves the row.
type Voxel struct {
	Pos  Vec3i
	Kind uint16
	Slot int
}

// VoxelStore is the sparse spatial container: at most one voxel per
// integer coordinate. Accessed only from the world loop goroutine.
type VoxelStore struct {
	voxels map[Vec3i]*Voxel
	order  []Vec3i // insertion order, spliced on removal

	buf       *mesh.Buffer
	slotToPos map[int]Vec3i

	dirty bool
	hash  [32]byte
}

func NewVoxelStore() *VoxelStore {
	return &VoxelStore{
		voxels:    map[Vec3i]*Voxel{},
		buf:       mesh.NewBuffer(),
		slotToPos: map[int]Vec3i{},
	}
}

func (s *VoxelStore) Len() int { return len(s.voxels) }

func (s *VoxelStore) Contains(pos Vec3i) bool {
	_, ok := s.voxels[pos]
	return ok
}

func (s *VoxelStore) Get(pos Vec3i) (*Voxel, bool) {
	v, ok := s.voxels[pos]
	return v, ok
}

// Place inserts a voxel at pos. Placing onto an occupied cell is a
// silent no-op (idempotence guarantee, not an error); it returns false
// and changes nothing. On insert the voxel reserves the next vertex-
// buffer row, so a fresh slot is always len-1 * VertsPerCube.
func (s *VoxelStore) Place(kind uint16, pos Vec3i) bool {
	if _, ok := s.voxels[pos]; ok {
		return false
	}
	ts, ok := tileSets[kind]
	if !ok {
		ts = tileSets[KindSolid]
	}
	slot := s.buf.Append(float64(pos.X), float64(pos.Y), float64(pos.Z), ts, AtlasN)
	v := &Voxel{Pos: pos, Kind: kind, Slot: slot}
	s.voxels[pos] = v
	s.order = append(s.order, pos)
	s.slotToPos[slot] = pos
	s.dirty = true
	return true
}

// Remove deletes the voxel at pos and reclaims its vertex-buffer row by
// swap-and-truncate. Returns ErrNotFound for an empty cell.
func (s *VoxelStore) Remove(pos Vec3i) error {
	v, ok := s.voxels[pos]
	if !ok {
		return ErrNotFound
	}
	movedSlot, ok := s.buf.Remove(v.Slot)
	if !ok {
		return errors.New("corrupt slot index")
	}
	delete(s.slotToPos, v.Slot)
	if movedSlot >= 0 {
		// The tail row was swapped into the freed slot; rewrite its
		// owner's bookkeeping.
		movedPos := s.slotToPos[movedSlot]
		delete(s.slotToPos, movedSlot)
		s.slotToPos[v.Slot] = movedPos
		s.voxels[movedPos].Slot = v.Slot
	}
	delete(s.voxels, pos)
	for i, p := range s.order {
		if p == pos {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.dirty = true
	return nil
}

// Exposed reports whether at least one of the 6 face-adjacent cells is
// empty. A fully enclosed voxel has no visible face and needs no render
// data.
func (s *VoxelStore) Exposed(pos Vec3i) bool {
	for _, f := range Faces {
		if !s.Contains(pos.Add(f)) {
			return true
		}
	}
	return false
}

// Coords returns all occupied coordinates in insertion order. The slice
// is a copy; callers may iterate and restart freely.
func (s *VoxelStore) Coords() []Vec3i {
	out := make([]Vec3i, len(s.order))
	copy(out, s.order)
	return out
}

// SortedCoords returns occupied coordinates in a deterministic order,
// independent of insertion history.
func (s *VoxelStore) SortedCoords() []Vec3i {
	out := s.Coords()
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.Z < b.Z
	})
	return out
}

// Buffer exposes the backing vertex stream to the render layer.
func (s *VoxelStore) Buffer() *mesh.Buffer { return s.buf }

// VisibleIndices builds the index stream covering only exposed voxels.
// Fully enclosed cubes keep their vertex rows but contribute no
// triangles.
func (s *VoxelStore) VisibleIndices() []int32 {
	out := make([]int32, 0, len(s.voxels)*mesh.IndicesPerCube)
	for _, pos := range s.order {
		v := s.voxels[pos]
		if !s.Exposed(pos) {
			continue
		}
		idx := mesh.CubeIndices(v.Slot)
		out = append(out, idx[:]...)
	}
	return out
}

// Digest hashes the occupied set (coordinates and kinds, sorted) for
// determinism checks. Recomputed lazily after mutations.
func (s *VoxelStore) Digest() [32]byte {
	if s.dirty || s.hash == ([32]byte{}) {
		h := sha256.New()
		var tmp [8]byte
		for _, p := range s.SortedCoords() {
			v := s.voxels[p]
			for _, c := range []int{p.X, p.Y, p.Z, int(v.Kind)} {
				binary.LittleEndian.PutUint64(tmp[:], uint64(int64(c)))
				h.Write(tmp[:])
			}
		}
		copy(s.hash[:], h.Sum(nil))
		s.dirty = false
	}
	return s.hash
}
