package mesh

// Buffer is the flat vertex stream behind the voxel store. Each placed
// voxel reserves one row of VertsPerCube vertices; a voxel's slot index
// is its row offset into the stream (row * VertsPerCube).
//
// Removal compacts: the last row is swapped into the hole and the
// stream truncated, so the buffer never grows tombstones. The caller is
// told which slot moved so it can rewrite that voxel's bookkeeping.
type Buffer struct {
	rows []row
}

type row struct {
	verts [VertsPerCube]Vertex
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

// Rows returns the number of cube rows currently in the buffer.
func (b *Buffer) Rows() int { return len(b.rows) }

// Len returns the total vertex count.
func (b *Buffer) Len() int { return len(b.rows) * VertsPerCube }

// Append reserves the next row for a cube centered at (x, y, z) with
// the given tile set and returns its slot index.
func (b *Buffer) Append(x, y, z float64, ts TileSet, atlasN int) int {
	slot := len(b.rows) * VertsPerCube

	vs := CubeVertices(x, y, z)
	ns := CubeNormals()
	tc := CubeTexCoords(ts, atlasN)

	var r row
	for i := 0; i < VertsPerCube; i++ {
		r.verts[i] = Vertex{Pos: vs[i], Normal: ns[i], Tex: tc[i]}
	}
	b.rows = append(b.rows, r)
	return slot
}

// Remove frees the row at slot by swapping the last row into its place
// and truncating. It returns the slot index that was moved into the
// hole, or -1 when the removed row was the last one. ok is false for an
// out-of-range or misaligned slot.
func (b *Buffer) Remove(slot int) (movedSlot int, ok bool) {
	if slot < 0 || slot%VertsPerCube != 0 {
		return -1, false
	}
	i := slot / VertsPerCube
	if i >= len(b.rows) {
		return -1, false
	}
	last := len(b.rows) - 1
	movedSlot = -1
	if i != last {
		b.rows[i] = b.rows[last]
		movedSlot = last * VertsPerCube
	}
	b.rows = b.rows[:last]
	return movedSlot, true
}

// Vertex returns the vertex at the given absolute index.
func (b *Buffer) Vertex(i int) Vertex {
	return b.rows[i/VertsPerCube].verts[i%VertsPerCube]
}

// Indices materializes the full index stream for the current buffer.
// Rebuilt by the render layer between ticks, never mid-tick.
func (b *Buffer) Indices() []int32 {
	out := make([]int32, 0, len(b.rows)*IndicesPerCube)
	for i := range b.rows {
		idx := CubeIndices(i * VertsPerCube)
		out = append(out, idx[:]...)
	}
	return out
}
