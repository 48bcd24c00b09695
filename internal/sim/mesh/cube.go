// Package mesh holds the fixed unit-cube geometry template and the flat
// vertex buffer that backs every placed voxel. The render layer consumes
// this buffer as-is; nothing here touches a GPU.
package mesh

const (
	// Per-cube strides of the fixed layout: 4 vertices per face, 6 faces,
	// 2 triangles per face.
	VertsPerCube   = 24
	IndicesPerCube = 36

	CubeSize = 1.0
)

// Vertex is one row of the vertex stream.
type Vertex struct {
	Pos    [3]float32
	Normal [3]float32
	Tex    [2]float32
}

// Tile addresses one square of a n x n texture atlas.
type Tile struct {
	X int
	Y int
}

// TileSet names the atlas squares for the three distinct cube faces.
type TileSet struct {
	Top    Tile
	Bottom Tile
	Side   Tile
}

// faceOrder matches the vertex template: top, bottom, left, right,
// front, back.
var cubeNormals = [6][3]float32{
	{0, 1, 0},
	{0, -1, 0},
	{-1, 0, 0},
	{1, 0, 0},
	{0, 0, 1},
	{0, 0, -1},
}

// cubeCorners are the 24 corner offsets of a unit cube centered at the
// origin, grouped 4 per face in faceOrder.
var cubeCorners = [VertsPerCube][3]float32{
	// top
	{-1, 1, -1}, {-1, 1, 1}, {1, 1, -1}, {1, 1, 1},
	// bottom
	{-1, -1, -1}, {1, -1, -1}, {-1, -1, 1}, {1, -1, 1},
	// left
	{-1, -1, -1}, {-1, -1, 1}, {-1, 1, -1}, {-1, 1, 1},
	// right
	{1, -1, 1}, {1, -1, -1}, {1, 1, 1}, {1, 1, -1},
	// front
	{-1, -1, 1}, {1, -1, 1}, {-1, 1, 1}, {1, 1, 1},
	// back
	{1, -1, -1}, {-1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
}

// cubeIndexOffsets are the 36 indices of one cube relative to its slot.
var cubeIndexOffsets = [IndicesPerCube]int32{
	0, 1, 2, 3, 2, 1, // top
	4, 5, 6, 7, 6, 5, // bottom
	8, 9, 10, 11, 10, 9, // left
	12, 13, 14, 15, 14, 13, // right
	16, 17, 18, 19, 18, 17, // front
	20, 21, 22, 23, 22, 21, // back
}

// CubeVertices returns the 24 positions of a unit cube centered at
// (x, y, z).
func CubeVertices(x, y, z float64) [VertsPerCube][3]float32 {
	s := float32(CubeSize / 2.0)
	var out [VertsPerCube][3]float32
	for i, c := range cubeCorners {
		out[i] = [3]float32{
			float32(x) + c[0]*s,
			float32(y) + c[1]*s,
			float32(z) + c[2]*s,
		}
	}
	return out
}

// CubeNormals returns the 24 per-vertex normals, 4 per face.
func CubeNormals() [VertsPerCube][3]float32 {
	var out [VertsPerCube][3]float32
	for f := 0; f < 6; f++ {
		for v := 0; v < 4; v++ {
			out[f*4+v] = cubeNormals[f]
		}
	}
	return out
}

// TileCoords returns the 4 texture corners of one atlas square on an
// n x n atlas.
func TileCoords(t Tile, n int) [4][2]float32 {
	m := 1.0 / float32(n)
	dx := float32(t.X) * m
	dy := float32(t.Y) * m
	return [4][2]float32{
		{dx, dy}, {dx, dy + m}, {dx + m, dy}, {dx + m, dy + m},
	}
}

// CubeTexCoords returns the 24 texture coordinates for a cube using the
// given tile set: top, bottom, then the side tile repeated on the 4
// vertical faces.
func CubeTexCoords(ts TileSet, n int) [VertsPerCube][2]float32 {
	var out [VertsPerCube][2]float32
	copyFace := func(face int, t Tile) {
		c := TileCoords(t, n)
		for v := 0; v < 4; v++ {
			out[face*4+v] = c[v]
		}
	}
	copyFace(0, ts.Top)
	copyFace(1, ts.Bottom)
	for f := 2; f < 6; f++ {
		copyFace(f, ts.Side)
	}
	return out
}

// CubeIndices returns the 36 indices of a cube whose vertices begin at
// slot.
func CubeIndices(slot int) [IndicesPerCube]int32 {
	var out [IndicesPerCube]int32
	for i, off := range cubeIndexOffsets {
		out[i] = int32(slot) + off
	}
	return out
}
