package world

import "math"

// Vec3i identifies one voxel cell. Y is up.
type Vec3i struct {
	X int
	Y int
	Z int
}

func (v Vec3i) ToArray() [3]int { return [3]int{v.X, v.Y, v.Z} }

func (v Vec3i) Add(o Vec3i) Vec3i { return Vec3i{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z} }

// Vec3f is a continuous position in world space.
type Vec3f struct {
	X float64
	Y float64
	Z float64
}

func (v Vec3f) Add(o Vec3f) Vec3f { return Vec3f{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z} }

func (v Vec3f) ToArray() [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

func V3fFromArray(a [3]float64) Vec3f { return Vec3f{X: a[0], Y: a[1], Z: a[2]} }

func V3iFromArray(a [3]int) Vec3i { return Vec3i{X: a[0], Y: a[1], Z: a[2]} }

// Normalize returns the cell containing pos. Cells are unit cubes
// centered on integer coordinates, so each component rounds to nearest.
func Normalize(pos Vec3f) Vec3i {
	return Vec3i{
		X: int(math.Round(pos.X)),
		Y: int(math.Round(pos.Y)),
		Z: int(math.Round(pos.Z)),
	}
}

// Faces are the 6 axis-aligned face-adjacency offsets, used by both the
// exposure test and the collision resolver.
var Faces = [6]Vec3i{
	{X: 0, Y: 1, Z: 0},
	{X: 0, Y: -1, Z: 0},
	{X: -1, Y: 0, Z: 0},
	{X: 1, Y: 0, Z: 0},
	{X: 0, Y: 0, Z: 1},
	{X: 0, Y: 0, Z: -1},
}

func Manhattan(a, b Vec3i) int {
	return absInt(a.X-b.X) + absInt(a.Y-b.Y) + absInt(a.Z-b.Z)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
