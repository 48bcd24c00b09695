// Package terrain seeds a fresh session: an enclosing boundary box with
// rolling perlin hills inside it. Generation is deterministic in the
// seed and runs once, before the world loop starts.
package terrain

import (
	"github.com/aquilax/go-perlin"

	"voxelforge.dev/internal/sim/world"
)

const (
	perlinAlpha = 2.0
	perlinBeta  = 2.0
	perlinN     = 3

	// Horizontal scale of the height field, in cells per noise unit.
	hillScale = 12.0
)

// Generate fills the store with the boundary box (floor, ceiling and
// outer walls at half-width r) and a hill field rising from the floor.
// maxHillHeight <= 0 disables the hills.
func Generate(store *world.VoxelStore, seed int64, r int, maxHillHeight int) {
	placeBoundary(store, r)
	if maxHillHeight > 0 {
		placeHills(store, seed, r, maxHillHeight)
	}
}

func placeBoundary(store *world.VoxelStore, r int) {
	for x := -r; x <= r; x++ {
		for z := -r; z <= r; z++ {
			// Boundary floor and ceiling.
			store.Place(world.KindBoundary, world.Vec3i{X: x, Y: -r, Z: z})
			store.Place(world.KindBoundary, world.Vec3i{X: x, Y: r + 1, Z: z})

			// Outer boundary walls.
			if x == -r || x == r || z == -r || z == r {
				for y := -r; y <= r; y++ {
					store.Place(world.KindBoundary, world.Vec3i{X: x, Y: y, Z: z})
				}
			}
		}
	}
}

func placeHills(store *world.VoxelStore, seed int64, r, maxHill int) {
	p := perlin.NewPerlin(perlinAlpha, perlinBeta, perlinN, seed)
	floor := -r
	for x := -r + 1; x < r; x++ {
		for z := -r + 1; z < r; z++ {
			n := p.Noise2D(float64(x)/hillScale, float64(z)/hillScale)
			// Noise is in [-1, 1]; fold it into [0, maxHill].
			h := int((n + 1) / 2 * float64(maxHill))
			if h > maxHill {
				h = maxHill
			}
			for dy := 1; dy <= h; dy++ {
				store.Place(world.KindSolid, world.Vec3i{X: x, Y: floor + dy, Z: z})
			}
		}
	}
}
