package world

// DefaultPad is how much overlap with a neighboring solid cell counts
// as a collision, as a fraction of a unit cube. 0 means touching
// terrain at all collides; 0.49 sinks the player into the ground like
// tall grass; >= 0.5 falls through entirely.
const DefaultPad = 0.25

// Collider clamps desired positions against the voxel store. It never
// rejects a move outright; penetrating axes are pushed back to the
// allowed boundary independently. Resolution is sequential per axis,
// not a swept test, so fast movers can tunnel through corners; that is
// a deliberate simplification.
type Collider struct {
	store *VoxelStore

	Pad float64
}

func NewCollider(store *VoxelStore) *Collider {
	return &Collider{store: store, Pad: DefaultPad}
}

// Collide returns the corrected position for a body of the given height
// (in whole unit slices, stacked downward from the position). hitY
// reports a floor or ceiling contact, on which the caller must zero its
// vertical velocity.
func (c *Collider) Collide(desired Vec3f, height int) (pos Vec3f, hitY bool) {
	pad := c.Pad
	p := desired.ToArray()
	np := Normalize(desired).ToArray()

	for _, face := range Faces {
		f := face.ToArray()
		for i := 0; i < 3; i++ {
			if f[i] == 0 {
				continue
			}
			// Overlap past this cell's boundary along axis i, toward
			// the current face.
			d := (p[i] - float64(np[i])) * float64(f[i])
			if d < pad {
				continue
			}
			for dy := 0; dy < height; dy++ {
				op := np
				op[1] -= dy
				op[i] += f[i]
				if !c.store.Contains(V3iFromArray(op)) {
					continue
				}
				p[i] -= (d - pad) * float64(f[i])
				if f[1] != 0 {
					// Floor or ceiling: stop falling / rising.
					hitY = true
				}
				break
			}
		}
	}
	return V3fFromArray(p), hitY
}
