package world

// WorldConfig describes one editing session. Zero values fall back to
// the built-in defaults.
type WorldConfig struct {
	ID         string
	TickRateHz int
	Seed       int64

	// BoundaryR is the half-width of the enclosing boundary box placed
	// by the terrain generator; kept here so snapshots can record it.
	BoundaryR int

	HitMaxDistance int

	// Pad is the collision tolerance. nil means DefaultPad; an explicit
	// zero is meaningful (any touch collides) and is kept.
	Pad *float64

	Controller ControllerParams

	SnapshotEveryTicks int
}

func (c *WorldConfig) applyDefaults() {
	if c.ID == "" {
		c.ID = "world_1"
	}
	if c.TickRateHz <= 0 {
		c.TickRateHz = 60
	}
	if c.BoundaryR <= 0 {
		c.BoundaryR = 10
	}
	if c.HitMaxDistance <= 0 {
		c.HitMaxDistance = 8
	}
	if c.Pad == nil {
		pad := DefaultPad
		c.Pad = &pad
	}
	if c.SnapshotEveryTicks <= 0 {
		c.SnapshotEveryTicks = 3600
	}
	c.Controller.applyDefaults()
}
