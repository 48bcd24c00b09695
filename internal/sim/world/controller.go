package world

import "math"

// Integration substeps per tick. Gravity and collision stay numerically
// stable at low tick rates when the frame is subdivided.
const tickSubsteps = 8

// maxFrameDt caps a single frame's elapsed time so a long stall (debug
// pause, suspended host) cannot launch the integrator.
const maxFrameDt = 0.2

// ControllerParams are the kinematic tunables. Zero values are replaced
// by the built-in defaults.
type ControllerParams struct {
	WalkSpeed        float64 // units/sec
	FlySpeed         float64 // units/sec
	Gravity          float64 // units/sec^2
	TerminalVelocity float64 // positive magnitude, units/sec
	MaxJumpHeight    float64 // units
	PlayerHeight     int     // whole unit slices
	Sensitivity      float64 // degrees per pointer count
}

func (p *ControllerParams) applyDefaults() {
	if p.WalkSpeed <= 0 {
		p.WalkSpeed = 5
	}
	if p.FlySpeed <= 0 {
		p.FlySpeed = 15
	}
	if p.Gravity <= 0 {
		p.Gravity = 20.0
	}
	if p.TerminalVelocity <= 0 {
		p.TerminalVelocity = 50
	}
	if p.MaxJumpHeight <= 0 {
		p.MaxJumpHeight = 5.0
	}
	if p.PlayerHeight <= 0 {
		p.PlayerHeight = 2
	}
	if p.Sensitivity <= 0 {
		p.Sensitivity = 0.15
	}
}

// InputState is the sampled action set for one tick.
type InputState struct {
	Forward bool
	Back    bool
	Left    bool
	Right   bool
	Jump    bool
}

// Controller integrates one kinematic player volume against the voxel
// store: input-derived motion plus gravity, clamped by the collider
// each substep. Created once per session and mutated only by the world
// loop goroutine.
type Controller struct {
	Pos    Vec3f
	Yaw    float64 // degrees, unbounded
	Pitch  float64 // degrees, clamped to [-90, 90]
	DY     float64 // vertical velocity, units/sec
	Flying bool

	params   ControllerParams
	collider *Collider

	jumpSpeed float64

	// strafe[0]: -1 forward, +1 back; strafe[1]: -1 left, +1 right.
	strafe   [2]int
	prevJump bool
}

func NewController(store *VoxelStore, params ControllerParams) *Controller {
	params.applyDefaults()
	return &Controller{
		params:    params,
		collider:  NewCollider(store),
		jumpSpeed: math.Sqrt(2 * params.Gravity * params.MaxJumpHeight),
	}
}

func (c *Controller) Params() ControllerParams { return c.params }

// Look applies a pointer delta to yaw and pitch.
func (c *Controller) Look(dx, dy float64) {
	c.Yaw -= dx * c.params.Sensitivity
	c.Pitch += dy * c.params.Sensitivity
	c.Pitch = math.Max(-90, math.Min(90, c.Pitch))
}

// ToggleFly flips flying mode. DY is kept: gravity resumes from the
// stored velocity when flight ends.
func (c *Controller) ToggleFly() { c.Flying = !c.Flying }

// SightVector is the unit direction the player is looking, used as the
// pick ray.
func (c *Controller) SightVector() Vec3f {
	// Pitch 0 looks along the ground plane; +-90 looks straight up or
	// down, collapsing the horizontal contribution.
	m := math.Cos(rad(c.Pitch))
	dy := math.Sin(rad(c.Pitch))
	dx := math.Cos(rad(c.Yaw-90)) * m
	dz := math.Sin(rad(c.Yaw-90)) * m
	return Vec3f{X: dx, Y: dy, Z: dz}
}

// motionVector converts the current strafe intent into a unit direction
// in world space. In flying mode pitch contributes vertical motion;
// pure strafing suppresses it and moving backward inverts it.
func (c *Controller) motionVector() Vec3f {
	if c.strafe[0] == 0 && c.strafe[1] == 0 {
		return Vec3f{}
	}
	strafeDeg := deg(math.Atan2(float64(c.strafe[0]), float64(c.strafe[1])))
	xAngle := rad(c.Yaw + strafeDeg)

	var dx, dy, dz float64
	if c.Flying {
		yAngle := rad(c.Pitch)
		m := math.Cos(yAngle)
		dy = math.Sin(yAngle)
		if c.strafe[1] != 0 {
			// Moving left or right: no vertical motion.
			dy = 0
			m = 1
		}
		if c.strafe[0] > 0 {
			// Moving backwards.
			dy *= -1
		}
		dx = math.Cos(xAngle) * m
		dz = math.Sin(xAngle) * m
	} else {
		dx = math.Cos(xAngle)
		dz = math.Sin(xAngle)
	}
	return Vec3f{X: dx, Y: dy, Z: dz}
}

// Tick advances the controller by one frame. The frame is clamped and
// split into fixed substeps; input is sampled once for the whole frame.
func (c *Controller) Tick(dt float64, in InputState) {
	c.strafe[0] = btoi(in.Back) - btoi(in.Forward)
	c.strafe[1] = btoi(in.Right) - btoi(in.Left)

	// Jump on the input edge only, and only when grounded (vertical
	// velocity exactly zero). Holding the key does not bounce.
	if in.Jump && !c.prevJump && c.DY == 0 && !c.Flying {
		c.DY = c.jumpSpeed
	}
	c.prevJump = in.Jump

	dt = math.Min(dt, maxFrameDt)
	for i := 0; i < tickSubsteps; i++ {
		c.update(dt / tickSubsteps)
	}
}

func (c *Controller) update(dt float64) {
	speed := c.params.WalkSpeed
	if c.Flying {
		speed = c.params.FlySpeed
	}
	d := dt * speed
	mv := c.motionVector()
	disp := Vec3f{X: mv.X * d, Y: mv.Y * d, Z: mv.Z * d}

	if !c.Flying {
		// Falling speeds up until terminal velocity; jumping slows
		// down until the fall starts.
		c.DY -= dt * c.params.Gravity
		c.DY = math.Max(c.DY, -c.params.TerminalVelocity)
		disp.Y += c.DY * dt
	}

	pos, hitY := c.collider.Collide(c.Pos.Add(disp), c.params.PlayerHeight)
	c.Pos = pos
	if hitY {
		c.DY = 0
	}
}

func rad(deg float64) float64 { return deg * math.Pi / 180 }

func deg(rad float64) float64 { return rad * 180 / math.Pi }

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}
