package world

import (
	"fmt"
	"sync/atomic"

	"voxelforge.dev/internal/persistence/snapshot"
	"voxelforge.dev/internal/protocol"
	simenc "voxelforge.dev/internal/sim/encoding"
)

// World is a single-threaded authoritative editing session: one voxel
// store, one controller. All state must be accessed only from the world
// loop goroutine.
type World struct {
	cfg WorldConfig

	tick atomic.Uint64

	// Occupied-cell and connected-client counts mirrored for off-loop
	// readers (metrics, transport tests).
	voxelCount  atomic.Int64
	clientGauge atomic.Int64

	store  *VoxelStore
	player *Controller

	clients map[string]*clientState

	// Latest sampled input; INPUT messages replace it wholesale.
	input    protocol.InputActions
	captured bool

	// Pointer delta accumulated since the last tick.
	lookDX, lookDY float64

	inbox chan protocol.InputActions
	look  chan LookDelta
	pick  chan PickRequest
	join  chan JoinRequest
	leave chan string
	stop  chan struct{}

	posReq chan posReq

	nextClientNum atomic.Uint64

	// Optional loggers (may be nil). Implemented in internal/persistence.
	tickLogger  TickLogger
	auditLogger AuditLogger

	// Optional snapshot sink (may be nil). Snapshot writing is
	// off-thread; the export itself happens between ticks.
	snapshotSink chan<- snapshot.WorldV1
}

type clientState struct {
	Out chan []byte
}

type JoinRequest struct {
	Name string
	Out  chan []byte
	Resp chan JoinResponse
}

type JoinResponse struct {
	Welcome protocol.WelcomeMsg
}

type LookDelta struct {
	DX float64
	DY float64
}

// PickRequest is a crosshair action from a client, resolved against the
// controller's sight ray during the tick it lands in.
type PickRequest struct {
	ClientID string
	Action   string
	Kind     uint16
}

type TickLogger interface {
	WriteTick(entry TickLogEntry) error
}

type AuditLogger interface {
	WriteAudit(entry AuditEntry) error
}

// TickLogEntry records everything that fed one tick, plus the digest
// the tick produced. Inputs are the raw messages received during the
// tick, not the merged state, so a replay re-fires toggles exactly once.
type TickLogEntry struct {
	Tick   uint64                  `json:"tick"`
	Inputs []protocol.InputActions `json:"inputs,omitempty"`
	Look   [2]float64              `json:"look,omitempty"`
	Picks  []RecordedPick          `json:"picks,omitempty"`
	Edits  []protocol.EditEvent    `json:"edits,omitempty"`
	Digest string                  `json:"digest"`
}

type RecordedPick struct {
	ClientID string `json:"client_id"`
	Action   string `json:"action"`
	Kind     string `json:"kind,omitempty"`
}

type AuditEntry struct {
	Tick   uint64 `json:"tick"`
	Actor  string `json:"actor"`
	Action string `json:"action"` // "PLACE" | "REMOVE"
	Pos    [3]int `json:"pos"`
	Kind   uint16 `json:"kind"`
}

func New(cfg WorldConfig) *World {
	cfg.applyDefaults()
	w := &World{
		cfg:     cfg,
		store:   NewVoxelStore(),
		clients: map[string]*clientState{},
		inbox:   make(chan protocol.InputActions, 64),
		look:    make(chan LookDelta, 256),
		pick:    make(chan PickRequest, 16),
		join:    make(chan JoinRequest),
		leave:   make(chan string, 16),
		stop:    make(chan struct{}),
		posReq:  make(chan posReq),
	}
	w.player = NewController(w.store, cfg.Controller)
	w.player.collider.Pad = *cfg.Pad
	// Spawn at the center, feet above the boundary floor.
	w.player.Pos = Vec3f{Y: 0}
	return w
}

// NewFromSnapshot rebuilds a session from a snapshot, overriding the
// config's seed and tuning with the captured values.
func NewFromSnapshot(cfg WorldConfig, snap snapshot.WorldV1) *World {
	cfg.Seed = snap.Seed
	cfg.TickRateHz = snap.TickRateHz
	cfg.BoundaryR = snap.BoundaryR
	if snap.SnapshotEveryTicks > 0 {
		cfg.SnapshotEveryTicks = snap.SnapshotEveryTicks
	}
	cfg.Pad = &snap.Params.Pad
	cfg.HitMaxDistance = snap.Params.HitMaxDistance
	cfg.Controller = ControllerParams{
		WalkSpeed:        snap.Params.WalkSpeed,
		FlySpeed:         snap.Params.FlySpeed,
		Gravity:          snap.Params.Gravity,
		TerminalVelocity: snap.Params.TerminalVelocity,
		MaxJumpHeight:    snap.Params.MaxJumpHeight,
		PlayerHeight:     snap.Params.PlayerHeight,
		Sensitivity:      snap.Params.Sensitivity,
	}

	w := New(cfg)
	w.tick.Store(snap.Header.Tick)
	for _, v := range snap.Voxels {
		w.store.Place(v.Kind, V3iFromArray(v.Pos))
	}
	w.player.Pos = V3fFromArray(snap.Player.Pos)
	w.player.Yaw = snap.Player.Yaw
	w.player.Pitch = snap.Player.Pitch
	w.player.DY = snap.Player.DY
	w.player.Flying = snap.Player.Flying
	w.player.prevJump = snap.Player.PrevJump
	w.captured = snap.Captured
	w.input = protocol.InputActions{
		Forward:       snap.Input.Forward,
		Back:          snap.Input.Back,
		Left:          snap.Input.Left,
		Right:         snap.Input.Right,
		Jump:          snap.Input.Jump,
		ToggleFly:     snap.Input.ToggleFly,
		ToggleCapture: snap.Input.ToggleCapture,
		Menu:          snap.Input.Menu,
	}
	return w
}

// ExportSnapshot captures the full session state. Call only between
// ticks (from the loop goroutine, or before Run).
func (w *World) ExportSnapshot() snapshot.WorldV1 {
	p := w.player.Params()
	snap := snapshot.WorldV1{
		Header: snapshot.Header{
			Version: 1,
			WorldID: w.cfg.ID,
			Tick:    w.tick.Load(),
		},
		Seed:               w.cfg.Seed,
		TickRateHz:         w.cfg.TickRateHz,
		BoundaryR:          w.cfg.BoundaryR,
		SnapshotEveryTicks: w.cfg.SnapshotEveryTicks,
		Params: snapshot.ParamsV1{
			WalkSpeed:        p.WalkSpeed,
			FlySpeed:         p.FlySpeed,
			Gravity:          p.Gravity,
			TerminalVelocity: p.TerminalVelocity,
			MaxJumpHeight:    p.MaxJumpHeight,
			PlayerHeight:     p.PlayerHeight,
			Pad:              w.player.collider.Pad,
			Sensitivity:      p.Sensitivity,
			HitMaxDistance:   w.cfg.HitMaxDistance,
		},
		Player: snapshot.PlayerV1{
			Pos:      w.player.Pos.ToArray(),
			Yaw:      w.player.Yaw,
			Pitch:    w.player.Pitch,
			DY:       w.player.DY,
			Flying:   w.player.Flying,
			PrevJump: w.player.prevJump,
		},
		Captured: w.captured,
		Input: snapshot.InputV1{
			Forward:       w.input.Forward,
			Back:          w.input.Back,
			Left:          w.input.Left,
			Right:         w.input.Right,
			Jump:          w.input.Jump,
			ToggleFly:     w.input.ToggleFly,
			ToggleCapture: w.input.ToggleCapture,
			Menu:          w.input.Menu,
		},
	}
	for _, pos := range w.store.Coords() {
		v, _ := w.store.Get(pos)
		snap.Voxels = append(snap.Voxels, snapshot.VoxelV1{Pos: pos.ToArray(), Kind: v.Kind})
	}
	return snap
}

func (w *World) ID() string { return w.cfg.ID }

// VoxelCount reports the occupied-cell count as of the last completed
// tick. Safe to call from any goroutine.
func (w *World) VoxelCount() int { return int(w.voxelCount.Load()) }

// ClientCount reports the number of registered clients. Safe to call
// from any goroutine.
func (w *World) ClientCount() int { return int(w.clientGauge.Load()) }

func (w *World) TickRateHz() int { return w.cfg.TickRateHz }

// Store exposes the voxel store for seeding (terrain generation) and
// tests. Must not be touched once Run has started, except from the
// loop goroutine.
func (w *World) Store() *VoxelStore { return w.store }

// Player exposes the controller under the same access rule as Store.
func (w *World) Player() *Controller { return w.player }

func (w *World) SetTickLogger(l TickLogger)   { w.tickLogger = l }
func (w *World) SetAuditLogger(l AuditLogger) { w.auditLogger = l }

func (w *World) SetSnapshotSink(ch chan<- snapshot.WorldV1) { w.snapshotSink = ch }

func (w *World) Inbox() chan<- protocol.InputActions { return w.inbox }
func (w *World) Look() chan<- LookDelta              { return w.look }
func (w *World) Pick() chan<- PickRequest            { return w.pick }
func (w *World) Join() chan<- JoinRequest            { return w.join }
func (w *World) Leave() chan<- string                { return w.leave }

func (w *World) handleJoin(req JoinRequest) {
	id := fmt.Sprintf("C%04d", w.nextClientNum.Add(1))
	w.clients[id] = &clientState{Out: req.Out}
	w.clientGauge.Store(int64(len(w.clients)))

	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		ClientID:        id,
		WorldParams: protocol.WorldParams{
			TickRateHz:   w.cfg.TickRateHz,
			Seed:         w.cfg.Seed,
			BoundaryR:    w.cfg.BoundaryR,
			PlayerHeight: w.player.Params().PlayerHeight,
			Pad:          w.player.collider.Pad,
			AtlasN:       AtlasN,
		},
		Voxels: w.encodeVoxels(),
		Player: w.playerState(),
	}
	if req.Resp != nil {
		req.Resp <- JoinResponse{Welcome: welcome}
	}
}

func (w *World) handleLeave(clientID string) {
	delete(w.clients, clientID)
	w.clientGauge.Store(int64(len(w.clients)))
}

// encodeVoxels groups the occupied set by kind and delta-encodes each
// group's sorted coordinates.
func (w *World) encodeVoxels() map[string]string {
	byKind := map[uint16][][3]int{}
	for _, pos := range w.store.SortedCoords() {
		v, _ := w.store.Get(pos)
		byKind[v.Kind] = append(byKind[v.Kind], pos.ToArray())
	}
	out := make(map[string]string, len(byKind))
	for kind, coords := range byKind {
		out[KindName(kind)] = simenc.EncodeCoords(coords)
	}
	return out
}

func (w *World) playerState() protocol.PlayerState {
	return protocol.PlayerState{
		Pos:    w.player.Pos.ToArray(),
		Yaw:    w.player.Yaw,
		Pitch:  w.player.Pitch,
		DY:     w.player.DY,
		Flying: w.player.Flying,
	}
}
