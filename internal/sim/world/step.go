package world

import (
	"encoding/json"
	"errors"

	"voxelforge.dev/internal/protocol"
)

// step advances the session by one tick: toggles and input first, then
// the kinematic integration, then edits, then fan-out. Rendering reads
// only the state committed here.
func (w *World) step(inputs []protocol.InputActions, looks []LookDelta, picks []PickRequest) {
	tick := w.tick.Add(1)

	for _, in := range inputs {
		if in.ToggleFly {
			w.player.ToggleFly()
		}
		if in.ToggleCapture {
			w.captured = !w.captured
		}
		if in.Menu {
			w.captured = false
		}
		w.input = in
	}

	var dx, dy float64
	for _, l := range looks {
		dx += l.DX
		dy += l.DY
	}
	if w.captured && (dx != 0 || dy != 0) {
		w.player.Look(dx, dy)
	}

	dt := 1.0 / float64(w.cfg.TickRateHz)
	w.player.Tick(dt, InputState{
		Forward: w.input.Forward,
		Back:    w.input.Back,
		Left:    w.input.Left,
		Right:   w.input.Right,
		Jump:    w.input.Jump,
	})

	edits := w.applyPicks(tick, picks)
	w.voxelCount.Store(int64(w.store.Len()))

	state := protocol.StateMsg{
		Type:            protocol.TypeState,
		ProtocolVersion: protocol.Version,
		Tick:            tick,
		Player:          w.playerState(),
		VoxelCount:      w.store.Len(),
		Edits:           edits,
	}
	if hit, ok := w.store.HitTest(w.player.Pos, w.player.SightVector(), w.cfg.HitMaxDistance); ok {
		t := hit.Hit.ToArray()
		state.Target = &t
	}
	if b, err := json.Marshal(state); err == nil {
		for _, c := range w.clients {
			sendLatest(c.Out, b)
		}
	}

	if w.tickLogger != nil {
		entry := TickLogEntry{
			Tick:   tick,
			Inputs: append([]protocol.InputActions(nil), inputs...),
			Look:   [2]float64{dx, dy},
			Edits:  edits,
			Digest: w.StateDigest(),
		}
		for _, p := range picks {
			entry.Picks = append(entry.Picks, RecordedPick{
				ClientID: p.ClientID,
				Action:   p.Action,
				Kind:     KindName(p.Kind),
			})
		}
		_ = w.tickLogger.WriteTick(entry)
	}

	if w.snapshotSink != nil && tick%uint64(w.cfg.SnapshotEveryTicks) == 0 {
		select {
		case w.snapshotSink <- w.ExportSnapshot():
		default:
			// Writer is behind; skip this one rather than stall the tick.
		}
	}
}

// applyPicks resolves crosshair actions against the current sight ray.
// The first click while the pointer is uncaptured only captures it,
// mirroring exclusive-mouse behavior in FPS clients.
func (w *World) applyPicks(tick uint64, picks []PickRequest) []protocol.EditEvent {
	var edits []protocol.EditEvent
	for _, p := range picks {
		if !w.captured {
			w.captured = true
			continue
		}
		hit, ok := w.store.HitTest(w.player.Pos, w.player.SightVector(), w.cfg.HitMaxDistance)
		switch p.Action {
		case "PLACE":
			if !ok || !hit.HasPrev {
				w.sendError(p.ClientID, protocol.ErrNoTarget, "nothing under the crosshair")
				continue
			}
			kind := p.Kind
			if kind == 0 {
				kind = KindSolid
			}
			if w.store.Place(kind, hit.Prev) {
				edits = append(edits, protocol.EditEvent{
					Action: "PLACE", Pos: hit.Prev.ToArray(), Kind: KindName(kind),
				})
				w.audit(tick, p.ClientID, "PLACE", hit.Prev, kind)
			}
		case "REMOVE":
			if !ok {
				w.sendError(p.ClientID, protocol.ErrNoTarget, "nothing under the crosshair")
				continue
			}
			v, _ := w.store.Get(hit.Hit)
			if v != nil && v.Kind == KindBoundary {
				w.sendError(p.ClientID, protocol.ErrProtected, "boundary voxels cannot be removed")
				continue
			}
			kind := uint16(0)
			if v != nil {
				kind = v.Kind
			}
			if err := w.store.Remove(hit.Hit); err != nil {
				code := protocol.ErrInternal
				if errors.Is(err, ErrNotFound) {
					code = protocol.ErrNotFound
				}
				w.sendError(p.ClientID, code, err.Error())
				continue
			}
			edits = append(edits, protocol.EditEvent{
				Action: "REMOVE", Pos: hit.Hit.ToArray(), Kind: KindName(kind),
			})
			w.audit(tick, p.ClientID, "REMOVE", hit.Hit, kind)
		default:
			w.sendError(p.ClientID, protocol.ErrBadRequest, "unknown pick action")
		}
	}
	return edits
}

func (w *World) audit(tick uint64, actor, action string, pos Vec3i, kind uint16) {
	if w.auditLogger == nil {
		return
	}
	_ = w.auditLogger.WriteAudit(AuditEntry{
		Tick:   tick,
		Actor:  actor,
		Action: action,
		Pos:    pos.ToArray(),
		Kind:   kind,
	})
}

func (w *World) sendError(clientID, code, msg string) {
	c := w.clients[clientID]
	if c == nil {
		return
	}
	b, err := json.Marshal(protocol.ErrorMsg{
		Type:            protocol.TypeError,
		ProtocolVersion: protocol.Version,
		Code:            code,
		Message:         msg,
	})
	if err != nil {
		return
	}
	sendLatest(c.Out, b)
}

// sendLatest delivers b without ever blocking the world loop: when the
// client's queue is full the oldest message is dropped.
func sendLatest(ch chan []byte, b []byte) {
	select {
	case ch <- b:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- b:
	default:
	}
}
