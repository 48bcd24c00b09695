package world

import (
	"context"
	"time"

	"voxelforge.dev/internal/protocol"
)

func (w *World) Run(ctx context.Context) error {
	w.voxelCount.Store(int64(w.store.Len()))

	interval := time.Second / time.Duration(w.cfg.TickRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var pendingInputs []protocol.InputActions
	var pendingLooks []LookDelta
	var pendingPicks []PickRequest

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stop:
			return nil
		case req := <-w.join:
			w.handleJoin(req)
		case id := <-w.leave:
			w.handleLeave(id)
		case req := <-w.posReq:
			w.handlePosReq(req)
		case in := <-w.inbox:
			pendingInputs = append(pendingInputs, in)
		case l := <-w.look:
			pendingLooks = append(pendingLooks, l)
		case p := <-w.pick:
			pendingPicks = append(pendingPicks, p)
		case <-ticker.C:
			w.step(pendingInputs, pendingLooks, pendingPicks)
			pendingInputs = pendingInputs[:0]
			pendingLooks = pendingLooks[:0]
			pendingPicks = pendingPicks[:0]
		}
	}
}

func (w *World) Stop() { close(w.stop) }

// StepOnce advances the world by a single tick with the same ordering
// semantics as Run. Intended for deterministic replays and tests.
func (w *World) StepOnce(inputs []protocol.InputActions, looks []LookDelta, picks []PickRequest) (tick uint64, digest string) {
	w.step(inputs, looks, picks)
	return w.tick.Load(), w.StateDigest()
}

// Tick returns the last completed tick number.
func (w *World) Tick() uint64 { return w.tick.Load() }
