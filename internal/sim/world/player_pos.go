package world

import (
	"context"
	"errors"
)

type posReq struct {
	Resp chan posResp
}

type posResp struct {
	Pos    Vec3f
	Flying bool
}

// RequestPlayerPos returns the controller's current position from the
// world loop goroutine. Safe to call from any goroutine while Run is
// active.
func (w *World) RequestPlayerPos(ctx context.Context) (Vec3f, bool, error) {
	if w == nil || w.posReq == nil {
		return Vec3f{}, false, errors.New("player position query not available")
	}
	req := posReq{Resp: make(chan posResp, 1)}
	select {
	case w.posReq <- req:
	case <-ctx.Done():
		return Vec3f{}, false, ctx.Err()
	}
	select {
	case resp := <-req.Resp:
		return resp.Pos, resp.Flying, nil
	case <-ctx.Done():
		return Vec3f{}, false, ctx.Err()
	}
}

func (w *World) handlePosReq(req posReq) {
	resp := posResp{Pos: w.player.Pos, Flying: w.player.Flying}
	select {
	case req.Resp <- resp:
	default:
	}
}
