package world

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
)

// StateDigest hashes the full session state (occupied set plus player
// kinematics) for determinism checks across replays.
func (w *World) StateDigest() string {
	h := sha256.New()

	sd := w.store.Digest()
	h.Write(sd[:])

	var tmp [8]byte
	for _, f := range []float64{
		w.player.Pos.X, w.player.Pos.Y, w.player.Pos.Z,
		w.player.Yaw, w.player.Pitch, w.player.DY,
	} {
		binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(f))
		h.Write(tmp[:])
	}
	if w.player.Flying {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
