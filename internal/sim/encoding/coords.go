// Package encoding provides the compact wire form for coordinate sets:
// base64(varint) streams, cheap to produce and append-friendly.
package encoding

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
)

// EncodeCoords encodes a list of integer coordinates as
// base64(zigzag varint deltas). Consecutive triples are delta-coded
// component-wise, which collapses sorted coordinate runs to a byte or
// two each. The count is prefixed so decoding needs no sentinel.
func EncodeCoords(coords [][3]int) string {
	var buf bytes.Buffer
	var tmp [binary.MaxVarintLen64]byte

	n := binary.PutUvarint(tmp[:], uint64(len(coords)))
	buf.Write(tmp[:n])

	var prev [3]int
	for _, c := range coords {
		for i := 0; i < 3; i++ {
			n := binary.PutVarint(tmp[:], int64(c[i]-prev[i]))
			buf.Write(tmp[:n])
		}
		prev = c
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func DecodeCoords(b64 string) ([][3]int, error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, err
	}
	count, n := binary.Uvarint(raw)
	if n <= 0 {
		return nil, fmt.Errorf("bad count varint")
	}
	if count*3 > uint64(len(raw)) {
		// Each triple takes at least three bytes.
		return nil, fmt.Errorf("implausible count %d for %d bytes", count, len(raw))
	}
	i := n

	out := make([][3]int, 0, count)
	var prev [3]int
	for k := uint64(0); k < count; k++ {
		var c [3]int
		for j := 0; j < 3; j++ {
			d, n := binary.Varint(raw[i:])
			if n <= 0 {
				return nil, fmt.Errorf("bad varint at %d", i)
			}
			i += n
			c[j] = prev[j] + int(d)
		}
		prev = c
		out = append(out, c)
	}
	return out, nil
}
