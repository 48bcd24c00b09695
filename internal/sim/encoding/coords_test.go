package encoding

import (
	"encoding/base64"
	"encoding/binary"
	"reflect"
	"testing"
)

func TestCoordsRoundTrip(t *testing.T) {
	cases := [][][3]int{
		nil,
		{{0, 0, 0}},
		{{-10, -10, -10}, {-10, -10, -9}, {-10, -10, -8}},
		{{1 << 20, -(1 << 20), 12345}, {0, 0, 0}, {-7, 3, 99}},
	}
	for _, coords := range cases {
		enc := EncodeCoords(coords)
		dec, err := DecodeCoords(enc)
		if err != nil {
			t.Fatalf("decode(%v): %v", coords, err)
		}
		if len(coords) == 0 && len(dec) == 0 {
			continue
		}
		if !reflect.DeepEqual(dec, coords) {
			t.Fatalf("round trip: got %v, want %v", dec, coords)
		}
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := DecodeCoords("not base64!!!"); err == nil {
		t.Fatalf("garbage base64 accepted")
	}
}

func TestDecodeRejectsImplausibleCount(t *testing.T) {
	// A count claiming a million triples followed by no payload.
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], 1_000_000)
	b64 := base64.StdEncoding.EncodeToString(tmp[:n])
	if _, err := DecodeCoords(b64); err == nil {
		t.Fatalf("implausible count accepted")
	}
}

func TestDecodeRejectsTruncated(t *testing.T) {
	enc := EncodeCoords([][3]int{{100000, 200000, 300000}})
	raw, _ := base64.StdEncoding.DecodeString(enc)
	b64 := base64.StdEncoding.EncodeToString(raw[:len(raw)-2])
	if _, err := DecodeCoords(b64); err == nil {
		t.Fatalf("truncated payload accepted")
	}
}
