package view

import (
	"reflect"
	"testing"
)

// buildView assembles a single-loop, single-cel VIEW buffer around raw RLE
// row bytes, wiring up the offset tables by hand the way a real resource
// does.
func buildView(width, height, flags uint8, rows []byte) []byte {
	// Layout: [2 reserved][loopCount=1][descPos_lo,hi][loopOff_lo,hi]
	// loop:   [celCount=1][celOff_lo,hi]
	// cel:    [width][height][flags][rows...]
	loopHeaderLen := 3 // celCount + one uint16 offset
	cel := append([]byte{width, height, flags}, rows...)

	loop := make([]byte, 0, loopHeaderLen+len(cel))
	loop = append(loop, 1, byte(loopHeaderLen), byte(loopHeaderLen>>8))
	loop = append(loop, cel...)

	header := []byte{0, 0, 1, 0, 0}
	loopOffsetPos := len(header)
	header = append(header, 0, 0) // placeholder for loop offset
	loopOffset := len(header)
	header[loopOffsetPos] = byte(loopOffset)
	header[loopOffsetPos+1] = byte(loopOffset >> 8)

	return append(header, loop...)
}

func TestDecodeCelScenario3(t *testing.T) {
	// width=3 height=2 flags=0x0F (transparent=15); rows RLE-encode to
	// [0,15,15 | 2,2,15].
	rows := []byte{
		0x01, 0x00, // row0: run of 1 colour 0, then implicit transparent fill
		0x22, 0x00, // row1: run of 2 colour 2, then implicit transparent fill
	}
	data := buildView(3, 2, 0x0F, rows)

	res, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(res.Loops) != 1 || len(res.Loops[0].Cels) != 1 {
		t.Fatalf("unexpected shape: %+v", res)
	}
	cel := res.Loops[0].Cels[0]
	want := []uint8{0, 15, 15, 2, 2, 15}
	if !reflect.DeepEqual(cel.Pixels, want) {
		t.Fatalf("Pixels = %v, want %v", cel.Pixels, want)
	}
	if cel.TransparentColour() != 15 {
		t.Fatalf("TransparentColour = %d, want 15", cel.TransparentColour())
	}
}

func TestCelIsMirrorOf(t *testing.T) {
	c := Cel{flags: 0x80 | (2 << 4)} // mirror from loop 2
	src, ok := c.IsMirrorOf(0)
	if !ok || src != 2 {
		t.Fatalf("IsMirrorOf(0) = %d,%v want 2,true", src, ok)
	}
	if _, ok := c.IsMirrorOf(2); ok {
		t.Fatal("IsMirrorOf should be false when cloop equals the mirror source")
	}

	plain := Cel{flags: 0x03}
	if _, ok := plain.IsMirrorOf(0); ok {
		t.Fatal("IsMirrorOf should be false without the mirror bit set")
	}
}

func TestDecodeDescription(t *testing.T) {
	rows := []byte{0x00}
	data := buildView(1, 1, 0x00, rows)
	// Append a description and point descPos at it.
	descPos := len(data)
	data = append(data, []byte("a view\x00")...)
	data[3] = byte(descPos)
	data[4] = byte(descPos >> 8)

	res, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if res.Description != "a view" {
		t.Fatalf("Description = %q, want %q", res.Description, "a view")
	}
}
