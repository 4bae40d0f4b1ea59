package vocab

import (
	"errors"
	"testing"
)

// objTriplet is a name/start-room pair with the name offset expressed
// relative to the start of the names blob, the way a test author thinks
// about it; buildObjectFile translates it to a file-relative offset.
type objTriplet struct {
	nameOffset int
	startRoom  uint8
}

// buildObjectFile assembles a minimal OBJECT buffer: header (max_objects +
// triplets) followed by a name table, with the header-length pointer filled
// in automatically. The name table proper (as the file format addresses it)
// starts at byte 3, which is one byte before the first triplet, so name
// offsets are biased by the triplet section's own length.
func buildObjectFile(maxObjects uint8, triplets []objTriplet, names []byte) []byte {
	tripletBytes := len(triplets) * 3

	header := []byte{maxObjects}
	for _, t := range triplets {
		abs := tripletBytes + t.nameOffset
		header = append(header, byte(abs), byte(abs>>8), t.startRoom)
	}

	buf := make([]byte, 2)
	buf[0] = byte(len(header) - 1)
	buf[1] = byte((len(header) - 1) >> 8)
	buf = append(buf, header...)
	buf = append(buf, names...)
	return buf
}

func TestParseInventorySimple(t *testing.T) {
	names := []byte("key\x00map\x00")
	triplets := []objTriplet{
		{nameOffset: 0, startRoom: 0}, // "key"
		{nameOffset: 4, startRoom: 7}, // "map"
	}
	data := buildObjectFile(2, triplets, names)

	inv, err := ParseInventory(data)
	if err != nil {
		t.Fatalf("ParseInventory: %v", err)
	}
	if inv.MaxObjects != 2 {
		t.Fatalf("MaxObjects = %d, want 2", inv.MaxObjects)
	}
	if len(inv.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(inv.Items))
	}
	if inv.Items[0].Name != "key" || inv.Items[0].StartRoom != 0 {
		t.Fatalf("item 0 = %+v", inv.Items[0])
	}
	if inv.Items[1].Name != "map" || inv.Items[1].StartRoom != 7 {
		t.Fatalf("item 1 = %+v", inv.Items[1])
	}
}

func TestParseInventoryObfuscatedNames(t *testing.T) {
	plain := []byte("torch")
	obfuscated := make([]byte, len(plain)+1)
	for i, c := range plain {
		obfuscated[i] = c ^ messageXORKey[i%len(messageXORKey)]
	}
	obfuscated[len(plain)] = 0x00 // terminator is never part of the cipher stream
	triplets := []objTriplet{{nameOffset: 0, startRoom: 3}}
	data := buildObjectFile(1, triplets, obfuscated)

	inv, err := ParseInventory(data)
	if err != nil {
		t.Fatalf("ParseInventory: %v", err)
	}
	if inv.Items[0].Name != "torch" {
		t.Fatalf("Name = %q, want torch", inv.Items[0].Name)
	}
}

func TestParseInventoryTruncated(t *testing.T) {
	if _, err := ParseInventory([]byte{0x01}); !errors.Is(err, ErrTruncatedObjects) {
		t.Fatalf("got %v, want ErrTruncatedObjects", err)
	}
}
