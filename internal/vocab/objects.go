package vocab

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrTruncatedObjects is returned when the OBJECT buffer ends before a
// required field or name terminator.
var ErrTruncatedObjects = errors.New("vocab: truncated object file")

// Item is one inventory object: its display name and the room it starts in
// (0 means it is carried from the start, 255 means it is never placed).
type Item struct {
	Name      string
	StartRoom uint8
}

// Inventory is the full OBJECT resource: every item, in item-number order
// (item 0 is conventionally unused filler).
type Inventory struct {
	MaxObjects uint8
	Items      []Item
}

// ParseInventory decodes an OBJECT resource buffer.
//
// Layout: a little-endian uint16 at offset 0 gives the length, in bytes, of
// the name/start_room triplets (not counting the max_objects byte at
// offset 2 that precedes them); the header section begins at offset 2 and the name table
// begins at offset 3. Each triplet is (name_offset_le16, start_room), with
// name_offset relative to the name table. Names are NUL-terminated ASCII,
// XOR-obfuscated with the same cyclic key as logic messages in some game
// releases; this decoder applies the message-pool XOR key when the raw name
// bytes look non-printable, and leaves them untouched otherwise.
func ParseInventory(data []byte) (*Inventory, error) {
	if len(data) < 3 {
		return nil, fmt.Errorf("vocab: %w: file too short", ErrTruncatedObjects)
	}
	headerLen := int(binary.LittleEndian.Uint16(data[0:2]))
	nameTable := data[3:]

	headerEnd := 2 + headerLen + 1
	if headerEnd > len(data) {
		return nil, fmt.Errorf("vocab: %w: header length out of range", ErrTruncatedObjects)
	}
	header := data[2:headerEnd]

	maxObjects := header[0]
	body := header[1:]

	var items []Item
	i := 0
	for i < len(body) {
		if i+3 > len(body) {
			return nil, fmt.Errorf("vocab: %w: truncated triplet", ErrTruncatedObjects)
		}
		nameOffset := int(body[i]) | int(body[i+1])<<8
		startRoom := body[i+2]
		i += 3

		name, err := readName(nameTable, nameOffset)
		if err != nil {
			return nil, err
		}
		items = append(items, Item{Name: name, StartRoom: startRoom})
	}

	return &Inventory{MaxObjects: maxObjects, Items: items}, nil
}

func readName(nameTable []byte, offset int) (string, error) {
	if offset < 0 || offset > len(nameTable) {
		return "", fmt.Errorf("vocab: %w: name offset out of range", ErrTruncatedObjects)
	}
	raw := nameTable[offset:]
	end := -1
	for j, b := range raw {
		if b == 0 {
			end = j
			break
		}
	}
	if end < 0 {
		return "", fmt.Errorf("vocab: %w: unterminated name", ErrTruncatedObjects)
	}
	bytes := raw[:end]
	if looksObfuscated(bytes) {
		bytes = messageXOR(bytes)
	}
	return string(bytes), nil
}

// looksObfuscated reports whether a name's raw bytes fall outside printable
// ASCII, the heuristic used to tell an encrypted name table from a plain
// one: real games shipped both.
func looksObfuscated(b []byte) bool {
	for _, c := range b {
		if c < 0x20 || c > 0x7E {
			return true
		}
	}
	return false
}

// messageXORKey is the cyclic obfuscation key shared by inventory names and
// logic message pools.
const messageXORKey = "Avis Durgan"

func messageXOR(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[i] = c ^ messageXORKey[i%len(messageXORKey)]
	}
	return out
}
