// Package testfixture assembles byte-accurate, in-memory AGI game
// filesystems for internal/vm's tests: raw directory/volume/logic/
// vocabulary bytes built the same way internal/logic's own tests build a
// logic resource's bytecode and message pool, wrapped up into an fs.FS a
// test can hand straight to vm.LoadGame.
package testfixture

import (
	"testing"
	"testing/fstest"
)

// Op assembles one action opcode's raw bytes: the opcode byte followed by
// its operand bytes.
func Op(op byte, operands ...byte) []byte {
	return append([]byte{op}, operands...)
}

// LE16 encodes v as two little-endian bytes, for goto displacements and
// message-pool offsets.
func LE16(v int) []byte {
	return []byte{byte(v), byte(v >> 8)}
}

// If assembles an `if` opcode from a flat condition-test byte stream (as
// produced by the Cond* helpers below, concatenated) and a displacement
// measured from the byte immediately following the 16-bit displacement
// field, matching internal/logic's ParseSequence/parseIfConditions.
func If(displacement int, conditions ...byte) []byte {
	out := []byte{0xFF}
	out = append(out, conditions...)
	out = append(out, 0xFF)
	out = append(out, LE16(displacement)...)
	return out
}

// Goto assembles a goto opcode.
func Goto(displacement int) []byte {
	return append([]byte{0xFE}, LE16(displacement)...)
}

// Or wraps a sequence of condition tests (each already Negate-prefixed via
// Not, if needed) in an OR-group.
func Or(conditions ...byte) []byte {
	out := []byte{0xFC}
	out = append(out, conditions...)
	out = append(out, 0xFC)
	return out
}

// Not prefixes a single condition test with the negation marker.
func Not(condition []byte) []byte {
	return append([]byte{0xFD}, condition...)
}

// Condition test encoders, one per internal/logic condition code this
// fixture package's tests exercise.
func CondEqualN(v, n byte) []byte          { return []byte{0x01, v, n} }
func CondEqualV(v, w byte) []byte          { return []byte{0x02, v, w} }
func CondLessN(v, n byte) []byte           { return []byte{0x03, v, n} }
func CondGreaterN(v, n byte) []byte        { return []byte{0x05, v, n} }
func CondIsSet(f byte) []byte              { return []byte{0x07, f} }
func CondHas(item byte) []byte             { return []byte{0x09, item} }
func CondController(c byte) []byte         { return []byte{0x0C, c} }
func CondHaveKey() []byte                  { return []byte{0x0D} }
func CondCompareStrings(a, b byte) []byte  { return []byte{0x0F, a, b} }

// CondSaid encodes a `said` condition test over word-group ids, matching
// internal/logic's reader.said()/reader.word() (a count byte, then each
// word id little-endian).
func CondSaid(words ...uint16) []byte {
	out := []byte{0x0E, byte(len(words))}
	for _, w := range words {
		out = append(out, byte(w), byte(w>>8))
	}
	return out
}

// messageXORKey matches internal/logic's own obfuscation key; message
// text and OBJECT names share it.
const messageXORKey = "Avis Durgan"

// MessagePool builds a logic resource's message-pool bytes for messages
// (index 0 implied empty; messages are otherwise 1-indexed, matching
// internal/logic's MessagePool.String convention), following the same
// layout as internal/logic's own buildMessagePool test helper: a count
// byte, an unread 2-byte end-of-pool pointer, one little-endian offset per
// message, then each message's XOR-obfuscated, NUL-terminated text (the NUL
// is obfuscated too: the decoder stops at a byte that decrypts to 0).
func MessagePool(messages []string) []byte {
	// Offsets are relative to the byte after the count byte, so text starts
	// after the 2-byte end-of-pool pointer and the offset table.
	adjust := 2 + len(messages)*2
	textBytes := []byte{}
	offsets := make([]int, len(messages))

	for i, m := range messages {
		if m == "" {
			continue
		}
		offset := adjust + len(textBytes)
		offsets[i] = offset
		skip := offset - adjust
		for j := 0; j <= len(m); j++ {
			c := byte(0)
			if j < len(m) {
				c = m[j]
			}
			k := messageXORKey[(skip+j)%len(messageXORKey)]
			textBytes = append(textBytes, c^k)
		}
	}

	buf := []byte{byte(len(messages))}
	buf = append(buf, 0, 0) // end-of-pool pointer, unread by the decoder
	for _, o := range offsets {
		buf = append(buf, LE16(o)...)
	}
	buf = append(buf, textBytes...)
	return buf
}

// LogicResource assembles one logic resource's complete bytes: the 2-byte
// text_start pointer, the bytecode region, then its message pool.
func LogicResource(bytecode []byte, messages []string) []byte {
	var data []byte
	data = append(data, LE16(len(bytecode))...)
	data = append(data, bytecode...)
	data = append(data, MessagePool(messages)...)
	return data
}

// volumeFrameV2 wraps a resource's decoded bytes in the v2 volume frame
// internal/dirres.Volume.Fetch expects for a non-picture resource: the
// 0x12,0x34 magic, an unused volume byte, then a little-endian length and
// the payload itself.
func volumeFrameV2(payload []byte) []byte {
	frame := []byte{0x12, 0x34, 0x00}
	frame = append(frame, LE16(len(payload))...)
	frame = append(frame, payload...)
	return frame
}

// emptyDirEntry is the 3-byte directory triplet for an unused resource
// number: volume nibble 0xF, the sentinel internal/dirres.Entry.Present
// checks for.
var emptyDirEntry = [3]byte{0xF0, 0x00, 0x00}

// directoryEntry encodes one LOGDIR/PICDIR/VIEWDIR triplet: the high
// nibble of the first byte is the volume number, the low nibble plus the
// remaining two bytes are a big-endian 20-bit byte offset.
func directoryEntry(volume uint8, offset uint32) [3]byte {
	return [3]byte{
		volume<<4 | byte(offset>>16)&0x0F,
		byte(offset >> 8),
		byte(offset),
	}
}

// Word is one vocabulary entry: a lowercase word and the group id it
// shares with its synonyms, the unit `said` conditions match against.
type Word struct {
	Text  string
	Group uint16
}

// wordsHeaderSize mirrors internal/vocab's unread 26-entry jump table; the
// decoder walks the prefix-compressed list from the start regardless of
// its contents.
const wordsHeaderSize = 52

// WordsTok builds a WORDS.TOK buffer. Every entry is encoded with a zero
// shared-prefix length: simpler to construct correctly than prefix
// compression, and internal/vocab's decoder handles either.
func WordsTok(words []Word) []byte {
	body := []byte{}
	for _, w := range words {
		body = append(body, 0)
		for i := 0; i < len(w.Text); i++ {
			c := w.Text[i] ^ 0x7F
			if i == len(w.Text)-1 {
				c |= 0x80
			}
			body = append(body, c)
		}
		body = append(body, byte(w.Group>>8), byte(w.Group))
	}
	return append(make([]byte, wordsHeaderSize), body...)
}

// InventoryItem is one OBJECT resource entry.
type InventoryItem struct {
	Name      string
	StartRoom uint8
}

// ObjectFile builds an OBJECT resource buffer: a little-endian header
// length, max_objects, a name_offset/start_room triplet per item (names
// left as plain ASCII, which internal/vocab's looksObfuscated heuristic
// passes through undecoded), then the NUL-terminated name table.
func ObjectFile(maxObjects uint8, items []InventoryItem) []byte {
	tripletsLen := 3 * len(items)
	var triplets, names []byte
	offset := tripletsLen
	for _, it := range items {
		triplets = append(triplets, byte(offset), byte(offset>>8), it.StartRoom)
		nameBytes := append([]byte(it.Name), 0)
		names = append(names, nameBytes...)
		offset += len(nameBytes)
	}

	data := []byte{byte(tripletsLen), byte(tripletsLen >> 8), maxObjects}
	data = append(data, triplets...)
	data = append(data, names...)
	return data
}

// Game is the input to Build: every logic resource by number (usually
// built with LogicResource), the vocabulary, and the inventory object
// table.
type Game struct {
	Logics map[int][]byte
	Words  []Word
	Items  []InventoryItem
}

// Build assembles g into an in-memory filesystem vm.LoadGame can read
// directly: a single VOL.0 holding every logic resource back to back, a
// LOGDIR sized to the highest logic number referenced, and empty
// PICDIR/VIEWDIR/SNDDIR (fetches against them fail gracefully, the way a
// game missing a picture or view resource already must be tolerated).
func Build(t *testing.T, g Game) fstest.MapFS {
	t.Helper()
	if len(g.Words) == 0 {
		g.Words = []Word{{Text: "anything", Group: 1}}
	}

	maxLogic := 0
	for n := range g.Logics {
		if n > maxLogic {
			maxLogic = n
		}
	}

	dir := make([]byte, (maxLogic+1)*3)
	for i := 0; i <= maxLogic; i++ {
		copy(dir[i*3:i*3+3], emptyDirEntry[:])
	}

	var volume []byte
	for n := 0; n <= maxLogic; n++ {
		data, ok := g.Logics[n]
		if !ok {
			continue
		}
		entry := directoryEntry(0, uint32(len(volume)))
		copy(dir[n*3:n*3+3], entry[:])
		volume = append(volume, volumeFrameV2(data)...)
	}

	return fstest.MapFS{
		"LOGDIR":    &fstest.MapFile{Data: dir},
		"PICDIR":    &fstest.MapFile{Data: []byte{}},
		"VIEWDIR":   &fstest.MapFile{Data: []byte{}},
		"SNDDIR":    &fstest.MapFile{Data: []byte{}},
		"VOL.0":     &fstest.MapFile{Data: volume},
		"WORDS.TOK": &fstest.MapFile{Data: WordsTok(g.Words)},
		"OBJECT":    &fstest.MapFile{Data: ObjectFile(uint8(len(g.Items)), g.Items)},
	}
}
