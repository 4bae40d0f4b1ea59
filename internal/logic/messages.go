package logic

import (
	"errors"
	"fmt"
)

// ErrTruncatedMessagePool is returned when a message pool's header or a
// message's text runs past the end of the resource's message-pool slice.
var ErrTruncatedMessagePool = errors.New("logic: truncated message pool")

// messageXORKey is the cyclic XOR key logic message text is obfuscated
// with in an uncompressed logic resource.
const messageXORKey = "Avis Durgan"

// Compression identifies whether the volume frame a logic resource came
// from was stored raw or LZW-packed; it changes which decrypt key applies
// to the message pool (an LZW-packed resource's messages are already
// unreadable noise to a casual resource-viewer, so the original format
// skips the XOR step by keying on a single zero byte).
type Compression int

const (
	CompressionNone Compression = iota
	CompressionLZW
)

// MessagePool holds a logic resource's decrypted message strings, indexed
// from 1 (index 0 is always the empty string, since messages are numbered
// starting at 1 in the bytecode).
type MessagePool struct {
	Strings []string
}

// String returns the message at index n, or "" if n is out of range.
func (p *MessagePool) String(n uint8) string {
	if int(n) >= len(p.Strings) {
		return ""
	}
	return p.Strings[n]
}

// parseMessagePool decodes the message-pool region of a logic resource:
// a count byte, a 2-byte end-of-pool pointer (read and discarded; nothing
// downstream consults it), one little-endian
// 16-bit offset per message, then each message's XOR-obfuscated, NUL
// -terminated text.
func parseMessagePool(data []byte, compression Compression) (*MessagePool, error) {
	strings := []string{""}

	if len(data) == 0 {
		return &MessagePool{Strings: strings}, nil
	}

	r := &reader{data: data}
	count, err := r.u8()
	if err != nil {
		return nil, fmt.Errorf("logic: %w: message count", ErrTruncatedMessagePool)
	}
	if _, err := r.u8(); err != nil { // end-of-pool LSB, unused
		return nil, fmt.Errorf("logic: %w: end-of-pool pointer", ErrTruncatedMessagePool)
	}
	if _, err := r.u8(); err != nil { // end-of-pool MSB, unused
		return nil, fmt.Errorf("logic: %w: end-of-pool pointer", ErrTruncatedMessagePool)
	}

	offsets := make([]int, count)
	for i := range offsets {
		lo, err := r.u8()
		if err != nil {
			return nil, fmt.Errorf("logic: %w: message %d offset", ErrTruncatedMessagePool, i)
		}
		hi, err := r.u8()
		if err != nil {
			return nil, fmt.Errorf("logic: %w: message %d offset", ErrTruncatedMessagePool, i)
		}
		offsets[i] = int(hi)<<8 | int(lo)
	}

	key := messageXORKey
	if compression == CompressionLZW {
		key = "\x00"
	}

	// The block every offset is relative to starts one byte into data
	// (the original format's message_block_slice = &text_slice[1..]),
	// and the decrypt key stream is phase-shifted so that it lines up
	// the same way regardless of where a message's bytes happen to sit.
	decryptStartAdjust := 2 + len(offsets)*2
	if len(data) < 1 {
		return nil, fmt.Errorf("logic: %w: missing message block", ErrTruncatedMessagePool)
	}
	block := data[1:]

	for i, offset := range offsets {
		if offset == 0 {
			strings = append(strings, "")
			continue
		}
		if offset > len(block) {
			return nil, fmt.Errorf("logic: %w: message %d offset out of range", ErrTruncatedMessagePool, i)
		}
		skip := offset - decryptStartAdjust
		for skip < 0 {
			skip += len(key)
		}

		text := block[offset:]
		var out []byte
		for j := 0; ; j++ {
			if j >= len(text) {
				return nil, fmt.Errorf("logic: %w: message %d text", ErrTruncatedMessagePool, i)
			}
			k := key[(skip+j)%len(key)]
			decrypted := text[j] ^ k
			if decrypted == 0 {
				break
			}
			out = append(out, decrypted)
		}
		strings = append(strings, string(out))
	}

	return &MessagePool{Strings: strings}, nil
}
