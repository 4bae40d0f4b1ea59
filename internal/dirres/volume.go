package dirres

import (
	"bytes"
	"compress/lzw"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrCorruptVolume is returned when a volume payload fails to decode to its
// declared size.
var ErrCorruptVolume = errors.New("dirres: corrupt volume payload")

// ErrUnsupportedCompression is returned for a compression scheme this
// decoder does not recognise.
var ErrUnsupportedCompression = errors.New("dirres: unsupported compression")

const frameMagicHi = 0x12
const frameMagicLo = 0x34

// pictureCompressionBit marks a v3 volume byte as holding an image-specific
// compressed stream rather than LZW.
const pictureCompressionBit = 0x80

// cacheKey identifies a decompressed payload for the read-through LZW cache.
type cacheKey struct {
	volume uint8
	offset uint32
}

// Volume is the concatenation of resource blobs making up one VOL.n file.
type Volume struct {
	data  []byte
	cache map[cacheKey][]byte
}

// NewVolume wraps a VOL.n file's raw bytes. The volume is immutable once
// constructed; the LZW cache is populated lazily and shared read-through.
func NewVolume(data []byte) *Volume {
	return &Volume{data: data, cache: make(map[cacheKey][]byte)}
}

// Fetch returns the payload bytes for the resource described by entry,
// decoding the v2/v3 frame header and, when necessary, LZW-decompressing
// the body. The frame format is chosen by the v3 argument alone: true reads
// the v3 header's two length words, false the v2 header's single length
// word. The frame bytes themselves are not inspected to tell the formats
// apart.
func (v *Volume) Fetch(entry Entry, v3 bool) ([]byte, error) {
	if int(entry.Offset)+3 > len(v.data) {
		return nil, fmt.Errorf("dirres: %w: entry offset out of range", ErrCorruptVolume)
	}
	rest := v.data[entry.Offset:]
	if len(rest) < 3 || rest[0] != frameMagicHi || rest[1] != frameMagicLo {
		return nil, fmt.Errorf("dirres: %w: bad frame magic", ErrCorruptVolume)
	}
	volByte := rest[2]
	rest = rest[3:]

	if !v3 {
		return v.fetchV2(rest)
	}
	return v.fetchV3(rest, entry, volByte)
}

func (v *Volume) fetchV2(rest []byte) ([]byte, error) {
	if len(rest) < 2 {
		return nil, fmt.Errorf("dirres: %w: truncated v2 length", ErrCorruptVolume)
	}
	length := int(binary.LittleEndian.Uint16(rest))
	rest = rest[2:]
	if len(rest) < length {
		return nil, fmt.Errorf("dirres: %w: truncated v2 payload", ErrCorruptVolume)
	}
	return rest[:length], nil
}

func (v *Volume) fetchV3(rest []byte, entry Entry, volByte uint8) ([]byte, error) {
	if len(rest) < 4 {
		return nil, fmt.Errorf("dirres: %w: truncated v3 lengths", ErrCorruptVolume)
	}
	uncompressedLen := int(binary.LittleEndian.Uint16(rest[0:2]))
	compressedLen := int(binary.LittleEndian.Uint16(rest[2:4]))
	rest = rest[4:]
	if len(rest) < compressedLen {
		return nil, fmt.Errorf("dirres: %w: truncated v3 payload", ErrCorruptVolume)
	}
	payload := rest[:compressedLen]

	if compressedLen == uncompressedLen {
		return payload, nil
	}

	if volByte&pictureCompressionBit != 0 {
		// Picture-specific compression is transparent to consumers: the
		// picture rasteriser understands the compressed opcode stream
		// directly, so it is returned as-is.
		return payload, nil
	}

	key := cacheKey{volume: entry.Volume, offset: entry.Offset}
	if cached, ok := v.cache[key]; ok {
		return cached, nil
	}

	decoded, err := lzwDecode(payload, uncompressedLen)
	if err != nil {
		return nil, fmt.Errorf("dirres: %w: %v", ErrCorruptVolume, err)
	}
	v.cache[key] = decoded
	return decoded, nil
}

// lzwDecode decompresses a 9-bit-start, LSB-first LZW stream and validates
// the result against the declared uncompressed length.
func lzwDecode(payload []byte, uncompressedLen int) ([]byte, error) {
	// compress/lzw's litWidth counts literal bits; codes start one bit
	// wider, so litWidth 8 gives the 9-bit initial code width.
	r := lzw.NewReader(bytes.NewReader(payload), lzw.LSB, 8)
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("lzw decode failed: %w", err)
	}
	if len(out) != uncompressedLen {
		return nil, fmt.Errorf("%w: decoded %d bytes, want %d", ErrCorruptVolume, len(out), uncompressedLen)
	}
	return out, nil
}
