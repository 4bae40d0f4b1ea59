// Package view decodes AGI VIEW resources: animation cels, grouped into
// loops, with RLE-packed pixel rows.
package view

import (
	"errors"
	"fmt"
)

// ErrTruncatedView is returned when a VIEW buffer ends before a required
// header field, offset table entry, or pixel row terminator.
var ErrTruncatedView = errors.New("view: truncated view resource")

// Cel is one RLE-decoded animation frame: a rectangle of palette indices,
// row-major, with transparent pixels holding TransparentColour.
type Cel struct {
	Width  uint8
	Height uint8
	flags  uint8
	Pixels []uint8
}

// TransparentColour is the palette index that is not drawn when compositing
// this cel, carried in the low nibble of the cel's flags byte.
func (c Cel) TransparentColour() uint8 {
	return c.flags & 0x0F
}

// IsMirrorOf reports whether this cel should be rendered horizontally
// flipped, sourcing its pixels from loop mirrorLoop, when displayed as part
// of loop cloop. Bit 0x80 of flags enables mirroring; bits 0x70 give the
// loop index to mirror from, and mirroring is a no-op if that is the
// current loop.
func (c Cel) IsMirrorOf(cloop uint8) (mirrorLoop uint8, ok bool) {
	if c.flags&0x80 != 0x80 {
		return 0, false
	}
	src := (c.flags & 0x70) >> 4
	if src == cloop {
		return 0, false
	}
	return src, true
}

// Loop is an ordered sequence of cels forming one animation direction.
type Loop struct {
	Cels []Cel
}

// Resource is a fully decoded VIEW: its author-supplied description string
// and its loops.
type Resource struct {
	Description string
	Loops       []Loop
}

// Decode parses a VIEW resource buffer.
//
// Layout: 2 reserved bytes, a loop count, a little-endian uint16 offset to
// a NUL-terminated description string (0 meaning absent), then one
// little-endian uint16 offset per loop. Each loop begins with a cel count
// followed by one little-endian uint16 offset per cel, relative to the
// loop's own offset. Each cel is width, height, flags, then RLE-packed
// pixel rows: repeating (nibble colour, nibble run-length) pairs until a
// zero byte ends the row.
func Decode(data []byte) (*Resource, error) {
	r := &reader{data: data}
	if err := r.skip(2); err != nil {
		return nil, err
	}

	loopCount, err := r.byte()
	if err != nil {
		return nil, err
	}
	descPos, err := r.uint16le()
	if err != nil {
		return nil, err
	}

	loopOffsets := make([]int, loopCount)
	for i := range loopOffsets {
		pos, err := r.uint16le()
		if err != nil {
			return nil, err
		}
		loopOffsets[i] = pos
	}

	description, err := decodeDescription(data, int(descPos))
	if err != nil {
		return nil, err
	}

	loops := make([]Loop, len(loopOffsets))
	for i, off := range loopOffsets {
		l, err := decodeLoop(data, off)
		if err != nil {
			return nil, fmt.Errorf("view: loop %d: %w", i, err)
		}
		loops[i] = l
	}

	return &Resource{Description: description, Loops: loops}, nil
}

func decodeDescription(data []byte, pos int) (string, error) {
	if pos == 0 {
		return "", nil
	}
	if pos < 0 || pos >= len(data) {
		return "", fmt.Errorf("view: %w: description offset out of range", ErrTruncatedView)
	}
	end := pos
	for end < len(data) && data[end] != 0 {
		end++
	}
	if end >= len(data) {
		return "", fmt.Errorf("view: %w: unterminated description", ErrTruncatedView)
	}
	return string(data[pos:end]), nil
}

func decodeLoop(data []byte, base int) (Loop, error) {
	r := &reader{data: data, pos: base}

	celCount, err := r.byte()
	if err != nil {
		return Loop{}, err
	}

	celOffsets := make([]int, celCount)
	for i := range celOffsets {
		off, err := r.uint16le()
		if err != nil {
			return Loop{}, err
		}
		celOffsets[i] = base + off
	}

	cels := make([]Cel, len(celOffsets))
	for i, off := range celOffsets {
		c, err := decodeCel(data, off)
		if err != nil {
			return Loop{}, fmt.Errorf("cel %d: %w", i, err)
		}
		cels[i] = c
	}
	return Loop{Cels: cels}, nil
}

func decodeCel(data []byte, base int) (Cel, error) {
	r := &reader{data: data, pos: base}

	width, err := r.byte()
	if err != nil {
		return Cel{}, err
	}
	height, err := r.byte()
	if err != nil {
		return Cel{}, err
	}
	flags, err := r.byte()
	if err != nil {
		return Cel{}, err
	}

	transparent := flags & 0x0F
	size := int(width) * int(height)
	pixels := make([]uint8, size)
	for i := range pixels {
		pixels[i] = transparent
	}

	for y := 0; y < int(height); y++ {
		pos := int(width) * y
		for {
			b, err := r.byte()
			if err != nil {
				return Cel{}, fmt.Errorf("%w: row %d not terminated", ErrTruncatedView, y)
			}
			if b == 0 {
				break
			}
			colour := b >> 4
			runLen := int(b & 0x0F)
			for p := 0; p < runLen; p++ {
				if pos >= size {
					return Cel{}, fmt.Errorf("%w: row %d overruns cel width", ErrTruncatedView, y)
				}
				pixels[pos] = colour
				pos++
			}
		}
	}

	return Cel{Width: width, Height: height, flags: flags, Pixels: pixels}, nil
}

// reader is a small cursor over a view resource's byte buffer.
type reader struct {
	data []byte
	pos  int
}

func (r *reader) skip(n int) error {
	if r.pos+n > len(r.data) {
		return fmt.Errorf("view: %w", ErrTruncatedView)
	}
	r.pos += n
	return nil
}

func (r *reader) byte() (uint8, error) {
	if r.pos >= len(r.data) {
		return 0, fmt.Errorf("view: %w", ErrTruncatedView)
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

func (r *reader) uint16le() (int, error) {
	if r.pos+2 > len(r.data) {
		return 0, fmt.Errorf("view: %w", ErrTruncatedView)
	}
	lsb := int(r.data[r.pos])
	msb := int(r.data[r.pos+1])
	r.pos += 2
	return msb<<8 | lsb, nil
}
