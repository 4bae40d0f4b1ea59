package vm

// FontProvider supplies the fixed 8x8 glyph bitmaps the window-drawing and
// status-line code composites into the text overlay. LoadGame always
// installs NewBuiltinFont and the VM has no setter for another provider,
// so cmd/agivm, cmd/agidebugger and the tests all draw with the built-in
// placeholder glyphs; no font bitmap file is loaded.
type FontProvider interface {
	// Glyph returns the 8 row bytes (MSB = leftmost pixel) for character
	// c, used to stamp one 8x8 cell of the text overlay.
	Glyph(c byte) [8]byte
}

// box-drawing character codes the original font ships at these code
// points, used by window border drawing.
const (
	glyphCornerTL = 0xDA
	glyphCornerTR = 0xBF
	glyphCornerBL = 0xC0
	glyphCornerBR = 0xD9
	glyphEdgeH    = 0xC4
	glyphEdgeV    = 0xB3
)

// builtinFont is the minimal FontProvider every VM uses. It draws every
// box-drawing code point as a filled cell, a space as an empty cell, and
// every other character as a hollow box outline, which is enough to
// validate layout
// (word-wrap, window extents) without needing the real 2KB AGI font
// bitmap.
type builtinFont struct{}

// NewBuiltinFont returns a FontProvider good enough for headless use: it
// does not reproduce the real AGI glyph bitmaps, only placeholder shapes
// stable enough for deterministic tests.
func NewBuiltinFont() FontProvider { return builtinFont{} }

func (builtinFont) Glyph(c byte) [8]byte {
	switch c {
	case glyphCornerTL, glyphCornerTR, glyphCornerBL, glyphCornerBR, glyphEdgeH, glyphEdgeV:
		return [8]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	case ' ':
		return [8]byte{}
	default:
		return [8]byte{0x7E, 0x81, 0x81, 0x81, 0x81, 0x81, 0x81, 0x7E}
	}
}
