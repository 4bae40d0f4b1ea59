package vm

import (
	"strconv"
	"strings"
)

// overlayCols/overlayRows are the 40x25 character-cell grid spec.md's
// window/status-line text lives on, one cell per 8x8 pixel block of the
// 320x200 framebuffer.
const (
	overlayCols = FramebufferWidth / 8
	overlayRows = FramebufferHeight / 8
)

func (vm *VM) resetTextOverlay() {
	for i := range vm.textOverlay {
		vm.textOverlay[i] = textSentinel
	}
}

func (vm *VM) overlaySet(col, row int, ch byte) {
	if col < 0 || col >= overlayCols || row < 0 || row >= overlayRows {
		return
	}
	vm.textOverlay[row*overlayCols+col] = ch
}

// blitTextOverlay stamps every non-sentinel overlay cell into the
// framebuffer using the configured FontProvider, spec.md step 10's "overlay
// the text buffer wherever it is not sentinel (255)".
func (vm *VM) blitTextOverlay(buf []uint8) {
	for row := 0; row < overlayRows; row++ {
		for col := 0; col < overlayCols; col++ {
			ch := vm.textOverlay[row*overlayCols+col]
			if ch == textSentinel {
				continue
			}
			glyph := vm.font.Glyph(ch)
			baseY := row * 8
			baseX := col * 8
			for gy := 0; gy < 8; gy++ {
				py := baseY + gy
				if py >= FramebufferHeight {
					break
				}
				bits := glyph[gy]
				for gx := 0; gx < 8; gx++ {
					if bits&(0x80>>uint(gx)) == 0 {
						continue
					}
					px := baseX + gx
					if px >= FramebufferWidth {
						break
					}
					buf[py*FramebufferWidth+px] = 15 // white text, the original font's ink colour
				}
			}
		}
	}
}

// window is an open message window's computed extents, tracked across
// ticks via the resumePoint's data payload so re-entry does not redraw it
// (spec.md §9 design note: "compare 'last displayed message' to detect
// re-entry").
type window struct {
	col, row, width, height int
	lastMessage             string
}

// drawWindow lays out text into a bordered rectangle on the overlay using
// greedy word wrap at min(width, 38-x), per spec.md §4.6 "Window drawing".
// col/row/width are 0 to auto-size/auto-center from the message content.
func (vm *VM) drawWindow(text string, col, row, width int) window {
	if width <= 0 {
		width = 30
	}
	maxWidth := width
	if limit := 38 - col; limit < maxWidth {
		maxWidth = limit
	}
	if maxWidth < 1 {
		maxWidth = 1
	}

	lines := wrapGreedy(text, maxWidth)
	height := len(lines) + 2 // plus top/bottom border
	boxWidth := 0
	for _, l := range lines {
		if len(l) > boxWidth {
			boxWidth = len(l)
		}
	}
	boxWidth += 2 // side borders

	if col <= 0 {
		col = (overlayCols - boxWidth) / 2
		if col < 0 {
			col = 0
		}
	}
	if row <= 0 {
		row = (overlayRows - height) / 2
		if row < 0 {
			row = 0
		}
	}

	vm.overlaySet(col, row, glyphCornerTL)
	vm.overlaySet(col+boxWidth-1, row, glyphCornerTR)
	vm.overlaySet(col, row+height-1, glyphCornerBL)
	vm.overlaySet(col+boxWidth-1, row+height-1, glyphCornerBR)
	for x := 1; x < boxWidth-1; x++ {
		vm.overlaySet(col+x, row, glyphEdgeH)
		vm.overlaySet(col+x, row+height-1, glyphEdgeH)
	}
	for y := 1; y < height-1; y++ {
		vm.overlaySet(col, row+y, glyphEdgeV)
		vm.overlaySet(col+boxWidth-1, row+y, glyphEdgeV)
	}
	for i, l := range lines {
		for x, ch := range []byte(l) {
			vm.overlaySet(col+1+x, row+1+i, ch)
		}
	}

	return window{col: col, row: row, width: boxWidth, height: height, lastMessage: text}
}

// closeWindow erases a previously drawn window's cells, restoring the
// overlay sentinel there.
func (vm *VM) closeWindow(w window) {
	for y := 0; y < w.height; y++ {
		for x := 0; x < w.width; x++ {
			vm.overlaySet(w.col+x, w.row+y, textSentinel)
		}
	}
}

// wrapGreedy breaks text into lines no wider than width, breaking only at
// spaces (AGI message text never hyphenates).
func wrapGreedy(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	lines = append(lines, line)
	return lines
}

// expandMessage implements spec.md §4.6 "Message expansion": %vN, %mN,
// %gN, %oN, %wN, %sN escapes, each substituted with raw (not
// re-expanded) text.
func (vm *VM) expandMessage(text string, ownerLogic int) string {
	var out strings.Builder
	for i := 0; i < len(text); i++ {
		if text[i] != '%' || i+2 >= len(text) {
			out.WriteByte(text[i])
			continue
		}
		kind := text[i+1]
		j := i + 2
		start := j
		for j < len(text) && text[j] >= '0' && text[j] <= '9' {
			j++
		}
		if j == start {
			out.WriteByte(text[i])
			continue
		}
		n, _ := strconv.Atoi(text[start:j])
		switch kind {
		case 'v':
			out.WriteString(strconv.Itoa(int(vm.state.Vars[uint8(n)])))
		case 'm':
			if r, ok := vm.logics[ownerLogic]; ok {
				out.WriteString(r.Messages.String(uint8(n)))
			}
		case 'g':
			if r, ok := vm.logics[0]; ok {
				out.WriteString(r.Messages.String(uint8(n)))
			}
		case 'o':
			if n >= 0 && n < len(vm.inventory.Items) {
				out.WriteString(vm.inventory.Items[n].Name)
			}
		case 'w':
			if n >= 1 && n <= len(vm.state.ParsedWords) {
				out.WriteString(vm.wordText(vm.state.ParsedWords[n-1]))
			}
		case 's':
			out.WriteString(vm.state.Strings[uint8(n)&0x0F])
		default:
			out.WriteByte(text[i])
			out.WriteByte(kind)
			j = i + 2
		}
		i = j - 1
	}
	return out.String()
}

// wordText is a best-effort reverse lookup from a vocabulary group id back
// to display text, used only by %wN message expansion; when several words
// share a group this returns the first one WordsInGroup lists, and that
// order is not defined.
func (vm *VM) wordText(group uint16) string {
	words := vm.words.WordsInGroup(group)
	if len(words) == 0 {
		return ""
	}
	return words[0]
}
