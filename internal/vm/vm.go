package vm

import (
	"math/rand"

	"agivm/internal/dirres"
	"agivm/internal/logic"
	"agivm/internal/pic"
	"agivm/internal/view"
	"agivm/internal/vocab"
)

// VM is the central AGI interpreter core: decoded resource tables plus the
// mutable game state a tick advances. It exposes exactly the surface
// spec.md §6 names (PressKey, SetController, Tick, Framebuffer,
// SetBreakpoint) as a concrete struct, mirroring the teacher's
// *cpu.CPU/*ppu.PPU concrete-struct style rather than an interface-heavy
// design, and is wired up the way internal/emulator.Emulator wires
// *cpu.CPU/*ppu.PPU/*apu.APU together in one constructor.
type VM struct {
	cfg Config

	logicDir, picDir, viewDir, soundDir *dirres.Directory
	volumes                             map[uint8]*dirres.Volume
	words                                *vocab.Vocabulary
	inventory                            *vocab.Inventory

	// Decode caches: logic/view resources are immutable once decoded
	// (spec.md §3: "resources are created once... and are immutable
	// thereafter"), so each is parsed at most once and kept for the life
	// of the VM.
	logics map[int]*logic.Resource
	views  map[int]*view.Resource

	planes *pic.Planes

	state   State
	clock   timeCounter
	rng     *rand.Rand
	keys    []uint16 // pending key events, drained at the start of each tick
	callStack []frame

	logger        *Logger
	tracer        *TickTracer
	breakpoints   []breakpoint
	controllers   *Controllers
	font          FontProvider

	textOverlay [FramebufferWidth / 8 * (FramebufferHeight / 8)]byte // glyph codes, textSentinel = empty
	composite   []uint8

	resumed *resumePoint

	// scanStart remembers each logic resource's set.scan.start offset: a
	// script that has already run its one-time initialisation skips past
	// it on every subsequent invocation until reset.scan.start clears it.
	scanStart map[int]int

	// blocks is the optional rectangle obstacle set the block/unblock
	// opcodes maintain; at most one is active at a time, per spec.md §9.
	blocks []blockRect

	// itemRoom tracks where each inventory object currently is: 0 means
	// carried by ego, 255 means "never placed" (get/drop/put mutate this
	// rather than the immutable Inventory.Items[].StartRoom).
	itemRoom map[int]int

	quit bool
}

// blockRect is an axis-aligned obstacle rectangle sprite motion must not
// cross when the sprite observes blocks (spec.md §4.6 "blocked region").
type blockRect struct {
	x1, y1, x2, y2 int
}

// breakpoint is a debugger-facing suspend request (spec.md §6:
// "set_breakpoint(script, pc, temporary) — for debuggers (optional)").
type breakpoint struct {
	script    int
	pc        int
	temporary bool
}

// State is every piece of mutable game state a tick reads or writes: the
// well-known variable/flag banks, general-purpose string registers, the
// sprite ("screen object") table, and room-transition bookkeeping. All
// other subsystems (sprites.go, room.go, window.go) are close to pure
// functions over this block, per spec.md's "Shared state" design note.
type State struct {
	Vars    [256]uint8
	Flags   [256]bool
	Strings [12]string

	Sprites []Sprite

	CurrentRoom  int
	PreviousRoom int
	NewRoom      int // 0 once consumed; a pending transition is any non-zero value written mid-tick

	Horizon int

	// Command input line (row 22) and its most recent parse.
	InputLine      string
	AcceptingInput bool     // prevent.input/accept.input
	ParsedWords    []uint16 // vocabulary group ids of the tokenised input
	MissingWordAt  int      // 1-based index of the first unmatched word, or 0

	TextMode bool
}

// frame is one entry on the logic call stack: the resource number and
// operation index to resume at. Pushed by call/call.v, popped by return.
type frame struct {
	logicNum int
	pc       int
}

// resumePoint is a suspended resumable-opcode position (spec.md §4.6
// "Resumable opcodes"): the VM pushes this instead of advancing past an
// opcode that needs user interaction, and the next tick retries exactly
// that opcode.
type resumePoint struct {
	logicNum int
	pc       int
	kind     resumeKind
	// data carries opcode-specific in-progress state (e.g. the window
	// already drawn for a print, so re-entry does not redraw it).
	data interface{}
}

type resumeKind int

const (
	resumeNone resumeKind = iota
	resumePrint
	resumeGetString
	resumeGetNum
	resumeShowObj
	resumePause
	resumeHaveKey
	resumeBreakpoint
)

// egoIndex is the fixed sprite-table slot spec.md's GLOSSARY assigns the
// player character.
const egoIndex = 0

// PressKey pushes a key event onto the VM's bounded key buffer, to be
// snapshotted at the start of the next tick (spec.md §4.6 step 4).
func (vm *VM) PressKey(key uint16) {
	if len(vm.keys) >= vm.cfg.KeyBufferDepth {
		vm.keys = vm.keys[1:]
	}
	vm.keys = append(vm.keys, key)
	vm.controllers.Press(key)
}

// SetController binds a key code to a controller id, the effect of the
// set.key opcode issued from the host side (e.g. a menu remapping a key
// before the game itself runs set.key).
func (vm *VM) SetController(id int, key uint16) {
	vm.controllers.Bind(key, uint8(id))
}

// SetBreakpoint registers a debugger breakpoint at (script, pc). When
// temporary is true the breakpoint is removed the first time it is hit,
// the usual "run to here" debugger behaviour.
func (vm *VM) SetBreakpoint(script int, pc int, temporary bool) {
	vm.breakpoints = append(vm.breakpoints, breakpoint{script: script, pc: pc, temporary: temporary})
}

// Breakpoint is a debugger-facing copy of one registered breakpoint.
type Breakpoint struct {
	Script    int
	PC        int
	Temporary bool
}

// Breakpoints lists every breakpoint currently registered, for a debugger's
// breakpoint panel.
func (vm *VM) Breakpoints() []Breakpoint {
	out := make([]Breakpoint, len(vm.breakpoints))
	for i, b := range vm.breakpoints {
		out[i] = Breakpoint{Script: b.script, PC: b.pc, Temporary: b.temporary}
	}
	return out
}

// AtBreakpoint reports whether the VM is currently suspended at a
// breakpoint (i.e. the most recent Tick stopped before executing an
// opcode rather than running a full pass), the condition a debugger's
// continue/step controls must check before calling ResumeFromBreakpoint.
func (vm *VM) AtBreakpoint() bool {
	return vm.resumed != nil && vm.resumed.kind == resumeBreakpoint
}

// PausedAt returns the (script, pc) the VM is suspended at when
// AtBreakpoint is true.
func (vm *VM) PausedAt() (script, pc int, ok bool) {
	if !vm.AtBreakpoint() {
		return 0, 0, false
	}
	return vm.resumed.logicNum, vm.resumed.pc, true
}

// Controllers exposes the VM's controller bank for a host that wants to
// inspect or drive it directly (e.g. cmd/agidebugger's controls panel).
func (vm *VM) Controllers() *Controllers { return vm.controllers }

// State exposes the live mutable game state for debugger inspection.
// Callers must not mutate sprite/variable slices outside of Tick; this is
// a read/observe surface, not an alternate mutation path.
func (vm *VM) State() *State { return &vm.state }

// Logger returns the VM's ring-buffered event logger.
func (vm *VM) Logger() *Logger { return vm.logger }

// SetTracer installs (or clears, with nil) a per-tick trace writer.
func (vm *VM) SetTracer(t *TickTracer) { vm.tracer = t }

// Quit reports whether the running script has executed quit (0x86): the
// host's run loop should stop calling Tick once this is true.
func (vm *VM) Quit() bool { return vm.quit }

// Framebuffer returns the composited, palette-indexed frame: FramebufferWidth
// * FramebufferHeight bytes, row-major, produced by the most recent Tick
// (spec.md §4.6 step 10). The returned slice is owned by the VM and is
// overwritten by the next Tick call; callers that need to retain a frame
// must copy it.
func (vm *VM) Framebuffer() []uint8 {
	return vm.composite
}
