package vm

import "agivm/internal/pic"

// Screen dimensions: the native AGI coordinate space spec.md's picture
// planes use. The composited framebuffer doubles the x axis (spec.md §4.6
// step 10: "doubled-width cel"), so Framebuffer() returns
// FramebufferWidth*FramebufferHeight bytes.
const (
	ScreenWidth       = pic.Width  // 160
	ScreenHeight      = pic.Height // 168
	FramebufferWidth  = ScreenWidth * 2
	FramebufferHeight = ScreenHeight + 32 // +status line and input line rows
)

// textSentinel marks a text-overlay cell as "no character here", so
// compositing (spec.md step 10) knows to fall through to the picture
// planes.
const textSentinel = 255

// MotionKind selects how update_sprites (spec.md §4.6 step 6) drives a
// sprite's direction each tick.
type MotionKind int

const (
	MotionNormal MotionKind = iota
	MotionWander
	MotionMoveTo
	MotionFollowEgo
)

// CycleKind selects how update_anims (spec.md §4.6 step 7) advances a
// sprite's cel.
type CycleKind int

const (
	CycleNormal CycleKind = iota
	CycleReverse
	CycleOneShot
	CycleOneShotReverse
)

// Sprite is one entry in the VM's object table (spec.md's "screen object"),
// indexed by the Object operand byte logic opcodes address it with. Object
// 0 is always ego.
type Sprite struct {
	Active  bool
	Visible bool // "drawn" (animate.obj + draw, vs. erased)

	// Position: X/Y are the rendered pixel coordinates. FracX/FracY hold
	// an 8-bit fraction, but the motion code moves whole pixels only and
	// never writes them.
	X, Y         int
	FracX, FracY uint8

	ViewNum  int
	Loop     int
	Cel      int
	FixLoop  bool // loop was set explicitly (fix.loop); update_anims must not override it
	FixedCel bool // TODO: set.cel when the requested cel does not fit is not yet repositioned along the required edge (spec.md §9 open question)

	Priority     int
	FixPriority  bool
	Cycling      bool
	CycleKind    CycleKind
	CycleTime    int
	cycleCounter int
	OneShotDone  bool

	Moving       bool
	Motion       MotionKind
	StepSize     int
	savedStep    int
	StepTime     int
	stepCounter  int
	Direction    int // 0-8, per spec.md's direction table
	Moved        bool

	// move-to target and completion
	TargetX, TargetY int
	MoveFlag         int // flag set when a move-to or follow-ego motion arrives, or an end.of.loop/reverse.loop cycle finishes (wander never sets it)

	// wander remaining distance
	wanderDistance int

	IgnoreHorizon bool
	ObserveBlocks bool
	ObserveObjs   bool
	Domain        int // 0 = object.on.anything, 1 = object.on.land, 2 = object.on.water
	Frozen        bool // stop.update: still drawn, but update_sprites/update_anims skip it

	PlayerControlled bool // only ever true for ego (object 0)
}

// width/height returns a sprite's current cel's bounding box, clamping an
// out-of-range cel/loop index to the last one rather than panicking
// (spec.md §7: "out-of-range sprite operations... clamp to the last
// loop/cel silently").
func (vm *VM) celOf(s *Sprite) (width, height int, pixels []uint8, transparent uint8, ok bool) {
	res, found := vm.views[s.ViewNum]
	if !found || len(res.Loops) == 0 {
		return 0, 0, nil, 0, false
	}
	loopIdx := s.Loop
	if loopIdx >= len(res.Loops) {
		loopIdx = len(res.Loops) - 1
	}
	if loopIdx < 0 {
		loopIdx = 0
	}
	loop := res.Loops[loopIdx]
	if len(loop.Cels) == 0 {
		return 0, 0, nil, 0, false
	}
	celIdx := s.Cel
	if celIdx >= len(loop.Cels) {
		celIdx = len(loop.Cels) - 1
	}
	if celIdx < 0 {
		celIdx = 0
	}
	cel := loop.Cels[celIdx]
	return int(cel.Width), int(cel.Height), cel.Pixels, cel.TransparentColour(), true
}

// priorityBand implements spec.md's auto-priority table: when a sprite's
// Priority is 0 ("automatic"), its effective priority is derived from its y
// coordinate.
func priorityBand(y int) int {
	switch {
	case y <= 47:
		return 4
	case y <= 59:
		return 5
	case y <= 71:
		return 6
	case y <= 83:
		return 7
	case y <= 95:
		return 8
	case y <= 107:
		return 9
	case y <= 119:
		return 10
	case y <= 131:
		return 11
	case y <= 143:
		return 12
	case y <= 155:
		return 13
	case y <= 167:
		return 14
	default:
		return 15
	}
}

// effectivePriority returns the sprite's priority after auto-banding.
func (s *Sprite) effectivePriority() int {
	if s.Priority != 0 {
		return s.Priority
	}
	return priorityBand(s.Y)
}

// direction maps a signum pair to spec.md's eight-way direction table.
func direction(sx, sy int) int {
	switch {
	case sx == 0 && sy == 0:
		return 0
	case sx == 0 && sy < 0:
		return 1
	case sx > 0 && sy < 0:
		return 2
	case sx > 0 && sy == 0:
		return 3
	case sx > 0 && sy > 0:
		return 4
	case sx == 0 && sy > 0:
		return 5
	case sx < 0 && sy > 0:
		return 6
	case sx < 0 && sy == 0:
		return 7
	default: // sx < 0 && sy < 0
		return 8
	}
}

// deltaFor returns the unit-vector (dx, dy) for a direction 1-8 (0 = no
// motion).
func deltaFor(dir int) (dx, dy int) {
	switch dir {
	case 1:
		return 0, -1
	case 2:
		return 1, -1
	case 3:
		return 1, 0
	case 4:
		return 1, 1
	case 5:
		return 0, 1
	case 6:
		return -1, 1
	case 7:
		return -1, 0
	case 8:
		return -1, -1
	default:
		return 0, 0
	}
}

func signum(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
