package vm

import (
	"agivm/internal/logic"
	"agivm/internal/pic"
)

// execExtendedAction handles the picture, view/object, block, and
// inventory opcodes: everything execAction's own switch does not cover.
// Falls through to execTextAction for anything it does not recognise
// either.
func (vm *VM) execExtendedAction(logicNum, pc int, res *logic.Resource, a logic.Action) (outcome, error) {
	switch a.Op {
	case logic.OpLoadPic:
		v := a.Operands[0].(logic.Var)
		vm.loadPicInto(int(vm.state.Vars[v.Value]))
	case logic.OpDrawPic:
		v := a.Operands[0].(logic.Var)
		vm.drawPic(int(vm.state.Vars[v.Value]), false)
	case logic.OpShowPic:
		vm.state.TextMode = false
	case logic.OpOverlayPic:
		v := a.Operands[0].(logic.Var)
		vm.drawPic(int(vm.state.Vars[v.Value]), true)
	case logic.OpDiscardPic:
		// nums address logic.n for symmetry with load.logic but AGI never
		// actually frees pictures independently; a no-op here matches
		// spec.md's "resources are immutable... discard opcodes are
		// accepted and have no observable effect" design note.
	case logic.OpShowPriScreen:
		// accepted as a no-op: the VM has no priority-screen display mode,
		// and the priority plane is not exposed to hosts.

	case logic.OpLoadView:
		n := a.Operands[0].(logic.Num)
		if _, err := vm.fetchView(int(n.Value)); err != nil {
			vm.logger.Warnf("load.view(%d): %v", n.Value, err)
		}
	case logic.OpLoadViewV:
		v := a.Operands[0].(logic.Var)
		if _, err := vm.fetchView(int(vm.state.Vars[v.Value])); err != nil {
			vm.logger.Warnf("load.view.v: %v", err)
		}
	case logic.OpDiscardView:
		n := a.Operands[0].(logic.Num)
		delete(vm.views, int(n.Value))

	case logic.OpAnimateObj:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			s.Active = true
			s.Visible = false
			s.Cycling = true
			s.Moving = false
			s.Direction = 0
			s.Priority = 0
			s.StepSize = 1
			s.CycleTime = 1
			s.StepTime = 1
		}
	case logic.OpUnanimateAll:
		for i := range vm.state.Sprites {
			if i != egoIndex {
				vm.state.Sprites[i].Active = false
			}
		}
	case logic.OpDraw:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			s.Visible = true
		}
	case logic.OpErase:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			s.Visible = false
		}
	case logic.OpPosition:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			s.X = int(a.Operands[1].(logic.Num).Value)
			s.Y = int(a.Operands[2].(logic.Num).Value)
		}
	case logic.OpPositionV:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			s.X = int(vm.state.Vars[a.Operands[1].(logic.Var).Value])
			s.Y = int(vm.state.Vars[a.Operands[2].(logic.Var).Value])
		}
	case logic.OpGetPosN:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			vm.state.Vars[a.Operands[1].(logic.Var).Value] = uint8(s.X)
			vm.state.Vars[a.Operands[2].(logic.Var).Value] = uint8(s.Y)
		}
	case logic.OpReposition:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			dx := int(int8(vm.state.Vars[a.Operands[1].(logic.Var).Value]))
			dy := int(int8(vm.state.Vars[a.Operands[2].(logic.Var).Value]))
			s.X += dx
			s.Y += dy
		}
	case logic.OpRepositionTo:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			s.X = int(a.Operands[1].(logic.Num).Value)
			s.Y = int(a.Operands[2].(logic.Num).Value)
		}
	case logic.OpRepositionToV:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			s.X = int(vm.state.Vars[a.Operands[1].(logic.Var).Value])
			s.Y = int(vm.state.Vars[a.Operands[2].(logic.Var).Value])
		}

	case logic.OpSetView:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			s.ViewNum = int(a.Operands[1].(logic.Num).Value)
			vm.fetchView(s.ViewNum)
		}
	case logic.OpSetViewV:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			s.ViewNum = int(vm.state.Vars[a.Operands[1].(logic.Var).Value])
			vm.fetchView(s.ViewNum)
		}
	case logic.OpSetLoop:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			s.Loop = int(a.Operands[1].(logic.Num).Value)
			s.FixLoop = true
		}
	case logic.OpSetLoopV:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			s.Loop = int(vm.state.Vars[a.Operands[1].(logic.Var).Value])
			s.FixLoop = true
		}
	case logic.OpFixLoop:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			s.FixLoop = true
		}
	case logic.OpReleaseLoop:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			s.FixLoop = false
		}
	case logic.OpSetCel:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			s.Cel = int(a.Operands[1].(logic.Num).Value)
		}
	case logic.OpSetCelV:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			s.Cel = int(vm.state.Vars[a.Operands[1].(logic.Var).Value])
		}
	case logic.OpLastCel:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			vm.state.Vars[a.Operands[1].(logic.Var).Value] = uint8(vm.lastCelIndex(s))
		}
	case logic.OpCurrentCel:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			vm.state.Vars[a.Operands[1].(logic.Var).Value] = uint8(s.Cel)
		}
	case logic.OpCurrentLoop:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			vm.state.Vars[a.Operands[1].(logic.Var).Value] = uint8(s.Loop)
		}
	case logic.OpCurrentView:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			vm.state.Vars[a.Operands[1].(logic.Var).Value] = uint8(s.ViewNum)
		}

	case logic.OpSetPriority:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			s.Priority = int(a.Operands[1].(logic.Num).Value)
			s.FixPriority = true
		}
	case logic.OpSetPriorityV:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			s.Priority = int(vm.state.Vars[a.Operands[1].(logic.Var).Value])
			s.FixPriority = true
		}
	case logic.OpReleasePriority:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			s.Priority = 0
			s.FixPriority = false
		}
	case logic.OpGetPriority:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			vm.state.Vars[a.Operands[1].(logic.Var).Value] = uint8(s.effectivePriority())
		}

	case logic.OpStopUpdate:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			s.Frozen = true
		}
	case logic.OpStartUpdate:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			s.Frozen = false
		}
	case logic.OpForceUpdate:
		// the VM composites every tick regardless; nothing to force.

	case logic.OpIgnoreHorizon:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			s.IgnoreHorizon = true
		}
	case logic.OpObserveHorizon:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			s.IgnoreHorizon = false
		}
	case logic.OpSetHorizon:
		n := a.Operands[0].(logic.Num)
		vm.state.Horizon = int(n.Value)

	case logic.OpObjectOnWater:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			s.Domain = 2
		}
	case logic.OpObjectOnLand:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			s.Domain = 1
		}
	case logic.OpObjectOnAnything:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			s.Domain = 0
		}
	case logic.OpIgnoreObjs:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			s.ObserveObjs = false
		}
	case logic.OpObserveObjs:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			s.ObserveObjs = true
		}
	case logic.OpDistance:
		sa, sb := vm.spriteOf(a.Operands[0]), vm.spriteOf(a.Operands[1])
		dest := a.Operands[2].(logic.Var)
		if sa == nil || sb == nil || !sa.Visible || !sb.Visible {
			vm.state.Vars[dest.Value] = 255
		} else {
			d := abs(sa.X-sb.X) + abs(sa.Y-sb.Y)
			if d > 254 {
				d = 254
			}
			vm.state.Vars[dest.Value] = uint8(d)
		}

	case logic.OpStopCycling:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			s.Cycling = false
		}
	case logic.OpStartCycling:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			s.Cycling = true
		}
	case logic.OpNormalCycle:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			s.CycleKind = CycleNormal
			s.Cycling = true
		}
	case logic.OpEndOfLoop:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			s.CycleKind = CycleOneShot
			s.OneShotDone = false
			s.MoveFlag = int(a.Operands[1].(logic.Flag).Value)
			s.Cycling = true
		}
	case logic.OpReverseCycle:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			s.CycleKind = CycleReverse
			s.Cycling = true
		}
	case logic.OpReverseLoop:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			s.CycleKind = CycleOneShotReverse
			s.OneShotDone = false
			s.MoveFlag = int(a.Operands[1].(logic.Flag).Value)
			s.Cycling = true
		}
	case logic.OpCycleTime:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			s.CycleTime = int(vm.state.Vars[a.Operands[1].(logic.Var).Value])
		}

	case logic.OpStopMotion:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			s.Moving = false
		}
	case logic.OpStartMotion:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			s.Moving = true
		}
	case logic.OpStepSize:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			s.StepSize = int(vm.state.Vars[a.Operands[1].(logic.Var).Value])
		}
	case logic.OpStepTime:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			s.StepTime = int(vm.state.Vars[a.Operands[1].(logic.Var).Value])
		}

	case logic.OpMoveObj:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			vm.startMoveTo(s,
				int(a.Operands[1].(logic.Num).Value), int(a.Operands[2].(logic.Num).Value),
				int(a.Operands[3].(logic.Num).Value), int(a.Operands[4].(logic.Flag).Value))
		}
	case logic.OpMoveObjV:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			vm.startMoveTo(s,
				int(vm.state.Vars[a.Operands[1].(logic.Var).Value]), int(vm.state.Vars[a.Operands[2].(logic.Var).Value]),
				int(vm.state.Vars[a.Operands[3].(logic.Var).Value]), int(a.Operands[4].(logic.Flag).Value))
		}
	case logic.OpFollowEgo:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			s.Motion = MotionFollowEgo
			if speed := int(a.Operands[1].(logic.Num).Value); speed != 0 {
				s.StepSize = speed
			}
			s.MoveFlag = int(a.Operands[2].(logic.Flag).Value)
			s.Moving = true
		}
	case logic.OpWander:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			s.Motion = MotionWander
			s.Moving = true
		}
	case logic.OpNormalMotion:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			s.Motion = MotionNormal
		}
	case logic.OpSetDir:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			s.Direction = int(vm.state.Vars[a.Operands[1].(logic.Var).Value])
		}
	case logic.OpGetDir:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			vm.state.Vars[a.Operands[1].(logic.Var).Value] = uint8(s.Direction)
		}
	case logic.OpIgnoreBlocks:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			s.ObserveBlocks = false
		}
	case logic.OpObserveBlocks:
		if s := vm.spriteOf(a.Operands[0]); s != nil {
			s.ObserveBlocks = true
		}
	case logic.OpBlock:
		vm.blocks = []blockRect{{
			x1: int(a.Operands[0].(logic.Num).Value), y1: int(a.Operands[1].(logic.Num).Value),
			x2: int(a.Operands[2].(logic.Num).Value), y2: int(a.Operands[3].(logic.Num).Value),
		}}
	case logic.OpUnblock:
		vm.blocks = nil

	case logic.OpGet:
		it := a.Operands[0].(logic.Item)
		vm.itemRoom[int(it.Value)] = 0
	case logic.OpGetV:
		v := a.Operands[0].(logic.Var)
		vm.itemRoom[int(vm.state.Vars[v.Value])] = 0
	case logic.OpDrop:
		it := a.Operands[0].(logic.Item)
		vm.itemRoom[int(it.Value)] = 255
	case logic.OpPut:
		it, n := a.Operands[0].(logic.Item), a.Operands[1].(logic.Num)
		vm.itemRoom[int(it.Value)] = int(n.Value)
	case logic.OpPutV:
		it, v := a.Operands[0].(logic.Var), a.Operands[1].(logic.Var)
		vm.itemRoom[int(vm.state.Vars[it.Value])] = int(vm.state.Vars[v.Value])
	case logic.OpGetRoomV:
		it, dest := a.Operands[0].(logic.Var), a.Operands[1].(logic.Var)
		vm.state.Vars[dest.Value] = uint8(vm.itemRoom[int(vm.state.Vars[it.Value])])

	case logic.OpAddToPic:
		vm.addToPic(
			int(a.Operands[0].(logic.Num).Value), int(a.Operands[1].(logic.Num).Value), int(a.Operands[2].(logic.Num).Value),
			int(a.Operands[3].(logic.Num).Value), int(a.Operands[4].(logic.Num).Value),
			int(a.Operands[5].(logic.Num).Value), int(a.Operands[6].(logic.Num).Value))
	case logic.OpAddToPicV:
		vals := make([]int, 7)
		for i, o := range a.Operands {
			vals[i] = int(vm.state.Vars[o.(logic.Var).Value])
		}
		vm.addToPic(vals[0], vals[1], vals[2], vals[3], vals[4], vals[5], vals[6])

	default:
		return vm.execTextAction(logicNum, pc, res, a)
	}
	return next(), nil
}

// loadPicInto decodes picture num and redraws it from a cleared plane pair
// (load.pic/draw.pic's combined effect: the original separates load from
// draw, but nothing observable happens between the two without an
// intervening opcode this decoder tracks).
func (vm *VM) loadPicInto(num int) {
	program, err := vm.fetchPicProgram(num)
	if err != nil {
		vm.logger.Warnf("load.pic(%d): %v", num, err)
		return
	}
	vm.planes.Clear()
	if err := pic.Draw(program, vm.planes); err != nil {
		vm.logger.Warnf("pic.%d: draw failed: %v", num, err)
	}
}

// drawPic re-renders picture num onto the current planes; overlay leaves
// the existing planes in place (used for room overlays), a plain draw.pic
// clears first.
func (vm *VM) drawPic(num int, overlay bool) {
	program, err := vm.fetchPicProgram(num)
	if err != nil {
		vm.logger.Warnf("draw.pic(%d): %v", num, err)
		return
	}
	if !overlay {
		vm.planes.Clear()
	}
	if err := pic.Draw(program, vm.planes); err != nil {
		vm.logger.Warnf("pic.%d: draw failed: %v", num, err)
	}
	vm.state.TextMode = false
}

// addToPic implements spec.md §10's supplemented feature: stamp a view
// cel's pixels directly into the visual plane at (x, y), baseline-anchored
// like a sprite, and paint the priority plane across the cel's full
// bounding box (not just its opaque pixels) with the given priority,
// expanded by margin on every side.
func (vm *VM) addToPic(viewNum, loopNum, celNum, x, y, priority, margin int) {
	res, err := vm.fetchView(viewNum)
	if err != nil || loopNum >= len(res.Loops) {
		return
	}
	loop := res.Loops[loopNum]
	if celNum >= len(loop.Cels) {
		if len(loop.Cels) == 0 {
			return
		}
		celNum = len(loop.Cels) - 1
	}
	cel := loop.Cels[celNum]
	w, h := int(cel.Width), int(cel.Height)
	transparent := cel.TransparentColour()
	top := y - h + 1

	for dy := 0; dy < h; dy++ {
		py := top + dy
		if py < 0 || py >= pic.Height {
			continue
		}
		for dx := 0; dx < w; dx++ {
			px := x + dx
			if px < 0 || px >= pic.Width {
				continue
			}
			colour := cel.Pixels[dy*w+dx]
			if colour != transparent {
				vm.planes.Visual[py*pic.Width+px] = colour
			}
		}
	}

	for py := top - margin; py <= top+h-1+margin; py++ {
		if py < 0 || py >= pic.Height {
			continue
		}
		for px := x - margin; px <= x+w-1+margin; px++ {
			if px < 0 || px >= pic.Width {
				continue
			}
			vm.planes.Priority[py*pic.Width+px] = uint8(priority)
		}
	}
}

func (vm *VM) lastCelIndex(s *Sprite) int {
	res, ok := vm.views[s.ViewNum]
	if !ok || len(res.Loops) == 0 {
		return 0
	}
	loopIdx := s.Loop
	if loopIdx >= len(res.Loops) {
		loopIdx = len(res.Loops) - 1
	}
	n := len(res.Loops[loopIdx].Cels)
	if n == 0 {
		return 0
	}
	return n - 1
}

// startMoveTo begins a move.obj/move.obj.v motion: the sprite steps toward
// (x, y) each tick until it arrives, at which point flag is set (spec.md
// §4.6 "Sprite motion", MotionMoveTo).
func (vm *VM) startMoveTo(s *Sprite, x, y, speed, flag int) {
	s.Motion = MotionMoveTo
	s.TargetX, s.TargetY = x, y
	if speed != 0 {
		s.savedStep = s.StepSize
		s.StepSize = speed
	}
	s.MoveFlag = flag
	s.Moving = true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
