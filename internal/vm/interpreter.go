package vm

import (
	"fmt"

	"agivm/internal/logic"
)

// outcomeKind tells runStack what to do with the call stack after one
// action has executed.
type outcomeKind int

const (
	outcomeNext outcomeKind = iota
	outcomeJump
	outcomeReturn
	outcomeCall
	outcomeSuspend
)

// outcome is execAction's verdict: how the interpreter loop should move the
// program counter, or that it must suspend for user input (spec.md §4.6
// "Resumable opcodes").
type outcome struct {
	kind       outcomeKind
	jumpTarget int // absolute byte address, for outcomeJump
	callTarget int // logic resource number, for outcomeCall
	resumeKind resumeKind
	data       interface{}
}

func next() outcome { return outcome{kind: outcomeNext} }

// runLogic0Cycle implements spec.md §4.6 step 9: invoke logic 0 from its
// call stack (fresh, or resumed from a prior suspended tick), and whenever
// it completes having set a pending new-room, perform room-entry
// housekeeping and run it again, repeating until a pass finishes without a
// room change.
func (vm *VM) runLogic0Cycle() error {
	for {
		if vm.callStack == nil {
			if _, ok := vm.logicDir.Get(0); !ok {
				return nil // a bare test fixture may carry no logic.0 at all
			}
			vm.callStack = []frame{{logicNum: 0, pc: vm.scanStart[0]}}
		}

		suspended, err := vm.runStack()
		if err != nil {
			return err
		}
		if suspended {
			return nil
		}

		vm.callStack = nil
		if vm.state.NewRoom == 0 {
			return nil
		}
		target := vm.state.NewRoom
		vm.state.NewRoom = 0
		vm.enterRoom(target)
	}
}

// runStack drives the call-stack-based interpreter until the stack empties
// (the outermost script returned) or an opcode suspends for input. Because
// the stack lives on the VM rather than the Go call stack, a suspension
// freezes the exact nested call chain across Tick invocations.
func (vm *VM) runStack() (suspended bool, err error) {
	for len(vm.callStack) > 0 {
		top := &vm.callStack[len(vm.callStack)-1]

		res, ferr := vm.fetchLogic(top.logicNum)
		if ferr != nil {
			// an unresolvable call/new.room target behaves as an immediate
			// return from that script rather than aborting the whole tick.
			vm.callStack = vm.callStack[:len(vm.callStack)-1]
			continue
		}

		ops := res.Sequence.Operations
		if top.pc < 0 || top.pc >= len(ops) {
			vm.callStack = vm.callStack[:len(vm.callStack)-1]
			continue
		}

		if vm.resumed == nil && vm.hitBreakpoint(top.logicNum, top.pc) {
			vm.resumed = &resumePoint{logicNum: top.logicNum, pc: top.pc, kind: resumeBreakpoint}
			return true, nil
		}

		out, aerr := vm.execAction(top.logicNum, top.pc, res, ops[top.pc])
		if aerr != nil {
			return false, aerr
		}

		switch out.kind {
		case outcomeNext:
			top.pc++
		case outcomeJump:
			idx, ok := res.Sequence.LookupOperation(out.jumpTarget)
			if !ok {
				return false, fmt.Errorf("vm: logic.%d: unresolved jump to byte %d", top.logicNum, out.jumpTarget)
			}
			top.pc = idx
		case outcomeReturn:
			vm.callStack = vm.callStack[:len(vm.callStack)-1]
		case outcomeCall:
			top.pc++
			vm.callStack = append(vm.callStack, frame{logicNum: out.callTarget, pc: vm.scanStart[out.callTarget]})
		case outcomeSuspend:
			vm.resumed = &resumePoint{logicNum: top.logicNum, pc: top.pc, kind: out.resumeKind, data: out.data}
			return true, nil
		}
	}
	return false, nil
}

func (vm *VM) hitBreakpoint(script, pc int) bool {
	for i, bp := range vm.breakpoints {
		if bp.script == script && bp.pc == pc {
			if bp.temporary {
				vm.breakpoints = append(vm.breakpoints[:i], vm.breakpoints[i+1:]...)
			}
			return true
		}
	}
	return false
}

// ResumeFromBreakpoint clears a debugger breakpoint suspension, letting the
// next Tick retry the stopped opcode (a debugger's "continue").
func (vm *VM) ResumeFromBreakpoint() {
	if vm.resumed != nil && vm.resumed.kind == resumeBreakpoint {
		vm.resumed = nil
	}
}

// execAction dispatches one decoded Action, mutating VM state and
// returning how the interpreter loop should proceed. logicNum/res identify
// the script the action belongs to, needed by message/string/call opcodes.
func (vm *VM) execAction(logicNum, pc int, res *logic.Resource, a logic.Action) (outcome, error) {
	switch a.Op {
	case logic.OpReturn:
		return outcome{kind: outcomeReturn}, nil
	case logic.OpGoto:
		return outcome{kind: outcomeJump, jumpTarget: a.Target.Address}, nil
	case logic.OpIf:
		taken, err := vm.evalConditions(logicNum, a.Conditions)
		if err != nil {
			return outcome{}, err
		}
		if taken {
			return outcome{kind: outcomeJump, jumpTarget: a.Target.Address}, nil
		}
		return next(), nil

	case logic.OpIncrement:
		v := a.Operands[0].(logic.Var)
		if vm.state.Vars[v.Value] < 255 {
			vm.state.Vars[v.Value]++
		}
	case logic.OpDecrement:
		v := a.Operands[0].(logic.Var)
		if vm.state.Vars[v.Value] > 0 {
			vm.state.Vars[v.Value]--
		}
	case logic.OpAssignN:
		v, n := a.Operands[0].(logic.Var), a.Operands[1].(logic.Num)
		vm.state.Vars[v.Value] = n.Value
	case logic.OpAssignV:
		v, w := a.Operands[0].(logic.Var), a.Operands[1].(logic.Var)
		vm.state.Vars[v.Value] = vm.state.Vars[w.Value]
	case logic.OpAddN:
		v, n := a.Operands[0].(logic.Var), a.Operands[1].(logic.Num)
		vm.state.Vars[v.Value] += n.Value
	case logic.OpAddV:
		v, w := a.Operands[0].(logic.Var), a.Operands[1].(logic.Var)
		vm.state.Vars[v.Value] += vm.state.Vars[w.Value]
	case logic.OpSubN:
		v, n := a.Operands[0].(logic.Var), a.Operands[1].(logic.Num)
		vm.state.Vars[v.Value] -= n.Value
	case logic.OpSubV:
		v, w := a.Operands[0].(logic.Var), a.Operands[1].(logic.Var)
		vm.state.Vars[v.Value] -= vm.state.Vars[w.Value]
	case logic.OpMulN:
		v, n := a.Operands[0].(logic.Var), a.Operands[1].(logic.Num)
		vm.state.Vars[v.Value] *= n.Value
	case logic.OpMulV:
		v, w := a.Operands[0].(logic.Var), a.Operands[1].(logic.Var)
		vm.state.Vars[v.Value] *= vm.state.Vars[w.Value]
	case logic.OpDivN:
		v, n := a.Operands[0].(logic.Var), a.Operands[1].(logic.Num)
		if n.Value != 0 {
			vm.state.Vars[v.Value] /= n.Value
		}
	case logic.OpDivV:
		v, w := a.Operands[0].(logic.Var), a.Operands[1].(logic.Var)
		if vm.state.Vars[w.Value] != 0 {
			vm.state.Vars[v.Value] /= vm.state.Vars[w.Value]
		}
	case logic.OpLIndirectV:
		a0, b := a.Operands[0].(logic.Var), a.Operands[1].(logic.Var)
		vm.state.Vars[vm.state.Vars[a0.Value]] = vm.state.Vars[b.Value]
	case logic.OpRIndirect:
		a0, b := a.Operands[0].(logic.Var), a.Operands[1].(logic.Var)
		vm.state.Vars[a0.Value] = vm.state.Vars[vm.state.Vars[b.Value]]
	case logic.OpLIndirectN:
		a0, n := a.Operands[0].(logic.Var), a.Operands[1].(logic.Num)
		vm.state.Vars[vm.state.Vars[a0.Value]] = n.Value

	case logic.OpSet:
		f := a.Operands[0].(logic.Flag)
		vm.state.Flags[f.Value] = true
	case logic.OpReset:
		f := a.Operands[0].(logic.Flag)
		vm.state.Flags[f.Value] = false
	case logic.OpToggle:
		f := a.Operands[0].(logic.Flag)
		vm.state.Flags[f.Value] = !vm.state.Flags[f.Value]
	case logic.OpSetV:
		v := a.Operands[0].(logic.Var)
		vm.state.Flags[vm.state.Vars[v.Value]] = true
	case logic.OpResetV:
		v := a.Operands[0].(logic.Var)
		vm.state.Flags[vm.state.Vars[v.Value]] = false

	case logic.OpNewRoom:
		n := a.Operands[0].(logic.Num)
		vm.state.NewRoom = int(n.Value)
		// ends the whole pass: runStack pops this last frame and the room
		// change happens before logic 0 runs again.
		vm.callStack = vm.callStack[:1]
		return outcome{kind: outcomeReturn}, nil
	case logic.OpNewRoomV:
		v := a.Operands[0].(logic.Var)
		vm.state.NewRoom = int(vm.state.Vars[v.Value])
		vm.callStack = vm.callStack[:1]
		return outcome{kind: outcomeReturn}, nil
	case logic.OpLoadLogic:
		n := a.Operands[0].(logic.Num)
		if _, err := vm.fetchLogic(int(n.Value)); err != nil {
			vm.logger.Warnf("load.logic(%d): %v", n.Value, err)
		}
	case logic.OpLoadLogicV:
		v := a.Operands[0].(logic.Var)
		if _, err := vm.fetchLogic(int(vm.state.Vars[v.Value])); err != nil {
			vm.logger.Warnf("load.logic.v: %v", err)
		}
	case logic.OpCall:
		n := a.Operands[0].(logic.Num)
		return outcome{kind: outcomeCall, callTarget: int(n.Value)}, nil
	case logic.OpCallV:
		v := a.Operands[0].(logic.Var)
		return outcome{kind: outcomeCall, callTarget: int(vm.state.Vars[v.Value])}, nil

	default:
		return vm.execExtendedAction(logicNum, pc, res, a)
	}
	return next(), nil
}

// evalConditions implements spec.md §4.6's `if` evaluation: every top-level
// entry must hold (implicit AND), an Or entry holds if any member holds,
// and Negate flips any single test (including one inside an Or group).
func (vm *VM) evalConditions(logicNum int, conds []logic.Condition) (bool, error) {
	for _, c := range conds {
		ok, err := vm.evalCondition(logicNum, c)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func (vm *VM) evalCondition(logicNum int, c logic.Condition) (bool, error) {
	if c.Or != nil {
		any := false
		for _, sub := range c.Or {
			ok, err := vm.evalCondition(logicNum, sub)
			if err != nil {
				return false, err
			}
			if ok {
				any = true
			}
		}
		return any, nil
	}

	result, err := vm.testCondition(logicNum, c)
	if err != nil {
		return false, err
	}
	if c.Negate {
		result = !result
	}
	return result, nil
}

func (vm *VM) testCondition(logicNum int, c logic.Condition) (bool, error) {
	switch c.Code {
	case logic.CondEqualN:
		v, n := c.Operands[0].(logic.Var), c.Operands[1].(logic.Num)
		return vm.state.Vars[v.Value] == n.Value, nil
	case logic.CondEqualV:
		v, w := c.Operands[0].(logic.Var), c.Operands[1].(logic.Var)
		return vm.state.Vars[v.Value] == vm.state.Vars[w.Value], nil
	case logic.CondLessN:
		v, n := c.Operands[0].(logic.Var), c.Operands[1].(logic.Num)
		return vm.state.Vars[v.Value] < n.Value, nil
	case logic.CondLessV:
		v, w := c.Operands[0].(logic.Var), c.Operands[1].(logic.Var)
		return vm.state.Vars[v.Value] < vm.state.Vars[w.Value], nil
	case logic.CondGreaterN:
		v, n := c.Operands[0].(logic.Var), c.Operands[1].(logic.Num)
		return vm.state.Vars[v.Value] > n.Value, nil
	case logic.CondGreaterV:
		v, w := c.Operands[0].(logic.Var), c.Operands[1].(logic.Var)
		return vm.state.Vars[v.Value] > vm.state.Vars[w.Value], nil
	case logic.CondIsSet:
		f := c.Operands[0].(logic.Flag)
		return vm.state.Flags[f.Value], nil
	case logic.CondIsSetV:
		v := c.Operands[0].(logic.Var)
		return vm.state.Flags[vm.state.Vars[v.Value]], nil
	case logic.CondHas:
		it := c.Operands[0].(logic.Item)
		return vm.itemRoom[int(it.Value)] == 0, nil
	case logic.CondObjInRoom:
		it, v := c.Operands[0].(logic.Item), c.Operands[1].(logic.Var)
		return vm.itemRoom[int(it.Value)] == int(vm.state.Vars[v.Value]), nil
	case logic.CondController:
		ctl := c.Operands[0].(logic.Controller)
		return vm.controllers.Test(ctl.Value), nil
	case logic.CondHaveKey:
		return len(vm.keys) > 0, nil
	case logic.CondSaid:
		return vm.evalSaid(c.Operands), nil
	case logic.CondCompareStrings:
		a, b := c.Operands[0].(logic.StringSlot), c.Operands[1].(logic.StringSlot)
		return equalFold(vm.state.Strings[a.Value&0x0F], vm.state.Strings[b.Value&0x0F]), nil
	case logic.CondPosN:
		return vm.evalPosN(c.Operands), nil
	case logic.CondObjInBox:
		return vm.evalObjInBox(c.Operands), nil
	case logic.CondCenterPosN:
		return vm.evalCenterPosN(c.Operands), nil
	case logic.CondRightPosN:
		return vm.evalRightPosN(c.Operands), nil
	default:
		return false, fmt.Errorf("vm: logic.%d: unhandled condition code %d", logicNum, c.Code)
	}
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

func (vm *VM) spriteOf(o logic.Operand) *Sprite {
	obj := o.(logic.Object)
	idx := int(obj.Value)
	if idx < 0 || idx >= len(vm.state.Sprites) {
		return nil
	}
	return &vm.state.Sprites[idx]
}

func (vm *VM) evalPosN(ops []logic.Operand) bool {
	s := vm.spriteOf(ops[0])
	if s == nil {
		return false
	}
	x1, y1 := int(ops[1].(logic.Num).Value), int(ops[2].(logic.Num).Value)
	x2, y2 := int(ops[3].(logic.Num).Value), int(ops[4].(logic.Num).Value)
	return s.X >= x1 && s.X <= x2 && s.Y >= y1 && s.Y <= y2
}

func (vm *VM) evalCenterPosN(ops []logic.Operand) bool {
	s := vm.spriteOf(ops[0])
	if s == nil {
		return false
	}
	w, _, _, _, ok := vm.celOf(s)
	if !ok {
		w = 0
	}
	cx := s.X + w/2
	x1, y1 := int(ops[1].(logic.Num).Value), int(ops[2].(logic.Num).Value)
	x2, y2 := int(ops[3].(logic.Num).Value), int(ops[4].(logic.Num).Value)
	return cx >= x1 && cx <= x2 && s.Y >= y1 && s.Y <= y2
}

func (vm *VM) evalRightPosN(ops []logic.Operand) bool {
	s := vm.spriteOf(ops[0])
	if s == nil {
		return false
	}
	w, _, _, _, ok := vm.celOf(s)
	if !ok {
		w = 0
	}
	rx := s.X + w
	x1, y1 := int(ops[1].(logic.Num).Value), int(ops[2].(logic.Num).Value)
	x2, y2 := int(ops[3].(logic.Num).Value), int(ops[4].(logic.Num).Value)
	return rx >= x1 && rx <= x2 && s.Y >= y1 && s.Y <= y2
}

func (vm *VM) evalObjInBox(ops []logic.Operand) bool {
	s := vm.spriteOf(ops[0])
	if s == nil {
		return false
	}
	w, h, _, _, ok := vm.celOf(s)
	if !ok {
		w, h = 0, 0
	}
	x1, y1 := int(ops[1].(logic.Num).Value), int(ops[2].(logic.Num).Value)
	x2, y2 := int(ops[3].(logic.Num).Value), int(ops[4].(logic.Num).Value)
	top := s.Y - h + 1
	return s.X >= x1 && s.X+w <= x2 && top >= y1 && s.Y <= y2
}
