package vm

import (
	"agivm/internal/logic"
)

// execTextAction handles the message-window, direct-text, and input-line
// opcodes, including the resumable print/display/get.string/get.num/pause
// family. Falls through to execSystemAction for anything it does not
// recognise.
func (vm *VM) execTextAction(logicNum, pc int, res *logic.Resource, a logic.Action) (outcome, error) {
	switch a.Op {
	case logic.OpPrint:
		msg := a.Operands[0].(logic.Message)
		return vm.resumablePrint(logicNum, res.Messages.String(msg.Value), 0, 0, 0)
	case logic.OpPrintV:
		v := a.Operands[0].(logic.Var)
		return vm.resumablePrint(logicNum, res.Messages.String(vm.state.Vars[v.Value]), 0, 0, 0)
	case logic.OpPrintAtV0, logic.OpPrintAtV1:
		msg := a.Operands[0].(logic.Message)
		row, col := int(a.Operands[1].(logic.Num).Value), int(a.Operands[2].(logic.Num).Value)
		width := 0
		if len(a.Operands) > 3 {
			width = int(a.Operands[3].(logic.Num).Value)
		}
		return vm.resumablePrint(logicNum, res.Messages.String(msg.Value), col, row, width)
	case logic.OpPrintAtVV0, logic.OpPrintAtVV1:
		v := a.Operands[0].(logic.Var)
		row, col := int(a.Operands[1].(logic.Num).Value), int(a.Operands[2].(logic.Num).Value)
		width := 0
		if len(a.Operands) > 3 {
			width = int(a.Operands[3].(logic.Num).Value)
		}
		return vm.resumablePrint(logicNum, res.Messages.String(vm.state.Vars[v.Value]), col, row, width)

	case logic.OpDisplay:
		row, col := int(a.Operands[0].(logic.Num).Value), int(a.Operands[1].(logic.Num).Value)
		msg := a.Operands[2].(logic.Message)
		vm.displayAt(row, col, vm.expandMessage(res.Messages.String(msg.Value), logicNum))
	case logic.OpDisplayV:
		row := int(vm.state.Vars[a.Operands[0].(logic.Var).Value])
		col := int(vm.state.Vars[a.Operands[1].(logic.Var).Value])
		msgNum := vm.state.Vars[a.Operands[2].(logic.Var).Value]
		vm.displayAt(row, col, vm.expandMessage(res.Messages.String(msgNum), logicNum))

	case logic.OpClearLines:
		top, bottom := int(a.Operands[0].(logic.Num).Value), int(a.Operands[1].(logic.Num).Value)
		for row := top; row <= bottom && row < overlayRows; row++ {
			for col := 0; col < overlayCols; col++ {
				vm.overlaySet(col, row, textSentinel)
			}
		}
	case logic.OpClearTextRect:
		x1, y1 := int(a.Operands[0].(logic.Num).Value), int(a.Operands[1].(logic.Num).Value)
		x2, y2 := int(a.Operands[2].(logic.Num).Value), int(a.Operands[3].(logic.Num).Value)
		for row := y1; row <= y2; row++ {
			for col := x1; col <= x2; col++ {
				vm.overlaySet(col, row, textSentinel)
			}
		}
	case logic.OpTextScreen:
		vm.state.TextMode = true
	case logic.OpGraphics:
		vm.state.TextMode = false
	case logic.OpStatusLineOn, logic.OpStatusLineOff, logic.OpSetCursorChar, logic.OpSetTextAttribute,
		logic.OpShakeScreen, logic.OpConfigureScreen:
		// cosmetic text-mode opcodes with no effect on the planes/overlay
		// this VM maintains; accepted and ignored.

	case logic.OpSetString:
		slot := a.Operands[0].(logic.StringSlot)
		msg := a.Operands[1].(logic.Message)
		vm.state.Strings[slot.Value&0x0F] = vm.expandMessage(res.Messages.String(msg.Value), logicNum)
	case logic.OpGetString:
		slot := a.Operands[0].(logic.StringSlot)
		msg := a.Operands[1].(logic.Message)
		row, col := int(a.Operands[2].(logic.Num).Value), int(a.Operands[3].(logic.Num).Value)
		maxLen := int(a.Operands[4].(logic.Num).Value)
		return vm.resumableGetString(logicNum, slot.Value&0x0F, res.Messages.String(msg.Value), col, row, maxLen)
	case logic.OpGetNum:
		msg := a.Operands[0].(logic.Message)
		dest := a.Operands[1].(logic.Var)
		return vm.resumableGetNum(logicNum, dest.Value, res.Messages.String(msg.Value))
	case logic.OpParse:
		slot := a.Operands[0].(logic.StringSlot)
		vm.parseInputInto(vm.state.Strings[slot.Value&0x0F])

	case logic.OpPreventInput:
		vm.state.AcceptingInput = false
	case logic.OpAcceptInput:
		vm.state.AcceptingInput = true
	case logic.OpSetKey:
		lo, hi := a.Operands[0].(logic.Num), a.Operands[1].(logic.Num)
		ctl := a.Operands[2].(logic.Controller)
		vm.controllers.Bind(uint16(hi.Value)<<8|uint16(lo.Value), ctl.Value)

	case logic.OpShowObj:
		n := a.Operands[0].(logic.Num)
		return vm.resumableShowObj(int(n.Value))
	case logic.OpShowObjV:
		v := a.Operands[0].(logic.Var)
		return vm.resumableShowObj(int(vm.state.Vars[v.Value]))
	case logic.OpStatus:
		return vm.resumablePrint(logicNum, vm.statusText(), 0, 0, 0)
	case logic.OpPause:
		return vm.resumablePause()

	case logic.OpEchoLine:
		// nothing carried over from a prior entry to echo; treated as a
		// no-op rather than fabricating history this VM never recorded.
	case logic.OpCancelLine:
		vm.state.InputLine = ""
	case logic.OpCloseWindow:
		// every window this VM opens closes itself on dismissal; an
		// explicit close with nothing open is a no-op.

	case logic.OpSetMenu, logic.OpSetMenuMember, logic.OpSubmitMenu, logic.OpEnableMember,
		logic.OpDisableMember, logic.OpMenuInput, logic.OpOpenDialog, logic.OpCloseDialog:
		// the drop-down menu bar is a Non-goal; accepted as a no-op so a
		// game that sets one up still runs to completion.

	default:
		return vm.execSystemAction(logicNum, pc, res, a)
	}
	return next(), nil
}

// displayAt draws text directly onto the overlay at (row, col), no border,
// no wait-for-dismissal (the non-resumable counterpart of print).
func (vm *VM) displayAt(row, col int, text string) {
	for x, ch := range []byte(text) {
		vm.overlaySet(col+x, row, ch)
	}
}

// resumablePrint implements the print/print.at family: the first entry
// draws (or auto-positions) a message window and suspends; a later tick
// that finds a pending key dismisses it.
func (vm *VM) resumablePrint(logicNum int, text string, col, row, width int) (outcome, error) {
	if vm.resumed != nil && vm.resumed.kind == resumePrint {
		w := vm.resumed.data.(window)
		if vm.dismissWindow() {
			vm.closeWindow(w)
			vm.resumed = nil
			return next(), nil
		}
		return outcome{kind: outcomeSuspend, resumeKind: resumePrint, data: w}, nil
	}
	w := vm.drawWindow(vm.expandMessage(text, logicNum), col, row, width)
	vm.state.Vars[varWindowTimer] = vm.windowTimeout()
	return outcome{kind: outcomeSuspend, resumeKind: resumePrint, data: w}, nil
}

// resumableShowObj displays an inventory/view object's description in a
// dismissable window; this VM does not render the object's cels into the
// window (spec.md's message-expansion and window machinery cover text, not
// an inset picture viewer), only its %o-style name.
func (vm *VM) resumableShowObj(objNum int) (outcome, error) {
	name := ""
	if objNum >= 0 && objNum < len(vm.inventory.Items) {
		name = vm.inventory.Items[objNum].Name
	}
	if vm.resumed != nil && vm.resumed.kind == resumeShowObj {
		w := vm.resumed.data.(window)
		if vm.dismissWindow() {
			vm.closeWindow(w)
			vm.resumed = nil
			return next(), nil
		}
		return outcome{kind: outcomeSuspend, resumeKind: resumeShowObj, data: w}, nil
	}
	w := vm.drawWindow(name, 0, 0, 0)
	vm.state.Vars[varWindowTimer] = vm.windowTimeout()
	return outcome{kind: outcomeSuspend, resumeKind: resumeShowObj, data: w}, nil
}

// resumablePause suspends (showing a small "game paused" window) until any
// key is pressed.
func (vm *VM) resumablePause() (outcome, error) {
	if vm.resumed != nil && vm.resumed.kind == resumePause {
		w := vm.resumed.data.(window)
		if len(vm.keys) > 0 {
			vm.keys = vm.keys[1:]
			vm.closeWindow(w)
			vm.resumed = nil
			return next(), nil
		}
		return outcome{kind: outcomeSuspend, resumeKind: resumePause, data: w}, nil
	}
	w := vm.drawWindow("Game paused.", 0, 0, 0)
	return outcome{kind: outcomeSuspend, resumeKind: resumePause, data: w}, nil
}

// getStringState is the in-progress buffer a resumeGetString/resumeGetNum
// suspension carries across ticks.
type getStringState struct {
	w       window
	buf     []byte
	slot    uint8
	isNum   bool
	destVar uint8
}

// resumableGetString implements get.string: every tick that finds a typed
// key appends it (backspace removes the last character), Enter commits the
// accumulated text to the string slot and resumes, Escape cancels leaving
// the slot untouched.
func (vm *VM) resumableGetString(logicNum int, slot uint8, prompt string, col, row, maxLen int) (outcome, error) {
	if vm.resumed != nil && (vm.resumed.kind == resumeGetString) {
		st := vm.resumed.data.(*getStringState)
		if done, commit := vm.stepTypedInput(st, maxLen); done {
			vm.closeWindow(st.w)
			if commit {
				vm.state.Strings[st.slot&0x0F] = string(st.buf)
			}
			vm.resumed = nil
			return next(), nil
		}
		return outcome{kind: outcomeSuspend, resumeKind: resumeGetString, data: st}, nil
	}
	w := vm.drawWindow(vm.expandMessage(prompt, logicNum), col, row, 0)
	st := &getStringState{w: w, slot: slot}
	return outcome{kind: outcomeSuspend, resumeKind: resumeGetString, data: st}, nil
}

// resumableGetNum is get.string restricted to digits, committing the
// parsed number into a Var instead of a string slot.
func (vm *VM) resumableGetNum(logicNum int, destVar uint8, prompt string) (outcome, error) {
	if vm.resumed != nil && vm.resumed.kind == resumeGetNum {
		st := vm.resumed.data.(*getStringState)
		if done, commit := vm.stepTypedInput(st, 3); done {
			vm.closeWindow(st.w)
			if commit {
				n := 0
				for _, b := range st.buf {
					n = n*10 + int(b-'0')
				}
				if n > 255 {
					n = 255
				}
				vm.state.Vars[st.destVar] = uint8(n)
			}
			vm.resumed = nil
			return next(), nil
		}
		return outcome{kind: outcomeSuspend, resumeKind: resumeGetNum, data: st}, nil
	}
	w := vm.drawWindow(vm.expandMessage(prompt, logicNum), 0, 0, 0)
	st := &getStringState{w: w, isNum: true, destVar: destVar}
	return outcome{kind: outcomeSuspend, resumeKind: resumeGetNum, data: st}, nil
}

// key codes the host side is expected to use for line-editing control keys
// (spec.md §6 "PressKey"): ASCII control codes, matching the original
// interpreter's keyboard handling.
const (
	keyBackspace = 0x08
	keyEnter     = 0x0D
	keyEscape    = 0x1B
)

// stepTypedInput consumes every buffered key this tick against an
// in-progress typed-input suspension, returning done=true once Enter or
// Escape is seen (commit reports which).
func (vm *VM) stepTypedInput(st *getStringState, maxLen int) (done, commit bool) {
	for len(vm.keys) > 0 {
		k := vm.keys[0]
		vm.keys = vm.keys[1:]
		switch {
		case k == keyEnter:
			return true, true
		case k == keyEscape:
			return true, false
		case k == keyBackspace:
			if len(st.buf) > 0 {
				st.buf = st.buf[:len(st.buf)-1]
			}
		case k < 0x100 && len(st.buf) < maxLen:
			ch := byte(k)
			if st.isNum && (ch < '0' || ch > '9') {
				continue
			}
			st.buf = append(st.buf, ch)
		}
	}
	return false, false
}

// dismissWindow reports whether a plain (non-typing) resumable window
// should close this tick: any buffered key, or the message-window timeout
// counting down to zero once flagLeaveWindow requests it.
func (vm *VM) dismissWindow() bool {
	if vm.state.Flags[flagLeaveWindow] {
		if vm.state.Vars[varWindowTimer] > 0 {
			vm.state.Vars[varWindowTimer]--
		}
		if vm.state.Vars[varWindowTimer] == 0 {
			return true
		}
	}
	if len(vm.keys) > 0 {
		vm.keys = vm.keys[1:]
		return true
	}
	return false
}

// windowTimeout clamps the configured message-window timeout into a single
// byte for varWindowTimer.
func (vm *VM) windowTimeout() uint8 {
	n := vm.cfg.MessageWindowTimeoutTicks
	if n > 255 {
		n = 255
	}
	if n < 1 {
		n = 1
	}
	return uint8(n)
}

// statusText renders the status-window contents: show.status's score
// summary, drawn from the two well-known score/max-score variables.
func (vm *VM) statusText() string {
	return "Score: " + itoa(int(vm.state.Vars[3])) + " of " + itoa(int(vm.state.Vars[7]))
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
