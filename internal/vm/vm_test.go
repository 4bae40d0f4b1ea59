package vm

import (
	"testing"

	"agivm/internal/vm/testfixture"
)

// newScriptedGame builds a two-logic fixture exercising the tick cycle end
// to end: logic.0 sends ego to room 1 exactly once then calls logic.1 every
// pass; logic.1 bumps a counter, prints a message when controller 5 fires,
// and sets a flag when the player's parsed input matches a `said` pattern.
//
// logic.0:
//
//	if (equaln(v0, 1)) goto afterNewRoom
//	new.room(1)
//	afterNewRoom: call(1)
//	return
//
// logic.1:
//
//	set(f10)
//	increment(v50)
//	if (!controller(5)) goto afterPrint
//	print(1)
//	afterPrint: if (!said(look)) goto afterSaid
//	set(f20)
//	afterSaid: return
func newScriptedGame(t *testing.T) *VM {
	t.Helper()

	newRoomOp := testfixture.Op(0x12, 1) // new.room(1)
	callOp := testfixture.Op(0x16, 1)    // call(1)
	logic0Return := testfixture.Op(0x00)
	logic0 := testfixture.If(len(newRoomOp), testfixture.CondEqualN(0, 1)...)
	logic0 = append(logic0, newRoomOp...)
	logic0 = append(logic0, callOp...)
	logic0 = append(logic0, logic0Return...)

	setFlag10 := testfixture.Op(0x0C, 10)
	incVar50 := testfixture.Op(0x01, 50)
	printOp := testfixture.Op(0x65, 1) // print(message 1)
	setFlag20 := testfixture.Op(0x0C, 20)
	logic1Return := testfixture.Op(0x00)
	controllerGuard := testfixture.If(len(printOp), testfixture.Not(testfixture.CondController(5))...)
	saidGuard := testfixture.If(len(setFlag20), testfixture.Not(testfixture.CondSaid(50))...)

	var logic1 []byte
	logic1 = append(logic1, setFlag10...)
	logic1 = append(logic1, incVar50...)
	logic1 = append(logic1, controllerGuard...)
	logic1 = append(logic1, printOp...)
	logic1 = append(logic1, saidGuard...)
	logic1 = append(logic1, setFlag20...)
	logic1 = append(logic1, logic1Return...)

	fs := testfixture.Build(t, testfixture.Game{
		Logics: map[int][]byte{
			0: testfixture.LogicResource(logic0, nil),
			1: testfixture.LogicResource(logic1, []string{"Hello, adventurer!"}),
		},
		Words: []testfixture.Word{{Text: "look", Group: 50}},
	})

	vm, err := LoadGame(fs)
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	return vm
}

func TestLoadGameRunsRoomZeroNewRoom(t *testing.T) {
	vm := newScriptedGame(t)

	if vm.State().CurrentRoom != 1 {
		t.Fatalf("CurrentRoom = %d, want 1", vm.State().CurrentRoom)
	}
	if !vm.State().Flags[10] {
		t.Fatalf("flag 10 should be set after logic.1's first call")
	}
	if vm.State().Vars[50] != 1 {
		t.Fatalf("var 50 = %d, want 1 after the initial call", vm.State().Vars[50])
	}
}

func TestTickRunsLogicOneEveryPass(t *testing.T) {
	vm := newScriptedGame(t)

	if err := vm.Tick(false, false); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if vm.State().Vars[50] != 2 {
		t.Fatalf("var 50 = %d, want 2 after one extra tick", vm.State().Vars[50])
	}
	if vm.State().CurrentRoom != 1 {
		t.Fatalf("room changed unexpectedly to %d", vm.State().CurrentRoom)
	}
}

// TestResumablePrintSuspendsAcrossTicks drives a controller-triggered print
// through suspension, a stalled re-check tick, and dismissal by keypress,
// confirming the call stack genuinely freezes mid-script rather than
// restarting logic.1 from the top on every tick.
func TestResumablePrintSuspendsAcrossTicks(t *testing.T) {
	vm := newScriptedGame(t)

	const controllerKey = 0x3D00 // an F-key scan code, clear of ASCII and directional ranges
	vm.SetController(5, controllerKey)
	vm.PressKey(controllerKey)

	if err := vm.Tick(false, false); err != nil {
		t.Fatalf("Tick (triggers print): %v", err)
	}
	if vm.State().Vars[50] != 2 {
		t.Fatalf("var 50 = %d, want 2 (incremented before the print suspended)", vm.State().Vars[50])
	}
	if vm.resumed == nil || vm.resumed.kind != resumePrint {
		t.Fatalf("expected a resumePrint suspension, got %#v", vm.resumed)
	}

	if err := vm.Tick(false, false); err != nil {
		t.Fatalf("Tick (no key, should stay suspended): %v", err)
	}
	if vm.State().Vars[50] != 2 {
		t.Fatalf("var 50 = %d, want still 2 while the print window is open", vm.State().Vars[50])
	}
	if vm.resumed == nil || vm.resumed.kind != resumePrint {
		t.Fatalf("print window dismissed without a keypress")
	}

	vm.PressKey(keyEnter)
	if err := vm.Tick(false, false); err != nil {
		t.Fatalf("Tick (dismiss): %v", err)
	}
	if vm.resumed != nil {
		t.Fatalf("expected the suspension to clear once dismissed, got %#v", vm.resumed)
	}
	if vm.State().Vars[50] != 2 {
		t.Fatalf("var 50 = %d, want still 2 (dismissal finishes the same pass, it doesn't start a new one)", vm.State().Vars[50])
	}

	if err := vm.Tick(false, false); err != nil {
		t.Fatalf("Tick (fresh pass): %v", err)
	}
	if vm.State().Vars[50] != 3 {
		t.Fatalf("var 50 = %d, want 3 on the next full pass", vm.State().Vars[50])
	}
	if vm.resumed != nil {
		t.Fatalf("controller should have been consumed already, unexpected suspension %#v", vm.resumed)
	}
}

func TestSaidConditionSetsFlag(t *testing.T) {
	vm := newScriptedGame(t)

	vm.parseInputInto("look")
	if vm.State().Flags[flagSaidAccepted] {
		t.Fatalf("parseInputInto should leave flagSaidAccepted false until the said test runs")
	}

	if err := vm.Tick(false, false); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if !vm.State().Flags[20] {
		t.Fatalf("flag 20 should be set once logic.1's said(look) test matches")
	}
	if !vm.State().Flags[flagSaidAccepted] {
		t.Fatalf("flagSaidAccepted should be set once said(look) matches")
	}
}

func TestBreakpointSuspendsBeforeOpcodeExecutes(t *testing.T) {
	vm := newScriptedGame(t)
	vm.SetBreakpoint(1, 0, true)

	if err := vm.Tick(false, false); err != nil {
		t.Fatalf("Tick (should stop at the breakpoint): %v", err)
	}
	if vm.resumed == nil || vm.resumed.kind != resumeBreakpoint {
		t.Fatalf("expected a resumeBreakpoint suspension, got %#v", vm.resumed)
	}
	if vm.State().Vars[50] != 1 {
		t.Fatalf("var 50 = %d, want still 1 (logic.1's body must not run past the breakpoint)", vm.State().Vars[50])
	}

	vm.ResumeFromBreakpoint()
	if err := vm.Tick(false, false); err != nil {
		t.Fatalf("Tick (resumed past the breakpoint): %v", err)
	}
	if vm.resumed != nil {
		t.Fatalf("breakpoint was temporary, should not re-trigger: %#v", vm.resumed)
	}
	if vm.State().Vars[50] != 2 {
		t.Fatalf("var 50 = %d, want 2 once logic.1 ran past the cleared breakpoint", vm.State().Vars[50])
	}
}

func TestFramebufferSizedForDoubledWidthAndStatusRows(t *testing.T) {
	vm := newScriptedGame(t)
	buf := vm.Framebuffer()
	if len(buf) != FramebufferWidth*FramebufferHeight {
		t.Fatalf("Framebuffer() length = %d, want %d", len(buf), FramebufferWidth*FramebufferHeight)
	}
}

func TestControllersOneShotConsumedOnRead(t *testing.T) {
	c := NewControllers()
	c.Bind(0x1234, 7)
	c.Press(0x1234)

	if !c.Test(7) {
		t.Fatalf("first Test should observe the press")
	}
	if c.Test(7) {
		t.Fatalf("second Test in the same tick should not observe a stale press")
	}

	c.Press(0x1234)
	c.ResetTick()
	if c.Test(7) {
		t.Fatalf("ResetTick should clear an unconsumed press")
	}
}
