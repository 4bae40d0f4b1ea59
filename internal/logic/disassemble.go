package logic

import (
	"fmt"
	"strconv"
	"strings"
)

// opNames gives the lowercase, dotted AGI mnemonic for each OpCode, the
// form the original tools and most fan documentation print. Only opcodes
// that take no special-cased rendering below need to appear here; Goto and
// If are handled separately since they carry structured targets/conditions
// rather than a flat operand list.
var opNames = map[OpCode]string{
	OpReturn: "return", OpIncrement: "increment", OpDecrement: "decrement",
	OpAssignN: "assignn", OpAssignV: "assignv", OpAddN: "addn", OpAddV: "addv",
	OpSubN: "subn", OpSubV: "subv", OpLIndirectV: "lindirectv",
	OpRIndirect: "rindirect", OpLIndirectN: "lindirectn", OpSet: "set",
	OpReset: "reset", OpToggle: "toggle", OpSetV: "set.v", OpResetV: "reset.v",
	OpNewRoom: "new.room", OpNewRoomV: "new.room.v", OpLoadLogic: "load.logic",
	OpLoadLogicV: "load.logic.v", OpCall: "call", OpCallV: "call.v",
	OpLoadPic: "load.pic", OpDrawPic: "draw.pic", OpShowPic: "show.pic",
	OpOverlayPic: "overlay.pic", OpDiscardPic: "discard.pic",
	OpShowPriScreen: "show.pri.screen", OpLoadView: "load.view",
	OpLoadViewV: "load.view.v", OpDiscardView: "discard.view",
	OpAnimateObj: "animate.obj", OpUnanimateAll: "unanimate.all",
	OpDraw: "draw", OpErase: "erase", OpPosition: "position",
	OpPositionV: "position.v", OpGetPosN: "get.posn", OpReposition: "reposition",
	OpSetView: "set.view", OpSetViewV: "set.view.v", OpSetLoop: "set.loop",
	OpSetLoopV: "set.loop.v", OpFixLoop: "fix.loop", OpReleaseLoop: "release.loop",
	OpSetCel: "set.cel", OpSetCelV: "set.cel.v", OpLastCel: "last.cel",
	OpCurrentCel: "current.cel", OpCurrentLoop: "current.loop",
	OpCurrentView: "current.view", OpSetPriority: "set.priority",
	OpSetPriorityV: "set.priority.v", OpReleasePriority: "release.priority",
	OpGetPriority: "get.priority", OpStopUpdate: "stop.update",
	OpStartUpdate: "start.update", OpForceUpdate: "force.update",
	OpIgnoreHorizon: "ignore.horizon", OpObserveHorizon: "observe.horizon",
	OpSetHorizon: "set.horizon", OpObjectOnWater: "object.on.water",
	OpObjectOnLand: "object.on.land", OpObjectOnAnything: "object.on.anything",
	OpIgnoreObjs: "ignore.objs", OpObserveObjs: "observe.objs",
	OpDistance: "distance", OpStopCycling: "stop.cycling",
	OpStartCycling: "start.cycling", OpNormalCycle: "normal.cycle",
	OpEndOfLoop: "end.of.loop", OpReverseLoop: "reverse.loop",
	OpReverseCycle: "reverse.cycle", OpCycleTime: "cycle.time",
	OpStopMotion: "stop.motion", OpStartMotion: "start.motion",
	OpStepSize: "step.size", OpStepTime: "step.time", OpMoveObj: "move.obj",
	OpMoveObjV: "move.obj.v", OpFollowEgo: "follow.ego", OpWander: "wander",
	OpNormalMotion: "normal.motion", OpSetDir: "set.dir", OpGetDir: "get.dir",
	OpIgnoreBlocks: "ignore.blocks", OpObserveBlocks: "observe.blocks",
	OpBlock: "block", OpUnblock: "unblock", OpGet: "get", OpGetV: "get.v",
	OpDrop: "drop", OpPut: "put", OpPutV: "put.v", OpGetRoomV: "get.room.v",
	OpLoadSound: "load.sound", OpSound: "sound", OpStopSound: "stop.sound",
	OpPrint: "print", OpPrintV: "print.v", OpDisplay: "display",
	OpDisplayV: "display.v", OpClearLines: "clear.lines",
	OpTextScreen: "text.screen", OpGraphics: "graphics",
	OpSetCursorChar: "set.cursor.char", OpSetTextAttribute: "set.text.attribute",
	OpShakeScreen: "shake.screen", OpConfigureScreen: "configure.screen",
	OpStatusLineOn: "status.line.on", OpStatusLineOff: "status.line.off",
	OpSetString: "set.string", OpGetString: "get.string", OpParse: "parse",
	OpGetNum: "get.num", OpPreventInput: "prevent.input",
	OpAcceptInput: "accept.input", OpSetKey: "set.key", OpAddToPic: "add.to.pic",
	OpAddToPicV: "add.to.pic.v", OpStatus: "status", OpSaveGame: "save.game",
	OpRestoreGame: "restore.game", OpRestartGame: "restart.game",
	OpShowObj: "show.obj", OpRandom: "random", OpProgramControl: "program.control",
	OpPlayerControl: "player.control", OpObjStatusV: "obj.status.v",
	OpQuitV0: "quit", OpQuitV1: "quit", OpShowMem: "show.mem", OpPause: "pause",
	OpEchoLine: "echo.line", OpCancelLine: "cancel.line", OpInitJoy: "init.joy",
	OpToggleMonitor: "toggle.monitor", OpScriptSize: "script.size",
	OpVersion: "version", OpSetGameID: "set.game.id", OpLog: "log",
	OpSetScanStart: "set.scan.start", OpResetScanStart: "reset.scan.start",
	OpRepositionTo: "reposition.to", OpRepositionToV: "reposition.to.v",
	OpTraceInfo: "trace.info", OpPrintAtV0: "print.at", OpPrintAtV1: "print.at",
	OpPrintAtVV0: "print.at.v", OpPrintAtVV1: "print.at.v",
	OpClearTextRect: "clear.text.rect", OpSetMenu: "set.menu",
	OpSetMenuMember: "set.menu.member", OpSubmitMenu: "submit.menu",
	OpDisableMember: "disable.member", OpEnableMember: "enable.member",
	OpMenuInput: "menu.input", OpShowObjV: "show.obj.v", OpOpenDialog: "open.dialog",
	OpCloseDialog: "close.dialog", OpCloseWindow: "close.window",
	OpMulN: "muln", OpMulV: "mulv", OpDivN: "divn", OpDivV: "divv",
}

// operandText renders a single operand the way the original AGI tools
// print it: a one-letter class tag followed by its value, except for an
// Item operand, which prints the resolved inventory name when itemName
// can supply one.
func operandText(o Operand, itemName func(uint8) string) string {
	switch v := o.(type) {
	case Flag:
		return "f" + strconv.Itoa(int(v.Value))
	case Var:
		return "v" + strconv.Itoa(int(v.Value))
	case Num:
		return strconv.Itoa(int(v.Value))
	case Object:
		return "o" + strconv.Itoa(int(v.Value))
	case Controller:
		return "c" + strconv.Itoa(int(v.Value))
	case Message:
		return "m" + strconv.Itoa(int(v.Value))
	case StringSlot:
		return "s" + strconv.Itoa(int(v.Value))
	case Item:
		if itemName != nil {
			if name := itemName(v.Value); name != "" {
				return fmt.Sprintf("item:%d\"%s\"", v.Value, name)
			}
		}
		return "item:" + strconv.Itoa(int(v.Value))
	case Word:
		switch v.Value {
		case 1:
			return "word:1<any>"
		case 9999:
			return "word:9999<rest of line>"
		default:
			return "word:" + strconv.Itoa(int(v.Value))
		}
	default:
		return "?"
	}
}

// disassembleCondition renders one condition term, including a negated
// prefix and nested or-groups.
func disassembleCondition(c Condition, itemName func(uint8) string) string {
	var text string
	if c.Or != nil {
		parts := make([]string, len(c.Or))
		for i, inner := range c.Or {
			parts[i] = disassembleCondition(inner, itemName)
		}
		text = "( " + strings.Join(parts, " || ") + " )"
	} else {
		operands := make([]string, len(c.Operands))
		for i, op := range c.Operands {
			operands[i] = operandText(op, itemName)
		}
		text = fmt.Sprintf("%s(%s)", condName(c.Code), strings.Join(operands, ","))
	}
	if c.Negate {
		return "!" + text
	}
	return text
}

var condNames = map[ConditionCode]string{
	CondEqualN: "equaln", CondEqualV: "equalv", CondLessN: "lessn",
	CondLessV: "lessv", CondGreaterN: "greatern", CondGreaterV: "greaterv",
	CondIsSet: "isset", CondIsSetV: "isset.v", CondHas: "has",
	CondObjInRoom: "obj.in.room", CondPosN: "posn", CondController: "controller",
	CondHaveKey: "have.key", CondSaid: "said", CondCompareStrings: "compare.strings",
	CondObjInBox: "obj.in.box", CondCenterPosN: "center.posn", CondRightPosN: "right.posn",
}

func condName(c ConditionCode) string {
	if name, ok := condNames[c]; ok {
		return name
	}
	return fmt.Sprintf("cond0x%02X", uint8(c))
}

// Disassemble renders one decoded operation as a single line of AGI-style
// source text, e.g. "increment(v5)" or
// "if (equaln(v0,0) && ( has(item:3) || isset(f5) )) goto(12)".
// itemName resolves an Item operand's inventory name for display; pass nil
// to print bare item numbers.
func Disassemble(a Action, itemName func(uint8) string) string {
	if a.Op == OpGoto {
		return fmt.Sprintf("goto(%d)", a.Target.Address)
	}
	if a.Op == OpIf {
		parts := make([]string, len(a.Conditions))
		for i, c := range a.Conditions {
			parts[i] = disassembleCondition(c, itemName)
		}
		return fmt.Sprintf("if (%s) goto(%d)", strings.Join(parts, " && "), a.Target.Address)
	}
	name, ok := opNames[a.Op]
	if !ok {
		name = fmt.Sprintf("op0x%02X", uint8(a.Op))
	}
	operands := make([]string, len(a.Operands))
	for i, op := range a.Operands {
		operands[i] = operandText(op, itemName)
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(operands, ","))
}

// DisassembleSequence renders every operation in seq, prefixing each line
// with its operation index and, when the operation's byte address is a
// jump target, a "[label N]" marker giving that address.
func DisassembleSequence(seq *Sequence, itemName func(uint8) string) []string {
	addressOf := make(map[int]int, len(seq.Labels))
	for addr, l := range seq.Labels {
		addressOf[l.OperationIndex] = addr
	}

	lines := make([]string, 0, len(seq.Operations))
	for i, op := range seq.Operations {
		prefix := fmt.Sprintf("%4d: ", i)
		if addr, ok := addressOf[i]; ok {
			prefix = fmt.Sprintf("%4d: [label %d] ", i, addr)
		}
		lines = append(lines, prefix+Disassemble(op, itemName))
	}
	return lines
}
