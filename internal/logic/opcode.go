package logic

import (
	"errors"
	"fmt"
)

// ErrUnhandledAction is returned for an action byte this decoder does not
// recognise (the byte falls in a gap the original opcode table never
// assigned).
var ErrUnhandledAction = errors.New("logic: unhandled action opcode")

// OpCode identifies one action operation. Names mirror the operation they
// perform rather than the opcode table's raw byte value.
type OpCode uint8

const (
	OpReturn OpCode = iota
	OpIncrement
	OpDecrement
	OpAssignN
	OpAssignV
	OpAddN
	OpAddV
	OpSubN
	OpSubV
	OpLIndirectV
	OpRIndirect
	OpLIndirectN
	OpSet
	OpReset
	OpToggle
	OpSetV
	OpResetV
	OpNewRoom
	OpNewRoomV
	OpLoadLogic
	OpLoadLogicV
	OpCall
	OpCallV
	OpLoadPic
	OpDrawPic
	OpShowPic
	OpOverlayPic
	OpDiscardPic
	OpShowPriScreen
	OpLoadView
	OpLoadViewV
	OpDiscardView
	OpAnimateObj
	OpUnanimateAll
	OpDraw
	OpErase
	OpPosition
	OpPositionV
	OpGetPosN
	OpReposition
	OpSetView
	OpSetViewV
	OpSetLoop
	OpSetLoopV
	OpFixLoop
	OpReleaseLoop
	OpSetCel
	OpSetCelV
	OpLastCel
	OpCurrentCel
	OpCurrentLoop
	OpCurrentView
	OpSetPriority
	OpSetPriorityV
	OpReleasePriority
	OpGetPriority
	OpStopUpdate
	OpStartUpdate
	OpForceUpdate
	OpIgnoreHorizon
	OpObserveHorizon
	OpSetHorizon
	OpObjectOnWater
	OpObjectOnLand
	OpObjectOnAnything
	OpIgnoreObjs
	OpObserveObjs
	OpDistance
	OpStopCycling
	OpStartCycling
	OpNormalCycle
	OpEndOfLoop
	OpReverseLoop
	OpReverseCycle
	OpCycleTime
	OpStopMotion
	OpStartMotion
	OpStepSize
	OpStepTime
	OpMoveObj
	OpMoveObjV
	OpFollowEgo
	OpWander
	OpNormalMotion
	OpSetDir
	OpGetDir
	OpIgnoreBlocks
	OpObserveBlocks
	OpBlock
	OpUnblock
	OpGet
	OpGetV
	OpDrop
	OpPut
	OpPutV
	OpGetRoomV
	OpLoadSound
	OpSound
	OpStopSound
	OpPrint
	OpPrintV
	OpDisplay
	OpDisplayV
	OpClearLines
	OpTextScreen
	OpGraphics
	OpSetCursorChar
	OpSetTextAttribute
	OpShakeScreen
	OpConfigureScreen
	OpStatusLineOn
	OpStatusLineOff
	OpSetString
	OpGetString
	OpParse
	OpGetNum
	OpPreventInput
	OpAcceptInput
	OpSetKey
	OpAddToPic
	OpAddToPicV
	OpStatus
	OpSaveGame
	OpRestoreGame
	OpRestartGame
	OpShowObj
	OpRandom
	OpProgramControl
	OpPlayerControl
	OpObjStatusV
	OpQuitV0
	OpQuitV1
	OpShowMem
	OpPause
	OpEchoLine
	OpCancelLine
	OpInitJoy
	OpToggleMonitor
	OpScriptSize
	OpVersion
	OpSetGameID
	OpLog
	OpSetScanStart
	OpResetScanStart
	OpRepositionTo
	OpRepositionToV
	OpTraceInfo
	OpPrintAtV0
	OpPrintAtV1
	OpPrintAtVV0
	OpPrintAtVV1
	OpClearTextRect
	OpSetMenu
	OpSetMenuMember
	OpSubmitMenu
	OpDisableMember
	OpEnableMember
	OpMenuInput
	OpShowObjV
	OpOpenDialog
	OpCloseDialog
	OpCloseWindow
	OpMulN
	OpMulV
	OpDivN
	OpDivV
	OpGoto
	OpIf
)

// Version identifies the interpreter version a logic resource targets,
// needed to resolve the two opcode bytes (0x86 and 0x97/0x98) whose
// meaning changed across AGI releases.
type Version struct {
	Major, Minor int
}

func (v Version) ordinal() int { return v.Major*1000 + v.Minor }

var version2089 = Version{2, 89}
var version2400 = Version{2, 400}

// Action is one decoded action operation. Goto and If carry a resolved
// absolute byte address once ParseSequence's label resolution has run; until
// then Goto.Address holds the raw relative i16 displacement read from the
// stream.
type Action struct {
	Op         OpCode
	Operands   []Operand
	Conditions []Condition // only set when Op == OpIf
	Target     Goto        // only set when Op == OpGoto or Op == OpIf
}

// parseAction decodes one action opcode starting at r's current position,
// given b as the opcode byte already consumed from r.
func parseAction(r *reader, b uint8, version Version) (Action, error) {
	switch b {
	case 0xFF:
		conds, target, err := parseIfConditions(r)
		if err != nil {
			return Action{}, err
		}
		return Action{Op: OpIf, Conditions: conds, Target: target}, nil
	case 0xFE:
		g, err := r.goto_()
		return Action{Op: OpGoto, Target: g}, err
	case 0x00:
		return Action{Op: OpReturn}, nil
	case 0x01:
		return parseVar1(r, OpIncrement)
	case 0x02:
		return parseVar1(r, OpDecrement)
	case 0x03:
		return parseVarNum(r, OpAssignN)
	case 0x04:
		return parseVarVar(r, OpAssignV)
	case 0x05:
		return parseVarNum(r, OpAddN)
	case 0x06:
		return parseVarVar(r, OpAddV)
	case 0x07:
		return parseVarNum(r, OpSubN)
	case 0x08:
		return parseVarVar(r, OpSubV)
	case 0x09:
		return parseVarVar(r, OpLIndirectV)
	case 0x0A:
		return parseVarVar(r, OpRIndirect)
	case 0x0B:
		return parseVarNum(r, OpLIndirectN)
	case 0x0C:
		return parseFlag1(r, OpSet)
	case 0x0D:
		return parseFlag1(r, OpReset)
	case 0x0E:
		return parseFlag1(r, OpToggle)
	case 0x0F:
		return parseVar1(r, OpSetV)
	case 0x10:
		return parseVar1(r, OpResetV)
	case 0x12:
		return parseNum1(r, OpNewRoom)
	case 0x13:
		return parseVar1(r, OpNewRoomV)
	case 0x14:
		return parseNum1(r, OpLoadLogic)
	case 0x15:
		return parseVar1(r, OpLoadLogicV)
	case 0x16:
		return parseNum1(r, OpCall)
	case 0x17:
		return parseVar1(r, OpCallV)
	case 0x18:
		return parseVar1(r, OpLoadPic)
	case 0x19:
		return parseVar1(r, OpDrawPic)
	case 0x1A:
		return Action{Op: OpShowPic}, nil
	case 0x1B:
		return parseVar1(r, OpDiscardPic)
	case 0x1C:
		return parseVar1(r, OpOverlayPic)
	case 0x1D:
		return Action{Op: OpShowPriScreen}, nil
	case 0x1E:
		return parseNum1(r, OpLoadView)
	case 0x1F:
		return parseVar1(r, OpLoadViewV)
	case 0x20:
		return parseNum1(r, OpDiscardView)
	case 0x21:
		return parseObject1(r, OpAnimateObj)
	case 0x22:
		return Action{Op: OpUnanimateAll}, nil
	case 0x23:
		return parseObject1(r, OpDraw)
	case 0x24:
		return parseObject1(r, OpErase)
	case 0x25:
		return parseObjectNumNum(r, OpPosition)
	case 0x26:
		return parseObjectVarVar(r, OpPositionV)
	case 0x27:
		return parseObjectVarVar(r, OpGetPosN)
	case 0x28:
		return parseObjectVarVar(r, OpReposition)
	case 0x29:
		return parseObjectNum(r, OpSetView)
	case 0x2A:
		return parseObjectVar(r, OpSetViewV)
	case 0x2B:
		return parseObjectNum(r, OpSetLoop)
	case 0x2C:
		return parseObjectVar(r, OpSetLoopV)
	case 0x2D:
		return parseObject1(r, OpFixLoop)
	case 0x2E:
		return parseObject1(r, OpReleaseLoop)
	case 0x2F:
		return parseObjectNum(r, OpSetCel)
	case 0x30:
		return parseObjectVar(r, OpSetCelV)
	case 0x31:
		return parseObjectVar(r, OpLastCel)
	case 0x32:
		return parseObjectVar(r, OpCurrentCel)
	case 0x33:
		return parseObjectVar(r, OpCurrentLoop)
	case 0x34:
		return parseObjectVar(r, OpCurrentView)
	case 0x36:
		return parseObjectNum(r, OpSetPriority)
	case 0x37:
		return parseObjectVar(r, OpSetPriorityV)
	case 0x38:
		return parseObject1(r, OpReleasePriority)
	case 0x39:
		return parseObjectVar(r, OpGetPriority)
	case 0x3A:
		return parseObject1(r, OpStopUpdate)
	case 0x3B:
		return parseObject1(r, OpStartUpdate)
	case 0x3C:
		return parseObject1(r, OpForceUpdate)
	case 0x3D:
		return parseObject1(r, OpIgnoreHorizon)
	case 0x3E:
		return parseObject1(r, OpObserveHorizon)
	case 0x3F:
		return parseNum1(r, OpSetHorizon)
	case 0x40:
		return parseObject1(r, OpObjectOnWater)
	case 0x41:
		return parseObject1(r, OpObjectOnLand)
	case 0x42:
		return parseObject1(r, OpObjectOnAnything)
	case 0x43:
		return parseObject1(r, OpIgnoreObjs)
	case 0x44:
		return parseObject1(r, OpObserveObjs)
	case 0x45:
		return parseObjectObjectVar(r, OpDistance)
	case 0x46:
		return parseObject1(r, OpStopCycling)
	case 0x47:
		return parseObject1(r, OpStartCycling)
	case 0x48:
		return parseObject1(r, OpNormalCycle)
	case 0x49:
		return parseObjectFlag(r, OpEndOfLoop)
	case 0x4A:
		return parseObject1(r, OpReverseCycle)
	case 0x4B:
		return parseObjectFlag(r, OpReverseLoop)
	case 0x4C:
		return parseObjectVar(r, OpCycleTime)
	case 0x4D:
		return parseObject1(r, OpStopMotion)
	case 0x4E:
		return parseObject1(r, OpStartMotion)
	case 0x4F:
		return parseObjectVar(r, OpStepSize)
	case 0x50:
		return parseObjectVar(r, OpStepTime)
	case 0x51:
		return parseObjectNumNumNumFlag(r, OpMoveObj)
	case 0x52:
		return parseObjectVarVarVarFlag(r, OpMoveObjV)
	case 0x53:
		return parseObjectNumFlag(r, OpFollowEgo)
	case 0x54:
		return parseObject1(r, OpWander)
	case 0x55:
		return parseObject1(r, OpNormalMotion)
	case 0x56:
		return parseObjectVar(r, OpSetDir)
	case 0x57:
		return parseObjectVar(r, OpGetDir)
	case 0x58:
		return parseObject1(r, OpIgnoreBlocks)
	case 0x59:
		return parseObject1(r, OpObserveBlocks)
	case 0x5A:
		return parseNumNumNumNum(r, OpBlock)
	case 0x5B:
		return Action{Op: OpUnblock}, nil
	case 0x5C:
		return parseItem1(r, OpGet)
	case 0x5D:
		return parseVar1(r, OpGetV)
	case 0x5E:
		return parseItem1(r, OpDrop)
	case 0x5F:
		return parseItemNum(r, OpPut)
	case 0x60:
		return parseVarVar(r, OpPutV)
	case 0x61:
		return parseVarVar(r, OpGetRoomV)
	case 0x62:
		return parseNum1(r, OpLoadSound)
	case 0x63:
		return parseNumFlag(r, OpSound)
	case 0x64:
		return Action{Op: OpStopSound}, nil
	case 0x65:
		return parseMessage1(r, OpPrint)
	case 0x66:
		return parseVar1(r, OpPrintV)
	case 0x67:
		return parseNumNumMessage(r, OpDisplay)
	case 0x68:
		return parseVarVarVar(r, OpDisplayV)
	case 0x69:
		return parseNumNumNum(r, OpClearLines)
	case 0x6A:
		return Action{Op: OpTextScreen}, nil
	case 0x6B:
		return Action{Op: OpGraphics}, nil
	case 0x6C:
		return parseMessage1(r, OpSetCursorChar)
	case 0x6D:
		return parseNumNum(r, OpSetTextAttribute)
	case 0x6E:
		return parseNum1(r, OpShakeScreen)
	case 0x6F:
		return parseNumNumNum(r, OpConfigureScreen)
	case 0x70:
		return Action{Op: OpStatusLineOn}, nil
	case 0x71:
		return Action{Op: OpStatusLineOff}, nil
	case 0x72:
		return parseStringMessage(r, OpSetString)
	case 0x73:
		return parseStringMessageNumNumNum(r, OpGetString)
	case 0x75:
		return parseStringSlot1(r, OpParse)
	case 0x76:
		return parseMessageVar(r, OpGetNum)
	case 0x77:
		return Action{Op: OpPreventInput}, nil
	case 0x78:
		return Action{Op: OpAcceptInput}, nil
	case 0x79:
		return parseNumNumController(r, OpSetKey)
	case 0x7A:
		return parseNumNumNumNumNumNumNum(r, OpAddToPic)
	case 0x7B:
		return parseVarVarVarVarVarVarVar(r, OpAddToPicV)
	case 0x7C:
		return Action{Op: OpStatus}, nil
	case 0x7D:
		return Action{Op: OpSaveGame}, nil
	case 0x7E:
		return Action{Op: OpRestoreGame}, nil
	case 0x80:
		return Action{Op: OpRestartGame}, nil
	case 0x81:
		return parseNum1(r, OpShowObj)
	case 0x82:
		return parseNumNumVar(r, OpRandom)
	case 0x83:
		return Action{Op: OpProgramControl}, nil
	case 0x84:
		return Action{Op: OpPlayerControl}, nil
	case 0x85:
		return parseVar1(r, OpObjStatusV)
	case 0x86:
		if version.ordinal() == version2089.ordinal() {
			return Action{Op: OpQuitV0}, nil
		}
		return parseNum1(r, OpQuitV1)
	case 0x87:
		return Action{Op: OpShowMem}, nil
	case 0x88:
		return Action{Op: OpPause}, nil
	case 0x89:
		return Action{Op: OpEchoLine}, nil
	case 0x8A:
		return Action{Op: OpCancelLine}, nil
	case 0x8B:
		return Action{Op: OpInitJoy}, nil
	case 0x8C:
		return Action{Op: OpToggleMonitor}, nil
	case 0x8D:
		return Action{Op: OpVersion}, nil
	case 0x8E:
		return parseNum1(r, OpScriptSize)
	case 0x8F:
		return parseMessage1(r, OpSetGameID)
	case 0x90:
		return parseMessage1(r, OpLog)
	case 0x91:
		return Action{Op: OpSetScanStart}, nil
	case 0x92:
		return Action{Op: OpResetScanStart}, nil
	case 0x93:
		return parseObjectNumNum(r, OpRepositionTo)
	case 0x94:
		return parseObjectVarVar(r, OpRepositionToV)
	case 0x96:
		return parseNumNumNum(r, OpTraceInfo)
	case 0x97:
		if versionBetween(version, version2089, version2400) {
			return parseMessageNumNum(r, OpPrintAtV0)
		}
		return parseMessageNumNumNum(r, OpPrintAtV1)
	case 0x98:
		if versionBetween(version, version2089, version2400) {
			return parseVarNumNum(r, OpPrintAtVV0)
		}
		return parseVarNumNumNum(r, OpPrintAtVV1)
	case 0x9A:
		return parseNumNumNumNumNum(r, OpClearTextRect)
	case 0x9C:
		return parseMessage1(r, OpSetMenu)
	case 0x9D:
		return parseMessageController(r, OpSetMenuMember)
	case 0x9E:
		return Action{Op: OpSubmitMenu}, nil
	case 0x9F:
		return parseController1(r, OpEnableMember)
	case 0xA0:
		return parseController1(r, OpDisableMember)
	case 0xA1:
		return Action{Op: OpMenuInput}, nil
	case 0xA2:
		return parseVar1(r, OpShowObjV)
	case 0xA3:
		return Action{Op: OpOpenDialog}, nil
	case 0xA4:
		return Action{Op: OpCloseDialog}, nil
	case 0xA5:
		return parseVarNum(r, OpMulN)
	case 0xA6:
		return parseVarVar(r, OpMulV)
	case 0xA7:
		return parseVarNum(r, OpDivN)
	case 0xA8:
		return parseVarVar(r, OpDivV)
	case 0xA9:
		return Action{Op: OpCloseWindow}, nil
	default:
		return Action{}, fmt.Errorf("logic: %w: 0x%02X", ErrUnhandledAction, b)
	}
}

func versionBetween(v, lo, hi Version) bool {
	o := v.ordinal()
	return o >= lo.ordinal() && o <= hi.ordinal()
}

