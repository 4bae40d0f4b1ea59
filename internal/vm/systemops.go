package vm

import (
	"fmt"

	"agivm/internal/logic"
)

// execSystemAction handles sound, save/restore, and miscellaneous
// system/debug opcodes: the last link in the execAction fallthrough chain.
// Anything reaching its default case is a genuinely unhandled opcode byte.
func (vm *VM) execSystemAction(logicNum, pc int, res *logic.Resource, a logic.Action) (outcome, error) {
	switch a.Op {
	case logic.OpLoadSound, logic.OpSound, logic.OpStopSound:
		// PC speaker/AdLib synthesis is a Non-goal; accepted as a no-op so
		// timing-sensitive scripts that gate on a sound flag still need
		// their own fallback (spec.md never requires sound completion).

	case logic.OpSaveGame, logic.OpRestoreGame:
		// binary save-file compatibility is a Non-goal; treat as an
		// immediately-declined request so a script branching on success
		// takes its failure path rather than hanging.
		vm.state.Flags[flagRestore] = false
	case logic.OpRestartGame:
		vm.restart()
		vm.state.Flags[flagRestart] = true

	case logic.OpRandom:
		lo, hi := a.Operands[0].(logic.Num), a.Operands[1].(logic.Num)
		dest := a.Operands[2].(logic.Var)
		span := int(hi.Value) - int(lo.Value) + 1
		if span <= 0 {
			vm.state.Vars[dest.Value] = lo.Value
		} else {
			vm.state.Vars[dest.Value] = lo.Value + uint8(vm.rng.Intn(span))
		}

	case logic.OpProgramControl:
		vm.state.Sprites[egoIndex].PlayerControlled = false
	case logic.OpPlayerControl:
		vm.state.Sprites[egoIndex].PlayerControlled = true

	case logic.OpObjStatusV:
		v := a.Operands[0].(logic.Var)
		ego := &vm.state.Sprites[egoIndex]
		status := uint8(0)
		if ego.PlayerControlled {
			status |= 1
		}
		if ego.Cycling {
			status |= 2
		}
		if ego.Moving {
			status |= 4
		}
		vm.state.Vars[v.Value] = status

	case logic.OpQuitV0:
		vm.quit = true
	case logic.OpQuitV1:
		vm.quit = true

	case logic.OpShowMem, logic.OpInitJoy, logic.OpToggleMonitor:
		// host/peripheral diagnostics with no VM-side state.
	case logic.OpScriptSize:
		// memory-pool sizing hint; this decoder never runs out of room.
	case logic.OpVersion:
		vm.logger.Infof("version requested: %d.%d", vm.cfg.Version.Major, vm.cfg.Version.Minor)
	case logic.OpSetGameID:
		msg := a.Operands[0].(logic.Message)
		vm.logger.Infof("game id: %s", res.Messages.String(msg.Value))
	case logic.OpLog:
		msg := a.Operands[0].(logic.Message)
		vm.logger.Infof("logic.%d: %s", logicNum, vm.expandMessage(res.Messages.String(msg.Value), logicNum))
	case logic.OpTraceInfo:
		// three numeric hints the original debugger overlay displayed;
		// written to the event Logger (only while a tracer is installed)
		// instead of the text overlay.
		if vm.tracer != nil {
			vm.logger.Infof("trace.info(%d,%d,%d)",
				a.Operands[0].(logic.Num).Value, a.Operands[1].(logic.Num).Value, a.Operands[2].(logic.Num).Value)
		}

	case logic.OpSetScanStart:
		vm.scanStart[logicNum] = pc + 1
	case logic.OpResetScanStart:
		vm.scanStart[logicNum] = 0

	default:
		return outcome{}, fmt.Errorf("vm: logic.%d: unhandled opcode %v", logicNum, a.Op)
	}
	return next(), nil
}

// restart resets mutable game state to its just-loaded values, the effect
// of restart.game: every variable/flag/sprite/inventory placement reverts,
// but decoded resource caches are kept (spec.md §3's immutability already
// means there is nothing there to reset).
func (vm *VM) restart() {
	vm.state.Vars = [256]uint8{}
	vm.state.Flags = [256]bool{}
	vm.state.Strings = [12]string{}
	vm.state.Sprites = make([]Sprite, vm.cfg.NumSprites)
	vm.state.Sprites[egoIndex] = Sprite{
		Active: true, Visible: true, ViewNum: 0, PlayerControlled: true,
		StepSize: 1, Priority: 0, X: 80, Y: 130,
	}
	vm.state.CurrentRoom = 0
	vm.state.PreviousRoom = 0
	vm.state.NewRoom = 0
	vm.state.InputLine = ""
	vm.state.AcceptingInput = true
	vm.state.ParsedWords = nil
	vm.blocks = nil
	for i, item := range vm.inventory.Items {
		vm.itemRoom[i] = int(item.StartRoom)
	}
	vm.scanStart = make(map[int]int)
	vm.clock.Reset()
	vm.resetTextOverlay()
	vm.callStack = nil
	vm.resumed = nil
	vm.state.NewRoom = 1
}
