package vm

// Directional key codes PressKey expects for ego movement: the scan-code
// values (high byte) the original interpreter's keyboard ISR produced for
// the numeric-keypad arrows, shifted into the high byte of a uint16 so
// they never collide with an ASCII character code (which only ever occupies
// bits 0-7). cmd/agivm's SDL2 host translates the SDL arrow and keypad key
// codes (including the diagonals and keypad 5) into these before calling
// PressKey.
const (
	keyUp        = 0x4800
	keyUpRight   = 0x4900
	keyRight     = 0x4D00
	keyDownRight = 0x5100
	keyDown      = 0x5000
	keyDownLeft  = 0x4F00
	keyLeft      = 0x4B00
	keyUpLeft    = 0x4700
	keyStop      = 0x4C00 // numeric-keypad 5: stop ego motion
)

// directionKeys maps a directional key code to spec.md's direction table
// index (1-8), the same numbering direction()/deltaFor() use.
var directionKeys = map[uint16]int{
	keyUp: 1, keyUpRight: 2, keyRight: 3, keyDownRight: 4,
	keyDown: 5, keyDownLeft: 6, keyLeft: 7, keyUpLeft: 8,
}

// processInput implements spec.md §4.6 step 4: drain the pending key
// buffer, routing each event to ego movement (when ego is player
// controlled), the command-line buffer (when accepting input), or
// varLastKey for anything else. Enter commits the command line to string
// slot 0 and runs the `parse` tokeniser.
func (vm *VM) processInput() {
	ego := &vm.state.Sprites[egoIndex]

	for len(vm.keys) > 0 {
		k := vm.keys[0]
		vm.keys = vm.keys[1:]

		if k == keyStop {
			if ego.PlayerControlled {
				ego.Moving = false
				ego.Direction = 0
			}
			continue
		}
		if dir, ok := directionKeys[k]; ok {
			if ego.PlayerControlled {
				ego.Direction = dir
				ego.Moving = true
				ego.Motion = MotionNormal
			}
			continue
		}

		if !vm.state.AcceptingInput {
			vm.state.Vars[varLastKey] = uint8(k)
			continue
		}

		switch {
		case k == keyEnter:
			vm.state.Strings[0] = vm.state.InputLine
			vm.parseInputInto(vm.state.InputLine)
			vm.state.InputLine = ""
			vm.state.Vars[varLastKey] = keyEnter
		case k == keyBackspace:
			if n := len(vm.state.InputLine); n > 0 {
				vm.state.InputLine = vm.state.InputLine[:n-1]
			}
		case k >= 0x20 && k < 0x100:
			if len(vm.state.InputLine) < 40 {
				vm.state.InputLine += string(byte(k))
			}
			vm.state.Vars[varLastKey] = uint8(k)
		default:
			vm.state.Vars[varLastKey] = uint8(k)
		}
	}
}
