package vm

// Well-known variable/flag indices spec.md's GLOSSARY names. Kept as
// unexported constants close to the code that uses them rather than one
// central enum, matching how the teacher's internal/ppu register offsets
// (BackgroundLayer, OAM fields) stay local to the file that interprets
// them.
const (
	varCurrentRoom  = 0
	varPreviousRoom = 1
	varEgoEdge      = 2
	varObjectBorder = 4
	varObjectEdge   = 5
	varEgoDirection = 6
	varFreePages    = 8
	varMissingWord  = 9
	varTimeDelay    = 10
	varSeconds      = 11
	varMinutes      = 12
	varHours        = 13
	varDays         = 14
	varEgoView      = 16
	varLastKey      = 19
	varWindowTimer  = 21

	flagEgoInWater     = 0
	flagCommandEntered = 2
	flagEgoTouchedSig  = 3
	flagSaidAccepted   = 4
	flagRoomFirstTime  = 5
	flagRestart        = 6
	flagRestore        = 12
	flagLeaveWindow    = 15
)

// egoEdgeTop/Left/Bottom/Right are the ego-edge variable's four values,
// spec.md's room-entry "snap ego to the opposite screen edge" rule.
const (
	egoEdgeNone = iota
	egoEdgeTop
	egoEdgeRight
	egoEdgeBottom
	egoEdgeLeft
)

// enterRoomFromScratch performs the very first room load when LoadGame
// constructs a VM: room number 0 plays the role of "no room loaded yet" in
// the original interpreter (logic.0 is always resident and immediately
// triggers the real starting room via new.room), so this seeds NewRoom=1
// and runs the same housekeeping+logic-0 loop Tick's step 9 uses.
func (vm *VM) enterRoomFromScratch() error {
	if _, ok := vm.logicDir.Get(0); !ok {
		return nil // a test fixture may have no logic.0 at all
	}
	vm.state.NewRoom = 1
	return vm.runLogic0Cycle()
}

// enterRoom performs spec.md §4.6's "Room entry" housekeeping for a
// transition into room number.
func (vm *VM) enterRoom(room int) {
	vm.resetTextOverlay()

	ego := &vm.state.Sprites[egoIndex]
	for i := range vm.state.Sprites {
		if i == egoIndex {
			continue
		}
		vm.state.Sprites[i].Active = false
	}
	ego.PlayerControlled = true

	vm.state.Horizon = 36

	vm.state.PreviousRoom = vm.state.CurrentRoom
	vm.state.CurrentRoom = room
	vm.state.Vars[varCurrentRoom] = uint8(room)
	vm.state.Vars[varPreviousRoom] = uint8(vm.state.PreviousRoom)

	switch vm.state.Vars[varEgoEdge] {
	case egoEdgeTop:
		ego.Y = ScreenHeight
	case egoEdgeLeft:
		ego.X = 0
	case egoEdgeBottom:
		_, h, _, _, ok := vm.celOf(ego)
		if !ok {
			h = 0
		}
		ego.Y = vm.state.Horizon + h
	case egoEdgeRight:
		w, _, _, _, ok := vm.celOf(ego)
		if !ok {
			w = 0
		}
		ego.X = ScreenWidth - w
	}

	vm.state.Vars[varEgoEdge] = 0
	vm.state.Vars[varObjectEdge] = 0
	vm.state.Vars[varMissingWord] = 0

	vm.state.Vars[varEgoView] = uint8(ego.ViewNum)

	vm.state.Flags[flagRoomFirstTime] = true
	vm.state.Flags[flagCommandEntered] = false

	vm.logger.Infof("room %d -> %d", vm.state.PreviousRoom, room)
}
