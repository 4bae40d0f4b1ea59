package vm

// maxControllers bounds the controller id space a set.key opcode can bind,
// matching spec.md's Controller operand being a single byte.
const maxControllers = 256

// Controllers tracks which script-level controller ids are currently
// "pressed", consumed on read exactly once per tick the way spec.md §8
// scenario 6 and §10's supplemented feature describe: a controller
// evaluates true on at most the first `controller(id)` condition test that
// observes it, and false on every subsequent test in the same tick, even
// though the underlying key may still be held down.
//
// Adapted from the teacher's internal/input.InputSystem latch
// (Controller1Latched, captured on a 0->1 write and read back without
// re-capturing), generalised from two fixed controllers to an arbitrary
// id space and from a hardware shift-register latch to a one-shot
// consumed-on-read flag, per the original interpreter's
// is_controller_pressed/clear_key.
type Controllers struct {
	keyToController map[uint16]int
	pressed         [maxControllers]bool
}

// NewControllers returns an empty controller bank with no key bindings.
func NewControllers() *Controllers {
	return &Controllers{keyToController: make(map[uint16]int)}
}

// Bind maps a key code to a controller id, the effect of the set.key
// opcode.
func (c *Controllers) Bind(key uint16, id uint8) {
	c.keyToController[key] = int(id)
}

// Press marks the controller bound to key as pressed; called when the
// VM observes a key event matching a set.key binding. A key maps to one
// controller only: a later Bind of the same key replaces the earlier one.
func (c *Controllers) Press(key uint16) {
	if id, ok := c.keyToController[key]; ok {
		c.pressed[id] = true
	}
}

// Test consumes and returns whether controller id is pressed: the first
// call in a tick to observe a set controller returns true and clears it;
// every later call that tick (or a call against an unset controller)
// returns false.
func (c *Controllers) Test(id uint8) bool {
	if c.pressed[id] {
		c.pressed[id] = false
		return true
	}
	return false
}

// ResetTick clears any controller state Press set but Test never consumed,
// so stale presses cannot leak from a tick that yielded on a resumable
// opcode before the script observed them. Real games never rely on a
// controller surviving the tick it was pressed in; the original
// interpreter clears keys aggressively for the same reason.
func (c *Controllers) ResetTick() {
	for i := range c.pressed {
		c.pressed[i] = false
	}
}
