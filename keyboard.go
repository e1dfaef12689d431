package crosswords

import "github.com/danielgatis/go-ansicode"

// keyboardModeStackCap is the fixed capacity of the Kitty keyboard mode
// stack. Pushing beyond it overwrites the oldest entry, per protocol.
const keyboardModeStackCap = 8

// keyboardModeStack is a fixed-size ring of keyboard protocol modes.
// Each screen (primary and alternate) owns one. The zero value is a
// valid empty stack whose top is KeyboardModeNoMode.
type keyboardModeStack struct {
	modes [keyboardModeStackCap]ansicode.KeyboardMode
	index int
}

// top returns the active keyboard mode.
func (s *keyboardModeStack) top() ansicode.KeyboardMode {
	return s.modes[s.index]
}

// push makes mode the new active entry. When the ring is full the
// oldest entry is silently overwritten.
func (s *keyboardModeStack) push(mode ansicode.KeyboardMode) {
	s.index = (s.index + 1) % keyboardModeStackCap
	s.modes[s.index] = mode
}

// pop removes n entries from the top. Popping more entries than the
// ring holds resets the whole stack to KeyboardModeNoMode.
func (s *keyboardModeStack) pop(n int) {
	if n >= keyboardModeStackCap {
		*s = keyboardModeStack{}
		return
	}
	for i := 0; i < n; i++ {
		s.modes[s.index] = ansicode.KeyboardModeNoMode
		s.index = (s.index - 1 + keyboardModeStackCap) % keyboardModeStackCap
	}
}

// set replaces, ors, or masks the top entry according to behavior.
func (s *keyboardModeStack) set(mode ansicode.KeyboardMode, behavior ansicode.KeyboardModeBehavior) {
	switch behavior {
	case ansicode.KeyboardModeBehaviorReplace:
		s.modes[s.index] = mode
	case ansicode.KeyboardModeBehaviorUnion:
		s.modes[s.index] |= mode
	case ansicode.KeyboardModeBehaviorDifference:
		s.modes[s.index] &^= mode
	}
}
