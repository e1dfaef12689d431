package crosswords

import (
	"testing"

	"github.com/danielgatis/go-ansicode"
)

func TestKeyboardStackZeroValue(t *testing.T) {
	var s keyboardModeStack

	if s.top() != ansicode.KeyboardModeNoMode {
		t.Errorf("expected empty stack top to be NoMode, got %d", s.top())
	}
}

func TestKeyboardStackPushPop(t *testing.T) {
	var s keyboardModeStack

	s.push(ansicode.KeyboardMode(1))
	s.push(ansicode.KeyboardMode(3))

	if s.top() != 3 {
		t.Errorf("expected top 3, got %d", s.top())
	}

	s.pop(1)
	if s.top() != 1 {
		t.Errorf("expected top 1 after pop, got %d", s.top())
	}

	s.pop(1)
	if s.top() != ansicode.KeyboardModeNoMode {
		t.Errorf("expected NoMode after draining, got %d", s.top())
	}
}

func TestKeyboardStackOverflowDropsOldest(t *testing.T) {
	var s keyboardModeStack

	for i := 1; i <= keyboardModeStackCap+1; i++ {
		s.push(ansicode.KeyboardMode(i))
	}

	if s.top() != ansicode.KeyboardMode(keyboardModeStackCap+1) {
		t.Errorf("expected top %d, got %d", keyboardModeStackCap+1, s.top())
	}

	// Walking back across the rest of the ring lands on the oldest
	// surviving entry, not the overwritten one.
	s.pop(keyboardModeStackCap - 1)
	if s.top() != 2 {
		t.Errorf("expected entry 2 to survive the overflow, got %d", s.top())
	}
}

func TestKeyboardStackPopAll(t *testing.T) {
	var s keyboardModeStack
	s.push(5)
	s.push(6)

	s.pop(100)

	if s.top() != ansicode.KeyboardModeNoMode {
		t.Errorf("expected stack reset, got %d", s.top())
	}
	if s.index != 0 {
		t.Errorf("expected index 0, got %d", s.index)
	}
}

func TestKeyboardStackSetBehaviors(t *testing.T) {
	var s keyboardModeStack
	s.push(0b00101)

	s.set(0b00010, ansicode.KeyboardModeBehaviorUnion)
	if s.top() != 0b00111 {
		t.Errorf("expected union 0b00111, got %05b", s.top())
	}

	s.set(0b00100, ansicode.KeyboardModeBehaviorDifference)
	if s.top() != 0b00011 {
		t.Errorf("expected difference 0b00011, got %05b", s.top())
	}

	s.set(0b10000, ansicode.KeyboardModeBehaviorReplace)
	if s.top() != 0b10000 {
		t.Errorf("expected replace 0b10000, got %05b", s.top())
	}
}

func TestModeSyncKeyboard(t *testing.T) {
	m := DefaultMode

	m.syncKeyboard(ansicode.KeyboardMode(0b00101))

	if !m.Contains(ModeKittyDisambiguateEscCodes) {
		t.Error("expected disambiguate bit set")
	}
	if m.Contains(ModeKittyReportEventTypes) {
		t.Error("expected report-event-types bit clear")
	}
	if !m.Contains(ModeKittyReportAlternateKeys) {
		t.Error("expected report-alternate-keys bit set")
	}
	if m.keyboardBits() != 0b00101 {
		t.Errorf("expected round-trip 0b00101, got %05b", m.keyboardBits())
	}

	m.syncKeyboard(ansicode.KeyboardModeNoMode)
	if m.Contains(ModeKittyDisambiguateEscCodes) {
		t.Error("expected keyboard bits cleared")
	}
	if !m.Contains(ModeShowCursor) {
		t.Error("sync must not disturb unrelated bits")
	}
}
