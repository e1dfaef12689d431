package crosswords

import "github.com/danielgatis/go-ansicode"

// Mode is a bitmask of terminal behavior flags. Multiple modes can be
// active simultaneously.
type Mode uint32

const (
	// ModeCursorKeys enables application cursor key mode (DECCKM).
	ModeCursorKeys Mode = 1 << iota
	// ModeColumnMode enables 132-column mode (DECCOLM).
	ModeColumnMode
	// ModeInsert shifts the rest of the line right instead of overwriting.
	ModeInsert
	// ModeOrigin makes cursor positioning relative to the scroll region.
	ModeOrigin
	// ModeLineWrap enables automatic line wrapping at the last column.
	ModeLineWrap
	// ModeBlinkingCursor enables cursor blink.
	ModeBlinkingCursor
	// ModeLineFeedNewLine makes line feed also move to column 0.
	ModeLineFeedNewLine
	// ModeShowCursor makes the cursor visible.
	ModeShowCursor
	// ModeReportMouseClicks enables mouse click reporting.
	ModeReportMouseClicks
	// ModeReportCellMouseMotion enables cell-based mouse motion reporting.
	ModeReportCellMouseMotion
	// ModeReportAllMouseMotion enables reporting of all mouse motion.
	ModeReportAllMouseMotion
	// ModeReportFocusInOut enables focus in/out reporting.
	ModeReportFocusInOut
	// ModeUTF8Mouse enables UTF-8 mouse encoding.
	ModeUTF8Mouse
	// ModeSGRMouse enables SGR mouse encoding.
	ModeSGRMouse
	// ModeAlternateScroll translates scroll wheel events to arrow keys on
	// the alternate screen.
	ModeAlternateScroll
	// ModeUrgencyHints requests window urgency on bell.
	ModeUrgencyHints
	// ModeSwapScreenAndSetRestoreCursor is set while the alternate screen
	// is active.
	ModeSwapScreenAndSetRestoreCursor
	// ModeBracketedPaste wraps pasted text in bracket sequences.
	ModeBracketedPaste
	// ModeKeypadApplication makes the numeric keypad send escape sequences.
	ModeKeypadApplication
	// ModeSixelDisplay pins Sixel placement to the grid origin instead of
	// the cursor (DECSDM).
	ModeSixelDisplay
	// ModeSixelPrivPalette gives each Sixel a private palette.
	ModeSixelPrivPalette
	// ModeSixelCursorRight leaves the cursor to the right of a placed
	// image instead of on the following line.
	ModeSixelCursorRight
	// ModeVi is set while the keyboard-driven copy-mode cursor is active.
	ModeVi

	// Kitty keyboard protocol sub-bits. Order matches the protocol's flag
	// values, so a stack entry maps onto them by shifting.
	ModeKittyDisambiguateEscCodes
	ModeKittyReportEventTypes
	ModeKittyReportAlternateKeys
	ModeKittyReportAllKeysAsEsc
	ModeKittyReportAssociatedText
)

// ModeKittyKeyboardProtocol covers all Kitty keyboard sub-bits.
const ModeKittyKeyboardProtocol = ModeKittyDisambiguateEscCodes |
	ModeKittyReportEventTypes |
	ModeKittyReportAlternateKeys |
	ModeKittyReportAllKeysAsEsc |
	ModeKittyReportAssociatedText

// DefaultMode is the flag set active after construction and reset.
const DefaultMode = ModeShowCursor | ModeLineWrap | ModeAlternateScroll | ModeUrgencyHints | ModeSixelPrivPalette

// Contains returns true if every bit of flag is set.
func (m Mode) Contains(flag Mode) bool {
	return m&flag == flag
}

// Insert sets the given bits.
func (m *Mode) Insert(flag Mode) {
	*m |= flag
}

// Remove clears the given bits.
func (m *Mode) Remove(flag Mode) {
	*m &^= flag
}

// syncKeyboard replaces the Kitty keyboard sub-bits with the given
// top-of-stack protocol value. Input decoding reads these through Mode
// alone, so every keyboard-stack mutation must be followed by this.
func (m *Mode) syncKeyboard(kb ansicode.KeyboardMode) {
	m.Remove(ModeKittyKeyboardProtocol)
	for bit := 0; bit < 5; bit++ {
		if uint8(kb)&(1<<bit) != 0 {
			m.Insert(ModeKittyDisambiguateEscCodes << bit)
		}
	}
}

// keyboardBits extracts the Kitty protocol value back out of the mode.
func (m Mode) keyboardBits() ansicode.KeyboardMode {
	var kb uint8
	for bit := 0; bit < 5; bit++ {
		if m.Contains(ModeKittyDisambiguateEscCodes << bit) {
			kb |= 1 << bit
		}
	}
	return ansicode.KeyboardMode(kb)
}
