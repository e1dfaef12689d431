package crosswords

import "image/color"

// SquareFlags is a bitmask of square rendering attributes.
type SquareFlags uint32

const (
	FlagBold SquareFlags = 1 << iota
	FlagDim
	FlagItalic
	FlagUnderline
	FlagDoubleUnderline
	FlagCurlyUnderline
	FlagDottedUnderline
	FlagDashedUnderline
	FlagBlinkSlow
	FlagBlinkFast
	FlagInverse
	FlagHidden
	FlagStrike
	// FlagWideChar marks the glyph cell of a double-width character.
	FlagWideChar
	// FlagWideCharSpacer marks the cell following a double-width glyph.
	FlagWideCharSpacer
	// FlagLeadingWideCharSpacer marks a last-column cell vacated when a
	// double-width glyph wrapped to the next row.
	FlagLeadingWideCharSpacer
	// FlagWrapLine marks the last square of a row that continued onto the
	// next row without an explicit newline.
	FlagWrapLine
)

const allUnderlineFlags = FlagUnderline | FlagDoubleUnderline | FlagCurlyUnderline | FlagDottedUnderline | FlagDashedUnderline

// Hyperlink associates a square with a clickable link (OSC 8).
type Hyperlink struct {
	ID  string
	URI string
}

// SquareExtra stores the rarely-populated parts of a square behind one
// pointer so the common case stays small.
type SquareExtra struct {
	// ZeroWidth holds combining characters attached to this square.
	ZeroWidth []rune
	Hyperlink *Hyperlink
	// Graphics holds references to graphics overlapping this square,
	// oldest first, capped at maxGraphicsPerSquare.
	Graphics []GraphicCell
}

// Square stores the character, colors, and formatting attributes for one
// grid position. Wide characters (2 columns) use a spacer square in the
// second position.
type Square struct {
	Char      rune
	Fg        color.Color
	Bg        color.Color
	Underline color.Color
	Flags     SquareFlags

	extra *SquareExtra
}

// NewSquare creates a square initialized with a space character and default
// colors.
func NewSquare() Square {
	return Square{
		Char: ' ',
		Fg:   &NamedColor{Name: NamedColorForeground},
		Bg:   &NamedColor{Name: NamedColorBackground},
	}
}

// Reset clears the square back to the template's colors with a space
// character and no flags or extras.
func (s *Square) Reset(template *Square) {
	s.Char = ' '
	s.Fg = template.Fg
	s.Bg = template.Bg
	s.Underline = nil
	s.Flags = 0
	s.extra = nil
}

// IsDefault returns true if the square renders as an untouched background
// cell.
func (s *Square) IsDefault() bool {
	if s.Char != ' ' && s.Char != 0 {
		return false
	}
	return s.Flags == 0 && s.extra == nil
}

// HasFlag returns true if the specified flag is set.
func (s *Square) HasFlag(flag SquareFlags) bool {
	return s.Flags&flag != 0
}

// SetFlag enables the specified flag without affecting others.
func (s *Square) SetFlag(flag SquareFlags) {
	s.Flags |= flag
}

// ClearFlag disables the specified flag without affecting others.
func (s *Square) ClearFlag(flag SquareFlags) {
	s.Flags &^= flag
}

// IsWide returns true if this square holds a double-width glyph.
func (s *Square) IsWide() bool {
	return s.HasFlag(FlagWideChar)
}

// IsWideSpacer returns true if this is the second square of a wide character
// (skipped during rendering and text extraction).
func (s *Square) IsWideSpacer() bool {
	return s.HasFlag(FlagWideCharSpacer)
}

// PushZeroWidth attaches a zero-width combining character to this square.
func (s *Square) PushZeroWidth(r rune) {
	if s.extra == nil {
		s.extra = &SquareExtra{}
	}
	s.extra.ZeroWidth = append(s.extra.ZeroWidth, r)
}

// ZeroWidth returns the combining characters attached to this square, or nil.
func (s *Square) ZeroWidth() []rune {
	if s.extra == nil {
		return nil
	}
	return s.extra.ZeroWidth
}

// SetHyperlink associates the square with a hyperlink.
func (s *Square) SetHyperlink(link *Hyperlink) {
	if link == nil {
		if s.extra != nil {
			s.extra.Hyperlink = nil
		}
		return
	}
	if s.extra == nil {
		s.extra = &SquareExtra{}
	}
	s.extra.Hyperlink = link
}

// Hyperlink returns the hyperlink associated with this square, or nil.
func (s *Square) Hyperlink() *Hyperlink {
	if s.extra == nil {
		return nil
	}
	return s.extra.Hyperlink
}

// PushGraphic appends a graphic reference, evicting the oldest once the
// per-square limit is reached.
func (s *Square) PushGraphic(g GraphicCell) {
	if s.extra == nil {
		s.extra = &SquareExtra{}
	}
	if len(s.extra.Graphics) >= maxGraphicsPerSquare {
		copy(s.extra.Graphics, s.extra.Graphics[1:])
		s.extra.Graphics = s.extra.Graphics[:len(s.extra.Graphics)-1]
	}
	s.extra.Graphics = append(s.extra.Graphics, g)
}

// Graphics returns the graphic references on this square, oldest first.
func (s *Square) Graphics() []GraphicCell {
	if s.extra == nil {
		return nil
	}
	return s.extra.Graphics
}

// ClearGraphics drops every graphic reference from this square.
func (s *Square) ClearGraphics() {
	if s.extra != nil {
		s.extra.Graphics = nil
	}
}
