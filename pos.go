package crosswords

// Pos identifies a square in the grid. Row is signed: 0 is the top of the
// visible screen, negative values reach into scrollback history.
type Pos struct {
	Row int
	Col int
}

// Before returns true if this position comes before other in reading order
// (top-to-bottom, left-to-right).
func (p Pos) Before(other Pos) bool {
	if p.Row < other.Row {
		return true
	}
	if p.Row == other.Row && p.Col < other.Col {
		return true
	}
	return false
}

// After returns true if this position comes after other in reading order.
func (p Pos) After(other Pos) bool {
	return other.Before(p)
}

// Equal returns true if both row and column match.
func (p Pos) Equal(other Pos) bool {
	return p.Row == other.Row && p.Col == other.Col
}

// GridClamp bounds the position into the grid's addressable range:
// rows in [topmost, lines), columns in [0, cols).
func (p Pos) GridClamp(g *Grid) Pos {
	return Pos{
		Row: clamp(p.Row, g.TopmostLine(), g.Lines()-1),
		Col: clamp(p.Col, 0, g.Cols()-1),
	}
}

// clamp ensures the value is within the given range.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
