package crosswords

// SelectionType determines how a drag maps onto squares.
type SelectionType int

const (
	// SelectionSimple selects a contiguous reading-order span.
	SelectionSimple SelectionType = iota
	// SelectionLines selects whole rows.
	SelectionLines
	// SelectionBlock selects a rectangular column range.
	SelectionBlock
)

// Side identifies which half of a square a drag event landed on.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

// SelectionRange is a normalized selection: Start is never after End.
type SelectionRange struct {
	Start   Pos
	End     Pos
	IsBlock bool
}

// Contains returns true if the position falls inside the range.
func (r *SelectionRange) Contains(p Pos) bool {
	if r.IsBlock {
		lo, hi := r.Start.Col, r.End.Col
		if lo > hi {
			lo, hi = hi, lo
		}
		return p.Row >= r.Start.Row && p.Row <= r.End.Row && p.Col >= lo && p.Col <= hi
	}
	if p.Before(r.Start) || r.End.Before(p) {
		return false
	}
	return true
}

// Selection is an in-progress or completed drag: an anchor fixed at
// drag-start and a point that follows the drag.
type Selection struct {
	Ty SelectionType

	anchor     Pos
	anchorSide Side
	point      Pos
	pointSide  Side
}

// NewSelection starts a selection at pos.
func NewSelection(ty SelectionType, pos Pos, side Side) *Selection {
	return &Selection{Ty: ty, anchor: pos, anchorSide: side, point: pos, pointSide: side}
}

// Update moves the drag point.
func (s *Selection) Update(pos Pos, side Side) {
	s.point = pos
	s.pointSide = side
}

// ToRange normalizes the selection against the grid, or returns nil for a
// degenerate selection.
func (s *Selection) ToRange(g *Grid) *SelectionRange {
	start, end := s.anchor, s.point
	if end.Before(start) {
		start, end = end, start
	}

	switch s.Ty {
	case SelectionLines:
		start.Col = 0
		end.Col = g.Cols() - 1
	case SelectionBlock:
		if start.Col > end.Col {
			start.Col, end.Col = end.Col, start.Col
		}
	}

	return &SelectionRange{Start: start, End: end, IsBlock: s.Ty == SelectionBlock}
}

// Rotate shifts the selection's row coordinates by delta when the scrolled
// region [regionStart, regionEnd) overlaps it, tracking content displaced
// by ScrollUp/ScrollDown. Returns nil when the rotation pushes the
// selection entirely outside the buffer.
func (s *Selection) Rotate(g *Grid, regionStart, regionEnd, delta int) *Selection {
	start, end := s.anchor, s.point
	swapped := false
	if end.Before(start) {
		start, end = end, start
		swapped = true
	}

	// A top-anchored scroll exchanges rows with history, so rows above
	// the viewport shift with it; an inner-region scroll leaves both
	// history and rows above the region alone.
	top := regionStart
	if regionStart == 0 {
		top = g.TopmostLine()
	}

	// Entirely outside the scrolled rows: untouched.
	if end.Row < top || start.Row >= regionEnd {
		return s
	}

	if start.Row >= top {
		start.Row += delta
	}
	if end.Row < regionEnd {
		end.Row += delta
	}

	if end.Row < g.TopmostLine() || start.Row >= g.Lines() {
		return nil
	}
	start.Row = clamp(start.Row, g.TopmostLine(), g.Lines()-1)
	end.Row = clamp(end.Row, g.TopmostLine(), g.Lines()-1)

	if swapped {
		s.anchor, s.point = end, start
	} else {
		s.anchor, s.point = start, end
	}
	return s
}

// Intersects returns true if the normalized selection touches any row in
// [startRow, endRow].
func (s *Selection) Intersects(g *Grid, startRow, endRow int) bool {
	r := s.ToRange(g)
	if r == nil {
		return false
	}
	return r.Start.Row <= endRow && r.End.Row >= startRow
}

// selectionToString extracts the selected text. Rows are bounded by their
// occupied length, blank rows contribute empty lines, wide spacers are
// skipped, and wrap-continuation rows join without a newline.
func selectionToString(g *Grid, r *SelectionRange, ty SelectionType) string {
	if r == nil {
		return ""
	}

	var out []rune
	for line := r.Start.Row; line <= r.End.Row; line++ {
		if line < g.TopmostLine() || line >= g.Lines() {
			continue
		}
		row := g.Row(line)

		left, right := 0, g.Cols()-1
		switch {
		case r.IsBlock:
			left, right = r.Start.Col, r.End.Col
		case ty == SelectionSimple:
			if line == r.Start.Row {
				left = r.Start.Col
			}
			if line == r.End.Row {
				right = r.End.Col
			}
		}

		occ := row.Occupied()
		if occ > 0 {
			if right > occ-1 {
				right = occ - 1
			}
			for col := left; col <= right; col++ {
				sq := row.At(col)
				if sq.IsWideSpacer() || sq.HasFlag(FlagLeadingWideCharSpacer) {
					continue
				}
				if sq.Char == 0 {
					out = append(out, ' ')
				} else {
					out = append(out, sq.Char)
				}
				out = append(out, sq.ZeroWidth()...)
			}
		}

		if line < r.End.Row && (r.IsBlock || !row.IsWrapped()) {
			out = append(out, '\n')
		}
	}

	return string(out)
}
