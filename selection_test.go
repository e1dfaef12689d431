package crosswords

import "testing"

func TestSelectionToRangeNormalizes(t *testing.T) {
	g := NewGrid(10, 10, 0)

	// Dragging upward still yields Start <= End.
	sel := NewSelection(SelectionSimple, Pos{Row: 5, Col: 3}, SideLeft)
	sel.Update(Pos{Row: 2, Col: 7}, SideRight)

	r := sel.ToRange(g)
	if r.Start != (Pos{Row: 2, Col: 7}) {
		t.Errorf("expected start (2,7), got %v", r.Start)
	}
	if r.End != (Pos{Row: 5, Col: 3}) {
		t.Errorf("expected end (5,3), got %v", r.End)
	}
}

func TestSelectionLinesSpansFullRows(t *testing.T) {
	g := NewGrid(10, 10, 0)

	sel := NewSelection(SelectionLines, Pos{Row: 3, Col: 4}, SideLeft)
	sel.Update(Pos{Row: 5, Col: 2}, SideLeft)

	r := sel.ToRange(g)
	if r.Start.Col != 0 || r.End.Col != 9 {
		t.Errorf("expected full-row span, got cols [%d,%d]", r.Start.Col, r.End.Col)
	}
}

func TestSelectionBlockNormalizesColumns(t *testing.T) {
	g := NewGrid(10, 10, 0)

	sel := NewSelection(SelectionBlock, Pos{Row: 1, Col: 8}, SideLeft)
	sel.Update(Pos{Row: 4, Col: 2}, SideLeft)

	r := sel.ToRange(g)
	if !r.IsBlock {
		t.Fatal("expected block range")
	}
	if r.Start.Col != 2 || r.End.Col != 8 {
		t.Errorf("expected cols [2,8], got [%d,%d]", r.Start.Col, r.End.Col)
	}
	if !r.Contains(Pos{Row: 2, Col: 5}) {
		t.Error("expected interior point inside block")
	}
	if r.Contains(Pos{Row: 2, Col: 1}) {
		t.Error("expected point left of block outside")
	}
}

func TestSelectionRotateFollowsScroll(t *testing.T) {
	g := NewGrid(10, 10, 100)

	sel := NewSelection(SelectionSimple, Pos{Row: 4, Col: 0}, SideLeft)
	sel.Update(Pos{Row: 5, Col: 9}, SideLeft)

	// Content moving up by 2 carries the selection with it.
	sel = sel.Rotate(g, 0, 10, -2)
	if sel == nil {
		t.Fatal("expected selection to survive")
	}
	r := sel.ToRange(g)
	if r.Start.Row != 2 || r.End.Row != 3 {
		t.Errorf("expected rows [2,3], got [%d,%d]", r.Start.Row, r.End.Row)
	}
}

func TestSelectionRotateShiftsHistoryRows(t *testing.T) {
	g := NewGrid(10, 10, 100)
	g.ScrollUp(0, 10, 2)

	sel := NewSelection(SelectionSimple, Pos{Row: -1, Col: 0}, SideLeft)
	sel.Update(Pos{Row: -1, Col: 9}, SideLeft)

	// A top-anchored scroll shifts every history coordinate too.
	g.ScrollUp(0, 10, 1)
	sel = sel.Rotate(g, 0, 10, -1)
	if sel == nil {
		t.Fatal("expected selection to survive")
	}
	r := sel.ToRange(g)
	if r.Start.Row != -2 || r.End.Row != -2 {
		t.Errorf("expected row -2, got [%d,%d]", r.Start.Row, r.End.Row)
	}
}

func TestSelectionRotateOutsideRegionUntouched(t *testing.T) {
	g := NewGrid(10, 10, 0)

	sel := NewSelection(SelectionSimple, Pos{Row: 0, Col: 0}, SideLeft)
	sel.Update(Pos{Row: 1, Col: 5}, SideLeft)

	sel = sel.Rotate(g, 5, 10, -2)
	r := sel.ToRange(g)
	if r.Start.Row != 0 || r.End.Row != 1 {
		t.Errorf("expected selection untouched, got rows [%d,%d]", r.Start.Row, r.End.Row)
	}
}

func TestSelectionRotateOffBuffer(t *testing.T) {
	g := NewGrid(10, 10, 0)

	sel := NewSelection(SelectionSimple, Pos{Row: 0, Col: 0}, SideLeft)
	sel.Update(Pos{Row: 1, Col: 5}, SideLeft)

	// Without scrollback the content is gone, and so is the selection.
	if got := sel.Rotate(g, 0, 10, -5); got != nil {
		t.Error("expected selection dropped when content scrolls off")
	}
}

func TestSelectionTextSimple(t *testing.T) {
	term := New(WithSize(5, 10))
	term.WriteString("hello\r\nworld")

	term.StartSelection(SelectionSimple, Pos{Row: 0, Col: 0}, SideLeft)
	term.UpdateSelection(Pos{Row: 1, Col: 4}, SideRight)

	if got := term.SelectionText(); got != "hello\nworld" {
		t.Errorf("expected 'hello\\nworld', got %q", got)
	}
}

func TestSelectionTextTrimsToOccupied(t *testing.T) {
	term := New(WithSize(5, 10))
	term.WriteString("ab\r\n\r\ncd")

	term.StartSelection(SelectionLines, Pos{Row: 0, Col: 0}, SideLeft)
	term.UpdateSelection(Pos{Row: 2, Col: 9}, SideRight)

	// The blank middle row contributes only its newline.
	if got := term.SelectionText(); got != "ab\n\ncd" {
		t.Errorf("expected 'ab\\n\\ncd', got %q", got)
	}
}

func TestSelectionTextJoinsWrappedRows(t *testing.T) {
	term := New(WithSize(5, 4))
	term.WriteString("abcdef")

	term.StartSelection(SelectionSimple, Pos{Row: 0, Col: 0}, SideLeft)
	term.UpdateSelection(Pos{Row: 1, Col: 1}, SideRight)

	// Row 0 soft-wrapped into row 1, so no newline between them.
	if got := term.SelectionText(); got != "abcdef" {
		t.Errorf("expected 'abcdef', got %q", got)
	}
}

func TestSelectionTextSkipsWideSpacer(t *testing.T) {
	term := New(WithSize(5, 10))
	term.WriteString("a世b")

	term.StartSelection(SelectionSimple, Pos{Row: 0, Col: 0}, SideLeft)
	term.UpdateSelection(Pos{Row: 0, Col: 3}, SideRight)

	if got := term.SelectionText(); got != "a世b" {
		t.Errorf("expected 'a世b', got %q", got)
	}
}

func TestSelectionBlockText(t *testing.T) {
	term := New(WithSize(5, 10))
	term.WriteString("abcde\r\nfghij\r\nklmno")

	term.StartSelection(SelectionBlock, Pos{Row: 0, Col: 1}, SideLeft)
	term.UpdateSelection(Pos{Row: 2, Col: 3}, SideLeft)

	if got := term.SelectionText(); got != "bcd\nghi\nlmn" {
		t.Errorf("expected 'bcd\\nghi\\nlmn', got %q", got)
	}
}

func TestSelectionClearedByClearScreen(t *testing.T) {
	term := New(WithSize(5, 10))
	term.WriteString("hello")
	term.StartSelection(SelectionSimple, Pos{Row: 0, Col: 0}, SideLeft)
	term.UpdateSelection(Pos{Row: 0, Col: 4}, SideLeft)

	term.WriteString("\x1b[2J")

	if term.SelectionRange() != nil {
		t.Error("expected selection cleared by screen clear")
	}
}

func TestSelectionSurvivesScrollInHistory(t *testing.T) {
	term := New(WithSize(3, 10))
	term.WriteString("aaa\r\nbbb\r\nccc")

	term.StartSelection(SelectionSimple, Pos{Row: 0, Col: 0}, SideLeft)
	term.UpdateSelection(Pos{Row: 0, Col: 2}, SideRight)

	// Two more lines scroll 'aaa' into history.
	term.WriteString("\r\nddd\r\neee")

	r := term.SelectionRange()
	if r == nil {
		t.Fatal("expected selection to follow content into history")
	}
	if r.Start.Row != -2 {
		t.Errorf("expected start row -2, got %d", r.Start.Row)
	}
	if got := term.SelectionText(); got != "aaa" {
		t.Errorf("expected 'aaa', got %q", got)
	}
}
