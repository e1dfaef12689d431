package crosswords

import "testing"

func fillRow(g *Grid, line int, text string) {
	row := g.Row(line)
	for i, r := range text {
		sq := NewSquare()
		sq.Char = r
		row.Set(i, sq)
	}
}

func TestNewGrid(t *testing.T) {
	g := NewGrid(24, 80, 100)

	if g.Lines() != 24 {
		t.Errorf("expected 24 lines, got %d", g.Lines())
	}
	if g.Cols() != 80 {
		t.Errorf("expected 80 cols, got %d", g.Cols())
	}
	if g.HistorySize() != 0 {
		t.Errorf("expected empty history, got %d", g.HistorySize())
	}
	if g.TopmostLine() != 0 {
		t.Errorf("expected topmost line 0, got %d", g.TopmostLine())
	}
}

func TestGridScrollUpIntoHistory(t *testing.T) {
	g := NewGrid(4, 10, 100)
	fillRow(g, 0, "aaa")
	fillRow(g, 1, "bbb")
	fillRow(g, 2, "ccc")

	g.ScrollUp(0, 4, 1)

	if g.HistorySize() != 1 {
		t.Fatalf("expected 1 history line, got %d", g.HistorySize())
	}
	if got := g.Row(-1).String(); got != "aaa" {
		t.Errorf("expected 'aaa' in history, got %q", got)
	}
	if got := g.Row(0).String(); got != "bbb" {
		t.Errorf("expected 'bbb' at line 0, got %q", got)
	}
	if got := g.Row(3).String(); got != "" {
		t.Errorf("expected blank bottom line, got %q", got)
	}
}

func TestGridScrollRoundTrip(t *testing.T) {
	g := NewGrid(4, 10, 100)
	fillRow(g, 0, "aaa")
	fillRow(g, 1, "bbb")

	g.ScrollUp(0, 4, 2)
	g.ScrollDown(0, 4, 2)

	if g.HistorySize() != 0 {
		t.Fatalf("expected history drained, got %d", g.HistorySize())
	}
	if got := g.Row(0).String(); got != "aaa" {
		t.Errorf("expected 'aaa' restored at line 0, got %q", got)
	}
	if got := g.Row(1).String(); got != "bbb" {
		t.Errorf("expected 'bbb' restored at line 1, got %q", got)
	}
}

func TestGridScrollUpInnerRegion(t *testing.T) {
	g := NewGrid(4, 10, 100)
	fillRow(g, 1, "bbb")
	fillRow(g, 2, "ccc")

	// Region [1, 3): no history involvement.
	g.ScrollUp(1, 3, 1)

	if g.HistorySize() != 0 {
		t.Fatalf("inner region scroll must not touch history, got %d", g.HistorySize())
	}
	if got := g.Row(1).String(); got != "ccc" {
		t.Errorf("expected 'ccc' at line 1, got %q", got)
	}
	if got := g.Row(2).String(); got != "" {
		t.Errorf("expected blank line 2, got %q", got)
	}
}

func TestGridHistoryBound(t *testing.T) {
	g := NewGrid(2, 10, 3)
	for i := 0; i < 10; i++ {
		fillRow(g, 0, string(rune('a'+i)))
		g.ScrollUp(0, 2, 1)
	}

	if g.HistorySize() != 3 {
		t.Errorf("expected history capped at 3, got %d", g.HistorySize())
	}
	// The newest history line is the last one pushed.
	if got := g.Row(-1).String(); got != "j" {
		t.Errorf("expected 'j' as newest history line, got %q", got)
	}
}

func TestGridNoHistoryWhenDisabled(t *testing.T) {
	g := NewGrid(2, 10, 0)
	fillRow(g, 0, "aaa")

	g.ScrollUp(0, 2, 1)

	if g.HistorySize() != 0 {
		t.Errorf("expected no history, got %d", g.HistorySize())
	}
	if got := g.Row(0).String(); got != "" {
		t.Errorf("expected content discarded, got %q", got)
	}
}

func TestGridClearViewport(t *testing.T) {
	g := NewGrid(4, 10, 100)
	fillRow(g, 0, "aaa")
	fillRow(g, 2, "ccc")

	n := g.ClearViewport()

	if n != 3 {
		t.Errorf("expected 3 lines pushed, got %d", n)
	}
	if g.HistorySize() != 3 {
		t.Errorf("expected 3 history lines, got %d", g.HistorySize())
	}
	for line := 0; line < 4; line++ {
		if got := g.Row(line).String(); got != "" {
			t.Errorf("expected blank line %d, got %q", line, got)
		}
	}
	if got := g.Row(-3).String(); got != "aaa" {
		t.Errorf("expected 'aaa' preserved in history, got %q", got)
	}
}

func TestGridClearViewportEmpty(t *testing.T) {
	g := NewGrid(4, 10, 100)

	if n := g.ClearViewport(); n != 0 {
		t.Errorf("expected no-op on blank screen, got %d", n)
	}
}

func TestGridClearHistory(t *testing.T) {
	g := NewGrid(2, 10, 100)
	fillRow(g, 0, "aaa")
	g.ScrollUp(0, 2, 1)

	g.ClearHistory()

	if g.HistorySize() != 0 {
		t.Errorf("expected history cleared, got %d", g.HistorySize())
	}
	if g.DisplayOffset() != 0 {
		t.Errorf("expected display offset reset, got %d", g.DisplayOffset())
	}
}

func TestGridDisplayScroll(t *testing.T) {
	g := NewGrid(2, 10, 100)
	for i := 0; i < 5; i++ {
		g.ScrollUp(0, 2, 1)
	}

	g.ScrollDisplay(2)
	if g.DisplayOffset() != 2 {
		t.Errorf("expected offset 2, got %d", g.DisplayOffset())
	}

	g.ScrollDisplay(100)
	if g.DisplayOffset() != 5 {
		t.Errorf("expected offset clamped to 5, got %d", g.DisplayOffset())
	}

	g.ScrollDisplayBottom()
	if g.DisplayOffset() != 0 {
		t.Errorf("expected offset 0, got %d", g.DisplayOffset())
	}

	g.ScrollDisplayTop()
	if g.DisplayOffset() != 5 {
		t.Errorf("expected offset 5, got %d", g.DisplayOffset())
	}
}

func TestGridDisplayOffsetTracksScroll(t *testing.T) {
	g := NewGrid(2, 10, 100)
	g.ScrollUp(0, 2, 1)
	g.ScrollDisplay(1)

	// New content while scrolled back keeps the viewport anchored.
	g.ScrollUp(0, 2, 1)
	if g.DisplayOffset() != 2 {
		t.Errorf("expected offset to follow history growth, got %d", g.DisplayOffset())
	}
}

func TestGridResizeCols(t *testing.T) {
	g := NewGrid(2, 4, 0)
	fillRow(g, 0, "abcd")

	g.Resize(2, 8)
	if g.Cols() != 8 {
		t.Fatalf("expected 8 cols, got %d", g.Cols())
	}
	if got := g.Row(0).String(); got != "abcd" {
		t.Errorf("expected content preserved, got %q", got)
	}

	g.Resize(2, 2)
	if got := g.Row(0).String(); got != "ab" {
		t.Errorf("expected content truncated to 'ab', got %q", got)
	}
}

func TestGridResizeLinesPullsHistory(t *testing.T) {
	g := NewGrid(2, 10, 100)
	fillRow(g, 0, "aaa")
	g.ScrollUp(0, 2, 1)

	g.Resize(4, 10)

	if g.Lines() != 4 {
		t.Fatalf("expected 4 lines, got %d", g.Lines())
	}
	if g.HistorySize() != 0 {
		t.Errorf("expected history pulled back, got %d", g.HistorySize())
	}
	if got := g.Row(0).String(); got != "aaa" {
		t.Errorf("expected 'aaa' back on screen, got %q", got)
	}
}

func TestGridResizeShrinkDropsBlankBottom(t *testing.T) {
	g := NewGrid(24, 10, 100)
	fillRow(g, 0, "top")
	fillRow(g, 2, "here")
	g.Cursor().Pos = Pos{Row: 2, Col: 0}

	moved := g.Resize(14, 10)

	if moved != 0 {
		t.Fatalf("expected blank bottom rows dropped, content moved %d", moved)
	}
	if g.HistorySize() != 0 {
		t.Errorf("expected nothing pushed into history, got %d", g.HistorySize())
	}
	if g.Cursor().Pos.Row != 2 {
		t.Errorf("expected cursor to stay on row 2, got %d", g.Cursor().Pos.Row)
	}
	if got := g.Row(2).String(); got != "here" {
		t.Errorf("expected content under cursor kept, got %q", got)
	}
}

func TestGridResizeShrinkPushesIntoHistory(t *testing.T) {
	g := NewGrid(4, 10, 100)
	fillRow(g, 0, "aaa")
	fillRow(g, 3, "bbb")
	g.Cursor().Pos = Pos{Row: 3, Col: 0}

	moved := g.Resize(2, 10)

	if moved != -2 {
		t.Fatalf("expected content moved up 2, got %d", moved)
	}
	if g.HistorySize() != 2 {
		t.Errorf("expected 2 history rows, got %d", g.HistorySize())
	}
	if got := g.Row(-2).String(); got != "aaa" {
		t.Errorf("expected 'aaa' in history, got %q", got)
	}
	if g.Cursor().Pos.Row != 1 {
		t.Errorf("expected cursor shifted to row 1, got %d", g.Cursor().Pos.Row)
	}
}

func TestGridSaveRestoreCursor(t *testing.T) {
	g := NewGrid(10, 10, 0)
	g.Cursor().Pos = Pos{Row: 5, Col: 7}
	g.SaveCursor()
	g.Cursor().Pos = Pos{Row: 1, Col: 1}

	g.RestoreCursor()
	if g.Cursor().Pos != (Pos{Row: 5, Col: 7}) {
		t.Errorf("expected cursor restored to (5,7), got %v", g.Cursor().Pos)
	}
}

func TestGridRowPanicsOutOfBounds(t *testing.T) {
	g := NewGrid(2, 10, 0)

	defer func() {
		if recover() == nil {
			t.Error("expected panic for out-of-bounds line")
		}
	}()
	g.Row(5)
}
