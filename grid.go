package crosswords

import "fmt"

// Cursor tracks a grid's write position, the attribute template applied to
// newly written squares, and the pending-wrap state set after writing into
// the last column.
type Cursor struct {
	Pos        Pos
	Template   Square
	ShouldWrap bool
}

// NewCursor creates a cursor at the origin with a default template.
func NewCursor() Cursor {
	return Cursor{Template: NewSquare()}
}

// Charset identifies a character set designated into a G-slot.
type Charset int

const (
	CharsetASCII Charset = iota
	CharsetLineDrawing
)

// CharsetIndex identifies one of the four G-slots (G0-G3).
type CharsetIndex int

const (
	CharsetIndexG0 CharsetIndex = iota
	CharsetIndexG1
	CharsetIndexG2
	CharsetIndexG3
)

// savedCharsetState captures the charset and origin-mode state saved by
// DECSC alongside the grid's saved cursor.
type savedCharsetState struct {
	charsets      [4]Charset
	activeCharset CharsetIndex
	origin        bool
}

// Grid is a scrollback-capable 2D buffer of rows. Storage is a single slice
// where raw[:historySize] holds scrollback (oldest first) and the remaining
// lines rows are the screen. Visible line L lives at raw[historySize+L], so
// signed line indices reach history transparently.
type Grid struct {
	raw        []Row
	lines      int
	cols       int
	maxHistory int

	// displayOffset is the scrollback position of the viewport: 0 pins the
	// viewport to the bottom, larger values scroll into history.
	displayOffset int

	cursor      Cursor
	savedCursor Cursor
}

// NewGrid creates a grid of default squares with the cursor at the origin.
// maxHistory bounds scrollback; 0 disables it (alternate screen).
func NewGrid(lines, cols, maxHistory int) *Grid {
	raw := make([]Row, lines)
	for i := range raw {
		raw[i] = NewRow(cols)
	}
	return &Grid{
		raw:         raw,
		lines:       lines,
		cols:        cols,
		maxHistory:  maxHistory,
		cursor:      NewCursor(),
		savedCursor: NewCursor(),
	}
}

// Lines returns the screen height in rows.
func (g *Grid) Lines() int {
	return g.lines
}

// Cols returns the grid width in columns.
func (g *Grid) Cols() int {
	return g.cols
}

// HistorySize returns the number of scrollback rows currently stored.
func (g *Grid) HistorySize() int {
	return len(g.raw) - g.lines
}

// TotalLines returns history plus screen rows.
func (g *Grid) TotalLines() int {
	return len(g.raw)
}

// TopmostLine returns the signed line index of the oldest stored row.
func (g *Grid) TopmostLine() int {
	return -g.HistorySize()
}

// MaxHistory returns the configured scrollback capacity.
func (g *Grid) MaxHistory() int {
	return g.maxHistory
}

// Row returns the row at the signed line index. Indexing outside
// [TopmostLine, Lines) is a caller bug: every coordinate derived from cursor
// motion or user input must be clamped before indexing.
func (g *Grid) Row(line int) *Row {
	if line < g.TopmostLine() || line >= g.lines {
		panic(fmt.Sprintf("grid: line %d outside [%d, %d)", line, g.TopmostLine(), g.lines))
	}
	return &g.raw[g.HistorySize()+line]
}

// Cursor returns the grid's cursor.
func (g *Grid) Cursor() *Cursor {
	return &g.cursor
}

// SaveCursor snapshots the cursor for a later RestoreCursor.
func (g *Grid) SaveCursor() {
	g.savedCursor = g.cursor
}

// RestoreCursor restores the last saved cursor, clamped into bounds.
func (g *Grid) RestoreCursor() {
	g.cursor = g.savedCursor
	g.cursor.Pos.Row = clamp(g.cursor.Pos.Row, 0, g.lines-1)
	g.cursor.Pos.Col = clamp(g.cursor.Pos.Col, 0, g.cols-1)
}

// screen returns the visible rows.
func (g *Grid) screen() []Row {
	return g.raw[g.HistorySize():]
}

// ScrollUp rotates rows up by n within the region [top, bottom). When the
// region starts at the top of the buffer, departing rows become scrollback
// (bounded by maxHistory, FIFO eviction); otherwise they are recycled as the
// blank rows entering at the region bottom.
func (g *Grid) ScrollUp(top, bottom, n int) {
	top, bottom, n = g.clampRegion(top, bottom, n)
	if n == 0 {
		return
	}

	if top == 0 && g.maxHistory > 0 {
		hs := g.HistorySize()
		screen := g.screen()

		next := make([]Row, 0, len(g.raw)+n)
		next = append(next, g.raw[:hs]...)
		next = append(next, screen[:n]...)
		next = append(next, screen[n:bottom]...)
		for i := 0; i < n; i++ {
			next = append(next, NewRow(g.cols))
		}
		next = append(next, screen[bottom:]...)

		if over := len(next) - g.lines - g.maxHistory; over > 0 {
			next = next[over:]
		}
		g.raw = next

		if g.displayOffset != 0 {
			g.displayOffset = clamp(g.displayOffset+n, 0, g.HistorySize())
		}
		return
	}

	region := g.screen()[top:bottom]
	recycled := make([]Row, n)
	copy(recycled, region[:n])
	copy(region, region[n:])
	for i := range recycled {
		recycled[i].Reset(&g.cursor.Template)
		recycled[i].SetWrapped(false)
		region[len(region)-n+i] = recycled[i]
	}
}

// ScrollDown rotates rows down by n within the region [top, bottom). When
// the region starts at the top of the buffer and scrollback is available,
// rows are pulled back out of history, undoing an earlier ScrollUp;
// otherwise blank rows enter at the region top and the bottom rows are
// recycled.
func (g *Grid) ScrollDown(top, bottom, n int) {
	top, bottom, n = g.clampRegion(top, bottom, n)
	if n == 0 {
		return
	}

	if top == 0 && g.HistorySize() > 0 {
		hs := g.HistorySize()
		pulled := n
		if pulled > hs {
			pulled = hs
		}
		screen := g.screen()

		next := make([]Row, 0, len(g.raw))
		next = append(next, g.raw[:hs-pulled]...)
		for i := pulled; i < n; i++ {
			next = append(next, NewRow(g.cols))
		}
		next = append(next, g.raw[hs-pulled:hs]...) // back onto the screen
		next = append(next, screen[:bottom-n]...)
		next = append(next, screen[bottom:]...)
		g.raw = next

		if g.displayOffset != 0 {
			g.displayOffset = clamp(g.displayOffset-pulled, 0, g.HistorySize())
		}
		return
	}

	region := g.screen()[top:bottom]
	recycled := make([]Row, n)
	copy(recycled, region[len(region)-n:])
	copy(region[n:], region[:len(region)-n])
	for i := range recycled {
		recycled[i].Reset(&g.cursor.Template)
		recycled[i].SetWrapped(false)
		region[i] = recycled[i]
	}
}

// clampRegion bounds a scroll region and count against the screen.
func (g *Grid) clampRegion(top, bottom, n int) (int, int, int) {
	if top < 0 {
		top = 0
	}
	if bottom > g.lines {
		bottom = g.lines
	}
	if n <= 0 || top >= bottom {
		return top, bottom, 0
	}
	if n > bottom-top {
		n = bottom - top
	}
	return top, bottom, n
}

// ResetRegion overwrites every square in screen lines [start, end) with the
// cursor template's default, preserving row identity.
func (g *Grid) ResetRegion(start, end int) {
	start = clamp(start, 0, g.lines)
	end = clamp(end, 0, g.lines)
	for line := start; line < end; line++ {
		row := g.Row(line)
		row.Reset(&g.cursor.Template)
		row.SetWrapped(false)
	}
}

// ClearViewport advances the buffer so the currently occupied viewport rows
// become history, producing a visually blank screen without losing
// scrollback. Returns the number of lines pushed into history so secondary
// cursors can be re-clamped.
func (g *Grid) ClearViewport() int {
	if g.maxHistory == 0 {
		g.ResetRegion(0, g.lines)
		return 0
	}

	last := -1
	screen := g.screen()
	for i := g.lines - 1; i >= 0; i-- {
		if screen[i].Occupied() > 0 || screen[i].IsWrapped() {
			last = i
			break
		}
	}
	if last < 0 {
		return 0
	}

	n := last + 1
	g.ScrollUp(0, g.lines, n)
	return n
}

// ClearHistory discards all scrollback rows, leaving the viewport unchanged.
func (g *Grid) ClearHistory() {
	g.raw = g.raw[g.HistorySize():]
	g.displayOffset = 0
}

// DisplayOffset returns the viewport's scrollback position.
func (g *Grid) DisplayOffset() int {
	return g.displayOffset
}

// ScrollDisplay moves the read-only viewport window by delta rows into
// history (positive scrolls up toward older content), clamped to
// [0, HistorySize].
func (g *Grid) ScrollDisplay(delta int) {
	g.displayOffset = clamp(g.displayOffset+delta, 0, g.HistorySize())
}

// ScrollDisplayTop pins the viewport to the oldest history row.
func (g *Grid) ScrollDisplayTop() {
	g.displayOffset = g.HistorySize()
}

// ScrollDisplayBottom pins the viewport back to the live screen.
func (g *Grid) ScrollDisplayBottom() {
	g.displayOffset = 0
}

// Resize reflows the grid to new dimensions. Growing lines pulls rows back
// out of history when available; shrinking drops blank rows below the cursor
// off the bottom first and pushes only the remainder into history (or
// discards it on a history-less grid). Column changes reallocate every row,
// preserving content left-aligned. The cursor is shifted with the content
// and clamped into bounds. Returns the number of rows the screen content
// moved by: positive when rows came back out of history, negative when rows
// were pushed in.
func (g *Grid) Resize(newLines, newCols int) int {
	if newCols != g.cols {
		for i := range g.raw {
			if newCols > g.cols {
				g.raw[i].Grow(newCols)
			} else {
				g.raw[i].Shrink(newCols)
			}
		}
		g.cols = newCols
	}

	moved := 0
	switch {
	case newLines > g.lines:
		delta := newLines - g.lines
		pulled := delta
		if hs := g.HistorySize(); pulled > hs {
			pulled = hs
		}
		// Pulled rows become visible at the top of the screen.
		g.cursor.Pos.Row += pulled
		g.savedCursor.Pos.Row += pulled
		moved = pulled
		for i := pulled; i < delta; i++ {
			g.raw = append(g.raw, NewRow(g.cols))
		}
		g.lines = newLines

	case newLines < g.lines:
		delta := g.lines - newLines
		// Blank rows below the cursor drop off the bottom; only the
		// remainder displaces content.
		screen := g.screen()
		drop := 0
		for i := g.lines - 1; i > g.cursor.Pos.Row && drop < delta; i-- {
			if screen[i].Occupied() > 0 || screen[i].IsWrapped() {
				break
			}
			drop++
		}
		g.raw = g.raw[:len(g.raw)-drop]
		push := delta - drop
		if push > 0 && g.maxHistory == 0 {
			// No scrollback to absorb the surplus: discard it too.
			g.raw = g.raw[:len(g.raw)-push]
			push = 0
		}
		g.lines = newLines
		if push > 0 {
			// The top rows became history; evict beyond capacity.
			if over := g.HistorySize() - g.maxHistory; over > 0 {
				g.raw = g.raw[over:]
			}
			g.cursor.Pos.Row -= push
			g.savedCursor.Pos.Row -= push
			moved = -push
		}
	}

	g.cursor.Pos.Row = clamp(g.cursor.Pos.Row, 0, g.lines-1)
	g.cursor.Pos.Col = clamp(g.cursor.Pos.Col, 0, g.cols-1)
	g.savedCursor.Pos.Row = clamp(g.savedCursor.Pos.Row, 0, g.lines-1)
	g.savedCursor.Pos.Col = clamp(g.savedCursor.Pos.Col, 0, g.cols-1)
	g.cursor.ShouldWrap = false
	g.displayOffset = clamp(g.displayOffset, 0, g.HistorySize())
	return moved
}
