package crosswords

import (
	"encoding/base64"
	"fmt"
	"image/color"

	"github.com/danielgatis/go-ansicode"
)

// writePty hands reply bytes to the listener.
func (c *Crosswords) writePty(payload []byte) {
	c.listener.PtyWrite(c.route, payload)
}

func (c *Crosswords) writePtyString(s string) {
	c.writePty([]byte(s))
}

// effectiveLine adjusts a requested line for origin mode. The caller
// holds the lock.
func (c *Crosswords) effectiveLine(line int) int {
	if c.mode.Contains(ModeOrigin) {
		return line + c.scrollRegion.Start
	}
	return line
}

// clampLine bounds a target line to the screen, or to the scroll
// region under origin mode. The caller holds the lock.
func (c *Crosswords) clampLine(line int) int {
	if c.mode.Contains(ModeOrigin) {
		return clamp(line, c.scrollRegion.Start, c.scrollRegion.End)
	}
	return clamp(line, 0, c.lines-1)
}

// scrollUpRelative scrolls [origin, scrollRegion.End] up by n, rotating
// the selection with the displaced content. The caller holds the lock.
func (c *Crosswords) scrollUpRelative(origin, n int) {
	g := c.grid()
	g.ScrollUp(origin, c.scrollRegion.End+1, n)
	// Rotate after the scroll so the clamp sees the grown history.
	if c.selection != nil {
		c.selection = c.selection.Rotate(g, origin, c.scrollRegion.End+1, -n)
	}
	c.trackViCursor(g, origin, -n)
	c.damage.markFullyDamaged()
}

// trackViCursor moves the copy-mode cursor with content displaced by a
// scroll of [origin, scrollRegion.End], clamped into the buffer. The
// caller holds the lock.
func (c *Crosswords) trackViCursor(g *Grid, origin, delta int) {
	if !c.mode.Contains(ModeVi) {
		return
	}
	row := c.viCursor.Row
	if row > c.scrollRegion.End || (origin != 0 && row < origin) {
		return
	}
	c.viCursor = Pos{Row: row + delta, Col: c.viCursor.Col}.GridClamp(g)
}

// scrollDownRelative scrolls [origin, scrollRegion.End] down by n. The
// caller holds the lock.
func (c *Crosswords) scrollDownRelative(origin, n int) {
	g := c.grid()
	g.ScrollDown(origin, c.scrollRegion.End+1, n)
	if c.selection != nil {
		c.selection = c.selection.Rotate(g, origin, c.scrollRegion.End+1, n)
	}
	c.trackViCursor(g, origin, n)
	c.damage.markFullyDamaged()
}

// linefeed moves the cursor down one line, scrolling at the bottom of
// the scroll region. The caller holds the lock.
func (c *Crosswords) linefeed() {
	cur := c.grid().Cursor()
	if cur.Pos.Row == c.scrollRegion.End {
		c.scrollUpRelative(c.scrollRegion.Start, 1)
	} else if cur.Pos.Row+1 < c.lines {
		cur.Pos.Row++
	}
}

// wrapline flags the current row as soft-wrapped and continues at
// column 0 of the next line. The caller holds the lock.
func (c *Crosswords) wrapline() {
	g := c.grid()
	cur := g.Cursor()
	g.Row(cur.Pos.Row).SetWrapped(true)
	c.damage.damagePoint(cur.Pos.Row, c.cols-1, c.cols-1)
	c.linefeed()
	cur.Pos.Col = 0
	cur.ShouldWrap = false
}

// swapScreen switches between the primary and alternate grids. The
// caller holds the lock.
func (c *Crosswords) swapScreen(alt bool) {
	if alt {
		c.grids[primaryScreen].SaveCursor()
		c.saveCharsetsLocked()
		c.active = alternateScreen
		c.grids[alternateScreen].ResetRegion(0, c.lines)
		// The alternate grid picks up the primary cursor wholesale,
		// position included.
		*c.grids[alternateScreen].Cursor() = *c.grids[primaryScreen].Cursor()
	} else {
		c.active = primaryScreen
		c.grids[primaryScreen].RestoreCursor()
		c.restoreCharsetsLocked()
	}
	c.selection = nil
	c.damage.lastSelection = nil
	c.mode.syncKeyboard(c.keyboardStack().top())
	c.damage.markFullyDamaged()
	c.listener.RenderRoute(c.route)
}

func (c *Crosswords) saveCharsetsLocked() {
	c.savedCharsets[c.active] = savedCharsetState{
		charsets:      c.charsets,
		activeCharset: c.activeCharset,
		origin:        c.mode.Contains(ModeOrigin),
	}
}

func (c *Crosswords) restoreCharsetsLocked() {
	saved := c.savedCharsets[c.active]
	c.charsets = saved.charsets
	c.activeCharset = saved.activeCharset
	if saved.origin {
		c.mode.Insert(ModeOrigin)
	} else {
		c.mode.Remove(ModeOrigin)
	}
}

// insertBlanks shifts the rest of the row right and fills the gap with
// template squares. The caller holds the lock.
func (c *Crosswords) insertBlanks(pos Pos, n int) {
	if n <= 0 || pos.Col >= c.cols {
		return
	}
	if n > c.cols-pos.Col {
		n = c.cols - pos.Col
	}

	row := c.grid().Row(pos.Row)
	tmpl := &c.grid().Cursor().Template
	for col := c.cols - 1; col >= pos.Col+n; col-- {
		*row.At(col) = *row.At(col - n)
	}
	for col := pos.Col; col < pos.Col+n; col++ {
		row.At(col).Reset(tmpl)
	}
	if occ := row.Occupied(); occ > pos.Col {
		row.Touch(min(occ+n, c.cols) - 1)
	}
	c.damage.damagePoint(pos.Row, pos.Col, c.cols-1)
}

// ApplicationCommandReceived handles APC payloads. None are supported;
// the payload is logged and dropped.
func (c *Crosswords) ApplicationCommandReceived(data []byte) {
	c.logger.Debug("ignoring APC sequence", "len", len(data))
}

// Backspace moves the cursor one column left, stopping at column 0.
func (c *Crosswords) Backspace() {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur := c.grid().Cursor()
	if cur.Pos.Col > 0 {
		cur.Pos.Col--
	}
	cur.ShouldWrap = false
}

// Bell forwards BEL to the listener, flagging urgency when urgency
// hints are enabled.
func (c *Crosswords) Bell() {
	c.mu.RLock()
	urgent := c.mode.Contains(ModeUrgencyHints)
	c.mu.RUnlock()

	c.listener.Bell(c.route, urgent)
}

// CarriageReturn moves the cursor to column 0 of the current line.
func (c *Crosswords) CarriageReturn() {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur := c.grid().Cursor()
	cur.Pos.Col = 0
	cur.ShouldWrap = false
}

// CellSizePixels reports the cell box in pixels.
func (c *Crosswords) CellSizePixels() {
	c.mu.RLock()
	w, h := c.cellWidth, c.cellHeight
	c.mu.RUnlock()

	c.writePtyString(fmt.Sprintf("\x1b[6;%d;%dt", h, w))
}

// ClearLine erases part of the current line: right of the cursor, left
// of it (inclusive), or the whole line. Erased squares take the
// template's background.
func (c *Crosswords) ClearLine(mode ansicode.LineClearMode) {
	c.mu.Lock()
	defer c.mu.Unlock()

	g := c.grid()
	cur := g.Cursor()
	row := g.Row(cur.Pos.Row)

	switch mode {
	case ansicode.LineClearModeRight:
		row.ResetRange(cur.Pos.Col, c.cols, &cur.Template)
		c.damage.damagePoint(cur.Pos.Row, cur.Pos.Col, c.cols-1)
	case ansicode.LineClearModeLeft:
		row.ResetRange(0, cur.Pos.Col+1, &cur.Template)
		c.damage.damagePoint(cur.Pos.Row, 0, cur.Pos.Col)
	case ansicode.LineClearModeAll:
		row.ResetRange(0, c.cols, &cur.Template)
		c.damage.damageLine(cur.Pos.Row, c.cols)
	}
	cur.ShouldWrap = false
}

// ClearScreen erases screen regions. Clearing everything on the
// primary screen scrolls the content into history instead of
// discarding it; ClearModeSaved drops the history itself.
func (c *Crosswords) ClearScreen(mode ansicode.ClearMode) {
	c.mu.Lock()
	defer c.mu.Unlock()

	g := c.grid()
	cur := g.Cursor()

	switch mode {
	case ansicode.ClearModeBelow:
		g.Row(cur.Pos.Row).ResetRange(cur.Pos.Col, c.cols, &cur.Template)
		if cur.Pos.Row+1 < c.lines {
			g.ResetRegion(cur.Pos.Row+1, c.lines)
		}
	case ansicode.ClearModeAbove:
		if cur.Pos.Row > 0 {
			g.ResetRegion(0, cur.Pos.Row)
		}
		g.Row(cur.Pos.Row).ResetRange(0, cur.Pos.Col+1, &cur.Template)
	case ansicode.ClearModeAll:
		if n := g.ClearViewport(); n > 0 && c.mode.Contains(ModeVi) {
			c.viCursor = Pos{Row: c.viCursor.Row - n, Col: c.viCursor.Col}.GridClamp(g)
		}
	case ansicode.ClearModeSaved:
		g.ClearHistory()
	}

	cur.ShouldWrap = false
	c.clearSelectionLocked()
	c.damage.markFullyDamaged()
}

// ClearTabs removes the tab stop under the cursor or all of them.
func (c *Crosswords) ClearTabs(mode ansicode.TabulationClearMode) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch mode {
	case ansicode.TabulationClearModeCurrent:
		c.tabs.Clear(c.grid().Cursor().Pos.Col)
	case ansicode.TabulationClearModeAll:
		c.tabs.ClearAll()
	}
}

// ClipboardLoad answers an OSC 52 read with the listener's clipboard
// content, base64-encoded. Nothing is sent when the clipboard is
// empty.
func (c *Crosswords) ClipboardLoad(clipboard byte, terminator string) {
	content := c.listener.ClipboardLoad(c.route, clipboard)
	if content == "" {
		return
	}
	encoded := base64.StdEncoding.EncodeToString([]byte(content))
	c.writePtyString("\x1b]52;" + string(clipboard) + ";" + encoded + terminator)
}

// ClipboardStore forwards an OSC 52 write to the listener.
func (c *Crosswords) ClipboardStore(clipboard byte, data []byte) {
	c.listener.ClipboardStore(c.route, clipboard, string(data))
}

// ConfigureCharset designates a character set into one of the G-slots.
func (c *Crosswords) ConfigureCharset(index ansicode.CharsetIndex, charset ansicode.Charset) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := CharsetIndex(index)
	if idx >= CharsetIndexG0 && idx <= CharsetIndexG3 {
		c.charsets[idx] = Charset(charset)
	}
}

// Decaln fills the whole screen with 'E' (DEC screen alignment test).
func (c *Crosswords) Decaln() {
	c.mu.Lock()
	defer c.mu.Unlock()

	g := c.grid()
	tmpl := NewSquare()
	tmpl.Char = 'E'
	for line := 0; line < c.lines; line++ {
		row := g.Row(line)
		for col := 0; col < c.cols; col++ {
			sq := tmpl
			row.Set(col, sq)
		}
	}
	c.damage.markFullyDamaged()
}

// DeleteChars removes n squares at the cursor, shifting the rest of
// the line left and filling the tail with template squares.
func (c *Crosswords) DeleteChars(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n <= 0 {
		n = 1
	}
	g := c.grid()
	cur := g.Cursor()
	if n > c.cols-cur.Pos.Col {
		n = c.cols - cur.Pos.Col
	}

	row := g.Row(cur.Pos.Row)
	for col := cur.Pos.Col; col < c.cols-n; col++ {
		*row.At(col) = *row.At(col + n)
	}
	row.ResetRange(c.cols-n, c.cols, &cur.Template)
	row.Truncate(max(cur.Pos.Col, row.Occupied()-n))
	c.damage.damagePoint(cur.Pos.Row, cur.Pos.Col, c.cols-1)
}

// DeleteLines removes n lines at the cursor inside the scroll region,
// scrolling the rest up.
func (c *Crosswords) DeleteLines(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur := c.grid().Cursor()
	if cur.Pos.Row >= c.scrollRegion.Start && cur.Pos.Row <= c.scrollRegion.End && n > 0 {
		c.scrollUpRelative(cur.Pos.Row, n)
	}
}

// DesktopNotification forwards an OSC notification to the listener.
// Query payloads are not answered.
func (c *Crosswords) DesktopNotification(payload *ansicode.NotificationPayload) {
	if payload == nil {
		return
	}
	if payload.PayloadType == "?" {
		c.logger.Debug("ignoring notification capability query", "id", payload.ID)
		return
	}
	c.listener.DesktopNotification(c.route, payload.ID, string(payload.Data))
}

// DeviceStatus answers DSR queries: operating status (5) and cursor
// position (6). The position is region-relative in origin mode.
func (c *Crosswords) DeviceStatus(n int) {
	c.mu.RLock()
	pos := c.grid().Cursor().Pos
	if c.mode.Contains(ModeOrigin) {
		pos.Row -= c.scrollRegion.Start
	}
	c.mu.RUnlock()

	switch n {
	case 5:
		c.writePtyString("\x1b[0n")
	case 6:
		c.writePtyString(fmt.Sprintf("\x1b[%d;%dR", pos.Row+1, pos.Col+1))
	default:
		c.logger.Debug("unsupported device status report", "arg", n)
	}
}

// EraseChars resets n squares at the cursor without shifting.
func (c *Crosswords) EraseChars(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n <= 0 {
		n = 1
	}
	g := c.grid()
	cur := g.Cursor()
	end := min(cur.Pos.Col+n, c.cols)
	g.Row(cur.Pos.Row).ResetRange(cur.Pos.Col, end, &cur.Template)
	c.damage.damagePoint(cur.Pos.Row, cur.Pos.Col, end-1)
	cur.ShouldWrap = false
}

// Goto moves the cursor to (line, col), clamped to the screen and
// adjusted for origin mode.
func (c *Crosswords) Goto(line, col int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur := c.grid().Cursor()
	cur.Pos.Row = c.clampLine(c.effectiveLine(line))
	cur.Pos.Col = clamp(col, 0, c.cols-1)
	cur.ShouldWrap = false
}

// GotoCol moves the cursor to a column on the current line.
func (c *Crosswords) GotoCol(col int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur := c.grid().Cursor()
	cur.Pos.Col = clamp(col, 0, c.cols-1)
	cur.ShouldWrap = false
}

// GotoLine moves the cursor to a line, keeping the column.
func (c *Crosswords) GotoLine(line int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur := c.grid().Cursor()
	cur.Pos.Row = c.clampLine(c.effectiveLine(line))
	cur.ShouldWrap = false
}

// HorizontalTabSet sets a tab stop at the cursor column.
func (c *Crosswords) HorizontalTabSet() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tabs.Set(c.grid().Cursor().Pos.Col)
}

// IdentifyTerminal answers DA queries. The primary report claims VT220
// with sixel, selective erase, and color support; the secondary report
// uses an xterm-compatible version field.
func (c *Crosswords) IdentifyTerminal(b byte) {
	switch b {
	case 0:
		c.writePtyString("\x1b[?62;4;6;22c")
	case '>':
		c.writePtyString("\x1b[>0;276;0c")
	default:
		c.logger.Debug("unsupported DA intermediate", "byte", b)
	}
}

// Input writes one character at the cursor. Wide characters occupy two
// squares; zero-width characters attach to the square before the
// cursor; writing into the last column arms the pending-wrap state.
func (c *Crosswords) Input(r rune) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.charsets[c.activeCharset] == CharsetLineDrawing {
		r = translateLineDrawing(r)
	}

	width := runeWidth(r)
	// C0 code points report zero width but still occupy a cell when
	// delivered here; only combining marks attach to the previous cell.
	if width == 0 && r < 0x20 {
		width = 1
	}
	g := c.grid()
	cur := g.Cursor()

	if width == 0 {
		col := cur.Pos.Col
		if !cur.ShouldWrap && col > 0 {
			col--
		}
		row := g.Row(cur.Pos.Row)
		if col > 0 && row.At(col).IsWideSpacer() {
			col--
		}
		row.At(col).PushZeroWidth(r)
		c.damage.damagePoint(cur.Pos.Row, col, col)
		return
	}

	if cur.ShouldWrap {
		if c.mode.Contains(ModeLineWrap) {
			c.wrapline()
		} else {
			cur.ShouldWrap = false
		}
	}

	wide := width == 2

	// A wide glyph that does not fit leaves a spacer in the last
	// column and continues on the next line. With wrapping disabled
	// the write is abandoned rather than splitting the glyph.
	if wide && cur.Pos.Col+1 >= c.cols {
		if !c.mode.Contains(ModeLineWrap) {
			cur.ShouldWrap = true
			return
		}
		row := g.Row(cur.Pos.Row)
		sq := row.At(c.cols - 1)
		sq.Reset(&cur.Template)
		sq.SetFlag(FlagLeadingWideCharSpacer)
		row.Touch(c.cols - 1)
		c.damage.damagePoint(cur.Pos.Row, c.cols-1, c.cols-1)
		c.wrapline()
	}

	if c.mode.Contains(ModeInsert) {
		c.insertBlanks(cur.Pos, width)
	}

	pos := cur.Pos
	row := g.Row(pos.Row)
	tmpl := &cur.Template

	sq := row.At(pos.Col)
	sq.Char = r
	sq.Fg = tmpl.Fg
	sq.Bg = tmpl.Bg
	sq.Underline = tmpl.Underline
	sq.Flags = tmpl.Flags &^ (FlagWideChar | FlagWideCharSpacer | FlagLeadingWideCharSpacer | FlagWrapLine)
	sq.extra = nil
	if wide {
		sq.SetFlag(FlagWideChar)
	}
	if c.currentHyperlink != nil {
		link := *c.currentHyperlink
		sq.SetHyperlink(&link)
	}
	row.Touch(pos.Col)

	if wide {
		spacer := row.At(pos.Col + 1)
		spacer.Reset(tmpl)
		spacer.SetFlag(FlagWideCharSpacer)
		row.Touch(pos.Col + 1)
	}
	c.damage.damagePoint(pos.Row, pos.Col, pos.Col+width-1)

	if pos.Col+width < c.cols {
		cur.Pos.Col = pos.Col + width
	} else {
		cur.Pos.Col = c.cols - 1
		cur.ShouldWrap = true
	}
}

// translateLineDrawing maps the DEC special graphics charset onto
// Unicode box-drawing characters.
func translateLineDrawing(r rune) rune {
	switch r {
	case 'j':
		return '┘'
	case 'k':
		return '┐'
	case 'l':
		return '┌'
	case 'm':
		return '└'
	case 'n':
		return '┼'
	case 'q':
		return '─'
	case 't':
		return '├'
	case 'u':
		return '┤'
	case 'v':
		return '┴'
	case 'w':
		return '┬'
	case 'x':
		return '│'
	default:
		return r
	}
}

// InsertBlank inserts n template squares at the cursor, shifting the
// rest of the line right.
func (c *Crosswords) InsertBlank(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n <= 0 {
		n = 1
	}
	c.insertBlanks(c.grid().Cursor().Pos, n)
}

// InsertBlankLines inserts n blank lines at the cursor inside the
// scroll region, scrolling the rest down.
func (c *Crosswords) InsertBlankLines(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur := c.grid().Cursor()
	if cur.Pos.Row >= c.scrollRegion.Start && cur.Pos.Row <= c.scrollRegion.End && n > 0 {
		c.scrollDownRelative(cur.Pos.Row, n)
	}
}

// LineFeed moves the cursor down, scrolling at the bottom of the
// scroll region. With line-feed/new-line mode it also returns to
// column 0.
func (c *Crosswords) LineFeed() {
	c.mu.Lock()
	defer c.mu.Unlock()

	g := c.grid()
	cur := g.Cursor()
	g.Row(cur.Pos.Row).SetWrapped(false)

	if c.mode.Contains(ModeLineFeedNewLine) {
		cur.Pos.Col = 0
	}
	cur.ShouldWrap = false
	c.linefeed()
}

// MoveBackward moves the cursor left n columns, stopping at column 0.
func (c *Crosswords) MoveBackward(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur := c.grid().Cursor()
	cur.Pos.Col = clamp(cur.Pos.Col-n, 0, c.cols-1)
	cur.ShouldWrap = false
}

// MoveBackwardTabs moves the cursor left across n tab stops, stopping
// at column 0.
func (c *Crosswords) MoveBackwardTabs(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur := c.grid().Cursor()
	for i := 0; i < n; i++ {
		cur.Pos.Col = c.tabs.Prev(cur.Pos.Col)
	}
	cur.ShouldWrap = false
}

// MoveDown moves the cursor down n lines without scrolling.
func (c *Crosswords) MoveDown(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur := c.grid().Cursor()
	cur.Pos.Row = clamp(cur.Pos.Row+n, 0, c.lines-1)
	cur.ShouldWrap = false
}

// MoveDownCr moves the cursor down n lines and to column 0.
func (c *Crosswords) MoveDownCr(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur := c.grid().Cursor()
	cur.Pos.Row = clamp(cur.Pos.Row+n, 0, c.lines-1)
	cur.Pos.Col = 0
	cur.ShouldWrap = false
}

// MoveForward moves the cursor right n columns, stopping at the last
// column.
func (c *Crosswords) MoveForward(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur := c.grid().Cursor()
	cur.Pos.Col = clamp(cur.Pos.Col+n, 0, c.cols-1)
	cur.ShouldWrap = false
}

// MoveForwardTabs moves the cursor right across n tab stops.
func (c *Crosswords) MoveForwardTabs(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur := c.grid().Cursor()
	for i := 0; i < n; i++ {
		cur.Pos.Col = c.tabs.Next(cur.Pos.Col)
	}
	cur.ShouldWrap = false
}

// MoveUp moves the cursor up n lines without scrolling.
func (c *Crosswords) MoveUp(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur := c.grid().Cursor()
	cur.Pos.Row = clamp(cur.Pos.Row-n, 0, c.lines-1)
	cur.ShouldWrap = false
}

// MoveUpCr moves the cursor up n lines and to column 0.
func (c *Crosswords) MoveUpCr(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur := c.grid().Cursor()
	cur.Pos.Row = clamp(cur.Pos.Row-n, 0, c.lines-1)
	cur.Pos.Col = 0
	cur.ShouldWrap = false
}

// PopKeyboardMode removes n entries from the active screen's keyboard
// mode stack.
func (c *Crosswords) PopKeyboardMode(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stack := c.keyboardStack()
	stack.pop(n)
	c.mode.syncKeyboard(stack.top())
}

// PopTitle restores the most recently pushed title.
func (c *Crosswords) PopTitle() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.titleStack) == 0 {
		return
	}
	c.title = c.titleStack[len(c.titleStack)-1]
	c.titleStack = c.titleStack[:len(c.titleStack)-1]
	c.listener.SetTitle(c.route, c.title)
}

// PrivacyMessageReceived handles PM payloads. None are supported.
func (c *Crosswords) PrivacyMessageReceived(data []byte) {
	c.logger.Debug("ignoring PM sequence", "len", len(data))
}

// PushKeyboardMode pushes a new entry onto the active screen's
// keyboard mode stack.
func (c *Crosswords) PushKeyboardMode(mode ansicode.KeyboardMode) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stack := c.keyboardStack()
	stack.push(mode)
	c.mode.syncKeyboard(stack.top())
}

// PushTitle saves the current title onto the title stack.
func (c *Crosswords) PushTitle() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.titleStack = append(c.titleStack, c.title)
}

// ReportKeyboardMode answers a Kitty keyboard protocol query with the
// active mode.
func (c *Crosswords) ReportKeyboardMode() {
	c.mu.RLock()
	mode := c.keyboardStack().top()
	c.mu.RUnlock()

	c.writePtyString(fmt.Sprintf("\x1b[?%du", mode))
}

// ReportModifyOtherKeys answers an XTQMODKEYS query.
func (c *Crosswords) ReportModifyOtherKeys() {
	c.mu.RLock()
	modify := c.modifyOtherKeys
	c.mu.RUnlock()

	c.writePtyString(fmt.Sprintf("\x1b[>4;%dm", modify))
}

// ResetColor drops a palette override set via OSC 4/10/11/12.
func (c *Crosswords) ResetColor(i int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.colors, i)
	c.damage.markFullyDamaged()
}

// ResetState performs a full reset (RIS): both grids cleared, all
// modes, charsets, colors, titles, and keyboard stacks back to their
// defaults. Scrollback is kept.
func (c *Crosswords) ResetState() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.grids {
		g := c.grids[i]
		g.ResetRegion(0, c.lines)
		cur := g.Cursor()
		*cur = NewCursor()
		g.SaveCursor()
	}
	c.active = primaryScreen

	c.mode = DefaultMode
	c.scrollRegion.Start = 0
	c.scrollRegion.End = c.lines - 1
	c.charsets = [4]Charset{}
	c.activeCharset = CharsetIndexG0
	c.savedCharsets = [2]savedCharsetState{}
	c.tabs = NewTabStops(c.cols)
	c.colors = make(map[int]color.Color)
	c.keyboardStacks = [2]keyboardModeStack{}
	c.modifyOtherKeys = 0
	c.currentHyperlink = nil
	c.cursorStyle = 0
	c.title = ""
	c.titleStack = nil
	c.selection = nil
	c.workingDir = ""

	c.damage.reset(c.lines, c.cols)
	c.damage.markFullyDamaged()
	c.listener.RenderRoute(c.route)
}

// RestoreCursorPosition restores the cursor, attribute template,
// charsets, and origin mode saved by SaveCursorPosition.
func (c *Crosswords) RestoreCursorPosition() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.grid().RestoreCursor()
	c.restoreCharsetsLocked()
}

// ReverseIndex moves the cursor up one line, scrolling down at the top
// of the scroll region.
func (c *Crosswords) ReverseIndex() {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur := c.grid().Cursor()
	if cur.Pos.Row == c.scrollRegion.Start {
		c.scrollDownRelative(c.scrollRegion.Start, 1)
	} else if cur.Pos.Row > 0 {
		cur.Pos.Row--
	}
}

// SaveCursorPosition saves the cursor, attribute template, charsets,
// and origin mode (DECSC).
func (c *Crosswords) SaveCursorPosition() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.grid().SaveCursor()
	c.saveCharsetsLocked()
}

// ScrollDown scrolls the scroll region down n lines.
func (c *Crosswords) ScrollDown(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n > 0 {
		c.scrollDownRelative(c.scrollRegion.Start, n)
	}
}

// ScrollUp scrolls the scroll region up n lines, feeding scrollback on
// the primary screen.
func (c *Crosswords) ScrollUp(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n > 0 {
		c.scrollUpRelative(c.scrollRegion.Start, n)
	}
}

// ShellIntegrationMark handles OSC 133 shell integration marks. The
// engine does not track them.
func (c *Crosswords) ShellIntegrationMark(mark ansicode.ShellIntegrationMark, exitCode int) {
	c.logger.Debug("ignoring shell integration mark", "mark", mark, "exitCode", exitCode)
}

// SetActiveCharset selects which G-slot is active (SI/SO, LS2, LS3).
func (c *Crosswords) SetActiveCharset(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n >= 0 && n < 4 {
		c.activeCharset = CharsetIndex(n)
	}
}

// SetColor overrides a palette entry (OSC 4) or semantic color
// (OSC 10/11/12).
func (c *Crosswords) SetColor(index int, col color.Color) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.colors[index] = col
	c.damage.markFullyDamaged()
}

// SetCursorStyle changes the cursor shape (DECSCUSR).
func (c *Crosswords) SetCursorStyle(style ansicode.CursorStyle) {
	c.mu.Lock()
	c.cursorStyle = style
	blinking := c.mode.Contains(ModeBlinkingCursor)
	c.mu.Unlock()

	c.listener.CursorBlinkingChange(c.route, blinking)
}

// SetDynamicColor answers an OSC color query. Overrides win; otherwise
// the host is asked, then the default palette.
func (c *Crosswords) SetDynamicColor(prefix string, index int, terminator string) {
	c.mu.RLock()
	override, ok := c.colors[index]
	c.mu.RUnlock()

	var rgba color.RGBA
	switch {
	case ok:
		rgba = resolveDefaultColor(override, true)
	default:
		if host := c.listener.ColorRequest(c.route, index); host != nil {
			rgba = resolveDefaultColor(host, true)
		} else if index >= 0 && index < 256 {
			rgba = DefaultPalette[index]
		} else {
			rgba = resolveNamedColor(index, true)
		}
	}

	c.writePtyString(fmt.Sprintf("\x1b]%s;rgb:%02x/%02x/%02x%s", prefix, rgba.R, rgba.G, rgba.B, terminator))
}

// SetHyperlink sets the hyperlink attached to subsequently written
// squares (OSC 8). nil ends the link.
func (c *Crosswords) SetHyperlink(hyperlink *ansicode.Hyperlink) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if hyperlink == nil {
		c.currentHyperlink = nil
		return
	}
	c.currentHyperlink = &Hyperlink{ID: hyperlink.ID, URI: hyperlink.URI}
}

// SetKeyboardMode modifies the top of the keyboard mode stack.
func (c *Crosswords) SetKeyboardMode(mode ansicode.KeyboardMode, behavior ansicode.KeyboardModeBehavior) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stack := c.keyboardStack()
	stack.set(mode, behavior)
	c.mode.syncKeyboard(stack.top())
}

// SetKeypadApplicationMode makes the numeric keypad send escape
// sequences (DECKPAM).
func (c *Crosswords) SetKeypadApplicationMode() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.mode.Insert(ModeKeypadApplication)
}

// SetMode enables a terminal mode.
func (c *Crosswords) SetMode(mode ansicode.TerminalMode) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.setModeLocked(mode, true)
}

// setModeLocked applies a mode change with its side effects. The
// caller holds the lock.
func (c *Crosswords) setModeLocked(mode ansicode.TerminalMode, set bool) {
	var m Mode

	switch mode {
	case ansicode.TerminalModeCursorKeys:
		m = ModeCursorKeys
	case ansicode.TerminalModeColumnMode:
		m = ModeColumnMode
	case ansicode.TerminalModeInsert:
		m = ModeInsert
	case ansicode.TerminalModeOrigin:
		m = ModeOrigin
		if set {
			cur := c.grid().Cursor()
			cur.Pos = Pos{Row: c.scrollRegion.Start}
			cur.ShouldWrap = false
		}
	case ansicode.TerminalModeLineWrap:
		m = ModeLineWrap
	case ansicode.TerminalModeBlinkingCursor:
		m = ModeBlinkingCursor
		c.listener.CursorBlinkingChange(c.route, set)
	case ansicode.TerminalModeLineFeedNewLine:
		m = ModeLineFeedNewLine
	case ansicode.TerminalModeShowCursor:
		m = ModeShowCursor
	case ansicode.TerminalModeReportMouseClicks:
		m = ModeReportMouseClicks
	case ansicode.TerminalModeReportCellMouseMotion:
		m = ModeReportCellMouseMotion
	case ansicode.TerminalModeReportAllMouseMotion:
		m = ModeReportAllMouseMotion
	case ansicode.TerminalModeReportFocusInOut:
		m = ModeReportFocusInOut
	case ansicode.TerminalModeUTF8Mouse:
		m = ModeUTF8Mouse
	case ansicode.TerminalModeSGRMouse:
		m = ModeSGRMouse
	case ansicode.TerminalModeAlternateScroll:
		m = ModeAlternateScroll
	case ansicode.TerminalModeUrgencyHints:
		m = ModeUrgencyHints
	case ansicode.TerminalModeSwapScreenAndSetRestoreCursor:
		m = ModeSwapScreenAndSetRestoreCursor
		if set != (c.active == alternateScreen) {
			c.swapScreen(set)
		}
	case ansicode.TerminalModeBracketedPaste:
		m = ModeBracketedPaste
	default:
		c.logger.Debug("ignoring unsupported terminal mode", "mode", mode, "set", set)
		return
	}

	if set {
		c.mode.Insert(m)
	} else {
		c.mode.Remove(m)
	}
}

// SetModifyOtherKeys sets how modified keys are reported (XTMODKEYS).
func (c *Crosswords) SetModifyOtherKeys(modify ansicode.ModifyOtherKeys) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.modifyOtherKeys = modify
}

// SetScrollingRegion sets the scroll region (DECSTBM, 1-based
// inclusive bounds) and homes the cursor. Degenerate regions are
// ignored.
func (c *Crosswords) SetScrollingRegion(top, bottom int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	top--
	bottom--
	if top < 0 {
		top = 0
	}
	if bottom < 0 || bottom >= c.lines {
		bottom = c.lines - 1
	}
	// A region needs at least two lines.
	if top >= bottom {
		c.logger.Debug("ignoring degenerate scroll region", "top", top, "bottom", bottom)
		return
	}

	c.scrollRegion.Start = top
	c.scrollRegion.End = bottom

	cur := c.grid().Cursor()
	cur.Pos = Pos{}
	if c.mode.Contains(ModeOrigin) {
		cur.Pos.Row = top
	}
	cur.ShouldWrap = false
}

// SetTerminalCharAttribute applies one SGR attribute to the cursor's
// template.
func (c *Crosswords) SetTerminalCharAttribute(attr ansicode.TerminalCharAttribute) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tmpl := &c.grid().Cursor().Template

	switch attr.Attr {
	case ansicode.CharAttributeReset:
		*tmpl = NewSquare()

	case ansicode.CharAttributeBold:
		tmpl.SetFlag(FlagBold)

	case ansicode.CharAttributeDim:
		tmpl.SetFlag(FlagDim)

	case ansicode.CharAttributeItalic:
		tmpl.SetFlag(FlagItalic)

	case ansicode.CharAttributeUnderline:
		tmpl.ClearFlag(allUnderlineFlags)
		tmpl.SetFlag(FlagUnderline)

	case ansicode.CharAttributeDoubleUnderline:
		tmpl.ClearFlag(allUnderlineFlags)
		tmpl.SetFlag(FlagDoubleUnderline)

	case ansicode.CharAttributeCurlyUnderline:
		tmpl.ClearFlag(allUnderlineFlags)
		tmpl.SetFlag(FlagCurlyUnderline)

	case ansicode.CharAttributeDottedUnderline:
		tmpl.ClearFlag(allUnderlineFlags)
		tmpl.SetFlag(FlagDottedUnderline)

	case ansicode.CharAttributeDashedUnderline:
		tmpl.ClearFlag(allUnderlineFlags)
		tmpl.SetFlag(FlagDashedUnderline)

	case ansicode.CharAttributeBlinkSlow:
		tmpl.SetFlag(FlagBlinkSlow)

	case ansicode.CharAttributeBlinkFast:
		tmpl.SetFlag(FlagBlinkFast)

	case ansicode.CharAttributeReverse:
		tmpl.SetFlag(FlagInverse)

	case ansicode.CharAttributeHidden:
		tmpl.SetFlag(FlagHidden)

	case ansicode.CharAttributeStrike:
		tmpl.SetFlag(FlagStrike)

	case ansicode.CharAttributeCancelBold:
		tmpl.ClearFlag(FlagBold)

	case ansicode.CharAttributeCancelBoldDim:
		tmpl.ClearFlag(FlagBold | FlagDim)

	case ansicode.CharAttributeCancelItalic:
		tmpl.ClearFlag(FlagItalic)

	case ansicode.CharAttributeCancelUnderline:
		tmpl.ClearFlag(allUnderlineFlags)

	case ansicode.CharAttributeCancelBlink:
		tmpl.ClearFlag(FlagBlinkSlow | FlagBlinkFast)

	case ansicode.CharAttributeCancelReverse:
		tmpl.ClearFlag(FlagInverse)

	case ansicode.CharAttributeCancelHidden:
		tmpl.ClearFlag(FlagHidden)

	case ansicode.CharAttributeCancelStrike:
		tmpl.ClearFlag(FlagStrike)

	case ansicode.CharAttributeForeground:
		tmpl.Fg = resolveAttrColor(attr)

	case ansicode.CharAttributeBackground:
		tmpl.Bg = resolveAttrColor(attr)

	case ansicode.CharAttributeUnderlineColor:
		if attr.RGBColor == nil && attr.IndexedColor == nil && attr.NamedColor == nil {
			tmpl.Underline = nil
		} else {
			tmpl.Underline = resolveAttrColor(attr)
		}
	}
}

// resolveAttrColor extracts the color carried by an SGR attribute,
// deferring palette resolution to render time.
func resolveAttrColor(attr ansicode.TerminalCharAttribute) color.Color {
	if attr.RGBColor != nil {
		return color.RGBA{
			R: attr.RGBColor.R,
			G: attr.RGBColor.G,
			B: attr.RGBColor.B,
			A: 255,
		}
	}
	if attr.IndexedColor != nil {
		return &IndexedColor{Index: int(attr.IndexedColor.Index)}
	}
	if attr.NamedColor != nil {
		return &NamedColor{Name: int(*attr.NamedColor)}
	}

	if attr.Attr == ansicode.CharAttributeBackground {
		return &NamedColor{Name: NamedColorBackground}
	}
	return &NamedColor{Name: NamedColorForeground}
}

// SetTitle updates the window title and notifies the listener.
func (c *Crosswords) SetTitle(title string) {
	c.mu.Lock()
	c.title = title
	c.mu.Unlock()

	c.listener.SetTitle(c.route, title)
}

// SetUserVar stores a user variable reported by the shell.
func (c *Crosswords) SetUserVar(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.userVars[name] = value
}

// SetWorkingDirectory stores the working directory reported via OSC 7.
func (c *Crosswords) SetWorkingDirectory(uri string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.workingDir = uri
}

// SixelReceived decodes a Sixel DCS payload and places the resulting
// image at the cursor (or the origin in Sixel display mode).
func (c *Crosswords) SixelReceived(params [][]uint16, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := make([]int64, 0, len(params))
	for _, group := range params {
		if len(group) > 0 {
			p = append(p, int64(group[0]))
		}
	}

	var shared *[256]color.RGBA
	if !c.mode.Contains(ModeSixelPrivPalette) {
		if !c.sixelPaletteSet {
			c.sixelPalette = sixelDefaultPalette()
			c.sixelPaletteSet = true
		}
		shared = &c.sixelPalette
	}

	img, transparent, err := decodeSixel(p, data, shared)
	if err != nil {
		c.logger.Debug("dropping sixel payload", "err", err)
		return
	}
	c.insertGraphic(img, transparent)
}

// StartOfStringReceived handles SOS payloads. None are supported.
func (c *Crosswords) StartOfStringReceived(data []byte) {
	c.logger.Debug("ignoring SOS sequence", "len", len(data))
}

// Substitute replaces the square under the cursor with a replacement
// mark (SUB).
func (c *Crosswords) Substitute() {
	c.mu.Lock()
	defer c.mu.Unlock()

	g := c.grid()
	cur := g.Cursor()
	row := g.Row(cur.Pos.Row)
	row.At(cur.Pos.Col).Char = '?'
	row.Touch(cur.Pos.Col)
	c.damage.damagePoint(cur.Pos.Row, cur.Pos.Col, cur.Pos.Col)
}

// Tab advances the cursor across n tab stops.
func (c *Crosswords) Tab(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur := c.grid().Cursor()
	for i := 0; i < n; i++ {
		cur.Pos.Col = c.tabs.Next(cur.Pos.Col)
	}
	cur.ShouldWrap = false
}

// TextAreaSizeChars reports the screen size in character cells.
func (c *Crosswords) TextAreaSizeChars() {
	c.mu.RLock()
	lines, cols := c.lines, c.cols
	c.mu.RUnlock()

	c.writePtyString(fmt.Sprintf("\x1b[8;%d;%dt", lines, cols))
}

// TextAreaSizePixels reports the screen size in pixels, derived from
// the cell box.
func (c *Crosswords) TextAreaSizePixels() {
	c.mu.RLock()
	height := c.lines * c.cellHeight
	width := c.cols * c.cellWidth
	c.mu.RUnlock()

	c.writePtyString(fmt.Sprintf("\x1b[4;%d;%dt", height, width))
}

// UnsetKeypadApplicationMode returns the keypad to numeric mode
// (DECKPNM).
func (c *Crosswords) UnsetKeypadApplicationMode() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.mode.Remove(ModeKeypadApplication)
}

// UnsetMode disables a terminal mode.
func (c *Crosswords) UnsetMode(mode ansicode.TerminalMode) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.setModeLocked(mode, false)
}
