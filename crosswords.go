package crosswords

import (
	"image/color"
	"log/slog"
	"sync"

	"github.com/danielgatis/go-ansicode"
)

// Ensure Crosswords implements ansicode.Handler
var _ ansicode.Handler = (*Crosswords)(nil)

const (
	// DefaultLines is the default number of screen lines.
	DefaultLines = 24
	// DefaultCols is the default number of screen columns.
	DefaultCols = 80
	// DefaultMaxHistory is the default scrollback capacity in lines.
	DefaultMaxHistory = 10000
)

// Version is reported in the XTVERSION reply.
const Version = "0.1.0"

// Grid indexes for the two screens.
const (
	primaryScreen = iota
	alternateScreen
)

// Crosswords is a headless terminal screen engine. It consumes a byte
// stream of text and escape sequences and maintains the resulting
// screen state: a primary grid with scrollback, an alternate grid,
// cursor, tab stops, selection, Sixel graphics, and per-line damage
// for renderers.
//
// All exported methods are safe for concurrent use.
type Crosswords struct {
	mu sync.RWMutex

	lines int
	cols  int

	grids      [2]*Grid
	active     int
	maxHistory int

	mode Mode

	// Scroll region bounds, inclusive.
	scrollRegion struct {
		Start int
		End   int
	}

	charsets      [4]Charset
	activeCharset CharsetIndex

	// Saved charset and origin state for DECSC/DECRC, one per screen.
	savedCharsets [2]savedCharsetState

	tabs *TabStops

	title      string
	titleStack []string

	// colors holds palette overrides set via OSC 4/10/11/12, keyed by
	// palette index or a NamedColor* value.
	colors map[int]color.Color

	currentHyperlink *Hyperlink
	cursorStyle      ansicode.CursorStyle

	// One keyboard mode stack per screen.
	keyboardStacks  [2]keyboardModeStack
	modifyOtherKeys ansicode.ModifyOtherKeys

	damage    damageState
	selection *Selection

	viCursor Pos

	// Shared Sixel palette, used when private-palette mode is off so
	// color definitions persist across images.
	sixelPalette    [256]color.RGBA
	sixelPaletteSet bool

	nextGraphicID GraphicID

	// Cell box in pixels, for Sixel placement and pixel size reports.
	cellWidth  int
	cellHeight int

	decoder  *ansicode.Decoder
	listener EventListener
	logger   *slog.Logger

	// route tags every listener callback so one listener can serve
	// several engines.
	route int

	workingDir string
	userVars   map[string]string
}

// Option configures a Crosswords engine during construction.
type Option func(*Crosswords)

// WithSize sets the screen dimensions. Values <= 0 are replaced with
// the defaults (24x80).
func WithSize(lines, cols int) Option {
	if lines <= 0 {
		lines = DefaultLines
	}
	if cols <= 0 {
		cols = DefaultCols
	}

	return func(c *Crosswords) {
		c.lines = lines
		c.cols = cols
	}
}

// WithMaxHistory sets the scrollback capacity in lines. Zero disables
// scrollback entirely.
func WithMaxHistory(n int) Option {
	if n < 0 {
		n = 0
	}
	return func(c *Crosswords) {
		c.maxHistory = n
	}
}

// WithEventListener sets the listener for events the engine cannot
// resolve on its own. Defaults to NoopListener.
func WithEventListener(l EventListener) Option {
	return func(c *Crosswords) {
		if l != nil {
			c.listener = l
		}
	}
}

// WithLogger sets the logger for protocol anomalies (malformed
// sequences, out-of-range parameters). Logging is discarded by
// default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crosswords) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRoute sets the route tag passed to every listener callback.
func WithRoute(route int) Option {
	return func(c *Crosswords) {
		c.route = route
	}
}

// WithCellBox sets the cell dimensions in pixels, used for Sixel
// placement and pixel-size reports.
func WithCellBox(width, height int) Option {
	return func(c *Crosswords) {
		if width > 0 {
			c.cellWidth = width
		}
		if height > 0 {
			c.cellHeight = height
		}
	}
}

// New creates an engine with the given options. Defaults to 24x80 with
// line wrap, visible cursor, and 10000 lines of scrollback.
func New(opts ...Option) *Crosswords {
	c := &Crosswords{
		lines:      DefaultLines,
		cols:       DefaultCols,
		maxHistory: DefaultMaxHistory,
		colors:     make(map[int]color.Color),
		userVars:   make(map[string]string),
		listener:   NoopListener{},
		logger:     slog.New(slog.DiscardHandler),
		cellWidth:  defaultCellWidth,
		cellHeight: defaultCellHeight,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.grids[primaryScreen] = NewGrid(c.lines, c.cols, c.maxHistory)
	c.grids[alternateScreen] = NewGrid(c.lines, c.cols, 0)
	c.active = primaryScreen

	c.tabs = NewTabStops(c.cols)
	c.scrollRegion.Start = 0
	c.scrollRegion.End = c.lines - 1
	c.mode = DefaultMode
	c.damage = newDamageState(c.lines, c.cols)
	c.damage.markFullyDamaged()

	c.decoder = ansicode.NewDecoder(c)

	return c
}

// grid returns the active screen's grid. The caller holds the lock.
func (c *Crosswords) grid() *Grid {
	return c.grids[c.active]
}

// keyboardStack returns the active screen's keyboard mode stack. The
// caller holds the lock.
func (c *Crosswords) keyboardStack() *keyboardModeStack {
	return &c.keyboardStacks[c.active]
}

// Write processes raw bytes, decoding escape sequences and updating
// the screen state. Implements io.Writer.
func (c *Crosswords) Write(data []byte) (int, error) {
	return c.decoder.Write(data)
}

// WriteString converts s to bytes and calls Write.
func (c *Crosswords) WriteString(s string) (int, error) {
	return c.Write([]byte(s))
}

// Lines returns the screen height in lines.
func (c *Crosswords) Lines() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lines
}

// Cols returns the screen width in columns.
func (c *Crosswords) Cols() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cols
}

// Square returns the square at the given line and column of the active
// grid. Negative lines address scrollback. Returns nil when out of
// bounds.
func (c *Crosswords) Square(line, col int) *Square {
	c.mu.RLock()
	defer c.mu.RUnlock()

	g := c.grid()
	if line < g.TopmostLine() || line >= g.Lines() || col < 0 || col >= c.cols {
		return nil
	}
	return g.Row(line).At(col)
}

// CursorPos returns the cursor position on the active grid.
func (c *Crosswords) CursorPos() Pos {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.grid().Cursor().Pos
}

// CursorVisible reports whether the cursor should be drawn.
func (c *Crosswords) CursorVisible() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mode.Contains(ModeShowCursor)
}

// CursorStyle returns the configured cursor shape.
func (c *Crosswords) CursorStyle() ansicode.CursorStyle {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cursorStyle
}

// Title returns the current window title.
func (c *Crosswords) Title() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.title
}

// WorkingDirectory returns the directory reported via OSC 7, or "".
func (c *Crosswords) WorkingDirectory() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.workingDir
}

// UserVar returns the value of a user variable set via OSC 1337.
func (c *Crosswords) UserVar(name string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.userVars[name]
	return v, ok
}

// EnableMode sets engine mode bits directly. Hosts use it for modes
// with no escape-sequence path, like ModeSixelDisplay or
// ModeSixelCursorRight.
func (c *Crosswords) EnableMode(mode Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode.Insert(mode)
}

// DisableMode clears engine mode bits directly.
func (c *Crosswords) DisableMode(mode Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode.Remove(mode)
}

// HasMode reports whether every bit of mode is set.
func (c *Crosswords) HasMode(mode Mode) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mode.Contains(mode)
}

// IsAlternateScreen reports whether the alternate grid is active.
func (c *Crosswords) IsAlternateScreen() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active == alternateScreen
}

// ScrollRegion returns the scroll region bounds, both inclusive.
func (c *Crosswords) ScrollRegion() (top, bottom int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.scrollRegion.Start, c.scrollRegion.End
}

// KeyboardMode returns the active Kitty keyboard protocol mode.
func (c *Crosswords) KeyboardMode() ansicode.KeyboardMode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.keyboardStack().top()
}

// ModifyOtherKeys returns the current modifyOtherKeys state.
func (c *Crosswords) ModifyOtherKeys() ansicode.ModifyOtherKeys {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.modifyOtherKeys
}

// ReportVersion writes the XTVERSION reply to the pty. Hosts whose
// input routing recognizes CSI > 0 q call this directly; the decoder
// has no callback for it.
func (c *Crosswords) ReportVersion() {
	c.writePtyString("\x1bP>|crosswords " + Version + "\x1b\\")
}

// HistorySize returns the number of scrollback lines on the primary
// grid.
func (c *Crosswords) HistorySize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.grids[primaryScreen].HistorySize()
}

// ClearHistory discards all scrollback on the primary grid.
func (c *Crosswords) ClearHistory() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.grids[primaryScreen].ClearHistory()
	c.damage.markFullyDamaged()
}

// DisplayOffset returns how many lines the viewport is scrolled back
// into history.
func (c *Crosswords) DisplayOffset() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.grids[primaryScreen].DisplayOffset()
}

// ScrollDisplay moves the viewport by delta lines into history
// (positive scrolls back, negative toward the live screen). The
// alternate screen ignores display scrolling.
func (c *Crosswords) ScrollDisplay(delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == alternateScreen {
		return
	}
	before := c.grids[primaryScreen].DisplayOffset()
	c.grids[primaryScreen].ScrollDisplay(delta)
	if c.grids[primaryScreen].DisplayOffset() != before {
		c.damage.markFullyDamaged()
		c.listener.RenderRoute(c.route)
	}
}

// ScrollDisplayTop scrolls the viewport to the oldest history line.
func (c *Crosswords) ScrollDisplayTop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == alternateScreen {
		return
	}
	before := c.grids[primaryScreen].DisplayOffset()
	c.grids[primaryScreen].ScrollDisplayTop()
	if c.grids[primaryScreen].DisplayOffset() != before {
		c.damage.markFullyDamaged()
		c.listener.RenderRoute(c.route)
	}
}

// ScrollDisplayBottom snaps the viewport back to the live screen.
func (c *Crosswords) ScrollDisplayBottom() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == alternateScreen {
		return
	}
	before := c.grids[primaryScreen].DisplayOffset()
	c.grids[primaryScreen].ScrollDisplayBottom()
	if c.grids[primaryScreen].DisplayOffset() != before {
		c.damage.markFullyDamaged()
		c.listener.RenderRoute(c.route)
	}
}

// Resize changes the screen dimensions. The primary grid reflows
// against its scrollback; the alternate grid is truncated or padded.
// A column change invalidates the selection; a pure line change moves
// it with the content. Invalid dimensions are ignored.
func (c *Crosswords) Resize(lines, cols int) {
	if lines <= 0 || cols <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if lines == c.lines && cols == c.cols {
		return
	}
	colsChanged := cols != c.cols
	oldLines := c.lines

	primaryMoved := c.grids[primaryScreen].Resize(lines, cols)
	altMoved := c.grids[alternateScreen].Resize(lines, cols)
	c.tabs.Resize(cols)

	moved := primaryMoved
	if c.active == alternateScreen {
		moved = altMoved
	}

	c.lines = lines
	c.cols = cols
	c.scrollRegion.Start = 0
	c.scrollRegion.End = lines - 1

	if colsChanged {
		// Selection coordinates do not survive a reflow.
		c.clearSelectionLocked()
	} else if c.selection != nil && moved != 0 {
		// The selection's coordinates are still in the old geometry.
		c.selection = c.selection.Rotate(c.grid(), 0, oldLines, moved)
	}
	c.viCursor = Pos{Row: c.viCursor.Row + moved, Col: c.viCursor.Col}.GridClamp(c.grid())

	c.damage.reset(lines, cols)
	c.damage.markFullyDamaged()
	c.listener.TextAreaSizeChanged(c.route, cols, lines)
	c.listener.RenderRoute(c.route)
}

// Damage reports what changed since the last ResetDamage, translated
// into viewport coordinates. When the viewport is scrolled into
// history only lines still visible are reported.
func (c *Crosswords) Damage() Damage {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Cursor movement damages the lines it left and entered.
	cur := c.grid().Cursor().Pos
	if cur != c.damage.lastCursor {
		c.damage.damageLine(c.damage.lastCursor.Row, c.cols)
		c.damage.damageLine(cur.Row, c.cols)
		c.damage.lastCursor = cur
	}

	if c.damage.full {
		return Damage{Full: true}
	}

	offset := 0
	if c.active == primaryScreen {
		offset = c.grids[primaryScreen].DisplayOffset()
	}

	var out []LineDamage
	for line, b := range c.damage.lines {
		if !b.damaged {
			continue
		}
		viewLine := line + offset
		if viewLine < 0 || viewLine >= c.lines {
			continue
		}
		out = append(out, LineDamage{Line: viewLine, Left: b.left, Right: b.right})
	}
	return Damage{Lines: out}
}

// ResetDamage clears all damage state.
func (c *Crosswords) ResetDamage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.damage.reset(c.lines, c.cols)
}

// VisibleRows returns copies of the squares currently in the viewport,
// respecting the display offset. The result is safe to read after the
// call returns.
func (c *Crosswords) VisibleRows() [][]Square {
	c.mu.RLock()
	defer c.mu.RUnlock()

	g := c.grid()
	offset := 0
	if c.active == primaryScreen {
		offset = g.DisplayOffset()
	}

	out := make([][]Square, c.lines)
	for line := 0; line < c.lines; line++ {
		row := g.Row(line - offset)
		squares := make([]Square, c.cols)
		for col := 0; col < c.cols && col < row.Len(); col++ {
			squares[col] = *row.At(col)
		}
		out[line] = squares
	}
	return out
}

// Line returns the text content of one line of the active grid,
// trailing blanks trimmed. Negative lines address scrollback. Returns
// "" when out of range.
func (c *Crosswords) Line(line int) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	g := c.grid()
	if line < g.TopmostLine() || line >= g.Lines() {
		return ""
	}
	return g.Row(line).String()
}

// String returns the visible screen content as newline-separated text,
// trailing empty lines omitted. Implements fmt.Stringer.
func (c *Crosswords) String() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	g := c.grid()
	last := -1
	lines := make([]string, c.lines)
	for line := 0; line < c.lines; line++ {
		lines[line] = g.Row(line).String()
		if lines[line] != "" {
			last = line
		}
	}
	if last < 0 {
		return ""
	}

	out := ""
	for i, line := range lines[:last+1] {
		if i > 0 {
			out += "\n"
		}
		out += line
	}
	return out
}

// StartSelection begins a new selection anchored at pos.
func (c *Crosswords) StartSelection(ty SelectionType, pos Pos, side Side) {
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.selectionRangeLocked()
	c.selection = NewSelection(ty, pos.GridClamp(c.grid()), side)
	c.damage.damageSelectionDelta(old, c.selectionRangeLocked(), c.cols)
}

// UpdateSelection moves the free end of the selection to pos. A no-op
// without an active selection.
func (c *Crosswords) UpdateSelection(pos Pos, side Side) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.selection == nil {
		return
	}
	old := c.selectionRangeLocked()
	c.selection.Update(pos.GridClamp(c.grid()), side)
	c.damage.damageSelectionDelta(old, c.selectionRangeLocked(), c.cols)
}

// ClearSelection removes the active selection.
func (c *Crosswords) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearSelectionLocked()
}

func (c *Crosswords) clearSelectionLocked() {
	old := c.selectionRangeLocked()
	c.selection = nil
	c.damage.damageSelectionDelta(old, nil, c.cols)
}

// SelectionRange returns the normalized bounds of the active
// selection, or nil.
func (c *Crosswords) SelectionRange() *SelectionRange {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selectionRangeLocked()
}

func (c *Crosswords) selectionRangeLocked() *SelectionRange {
	if c.selection == nil {
		return nil
	}
	return c.selection.ToRange(c.grid())
}

// SelectionText extracts the text covered by the active selection, or
// "" when there is none.
func (c *Crosswords) SelectionText() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.selection == nil {
		return ""
	}
	r := c.selection.ToRange(c.grid())
	if r == nil {
		return ""
	}
	return selectionToString(c.grid(), r, c.selection.Ty)
}

// ToggleViMode enters or leaves the keyboard-driven copy mode. On
// entry the vi cursor starts at the terminal cursor, or at the
// viewport's top-left when the cursor is scrolled out of view.
func (c *Crosswords) ToggleViMode() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode.Contains(ModeVi) {
		c.mode.Remove(ModeVi)
		c.clearSelectionLocked()
	} else {
		c.mode.Insert(ModeVi)
		// When the viewport is scrolled into history the terminal
		// cursor is out of view; start at the window's top-left.
		if offset := c.grid().DisplayOffset(); offset != 0 {
			c.viCursor = Pos{Row: -offset}
		} else {
			c.viCursor = c.grid().Cursor().Pos
		}
	}
	c.damage.damageLine(c.viCursor.Row, c.cols)
}

// Close reports the end of the terminal session to the listener,
// typically when the application on the other side of the pty has
// exited. The engine itself holds no resources beyond its grids.
func (c *Crosswords) Close() {
	c.listener.CloseTerminal(c.route)
}

// ViCursor returns the copy-mode cursor position.
func (c *Crosswords) ViCursor() Pos {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.viCursor
}

// MoveViCursor moves the copy-mode cursor by the given delta, clamped
// to the buffer including scrollback. A no-op outside vi mode. When a
// selection is active its free end follows the cursor.
func (c *Crosswords) MoveViCursor(deltaRow, deltaCol int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.mode.Contains(ModeVi) {
		return
	}
	before := c.viCursor
	c.viCursor = Pos{Row: c.viCursor.Row + deltaRow, Col: c.viCursor.Col + deltaCol}.GridClamp(c.grid())
	c.damage.damageLine(before.Row, c.cols)
	c.damage.damageLine(c.viCursor.Row, c.cols)

	if c.selection != nil {
		old := c.selectionRangeLocked()
		c.selection.Update(c.viCursor, SideLeft)
		c.damage.damageSelectionDelta(old, c.selectionRangeLocked(), c.cols)
	}
}
