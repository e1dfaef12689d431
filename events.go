package crosswords

import "image/color"

// EventListener receives side effects the screen engine cannot resolve
// on its own: bytes that must reach the pty, window-system requests,
// and notifications that the visible state changed.
//
// Methods are called with the engine's lock held, so implementations
// must not call back into the engine. All implementations should be
// fast; slow work belongs on another goroutine.
type EventListener interface {
	// RenderRoute signals that the grid for the given route needs to be
	// redrawn.
	RenderRoute(route int)

	// PtyWrite delivers reply bytes (DSR, DA, DECRQM, ...) destined for
	// the application.
	PtyWrite(route int, payload []byte)

	// Bell is called on BEL. urgent reflects the urgency-hints mode.
	Bell(route int, urgent bool)

	// SetTitle reports a title change. An empty string resets it.
	SetTitle(route int, title string)

	// ClipboardStore places text on the clipboard named by the OSC 52
	// selector byte ('c', 'p', 's', ...).
	ClipboardStore(route int, clipboard byte, text string)

	// ClipboardLoad returns the contents of the named clipboard, or ""
	// when unavailable. The engine base64-encodes the result itself.
	ClipboardLoad(route int, clipboard byte) string

	// ColorRequest asks the host for a palette entry the engine has no
	// override for. On a nil return the engine answers from its default
	// palette.
	ColorRequest(route int, index int) color.Color

	// CursorBlinkingChange reports a change of the cursor blink mode.
	CursorBlinkingChange(route int, blinking bool)

	// GraphicsUpdate signals that Sixel graphics were added or removed.
	GraphicsUpdate(route int)

	// TextAreaSizeChanged reports the dimensions after a resize, so a
	// listener serving several routes can follow each engine's
	// geometry.
	TextAreaSizeChanged(route int, cols, lines int)

	// CloseTerminal reports the end of the session, raised by Close
	// when the application side has exited.
	CloseTerminal(route int)

	// DesktopNotification delivers an OSC 9 / OSC 777 notification.
	DesktopNotification(route int, title, body string)
}

// NoopListener discards every event. It is the default listener and a
// convenient embed for implementations that only care about a few
// callbacks.
type NoopListener struct{}

var _ EventListener = NoopListener{}

func (NoopListener) RenderRoute(int)                        {}
func (NoopListener) PtyWrite(int, []byte)                   {}
func (NoopListener) Bell(int, bool)                         {}
func (NoopListener) SetTitle(int, string)                   {}
func (NoopListener) ClipboardStore(int, byte, string)       {}
func (NoopListener) ClipboardLoad(int, byte) string         { return "" }
func (NoopListener) ColorRequest(int, int) color.Color      { return nil }
func (NoopListener) CursorBlinkingChange(int, bool)         {}
func (NoopListener) GraphicsUpdate(int)                     {}
func (NoopListener) TextAreaSizeChanged(int, int, int)      {}
func (NoopListener) CloseTerminal(int)                      {}
func (NoopListener) DesktopNotification(int, string, string) {}
