// Package crosswords implements a terminal screen-state engine: a
// VT100/xterm-compatible grid of styled squares with scrollback,
// damage tracking, selection, and Sixel graphics, but no rendering.
//
// The engine parses the byte stream an application writes to its PTY
// and keeps the resulting screen state queryable. A front end draws
// from that state; the engine tells it exactly which cells changed.
//
// # Quick Start
//
// Create an engine and write ANSI sequences to it:
//
//	term := crosswords.New()
//	term.WriteString("\x1b[31mHello \x1b[32mWorld\x1b[0m!")
//	fmt.Println(term.String()) // "Hello World!"
//
// # Architecture
//
// The package is organized around these core types:
//
//   - [Crosswords]: The engine; processes ANSI sequences and owns all state
//   - [Grid]: A 2D matrix of rows with scrollback and a cursor
//   - [Row]: One line of squares with an occupancy watermark
//   - [Square]: A single character with colors, flags, and rare extras
//   - [Damage]: The set of cells changed since the last frame
//   - [Selection]: A text selection that survives scrolling
//
// # Writing
//
// Crosswords implements [io.Writer], so process output can be piped in
// directly:
//
//	term := crosswords.New(
//	    crosswords.WithSize(25, 80),
//	    crosswords.WithEventListener(listener),
//	)
//
//	cmd := exec.Command("ls", "--color")
//	cmd.Stdout = term
//	cmd.Run()
//
// # Dual Screens
//
// The engine keeps two grids:
//
//   - Primary screen: normal mode, with scrollback history
//   - Alternate screen: full-screen apps (vim, less, htop), no history
//
// Applications switch via CSI ?1049h/l. [Crosswords.IsAlternateScreen]
// reports which one is active. Each screen carries its own keyboard
// mode stack.
//
// # Damage
//
// Every mutation is tracked. After writing a chunk of input, call
// [Crosswords.Damage] to learn what to redraw and
// [Crosswords.ResetDamage] once the frame is out:
//
//	term.WriteString(chunk)
//	dmg := term.Damage()
//	if dmg.Full {
//	    // redraw everything
//	} else {
//	    for _, ld := range dmg.Lines {
//	        // redraw ld.Line columns [ld.Left, ld.Right]
//	    }
//	}
//	term.ResetDamage()
//
// # Events
//
// Host-facing side effects go through an [EventListener]: PTY replies,
// bell, title changes, clipboard access, graphics updates. All methods
// have no-op defaults via [NoopListener].
//
// # Graphics
//
// Sixel DCS payloads are decoded into RGBA images, scaled to the
// viewport if needed, and attached to the squares they cover. The
// listener's GraphicsUpdate fires whenever a new image lands.
//
// # Colors
//
// Colors use Go's [image/color] interface. Palette and semantic colors
// stay symbolic ([IndexedColor], [NamedColor]) until render time so
// that OSC 4/10/11 overrides apply retroactively; resolve them with
// [ResolveColor].
package crosswords
