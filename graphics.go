package crosswords

import (
	"image"

	"golang.org/x/image/draw"
)

// maxGraphicsPerSquare bounds the number of graphic references one
// square can accumulate before the oldest is dropped.
const maxGraphicsPerSquare = 20

// Default cell box in pixels, used for Sixel placement until the host
// reports a real one.
const (
	defaultCellWidth  = 8
	defaultCellHeight = 16
)

// GraphicID identifies a decoded graphic. IDs are unique for the
// lifetime of the engine.
type GraphicID uint64

// GraphicData is one decoded image, shared by every square it covers.
type GraphicData struct {
	ID     GraphicID
	Width  int
	Height int
	Pixels *image.RGBA

	// Opaque is true when no pixel has alpha below 255. Opaque images
	// let fully covered squares drop older graphic references.
	Opaque bool
}

// GraphicCell is a square's view into a graphic: the pixel offset of
// the square's top-left corner within Data.
type GraphicCell struct {
	Data    *GraphicData
	OffsetX int
	OffsetY int
}

// isOpaque scans the image alpha channel.
func isOpaque(img *image.RGBA) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for i := 3; i < len(row); i += 4 {
			if row[i] != 255 {
				return false
			}
		}
	}
	return true
}

// scaleToFit downscales img so it is no wider than maxW and no taller
// than maxH, preserving aspect ratio. Images that already fit are
// returned unchanged.
func scaleToFit(img *image.RGBA, maxW, maxH int) *image.RGBA {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	if w <= maxW && h <= maxH {
		return img
	}

	if w*maxH > h*maxW {
		// Width is the binding constraint.
		h = h * maxW / w
		w = maxW
	} else {
		w = w * maxH / h
		h = maxH
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// insertGraphic places a decoded image into the active grid at the
// cursor, or at the grid origin when Sixel display mode is on. Covered
// squares get a reference into the shared pixel data. The caller holds
// the lock.
func (c *Crosswords) insertGraphic(img *image.RGBA, transparent bool) {
	g := c.grid()
	cellW, cellH := c.cellWidth, c.cellHeight
	if cellW <= 0 {
		cellW = defaultCellWidth
	}
	if cellH <= 0 {
		cellH = defaultCellHeight
	}

	img = scaleToFit(img, c.cols*cellW, c.lines*cellH)
	width := img.Bounds().Dx()
	height := img.Bounds().Dy()
	if width == 0 || height == 0 {
		return
	}

	c.nextGraphicID++
	data := &GraphicData{
		ID:     c.nextGraphicID,
		Width:  width,
		Height: height,
		Pixels: img,
		Opaque: !transparent && isOpaque(img),
	}

	// Ceiling division: a partially covered cell still holds a
	// reference.
	gridCols := (width + cellW - 1) / cellW
	gridRows := (height + cellH - 1) / cellH

	origin := Pos{}
	if !c.mode.Contains(ModeSixelDisplay) {
		origin = g.Cursor().Pos
		// Scroll so the whole image fits inside the scroll region,
		// like sequential linefeeds would.
		if overflow := origin.Row + gridRows - (c.scrollRegion.End + 1); overflow > 0 {
			if overflow > gridRows {
				overflow = gridRows
			}
			c.scrollUpRelative(c.scrollRegion.Start, overflow)
			origin.Row -= overflow
			if origin.Row < 0 {
				origin.Row = 0
			}
		}
	}

	for r := 0; r < gridRows; r++ {
		line := origin.Row + r
		if line < 0 || line >= c.lines {
			continue
		}
		row := g.Row(line)
		for col := 0; col < gridCols; col++ {
			gc := origin.Col + col
			if gc >= c.cols {
				break
			}
			cell := GraphicCell{Data: data, OffsetX: col * cellW, OffsetY: r * cellH}
			sq := row.At(gc)
			// An opaque image covering the whole cell hides whatever
			// was painted there before.
			if data.Opaque && (col+1)*cellW <= width && (r+1)*cellH <= height {
				sq.ClearGraphics()
			}
			sq.PushGraphic(cell)
			row.Touch(gc)
		}
		c.damage.damagePoint(line, origin.Col, min(origin.Col+gridCols-1, c.cols-1))
	}

	// Cursor movement follows the text-cursor conventions: display
	// mode leaves it alone, otherwise it lands after the image.
	if !c.mode.Contains(ModeSixelDisplay) {
		cur := g.Cursor()
		if c.mode.Contains(ModeSixelCursorRight) {
			cur.Pos.Row = clamp(origin.Row+gridRows-1, 0, c.lines-1)
			cur.Pos.Col = clamp(origin.Col+gridCols, 0, c.cols-1)
		} else {
			cur.Pos.Row = clamp(origin.Row+gridRows, 0, c.lines-1)
			cur.Pos.Col = 0
		}
		cur.ShouldWrap = false
	}

	c.listener.GraphicsUpdate(c.route)
}
