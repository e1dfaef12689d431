package crosswords

import (
	"errors"
	"image"
	"image/color"
)

// ErrEmptyGraphic is returned when a Sixel stream sets no pixels.
var ErrEmptyGraphic = errors.New("crosswords: sixel stream produced no pixels")

// sixelDecoder turns a Sixel byte stream into an RGBA image. One
// decoder handles one DCS payload; it is not reusable.
type sixelDecoder struct {
	palette    [256]color.RGBA
	current    int
	x, y       int
	maxX, maxY int

	// pix is a dense buffer of stride*rows cells, grown on demand.
	// alpha 0 means "never painted".
	pix    []color.RGBA
	stride int
	rows   int

	transparent bool
}

// decodeSixel parses a complete Sixel payload. params are the DCS
// parameters (P1;P2;P3): P2 == 1 selects a transparent background. The
// shared palette is used as the starting palette; color definitions in
// the stream only mutate the decoder's private copy unless shared is
// nil, in which case the hardware default palette is used.
func decodeSixel(params []int64, data []byte, shared *[256]color.RGBA) (*image.RGBA, bool, error) {
	d := &sixelDecoder{}
	if shared != nil {
		d.palette = *shared
	} else {
		d.palette = sixelDefaultPalette()
	}
	if len(params) >= 2 && params[1] == 1 {
		d.transparent = true
	}

	d.run(data)

	// Color definitions persist in the shared palette across images.
	if shared != nil {
		*shared = d.palette
	}

	if d.maxX < 0 || d.maxY < 0 {
		return nil, false, ErrEmptyGraphic
	}
	return d.image(), d.transparent, nil
}

// sixelDefaultPalette returns the VT340 hardware palette: 16 named
// colors followed by a grayscale ramp.
func sixelDefaultPalette() [256]color.RGBA {
	var p [256]color.RGBA
	copy(p[:], []color.RGBA{
		{0, 0, 0, 255},
		{0, 0, 205, 255},
		{205, 0, 0, 255},
		{205, 0, 205, 255},
		{0, 205, 0, 255},
		{0, 205, 205, 255},
		{205, 205, 0, 255},
		{205, 205, 205, 255},
		{0, 0, 0, 255},
		{0, 0, 255, 255},
		{255, 0, 0, 255},
		{255, 0, 255, 255},
		{0, 255, 0, 255},
		{0, 255, 255, 255},
		{255, 255, 0, 255},
		{255, 255, 255, 255},
	})
	for i := 16; i < 256; i++ {
		gray := uint8((i - 16) * 255 / 239)
		p[i] = color.RGBA{gray, gray, gray, 255}
	}
	return p
}

func (d *sixelDecoder) run(data []byte) {
	d.maxX, d.maxY = -1, -1

	i := 0
	for i < len(data) {
		b := data[i]
		i++

		switch {
		case b == '$':
			// Graphics carriage return.
			d.x = 0

		case b == '-':
			// Graphics new line: down one sixel band.
			d.x = 0
			d.y += 6

		case b == '!':
			// Repeat introducer: !<count><sixel>.
			count, next := parseSixelNumber(data, i)
			i = next
			if i < len(data) && data[i] >= '?' && data[i] <= '~' {
				d.paint(data[i], int(count))
				i++
			}

		case b == '#':
			i = d.colorOp(data, i)

		case b == '"':
			i = d.rasterAttributes(data, i)

		case b >= '?' && b <= '~':
			d.paint(b, 1)

		default:
			// Whitespace and stray control bytes are skipped.
		}
	}
}

// colorOp handles #<index> (select) and #<index>;<type>;<v1>;<v2>;<v3>
// (define then select).
func (d *sixelDecoder) colorOp(data []byte, i int) int {
	index, i := parseSixelNumber(data, i)

	if i < len(data) && data[i] == ';' {
		var system, v1, v2, v3 int64
		system, i = parseSixelNumber(data, i+1)
		if i < len(data) && data[i] == ';' {
			v1, i = parseSixelNumber(data, i+1)
		}
		if i < len(data) && data[i] == ';' {
			v2, i = parseSixelNumber(data, i+1)
		}
		if i < len(data) && data[i] == ';' {
			v3, i = parseSixelNumber(data, i+1)
		}
		if index >= 0 && index < 256 {
			if system == 1 {
				d.palette[index] = sixelHLS(int(v1), int(v2), int(v3))
			} else {
				// RGB in percent.
				d.palette[index] = color.RGBA{
					R: uint8(v1 * 255 / 100),
					G: uint8(v2 * 255 / 100),
					B: uint8(v3 * 255 / 100),
					A: 255,
				}
			}
		}
	}

	if index >= 0 && index < 256 {
		d.current = int(index)
	}
	return i
}

// rasterAttributes parses "<Pan>;<Pad>;<Ph>;<Pv>. The aspect ratio is
// ignored; Ph and Pv pre-size the buffer and set the minimum image
// extent, matching how xterm treats them.
func (d *sixelDecoder) rasterAttributes(data []byte, i int) int {
	var vals [4]int64
	for n := 0; n < 4; n++ {
		vals[n], i = parseSixelNumber(data, i)
		if n < 3 {
			if i >= len(data) || data[i] != ';' {
				break
			}
			i++
		}
	}
	ph, pv := int(vals[2]), int(vals[3])
	if ph > 0 && pv > 0 {
		d.ensure(ph-1, pv-1)
		if ph-1 > d.maxX {
			d.maxX = ph - 1
		}
		if pv-1 > d.maxY {
			d.maxY = pv - 1
		}
	}
	return i
}

func parseSixelNumber(data []byte, i int) (int64, int) {
	var n int64
	for i < len(data) && data[i] >= '0' && data[i] <= '9' {
		n = n*10 + int64(data[i]-'0')
		i++
	}
	return n, i
}

// paint draws one sixel character count times. Bit 0 is the top pixel
// of the six-pixel column.
func (d *sixelDecoder) paint(b byte, count int) {
	if count <= 0 {
		count = 1
	}
	bits := b - '?'
	c := d.palette[d.current]

	d.ensure(d.x+count-1, d.y+5)
	for r := 0; r < count; r++ {
		for bit := 0; bit < 6; bit++ {
			if bits&(1<<bit) == 0 {
				continue
			}
			px, py := d.x, d.y+bit
			d.pix[py*d.stride+px] = c
			if px > d.maxX {
				d.maxX = px
			}
			if py > d.maxY {
				d.maxY = py
			}
		}
		d.x++
	}
}

// ensure grows the pixel buffer to cover (x, y), doubling each
// dimension to amortize the copies.
func (d *sixelDecoder) ensure(x, y int) {
	if x < d.stride && y < d.rows {
		return
	}
	stride, rows := d.stride, d.rows
	if stride == 0 {
		stride, rows = 64, 64
	}
	for x >= stride {
		stride *= 2
	}
	for y >= rows {
		rows *= 2
	}
	next := make([]color.RGBA, stride*rows)
	for row := 0; row < d.rows; row++ {
		copy(next[row*stride:], d.pix[row*d.stride:row*d.stride+d.stride])
	}
	d.pix = next
	d.stride = stride
	d.rows = rows
}

// image renders the painted cells into an RGBA image. Unpainted cells
// become the background color, or stay fully transparent when P2
// requested it.
func (d *sixelDecoder) image() *image.RGBA {
	width, height := d.maxX+1, d.maxY+1
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	bg := d.palette[0]
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.RGBA{}
			if y < d.rows && x < d.stride {
				c = d.pix[y*d.stride+x]
			}
			if c.A == 0 {
				if d.transparent {
					continue
				}
				c = bg
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// sixelHLS converts the Sixel HLS color space to RGB. Sixel hue is
// rotated relative to the standard wheel: blue sits at 0 degrees,
// red at 120, green at 240.
func sixelHLS(h, l, s int) color.RGBA {
	if s == 0 {
		v := uint8(l * 255 / 100)
		return color.RGBA{v, v, v, 255}
	}

	hNorm := float64(h)/360.0 + 1.0/3.0
	if hNorm >= 1.0 {
		hNorm -= 1.0
	}
	lNorm := float64(l) / 100.0
	sNorm := float64(s) / 100.0

	var q float64
	if lNorm < 0.5 {
		q = lNorm * (1 + sNorm)
	} else {
		q = lNorm + sNorm - lNorm*sNorm
	}
	p := 2*lNorm - q

	return color.RGBA{
		R: uint8(sixelHue(p, q, hNorm+1.0/3.0) * 255),
		G: uint8(sixelHue(p, q, hNorm) * 255),
		B: uint8(sixelHue(p, q, hNorm-1.0/3.0) * 255),
		A: 255,
	}
}

func sixelHue(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 1.0/2.0:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	default:
		return p
	}
}
