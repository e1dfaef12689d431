package crosswords

// Row is a fixed-width sequence of squares plus an occupied length: the
// index past the rightmost square that has been written. Clearing and
// serialization use it to avoid scanning trailing blanks.
type Row struct {
	inner    []Square
	occupied int
}

// NewRow creates a row of cols default squares.
func NewRow(cols int) Row {
	inner := make([]Square, cols)
	for i := range inner {
		inner[i] = NewSquare()
	}
	return Row{inner: inner}
}

// Len returns the row width in columns.
func (r *Row) Len() int {
	return len(r.inner)
}

// At returns a pointer to the square at col. Out-of-range columns are a
// caller bug and panic via the slice bounds check.
func (r *Row) At(col int) *Square {
	return &r.inner[col]
}

// Set replaces the square at col and extends the occupied length.
func (r *Row) Set(col int, sq Square) {
	r.inner[col] = sq
	if col >= r.occupied {
		r.occupied = col + 1
	}
}

// Touch extends the occupied length to cover col without writing. Used when
// a square is mutated in place through At.
func (r *Row) Touch(col int) {
	if col >= r.occupied {
		r.occupied = col + 1
	}
}

// Occupied returns the index past the rightmost written square.
func (r *Row) Occupied() int {
	return r.occupied
}

// Reset overwrites every square with the template's default square,
// preserving the backing allocation.
func (r *Row) Reset(template *Square) {
	for i := range r.inner {
		r.inner[i].Reset(template)
	}
	r.occupied = 0
}

// ResetRange overwrites squares in [start, end) with the template default
// and recomputes the occupied length when the tail was cleared.
func (r *Row) ResetRange(start, end int, template *Square) {
	if start < 0 {
		start = 0
	}
	if end > len(r.inner) {
		end = len(r.inner)
	}
	for i := start; i < end; i++ {
		r.inner[i].Reset(template)
	}
	if end >= r.occupied && start < r.occupied {
		r.occupied = start
	}
}

// Truncate reduces the occupied length to at most col. Used after
// content is shifted left so trailing blanks stop counting as written.
func (r *Row) Truncate(col int) {
	if col < 0 {
		col = 0
	}
	if r.occupied > col {
		r.occupied = col
	}
}

// Grow extends the row to cols columns, padding with default squares.
func (r *Row) Grow(cols int) {
	for len(r.inner) < cols {
		r.inner = append(r.inner, NewSquare())
	}
}

// Shrink truncates the row to cols columns, discarding the remainder.
func (r *Row) Shrink(cols int) {
	if cols < len(r.inner) {
		r.inner = r.inner[:cols]
	}
	if r.occupied > cols {
		r.occupied = cols
	}
}

// IsWrapped returns true if this row continues onto the next one without an
// explicit newline.
func (r *Row) IsWrapped() bool {
	if len(r.inner) == 0 {
		return false
	}
	return r.inner[len(r.inner)-1].HasFlag(FlagWrapLine)
}

// SetWrapped sets or clears the wrap-continuation marker on the row.
func (r *Row) SetWrapped(wrapped bool) {
	if len(r.inner) == 0 {
		return
	}
	last := &r.inner[len(r.inner)-1]
	if wrapped {
		last.SetFlag(FlagWrapLine)
	} else {
		last.ClearFlag(FlagWrapLine)
	}
}

// String returns the row's text up to the occupied length, skipping wide
// spacers and rendering empty squares as spaces.
func (r *Row) String() string {
	runes := make([]rune, 0, r.occupied)
	for i := 0; i < r.occupied; i++ {
		sq := &r.inner[i]
		if sq.IsWideSpacer() || sq.HasFlag(FlagLeadingWideCharSpacer) {
			continue
		}
		if sq.Char == 0 {
			runes = append(runes, ' ')
		} else {
			runes = append(runes, sq.Char)
		}
		runes = append(runes, sq.ZeroWidth()...)
	}
	return string(runes)
}
