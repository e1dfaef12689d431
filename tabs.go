package crosswords

// TabStops is a per-column bitset of horizontal tab stops.
type TabStops struct {
	stops []bool
}

// NewTabStops creates tab stops every 8 columns.
func NewTabStops(cols int) *TabStops {
	t := &TabStops{stops: make([]bool, cols)}
	for i := 0; i < cols; i += 8 {
		t.stops[i] = true
	}
	return t
}

// Set enables a tab stop at col.
func (t *TabStops) Set(col int) {
	if col >= 0 && col < len(t.stops) {
		t.stops[col] = true
	}
}

// Clear disables the tab stop at col.
func (t *TabStops) Clear(col int) {
	if col >= 0 && col < len(t.stops) {
		t.stops[col] = false
	}
}

// ClearAll disables every tab stop.
func (t *TabStops) ClearAll() {
	for i := range t.stops {
		t.stops[i] = false
	}
}

// Next returns the column of the next enabled tab stop after col, or the
// last column if none remains.
func (t *TabStops) Next(col int) int {
	for c := col + 1; c < len(t.stops); c++ {
		if t.stops[c] {
			return c
		}
	}
	return len(t.stops) - 1
}

// Prev returns the column of the previous enabled tab stop before col.
// With no previous stop the cursor lands on column 0.
func (t *TabStops) Prev(col int) int {
	for c := col - 1; c >= 0; c-- {
		if t.stops[c] {
			return c
		}
	}
	return 0
}

// Resize adjusts the bitset to cols columns, preserving existing stops and
// seeding default stops in any newly added region.
func (t *TabStops) Resize(cols int) {
	if cols <= len(t.stops) {
		t.stops = t.stops[:cols]
		return
	}
	old := len(t.stops)
	grown := make([]bool, cols)
	copy(grown, t.stops)
	for i := old + (8-old%8)%8; i < cols; i += 8 {
		grown[i] = true
	}
	t.stops = grown
}
