package crosswords

// LineDamage records the damaged column extent of one visible line.
type LineDamage struct {
	Line  int
	Left  int
	Right int
}

// Damage is what a renderer consumes between frames: either a full repaint
// or the set of lines whose contents changed since the last ResetDamage.
type Damage struct {
	Full  bool
	Lines []LineDamage
}

// damageState tracks per-line dirty extents plus a latched full-repaint
// flag. Once full is set it dominates every partial entry until reset.
type damageState struct {
	full  bool
	lines []lineDamageBounds

	lastCursor    Pos
	lastSelection *SelectionRange
}

type lineDamageBounds struct {
	damaged bool
	left    int
	right   int
}

func newDamageState(lines, cols int) damageState {
	d := damageState{lines: make([]lineDamageBounds, lines)}
	for i := range d.lines {
		d.lines[i] = lineDamageBounds{left: cols, right: 0}
	}
	return d
}

// markFullyDamaged latches the full-repaint flag.
func (d *damageState) markFullyDamaged() {
	d.full = true
}

// damagePoint extends the damaged extent of one visible line. Lines outside
// the screen (history writes) are ignored; they only become visible through
// display-offset changes, which damage fully.
func (d *damageState) damagePoint(line, left, right int) {
	if d.full || line < 0 || line >= len(d.lines) {
		return
	}
	ld := &d.lines[line]
	ld.damaged = true
	if left < ld.left {
		ld.left = left
	}
	if right > ld.right {
		ld.right = right
	}
}

// damageLine marks an entire visible line dirty.
func (d *damageState) damageLine(line, cols int) {
	d.damagePoint(line, 0, cols-1)
}

// reset clears all dirty state after a render pass.
func (d *damageState) reset(lines, cols int) {
	d.full = false
	if len(d.lines) != lines {
		d.lines = make([]lineDamageBounds, lines)
	}
	for i := range d.lines {
		d.lines[i] = lineDamageBounds{left: cols, right: 0}
	}
}

// damageSelectionDelta marks the lines whose selection membership changed
// between two render passes. Appearing, disappearing, or toggling block
// mode forces a full repaint; otherwise only the symmetric difference of
// the two row spans is damaged.
func (d *damageState) damageSelectionDelta(old, new *SelectionRange, cols int) {
	switch {
	case old == nil && new == nil:
		return
	case old == nil || new == nil || old.IsBlock != new.IsBlock:
		d.markFullyDamaged()
		return
	}

	if old.Start == new.Start && old.End == new.End {
		return
	}

	lo, hi := old.Start.Row, new.Start.Row
	if lo > hi {
		lo, hi = hi, lo
	}
	for line := lo; line <= hi; line++ {
		d.damageLine(line, cols)
	}

	lo, hi = old.End.Row, new.End.Row
	if lo > hi {
		lo, hi = hi, lo
	}
	for line := lo; line <= hi; line++ {
		d.damageLine(line, cols)
	}
}
