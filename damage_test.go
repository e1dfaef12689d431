package crosswords

import "testing"

func TestDamagePointExtents(t *testing.T) {
	d := newDamageState(4, 10)

	d.damagePoint(1, 3, 5)
	d.damagePoint(1, 7, 8)
	d.damagePoint(2, 0, 0)

	if !d.lines[1].damaged {
		t.Fatal("expected line 1 damaged")
	}
	if d.lines[1].left != 3 || d.lines[1].right != 8 {
		t.Errorf("expected extents [3,8], got [%d,%d]", d.lines[1].left, d.lines[1].right)
	}
	if d.lines[0].damaged || d.lines[3].damaged {
		t.Error("untouched lines must stay clean")
	}
}

func TestDamageIgnoresOffscreenLines(t *testing.T) {
	d := newDamageState(4, 10)

	d.damagePoint(-3, 0, 9)
	d.damagePoint(10, 0, 9)

	for i := range d.lines {
		if d.lines[i].damaged {
			t.Fatalf("expected no damage, line %d dirty", i)
		}
	}
}

func TestDamageFullLatch(t *testing.T) {
	d := newDamageState(4, 10)

	d.markFullyDamaged()
	d.damagePoint(1, 3, 5)

	if !d.full {
		t.Fatal("expected full flag latched")
	}
	if d.lines[1].damaged {
		t.Error("partial tracking must stop once fully damaged")
	}

	d.reset(4, 10)
	if d.full {
		t.Error("expected full flag cleared by reset")
	}
}

func TestDamageReset(t *testing.T) {
	d := newDamageState(4, 10)
	d.damagePoint(2, 1, 4)

	d.reset(4, 10)

	if d.lines[2].damaged {
		t.Error("expected line 2 clean after reset")
	}
	d.damagePoint(2, 5, 5)
	if d.lines[2].left != 5 || d.lines[2].right != 5 {
		t.Errorf("expected fresh extents [5,5], got [%d,%d]", d.lines[2].left, d.lines[2].right)
	}
}

func TestDamageSelectionDelta(t *testing.T) {
	d := newDamageState(10, 10)

	// A selection appearing or disappearing forces a full repaint.
	sel := &SelectionRange{Start: Pos{Row: 2, Col: 0}, End: Pos{Row: 4, Col: 5}}
	d.damageSelectionDelta(nil, sel, 10)
	if !d.full {
		t.Fatal("expected full damage for a new selection")
	}

	d.reset(10, 10)
	grown := &SelectionRange{Start: Pos{Row: 2, Col: 0}, End: Pos{Row: 6, Col: 5}}
	d.damageSelectionDelta(sel, grown, 10)
	if !d.lines[5].damaged || !d.lines[6].damaged {
		t.Error("expected newly covered lines damaged")
	}
}

func TestEngineDamageAfterWrite(t *testing.T) {
	term := New(WithSize(24, 80))
	term.ResetDamage()

	term.WriteString("hello")

	dmg := term.Damage()
	if dmg.Full {
		t.Fatal("plain text must not damage the full screen")
	}
	found := false
	for _, ld := range dmg.Lines {
		if ld.Line == 0 {
			found = true
			if ld.Left != 0 || ld.Right < 4 {
				t.Errorf("expected line 0 extents to cover [0,4], got [%d,%d]", ld.Left, ld.Right)
			}
		}
	}
	if !found {
		t.Fatal("expected damage on line 0")
	}
}

func TestEngineDamageCursorMove(t *testing.T) {
	term := New(WithSize(24, 80))
	term.WriteString("ab")
	term.Damage()
	term.ResetDamage()

	// Cursor jump dirties the departed and the entered line.
	term.WriteString("\x1b[5;1H")

	dmg := term.Damage()
	var lines []int
	for _, ld := range dmg.Lines {
		lines = append(lines, ld.Line)
	}
	has := func(n int) bool {
		for _, l := range lines {
			if l == n {
				return true
			}
		}
		return false
	}
	if !has(0) || !has(4) {
		t.Errorf("expected lines 0 and 4 damaged, got %v", lines)
	}
}

func TestEngineDamageFullOnScroll(t *testing.T) {
	term := New(WithSize(4, 10))
	term.ResetDamage()

	term.WriteString("a\r\nb\r\nc\r\nd\r\ne")

	if dmg := term.Damage(); !dmg.Full {
		t.Error("expected full damage after scrolling")
	}
}

func TestEngineDamageResetBetweenFrames(t *testing.T) {
	term := New(WithSize(24, 80))
	term.WriteString("frame one")
	term.Damage()
	term.ResetDamage()

	dmg := term.Damage()
	if dmg.Full {
		t.Fatal("expected partial damage state after reset")
	}
	if len(dmg.Lines) != 0 {
		t.Errorf("expected no damage after reset, got %v", dmg.Lines)
	}
}
