package crosswords

import "testing"

func TestTabStopsDefaults(t *testing.T) {
	tabs := NewTabStops(80)

	if got := tabs.Next(0); got != 8 {
		t.Errorf("expected next stop at 8, got %d", got)
	}
	if got := tabs.Next(8); got != 16 {
		t.Errorf("expected next stop at 16, got %d", got)
	}
	if got := tabs.Prev(16); got != 8 {
		t.Errorf("expected previous stop at 8, got %d", got)
	}
}

func TestTabStopsNextStopsAtLastColumn(t *testing.T) {
	tabs := NewTabStops(10)

	if got := tabs.Next(8); got != 9 {
		t.Errorf("expected last column 9, got %d", got)
	}
}

func TestTabStopsPrevStopsAtColumnZero(t *testing.T) {
	tabs := NewTabStops(80)
	tabs.ClearAll()

	if got := tabs.Prev(40); got != 0 {
		t.Errorf("expected column 0 with no stops, got %d", got)
	}
}

func TestTabStopsSetClear(t *testing.T) {
	tabs := NewTabStops(80)
	tabs.Set(13)

	if got := tabs.Next(8); got != 13 {
		t.Errorf("expected custom stop at 13, got %d", got)
	}

	tabs.Clear(13)
	if got := tabs.Next(8); got != 16 {
		t.Errorf("expected 16 after clearing 13, got %d", got)
	}
}

func TestTabStopsResize(t *testing.T) {
	tabs := NewTabStops(20)
	tabs.Set(13)

	tabs.Resize(40)

	if got := tabs.Next(8); got != 13 {
		t.Errorf("expected stop 13 preserved across resize, got %d", got)
	}
	if got := tabs.Next(24); got != 32 {
		t.Errorf("expected default stop seeded at 32, got %d", got)
	}

	tabs.Resize(10)
	if got := tabs.Next(8); got != 9 {
		t.Errorf("expected stops truncated, got %d", got)
	}
}
