package timespan

import (
	"testing"
	"time"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestDefaultWindowIsOneDayBack(t *testing.T) {
	origin := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	w := NewWindow()
	w.SetClock(fixedClock(origin))

	ts := w.Timespan()
	if !ts.End.Equal(origin) {
		t.Errorf("expected end at origin, got %v", ts.End)
	}
	if !ts.Start.Equal(origin.Add(-24 * time.Hour)) {
		t.Errorf("expected start one day back, got %v", ts.Start)
	}
	if !w.IsRolling() {
		t.Error("expected default window to be rolling")
	}
}

func TestRollingWindowTracksClock(t *testing.T) {
	w := NewRollingWindow(UnitHour, 4, 0)

	first := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	w.SetClock(fixedClock(first))
	if got := w.Start(); !got.Equal(first.Add(-4 * time.Hour)) {
		t.Errorf("expected start 4h back, got %v", got)
	}

	later := first.Add(2 * time.Hour)
	w.SetClock(fixedClock(later))
	if got := w.End(); !got.Equal(later) {
		t.Errorf("expected end to follow the clock, got %v", got)
	}
}

func TestSetTimespanMovesToExplicit(t *testing.T) {
	w := NewWindow()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(48 * time.Hour)

	ts, _ := New(start, end)
	if err := w.SetTimespan(ts); err != nil {
		t.Fatalf("SetTimespan failed: %v", err)
	}

	if w.IsRolling() {
		t.Error("expected explicit window after SetTimespan")
	}
	if !w.Start().Equal(start) || !w.End().Equal(end) {
		t.Errorf("expected fixed span, got %v", w.Timespan())
	}
}

func TestSetTimespanRejectsReversedSpan(t *testing.T) {
	w := NewWindow()
	bad := TimeSpan{Start: time.Now().UTC(), End: time.Now().UTC().Add(-time.Hour)}
	if err := w.SetTimespan(bad); err == nil {
		t.Error("expected error for reversed span")
	}
	if !w.IsRolling() {
		t.Error("expected window to remain rolling after rejected set")
	}
}

func TestAccessorReadsCurrentState(t *testing.T) {
	w := NewWindow()
	origin := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	w.SetClock(fixedClock(origin))

	// The accessor is handed out once at registration time.
	read := w.Accessor()
	before := read()

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	ts, _ := New(start, start.Add(time.Hour))
	if err := w.SetTimespan(ts); err != nil {
		t.Fatalf("SetTimespan failed: %v", err)
	}

	after := read()
	if after.Start.Equal(before.Start) {
		t.Error("expected accessor to observe the new span")
	}
	if !after.Start.Equal(start) {
		t.Errorf("expected accessor to return the explicit span, got %v", after)
	}
}

func TestSetRollingRestoresRollingMode(t *testing.T) {
	w := NewWindow()
	ts, _ := New(time.Now().Add(-time.Hour), time.Now())
	w.SetTimespan(ts)

	if err := w.SetRolling(UnitWeek, 1, 0); err != nil {
		t.Fatalf("SetRolling failed: %v", err)
	}
	if !w.IsRolling() {
		t.Error("expected rolling mode")
	}

	origin := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	w.SetClock(fixedClock(origin))
	if got := w.Timespan().Period(); got != 7*24*time.Hour {
		t.Errorf("expected one week period, got %v", got)
	}
}

func TestSetRollingRejectsNegativeOffsets(t *testing.T) {
	w := NewWindow()
	if err := w.SetRolling(UnitDay, -1, 0); err == nil {
		t.Error("expected error for negative offset")
	}
}

func TestNewExplicitWindowRejectsReversedSpan(t *testing.T) {
	bad := TimeSpan{Start: time.Now().UTC(), End: time.Now().UTC().Add(-time.Minute)}
	if _, err := NewExplicitWindow(bad); err == nil {
		t.Error("expected error for reversed span")
	}
}

func TestParseUnit(t *testing.T) {
	for _, name := range []string{"minute", "hour", "day", "week"} {
		if _, err := ParseUnit(name); err != nil {
			t.Errorf("ParseUnit(%q) failed: %v", name, err)
		}
	}
	if _, err := ParseUnit("fortnight"); err == nil {
		t.Error("expected error for unknown unit")
	}
}
