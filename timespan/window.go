package timespan

import (
	"fmt"
	"sync"
	"time"

	"github.com/skillsenselab/pivotkit/errors"
)

// Unit is the granularity of a rolling window.
type Unit string

const (
	UnitMinute Unit = "minute"
	UnitHour   Unit = "hour"
	UnitDay    Unit = "day"
	UnitWeek   Unit = "week"
)

// Duration returns the length of one unit.
func (u Unit) Duration() time.Duration {
	switch u {
	case UnitMinute:
		return time.Minute
	case UnitHour:
		return time.Hour
	case UnitWeek:
		return 7 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// ParseUnit converts a unit name to a Unit.
func ParseUnit(s string) (Unit, error) {
	switch Unit(s) {
	case UnitMinute, UnitHour, UnitDay, UnitWeek:
		return Unit(s), nil
	}
	return "", errors.InvalidInput("unit", fmt.Sprintf("unknown window unit %q", s))
}

// windowMode distinguishes a rolling window from an explicit span.
type windowMode int

const (
	modeRolling windowMode = iota
	modeExplicit
)

// QueryWindow is the mutable default time window shared by all pivots of an
// environment. Reads always compute from the current state, never from a
// snapshot taken at registration time.
type QueryWindow struct {
	mu     sync.RWMutex
	mode   windowMode
	unit   Unit
	before int
	after  int
	span   TimeSpan

	// now is swappable for tests.
	now func() time.Time
}

// NewWindow creates the default rolling window: one day back, ending now.
func NewWindow() *QueryWindow {
	return NewRollingWindow(UnitDay, 1, 0)
}

// NewRollingWindow creates a rolling window of before units behind the
// current time and after units ahead of it.
func NewRollingWindow(unit Unit, before, after int) *QueryWindow {
	return &QueryWindow{
		mode:   modeRolling,
		unit:   unit,
		before: before,
		after:  after,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// NewExplicitWindow creates a window fixed to the given span.
func NewExplicitWindow(ts TimeSpan) (*QueryWindow, error) {
	if ts.End.Before(ts.Start) {
		return nil, errors.InvalidTimespan("end is before start")
	}
	return &QueryWindow{
		mode: modeExplicit,
		span: ts,
		now:  func() time.Time { return time.Now().UTC() },
	}, nil
}

// Timespan returns the current span. Rolling windows are recomputed
// relative to the current time on every call.
func (w *QueryWindow) Timespan() TimeSpan {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.mode == modeExplicit {
		return w.span
	}
	origin := w.now()
	return TimeSpan{
		Start: origin.Add(-time.Duration(w.before) * w.unit.Duration()),
		End:   origin.Add(time.Duration(w.after) * w.unit.Duration()),
	}
}

// Start returns the current start time for queries.
func (w *QueryWindow) Start() time.Time {
	return w.Timespan().Start
}

// End returns the current end time for queries.
func (w *QueryWindow) End() time.Time {
	return w.Timespan().End
}

// SetTimespan replaces the window with a fixed span. The window stays
// explicit until SetRolling is called.
func (w *QueryWindow) SetTimespan(ts TimeSpan) error {
	if ts.End.Before(ts.Start) {
		return errors.InvalidTimespan("end is before start")
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.mode = modeExplicit
	w.span = ts
	return nil
}

// SetRolling resets the window to a rolling range.
func (w *QueryWindow) SetRolling(unit Unit, before, after int) error {
	if before < 0 || after < 0 {
		return errors.InvalidInput("before/after", "rolling offsets must be non-negative")
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.mode = modeRolling
	w.unit = unit
	w.before = before
	w.after = after
	return nil
}

// IsRolling reports whether the window recomputes relative to the current time.
func (w *QueryWindow) IsRolling() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.mode == modeRolling
}

// Accessor returns a function reading the current span at call time.
// Registrations hold this accessor rather than a snapshot, so later window
// changes apply to every pivot registered earlier.
func (w *QueryWindow) Accessor() func() TimeSpan {
	return w.Timespan
}

// SetClock overrides the time source. Intended for tests.
func (w *QueryWindow) SetClock(now func() time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.now = now
}
