package timespan

import (
	"fmt"
	"time"

	"github.com/skillsenselab/pivotkit/errors"
)

// TimeSpan is an immutable start/end pair bounding query ranges.
type TimeSpan struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// New creates a TimeSpan, rejecting spans whose end precedes their start.
func New(start, end time.Time) (TimeSpan, error) {
	if end.Before(start) {
		return TimeSpan{}, errors.InvalidTimespan(
			fmt.Sprintf("end %s is before start %s", end.Format(time.RFC3339), start.Format(time.RFC3339)))
	}
	return TimeSpan{Start: start.UTC(), End: end.UTC()}, nil
}

// Period returns the duration covered by the span.
func (ts TimeSpan) Period() time.Duration {
	return ts.End.Sub(ts.Start)
}

// IsZero reports whether both bounds are unset.
func (ts TimeSpan) IsZero() bool {
	return ts.Start.IsZero() && ts.End.IsZero()
}

// Contains reports whether t falls within the span (inclusive bounds).
func (ts TimeSpan) Contains(t time.Time) bool {
	return !t.Before(ts.Start) && !t.After(ts.End)
}

// String returns the span in RFC 3339 form.
func (ts TimeSpan) String() string {
	return fmt.Sprintf("%s - %s", ts.Start.Format(time.RFC3339), ts.End.Format(time.RFC3339))
}
