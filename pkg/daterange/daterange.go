// Package daterange splits a span of whole calendar years into month-long
// request windows.
package daterange

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
	"time"

	"github.com/pvyield/pvyield/pkg/types"
)

// lastWindowClip is the time of day the final window is clipped to on the last
// day of the span.
const lastWindowClip = 23*time.Hour + 29*time.Minute + 59*time.Second

// ValidateYears checks years is within [types.MinYears, types.MaxYears].
func ValidateYears(years int) error {
	if years < types.MinYears || years > types.MaxYears {
		return fmt.Errorf("%w: years must be an integer between %d and %d, got %d", types.ErrInvalidArgument, types.MinYears, types.MaxYears, years)
	}
	return nil
}

// ParseYears parses and validates a number of years from user input.
func ParseYears(s string) (int, error) {
	years, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: years must be an integer, got %q", types.ErrInvalidArgument, s)
	}
	if err := ValidateYears(years); err != nil {
		return 0, err
	}
	return years, nil
}

// Span returns the first and last instant covered by years full calendar
// years ending with the year before now.
func Span(now time.Time, years int) (time.Time, time.Time) {
	start := time.Date(now.Year()-years, time.January, 1, 0, 0, 0, 0, time.UTC)
	lastDay := start.AddDate(years, 0, -1)
	return start, lastDay.Add(lastWindowClip)
}

// Windows returns an iterator over the monthly windows covering years full
// calendar years ending with the year before now. The iterator can be ranged
// over more than once.
func Windows(now time.Time, years int) (iter.Seq[types.Window], error) {
	if err := ValidateYears(years); err != nil {
		return nil, err
	}
	start, _ := Span(now, years)
	endDate := start.AddDate(years, 0, -1)

	return func(yield func(types.Window) bool) {
		for cur := start; cur.Before(endDate); {
			end := cur.AddDate(0, 1, 0).Add(-time.Second)
			if end.After(endDate) {
				end = endDate.Add(lastWindowClip)
			}
			if !yield(types.Window{Start: cur, End: end}) {
				return
			}
			cur = end.Add(time.Second)
		}
	}, nil
}

// Generate returns all windows from Windows as a slice.
func Generate(now time.Time, years int) ([]types.Window, error) {
	seq, err := Windows(now, years)
	if err != nil {
		return nil, err
	}
	windows := make([]types.Window, 0, years*12)
	for w := range seq {
		windows = append(windows, w)
	}
	return windows, nil
}
