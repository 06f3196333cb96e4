// Package scheduler implements the constraint-based timetable generator:
// an occupancy-matrix model for rooms, instructors and student sections, a
// day-rotation placement heuristic, and the supporting time-grid math. The
// package is pure: callers load the catalog, run Generate, and persist or
// discard the result.
package scheduler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Teaching weekdays. Sunday is never scheduled.
const (
	Monday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday

	NumDays = 6
)

var dayNames = [NumDays]string{"MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY"}

// ErrInvalidTime reports a malformed "HH:MM" value.
var ErrInvalidTime = errors.New("invalid time format")

// DayName returns the upper-case name for a day index.
func DayName(day int) string {
	if day < 0 || day >= NumDays {
		return dayNames[Monday]
	}
	return dayNames[day]
}

// DayTitle returns the title-case name ("Monday") used in persisted rows
// and API payloads.
func DayTitle(day int) string {
	name := DayName(day)
	return name[:1] + strings.ToLower(name[1:])
}

// DayIndex resolves an upper/lower-case weekday name to its index.
func DayIndex(name string) (int, bool) {
	needle := strings.ToUpper(strings.TrimSpace(name))
	for i, candidate := range dayNames {
		if candidate == needle {
			return i, true
		}
	}
	return 0, false
}

// ToMinutes converts zero-padded "HH:MM" to minutes since midnight.
func ToMinutes(hhmm string) (int, error) {
	hh, mm, ok := strings.Cut(hhmm, ":")
	if !ok || len(hh) != 2 || len(mm) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, hhmm)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, hhmm)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, hhmm)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, hhmm)
	}
	return h*60 + m, nil
}

// ToHHMM converts minutes since midnight to zero-padded "HH:MM".
func ToHHMM(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// RangesOverlap reports whether two half-open intervals intersect.
// Touching endpoints do not overlap.
func RangesOverlap(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// LunchWindow returns the blocked midday interval for a day. Wednesday
// carries an extended break for faculty meetings.
func LunchWindow(day int) (start, end int) {
	if day == Wednesday {
		return 12 * 60, 14 * 60
	}
	return 12 * 60, 13 * 60
}

// FirstOccurrence returns the earliest date on or after semesterStart whose
// weekday matches day, or nil when no start date is known.
func FirstOccurrence(day int, semesterStart *time.Time) *time.Time {
	if semesterStart == nil {
		return nil
	}
	target := time.Weekday((day + 1) % 7)
	candidate := *semesterStart
	for i := 0; i < 7; i++ {
		if candidate.Weekday() == target {
			return &candidate
		}
		candidate = candidate.AddDate(0, 0, 1)
	}
	return nil
}

// WeekdayInRange reports whether the day occurs at least once within
// [start, end]. Missing bounds impose no restriction.
func WeekdayInRange(day int, start, end *time.Time) bool {
	if start == nil || end == nil {
		return true
	}
	first := FirstOccurrence(day, start)
	if first == nil {
		return true
	}
	return !first.After(*end)
}

// SemesterWeeks estimates the teaching-week count between two dates,
// rounding partial weeks up. Zero when either bound is missing.
func SemesterWeeks(start, end *time.Time) int {
	if start == nil || end == nil || end.Before(*start) {
		return 0
	}
	days := int(end.Sub(*start).Hours()/24) + 1
	return (days + 6) / 7
}
