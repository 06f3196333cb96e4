package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMinutesAndBack(t *testing.T) {
	for _, minutes := range []int{0, 1, 7 * 60, 12*60 + 30, 23*60 + 59} {
		parsed, err := ToMinutes(ToHHMM(minutes))
		require.NoError(t, err)
		assert.Equal(t, minutes, parsed)
	}
}

func TestToMinutesRejectsMalformedInput(t *testing.T) {
	for _, raw := range []string{"", "abc", "25:00", "12:75", "-1:00", "12:30xx", "7:00", "07:5", "07:00:00"} {
		_, err := ToMinutes(raw)
		assert.ErrorIs(t, err, ErrInvalidTime, "input %q", raw)
	}
}

func TestRangesOverlap(t *testing.T) {
	assert.True(t, RangesOverlap(9*60, 10*60+30, 10*60, 11*60))
	assert.False(t, RangesOverlap(9*60, 10*60, 10*60, 11*60), "touching endpoints do not overlap")
	assert.True(t, RangesOverlap(8*60, 12*60, 9*60, 10*60), "containment overlaps")
}

func TestRangesOverlapIsSymmetric(t *testing.T) {
	cases := [][4]int{
		{540, 630, 600, 660},
		{540, 600, 600, 660},
		{480, 720, 540, 600},
	}
	for _, c := range cases {
		assert.Equal(t, RangesOverlap(c[0], c[1], c[2], c[3]), RangesOverlap(c[2], c[3], c[0], c[1]))
	}
}

func TestLunchWindow(t *testing.T) {
	start, end := LunchWindow(Monday)
	assert.Equal(t, 12*60, start)
	assert.Equal(t, 13*60, end)

	start, end = LunchWindow(Wednesday)
	assert.Equal(t, 12*60, start)
	assert.Equal(t, 14*60, end)
}

func TestFirstOccurrence(t *testing.T) {
	// 2026-08-31 is a Monday.
	start := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	monday := FirstOccurrence(Monday, &start)
	require.NotNil(t, monday)
	assert.Equal(t, start, *monday)

	thursday := FirstOccurrence(Thursday, &start)
	require.NotNil(t, thursday)
	assert.Equal(t, start.AddDate(0, 0, 3), *thursday)

	assert.Nil(t, FirstOccurrence(Monday, nil))
}

func TestWeekdayInRange(t *testing.T) {
	start := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC) // Monday
	end := start.AddDate(0, 0, 2)                         // Wednesday

	assert.True(t, WeekdayInRange(Tuesday, &start, &end))
	assert.False(t, WeekdayInRange(Friday, &start, &end))
	assert.True(t, WeekdayInRange(Friday, nil, nil), "missing bounds impose no restriction")
}

func TestSemesterWeeks(t *testing.T) {
	start := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 16*7-1)

	assert.Equal(t, 16, SemesterWeeks(&start, &end))
	assert.Equal(t, 0, SemesterWeeks(nil, &end))
	assert.Equal(t, 0, SemesterWeeks(&end, &start))
}

func TestDayNameRoundTrip(t *testing.T) {
	for day := Monday; day < NumDays; day++ {
		idx, ok := DayIndex(DayName(day))
		require.True(t, ok)
		assert.Equal(t, day, idx)
	}
	_, ok := DayIndex("SUNDAY")
	assert.False(t, ok)
}
