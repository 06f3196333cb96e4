package scheduler

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusflow/timetable-api/internal/models"
)

func testConfig() Config {
	return Config{
		WorkStart:         7 * 60,
		WorkEnd:           18 * 60,
		Granularity:       30,
		MaxSubjectsPerDay: 2,
	}
}

func testRooms() []models.Room {
	return []models.Room{
		{ID: "r1", Name: "R101", Type: models.RoomTypeClassroom, Capacity: 40, Available: true},
		{ID: "r2", Name: "R102", Type: models.RoomTypeClassroom, Capacity: 40, Available: true},
		{ID: "r3", Name: "R201", Type: models.RoomTypeClassroom, Capacity: 80, Available: true},
	}
}

func testInstructors(n int) []Instructor {
	pool := make([]Instructor, 0, n)
	for i := 1; i <= n; i++ {
		pool = append(pool, Instructor{ID: fmt.Sprintf("i%d", i), Name: fmt.Sprintf("Instructor %d", i)})
	}
	return pool
}

func testCourse(id string, yearLevel int, section string, duration int) models.Course {
	return models.Course{
		ID:               id,
		Code:             id,
		Name:             "Course " + id,
		Type:             models.CourseTypeLecture,
		Duration:         duration,
		YearLevel:        yearLevel,
		Section:          section,
		RequiredCapacity: 30,
	}
}

func TestGenerateFirstSlotForFreshSection(t *testing.T) {
	courses := []models.Course{testCourse("C1", 1, "A", 90)}

	result := Generate(courses, testRooms(), testInstructors(1), testConfig())

	require.Len(t, result.Placements, 1)
	require.Empty(t, result.Unscheduled)
	placement := result.Placements[0]
	assert.Equal(t, Monday, placement.Day, "section 1A seeds its cursor on Monday")
	assert.Equal(t, 7*60, placement.Start)
	assert.Equal(t, 7*60+90, placement.End)
	assert.Equal(t, "r1", placement.Room.ID, "best-fit room wins")
}

func TestGenerateFillsDayThenRotates(t *testing.T) {
	courses := []models.Course{
		testCourse("C1", 1, "A", 90),
		testCourse("C2", 1, "A", 90),
		testCourse("C3", 1, "A", 90),
	}

	result := Generate(courses, testRooms(), testInstructors(3), testConfig())

	require.Len(t, result.Placements, 3)
	days := map[string]int{}
	for _, p := range result.Placements {
		days[p.Course.ID] = p.Day
	}
	assert.Equal(t, Monday, days["C1"])
	assert.Equal(t, Monday, days["C2"], "cap of two allows a second Monday course")
	assert.Equal(t, Tuesday, days["C3"], "cursor advances once the day is full")
}

func TestGenerateCursorSeedSpreadsSections(t *testing.T) {
	assert.Equal(t, Monday, cursorSeed(1, "A"))
	assert.Equal(t, Tuesday, cursorSeed(1, "B"))
	assert.Equal(t, Wednesday, cursorSeed(2, "A"))
	assert.Equal(t, Friday, cursorSeed(3, "A"))
	assert.Equal(t, Saturday, cursorSeed(3, "B"))
	assert.Equal(t, Tuesday, cursorSeed(4, "B"), "seed wraps inside the week")
}

func TestGenerateNeverOverlapsSharedResources(t *testing.T) {
	var courses []models.Course
	for year := 1; year <= 4; year++ {
		for _, section := range []string{"A", "B"} {
			for i := 0; i < 4; i++ {
				id := fmt.Sprintf("C%d%s%d", year, section, i)
				courses = append(courses, testCourse(id, year, section, 90))
			}
		}
	}

	result := Generate(courses, testRooms(), testInstructors(6), testConfig())

	assertNoPairOverlap := func(key func(Placement) string) {
		for i := 0; i < len(result.Placements); i++ {
			for j := i + 1; j < len(result.Placements); j++ {
				a, b := result.Placements[i], result.Placements[j]
				if key(a) != key(b) || a.Day != b.Day {
					continue
				}
				assert.False(t, RangesOverlap(a.Start, a.End, b.Start, b.End),
					"%s and %s overlap on %s", a.Course.ID, b.Course.ID, DayName(a.Day))
			}
		}
	}
	assertNoPairOverlap(func(p Placement) string { return "room:" + p.Room.ID })
	assertNoPairOverlap(func(p Placement) string { return "instructor:" + p.Instructor.ID })
	assertNoPairOverlap(func(p Placement) string { return "section:" + p.Course.SectionKey() })
}

func TestGenerateRespectsDailySectionCap(t *testing.T) {
	var courses []models.Course
	for i := 0; i < 8; i++ {
		courses = append(courses, testCourse(fmt.Sprintf("C%d", i), 2, "A", 60))
	}

	result := Generate(courses, testRooms(), testInstructors(4), testConfig())

	perDay := map[int]map[string]struct{}{}
	for _, p := range result.Placements {
		if perDay[p.Day] == nil {
			perDay[p.Day] = map[string]struct{}{}
		}
		perDay[p.Day][p.Course.ID] = struct{}{}
	}
	for day, ids := range perDay {
		assert.LessOrEqual(t, len(ids), 2, "day %s exceeds section cap", DayName(day))
	}
}

func TestGenerateSkipsLunchWindow(t *testing.T) {
	var courses []models.Course
	for i := 0; i < 10; i++ {
		courses = append(courses, testCourse(fmt.Sprintf("C%d", i), 1, "A", 120))
	}

	result := Generate(courses, testRooms(), testInstructors(5), testConfig())

	for _, p := range result.Placements {
		lunchStart, lunchEnd := LunchWindow(p.Day)
		assert.False(t, RangesOverlap(p.Start, p.End, lunchStart, lunchEnd),
			"%s intersects lunch on %s", p.Course.ID, DayName(p.Day))
	}
}

func TestGenerateReportsUnplaceableCourse(t *testing.T) {
	course := testCourse("HUGE", 1, "A", 90)
	course.RequiredCapacity = 500

	result := Generate([]models.Course{course}, testRooms(), testInstructors(1), testConfig())

	require.Empty(t, result.Placements)
	require.Len(t, result.Unscheduled, 1)
	assert.Equal(t, ReasonNoRoom, result.Unscheduled[0].Reason)
	assert.Equal(t, 1, result.Stats.ConflictCount)
}

func TestGenerateReportsMissingAssignedInstructor(t *testing.T) {
	course := testCourse("C1", 1, "A", 90)
	course.InstructorID = strPtr("ghost")

	result := Generate([]models.Course{course}, testRooms(), testInstructors(2), testConfig())

	require.Len(t, result.Unscheduled, 1)
	assert.Equal(t, ReasonNoInstructor, result.Unscheduled[0].Reason)
}

func TestGenerateHonoursInstructorAvailability(t *testing.T) {
	pool := []Instructor{{
		ID: "i1",
		Availability: Availability{
			Monday: {{Start: 14 * 60, End: 18 * 60}},
		},
	}}
	course := testCourse("C1", 1, "A", 90)
	course.InstructorID = strPtr("i1")

	result := Generate([]models.Course{course}, testRooms(), pool, testConfig())

	require.Len(t, result.Placements, 1)
	placement := result.Placements[0]
	if placement.Day == Monday {
		assert.GreaterOrEqual(t, placement.Start, 14*60)
	}
}

func TestGenerateStats(t *testing.T) {
	courses := []models.Course{
		testCourse("C1", 1, "A", 90),
		testCourse("C2", 2, "B", 60),
	}

	result := Generate(courses, testRooms(), testInstructors(2), testConfig())

	assert.Equal(t, 2, result.Stats.TotalCourses)
	assert.Equal(t, 2, result.Stats.ScheduledCourses)
	assert.Equal(t, 0, result.Stats.ConflictCount)
	assert.Equal(t, 1, result.Stats.ByYearLevel["1"])
	assert.Equal(t, 1, result.Stats.BySection["2B"])
	assert.Equal(t, 2, result.Stats.MaxSubjectsPerDay)
}
