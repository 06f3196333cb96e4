package scheduler

import (
	"sort"
	"strconv"
	"time"

	"github.com/campusflow/timetable-api/internal/models"
)

// Human-readable placement failure reasons, surfaced to callers verbatim.
const (
	ReasonNoInstructor = "No suitable instructor available"
	ReasonNoRoom       = "No suitable room available"
	ReasonNoTimeSlot   = "No available time slot found"
)

// DefaultMaxSubjectsPerDay caps distinct courses per section per weekday.
const DefaultMaxSubjectsPerDay = 2

// DefaultGranularity is the placement grid step in minutes.
const DefaultGranularity = 30

// Config parameterizes one generation run.
type Config struct {
	WorkStart         int
	WorkEnd           int
	Granularity       int
	MaxSubjectsPerDay int
	SemesterStart     *time.Time
	SemesterEnd       *time.Time
	Policy            MatchingPolicy
}

// Placement is one generated course assignment.
type Placement struct {
	Course     models.Course
	Instructor Instructor
	Room       models.Room
	Day        int
	Start      int
	End        int
	Date       *time.Time
}

// Unscheduled records a course the driver could not place.
type Unscheduled struct {
	CourseID   string
	CourseCode string
	CourseName string
	YearLevel  int
	Section    string
	Reason     string
}

// Stats summarises a generation run.
type Stats struct {
	TotalCourses      int
	ScheduledCourses  int
	ConflictCount     int
	ByYearLevel       map[string]int
	BySection         map[string]int
	SemesterWeeks     int
	MaxSubjectsPerDay int
}

// Result is the complete outcome of one generation run.
type Result struct {
	Placements  []Placement
	Unscheduled []Unscheduled
	Stats       Stats
}

// sectionState carries a section's rotating day cursor between courses.
type sectionState struct {
	key     string
	year    int
	section string
	cursor  int
	courses []models.Course
}

// Generate assigns a weekly slot to every course it can, section by
// section. Courses within a section are placed largest-first; each section
// rotates through the week from its own seed day so sections do not all
// contend for Monday morning. A course is abandoned after one full pass
// over the teaching week.
func Generate(courses []models.Course, rooms []models.Room, instructors []Instructor, cfg Config) Result {
	if cfg.Granularity <= 0 {
		cfg.Granularity = DefaultGranularity
	}
	if cfg.MaxSubjectsPerDay <= 0 {
		cfg.MaxSubjectsPerDay = DefaultMaxSubjectsPerDay
	}

	sections := groupSections(courses)

	roomIDs := make([]string, 0, len(rooms))
	for _, room := range rooms {
		roomIDs = append(roomIDs, room.ID)
	}
	instructorIDs := make([]string, 0, len(instructors))
	for _, instructor := range instructors {
		instructorIDs = append(instructorIDs, instructor.ID)
	}
	sectionKeys := make([]string, 0, len(sections))
	for _, state := range sections {
		sectionKeys = append(sectionKeys, state.key)
	}

	p := &placer{
		workStart:     cfg.WorkStart,
		workEnd:       cfg.WorkEnd,
		granularity:   cfg.Granularity,
		semesterStart: cfg.SemesterStart,
		semesterEnd:   cfg.SemesterEnd,
		rooms:         NewMatrix(roomIDs),
		instructors:   NewMatrix(instructorIDs),
		sections:      NewMatrix(sectionKeys),
	}

	result := Result{
		Placements:  make([]Placement, 0, len(courses)),
		Unscheduled: make([]Unscheduled, 0),
	}

	for _, state := range sections {
		for _, course := range state.courses {
			placement, reason, ok := placeCourse(p, state, course, rooms, instructors, cfg)
			if !ok {
				result.Unscheduled = append(result.Unscheduled, Unscheduled{
					CourseID:   course.ID,
					CourseCode: course.Code,
					CourseName: course.Name,
					YearLevel:  course.YearLevel,
					Section:    course.Section,
					Reason:     reason,
				})
				continue
			}
			result.Placements = append(result.Placements, placement)
		}
	}

	result.Stats = buildStats(courses, result, cfg)
	return result
}

func placeCourse(p *placer, state *sectionState, course models.Course, rooms []models.Room, pool []Instructor, cfg Config) (Placement, string, bool) {
	policy := cfg.Policy
	if course.InstructorID == nil || *course.InstructorID == "" {
		policy = AnyAvailable
	}
	instructor, ok := SelectInstructor(course, pool, policy)
	if !ok {
		return Placement{}, ReasonNoInstructor, false
	}

	candidates := CandidateRooms(course, rooms)
	if len(candidates) == 0 {
		return Placement{}, ReasonNoRoom, false
	}

	for attempts := 0; attempts < NumDays; attempts++ {
		day := state.cursor
		if p.sections.UniqueCourses(state.key, day) >= cfg.MaxSubjectsPerDay {
			state.advance()
			continue
		}
		slot, found := p.findSlot(course, day, candidates, instructor)
		if !found {
			state.advance()
			continue
		}
		p.commit(course, slot)
		if p.sections.UniqueCourses(state.key, day) >= cfg.MaxSubjectsPerDay {
			state.advance()
		}
		return Placement{
			Course:     course,
			Instructor: slot.Instructor,
			Room:       slot.Room,
			Day:        slot.Day,
			Start:      slot.Start,
			End:        slot.End,
			Date:       slot.Date,
		}, "", true
	}
	return Placement{}, ReasonNoTimeSlot, false
}

func (s *sectionState) advance() {
	s.cursor = (s.cursor + 1) % NumDays
}

// cursorSeed spreads sections across the week: consecutive year levels
// start two days apart and the B section one day after the A section.
func cursorSeed(yearLevel int, section string) int {
	offset := 0
	if section == "B" {
		offset = 1
	}
	seed := 2*(yearLevel-1) + offset
	return ((seed % NumDays) + NumDays) % NumDays
}

func groupSections(courses []models.Course) []*sectionState {
	byKey := make(map[string]*sectionState)
	for _, course := range courses {
		key := course.SectionKey()
		state, ok := byKey[key]
		if !ok {
			state = &sectionState{
				key:     key,
				year:    course.YearLevel,
				section: course.Section,
				cursor:  cursorSeed(course.YearLevel, course.Section),
			}
			byKey[key] = state
		}
		state.courses = append(state.courses, course)
	}

	ordered := make([]*sectionState, 0, len(byKey))
	for _, state := range byKey {
		// Larger blocks first reduces fragmentation; ties stay stable by code.
		sort.SliceStable(state.courses, func(i, j int) bool {
			if state.courses[i].Duration != state.courses[j].Duration {
				return state.courses[i].Duration > state.courses[j].Duration
			}
			return state.courses[i].Code < state.courses[j].Code
		})
		ordered = append(ordered, state)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].key < ordered[j].key })
	return ordered
}

func buildStats(courses []models.Course, result Result, cfg Config) Stats {
	stats := Stats{
		TotalCourses:      len(courses),
		ScheduledCourses:  len(result.Placements),
		ConflictCount:     len(result.Unscheduled),
		ByYearLevel:       make(map[string]int),
		BySection:         make(map[string]int),
		SemesterWeeks:     SemesterWeeks(cfg.SemesterStart, cfg.SemesterEnd),
		MaxSubjectsPerDay: cfg.MaxSubjectsPerDay,
	}
	for _, placement := range result.Placements {
		stats.ByYearLevel[strconv.Itoa(placement.Course.YearLevel)]++
		stats.BySection[placement.Course.SectionKey()]++
	}
	return stats
}
