package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusflow/timetable-api/internal/models"
)

func strPtr(s string) *string { return &s }

func TestMatrixOccupancy(t *testing.T) {
	m := NewMatrix([]string{"room-1"})

	assert.True(t, m.IsFree("room-1", Monday, 540, 630))
	m.Occupy("room-1", Monday, 540, 630, "c1")
	assert.False(t, m.IsFree("room-1", Monday, 600, 660))
	assert.True(t, m.IsFree("room-1", Monday, 630, 720), "touching interval is free")
	assert.True(t, m.IsFree("room-1", Tuesday, 540, 630), "other days unaffected")
	assert.True(t, m.IsFree("unknown", Monday, 540, 630))
}

func TestMatrixUniqueCourses(t *testing.T) {
	m := NewMatrix([]string{"1A"})
	m.Occupy("1A", Monday, 420, 510, "c1")
	m.Occupy("1A", Monday, 510, 600, "c1")
	m.Occupy("1A", Monday, 600, 690, "c2")

	assert.Equal(t, 2, m.UniqueCourses("1A", Monday), "same course twice counts once")
	assert.Equal(t, 0, m.UniqueCourses("1A", Tuesday))
}

func TestCandidateRoomsFiltering(t *testing.T) {
	rooms := []models.Room{
		{ID: "aud", Name: "Auditorium", Type: models.RoomTypeAuditorium, Capacity: 300, Available: true},
		{ID: "small", Name: "R101", Type: models.RoomTypeClassroom, Capacity: 20, Available: true},
		{ID: "big", Name: "R201", Type: models.RoomTypeClassroom, Capacity: 60, Available: true},
		{ID: "fit", Name: "R102", Type: models.RoomTypeClassroom, Capacity: 35, Available: true},
		{ID: "closed", Name: "R103", Type: models.RoomTypeClassroom, Capacity: 35, Available: false},
	}
	course := models.Course{RequiredCapacity: 30, Type: models.CourseTypeLecture}

	candidates := CandidateRooms(course, rooms)
	require.Len(t, candidates, 2)
	assert.Equal(t, "fit", candidates[0].ID, "best fit first")
	assert.Equal(t, "big", candidates[1].ID)
}

func TestCandidateRoomsLabRequirements(t *testing.T) {
	rooms := []models.Room{
		{ID: "class", Type: models.RoomTypeClassroom, Capacity: 40, Available: true},
		{ID: "wet", Type: models.RoomTypeLaboratory, Capacity: 30, Available: true},
		{ID: "comp", Type: models.RoomTypeComputerLab, Capacity: 30, Available: true, Equipment: []string{"workstations"}},
	}
	course := models.Course{RequiredCapacity: 25, Type: models.CourseTypeLab}

	candidates := CandidateRooms(course, rooms)
	require.Len(t, candidates, 2)
	assert.Equal(t, "comp", candidates[0].ID, "computer lab preferred on capacity tie")

	course.SpecialRequirements = []string{"workstations"}
	candidates = CandidateRooms(course, rooms)
	require.Len(t, candidates, 1)
	assert.Equal(t, "comp", candidates[0].ID)
}

func TestCandidateRoomsUsesEnrollmentWhenLarger(t *testing.T) {
	rooms := []models.Room{
		{ID: "r30", Type: models.RoomTypeClassroom, Capacity: 30, Available: true},
		{ID: "r50", Type: models.RoomTypeClassroom, Capacity: 50, Available: true},
	}
	course := models.Course{RequiredCapacity: 20, StudentsEnrolled: 45}

	candidates := CandidateRooms(course, rooms)
	require.Len(t, candidates, 1)
	assert.Equal(t, "r50", candidates[0].ID)
}

func TestSelectInstructorPolicies(t *testing.T) {
	pool := []Instructor{{ID: "i1"}, {ID: "i2"}}

	assigned := models.Course{InstructorID: strPtr("i2")}
	picked, ok := SelectInstructor(assigned, pool, PreferAssigned)
	require.True(t, ok)
	assert.Equal(t, "i2", picked.ID)

	missing := models.Course{InstructorID: strPtr("ghost")}
	_, ok = SelectInstructor(missing, pool, PreferAssigned)
	assert.False(t, ok, "assigned instructor absent from pool is a hard failure")

	picked, ok = SelectInstructor(missing, pool, AnyAvailable)
	require.True(t, ok)
	assert.Equal(t, "i1", picked.ID)

	unassigned := models.Course{}
	picked, ok = SelectInstructor(unassigned, pool, AnyAvailable)
	require.True(t, ok)
	assert.Equal(t, "i1", picked.ID)

	_, ok = SelectInstructor(unassigned, nil, AnyAvailable)
	assert.False(t, ok)
}

func TestInstructorCanTeach(t *testing.T) {
	declared := Instructor{ID: "i1", Availability: Availability{
		Monday: {{Start: 8 * 60, End: 12 * 60}},
	}}

	assert.True(t, declared.CanTeach(Monday, 9*60, 10*60+30), "contained in declared window")
	assert.False(t, declared.CanTeach(Monday, 11*60, 12*60+30), "spills past window end")
	assert.True(t, declared.CanTeach(Tuesday, 7*60, 20*60), "undeclared day is unconstrained")

	unconstrained := Instructor{ID: "i2"}
	assert.True(t, unconstrained.CanTeach(Friday, 7*60, 8*60))
}
