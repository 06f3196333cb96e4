package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusflow/timetable-api/internal/dto"
	"github.com/campusflow/timetable-api/internal/models"
	appErrors "github.com/campusflow/timetable-api/pkg/errors"
)

type stubScheduleRepo struct {
	entries []models.Schedule
	created *models.Schedule
	updated *models.Schedule
	deleted string
}

func (s *stubScheduleRepo) List(_ context.Context, _ models.ScheduleFilter) ([]models.Schedule, int, error) {
	return s.entries, len(s.entries), nil
}

func (s *stubScheduleRepo) ListBySemester(_ context.Context, semester string, year int) ([]models.Schedule, error) {
	var out []models.Schedule
	for _, entry := range s.entries {
		if entry.Semester == semester && entry.Year == year {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (s *stubScheduleRepo) FindByID(_ context.Context, id string) (*models.Schedule, error) {
	for i := range s.entries {
		if s.entries[i].ID == id {
			found := s.entries[i]
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubScheduleRepo) Create(_ context.Context, schedule *models.Schedule) error {
	s.created = schedule
	return nil
}

func (s *stubScheduleRepo) Update(_ context.Context, schedule *models.Schedule) error {
	s.updated = schedule
	return nil
}

func (s *stubScheduleRepo) Delete(_ context.Context, id string) error {
	s.deleted = id
	return nil
}

type stubCourseByID struct{ course models.Course }

func (s *stubCourseByID) FindByID(_ context.Context, id string) (*models.Course, error) {
	if id != s.course.ID {
		return nil, sql.ErrNoRows
	}
	found := s.course
	return &found, nil
}

type stubRoomByID struct{ room models.Room }

func (s *stubRoomByID) FindByID(_ context.Context, id string) (*models.Room, error) {
	if id != s.room.ID {
		return nil, sql.ErrNoRows
	}
	found := s.room
	return &found, nil
}

type stubInstructorByID struct{ instructor models.Instructor }

func (s *stubInstructorByID) FindByID(_ context.Context, id string) (*models.Instructor, error) {
	if id != s.instructor.ID {
		return nil, sql.ErrNoRows
	}
	found := s.instructor
	return &found, nil
}

func detectionOn() *stubSettings {
	return &stubSettings{bools: map[string]bool{models.SettingConflictDetectionEnabled: true}}
}

func newScheduleFixture(repo *stubScheduleRepo, settings settingsResolver, notifier conflictNotifier) *ScheduleService {
	return NewScheduleService(
		repo,
		&stubCourseByID{course: models.Course{ID: "c1", Code: "CS101", Name: "Intro to CS"}},
		&stubRoomByID{room: models.Room{ID: "r1", Name: "Room 101", Capacity: 40}},
		&stubInstructorByID{instructor: models.Instructor{ID: "i1", FullName: "Dr. Chen"}},
		settings,
		notifier,
		nil,
		nil,
		nil,
	)
}

func existingEntry() models.Schedule {
	return models.Schedule{
		ID: "s1", CourseID: "c9", InstructorID: "i9", RoomID: "r1",
		DayOfWeek: "Monday", StartTime: "08:00", EndTime: "09:30",
		Semester: "Fall", Year: 2026,
		CourseCode: "MA201", RoomName: "Room 101", InstructorName: "Dr. Patel",
		Status: models.ScheduleStatusScheduled,
	}
}

func validCreateRequest() dto.CreateScheduleRequest {
	return dto.CreateScheduleRequest{
		CourseID:     "c1",
		InstructorID: "i1",
		RoomID:       "r1",
		DayOfWeek:    "Tuesday",
		StartTime:    "10:00",
		EndTime:      "11:30",
		Semester:     "Fall",
		Year:         2026,
		AcademicYear: "2026/2027",
	}
}

func TestScheduleCreateCleanEntry(t *testing.T) {
	repo := &stubScheduleRepo{entries: []models.Schedule{existingEntry()}}
	svc := newScheduleFixture(repo, detectionOn(), nil)

	req := validCreateRequest()
	req.CourseID = "c1"
	req.InstructorID = "i1"
	req.RoomID = "r1"

	schedule, conflicts, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, conflicts)
	assert.Equal(t, models.ScheduleStatusScheduled, schedule.Status)
	assert.Equal(t, 90, schedule.Duration)
	assert.Equal(t, "CS101", schedule.CourseCode)
	assert.Equal(t, "Dr. Chen", schedule.InstructorName)
	require.NotNil(t, repo.created)
}

func TestScheduleCreatePersistsConflictedEntry(t *testing.T) {
	repo := &stubScheduleRepo{entries: []models.Schedule{existingEntry()}}
	notifier := &stubNotifier{}
	svc := newScheduleFixture(repo, detectionOn(), notifier)

	req := validCreateRequest()
	req.DayOfWeek = "Monday"
	req.StartTime = "08:30"
	req.EndTime = "10:00"

	schedule, conflicts, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, conflicts)
	assert.Contains(t, conflicts[0], "Room 101")
	assert.Equal(t, models.ScheduleStatusConflict, schedule.Status)
	require.NotNil(t, repo.created)
	assert.Equal(t, 1, notifier.conflicts)
}

func TestScheduleCheckReportsInstructorClash(t *testing.T) {
	entry := existingEntry()
	entry.InstructorID = "i1"
	entry.RoomID = "r9"
	repo := &stubScheduleRepo{entries: []models.Schedule{entry}}
	svc := newScheduleFixture(repo, detectionOn(), nil)

	resp, err := svc.Check(context.Background(), dto.CheckScheduleRequest{
		CourseID: "c1", InstructorID: "i1", RoomID: "r1",
		DayOfWeek: "Monday", StartTime: "09:00", EndTime: "10:30",
		Semester: "Fall", Year: 2026,
	})
	require.NoError(t, err)
	assert.True(t, resp.HasConflicts)
	require.Len(t, resp.Conflicts, 1)
	assert.Contains(t, resp.Conflicts[0], "Instructor")
}

func TestScheduleCheckAllowsInstructorOverlapWhenConfigured(t *testing.T) {
	entry := existingEntry()
	entry.InstructorID = "i1"
	entry.RoomID = "r9"
	repo := &stubScheduleRepo{entries: []models.Schedule{entry}}
	settings := &stubSettings{bools: map[string]bool{
		models.SettingConflictDetectionEnabled: true,
		models.SettingAllowOverlappingClasses:  true,
	}}
	svc := newScheduleFixture(repo, settings, nil)

	resp, err := svc.Check(context.Background(), dto.CheckScheduleRequest{
		CourseID: "c1", InstructorID: "i1", RoomID: "r1",
		DayOfWeek: "Monday", StartTime: "09:00", EndTime: "10:30",
		Semester: "Fall", Year: 2026,
	})
	require.NoError(t, err)
	assert.False(t, resp.HasConflicts)
}

func TestScheduleCheckSkipsWhenDetectionDisabled(t *testing.T) {
	repo := &stubScheduleRepo{entries: []models.Schedule{existingEntry()}}
	svc := newScheduleFixture(repo, &stubSettings{}, nil)

	resp, err := svc.Check(context.Background(), dto.CheckScheduleRequest{
		CourseID: "c1", InstructorID: "i9", RoomID: "r1",
		DayOfWeek: "Monday", StartTime: "08:00", EndTime: "09:30",
		Semester: "Fall", Year: 2026,
	})
	require.NoError(t, err)
	assert.False(t, resp.HasConflicts)
}

func TestScheduleCheckReportsExactDuplicate(t *testing.T) {
	entry := existingEntry()
	repo := &stubScheduleRepo{entries: []models.Schedule{entry}}
	svc := newScheduleFixture(repo, detectionOn(), nil)

	resp, err := svc.Check(context.Background(), dto.CheckScheduleRequest{
		CourseID: entry.CourseID, InstructorID: entry.InstructorID, RoomID: entry.RoomID,
		DayOfWeek: entry.DayOfWeek, StartTime: entry.StartTime, EndTime: entry.EndTime,
		Semester: entry.Semester, Year: entry.Year,
	})
	require.NoError(t, err)
	assert.True(t, resp.HasConflicts)
	require.Len(t, resp.Conflicts, 1)
	assert.Contains(t, resp.Conflicts[0], "already exists")
}

func TestScheduleCheckReportsCourseElsewhereInTerm(t *testing.T) {
	entry := existingEntry()
	repo := &stubScheduleRepo{entries: []models.Schedule{entry}}
	svc := newScheduleFixture(repo, detectionOn(), nil)

	// Same course, same term, but a different day with no time overlap.
	resp, err := svc.Check(context.Background(), dto.CheckScheduleRequest{
		CourseID: entry.CourseID, InstructorID: "i1", RoomID: "r2",
		DayOfWeek: "Thursday", StartTime: "10:00", EndTime: "11:00",
		Semester: entry.Semester, Year: entry.Year,
	})
	require.NoError(t, err)
	assert.True(t, resp.HasConflicts)
	require.Len(t, resp.Conflicts, 1)
	assert.Contains(t, resp.Conflicts[0], "Course MA201 already meets")
}

func TestScheduleUpdateRejectsConflictingMove(t *testing.T) {
	blocker := existingEntry()
	target := existingEntry()
	target.ID = "s2"
	target.CourseID = "c1"
	target.InstructorID = "i1"
	target.RoomID = "r1"
	target.DayOfWeek = "Tuesday"
	repo := &stubScheduleRepo{entries: []models.Schedule{blocker, target}}
	svc := newScheduleFixture(repo, detectionOn(), nil)

	day := "Monday"
	start, end := "08:00", "09:30"
	_, err := svc.Update(context.Background(), "s2", dto.UpdateScheduleRequest{
		DayOfWeek: &day, StartTime: &start, EndTime: &end,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.updated)
}

func TestScheduleUpdateExcludesOwnRow(t *testing.T) {
	target := existingEntry()
	repo := &stubScheduleRepo{entries: []models.Schedule{target}}
	svc := newScheduleFixture(repo, detectionOn(), nil)

	start, end := "08:30", "10:00"
	updated, err := svc.Update(context.Background(), "s1", dto.UpdateScheduleRequest{
		StartTime: &start, EndTime: &end,
	})
	require.NoError(t, err)
	assert.Equal(t, "08:30", updated.StartTime)
	assert.Equal(t, 90, updated.Duration)
	require.NotNil(t, repo.updated)
}

func TestScheduleGetUnknownID(t *testing.T) {
	svc := newScheduleFixture(&stubScheduleRepo{}, detectionOn(), nil)
	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
