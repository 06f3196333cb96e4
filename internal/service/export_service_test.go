package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusflow/timetable-api/internal/models"
	appErrors "github.com/campusflow/timetable-api/pkg/errors"
)

type stubExportReader struct {
	schedules []models.Schedule
}

func (s *stubExportReader) ListBySemester(_ context.Context, _ string, _ int) ([]models.Schedule, error) {
	return s.schedules, nil
}

type stubExportCourses struct {
	courses map[string]*models.Course
}

func (s *stubExportCourses) FindByID(_ context.Context, id string) (*models.Course, error) {
	course, ok := s.courses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return course, nil
}

func exportFixtures() []models.Schedule {
	return []models.Schedule{
		{CourseID: "c2", DayOfWeek: "Tuesday", StartTime: "09:00", EndTime: "10:30", CourseCode: "MA201", CourseName: "Calculus II", InstructorName: "Dr. Patel", RoomName: "Room 202", Status: models.ScheduleStatusScheduled},
		{CourseID: "c1", DayOfWeek: "Monday", StartTime: "07:00", EndTime: "08:30", CourseCode: "CS101", CourseName: "Intro to CS", InstructorName: "Dr. Chen", RoomName: "Room 101", Status: models.ScheduleStatusScheduled},
	}
}

func exportCourseIndex() *stubExportCourses {
	return &stubExportCourses{courses: map[string]*models.Course{
		"c1": {ID: "c1", Code: "CS101", YearLevel: 1, Section: "A"},
		"c2": {ID: "c2", Code: "MA201", YearLevel: 2, Section: "A"},
	}}
}

func TestExportCSVOrdersByDayThenTime(t *testing.T) {
	svc := NewExportService(&stubExportReader{schedules: exportFixtures()}, exportCourseIndex(), nil)

	result, err := svc.Export(context.Background(), ExportOptions{Semester: "Fall", Year: 2026, Format: "csv"})
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.Equal(t, "timetable_fall_2026.csv", result.Filename)

	lines := strings.Split(strings.TrimSpace(string(result.Content)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Day,Start,End,Course,Title,Instructor,Room,Status", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Monday,07:00"))
	assert.True(t, strings.HasPrefix(lines[2], "Tuesday,09:00"))
}

func TestExportPDFProducesDocument(t *testing.T) {
	svc := NewExportService(&stubExportReader{schedules: exportFixtures()}, exportCourseIndex(), nil)

	result, err := svc.Export(context.Background(), ExportOptions{Semester: "Fall", Year: 2026, Format: "pdf"})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.Equal(t, "timetable_fall_2026.pdf", result.Filename)
	assert.True(t, strings.HasPrefix(string(result.Content), "%PDF"))
}

func TestExportFiltersByYearLevel(t *testing.T) {
	svc := NewExportService(&stubExportReader{schedules: exportFixtures()}, exportCourseIndex(), nil)

	result, err := svc.Export(context.Background(), ExportOptions{Semester: "Fall", Year: 2026, YearLevel: 2, Format: "csv"})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(result.Content)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "MA201")
}

func TestExportSectionFilterCanEmptyTheTerm(t *testing.T) {
	svc := NewExportService(&stubExportReader{schedules: exportFixtures()}, exportCourseIndex(), nil)

	_, err := svc.Export(context.Background(), ExportOptions{Semester: "Fall", Year: 2026, Section: "B", Format: "csv"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	svc := NewExportService(&stubExportReader{schedules: exportFixtures()}, exportCourseIndex(), nil)

	_, err := svc.Export(context.Background(), ExportOptions{Semester: "Fall", Year: 2026, Format: "xlsx"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportEmptyTermIsNotFound(t *testing.T) {
	svc := NewExportService(&stubExportReader{}, exportCourseIndex(), nil)

	_, err := svc.Export(context.Background(), ExportOptions{Semester: "Fall", Year: 2026, Format: "csv"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
