package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusflow/timetable-api/internal/models"
)

func newScheduleRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func scheduleRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "course_id", "instructor_id", "room_id", "day_of_week", "schedule_date", "start_time", "end_time", "duration", "semester", "year", "academic_year", "status", "course_code", "course_name", "room_name", "instructor_name", "created_at", "updated_at"})
}

func TestScheduleRepositoryListBySemester(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	rows := scheduleRows().
		AddRow("s1", "c1", "i1", "r1", "Monday", nil, "07:00", "08:30", 90, "Fall", 2026, "2026/2027", "scheduled", "CS101", "Intro to CS", "Room 101", "Dr. Chen", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM schedules WHERE semester = $1 AND year = $2 ORDER BY day_of_week ASC, start_time ASC")).
		WithArgs("Fall", 2026).
		WillReturnRows(rows)

	list, err := repo.ListBySemester(context.Background(), "Fall", 2026)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "CS101", list[0].CourseCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryListWithFilters(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM schedules WHERE 1=1 AND semester = $1 AND room_id = $2")).
		WithArgs("Fall", "r1").
		WillReturnRows(scheduleRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM schedules WHERE 1=1 AND semester = $1 AND room_id = $2")).
		WithArgs("Fall", "r1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	list, total, err := repo.List(context.Background(), models.ScheduleFilter{Semester: "Fall", RoomID: "r1"})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, 0, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryReplaceForSemester(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schedules WHERE semester = $1 AND year = $2")).
		WithArgs("Fall", 2026).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO schedules").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO schedules").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	schedules := []models.Schedule{
		{CourseID: "c1", InstructorID: "i1", RoomID: "r1", DayOfWeek: "Monday", StartTime: "07:00", EndTime: "08:30", Duration: 90, Semester: "Fall", Year: 2026, AcademicYear: "2026/2027", Status: models.ScheduleStatusScheduled, CourseCode: "CS101"},
		{CourseID: "c2", InstructorID: "i2", RoomID: "r2", DayOfWeek: "Tuesday", StartTime: "09:00", EndTime: "10:00", Duration: 60, Semester: "Fall", Year: 2026, AcademicYear: "2026/2027", Status: models.ScheduleStatusScheduled, CourseCode: "MA201"},
	}
	err := repo.ReplaceForSemester(context.Background(), "Fall", 2026, schedules)
	require.NoError(t, err)
	assert.NotEmpty(t, schedules[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryReplaceRollsBackOnInsertError(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schedules WHERE semester = $1 AND year = $2")).
		WithArgs("Fall", 2026).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO schedules").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.ReplaceForSemester(context.Background(), "Fall", 2026, []models.Schedule{
		{CourseID: "c1", CourseCode: "CS101"},
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectExec("INSERT INTO schedules").
		WillReturnResult(sqlmock.NewResult(1, 1))

	s := &models.Schedule{CourseID: "c1", InstructorID: "i1", RoomID: "r1", DayOfWeek: "Monday", StartTime: "07:00", EndTime: "08:30", Duration: 90, Semester: "Fall", Year: 2026}
	require.NoError(t, repo.Create(context.Background(), s))
	assert.NotEmpty(t, s.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
