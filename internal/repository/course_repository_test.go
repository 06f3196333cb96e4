package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusflow/timetable-api/internal/models"
)

func newCourseRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func courseRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "code", "name", "department", "credits", "type", "duration", "year_level", "section", "semester", "required_capacity", "students_enrolled", "special_requirements", "instructor_id", "active", "created_at", "updated_at"})
}

func TestCourseRepositoryListForGeneration(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	rows := courseRows().
		AddRow("c1", "CS101", "Intro to CS", "CS", 3, "lecture", 90, 1, "A", "Fall", 30, 28, "{projector}", nil, true, time.Now(), time.Now()).
		AddRow("c2", "CS102", "Programming Lab", "CS", 2, "lab", 120, 1, "A", "Fall", 25, 24, "{computers}", "i1", true, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM courses WHERE active = TRUE AND semester = $1 ORDER BY duration DESC, code ASC")).
		WithArgs("Fall").
		WillReturnRows(rows)

	courses, err := repo.ListForGeneration(context.Background(), "Fall")
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, pq.StringArray{"projector"}, courses[0].SpecialRequirements)
	require.NotNil(t, courses[1].InstructorID)
	assert.Equal(t, "i1", *courses[1].InstructorID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryListFiltersByYearAndSection(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM courses WHERE 1=1 AND year_level = $1 AND section = $2")).
		WithArgs(2, "B").
		WillReturnRows(courseRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM courses WHERE 1=1 AND year_level = $1 AND section = $2")).
		WithArgs(2, "B").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	list, total, err := repo.List(context.Background(), models.CourseFilter{YearLevel: 2, Section: "B"})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, 0, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec("INSERT INTO courses").
		WillReturnResult(sqlmock.NewResult(1, 1))

	course := &models.Course{Code: "CS101", Name: "Intro to CS", Type: models.CourseTypeLecture, Duration: 90, YearLevel: 1, Section: "A", Semester: "Fall", Active: true}
	require.NoError(t, repo.Create(context.Background(), course))
	assert.NotEmpty(t, course.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
