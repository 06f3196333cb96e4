package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusflow/timetable-api/internal/models"
)

func newSettingsRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestSettingsRepositoryGet(t *testing.T) {
	db, mock, cleanup := newSettingsRepoMock(t)
	defer cleanup()
	repo := NewSettingsRepository(db)

	rows := sqlmock.NewRows([]string{"key", "value", "type", "description", "updated_by", "updated_at"}).
		AddRow(models.SettingConflictDetectionEnabled, "true", "BOOLEAN", nil, nil, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM system_settings WHERE key = $1")).
		WithArgs(models.SettingConflictDetectionEnabled).
		WillReturnRows(rows)

	setting, err := repo.Get(context.Background(), models.SettingConflictDetectionEnabled)
	require.NoError(t, err)
	assert.Equal(t, "true", setting.Value)
	assert.Equal(t, models.SettingTypeBoolean, setting.Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsRepositoryGetMissing(t *testing.T) {
	db, mock, cleanup := newSettingsRepoMock(t)
	defer cleanup()
	repo := NewSettingsRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM system_settings WHERE key = $1")).
		WithArgs("scheduling.unknown").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "scheduling.unknown")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsRepositoryListByPrefix(t *testing.T) {
	db, mock, cleanup := newSettingsRepoMock(t)
	defer cleanup()
	repo := NewSettingsRepository(db)

	rows := sqlmock.NewRows([]string{"key", "value", "type", "description", "updated_by", "updated_at"}).
		AddRow(models.SettingAllowOverlappingClasses, "false", "BOOLEAN", nil, nil, time.Now()).
		AddRow(models.SettingMaxSubjectsPerDay, "2", "INTEGER", nil, nil, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM system_settings WHERE key LIKE $1 ORDER BY key ASC")).
		WithArgs("scheduling.%").
		WillReturnRows(rows)

	settings, err := repo.List(context.Background(), "scheduling.")
	require.NoError(t, err)
	assert.Len(t, settings, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newSettingsRepoMock(t)
	defer cleanup()
	repo := NewSettingsRepository(db)

	mock.ExpectExec("INSERT INTO system_settings").
		WillReturnResult(sqlmock.NewResult(1, 1))

	setting := &models.SystemSetting{Key: models.SettingMaxSubjectsPerDay, Value: "3", Type: models.SettingTypeInteger}
	require.NoError(t, repo.Upsert(context.Background(), setting))
	assert.False(t, setting.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
