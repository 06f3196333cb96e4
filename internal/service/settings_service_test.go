package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusflow/timetable-api/internal/models"
	appErrors "github.com/campusflow/timetable-api/pkg/errors"
)

type stubSettingsRepo struct {
	stored map[string]models.SystemSetting
	saved  *models.SystemSetting
}

func (s *stubSettingsRepo) Get(_ context.Context, key string) (*models.SystemSetting, error) {
	if setting, ok := s.stored[key]; ok {
		return &setting, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubSettingsRepo) List(_ context.Context, _ string) ([]models.SystemSetting, error) {
	out := make([]models.SystemSetting, 0, len(s.stored))
	for _, setting := range s.stored {
		out = append(out, setting)
	}
	return out, nil
}

func (s *stubSettingsRepo) Upsert(_ context.Context, setting *models.SystemSetting) error {
	s.saved = setting
	if s.stored == nil {
		s.stored = map[string]models.SystemSetting{}
	}
	s.stored[setting.Key] = *setting
	return nil
}

func TestSettingsListMergesDefaults(t *testing.T) {
	repo := &stubSettingsRepo{stored: map[string]models.SystemSetting{
		models.SettingMaxSubjectsPerDay: {Key: models.SettingMaxSubjectsPerDay, Value: "3", Type: models.SettingTypeInteger},
	}}
	svc := NewSettingsService(repo, nil, 0, nil)

	views, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 3)

	byKey := map[string]string{}
	for _, view := range views {
		byKey[view.Key] = view.Value
	}
	assert.Equal(t, "3", byKey[models.SettingMaxSubjectsPerDay])
	assert.Equal(t, "true", byKey[models.SettingConflictDetectionEnabled])
	assert.Equal(t, "false", byKey[models.SettingAllowOverlappingClasses])
}

func TestSettingsUpdateValidatesTypeAndKey(t *testing.T) {
	repo := &stubSettingsRepo{}
	svc := NewSettingsService(repo, nil, 0, nil)

	_, err := svc.Update(context.Background(), "scheduling.unknown", "1", "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	_, err = svc.Update(context.Background(), models.SettingConflictDetectionEnabled, "maybe", "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Update(context.Background(), models.SettingMaxSubjectsPerDay, "-1", "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSettingsUpdatePersists(t *testing.T) {
	repo := &stubSettingsRepo{}
	svc := NewSettingsService(repo, nil, 0, nil)

	view, err := svc.Update(context.Background(), models.SettingAllowOverlappingClasses, "true", "u1")
	require.NoError(t, err)
	assert.Equal(t, "true", view.Value)
	require.NotNil(t, repo.saved)
	require.NotNil(t, repo.saved.UpdatedBy)
	assert.Equal(t, "u1", *repo.saved.UpdatedBy)
}

func TestSettingsResolveFallsBackToDefaults(t *testing.T) {
	svc := NewSettingsService(&stubSettingsRepo{}, nil, 0, nil)

	assert.True(t, svc.GetBool(context.Background(), models.SettingConflictDetectionEnabled))
	assert.False(t, svc.GetBool(context.Background(), models.SettingAllowOverlappingClasses))
	assert.Equal(t, 2, svc.GetInt(context.Background(), models.SettingMaxSubjectsPerDay))
}

func TestSettingsResolvePrefersStoredValue(t *testing.T) {
	repo := &stubSettingsRepo{stored: map[string]models.SystemSetting{
		models.SettingConflictDetectionEnabled: {Key: models.SettingConflictDetectionEnabled, Value: "false", Type: models.SettingTypeBoolean},
	}}
	svc := NewSettingsService(repo, nil, 0, nil)

	assert.False(t, svc.GetBool(context.Background(), models.SettingConflictDetectionEnabled))
}
