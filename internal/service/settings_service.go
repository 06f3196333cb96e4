package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/campusflow/timetable-api/internal/dto"
	"github.com/campusflow/timetable-api/internal/models"
	appErrors "github.com/campusflow/timetable-api/pkg/errors"
)

type settingsRepository interface {
	Get(ctx context.Context, key string) (*models.SystemSetting, error)
	List(ctx context.Context, prefix string) ([]models.SystemSetting, error)
	Upsert(ctx context.Context, setting *models.SystemSetting) error
}

// knownSettings declares every key the platform understands, with its type
// and the value used when the row has never been written.
var knownSettings = map[string]struct {
	Type        models.SettingType
	Default     string
	Description string
}{
	models.SettingConflictDetectionEnabled: {models.SettingTypeBoolean, "true", "Run conflict detection on schedule writes"},
	models.SettingAllowOverlappingClasses:  {models.SettingTypeBoolean, "false", "Permit instructor double-booking"},
	models.SettingMaxSubjectsPerDay:        {models.SettingTypeInteger, "2", "Distinct courses a section may hold per day"},
}

// SettingsService reads and writes system settings with a Redis read-through
// cache. A nil Redis client disables caching.
type SettingsService struct {
	repo   settingsRepository
	cache  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewSettingsService wires settings dependencies.
func NewSettingsService(repo settingsRepository, cache *redis.Client, ttl time.Duration, logger *zap.Logger) *SettingsService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

// List returns every known setting, merging persisted values over defaults.
func (s *SettingsService) List(ctx context.Context) ([]dto.SettingView, error) {
	stored, err := s.repo.List(ctx, "scheduling.")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load settings")
	}
	byKey := make(map[string]models.SystemSetting, len(stored))
	for _, setting := range stored {
		byKey[setting.Key] = setting
	}

	views := make([]dto.SettingView, 0, len(knownSettings))
	for key, spec := range knownSettings {
		view := dto.SettingView{Key: key, Value: spec.Default, Type: string(spec.Type), Description: spec.Description}
		if setting, ok := byKey[key]; ok {
			view.Value = setting.Value
		}
		views = append(views, view)
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Key < views[j].Key })
	return views, nil
}

// Update validates and persists one setting value, then drops its cache entry.
func (s *SettingsService) Update(ctx context.Context, key, value, updatedBy string) (*dto.SettingView, error) {
	spec, ok := knownSettings[key]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "unknown setting key")
	}
	if err := validateSettingValue(spec.Type, value); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	setting := &models.SystemSetting{Key: key, Value: value, Type: spec.Type}
	if spec.Description != "" {
		desc := spec.Description
		setting.Description = &desc
	}
	if updatedBy != "" {
		setting.UpdatedBy = &updatedBy
	}
	if err := s.repo.Upsert(ctx, setting); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save setting")
	}
	s.invalidate(ctx, key)

	return &dto.SettingView{Key: key, Value: value, Type: string(spec.Type), Description: spec.Description}, nil
}

// GetBool resolves a boolean setting, falling back to its declared default.
func (s *SettingsService) GetBool(ctx context.Context, key string) bool {
	value := s.resolve(ctx, key)
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false
	}
	return parsed
}

// GetInt resolves an integer setting, falling back to its declared default.
func (s *SettingsService) GetInt(ctx context.Context, key string) int {
	value := s.resolve(ctx, key)
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return parsed
}

func (s *SettingsService) resolve(ctx context.Context, key string) string {
	cacheKey := "settings:" + key
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			return cached
		}
	}

	value := ""
	if spec, ok := knownSettings[key]; ok {
		value = spec.Default
	}
	setting, err := s.repo.Get(ctx, key)
	switch {
	case err == nil:
		value = setting.Value
	case errors.Is(err, sql.ErrNoRows):
		// unset, keep the default
	default:
		s.logger.Warn("settings lookup failed, using default", zap.String("key", key), zap.Error(err))
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, value, s.ttl).Err(); err != nil {
			s.logger.Warn("settings cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return value
}

func (s *SettingsService) invalidate(ctx context.Context, key string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, "settings:"+key).Err(); err != nil {
		s.logger.Warn("settings cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
}

func validateSettingValue(settingType models.SettingType, value string) error {
	switch settingType {
	case models.SettingTypeBoolean:
		if _, err := strconv.ParseBool(value); err != nil {
			return errors.New("value must be a boolean")
		}
	case models.SettingTypeInteger:
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed < 0 {
			return errors.New("value must be a non-negative integer")
		}
	}
	return nil
}
