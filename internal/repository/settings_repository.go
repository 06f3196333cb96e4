package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/campusflow/timetable-api/internal/models"
)

// SettingsRepository manages persistence for system settings.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository constructs a SettingsRepository.
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get fetches a single setting by key. Returns sql.ErrNoRows when unset.
func (r *SettingsRepository) Get(ctx context.Context, key string) (*models.SystemSetting, error) {
	const query = `SELECT key, value, type, description, updated_by, updated_at FROM system_settings WHERE key = $1`
	var setting models.SystemSetting
	if err := r.db.GetContext(ctx, &setting, query, key); err != nil {
		return nil, err
	}
	return &setting, nil
}

// List fetches every setting, optionally restricted to a key prefix.
func (r *SettingsRepository) List(ctx context.Context, prefix string) ([]models.SystemSetting, error) {
	query := "SELECT key, value, type, description, updated_by, updated_at FROM system_settings"
	var args []interface{}
	if strings.TrimSpace(prefix) != "" {
		query += " WHERE key LIKE $1"
		args = append(args, prefix+"%")
	}
	query += " ORDER BY key ASC"

	var settings []models.SystemSetting
	if err := r.db.SelectContext(ctx, &settings, query, args...); err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	return settings, nil
}

// Upsert writes a setting, inserting or overwriting by key.
func (r *SettingsRepository) Upsert(ctx context.Context, setting *models.SystemSetting) error {
	setting.UpdatedAt = time.Now().UTC()
	const query = `INSERT INTO system_settings (key, value, type, description, updated_by, updated_at)
		VALUES (:key, :value, :type, :description, :updated_by, :updated_at)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, type = EXCLUDED.type, description = EXCLUDED.description, updated_by = EXCLUDED.updated_by, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, setting); err != nil {
		return fmt.Errorf("upsert setting %s: %w", setting.Key, err)
	}
	return nil
}
