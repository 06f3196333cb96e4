package models

import "time"

// SettingType defines supported types for system setting values.
type SettingType string

const (
	SettingTypeString  SettingType = "STRING"
	SettingTypeBoolean SettingType = "BOOLEAN"
	SettingTypeInteger SettingType = "INTEGER"
)

// System setting keys consumed by the scheduling core.
const (
	SettingConflictDetectionEnabled = "scheduling.conflict_detection_enabled"
	SettingAllowOverlappingClasses  = "scheduling.allow_overlapping_classes"
	SettingMaxSubjectsPerDay        = "scheduling.max_subjects_per_day"
)

// SystemSetting represents a persisted setting entry.
type SystemSetting struct {
	Key         string      `db:"key" json:"key"`
	Value       string      `db:"value" json:"value"`
	Type        SettingType `db:"type" json:"type"`
	Description *string     `db:"description" json:"description,omitempty"`
	UpdatedBy   *string     `db:"updated_by" json:"updated_by,omitempty"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}
