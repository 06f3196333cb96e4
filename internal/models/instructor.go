package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// AvailabilityWindow is one declared teaching window within a day.
type AvailabilityWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Availability maps upper-case weekday names to declared windows. A weekday
// absent from the map means the instructor is unconstrained on that day.
type Availability map[string][]AvailabilityWindow

// Instructor represents a member of the teaching staff.
type Instructor struct {
	ID              string         `db:"id" json:"id"`
	FullName        string         `db:"full_name" json:"full_name"`
	Email           string         `db:"email" json:"email"`
	Department      string         `db:"department" json:"department"`
	MaxHoursPerWeek int            `db:"max_hours_per_week" json:"max_hours_per_week"`
	Availability    types.JSONText `db:"availability" json:"availability,omitempty"`
	Active          bool           `db:"active" json:"active"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

// InstructorFilter captures supported filters for listing instructors.
type InstructorFilter struct {
	Department string
	Active     *bool
	Search     string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
