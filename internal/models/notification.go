package models

import "time"

// NotificationKind labels feed entries by origin.
type NotificationKind string

const (
	NotificationTimetablePublished NotificationKind = "TIMETABLE_PUBLISHED"
	NotificationScheduleConflict   NotificationKind = "SCHEDULE_CONFLICT"
)

// Notification is one entry in the institution-wide feed.
type Notification struct {
	ID        string           `db:"id" json:"id"`
	Kind      NotificationKind `db:"kind" json:"kind"`
	Title     string           `db:"title" json:"title"`
	Body      string           `db:"body" json:"body"`
	Audience  string           `db:"audience" json:"audience"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}
