package models

import "time"

// ScheduleStatus marks whether a placement is clean or carries known conflicts.
type ScheduleStatus string

const (
	ScheduleStatusScheduled ScheduleStatus = "scheduled"
	ScheduleStatusConflict  ScheduleStatus = "conflict"
)

// Schedule is one persisted weekly placement of a course.
type Schedule struct {
	ID             string         `db:"id" json:"id"`
	CourseID       string         `db:"course_id" json:"course_id"`
	InstructorID   string         `db:"instructor_id" json:"instructor_id"`
	RoomID         string         `db:"room_id" json:"room_id"`
	DayOfWeek      string         `db:"day_of_week" json:"day_of_week"`
	ScheduleDate   *time.Time     `db:"schedule_date" json:"schedule_date,omitempty"`
	StartTime      string         `db:"start_time" json:"start_time"`
	EndTime        string         `db:"end_time" json:"end_time"`
	Duration       int            `db:"duration" json:"duration"`
	Semester       string         `db:"semester" json:"semester"`
	Year           int            `db:"year" json:"year"`
	AcademicYear   string         `db:"academic_year" json:"academic_year"`
	Status         ScheduleStatus `db:"status" json:"status"`
	CourseCode     string         `db:"course_code" json:"course_code"`
	CourseName     string         `db:"course_name" json:"course_name"`
	RoomName       string         `db:"room_name" json:"room_name"`
	InstructorName string         `db:"instructor_name" json:"instructor_name"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// ScheduleFilter describes query params for listing schedules.
type ScheduleFilter struct {
	Semester     string
	Year         int
	AcademicYear string
	CourseID     string
	InstructorID string
	RoomID       string
	DayOfWeek    string
	Status       ScheduleStatus
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}
