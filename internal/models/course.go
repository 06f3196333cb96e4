package models

import (
	"fmt"
	"time"

	"github.com/lib/pq"
)

// CourseType categorizes how a course is taught.
type CourseType string

const (
	CourseTypeLecture CourseType = "lecture"
	CourseTypeLab     CourseType = "lab"
	CourseTypeSeminar CourseType = "seminar"
)

// Course represents a catalog course that needs a weekly timetable slot.
type Course struct {
	ID                  string         `db:"id" json:"id"`
	Code                string         `db:"code" json:"code"`
	Name                string         `db:"name" json:"name"`
	Department          string         `db:"department" json:"department"`
	Credits             int            `db:"credits" json:"credits"`
	Type                CourseType     `db:"type" json:"type"`
	Duration            int            `db:"duration" json:"duration"`
	YearLevel           int            `db:"year_level" json:"year_level"`
	Section             string         `db:"section" json:"section"`
	Semester            string         `db:"semester" json:"semester"`
	RequiredCapacity    int            `db:"required_capacity" json:"required_capacity"`
	StudentsEnrolled    int            `db:"students_enrolled" json:"students_enrolled"`
	SpecialRequirements pq.StringArray `db:"special_requirements" json:"special_requirements"`
	InstructorID        *string        `db:"instructor_id" json:"instructor_id,omitempty"`
	Active              bool           `db:"active" json:"active"`
	CreatedAt           time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at" json:"updated_at"`
}

// SectionKey derives the student-group identity the daily cap applies to.
func (c Course) SectionKey() string {
	return SectionKey(c.YearLevel, c.Section)
}

// SectionKey builds a year-level + section grouping key, e.g. "2A".
func SectionKey(yearLevel int, section string) string {
	return fmt.Sprintf("%d%s", yearLevel, section)
}

// CourseFilter captures supported filters for listing courses.
type CourseFilter struct {
	Department string
	Semester   string
	YearLevel  int
	Section    string
	Type       CourseType
	Search     string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
