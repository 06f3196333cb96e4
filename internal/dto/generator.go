package dto

import "github.com/campusflow/timetable-api/internal/models"

// GenerateTimetableRequest instructs the generator to build a semester timetable.
type GenerateTimetableRequest struct {
	Semester          string `json:"semester" validate:"required"`
	Year              int    `json:"year" validate:"required,min=2000,max=2100"`
	AcademicYear      string `json:"academicYear" validate:"required"`
	StartTime         string `json:"startTime" validate:"required"`
	EndTime           string `json:"endTime" validate:"required"`
	Save              bool   `json:"save"`
	SemesterStartDate string `json:"semesterStartDate" validate:"omitempty,datetime=2006-01-02"`
	SemesterEndDate   string `json:"semesterEndDate" validate:"omitempty,datetime=2006-01-02"`
}

// UnscheduledCourse reports a course the generator could not place.
type UnscheduledCourse struct {
	CourseID   string `json:"courseId"`
	CourseCode string `json:"courseCode"`
	Course     string `json:"course"`
	YearLevel  int    `json:"yearLevel"`
	Section    string `json:"section"`
	Reason     string `json:"reason"`
}

// GenerationStats summarises one generation run.
type GenerationStats struct {
	TotalCourses      int            `json:"totalCourses"`
	ScheduledCourses  int            `json:"scheduledCourses"`
	ConflictCount     int            `json:"conflictCount"`
	ByYearLevel       map[string]int `json:"byYearLevel"`
	BySection         map[string]int `json:"bySection"`
	SemesterWeeks     int            `json:"semesterWeeks"`
	MaxSubjectsPerDay int            `json:"maxSubjectsPerDay"`
}

// GenerateTimetableResponse returns the built timetable.
type GenerateTimetableResponse struct {
	Placements []models.Schedule   `json:"placements"`
	Conflicts  []UnscheduledCourse `json:"conflicts"`
	Stats      GenerationStats     `json:"stats"`
	Saved      bool                `json:"saved"`
}
