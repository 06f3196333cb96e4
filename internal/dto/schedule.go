package dto

// CreateScheduleRequest adds a single timetable entry by hand.
type CreateScheduleRequest struct {
	CourseID     string `json:"courseId" validate:"required"`
	InstructorID string `json:"instructorId" validate:"required"`
	RoomID       string `json:"roomId" validate:"required"`
	DayOfWeek    string `json:"dayOfWeek" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday"`
	ScheduleDate string `json:"scheduleDate" validate:"omitempty,datetime=2006-01-02"`
	StartTime    string `json:"startTime" validate:"required"`
	EndTime      string `json:"endTime" validate:"required"`
	Semester     string `json:"semester" validate:"required"`
	Year         int    `json:"year" validate:"required,min=2000,max=2100"`
	AcademicYear string `json:"academicYear" validate:"required"`
}

// UpdateScheduleRequest moves or reassigns an existing entry. Zero-valued
// fields are left untouched.
type UpdateScheduleRequest struct {
	InstructorID *string `json:"instructorId"`
	RoomID       *string `json:"roomId"`
	DayOfWeek    *string `json:"dayOfWeek" validate:"omitempty,oneof=Monday Tuesday Wednesday Thursday Friday Saturday"`
	ScheduleDate *string `json:"scheduleDate" validate:"omitempty,datetime=2006-01-02"`
	StartTime    *string `json:"startTime"`
	EndTime      *string `json:"endTime"`
	Status       *string `json:"status" validate:"omitempty,oneof=scheduled conflict"`
}

// CheckScheduleRequest probes a prospective entry for conflicts without
// persisting anything. ExcludeID lets an edit ignore its own row.
type CheckScheduleRequest struct {
	CourseID     string `json:"courseId" validate:"required"`
	InstructorID string `json:"instructorId" validate:"required"`
	RoomID       string `json:"roomId" validate:"required"`
	DayOfWeek    string `json:"dayOfWeek" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday"`
	StartTime    string `json:"startTime" validate:"required"`
	EndTime      string `json:"endTime" validate:"required"`
	Semester     string `json:"semester" validate:"required"`
	Year         int    `json:"year" validate:"required,min=2000,max=2100"`
	ExcludeID    string `json:"excludeId"`
}

// CheckScheduleResponse lists every conflict found, one message per clash.
type CheckScheduleResponse struct {
	HasConflicts bool     `json:"hasConflicts"`
	Conflicts    []string `json:"conflicts"`
}
