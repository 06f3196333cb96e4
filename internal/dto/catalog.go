package dto

// CreateCourseRequest registers a course offering for a section.
type CreateCourseRequest struct {
	Code                string   `json:"code" validate:"required"`
	Name                string   `json:"name" validate:"required"`
	Department          string   `json:"department"`
	Credits             int      `json:"credits" validate:"min=0"`
	CourseType          string   `json:"courseType" validate:"required,oneof=lecture lab seminar"`
	Duration            int      `json:"duration" validate:"required,min=30,max=480"`
	YearLevel           int      `json:"yearLevel" validate:"required,min=1,max=6"`
	Section             string   `json:"section" validate:"required"`
	Semester            string   `json:"semester"`
	StudentsEnrolled    int      `json:"studentsEnrolled" validate:"min=0"`
	RequiredCapacity    int      `json:"requiredCapacity" validate:"min=0"`
	SpecialRequirements []string `json:"specialRequirements"`
	InstructorID        *string  `json:"instructorId"`
}

// UpdateCourseRequest patches a course. Nil fields are left untouched.
type UpdateCourseRequest struct {
	Name                *string  `json:"name"`
	Department          *string  `json:"department"`
	Credits             *int     `json:"credits" validate:"omitempty,min=0"`
	CourseType          *string  `json:"courseType" validate:"omitempty,oneof=lecture lab seminar"`
	Duration            *int     `json:"duration" validate:"omitempty,min=30,max=480"`
	StudentsEnrolled    *int     `json:"studentsEnrolled" validate:"omitempty,min=0"`
	RequiredCapacity    *int     `json:"requiredCapacity" validate:"omitempty,min=0"`
	SpecialRequirements []string `json:"specialRequirements"`
	InstructorID        *string  `json:"instructorId"`
}

// CreateRoomRequest registers a room.
type CreateRoomRequest struct {
	Name      string   `json:"name" validate:"required"`
	RoomType  string   `json:"roomType" validate:"required,oneof=classroom laboratory computer_lab auditorium"`
	Capacity  int      `json:"capacity" validate:"required,min=1"`
	Equipment []string `json:"equipment"`
	Available *bool    `json:"available"`
}

// UpdateRoomRequest patches a room.
type UpdateRoomRequest struct {
	Name      *string  `json:"name"`
	RoomType  *string  `json:"roomType" validate:"omitempty,oneof=classroom laboratory computer_lab auditorium"`
	Capacity  *int     `json:"capacity" validate:"omitempty,min=1"`
	Equipment []string `json:"equipment"`
	Available *bool    `json:"available"`
}

// AvailabilityWindowInput is one daily teaching window, "HH:MM" bounds.
type AvailabilityWindowInput struct {
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
}

// CreateInstructorRequest registers an instructor. Availability is keyed by
// weekday name; a missing day means the instructor is unconstrained that day.
type CreateInstructorRequest struct {
	Name            string                               `json:"name" validate:"required"`
	Email           string                               `json:"email" validate:"required,email"`
	Department      string                               `json:"department"`
	MaxHoursPerWeek int                                  `json:"maxHoursPerWeek" validate:"min=0"`
	Availability    map[string][]AvailabilityWindowInput `json:"availability"`
}

// UpdateInstructorRequest patches an instructor.
type UpdateInstructorRequest struct {
	Name            *string                              `json:"name"`
	Email           *string                              `json:"email" validate:"omitempty,email"`
	Department      *string                              `json:"department"`
	MaxHoursPerWeek *int                                 `json:"maxHoursPerWeek" validate:"omitempty,min=0"`
	Availability    map[string][]AvailabilityWindowInput `json:"availability"`
}
