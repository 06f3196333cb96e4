package scheduler

import (
	"sort"

	"github.com/campusflow/timetable-api/internal/models"
)

// MatchingPolicy controls how an instructor is chosen for a course.
type MatchingPolicy int

const (
	// PreferAssigned requires the course's assigned instructor to be
	// present in the pool; placement fails otherwise.
	PreferAssigned MatchingPolicy = iota
	// AnyAvailable falls back to the first instructor in the pool when no
	// assignment matches.
	AnyAvailable
)

// Window is a declared availability interval in minutes since midnight.
type Window struct {
	Start int
	End   int
}

// Availability maps day index to declared windows. A day absent from the
// map means the instructor is treated as available for the whole working
// window on that day.
type Availability map[int][]Window

// Instructor is the placement view of a staff member.
type Instructor struct {
	ID              string
	Name            string
	MaxHoursPerWeek int
	Availability    Availability
}

// CanTeach reports whether [start, end) fits the instructor's declared
// windows for the day. With no declaration for the day the answer is yes.
func (i Instructor) CanTeach(day, start, end int) bool {
	windows, declared := i.Availability[day]
	if !declared || len(windows) == 0 {
		return true
	}
	for _, w := range windows {
		if start >= w.Start && end <= w.End {
			return true
		}
	}
	return false
}

// SelectInstructor picks an instructor for the course under the policy.
func SelectInstructor(course models.Course, pool []Instructor, policy MatchingPolicy) (Instructor, bool) {
	if course.InstructorID != nil && *course.InstructorID != "" {
		for _, candidate := range pool {
			if candidate.ID == *course.InstructorID {
				return candidate, true
			}
		}
		if policy == PreferAssigned {
			return Instructor{}, false
		}
	}
	if policy == PreferAssigned {
		return Instructor{}, false
	}
	if len(pool) == 0 {
		return Instructor{}, false
	}
	return pool[0], true
}

// CandidateRooms filters and orders rooms for a course: auditoriums and
// unavailable rooms are excluded, capacity must cover the larger of the
// course's required capacity and enrollment, lab courses need lab-class
// rooms, and the room must carry every required equipment tag. The result
// is best-fit sorted (capacity ascending), preferring computer labs on
// capacity ties when the course is a lab.
func CandidateRooms(course models.Course, rooms []models.Room) []models.Room {
	needed := course.RequiredCapacity
	if course.StudentsEnrolled > needed {
		needed = course.StudentsEnrolled
	}

	candidates := make([]models.Room, 0, len(rooms))
	for _, room := range rooms {
		if !room.Available || room.Type == models.RoomTypeAuditorium {
			continue
		}
		if room.Capacity < needed {
			continue
		}
		if course.Type == models.CourseTypeLab &&
			room.Type != models.RoomTypeComputerLab && room.Type != models.RoomTypeLaboratory {
			continue
		}
		if !room.HasEquipment(course.SpecialRequirements) {
			continue
		}
		candidates = append(candidates, room)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Capacity != candidates[j].Capacity {
			return candidates[i].Capacity < candidates[j].Capacity
		}
		if course.Type == models.CourseTypeLab {
			return candidates[i].Type == models.RoomTypeComputerLab && candidates[j].Type != models.RoomTypeComputerLab
		}
		return false
	})
	return candidates
}
