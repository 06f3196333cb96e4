package scheduler

import (
	"time"

	"github.com/campusflow/timetable-api/internal/models"
)

// Slot is one successful (day, time, room, instructor) assignment candidate.
type Slot struct {
	Day        int
	Start      int
	End        int
	Room       models.Room
	Instructor Instructor
	Date       *time.Time
}

// placer walks the working-hours grid for a single course on a single day.
// It owns no state beyond references to the run's occupancy matrices.
type placer struct {
	workStart     int
	workEnd       int
	granularity   int
	semesterStart *time.Time
	semesterEnd   *time.Time

	rooms       *Matrix
	instructors *Matrix
	sections    *Matrix
}

// findSlot scans one day's grid for the first time/room pair where the
// instructor, the section and a candidate room are simultaneously free.
// Candidate rooms are tried best-fit first with linear fallback.
func (p *placer) findSlot(course models.Course, day int, candidates []models.Room, instructor Instructor) (Slot, bool) {
	if !WeekdayInRange(day, p.semesterStart, p.semesterEnd) {
		return Slot{}, false
	}

	lunchStart, lunchEnd := LunchWindow(day)
	sectionKey := course.SectionKey()

	for start := p.workStart; start+course.Duration <= p.workEnd; start += p.granularity {
		end := start + course.Duration
		if RangesOverlap(start, end, lunchStart, lunchEnd) {
			continue
		}
		if !p.instructors.IsFree(instructor.ID, day, start, end) {
			continue
		}
		if !instructor.CanTeach(day, start, end) {
			continue
		}
		if !p.sections.IsFree(sectionKey, day, start, end) {
			continue
		}
		for _, room := range candidates {
			if !p.rooms.IsFree(room.ID, day, start, end) {
				continue
			}
			return Slot{
				Day:        day,
				Start:      start,
				End:        end,
				Room:       room,
				Instructor: instructor,
				Date:       FirstOccurrence(day, p.semesterStart),
			}, true
		}
	}
	return Slot{}, false
}

// commit books the slot into all three matrices.
func (p *placer) commit(course models.Course, slot Slot) {
	p.rooms.Occupy(slot.Room.ID, slot.Day, slot.Start, slot.End, course.ID)
	p.instructors.Occupy(slot.Instructor.ID, slot.Day, slot.Start, slot.End, course.ID)
	p.sections.Occupy(course.SectionKey(), slot.Day, slot.Start, slot.End, course.ID)
}
