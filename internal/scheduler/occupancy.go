package scheduler

// Interval is one booked [Start, End) window. Section matrices also record
// the originating course so the daily unique-course cap can be enforced
// without conflating multi-slot courses with distinct ones.
type Interval struct {
	Start    int
	End      int
	CourseID string
}

// Matrix tracks occupied intervals per entity per weekday. Entities are
// pre-populated at construction so lookups never miss; intervals are kept
// in insertion order and never coalesced, which is sufficient for the
// overlap-only queries the placer performs.
type Matrix struct {
	slots map[string][NumDays][]Interval
}

// NewMatrix builds an empty matrix for the given entity ids.
func NewMatrix(entityIDs []string) *Matrix {
	m := &Matrix{slots: make(map[string][NumDays][]Interval, len(entityIDs))}
	for _, id := range entityIDs {
		m.slots[id] = [NumDays][]Interval{}
	}
	return m
}

// IsFree reports whether [start, end) collides with no stored interval for
// the entity on the given day. Unknown entities are considered free.
func (m *Matrix) IsFree(entityID string, day, start, end int) bool {
	if day < 0 || day >= NumDays {
		return false
	}
	days, ok := m.slots[entityID]
	if !ok {
		return true
	}
	for _, iv := range days[day] {
		if RangesOverlap(start, end, iv.Start, iv.End) {
			return false
		}
	}
	return true
}

// Occupy appends a booked interval for the entity on the given day.
func (m *Matrix) Occupy(entityID string, day, start, end int, courseID string) {
	if day < 0 || day >= NumDays {
		return
	}
	days := m.slots[entityID]
	days[day] = append(days[day], Interval{Start: start, End: end, CourseID: courseID})
	m.slots[entityID] = days
}

// UniqueCourses counts distinct course ids booked for the entity on a day.
func (m *Matrix) UniqueCourses(entityID string, day int) int {
	if day < 0 || day >= NumDays {
		return 0
	}
	days, ok := m.slots[entityID]
	if !ok {
		return 0
	}
	seen := make(map[string]struct{})
	for _, iv := range days[day] {
		if iv.CourseID != "" {
			seen[iv.CourseID] = struct{}{}
		}
	}
	return len(seen)
}
