package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusflow/timetable-api/internal/models"
)

// ScheduleRepository manages persistence for timetable entries.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs a ScheduleRepository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

const scheduleColumns = "id, course_id, instructor_id, room_id, day_of_week, schedule_date, start_time, end_time, duration, semester, year, academic_year, status, course_code, course_name, room_name, instructor_name, created_at, updated_at"

// List returns schedules matching filters along with total count.
func (r *ScheduleRepository) List(ctx context.Context, filter models.ScheduleFilter) ([]models.Schedule, int, error) {
	base := "FROM schedules WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Semester != "" {
		conditions = append(conditions, fmt.Sprintf("semester = $%d", len(args)+1))
		args = append(args, filter.Semester)
	}
	if filter.Year > 0 {
		conditions = append(conditions, fmt.Sprintf("year = $%d", len(args)+1))
		args = append(args, filter.Year)
	}
	if filter.AcademicYear != "" {
		conditions = append(conditions, fmt.Sprintf("academic_year = $%d", len(args)+1))
		args = append(args, filter.AcademicYear)
	}
	if filter.CourseID != "" {
		conditions = append(conditions, fmt.Sprintf("course_id = $%d", len(args)+1))
		args = append(args, filter.CourseID)
	}
	if filter.InstructorID != "" {
		conditions = append(conditions, fmt.Sprintf("instructor_id = $%d", len(args)+1))
		args = append(args, filter.InstructorID)
	}
	if filter.RoomID != "" {
		conditions = append(conditions, fmt.Sprintf("room_id = $%d", len(args)+1))
		args = append(args, filter.RoomID)
	}
	if filter.DayOfWeek != "" {
		conditions = append(conditions, fmt.Sprintf("day_of_week = $%d", len(args)+1))
		args = append(args, filter.DayOfWeek)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "day_of_week"
	}
	allowedSorts := map[string]string{
		"day_of_week": "day_of_week",
		"start_time":  "start_time",
		"course_code": "course_code",
		"room_name":   "room_name",
		"created_at":  "created_at",
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "day_of_week"
	}

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s, start_time ASC LIMIT %d OFFSET %d", scheduleColumns, base, column, order, size, offset)
	var schedules []models.Schedule
	if err := r.db.SelectContext(ctx, &schedules, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list schedules: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count schedules: %w", err)
	}

	return schedules, total, nil
}

// ListBySemester fetches every entry of a term. The conflict checker walks
// this set in full, so there is no pagination here.
func (r *ScheduleRepository) ListBySemester(ctx context.Context, semester string, year int) ([]models.Schedule, error) {
	query := fmt.Sprintf("SELECT %s FROM schedules WHERE semester = $1 AND year = $2 ORDER BY day_of_week ASC, start_time ASC", scheduleColumns)
	var schedules []models.Schedule
	if err := r.db.SelectContext(ctx, &schedules, query, semester, year); err != nil {
		return nil, fmt.Errorf("list schedules by semester: %w", err)
	}
	return schedules, nil
}

// FindByID fetches a schedule entry by ID.
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*models.Schedule, error) {
	query := fmt.Sprintf("SELECT %s FROM schedules WHERE id = $1", scheduleColumns)
	var schedule models.Schedule
	if err := r.db.GetContext(ctx, &schedule, query, id); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// Create inserts a new schedule entry.
func (r *ScheduleRepository) Create(ctx context.Context, schedule *models.Schedule) error {
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if schedule.CreatedAt.IsZero() {
		schedule.CreatedAt = now
	}
	schedule.UpdatedAt = now

	if _, err := r.db.NamedExecContext(ctx, insertScheduleQuery, schedule); err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}
	return nil
}

const insertScheduleQuery = `INSERT INTO schedules (id, course_id, instructor_id, room_id, day_of_week, schedule_date, start_time, end_time, duration, semester, year, academic_year, status, course_code, course_name, room_name, instructor_name, created_at, updated_at)
	VALUES (:id, :course_id, :instructor_id, :room_id, :day_of_week, :schedule_date, :start_time, :end_time, :duration, :semester, :year, :academic_year, :status, :course_code, :course_name, :room_name, :instructor_name, :created_at, :updated_at)`

// Update modifies an existing schedule entry.
func (r *ScheduleRepository) Update(ctx context.Context, schedule *models.Schedule) error {
	schedule.UpdatedAt = time.Now().UTC()
	const query = `UPDATE schedules SET instructor_id = :instructor_id, room_id = :room_id, day_of_week = :day_of_week, schedule_date = :schedule_date, start_time = :start_time, end_time = :end_time, duration = :duration, status = :status, room_name = :room_name, instructor_name = :instructor_name, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, schedule); err != nil {
		return fmt.Errorf("update schedule: %w", err)
	}
	return nil
}

// Delete removes a schedule entry.
func (r *ScheduleRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	return nil
}

// ReplaceForSemester atomically swaps a term's timetable for a freshly
// generated one. Either the whole new set lands or nothing changes.
func (r *ScheduleRepository) ReplaceForSemester(ctx context.Context, semester string, year int, schedules []models.Schedule) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace schedules: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM schedules WHERE semester = $1 AND year = $2`, semester, year); err != nil {
		return fmt.Errorf("clear schedules: %w", err)
	}

	now := time.Now().UTC()
	for i := range schedules {
		s := &schedules[i]
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		if s.CreatedAt.IsZero() {
			s.CreatedAt = now
		}
		s.UpdatedAt = now
		if _, err := tx.NamedExecContext(ctx, insertScheduleQuery, s); err != nil {
			return fmt.Errorf("insert schedule %s: %w", s.CourseCode, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace schedules: %w", err)
	}
	return nil
}
