package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campusflow/timetable-api/internal/dto"
	"github.com/campusflow/timetable-api/internal/models"
	"github.com/campusflow/timetable-api/internal/scheduler"
	appErrors "github.com/campusflow/timetable-api/pkg/errors"
)

type scheduleRepository interface {
	List(ctx context.Context, filter models.ScheduleFilter) ([]models.Schedule, int, error)
	ListBySemester(ctx context.Context, semester string, year int) ([]models.Schedule, error)
	FindByID(ctx context.Context, id string) (*models.Schedule, error)
	Create(ctx context.Context, schedule *models.Schedule) error
	Update(ctx context.Context, schedule *models.Schedule) error
	Delete(ctx context.Context, id string) error
}

type scheduleCourseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type scheduleRoomReader interface {
	FindByID(ctx context.Context, id string) (*models.Room, error)
}

type scheduleInstructorReader interface {
	FindByID(ctx context.Context, id string) (*models.Instructor, error)
}

type conflictNotifier interface {
	ScheduleConflict(courseCode string, conflicts []string) error
}

// ScheduleService manages persisted timetable entries and detects clashes
// between them.
type ScheduleService struct {
	repo        scheduleRepository
	courses     scheduleCourseReader
	rooms       scheduleRoomReader
	instructors scheduleInstructorReader
	settings    settingsResolver
	notifier    conflictNotifier
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewScheduleService wires schedule dependencies.
func NewScheduleService(
	repo scheduleRepository,
	courses scheduleCourseReader,
	rooms scheduleRoomReader,
	instructors scheduleInstructorReader,
	settings settingsResolver,
	notifier conflictNotifier,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		repo:        repo,
		courses:     courses,
		rooms:       rooms,
		instructors: instructors,
		settings:    settings,
		notifier:    notifier,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
	}
}

// List returns schedules matching the filter with pagination metadata.
func (s *ScheduleService) List(ctx context.Context, filter models.ScheduleFilter) ([]models.Schedule, *models.Pagination, error) {
	schedules, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedules")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	return schedules, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get fetches one schedule entry.
func (s *ScheduleService) Get(ctx context.Context, id string) (*models.Schedule, error) {
	schedule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	return schedule, nil
}

// Create adds a manual timetable entry. Conflicting entries are persisted
// with status "conflict" so operators can see and resolve them.
func (s *ScheduleService) Create(ctx context.Context, req dto.CreateScheduleRequest) (*models.Schedule, []string, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	duration, err := timesToDuration(req.StartTime, req.EndTime)
	if err != nil {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		return nil, nil, notFoundOrInternal(err, "course not found", "failed to load course")
	}
	room, err := s.rooms.FindByID(ctx, req.RoomID)
	if err != nil {
		return nil, nil, notFoundOrInternal(err, "room not found", "failed to load room")
	}
	instructor, err := s.instructors.FindByID(ctx, req.InstructorID)
	if err != nil {
		return nil, nil, notFoundOrInternal(err, "instructor not found", "failed to load instructor")
	}

	schedule := &models.Schedule{
		CourseID:       req.CourseID,
		InstructorID:   req.InstructorID,
		RoomID:         req.RoomID,
		DayOfWeek:      req.DayOfWeek,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Duration:       duration,
		Semester:       req.Semester,
		Year:           req.Year,
		AcademicYear:   req.AcademicYear,
		Status:         models.ScheduleStatusScheduled,
		CourseCode:     course.Code,
		CourseName:     course.Name,
		RoomName:       room.Name,
		InstructorName: instructor.FullName,
	}
	if req.ScheduleDate != "" {
		date, derr := parseOptionalDate(req.ScheduleDate)
		if derr != nil {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "scheduleDate must be YYYY-MM-DD")
		}
		schedule.ScheduleDate = date
	}

	conflicts, err := s.findConflicts(ctx, schedule, "")
	if err != nil {
		return nil, nil, err
	}
	if len(conflicts) > 0 {
		schedule.Status = models.ScheduleStatusConflict
		if s.notifier != nil {
			if nerr := s.notifier.ScheduleConflict(schedule.CourseCode, conflicts); nerr != nil {
				s.logger.Warn("conflict notification enqueue failed", zap.Error(nerr))
			}
		}
	}

	if err := s.repo.Create(ctx, schedule); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule")
	}
	return schedule, conflicts, nil
}

// Update moves or reassigns an entry. Unlike Create, an update that would
// introduce conflicts is rejected outright.
func (s *ScheduleService) Update(ctx context.Context, id string, req dto.UpdateScheduleRequest) (*models.Schedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	schedule, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.InstructorID != nil {
		instructor, ierr := s.instructors.FindByID(ctx, *req.InstructorID)
		if ierr != nil {
			return nil, notFoundOrInternal(ierr, "instructor not found", "failed to load instructor")
		}
		schedule.InstructorID = instructor.ID
		schedule.InstructorName = instructor.FullName
	}
	if req.RoomID != nil {
		room, rerr := s.rooms.FindByID(ctx, *req.RoomID)
		if rerr != nil {
			return nil, notFoundOrInternal(rerr, "room not found", "failed to load room")
		}
		schedule.RoomID = room.ID
		schedule.RoomName = room.Name
	}
	if req.DayOfWeek != nil {
		schedule.DayOfWeek = *req.DayOfWeek
	}
	if req.StartTime != nil {
		schedule.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		schedule.EndTime = *req.EndTime
	}
	if req.ScheduleDate != nil {
		date, derr := parseOptionalDate(*req.ScheduleDate)
		if derr != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "scheduleDate must be YYYY-MM-DD")
		}
		schedule.ScheduleDate = date
	}
	duration, err := timesToDuration(schedule.StartTime, schedule.EndTime)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	schedule.Duration = duration

	conflicts, err := s.findConflicts(ctx, schedule, schedule.ID)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, appErrors.Clone(appErrors.ErrConflict, conflicts[0])
	}

	schedule.Status = models.ScheduleStatusScheduled
	if req.Status != nil {
		schedule.Status = models.ScheduleStatus(*req.Status)
	}
	if err := s.repo.Update(ctx, schedule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update schedule")
	}
	return schedule, nil
}

// Delete removes a schedule entry.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule")
	}
	return nil
}

// Check probes a prospective entry for conflicts without persisting it.
func (s *ScheduleService) Check(ctx context.Context, req dto.CheckScheduleRequest) (*dto.CheckScheduleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid check payload")
	}
	candidate := &models.Schedule{
		CourseID:     req.CourseID,
		InstructorID: req.InstructorID,
		RoomID:       req.RoomID,
		DayOfWeek:    req.DayOfWeek,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Semester:     req.Semester,
		Year:         req.Year,
	}
	if _, err := timesToDuration(req.StartTime, req.EndTime); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	conflicts, err := s.findConflicts(ctx, candidate, req.ExcludeID)
	if err != nil {
		return nil, err
	}
	return &dto.CheckScheduleResponse{HasConflicts: len(conflicts) > 0, Conflicts: conflicts}, nil
}

// findConflicts walks the candidate's whole term and reports every clash as
// a human-readable message. Detection honours two runtime settings: the
// master conflict_detection_enabled switch, and allow_overlapping_classes
// which waives instructor double-booking only.
func (s *ScheduleService) findConflicts(ctx context.Context, candidate *models.Schedule, excludeID string) ([]string, error) {
	if s.settings != nil && !s.settings.GetBool(ctx, models.SettingConflictDetectionEnabled) {
		return nil, nil
	}

	candidateStart, err := scheduler.ToMinutes(candidate.StartTime)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "startTime must be HH:MM")
	}
	candidateEnd, err := scheduler.ToMinutes(candidate.EndTime)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "endTime must be HH:MM")
	}

	existing, err := s.repo.ListBySemester(ctx, candidate.Semester, candidate.Year)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load term schedules")
	}

	allowInstructorOverlap := s.settings != nil && s.settings.GetBool(ctx, models.SettingAllowOverlappingClasses)

	var conflicts []string
	for _, other := range existing {
		if excludeID != "" && other.ID == excludeID {
			continue
		}

		window := fmt.Sprintf("%s %s-%s", other.DayOfWeek, other.StartTime, other.EndTime)

		if other.CourseID == candidate.CourseID &&
			other.InstructorID == candidate.InstructorID &&
			other.RoomID == candidate.RoomID &&
			other.DayOfWeek == candidate.DayOfWeek &&
			other.StartTime == candidate.StartTime &&
			other.EndTime == candidate.EndTime {
			conflicts = append(conflicts, fmt.Sprintf("This exact schedule already exists for %s", other.CourseCode))
			continue
		}

		// A course keeps one canonical weekly slot set per term, so a
		// second placement clashes regardless of day or time.
		if other.CourseID == candidate.CourseID {
			conflicts = append(conflicts, fmt.Sprintf("Course %s already meets on %s in %s", other.CourseCode, window, other.RoomName))
			continue
		}

		if other.DayOfWeek != candidate.DayOfWeek {
			continue
		}
		otherStart, terr := scheduler.ToMinutes(other.StartTime)
		if terr != nil {
			continue
		}
		otherEnd, terr := scheduler.ToMinutes(other.EndTime)
		if terr != nil {
			continue
		}
		if !scheduler.RangesOverlap(candidateStart, candidateEnd, otherStart, otherEnd) {
			continue
		}

		if other.RoomID == candidate.RoomID {
			conflicts = append(conflicts, fmt.Sprintf("Room %s is already booked on %s by %s", other.RoomName, window, other.CourseCode))
		}
		if other.InstructorID == candidate.InstructorID && !allowInstructorOverlap {
			conflicts = append(conflicts, fmt.Sprintf("Instructor %s is already teaching %s on %s", other.InstructorName, other.CourseCode, window))
		}
	}
	if s.metrics != nil {
		s.metrics.ObserveConflictCheck(len(conflicts))
	}
	return conflicts, nil
}

func timesToDuration(start, end string) (int, error) {
	startMin, err := scheduler.ToMinutes(start)
	if err != nil {
		return 0, errors.New("startTime must be HH:MM")
	}
	endMin, err := scheduler.ToMinutes(end)
	if err != nil {
		return 0, errors.New("endTime must be HH:MM")
	}
	if endMin <= startMin {
		return 0, errors.New("endTime must be after startTime")
	}
	return endMin - startMin, nil
}

func notFoundOrInternal(err error, notFoundMsg, internalMsg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFoundMsg)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, internalMsg)
}
