package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campusflow/timetable-api/internal/dto"
	"github.com/campusflow/timetable-api/internal/models"
	"github.com/campusflow/timetable-api/internal/scheduler"
	appErrors "github.com/campusflow/timetable-api/pkg/errors"
)

type generatorCourseReader interface {
	ListForGeneration(ctx context.Context, semester string) ([]models.Course, error)
}

type generatorRoomReader interface {
	ListAll(ctx context.Context) ([]models.Room, error)
}

type generatorInstructorReader interface {
	ListActive(ctx context.Context) ([]models.Instructor, error)
}

type scheduleReplacer interface {
	ReplaceForSemester(ctx context.Context, semester string, year int, schedules []models.Schedule) error
}

type settingsResolver interface {
	GetBool(ctx context.Context, key string) bool
	GetInt(ctx context.Context, key string) int
}

type timetableNotifier interface {
	TimetablePublished(semester string, year int, scheduled, unscheduled int) error
}

// GeneratorServiceConfig carries working-window defaults from app config.
type GeneratorServiceConfig struct {
	WorkingDayStart   string
	WorkingDayEnd     string
	SlotMinutes       int
	MaxSubjectsPerDay int
}

// GeneratorService orchestrates full timetable generation: it loads the
// catalog, runs the placement engine and optionally persists the result as
// the term's new timetable.
type GeneratorService struct {
	courses     generatorCourseReader
	rooms       generatorRoomReader
	instructors generatorInstructorReader
	schedules   scheduleReplacer
	settings    settingsResolver
	notifier    timetableNotifier
	metrics     *MetricsService
	cfg         GeneratorServiceConfig
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewGeneratorService wires generator dependencies.
func NewGeneratorService(
	courses generatorCourseReader,
	rooms generatorRoomReader,
	instructors generatorInstructorReader,
	schedules scheduleReplacer,
	settings settingsResolver,
	notifier timetableNotifier,
	metrics *MetricsService,
	cfg GeneratorServiceConfig,
	validate *validator.Validate,
	logger *zap.Logger,
) *GeneratorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.WorkingDayStart == "" {
		cfg.WorkingDayStart = "07:00"
	}
	if cfg.WorkingDayEnd == "" {
		cfg.WorkingDayEnd = "18:00"
	}
	if cfg.SlotMinutes <= 0 {
		cfg.SlotMinutes = scheduler.DefaultGranularity
	}
	if cfg.MaxSubjectsPerDay <= 0 {
		cfg.MaxSubjectsPerDay = scheduler.DefaultMaxSubjectsPerDay
	}
	return &GeneratorService{
		courses:     courses,
		rooms:       rooms,
		instructors: instructors,
		schedules:   schedules,
		settings:    settings,
		notifier:    notifier,
		metrics:     metrics,
		cfg:         cfg,
		validator:   validate,
		logger:      logger,
	}
}

// Generate runs one full timetable build for a term.
func (s *GeneratorService) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation payload")
	}

	workStart, err := scheduler.ToMinutes(req.StartTime)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "startTime must be HH:MM")
	}
	workEnd, err := scheduler.ToMinutes(req.EndTime)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "endTime must be HH:MM")
	}
	if workStart >= workEnd {
		return nil, appErrors.Clone(appErrors.ErrValidation, "startTime must precede endTime")
	}

	semesterStart, err := parseOptionalDate(req.SemesterStartDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "semesterStartDate must be YYYY-MM-DD")
	}
	semesterEnd, err := parseOptionalDate(req.SemesterEndDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "semesterEndDate must be YYYY-MM-DD")
	}
	if semesterStart != nil && semesterEnd != nil && semesterEnd.Before(*semesterStart) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "semesterEndDate precedes semesterStartDate")
	}

	courses, err := s.courses.ListForGeneration(ctx, req.Semester)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	if len(courses) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no active courses for this semester")
	}
	rooms, err := s.rooms.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}
	instructorRecords, err := s.instructors.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instructors")
	}

	pool := make([]scheduler.Instructor, 0, len(instructorRecords))
	names := make(map[string]string, len(instructorRecords))
	for _, record := range instructorRecords {
		pool = append(pool, s.toPlacementInstructor(record))
		names[record.ID] = record.FullName
	}

	maxPerDay := s.cfg.MaxSubjectsPerDay
	if s.settings != nil {
		if configured := s.settings.GetInt(ctx, models.SettingMaxSubjectsPerDay); configured > 0 {
			maxPerDay = configured
		}
	}

	cfg := scheduler.Config{
		WorkStart:         workStart,
		WorkEnd:           workEnd,
		Granularity:       s.cfg.SlotMinutes,
		MaxSubjectsPerDay: maxPerDay,
		SemesterStart:     semesterStart,
		SemesterEnd:       semesterEnd,
		Policy:            scheduler.PreferAssigned,
	}

	started := time.Now()
	result := scheduler.Generate(courses, rooms, pool, cfg)
	s.logger.Info("timetable generated",
		zap.String("semester", req.Semester),
		zap.Int("year", req.Year),
		zap.Int("placed", len(result.Placements)),
		zap.Int("unscheduled", len(result.Unscheduled)),
		zap.Duration("took", time.Since(started)),
	)
	if s.metrics != nil {
		s.metrics.ObserveGeneration(len(result.Placements), len(result.Unscheduled), time.Since(started))
	}

	schedules := make([]models.Schedule, 0, len(result.Placements))
	for _, placement := range result.Placements {
		schedules = append(schedules, models.Schedule{
			CourseID:       placement.Course.ID,
			InstructorID:   placement.Instructor.ID,
			RoomID:         placement.Room.ID,
			DayOfWeek:      scheduler.DayTitle(placement.Day),
			ScheduleDate:   placement.Date,
			StartTime:      scheduler.ToHHMM(placement.Start),
			EndTime:        scheduler.ToHHMM(placement.End),
			Duration:       placement.End - placement.Start,
			Semester:       req.Semester,
			Year:           req.Year,
			AcademicYear:   req.AcademicYear,
			Status:         models.ScheduleStatusScheduled,
			CourseCode:     placement.Course.Code,
			CourseName:     placement.Course.Name,
			RoomName:       placement.Room.Name,
			InstructorName: names[placement.Instructor.ID],
		})
	}

	if req.Save {
		if err := s.schedules.ReplaceForSemester(ctx, req.Semester, req.Year, schedules); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist timetable")
		}
		if s.notifier != nil {
			if err := s.notifier.TimetablePublished(req.Semester, req.Year, len(schedules), len(result.Unscheduled)); err != nil {
				s.logger.Warn("timetable notification enqueue failed", zap.Error(err))
			}
		}
	}

	conflicts := make([]dto.UnscheduledCourse, 0, len(result.Unscheduled))
	for _, entry := range result.Unscheduled {
		conflicts = append(conflicts, dto.UnscheduledCourse{
			CourseID:   entry.CourseID,
			CourseCode: entry.CourseCode,
			Course:     entry.CourseName,
			YearLevel:  entry.YearLevel,
			Section:    entry.Section,
			Reason:     entry.Reason,
		})
	}

	return &dto.GenerateTimetableResponse{
		Placements: schedules,
		Conflicts:  conflicts,
		Stats: dto.GenerationStats{
			TotalCourses:      result.Stats.TotalCourses,
			ScheduledCourses:  result.Stats.ScheduledCourses,
			ConflictCount:     result.Stats.ConflictCount,
			ByYearLevel:       result.Stats.ByYearLevel,
			BySection:         result.Stats.BySection,
			SemesterWeeks:     result.Stats.SemesterWeeks,
			MaxSubjectsPerDay: result.Stats.MaxSubjectsPerDay,
		},
		Saved: req.Save,
	}, nil
}

// toPlacementInstructor converts a persisted instructor row, with its JSON
// availability document, into the engine's minute-window form. Malformed
// documents degrade to an unconstrained instructor rather than failing the
// whole run.
func (s *GeneratorService) toPlacementInstructor(record models.Instructor) scheduler.Instructor {
	out := scheduler.Instructor{
		ID:              record.ID,
		Name:            record.FullName,
		MaxHoursPerWeek: record.MaxHoursPerWeek,
	}
	if len(record.Availability) == 0 {
		return out
	}

	var declared models.Availability
	if err := json.Unmarshal(record.Availability, &declared); err != nil {
		s.logger.Warn("unreadable instructor availability, treating as unconstrained",
			zap.String("instructor_id", record.ID), zap.Error(err))
		return out
	}

	availability := make(scheduler.Availability, len(declared))
	for dayName, windows := range declared {
		day, ok := scheduler.DayIndex(dayName)
		if !ok {
			continue
		}
		for _, window := range windows {
			start, err := scheduler.ToMinutes(window.Start)
			if err != nil {
				continue
			}
			end, err := scheduler.ToMinutes(window.End)
			if err != nil || end <= start {
				continue
			}
			availability[day] = append(availability[day], scheduler.Window{Start: start, End: end})
		}
	}
	if len(availability) > 0 {
		out.Availability = availability
	}
	return out
}

func parseOptionalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
