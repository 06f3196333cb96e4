package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/campusflow/timetable-api/internal/dto"
	"github.com/campusflow/timetable-api/internal/models"
	"github.com/campusflow/timetable-api/internal/scheduler"
	appErrors "github.com/campusflow/timetable-api/pkg/errors"
)

type instructorRepository interface {
	List(ctx context.Context, filter models.InstructorFilter) ([]models.Instructor, int, error)
	FindByID(ctx context.Context, id string) (*models.Instructor, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	Create(ctx context.Context, instructor *models.Instructor) error
	Update(ctx context.Context, instructor *models.Instructor) error
	Deactivate(ctx context.Context, id string) error
}

// InstructorService manages the instructor roster.
type InstructorService struct {
	repo      instructorRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewInstructorService constructs an InstructorService.
func NewInstructorService(repo instructorRepository, validate *validator.Validate, logger *zap.Logger) *InstructorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstructorService{repo: repo, validator: validate, logger: logger}
}

// List returns instructors matching the filter with pagination metadata.
func (s *InstructorService) List(ctx context.Context, filter models.InstructorFilter) ([]models.Instructor, *models.Pagination, error) {
	instructors, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list instructors")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return instructors, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get fetches one instructor.
func (s *InstructorService) Get(ctx context.Context, id string) (*models.Instructor, error) {
	instructor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "instructor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instructor")
	}
	return instructor, nil
}

// Create registers a new instructor.
func (s *InstructorService) Create(ctx context.Context, req dto.CreateInstructorRequest) (*models.Instructor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid instructor payload")
	}
	exists, err := s.repo.ExistsByEmail(ctx, req.Email, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check instructor email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "instructor email already exists")
	}
	availability, err := encodeAvailability(req.Availability)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	instructor := &models.Instructor{
		FullName:        req.Name,
		Email:           req.Email,
		Department:      req.Department,
		MaxHoursPerWeek: req.MaxHoursPerWeek,
		Availability:    availability,
		Active:          true,
	}
	if err := s.repo.Create(ctx, instructor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create instructor")
	}
	return instructor, nil
}

// Update patches an existing instructor.
func (s *InstructorService) Update(ctx context.Context, id string, req dto.UpdateInstructorRequest) (*models.Instructor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid instructor payload")
	}
	instructor, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != instructor.Email {
		exists, eerr := s.repo.ExistsByEmail(ctx, *req.Email, id)
		if eerr != nil {
			return nil, appErrors.Wrap(eerr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check instructor email")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrConflict, "instructor email already exists")
		}
		instructor.Email = *req.Email
	}
	if req.Name != nil {
		instructor.FullName = *req.Name
	}
	if req.Department != nil {
		instructor.Department = *req.Department
	}
	if req.MaxHoursPerWeek != nil {
		instructor.MaxHoursPerWeek = *req.MaxHoursPerWeek
	}
	if req.Availability != nil {
		availability, aerr := encodeAvailability(req.Availability)
		if aerr != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, aerr.Error())
		}
		instructor.Availability = availability
	}

	if err := s.repo.Update(ctx, instructor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update instructor")
	}
	return instructor, nil
}

// Deactivate removes an instructor from the active pool without deleting
// their history.
func (s *InstructorService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate instructor")
	}
	return nil
}

// encodeAvailability normalises weekday keys and validates every declared
// window before persisting the JSON document.
func encodeAvailability(input map[string][]dto.AvailabilityWindowInput) (types.JSONText, error) {
	if len(input) == 0 {
		return nil, nil
	}
	normalized := make(models.Availability, len(input))
	for dayName, windows := range input {
		day, ok := scheduler.DayIndex(dayName)
		if !ok {
			return nil, errors.New("availability keys must be weekday names, Monday through Saturday")
		}
		key := scheduler.DayName(day)
		for _, window := range windows {
			start, err := scheduler.ToMinutes(window.Start)
			if err != nil {
				return nil, errors.New("availability windows must use HH:MM times")
			}
			end, err := scheduler.ToMinutes(window.End)
			if err != nil {
				return nil, errors.New("availability windows must use HH:MM times")
			}
			if end <= start {
				return nil, errors.New("availability window end must be after start")
			}
			normalized[key] = append(normalized[key], models.AvailabilityWindow{Start: window.Start, End: window.End})
		}
	}
	encoded, err := json.Marshal(normalized)
	if err != nil {
		return nil, errors.New("availability could not be encoded")
	}
	return types.JSONText(encoded), nil
}
