package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campusflow/timetable-api/internal/models"
	appErrors "github.com/campusflow/timetable-api/pkg/errors"
	"github.com/campusflow/timetable-api/pkg/jobs"
)

type notificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	List(ctx context.Context, limit int) ([]models.Notification, error)
}

// NotificationService fans notification writes out through a background
// queue so schedule writes never block on the feed.
type NotificationService struct {
	repo   notificationRepository
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewNotificationService builds the service and its dispatch queue. Start
// must be called before any publish method.
func NewNotificationService(repo notificationRepository, cfg jobs.QueueConfig, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &NotificationService{repo: repo, logger: logger}
	s.queue = jobs.NewQueue("notifications", s.handle, cfg)
	return s
}

// Start begins background dispatch.
func (s *NotificationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the dispatch workers.
func (s *NotificationService) Stop() {
	s.queue.Stop()
}

// List returns the most recent feed entries.
func (s *NotificationService) List(ctx context.Context, limit int) ([]models.Notification, error) {
	notifications, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}
	return notifications, nil
}

// TimetablePublished announces a freshly saved term timetable.
func (s *NotificationService) TimetablePublished(semester string, year int, scheduled, unscheduled int) error {
	body := fmt.Sprintf("%d classes scheduled for %s %d.", scheduled, semester, year)
	if unscheduled > 0 {
		body = fmt.Sprintf("%s %d courses could not be placed.", body, unscheduled)
	}
	return s.enqueue(models.Notification{
		Kind:     models.NotificationTimetablePublished,
		Title:    fmt.Sprintf("Timetable published: %s %d", semester, year),
		Body:     body,
		Audience: "ALL",
	})
}

// ScheduleConflict flags a manually created entry that clashed.
func (s *NotificationService) ScheduleConflict(courseCode string, conflicts []string) error {
	return s.enqueue(models.Notification{
		Kind:     models.NotificationScheduleConflict,
		Title:    fmt.Sprintf("Schedule conflict: %s", courseCode),
		Body:     strings.Join(conflicts, "; "),
		Audience: "REGISTRAR",
	})
}

func (s *NotificationService) enqueue(notification models.Notification) error {
	return s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    string(notification.Kind),
		Payload: notification,
	})
}

func (s *NotificationService) handle(ctx context.Context, job jobs.Job) error {
	notification, ok := job.Payload.(models.Notification)
	if !ok {
		s.logger.Error("notification job carried unexpected payload", zap.String("job_id", job.ID))
		return nil
	}
	return s.repo.Create(ctx, &notification)
}
