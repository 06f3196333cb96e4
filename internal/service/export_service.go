package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/campusflow/timetable-api/internal/models"
	"github.com/campusflow/timetable-api/internal/scheduler"
	appErrors "github.com/campusflow/timetable-api/pkg/errors"
	"github.com/campusflow/timetable-api/pkg/export"
)

type exportScheduleReader interface {
	ListBySemester(ctx context.Context, semester string, year int) ([]models.Schedule, error)
}

type exportCourseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// Export formats supported by the timetable exporter.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// ExportService renders a term's timetable as a downloadable document.
type ExportService struct {
	schedules exportScheduleReader
	courses   exportCourseReader
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	logger    *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(schedules exportScheduleReader, courses exportCourseReader, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		schedules: schedules,
		courses:   courses,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		logger:    logger,
	}
}

// ExportResult carries rendered bytes plus download metadata.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportOptions selects the term to export plus optional student-group filters.
type ExportOptions struct {
	Semester  string
	Year      int
	YearLevel int
	Section   string
	Format    string
}

// Export renders the timetable of a term in the requested format, optionally
// narrowed to one year level or section.
func (s *ExportService) Export(ctx context.Context, opts ExportOptions) (*ExportResult, error) {
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format != FormatCSV && format != FormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	schedules, err := s.schedules.ListBySemester(ctx, opts.Semester, opts.Year)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load term schedules")
	}
	if opts.YearLevel > 0 || opts.Section != "" {
		schedules, err = s.filterByGroup(ctx, schedules, opts.YearLevel, opts.Section)
		if err != nil {
			return nil, err
		}
	}
	if len(schedules) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no schedules found for this term")
	}

	table := buildTimetableTable(schedules)
	basename := fmt.Sprintf("timetable_%s_%d", strings.ToLower(opts.Semester), opts.Year)

	switch format {
	case FormatCSV:
		content, rerr := s.csv.Render(table)
		if rerr != nil {
			return nil, appErrors.Wrap(rerr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{Content: content, ContentType: "text/csv", Filename: basename + ".csv"}, nil
	default:
		title := "Class Timetable"
		subtitle := fmt.Sprintf("%s %d", opts.Semester, opts.Year)
		content, rerr := s.pdf.Render(table, title, subtitle)
		if rerr != nil {
			return nil, appErrors.Wrap(rerr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{Content: content, ContentType: "application/pdf", Filename: basename + ".pdf"}, nil
	}
}

// filterByGroup keeps only entries whose course belongs to the requested
// year level and/or section. Course lookups are memoized per distinct ID.
func (s *ExportService) filterByGroup(ctx context.Context, schedules []models.Schedule, yearLevel int, section string) ([]models.Schedule, error) {
	seen := make(map[string]*models.Course)
	kept := make([]models.Schedule, 0, len(schedules))
	for _, entry := range schedules {
		course, ok := seen[entry.CourseID]
		if !ok {
			var err error
			course, err = s.courses.FindByID(ctx, entry.CourseID)
			if err != nil {
				if err == sql.ErrNoRows {
					seen[entry.CourseID] = nil
					continue
				}
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course for export filter")
			}
			seen[entry.CourseID] = course
		}
		if course == nil {
			continue
		}
		if yearLevel > 0 && course.YearLevel != yearLevel {
			continue
		}
		if section != "" && !strings.EqualFold(course.Section, section) {
			continue
		}
		kept = append(kept, entry)
	}
	return kept, nil
}

// buildTimetableTable orders entries day-first for a readable weekly view.
func buildTimetableTable(schedules []models.Schedule) export.Table {
	sorted := make([]models.Schedule, len(schedules))
	copy(sorted, schedules)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, _ := scheduler.DayIndex(sorted[i].DayOfWeek)
		dj, _ := scheduler.DayIndex(sorted[j].DayOfWeek)
		if di != dj {
			return di < dj
		}
		if sorted[i].StartTime != sorted[j].StartTime {
			return sorted[i].StartTime < sorted[j].StartTime
		}
		return sorted[i].RoomName < sorted[j].RoomName
	})

	table := export.Table{
		Headers: []string{"Day", "Start", "End", "Course", "Title", "Instructor", "Room", "Status"},
		Rows:    make([][]string, 0, len(sorted)),
	}
	for _, entry := range sorted {
		table.Rows = append(table.Rows, []string{
			entry.DayOfWeek,
			entry.StartTime,
			entry.EndTime,
			entry.CourseCode,
			entry.CourseName,
			entry.InstructorName,
			entry.RoomName,
			string(entry.Status),
		})
	}
	return table
}
