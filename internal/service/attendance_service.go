package service

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/adebimpe-ng/course-portal-api/internal/dto"
	"github.com/adebimpe-ng/course-portal-api/internal/models"
	"github.com/adebimpe-ng/course-portal-api/internal/observability"
	"github.com/adebimpe-ng/course-portal-api/internal/repository"
)

// AttendanceService exposes the weekly attendance gate.
type AttendanceService interface {
	Mark(ctx context.Context, payload dto.AttendanceMarkRequest) (dto.AttendanceMarkResponse, error)
	HasAttended(ctx context.Context, studentID, week string) (bool, error)
	List(ctx context.Context) ([]dto.AttendanceRecordResponse, error)
	ExportCSV(ctx context.Context, w io.Writer) error
}

type attendanceService struct {
	repo      repository.AttendanceRepository
	validator *validator.Validate
	events    EventPublisher
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAttendanceService builds a new attendance service.
func NewAttendanceService(repo repository.AttendanceRepository, validate *validator.Validate, events EventPublisher, logger zerolog.Logger) AttendanceService {
	return &attendanceService{
		repo:      repo,
		validator: validate,
		events:    events,
		logger:    logger.With().Str("component", "attendance_service").Logger(),
		now:       time.Now,
	}
}

// Mark records attendance for (student, week). A duplicate is not an error:
// the existing record stands and the response says so, which is what unlocks
// lecture access for a student re-entering the portal.
func (s *attendanceService) Mark(ctx context.Context, payload dto.AttendanceMarkRequest) (dto.AttendanceMarkResponse, error) {
	payload.Name = strings.TrimSpace(payload.Name)
	payload.StudentID = strings.TrimSpace(payload.StudentID)
	payload.Week = strings.TrimSpace(payload.Week)

	if err := s.validator.Struct(payload); err != nil {
		return dto.AttendanceMarkResponse{}, err
	}

	exists, err := s.repo.Exists(ctx, payload.StudentID, payload.Week)
	if err != nil {
		return dto.AttendanceMarkResponse{}, err
	}
	if exists {
		s.logger.Info().Str("student_id", payload.StudentID).Str("week", payload.Week).Msg("attendance already marked")
		return dto.AttendanceMarkResponse{StudentID: payload.StudentID, Week: payload.Week, AlreadyMarked: true}, nil
	}

	record := models.AttendanceRecord{
		StudentID: payload.StudentID,
		Name:      payload.Name,
		Week:      payload.Week,
	}
	if err := s.repo.Create(ctx, &record); err != nil {
		return dto.AttendanceMarkResponse{}, err
	}

	s.logger.Info().Str("student_id", payload.StudentID).Str("week", payload.Week).Msg("attendance marked")
	observability.AttendanceMarked().Inc()
	if s.events != nil {
		s.events.Publish(ctx, Event{Type: EventAttendanceMarked, StudentID: payload.StudentID, Week: payload.Week})
	}

	return dto.AttendanceMarkResponse{StudentID: payload.StudentID, Week: payload.Week}, nil
}

func (s *attendanceService) HasAttended(ctx context.Context, studentID, week string) (bool, error) {
	return s.repo.Exists(ctx, strings.TrimSpace(studentID), strings.TrimSpace(week))
}

func (s *attendanceService) List(ctx context.Context) ([]dto.AttendanceRecordResponse, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewAttendanceRecordResponseSlice(records), nil
}

func (s *attendanceService) ExportCSV(ctx context.Context, w io.Writer) error {
	records, err := s.repo.List(ctx)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			record.CreatedAt.Format(time.DateTime),
			record.StudentID,
			record.Name,
			record.Week,
		})
	}

	return writeCSV(w, []string{"Timestamp", "Matric Number", "Name", "Week"}, rows)
}
