package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/adebimpe-ng/course-portal-api/internal/dto"
	"github.com/adebimpe-ng/course-portal-api/internal/models"
	"github.com/adebimpe-ng/course-portal-api/internal/observability"
	"github.com/adebimpe-ng/course-portal-api/internal/repository"
	"github.com/adebimpe-ng/course-portal-api/internal/window"
)

// ErrWindowClosed indicates the week's classwork window is not open.
var ErrWindowClosed = errors.New("classwork window closed")

// ClassworkService exposes the classwork window gate and submissions.
type ClassworkService interface {
	Open(ctx context.Context, week string) (dto.ClassworkWindowState, error)
	Close(ctx context.Context, week string) error
	// Sweep force-closes every window whose open interval has elapsed and
	// returns how many it closed.
	Sweep(ctx context.Context) (int, error)
	State(ctx context.Context, week string) (dto.ClassworkWindowState, error)
	Submit(ctx context.Context, payload dto.ClassworkSubmitRequest) (dto.ClassworkSubmitResponse, error)
	List(ctx context.Context) ([]dto.ClassworkSubmissionResponse, error)
	ExportCSV(ctx context.Context, w io.Writer) error
}

type classworkService struct {
	windows     repository.ClassworkWindowRepository
	submissions repository.ClassworkSubmissionRepository
	duration    time.Duration
	validator   *validator.Validate
	events      EventPublisher
	logger      zerolog.Logger
	now         window.Clock
}

// NewClassworkService builds a new classwork service. duration is how long an
// opened window stays open before it is considered closed.
func NewClassworkService(windows repository.ClassworkWindowRepository, submissions repository.ClassworkSubmissionRepository, duration time.Duration, validate *validator.Validate, events EventPublisher, logger zerolog.Logger) ClassworkService {
	return &classworkService{
		windows:     windows,
		submissions: submissions,
		duration:    duration,
		validator:   validate,
		events:      events,
		logger:      logger.With().Str("component", "classwork_service").Logger(),
		now:         time.Now,
	}
}

func (s *classworkService) Open(ctx context.Context, week string) (dto.ClassworkWindowState, error) {
	week = strings.TrimSpace(week)
	openedAt := s.now()
	record := models.ClassworkWindow{Week: week, IsOpen: true, OpenedAt: &openedAt}
	if err := s.windows.Upsert(ctx, &record); err != nil {
		return dto.ClassworkWindowState{}, err
	}

	s.logger.Info().Str("week", week).Msg("classwork window opened")

	return s.stateOf(record), nil
}

func (s *classworkService) Close(ctx context.Context, week string) error {
	week = strings.TrimSpace(week)
	record := models.ClassworkWindow{Week: week, IsOpen: false, OpenedAt: nil}
	if err := s.windows.Upsert(ctx, &record); err != nil {
		return err
	}

	s.logger.Info().Str("week", week).Msg("classwork window closed")
	return nil
}

func (s *classworkService) Sweep(ctx context.Context) (int, error) {
	open, err := s.windows.ListOpen(ctx)
	if err != nil {
		return 0, err
	}

	closed := 0
	for _, record := range open {
		if s.gate(record).Expired(s.now()) {
			record.IsOpen = false
			record.OpenedAt = nil
			if err := s.windows.Upsert(ctx, &record); err != nil {
				return closed, err
			}
			closed++
			s.logger.Info().Str("week", record.Week).Msg("expired classwork window swept")
		}
	}

	return closed, nil
}

// State reports the gate for a week. A window past its open interval reports
// closed even when the stored row still says open; a week with no row at all
// is simply closed.
func (s *classworkService) State(ctx context.Context, week string) (dto.ClassworkWindowState, error) {
	week = strings.TrimSpace(week)
	record, err := s.windows.GetByWeek(ctx, week)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClassworkWindowState{Week: week}, nil
		}
		return dto.ClassworkWindowState{}, err
	}

	return s.stateOf(record), nil
}

func (s *classworkService) Submit(ctx context.Context, payload dto.ClassworkSubmitRequest) (dto.ClassworkSubmitResponse, error) {
	payload.Name = strings.TrimSpace(payload.Name)
	payload.StudentID = strings.TrimSpace(payload.StudentID)
	payload.Week = strings.TrimSpace(payload.Week)

	if err := s.validator.Struct(payload); err != nil {
		return dto.ClassworkSubmitResponse{}, err
	}

	state, err := s.State(ctx, payload.Week)
	if err != nil {
		return dto.ClassworkSubmitResponse{}, err
	}
	if !state.IsOpen {
		return dto.ClassworkSubmitResponse{}, ErrWindowClosed
	}

	exists, err := s.submissions.Exists(ctx, payload.StudentID, payload.Week)
	if err != nil {
		return dto.ClassworkSubmitResponse{}, err
	}
	if exists {
		s.logger.Info().Str("student_id", payload.StudentID).Str("week", payload.Week).Msg("classwork already submitted")
		return dto.ClassworkSubmitResponse{StudentID: payload.StudentID, Week: payload.Week, AlreadySubmitted: true}, nil
	}

	answers, err := json.Marshal(payload.Answers)
	if err != nil {
		return dto.ClassworkSubmitResponse{}, err
	}

	submission := models.ClassworkSubmission{
		StudentID: payload.StudentID,
		Name:      payload.Name,
		Week:      payload.Week,
		Answers:   answers,
	}
	if err := s.submissions.Create(ctx, &submission); err != nil {
		return dto.ClassworkSubmitResponse{}, err
	}

	s.logger.Info().Str("student_id", payload.StudentID).Str("week", payload.Week).Msg("classwork submitted")
	observability.ClassworkSubmitted().Inc()
	if s.events != nil {
		s.events.Publish(ctx, Event{Type: EventClassworkSubmitted, StudentID: payload.StudentID, Week: payload.Week})
	}

	return dto.ClassworkSubmitResponse{StudentID: payload.StudentID, Week: payload.Week}, nil
}

func (s *classworkService) List(ctx context.Context) ([]dto.ClassworkSubmissionResponse, error) {
	submissions, err := s.submissions.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewClassworkSubmissionResponseSlice(submissions), nil
}

func (s *classworkService) ExportCSV(ctx context.Context, w io.Writer) error {
	submissions, err := s.submissions.List(ctx)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(submissions))
	for _, submission := range submissions {
		var answers []string
		_ = json.Unmarshal(submission.Answers, &answers)
		rows = append(rows, []string{
			submission.CreatedAt.Format(time.DateTime),
			submission.StudentID,
			submission.Name,
			submission.Week,
			strings.Join(answers, "; "),
		})
	}

	return writeCSV(w, []string{"Timestamp", "Matric Number", "Name", "Week", "Answers"}, rows)
}

func (s *classworkService) gate(record models.ClassworkWindow) window.Window {
	started := time.Time{}
	if record.OpenedAt != nil {
		started = *record.OpenedAt
	}
	return window.Window{StartedAt: started, Duration: s.duration}
}

func (s *classworkService) stateOf(record models.ClassworkWindow) dto.ClassworkWindowState {
	state := dto.ClassworkWindowState{Week: record.Week}
	if !record.IsOpen || record.OpenedAt == nil {
		return state
	}

	gate := s.gate(record)
	now := s.now()
	state.IsOpen = gate.IsOpen(now)
	state.RemainingSeconds = int(gate.Remaining(now).Seconds())

	return state
}
