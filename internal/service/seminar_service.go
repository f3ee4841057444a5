package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/adebimpe-ng/course-portal-api/internal/dto"
	"github.com/adebimpe-ng/course-portal-api/internal/models"
	"github.com/adebimpe-ng/course-portal-api/internal/repository"
	"github.com/adebimpe-ng/course-portal-api/pkg/filestore"
)

// ErrSeminarNotOpen indicates seminar submissions have not opened yet.
var ErrSeminarNotOpen = errors.New("seminar submissions not open")

// ErrDuplicateSeminar indicates the student already submitted a seminar file.
var ErrDuplicateSeminar = errors.New("seminar already submitted")

// ErrNotSlides indicates an uploaded seminar file is not a PowerPoint deck.
var ErrNotSlides = errors.New("seminar upload must be a ppt or pptx file")

var slideTypes = []string{
	"application/vnd.ms-powerpoint",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation",
}

// SeminarService exposes the mid-semester seminar upload flow.
type SeminarService interface {
	Upload(ctx context.Context, payload dto.SeminarUploadRequest, file *multipart.FileHeader) (dto.SeminarSubmissionResponse, error)
	List(ctx context.Context) ([]dto.SeminarSubmissionResponse, error)
	ExportCSV(ctx context.Context, w io.Writer) error
	OpensAt(year int) time.Time
}

type seminarService struct {
	repo      repository.SeminarRepository
	store     filestore.Uploader
	openMonth time.Month
	openDay   int
	validator *validator.Validate
	events    EventPublisher
	logger    zerolog.Logger
	now       func() time.Time
}

// NewSeminarService builds a new seminar service. Submissions open on
// (openMonth, openDay) of the current year.
func NewSeminarService(repo repository.SeminarRepository, store filestore.Uploader, openMonth time.Month, openDay int, validate *validator.Validate, events EventPublisher, logger zerolog.Logger) SeminarService {
	return &seminarService{
		repo:      repo,
		store:     store,
		openMonth: openMonth,
		openDay:   openDay,
		validator: validate,
		events:    events,
		logger:    logger.With().Str("component", "seminar_service").Logger(),
		now:       time.Now,
	}
}

// OpensAt returns the calendar instant submissions open in the given year.
func (s *seminarService) OpensAt(year int) time.Time {
	return time.Date(year, s.openMonth, s.openDay, 0, 0, 0, 0, time.Local)
}

// Upload stores a student's slides once the calendar gate has opened. A second
// upload by the same student is rejected by the uniqueness gate regardless of
// file name.
func (s *seminarService) Upload(ctx context.Context, payload dto.SeminarUploadRequest, file *multipart.FileHeader) (dto.SeminarSubmissionResponse, error) {
	payload.Name = strings.TrimSpace(payload.Name)
	payload.StudentID = strings.TrimSpace(payload.StudentID)

	if err := s.validator.Struct(payload); err != nil {
		return dto.SeminarSubmissionResponse{}, err
	}
	if file == nil {
		return dto.SeminarSubmissionResponse{}, fmt.Errorf("seminar file is required")
	}

	now := s.now()
	if now.Before(s.OpensAt(now.Year())) {
		return dto.SeminarSubmissionResponse{}, ErrSeminarNotOpen
	}

	exists, err := s.repo.Exists(ctx, payload.StudentID)
	if err != nil {
		return dto.SeminarSubmissionResponse{}, err
	}
	if exists {
		s.logger.Info().Str("student_id", payload.StudentID).Msg("seminar already submitted")
		return dto.SeminarSubmissionResponse{}, ErrDuplicateSeminar
	}

	src, err := file.Open()
	if err != nil {
		return dto.SeminarSubmissionResponse{}, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	kind, err := mimetype.DetectReader(src)
	if err != nil {
		return dto.SeminarSubmissionResponse{}, fmt.Errorf("failed to detect upload type: %w", err)
	}
	if !isSlideDeck(kind.String()) {
		return dto.SeminarSubmissionResponse{}, ErrNotSlides
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return dto.SeminarSubmissionResponse{}, fmt.Errorf("failed to rewind upload: %w", err)
	}

	filename := fmt.Sprintf("%s_%s", filestore.SanitizeName(payload.StudentID), filestore.SanitizeName(file.Filename))
	ref, err := s.store.Upload(ctx, filename, src)
	if err != nil {
		return dto.SeminarSubmissionResponse{}, err
	}

	submission := models.SeminarSubmission{
		StudentID: payload.StudentID,
		Name:      payload.Name,
		Filename:  filename,
		FileURL:   ref,
	}
	if err := s.repo.Create(ctx, &submission); err != nil {
		return dto.SeminarSubmissionResponse{}, err
	}

	s.logger.Info().Str("student_id", payload.StudentID).Str("file", filename).Msg("seminar submitted")
	if s.events != nil {
		s.events.Publish(ctx, Event{Type: EventSeminarSubmitted, StudentID: payload.StudentID})
	}

	return dto.NewSeminarSubmissionResponse(submission), nil
}

func (s *seminarService) List(ctx context.Context) ([]dto.SeminarSubmissionResponse, error) {
	submissions, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewSeminarSubmissionResponseSlice(submissions), nil
}

func (s *seminarService) ExportCSV(ctx context.Context, w io.Writer) error {
	submissions, err := s.repo.List(ctx)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(submissions))
	for _, submission := range submissions {
		rows = append(rows, []string{
			submission.CreatedAt.Format(time.DateTime),
			submission.StudentID,
			submission.Name,
			submission.Filename,
		})
	}

	return writeCSV(w, []string{"Timestamp", "Matric Number", "Name", "Filename"}, rows)
}

func isSlideDeck(mime string) bool {
	for _, t := range slideTypes {
		if mime == t {
			return true
		}
	}
	return false
}
