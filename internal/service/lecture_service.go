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
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/adebimpe-ng/course-portal-api/internal/dto"
	"github.com/adebimpe-ng/course-portal-api/internal/models"
	"github.com/adebimpe-ng/course-portal-api/internal/repository"
	"github.com/adebimpe-ng/course-portal-api/pkg/filestore"
)

// ErrLectureNotFound indicates the requested week has no lecture row.
var ErrLectureNotFound = errors.New("lecture not found")

// ErrAttendanceRequired indicates the student has not marked attendance for the week.
var ErrAttendanceRequired = errors.New("attendance required")

// ErrModuleNotFound indicates no module PDF has been uploaded for the week.
// This is an informational state, not a failure.
var ErrModuleNotFound = errors.New("module not uploaded")

// ErrNotPDF indicates an uploaded module is not a PDF document.
var ErrNotPDF = errors.New("module must be a pdf document")

// CourseOutline is the seeded (week, topic) list for one course variant.
// Portal variants differ only in this data, never in code paths.
type CourseOutline []struct {
	Week  string
	Topic string
}

// DefaultOutline is the BIO 203 General Physiology schedule.
func DefaultOutline() CourseOutline {
	return CourseOutline{
		{"Week 1–2", "Chemicals of Life: Carbohydrates, lipids, proteins, nucleic acids, and biological significance."},
		{"Week 3–4", "Enzymology: Characteristics, mechanism, factors affecting activity, enzyme classification."},
		{"Week 5–6", "Nutrition, Digestion, and Absorption in plants and animals."},
		{"Week 7–8", "Biosynthesis: Photosynthesis (light & dark reactions) and Protein Synthesis (transcription & translation)."},
		{"Week 9", "Cell Membrane Structure & Function: Lipid bilayer, membrane proteins, transport, signal transduction."},
		{"Week 10–11", "Osmoregulation, Excretion, and Transport in Animals: Kidney function, circulatory & respiratory transport."},
		{"Week 12", "Plant Growth Hormones and Regulation: Auxins, gibberellins, cytokinins, abscisic acid, ethylene."},
		{"Week 13–14", "Homeostasis in Animals: Nervous & endocrine coordination, temperature, blood glucose, water balance."},
		{"Week 15", "Plant Water Relations and Growth: Water uptake, transport, transpiration, growth regulation, stress responses."},
	}
}

// LectureService exposes lecture content use cases for students and admins.
type LectureService interface {
	Seed(ctx context.Context) error
	Weeks(ctx context.Context) ([]dto.WeekResponse, error)
	GetForStudent(ctx context.Context, studentID, week string, windowState dto.ClassworkWindowState) (dto.LectureResponse, error)
	Update(ctx context.Context, week string, payload dto.LectureUpdateRequest) (dto.LectureResponse, error)
	UploadModule(ctx context.Context, week string, file *multipart.FileHeader) error
	OpenModule(ctx context.Context, week string) (io.ReadCloser, error)
	ModuleAvailable(ctx context.Context, week string) bool
}

type lectureService struct {
	lectures   repository.LectureRepository
	attendance repository.AttendanceRepository
	modules    filestore.Store
	outline    CourseOutline
	sanitizer  *bluemonday.Policy
	logger     zerolog.Logger
}

// NewLectureService builds a new lecture service.
func NewLectureService(lectures repository.LectureRepository, attendance repository.AttendanceRepository, modules filestore.Store, outline CourseOutline, logger zerolog.Logger) LectureService {
	return &lectureService{
		lectures:   lectures,
		attendance: attendance,
		modules:    modules,
		outline:    outline,
		sanitizer:  bluemonday.UGCPolicy(),
		logger:     logger.With().Str("component", "lecture_service").Logger(),
	}
}

// Seed populates the lecture table from the course outline on first run.
func (s *lectureService) Seed(ctx context.Context) error {
	count, err := s.lectures.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	lectures := make([]models.LectureContent, 0, len(s.outline))
	for i, entry := range s.outline {
		lectures = append(lectures, models.LectureContent{
			Week:     entry.Week,
			Position: i,
			Topic:    entry.Topic,
		})
	}

	if err := s.lectures.CreateBatch(ctx, lectures); err != nil {
		return err
	}

	s.logger.Info().Int("weeks", len(lectures)).Msg("lecture outline seeded")
	return nil
}

func (s *lectureService) Weeks(ctx context.Context) ([]dto.WeekResponse, error) {
	lectures, err := s.lectures.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewWeekResponseSlice(lectures), nil
}

// GetForStudent returns the lecture view for a week, but only once the
// student has an attendance record for that week.
func (s *lectureService) GetForStudent(ctx context.Context, studentID, week string, windowState dto.ClassworkWindowState) (dto.LectureResponse, error) {
	studentID = strings.TrimSpace(studentID)
	week = strings.TrimSpace(week)
	if studentID == "" {
		return dto.LectureResponse{}, ErrAttendanceRequired
	}

	attended, err := s.attendance.Exists(ctx, studentID, week)
	if err != nil {
		return dto.LectureResponse{}, err
	}
	if !attended {
		return dto.LectureResponse{}, ErrAttendanceRequired
	}

	lecture, err := s.lectures.GetByWeek(ctx, week)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LectureResponse{}, ErrLectureNotFound
		}
		return dto.LectureResponse{}, err
	}

	return dto.NewLectureResponse(lecture, s.ModuleAvailable(ctx, week), windowState), nil
}

func (s *lectureService) Update(ctx context.Context, week string, payload dto.LectureUpdateRequest) (dto.LectureResponse, error) {
	lecture, err := s.lectures.GetByWeek(ctx, strings.TrimSpace(week))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LectureResponse{}, ErrLectureNotFound
		}
		return dto.LectureResponse{}, err
	}

	if payload.Topic != nil {
		lecture.Topic = s.sanitizer.Sanitize(strings.TrimSpace(*payload.Topic))
	}
	if payload.Brief != nil {
		lecture.Brief = s.sanitizer.Sanitize(strings.TrimSpace(*payload.Brief))
	}
	if payload.Assignment != nil {
		lecture.Assignment = s.sanitizer.Sanitize(strings.TrimSpace(*payload.Assignment))
	}
	if payload.Classwork != nil {
		lecture.Classwork = s.sanitizer.Sanitize(strings.TrimSpace(*payload.Classwork))
	}
	lecture.UpdatedAt = time.Now()

	if err := s.lectures.UpsertByWeek(ctx, &lecture); err != nil {
		return dto.LectureResponse{}, err
	}

	s.logger.Info().Str("week", lecture.Week).Msg("lecture updated")

	return dto.NewLectureResponse(lecture, s.ModuleAvailable(ctx, lecture.Week), dto.ClassworkWindowState{Week: lecture.Week}), nil
}

// UploadModule stores the week's module PDF under the underscored week name.
func (s *lectureService) UploadModule(ctx context.Context, week string, file *multipart.FileHeader) error {
	week = strings.TrimSpace(week)
	if _, err := s.lectures.GetByWeek(ctx, week); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLectureNotFound
		}
		return err
	}

	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	kind, err := mimetype.DetectReader(src)
	if err != nil {
		return fmt.Errorf("failed to detect upload type: %w", err)
	}
	if !kind.Is("application/pdf") {
		return ErrNotPDF
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to rewind upload: %w", err)
	}

	if _, err := s.modules.Upload(ctx, moduleFileName(week), src); err != nil {
		return err
	}

	s.logger.Info().Str("week", week).Msg("module pdf uploaded")
	return nil
}

func (s *lectureService) OpenModule(ctx context.Context, week string) (io.ReadCloser, error) {
	name := moduleFileName(strings.TrimSpace(week))
	if !s.modules.Exists(ctx, name) {
		return nil, ErrModuleNotFound
	}

	return s.modules.Open(ctx, name)
}

func (s *lectureService) ModuleAvailable(ctx context.Context, week string) bool {
	return s.modules.Exists(ctx, moduleFileName(strings.TrimSpace(week)))
}

func moduleFileName(week string) string {
	return strings.ReplaceAll(week, " ", "_") + ".pdf"
}
