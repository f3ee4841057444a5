package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/adebimpe-ng/course-portal-api/internal/dto"
	"github.com/adebimpe-ng/course-portal-api/internal/models"
	"github.com/adebimpe-ng/course-portal-api/internal/observability"
	"github.com/adebimpe-ng/course-portal-api/internal/repository"
	"github.com/adebimpe-ng/course-portal-api/internal/window"
)

// ErrAttemptComplete indicates a terminal result already exists for the
// student; re-entry is permanently blocked.
var ErrAttemptComplete = errors.New("test already completed")

// ErrAttemptNotFound indicates no attempt is in progress for the student.
var ErrAttemptNotFound = errors.New("no test in progress")

// ErrTimeExpired indicates the attempt clock ran out. By the time a caller
// sees this the attempt has already been auto-submitted with whatever
// answers were persisted.
var ErrTimeExpired = errors.New("test time expired")

// ErrNoQuestions indicates the question bank is empty, so no test can start.
var ErrNoQuestions = errors.New("no questions available")

// IncompleteSubmitError asks the caller to confirm submitting with
// unanswered questions. The attempt stays in progress untouched.
type IncompleteSubmitError struct {
	Unanswered int
	Total      int
}

func (e *IncompleteSubmitError) Error() string {
	return fmt.Sprintf("%d of %d questions unanswered", e.Unanswered, e.Total)
}

const examStatsCacheKey = "exam:stats"

// ExamService runs the timed single-attempt test lifecycle.
type ExamService interface {
	Login(ctx context.Context, payload dto.ExamLoginRequest) (dto.ExamSessionResponse, error)
	Status(ctx context.Context, studentID string) (dto.ExamSessionResponse, error)
	Answer(ctx context.Context, payload dto.ExamAnswerRequest) (dto.ExamSessionResponse, error)
	Submit(ctx context.Context, payload dto.ExamSubmitRequest) (dto.ExamResultResponse, error)
	Remaining(ctx context.Context, studentID string) (time.Duration, error)
	Results(ctx context.Context) ([]dto.ExamResultResponse, error)
	ExportResultsCSV(ctx context.Context, w io.Writer) error
	Stats(ctx context.Context) (dto.ExamStatsResponse, error)
	Config(ctx context.Context) (dto.ExamConfigResponse, error)
	UpdateConfig(ctx context.Context, payload dto.ExamConfigRequest) (dto.ExamConfigResponse, error)
}

type examService struct {
	progress  repository.ExamProgressRepository
	results   repository.ExamResultRepository
	questions repository.QuestionRepository
	settings  repository.ExamSettingRepository
	duration  time.Duration
	cache     *redis.Client
	cacheTTL  time.Duration
	validator *validator.Validate
	events    EventPublisher
	logger    zerolog.Logger
	tracer    trace.Tracer
	now       window.Clock
}

// NewExamService builds a new exam service. duration is the default for
// attempts started from now on; an admin-configured duration (settings row)
// overrides it, and attempts in flight keep the duration persisted with
// their progress record either way.
func NewExamService(progress repository.ExamProgressRepository, results repository.ExamResultRepository, questions repository.QuestionRepository, settings repository.ExamSettingRepository, duration time.Duration, cache *redis.Client, cacheTTL time.Duration, validate *validator.Validate, events EventPublisher, logger zerolog.Logger) ExamService {
	return &examService{
		progress:  progress,
		results:   results,
		questions: questions,
		settings:  settings,
		duration:  duration,
		cache:     cache,
		cacheTTL:  cacheTTL,
		validator: validate,
		events:    events,
		logger:    logger.With().Str("component", "exam_service").Logger(),
		tracer:    otel.Tracer("github.com/adebimpe-ng/course-portal-api/internal/service/exam"),
		now:       time.Now,
	}
}

// Login admits an eligible student into the test. A student with a terminal
// result is rejected outright; a student with live progress resumes with the
// persisted start time, which is what keeps the countdown correct across
// page reloads and process restarts.
func (s *examService) Login(ctx context.Context, payload dto.ExamLoginRequest) (dto.ExamSessionResponse, error) {
	payload.Name = strings.TrimSpace(payload.Name)
	payload.StudentID = strings.TrimSpace(payload.StudentID)

	if err := s.validator.Struct(payload); err != nil {
		return dto.ExamSessionResponse{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "exam.login", trace.WithAttributes(
		attribute.String("exam.student_id", payload.StudentID),
	))
	defer span.End()

	completed, err := s.results.ExistsByStudent(spanCtx, payload.StudentID)
	if err != nil {
		span.RecordError(err)
		return dto.ExamSessionResponse{}, err
	}
	if completed {
		return dto.ExamSessionResponse{}, ErrAttemptComplete
	}

	bank, err := s.questions.List(spanCtx)
	if err != nil {
		span.RecordError(err)
		return dto.ExamSessionResponse{}, err
	}

	existing, err := s.progress.GetByStudent(spanCtx, payload.StudentID)
	if err == nil {
		if s.clock(existing).Expired(s.now()) {
			if _, finErr := s.finalize(spanCtx, existing, bank, true); finErr != nil {
				return dto.ExamSessionResponse{}, finErr
			}
			return dto.ExamSessionResponse{}, ErrTimeExpired
		}

		s.logger.Info().Str("student_id", payload.StudentID).Msg("attempt resumed")
		return s.session(existing, bank, true), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		span.RecordError(err)
		return dto.ExamSessionResponse{}, err
	}

	if len(bank) == 0 {
		return dto.ExamSessionResponse{}, ErrNoQuestions
	}

	fresh := models.ExamProgress{
		StudentID:       payload.StudentID,
		Name:            payload.Name,
		StartTime:       s.now(),
		Answers:         []byte("{}"),
		Started:         true,
		DurationSeconds: int(s.attemptDuration(spanCtx).Seconds()),
	}
	if err := s.progress.Save(spanCtx, &fresh); err != nil {
		span.RecordError(err)
		return dto.ExamSessionResponse{}, err
	}

	s.logger.Info().Str("student_id", payload.StudentID).Msg("attempt started")

	return s.session(fresh, bank, false), nil
}

// Status reports remaining time and persisted answers. Observing an expired
// clock forces the auto-submit transition before anything is returned.
func (s *examService) Status(ctx context.Context, studentID string) (dto.ExamSessionResponse, error) {
	progress, err := s.loadLive(ctx, studentID)
	if err != nil {
		return dto.ExamSessionResponse{}, err
	}

	return s.session(progress, nil, true), nil
}

// Answer persists a single choice, write-through. No input is accepted once
// the clock has run out.
func (s *examService) Answer(ctx context.Context, payload dto.ExamAnswerRequest) (dto.ExamSessionResponse, error) {
	payload.StudentID = strings.TrimSpace(payload.StudentID)

	if err := s.validator.Struct(payload); err != nil {
		return dto.ExamSessionResponse{}, err
	}

	progress, err := s.loadLive(ctx, payload.StudentID)
	if err != nil {
		return dto.ExamSessionResponse{}, err
	}

	answers := progress.AnswerMap()
	answers[payload.QuestionID] = payload.Choice
	encoded, err := json.Marshal(answers)
	if err != nil {
		return dto.ExamSessionResponse{}, err
	}
	progress.Answers = encoded

	if err := s.progress.Save(ctx, &progress); err != nil {
		return dto.ExamSessionResponse{}, err
	}

	return s.session(progress, nil, true), nil
}

// Submit finishes the attempt. An incomplete attempt without force gets an
// IncompleteSubmitError so the student can confirm or continue; the timer
// keeps running either way.
func (s *examService) Submit(ctx context.Context, payload dto.ExamSubmitRequest) (dto.ExamResultResponse, error) {
	payload.StudentID = strings.TrimSpace(payload.StudentID)

	if err := s.validator.Struct(payload); err != nil {
		return dto.ExamResultResponse{}, err
	}

	progress, err := s.loadLive(ctx, payload.StudentID)
	if err != nil {
		return dto.ExamResultResponse{}, err
	}

	bank, err := s.questions.List(ctx)
	if err != nil {
		return dto.ExamResultResponse{}, err
	}

	if !payload.Force {
		unanswered := len(bank) - len(progress.AnswerMap())
		if unanswered > 0 {
			return dto.ExamResultResponse{}, &IncompleteSubmitError{Unanswered: unanswered, Total: len(bank)}
		}
	}

	return s.finalize(ctx, progress, bank, false)
}

// Remaining reports the live countdown without side effects, for the timer stream.
func (s *examService) Remaining(ctx context.Context, studentID string) (time.Duration, error) {
	progress, err := s.progress.GetByStudent(ctx, strings.TrimSpace(studentID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrAttemptNotFound
		}
		return 0, err
	}

	return s.clock(progress).Remaining(s.now()), nil
}

func (s *examService) Results(ctx context.Context) ([]dto.ExamResultResponse, error) {
	results, err := s.results.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewExamResultResponseSlice(results), nil
}

func (s *examService) ExportResultsCSV(ctx context.Context, w io.Writer) error {
	results, err := s.results.List(ctx)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(results))
	for _, result := range results {
		rows = append(rows, []string{
			result.CreatedAt.Format(time.DateTime),
			result.StudentID,
			result.Name,
			fmt.Sprintf("%d", result.Score),
			fmt.Sprintf("%d", result.TotalQuestions),
			fmt.Sprintf("%.1f", result.Percentage),
			fmt.Sprintf("%d", result.TimeTakenSeconds),
		})
	}

	return writeCSV(w, []string{"Timestamp", "Matric Number", "Name", "Score", "Total", "Percentage", "Time Taken (s)"}, rows)
}

// Stats aggregates terminal results, cached in Redis when configured.
func (s *examService) Stats(ctx context.Context) (dto.ExamStatsResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, examStatsCacheKey).Result(); err == nil {
			var stats dto.ExamStatsResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &stats); unmarshalErr == nil {
				s.logger.Debug().Msg("exam stats cache hit")
				return stats, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read exam stats cache")
		}
	}

	results, err := s.results.List(ctx)
	if err != nil {
		return dto.ExamStatsResponse{}, err
	}

	stats := buildExamStats(results)

	if s.cache != nil {
		if payload, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, examStatsCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store exam stats cache")
			}
		}
	}

	return stats, nil
}

// Config reports the duration applied to newly started attempts.
func (s *examService) Config(ctx context.Context) (dto.ExamConfigResponse, error) {
	return dto.ExamConfigResponse{
		DurationMinutes: int(s.attemptDuration(ctx).Minutes()),
	}, nil
}

// UpdateConfig persists a new test duration. Attempts already in flight keep
// the duration copied into their progress record when they started.
func (s *examService) UpdateConfig(ctx context.Context, payload dto.ExamConfigRequest) (dto.ExamConfigResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ExamConfigResponse{}, err
	}

	setting := models.ExamSetting{DurationSeconds: payload.DurationMinutes * 60}
	if err := s.settings.Upsert(ctx, &setting); err != nil {
		return dto.ExamConfigResponse{}, err
	}

	s.logger.Info().Int("duration_minutes", payload.DurationMinutes).Msg("test duration updated")

	return dto.ExamConfigResponse{DurationMinutes: payload.DurationMinutes}, nil
}

// attemptDuration resolves the duration for a fresh attempt: the admin
// setting when one exists, the configured default otherwise.
func (s *examService) attemptDuration(ctx context.Context) time.Duration {
	if s.settings == nil {
		return s.duration
	}

	setting, err := s.settings.Get(ctx)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn().Err(err).Msg("failed to read exam setting, using default duration")
		}
		return s.duration
	}
	if setting.DurationSeconds <= 0 {
		return s.duration
	}

	return time.Duration(setting.DurationSeconds) * time.Second
}

// loadLive fetches the student's progress and enforces the expiry transition:
// an expired attempt is auto-submitted on the spot and ErrTimeExpired returned.
func (s *examService) loadLive(ctx context.Context, studentID string) (models.ExamProgress, error) {
	progress, err := s.progress.GetByStudent(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			completed, existsErr := s.results.ExistsByStudent(ctx, studentID)
			if existsErr != nil {
				return models.ExamProgress{}, existsErr
			}
			if completed {
				return models.ExamProgress{}, ErrAttemptComplete
			}
			return models.ExamProgress{}, ErrAttemptNotFound
		}
		return models.ExamProgress{}, err
	}

	if s.clock(progress).Expired(s.now()) {
		bank, bankErr := s.questions.List(ctx)
		if bankErr != nil {
			return models.ExamProgress{}, bankErr
		}
		if _, finErr := s.finalize(ctx, progress, bank, true); finErr != nil {
			return models.ExamProgress{}, finErr
		}
		return models.ExamProgress{}, ErrTimeExpired
	}

	return progress, nil
}

// finalize scores the attempt, writes the terminal result and removes the
// progress record so the attempt can never be resumed.
func (s *examService) finalize(ctx context.Context, progress models.ExamProgress, bank []models.Question, auto bool) (dto.ExamResultResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "exam.finalize", trace.WithAttributes(
		attribute.String("exam.student_id", progress.StudentID),
		attribute.Bool("exam.auto_submitted", auto),
	))
	defer span.End()

	answers := progress.AnswerMap()
	score := 0
	for _, question := range bank {
		if answers[question.QID] == question.CorrectAnswer {
			score++
		}
	}

	total := len(bank)
	percentage := 0.0
	if total > 0 {
		percentage = 100 * float64(score) / float64(total)
	}

	elapsed := s.now().Sub(progress.StartTime)
	if limit := time.Duration(progress.DurationSeconds) * time.Second; auto && elapsed > limit {
		elapsed = limit
	}

	result := models.ExamResult{
		StudentID:        progress.StudentID,
		Name:             progress.Name,
		Score:            score,
		TotalQuestions:   total,
		Percentage:       percentage,
		TimeTakenSeconds: int(elapsed.Seconds()),
		AutoSubmitted:    auto,
	}
	if err := s.results.Create(spanCtx, &result); err != nil {
		span.RecordError(err)
		return dto.ExamResultResponse{}, err
	}

	if err := s.progress.Delete(spanCtx, progress.StudentID); err != nil {
		span.RecordError(err)
		return dto.ExamResultResponse{}, err
	}

	mode := "manual"
	if auto {
		mode = "auto"
	}
	observability.ExamSubmissions().WithLabelValues(mode).Inc()
	s.invalidateStats(spanCtx)
	if s.events != nil {
		s.events.Publish(spanCtx, Event{Type: EventExamCompleted, StudentID: progress.StudentID})
	}

	s.logger.Info().
		Str("student_id", progress.StudentID).
		Int("score", score).
		Int("total", total).
		Bool("auto", auto).
		Msg("attempt finalized")

	return dto.NewExamResultResponse(result), nil
}

func (s *examService) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, examStatsCacheKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate exam stats cache")
	}
}

func (s *examService) clock(progress models.ExamProgress) window.Window {
	return window.Window{
		StartedAt: progress.StartTime,
		Duration:  time.Duration(progress.DurationSeconds) * time.Second,
	}
}

func (s *examService) session(progress models.ExamProgress, bank []models.Question, resumed bool) dto.ExamSessionResponse {
	response := dto.ExamSessionResponse{
		StudentID:        progress.StudentID,
		Resumed:          resumed,
		RemainingSeconds: int(s.clock(progress).Remaining(s.now()).Seconds()),
		Answers:          progress.AnswerMap(),
	}
	if bank != nil {
		response.Questions = dto.NewStudentQuestionResponseSlice(bank)
	}

	return response
}

func buildExamStats(results []models.ExamResult) dto.ExamStatsResponse {
	stats := dto.ExamStatsResponse{TotalAttempts: len(results)}
	if len(results) == 0 {
		return stats
	}

	scoreSum := 0
	percentSum := 0.0
	stats.HighestScore = results[0].Score
	stats.LowestScore = results[0].Score
	for _, result := range results {
		scoreSum += result.Score
		percentSum += result.Percentage
		if result.Score > stats.HighestScore {
			stats.HighestScore = result.Score
		}
		if result.Score < stats.LowestScore {
			stats.LowestScore = result.Score
		}
		if result.AutoSubmitted {
			stats.AutoSubmitted++
		}
	}

	stats.AverageScore = float64(scoreSum) / float64(len(results))
	stats.AveragePercentage = percentSum / float64(len(results))

	return stats
}
