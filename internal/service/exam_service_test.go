package service

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/adebimpe-ng/course-portal-api/internal/dto"
	"github.com/adebimpe-ng/course-portal-api/internal/models"
)

type examProgressStub struct {
	records map[string]models.ExamProgress
}

func newExamProgressStub() *examProgressStub {
	return &examProgressStub{records: map[string]models.ExamProgress{}}
}

func (s *examProgressStub) GetByStudent(ctx context.Context, studentID string) (models.ExamProgress, error) {
	record, ok := s.records[studentID]
	if !ok {
		return models.ExamProgress{}, gorm.ErrRecordNotFound
	}
	return record, nil
}

func (s *examProgressStub) Save(ctx context.Context, progress *models.ExamProgress) error {
	s.records[progress.StudentID] = *progress
	return nil
}

func (s *examProgressStub) Delete(ctx context.Context, studentID string) error {
	delete(s.records, studentID)
	return nil
}

type examResultStub struct {
	results []models.ExamResult
}

func (s *examResultStub) Create(ctx context.Context, result *models.ExamResult) error {
	result.ID = uint(len(s.results) + 1)
	result.CreatedAt = time.Now()
	s.results = append(s.results, *result)
	return nil
}

func (s *examResultStub) ExistsByStudent(ctx context.Context, studentID string) (bool, error) {
	for _, result := range s.results {
		if result.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (s *examResultStub) List(ctx context.Context) ([]models.ExamResult, error) {
	return s.results, nil
}

type questionStub struct {
	items []models.Question
}

func (s *questionStub) List(ctx context.Context) ([]models.Question, error) {
	return s.items, nil
}

func (s *questionStub) Count(ctx context.Context) (int64, error) {
	return int64(len(s.items)), nil
}

func (s *questionStub) ReplaceAll(ctx context.Context, questions []models.Question) error {
	s.items = questions
	return nil
}

type examSettingStub struct {
	setting *models.ExamSetting
}

func (s *examSettingStub) Get(ctx context.Context) (models.ExamSetting, error) {
	if s.setting == nil {
		return models.ExamSetting{}, gorm.ErrRecordNotFound
	}
	return *s.setting, nil
}

func (s *examSettingStub) Upsert(ctx context.Context, setting *models.ExamSetting) error {
	setting.ID = 1
	s.setting = setting
	return nil
}

func fourQuestionBank() *questionStub {
	options := []byte(`["one","two","three","four"]`)
	return &questionStub{items: []models.Question{
		{QID: "1", Text: "first", Options: options, CorrectAnswer: "A"},
		{QID: "2", Text: "second", Options: options, CorrectAnswer: "B"},
		{QID: "3", Text: "third", Options: options, CorrectAnswer: "C"},
		{QID: "4", Text: "fourth", Options: options, CorrectAnswer: "D"},
	}}
}

func newExamFixture(t *testing.T, duration time.Duration) (*examService, *examProgressStub, *examResultStub, *questionStub, *time.Time) {
	t.Helper()

	progress := newExamProgressStub()
	results := &examResultStub{}
	questions := fourQuestionBank()

	svc := NewExamService(progress, results, questions, &examSettingStub{}, duration, nil, time.Minute, testValidator(), nil, testLogger()).(*examService)

	current := time.Date(2025, time.October, 6, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return current }

	return svc, progress, results, questions, &current
}

func TestExamLoginStartsAttempt(t *testing.T) {
	svc, progress, _, _, current := newExamFixture(t, 30*time.Minute)

	session, err := svc.Login(context.Background(), dto.ExamLoginRequest{Name: "Ada", StudentID: "BIO/001"})
	require.NoError(t, err)
	require.False(t, session.Resumed)
	require.Equal(t, int((30 * time.Minute).Seconds()), session.RemainingSeconds)
	require.Len(t, session.Questions, 4)
	require.Empty(t, session.Answers)

	stored, ok := progress.records["BIO/001"]
	require.True(t, ok)
	require.Equal(t, *current, stored.StartTime)
	require.Equal(t, int((30*time.Minute).Seconds()), stored.DurationSeconds)
}

func TestExamResumeKeepsStartTime(t *testing.T) {
	svc, progress, _, _, current := newExamFixture(t, 30*time.Minute)

	started := *current
	_, err := svc.Login(context.Background(), dto.ExamLoginRequest{Name: "Ada", StudentID: "BIO/001"})
	require.NoError(t, err)

	_, err = svc.Answer(context.Background(), dto.ExamAnswerRequest{StudentID: "BIO/001", QuestionID: "1", Choice: "A"})
	require.NoError(t, err)

	*current = current.Add(10 * time.Minute)

	session, err := svc.Login(context.Background(), dto.ExamLoginRequest{Name: "Ada", StudentID: "BIO/001"})
	require.NoError(t, err)
	require.True(t, session.Resumed)
	require.Equal(t, int((20 * time.Minute).Seconds()), session.RemainingSeconds)
	require.Equal(t, "A", session.Answers["1"])
	require.Equal(t, started, progress.records["BIO/001"].StartTime)
}

func TestExamScoring(t *testing.T) {
	svc, _, results, _, _ := newExamFixture(t, 30*time.Minute)

	_, err := svc.Login(context.Background(), dto.ExamLoginRequest{Name: "Ada", StudentID: "BIO/001"})
	require.NoError(t, err)

	answers := map[string]string{"1": "A", "2": "B", "3": "D", "4": "D"}
	for qid, choice := range answers {
		_, err := svc.Answer(context.Background(), dto.ExamAnswerRequest{StudentID: "BIO/001", QuestionID: qid, Choice: choice})
		require.NoError(t, err)
	}

	result, err := svc.Submit(context.Background(), dto.ExamSubmitRequest{StudentID: "BIO/001"})
	require.NoError(t, err)
	require.Equal(t, 3, result.Score)
	require.Equal(t, 4, result.TotalQuestions)
	require.InDelta(t, 75.0, result.Percentage, 0.001)
	require.False(t, result.AutoSubmitted)
	require.Len(t, results.results, 1)
}

func TestExamSubmitIncompleteNeedsConfirmation(t *testing.T) {
	svc, progress, _, _, _ := newExamFixture(t, 30*time.Minute)

	_, err := svc.Login(context.Background(), dto.ExamLoginRequest{Name: "Ada", StudentID: "BIO/001"})
	require.NoError(t, err)

	_, err = svc.Answer(context.Background(), dto.ExamAnswerRequest{StudentID: "BIO/001", QuestionID: "1", Choice: "A"})
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), dto.ExamSubmitRequest{StudentID: "BIO/001"})
	var incomplete *IncompleteSubmitError
	require.ErrorAs(t, err, &incomplete)
	require.Equal(t, 3, incomplete.Unanswered)
	require.Equal(t, 4, incomplete.Total)

	_, stillRunning := progress.records["BIO/001"]
	require.True(t, stillRunning)

	result, err := svc.Submit(context.Background(), dto.ExamSubmitRequest{StudentID: "BIO/001", Force: true})
	require.NoError(t, err)
	require.Equal(t, 1, result.Score)

	_, stillRunning = progress.records["BIO/001"]
	require.False(t, stillRunning)
}

func TestExamExpiryAutoSubmits(t *testing.T) {
	svc, progress, results, _, current := newExamFixture(t, time.Second)

	_, err := svc.Login(context.Background(), dto.ExamLoginRequest{Name: "Ada", StudentID: "BIO/001"})
	require.NoError(t, err)

	_, err = svc.Answer(context.Background(), dto.ExamAnswerRequest{StudentID: "BIO/001", QuestionID: "1", Choice: "A"})
	require.NoError(t, err)

	*current = current.Add(2 * time.Second)

	_, err = svc.Status(context.Background(), "BIO/001")
	require.ErrorIs(t, err, ErrTimeExpired)

	require.Len(t, results.results, 1)
	require.True(t, results.results[0].AutoSubmitted)
	require.Equal(t, 1, results.results[0].Score)
	require.Equal(t, 1, results.results[0].TimeTakenSeconds)

	_, ok := progress.records["BIO/001"]
	require.False(t, ok)
}

func TestExamAnswerRejectedAfterExpiry(t *testing.T) {
	svc, _, results, _, current := newExamFixture(t, time.Second)

	_, err := svc.Login(context.Background(), dto.ExamLoginRequest{Name: "Ada", StudentID: "BIO/001"})
	require.NoError(t, err)

	*current = current.Add(5 * time.Second)

	_, err = svc.Answer(context.Background(), dto.ExamAnswerRequest{StudentID: "BIO/001", QuestionID: "2", Choice: "B"})
	require.ErrorIs(t, err, ErrTimeExpired)

	require.Len(t, results.results, 1)
	require.Equal(t, 0, results.results[0].Score)
}

func TestExamResultBlocksRelogin(t *testing.T) {
	svc, _, _, _, current := newExamFixture(t, time.Second)

	_, err := svc.Login(context.Background(), dto.ExamLoginRequest{Name: "Ada", StudentID: "BIO/001"})
	require.NoError(t, err)

	*current = current.Add(2 * time.Second)

	_, err = svc.Login(context.Background(), dto.ExamLoginRequest{Name: "Ada", StudentID: "BIO/001"})
	require.ErrorIs(t, err, ErrTimeExpired)

	_, err = svc.Login(context.Background(), dto.ExamLoginRequest{Name: "Ada", StudentID: "BIO/001"})
	require.ErrorIs(t, err, ErrAttemptComplete)

	_, err = svc.Status(context.Background(), "BIO/001")
	require.ErrorIs(t, err, ErrAttemptComplete)
}

func TestExamLoginEmptyBank(t *testing.T) {
	svc, _, _, questions, _ := newExamFixture(t, 30*time.Minute)
	questions.items = nil

	_, err := svc.Login(context.Background(), dto.ExamLoginRequest{Name: "Ada", StudentID: "BIO/001"})
	require.ErrorIs(t, err, ErrNoQuestions)
}

func TestExamStatsCaching(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer redisClient.Close()

	results := &examResultStub{results: []models.ExamResult{
		{StudentID: "BIO/001", Score: 3, TotalQuestions: 4, Percentage: 75},
		{StudentID: "BIO/002", Score: 1, TotalQuestions: 4, Percentage: 25, AutoSubmitted: true},
	}}

	svc := NewExamService(newExamProgressStub(), results, fourQuestionBank(), &examSettingStub{}, 30*time.Minute, redisClient, time.Minute, testValidator(), nil, testLogger())

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, stats.TotalAttempts)
	require.InDelta(t, 2.0, stats.AverageScore, 0.001)
	require.InDelta(t, 50.0, stats.AveragePercentage, 0.001)
	require.Equal(t, 3, stats.HighestScore)
	require.Equal(t, 1, stats.LowestScore)
	require.Equal(t, 1, stats.AutoSubmitted)

	results.results = nil
	cached, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, cached.TotalAttempts)
}

func TestExamStatusWithoutAttempt(t *testing.T) {
	svc, _, _, _, _ := newExamFixture(t, 30*time.Minute)

	_, err := svc.Status(context.Background(), "BIO/404")
	require.True(t, errors.Is(err, ErrAttemptNotFound))
}

func TestExamConfigAppliesToNewAttemptsOnly(t *testing.T) {
	svc, progress, _, _, _ := newExamFixture(t, 30*time.Minute)

	config, err := svc.Config(context.Background())
	require.NoError(t, err)
	require.Equal(t, 30, config.DurationMinutes)

	_, err = svc.Login(context.Background(), dto.ExamLoginRequest{Name: "Ada", StudentID: "BIO/001"})
	require.NoError(t, err)

	updated, err := svc.UpdateConfig(context.Background(), dto.ExamConfigRequest{DurationMinutes: 45})
	require.NoError(t, err)
	require.Equal(t, 45, updated.DurationMinutes)

	// The attempt already in flight keeps the duration it started with.
	require.Equal(t, int((30*time.Minute).Seconds()), progress.records["BIO/001"].DurationSeconds)

	session, err := svc.Login(context.Background(), dto.ExamLoginRequest{Name: "Obi", StudentID: "BIO/002"})
	require.NoError(t, err)
	require.Equal(t, int((45*time.Minute).Seconds()), session.RemainingSeconds)
	require.Equal(t, int((45*time.Minute).Seconds()), progress.records["BIO/002"].DurationSeconds)
}

func TestExamConfigRejectsZeroDuration(t *testing.T) {
	svc, _, _, _, _ := newExamFixture(t, 30*time.Minute)

	_, err := svc.UpdateConfig(context.Background(), dto.ExamConfigRequest{DurationMinutes: 0})
	require.Error(t, err)

	config, err := svc.Config(context.Background())
	require.NoError(t, err)
	require.Equal(t, 30, config.DurationMinutes)
}
