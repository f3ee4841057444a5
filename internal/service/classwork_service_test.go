package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/adebimpe-ng/course-portal-api/internal/dto"
	"github.com/adebimpe-ng/course-portal-api/internal/models"
)

type classworkWindowRepoStub struct {
	windows map[string]models.ClassworkWindow
}

func newClassworkWindowRepoStub() *classworkWindowRepoStub {
	return &classworkWindowRepoStub{windows: map[string]models.ClassworkWindow{}}
}

func (s *classworkWindowRepoStub) GetByWeek(ctx context.Context, week string) (models.ClassworkWindow, error) {
	record, ok := s.windows[week]
	if !ok {
		return models.ClassworkWindow{}, gorm.ErrRecordNotFound
	}
	return record, nil
}

func (s *classworkWindowRepoStub) Upsert(ctx context.Context, window *models.ClassworkWindow) error {
	s.windows[window.Week] = *window
	return nil
}

func (s *classworkWindowRepoStub) ListOpen(ctx context.Context) ([]models.ClassworkWindow, error) {
	open := make([]models.ClassworkWindow, 0, len(s.windows))
	for _, record := range s.windows {
		if record.IsOpen {
			open = append(open, record)
		}
	}
	return open, nil
}

type classworkSubmissionRepoStub struct {
	submissions []models.ClassworkSubmission
}

func (s *classworkSubmissionRepoStub) Create(ctx context.Context, submission *models.ClassworkSubmission) error {
	submission.ID = uint(len(s.submissions) + 1)
	s.submissions = append(s.submissions, *submission)
	return nil
}

func (s *classworkSubmissionRepoStub) Exists(ctx context.Context, studentID, week string) (bool, error) {
	for _, submission := range s.submissions {
		if submission.StudentID == studentID && submission.Week == week {
			return true, nil
		}
	}
	return false, nil
}

func (s *classworkSubmissionRepoStub) List(ctx context.Context) ([]models.ClassworkSubmission, error) {
	return s.submissions, nil
}

func newClassworkFixture(t *testing.T) (*classworkService, *classworkWindowRepoStub, *classworkSubmissionRepoStub, *time.Time) {
	t.Helper()

	windows := newClassworkWindowRepoStub()
	submissions := &classworkSubmissionRepoStub{}

	svc := NewClassworkService(windows, submissions, 20*time.Minute, testValidator(), nil, testLogger()).(*classworkService)

	current := time.Date(2025, time.October, 6, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return current }

	return svc, windows, submissions, &current
}

func TestClassworkWindowLifecycle(t *testing.T) {
	svc, _, _, current := newClassworkFixture(t)

	state, err := svc.Open(context.Background(), "Week 1–2")
	require.NoError(t, err)
	require.True(t, state.IsOpen)
	require.Equal(t, int((20 * time.Minute).Seconds()), state.RemainingSeconds)

	*current = current.Add(19 * time.Minute)
	state, err = svc.State(context.Background(), "Week 1–2")
	require.NoError(t, err)
	require.True(t, state.IsOpen)
	require.Equal(t, 60, state.RemainingSeconds)

	*current = current.Add(2 * time.Minute)
	state, err = svc.State(context.Background(), "Week 1–2")
	require.NoError(t, err)
	require.False(t, state.IsOpen)
	require.Zero(t, state.RemainingSeconds)
}

func TestClassworkSweepClosesExpiredWindows(t *testing.T) {
	svc, windows, _, current := newClassworkFixture(t)

	_, err := svc.Open(context.Background(), "Week 1–2")
	require.NoError(t, err)
	_, err = svc.Open(context.Background(), "Week 3–4")
	require.NoError(t, err)

	*current = current.Add(21 * time.Minute)

	closed, err := svc.Sweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, closed)
	require.False(t, windows.windows["Week 1–2"].IsOpen)
	require.False(t, windows.windows["Week 3–4"].IsOpen)

	closed, err = svc.Sweep(context.Background())
	require.NoError(t, err)
	require.Zero(t, closed)
}

func TestClassworkUnknownWeekIsClosed(t *testing.T) {
	svc, _, _, _ := newClassworkFixture(t)

	state, err := svc.State(context.Background(), "Week 9")
	require.NoError(t, err)
	require.False(t, state.IsOpen)
}

func TestClassworkSubmitRequiresOpenWindow(t *testing.T) {
	svc, _, _, current := newClassworkFixture(t)

	payload := dto.ClassworkSubmitRequest{
		Name:      "Ada Obi",
		StudentID: "BIO/001",
		Week:      "Week 1–2",
		Answers:   []string{"mitochondria", "osmosis"},
	}

	_, err := svc.Submit(context.Background(), payload)
	require.ErrorIs(t, err, ErrWindowClosed)

	_, err = svc.Open(context.Background(), "Week 1–2")
	require.NoError(t, err)

	response, err := svc.Submit(context.Background(), payload)
	require.NoError(t, err)
	require.False(t, response.AlreadySubmitted)

	*current = current.Add(21 * time.Minute)
	_, err = svc.Submit(context.Background(), dto.ClassworkSubmitRequest{
		Name:      "Ngozi Eze",
		StudentID: "BIO/002",
		Week:      "Week 1–2",
		Answers:   []string{"late"},
	})
	require.ErrorIs(t, err, ErrWindowClosed)
}

func TestClassworkDuplicateSubmission(t *testing.T) {
	svc, _, submissions, _ := newClassworkFixture(t)

	_, err := svc.Open(context.Background(), "Week 1–2")
	require.NoError(t, err)

	payload := dto.ClassworkSubmitRequest{
		Name:      "Ada Obi",
		StudentID: "BIO/001",
		Week:      "Week 1–2",
		Answers:   []string{"first"},
	}

	_, err = svc.Submit(context.Background(), payload)
	require.NoError(t, err)

	payload.Answers = []string{"second"}
	response, err := svc.Submit(context.Background(), payload)
	require.NoError(t, err)
	require.True(t, response.AlreadySubmitted)
	require.Len(t, submissions.submissions, 1)
}
