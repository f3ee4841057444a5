package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newSessionFixture() (*sessionService, *time.Time) {
	svc := NewSessionService(60*time.Minute, 20*time.Minute, testLogger()).(*sessionService)

	current := time.Date(2025, time.October, 6, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return current }

	return svc, &current
}

func TestSessionStartsOnFirstStatus(t *testing.T) {
	svc, _ := newSessionFixture()

	status := svc.Status()
	require.Equal(t, 3600, status.RemainingSeconds)
	require.False(t, status.ClassworkRevealed)
	require.False(t, status.LectureOver)
	require.Equal(t, 40, status.MinutesUntilReveal)
}

func TestSessionRevealsClassworkInTail(t *testing.T) {
	svc, current := newSessionFixture()

	svc.Status()
	*current = current.Add(41 * time.Minute)

	status := svc.Status()
	require.True(t, status.ClassworkRevealed)
	require.False(t, status.LectureOver)
	require.Equal(t, int((19 * time.Minute).Seconds()), status.RemainingSeconds)
	require.Zero(t, status.MinutesUntilReveal)
}

func TestSessionEnds(t *testing.T) {
	svc, current := newSessionFixture()

	svc.Status()
	*current = current.Add(61 * time.Minute)

	status := svc.Status()
	require.True(t, status.LectureOver)
	require.True(t, status.ClassworkRevealed)
	require.Zero(t, status.RemainingSeconds)
}

func TestSessionReset(t *testing.T) {
	svc, current := newSessionFixture()

	svc.Status()
	*current = current.Add(61 * time.Minute)
	require.True(t, svc.Status().LectureOver)

	svc.Reset()

	status := svc.Status()
	require.False(t, status.LectureOver)
	require.Equal(t, 3600, status.RemainingSeconds)
}
