package window

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWindowOpenAndExpiry(t *testing.T) {
	start := time.Date(2025, 10, 6, 9, 0, 0, 0, time.UTC)
	w := Window{StartedAt: start, Duration: 20 * time.Minute}

	require.True(t, w.IsOpen(start))
	require.True(t, w.IsOpen(start.Add(19*time.Minute)))
	require.False(t, w.IsOpen(start.Add(21*time.Minute)))
	require.True(t, w.Expired(start.Add(20*time.Minute)))
	require.False(t, w.IsOpen(start.Add(-time.Minute)), "window is closed before its start")
}

func TestWindowRemainingNeverNegative(t *testing.T) {
	start := time.Date(2025, 10, 6, 9, 0, 0, 0, time.UTC)
	w := Window{StartedAt: start, Duration: time.Minute}

	require.Equal(t, time.Minute, w.Remaining(start))
	require.Equal(t, 30*time.Second, w.Remaining(start.Add(30*time.Second)))
	require.Equal(t, time.Duration(0), w.Remaining(start.Add(2*time.Minute)))
}

func TestWindowGraceSegment(t *testing.T) {
	start := time.Date(2025, 10, 6, 9, 0, 0, 0, time.UTC)
	lecture := Window{StartedAt: start, Duration: 60 * time.Minute, Grace: 20 * time.Minute}

	require.False(t, lecture.InGrace(start.Add(30*time.Minute)), "classwork hidden before the final segment")
	require.True(t, lecture.InGrace(start.Add(41*time.Minute)))
	require.True(t, lecture.InGrace(start.Add(59*time.Minute)))
	require.False(t, lecture.InGrace(start.Add(61*time.Minute)), "lecture over, grace over")
}
