package service

import (
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/adebimpe-ng/course-portal-api/internal/dto"
	"github.com/adebimpe-ng/course-portal-api/internal/window"
)

// SessionService tracks the shared lecture session clock. One session is
// global to the portal: it starts the first time anyone asks for it and the
// classwork segment unlocks during the tail of the lecture.
type SessionService interface {
	Status() dto.SessionResponse
	// Reset clears the clock so the next status check starts a fresh session.
	Reset()
}

type sessionService struct {
	mu        sync.Mutex
	startedAt time.Time
	duration  time.Duration
	reveal    time.Duration
	logger    zerolog.Logger
	now       window.Clock
}

// NewSessionService builds the session clock. duration is the lecture length
// and reveal the tail segment during which classwork is shown.
func NewSessionService(duration, reveal time.Duration, logger zerolog.Logger) SessionService {
	return &sessionService{
		duration: duration,
		reveal:   reveal,
		logger:   logger.With().Str("component", "session_service").Logger(),
		now:      time.Now,
	}
}

func (s *sessionService) Status() dto.SessionResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.startedAt.IsZero() {
		s.startedAt = now
		s.logger.Info().Time("started_at", now).Msg("lecture session started")
	}

	win := window.Window{StartedAt: s.startedAt, Duration: s.duration, Grace: s.reveal}

	response := dto.SessionResponse{
		RemainingSeconds:  int(win.Remaining(now).Seconds()),
		ClassworkRevealed: win.InGrace(now) || win.Expired(now),
		LectureOver:       win.Expired(now),
	}
	if !response.ClassworkRevealed {
		untilReveal := win.Remaining(now) - s.reveal
		response.MinutesUntilReveal = int(math.Ceil(untilReveal.Minutes()))
	}

	return response
}

func (s *sessionService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.startedAt = time.Time{}
	s.logger.Info().Msg("lecture session reset")
}
