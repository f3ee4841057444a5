package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Event is a domain event emitted when a student record is written.
type Event struct {
	Type      string    `json:"type"`
	StudentID string    `json:"student_id,omitempty"`
	Week      string    `json:"week,omitempty"`
	SentAt    time.Time `json:"sent_at"`
}

// Event types emitted by the portal services.
const (
	EventAttendanceMarked   = "attendance.marked"
	EventClassworkSubmitted = "classwork.submitted"
	EventSeminarSubmitted   = "seminar.submitted"
	EventExamCompleted      = "exam.completed"
)

// EventPublisher fans domain events out to interested consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event Event)
}

type brokerPublisher struct {
	redis        *redis.Client
	redisChannel string
	nats         *nats.Conn
	natsSubject  string
	logger       zerolog.Logger
	now          func() time.Time
}

// NewEventPublisher builds a publisher over the configured brokers. Either
// client may be nil; with both nil every publish is a no-op.
func NewEventPublisher(redisClient *redis.Client, natsConn *nats.Conn, channelBase string, logger zerolog.Logger) EventPublisher {
	channel := ""
	subject := ""
	if channelBase != "" {
		channel = channelBase + ":events"
		subject = strings.ReplaceAll(channelBase, ":", ".") + ".events"
	}

	return &brokerPublisher{
		redis:        redisClient,
		redisChannel: channel,
		nats:         natsConn,
		natsSubject:  subject,
		logger:       logger.With().Str("component", "event_publisher").Logger(),
		now:          time.Now,
	}
}

func (p *brokerPublisher) Publish(ctx context.Context, event Event) {
	if (p.redis == nil || p.redisChannel == "") && (p.nats == nil || p.natsSubject == "") {
		return
	}

	event.SentAt = p.now().UTC()
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn().Err(err).Str("type", event.Type).Msg("failed to encode event")
		return
	}

	if p.redis != nil && p.redisChannel != "" {
		if err := p.redis.Publish(ctx, p.redisChannel, payload).Err(); err != nil {
			p.logger.Warn().Err(err).Str("type", event.Type).Msg("failed to publish event to redis")
		}
	}

	if p.nats != nil && p.natsSubject != "" {
		if err := p.nats.Publish(p.natsSubject, payload); err != nil {
			p.logger.Warn().Err(err).Str("type", event.Type).Msg("failed to publish event to nats")
		}
	}
}
