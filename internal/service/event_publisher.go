package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/noah-isme/padidoc-go-api/internal/observability"
)

// Event subjects, relative to the configured prefix.
const (
	SubjectStockMovement          = "stock.movement"
	SubjectStockLow               = "stock.low"
	SubjectPasswordResetRequested = "auth.password_reset_requested"
)

// EventPublisher broadcasts domain events. Publishing is best effort.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{})
}

// Event is the envelope written to the broker.
type Event struct {
	ID         string          `json:"id"`
	Subject    string          `json:"subject"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

type natsPublisher struct {
	conn   *nats.Conn
	prefix string
	logger zerolog.Logger
	now    func() time.Time
}

// NewEventPublisher publishes to NATS. A nil connection yields a publisher that only logs.
func NewEventPublisher(conn *nats.Conn, prefix string, logger zerolog.Logger) EventPublisher {
	return &natsPublisher{
		conn:   conn,
		prefix: strings.Trim(strings.TrimSpace(prefix), "."),
		logger: logger.With().Str("component", "event_publisher").Logger(),
		now:    time.Now,
	}
}

func (p *natsPublisher) Publish(ctx context.Context, subject string, data interface{}) {
	fullSubject := p.subject(subject)
	payload, err := p.encode(fullSubject, data)
	if err != nil {
		observability.EventPublishFailures().WithLabelValues(fullSubject).Inc()
		p.logger.Error().Err(err).Str("subject", fullSubject).Msg("failed to encode event")
		return
	}

	if p.conn == nil {
		p.logger.Debug().Str("subject", fullSubject).Msg("event broker not configured; event dropped")
		return
	}

	if err := p.conn.Publish(fullSubject, payload); err != nil {
		observability.EventPublishFailures().WithLabelValues(fullSubject).Inc()
		p.logger.Warn().Err(err).Str("subject", fullSubject).Msg("failed to publish event")
	}
}

func (p *natsPublisher) subject(subject string) string {
	if p.prefix == "" {
		return subject
	}
	return p.prefix + "." + subject
}

func (p *natsPublisher) encode(subject string, data interface{}) ([]byte, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Event{
		ID:         uuid.NewString(),
		Subject:    subject,
		OccurredAt: p.now().UTC(),
		Data:       body,
	})
}
