package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"

	"github.com/hagateway/twilio-dispatch/environments"
	"github.com/hagateway/twilio-dispatch/internal/domain"
	"github.com/hagateway/twilio-dispatch/pkg/logger"
)

const (
	dispatchCompletedType = "notifications.dispatch.completed.v1"
	producerName          = "twilio-dispatch-gateway"
)

// Meta carries event identity and provenance.
type Meta struct {
	ID       string    `json:"id"`
	Type     string    `json:"type"`
	Producer string    `json:"producer,omitempty"`
	Time     time.Time `json:"time"`
}

// Envelope is the wire shape of every published event.
type Envelope struct {
	Meta Meta `json:"meta"`
	Data any  `json:"data"`
}

type dispatchCompletedData struct {
	DispatchID string                   `json:"dispatch_id"`
	FromNumber string                   `json:"from_number"`
	Status     domain.DispatchStatus    `json:"status"`
	Sent       int                      `json:"sent"`
	Failed     int                      `json:"failed"`
	Outcomes   []domain.DispatchOutcome `json:"outcomes"`
}

// Publisher emits dispatch lifecycle events to a durable topic exchange.
// It is optional infrastructure: the gateway runs without it, and publish
// failures are logged by the caller, never escalated into the dispatch.
type Publisher struct {
	conn     *amqp091.Connection
	exchange string
}

func NewPublisher(cfg environments.EventsConfig) (*Publisher, error) {
	conn, err := amqp091.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to AMQP broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	logger.Infof("Connected to AMQP broker (exchange: %s)", cfg.Exchange)

	return &Publisher{
		conn:     conn,
		exchange: cfg.Exchange,
	}, nil
}

func (p *Publisher) PublishDispatchCompleted(
	ctx context.Context,
	d *domain.Dispatch,
	result *domain.AggregateResult,
) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	env := Envelope{
		Meta: Meta{
			ID:       uuid.NewString(),
			Type:     dispatchCompletedType,
			Producer: producerName,
			Time:     time.Now().UTC(),
		},
		Data: dispatchCompletedData{
			DispatchID: d.ID,
			FromNumber: d.FromNumber,
			Status:     result.Status(),
			Sent:       result.Sent,
			Failed:     result.Failed,
			Outcomes:   result.Outcomes,
		},
	}

	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = ch.PublishWithContext(
		ctx, p.exchange, dispatchCompletedType, false, false,
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    env.Meta.ID,
			Timestamp:    env.Meta.Time,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	logger.Debugf("Published %s for dispatch %s", dispatchCompletedType, d.ID)

	return nil
}

func (p *Publisher) Close() error {
	return p.conn.Close()
}
