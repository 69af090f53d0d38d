// Package events publishes notifications to AMQP when a user completes the
// authorization flow, so that downstream services can react without polling.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	twitterauth "github.com/golden-vcr/twitter-auth"
)

// ExchangeName is the fanout exchange that completion events are published
// to: every bound queue gets a copy
const ExchangeName = "twitter-auth-events"

// Producer writes authorization-completed events to our AMQP exchange
type Producer struct {
	ch *amqp.Channel
}

// NewProducer opens a channel on the given connection and declares the
// twitter-auth-events exchange, creating it if it doesn't already exist
func NewProducer(conn *amqp.Connection) (*Producer, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open AMQP channel: %w", err)
	}
	if err := ch.ExchangeDeclare(ExchangeName, "fanout", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("failed to declare exchange '%s': %w", ExchangeName, err)
	}
	return &Producer{ch: ch}, nil
}

// PublishAuthorizationCompleted emits an event recording that a session just
// finished the flow and now holds a working access credential
func (p *Producer) PublishAuthorizationCompleted(ctx context.Context) error {
	data, err := json.Marshal(twitterauth.AuthorizationCompletedEvent{
		Type:        twitterauth.EventTypeAuthorizationCompleted,
		CompletedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if err := p.ch.PublishWithContext(ctx, ExchangeName, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        data,
	}); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}
