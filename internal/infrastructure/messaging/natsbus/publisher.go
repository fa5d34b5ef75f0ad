package natsbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/rezkam/newsdesk/internal/application/content"
	"github.com/rezkam/newsdesk/internal/domain"
)

var _ content.EventPublisher = (*Publisher)(nil)

// Conn is the subset of *nats.Conn the publisher uses.
type Conn interface {
	Publish(subject string, data []byte) error
	Drain() error
	IsClosed() bool
}

// Publisher announces content mutations.
type Publisher struct {
	conn Conn
}

// NewPublisher wraps an open connection. The publisher owns it.
func NewPublisher(conn Conn) *Publisher {
	return &Publisher{conn: conn}
}

// Publish sends event on its content subject.
func (p *Publisher) Publish(ctx context.Context, event domain.ContentEvent) error {
	subject := Subject(event.Kind, event.Mutation)
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event for %s: %w", subject, err)
	}
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish %s: %w", subject, err)
	}
	slog.DebugContext(ctx, "published content event",
		slog.String("subject", subject),
		slog.String("item_id", event.ItemID))
	return nil
}

// Close drains buffered messages and closes the connection.
// It satisfies the shutdown hooks of the binaries.
func (p *Publisher) Close() error {
	if p.conn == nil || p.conn.IsClosed() {
		return nil
	}
	if err := p.conn.Drain(); err != nil {
		return fmt.Errorf("failed to drain NATS connection: %w", err)
	}
	return nil
}

var _ Conn = (*nats.Conn)(nil)
