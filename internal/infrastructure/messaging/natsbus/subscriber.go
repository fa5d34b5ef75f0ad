package natsbus

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/rezkam/newsdesk/internal/domain"
)

// EventHandler receives decoded content events. It runs on the NATS
// dispatch goroutine and must not block.
type EventHandler func(domain.ContentEvent)

// SubscribeConn is the subset of *nats.Conn needed to subscribe.
type SubscribeConn interface {
	Subscribe(subject string, cb nats.MsgHandler) (*nats.Subscription, error)
}

// SubscribeKind delivers every mutation event of kind to handler.
func SubscribeKind(conn SubscribeConn, kind domain.Kind, handler EventHandler) (*nats.Subscription, error) {
	subject := KindSubject(kind)
	sub, err := conn.Subscribe(subject, MessageHandler(handler))
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}
	return sub, nil
}

// MessageHandler decodes messages into events. Messages that are not content
// events are logged and dropped.
func MessageHandler(handler EventHandler) nats.MsgHandler {
	return func(msg *nats.Msg) {
		event, err := DecodeEvent(msg)
		if err != nil {
			slog.Warn("dropping malformed content event",
				slog.String("subject", msg.Subject),
				slog.Any("error", err))
			return
		}
		handler(event)
	}
}

// DecodeEvent parses msg. The subject wins over the payload for kind and mutation.
func DecodeEvent(msg *nats.Msg) (domain.ContentEvent, error) {
	kind, mutation, err := ParseSubject(msg.Subject)
	if err != nil {
		return domain.ContentEvent{}, err
	}
	var event domain.ContentEvent
	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			return domain.ContentEvent{}, fmt.Errorf("failed to decode event: %w", err)
		}
	}
	event.Kind = kind
	event.Mutation = mutation
	return event, nil
}
