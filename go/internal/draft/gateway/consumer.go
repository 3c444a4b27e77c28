package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/mkelleher/rinkdraft/go/internal/draft/events"
)

// EventConsumer subscribes to the draft event subjects and hands each event
// to the connection manager for fan-out.
type EventConsumer struct {
	manager       *ConnectionManager
	nc            *nats.Conn
	sub           *nats.Subscription
	subjectPrefix string
}

// NewEventConsumer connects to NATS. Call Run to start consuming.
func NewEventConsumer(manager *ConnectionManager, url, subjectPrefix string) (*EventConsumer, error) {
	nc, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return &EventConsumer{
		manager:       manager,
		nc:            nc,
		subjectPrefix: subjectPrefix,
	}, nil
}

// Run subscribes to all draft event subjects and blocks until the context is
// cancelled.
func (ec *EventConsumer) Run(ctx context.Context) error {
	subject := ec.subjectPrefix + ".>"
	sub, err := ec.nc.Subscribe(subject, ec.handle)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", subject, err)
	}
	ec.sub = sub

	log.Info().Str("subject", subject).Msg("event consumer started")
	<-ctx.Done()

	if err := sub.Unsubscribe(); err != nil {
		log.Warn().Err(err).Msg("failed to unsubscribe")
	}
	ec.nc.Close()
	return ctx.Err()
}

func (ec *EventConsumer) handle(msg *nats.Msg) {
	var event events.DraftEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		log.Error().Err(err).Str("subject", msg.Subject).Msg("failed to decode draft event")
		return
	}

	draftID, err := uuid.Parse(event.DraftID)
	if err != nil {
		log.Error().Err(err).Str("subject", msg.Subject).Msg("draft event has invalid draft id")
		return
	}

	log.Debug().
		Str("event_type", string(event.Type)).
		Str("draft_id", event.DraftID).
		Msg("relaying draft event")
	ec.manager.Broadcast(draftID, msg.Data)
}
