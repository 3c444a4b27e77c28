package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// Publisher delivers draft events to whatever fan-out sits behind the core:
// the NATS bus in production, a no-op in tests. Emit failures are logged by
// callers and never fail the originating operation.
type Publisher interface {
	Publish(ctx context.Context, event *DraftEvent) error
}

// NATSPublisher publishes draft events to core NATS subjects of the form
// draft.events.<draftID>.
type NATSPublisher struct {
	nc            *nats.Conn
	subjectPrefix string
}

// NewNATSPublisher connects to NATS and returns a publisher.
func NewNATSPublisher(url, subjectPrefix string) (*NATSPublisher, error) {
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
	return &NATSPublisher{nc: nc, subjectPrefix: subjectPrefix}, nil
}

func (p *NATSPublisher) Publish(_ context.Context, event *DraftEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	subject := fmt.Sprintf("%s.%s", p.subjectPrefix, event.DraftID)
	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Close drains the underlying connection.
func (p *NATSPublisher) Close() {
	_ = p.nc.Drain()
}

// NopPublisher discards events.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, *DraftEvent) error { return nil }
