package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/inonjs/ignite/internal/foundation/errors"
)

const publishTimeout = 5 * time.Second

// NATSPublisher publishes events to JetStream. Each event goes to the subject
// "<prefix>.<type>", e.g. "ignite.builds.build.completed".
type NATSPublisher struct {
	conn   *nats.Conn
	js     jetstream.JetStream
	prefix string
}

// NewNATSPublisher connects to the NATS server at url.
func NewNATSPublisher(url, prefix string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url, nats.Name("ignite"))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryEvents, "failed to connect to NATS").
			WithContext("url", url).
			Build()
	}
	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, errors.WrapError(err, errors.CategoryEvents, "failed to create JetStream context").Build()
	}

	slog.Info("NATS event publisher initialized", "url", url, "subject", prefix)
	return &NATSPublisher{conn: conn, js: js, prefix: prefix}, nil
}

// Subject returns the subject an event of type t is published on.
func Subject(prefix string, t Type) string {
	return strings.TrimSuffix(prefix, ".") + "." + string(t)
}

// Publish implements Publisher.
func (p *NATSPublisher) Publish(ctx context.Context, e Event) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	data, err := json.Marshal(e)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal event").Build()
	}
	subject := Subject(p.prefix, e.Type)
	if _, err := p.js.Publish(ctx, subject, data, jetstream.WithMsgID(e.ID)); err != nil {
		return errors.EventsError("failed to publish event").
			WithCause(err).
			WithContext("subject", subject).
			Build()
	}

	slog.Debug("Published build event", "subject", subject, "build_id", e.BuildID)
	return nil
}

// Close drains the connection.
func (p *NATSPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Drain()
}
