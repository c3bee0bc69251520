// Package bus defines the pub/sub topic shared by all event categories.
//
// Delivery is at-least-once and non-durable: a consumer that is not
// subscribed at publish time never receives the message. Durability, if ever
// needed, belongs in the transport, not here.
package bus

import (
	"context"
	"encoding/json"

	"github.com/okian/frontline/internal/domain/model"
	"github.com/okian/frontline/pkg/logger"
	"github.com/okian/frontline/pkg/metrics"
)

// Bus carries opaque message bodies on a single topic.
type Bus interface {
	// Publish sends one message to every current subscriber.
	Publish(ctx context.Context, payload []byte) error

	// Subscribe returns a channel of message bodies. The channel closes when
	// the bus closes or ctx is canceled.
	Subscribe(ctx context.Context) (<-chan []byte, error)

	Close() error
}

// PublishEvent JSON-encodes an event and publishes it.
func PublishEvent(ctx context.Context, b Bus, ev model.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.Publish(ctx, payload)
}

// Consume subscribes and invokes handle for every decodable event until ctx
// is canceled or the bus closes. Bodies that do not decode into an Event are
// logged and skipped; unknown extra fields are tolerated.
func Consume(ctx context.Context, b Bus, log logger.Logger, handle func(context.Context, model.Event)) error {
	messages, err := b.Subscribe(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case raw, ok := <-messages:
			if !ok {
				return nil
			}
			metrics.RecordBusMessage()

			var ev model.Event
			if err := json.Unmarshal(raw, &ev); err != nil {
				log.Warn(ctx, "dropping undecodable bus message", logger.Error(err))
				continue
			}
			handle(ctx, ev)
		}
	}
}
