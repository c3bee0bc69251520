package bus

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/okian/frontline/pkg/metrics"
)

const subscribeBuffer = 256

// Redis implements Bus over a Redis pub/sub channel. The underlying client
// reestablishes subscriptions after transient disconnects, so mid-run bus
// hiccups do not require any handling here.
type Redis struct {
	client  *redis.Client
	channel string
}

// NewRedis connects to the bus and verifies reachability. An unreachable bus
// at startup is a construction error; callers treat it as fatal.
func NewRedis(ctx context.Context, addr, channel string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("bus unreachable at %s: %w", addr, err)
	}
	return &Redis{client: client, channel: channel}, nil
}

// Publish sends one message on the channel.
func (r *Redis) Publish(ctx context.Context, payload []byte) error {
	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		metrics.RecordBusPublishError()
		return fmt.Errorf("publish to %s: %w", r.channel, err)
	}
	return nil
}

// Subscribe opens a dedicated pub/sub connection and forwards payloads until
// ctx is canceled.
func (r *Redis) Subscribe(ctx context.Context) (<-chan []byte, error) {
	sub := r.client.Subscribe(ctx, r.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe to %s: %w", r.channel, err)
	}

	out := make(chan []byte, subscribeBuffer)
	go func() {
		defer close(out)
		defer func() { _ = sub.Close() }()

		in := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-in:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Close tears down the client connection.
func (r *Redis) Close() error {
	return r.client.Close()
}
