package events

import (
	"context"
	"encoding/json"
	"fmt"

	"ambeauty/internal/pkg/logging"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher fans events out to every API instance over pub/sub.
type RedisPublisher struct {
	client  redis.UniversalClient
	channel string
}

func NewRedisPublisher(client redis.UniversalClient, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", p.channel, err)
	}
	return nil
}

// RedisRelay feeds events from the channel into a local sink.
type RedisRelay struct {
	client  redis.UniversalClient
	channel string
	sink    Sink
	logger  *logging.Logger
}

func NewRedisRelay(client redis.UniversalClient, channel string, sink Sink, logger *logging.Logger) *RedisRelay {
	if logger == nil {
		logger = logging.Default()
	}
	return &RedisRelay{client: client, channel: channel, sink: sink, logger: logger}
}

// Run blocks until ctx is done or the subscription fails to start.
func (r *RedisRelay) Run(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", r.channel, err)
	}
	r.logger.Info("booking event relay subscribed", "channel", r.channel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var e Event
			if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
				r.logger.Warn("dropping malformed booking event", "error", err)
				continue
			}
			r.sink.Broadcast(e)
		}
	}
}
