package notify

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
)

const defaultChannel = "checkin:changes"

// RedisBroker bridges changes through redis pub/sub so live views work when
// the API runs as more than one process.
type RedisBroker struct {
	client  *redis.Client
	channel string
	local   *Memory
	cancel  context.CancelFunc
}

// NewRedisBroker starts a broker publishing to and relaying from the given
// pub/sub channel. The relay goroutine runs until Close.
func NewRedisBroker(client *redis.Client, channel string) *RedisBroker {
	if channel == "" {
		channel = defaultChannel
	}
	ctx, cancel := context.WithCancel(context.Background())
	b := &RedisBroker{
		client:  client,
		channel: channel,
		local:   NewMemory(),
		cancel:  cancel,
	}
	go b.relay(ctx)
	return b
}

// Publish sends the change through redis; local subscribers receive it via
// the relay like every other process.
func (b *RedisBroker) Publish(ctx context.Context, ch Change) error {
	payload, err := json.Marshal(ch)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, b.channel, payload).Err()
}

// Subscribe registers a local listener.
func (b *RedisBroker) Subscribe() (<-chan Change, func()) {
	return b.local.Subscribe()
}

// Close stops the relay and drops local subscribers. The redis client is
// owned by the caller and left open.
func (b *RedisBroker) Close() error {
	b.cancel()
	return b.local.Close()
}

func (b *RedisBroker) relay(ctx context.Context) {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()
	for {
		msg, err := sub.ReceiveMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("notify relay receive failed: %v", err)
			continue
		}
		var ch Change
		if err := json.Unmarshal([]byte(msg.Payload), &ch); err != nil {
			log.Printf("notify relay decode failed: %v", err)
			continue
		}
		_ = b.local.Publish(ctx, ch)
	}
}
