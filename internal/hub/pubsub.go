package hub

import (
	"context"
	"encoding/json"

	"facilitydesk/backend/internal/logger"
	"facilitydesk/backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// Broker is the Redis pub/sub surface the relay needs; storage.Service
// implements it.
type Broker interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) *redis.PubSub
}

// Relay publishes notifications to a Redis channel and feeds everything
// received on it into the local Manager, so each instance reaches its own
// connected users.
type Relay struct {
	Broker  Broker
	Hub     *Manager
	Channel string
}

func NewRelay(b Broker, m *Manager, channel string) *Relay {
	return &Relay{Broker: b, Hub: m, Channel: channel}
}

func (r *Relay) Publish(ctx context.Context, n models.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return r.Broker.Publish(ctx, r.Channel, payload)
}

// Listen forwards channel messages to the hub until ctx is cancelled.
func (r *Relay) Listen(ctx context.Context) {
	sub := r.Broker.Subscribe(ctx, r.Channel)
	if sub == nil {
		return
	}
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var n models.Notification
			if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
				logger.Log.WithError(err).Warn("discarding malformed live notification")
				continue
			}
			if err := r.Hub.Publish(ctx, n); err != nil {
				return
			}
		}
	}
}
