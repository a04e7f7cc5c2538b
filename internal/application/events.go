package application

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/passvault/pkg/helpers"
)

// Change event types.
const (
	ChangeCreated = "created"
	ChangeUpdated = "updated"
	ChangeDeleted = "deleted"
)

// ChangeEvent tells a user's open clients that a record changed and the
// list should be refetched.
type ChangeEvent struct {
	Type string    `json:"type"`
	ID   string    `json:"id"`
	At   time.Time `json:"at"`
}

// Notifier publishes change events for one user.
type Notifier interface {
	Publish(ctx context.Context, userID string, ev ChangeEvent) error
}

// ChangeNotifier fans change events out over Redis pub/sub.
// A notifier without a Redis client is disabled.
type ChangeNotifier struct {
	rdb    *redis.Client
	logger *logrus.Logger
}

func NewChangeNotifier(rdb *redis.Client, logger *logrus.Logger) *ChangeNotifier {
	return &ChangeNotifier{rdb: rdb, logger: logger}
}

func (n *ChangeNotifier) Enabled() bool { return n != nil && n.rdb != nil }

func (n *ChangeNotifier) Publish(ctx context.Context, userID string, ev ChangeEvent) error {
	if !n.Enabled() {
		return nil
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return n.rdb.Publish(ctx, helpers.ChannelVaultChanges(userID), b).Err()
}

// Subscribe streams events for userID until ctx is done. The returned
// channel is closed when the subscription ends.
func (n *ChangeNotifier) Subscribe(ctx context.Context, userID string) (<-chan ChangeEvent, error) {
	if !n.Enabled() {
		return nil, ErrUnavailable
	}
	sub := n.rdb.Subscribe(ctx, helpers.ChannelVaultChanges(userID))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}

	out := make(chan ChangeEvent, 16)
	go func() {
		defer close(out)
		defer func() { _ = sub.Close() }()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				ev, err := decodeChange(msg.Payload)
				if err != nil {
					if n.logger != nil {
						n.logger.WithError(err).Warn("dropping malformed change event")
					}
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func decodeChange(payload string) (ChangeEvent, error) {
	var ev ChangeEvent
	err := json.Unmarshal([]byte(payload), &ev)
	return ev, err
}

var _ Notifier = (*ChangeNotifier)(nil)
