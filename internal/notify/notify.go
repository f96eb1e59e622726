// Package notify records user notifications and hands them to the external dispatcher.
//
// Each notification is pushed onto a capped per-user Redis list (newest first) and
// published on Channel, where delivery workers (email, push) subscribe.
package notify

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofrs/uuid/v5"
	"github.com/redis/go-redis/v9"

	"github.com/and161185/travel-kanban/internal/model"
)

// Channel is the pub/sub channel notifications are published on.
const Channel = "travelkanban:notifications"

// Notifier emits notification events.
type Notifier interface {
	Notify(ctx context.Context, n model.Notification) error
}

// Feed reads back recent notifications of a user.
type Feed interface {
	Recent(ctx context.Context, userID uuid.UUID, limit int) ([]model.Notification, error)
}

// Redis implements Notifier and Feed on a Redis client.
type Redis struct {
	rc   *redis.Client
	keep int64
	ttl  time.Duration
	now  func() time.Time
}

// NewRedis returns a Redis notifier keeping at most keep entries per user for ttl.
func NewRedis(rc *redis.Client, keep int, ttl time.Duration) *Redis {
	if keep < 1 {
		keep = 100
	}
	return &Redis{rc: rc, keep: int64(keep), ttl: ttl, now: time.Now}
}

func key(userID uuid.UUID) string { return "notifications:" + userID.String() }

// Notify stores n for its recipient and publishes it.
func (r *Redis) Notify(ctx context.Context, n model.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = r.now().UTC()
	}
	data, err := sonic.Marshal(n)
	if err != nil {
		return err
	}
	k := key(n.UserID)
	pipe := r.rc.TxPipeline()
	pipe.LPush(ctx, k, data)
	pipe.LTrim(ctx, k, 0, r.keep-1)
	if r.ttl > 0 {
		pipe.Expire(ctx, k, r.ttl)
	}
	pipe.Publish(ctx, Channel, data)
	_, err = pipe.Exec(ctx)
	return err
}

// Recent returns up to limit notifications of userID, newest first.
func (r *Redis) Recent(ctx context.Context, userID uuid.UUID, limit int) ([]model.Notification, error) {
	if limit < 1 {
		limit = 20
	}
	vals, err := r.rc.LRange(ctx, key(userID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]model.Notification, 0, len(vals))
	for _, v := range vals {
		var n model.Notification
		if err := sonic.UnmarshalString(v, &n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// Nop drops every notification.
type Nop struct{}

func (Nop) Notify(context.Context, model.Notification) error { return nil }

func (Nop) Recent(context.Context, uuid.UUID, int) ([]model.Notification, error) {
	return []model.Notification{}, nil
}
