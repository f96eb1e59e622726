package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/travel-kanban/internal/errs"
	"github.com/and161185/travel-kanban/internal/model"
	"github.com/and161185/travel-kanban/internal/notify"
)

const (
	defaultNotificationLimit = 20
	maxNotificationLimit     = 100
)

// NotificationService reads a user's own notification feed.
type NotificationService interface {
	List(ctx context.Context, userID uuid.UUID, limit int) ([]model.Notification, error)
}

type NotificationServiceImpl struct {
	feed notify.Feed
}

// NewNotificationService constructs NotificationService.
func NewNotificationService(feed notify.Feed) *NotificationServiceImpl {
	if feed == nil {
		feed = notify.Nop{}
	}
	return &NotificationServiceImpl{feed: feed}
}

// List returns the newest notifications first. A zero limit means the default.
func (s *NotificationServiceImpl) List(ctx context.Context, userID uuid.UUID, limit int) ([]model.Notification, error) {
	if limit < 0 {
		return nil, errs.Invalid("limit", "must not be negative")
	}
	if limit == 0 {
		limit = defaultNotificationLimit
	}
	return s.feed.Recent(ctx, userID, min(limit, maxNotificationLimit))
}
