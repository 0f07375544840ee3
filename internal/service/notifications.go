package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/jask/staffdesk/internal/clock"
	"github.com/jask/staffdesk/internal/database/repository"
)

// NotificationService delivers in-app notifications to staff users.
type NotificationService struct {
	Notifications *repository.NotificationRepo
	Clock         clock.Clock
	Logger        *slog.Logger
}

// Push stores a notification for userID, or for everyone when userID is
// empty.
func (s *NotificationService) Push(ctx context.Context, userID, title, body string) (repository.Notification, error) {
	n := repository.Notification{
		ID:        uuid.NewString(),
		UserID:    nullableStr(userID),
		Title:     strings.TrimSpace(title),
		Body:      strings.TrimSpace(body),
		CreatedAt: nowFrom(s.Clock),
	}
	if n.Title == "" {
		return n, invalid("title", "required")
	}
	if err := s.Notifications.Insert(ctx, n); err != nil {
		return n, fmt.Errorf("insert notification: %w", err)
	}
	return n, nil
}

func (s *NotificationService) List(ctx context.Context, userID string) ([]repository.Notification, error) {
	return s.Notifications.ListForUser(ctx, userID)
}

// MarkRead marks id read for userID only; other recipients of a broadcast
// keep their own state.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	ok, err := s.Notifications.MarkRead(ctx, id, userID, nowFrom(s.Clock))
	if err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	if !ok {
		return notFound("notification", id)
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.Notifications.MarkAllRead(ctx, userID, nowFrom(s.Clock))
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.Notifications.UnreadCount(ctx, userID)
}

// Age renders how long ago n was created, e.g. "3 minutes ago".
func (s *NotificationService) Age(n repository.Notification) string {
	return humanize.RelTime(n.CreatedAt, nowFrom(s.Clock), "ago", "from now")
}
