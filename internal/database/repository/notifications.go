package repository

import (
	"context"
	"database/sql"
	"time"
)

// NotificationRepo handles notifications.
type NotificationRepo struct {
	db *sql.DB
}

func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{db: db} }

func (r *NotificationRepo) Insert(ctx context.Context, n Notification) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO notifications(id, user_id, title, body, created_at)
	VALUES (?, ?, ?, ?, ?)`, n.ID, n.UserID, n.Title, n.Body, n.CreatedAt)
	return err
}

// ListForUser returns the user's and broadcast notifications, unread
// first, newest first within each group. ReadAt is the user's own read
// time.
func (r *NotificationRepo) ListForUser(ctx context.Context, userID string) ([]Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT n.id, n.user_id, n.title, n.body, rd.read_at, n.created_at
	FROM notifications n
	LEFT JOIN notification_reads rd ON rd.notification_id = n.id AND rd.user_id = ?
	WHERE n.user_id = ? OR n.user_id IS NULL
	ORDER BY (rd.read_at IS NOT NULL), n.created_at DESC, n.id`, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Body, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead records that userID read notification id. It reports false when
// the notification is not visible to the user. Reading twice keeps the
// first time.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID string, at time.Time) (bool, error) {
	var visible int
	err := r.db.QueryRowContext(ctx, `
	SELECT COUNT(*) FROM notifications WHERE id = ? AND (user_id = ? OR user_id IS NULL)`, id, userID).Scan(&visible)
	if err != nil || visible == 0 {
		return false, err
	}
	_, err = r.db.ExecContext(ctx, `
	INSERT OR IGNORE INTO notification_reads(notification_id, user_id, read_at) VALUES (?, ?, ?)`, id, userID, at)
	return err == nil, err
}

func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
	INSERT OR IGNORE INTO notification_reads(notification_id, user_id, read_at)
	SELECT n.id, ?, ? FROM notifications n
	WHERE (n.user_id = ? OR n.user_id IS NULL)
	  AND NOT EXISTS (SELECT 1 FROM notification_reads rd WHERE rd.notification_id = n.id AND rd.user_id = ?)`,
		userID, at, userID, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *NotificationRepo) UnreadCount(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
	SELECT COUNT(*) FROM notifications n
	WHERE (n.user_id = ? OR n.user_id IS NULL)
	  AND NOT EXISTS (SELECT 1 FROM notification_reads rd WHERE rd.notification_id = n.id AND rd.user_id = ?)`,
		userID, userID).Scan(&n)
	return n, err
}
