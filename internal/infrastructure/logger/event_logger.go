package logger

import (
	"context"
	"time"

	"github.com/roundbuy/backend-sub000/internal/domain"
	"gorm.io/gorm"
)

type NotificationLogEntry struct {
	ID         uint `gorm:"primaryKey"`
	UserID     string
	EventKind  string
	Payload    map[string]string `gorm:"serializer:json"`
	OccurredAt time.Time
}

func (NotificationLogEntry) TableName() string { return "notification_log" }

// PGNotificationLogger keeps an audit trail of every dispatched
// notification. It satisfies domain.Notifier so it can sit next to the
// real transports in a notifier.Multi.
type PGNotificationLogger struct {
	db *gorm.DB
}

func NewPGNotificationLogger(db *gorm.DB) *PGNotificationLogger {
	return &PGNotificationLogger{db: db}
}

func (l *PGNotificationLogger) Notify(ctx context.Context, n domain.Notification) error {
	entry := NotificationLogEntry{
		UserID:     n.UserID,
		EventKind:  string(n.Kind),
		Payload:    n.Payload,
		OccurredAt: n.OccurredAt,
	}
	return l.db.WithContext(ctx).Create(&entry).Error
}

func (l *PGNotificationLogger) ListForUser(ctx context.Context, userID string, limit int) ([]NotificationLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []NotificationLogEntry
	err := l.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("occurred_at DESC, id DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
