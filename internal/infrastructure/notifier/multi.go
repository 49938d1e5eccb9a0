package notifier

import (
	"context"
	"errors"
	"log/slog"

	"github.com/roundbuy/backend-sub000/internal/domain"
)

// Multi fans a notification out to every notifier and joins their errors.
type Multi []domain.Notifier

func (m Multi) Notify(ctx context.Context, n domain.Notification) error {
	var errs []error
	for _, notifier := range m {
		if err := notifier.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogNotifier only logs; used when no transport is configured.
type LogNotifier struct {
	Logger *slog.Logger
}

func (l LogNotifier) Notify(_ context.Context, n domain.Notification) error {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("notification",
		"module", "notifier",
		"user_id", n.UserID,
		"event_kind", n.Kind,
		"payload", n.Payload,
	)
	return nil
}
