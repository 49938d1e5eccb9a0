package setup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/roundbuy/backend-sub000/internal/config"
	"github.com/roundbuy/backend-sub000/internal/domain"
	"github.com/roundbuy/backend-sub000/internal/infrastructure/cache"
	"github.com/roundbuy/backend-sub000/internal/infrastructure/kafka"
	"github.com/roundbuy/backend-sub000/internal/infrastructure/logger"
	"github.com/roundbuy/backend-sub000/internal/infrastructure/memory"
	"github.com/roundbuy/backend-sub000/internal/infrastructure/metrics"
	"github.com/roundbuy/backend-sub000/internal/infrastructure/notifier"
	"github.com/roundbuy/backend-sub000/internal/infrastructure/postgres"
	"github.com/roundbuy/backend-sub000/internal/usecase/sweeper"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config    *config.DisputeConfig
	Logger    *slog.Logger
	Policy    domain.DeadlinePolicy
	DB        *gorm.DB
	Redis     *redis.Client
	Publisher *kafka.KafkaPublisher
	Registry  *prometheus.Registry
	Metrics   *metrics.DisputeMetrics
	Tx        domain.Transactor
	Notifier  domain.Notifier
	Locker    sweeper.Locker

	closers []func() error
}

func InitializeDependencies(ctx context.Context, cfg *config.DisputeConfig, log *slog.Logger) (*Dependencies, error) {
	policy, err := cfg.Policy.DeadlinePolicy()
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	deps := &Dependencies{
		Config:   cfg,
		Logger:   log,
		Policy:   policy,
		Registry: registry,
		Metrics:  metrics.NewDisputeMetrics(registry),
	}

	if err := deps.initStorage(); err != nil {
		deps.Close()
		return nil, fmt.Errorf("storage: %w", err)
	}
	if err := deps.initNotifier(); err != nil {
		deps.Close()
		return nil, fmt.Errorf("notifier: %w", err)
	}
	if err := deps.initLocker(ctx); err != nil {
		deps.Close()
		return nil, fmt.Errorf("sweeper lock: %w", err)
	}
	return deps, nil
}

func (d *Dependencies) initStorage() error {
	if d.Config.Storage.Driver == "memory" {
		d.Logger.Warn("using in-memory storage, data is lost on restart", "module", "setup")
		d.Tx = memory.NewStorage()
		return nil
	}

	db := postgres.MustInitDB(d.Config)
	d.DB = db
	d.closers = append(d.closers, func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})
	d.Tx = postgres.NewStorage(db, postgres.StorageOptions{
		MaxRetries:  d.Config.DisputeDB.TxRetries,
		LockTimeout: d.Config.DisputeDB.LockTimeout,
		Metrics:     d.Metrics,
		Logger:      d.Logger,
	})
	return nil
}

func (d *Dependencies) initNotifier() error {
	var notifiers notifier.Multi

	if d.Config.KafkaService.Enabled() {
		pub, err := kafka.NewKafkaPublisher(kafka.KafkaConfig{
			Brokers:   []string{d.Config.KafkaService.Broker()},
			Topic:     d.Config.KafkaService.Topic,
			Username:  d.Config.KafkaService.Username,
			Password:  d.Config.KafkaService.Password,
			Mechanism: d.Config.KafkaService.Mechanism,
		})
		if err != nil {
			return fmt.Errorf("kafka publisher: %w", err)
		}
		d.Publisher = pub
		d.closers = append(d.closers, pub.Close)
		notifiers = append(notifiers, pub)
	}
	if d.Config.Webhook.CallbackURL != "" {
		notifiers = append(notifiers, notifier.NewWebhookNotifier(d.Config.Webhook.CallbackURL, d.Config.Webhook.Timeout))
	}
	if d.DB != nil {
		notifiers = append(notifiers, logger.NewPGNotificationLogger(d.DB))
	}

	if len(notifiers) == 0 {
		d.Notifier = notifier.LogNotifier{Logger: d.Logger}
		return nil
	}
	d.Notifier = notifiers
	return nil
}

func (d *Dependencies) initLocker(ctx context.Context) error {
	if d.Config.RedisService.URL == "" {
		d.Locker = cache.NewLocalLocker()
		return nil
	}
	client, err := cache.Connect(ctx, d.Config.RedisService.URL)
	if err != nil {
		return err
	}
	d.Redis = client
	d.closers = append(d.closers, client.Close)
	d.Locker = cache.NewRedisLocker(client)
	return nil
}

// Close releases connections in reverse order of acquisition.
func (d *Dependencies) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	d.closers = nil
	return errors.Join(errs...)
}
