package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/roundbuy/backend-sub000/internal/domain"
)

type DisputeConfig struct {
	Env string `yaml:"env" env:"DISPUTE_ENV" env-default:"local"`

	GRPCServer   `yaml:"grpc_server"`
	HTTPServer   `yaml:"http_server"`
	DisputeDB    `yaml:"dispute_db"`
	Storage      `yaml:"storage"`
	LogConfig    `yaml:"log_config"`
	KafkaService `yaml:"kafka_service"`
	RedisService `yaml:"redis_service"`
	Webhook      `yaml:"webhook"`
	Policy       `yaml:"policy"`
	Sweeper      `yaml:"sweeper"`
}

type GRPCServer struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"50061"`
}

// HTTPServer serves /metrics and /healthz.
type HTTPServer struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8081"`
}

type DisputeDB struct {
	Dsn           string        `yaml:"dsn" env:"DISPUTE_DB_DSN"`
	MaxOpenConns  int           `yaml:"max_open_conns" env-default:"20"`
	MaxIdleConns  int           `yaml:"max_idle_conns" env-default:"5"`
	TxRetries     uint64        `yaml:"tx_retries" env-default:"5"`
	LockTimeout   time.Duration `yaml:"lock_timeout" env-default:"3s"`
	MigrationPath string        `yaml:"migration_path" env:"DISPUTE_MIGRATION_PATH"`
}

type Storage struct {
	// postgres | memory
	Driver string `yaml:"driver" env:"DISPUTE_STORAGE" env-default:"postgres"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"json"`
	LogOutput string `yaml:"log_output" env:"LOG_OUTPUT" env-default:"stdout"`
}

type KafkaService struct {
	Host      string `yaml:"host" env:"KAFKA_HOST"`
	Port      string `yaml:"port" env:"KAFKA_PORT" env-default:"9092"`
	Topic     string `yaml:"topic" env:"KAFKA_TOPIC" env-default:"dispute-events"`
	Username  string `yaml:"username" env:"KAFKA_USERNAME"`
	Password  string `yaml:"password" env:"KAFKA_PASSWORD"`
	Mechanism string `yaml:"mechanism" env:"KAFKA_MECHANISM" env-default:"PLAIN"`
}

func (k KafkaService) Enabled() bool { return k.Host != "" }

func (k KafkaService) Broker() string { return fmt.Sprintf("%s:%s", k.Host, k.Port) }

type RedisService struct {
	URL string `yaml:"url" env:"REDIS_URL"`
}

type Webhook struct {
	CallbackURL string        `yaml:"callback_url" env:"WEBHOOK_CALLBACK_URL"`
	Timeout     time.Duration `yaml:"timeout" env-default:"5s"`
}

type Policy struct {
	IssueDays       int    `yaml:"issue_days" env-default:"3"`
	NegotiationDays int    `yaml:"negotiation_days" env-default:"3"`
	DisputeDays     int    `yaml:"dispute_days" env-default:"20"`
	ResolutionDays  int    `yaml:"resolution_days" env-default:"7"`
	ClaimDays       int    `yaml:"claim_days" env-default:"30"`
	Timezone        string `yaml:"timezone" env:"DISPUTE_TIMEZONE" env-default:"UTC"`
}

// DeadlinePolicy turns the configured windows into the domain policy.
func (p Policy) DeadlinePolicy() (domain.DeadlinePolicy, error) {
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return domain.DeadlinePolicy{}, fmt.Errorf("policy timezone %q: %w", p.Timezone, err)
	}
	for name, days := range map[string]int{
		"issue_days":       p.IssueDays,
		"negotiation_days": p.NegotiationDays,
		"dispute_days":     p.DisputeDays,
		"resolution_days":  p.ResolutionDays,
		"claim_days":       p.ClaimDays,
	} {
		if days <= 0 {
			return domain.DeadlinePolicy{}, fmt.Errorf("policy %s must be positive, got %d", name, days)
		}
	}
	return domain.DeadlinePolicy{
		IssueDays:       p.IssueDays,
		NegotiationDays: p.NegotiationDays,
		DisputeDays:     p.DisputeDays,
		ResolutionDays:  p.ResolutionDays,
		ClaimDays:       p.ClaimDays,
		Location:        loc,
	}, nil
}

type Sweeper struct {
	Interval  time.Duration `yaml:"interval" env:"SWEEPER_INTERVAL" env-default:"1m"`
	LockTTL   time.Duration `yaml:"lock_ttl" env-default:"5m"`
	BatchSize int           `yaml:"batch_size" env-default:"100"`
}

// Load reads the YAML file at path; environment variables override it.
func Load(path string) (*DisputeConfig, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	var cfg DisputeConfig
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if cfg.Storage.Driver != "postgres" && cfg.Storage.Driver != "memory" {
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	if cfg.Storage.Driver == "postgres" && cfg.DisputeDB.Dsn == "" {
		return nil, fmt.Errorf("dispute_db.dsn is required for the postgres driver")
	}
	if _, err := cfg.Policy.DeadlinePolicy(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func MustLoad() *DisputeConfig {

	// Processing env config variable and file
	configPath := os.Getenv("DISPUTE_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("DISPUTE_CONFIG_PATH was not found\n")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	return cfg
}
