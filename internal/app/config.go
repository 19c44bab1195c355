package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	StorageDriverMemory   = "memory"
	StorageDriverJSON     = "json"
	StorageDriverPostgres = "postgres"
)

// Config описывает настройки запуска сервиса.
type Config struct {
	HTTPAddr    string `yaml:"http_addr"`
	GRPCAddr    string `yaml:"grpc_addr"`
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`

	StorageDriver        string        `yaml:"storage_driver"`
	JSONPath             string        `yaml:"json_path"`
	PostgresDSN          string        `yaml:"postgres_dsn"`
	PostgresEnsureSchema bool          `yaml:"postgres_ensure_schema"`
	Autosave             bool          `yaml:"autosave"`
	SaveTimeout          time.Duration `yaml:"save_timeout"`

	// Пустой список брокеров отключает публикацию событий.
	KafkaBrokers  []string `yaml:"kafka_brokers"`
	KafkaTopic    string   `yaml:"kafka_topic"`
	KafkaDLQTopic string   `yaml:"kafka_dlq_topic"`
	KafkaClientID string   `yaml:"kafka_client_id"`

	OutboxPollInterval time.Duration `yaml:"outbox_poll_interval"`
	OutboxBatchSize    int           `yaml:"outbox_batch_size"`
	OutboxMaxAttempts  int           `yaml:"outbox_max_attempts"`
	OutboxRetryDelay   time.Duration `yaml:"outbox_retry_delay"`
}

// DefaultConfig возвращает конфигурацию для локального запуска без внешних зависимостей.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:             ":8080",
		GRPCAddr:             ":50051",
		MetricsAddr:          ":9090",
		LogLevel:             "info",
		StorageDriver:        StorageDriverMemory,
		JSONPath:             "data/rhrh.json",
		PostgresEnsureSchema: true,
		Autosave:             true,
		SaveTimeout:          5 * time.Second,
		KafkaTopic:           "rhrh.entity.events",
		KafkaDLQTopic:        "rhrh.dlq",
		KafkaClientID:        "rhrh-service",
		OutboxPollInterval:   time.Second,
		OutboxBatchSize:      100,
		OutboxMaxAttempts:    3,
		OutboxRetryDelay:     50 * time.Millisecond,
	}
}

// ReadConfig собирает конфигурацию: значения по умолчанию, затем YAML-файл
// из RHRH_CONFIG (если задан), затем переменные окружения.
func ReadConfig() (Config, error) {
	return LoadConfig(os.Getenv("RHRH_CONFIG"), os.LookupEnv)
}

// LoadConfig работает как ReadConfig, но с явным путём и источником переменных окружения.
func LoadConfig(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %q: %w", path, err)
		}
	}
	if lookup != nil {
		if err := cfg.applyEnv(lookup); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"RHRH_HTTP_ADDR":       &c.HTTPAddr,
		"RHRH_GRPC_ADDR":       &c.GRPCAddr,
		"RHRH_METRICS_ADDR":    &c.MetricsAddr,
		"RHRH_LOG_LEVEL":       &c.LogLevel,
		"RHRH_STORAGE_DRIVER":  &c.StorageDriver,
		"RHRH_JSON_PATH":       &c.JSONPath,
		"RHRH_POSTGRES_DSN":    &c.PostgresDSN,
		"RHRH_KAFKA_TOPIC":     &c.KafkaTopic,
		"RHRH_KAFKA_DLQ_TOPIC": &c.KafkaDLQTopic,
	}
	for key, target := range strs {
		if v, ok := lookup(key); ok && v != "" {
			*target = strings.TrimSpace(v)
		}
	}

	if v, ok := lookup("KAFKA_BROKERS"); ok {
		c.KafkaBrokers = splitList(v)
	}
	if v, ok := lookup("RHRH_AUTOSAVE"); ok && v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("RHRH_AUTOSAVE: %w", err)
		}
		c.Autosave = enabled
	}
	if v, ok := lookup("RHRH_OUTBOX_POLL_INTERVAL"); ok && v != "" {
		interval, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("RHRH_OUTBOX_POLL_INTERVAL: %w", err)
		}
		c.OutboxPollInterval = interval
	}
	return nil
}

// Validate проверяет взаимосвязанные настройки.
func (c Config) Validate() error {
	var errs []error

	switch c.StorageDriver {
	case StorageDriverMemory:
	case StorageDriverJSON:
		if c.JSONPath == "" {
			errs = append(errs, errors.New("json storage requires json_path"))
		}
	case StorageDriverPostgres:
		if c.PostgresDSN == "" {
			errs = append(errs, errors.New("postgres storage requires postgres_dsn"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported storage driver %q", c.StorageDriver))
	}

	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("http_addr is required"))
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if len(c.KafkaBrokers) > 0 && c.KafkaTopic == "" {
		errs = append(errs, errors.New("kafka_topic is required when kafka is enabled"))
	}

	return errors.Join(errs...)
}

// KafkaEnabled сообщает, настроена ли публикация событий.
func (c Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
