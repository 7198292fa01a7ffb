package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"

	"github.com/bibbank/heartrisk/internal/domain/valueobject"
	"github.com/bibbank/heartrisk/internal/infrastructure/ml"
	"github.com/bibbank/heartrisk/pkg/auth"
	"github.com/bibbank/heartrisk/pkg/kafka"
	"github.com/bibbank/heartrisk/pkg/observability"
)

// Config holds all configuration for the heartrisk CLI and daemon.
// LogLevel and LogFormat have no default here because the CLI and the daemon
// pick different ones.
type Config struct {
	Strategy      string   `env:"HEARTRISK_STRATEGY"     envDefault:"rule-based"`
	Dataset       string   `env:"HEARTRISK_DATASET"      envDefault:"attached_assets/heart.csv"`
	ModelPath     string   `env:"HEARTRISK_MODEL_PATH"`
	LogLevel      string   `env:"LOG_LEVEL"`
	LogFormat     string   `env:"LOG_FORMAT"`
	HTTPPort      string   `env:"HTTP_PORT"              envDefault:"8090"`
	GRPCPort      string   `env:"GRPC_PORT"              envDefault:"9090"`
	DatabaseURL   string   `env:"DATABASE_URL"`
	MigrationsDir string   `env:"MIGRATIONS_DIR"`
	KafkaTopic    string   `env:"KAFKA_TOPIC"            envDefault:"heartrisk.predictions"`
	SQSQueueURL   string   `env:"EVENTS_SQS_QUEUE_URL"`
	KafkaSASLMech string   `env:"KAFKA_SASL_MECHANISM"`
	KafkaSASLUser string   `env:"KAFKA_SASL_USERNAME"`
	KafkaSASLPass string   `env:"KAFKA_SASL_PASSWORD"`
	Environment   string   `env:"ENVIRONMENT"            envDefault:"development"`
	TLSCertFile   string   `env:"GRPC_TLS_CERT_FILE"`
	TLSKeyFile    string   `env:"GRPC_TLS_KEY_FILE"`
	TLSClientCA   string   `env:"GRPC_TLS_CLIENT_CA_FILE"`
	JWTSecret     string   `env:"JWT_SECRET"`
	JWTPublicKey  string   `env:"JWT_PUBLIC_KEY_FILE"`
	JWTIssuer     string   `env:"JWT_ISSUER"             envDefault:"heartrisk"`
	KafkaBrokers  []string `env:"KAFKA_BROKERS"          envSeparator:","`
	TestSize      float64  `env:"HEARTRISK_TEST_SIZE"    envDefault:"0.2"`
	Seed          uint64   `env:"HEARTRISK_SEED"         envDefault:"42"`
	ForestTrees   int      `env:"HEARTRISK_FOREST_TREES" envDefault:"100"`
	KafkaTLS      bool     `env:"KAFKA_TLS"              envDefault:"false"`
	Reflection    bool     `env:"GRPC_REFLECTION"        envDefault:"false"`
}

// Load reads configuration from the process environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// LoadFrom reads configuration from the given variables instead of the
// process environment.
func LoadFrom(environ map[string]string) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// Validate checks values that env tags cannot express.
func (c *Config) Validate() error {
	if _, err := c.ScoringStrategy(); err != nil {
		return err
	}
	if c.ForestTrees <= 0 {
		return fmt.Errorf("HEARTRISK_FOREST_TREES must be positive, got %d", c.ForestTrees)
	}
	if c.TestSize <= 0 || c.TestSize >= 1 {
		return fmt.Errorf("HEARTRISK_TEST_SIZE must be in (0, 1), got %v", c.TestSize)
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		return fmt.Errorf("GRPC_TLS_CERT_FILE and GRPC_TLS_KEY_FILE must be set together")
	}
	if c.TLSClientCA != "" && c.TLSCertFile == "" {
		return fmt.Errorf("GRPC_TLS_CLIENT_CA_FILE needs GRPC_TLS_CERT_FILE and GRPC_TLS_KEY_FILE")
	}
	if _, err := observability.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if !observability.ValidFormat(c.LogFormat) {
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	return nil
}

// ScoringStrategy parses the configured strategy name.
func (c *Config) ScoringStrategy() (valueobject.StrategyName, error) {
	return valueobject.StrategyNameFromString(c.Strategy)
}

// LogLevelOr returns the configured log level or def when unset.
func (c *Config) LogLevelOr(def string) string {
	if c.LogLevel == "" {
		return def
	}
	return c.LogLevel
}

// LogFormatOr returns the configured log format or def when unset.
func (c *Config) LogFormatOr(def string) string {
	if c.LogFormat == "" {
		return def
	}
	return c.LogFormat
}

// KafkaEnabled reports whether events should be sent to Kafka.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Kafka returns the producer configuration.
func (c *Config) Kafka() kafka.Config {
	kc := kafka.Config{
		Brokers:  c.KafkaBrokers,
		ClientID: "heartriskd",
		TLS:      c.KafkaTLS,
	}
	if c.KafkaSASLUser != "" {
		kc.SASL = &kafka.SASL{
			Mechanism: c.KafkaSASLMech,
			Username:  c.KafkaSASLUser,
			Password:  c.KafkaSASLPass,
		}
	}
	return kc
}

// Trainer returns the model fitting configuration.
func (c *Config) Trainer() ml.TrainerConfig {
	tc := ml.DefaultTrainerConfig()
	tc.Forest.Trees = c.ForestTrees
	tc.Forest.Seed = c.Seed
	tc.TestSize = c.TestSize
	return tc
}

// AuthEnabled reports whether the daemon API requires bearer tokens.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != "" || c.JWTPublicKey != ""
}

// JWT returns the token validation configuration. A public key file takes
// precedence over the shared secret.
func (c *Config) JWT() (auth.JWTConfig, error) {
	cfg := auth.JWTConfig{Issuer: c.JWTIssuer}
	if c.JWTPublicKey != "" {
		pem, err := os.ReadFile(c.JWTPublicKey)
		if err != nil {
			return auth.JWTConfig{}, fmt.Errorf("read JWT_PUBLIC_KEY_FILE: %w", err)
		}
		cfg.PublicKeyPEM = string(pem)
		return cfg, nil
	}
	cfg.Secret = c.JWTSecret
	return cfg, nil
}

// IsProduction reports whether the deployment environment is production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// GRPCAddress returns the full gRPC listen address.
func (c *Config) GRPCAddress() string {
	return fmt.Sprintf(":%s", c.GRPCPort)
}

// HTTPAddress returns the full HTTP listen address.
func (c *Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.HTTPPort)
}
