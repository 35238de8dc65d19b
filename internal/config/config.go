// Package config loads service configuration from defaults, an optional YAML
// file (CONFIG_FILE) and environment variables, in increasing precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/leasecheck/verifier/internal/logger"
	"github.com/leasecheck/verifier/internal/reconciliation"
)

type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Environment  Environment   `mapstructure:"ENVIRONMENT" yaml:"environment"`
	Port         string        `mapstructure:"PORT" yaml:"port"`
	ReadTimeout  time.Duration `mapstructure:"READ_TIMEOUT" yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"WRITE_TIMEOUT" yaml:"write_timeout"`
}

// ReconciliationConfig holds the income matching tolerances.
type ReconciliationConfig struct {
	// AmountTolerance is exclusive: a difference equal to it does not match.
	AmountTolerance float64 `mapstructure:"AMOUNT_TOLERANCE" yaml:"amount_tolerance"`
	// Days a deposit may land before the pay date.
	DateWindowBeforeDays int `mapstructure:"DATE_WINDOW_BEFORE_DAYS" yaml:"date_window_before_days"`
	// Days a deposit may land after the pay date.
	DateWindowAfterDays int `mapstructure:"DATE_WINDOW_AFTER_DAYS" yaml:"date_window_after_days"`
	Workers             int `mapstructure:"WORKERS" yaml:"workers"`
}

type ReviewConfig struct {
	// Documents extracted with a confidence below this are flagged for review.
	ConfidenceThreshold float64 `mapstructure:"CONFIDENCE_THRESHOLD" yaml:"confidence_threshold"`
}

// Config is the full service configuration.
type Config struct {
	Server         ServerConfig         `mapstructure:"SERVER" yaml:"server"`
	LogLevel       string               `mapstructure:"LOG_LEVEL" yaml:"log_level"`
	Reconciliation ReconciliationConfig `mapstructure:"RECONCILIATION" yaml:"reconciliation"`
	Review         ReviewConfig         `mapstructure:"REVIEW" yaml:"review"`
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

// Tolerances converts the configured window into the reconciliation form.
func (c ReconciliationConfig) Tolerances() reconciliation.Tolerances {
	return reconciliation.Tolerances{
		Amount:     c.AmountTolerance,
		DaysBefore: c.DateWindowBeforeDays,
		DaysAfter:  c.DateWindowAfterDays,
		Workers:    c.Workers,
	}
}

func bindEnvVars(v *viper.Viper, bindings [][2]string) error {
	for _, b := range bindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return fmt.Errorf("failed to bind %s: %w", b[0], err)
		}
	}
	return nil
}

// Load builds the configuration and validates it.
func Load() (*Config, error) {
	v := viper.New()
	log := logger.GetLogger()

	def := reconciliation.DefaultTolerances()
	v.SetDefault("SERVER.ENVIRONMENT", EnvDevelopment)
	v.SetDefault("SERVER.PORT", "8080")
	v.SetDefault("SERVER.READ_TIMEOUT", "10s")
	v.SetDefault("SERVER.WRITE_TIMEOUT", "15s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("RECONCILIATION.AMOUNT_TOLERANCE", def.Amount)
	v.SetDefault("RECONCILIATION.DATE_WINDOW_BEFORE_DAYS", def.DaysBefore)
	v.SetDefault("RECONCILIATION.DATE_WINDOW_AFTER_DAYS", def.DaysAfter)
	v.SetDefault("RECONCILIATION.WORKERS", def.Workers)
	v.SetDefault("REVIEW.CONFIDENCE_THRESHOLD", 70.0)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envBindings := [][2]string{
		{"SERVER.ENVIRONMENT", "ENVIRONMENT"},
		{"SERVER.PORT", "PORT"},
		{"SERVER.READ_TIMEOUT", "SERVER_READ_TIMEOUT"},
		{"SERVER.WRITE_TIMEOUT", "SERVER_WRITE_TIMEOUT"},
		{"LOG_LEVEL", "LOG_LEVEL"},
		{"RECONCILIATION.AMOUNT_TOLERANCE", "RECONCILIATION_AMOUNT_TOLERANCE"},
		{"RECONCILIATION.DATE_WINDOW_BEFORE_DAYS", "RECONCILIATION_DATE_WINDOW_BEFORE_DAYS"},
		{"RECONCILIATION.DATE_WINDOW_AFTER_DAYS", "RECONCILIATION_DATE_WINDOW_AFTER_DAYS"},
		{"RECONCILIATION.WORKERS", "RECONCILIATION_WORKERS"},
		{"REVIEW.CONFIDENCE_THRESHOLD", "REVIEW_CONFIDENCE_THRESHOLD"},
	}
	if err := bindEnvVars(v, envBindings); err != nil {
		return nil, err
	}

	if err := v.BindEnv("CONFIG_FILE"); err != nil {
		return nil, fmt.Errorf("failed to bind CONFIG_FILE: %w", err)
	}
	if path := v.GetString("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		log.Infow("Loaded config file", "path", path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal failed: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	log.Infow("Configuration loaded",
		"log_level", cfg.LogLevel,
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port,
		"amount_tolerance", cfg.Reconciliation.AmountTolerance,
		"date_window", fmt.Sprintf("-%d/+%d days",
			cfg.Reconciliation.DateWindowBeforeDays, cfg.Reconciliation.DateWindowAfterDays),
		"workers", cfg.Reconciliation.Workers,
	)
	return &cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	switch cfg.Server.Environment {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("unknown environment %q", cfg.Server.Environment)
	}
	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("unknown log level %q", cfg.LogLevel)
	}
	if cfg.Reconciliation.AmountTolerance <= 0 {
		return fmt.Errorf("amount tolerance must be positive")
	}
	if cfg.Reconciliation.DateWindowBeforeDays < 0 || cfg.Reconciliation.DateWindowAfterDays < 0 {
		return fmt.Errorf("date window bounds must not be negative")
	}
	if cfg.Reconciliation.Workers <= 0 {
		return fmt.Errorf("reconciliation workers must be positive")
	}
	if cfg.Review.ConfidenceThreshold < 0 || cfg.Review.ConfidenceThreshold > 100 {
		return fmt.Errorf("confidence threshold must be between 0 and 100")
	}
	return nil
}
