package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/hive-corporation/loboguara-connector/internal/core/domain"
	"github.com/hive-corporation/loboguara-connector/internal/logging"
)

// Default values applied when a setting is absent from both file and environment.
const (
	DefaultConnectorName = "Lobo Guara Connector"
	DefaultScope         = "lobo-guara"
	DefaultLogLevel      = "INFO"
	DefaultIntervalSec   = 3600
	MinIntervalSec       = 600
	DefaultTLP           = "TLP:AMBER"
	DefaultScore         = 50
)

// Config mirrors the usual connector config.yml layout. Every key can be
// overridden by its environment variable.
type Config struct {
	OpenCTI   OpenCTIConfig   `yaml:"opencti"`
	Connector ConnectorConfig `yaml:"connector"`
	LoboGuara LoboGuaraConfig `yaml:"loboguara"`
}

type OpenCTIConfig struct {
	URL   string `yaml:"url"`   // OPENCTI_URL
	Token string `yaml:"token"` // OPENCTI_TOKEN
}

type ConnectorConfig struct {
	ID       string `yaml:"id"`        // CONNECTOR_ID, must be a UUID
	Name     string `yaml:"name"`      // CONNECTOR_NAME
	Scope    string `yaml:"scope"`     // CONNECTOR_SCOPE
	LogLevel string `yaml:"log_level"` // CONNECTOR_LOG_LEVEL

	// MetricsAddr enables the health/metrics listener when set (ex: :9090).
	MetricsAddr  string `yaml:"metrics_addr"`  // CONNECTOR_METRICS_ADDR
	MetricsToken string `yaml:"metrics_token"` // CONNECTOR_METRICS_TOKEN
}

type LoboGuaraConfig struct {
	URL         string `yaml:"url"`          // LOBOGUARA_URL
	TokenURL    string `yaml:"token_url"`    // LOBOGUARA_TOKEN_URL
	Username    string `yaml:"username"`     // LOBOGUARA_USERNAME
	Password    string `yaml:"password"`     // LOBOGUARA_PASSWORD
	IntervalSec int    `yaml:"interval_sec"` // LOBOGUARA_INTERVAL_SEC
	VerifySSL   bool   `yaml:"verify_ssl"`   // LOBOGUARA_VERIFY_SSL
	TLP         string `yaml:"tlp"`          // LOBOGUARA_TLP
	Score       int    `yaml:"score"`        // LOBOGUARA_SCORE
}

func (c *Config) Interval() time.Duration {
	return time.Duration(c.LoboGuara.IntervalSec) * time.Second
}

func (c *Config) Level() zerolog.Level {
	level, err := logging.ParseLevel(c.Connector.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// Load builds the configuration from defaults, the optional YAML file at path
// and the process environment, in that order of precedence.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Connector: ConnectorConfig{
			Name:     DefaultConnectorName,
			Scope:    DefaultScope,
			LogLevel: DefaultLogLevel,
		},
		LoboGuara: LoboGuaraConfig{
			IntervalSec: DefaultIntervalSec,
			VerifySSL:   true,
			TLP:         DefaultTLP,
			Score:       DefaultScore,
		},
	}
}

func applyEnv(cfg *Config) error {
	setString(&cfg.OpenCTI.URL, "OPENCTI_URL")
	setString(&cfg.OpenCTI.Token, "OPENCTI_TOKEN")

	setString(&cfg.Connector.ID, "CONNECTOR_ID")
	setString(&cfg.Connector.Name, "CONNECTOR_NAME")
	setString(&cfg.Connector.Scope, "CONNECTOR_SCOPE")
	setString(&cfg.Connector.LogLevel, "CONNECTOR_LOG_LEVEL")
	setString(&cfg.Connector.MetricsAddr, "CONNECTOR_METRICS_ADDR")
	setString(&cfg.Connector.MetricsToken, "CONNECTOR_METRICS_TOKEN")

	setString(&cfg.LoboGuara.URL, "LOBOGUARA_URL")
	setString(&cfg.LoboGuara.TokenURL, "LOBOGUARA_TOKEN_URL")
	setString(&cfg.LoboGuara.Username, "LOBOGUARA_USERNAME")
	setString(&cfg.LoboGuara.Password, "LOBOGUARA_PASSWORD")
	setString(&cfg.LoboGuara.TLP, "LOBOGUARA_TLP")

	if val, ok := os.LookupEnv("LOBOGUARA_VERIFY_SSL"); ok {
		// only "true" (any case) keeps verification on, even an empty value disables it
		cfg.LoboGuara.VerifySSL = strings.EqualFold(strings.TrimSpace(val), "true")
	}

	if err := setInt(&cfg.LoboGuara.IntervalSec, "LOBOGUARA_INTERVAL_SEC"); err != nil {
		return err
	}
	if err := setInt(&cfg.LoboGuara.Score, "LOBOGUARA_SCORE"); err != nil {
		return err
	}
	return nil
}

func setString(dst *string, key string) {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		*dst = val
	}
}

func setInt(dst *int, key string) error {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return &domain.ConfigurationError{Field: key, Reason: fmt.Sprintf("not an integer: %q", val)}
	}
	*dst = n
	return nil
}

// validate checks required fields and constraints. All violations are
// reported together.
func validate(cfg *Config) error {
	var errs []error

	required := []struct {
		key   string
		value string
	}{
		{"OPENCTI_URL", cfg.OpenCTI.URL},
		{"OPENCTI_TOKEN", cfg.OpenCTI.Token},
		{"CONNECTOR_ID", cfg.Connector.ID},
		{"LOBOGUARA_URL", cfg.LoboGuara.URL},
		{"LOBOGUARA_TOKEN_URL", cfg.LoboGuara.TokenURL},
		{"LOBOGUARA_USERNAME", cfg.LoboGuara.Username},
		{"LOBOGUARA_PASSWORD", cfg.LoboGuara.Password},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, &domain.ConfigurationError{Field: r.key, Reason: "is required"})
		}
	}

	if cfg.Connector.ID != "" {
		if _, err := uuid.Parse(cfg.Connector.ID); err != nil {
			errs = append(errs, &domain.ConfigurationError{Field: "CONNECTOR_ID", Reason: "must be a UUID"})
		}
	}

	if cfg.LoboGuara.IntervalSec < MinIntervalSec {
		errs = append(errs, &domain.ConfigurationError{
			Field:  "LOBOGUARA_INTERVAL_SEC",
			Reason: fmt.Sprintf("must be at least %d seconds", MinIntervalSec),
		})
	}

	if cfg.LoboGuara.Score < 0 || cfg.LoboGuara.Score > 100 {
		errs = append(errs, &domain.ConfigurationError{Field: "LOBOGUARA_SCORE", Reason: "must be between 0 and 100"})
	}

	if strings.TrimSpace(cfg.LoboGuara.TLP) == "" {
		errs = append(errs, &domain.ConfigurationError{Field: "LOBOGUARA_TLP", Reason: "cannot be empty"})
	}

	if _, err := logging.ParseLevel(cfg.Connector.LogLevel); err != nil {
		errs = append(errs, &domain.ConfigurationError{Field: "CONNECTOR_LOG_LEVEL", Reason: err.Error()})
	}

	return errors.Join(errs...)
}
