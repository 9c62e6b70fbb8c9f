package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	S3        S3Config
	Log       LogConfig
	Extractor ExtractorConfig
	Notify    NotifyConfig
	Pipeline  PipelineConfig
	Sweep     SweepConfig
	Alerts    AlertThresholds
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds AWS S3 settings for the document bucket.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ExtractorConfig holds settings for the AI extraction service.
type ExtractorConfig struct {
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
	MaxTokens    int    `mapstructure:"max_tokens"`
}

// NotifyConfig holds notification dispatcher settings.
type NotifyConfig struct {
	Provider    string `mapstructure:"provider"` // webhook | ses | noop
	WebhookURL  string `mapstructure:"webhook_url"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	ToAddress   string `mapstructure:"to_address"`
}

// PipelineConfig holds confidence gating for the extraction pipeline.
type PipelineConfig struct {
	// AutoApplyThreshold is the minimum confidence required before any
	// record write is applied automatically.
	AutoApplyThreshold float64 `mapstructure:"auto_apply_threshold"`
	// ReviewThreshold is the confidence below which an item always goes to
	// human review, regardless of document type.
	ReviewThreshold float64 `mapstructure:"review_threshold"`
	// RawTextCap limits how much of the model's raw output is persisted.
	RawTextCap int `mapstructure:"raw_text_cap"`
}

// SweepConfig holds alert sweep worker settings.
type SweepConfig struct {
	IntervalSecs int  `mapstructure:"interval_secs"`
	Enabled      bool `mapstructure:"enabled"`
}

// AlertThresholds holds the numeric triggers for the alert rules.
type AlertThresholds struct {
	SupplierBalanceWarning float64 `mapstructure:"supplier_balance_warning"`
	SupplierBalanceUrgent  float64 `mapstructure:"supplier_balance_urgent"`
	TelexOverdueDays       int     `mapstructure:"telex_overdue_days"`
	TelexUrgentDays        int     `mapstructure:"telex_urgent_days"`
	PaymentWindowDays      int     `mapstructure:"payment_window_days"`
	LowMarginPercent       float64 `mapstructure:"low_margin_percent"`
	LowMarginWarning       float64 `mapstructure:"low_margin_warning"`
	StaleShipmentDays      int     `mapstructure:"stale_shipment_days"`
}

// Load reads configuration from environment variables with the CARGOFLOW_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CARGOFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "cargoflow")
	v.SetDefault("db.password", "cargoflow_secret")
	v.SetDefault("db.name", "cargoflow_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "af-south-1")
	v.SetDefault("s3.bucket", "cargoflow-documents")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.access_key", "")
	v.SetDefault("s3.secret_key", "")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Extractor defaults
	v.SetDefault("extractor.api_key", "")
	v.SetDefault("extractor.default_model", "claude-sonnet-4-20250514")
	v.SetDefault("extractor.timeout_secs", 120)
	v.SetDefault("extractor.max_tokens", 4096)

	// Notify defaults
	v.SetDefault("notify.provider", "noop")
	v.SetDefault("notify.webhook_url", "")
	v.SetDefault("notify.region", "af-south-1")
	v.SetDefault("notify.from_address", "alerts@cargoflow.local")
	v.SetDefault("notify.to_address", "ops@cargoflow.local")

	// Pipeline defaults
	v.SetDefault("pipeline.auto_apply_threshold", 0.85)
	v.SetDefault("pipeline.review_threshold", 0.5)
	v.SetDefault("pipeline.raw_text_cap", 10000)

	// Sweep defaults
	v.SetDefault("sweep.interval_secs", 3600)
	v.SetDefault("sweep.enabled", true)

	// Alert threshold defaults
	v.SetDefault("alerts.supplier_balance_warning", 50000)
	v.SetDefault("alerts.supplier_balance_urgent", 100000)
	v.SetDefault("alerts.telex_overdue_days", 3)
	v.SetDefault("alerts.telex_urgent_days", 7)
	v.SetDefault("alerts.payment_window_days", 2)
	v.SetDefault("alerts.low_margin_percent", 10)
	v.SetDefault("alerts.low_margin_warning", 5)
	v.SetDefault("alerts.stale_shipment_days", 7)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                     "CARGOFLOW_SERVER_PORT",
		"server.read_timeout":             "CARGOFLOW_SERVER_READ_TIMEOUT",
		"server.write_timeout":            "CARGOFLOW_SERVER_WRITE_TIMEOUT",
		"server.environment":              "CARGOFLOW_SERVER_ENVIRONMENT",
		"db.host":                         "CARGOFLOW_DB_HOST",
		"db.port":                         "CARGOFLOW_DB_PORT",
		"db.user":                         "CARGOFLOW_DB_USER",
		"db.password":                     "CARGOFLOW_DB_PASSWORD",
		"db.name":                         "CARGOFLOW_DB_NAME",
		"db.sslmode":                      "CARGOFLOW_DB_SSLMODE",
		"db.max_open":                     "CARGOFLOW_DB_MAX_OPEN",
		"db.max_idle":                     "CARGOFLOW_DB_MAX_IDLE",
		"s3.region":                       "CARGOFLOW_S3_REGION",
		"s3.bucket":                       "CARGOFLOW_S3_BUCKET",
		"s3.endpoint":                     "CARGOFLOW_S3_ENDPOINT",
		"s3.access_key":                   "CARGOFLOW_S3_ACCESS_KEY",
		"s3.secret_key":                   "CARGOFLOW_S3_SECRET_KEY",
		"log.level":                       "CARGOFLOW_LOG_LEVEL",
		"log.format":                      "CARGOFLOW_LOG_FORMAT",
		"extractor.api_key":               "CARGOFLOW_EXTRACTOR_API_KEY",
		"extractor.default_model":         "CARGOFLOW_EXTRACTOR_DEFAULT_MODEL",
		"extractor.timeout_secs":          "CARGOFLOW_EXTRACTOR_TIMEOUT_SECS",
		"extractor.max_tokens":            "CARGOFLOW_EXTRACTOR_MAX_TOKENS",
		"notify.provider":                 "CARGOFLOW_NOTIFY_PROVIDER",
		"notify.webhook_url":              "CARGOFLOW_NOTIFY_WEBHOOK_URL",
		"notify.region":                   "CARGOFLOW_NOTIFY_REGION",
		"notify.from_address":             "CARGOFLOW_NOTIFY_FROM_ADDRESS",
		"notify.to_address":               "CARGOFLOW_NOTIFY_TO_ADDRESS",
		"pipeline.auto_apply_threshold":   "CARGOFLOW_PIPELINE_AUTO_APPLY_THRESHOLD",
		"pipeline.review_threshold":       "CARGOFLOW_PIPELINE_REVIEW_THRESHOLD",
		"pipeline.raw_text_cap":           "CARGOFLOW_PIPELINE_RAW_TEXT_CAP",
		"sweep.interval_secs":             "CARGOFLOW_SWEEP_INTERVAL_SECS",
		"sweep.enabled":                   "CARGOFLOW_SWEEP_ENABLED",
		"alerts.supplier_balance_warning": "CARGOFLOW_ALERTS_SUPPLIER_BALANCE_WARNING",
		"alerts.supplier_balance_urgent":  "CARGOFLOW_ALERTS_SUPPLIER_BALANCE_URGENT",
		"alerts.telex_overdue_days":       "CARGOFLOW_ALERTS_TELEX_OVERDUE_DAYS",
		"alerts.telex_urgent_days":        "CARGOFLOW_ALERTS_TELEX_URGENT_DAYS",
		"alerts.payment_window_days":      "CARGOFLOW_ALERTS_PAYMENT_WINDOW_DAYS",
		"alerts.low_margin_percent":       "CARGOFLOW_ALERTS_LOW_MARGIN_PERCENT",
		"alerts.low_margin_warning":       "CARGOFLOW_ALERTS_LOW_MARGIN_WARNING",
		"alerts.stale_shipment_days":      "CARGOFLOW_ALERTS_STALE_SHIPMENT_DAYS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if CARGOFLOW_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("CARGOFLOW_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Extractor = ExtractorConfig{
		APIKey:       v.GetString("extractor.api_key"),
		DefaultModel: v.GetString("extractor.default_model"),
		TimeoutSecs:  v.GetInt("extractor.timeout_secs"),
		MaxTokens:    v.GetInt("extractor.max_tokens"),
	}
	cfg.Notify = NotifyConfig{
		Provider:    v.GetString("notify.provider"),
		WebhookURL:  v.GetString("notify.webhook_url"),
		Region:      v.GetString("notify.region"),
		FromAddress: v.GetString("notify.from_address"),
		ToAddress:   v.GetString("notify.to_address"),
	}
	cfg.Pipeline = PipelineConfig{
		AutoApplyThreshold: v.GetFloat64("pipeline.auto_apply_threshold"),
		ReviewThreshold:    v.GetFloat64("pipeline.review_threshold"),
		RawTextCap:         v.GetInt("pipeline.raw_text_cap"),
	}
	cfg.Sweep = SweepConfig{
		IntervalSecs: v.GetInt("sweep.interval_secs"),
		Enabled:      v.GetBool("sweep.enabled"),
	}
	cfg.Alerts = AlertThresholds{
		SupplierBalanceWarning: v.GetFloat64("alerts.supplier_balance_warning"),
		SupplierBalanceUrgent:  v.GetFloat64("alerts.supplier_balance_urgent"),
		TelexOverdueDays:       v.GetInt("alerts.telex_overdue_days"),
		TelexUrgentDays:        v.GetInt("alerts.telex_urgent_days"),
		PaymentWindowDays:      v.GetInt("alerts.payment_window_days"),
		LowMarginPercent:       v.GetFloat64("alerts.low_margin_percent"),
		LowMarginWarning:       v.GetFloat64("alerts.low_margin_warning"),
		StaleShipmentDays:      v.GetInt("alerts.stale_shipment_days"),
	}

	return cfg, nil
}
