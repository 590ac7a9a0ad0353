package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/Viciouslight/YukiSoraShop-sub000/providers"
	aws_pkg "github.com/Viciouslight/YukiSoraShop-sub000/pkg/aws"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Checkout modes.
const (
	ModeRedirect = "redirect"
	ModeAPI      = "api"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`
	Postgres struct {
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		DB       string `yaml:"db"`
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		SSLMode  string `yaml:"sslmode"`
		TimeZone string `yaml:"timezone"`
	} `yaml:"postgres"`
	VNPay struct {
		TmnCode           string `yaml:"tmn_code"`
		HashSecret        string `yaml:"hash_secret"`
		BaseURL           string `yaml:"base_url"`
		ReturnURL         string `yaml:"return_url"`
		TimeZone          string `yaml:"timezone"`
		ExpireMinutes     int    `yaml:"expire_minutes"`
		Currency          string `yaml:"currency"`
		Locale            string `yaml:"locale"`
		Version           string `yaml:"version"`
		Command           string `yaml:"command"`
		Mode              string `yaml:"mode"`
		APIURL            string `yaml:"api_url"`
		APITimeoutSeconds int    `yaml:"api_timeout_seconds"`
	} `yaml:"vnpay"`
	Events struct {
		SNSTopicARN  string   `yaml:"sns_topic_arn"`
		KafkaBrokers []string `yaml:"kafka_brokers"`
		KafkaTopic   string   `yaml:"kafka_topic"`
	} `yaml:"events"`
	Archive struct {
		S3Bucket string `yaml:"s3_bucket"`
		S3Prefix string `yaml:"s3_prefix"`
	} `yaml:"archive"`
	Metrics struct {
		CloudWatchEnabled   bool   `yaml:"cloudwatch_enabled"`
		CloudWatchNamespace string `yaml:"cloudwatch_namespace"`
	} `yaml:"metrics"`
	AWS struct {
		UseSecrets   bool   `yaml:"use_secrets"`
		SecretPrefix string `yaml:"secret_prefix"`
	} `yaml:"aws"`

	location *time.Location
}

// SecretSource is the subset of the Secrets Manager client Load needs.
type SecretSource interface {
	GetSecret(ctx context.Context, name string) (string, error)
	GetSecretJSON(ctx context.Context, name string) (map[string]string, error)
}

// Load builds the configuration from defaults, an optional YAML file
// (path, or CONFIG_FILE), .env, the environment and, when AWS_USE_SECRETS=true,
// Secrets Manager. Missing required values are an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := defaults()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if cfg.AWS.UseSecrets {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		awsCfg, err := aws_pkg.LoadAWSConfig(ctx)
		if err != nil {
			return nil, err
		}
		ApplySecrets(ctx, cfg, aws_pkg.NewSecretsClient(awsCfg))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{}
	cfg.Server.Port = "8088"
	cfg.Server.Env = "development"
	cfg.Postgres.Host = "localhost"
	cfg.Postgres.Port = "5432"
	cfg.Postgres.SSLMode = "disable"
	cfg.Postgres.TimeZone = "Asia/Ho_Chi_Minh"
	cfg.VNPay.TimeZone = "Asia/Ho_Chi_Minh"
	cfg.VNPay.ExpireMinutes = 15
	cfg.VNPay.Currency = "VND"
	cfg.VNPay.Locale = "vn"
	cfg.VNPay.Version = "2.1.0"
	cfg.VNPay.Command = "pay"
	cfg.VNPay.Mode = ModeRedirect
	cfg.VNPay.APITimeoutSeconds = 15
	cfg.Events.KafkaTopic = "payment-events"
	cfg.Archive.S3Prefix = "invoices"
	cfg.Metrics.CloudWatchNamespace = "YukiSoraShop/Payments"
	cfg.AWS.SecretPrefix = "payment"
	return cfg
}

func applyEnvOverrides(cfg *Config) {
	setString(&cfg.Server.Port, "PORT")
	setString(&cfg.Server.Env, "APP_ENV")

	setString(&cfg.Postgres.User, "POSTGRES_USER")
	setString(&cfg.Postgres.Password, "POSTGRES_PASSWORD")
	setString(&cfg.Postgres.DB, "POSTGRES_DB")
	setString(&cfg.Postgres.Host, "POSTGRES_HOST")
	setString(&cfg.Postgres.Port, "POSTGRES_PORT")
	setString(&cfg.Postgres.SSLMode, "POSTGRES_SSLMODE")
	setString(&cfg.Postgres.TimeZone, "POSTGRES_TIMEZONE")

	setString(&cfg.VNPay.TmnCode, "VNPAY_TMN_CODE")
	setString(&cfg.VNPay.HashSecret, "VNPAY_HASH_SECRET")
	setString(&cfg.VNPay.BaseURL, "VNPAY_BASE_URL")
	setString(&cfg.VNPay.ReturnURL, "VNPAY_RETURN_URL")
	setString(&cfg.VNPay.TimeZone, "VNPAY_TIMEZONE")
	setInt(&cfg.VNPay.ExpireMinutes, "VNPAY_EXPIRE_MINUTES")
	setString(&cfg.VNPay.Currency, "VNPAY_CURRENCY")
	setString(&cfg.VNPay.Locale, "VNPAY_LOCALE")
	setString(&cfg.VNPay.Version, "VNPAY_VERSION")
	setString(&cfg.VNPay.Command, "VNPAY_COMMAND")
	setString(&cfg.VNPay.Mode, "VNPAY_MODE")
	setString(&cfg.VNPay.APIURL, "VNPAY_API_URL")
	setInt(&cfg.VNPay.APITimeoutSeconds, "VNPAY_API_TIMEOUT_SECONDS")

	setString(&cfg.Events.SNSTopicARN, "PAYMENT_SNS_TOPIC_ARN")
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Events.KafkaBrokers = splitCommaList(v)
	}
	setString(&cfg.Events.KafkaTopic, "KAFKA_PAYMENT_TOPIC")

	setString(&cfg.Archive.S3Bucket, "INVOICE_S3_BUCKET")
	setString(&cfg.Archive.S3Prefix, "INVOICE_S3_PREFIX")

	setBool(&cfg.Metrics.CloudWatchEnabled, "CLOUDWATCH_ENABLED")
	setString(&cfg.Metrics.CloudWatchNamespace, "CLOUDWATCH_NAMESPACE")

	setBool(&cfg.AWS.UseSecrets, "AWS_USE_SECRETS")
	setString(&cfg.AWS.SecretPrefix, "AWS_SECRET_PREFIX")
}

// ApplySecrets overrides DB credentials from "{prefix}/DB_CREDENTIALS" and the
// VNPay hash secret from "{prefix}/VNPAY_HASH_SECRET". Missing secrets leave
// the current values in place.
func ApplySecrets(ctx context.Context, cfg *Config, sm SecretSource) {
	prefix := cfg.AWS.SecretPrefix
	if m, err := sm.GetSecretJSON(ctx, prefix+"/DB_CREDENTIALS"); err == nil {
		override(&cfg.Postgres.User, m["POSTGRES_USER"])
		override(&cfg.Postgres.Password, m["POSTGRES_PASSWORD"])
		override(&cfg.Postgres.DB, m["POSTGRES_DB"])
		override(&cfg.Postgres.Host, m["POSTGRES_HOST"])
		override(&cfg.Postgres.Port, m["POSTGRES_PORT"])
	}
	if v, err := sm.GetSecret(ctx, prefix+"/VNPAY_HASH_SECRET"); err == nil {
		override(&cfg.VNPay.HashSecret, v)
	}
}

// Validate checks required values and resolves the VNPay timezone.
func (c *Config) Validate() error {
	if c.Postgres.User == "" || c.Postgres.Password == "" || c.Postgres.DB == "" || c.Postgres.Host == "" {
		return errors.New("database config incomplete")
	}

	var missing []string
	for name, v := range map[string]string{
		"VNPAY_TMN_CODE":    c.VNPay.TmnCode,
		"VNPAY_HASH_SECRET": c.VNPay.HashSecret,
		"VNPAY_BASE_URL":    c.VNPay.BaseURL,
		"VNPAY_RETURN_URL":  c.VNPay.ReturnURL,
		"VNPAY_TIMEZONE":    c.VNPay.TimeZone,
		"VNPAY_CURRENCY":    c.VNPay.Currency,
		"VNPAY_LOCALE":      c.VNPay.Locale,
	} {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("missing required vnpay config: %s", strings.Join(missing, ", "))
	}
	if c.VNPay.ExpireMinutes <= 0 {
		return errors.New("VNPAY_EXPIRE_MINUTES must be positive")
	}

	switch c.VNPay.Mode {
	case ModeRedirect:
	case ModeAPI:
		if c.VNPay.APIURL == "" {
			return errors.New("VNPAY_API_URL is required when VNPAY_MODE=api")
		}
	default:
		return fmt.Errorf("unknown VNPAY_MODE %q", c.VNPay.Mode)
	}

	loc, err := time.LoadLocation(c.VNPay.TimeZone)
	if err != nil {
		return fmt.Errorf("invalid VNPAY_TIMEZONE: %w", err)
	}
	c.location = loc
	return nil
}

// ProviderConfig returns the immutable VNPay configuration. Validate must have succeeded.
func (c *Config) ProviderConfig() providers.Config {
	return providers.Config{
		Version:       c.VNPay.Version,
		Command:       c.VNPay.Command,
		TmnCode:       c.VNPay.TmnCode,
		HashSecret:    c.VNPay.HashSecret,
		BaseURL:       c.VNPay.BaseURL,
		ReturnURL:     c.VNPay.ReturnURL,
		CurrCode:      c.VNPay.Currency,
		Locale:        c.VNPay.Locale,
		Location:      c.location,
		ExpireMinutes: c.VNPay.ExpireMinutes,
		APIURL:        c.VNPay.APIURL,
		APITimeout:    time.Duration(c.VNPay.APITimeoutSeconds) * time.Second,
	}
}

// DSN is the Postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.Postgres.Host, c.Postgres.User, c.Postgres.Password, c.Postgres.DB,
		c.Postgres.Port, c.Postgres.SSLMode, c.Postgres.TimeZone,
	)
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			*dst = i
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func splitCommaList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
