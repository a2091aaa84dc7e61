package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Auth     AuthConfig     `yaml:"auth"`
	Storage  StorageConfig  `yaml:"storage"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	SendGrid SendGridConfig `yaml:"sendgrid"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host                string   `yaml:"host" env:"SERVER_HOST"`
	Port                int      `yaml:"port" env:"SERVER_PORT"`
	ReadTimeoutSeconds  int      `yaml:"read_timeout_seconds" env:"SERVER_READ_TIMEOUT_SECONDS"`
	WriteTimeoutSeconds int      `yaml:"write_timeout_seconds" env:"SERVER_WRITE_TIMEOUT_SECONDS"`
	IdleTimeoutSeconds  int      `yaml:"idle_timeout_seconds" env:"SERVER_IDLE_TIMEOUT_SECONDS"`
	AllowedOrigins      []string `yaml:"allowed_origins" env:"SERVER_ALLOWED_ORIGINS" envSeparator:","`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host         string `yaml:"host" env:"DB_HOST"`
	Port         int    `yaml:"port" env:"DB_PORT"`
	User         string `yaml:"user" env:"DB_USER"`
	Password     string `yaml:"password" env:"DB_PASSWORD"`
	Database     string `yaml:"database" env:"DB_NAME"`
	SSLMode      string `yaml:"ssl_mode" env:"DB_SSL_MODE"`
	MaxOpenConns int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
	AutoMigrate  bool   `yaml:"auto_migrate" env:"DB_AUTO_MIGRATE"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret            string `yaml:"secret" env:"JWT_SECRET"`
	Issuer            string `yaml:"issuer" env:"JWT_ISSUER"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes" env:"JWT_ACCESS_TOKEN_EXPIRY_MINUTES"`
}

// AuthConfig contains account settings
type AuthConfig struct {
	AdminEmails []string `yaml:"admin_emails" env:"ADMIN_EMAILS" envSeparator:","`
	BcryptCost  int      `yaml:"bcrypt_cost" env:"BCRYPT_COST"`
}

// StorageConfig contains file storage settings
type StorageConfig struct {
	Type         string   `yaml:"type" env:"STORAGE_TYPE"`             // "mock" or "s3"
	UploadDir    string   `yaml:"upload_dir" env:"UPLOAD_DIR"`         // For mock storage
	BaseURL      string   `yaml:"base_url" env:"STORAGE_BASE_URL"`     // Public URL prefix for stored files
	MaxFileSize  int64    `yaml:"max_file_size_mb" env:"STORAGE_MAX_FILE_SIZE_MB"`
	AllowedTypes []string `yaml:"allowed_types" env:"STORAGE_ALLOWED_TYPES" envSeparator:","`
	S3           S3Config `yaml:"s3"`
}

// S3Config contains S3 or MinIO settings
type S3Config struct {
	Endpoint        string `yaml:"endpoint" env:"S3_ENDPOINT"`
	Region          string `yaml:"region" env:"S3_REGION"`
	Bucket          string `yaml:"bucket" env:"S3_BUCKET"`
	AccessKeyID     string `yaml:"access_key_id" env:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"S3_SECRET_ACCESS_KEY"`
	UsePathStyle    bool   `yaml:"use_path_style" env:"S3_USE_PATH_STYLE"`
	PresignMinutes  int    `yaml:"presign_minutes" env:"S3_PRESIGN_MINUTES"`
}

// RabbitMQConfig contains booking event broker settings. An empty URL
// disables the broker and events are only logged.
type RabbitMQConfig struct {
	URL       string `yaml:"url" env:"RABBITMQ_URL"`
	QueueName string `yaml:"queue_name" env:"RABBITMQ_QUEUE_NAME"`
}

// SendGridConfig contains email delivery settings used by the notifier
type SendGridConfig struct {
	APIKey    string `yaml:"api_key" env:"SENDGRID_API_KEY"`
	FromEmail string `yaml:"from_email" env:"SENDGRID_FROM_EMAIL"`
	FromName  string `yaml:"from_name" env:"SENDGRID_FROM_NAME"`
}

// SMTPConfig contains the SMTP relay used when no SendGrid key is set
type SMTPConfig struct {
	Host     string `yaml:"host" env:"SMTP_HOST"`
	Port     int    `yaml:"port" env:"SMTP_PORT"`
	User     string `yaml:"user" env:"SMTP_USER"`
	Password string `yaml:"password" env:"SMTP_PASSWORD"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`   // "debug", "info", "warn", "error"
	Format string `yaml:"format" env:"LOG_FORMAT"` // "json" or "text"
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Environment variables win over the file
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.ReadTimeoutSeconds == 0 {
		c.Server.ReadTimeoutSeconds = 15
	}
	if c.Server.WriteTimeoutSeconds == 0 {
		c.Server.WriteTimeoutSeconds = 15
	}
	if c.Server.IdleTimeoutSeconds == 0 {
		c.Server.IdleTimeoutSeconds = 60
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}

	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}

	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "farmtap-auth"
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 24 * 60
	}

	if c.Storage.Type == "" {
		c.Storage.Type = "mock"
	}
	if c.Storage.MaxFileSize == 0 {
		c.Storage.MaxFileSize = 5
	}
	if len(c.Storage.AllowedTypes) == 0 {
		c.Storage.AllowedTypes = []string{"image/jpeg", "image/png", "image/gif"}
	}
	if c.Storage.S3.PresignMinutes == 0 {
		c.Storage.S3.PresignMinutes = 60
	}

	if c.RabbitMQ.QueueName == "" {
		c.RabbitMQ.QueueName = "booking_events"
	}

	if c.SMTP.Port == 0 {
		c.SMTP.Port = 587
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Database.Port)
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry < 0 {
		return fmt.Errorf("invalid access token expiry: %d", c.JWT.AccessTokenExpiry)
	}

	if c.Auth.BcryptCost != 0 && (c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31) {
		return fmt.Errorf("bcrypt cost must be between 4 and 31")
	}

	switch c.Storage.Type {
	case "mock":
		if c.Storage.UploadDir == "" {
			return fmt.Errorf("upload directory is required for mock storage")
		}
	case "s3":
		if c.Storage.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required")
		}
		if c.Storage.S3.Region == "" {
			return fmt.Errorf("S3 region is required")
		}
	default:
		return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}
	if c.Storage.MaxFileSize < 0 {
		return fmt.Errorf("invalid max file size: %d", c.Storage.MaxFileSize)
	}

	return nil
}

// IsAdminEmail reports whether email belongs to a configured administrator.
func (c *Config) IsAdminEmail(email string) bool {
	for _, e := range c.Auth.AdminEmails {
		if strings.EqualFold(strings.TrimSpace(e), strings.TrimSpace(email)) {
			return true
		}
	}
	return false
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
