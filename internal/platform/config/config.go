package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const devSigningKey = "dev-secret-key-change-in-production"

// Config is the full runtime configuration.
type Config struct {
	Environment string
	LogLevel    string
	Server      Server
	Database    DatabaseConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
	JWT         JWTConfig
	OTP         OTPConfig
	Sequence    SequenceConfig
	RateLimit   RateLimitConfig
	Notify      NotifyConfig
	Upload      UploadConfig
	Admin       AdminConfig
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
	MaxUploadBytes  int64
}

// DatabaseConfig selects Postgres stores when URL is set; in-memory otherwise.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig enables the Kafka notification queue when Brokers is non-empty.
type KafkaConfig struct {
	Brokers           []string
	NotificationTopic string
	ConsumerGroup     string
}

type JWTConfig struct {
	SigningKey      string
	Issuer          string
	IndividualTTL   time.Duration
	OrganizationTTL time.Duration
}

type OTPConfig struct {
	Length           int
	VerificationTTL  time.Duration
	PasswordResetTTL time.Duration
}

// SequenceConfig picks the display ID allocator: "postgres", "redis" or "memory".
type SequenceConfig struct {
	Backend string
}

type RateLimitConfig struct {
	PerSecond float64
	Burst     int
}

type NotifyConfig struct {
	Workers    int
	BufferSize int
}

// UploadConfig configures the development file uploader.
type UploadConfig struct {
	Dir     string
	BaseURL string
}

// AdminConfig bootstraps one administrator account at startup.
type AdminConfig struct {
	Email    string
	Phone    string
	Password string
}

// IsProduction reports whether dev conveniences must be disabled.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads configuration from an optional config file and environment
// variables. Environment wins.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("consultly")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Environment: v.GetString("ENVIRONMENT"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		Server: Server{
			Addr:            v.GetString("ADDR"),
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
			MaxUploadBytes:  v.GetInt64("MAX_UPLOAD_BYTES"),
		},
		Database: DatabaseConfig{
			URL:             v.GetString("DATABASE_URL"),
			MaxOpenConns:    v.GetInt("DATABASE_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DATABASE_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DATABASE_CONN_MAX_LIFETIME"),
		},
		Redis: RedisConfig{
			URL:          v.GetString("REDIS_URL"),
			PoolSize:     v.GetInt("REDIS_POOL_SIZE"),
			MinIdleConns: v.GetInt("REDIS_MIN_IDLE_CONNS"),
			DialTimeout:  v.GetDuration("REDIS_DIAL_TIMEOUT"),
			ReadTimeout:  v.GetDuration("REDIS_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("REDIS_WRITE_TIMEOUT"),
		},
		Kafka: KafkaConfig{
			Brokers:           splitList(v.GetString("KAFKA_BROKERS")),
			NotificationTopic: v.GetString("KAFKA_NOTIFICATION_TOPIC"),
			ConsumerGroup:     v.GetString("KAFKA_CONSUMER_GROUP"),
		},
		JWT: JWTConfig{
			SigningKey:      v.GetString("JWT_SIGNING_KEY"),
			Issuer:          v.GetString("JWT_ISSUER"),
			IndividualTTL:   v.GetDuration("JWT_INDIVIDUAL_TTL"),
			OrganizationTTL: v.GetDuration("JWT_ORGANIZATION_TTL"),
		},
		OTP: OTPConfig{
			Length:           v.GetInt("OTP_LENGTH"),
			VerificationTTL:  v.GetDuration("OTP_VERIFICATION_TTL"),
			PasswordResetTTL: v.GetDuration("OTP_PASSWORD_RESET_TTL"),
		},
		Sequence: SequenceConfig{
			Backend: v.GetString("SEQUENCE_BACKEND"),
		},
		RateLimit: RateLimitConfig{
			PerSecond: v.GetFloat64("RATE_LIMIT_PER_SECOND"),
			Burst:     v.GetInt("RATE_LIMIT_BURST"),
		},
		Notify: NotifyConfig{
			Workers:    v.GetInt("NOTIFY_WORKERS"),
			BufferSize: v.GetInt("NOTIFY_BUFFER_SIZE"),
		},
		Upload: UploadConfig{
			Dir:     v.GetString("UPLOAD_DIR"),
			BaseURL: v.GetString("UPLOAD_BASE_URL"),
		},
		Admin: AdminConfig{
			Email:    v.GetString("ADMIN_EMAIL"),
			Phone:    v.GetString("ADMIN_PHONE"),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
	}

	if cfg.Sequence.Backend == "" {
		cfg.Sequence.Backend = defaultSequenceBackend(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ADDR", ":8080")
	v.SetDefault("SHUTDOWN_TIMEOUT", 10*time.Second)
	v.SetDefault("MAX_UPLOAD_BYTES", 20<<20)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DATABASE_MAX_OPEN_CONNS", 20)
	v.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_MIN_IDLE_CONNS", 2)
	v.SetDefault("REDIS_DIAL_TIMEOUT", 5*time.Second)
	v.SetDefault("REDIS_READ_TIMEOUT", 3*time.Second)
	v.SetDefault("REDIS_WRITE_TIMEOUT", 3*time.Second)
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_NOTIFICATION_TOPIC", "consultly.notifications")
	v.SetDefault("KAFKA_CONSUMER_GROUP", "consultly-notification-relay")
	v.SetDefault("JWT_SIGNING_KEY", devSigningKey)
	v.SetDefault("JWT_ISSUER", "consultly")
	v.SetDefault("JWT_INDIVIDUAL_TTL", 24*time.Hour)
	v.SetDefault("JWT_ORGANIZATION_TTL", 7*24*time.Hour)
	v.SetDefault("OTP_LENGTH", 6)
	v.SetDefault("OTP_VERIFICATION_TTL", 10*time.Minute)
	v.SetDefault("OTP_PASSWORD_RESET_TTL", 15*time.Minute)
	v.SetDefault("SEQUENCE_BACKEND", "")
	v.SetDefault("RATE_LIMIT_PER_SECOND", 1.0)
	v.SetDefault("RATE_LIMIT_BURST", 10)
	v.SetDefault("NOTIFY_WORKERS", 4)
	v.SetDefault("NOTIFY_BUFFER_SIZE", 256)
	v.SetDefault("UPLOAD_DIR", "./uploads")
	v.SetDefault("UPLOAD_BASE_URL", "http://localhost:8080/uploads")
	v.SetDefault("ADMIN_EMAIL", "")
	v.SetDefault("ADMIN_PHONE", "")
	v.SetDefault("ADMIN_PASSWORD", "")
}

func defaultSequenceBackend(cfg *Config) string {
	if cfg.Database.URL != "" {
		return "postgres"
	}
	return "memory"
}

func (c *Config) validate() error {
	if c.IsProduction() && c.JWT.SigningKey == devSigningKey {
		return errors.New("JWT_SIGNING_KEY must be set in production")
	}
	if len(c.JWT.SigningKey) < 16 {
		return errors.New("JWT_SIGNING_KEY must be at least 16 characters")
	}
	switch c.Sequence.Backend {
	case "memory":
		if c.IsProduction() {
			return errors.New("in-memory sequence backend is not allowed in production")
		}
	case "postgres":
		if c.Database.URL == "" {
			return errors.New("SEQUENCE_BACKEND=postgres requires DATABASE_URL")
		}
	case "redis":
		if c.Redis.URL == "" {
			return errors.New("SEQUENCE_BACKEND=redis requires REDIS_URL")
		}
	default:
		return errors.New("SEQUENCE_BACKEND must be one of postgres, redis, memory")
	}
	if c.OTP.Length < 4 || c.OTP.Length > 10 {
		return errors.New("OTP_LENGTH must be between 4 and 10")
	}
	if (c.Admin.Email == "") != (c.Admin.Password == "") {
		return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
