package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	envPrefix = "VIDSHARE"

	defaultHTTPAddress          = "0.0.0.0:8787"
	defaultEnvironment          = "development"
	defaultDatabaseDriver       = "postgres"
	defaultLogLevel             = "info"
	defaultLogFile              = "server.log"
	defaultHistoryCapacity      = 50
	defaultHistoryLockTTL       = 5 * time.Second
	defaultViewRecordTimeout    = 3 * time.Second
	defaultViewsPerMinute       = 120
	defaultTelemetrySampling    = 0.1
	defaultTelemetryServiceName = "vidshare-backend"
)

// DatabaseConfig describes the relational store. URL wins over the individual parts.
type DatabaseConfig struct {
	Driver   string // "postgres" or "sqlite"
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	Path     string // sqlite file
}

// DSN returns the postgres connection string
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	dsn := fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Name, d.SSLMode)
	if d.Password != "" {
		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
	}
	return dsn
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

// Enabled reports whether a Redis host was configured
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

type HistoryConfig struct {
	Capacity int
	LockTTL  time.Duration
}

type ViewsConfig struct {
	RecordTimeout time.Duration
	PerMinute     int
}

type S3Config struct {
	Region     string
	Bucket     string
	CDNBaseURL string
}

// Enabled reports whether uploads can be served
func (s S3Config) Enabled() bool {
	return s.Bucket != ""
}

type TelemetryConfig struct {
	Enabled      bool
	Endpoint     string
	SamplingRate float64
	ServiceName  string
}

// RequireConfig lists optional services whose absence should stop startup
type RequireConfig struct {
	Redis bool
	S3    bool
}

// AppConfig captures runtime configuration for the API server.
type AppConfig struct {
	HTTPAddress string
	Environment string
	JWTSecret   string
	LogLevel    string
	LogFile     string

	Database  DatabaseConfig
	Redis     RedisConfig
	History   HistoryConfig
	Views     ViewsConfig
	S3        S3Config
	Telemetry TelemetryConfig
	Require   RequireConfig
}

// RequiredServices names the optional services that must validate at startup.
// The database is always required.
func (c AppConfig) RequiredServices() []string {
	services := []string{"database"}
	if c.Require.Redis {
		services = append(services, "redis")
	}
	if c.Require.S3 {
		services = append(services, "s3")
	}
	return services
}

// IsDevelopment reports whether the server runs in development mode
func (c AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// NewViper returns a viper instance with defaults and env bindings configured.
func NewViper() *viper.Viper {
	configViper := viper.New()
	ApplyDefaults(configViper)
	return configViper
}

// ApplyDefaults configures defaults and env bindings on the provided viper instance.
func ApplyDefaults(configViper *viper.Viper) {
	configViper.SetEnvPrefix(envPrefix)
	configViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	configViper.AutomaticEnv()

	configViper.SetDefault("http.address", defaultHTTPAddress)
	configViper.SetDefault("environment", defaultEnvironment)
	configViper.SetDefault("log.level", defaultLogLevel)
	configViper.SetDefault("log.file", defaultLogFile)

	configViper.SetDefault("database.driver", defaultDatabaseDriver)
	configViper.SetDefault("database.url", "")
	configViper.SetDefault("database.host", "localhost")
	configViper.SetDefault("database.port", "5432")
	configViper.SetDefault("database.user", "postgres")
	configViper.SetDefault("database.password", "")
	configViper.SetDefault("database.name", "vidshare")
	configViper.SetDefault("database.sslmode", "disable")
	configViper.SetDefault("database.path", "vidshare.db")

	configViper.SetDefault("redis.host", "")
	configViper.SetDefault("redis.port", "6379")
	configViper.SetDefault("redis.password", "")

	configViper.SetDefault("jwt.secret", "")

	configViper.SetDefault("history.capacity", defaultHistoryCapacity)
	configViper.SetDefault("history.lock_ttl", defaultHistoryLockTTL)
	configViper.SetDefault("views.record_timeout", defaultViewRecordTimeout)
	configViper.SetDefault("ratelimit.views_per_minute", defaultViewsPerMinute)

	configViper.SetDefault("s3.region", "us-east-1")
	configViper.SetDefault("s3.bucket", "")
	configViper.SetDefault("s3.cdn_base_url", "")

	configViper.SetDefault("telemetry.enabled", false)
	configViper.SetDefault("telemetry.endpoint", "localhost:4318")
	configViper.SetDefault("telemetry.sampling_rate", defaultTelemetrySampling)
	configViper.SetDefault("telemetry.service_name", defaultTelemetryServiceName)

	configViper.SetDefault("require.redis", false)
	configViper.SetDefault("require.s3", false)
}

// Load parses runtime configuration from viper.
func Load(configViper *viper.Viper) (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddress: configViper.GetString("http.address"),
		Environment: configViper.GetString("environment"),
		JWTSecret:   configViper.GetString("jwt.secret"),
		LogLevel:    configViper.GetString("log.level"),
		LogFile:     configViper.GetString("log.file"),
		Database: DatabaseConfig{
			Driver:   strings.ToLower(configViper.GetString("database.driver")),
			URL:      configViper.GetString("database.url"),
			Host:     configViper.GetString("database.host"),
			Port:     configViper.GetString("database.port"),
			User:     configViper.GetString("database.user"),
			Password: configViper.GetString("database.password"),
			Name:     configViper.GetString("database.name"),
			SSLMode:  configViper.GetString("database.sslmode"),
			Path:     configViper.GetString("database.path"),
		},
		Redis: RedisConfig{
			Host:     configViper.GetString("redis.host"),
			Port:     configViper.GetString("redis.port"),
			Password: configViper.GetString("redis.password"),
		},
		History: HistoryConfig{
			Capacity: configViper.GetInt("history.capacity"),
			LockTTL:  configViper.GetDuration("history.lock_ttl"),
		},
		Views: ViewsConfig{
			RecordTimeout: configViper.GetDuration("views.record_timeout"),
			PerMinute:     configViper.GetInt("ratelimit.views_per_minute"),
		},
		S3: S3Config{
			Region:     configViper.GetString("s3.region"),
			Bucket:     configViper.GetString("s3.bucket"),
			CDNBaseURL: configViper.GetString("s3.cdn_base_url"),
		},
		Telemetry: TelemetryConfig{
			Enabled:      configViper.GetBool("telemetry.enabled"),
			Endpoint:     configViper.GetString("telemetry.endpoint"),
			SamplingRate: configViper.GetFloat64("telemetry.sampling_rate"),
			ServiceName:  configViper.GetString("telemetry.service_name"),
		},
		Require: RequireConfig{
			Redis: configViper.GetBool("require.redis"),
			S3:    configViper.GetBool("require.s3"),
		},
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

func (c AppConfig) validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("jwt.secret is required")
	}
	if c.History.Capacity < 1 {
		return fmt.Errorf("history.capacity must be at least 1, got %d", c.History.Capacity)
	}
	if c.Views.RecordTimeout <= 0 {
		return fmt.Errorf("views.record_timeout must be positive")
	}
	if c.Require.Redis && !c.Redis.Enabled() {
		return fmt.Errorf("require.redis is set but redis.host is empty")
	}
	if c.Require.S3 && !c.S3.Enabled() {
		return fmt.Errorf("require.s3 is set but s3.bucket is empty")
	}
	switch c.Database.Driver {
	case "postgres":
	case "sqlite":
		if strings.TrimSpace(c.Database.Path) == "" {
			return fmt.Errorf("database.path is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Database.Driver)
	}
	return nil
}
