package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Log       LogConfig
	RateLimit RateLimitConfig
	Socket    SocketConfig
	Schedule  ScheduleConfig
}

type ServerConfig struct {
	Port            int           `envconfig:"SERVER_PORT" default:"3001"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
	Environment     string        `envconfig:"ENVIRONMENT" default:"development"`
}

type DatabaseConfig struct {
	Host            string        `envconfig:"DB_HOST" default:"localhost"`
	Port            int           `envconfig:"DB_PORT" default:"5432"`
	User            string        `envconfig:"DB_USER" required:"true"`
	Password        string        `envconfig:"DB_PASSWORD" required:"true"`
	Name            string        `envconfig:"DB_NAME" required:"true"`
	SSLMode         string        `envconfig:"DB_SSL_MODE" default:"disable"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
	MigrationsPath  string        `envconfig:"DB_MIGRATIONS_PATH"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RateLimitConfig guards the socket upgrade route and the HTTP API. It needs
// Redis, so it is off unless explicitly enabled.
type RateLimitConfig struct {
	Enabled        bool `envconfig:"RATE_LIMIT_ENABLED" default:"false"`
	RequestsPerMin int  `envconfig:"RATE_LIMIT_REQUESTS_PER_MIN" default:"120"`
}

type SocketConfig struct {
	Path           string        `envconfig:"SOCKET_PATH" default:"/"`
	MaxMessageSize int64         `envconfig:"SOCKET_MAX_MESSAGE_SIZE" default:"65536"`
	PingInterval   time.Duration `envconfig:"SOCKET_PING_INTERVAL" default:"30s"`
	PongWait       time.Duration `envconfig:"SOCKET_PONG_WAIT" default:"60s"`
	WriteWait      time.Duration `envconfig:"SOCKET_WRITE_WAIT" default:"10s"`
	SendBuffer     int           `envconfig:"SOCKET_SEND_BUFFER" default:"64"`
}

type ScheduleConfig struct {
	Timezone          string        `envconfig:"SCHEDULE_TIMEZONE" default:"Asia/Jakarta"`
	BroadcastInterval time.Duration `envconfig:"SCHEDULE_BROADCAST_INTERVAL" default:"1s"`
}

// Location resolves Timezone. Every schedule comparison happens in this zone.
func (c ScheduleConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if cfg.Schedule.BroadcastInterval < time.Second {
		return nil, fmt.Errorf("loading config: SCHEDULE_BROADCAST_INTERVAL must be at least 1s, got %s", cfg.Schedule.BroadcastInterval)
	}
	return &cfg, nil
}
