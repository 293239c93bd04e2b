package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"fridge-app-go/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Keys are derived from field names: Store.Redis.Addr reads STORE_REDIS_ADDR.
// Nested fields carry no envconfig tag so that an unset DB_USER never falls back to $USER.
type Config struct {
	HTTPPort    string   `split_words:"true" default:"8080"`
	Env         string   `default:"development"`
	CORSOrigins []string `split_words:"true" default:"http://localhost:5173"`
	// ShutdownTimeout bounds the drain of in-flight requests on SIGTERM.
	ShutdownTimeout time.Duration `split_words:"true" default:"10s"`
	Store           StoreConfig
	DB              DBConfig
	Identity        IdentityConfig
	Cache           CacheConfig
}

type StoreConfig struct {
	Backend string `default:"file"`
	Dir     string `default:"./data"`
	Redis   RedisConfig
}

type RedisConfig struct {
	Addr     string `default:"localhost:6379"`
	Password string
	DB       int    `default:"0"`
	Prefix   string `default:"fridge:"`
}

type DBConfig struct {
	DSN             string
	Host            string        `default:"localhost"`
	Port            string        `default:"5432"`
	User            string        `default:"postgres"`
	Password        string        `default:"postgres"`
	Name            string        `default:"fridge_app"`
	SSLMode         string        `split_words:"true" default:"disable"`
	TimeZone        string        `split_words:"true" default:"UTC"`
	MaxOpenConns    int           `split_words:"true" default:"10"`
	MaxIdleConns    int           `split_words:"true" default:"5"`
	ConnMaxLifetime time.Duration `split_words:"true" default:"30m"`
}

type IdentityConfig struct {
	DefaultName   string `split_words:"true" default:"Me"`
	AutoProvision bool   `split_words:"true" default:"true"`
}

type CacheConfig struct {
	Enabled bool          `default:"true"`
	TTL     time.Duration `default:"1m"`
}

// Load reads an optional .env file and then the process environment.
// Variables already present in the environment win over .env values.
func Load(log logger.Logger) (Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load .env: %w", err)
		}
		log.Debug("dotenv: no .env file found")
	} else {
		log.Info("dotenv: loaded .env")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}
	cfg.Store.Backend = strings.ToLower(strings.TrimSpace(cfg.Store.Backend))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendFile, BackendRedis, BackendPostgres:
	default:
		return fmt.Errorf("config: unknown store backend %q", c.Store.Backend)
	}
	if c.Store.Backend == BackendFile && strings.TrimSpace(c.Store.Dir) == "" {
		return errors.New("config: STORE_DIR is required for the file backend")
	}
	if c.Cache.TTL < 0 {
		return errors.New("config: CACHE_TTL must not be negative")
	}
	if c.ShutdownTimeout < 0 {
		return errors.New("config: SHUTDOWN_TIMEOUT must not be negative")
	}
	return nil
}

func (c Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
