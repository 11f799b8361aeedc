// Package config loads server configuration from defaults, an optional YAML
// file and environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Server engines.
const (
	EngineNetHTTP  = "nethttp"
	EngineFastHTTP = "fasthttp"
)

// Database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Cache      CacheConfig      `yaml:"cache"`
	Auth       AuthConfig       `yaml:"auth"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Log        LogConfig        `yaml:"log"`
	Simulation SimulationConfig `yaml:"simulation"`
}

type ServerConfig struct {
	Port         int           `yaml:"port"`
	Engine       string        `yaml:"engine"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type DatabaseConfig struct {
	Driver       string `yaml:"driver"`
	Path         string `yaml:"path"`
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

type CacheConfig struct {
	Backend    string        `yaml:"backend"`
	RedisAddr  string        `yaml:"redis_addr"`
	TTL        time.Duration `yaml:"ttl"`
	MaxEntries int           `yaml:"max_entries"`
}

type AuthConfig struct {
	JWTSecret     string        `yaml:"jwt_secret"`
	TokenDuration time.Duration `yaml:"token_duration"`
}

// RateLimitConfig sizes the per-client token bucket. A zero capacity
// disables rate limiting.
type RateLimitConfig struct {
	Capacity int           `yaml:"capacity"`
	Refill   time.Duration `yaml:"refill"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SimulationConfig bounds what a single request may ask the engine to do.
type SimulationConfig struct {
	MaxMonths   int `yaml:"max_months"`
	MaxAccounts int `yaml:"max_accounts"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:         8080,
			Engine:       EngineNetHTTP,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:       DriverSQLite,
			Path:         "./data/payoff.db",
			MaxOpenConns: 10,
		},
		Cache: CacheConfig{
			Backend:    CacheMemory,
			TTL:        10 * time.Minute,
			MaxEntries: 1024,
		},
		Auth: AuthConfig{
			JWTSecret:     "dev-secret-change-me",
			TokenDuration: 24 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			Capacity: 60,
			Refill:   time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Simulation: SimulationConfig{
			MaxMonths:   600,
			MaxAccounts: 100,
		},
	}
}

// Load reads the file named by CONFIG_FILE (if any) and the process
// environment.
func Load() (Config, error) {
	return LoadFrom(os.Getenv("CONFIG_FILE"), os.Getenv)
}

// LoadFrom builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the variables returned by env.
func LoadFrom(path string, env func(string) string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(env); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(env func(string) string) error {
	var errs []error

	str := func(key string, dst *string) {
		if v := env(key); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v := env(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v := env(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}

	num("PORT", &c.Server.Port)
	str("SERVER_ENGINE", &c.Server.Engine)
	str("DB_DRIVER", &c.Database.Driver)
	str("DB_PATH", &c.Database.Path)
	str("DATABASE_URL", &c.Database.DSN)
	str("CACHE_BACKEND", &c.Cache.Backend)
	str("REDIS_ADDR", &c.Cache.RedisAddr)
	dur("CACHE_TTL", &c.Cache.TTL)
	str("JWT_SECRET", &c.Auth.JWTSecret)
	dur("TOKEN_DURATION", &c.Auth.TokenDuration)
	num("RATE_LIMIT_CAPACITY", &c.RateLimit.Capacity)
	dur("RATE_LIMIT_REFILL", &c.RateLimit.Refill)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	num("SIM_MAX_MONTHS", &c.Simulation.MaxMonths)
	num("SIM_MAX_ACCOUNTS", &c.Simulation.MaxAccounts)

	return errors.Join(errs...)
}

// Validate reports every inconsistent setting at once.
func (c Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	switch c.Server.Engine {
	case EngineNetHTTP, EngineFastHTTP:
	default:
		errs = append(errs, fmt.Errorf("unknown server.engine %q", c.Server.Engine))
	}

	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			errs = append(errs, errors.New("database.path is required for sqlite"))
		}
	case DriverPostgres:
		if c.Database.DSN == "" {
			errs = append(errs, errors.New("database.dsn is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown database.driver %q", c.Database.Driver))
	}

	switch c.Cache.Backend {
	case CacheMemory, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			errs = append(errs, errors.New("cache.redis_addr is required for redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown cache.backend %q", c.Cache.Backend))
	}
	if c.Cache.TTL < 0 {
		errs = append(errs, errors.New("cache.ttl must not be negative"))
	}

	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required"))
	}
	if c.Auth.TokenDuration <= 0 {
		errs = append(errs, errors.New("auth.token_duration must be positive"))
	}

	if c.RateLimit.Capacity < 0 {
		errs = append(errs, errors.New("rate_limit.capacity must not be negative"))
	}
	if c.RateLimit.Capacity > 0 && c.RateLimit.Refill <= 0 {
		errs = append(errs, errors.New("rate_limit.refill must be positive when limiting is enabled"))
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log.format %q", c.Log.Format))
	}

	if c.Simulation.MaxMonths <= 0 {
		errs = append(errs, errors.New("simulation.max_months must be positive"))
	}
	if c.Simulation.MaxAccounts <= 0 {
		errs = append(errs, errors.New("simulation.max_accounts must be positive"))
	}

	return errors.Join(errs...)
}

// Addr is the listen address for the configured port.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
