package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const defaultRatesURL = "https://cdn.jsdelivr.net/npm/@fawazahmed0/currency-api@latest/v1/currencies/eur.json"

type Config struct {
	Server     ServerConfig     `envconfig:"SERVER"`
	RateSource RateSourceConfig `envconfig:"RATE_SOURCE"`
	Cache      CacheConfig      `envconfig:"CACHE"`
	Session    SessionConfig    `envconfig:"SESSION"`
	Log        LogConfig        `envconfig:"LOG"`
}

type ServerConfig struct {
	Port         int           `envconfig:"PORT" default:"8080"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"10s"`
	IdleTimeout  time.Duration `envconfig:"IDLE_TIMEOUT" default:"120s"`
}

// RateSourceConfig points at the upstream rate table and the as-of date.
// When RatesField is set the table is read from that field of the rates
// response instead of its top-level object.
type RateSourceConfig struct {
	RatesURL   string        `envconfig:"RATES_URL"`
	RatesField string        `envconfig:"RATES_FIELD" default:"eur"`
	DateURL    string        `envconfig:"DATE_URL"`
	Timeout    time.Duration `envconfig:"TIMEOUT" default:"10s"`
}

// CacheConfig selects the upstream rate cache. An empty RedisURL keeps the
// table in process memory.
type CacheConfig struct {
	TTL       time.Duration `envconfig:"TTL" default:"30m"`
	RedisURL  string        `envconfig:"REDIS_URL"`
	KeyPrefix string        `envconfig:"KEY_PREFIX" default:"calc:rates:"`
}

type SessionConfig struct {
	TTL           time.Duration `envconfig:"TTL" default:"30m"`
	SweepInterval time.Duration `envconfig:"SWEEP_INTERVAL" default:"1m"`
	SampleSize    int           `envconfig:"SAMPLE_SIZE" default:"5"`
}

type LogConfig struct {
	Level  string `envconfig:"LEVEL" default:"info"`
	Format string `envconfig:"FORMAT" default:"text"`
}

// LoadConfig reads the optional env files (".env" when none are given)
// and then the process environment. Variables already set in the
// environment win over the files.
func LoadConfig(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if cfg.RateSource.RatesURL == "" {
		cfg.RateSource.RatesURL = defaultRatesURL
	}
	if cfg.RateSource.DateURL == "" {
		cfg.RateSource.DateURL = cfg.RateSource.RatesURL
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid SERVER_PORT: %d", c.Server.Port)
	}
	if c.RateSource.Timeout <= 0 {
		return fmt.Errorf("invalid RATE_SOURCE_TIMEOUT: %s", c.RateSource.Timeout)
	}
	if c.Session.SampleSize < 0 {
		return fmt.Errorf("invalid SESSION_SAMPLE_SIZE: %d", c.Session.SampleSize)
	}
	if c.Session.SweepInterval <= 0 {
		return fmt.Errorf("invalid SESSION_SWEEP_INTERVAL: %s", c.Session.SweepInterval)
	}
	return nil
}
