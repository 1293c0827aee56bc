package config

import (
	"fmt"
	"strings"
	"time"

	"fairsplit/internal/core/domain"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Log      LogConfig      `mapstructure:"log"`
	Splitter SplitterConfig `mapstructure:"splitter"`
	Harness  HarnessConfig  `mapstructure:"harness"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Host      string        `mapstructure:"host"`
	Port      int           `mapstructure:"port"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	ReportTTL time.Duration `mapstructure:"report_ttl"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// JWTConfig configures operator tokens for the run endpoints.
// An empty secret leaves the run endpoints unauthenticated.
type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// SplitterConfig selects the conversion policy applied before dividing.
type SplitterConfig struct {
	Rounding      string `mapstructure:"rounding"`       // half_even, truncate
	AllowNegative bool   `mapstructure:"allow_negative"` // false rejects amounts below zero
}

// HarnessConfig holds defaults for property runs. Request-level options override them.
type HarnessConfig struct {
	Trials         int           `mapstructure:"trials"`
	Workers        int           `mapstructure:"workers"`
	Strategies     []string      `mapstructure:"strategies"`
	Invariants     []string      `mapstructure:"invariants"`
	FailFast       bool          `mapstructure:"fail_fast"`
	ShrinkMaxSteps int           `mapstructure:"shrink_max_steps"`
	ShrinkTimeout  time.Duration `mapstructure:"shrink_timeout"`
	MaxUnits       int64         `mapstructure:"max_units"`
	MaxRecipients  int           `mapstructure:"max_recipients"`
	MaxScale       int32         `mapstructure:"max_scale"`
	MaxTrials      int           `mapstructure:"max_trials"` // per-request cap on the HTTP API
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: FSP_ (fairsplit).
// Nested keys use underscore: FSP_HARNESS_TRIALS, FSP_DATABASE_HOST, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "fairsplit")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.report_ttl", "24h")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "24h")
	v.SetDefault("jwt.issuer", "fairsplit")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("splitter.rounding", "half_even")
	v.SetDefault("splitter.allow_negative", true)
	v.SetDefault("harness.trials", 1000)
	v.SetDefault("harness.workers", 4)
	v.SetDefault("harness.strategies", []string{"uniform", "boundary", "monetary"})
	v.SetDefault("harness.invariants", []string{"conservation", "scale_fidelity", "bounded_spread", "determinism", "remainder_placement"})
	v.SetDefault("harness.fail_fast", false)
	v.SetDefault("harness.shrink_max_steps", 1000)
	v.SetDefault("harness.shrink_timeout", "5s")
	v.SetDefault("harness.max_units", 1_000_000_000)
	v.SetDefault("harness.max_recipients", 100)
	v.SetDefault("harness.max_scale", 6)
	v.SetDefault("harness.max_trials", 100_000)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// FSP_HARNESS_TRIALS -> harness.trials
	v.SetEnvPrefix("FSP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Policy returns the split policy. Unknown rounding names fall back to half-even.
func (s SplitterConfig) Policy() domain.SplitPolicy {
	rounding := domain.Rounding(s.Rounding)
	if !rounding.IsValid() {
		rounding = domain.RoundHalfEven
	}
	return domain.SplitPolicy{Rounding: rounding, AllowNegative: s.AllowNegative}
}

// RunDefaults converts the harness section into the base config every run
// starts from. The seed is left unset so each run draws a fresh one.
func (h HarnessConfig) RunDefaults() domain.HarnessConfig {
	cfg := domain.HarnessConfig{
		Trials:         h.Trials,
		FailFast:       h.FailFast,
		Workers:        h.Workers,
		ShrinkMaxSteps: h.ShrinkMaxSteps,
		ShrinkTimeout:  h.ShrinkTimeout,
		Bounds: domain.GeneratorBounds{
			MaxUnits:      h.MaxUnits,
			MaxRecipients: h.MaxRecipients,
			MaxScale:      domain.ScaleBound(h.MaxScale),
		},
	}
	for _, s := range h.Strategies {
		cfg.Strategies = append(cfg.Strategies, domain.Strategy(s))
	}
	for _, inv := range h.Invariants {
		cfg.Invariants = append(cfg.Invariants, domain.Invariant(inv))
	}
	return cfg
}
