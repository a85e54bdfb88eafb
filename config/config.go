package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/yeremiapane/snooker-app/services"
)

// Store drivers understood by InitStore.
const (
	DriverBadger   = "badger"
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Port     string
	GinMode  string
	LogLevel string

	TableCount   int
	BlockRate    int64
	BlockMinutes int64
	TickInterval time.Duration

	// DashboardInterval is how often ledger totals are polled for displays.
	DashboardInterval time.Duration

	StoreDriver string
	BadgerPath  string
	SQLitePath  string
	DatabaseDSN string

	RateLimitRPS   float64
	RateLimitBurst int
	CORSOrigin     string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("gin_mode", "debug")
	v.SetDefault("log_level", "info")
	v.SetDefault("table_count", services.DefaultTableCount)
	v.SetDefault("block_rate", services.DefaultBlockRate)
	v.SetDefault("block_minutes", services.DefaultBlockMinutes)
	v.SetDefault("tick_interval", "1s")
	v.SetDefault("dashboard_interval", "5s")
	v.SetDefault("store_driver", DriverBadger)
	v.SetDefault("badger_path", "data/badger")
	v.SetDefault("sqlite_path", "data/snooker.db")
	v.SetDefault("database_dsn", "")
	v.SetDefault("rate_limit_rps", 20)
	v.SetDefault("rate_limit_burst", 40)
	v.SetDefault("cors_origin", "*")
	v.SetDefault("config_file", "")
}

// LoadConfig reads configuration from the environment, optionally layered
// over the file named by CONFIG_FILE.
func LoadConfig() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()

	if file := v.GetString("config_file"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", file, err)
		}
	}

	cfg := &Config{
		Port:              v.GetString("port"),
		GinMode:           v.GetString("gin_mode"),
		LogLevel:          v.GetString("log_level"),
		TableCount:        v.GetInt("table_count"),
		BlockRate:         v.GetInt64("block_rate"),
		BlockMinutes:      v.GetInt64("block_minutes"),
		TickInterval:      v.GetDuration("tick_interval"),
		DashboardInterval: v.GetDuration("dashboard_interval"),
		StoreDriver:       strings.ToLower(v.GetString("store_driver")),
		BadgerPath:        v.GetString("badger_path"),
		SQLitePath:        v.GetString("sqlite_path"),
		DatabaseDSN:       v.GetString("database_dsn"),
		RateLimitRPS:      v.GetFloat64("rate_limit_rps"),
		RateLimitBurst:    v.GetInt("rate_limit_burst"),
		CORSOrigin:        v.GetString("cors_origin"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the config is usable.
func (c *Config) Validate() error {
	if c.TableCount <= 0 {
		return errors.New("TABLE_COUNT must be positive")
	}
	if c.BlockRate <= 0 {
		return errors.New("BLOCK_RATE must be positive")
	}
	if c.BlockMinutes <= 0 {
		return errors.New("BLOCK_MINUTES must be positive")
	}
	if c.TickInterval <= 0 {
		return errors.New("TICK_INTERVAL must be positive")
	}
	if c.DashboardInterval <= 0 {
		return errors.New("DASHBOARD_INTERVAL must be positive")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}

	switch c.StoreDriver {
	case DriverBadger, DriverSQLite, DriverMemory:
	case DriverMySQL, DriverPostgres:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("DATABASE_DSN is required for store driver %s", c.StoreDriver)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	return nil
}

func (c *Config) Pricing() services.Pricing {
	return services.Pricing{Rate: c.BlockRate, BlockMinutes: c.BlockMinutes}
}

func (c *Config) RegistryConfig() services.RegistryConfig {
	return services.RegistryConfig{
		Tables:       c.TableCount,
		Pricing:      c.Pricing(),
		TickInterval: c.TickInterval,
	}
}
