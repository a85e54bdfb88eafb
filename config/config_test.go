package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/snooker-app/store"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.TableCount)
	assert.Equal(t, int64(70), cfg.BlockRate)
	assert.Equal(t, int64(15), cfg.BlockMinutes)
	assert.Equal(t, time.Second, cfg.TickInterval)
	assert.Equal(t, DriverBadger, cfg.StoreDriver)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("TABLE_COUNT", "6")
	t.Setenv("BLOCK_RATE", "100")
	t.Setenv("TICK_INTERVAL", "250ms")
	t.Setenv("STORE_DRIVER", "MEMORY")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.TableCount)
	assert.Equal(t, int64(100), cfg.BlockRate)
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)

	rc := cfg.RegistryConfig()
	assert.Equal(t, 6, rc.Tables)
	assert.Equal(t, int64(100), rc.Pricing.Rate)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snooker.yaml")
	require.NoError(t, os.WriteFile(path, []byte("table_count: 8\nblock_minutes: 30\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.TableCount)
	assert.Equal(t, int64(30), cfg.BlockMinutes)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			TableCount:        4,
			BlockRate:         70,
			BlockMinutes:      15,
			TickInterval:      time.Second,
			DashboardInterval: time.Second,
			StoreDriver:       DriverBadger,
			RateLimitRPS:      10,
			RateLimitBurst:    10,
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero tables", func(c *Config) { c.TableCount = 0 }},
		{"negative rate", func(c *Config) { c.BlockRate = -1 }},
		{"zero block", func(c *Config) { c.BlockMinutes = 0 }},
		{"zero tick", func(c *Config) { c.TickInterval = 0 }},
		{"no burst", func(c *Config) { c.RateLimitBurst = 0 }},
		{"unknown driver", func(c *Config) { c.StoreDriver = "redis" }},
		{"postgres without dsn", func(c *Config) { c.StoreDriver = DriverPostgres }},
	}

	require.NoError(t, valid().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestInitStore(t *testing.T) {
	dir := t.TempDir()
	configs := map[string]*Config{
		"memory": {StoreDriver: DriverMemory},
		"badger": {StoreDriver: DriverBadger, BadgerPath: filepath.Join(dir, "badger")},
		"sqlite": {StoreDriver: DriverSQLite, SQLitePath: filepath.Join(dir, "db", "snooker.db")},
	}

	for name, cfg := range configs {
		t.Run(name, func(t *testing.T) {
			kv, err := InitStore(cfg)
			require.NoError(t, err)
			defer kv.Close()

			ctx := context.Background()
			require.NoError(t, kv.Set(ctx, "k", []byte("v")))
			got, err := kv.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, "v", string(got))

			_, err = kv.Get(ctx, "missing")
			assert.ErrorIs(t, err, store.ErrKeyNotFound)
		})
	}
}
