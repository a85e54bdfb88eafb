package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/yeremiapane/snooker-app/store"
	"github.com/yeremiapane/snooker-app/utils"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitStore opens the key-value backend selected by cfg.StoreDriver.
func InitStore(cfg *Config) (store.KV, error) {
	switch cfg.StoreDriver {
	case DriverMemory:
		utils.InfoLogger.Warn("using in-memory store, bills will not survive a restart")
		return store.NewMemoryKV(), nil

	case DriverBadger:
		if err := os.MkdirAll(cfg.BadgerPath, 0o755); err != nil {
			return nil, fmt.Errorf("create badger dir: %w", err)
		}
		kv, err := store.OpenBadger(cfg.BadgerPath, utils.InfoLogger)
		if err != nil {
			return nil, fmt.Errorf("open badger at %s: %w", cfg.BadgerPath, err)
		}
		utils.InfoLogger.Infof("bill ledger stored in badger at %s", cfg.BadgerPath)
		return kv, nil
	}

	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.StoreDriver, err)
	}
	kv, err := store.NewGormKV(db)
	if err != nil {
		return nil, fmt.Errorf("migrate %s: %w", cfg.StoreDriver, err)
	}
	utils.InfoLogger.Infof("bill ledger stored in %s", cfg.StoreDriver)
	return kv, nil
}

func dialectorFor(cfg *Config) (gorm.Dialector, error) {
	switch cfg.StoreDriver {
	case DriverSQLite:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		return sqlite.Open(cfg.SQLitePath), nil
	case DriverMySQL:
		return mysql.Open(cfg.DatabaseDSN), nil
	case DriverPostgres:
		return postgres.Open(cfg.DatabaseDSN), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
