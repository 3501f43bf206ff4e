package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"github.com/PedroFNMDEV/SextoCommit/internal/config"
)

// Open returns a pooled connection source for the configured store driver.
// Connections are acquired per statement or transaction and always returned
// to the pool; nothing in the service holds one across requests.
func Open(cfg config.Config) (*sql.DB, error) {
	switch cfg.StoreDriver {
	case "mysql":
		return open("mysql", cfg.DBDSN, cfg)
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir db dir: %w", err)
		}
		dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", cfg.DBPath)
		return open("sqlite", dsn, cfg)
	}
}

func open(driver, dsn string, cfg config.Config) (*sql.DB, error) {
	d, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	d.SetMaxOpenConns(cfg.DBMaxOpenConns)
	d.SetMaxIdleConns(cfg.DBMaxIdleConns)
	d.SetConnMaxLifetime(cfg.DBConnMaxLifetime)
	if err := d.Ping(); err != nil {
		return nil, err
	}
	return d, nil
}

// OpenSQLite opens a standalone sqlite database at path. Used by tests and
// tooling that do not carry a full Config.
func OpenSQLite(path string, maxOpen, maxIdle int, maxLifetime time.Duration) (*sql.DB, error) {
	cfg := config.Config{
		StoreDriver:       "sqlite",
		DBPath:            path,
		DBMaxOpenConns:    maxOpen,
		DBMaxIdleConns:    maxIdle,
		DBConnMaxLifetime: maxLifetime,
	}
	return Open(cfg)
}
