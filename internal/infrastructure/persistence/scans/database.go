// Package scans provides the persisted scan history store, backed by
// either a local SQLite file or a remote libsql database per project.
package scans

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"

	"github.com/schemascope/schemascope-go/pkg/config"
)

var (
	connectionPools = make(map[string]*sql.DB)
	poolMutex       = &sync.RWMutex{}
)

// DatabaseConfig carries the per-project connection settings.
type DatabaseConfig struct {
	ProjectID      string
	SQLitePath     string
	LibsqlDatabase string
	LibsqlToken    string
	LibsqlEnabled  bool
}

type Database struct {
	Conn      *sql.DB
	ProjectID string
	UseLibsql bool
	isPooled  bool
}

// NewDatabase opens (or reuses a pooled) connection for one project.
func NewDatabase(cfg DatabaseConfig) (*Database, error) {
	poolKey := getPoolKey(cfg)

	poolMutex.Lock()
	defer poolMutex.Unlock()

	if pooledConn, exists := connectionPools[poolKey]; exists {
		if err := pooledConn.Ping(); err == nil {
			return &Database{
				Conn:      pooledConn,
				ProjectID: cfg.ProjectID,
				UseLibsql: cfg.LibsqlDatabase != "",
				isPooled:  true,
			}, nil
		}
		pooledConn.Close()
		delete(connectionPools, poolKey)
	}

	var conn *sql.DB
	var err error
	var useLibsql bool

	if cfg.LibsqlEnabled && cfg.LibsqlDatabase != "" && cfg.LibsqlToken != "" {
		connStr := cfg.LibsqlDatabase + "?authToken=" + cfg.LibsqlToken
		conn, err = sql.Open("libsql", connStr)
		if err != nil || conn.Ping() != nil {
			return nil, fmt.Errorf("project %s degraded: libsql connection failed", cfg.ProjectID)
		}
		useLibsql = true
	} else {
		dbDir := filepath.Dir(cfg.SQLitePath)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}

		conn, err = sql.Open("sqlite3", cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("sqlite connection failed: %w", err)
		}
		if err := conn.Ping(); err != nil {
			conn.Close()
			return nil, fmt.Errorf("sqlite database ping failed: %w", err)
		}
	}

	conn.SetMaxOpenConns(config.DBMaxOpenConns)
	conn.SetMaxIdleConns(config.DBMaxIdleConns)
	conn.SetConnMaxLifetime(time.Duration(config.DBConnMaxLifetimeMinutes) * time.Minute)
	conn.SetConnMaxIdleTime(time.Duration(config.DBConnMaxIdleMinutes) * time.Minute)

	connectionPools[poolKey] = conn

	return &Database{
		Conn:      conn,
		ProjectID: cfg.ProjectID,
		UseLibsql: useLibsql,
		isPooled:  true,
	}, nil
}

func getPoolKey(cfg DatabaseConfig) string {
	if cfg.LibsqlDatabase != "" {
		return fmt.Sprintf("libsql:%s", cfg.ProjectID)
	}
	return fmt.Sprintf("sqlite:%s", cfg.SQLitePath)
}

func (db *Database) Close() error {
	if db.isPooled {
		return nil
	}
	if db.Conn != nil {
		return db.Conn.Close()
	}
	return nil
}

func (db *Database) GetConnectionInfo() string {
	poolStatus := ""
	if db.isPooled {
		poolStatus = " (pooled)"
	}
	if db.UseLibsql {
		return fmt.Sprintf("libsql (project: %s)%s", db.ProjectID, poolStatus)
	}
	return fmt.Sprintf("SQLite (project: %s)%s", db.ProjectID, poolStatus)
}

// GetPoolStats reports pool totals for the health endpoint.
func GetPoolStats() map[string]int {
	poolMutex.RLock()
	defer poolMutex.RUnlock()

	stats := make(map[string]int)
	stats["total"] = len(connectionPools)
	active := 0
	for _, conn := range connectionPools {
		if conn.Ping() == nil {
			active++
		}
	}
	stats["active"] = active
	return stats
}

// CleanupStaleConnections drops dead or oversized pooled connections.
func CleanupStaleConnections() {
	poolMutex.Lock()
	defer poolMutex.Unlock()

	staleKeys := make([]string, 0)
	for key, conn := range connectionPools {
		if err := conn.Ping(); err != nil {
			conn.Close()
			staleKeys = append(staleKeys, key)
			continue
		}
		stats := conn.Stats()
		if stats.Idle > config.DBMaxIdleConns && stats.OpenConnections > config.DBMaxOpenConns {
			conn.Close()
			staleKeys = append(staleKeys, key)
		}
	}

	for _, key := range staleKeys {
		delete(connectionPools, key)
	}
}
