// Package config provides centralized default values for SchemaScope
package config

import (
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		if err := godotenv.Load(); err != nil {
			return
		}
		log.Println("Loaded configuration overrides from .env file")
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%t (default: %t)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	// Engine tunables. These are the defaults for the public engine entry
	// points; callers may override per request.
	ScanEntryLimit     int           // max entries fetched per model per query
	ContainmentMaxHops int           // transitive containment search bound
	QueryMaxDepth      int           // selection-set recursion bound
	ScanPacingDelay    time.Duration // delay between batch scan elements

	// GraphQL transport
	GraphQLRequestTimeout time.Duration
	GraphQLRetryMax       int

	// Database Pool (scan history store)
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeMinutes int
	DBConnMaxIdleMinutes     int

	// Project system
	HomeDirName        string // base directory under $HOME for registry + configs
	EnableMultiProject bool

	// Auth
	AdminTokenTTL time.Duration
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 60*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)

	// Engine tunables
	ScanEntryLimit = getEnvInt("SCAN_ENTRY_LIMIT", 100)
	ContainmentMaxHops = getEnvInt("CONTAINMENT_MAX_HOPS", 3)
	QueryMaxDepth = getEnvInt("QUERY_MAX_DEPTH", 5)
	ScanPacingDelay = getEnvDuration("SCAN_PACING_DELAY", 100*time.Millisecond)

	// GraphQL transport
	GraphQLRequestTimeout = getEnvDuration("GRAPHQL_REQUEST_TIMEOUT", 30*time.Second)
	GraphQLRetryMax = getEnvInt("GRAPHQL_RETRY_MAX", 2)

	// Database Pool
	DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 3)
	DBConnMaxLifetimeMinutes = getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)
	DBConnMaxIdleMinutes = getEnvInt("DB_CONN_MAX_IDLE_MINUTES", 3)

	// Project system
	HomeDirName = getEnvString("SCHEMASCOPE_HOME", "schemascope-server")
	EnableMultiProject = getEnvBool("ENABLE_MULTI_PROJECT", false)

	// Auth
	AdminTokenTTL = getEnvDuration("ADMIN_TOKEN_TTL", 24*time.Hour)
}
