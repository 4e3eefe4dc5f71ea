// Package config handles loading application configuration from environment
// variables. All config is centralized here so no other package reads env
// vars directly. Sensible defaults are provided for development.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// AuthType selects the authentication strategy applied to protected routes.
type AuthType string

const (
	// AuthNone disables authentication entirely.
	AuthNone AuthType = "none"

	// AuthBasic authenticates via the Authorization: Basic header.
	AuthBasic AuthType = "basic"

	// AuthSession authenticates via the session_id cookie.
	AuthSession AuthType = "session"
)

// SessionBackend selects where sessions are kept.
type SessionBackend string

const (
	// SessionMemory keeps sessions in an in-process map.
	SessionMemory SessionBackend = "memory"

	// SessionRedis keeps sessions in Redis with native key expiry.
	SessionRedis SessionBackend = "redis"

	// SessionDatabase stores the single active session id on the user row.
	// No TTL support: sessions live until destroyed.
	SessionDatabase SessionBackend = "database"
)

// Config holds all application configuration. Populated from environment
// variables at startup. Passed to other packages via dependency injection.
type Config struct {
	// Env is the runtime environment: "development" or "production".
	Env string

	// Port is the HTTP listen port (default: 8080).
	Port int

	// LogLevel controls log verbosity: "debug", "info", "warn", "error".
	LogLevel string

	// Database holds MariaDB connection settings.
	Database DatabaseConfig

	// Redis holds Redis connection settings.
	Redis RedisConfig

	// Auth holds authentication-related settings.
	Auth AuthConfig
}

// DatabaseConfig holds MariaDB connection parameters. Individual fields
// (Host, User, Password, Name) are read from separate env vars so container
// orchestrators can manage each independently. If DATABASE_URL is set, it
// takes precedence over the individual fields.
type DatabaseConfig struct {
	// Host is the MariaDB address in host:port format (default: "localhost:3306").
	// If no port is specified, 3306 is appended automatically.
	Host string

	// User is the MariaDB username (default: "gatehouse").
	User string

	// Password is the MariaDB password (default: "gatehouse").
	Password string

	// Name is the database name (default: "gatehouse").
	Name string

	// dsnOverride is set when DATABASE_URL is provided, bypassing individual fields.
	dsnOverride string

	// MaxOpenConns is the maximum number of open connections in the pool.
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections in the pool.
	MaxIdleConns int

	// ConnMaxLifetime is how long a connection can be reused.
	ConnMaxLifetime time.Duration
}

// DSN returns the go-sql-driver/mysql connection string. If DATABASE_URL was
// set, it is returned as-is. Otherwise the DSN is built from the individual
// Host/User/Password/Name fields using the driver's Config.FormatDSN()
// to safely handle special characters in passwords.
func (d DatabaseConfig) DSN() string {
	if d.dsnOverride != "" {
		return d.dsnOverride
	}
	cfg := mysql.NewConfig()
	cfg.User = d.User
	cfg.Passwd = d.Password
	cfg.Net = "tcp"
	cfg.Addr = ensurePort(d.Host, "3306")
	cfg.DBName = d.Name
	cfg.ParseTime = true
	return cfg.FormatDSN()
}

// ensurePort appends the default port if the host string doesn't include one.
// Allows users to set DB_HOST=mydb (gets :3306) or DB_HOST=mydb:3307 (as-is).
func ensurePort(host, defaultPort string) string {
	_, _, err := net.SplitHostPort(host)
	if err != nil {
		return net.JoinHostPort(host, defaultPort)
	}
	return host
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	// URL is the Redis connection URL (e.g., "redis://localhost:6379").
	URL string
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	// Type selects the strategy for protected routes: none, basic, session.
	Type AuthType

	// SessionBackend selects the session store: memory, redis or database.
	SessionBackend SessionBackend

	// SessionTTL is how long sessions last before expiring.
	// Zero or negative means sessions never expire.
	SessionTTL time.Duration

	// ExcludedPaths lists path patterns exempt from authentication.
	// A trailing "*" matches by prefix; anything else matches exactly
	// (trailing slashes ignored).
	ExcludedPaths []string
}

// Load reads configuration from environment variables with sensible defaults.
// Returns an error if a value is present but invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost:3306"),
			User:            getEnv("DB_USER", "gatehouse"),
			Password:        getEnv("DB_PASSWORD", "gatehouse"),
			Name:            getEnv("DB_NAME", "gatehouse"),
			dsnOverride:     getEnv("DATABASE_URL", ""),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},

		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379"),
		},

		Auth: AuthConfig{
			Type:           AuthType(getEnv("AUTH_TYPE", string(AuthSession))),
			SessionBackend: SessionBackend(getEnv("SESSION_STORE", string(SessionMemory))),
			SessionTTL:     getEnvDuration("SESSION_TTL", 0),
			// The built-in endpoints enforce their own credential checks
			// (profile and logout answer 403, not 401, on a bad cookie), so
			// they are exempt from the strategy middleware by default. The
			// middleware guards any additional routes a deployment mounts.
			ExcludedPaths: splitPaths(getEnv("EXCLUDED_PATHS",
				"/,/healthz,/users,/sessions,/profile,/reset_password")),
		},
	}

	switch cfg.Auth.Type {
	case AuthNone, AuthBasic, AuthSession:
	default:
		return nil, fmt.Errorf("invalid AUTH_TYPE %q (want none, basic or session)", cfg.Auth.Type)
	}

	switch cfg.Auth.SessionBackend {
	case SessionMemory, SessionRedis, SessionDatabase:
	default:
		return nil, fmt.Errorf("invalid SESSION_STORE %q (want memory, redis or database)", cfg.Auth.SessionBackend)
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Env)
	return env == "development" || env == "dev"
}

// splitPaths parses a comma-separated pattern list, dropping empty entries.
func splitPaths(raw string) []string {
	var paths []string
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// --- Helper functions for reading environment variables ---

// getEnv reads a string env var or returns the default.
func getEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

// getEnvInt reads an integer env var or returns the default.
func getEnvInt(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvDuration reads a duration env var (e.g., "24h") or returns the
// default. Bare integers are accepted as seconds for compatibility with
// deployments that set SESSION_TTL=3600.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(val); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultVal
}
