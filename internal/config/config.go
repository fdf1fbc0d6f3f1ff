// Package config loads sheetjson settings from environment variables.
//
// Library callers configure conversions with sheetjson options; the CLI and
// HTTP server read their defaults here and let flags or query parameters
// override them.
package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Config is the complete runtime configuration.
type Config struct {
	Convert  ConvertConfig
	Server   ServerConfig
	Database DatabaseConfig
	Logging  LoggingConfig

	serverErr error // deferred ServerConfig load failure
}

// ConvertConfig holds conversion defaults.
type ConvertConfig struct {
	MaxRows    int    `env:"SHEETJSON_MAX_ROWS" default:"10000"`
	KeyStyle   string `env:"SHEETJSON_KEY_STYLE" default:"a1"`
	SampleSize int    `env:"SHEETJSON_SAMPLE_SIZE" default:"100"`
	Encoding   string `env:"SHEETJSON_ENCODING" default:"utf-8"`
	OutDir     string `env:"SHEETJSON_OUT_DIR"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `env:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `env:"SERVER_PORT" default:"8080"`
	MaxFileSize     int64         `env:"UPLOAD_MAX_FILE_SIZE" default:"104857600"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
}

// DatabaseConfig holds the optional PostgreSQL row sink settings.
type DatabaseConfig struct {
	URL   string `env:"DATABASE_URL" envAlt:"DB_URL"`
	Table string `env:"DATABASE_TABLE" default:"sheet_rows"`
}

// LoggingConfig holds log/slog settings.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" default:"info"`
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the host:port the server listens on.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// String returns the configuration with the database URL masked.
func (c *Config) String() string {
	db := ""
	if c.Database.URL != "" {
		db = "[MASKED]"
	}
	return fmt.Sprintf("Config{Convert: %+v, Server: {Addr: %s, MaxFileSize: %d}, Database: {URL: %s, Table: %q}, Logging: %+v}",
		c.Convert, c.Server.Addr(), c.Server.MaxFileSize, db, c.Database.Table, c.Logging)
}
