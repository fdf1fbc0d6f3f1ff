package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/javajack/sheetjson"
)

// Load reads the configuration from environment variables, applies defaults
// and validates the conversion and logging settings. Server settings are
// checked by ValidateServer and database settings by ValidateDatabase, so a
// bad SERVER_PORT does not stop a one-off conversion.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := loadStruct(reflect.ValueOf(&cfg.Server).Elem()); err != nil {
		cfg.serverErr = fmt.Errorf("config load: %w", err)
	}
	for _, section := range []any{&cfg.Convert, &cfg.Database, &cfg.Logging} {
		if err := loadStruct(reflect.ValueOf(section).Elem()); err != nil {
			return nil, fmt.Errorf("config load: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// loadStruct populates the fields of v from their env/envAlt/default tags,
// recursing into nested structs.
func loadStruct(v reflect.Value) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)
		if !fieldVal.CanSet() {
			continue
		}
		if field.Type.Kind() == reflect.Struct {
			if err := loadStruct(fieldVal); err != nil {
				return err
			}
			continue
		}

		envName := field.Tag.Get("env")
		if envName == "" {
			continue
		}
		value := os.Getenv(envName)
		if alt := field.Tag.Get("envAlt"); value == "" && alt != "" {
			value = os.Getenv(alt)
		}
		if value == "" {
			if field.Tag.Get("required") == "true" {
				return fmt.Errorf("required environment variable %s is not set", envName)
			}
			value = field.Tag.Get("default")
		}
		if value == "" {
			continue
		}
		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}
	return nil
}

func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			field.Set(reflect.ValueOf(d))
			return nil
		}
		i, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		field.SetInt(i)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}
	return nil
}

// Validate reports every invalid conversion or logging setting at once.
func (c *Config) Validate() error {
	var errs []string
	if c.Convert.MaxRows < 0 {
		errs = append(errs, fmt.Sprintf("SHEETJSON_MAX_ROWS (%d) must be non-negative", c.Convert.MaxRows))
	}
	if c.Convert.SampleSize < 0 {
		errs = append(errs, fmt.Sprintf("SHEETJSON_SAMPLE_SIZE (%d) must be non-negative", c.Convert.SampleSize))
	}
	if _, err := sheetjson.ParseKeyStyle(c.Convert.KeyStyle); err != nil {
		errs = append(errs, fmt.Sprintf("SHEETJSON_KEY_STYLE: %v", err))
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}
	return validationError(errs)
}

// ValidateServer reports invalid HTTP server settings, including values
// Load could not parse.
func (c *Config) ValidateServer() error {
	if c.serverErr != nil {
		return c.serverErr
	}
	var errs []string
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.MaxFileSize <= 0 {
		errs = append(errs, "UPLOAD_MAX_FILE_SIZE must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}
	return validationError(errs)
}

// ValidateDatabase reports missing PostgreSQL sink settings.
func (c *Config) ValidateDatabase() error {
	var errs []string
	if c.Database.URL == "" {
		errs = append(errs, "DATABASE_URL is required for the PostgreSQL sink")
	}
	if strings.TrimSpace(c.Database.Table) == "" {
		errs = append(errs, "DATABASE_TABLE must not be empty")
	}
	return validationError(errs)
}

func validationError(errs []string) error {
	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// ConvertOptions turns the conversion defaults into sheetjson options.
// The key style is assumed valid; Load rejects anything else.
func (c *Config) ConvertOptions() []sheetjson.Option {
	style, _ := sheetjson.ParseKeyStyle(c.Convert.KeyStyle)
	return []sheetjson.Option{
		sheetjson.WithMaxRows(c.Convert.MaxRows),
		sheetjson.WithKeyStyle(style),
		sheetjson.WithSampleSize(c.Convert.SampleSize),
		sheetjson.WithEncoding(c.Convert.Encoding),
	}
}
