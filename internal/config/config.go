package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Storage backends selectable with storage.backend.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendStatic = "static"
)

// Config holds all configuration options for the todo application
type Config struct {
	Storage     StorageConfig
	Validation  ValidationConfig
	Display     DisplayConfig
	Application ApplicationConfig
}

// StorageConfig holds persistence-related configuration
type StorageConfig struct {
	Backend        string        `env:"FASTODO_STORAGE_BACKEND"`
	Dir            string        `env:"FASTODO_STORAGE_DIR"`
	Filename       string        `env:"FASTODO_STORAGE_FILENAME"`
	SQLiteFilename string        `env:"FASTODO_SQLITE_FILENAME"`
	Key            string        `env:"FASTODO_STORAGE_KEY"`
	RedisURL       string        `env:"FASTODO_REDIS_URL"`
	StaticSource   string        `env:"FASTODO_STATIC_SOURCE"`
	Timeout        time.Duration `env:"FASTODO_STORAGE_TIMEOUT"`
	DirPermissions uint32        `env:"FASTODO_STORAGE_DIR_PERMISSIONS"`
}

// ValidationConfig holds validation rules configuration
type ValidationConfig struct {
	NameMaxLength  int  `env:"FASTODO_VALIDATION_NAME_MAX"`
	RequireDueDate bool `env:"FASTODO_VALIDATION_REQUIRE_DATE"`
}

// DisplayConfig holds display formatting configuration
type DisplayConfig struct {
	DateFormat        string `env:"FASTODO_DISPLAY_DATE_FORMAT"`
	ListDefaultFormat string `env:"FASTODO_LIST_DEFAULT_FORMAT"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration `env:"FASTODO_APP_TIMEOUT"`
	Verbose bool          `env:"FASTODO_APP_VERBOSE"`
	Debug   bool          `env:"FASTODO_DEBUG"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultDir := filepath.Join(homeDir, ".fastodo")

	return &Config{
		Storage: StorageConfig{
			Backend:        BackendFile,
			Dir:            defaultDir,
			Filename:       "storage.json",
			SQLiteFilename: "fastodo.db",
			Key:            "tasks",
			RedisURL:       "redis://localhost:6379/0",
			StaticSource:   "tasks.json",
			Timeout:        5 * time.Second,
			DirPermissions: 0755,
		},
		Validation: ValidationConfig{
			NameMaxLength:  255,
			RequireDueDate: false,
		},
		Display: DisplayConfig{
			DateFormat:        "2006-01-02",
			ListDefaultFormat: "table",
		},
		Application: ApplicationConfig{
			Timeout: 30 * time.Second,
			Verbose: false,
			Debug:   false,
		},
	}
}

// GetStoragePath returns the full path to the key-value storage file
func (c *Config) GetStoragePath() string {
	return filepath.Join(c.Storage.Dir, c.Storage.Filename)
}

// GetSQLitePath returns the full path to the SQLite database file
func (c *Config) GetSQLitePath() string {
	if c.Storage.SQLiteFilename == ":memory:" {
		return c.Storage.SQLiteFilename
	}
	return filepath.Join(c.Storage.Dir, c.Storage.SQLiteFilename)
}

// IsReadOnly reports whether the configured backend never accepts writes
func (c *Config) IsReadOnly() bool {
	return c.Storage.Backend == BackendStatic
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() error {
	// Storage configuration
	if backend := os.Getenv("FASTODO_STORAGE_BACKEND"); backend != "" {
		c.Storage.Backend = backend
	}
	if dir := os.Getenv("FASTODO_STORAGE_DIR"); dir != "" {
		c.Storage.Dir = dir
	}
	if filename := os.Getenv("FASTODO_STORAGE_FILENAME"); filename != "" {
		c.Storage.Filename = filename
	}
	if filename := os.Getenv("FASTODO_SQLITE_FILENAME"); filename != "" {
		c.Storage.SQLiteFilename = filename
	}
	if key := os.Getenv("FASTODO_STORAGE_KEY"); key != "" {
		c.Storage.Key = key
	}
	if url := os.Getenv("FASTODO_REDIS_URL"); url != "" {
		c.Storage.RedisURL = url
	}
	if source := os.Getenv("FASTODO_STATIC_SOURCE"); source != "" {
		c.Storage.StaticSource = source
	}
	if timeout := os.Getenv("FASTODO_STORAGE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Storage.Timeout = d
		}
	}
	if perms := os.Getenv("FASTODO_STORAGE_DIR_PERMISSIONS"); perms != "" {
		if p, err := strconv.ParseUint(perms, 8, 32); err == nil {
			c.Storage.DirPermissions = uint32(p)
		}
	}

	// Validation configuration
	if maxLen := os.Getenv("FASTODO_VALIDATION_NAME_MAX"); maxLen != "" {
		if n, err := strconv.Atoi(maxLen); err == nil {
			c.Validation.NameMaxLength = n
		}
	}
	if require := os.Getenv("FASTODO_VALIDATION_REQUIRE_DATE"); require != "" {
		if b, err := strconv.ParseBool(require); err == nil {
			c.Validation.RequireDueDate = b
		}
	}

	// Display configuration
	if format := os.Getenv("FASTODO_DISPLAY_DATE_FORMAT"); format != "" {
		c.Display.DateFormat = format
	}
	if format := os.Getenv("FASTODO_LIST_DEFAULT_FORMAT"); format != "" {
		c.Display.ListDefaultFormat = format
	}

	// Application configuration
	if timeout := os.Getenv("FASTODO_APP_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Application.Timeout = d
		}
	}
	if verbose := os.Getenv("FASTODO_APP_VERBOSE"); verbose != "" {
		if b, err := strconv.ParseBool(verbose); err == nil {
			c.Application.Verbose = b
		}
	}
	if debug := os.Getenv("FASTODO_DEBUG"); debug != "" {
		c.Application.Debug = true
	}

	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	// Validate storage configuration
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite, BackendRedis, BackendStatic:
	default:
		return &ConfigError{Field: "storage.backend", Message: "backend must be one of file, sqlite, redis, static"}
	}
	if c.Storage.Backend != BackendStatic && c.Storage.Key == "" {
		return &ConfigError{Field: "storage.key", Message: "storage key cannot be empty"}
	}
	if (c.Storage.Backend == BackendFile || c.Storage.Backend == BackendSQLite) && c.Storage.Dir == "" {
		return &ConfigError{Field: "storage.dir", Message: "storage directory cannot be empty"}
	}
	if c.Storage.Backend == BackendFile && c.Storage.Filename == "" {
		return &ConfigError{Field: "storage.filename", Message: "storage filename cannot be empty"}
	}
	if c.Storage.Backend == BackendSQLite && c.Storage.SQLiteFilename == "" {
		return &ConfigError{Field: "storage.sqlite_filename", Message: "sqlite filename cannot be empty"}
	}
	if c.Storage.Backend == BackendRedis && c.Storage.RedisURL == "" {
		return &ConfigError{Field: "storage.redis_url", Message: "redis url cannot be empty"}
	}
	if c.Storage.Backend == BackendStatic && c.Storage.StaticSource == "" {
		return &ConfigError{Field: "storage.static_source", Message: "static source cannot be empty"}
	}
	if c.Storage.Timeout <= 0 {
		return &ConfigError{Field: "storage.timeout", Message: "storage timeout must be positive"}
	}

	// Validate validation configuration
	if c.Validation.NameMaxLength < 1 {
		return &ConfigError{Field: "validation.name_max_length", Message: "name maximum length must be at least 1"}
	}

	// Validate display configuration
	if c.Display.DateFormat == "" {
		return &ConfigError{Field: "display.date_format", Message: "date format cannot be empty"}
	}
	switch c.Display.ListDefaultFormat {
	case "table", "json":
	default:
		return &ConfigError{Field: "display.list_default_format", Message: "list format must be table or json"}
	}

	// Validate application configuration
	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
