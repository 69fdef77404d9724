package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// configName is the base name of the optional config file (fastodo.yaml, fastodo.toml, fastodo.json).
const configName = "fastodo"

// Loader handles loading configuration from multiple sources
type Loader struct {
	config      *Config
	configFile  string
	searchPaths []string
	envFiles    []string
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		config:      NewConfig(),
		searchPaths: defaultSearchPaths(),
		envFiles:    []string{".env"},
	}
}

// WithConfigFile makes the loader read exactly this file; it must exist.
func (l *Loader) WithConfigFile(path string) *Loader {
	l.configFile = path
	return l
}

// WithSearchPaths replaces the directories searched for fastodo.{yaml,toml,json}.
func (l *Loader) WithSearchPaths(paths ...string) *Loader {
	l.searchPaths = paths
	return l
}

// WithEnvFiles replaces the dotenv files read before the environment.
func (l *Loader) WithEnvFiles(files ...string) *Loader {
	l.envFiles = files
	return l
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Override with the config file, if one is found
// 3. Override with .env files and environment variables
// 4. Override with command line flags (see LoadWithOverrides)
func (l *Loader) Load() (*Config, error) {
	if err := l.loadConfigFile(); err != nil {
		return nil, err
	}

	if err := l.loadEnvFiles(); err != nil {
		return nil, err
	}

	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	config, err := l.Load()
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		l.applyOverrides(config, overrides)
	}

	// Re-validate after applying overrides
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func defaultSearchPaths() []string {
	var paths []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, configName))
	} else if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", configName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".fastodo"))
	}
	return append(paths, ".")
}

// loadConfigFile reads the optional config file with viper. A missing file is not an error
// unless it was named explicitly.
func (l *Loader) loadConfigFile() error {
	v := viper.New()
	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName(configName)
		for _, path := range l.searchPaths {
			v.AddConfigPath(path)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	c := l.config
	if v.IsSet("storage.backend") {
		c.Storage.Backend = v.GetString("storage.backend")
	}
	if v.IsSet("storage.dir") {
		c.Storage.Dir = v.GetString("storage.dir")
	}
	if v.IsSet("storage.filename") {
		c.Storage.Filename = v.GetString("storage.filename")
	}
	if v.IsSet("storage.sqlite_filename") {
		c.Storage.SQLiteFilename = v.GetString("storage.sqlite_filename")
	}
	if v.IsSet("storage.key") {
		c.Storage.Key = v.GetString("storage.key")
	}
	if v.IsSet("storage.redis_url") {
		c.Storage.RedisURL = v.GetString("storage.redis_url")
	}
	if v.IsSet("storage.static_source") {
		c.Storage.StaticSource = v.GetString("storage.static_source")
	}
	if v.IsSet("storage.timeout") {
		c.Storage.Timeout = v.GetDuration("storage.timeout")
	}
	if v.IsSet("storage.dir_permissions") {
		c.Storage.DirPermissions = ParseUint32WithFallback(v.GetString("storage.dir_permissions"), 8, c.Storage.DirPermissions)
	}

	if v.IsSet("validation.name_max_length") {
		c.Validation.NameMaxLength = v.GetInt("validation.name_max_length")
	}
	if v.IsSet("validation.require_due_date") {
		c.Validation.RequireDueDate = v.GetBool("validation.require_due_date")
	}

	if v.IsSet("display.date_format") {
		c.Display.DateFormat = v.GetString("display.date_format")
	}
	if v.IsSet("display.list_default_format") {
		c.Display.ListDefaultFormat = v.GetString("display.list_default_format")
	}

	if v.IsSet("application.timeout") {
		c.Application.Timeout = v.GetDuration("application.timeout")
	}
	if v.IsSet("application.verbose") {
		c.Application.Verbose = v.GetBool("application.verbose")
	}
	if v.IsSet("application.debug") {
		c.Application.Debug = v.GetBool("application.debug")
	}

	return nil
}

// loadEnvFiles exports variables from dotenv files that exist. Variables already present in
// the environment win.
func (l *Loader) loadEnvFiles() error {
	for _, file := range l.envFiles {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("reading %s: %w", file, err)
		}
	}
	return nil
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	// Storage overrides
	StorageBackend  *string
	StorageDir      *string
	StorageFilename *string
	StorageKey      *string
	SQLiteFilename  *string
	RedisURL        *string
	StaticSource    *string

	// Validation overrides
	NameMaxLength  *int
	RequireDueDate *bool

	// Display overrides
	DateFormat        *string
	ListDefaultFormat *string

	// Application overrides
	Timeout *time.Duration
	Verbose *bool
	Debug   *bool
}

// applyOverrides applies command line overrides to the configuration
func (l *Loader) applyOverrides(config *Config, overrides *ConfigOverrides) {
	// Storage overrides
	if overrides.StorageBackend != nil {
		config.Storage.Backend = *overrides.StorageBackend
	}
	if overrides.StorageDir != nil {
		config.Storage.Dir = *overrides.StorageDir
	}
	if overrides.StorageFilename != nil {
		config.Storage.Filename = *overrides.StorageFilename
	}
	if overrides.StorageKey != nil {
		config.Storage.Key = *overrides.StorageKey
	}
	if overrides.SQLiteFilename != nil {
		config.Storage.SQLiteFilename = *overrides.SQLiteFilename
	}
	if overrides.RedisURL != nil {
		config.Storage.RedisURL = *overrides.RedisURL
	}
	if overrides.StaticSource != nil {
		config.Storage.StaticSource = *overrides.StaticSource
	}

	// Validation overrides
	if overrides.NameMaxLength != nil {
		config.Validation.NameMaxLength = *overrides.NameMaxLength
	}
	if overrides.RequireDueDate != nil {
		config.Validation.RequireDueDate = *overrides.RequireDueDate
	}

	// Display overrides
	if overrides.DateFormat != nil {
		config.Display.DateFormat = *overrides.DateFormat
	}
	if overrides.ListDefaultFormat != nil {
		config.Display.ListDefaultFormat = *overrides.ListDefaultFormat
	}

	// Application overrides
	if overrides.Timeout != nil {
		config.Application.Timeout = *overrides.Timeout
	}
	if overrides.Verbose != nil {
		config.Application.Verbose = *overrides.Verbose
	}
	if overrides.Debug != nil {
		config.Application.Debug = *overrides.Debug
	}
}

// ParseUint32WithFallback parses a uint32 string with a fallback value
func ParseUint32WithFallback(s string, base int, fallback uint32) uint32 {
	if u, err := strconv.ParseUint(s, base, 32); err == nil {
		return uint32(u)
	}
	return fallback
}
