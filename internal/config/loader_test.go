package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv removes key for the duration of the test and restores it afterwards.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func isolatedLoader(t *testing.T) (*Loader, string) {
	t.Helper()
	dir := t.TempDir()
	return NewLoader().WithSearchPaths(dir).WithEnvFiles(), dir
}

func TestLoader_Load_DefaultsWithoutConfigFile(t *testing.T) {
	unsetEnv(t, "FASTODO_STORAGE_BACKEND")
	loader, _ := isolatedLoader(t)

	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
}

func TestLoader_Load_YAMLConfigFile(t *testing.T) {
	unsetEnv(t, "FASTODO_STORAGE_BACKEND")
	unsetEnv(t, "FASTODO_STORAGE_KEY")
	unsetEnv(t, "FASTODO_VALIDATION_REQUIRE_DATE")
	unsetEnv(t, "FASTODO_APP_TIMEOUT")
	loader, dir := isolatedLoader(t)
	writeFile(t, dir, "fastodo.yaml", `
storage:
  backend: sqlite
  key: school
  dir_permissions: "700"
validation:
  require_due_date: true
application:
  timeout: 10s
`)

	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "school", cfg.Storage.Key)
	assert.Equal(t, uint32(0700), cfg.Storage.DirPermissions)
	assert.True(t, cfg.Validation.RequireDueDate)
	assert.Equal(t, 10*time.Second, cfg.Application.Timeout)
	assert.Equal(t, "storage.json", cfg.Storage.Filename, "unset keys keep defaults")
}

func TestLoader_Load_TOMLConfigFile(t *testing.T) {
	unsetEnv(t, "FASTODO_STORAGE_BACKEND")
	unsetEnv(t, "FASTODO_STATIC_SOURCE")
	loader, dir := isolatedLoader(t)
	writeFile(t, dir, "fastodo.toml", `
[storage]
backend = "static"
static_source = "https://example.com/tasks.json"
`)

	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, BackendStatic, cfg.Storage.Backend)
	assert.Equal(t, "https://example.com/tasks.json", cfg.Storage.StaticSource)
}

func TestLoader_Load_ExplicitConfigFileMustExist(t *testing.T) {
	loader, dir := isolatedLoader(t)
	loader.WithConfigFile(filepath.Join(dir, "missing.yaml"))

	_, err := loader.Load()
	assert.Error(t, err)
}

func TestLoader_Load_InvalidConfigFile(t *testing.T) {
	unsetEnv(t, "FASTODO_STORAGE_BACKEND")
	loader, dir := isolatedLoader(t)
	path := writeFile(t, dir, "custom.yaml", "storage:\n  backend: floppy\n")
	loader.WithConfigFile(path)

	_, err := loader.Load()
	require.Error(t, err)

	var configErr *ConfigError
	require.ErrorAs(t, err, &configErr)
	assert.Equal(t, "storage.backend", configErr.Field)
}

func TestLoader_Load_EnvironmentBeatsConfigFile(t *testing.T) {
	loader, dir := isolatedLoader(t)
	writeFile(t, dir, "fastodo.yaml", "storage:\n  key: from-file\n")
	t.Setenv("FASTODO_STORAGE_KEY", "from-env")

	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Storage.Key)
}

func TestLoader_Load_DotEnvFile(t *testing.T) {
	unsetEnv(t, "FASTODO_STORAGE_KEY")
	unsetEnv(t, "FASTODO_LIST_DEFAULT_FORMAT")
	t.Setenv("FASTODO_VALIDATION_NAME_MAX", "42")

	loader, dir := isolatedLoader(t)
	envFile := writeFile(t, dir, ".env", "FASTODO_STORAGE_KEY=dotenv\nFASTODO_LIST_DEFAULT_FORMAT=json\nFASTODO_VALIDATION_NAME_MAX=7\n")
	loader.WithEnvFiles(envFile, filepath.Join(dir, "absent.env"))

	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, "dotenv", cfg.Storage.Key)
	assert.Equal(t, "json", cfg.Display.ListDefaultFormat)
	assert.Equal(t, 42, cfg.Validation.NameMaxLength, "real environment wins over .env")
}

func TestLoader_LoadWithOverrides(t *testing.T) {
	unsetEnv(t, "FASTODO_STORAGE_BACKEND")
	loader, _ := isolatedLoader(t)

	backend := BackendRedis
	redisURL := "redis://cache:6379/2"
	verbose := true
	timeout := 3 * time.Second
	maxLen := 12

	cfg, err := loader.LoadWithOverrides(&ConfigOverrides{
		StorageBackend: &backend,
		RedisURL:       &redisURL,
		Verbose:        &verbose,
		Timeout:        &timeout,
		NameMaxLength:  &maxLen,
	})
	require.NoError(t, err)

	assert.Equal(t, BackendRedis, cfg.Storage.Backend)
	assert.Equal(t, redisURL, cfg.Storage.RedisURL)
	assert.True(t, cfg.Application.Verbose)
	assert.Equal(t, timeout, cfg.Application.Timeout)
	assert.Equal(t, 12, cfg.Validation.NameMaxLength)
}

func TestLoader_LoadWithOverrides_RevalidatesOverrides(t *testing.T) {
	loader, _ := isolatedLoader(t)
	format := "xml"

	_, err := loader.LoadWithOverrides(&ConfigOverrides{ListDefaultFormat: &format})
	assert.Error(t, err)
}

func TestParseUint32WithFallback(t *testing.T) {
	assert.Equal(t, uint32(0750), ParseUint32WithFallback("750", 8, 1))
	assert.Equal(t, uint32(1), ParseUint32WithFallback("rwx", 8, 1))
}
