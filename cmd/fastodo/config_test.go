package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fastodo/internal/config"
	"fastodo/internal/domain"
)

func TestOpenMedium(t *testing.T) {
	tests := []struct {
		backend  string
		writable bool
	}{
		{config.BackendFile, true},
		{config.BackendSQLite, true},
		{config.BackendRedis, true},
		{config.BackendStatic, false},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			cfg := config.NewConfig()
			cfg.Storage.Backend = tt.backend
			cfg.Storage.Dir = t.TempDir()

			medium, err := openMedium(context.Background(), cfg)
			require.NoError(t, err)
			defer medium.Close()

			assert.Equal(t, tt.writable, medium.Writable())
		})
	}
}

func TestOpenMedium_FileRoundTrip(t *testing.T) {
	ctx := context.Background()
	cfg := config.NewConfig()
	cfg.Storage.Dir = t.TempDir()

	medium, err := openMedium(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, medium.Save(ctx, []domain.Record{{ID: "1", Name: "Stretch"}}))

	records, err := medium.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Record{{ID: "1", Name: "Stretch"}}, records)
}

func TestOpenMedium_UnknownBackend(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Storage.Backend = "tape"
	_, err := openMedium(context.Background(), cfg)
	assert.Error(t, err)
}

func TestOpenMedium_BadRedisURL(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Storage.Backend = config.BackendRedis
	cfg.Storage.RedisURL = "not a url"
	_, err := openMedium(context.Background(), cfg)
	assert.Error(t, err)
}
