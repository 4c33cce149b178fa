/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "queryset.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Backend)
}

func TestLoadRedis(t *testing.T) {
	path := writeFile(t, `
backend: redis
id_field: name
redis:
  addr: localhost:6379
  hash: queryset:widgets
  compress: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendRedis, cfg.Backend)
	assert.Equal(t, "name", cfg.IDField)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "queryset:widgets", cfg.Redis.Hash)
	assert.True(t, cfg.Redis.Compress)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeFile(t, `
backend: mongo
mongo:
  uri: mongodb://localhost:27017
  database: app
  collection: widgets
`)
	t.Setenv("QS_MONGO_DATABASE", "app_staging")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "app_staging", cfg.Mongo.Database)
	assert.Equal(t, "widgets", cfg.Mongo.Collection)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "memory needs nothing",
			cfg:  Config{Backend: BackendMemory},
		},
		{
			name:    "mongo without uri",
			cfg:     Config{Backend: BackendMongo, Mongo: MongoConfig{Database: "app", Collection: "widgets"}},
			wantErr: true,
		},
		{
			name:    "redis without hash",
			cfg:     Config{Backend: BackendRedis, Redis: RedisConfig{Addr: "localhost:6379"}},
			wantErr: true,
		},
		{
			name: "dynamo complete",
			cfg:  Config{Backend: BackendDynamo, Dynamo: DynamoConfig{Region: "us-east-1", Table: "widgets"}},
		},
		{
			name:    "unknown backend",
			cfg:     Config{Backend: "cassandra"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := writeFile(t, "backend: cassandra\n")
	_, err := Load(path)
	assert.Error(t, err)
}
