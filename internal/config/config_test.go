package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "10s", cfg.Server.ReadTimeout)
	assert.Equal(t, "images/profile_images", cfg.Storage.ProfileImagePath)
	assert.Equal(t, int64(5<<20), cfg.Storage.MaxUploadBytes)
}

func TestLoadConfig_FileThenEnvironment(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "8080"
  mode: production
database:
  driver: memory
  seed_on_start: false
logging:
  level: debug
  format: text
`)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_SEED_ON_START", "true")
	t.Setenv("STORAGE_MAX_UPLOAD_BYTES", "1024")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.True(t, cfg.Database.SeedOnStart)
	assert.Equal(t, int64(1024), cfg.Storage.MaxUploadBytes)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		env  map[string]string
	}{
		{name: "unknown driver", yaml: "database:\n  driver: mongodb\n"},
		{name: "bad timeout", yaml: "server:\n  read_timeout: soon\n"},
		{name: "bad log format", yaml: "logging:\n  format: xml\n"},
		{name: "non positive upload limit", yaml: "storage:\n  max_upload_bytes: 0\n"},
		{name: "malformed yaml", yaml: "server: [\n"},
		{name: "bad bool env", yaml: "", env: map[string]string{"DB_SEED_ON_START": "maybe"}},
		{name: "bad int env", yaml: "", env: map[string]string{"DB_MAX_OPEN_CONNS": "many"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig(writeConfig(t, tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestGetPostgresConnectionString(t *testing.T) {
	cfg := &Config{}
	cfg.Database.Host = "db"
	cfg.Database.Port = "5432"
	cfg.Database.User = "catalog"
	cfg.Database.Password = "secret"
	cfg.Database.DBName = "course_catalog"

	assert.Equal(t, "postgres://catalog:secret@db:5432/course_catalog?sslmode=disable", cfg.GetPostgresConnectionString())

	cfg.Database.URL = "postgres://elsewhere/catalog"
	assert.Equal(t, "postgres://elsewhere/catalog", cfg.GetPostgresConnectionString())
}
