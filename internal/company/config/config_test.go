package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, BackendMemory, cfg.Events.Backend)
	assert.True(t, cfg.Events.Enabled)
	assert.Equal(t, 1000, cfg.Events.QueueSize)
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9090
  read_timeout: 15s
database:
  host: db.internal
  name: companies
events:
  backend: kafka
  brokers:
    - kafka-1:9092
    - kafka-2:9092
  topic: company.events.v2
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "companies", cfg.Database.DBName)
	assert.Equal(t, BackendKafka, cfg.Events.Backend)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Events.Brokers)
	assert.Equal(t, "company.events.v2", cfg.Events.Topic)

	// Untouched sections keep their defaults.
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9090
database:
  password: from-file
`)

	t.Setenv("COMPANYD_HTTP_PORT", "7070")
	t.Setenv("COMPANYD_DB_PASSWORD", "from-env")
	t.Setenv("COMPANYD_JWT_SECRET", "s3cret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfigFile(t, "server: [not: a: mapping")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Run("unknown backend", func(t *testing.T) {
		cfg := Default()
		cfg.Events.Backend = "rabbitmq"
		assert.Error(t, cfg.Validate())
	})

	t.Run("kafka without brokers", func(t *testing.T) {
		cfg := Default()
		cfg.Events.Backend = BackendKafka
		cfg.Events.Brokers = nil
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive port", func(t *testing.T) {
		cfg := Default()
		cfg.Server.Port = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, Default().Validate())
	})
}
