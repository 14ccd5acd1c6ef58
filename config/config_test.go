package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
remote:
  host: https://fm.example.com
  database: Inventario
  layout: Productos
  username: reader
  password: secret
  page_size: 250
  timeout: 15s
store:
  driver: postgres
postgres:
  host: db
  port: "5433"
  user: app
  password: pw
  dbname: catalog
server:
  address: ":9000"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_File(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "https://fm.example.com", cfg.Remote.Host)
	assert.Equal(t, 250, cfg.Remote.PageSize)
	assert.Equal(t, 15*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, float64(10), cfg.Remote.RequestsPerSecond)
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, ":9000", cfg.Server.Address)
	assert.Equal(t, "L.", cfg.Server.CurrencySymbol)
	assert.Equal(t,
		"host=db port=5433 user=app password=pw dbname=catalog sslmode=disable",
		cfg.Postgres.GetConnectionString())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("REMOTE_PASSWORD", "from-env")
	t.Setenv("REMOTE_PAGE_SIZE", "50")
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("SQLITE_PATH", "/tmp/x.db")

	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Remote.Password)
	assert.Equal(t, 50, cfg.Remote.PageSize)
	assert.Equal(t, "s3cr3t", cfg.Server.JWTSecret)
	assert.Equal(t, "/tmp/x.db", cfg.Store.Sqlite.Path)
}

func TestLoadConfig_MissingHost(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "remote:\n  database: d\n  layout: l\n  username: u\n"))
	assert.Error(t, err)
}

func TestLoadConfig_UnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mysql")
	_, err := LoadConfig(writeConfig(t, sampleConfig))
	assert.Error(t, err)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
