package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockceramique/stockceramique-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Chdir(t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.DriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, 10*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.True(t, cfg.Storage.AutoMigrate)
	assert.Equal(t, "postgres://postgres:@localhost:5432/stockceramique?sslmode=disable", cfg.DB.ConnectionString())
}

func TestLoad_VariablesDeEntorno(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORAGE_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/stock.db")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/x")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/stock.db", cfg.Storage.SQLitePath)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.DB.ConnectionString())
}

func TestLoad_DriverInvalido(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORAGE_DRIVER", "mongo")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDSN_EscapaLaContrasena(t *testing.T) {
	c := config.DBConfig{Host: "h", Port: 5432, User: "u", Password: "p@ss/word", DBName: "d", SSLMode: "require"}
	assert.Equal(t, "postgres://u:p%40ss%2Fword@h:5432/d?sslmode=require", c.DSN())
}
