package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"WARIO_APP_NAME":                os.Getenv("WARIO_APP_NAME"),
		"WARIO_APP_ENV":                 os.Getenv("WARIO_APP_ENV"),
		"WARIO_APP_PORT":                os.Getenv("WARIO_APP_PORT"),
		"WARIO_DATABASE_HOST":           os.Getenv("WARIO_DATABASE_HOST"),
		"WARIO_DATABASE_PORT":           os.Getenv("WARIO_DATABASE_PORT"),
		"WARIO_DATABASE_USER":           os.Getenv("WARIO_DATABASE_USER"),
		"WARIO_DATABASE_PASSWORD":       os.Getenv("WARIO_DATABASE_PASSWORD"),
		"WARIO_DATABASE_DBNAME":         os.Getenv("WARIO_DATABASE_DBNAME"),
		"WARIO_DATABASE_SSLMODE":        os.Getenv("WARIO_DATABASE_SSLMODE"),
		"WARIO_DATABASE_MAX_OPEN_CONNS": os.Getenv("WARIO_DATABASE_MAX_OPEN_CONNS"),
		"WARIO_DATABASE_MAX_IDLE_CONNS": os.Getenv("WARIO_DATABASE_MAX_IDLE_CONNS"),
		"WARIO_SQUARE_SUPPRESS_SYNC":    os.Getenv("WARIO_SQUARE_SUPPRESS_SYNC"),
		"WARIO_SQUARE_ACCESS_TOKEN":     os.Getenv("WARIO_SQUARE_ACCESS_TOKEN"),
		"WARIO_ORDERING_TAX_RATE":       os.Getenv("WARIO_ORDERING_TAX_RATE"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "wario-order-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "", cfg.Database.Password)
		assert.Equal(t, "wario", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, "https://connect.squareupsandbox.com", cfg.Square.BaseURL)
		assert.Equal(t, 5, cfg.Square.MaxRetries)
		assert.False(t, cfg.Square.SuppressSync)
		assert.InDelta(t, 0.1025, cfg.Ordering.TaxRate, 1e-9)
	})

	t.Run("loads values from environment variables with WARIO prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("WARIO_APP_NAME", "test-app")
		os.Setenv("WARIO_APP_ENV", "testing")
		os.Setenv("WARIO_APP_PORT", "9000")
		os.Setenv("WARIO_DATABASE_HOST", "testdb.local")
		os.Setenv("WARIO_DATABASE_PORT", "5433")
		os.Setenv("WARIO_DATABASE_USER", "testuser")
		os.Setenv("WARIO_DATABASE_PASSWORD", "testpass")
		os.Setenv("WARIO_DATABASE_DBNAME", "testdb")
		os.Setenv("WARIO_DATABASE_SSLMODE", "require")
		os.Setenv("WARIO_DATABASE_MAX_OPEN_CONNS", "50")
		os.Setenv("WARIO_DATABASE_MAX_IDLE_CONNS", "10")
		os.Setenv("WARIO_SQUARE_SUPPRESS_SYNC", "true")
		os.Setenv("WARIO_ORDERING_TAX_RATE", "0.08")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, "testdb", cfg.Database.DBName)
		assert.Equal(t, "require", cfg.Database.SSLMode)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.True(t, cfg.Square.SuppressSync)
		assert.InDelta(t, 0.08, cfg.Ordering.TaxRate, 1e-9)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("WARIO_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("WARIO_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("zero MaxOpenConns uses default", func(t *testing.T) {
		clearEnv()
		os.Setenv("WARIO_DATABASE_MAX_OPEN_CONNS", "0")

		cfg, err := Load()
		require.NoError(t, err)
		// 0 is treated as "not set", so default (25) is used
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	})

	t.Run("validates tax rate bounds", func(t *testing.T) {
		clearEnv()
		os.Setenv("WARIO_ORDERING_TAX_RATE", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "tax_rate")
	})

	t.Run("production requires square credentials unless sync suppressed", func(t *testing.T) {
		clearEnv()
		os.Setenv("WARIO_APP_ENV", "production")
		os.Setenv("WARIO_DATABASE_PASSWORD", "secret")
		os.Setenv("WARIO_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "square.access_token")

		os.Setenv("WARIO_SQUARE_SUPPRESS_SYNC", "true")
		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Square.SuppressSync)
	})
}

func TestDatabaseConfigDSN(t *testing.T) {
	t.Run("builds DSN with escaped credentials", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "db.internal",
			Port:     5432,
			User:     "wario",
			Password: "p@ss/word",
			DBName:   "wario",
			SSLMode:  "require",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "postgres://")
		assert.Contains(t, dsn, "db.internal:5432")
		assert.Contains(t, dsn, "sslmode=require")
		assert.NotContains(t, dsn, "p@ss/word") // must be URL-escaped
	})
}

func TestRedisConfigAddr(t *testing.T) {
	cfg := RedisConfig{Host: "cache.internal", Port: 6380}
	assert.Equal(t, "cache.internal:6380", cfg.Addr())
}
