package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.WatchTimeout)
	assert.Nil(t, cfg.Brokers())
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins())
	assert.Contains(t, cfg.DSN(), "dbname=autoparts")
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	require.NoError(t, os.Unsetenv("JWT_SECRET"))

	_, err := Load()
	assert.Error(t, err)
}

func TestDatabaseURLWins(t *testing.T) {
	cfg := &Config{DatabaseURL: "postgres://u:p@db/parts", DBName: "other"}
	assert.Equal(t, "postgres://u:p@db/parts", cfg.DSN())
}

func TestBrokersSplit(t *testing.T) {
	cfg := &Config{KafkaBrokers: "k1:9092, k2:9092,,"}
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Brokers())
}
