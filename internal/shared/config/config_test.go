package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_DIR", t.TempDir())

	cfg := Load()

	require.Equal(t, "localhost", cfg.Database.Host)
	require.Equal(t, 5432, cfg.Database.Port)
	require.Equal(t, "localhost:6379", cfg.Redis.Addr)
	require.Equal(t, 3000, cfg.Services.OrderServicePort)
	require.Equal(t, 3001, cfg.Services.DriverServicePort)
	require.Equal(t, 3004, cfg.Services.AdminServicePort)
	require.Equal(t, 60, cfg.JWT.ExpiryMinutes)
}

func TestLoadYAMLAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "db.yaml"), []byte("host: db.internal\nport: 5433\n"), 0o644)
	require.NoError(t, err)
	err = os.WriteFile(filepath.Join(dir, "jwt.yaml"), []byte("secret: \"file_secret\"\nexpiry_minutes: 15\n"), 0o644)
	require.NoError(t, err)

	t.Setenv("CONFIG_DIR", dir)
	t.Setenv("DB_HOST", "env.internal")

	cfg := Load()

	// env beats yaml, yaml beats default
	require.Equal(t, "env.internal", cfg.Database.Host)
	require.Equal(t, 5433, cfg.Database.Port)
	require.Equal(t, "file_secret", cfg.JWT.Secret)
	require.Equal(t, 15, cfg.JWT.ExpiryMinutes)
}

func TestDSNAndAMQPURL(t *testing.T) {
	db := DBConfig{Host: "h", Port: 1, User: "u", Password: "p", Database: "d", SSLMode: "disable"}
	require.Equal(t, "host=h port=1 user=u password=p dbname=d sslmode=disable", db.DSN())

	mq := MQConfig{Host: "h", Port: 5672, User: "u", Password: "p", VHost: "/"}
	require.Equal(t, "amqp://u:p@h:5672/", mq.AMQPURL())
}
