package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiration())
	assert.Equal(t, 8*time.Hour, cfg.Scheduler.RecalcInterval)
	assert.Equal(t, 100, cfg.RateLimit.Requests)
	assert.False(t, cfg.SMTP.Enabled)
}

func TestNewConfig_Environment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CLINIC_SERVER_PORT", "9090")
	t.Setenv("CLINIC_DB_DRIVER", "sqlite")
	t.Setenv("CLINIC_SCHEDULER_RECALC_INTERVAL", "15m")
	t.Setenv("CLINIC_PIX_KEY", "pix@clinica.com.br")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, 15*time.Minute, cfg.Scheduler.RecalcInterval)
	assert.Equal(t, "pix@clinica.com.br", cfg.PIX.Key)
}

func TestNewConfig_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clinic.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 7000
db:
  driver: sqlite
  sqlite_path: /tmp/clinic-test.db
jwt:
  expires_in: 2
`), 0o600))

	chdir(t, dir)
	t.Setenv("CLINIC_CONFIG", path)

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "/tmp/clinic-test.db", cfg.DB.SQLitePath)
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiration())
}

func TestNewConfig_Invalid(t *testing.T) {
	tests := map[string][2]string{
		"port":   {"CLINIC_SERVER_PORT", "70000"},
		"driver": {"CLINIC_DB_DRIVER", "mysql"},
		"jwt":    {"CLINIC_JWT_EXPIRES_IN", "0"},
	}

	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			chdir(t, t.TempDir())
			t.Setenv(env[0], env[1])

			_, err := NewConfig()
			assert.Error(t, err)
		})
	}
}

// chdir переходит в каталог dir до конца теста
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
}
