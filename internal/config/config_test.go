package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	chdir(t, t.TempDir())
	for _, k := range []string{"ANALYTIQ_API_URL", "ANALYTIQ_TOKEN", "ANALYTIQ_TIMEOUT", "ANALYTIQ_STATE_DIR", "ANALYTIQ_LOGGING_LEVEL"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8000", cfg.APIURL)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 20*time.Hour, cfg.RefreshInterval)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Output.Colors)
	assert.Empty(t, cfg.Token)

	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, ".analytiq"), cfg.StateDir)
	assert.Equal(t, filepath.Join(home, ".analytiq", "analytiq.log"), cfg.LogPath())
}

func TestLoad_File(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `api_url: https://api.analytiq.example/
timeout: 3s
refresh_interval: 1h
logging:
  level: debug
output:
  colors: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://api.analytiq.example", cfg.APIURL)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, time.Hour, cfg.RefreshInterval)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.Output.Colors)
}

func TestLoad_SearchPath(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile(".analytiq.yaml", []byte("api_url: http://localhost:9000\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", cfg.APIURL)
}

func TestLoad_Env(t *testing.T) {
	isolate(t)
	t.Setenv("ANALYTIQ_API_URL", "https://env.example")
	t.Setenv("ANALYTIQ_TOKEN", "a.b.c")
	t.Setenv("ANALYTIQ_LOGGING_LEVEL", "warn")
	t.Setenv("ANALYTIQ_STATE_DIR", "/tmp/analytiq-state")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://env.example", cfg.APIURL)
	assert.Equal(t, "a.b.c", cfg.Token)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "/tmp/analytiq-state", cfg.StateDir)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad url", "api_url: ftp://example.com\n"},
		{"bad level", "logging:\n  level: loud\n"},
		{"zero timeout", "timeout: 0s\n"},
		{"bad yaml", "api_url: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (stand-in for testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
