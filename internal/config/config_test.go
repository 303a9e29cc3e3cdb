package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func setupConfig(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmp, "state"))
	t.Cleanup(reset)
	return tmp
}

func TestLoadAndGet(t *testing.T) {
	setupConfig(t)
	Load()

	require.Equal(t, "default", Get("missing", "default"))
	require.Equal(t, 15, GetInt("sparkline_range", 0))
	require.Equal(t, "dark", Get("theme", ""))
	require.False(t, GetBool("logging_enabled", true))
}

func TestDerivedPaths(t *testing.T) {
	tmp := setupConfig(t)
	Load()

	require.Equal(t, filepath.Join(tmp, "config", "cansig"), Get("config_dir", ""))
	require.Equal(t, filepath.Join(tmp, "state", "cansig", "cansig.db"), Get("db_path", ""))
	_, err := os.Stat(filepath.Join(tmp, "config", "cansig", "config.toml"))
	require.NoError(t, err, "sample config is written")
}

func TestLoadingPrecedence(t *testing.T) {
	tmp := setupConfig(t)
	configFile := filepath.Join(tmp, "custom.toml")
	content := `
sparkline_range = 20
theme = "light"
sparkline_workers = 2
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))
	t.Setenv("CANSIG_CONFIG_PATH", configFile)
	t.Setenv("CANSIG_SPARKLINE_WORKERS", "8")

	Load()

	require.Equal(t, 20, GetInt("sparkline_range", 0))
	require.Equal(t, "light", Get("theme", ""))
	require.Equal(t, 8, GetInt("sparkline_workers", 0), "env wins over file")
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		key  string
		want string
	}{
		{"range clamped high", map[string]string{"CANSIG_SPARKLINE_RANGE": "90"}, "sparkline_range", "30"},
		{"range clamped low", map[string]string{"CANSIG_SPARKLINE_RANGE": "0"}, "sparkline_range", "1"},
		{"range not a number", map[string]string{"CANSIG_SPARKLINE_RANGE": "abc"}, "sparkline_range", "15"},
		{"theme normalized", map[string]string{"CANSIG_THEME": "LIGHT"}, "theme", "light"},
		{"theme invalid", map[string]string{"CANSIG_THEME": "blue"}, "theme", "dark"},
		{"bool normalized", map[string]string{"CANSIG_DEBUG": "yes"}, "debug", "true"},
		{"workers invalid", map[string]string{"CANSIG_SPARKLINE_WORKERS": "-1"}, "sparkline_workers", "4"},
		{"level invalid", map[string]string{"CANSIG_LOGGING_LEVEL": "trace"}, "logging_level", "info"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupConfig(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			Load()
			require.Equal(t, tt.want, Get(tt.key, ""))
		})
	}
}

func TestSetOverrides(t *testing.T) {
	setupConfig(t)
	Load()
	Set("db_path", "/tmp/other.db")
	require.Equal(t, "/tmp/other.db", Get("db_path", ""))
}
