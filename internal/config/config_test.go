package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/glsidebar/internal/domain/model"
)

// allConfigKeys lists every GLSIDEBAR_ env var that Load() reads.
var allConfigKeys = []string{
	"GLSIDEBAR_CONFIG",
	"GLSIDEBAR_PLUGIN_URL",
	"GLSIDEBAR_TOKEN",
	"GLSIDEBAR_GITLAB_URL",
	"GLSIDEBAR_POLL_INTERVAL",
	"GLSIDEBAR_LISTEN_ADDR",
	"GLSIDEBAR_DB_PATH",
	"GLSIDEBAR_VIEW_MODE",
}

// isolateConfigEnv saves and unsets all GLSIDEBAR_ env vars so tests don't
// inherit values from the host environment.
// t.Cleanup restores original values after the test.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range allConfigKeys {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func TestLoad_Success(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("GLSIDEBAR_PLUGIN_URL", "https://chat.example.com/plugins/gitlab/")
	t.Setenv("GLSIDEBAR_TOKEN", "tok")
	t.Setenv("GLSIDEBAR_GITLAB_URL", "https://git.example.com:8443/")
	t.Setenv("GLSIDEBAR_POLL_INTERVAL", "10m")
	t.Setenv("GLSIDEBAR_LISTEN_ADDR", "0.0.0.0:9090")
	t.Setenv("GLSIDEBAR_DB_PATH", "/tmp/test.db")
	t.Setenv("GLSIDEBAR_VIEW_MODE", "reviews")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "https://chat.example.com/plugins/gitlab", cfg.PluginURL)
	assert.Equal(t, "tok", cfg.Token)
	assert.Equal(t, "https://git.example.com:8443", cfg.GitLabURL)
	assert.Equal(t, "git.example.com:8443", cfg.Hostname())
	assert.Equal(t, 10*time.Minute, cfg.PollInterval)
	assert.Equal(t, "0.0.0.0:9090", cfg.ListenAddr)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.Equal(t, model.ViewModeReviews, cfg.ViewMode)
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfigEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, DefaultPluginURL, cfg.PluginURL)
	assert.Empty(t, cfg.Token)
	assert.Equal(t, DefaultGitLabURL, cfg.GitLabURL)
	assert.Equal(t, "gitlab.com", cfg.Hostname())
	assert.Equal(t, DefaultPollInterval, cfg.PollInterval)
	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	assert.Empty(t, cfg.DBPath)
	assert.Equal(t, model.ViewModePRs, cfg.ViewMode)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "bad duration", key: "GLSIDEBAR_POLL_INTERVAL", val: "often"},
		{name: "zero duration", key: "GLSIDEBAR_POLL_INTERVAL", val: "0s"},
		{name: "unknown view mode", key: "GLSIDEBAR_VIEW_MODE", val: "everything"},
		{name: "relative plugin url", key: "GLSIDEBAR_PLUGIN_URL", val: "plugins/gitlab"},
		{name: "gitlab url without scheme", key: "GLSIDEBAR_GITLAB_URL", val: "gitlab.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateConfigEnv(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	isolateConfigEnv(t)

	path := filepath.Join(t.TempDir(), "glsidebar.yaml")
	content := "plugin_url: https://chat.example.com/plugins/gitlab\npoll_interval: 2m\nview_mode: unreads\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("GLSIDEBAR_CONFIG", path)
	t.Setenv("GLSIDEBAR_VIEW_MODE", "assignments")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "https://chat.example.com/plugins/gitlab", cfg.PluginURL)
	assert.Equal(t, 2*time.Minute, cfg.PollInterval)
	assert.Equal(t, model.ViewModeAssignments, cfg.ViewMode, "environment overrides the file")
}

func TestLoad_MissingConfigFile(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("GLSIDEBAR_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestHostname_InvalidURL(t *testing.T) {
	cfg := &Config{GitLabURL: "://bad"}
	assert.Empty(t, cfg.Hostname())
}
