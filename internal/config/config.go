// Package config loads application configuration from environment variables
// and an optional config file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ericfisherdev/glsidebar/internal/domain/model"
)

// EnvPrefix prefixes every environment variable Load reads.
const EnvPrefix = "GLSIDEBAR"

// Defaults.
const (
	DefaultPluginURL    = "http://localhost:8065/plugins/com.github.manland.mattermost-plugin-gitlab"
	DefaultGitLabURL    = "https://gitlab.com"
	DefaultPollInterval = 5 * time.Minute
	DefaultListenAddr   = "127.0.0.1:8080"
)

// Config holds the application configuration.
type Config struct {
	PluginURL    string
	Token        string
	GitLabURL    string
	PollInterval time.Duration
	ListenAddr   string
	DBPath       string // Empty keeps the user cache in memory.
	ViewMode     model.ViewMode
}

// Hostname returns the host (and port, if any) of the GitLab URL. Link
// references are only recognised on this host.
func (c *Config) Hostname() string {
	u, err := url.Parse(c.GitLabURL)
	if err != nil {
		return ""
	}
	return u.Host
}

// Load reads configuration and returns a validated Config.
//
// Values come from GLSIDEBAR_-prefixed environment variables: PLUGIN_URL,
// TOKEN, GITLAB_URL, POLL_INTERVAL (5m), LISTEN_ADDR (127.0.0.1:8080),
// DB_PATH (empty, in-memory) and VIEW_MODE (pullRequests). When
// GLSIDEBAR_CONFIG names a YAML file its keys (plugin_url, token, ...) are
// read first; environment variables win.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("plugin_url", DefaultPluginURL)
	v.SetDefault("token", "")
	v.SetDefault("gitlab_url", DefaultGitLabURL)
	v.SetDefault("poll_interval", DefaultPollInterval.String())
	v.SetDefault("listen_addr", DefaultListenAddr)
	v.SetDefault("db_path", "")
	v.SetDefault("view_mode", string(model.ViewModePRs))

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	raw := v.GetString("poll_interval")
	pollInterval, err := time.ParseDuration(raw)
	if err != nil {
		return nil, fmt.Errorf("%s_POLL_INTERVAL has invalid duration %q: %w", EnvPrefix, raw, err)
	}
	if pollInterval <= 0 {
		return nil, fmt.Errorf("%s_POLL_INTERVAL must be positive, got %s", EnvPrefix, pollInterval)
	}

	mode, err := model.ParseViewMode(v.GetString("view_mode"))
	if err != nil {
		return nil, fmt.Errorf("%s_VIEW_MODE: %w", EnvPrefix, err)
	}

	cfg := &Config{
		PluginURL:    strings.TrimRight(v.GetString("plugin_url"), "/"),
		Token:        v.GetString("token"),
		GitLabURL:    strings.TrimRight(v.GetString("gitlab_url"), "/"),
		PollInterval: pollInterval,
		ListenAddr:   v.GetString("listen_addr"),
		DBPath:       v.GetString("db_path"),
		ViewMode:     mode,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error

	for name, raw := range map[string]string{"PLUGIN_URL": c.PluginURL, "GITLAB_URL": c.GitLabURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("%s_%s must be an absolute URL, got %q", EnvPrefix, name, raw))
		}
	}

	if c.ListenAddr == "" {
		errs = append(errs, fmt.Errorf("%s_LISTEN_ADDR must not be empty", EnvPrefix))
	}

	return errors.Join(errs...)
}
