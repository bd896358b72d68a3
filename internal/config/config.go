package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds all configuration for the FriendlyRobot Messenger bot.
type Config struct {
	Messenger MessengerConfig `toml:"messenger"`
	Server    ServerConfig    `toml:"server"`
	Dispatch  DispatchConfig  `toml:"dispatch"`
	Relay     RelayConfig     `toml:"relay"`
}

// MessengerConfig carries the page identity and platform credentials.
type MessengerConfig struct {
	AppSecret       string `toml:"app_secret"`
	ValidationToken string `toml:"validation_token"`
	PageAccessToken string `toml:"page_access_token"`
	GraphAPIBase    string `toml:"graph_api_base"`
}

// ServerConfig configures the inbound HTTP side.
type ServerConfig struct {
	Addr      string `toml:"addr"`
	PublicURL string `toml:"public_url"`
	AssetsDir string `toml:"assets_dir"`
}

// DispatchConfig bounds the fire-and-forget outbound pipeline.
type DispatchConfig struct {
	MaxWorkers       int     `toml:"max_workers"`
	SendsPerSecond   float64 `toml:"sends_per_second"`
	DrainTimeoutSecs int     `toml:"drain_timeout_secs"`
}

// RelayConfig points at an optional operator console. Leave URL empty to
// disable the relay entirely.
type RelayConfig struct {
	URL   string `toml:"url"`
	Token string `toml:"token"`
}

func defaults() Config {
	return Config{
		Messenger: MessengerConfig{
			GraphAPIBase: "https://graph.facebook.com/v2.6",
		},
		Server: ServerConfig{
			Addr:      ":5000",
			AssetsDir: "public/assets",
		},
		Dispatch: DispatchConfig{
			MaxWorkers:       32,
			SendsPerSecond:   20,
			DrainTimeoutSecs: 5,
		},
	}
}

// Load reads configuration from the TOML config file (if it exists) and
// applies environment variable overrides. Env vars always win.
//
// Config file resolution: FRIENDLYBOT_CONFIG env var → ~/.config/friendlybot/config.toml → skip.
func Load() (*Config, error) {
	cfg := defaults()

	path := configPath()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return nil, err
			}
		}
	}

	applyEnv(&cfg)
	return &cfg, nil
}

func configPath() string {
	if p := os.Getenv("FRIENDLYBOT_CONFIG"); p != "" {
		return expandHome(p)
	}
	home := os.Getenv("HOME")
	if home == "" {
		return ""
	}
	return filepath.Join(home, ".config", "friendlybot", "config.toml")
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("MESSENGER_APP_SECRET"); v != "" {
		cfg.Messenger.AppSecret = v
	}
	if v := os.Getenv("MESSENGER_VALIDATION_TOKEN"); v != "" {
		cfg.Messenger.ValidationToken = v
	}
	if v := os.Getenv("MESSENGER_PAGE_ACCESS_TOKEN"); v != "" {
		cfg.Messenger.PageAccessToken = v
	}
	if v := os.Getenv("MESSENGER_GRAPH_API_BASE"); v != "" {
		cfg.Messenger.GraphAPIBase = v
	}

	if v := os.Getenv("SERVER_URL"); v != "" {
		cfg.Server.PublicURL = v
	}
	if v := os.Getenv("FRIENDLYBOT_ADDR"); v != "" {
		cfg.Server.Addr = v
	} else if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Addr = ":" + v
	}
	if v := os.Getenv("FRIENDLYBOT_ASSETS_DIR"); v != "" {
		cfg.Server.AssetsDir = v
	}

	if v := os.Getenv("FRIENDLYBOT_MAX_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Dispatch.MaxWorkers = n
		}
	}
	if v := os.Getenv("FRIENDLYBOT_SENDS_PER_SECOND"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Dispatch.SendsPerSecond = f
		}
	}

	if v := os.Getenv("FRIENDLYBOT_RELAY_URL"); v != "" {
		cfg.Relay.URL = v
	}
	if v := os.Getenv("FRIENDLYBOT_RELAY_TOKEN"); v != "" {
		cfg.Relay.Token = v
	}
}

// Validate checks that the credentials the bot cannot run without are set.
func (c *Config) Validate() error {
	var missing []string
	if c.Messenger.AppSecret == "" {
		missing = append(missing, "messenger.app_secret")
	}
	if c.Messenger.ValidationToken == "" {
		missing = append(missing, "messenger.validation_token")
	}
	if c.Messenger.PageAccessToken == "" {
		missing = append(missing, "messenger.page_access_token")
	}
	if c.Server.PublicURL == "" {
		missing = append(missing, "server.public_url")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing config values: %s", strings.Join(missing, ", "))
	}

	if c.Dispatch.MaxWorkers < 1 {
		c.Dispatch.MaxWorkers = 32
	}
	if c.Dispatch.SendsPerSecond <= 0 {
		c.Dispatch.SendsPerSecond = 20
	}
	if c.Dispatch.DrainTimeoutSecs < 1 {
		c.Dispatch.DrainTimeoutSecs = 5
	}

	c.Server.PublicURL = strings.TrimSuffix(c.Server.PublicURL, "/")
	return nil
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home := os.Getenv("HOME"); home != "" {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
