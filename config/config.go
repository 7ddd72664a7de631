// Package config provides configuration loading for padbrowse using TOML.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Fetch holds HTTP fetching settings.
type Fetch struct {
	UserAgent      string `toml:"user_agent"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Search holds the search provider settings. The URL must contain
// a %s placeholder that is replaced with the escaped query.
type Search struct {
	URL string `toml:"url"`
}

// Home holds landing page settings. Assets are kept warm in the
// offline cache so the landing page opens without a network.
type Home struct {
	URL    string   `toml:"url"`
	Assets []string `toml:"assets"`
}

// Display settings.
type Display struct {
	TextSize int    `toml:"text_size"` // 1 (smallest) to 5 (largest)
	Scheme   string `toml:"scheme"`
}

// Log settings. The device has no second terminal to tail, so
// logging goes to a file and is off unless enabled.
type Log struct {
	Enabled bool   `toml:"enabled"`
	File    string `toml:"file"`
}

// Storage settings.
type Storage struct {
	Dir string `toml:"dir"`
}

// Config is the main configuration struct.
type Config struct {
	Fetch   Fetch   `toml:"fetch"`
	Search  Search  `toml:"search"`
	Home    Home    `toml:"home"`
	Display Display `toml:"display"`
	Log     Log     `toml:"log"`
	Storage Storage `toml:"storage"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Fetch: Fetch{
			UserAgent:      "Mozilla/5.0 (Mobile; rv:109.0) Gecko/109.0 Firefox/115.0 padbrowse/1.0",
			TimeoutSeconds: 15,
		},
		Search: Search{
			URL: "https://html.duckduckgo.com/html/?q=%s",
		},
		Display: Display{
			TextSize: 2,
			Scheme:   "dark",
		},
	}
}

// configDir returns the configuration directory path.
func configDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "padbrowse"), nil
}

// ConfigPath returns the path to the user's config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load loads configuration, layering user config on top of defaults.
// Returns the default config if no user config exists.
func Load() (*Config, error) {
	cfg := Default()

	configPath, err := ConfigPath()
	if err != nil {
		return cfg, nil // Return defaults if we can't determine path
	}

	// Check if user config exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil // Return defaults if no user config
	}

	// Load user config with TOML
	userCfg, err := loadFromTOML(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
	}

	// Layer user config on top of defaults
	return merge(cfg, userCfg), nil
}

// loadFromTOML loads a TOML config file and returns the config.
func loadFromTOML(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config TOML: %w", err)
	}
	return &cfg, nil
}

// merge layers user config on top of defaults.
// Only non-zero values from user config override defaults.
func merge(defaults, user *Config) *Config {
	result := *defaults

	if user.Fetch.UserAgent != "" {
		result.Fetch.UserAgent = user.Fetch.UserAgent
	}
	if user.Fetch.TimeoutSeconds > 0 {
		result.Fetch.TimeoutSeconds = user.Fetch.TimeoutSeconds
	}
	if user.Search.URL != "" {
		result.Search.URL = user.Search.URL
	}
	if user.Home.URL != "" {
		result.Home.URL = user.Home.URL
	}
	if len(user.Home.Assets) > 0 {
		result.Home.Assets = user.Home.Assets
	}
	if user.Display.TextSize > 0 {
		result.Display.TextSize = user.Display.TextSize
	}
	if user.Display.Scheme != "" {
		result.Display.Scheme = user.Display.Scheme
	}
	if user.Log.Enabled {
		result.Log.Enabled = true
	}
	if user.Log.File != "" {
		result.Log.File = user.Log.File
	}
	if user.Storage.Dir != "" {
		result.Storage.Dir = user.Storage.Dir
	}

	return &result
}

// DefaultTOML returns the default configuration as a TOML string.
// Used for --init-config to generate a user config file.
func DefaultTOML() string {
	return `# padbrowse configuration
# Save to ~/.config/padbrowse/config.toml and customize
# Only include settings you want to change from defaults

# HTTP fetching settings
[fetch]
user_agent = "Mozilla/5.0 (Mobile; rv:109.0) Gecko/109.0 Firefox/115.0 padbrowse/1.0"
timeout_seconds = 15

# Search provider; %s is replaced with the escaped query
[search]
url = "https://html.duckduckgo.com/html/?q=%s"

# Landing page settings
[home]
url = ""                      # Opened on start when no page was saved
assets = []                   # URLs kept warm in the offline cache

# Display settings
[display]
text_size = 2                 # 1 (smallest) to 5 (largest)
scheme = "dark"               # dark, light, sepia, solarized, high-contrast

# Logging settings
[log]
enabled = false
file = ""                     # Defaults to the storage dir's padbrowse.log

# Storage settings
[storage]
dir = ""                      # Defaults to ~/.config/padbrowse
`
}
