package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()

	if cfg.Fetch.TimeoutSeconds != 15 {
		t.Errorf("Fetch.TimeoutSeconds = %d, want 15", cfg.Fetch.TimeoutSeconds)
	}
	if cfg.Search.URL != "https://html.duckduckgo.com/html/?q=%s" {
		t.Errorf("Search.URL = %q, want the duckduckgo html endpoint", cfg.Search.URL)
	}
	if cfg.Display.TextSize != 2 {
		t.Errorf("Display.TextSize = %d, want 2", cfg.Display.TextSize)
	}
	if cfg.Display.Scheme != "dark" {
		t.Errorf("Display.Scheme = %q, want %q", cfg.Display.Scheme, "dark")
	}
	if cfg.Log.Enabled {
		t.Error("Log.Enabled should default to false")
	}
}

func TestMergeKeepsDefaultsForZeroValues(t *testing.T) {
	user := &Config{}
	user.Display.Scheme = "sepia"

	merged := merge(Default(), user)

	if merged.Display.Scheme != "sepia" {
		t.Errorf("Scheme = %q, want %q", merged.Display.Scheme, "sepia")
	}
	if merged.Fetch.TimeoutSeconds != 15 {
		t.Errorf("TimeoutSeconds = %d, want default 15", merged.Fetch.TimeoutSeconds)
	}
	if merged.Search.URL == "" {
		t.Error("Search.URL should keep its default")
	}
	if merged.Display.TextSize != 2 {
		t.Errorf("TextSize = %d, want default 2", merged.Display.TextSize)
	}
}

func TestMergeOverrides(t *testing.T) {
	user := &Config{
		Fetch:   Fetch{UserAgent: "custom/2.0", TimeoutSeconds: 30},
		Search:  Search{URL: "https://search.example.net/?q=%s"},
		Home:    Home{URL: "https://portal.example.net/links", Assets: []string{"https://portal.example.net/links"}},
		Display: Display{TextSize: 4, Scheme: "high-contrast"},
		Log:     Log{Enabled: true, File: "/tmp/pb.log"},
		Storage: Storage{Dir: "/tmp/pb"},
	}

	merged := merge(Default(), user)

	if merged.Fetch.UserAgent != "custom/2.0" {
		t.Errorf("UserAgent = %q, want custom/2.0", merged.Fetch.UserAgent)
	}
	if merged.Fetch.TimeoutSeconds != 30 {
		t.Errorf("TimeoutSeconds = %d, want 30", merged.Fetch.TimeoutSeconds)
	}
	if merged.Search.URL != "https://search.example.net/?q=%s" {
		t.Errorf("Search.URL = %q", merged.Search.URL)
	}
	if merged.Home.URL != "https://portal.example.net/links" {
		t.Errorf("Home.URL = %q", merged.Home.URL)
	}
	if len(merged.Home.Assets) != 1 {
		t.Errorf("Home.Assets has %d entries, want 1", len(merged.Home.Assets))
	}
	if merged.Display.TextSize != 4 || merged.Display.Scheme != "high-contrast" {
		t.Errorf("Display = %+v", merged.Display)
	}
	if !merged.Log.Enabled || merged.Log.File != "/tmp/pb.log" {
		t.Errorf("Log = %+v", merged.Log)
	}
	if merged.Storage.Dir != "/tmp/pb" {
		t.Errorf("Storage.Dir = %q", merged.Storage.Dir)
	}
}

func TestLoadFromTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[fetch]
user_agent = "test-agent"
timeout_seconds = 5

[home]
url = "https://portal.example.net/links"
assets = ["https://portal.example.net/links", "https://portal.example.net/news"]

[display]
text_size = 3
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadFromTOML(path)
	if err != nil {
		t.Fatalf("loadFromTOML() error: %v", err)
	}
	if cfg.Fetch.UserAgent != "test-agent" {
		t.Errorf("UserAgent = %q, want test-agent", cfg.Fetch.UserAgent)
	}
	if cfg.Fetch.TimeoutSeconds != 5 {
		t.Errorf("TimeoutSeconds = %d, want 5", cfg.Fetch.TimeoutSeconds)
	}
	if cfg.Home.URL != "https://portal.example.net/links" {
		t.Errorf("Home.URL = %q", cfg.Home.URL)
	}
	if len(cfg.Home.Assets) != 2 {
		t.Errorf("Home.Assets has %d entries, want 2", len(cfg.Home.Assets))
	}
	if cfg.Display.TextSize != 3 {
		t.Errorf("TextSize = %d, want 3", cfg.Display.TextSize)
	}
	// Sections absent from the file stay zero; merge fills them in.
	if cfg.Search.URL != "" {
		t.Errorf("Search.URL = %q, want empty", cfg.Search.URL)
	}
}

func TestLoadFromTOMLRejectsBadSyntax(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[fetch\nuser_agent = oops"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := loadFromTOML(path); err == nil {
		t.Error("loadFromTOML() should fail on malformed TOML")
	}
}

// The shipped template has to stay parseable and in sync with the
// schema, or --init-config would generate a broken starting point.
func TestDefaultTOMLMatchesDefaults(t *testing.T) {
	var cfg Config
	if _, err := toml.Decode(DefaultTOML(), &cfg); err != nil {
		t.Fatalf("DefaultTOML does not parse: %v", err)
	}

	def := Default()
	if cfg.Fetch.UserAgent != def.Fetch.UserAgent {
		t.Errorf("template user_agent = %q, default = %q", cfg.Fetch.UserAgent, def.Fetch.UserAgent)
	}
	if cfg.Fetch.TimeoutSeconds != def.Fetch.TimeoutSeconds {
		t.Errorf("template timeout_seconds = %d, default = %d", cfg.Fetch.TimeoutSeconds, def.Fetch.TimeoutSeconds)
	}
	if cfg.Search.URL != def.Search.URL {
		t.Errorf("template search url = %q, default = %q", cfg.Search.URL, def.Search.URL)
	}
	if cfg.Display.TextSize != def.Display.TextSize {
		t.Errorf("template text_size = %d, default = %d", cfg.Display.TextSize, def.Display.TextSize)
	}
	if cfg.Display.Scheme != def.Display.Scheme {
		t.Errorf("template scheme = %q, default = %q", cfg.Display.Scheme, def.Display.Scheme)
	}
}
