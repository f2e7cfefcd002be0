package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetConfigDir_XDG(t *testing.T) {
	if os.Getenv("LOCALAPPDATA") != "" {
		t.Skip("Windows layout")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if want := filepath.Join(dir, "mini"); got != want {
		t.Errorf("GetConfigDir() = %q, want %q", got, want)
	}

	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if filepath.Base(path) != "config.yaml" {
		t.Errorf("GetConfigPath() = %q, want config.yaml", path)
	}

	logPath, err := DefaultLogFile()
	if err != nil {
		t.Fatalf("DefaultLogFile() error = %v", err)
	}
	if filepath.Base(logPath) != "mini.log" {
		t.Errorf("DefaultLogFile() = %q, want mini.log", logPath)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Nickname != "program" {
		t.Errorf("Nickname = %q, want program", cfg.Nickname)
	}
	if strings.Join(cfg.Channels, ",") != "#mini,#rust" {
		t.Errorf("Channels = %v, want [#mini #rust]", cfg.Channels)
	}
	if cfg.Target != "#mini" {
		t.Errorf("Target = %q, want #mini", cfg.Target)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}

	cfg.Channels[0] = "#changed"
	if Default().Channels[0] != "#mini" {
		t.Error("Default() shares its channel slice")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"wss server", func(c *Config) { c.Server = "wss://chat.example.com/ws" }, ""},
		{"log level", func(c *Config) { c.LogLevel = "debug" }, ""},
		{"bad version", func(c *Config) { c.Version = 2 }, "unsupported config version"},
		{"empty nick", func(c *Config) { c.Nickname = "" }, "nickname"},
		{"nick with space", func(c *Config) { c.Nickname = "a b" }, "nickname"},
		{"http server", func(c *Config) { c.Server = "http://localhost:6667" }, "ws:// or wss://"},
		{"server without host", func(c *Config) { c.Server = "ws:///ws" }, "no host"},
		{"bare channel", func(c *Config) { c.Channels = []string{"mini"} }, "must start with #"},
		{"no target", func(c *Config) { c.Target = "" }, "target is required"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "unknown log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateJoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.Nickname = ""
	cfg.Target = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() error = nil")
	}
	if !strings.Contains(err.Error(), "nickname") || !strings.Contains(err.Error(), "target") {
		t.Errorf("Validate() error = %v, want both problems", err)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Nickname != DefaultNickname {
		t.Errorf("Nickname = %q, want default", cfg.Nickname)
	}
}

func TestLoadFile_PartialFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "nickname: alice\nserver: ws://relay.lan:6667/ws\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Nickname != "alice" || cfg.Server != "ws://relay.lan:6667/ws" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Version != CurrentVersion || cfg.Target != DefaultTarget || len(cfg.Channels) != 2 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad yaml", "nickname: [unterminated\n", "failed to parse"},
		{"bad value", "nickname: alice\nserver: http://x\n", "invalid config file"},
		{"future version", "version: 7\n", "unsupported config version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			_, err := LoadFile(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadFile() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	if os.Getenv("LOCALAPPDATA") != "" {
		t.Skip("Windows layout")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if Exists() {
		t.Fatal("Exists() = true before Save")
	}

	cfg := Default()
	cfg.Nickname = "alice"
	cfg.Channels = []string{"#go"}
	cfg.Target = "#go"
	cfg.LogLevel = "warn"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !Exists() {
		t.Fatal("Exists() = false after Save")
	}

	path, _ := GetConfigPath()
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# mini configuration file") {
		t.Errorf("saved file missing header:\n%s", data)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Nickname != "alice" || loaded.Target != "#go" || loaded.LogLevel != "warn" {
		t.Errorf("Load() = %+v", loaded)
	}
	if strings.Join(loaded.Channels, ",") != "#go" {
		t.Errorf("Channels = %v", loaded.Channels)
	}
}
