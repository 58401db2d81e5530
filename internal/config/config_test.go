package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "token")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxSlots != 999 {
		t.Errorf("MaxSlots = %d, want 999", cfg.MaxSlots)
	}
	if cfg.DataFile != "./data/game_data.json" {
		t.Errorf("DataFile = %q", cfg.DataFile)
	}
	if cfg.StateFile != "./data/bot_state.json" {
		t.Errorf("StateFile = %q", cfg.StateFile)
	}
	if cfg.StorageBackend != "file" {
		t.Errorf("StorageBackend = %q", cfg.StorageBackend)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "DISCORD_BOT_TOKEN") {
		t.Fatalf("err = %v, want token error", err)
	}

	if _, err := LoadStorage(); err != nil {
		t.Fatalf("LoadStorage without token: %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "token")
	t.Setenv("MAX_SLOTS", "100")
	t.Setenv("DATA_FILE", "/tmp/game.json")
	t.Setenv("STORAGE_BACKEND", "sqlite")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxSlots != 100 || cfg.DataFile != "/tmp/game.json" || cfg.StorageBackend != "sqlite" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{"MAX_SLOTS", "abc", "parse env:"},
		{"MAX_SLOTS", "0", "invalid MAX_SLOTS"},
		{"MAX_SLOTS", "1000", "invalid MAX_SLOTS"},
		{"STORAGE_BACKEND", "redis", "invalid STORAGE_BACKEND"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv("DISCORD_BOT_TOKEN", "token")
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestIsAdmin(t *testing.T) {
	cfg := &Config{AdminUserID: "42", Environment: "production"}
	if !cfg.IsAdmin("42") {
		t.Error("admin not recognized")
	}
	if cfg.IsAdmin("43") {
		t.Error("non-admin accepted")
	}
	if (&Config{Environment: "production"}).IsAdmin("") {
		t.Error("empty admin id matched empty user")
	}
	if !(&Config{Environment: "development"}).IsAdmin("anyone") {
		t.Error("development should grant admin")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]string{
		"debug":   "DEBUG",
		"WARN":    "WARN",
		"error":   "ERROR",
		"info":    "INFO",
		"verbose": "INFO",
		"":        "INFO",
	}
	for in, want := range tests {
		if got := ParseLogLevel(in).String(); got != want {
			t.Errorf("ParseLogLevel(%q) = %s, want %s", in, got, want)
		}
	}
}
