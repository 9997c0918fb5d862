package app

import (
	"os"
	"path/filepath"
	"testing"

	"otabot/internal/config"
)

func TestGetDefaults(t *testing.T) {
	t.Run("uses env vars when set", func(t *testing.T) {
		t.Setenv("OTABOT_CONFIG_PATH", "/custom/otabot.toml")
		t.Setenv("OTABOT_LOG_DIR", "/custom/log")

		defaults := GetDefaults()
		if defaults["config_path"] != "/custom/otabot.toml" {
			t.Errorf("config_path = %q, want %q", defaults["config_path"], "/custom/otabot.toml")
		}
		if defaults["log_dir"] != "/custom/log" {
			t.Errorf("log_dir = %q, want %q", defaults["log_dir"], "/custom/log")
		}
	})

	t.Run("falls back to repository defaults", func(t *testing.T) {
		t.Setenv("OTABOT_CONFIG_PATH", "")
		t.Setenv("OTABOT_LOG_DIR", "")

		defaults := GetDefaults()
		if defaults["config_path"] != filepath.Join(".github", "otabot.toml") {
			t.Errorf("config_path = %q", defaults["config_path"])
		}
		if defaults["log_dir"] != "" {
			t.Errorf("log_dir = %q, want empty", defaults["log_dir"])
		}
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("explicit path", func(t *testing.T) {
		t.Setenv("OTABOT_LOG_DIR", "")
		path := filepath.Join(t.TempDir(), "bot.toml")
		cfg := config.NewConfig()
		cfg.Digest.ROMName = "TestROM"
		if err := config.Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, used, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if used != path || got.Digest.ROMName != "TestROM" {
			t.Errorf("LoadConfig() = %q, %q", used, got.Digest.ROMName)
		}
	})

	t.Run("explicit missing path is an error", func(t *testing.T) {
		if _, _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
			t.Fatal("LoadConfig() expected error")
		}
	})

	t.Run("env path missing is an error", func(t *testing.T) {
		t.Setenv("OTABOT_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.toml"))
		if _, _, err := LoadConfig(""); err == nil {
			t.Fatal("LoadConfig() expected error")
		}
	})

	t.Run("missing default file uses built-in defaults", func(t *testing.T) {
		t.Setenv("OTABOT_CONFIG_PATH", "")
		t.Setenv("OTABOT_LOG_DIR", "/var/log/otabot")
		wd, _ := os.Getwd()
		t.Cleanup(func() { os.Chdir(wd) })
		if err := os.Chdir(t.TempDir()); err != nil {
			t.Fatal(err)
		}

		got, used, err := LoadConfig("")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if used != DefaultConfigPath {
			t.Errorf("path = %q, want %q", used, DefaultConfigPath)
		}
		if got.Digest.ROMName != "DroidX-UI" {
			t.Errorf("ROMName = %q, want default", got.Digest.ROMName)
		}
		if got.LogDir != "/var/log/otabot" {
			t.Errorf("LogDir = %q, want env override", got.LogDir)
		}
	})
}
