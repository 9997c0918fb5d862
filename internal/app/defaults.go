package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"otabot/internal/config"
)

// DefaultConfigPath is used when neither --config nor OTABOT_CONFIG_PATH is
// set. It is relative to the OTA repository checkout.
var DefaultConfigPath = filepath.Join(".github", "otabot.toml")

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - OTABOT_CONFIG_PATH: config file location (default: .github/otabot.toml)
//   - OTABOT_LOG_DIR: log directory overriding the config's log_dir (default: unset)
func GetDefaults() map[string]string {
	return map[string]string{
		"config_path": getConfigPath(),
		"log_dir":     os.Getenv("OTABOT_LOG_DIR"),
	}
}

func getConfigPath() string {
	if path := os.Getenv("OTABOT_CONFIG_PATH"); path != "" {
		return path
	}
	return DefaultConfigPath
}

// LoadConfig reads the config at path, or at the default location when path
// is empty. A missing file at the default location yields config.NewConfig();
// a missing file that was asked for explicitly is an error.
func LoadConfig(path string) (*config.Config, string, error) {
	defaults := GetDefaults()
	explicit := path != ""
	if !explicit {
		path = defaults["config_path"]
		explicit = path != DefaultConfigPath
	}

	cfg, err := config.ReadFromFile(path)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		cfg = config.NewConfig()
	default:
		return nil, path, fmt.Errorf("reading config: %w", err)
	}

	if dir := defaults["log_dir"]; dir != "" {
		cfg.LogDir = dir
	}
	return cfg, path, nil
}
