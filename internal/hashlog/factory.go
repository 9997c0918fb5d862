// Package hashlog stores the hashes of builds that have already been announced.
package hashlog

import (
	"fmt"

	"otabot/internal/config"
	"otabot/internal/ota"
)

// NewHashLogFromConfig creates a HashLog implementation based on the config type.
func NewHashLogFromConfig(cfg config.HashLogConfig, fsmgr ota.FilesystemManager) (ota.HashLog, error) {
	switch cfg.Type {
	case "", "file":
		if cfg.Path == "" {
			return nil, fmt.Errorf("file hash log requires path to be set")
		}
		return NewFileHashLog(cfg.Path, fsmgr), nil
	case "memory":
		return NewMemoryHashLog(), nil
	default:
		return nil, fmt.Errorf("unknown hash log type: %s", cfg.Type)
	}
}
