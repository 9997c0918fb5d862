package hashlog

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"otabot/internal/ota"
)

// FileHashLog stores announced hashes in a flat text file, one per line.
type FileHashLog struct {
	path  string
	fsmgr ota.FilesystemManager
}

// NewFileHashLog creates a hash log backed by the file at path.
func NewFileHashLog(path string, fsmgr ota.FilesystemManager) *FileHashLog {
	return &FileHashLog{path: path, fsmgr: fsmgr}
}

// Path returns the backing file path.
func (l *FileHashLog) Path() string {
	return l.path
}

// Load reads the log. A missing file is an empty log.
func (l *FileHashLog) Load() ([]string, error) {
	data, err := l.fsmgr.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading hash log: %w", err)
	}
	return parse(string(data)), nil
}

// Persist replaces the whole file with hashes, each newline-terminated.
func (l *FileHashLog) Persist(hashes []string) error {
	if err := l.fsmgr.WriteFile(l.path, []byte(format(hashes))); err != nil {
		return fmt.Errorf("writing hash log: %w", err)
	}
	return nil
}

func parse(data string) []string {
	var hashes []string
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		hashes = append(hashes, line)
	}
	return hashes
}

func format(hashes []string) string {
	var sb strings.Builder
	for _, h := range hashes {
		sb.WriteString(h)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Compile-time check that FileHashLog implements ota.HashLog interface
var _ ota.HashLog = (*FileHashLog)(nil)
