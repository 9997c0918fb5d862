package ota

// FilesystemManager abstracts the file access the service needs so tests can
// run without touching the real filesystem.
type FilesystemManager interface {
	// ListFiles returns the names (not paths) of regular files in dir whose
	// name ends in ext, sorted by name.
	ListFiles(dir, ext string) ([]string, error)

	// ReadFile returns the full contents of the file at path. A missing file
	// yields an error matching fs.ErrNotExist.
	ReadFile(path string) ([]byte, error)

	// WriteFile replaces the file at path with data. The replacement is atomic:
	// readers see either the old or the new contents.
	WriteFile(path string, data []byte) error

	// Remove deletes the file at path.
	Remove(path string) error
}
