package ota

// HashLog persists the set of build hashes that have already been announced.
type HashLog interface {
	// Load returns the hashes recorded by the previous run.
	Load() ([]string, error)

	// Persist replaces the log contents with hashes, one per line.
	Persist(hashes []string) error
}
