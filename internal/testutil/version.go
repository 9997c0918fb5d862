package testutil

import (
	"context"

	"otabot/internal/ota"
)

// StubVersionSource returns a fixed reference version and counts calls.
type StubVersionSource struct {
	Version string
	Err     error
	Calls   int
}

func (s *StubVersionSource) ReferenceVersion(context.Context) (string, error) {
	s.Calls++
	return s.Version, s.Err
}

var _ ota.VersionSource = (*StubVersionSource)(nil)
