package ota_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"otabot/internal/ota"
	"otabot/internal/testutil"
)

func TestCatalog(t *testing.T) {
	catalog := catalogOf(t,
		testutil.Build{Codename: "marble", MD5: "aaa", Device: "Poco F5", Size: 2000000000, Timestamp: 1705314600},
		testutil.Build{Codename: "lisa", MD5: "bbb"},
		testutil.Build{Codename: "marble_dup", MD5: "aaa"},
	)

	t.Run("hashes in scan order", func(t *testing.T) {
		if diff := cmp.Diff([]string{"aaa", "bbb", "aaa"}, catalog.Hashes()); diff != "" {
			t.Errorf("Hashes() mismatch (-want +got):\n%s", diff)
		}
		if catalog.Len() != 3 {
			t.Errorf("Len() = %d, want 3", catalog.Len())
		}
	})

	t.Run("info for first file with hash", func(t *testing.T) {
		info, err := catalog.InfoFor("aaa")
		if err != nil {
			t.Fatalf("InfoFor() error = %v", err)
		}
		if info.Codename != "marble" || info.DeviceName != "Poco F5" || info.Flavor != "Gapps" {
			t.Errorf("InfoFor() = %+v", info)
		}
		if info.SizeString() != "2.0" {
			t.Errorf("SizeString() = %q, want 2.0", info.SizeString())
		}
		if !info.Time.Equal(time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)) || info.Time.Location() != time.UTC {
			t.Errorf("Time = %v, want 2024-01-15 10:30 UTC", info.Time)
		}
	})

	t.Run("unknown hash", func(t *testing.T) {
		_, err := catalog.InfoFor("zzz")
		if !errors.Is(err, ota.ErrBuildNotFound) {
			t.Errorf("InfoFor() error = %v, want ErrBuildNotFound", err)
		}
	})

	t.Run("summaries", func(t *testing.T) {
		got := catalog.Summaries()
		if len(got) != 3 || got[1].Codename != "lisa" || got[1].Version != "14.2" {
			t.Errorf("Summaries() = %+v", got)
		}
	})
}
