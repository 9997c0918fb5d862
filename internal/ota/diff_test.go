package ota_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"otabot/internal/ota"
)

func TestDiff(t *testing.T) {
	tests := []struct {
		name     string
		current  []string
		previous []string
		want     []string
	}{
		{"first run", []string{"aaa", "bbb"}, nil, []string{"aaa", "bbb"}},
		{"one new", []string{"aaa", "bbb"}, []string{"aaa"}, []string{"bbb"}},
		{"nothing new", []string{"aaa"}, []string{"aaa", "old"}, nil},
		{"order follows current", []string{"ccc", "aaa", "bbb"}, []string{"aaa"}, []string{"ccc", "bbb"}},
		{"duplicates once", []string{"aaa", "aaa"}, nil, []string{"aaa"}},
		{"empty catalog", nil, []string{"aaa"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ota.Diff(tt.current, tt.previous)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Diff() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDiff_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	hashes := gen.SliceOf(gen.OneConstOf("aaa", "bbb", "ccc", "ddd", "eee"))

	properties.Property("diff of a set with itself is empty", prop.ForAll(
		func(s []string) bool {
			return len(ota.Diff(s, s)) == 0
		},
		hashes,
	))

	properties.Property("result is in current and not in previous", prop.ForAll(
		func(current, previous []string) bool {
			in := func(xs []string, x string) bool {
				for _, y := range xs {
					if x == y {
						return true
					}
				}
				return false
			}
			for _, h := range ota.Diff(current, previous) {
				if !in(current, h) || in(previous, h) {
					return false
				}
			}
			return true
		},
		hashes, hashes,
	))

	properties.Property("every new hash is reported exactly once", prop.ForAll(
		func(current, previous []string) bool {
			got := ota.Diff(current, previous)
			seen := map[string]int{}
			for _, h := range got {
				seen[h]++
			}
			old := map[string]bool{}
			for _, h := range previous {
				old[h] = true
			}
			for _, h := range current {
				if !old[h] && seen[h] != 1 {
					return false
				}
			}
			return len(seen) == len(got)
		},
		hashes, hashes,
	))

	properties.TestingRun(t)
}
