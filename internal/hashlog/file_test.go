package hashlog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"otabot/internal/fs"
	"otabot/internal/testutil"
)

func TestFileHashLog_Load(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{name: "one hash per line", content: "aaa\nbbb\n", want: []string{"aaa", "bbb"}},
		{name: "missing trailing newline", content: "aaa\nbbb", want: []string{"aaa", "bbb"}},
		{name: "crlf line endings", content: "aaa\r\nbbb\r\n", want: []string{"aaa", "bbb"}},
		{name: "blank lines skipped", content: "aaa\n\n  \nbbb\n", want: []string{"aaa", "bbb"}},
		{name: "empty file", content: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsmgr := testutil.NewMockFilesystemManager()
			fsmgr.AddFile("ids/file_ids.txt", []byte(tt.content))
			l := NewFileHashLog("ids/file_ids.txt", fsmgr)

			got, err := l.Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Load() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFileHashLog_Load_missingFileIsEmpty(t *testing.T) {
	l := NewFileHashLog("nope/file_ids.txt", testutil.NewMockFilesystemManager())

	got, err := l.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Load() = %v, want empty", got)
	}
}

func TestFileHashLog_Persist(t *testing.T) {
	fsmgr := testutil.NewMockFilesystemManager()
	fsmgr.AddFile("file_ids.txt", []byte("old1\nold2\nold3\n"))
	l := NewFileHashLog("file_ids.txt", fsmgr)

	if err := l.Persist([]string{"aaa", "bbb"}); err != nil {
		t.Fatalf("Persist() error = %v", err)
	}

	got, _ := fsmgr.Contents("file_ids.txt")
	if got != "aaa\nbbb\n" {
		t.Errorf("file contents = %q, want %q", got, "aaa\nbbb\n")
	}
}

func TestFileHashLog_RoundTrip_onDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".github", "scripts", "file_ids.txt")
	l := NewFileHashLog(path, fs.NewOSFilesystemManager())

	want := []string{"aaa", "bbb", "ccc"}
	if err := l.Persist(want); err != nil {
		t.Fatalf("Persist() error = %v", err)
	}

	got, err := l.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	raw, _ := os.ReadFile(path)
	if string(raw) != "aaa\nbbb\nccc\n" {
		t.Errorf("raw contents = %q", raw)
	}
}
