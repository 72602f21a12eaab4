package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	return store
}

func TestSaveUploadWritesUniqueFiles(t *testing.T) {
	store := newTestStore(t)

	first, err := store.SaveUpload(strings.NewReader("aaa"), "traffic.mp4")
	if err != nil {
		t.Fatalf("SaveUpload: %v", err)
	}
	second, err := store.SaveUpload(strings.NewReader("bbb"), "traffic.mp4")
	if err != nil {
		t.Fatalf("SaveUpload: %v", err)
	}

	if first == second {
		t.Fatalf("two uploads of the same name share path %s", first)
	}
	if filepath.Ext(first) != ".mp4" {
		t.Fatalf("saved path %s lost the original extension", first)
	}
	if filepath.Dir(first) != store.UploadsDir {
		t.Fatalf("saved path %s is outside the uploads root", first)
	}

	data, err := os.ReadFile(second)
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if string(data) != "bbb" {
		t.Fatalf("saved content = %q, want %q", data, "bbb")
	}
}

func TestInsideReports(t *testing.T) {
	store := newTestStore(t)

	cases := []struct {
		name string
		path string
		want bool
	}{
		{"direct child", store.ReportPath("report_J-1_1.xlsx"), true},
		{"nested child", filepath.Join(store.ReportsDir, "sub", "r.xlsx"), true},
		{"absolute escape", "/etc/passwd", false},
		{"relative escape", store.ReportPath("../outside.xlsx"), false},
		{"root itself is not a report", store.ReportsDir + "/..", false},
		{"sibling prefix", store.ReportsDir + "-evil/r.xlsx", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := store.InsideReports(tc.path); got != tc.want {
				t.Fatalf("InsideReports(%q) = %v, want %v", tc.path, got, tc.want)
			}
		})
	}
}
