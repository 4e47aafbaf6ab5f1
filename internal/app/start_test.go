package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStartPath(t *testing.T) {
	root := t.TempDir()
	last := filepath.Join(root, "last")
	home := filepath.Join(root, "home")
	for _, d := range []string{last, home} {
		if err := os.Mkdir(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	t.Chdir(root)

	isDir := func(p string) bool {
		info, err := os.Stat(p)
		return err == nil && info.IsDir()
	}
	never := func(string) bool { return false }

	tests := []struct {
		name    string
		arg     string
		last    string
		isDir   func(string) bool
		want    string
		wantErr bool
	}{
		{"argument", home, last, isDir, home, false},
		{"relative argument", "last", "", isDir, last, false},
		{"tilde argument", "~", "", isDir, home, false},
		{"argument not a directory", "missing", last, isDir, "", true},
		{"restored last path", "", last, isDir, last, false},
		{"last path gone", "", filepath.Join(root, "gone"), isDir, root, false},
		{"working directory", "", "", isDir, root, false},
		{"nothing exists", "", last, never, "/", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StartPath(tt.arg, tt.last, home, tt.isDir)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("StartPath() = %q, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("StartPath() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("StartPath() = %q, want %q", got, tt.want)
			}
		})
	}
}
