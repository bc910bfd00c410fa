package ioutils

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/handiism/xspf-curator/internal/errors"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"normal-file", "normal-file"},
		{"file:with:colons", "file_with_colons"},
		{"file/with\\slashes", "file_with_slashes"},
		{"trailing dots...", "trailing dots"},
		{"multiple   spaces", "multiple spaces"},
		{"trailing spaces   ", "trailing spaces"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SanitizeFileName(tt.input); got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEnsureExtension(t *testing.T) {
	if got := EnsureExtension("list", ".xspf"); got != "list.xspf" {
		t.Errorf("EnsureExtension() = %q", got)
	}
	if got := EnsureExtension("list.xspf", ".xspf"); got != "list.xspf" {
		t.Errorf("EnsureExtension() = %q", got)
	}
}

func TestWriteAppendReadAndRemove(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	if err := AppendFile(path, []byte("x")); err == nil {
		t.Error("AppendFile should not create a missing file")
	}

	if err := WriteFile(path, []byte("head\n")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := AppendFile(path, []byte("body")); err != nil {
		t.Fatalf("AppendFile: %v", err)
	}

	data, err := ReadAndRemove(path)
	if err != nil {
		t.Fatalf("ReadAndRemove: %v", err)
	}
	if string(data) != "head\nbody" {
		t.Errorf("content = %q", data)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file should have been removed")
	}
}

func TestCheckRegularFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.xspf")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}

	if err := CheckRegularFile(file); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	for _, path := range []string{"", dir, filepath.Join(dir, "missing.xspf")} {
		if err := CheckRegularFile(path); !apperrors.IsValidation(err) {
			t.Errorf("CheckRegularFile(%q) = %v, want validation error", path, err)
		}
	}
}

func TestCheckParentDir(t *testing.T) {
	dir := t.TempDir()

	if err := CheckParentDir(filepath.Join(dir, "new.xspf")); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := CheckParentDir(filepath.Join(dir, "nope", "new.xspf")); !apperrors.IsValidation(err) {
		t.Errorf("want validation error, got %v", err)
	}
}
