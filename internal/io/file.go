package ioutils

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	apperrors "github.com/handiism/xspf-curator/internal/errors"
)

var (
	invalidChars    = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots    = regexp.MustCompile(`\.+$`)
	repeatedSpacing = regexp.MustCompile(`\s+`)
)

// WriteFile writes data to a file, creating it if necessary.
//
// The file is created with mode 0644. If the file already exists,
// it is truncated before writing.
func WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0644)
}

// AppendFile appends data to an existing file.
//
// Unlike WriteFile it never creates the file: appending to a missing
// file means an earlier step failed.
func AppendFile(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadAndRemove returns the full contents of path and deletes it.
//
// If reading fails the file is left in place.
func ReadAndRemove(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := os.Remove(path); err != nil {
		return nil, err
	}
	return data, nil
}

// CheckRegularFile validates a load target.
//
// Returns a validation error if path is empty, does not exist or is a
// directory, and a filesystem error if it cannot be inspected.
func CheckRegularFile(path string) error {
	if path == "" {
		return apperrors.NewValidationError("file path is required", "")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return apperrors.NewValidationError("file does not exist", path)
		}
		return apperrors.NewFilesystemError("cannot stat file", path, err)
	}
	if info.IsDir() {
		return apperrors.NewValidationError("expected a file but found a directory", path)
	}
	return nil
}

// CheckParentDir validates a save target: its parent directory must exist.
func CheckParentDir(path string) error {
	if path == "" {
		return apperrors.NewValidationError("file path is required", "")
	}

	parent := filepath.Dir(path)
	info, err := os.Stat(parent)
	if err != nil || !info.IsDir() {
		return apperrors.NewValidationError("parent directory does not exist", parent)
	}
	return nil
}

// EnsureExtension appends ext to name unless name already ends with it.
//
// Example:
//
//	EnsureExtension("road-trip", ".xspf")      // "road-trip.xspf"
//	EnsureExtension("road-trip.xspf", ".xspf") // unchanged
func EnsureExtension(name, ext string) string {
	if strings.HasSuffix(name, ext) {
		return name
	}
	return name + ext
}

// SanitizeFileName removes or replaces characters that are invalid in file/folder names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars 0x00-0x1f) → underscore
//   - Trailing dots → removed (Windows limitation)
//   - Multiple whitespace → single space
//   - Trailing whitespace → removed
//
// Example:
//
//	SanitizeFileName("Song: Part 1/2")     // Returns "Song_ Part 1_2"
//	SanitizeFileName("Track...")           // Returns "Track"
//	SanitizeFileName("Name   with  spaces") // Returns "Name with spaces"
func SanitizeFileName(name string) string {
	name = invalidChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	name = repeatedSpacing.ReplaceAllString(name, " ")
	return strings.TrimRight(name, " ")
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
