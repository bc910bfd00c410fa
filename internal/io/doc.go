// Package ioutils provides the file system helpers behind playlist saving
// and loading.
//
// This package contains functions for:
//   - Writing, appending and read-then-delete of whole files
//   - Validating that a load target is an existing regular file
//   - Filename sanitization and extension handling
//   - Directory creation
//
// # Writing in two phases
//
// The XSPF writer serializes to a temporary file, pulls the bytes back
// and deletes the temporary, then writes a header followed by the body:
//
//	body, err := ioutils.ReadAndRemove(tmp)
//	err = ioutils.WriteFile(final, header)
//	err = ioutils.AppendFile(final, body)
//
// # Filename Sanitization
//
//	safe := ioutils.SanitizeFileName("Road Trip: Part 1/2") // "Road Trip_ Part 1_2"
package ioutils
