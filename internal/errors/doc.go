// Package errors defines the typed failures surfaced by the scanner,
// the XSPF codec and the playlist store.
//
// Every failure belongs to exactly one Kind:
//
//   - KindValidation: a required argument is missing, a file was expected
//     but a directory was found, or a load target does not exist
//   - KindFilesystem: an I/O failure during a walk, read or write
//   - KindFormat: a malformed or structurally incomplete XSPF document
//
// Callers branch on the kind with the predicates:
//
//	if errors.IsValidation(err) {
//	    // show the message, nothing was touched
//	}
//
// The only non-error "failure" in the system is removing something that
// is not present; those operations report a boolean instead.
package errors
