package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies an Error.
type Kind int

const (
	KindValidation Kind = iota
	KindFilesystem
	KindFormat
)

// String returns a lowercase name for the kind.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindFilesystem:
		return "filesystem"
	case KindFormat:
		return "format"
	default:
		return "unknown"
	}
}

// Error codes carried by Error.Code.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeFilesystem = "FILESYSTEM_ERROR"
	CodeFormat     = "FORMAT_ERROR"
	CodeParse      = "PARSE_ERROR"
)

// Error is a failure with a kind, a stable code and the path it concerns.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Path    string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Path)
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewValidationError reports bad input detected before any work was done.
func NewValidationError(message, path string) *Error {
	return &Error{
		Kind:    KindValidation,
		Code:    CodeValidation,
		Message: message,
		Path:    path,
	}
}

// NewFilesystemError wraps an I/O failure.
func NewFilesystemError(message, path string, cause error) *Error {
	return &Error{
		Kind:    KindFilesystem,
		Code:    CodeFilesystem,
		Message: message,
		Path:    path,
		Cause:   cause,
	}
}

// NewFormatError reports a well-formed document that lacks required structure.
func NewFormatError(message, path string) *Error {
	return &Error{
		Kind:    KindFormat,
		Code:    CodeFormat,
		Message: message,
		Path:    path,
	}
}

// NewParseError reports a document that is not well-formed XML.
func NewParseError(path string, cause error) *Error {
	return &Error{
		Kind:    KindFormat,
		Code:    CodeParse,
		Message: "malformed playlist document",
		Path:    path,
		Cause:   cause,
	}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsValidation reports whether err wraps an *Error of KindValidation.
func IsValidation(err error) bool { return is(err, KindValidation) }

// IsFilesystem reports whether err wraps an *Error of KindFilesystem.
func IsFilesystem(err error) bool { return is(err, KindFilesystem) }

// IsFormat reports whether err wraps an *Error of KindFormat.
func IsFormat(err error) bool { return is(err, KindFormat) }

func is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
