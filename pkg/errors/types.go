// Package errors provides typed errors for the sdbh project.
//
// This package defines domain-specific error types that provide structured
// error information for the different subsystems (store, schema, import,
// query filters, health). All error types implement the standard error
// interface and support errors.Is() and errors.As() from the standard
// library and cockroachdb/errors.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// StorageError represents a store file that could not be opened, created, or
// written. It is fatal to the invocation.
type StorageError struct {
	Path    string // Database file path
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("storage unavailable at %s: %s", e.Path, e.Message)
	}
	return "storage unavailable: " + e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(path, message string) *StorageError {
	return &StorageError{Path: path, Message: message}
}

// NewStorageErrorWithCause creates a new StorageError with an underlying cause.
func NewStorageErrorWithCause(path, message string, cause error) *StorageError {
	return &StorageError{Path: path, Message: message, Cause: cause}
}

// SchemaError represents an on-disk schema generation this build does not
// understand. It is fatal to the invocation.
type SchemaError struct {
	Path    string
	Found   string // Schema version found in the meta table
	Want    string // Highest schema version this build supports
	Message string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	if e.Found != "" {
		return fmt.Sprintf("incompatible schema in %s: version %s, this build supports up to %s", e.Path, e.Found, e.Want)
	}
	return fmt.Sprintf("incompatible schema in %s: %s", e.Path, e.Message)
}

// NewSchemaError creates a new SchemaError for a version mismatch.
func NewSchemaError(path, found, want string) *SchemaError {
	return &SchemaError{Path: path, Found: found, Want: want}
}

// FilterError represents an invalid query filter combination, e.g. a session
// filter requested without both salt and parent pid. It is validated before
// any I/O and surfaced to the caller as a request error.
type FilterError struct {
	Field   string // Which filter field has the issue
	Message string
}

// Error implements the error interface.
func (e *FilterError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("filter conflict on %s: %s", e.Field, e.Message)
	}
	return "filter conflict: " + e.Message
}

// NewFilterError creates a new FilterError.
func NewFilterError(field, message string) *FilterError {
	return &FilterError{Field: field, Message: message}
}

// IntegrityError represents a failed store-level consistency check. It is
// reported, never auto-corrected.
type IntegrityError struct {
	Path   string
	Report string // Raw output of the consistency check
}

// Error implements the error interface.
func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity check failed for %s: %s", e.Path, e.Report)
}

// NewIntegrityError creates a new IntegrityError.
func NewIntegrityError(path, report string) *IntegrityError {
	return &IntegrityError{Path: path, Report: report}
}

// ImportError represents a failure opening or reading one import source.
// Row-level parse failures are not errors; they are skipped and counted.
type ImportError struct {
	Source  string // Path of the import source
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ImportError) Error() string {
	return fmt.Sprintf("import from %s failed: %s", e.Source, e.Message)
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *ImportError) Unwrap() error {
	return e.Cause
}

// NewImportError creates a new ImportError.
func NewImportError(source, message string) *ImportError {
	return &ImportError{Source: source, Message: message}
}

// NewImportErrorWithCause creates a new ImportError with an underlying cause.
func NewImportErrorWithCause(source, message string, cause error) *ImportError {
	return &ImportError{Source: source, Message: message, Cause: cause}
}

// IsFilterConflict reports whether err is (or wraps) a FilterError.
func IsFilterConflict(err error) bool {
	var fe *FilterError
	return errors.As(err, &fe)
}

// IsStorageUnavailable reports whether err is (or wraps) a StorageError.
func IsStorageUnavailable(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// Re-exported helpers so callers don't need to import cockroachdb/errors
// alongside this package.
var (
	New   = errors.New
	Newf  = errors.Newf
	Wrap  = errors.Wrap
	Wrapf = errors.Wrapf
	Is    = errors.Is
	As    = errors.As
)
