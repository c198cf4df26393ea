package errors

import (
	"github.com/cockroachdb/errors"
)

// FormatUserError converts a typed error into a message suitable for the
// terminal, with a hint where one exists. Unknown error types fall through to
// their plain Error() text.
func FormatUserError(err error) string {
	if err == nil {
		return ""
	}

	var storageErr *StorageError
	if errors.As(err, &storageErr) {
		return formatStorageError(storageErr)
	}

	var schemaErr *SchemaError
	if errors.As(err, &schemaErr) {
		return schemaErr.Error() + "\nHint: upgrade sdbh, or point --db at a compatible database."
	}

	var filterErr *FilterError
	if errors.As(err, &filterErr) {
		return filterErr.Error() + "\nHint: session filtering needs SDBH_SALT and SDBH_PPID; run 'sdbh shell' to set up the hook."
	}

	var integrityErr *IntegrityError
	if errors.As(err, &integrityErr) {
		return integrityErr.Error() + "\nHint: restore the database from a backup; sdbh never repairs a corrupt file automatically."
	}

	var importErr *ImportError
	if errors.As(err, &importErr) {
		return importErr.Error()
	}

	return err.Error()
}

func formatStorageError(err *StorageError) string {
	msg := err.Error()
	if IsRetryable(err.Cause) {
		msg += "\nHint: another shell is writing to the database; the operation was retried and still failed."
	}
	return msg
}
