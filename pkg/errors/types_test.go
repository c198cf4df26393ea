package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageError_MessageAndUnwrap(t *testing.T) {
	cause := New("disk went away")
	err := NewStorageErrorWithCause("/tmp/db.sqlite", "cannot open", cause)

	assert.Contains(t, err.Error(), "/tmp/db.sqlite")
	assert.Contains(t, err.Error(), "cannot open")
	assert.True(t, Is(err, cause))
}

func TestStorageError_NoPath(t *testing.T) {
	err := NewStorageError("", "no home directory")
	assert.Equal(t, "storage unavailable: no home directory", err.Error())
}

func TestSchemaError_VersionMismatch(t *testing.T) {
	err := NewSchemaError("/tmp/db.sqlite", "99", "1")
	assert.Contains(t, err.Error(), "version 99")
	assert.Contains(t, err.Error(), "supports up to 1")
}

func TestFilterError_Message(t *testing.T) {
	err := NewFilterError("session", "SDBH_SALT is not set")
	assert.Equal(t, "filter conflict on session: SDBH_SALT is not set", err.Error())
}

func TestIsFilterConflict(t *testing.T) {
	direct := NewFilterError("session", "missing salt")
	assert.True(t, IsFilterConflict(direct))
	assert.True(t, IsFilterConflict(Wrap(direct, "running query")))

	assert.False(t, IsFilterConflict(nil))
	assert.False(t, IsFilterConflict(New("something else")))
	assert.False(t, IsFilterConflict(NewStorageError("/x", "down")))
}

func TestIsStorageUnavailable(t *testing.T) {
	direct := NewStorageError("/x", "down")
	assert.True(t, IsStorageUnavailable(direct))
	assert.True(t, IsStorageUnavailable(Wrapf(direct, "opening store")))
	assert.False(t, IsStorageUnavailable(New("unrelated")))
}

func TestTypedErrors_AsThroughWrapping(t *testing.T) {
	wrapped := Wrap(NewImportError("/old.sqlite", "no history table"), "merging sources")

	var ie *ImportError
	require.True(t, As(wrapped, &ie))
	assert.Equal(t, "/old.sqlite", ie.Source)
}

func TestFormatUserError(t *testing.T) {
	assert.Empty(t, FormatUserError(nil))

	msg := FormatUserError(NewFilterError("session", "SDBH_PPID is not set"))
	assert.Contains(t, msg, "filter conflict")
	assert.Contains(t, msg, "Hint:")

	plain := New("plain failure")
	assert.Equal(t, "plain failure", FormatUserError(plain))
}
