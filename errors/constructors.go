package errors

import (
	"fmt"
	"os/exec"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *CompanionError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *CompanionError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// CorruptData reports a stored blob that could not be decoded.
func CorruptData(key string, err error) *CompanionError {
	return Wrap(err, ErrCodeCorruptData, fmt.Sprintf("stored data for '%s' is not valid JSON", key)).
		WithDetail("key", key)
}

// NotFound creates a not found error for an entity of the given kind.
func NotFound(kind, id string) *CompanionError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s '%s' not found", kind, id)).
		WithDetail("kind", kind).
		WithDetail("id", id)
}

// AlreadyExists creates a duplicate identity error.
func AlreadyExists(kind, id string) *CompanionError {
	return New(ErrCodeAlreadyExists, fmt.Sprintf("%s '%s' already exists", kind, id)).
		WithDetail("kind", kind).
		WithDetail("id", id)
}

// NotADirectory reports a path that exists but is not a folder.
func NotADirectory(path string) *CompanionError {
	return New(ErrCodeNotADirectory, fmt.Sprintf("not a folder: %s", path)).
		WithDetail("path", path)
}

// InvalidInput creates a validation error for user supplied values.
func InvalidInput(reason string) *CompanionError {
	return New(ErrCodeInvalidInput, reason)
}

// RevisionConflict reports a write whose expected revision is stale.
func RevisionConflict(key string, expected, actual int64) *CompanionError {
	return New(ErrCodeRevisionConflict,
		fmt.Sprintf("'%s' was modified concurrently (expected revision %d, found %d)", key, expected, actual)).
		WithDetail("key", key).
		WithDetail("expected", expected).
		WithDetail("actual", actual)
}

// Storage wraps a failure of the underlying record store.
func Storage(op, key string, err error) *CompanionError {
	return Wrap(err, ErrCodeStorage, fmt.Sprintf("storage %s failed for '%s'", op, key)).
		WithDetail("op", op).
		WithDetail("key", key)
}

// CommandNotFound creates an error for a binary that is not installed.
func CommandNotFound(name string) *CompanionError {
	return New(ErrCodeCommandNotFound, fmt.Sprintf("command not found: %s", name)).
		WithDetail("command", name)
}

// CommandFailed creates a command execution failure error
func CommandFailed(cmd string, err error) *CompanionError {
	companionErr := Wrap(err, ErrCodeCommandFailed, fmt.Sprintf("command failed: %s", cmd)).
		WithDetail("command", cmd)

	// Extract exit code if available
	if exitErr, ok := err.(*exec.ExitError); ok {
		companionErr = companionErr.WithDetail("exitCode", exitErr.ExitCode())
	}

	return companionErr
}
