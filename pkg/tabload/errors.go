package tabload

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Sentinel errors for each failure kind of a load run.
// Typed errors below match them through errors.Is.
//
// Example usage:
//
//	_, err := loader.Load(ctx, cfg)
//	var rowErr *tabload.RowInsertError
//	if errors.As(err, &rowErr) {
//	    fmt.Println("rejected row", rowErr.Row)
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConnectionFailed indicates the destination database is unreachable.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrSourceRead indicates the source file is missing or unreadable.
	ErrSourceRead = errors.New("source read failed")

	// ErrSchemaInference indicates a column type could not be inferred.
	ErrSchemaInference = errors.New("schema inference failed")

	// ErrSchemaCreation indicates the destination rejected the creation statement.
	ErrSchemaCreation = errors.New("schema creation failed")

	// ErrRowInsert indicates the destination rejected a row.
	ErrRowInsert = errors.New("row insert failed")

	// ErrCommitFailed indicates the destination rejected the commit.
	ErrCommitFailed = errors.New("commit failed")
)

// ConnectionError reports a failure to open or begin work on the destination.
type ConnectionError struct {
	Driver Driver
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s connection failed: %v", e.Driver, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

func (e *ConnectionError) Is(target error) bool { return target == ErrConnectionFailed }

// SourceReadError reports a missing, unreadable or malformed source file.
type SourceReadError struct {
	Path string
	Err  error
}

func (e *SourceReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
}

func (e *SourceReadError) Unwrap() error { return e.Err }

func (e *SourceReadError) Is(target error) bool { return target == ErrSourceRead }

// SchemaInferenceError reports a column whose type cannot be inferred.
type SchemaInferenceError struct {
	Path   string
	Column string
	Reason string
}

func (e *SchemaInferenceError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("cannot infer schema of %s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("cannot infer type of column %q in %s: %s", e.Column, e.Path, e.Reason)
}

func (e *SchemaInferenceError) Is(target error) bool { return target == ErrSchemaInference }

// SchemaCreationError reports a rejected creation statement.
type SchemaCreationError struct {
	Table     string
	Statement string
	Err       error
}

func (e *SchemaCreationError) Error() string {
	return fmt.Sprintf("failed to create table %s: %v\n\nStatement: %s", e.Table, e.Err, truncate(e.Statement))
}

func (e *SchemaCreationError) Unwrap() error { return e.Err }

func (e *SchemaCreationError) Is(target error) bool { return target == ErrSchemaCreation }

// RowInsertError reports the first rejected row. Row is 1-based.
type RowInsertError struct {
	Table string
	Row   int
	Err   error
}

func (e *RowInsertError) Error() string {
	return fmt.Sprintf("failed to insert row %d into %s: %v", e.Row, e.Table, e.Err)
}

func (e *RowInsertError) Unwrap() error { return e.Err }

func (e *RowInsertError) Is(target error) bool { return target == ErrRowInsert }

// CommitError reports a rejected commit.
type CommitError struct {
	Table string
	Err   error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("failed to commit load into %s: %v", e.Table, e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }

func (e *CommitError) Is(target error) bool { return target == ErrCommitFailed }

func truncate(s string) string {
	if len(s) <= MaxErrorPreviewLength {
		return s
	}
	cut := MaxErrorPreviewLength
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrSourceRead):
		return ExitSourceReadError
	case errors.Is(err, ErrSchemaInference):
		return ExitSchemaInferenceError
	case errors.Is(err, ErrSchemaCreation):
		return ExitSchemaCreationError
	case errors.Is(err, ErrRowInsert):
		return ExitRowInsertError
	case errors.Is(err, ErrCommitFailed):
		return ExitCommitError
	}

	errStr := err.Error()
	if isUsageError(errStr) {
		return ExitUsageError
	}
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}

// isUsageError recognizes the argument and flag errors cobra returns.
func isUsageError(msg string) bool {
	for _, prefix := range []string{
		"unknown flag",
		"unknown shorthand flag",
		"unknown command",
		"accepts ",
		"requires at least",
		"required flag",
		"invalid argument",
		"missing required argument",
	} {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}
