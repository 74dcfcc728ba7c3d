package storage

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrStorage matches every error returned from an Adapter.
var ErrStorage = errors.New("storage error")

// WriteError is returned when content cannot be written or removed.
type WriteError struct {
	Op    string
	Path  string
	Cause error
}

func (e *WriteError) Error() string { return format("write", e.Op, e.Path, e.Cause) }
func (e *WriteError) Unwrap() error { return e.Cause }

// Is reports whether target is ErrStorage.
func (e *WriteError) Is(target error) bool { return target == ErrStorage }

// ReadError is returned when content or a listing cannot be read.
type ReadError struct {
	Op    string
	Path  string
	Cause error
}

func (e *ReadError) Error() string        { return format("read", e.Op, e.Path, e.Cause) }
func (e *ReadError) Unwrap() error        { return e.Cause }
func (e *ReadError) Is(target error) bool { return target == ErrStorage }

// DirectoryCreationError is returned when a directory cannot be created.
type DirectoryCreationError struct {
	Path  string
	Cause error
}

func (e *DirectoryCreationError) Error() string {
	return format("directory", "mkdir", e.Path, e.Cause)
}
func (e *DirectoryCreationError) Unwrap() error        { return e.Cause }
func (e *DirectoryCreationError) Is(target error) bool { return target == ErrStorage }

// NotFoundError is returned when a path does not exist. It matches both
// ErrStorage and fs.ErrNotExist.
type NotFoundError struct {
	Op   string
	Path string
}

func (e *NotFoundError) Error() string { return format("not found", e.Op, e.Path, nil) }

func (e *NotFoundError) Is(target error) bool {
	return target == ErrStorage || target == fs.ErrNotExist
}

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func format(kind, op, path string, cause error) string {
	msg := fmt.Sprintf("storage %s error: %s %s", kind, op, path)
	if cause != nil {
		msg += ": " + cause.Error()
	}
	return msg
}
