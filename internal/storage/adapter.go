// Package storage abstracts the workspace that generators write into.
//
// Two adapters satisfy the same contract: Direct touches the filesystem on
// every call, Buffered records a change list in memory until it is flushed.
// Generators only see the Adapter interface, so the same run can be
// previewed, aborted, or applied.
package storage

import (
	"errors"
	"path"
	"strings"
)

// Mode names the write strategy of an adapter.
type Mode string

const (
	ModeBuffered Mode = "buffered"
	ModeDirect   Mode = "direct"
)

// RemoveOptions controls Remove.
type RemoveOptions struct {
	// Recursive allows removing non-empty directories.
	Recursive bool
}

// Adapter is the workspace capability every generator writes through.
//
// Paths are slash separated and relative to the workspace root.
type Adapter interface {
	// WriteFile creates parent directories as needed and overwrites any
	// existing content.
	WriteFile(p, content string) error
	// ReadFile fails with *NotFoundError when p does not exist.
	ReadFile(p string) (string, error)
	Exists(p string) (bool, error)
	// MakeDirectory succeeds when the directory already exists.
	MakeDirectory(p string) error
	// ListDirectory returns entry names sorted lexically.
	ListDirectory(p string) ([]string, error)
	Remove(p string, opts RemoveOptions) error
	WorkspaceRoot() string
	Mode() Mode
}

var errOutsideRoot = errors.New("path escapes the workspace root")

// Clean normalises a workspace-relative path. The root itself is ".".
func Clean(p string) (string, error) {
	p = strings.ReplaceAll(p, "\\", "/")
	if strings.HasPrefix(p, "/") {
		return "", errOutsideRoot
	}
	cleaned := path.Clean(p)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", errOutsideRoot
	}
	return cleaned, nil
}

// within reports whether p equals dir or lies below it.
func within(p, dir string) bool {
	if dir == "." {
		return true
	}
	return p == dir || strings.HasPrefix(p, dir+"/")
}
