package storage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/Skyenought/libstarter/pkg/logger"
)

var _ Adapter = (*Direct)(nil)

// Direct performs every operation against the filesystem immediately.
// Writes that happened before a failure stay on disk.
type Direct struct {
	root string
	log  logger.Logger
}

// NewDirect returns an adapter rooted at root. A nil log discards output.
func NewDirect(root string, log logger.Logger) *Direct {
	if log == nil {
		log = logger.Nop()
	}
	return &Direct{root: root, log: log}
}

func (d *Direct) WorkspaceRoot() string { return d.root }
func (d *Direct) Mode() Mode            { return ModeDirect }

func (d *Direct) resolve(p string) (string, string, error) {
	rel, err := Clean(p)
	if err != nil {
		return "", "", err
	}
	return rel, filepath.Join(d.root, filepath.FromSlash(rel)), nil
}

func (d *Direct) WriteFile(p, content string) error {
	rel, full, err := d.resolve(p)
	if err != nil {
		return &WriteError{Op: "write", Path: p, Cause: err}
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return &DirectoryCreationError{Path: filepath.ToSlash(filepath.Dir(rel)), Cause: err}
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		return &WriteError{Op: "write", Path: rel, Cause: err}
	}
	d.log.Debugf("wrote %s", rel)
	return nil
}

func (d *Direct) ReadFile(p string) (string, error) {
	rel, full, err := d.resolve(p)
	if err != nil {
		return "", &ReadError{Op: "read", Path: p, Cause: err}
	}
	content, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &NotFoundError{Op: "read", Path: rel}
		}
		return "", &ReadError{Op: "read", Path: rel, Cause: err}
	}
	return string(content), nil
}

func (d *Direct) Exists(p string) (bool, error) {
	rel, full, err := d.resolve(p)
	if err != nil {
		return false, &ReadError{Op: "stat", Path: p, Cause: err}
	}
	_, err = os.Stat(full)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, &ReadError{Op: "stat", Path: rel, Cause: err}
}

func (d *Direct) MakeDirectory(p string) error {
	rel, full, err := d.resolve(p)
	if err != nil {
		return &DirectoryCreationError{Path: p, Cause: err}
	}
	if info, err := os.Stat(full); err == nil && info.IsDir() {
		return nil
	}
	if err := os.MkdirAll(full, 0o755); err != nil {
		return &DirectoryCreationError{Path: rel, Cause: err}
	}
	d.log.Debugf("created directory %s", rel)
	return nil
}

func (d *Direct) ListDirectory(p string) ([]string, error) {
	rel, full, err := d.resolve(p)
	if err != nil {
		return nil, &ReadError{Op: "list", Path: p, Cause: err}
	}
	entries, err := os.ReadDir(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Op: "list", Path: rel}
		}
		return nil, &ReadError{Op: "list", Path: rel, Cause: err}
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func (d *Direct) Remove(p string, opts RemoveOptions) error {
	rel, full, err := d.resolve(p)
	if err != nil {
		return &WriteError{Op: "remove", Path: p, Cause: err}
	}
	if rel == "." {
		return &WriteError{Op: "remove", Path: rel, Cause: errors.New("refusing to remove the workspace root")}
	}
	if _, err := os.Lstat(full); errors.Is(err, fs.ErrNotExist) {
		return &NotFoundError{Op: "remove", Path: rel}
	}
	if opts.Recursive {
		err = os.RemoveAll(full)
	} else {
		err = os.Remove(full)
	}
	if err != nil {
		return &WriteError{Op: "remove", Path: rel, Cause: err}
	}
	d.log.Debugf("removed %s", rel)
	return nil
}
