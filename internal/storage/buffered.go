package storage

import (
	"context"
	"errors"
	"path"
	"sort"
	"sync"

	"golang.org/x/tools/txtar"
)

var _ Adapter = (*Buffered)(nil)

// ChangeType classifies one entry of a change list.
type ChangeType string

const (
	ChangeCreate ChangeType = "CREATE"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
	ChangeMkdir  ChangeType = "MKDIR"
)

// Change is one recorded operation.
type Change struct {
	Type      ChangeType
	Path      string
	Content   string
	Recursive bool
}

// Buffered records writes in memory and reads through to an optional base
// adapter. Nothing reaches real storage until Flush.
//
// Buffered is safe for concurrent use.
type Buffered struct {
	mu      sync.RWMutex
	root    string
	base    Adapter
	files   map[string]string
	dirs    map[string]struct{}
	removed []string
	log     []Change
}

// NewBuffered returns an empty change list. base may be nil, in which case
// the workspace starts out empty.
func NewBuffered(root string, base Adapter) *Buffered {
	b := &Buffered{root: root, base: base}
	b.reset()
	return b
}

func (b *Buffered) reset() {
	b.files = make(map[string]string)
	b.dirs = make(map[string]struct{})
	b.removed = nil
	b.log = nil
}

func (b *Buffered) WorkspaceRoot() string { return b.root }
func (b *Buffered) Mode() Mode            { return ModeBuffered }

func (b *Buffered) WriteFile(p, content string) error {
	rel, err := Clean(p)
	if err != nil || rel == "." {
		if err == nil {
			err = errors.New("cannot write to the workspace root")
		}
		return &WriteError{Op: "write", Path: p, Cause: err}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkParentsLocked(rel); err != nil {
		return err
	}
	if b.isDirLocked(rel) {
		return &WriteError{Op: "write", Path: rel, Cause: errors.New("path is a directory")}
	}
	existed, err := b.existsLocked(rel)
	if err != nil {
		return &WriteError{Op: "write", Path: rel, Cause: err}
	}
	kind := ChangeCreate
	if existed {
		kind = ChangeUpdate
	}
	b.files[rel] = content
	b.addParentsLocked(rel)
	b.log = append(b.log, Change{Type: kind, Path: rel, Content: content})
	return nil
}

func (b *Buffered) ReadFile(p string) (string, error) {
	rel, err := Clean(p)
	if err != nil {
		return "", &ReadError{Op: "read", Path: p, Cause: err}
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if content, ok := b.files[rel]; ok {
		return content, nil
	}
	if _, isDir := b.dirs[rel]; isDir {
		return "", &ReadError{Op: "read", Path: rel, Cause: errors.New("path is a directory")}
	}
	if b.base == nil || b.hiddenLocked(rel) {
		return "", &NotFoundError{Op: "read", Path: rel}
	}
	return b.base.ReadFile(rel)
}

func (b *Buffered) Exists(p string) (bool, error) {
	rel, err := Clean(p)
	if err != nil {
		return false, &ReadError{Op: "stat", Path: p, Cause: err}
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.existsLocked(rel)
}

func (b *Buffered) existsLocked(rel string) (bool, error) {
	if rel == "." {
		return true, nil
	}
	if _, ok := b.files[rel]; ok {
		return true, nil
	}
	if _, ok := b.dirs[rel]; ok {
		return true, nil
	}
	if b.base == nil || b.hiddenLocked(rel) {
		return false, nil
	}
	return b.base.Exists(rel)
}

// hiddenLocked reports whether rel lies below a path removed in this buffer.
func (b *Buffered) hiddenLocked(rel string) bool {
	for _, r := range b.removed {
		if within(rel, r) {
			return true
		}
	}
	return false
}

// isFileLocked reports whether rel is a pending file or a file of the base.
func (b *Buffered) isFileLocked(rel string) bool {
	if _, ok := b.files[rel]; ok {
		return true
	}
	if _, ok := b.dirs[rel]; ok || rel == "." || b.base == nil || b.hiddenLocked(rel) {
		return false
	}
	_, err := b.base.ReadFile(rel)
	return err == nil
}

// isDirLocked reports whether rel is a pending directory or a directory of
// the base.
func (b *Buffered) isDirLocked(rel string) bool {
	if _, ok := b.dirs[rel]; ok || rel == "." {
		return true
	}
	if _, ok := b.files[rel]; ok || b.base == nil || b.hiddenLocked(rel) {
		return false
	}
	_, err := b.base.ListDirectory(rel)
	return err == nil
}

// checkParentsLocked fails when an ancestor of rel is a file.
func (b *Buffered) checkParentsLocked(rel string) error {
	for dir := path.Dir(rel); dir != "."; dir = path.Dir(dir) {
		if _, ok := b.dirs[dir]; ok {
			// Every ancestor of a pending directory is one too.
			return nil
		}
		if b.isFileLocked(dir) {
			return &DirectoryCreationError{Path: dir, Cause: errors.New("path is a file")}
		}
	}
	return nil
}

func (b *Buffered) addParentsLocked(rel string) {
	for dir := path.Dir(rel); dir != "."; dir = path.Dir(dir) {
		b.dirs[dir] = struct{}{}
	}
}

func (b *Buffered) MakeDirectory(p string) error {
	rel, err := Clean(p)
	if err != nil {
		return &DirectoryCreationError{Path: p, Cause: err}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.isFileLocked(rel) {
		return &DirectoryCreationError{Path: rel, Cause: errors.New("path is a file")}
	}
	if err := b.checkParentsLocked(rel); err != nil {
		return err
	}
	exists, err := b.existsLocked(rel)
	if err != nil {
		return &DirectoryCreationError{Path: rel, Cause: err}
	}
	if exists {
		return nil
	}
	b.dirs[rel] = struct{}{}
	b.addParentsLocked(rel)
	b.log = append(b.log, Change{Type: ChangeMkdir, Path: rel})
	return nil
}

func (b *Buffered) ListDirectory(p string) ([]string, error) {
	rel, err := Clean(p)
	if err != nil {
		return nil, &ReadError{Op: "list", Path: p, Cause: err}
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.listLocked(rel)
}

func (b *Buffered) listLocked(rel string) ([]string, error) {
	seen := make(map[string]struct{})
	found := rel == "."
	if _, ok := b.dirs[rel]; ok {
		found = true
	}

	if b.base != nil && !b.hiddenLocked(rel) {
		names, err := b.base.ListDirectory(rel)
		switch {
		case err == nil:
			found = true
			for _, name := range names {
				if !b.hiddenLocked(path.Join(rel, name)) {
					seen[name] = struct{}{}
				}
			}
		case !IsNotFound(err):
			return nil, err
		}
	}

	collect := func(p string) {
		if path.Dir(p) == rel {
			seen[path.Base(p)] = struct{}{}
		}
	}
	for p := range b.files {
		collect(p)
	}
	for p := range b.dirs {
		collect(p)
	}

	if !found && len(seen) == 0 {
		return nil, &NotFoundError{Op: "list", Path: rel}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (b *Buffered) Remove(p string, opts RemoveOptions) error {
	rel, err := Clean(p)
	if err != nil || rel == "." {
		if err == nil {
			err = errors.New("refusing to remove the workspace root")
		}
		return &WriteError{Op: "remove", Path: p, Cause: err}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	exists, err := b.existsLocked(rel)
	if err != nil {
		return &WriteError{Op: "remove", Path: rel, Cause: err}
	}
	if !exists {
		return &NotFoundError{Op: "remove", Path: rel}
	}
	if _, isFile := b.files[rel]; !isFile && !opts.Recursive {
		if children, err := b.listLocked(rel); err == nil && len(children) > 0 {
			return &WriteError{Op: "remove", Path: rel, Cause: errors.New("directory not empty")}
		}
	}

	for f := range b.files {
		if within(f, rel) {
			delete(b.files, f)
		}
	}
	for d := range b.dirs {
		if within(d, rel) {
			delete(b.dirs, d)
		}
	}
	b.removed = append(b.removed, rel)
	b.log = append(b.log, Change{Type: ChangeDelete, Path: rel, Recursive: opts.Recursive})
	return nil
}

// Changes returns the recorded operations in the order they happened.
func (b *Buffered) Changes() []Change {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Change, len(b.log))
	copy(out, b.log)
	return out
}

// Discard drops every pending change.
func (b *Buffered) Discard() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reset()
}

// Flush replays the change list onto target and clears the buffer. On
// error the buffer is left untouched so the caller can inspect or retry.
func (b *Buffered) Flush(ctx context.Context, target Adapter) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, c := range b.log {
		if err := ctx.Err(); err != nil {
			return err
		}
		var err error
		switch c.Type {
		case ChangeCreate, ChangeUpdate:
			err = target.WriteFile(c.Path, c.Content)
		case ChangeDelete:
			err = target.Remove(c.Path, RemoveOptions{Recursive: c.Recursive})
			if IsNotFound(err) {
				err = nil
			}
		case ChangeMkdir:
			err = target.MakeDirectory(c.Path)
		}
		if err != nil {
			return err
		}
	}
	b.reset()
	return nil
}

// Archive renders the pending file contents as a txtar archive sorted by
// path, so previews of concurrent runs are stable.
func (b *Buffered) Archive() []byte {
	b.mu.RLock()
	defer b.mu.RUnlock()

	paths := make([]string, 0, len(b.files))
	for p := range b.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	ar := &txtar.Archive{}
	for _, p := range paths {
		ar.Files = append(ar.Files, txtar.File{Name: p, Data: []byte(b.files[p])})
	}
	return txtar.Format(ar)
}
