package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"
)

// adapters returns one fresh instance of every adapter variant.
func adapters(t *testing.T) map[string]Adapter {
	t.Helper()
	dir := t.TempDir()
	return map[string]Adapter{
		"direct":   NewDirect(dir, nil),
		"buffered": NewBuffered("/workspace", nil),
	}
}

func TestAdapterContract(t *testing.T) {
	for name, a := range adapters(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("write creates parents and overwrites", func(t *testing.T) {
				require.NoError(t, a.WriteFile("libs/a/src/index.ts", "one\n"))
				require.NoError(t, a.WriteFile("libs/a/src/index.ts", "two\n"))

				got, err := a.ReadFile("libs/a/src/index.ts")
				require.NoError(t, err)
				assert.Equal(t, "two\n", got)

				ok, err := a.Exists("libs/a/src")
				require.NoError(t, err)
				assert.True(t, ok)
			})

			t.Run("read missing is not found", func(t *testing.T) {
				_, err := a.ReadFile("missing.ts")
				require.Error(t, err)
				assert.True(t, IsNotFound(err))
				assert.ErrorIs(t, err, ErrStorage)
				assert.ErrorIs(t, err, fs.ErrNotExist)
			})

			t.Run("make directory is idempotent", func(t *testing.T) {
				require.NoError(t, a.MakeDirectory("libs/b/src"))
				require.NoError(t, a.MakeDirectory("libs/b/src"))
				ok, err := a.Exists("libs/b")
				require.NoError(t, err)
				assert.True(t, ok)
			})

			t.Run("list directory is sorted", func(t *testing.T) {
				require.NoError(t, a.WriteFile("list/zeta.ts", "z"))
				require.NoError(t, a.WriteFile("list/alpha.ts", "a"))
				require.NoError(t, a.MakeDirectory("list/nested"))

				names, err := a.ListDirectory("list")
				require.NoError(t, err)
				assert.Equal(t, []string{"alpha.ts", "nested", "zeta.ts"}, names)

				_, err = a.ListDirectory("nope")
				assert.True(t, IsNotFound(err))
			})

			t.Run("remove", func(t *testing.T) {
				require.NoError(t, a.WriteFile("rm/dir/file.ts", "x"))
				err := a.Remove("rm/dir", RemoveOptions{})
				require.Error(t, err, "non-recursive remove of a non-empty directory")

				require.NoError(t, a.Remove("rm/dir", RemoveOptions{Recursive: true}))
				ok, err := a.Exists("rm/dir/file.ts")
				require.NoError(t, err)
				assert.False(t, ok)

				assert.True(t, IsNotFound(a.Remove("rm/dir", RemoveOptions{})))
			})

			t.Run("files and directories do not overlap", func(t *testing.T) {
				require.NoError(t, a.WriteFile("overlap/f", "x"))

				var derr *DirectoryCreationError
				err := a.WriteFile("overlap/f/child.ts", "y")
				require.True(t, errors.As(err, &derr), "write below a file: got %T", err)
				assert.ErrorIs(t, err, ErrStorage)

				err = a.MakeDirectory("overlap/f")
				require.True(t, errors.As(err, &derr), "mkdir over a file: got %T", err)
				err = a.MakeDirectory("overlap/f/sub")
				require.True(t, errors.As(err, &derr), "mkdir below a file: got %T", err)

				var werr *WriteError
				err = a.WriteFile("overlap", "z")
				require.True(t, errors.As(err, &werr), "write over a directory: got %T", err)

				names, err := a.ListDirectory("overlap")
				require.NoError(t, err)
				assert.Equal(t, []string{"f"}, names)
				got, err := a.ReadFile("overlap/f")
				require.NoError(t, err)
				assert.Equal(t, "x", got)
			})

			t.Run("paths outside the root are rejected", func(t *testing.T) {
				err := a.WriteFile("../escape.ts", "x")
				var werr *WriteError
				require.True(t, errors.As(err, &werr), "got %T", err)

				_, err = a.ReadFile("/etc/passwd")
				var rerr *ReadError
				require.True(t, errors.As(err, &rerr), "got %T", err)
			})
		})
	}
}

func TestModes(t *testing.T) {
	assert.Equal(t, ModeDirect, NewDirect(t.TempDir(), nil).Mode())
	assert.Equal(t, ModeBuffered, NewBuffered("", nil).Mode())
	assert.Equal(t, "/ws", NewBuffered("/ws", nil).WorkspaceRoot())
}

func TestDirect_WritesToDisk(t *testing.T) {
	dir := t.TempDir()
	d := NewDirect(dir, nil)
	require.NoError(t, d.WriteFile("a/b.ts", "content"))

	raw, err := os.ReadFile(filepath.Join(dir, "a", "b.ts"))
	require.NoError(t, err)
	assert.Equal(t, "content", string(raw))
}

func TestDirect_WriteOverDirectoryFails(t *testing.T) {
	dir := t.TempDir()
	d := NewDirect(dir, nil)
	require.NoError(t, d.MakeDirectory("taken"))

	err := d.WriteFile("taken", "x")
	var werr *WriteError
	require.True(t, errors.As(err, &werr), "got %T", err)
	assert.Equal(t, "taken", werr.Path)
	assert.NotNil(t, werr.Cause)
}

func TestBuffered_DoesNotTouchBaseUntilFlush(t *testing.T) {
	dir := t.TempDir()
	base := NewDirect(dir, nil)
	require.NoError(t, base.WriteFile("existing.json", "{}"))

	b := NewBuffered(dir, base)
	require.NoError(t, b.WriteFile("libs/x/package.json", "pkg"))
	require.NoError(t, b.WriteFile("existing.json", "{\"a\":1}"))

	_, err := os.Stat(filepath.Join(dir, "libs"))
	assert.True(t, os.IsNotExist(err), "buffered write reached disk")

	got, err := b.ReadFile("existing.json")
	require.NoError(t, err)
	assert.Equal(t, "{\"a\":1}", got)

	changes := b.Changes()
	require.Len(t, changes, 2)
	assert.Equal(t, ChangeCreate, changes[0].Type)
	assert.Equal(t, ChangeUpdate, changes[1].Type)

	require.NoError(t, b.Flush(context.Background(), base))
	assert.Empty(t, b.Changes())

	raw, err := os.ReadFile(filepath.Join(dir, "libs", "x", "package.json"))
	require.NoError(t, err)
	assert.Equal(t, "pkg", string(raw))
}

func TestBuffered_OverlapWithBase(t *testing.T) {
	dir := t.TempDir()
	base := NewDirect(dir, nil)
	require.NoError(t, base.WriteFile("file.ts", "x"))
	require.NoError(t, base.WriteFile("dir/a.ts", "a"))

	b := NewBuffered(dir, base)
	var derr *DirectoryCreationError
	err := b.WriteFile("file.ts/child.ts", "y")
	require.True(t, errors.As(err, &derr), "got %T", err)
	assert.Equal(t, "file.ts", derr.Path)

	err = b.MakeDirectory("file.ts")
	require.True(t, errors.As(err, &derr), "got %T", err)

	var werr *WriteError
	err = b.WriteFile("dir", "z")
	require.True(t, errors.As(err, &werr), "got %T", err)
	assert.Empty(t, b.Changes())

	// Removing the base file frees its path for a directory.
	require.NoError(t, b.Remove("file.ts", RemoveOptions{}))
	require.NoError(t, b.WriteFile("file.ts/child.ts", "y"))
	require.NoError(t, b.Flush(context.Background(), base))

	raw, err := os.ReadFile(filepath.Join(dir, "file.ts", "child.ts"))
	require.NoError(t, err)
	assert.Equal(t, "y", string(raw))
}

func TestBuffered_RemoveHidesBaseEntries(t *testing.T) {
	dir := t.TempDir()
	base := NewDirect(dir, nil)
	require.NoError(t, base.WriteFile("old/a.ts", "a"))
	require.NoError(t, base.WriteFile("old/b.ts", "b"))

	b := NewBuffered(dir, base)
	require.NoError(t, b.Remove("old", RemoveOptions{Recursive: true}))
	require.NoError(t, b.WriteFile("old/a.ts", "new"))

	names, err := b.ListDirectory("old")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.ts"}, names)

	ok, err := b.Exists("old/b.ts")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Flush(context.Background(), base))
	_, err = os.Stat(filepath.Join(dir, "old", "b.ts"))
	assert.True(t, os.IsNotExist(err))
	raw, err := os.ReadFile(filepath.Join(dir, "old", "a.ts"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(raw))
}

func TestBuffered_Discard(t *testing.T) {
	b := NewBuffered("", nil)
	require.NoError(t, b.WriteFile("a.ts", "a"))
	b.Discard()

	assert.Empty(t, b.Changes())
	ok, err := b.Exists("a.ts")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBuffered_FlushStopsOnCancelledContext(t *testing.T) {
	b := NewBuffered("", nil)
	require.NoError(t, b.WriteFile("a.ts", "a"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	target := NewBuffered("", nil)
	require.ErrorIs(t, b.Flush(ctx, target), context.Canceled)
	assert.Len(t, b.Changes(), 1, "buffer must survive a failed flush")
}

func TestBuffered_Archive(t *testing.T) {
	b := NewBuffered("", nil)
	require.NoError(t, b.WriteFile("b.ts", "first\n"))
	require.NoError(t, b.WriteFile("a.ts", "a\n"))
	require.NoError(t, b.WriteFile("b.ts", "second\n"))
	require.NoError(t, b.WriteFile("gone.ts", "x\n"))
	require.NoError(t, b.Remove("gone.ts", RemoveOptions{}))

	ar := txtar.Parse(b.Archive())
	require.Len(t, ar.Files, 2)
	assert.Equal(t, "a.ts", ar.Files[0].Name)
	assert.Equal(t, "b.ts", ar.Files[1].Name)
	assert.Equal(t, "second\n", string(ar.Files[1].Data))
}
