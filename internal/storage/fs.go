// Package storage is the filesystem the document store writes to. It wraps
// go-billy so the same store runs against the OS or an in-memory tree.
package storage

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

const (
	dirPerm  os.FileMode = 0o755
	filePerm os.FileMode = 0o644
)

// FS is the subset of filesystem operations the store depends on.
// Paths are slash separated and interpreted relative to the FS root.
type FS interface {
	ReadFile(name string) ([]byte, error)
	WriteFileAtomic(name string, data []byte) error
	MkdirAll(dir string) error
	// ReadDir returns directory entries sorted by name.
	ReadDir(dir string) ([]os.FileInfo, error)
	Stat(name string) (os.FileInfo, error)
	Exists(name string) (bool, error)
	Remove(name string) error
}

// BillyFS implements FS on top of a go-billy filesystem.
type BillyFS struct {
	fs billy.Filesystem
}

// New wraps an existing go-billy filesystem.
func New(fsys billy.Filesystem) *BillyFS {
	return &BillyFS{fs: fsys}
}

// NewOSFS returns an FS backed by the OS filesystem rooted at root.
// Use "/" to address absolute paths directly.
func NewOSFS(root string) *BillyFS {
	return New(osfs.New(root))
}

// NewMemFS returns an empty in-memory FS.
func NewMemFS() *BillyFS {
	return New(memfs.New())
}

// ReadFile implements FS.ReadFile.
func (b *BillyFS) ReadFile(name string) ([]byte, error) {
	data, err := util.ReadFile(b.fs, name)
	if err != nil {
		return nil, fmt.Errorf("storage: read %q: %w", name, err)
	}
	return data, nil
}

// WriteFileAtomic writes data to a temp file next to name and renames it
// into place, so readers never observe a partially written document.
func (b *BillyFS) WriteFileAtomic(name string, data []byte) error {
	dir := path.Dir(name)
	tmp, err := util.TempFile(b.fs, dir, "."+path.Base(name)+".tmp-")
	if err != nil {
		return fmt.Errorf("storage: create temp for %q: %w", name, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = b.fs.Remove(tmpName)
		return fmt.Errorf("storage: write %q: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = b.fs.Remove(tmpName)
		return fmt.Errorf("storage: close %q: %w", name, err)
	}
	if err := b.fs.Rename(tmpName, name); err != nil {
		_ = b.fs.Remove(tmpName)
		return fmt.Errorf("storage: rename into %q: %w", name, err)
	}
	return nil
}

// MkdirAll implements FS.MkdirAll.
func (b *BillyFS) MkdirAll(dir string) error {
	if err := b.fs.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("storage: mkdirall %q: %w", dir, err)
	}
	return nil
}

// ReadDir implements FS.ReadDir.
func (b *BillyFS) ReadDir(dir string) ([]os.FileInfo, error) {
	list, err := b.fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("storage: readdir %q: %w", dir, err)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list, nil
}

// Stat implements FS.Stat.
func (b *BillyFS) Stat(name string) (os.FileInfo, error) {
	info, err := b.fs.Stat(name)
	if err != nil {
		return nil, fmt.Errorf("storage: stat %q: %w", name, err)
	}
	return info, nil
}

// Exists implements FS.Exists.
func (b *BillyFS) Exists(name string) (bool, error) {
	_, err := b.fs.Stat(name)
	switch {
	case err == nil:
		return true, nil
	case IsNotExist(err):
		return false, nil
	default:
		return false, fmt.Errorf("storage: stat %q: %w", name, err)
	}
}

// Remove implements FS.Remove.
func (b *BillyFS) Remove(name string) error {
	if err := b.fs.Remove(name); err != nil {
		return fmt.Errorf("storage: remove %q: %w", name, err)
	}
	return nil
}

// IsNotExist reports whether err means the path does not exist.
func IsNotExist(err error) bool {
	return stderrors.Is(err, fs.ErrNotExist) || os.IsNotExist(err)
}

// Compile-time verification that BillyFS implements FS
var _ FS = (*BillyFS)(nil)
