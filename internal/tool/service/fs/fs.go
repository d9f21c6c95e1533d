package fs

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Cyclone1070/mentat/internal/digest"
)

// writeSyncCloser defines the minimal interface for a writable file handle.
type writeSyncCloser interface {
	io.Writer
	Sync() error
	Close() error
	Name() string
}

// OSFileSystem implements filesystem operations using the local OS filesystem primitives.
// The syscall wrappers are fields so tests can fail individual steps.
type OSFileSystem struct {
	createTemp func(dir, pattern string) (writeSyncCloser, error)
	rename     func(oldpath, newpath string) error
	chmod      func(name string, mode os.FileMode) error
	remove     func(name string) error
}

// NewOSFileSystem creates a new OSFileSystem with real OS syscalls.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{
		createTemp: func(dir, pattern string) (writeSyncCloser, error) {
			return os.CreateTemp(dir, pattern)
		},
		rename: os.Rename,
		chmod:  os.Chmod,
		remove: os.Remove,
	}
}

// StreamResult describes content placed by WriteStreamAtomic.
type StreamResult struct {
	Digest string
	Size   int64
}

// Stat returns file info for a path (follows symlinks).
func (fs *OSFileSystem) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

// Lstat returns file info for a path without following symlinks.
func (fs *OSFileSystem) Lstat(path string) (os.FileInfo, error) {
	return os.Lstat(path)
}

// Readlink reads the target of a symlink.
func (fs *OSFileSystem) Readlink(path string) (string, error) {
	return os.Readlink(path)
}

// Open opens a file for reading.
func (fs *OSFileSystem) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// Remove deletes a single file.
func (fs *OSFileSystem) Remove(path string) error {
	return fs.remove(path)
}

// EnsureDirs creates parent directories recursively if they don't exist.
func (fs *OSFileSystem) EnsureDirs(path string) error {
	return os.MkdirAll(path, 0o755)
}

// ReadFileRange reads a range of bytes from a file.
// If offset and limit are both 0, reads the entire file.
func (fs *OSFileSystem) ReadFileRange(path string, offset, limit int64) ([]byte, error) {
	if offset < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOffset, offset)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if offset == 0 && limit == 0 {
		return io.ReadAll(file)
	}

	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return nil, err
	}

	var r io.Reader = file
	if limit > 0 {
		r = io.LimitReader(file, limit)
	}
	return io.ReadAll(r)
}

// WriteFileAtomic writes content to a file atomically using temp file + rename pattern.
func (fs *OSFileSystem) WriteFileAtomic(path string, content []byte, perm os.FileMode) error {
	_, err := fs.WriteStreamAtomic(path, bytes.NewReader(content), perm, nil)
	return err
}

// WriteStreamAtomic copies r into a temp file next to path while hashing it, then
// renames the temp file over path. If check is non-nil it receives the digest after
// the data is durable and before the rename; a non-nil result aborts the write and
// the temp file is removed. Readers of path only ever see the previous file or the
// complete, checked new one.
func (fs *OSFileSystem) WriteStreamAtomic(path string, r io.Reader, perm os.FileMode, check func(digest string) error) (*StreamResult, error) {
	dir := filepath.Dir(path)

	tmpFile, err := fs.createTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return nil, &AtomicWriteError{Stage: StageCreate, Path: path, Cause: err}
	}

	tmpPath := tmpFile.Name()
	needsCleanup := true

	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
		}
		if needsCleanup {
			_ = fs.remove(tmpPath)
		}
	}()

	hasher := digest.NewHasher()
	if _, err := io.Copy(io.MultiWriter(tmpFile, hasher), r); err != nil {
		return nil, &AtomicWriteError{Stage: StageWrite, Path: path, Cause: err}
	}

	if err := tmpFile.Sync(); err != nil {
		return nil, &AtomicWriteError{Stage: StageSync, Path: path, Cause: err}
	}

	// Close before rename (required on some systems)
	err = tmpFile.Close()
	tmpFile = nil
	if err != nil {
		return nil, &AtomicWriteError{Stage: StageClose, Path: path, Cause: err}
	}

	result := &StreamResult{Digest: hasher.Sum(), Size: hasher.Written()}
	if check != nil {
		if err := check(result.Digest); err != nil {
			return nil, err
		}
	}

	if err := fs.chmod(tmpPath, perm); err != nil {
		return nil, &AtomicWriteError{Stage: StageChmod, Path: path, Cause: err}
	}

	if err := fs.rename(tmpPath, path); err != nil {
		return nil, &AtomicWriteError{Stage: StageRename, Path: path, Cause: err}
	}
	needsCleanup = false

	return result, nil
}
