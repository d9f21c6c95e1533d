package fs

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Cyclone1070/mentat/internal/digest"
)

// mockWriteSyncCloser implements writeSyncCloser for testing
type mockWriteSyncCloser struct {
	buffer      *bytes.Buffer
	name        string
	writeErr    error
	syncErr     error
	closeErr    error
	writeCalled bool
	syncCalled  bool
	closeCalled bool
}

func newMockWriteSyncCloser(name string) *mockWriteSyncCloser {
	return &mockWriteSyncCloser{
		buffer: new(bytes.Buffer),
		name:   name,
	}
}

func (m *mockWriteSyncCloser) Write(p []byte) (n int, err error) {
	m.writeCalled = true
	if m.writeErr != nil {
		return 0, m.writeErr
	}
	return m.buffer.Write(p)
}

func (m *mockWriteSyncCloser) Sync() error {
	m.syncCalled = true
	return m.syncErr
}

func (m *mockWriteSyncCloser) Close() error {
	m.closeCalled = true
	return m.closeErr
}

func (m *mockWriteSyncCloser) Name() string {
	return m.name
}

// mockedFS wires an OSFileSystem to a single mock temp file and records side effects.
type mockedFS struct {
	*OSFileSystem
	file    *mockWriteSyncCloser
	removed []string
	renamed bool
	chmods  []string
}

func newMockedFS(file *mockWriteSyncCloser) *mockedFS {
	m := &mockedFS{OSFileSystem: NewOSFileSystem(), file: file}
	m.createTemp = func(dir, pattern string) (writeSyncCloser, error) {
		return file, nil
	}
	m.remove = func(name string) error {
		m.removed = append(m.removed, name)
		return nil
	}
	m.rename = func(oldpath, newpath string) error {
		m.renamed = true
		return nil
	}
	m.chmod = func(name string, mode os.FileMode) error {
		m.chmods = append(m.chmods, name)
		return nil
	}
	return m
}

func (m *mockedFS) cleanedUp() bool {
	for _, name := range m.removed {
		if name == m.file.name {
			return true
		}
	}
	return false
}

func assertStage(t *testing.T, err error, want Stage) {
	t.Helper()
	var awErr *AtomicWriteError
	if !errors.As(err, &awErr) {
		t.Fatalf("expected AtomicWriteError, got %v", err)
	}
	if awErr.Stage != want {
		t.Errorf("expected stage %q, got %q", want, awErr.Stage)
	}
}

func TestWriteStreamAtomic(t *testing.T) {
	t.Run("crash during createTemp - no side effects", func(t *testing.T) {
		fs := NewOSFileSystem()
		fs.createTemp = func(dir, pattern string) (writeSyncCloser, error) {
			return nil, errors.New("disk full")
		}

		err := fs.WriteFileAtomic("/test/file.txt", []byte("content"), 0o644)
		assertStage(t, err, StageCreate)
	})

	t.Run("crash during Write - temp cleaned up", func(t *testing.T) {
		mockFile := newMockWriteSyncCloser("/tmp/test-123")
		mockFile.writeErr = errors.New("write failed")
		fs := newMockedFS(mockFile)

		err := fs.WriteFileAtomic("/test/file.txt", []byte("content"), 0o644)
		assertStage(t, err, StageWrite)
		if !fs.cleanedUp() {
			t.Error("temp file should have been cleaned up")
		}
	})

	t.Run("crash during Sync - temp cleaned up", func(t *testing.T) {
		mockFile := newMockWriteSyncCloser("/tmp/test-456")
		mockFile.syncErr = errors.New("sync failed")
		fs := newMockedFS(mockFile)

		err := fs.WriteFileAtomic("/test/file.txt", []byte("content"), 0o644)
		assertStage(t, err, StageSync)
		if !fs.cleanedUp() {
			t.Error("temp file should have been cleaned up")
		}
	})

	t.Run("crash during Close - temp cleaned up", func(t *testing.T) {
		mockFile := newMockWriteSyncCloser("/tmp/test-789")
		mockFile.closeErr = errors.New("close failed")
		fs := newMockedFS(mockFile)

		err := fs.WriteFileAtomic("/test/file.txt", []byte("content"), 0o644)
		assertStage(t, err, StageClose)
		if !fs.cleanedUp() {
			t.Error("temp file should have been cleaned up")
		}
		if fs.renamed {
			t.Error("rename must not run after a failed close")
		}
	})

	t.Run("rejected by check - temp removed and never renamed", func(t *testing.T) {
		mockFile := newMockWriteSyncCloser("/tmp/test-check")
		fs := newMockedFS(mockFile)
		rejection := errors.New("digest mismatch")
		var seen string

		_, err := fs.WriteStreamAtomic("/test/bin", strings.NewReader("payload"), 0o755, func(d string) error {
			seen = d
			return rejection
		})

		if !errors.Is(err, rejection) {
			t.Fatalf("expected check error, got %v", err)
		}
		if seen != digest.Compute([]byte("payload")) {
			t.Errorf("check received wrong digest %q", seen)
		}
		if fs.renamed {
			t.Error("rename must not run when check fails")
		}
		if len(fs.chmods) != 0 {
			t.Error("chmod must not run when check fails")
		}
		if !fs.cleanedUp() {
			t.Error("temp file should have been cleaned up")
		}
	})

	t.Run("crash during Chmod - temp cleaned up", func(t *testing.T) {
		mockFile := newMockWriteSyncCloser("/tmp/test-def")
		fs := newMockedFS(mockFile)
		fs.chmod = func(name string, mode os.FileMode) error {
			return errors.New("chmod failed")
		}

		err := fs.WriteFileAtomic("/test/file.txt", []byte("content"), 0o644)
		assertStage(t, err, StageChmod)
		if fs.renamed {
			t.Error("rename must not run after a failed chmod")
		}
		if !fs.cleanedUp() {
			t.Error("temp file should have been cleaned up")
		}
	})

	t.Run("crash during Rename - temp cleaned up", func(t *testing.T) {
		mockFile := newMockWriteSyncCloser("/tmp/test-abc")
		fs := newMockedFS(mockFile)
		fs.rename = func(oldpath, newpath string) error {
			return errors.New("rename failed")
		}

		err := fs.WriteFileAtomic("/test/file.txt", []byte("content"), 0o644)
		assertStage(t, err, StageRename)
		if !fs.cleanedUp() {
			t.Error("temp file should have been cleaned up after rename failure")
		}
	})

	t.Run("successful atomic write", func(t *testing.T) {
		mockFile := newMockWriteSyncCloser("/tmp/test-success")
		fs := newMockedFS(mockFile)
		fs.rename = func(oldpath, newpath string) error {
			if oldpath != mockFile.name {
				t.Errorf("expected rename from %s, got %s", mockFile.name, oldpath)
			}
			if newpath != "/test/file.txt" {
				t.Errorf("expected rename to /test/file.txt, got %s", newpath)
			}
			fs.renamed = true
			return nil
		}

		res, err := fs.WriteStreamAtomic("/test/file.txt", strings.NewReader("content"), 0o644, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !mockFile.writeCalled || !mockFile.syncCalled || !mockFile.closeCalled {
			t.Error("write, sync and close should all have been called")
		}
		if !fs.renamed {
			t.Error("Rename should have been called")
		}
		if len(fs.chmods) != 1 || fs.chmods[0] != mockFile.name {
			t.Errorf("expected chmod on temp file before rename, got %v", fs.chmods)
		}
		if len(fs.removed) != 0 {
			t.Error("Remove should NOT have been called on success")
		}
		if mockFile.buffer.String() != "content" {
			t.Errorf("expected content to be written, got %q", mockFile.buffer.String())
		}
		if res.Size != 7 || res.Digest != digest.Compute([]byte("content")) {
			t.Errorf("unexpected result %+v", res)
		}
	})
}

func TestWriteStreamAtomic_RealFilesystem(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "tool")
	if err := os.WriteFile(target, []byte("old"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	fs := NewOSFileSystem()

	_, err := fs.WriteStreamAtomic(target, strings.NewReader("new"), 0o755, func(string) error {
		return errors.New("reject")
	})
	if err == nil {
		t.Fatal("expected rejection")
	}
	got, _ := os.ReadFile(target)
	if string(got) != "old" {
		t.Errorf("rejected write must leave the old file, got %q", got)
	}

	if _, err := fs.WriteStreamAtomic(target, strings.NewReader("new"), 0o755, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ = os.ReadFile(target)
	if string(got) != "new" {
		t.Errorf("expected new content, got %q", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected no leftover temp files, got %d entries", len(entries))
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "artifact")
	if err := os.WriteFile(path, []byte("payload"), 0o644); err != nil {
		t.Fatal(err)
	}

	fs := NewOSFileSystem()
	rc, err := fs.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer rc.Close()

	sum, n, err := digest.Reader(rc)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if n != int64(len("payload")) || !digest.Equal(sum, digest.Compute([]byte("payload"))) {
		t.Errorf("got digest %s over %d bytes", sum, n)
	}

	if _, err := fs.Open(filepath.Join(dir, "missing")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestReadFileRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	if err := os.WriteFile(path, []byte("0123456789"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	fs := NewOSFileSystem()

	tests := []struct {
		name          string
		offset, limit int64
		want          string
	}{
		{"whole file", 0, 0, "0123456789"},
		{"offset only", 4, 0, "456789"},
		{"offset and limit", 2, 3, "234"},
		{"limit past end", 8, 10, "89"},
		{"offset past end", 20, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fs.ReadFileRange(path, tt.offset, tt.limit)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}

	if _, err := fs.ReadFileRange(path, -1, 0); !errors.Is(err, ErrInvalidOffset) {
		t.Errorf("expected ErrInvalidOffset, got %v", err)
	}
}
