package installer

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/Cyclone1070/mentat/internal/digest"
	toolfs "github.com/Cyclone1070/mentat/internal/tool/service/fs"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// ExecutablePerm is the mode of installed artifacts.
const ExecutablePerm os.FileMode = 0o755

// FileSystem is the filesystem surface the installer needs.
type FileSystem interface {
	Stat(path string) (os.FileInfo, error)
	Open(path string) (io.ReadCloser, error)
	EnsureDirs(path string) error
	Remove(path string) error
	WriteStreamAtomic(path string, r io.Reader, perm os.FileMode, check func(digest string) error) (*toolfs.StreamResult, error)
}

// InstalledArtifact is a local executable produced by Install.
// Verified is true only when its bytes matched a manifest digest.
type InstalledArtifact struct {
	Path     string
	Verified bool
	Digest   string
	Platform Platform
	// Fetched is false when an existing verified copy was reused.
	Fetched bool
}

// Options configures an Installer.
type Options struct {
	Dir     string
	Locator Locator
	// RequireChecksum turns a missing manifest entry into ChecksumMissingError.
	RequireChecksum bool
	// GOOS and GOARCH default to the running process.
	GOOS   string
	GOARCH string
}

// Installer downloads, verifies and atomically places release artifacts under Dir.
type Installer struct {
	opts    Options
	fs      FileSystem
	fetcher Fetcher
	log     logrus.FieldLogger
	group   singleflight.Group
}

// New creates an Installer on the local filesystem.
func New(opts Options, fetcher Fetcher, log logrus.FieldLogger) *Installer {
	return NewWithFS(opts, toolfs.NewOSFileSystem(), fetcher, log)
}

// NewWithFS creates an Installer with a custom filesystem (for testing)
func NewWithFS(opts Options, fsys FileSystem, fetcher Fetcher, log logrus.FieldLogger) *Installer {
	if opts.GOOS == "" {
		opts.GOOS = runtime.GOOS
	}
	if opts.GOARCH == "" {
		opts.GOARCH = runtime.GOARCH
	}
	return &Installer{opts: opts, fs: fsys, fetcher: fetcher, log: log}
}

// CanonicalPath returns where name at version is installed for p.
func (i *Installer) CanonicalPath(name, version string, p Platform) (string, error) {
	v, err := CanonicalVersion(version)
	if err != nil {
		return "", err
	}
	return filepath.Join(i.opts.Dir, v, FileName(name, p)), nil
}

// Install makes name at version available at its canonical path.
//
// An existing file is reused without a fetch only when the manifest has an entry
// for it and its digest still matches. Otherwise the artifact is streamed into a
// temp file next to the canonical path while being hashed, checked against the
// manifest, and renamed into place. A mismatch removes the download and returns
// ChecksumMismatchError. A missing entry is accepted with Verified=false unless
// RequireChecksum is set.
//
// Concurrent calls for the same artifact share one install.
func (i *Installer) Install(ctx context.Context, name, version string, manifest *Manifest) (*InstalledArtifact, error) {
	p, err := Detect(i.opts.GOOS, i.opts.GOARCH)
	if err != nil {
		return nil, err
	}

	target, err := i.CanonicalPath(name, version, p)
	if err != nil {
		return nil, err
	}
	url, err := i.opts.Locator.URL(name, version, p)
	if err != nil {
		return nil, err
	}

	key := ArtifactKey(name, p)
	expected, hasExpected := manifest.Expected(key)
	if !hasExpected && i.opts.RequireChecksum {
		return nil, &ChecksumMissingError{Artifact: key}
	}

	v, err, shared := i.group.Do(target, func() (any, error) {
		return i.install(ctx, key, url, target, p, expected, hasExpected)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		i.log.WithField("artifact", key).Debug("joined in-flight install")
	}
	out := *v.(*InstalledArtifact)
	return &out, nil
}

func (i *Installer) install(ctx context.Context, key, url, target string, p Platform, expected string, hasExpected bool) (*InstalledArtifact, error) {
	log := i.log.WithFields(logrus.Fields{"artifact": key, "path": target})

	if hasExpected {
		reused, err := i.reuseExisting(log, target, expected)
		if err != nil {
			return nil, err
		}
		if reused {
			log.Debug("existing artifact matches manifest, skipping download")
			return &InstalledArtifact{Path: target, Verified: true, Digest: expected, Platform: p}, nil
		}
	}

	if err := i.fs.EnsureDirs(filepath.Dir(target)); err != nil {
		return nil, err
	}

	log.WithField("url", url).Info("downloading artifact")
	body, err := i.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	check := func(actual string) error {
		if hasExpected && !digest.Equal(actual, expected) {
			return &ChecksumMismatchError{Artifact: key, Expected: expected, Actual: actual}
		}
		return nil
	}

	res, err := i.fs.WriteStreamAtomic(target, body, ExecutablePerm, check)
	if err != nil {
		var mismatch *ChecksumMismatchError
		if errors.As(err, &mismatch) {
			log.Error("downloaded artifact failed checksum verification, removed")
		}
		return nil, err
	}

	if !hasExpected {
		log.Warn("no checksum in manifest, artifact installed unverified")
	} else {
		log.Info("artifact verified and installed")
	}

	return &InstalledArtifact{
		Path:     target,
		Verified: hasExpected,
		Digest:   res.Digest,
		Platform: p,
		Fetched:  true,
	}, nil
}

// reuseExisting reports whether target already holds the expected bytes.
// A copy that does not match is removed as untrusted.
func (i *Installer) reuseExisting(log logrus.FieldLogger, target, expected string) (bool, error) {
	info, err := i.fs.Stat(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if !info.Mode().IsRegular() {
		return false, nil
	}

	f, err := i.fs.Open(target)
	if err != nil {
		return false, err
	}
	actual, _, err := digest.Reader(f)
	f.Close()
	if err != nil {
		return false, err
	}
	if digest.Equal(actual, expected) {
		return true, nil
	}

	log.Warn("existing artifact does not match manifest, re-downloading")
	if err := i.fs.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}
	return false, nil
}
