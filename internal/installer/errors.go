package installer

import (
	"errors"
	"fmt"
)

// PlatformUnsupportedError is returned for an OS/architecture pair with no release.
type PlatformUnsupportedError struct {
	GOOS   string
	GOARCH string
}

func (e *PlatformUnsupportedError) Error() string {
	return fmt.Sprintf("unsupported platform: %s/%s", e.GOOS, e.GOARCH)
}
func (e *PlatformUnsupportedError) Unwrap() error { return ErrPlatformUnsupported }

// InvalidVersionError is returned when a release version is not a semantic version.
type InvalidVersionError struct {
	Version string
}

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("invalid release version %q", e.Version)
}
func (e *InvalidVersionError) Unwrap() error { return ErrInvalidVersion }

// ChecksumMismatchError is returned when downloaded bytes do not match the manifest.
// The downloaded file has already been removed when this is returned.
type ChecksumMismatchError struct {
	Artifact string
	Expected string
	Actual   string
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch for %s: expected %s, got %s", e.Artifact, e.Expected, e.Actual)
}
func (e *ChecksumMismatchError) Unwrap() error { return ErrChecksumMismatch }

// ChecksumMissingError is returned in strict mode when the manifest has no entry.
type ChecksumMissingError struct {
	Artifact string
}

func (e *ChecksumMissingError) Error() string {
	return fmt.Sprintf("no checksum for %s and checksums are required", e.Artifact)
}
func (e *ChecksumMissingError) Unwrap() error { return ErrChecksumMissing }

// ManifestError is returned for a manifest file that exists but cannot be used.
type ManifestError struct {
	Path   string
	Reason string
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("invalid checksum manifest %s: %s", e.Path, e.Reason)
}
func (e *ManifestError) Unwrap() error { return ErrManifest }

// DownloadError is returned when the artifact cannot be fetched.
type DownloadError struct {
	URL        string
	StatusCode int
	Cause      error
}

func (e *DownloadError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("download %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("download %s: %v", e.URL, e.Cause)
}
func (e *DownloadError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrDownload}
	}
	return []error{ErrDownload, e.Cause}
}

var (
	ErrPlatformUnsupported = errors.New("platform unsupported")
	ErrInvalidVersion      = errors.New("invalid version")
	ErrChecksumMismatch    = errors.New("checksum mismatch")
	ErrChecksumMissing     = errors.New("checksum missing")
	ErrManifest            = errors.New("invalid manifest")
	ErrDownload            = errors.New("download failed")
)
