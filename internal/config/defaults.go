package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

// Bootstrap holds the options for fetching and launching the assistant binary.
// Defaults are set in DefaultBootstrap() and overridden by command-line flags.
type Bootstrap struct {
	// Artifact
	ArtifactName string // Default: "mentat"
	Version      string // Default: DefaultVersion
	ReleaseHost  string // Default: "https://github.com"
	Repo         string // Default: "mentat-dev/mentat"

	// Install
	InstallDir      string // Default: "" (resolved by the caller, usually the user cache dir)
	ManifestPath    string // Default: "" (InstallDir/checksums.json)
	RequireChecksum bool   // Default: false (missing checksum only warns)

	// Download
	DownloadTimeout time.Duration // Default: 5m

	// Launch
	WaitTimeout  time.Duration // Default: 30s
	PollInterval time.Duration // Default: 250ms
}

// ToolsConfig holds limits for the workspace file tools.
type ToolsConfig struct {
	MaxFileSize int64 // Default: 20 * 1024 * 1024 (20MB)
}

// DefaultTools returns the default tool limits.
func DefaultTools() *ToolsConfig {
	return &ToolsConfig{MaxFileSize: 20 * 1024 * 1024}
}

// Validate checks tool limits.
func (c *ToolsConfig) Validate() error {
	var errs []string

	if c.MaxFileSize < 1 {
		errs = append(errs, "tools.max_file_size must be >= 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("tools validation failed: %v", errs)
	}
	return nil
}

// DefaultVersion is the release fetched when no version is given.
const DefaultVersion = "0.1.0"

// ManifestFile is the checksum manifest file name inside the install directory.
const ManifestFile = "checksums.json"

// DefaultBootstrap returns the default bootstrap options.
func DefaultBootstrap() *Bootstrap {
	return &Bootstrap{
		ArtifactName:    ConfigDir,
		Version:         DefaultVersion,
		ReleaseHost:     "https://github.com",
		Repo:            "mentat-dev/mentat",
		DownloadTimeout: 5 * time.Minute,
		WaitTimeout:     30 * time.Second,
		PollInterval:    250 * time.Millisecond,
	}
}

// Manifest returns the manifest location, defaulting to ManifestFile inside InstallDir.
func (b *Bootstrap) Manifest() string {
	if b.ManifestPath != "" {
		return b.ManifestPath
	}
	return filepath.Join(b.InstallDir, ManifestFile)
}

// Validate checks bootstrap values for correctness.
// Returns an error listing every problem found.
func (b *Bootstrap) Validate() error {
	var errs []string

	// Artifact
	if b.ArtifactName == "" {
		errs = append(errs, "artifact name is required")
	} else if strings.ContainsAny(b.ArtifactName, `/\`) || b.ArtifactName == "." || b.ArtifactName == ".." {
		errs = append(errs, "artifact name must be a plain file name")
	}
	if _, err := semver.NewVersion(b.Version); err != nil {
		errs = append(errs, "version must be a semantic version")
	}
	if !isHTTPURL(b.ReleaseHost) {
		errs = append(errs, "release host must be an http(s) URL")
	}
	if strings.Count(strings.Trim(b.Repo, "/"), "/") != 1 {
		errs = append(errs, "repo must be owner/name")
	}

	// Install
	if b.InstallDir == "" {
		errs = append(errs, "install dir is required")
	}

	// Timing
	if b.DownloadTimeout <= 0 {
		errs = append(errs, "download timeout must be > 0")
	}
	if b.WaitTimeout <= 0 {
		errs = append(errs, "wait timeout must be > 0")
	}
	if b.PollInterval <= 0 {
		errs = append(errs, "poll interval must be > 0")
	}
	if b.PollInterval > b.WaitTimeout {
		errs = append(errs, "poll interval must be <= wait timeout")
	}

	if len(errs) > 0 {
		return fmt.Errorf("bootstrap validation failed: %v", errs)
	}

	return nil
}
