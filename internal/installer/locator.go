package installer

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Locator composes release download URLs:
// {host}/{repo}/releases/download/v{version}/{name}-{platform}[.exe]
type Locator struct {
	Host string
	Repo string
}

// FileName returns the release asset name for name on p.
func FileName(name string, p Platform) string {
	return ArtifactKey(name, p) + p.ExeSuffix()
}

// CanonicalVersion parses version as a semantic version and returns it without a leading "v".
func CanonicalVersion(version string) (string, error) {
	v, err := semver.NewVersion(version)
	if err != nil {
		return "", &InvalidVersionError{Version: version}
	}
	return v.String(), nil
}

// URL returns the download URL for name at version on p.
func (l Locator) URL(name, version string, p Platform) (string, error) {
	v, err := CanonicalVersion(version)
	if err != nil {
		return "", err
	}
	host := strings.TrimRight(l.Host, "/")
	repo := strings.Trim(l.Repo, "/")
	return fmt.Sprintf("%s/%s/releases/download/v%s/%s", host, repo, v, FileName(name, p)), nil
}
