package installer

import "runtime"

// Platform is the release tag for an operating system and CPU pair.
type Platform string

const (
	WinX64     Platform = "win-x64"
	LinuxX64   Platform = "linux-x64"
	MacOSX64   Platform = "macos-x64"
	MacOSArm64 Platform = "macos-arm64"
)

var platforms = map[[2]string]Platform{
	{"windows", "amd64"}: WinX64,
	{"linux", "amd64"}:   LinuxX64,
	{"darwin", "amd64"}:  MacOSX64,
	{"darwin", "arm64"}:  MacOSArm64,
}

// Detect maps GOOS/GOARCH values to a Platform.
func Detect(goos, goarch string) (Platform, error) {
	p, ok := platforms[[2]string{goos, goarch}]
	if !ok {
		return "", &PlatformUnsupportedError{GOOS: goos, GOARCH: goarch}
	}
	return p, nil
}

// Current returns the Platform of the running process.
func Current() (Platform, error) {
	return Detect(runtime.GOOS, runtime.GOARCH)
}

// ExeSuffix returns the executable file suffix for the platform.
func (p Platform) ExeSuffix() string {
	if p == WinX64 {
		return ".exe"
	}
	return ""
}
