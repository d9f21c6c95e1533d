package path

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// maxSymlinkHops bounds link expansion during a single resolution.
const maxSymlinkHops = 64

// FileSystem defines the minimal filesystem interface needed for canonicalisation.
type FileSystem interface {
	Lstat(path string) (os.FileInfo, error)
	Readlink(path string) (string, error)
}

type osFileSystem struct{}

func (osFileSystem) Lstat(path string) (os.FileInfo, error) { return os.Lstat(path) }
func (osFileSystem) Readlink(path string) (string, error)   { return os.Readlink(path) }

// Validator confines requested paths to a single workspace root.
// The root is canonicalised once and never changes afterwards.
type Validator struct {
	workspaceRoot string
	fs            FileSystem
}

// NewValidator canonicalises workspaceRoot and returns a validator bound to it.
func NewValidator(workspaceRoot string) (*Validator, error) {
	root, err := CanonicaliseRoot(workspaceRoot)
	if err != nil {
		return nil, err
	}
	return &Validator{workspaceRoot: root, fs: osFileSystem{}}, nil
}

// NewValidatorWithFS creates a Validator over an already canonical root (for testing).
func NewValidatorWithFS(canonicalRoot string, fs FileSystem) *Validator {
	return &Validator{workspaceRoot: canonicalRoot, fs: fs}
}

// Root returns the canonical workspace root.
func (v *Validator) Root() string {
	return v.workspaceRoot
}

// CanonicaliseRoot canonicalises a workspace root path by making it absolute and resolving symlinks.
// Returns an error if the path doesn't exist or isn't a directory.
func CanonicaliseRoot(root string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", &WorkspaceRootError{Root: root, Cause: err}
	}

	resolved, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return "", &WorkspaceRootError{Root: absRoot, Cause: err}
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", &WorkspaceRootError{Root: resolved, Cause: err}
	}
	if !info.IsDir() {
		return "", &WorkspaceRootError{Root: resolved, Cause: fmt.Errorf("%w: %s", ErrNotADirectory, resolved)}
	}
	return resolved, nil
}

// Validate returns the canonical absolute form of requested if it stays inside the workspace.
// The target does not need to exist.
func (v *Validator) Validate(requested string) (string, error) {
	resolved, _, err := v.validate(requested)
	return resolved, err
}

// ValidateForRead is Validate plus a requirement that the target exists.
func (v *Validator) ValidateForRead(requested string) (string, error) {
	resolved, exists, err := v.validate(requested)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", &NotFoundError{Path: requested}
	}
	return resolved, nil
}

// ValidateForWrite validates a write destination, which may not exist yet.
func (v *Validator) ValidateForWrite(requested string) (string, error) {
	return v.Validate(requested)
}

// Confirm re-validates requested after its target has been created and checks that
// it still canonicalises to validated.
func (v *Validator) Confirm(requested, validated string) error {
	resolved, exists, err := v.validate(requested)
	if err != nil {
		return err
	}
	if !exists || resolved != validated {
		return &TraversalError{Path: requested}
	}
	return nil
}

func (v *Validator) validate(requested string) (string, bool, error) {
	if v.workspaceRoot == "" {
		return "", false, ErrWorkspaceRootNotSet
	}
	if isAbsoluteRequest(requested) {
		return "", false, &AbsolutePathError{Path: requested}
	}

	resolved, exists, err := v.canonicalise(requested)
	if err != nil {
		return "", false, err
	}

	if !isWithinWorkspace(resolved, v.workspaceRoot) {
		return "", false, &TraversalError{Path: requested}
	}
	return resolved, exists, nil
}

// canonicalise walks requested against the real filesystem starting at the root.
// ".." is applied to the already resolved parent, so a symlinked directory followed
// by ".." lands where the kernel would, not where lexical cleaning would.
// When a component is missing, the remaining literal components are appended to the
// deepest existing ancestor.
func (v *Validator) canonicalise(requested string) (string, bool, error) {
	pending := splitComponents(requested)
	current := v.workspaceRoot
	hops := 0

	for len(pending) > 0 {
		part := pending[0]
		pending = pending[1:]

		switch part {
		case ".":
			continue
		case "..":
			current = filepath.Dir(current)
			continue
		}

		next := filepath.Join(current, part)
		info, err := v.fs.Lstat(next)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return appendMissing(next, pending, requested)
			}
			return "", false, &ResolveError{Path: requested, Cause: err}
		}

		if info.Mode()&os.ModeSymlink == 0 {
			current = next
			continue
		}

		hops++
		if hops > maxSymlinkHops {
			return "", false, &SymlinkLoopError{Path: requested, MaxHops: maxSymlinkHops}
		}

		target, err := v.fs.Readlink(next)
		if err != nil {
			return "", false, &ResolveError{Path: requested, Cause: err}
		}

		// Relative targets resolve against the directory holding the link, which is current.
		if vol := filepath.VolumeName(target); filepath.IsAbs(target) {
			current = vol + string(filepath.Separator)
			target = target[len(vol):]
		}
		pending = append(splitComponents(target), pending...)
	}

	return current, true, nil
}

// appendMissing re-attaches the literal tail below a missing ancestor.
// A ".." below a missing directory cannot be canonicalised and is rejected.
func appendMissing(base string, rest []string, requested string) (string, bool, error) {
	out := base
	for _, part := range rest {
		switch part {
		case ".":
			continue
		case "..":
			return "", false, &TraversalError{Path: requested}
		}
		out = filepath.Join(out, part)
	}
	return out, false, nil
}

// splitComponents splits on the platform separator and '/', dropping empty segments.
func splitComponents(p string) []string {
	return strings.FieldsFunc(p, func(r rune) bool {
		return r == '/' || r == filepath.Separator
	})
}

// isAbsoluteRequest reports whether p is absolute, rooted, or starts with a drive or
// volume designator on any platform.
func isAbsoluteRequest(p string) bool {
	if filepath.IsAbs(p) || filepath.VolumeName(p) != "" {
		return true
	}
	if strings.HasPrefix(p, "/") || strings.HasPrefix(p, `\`) {
		return true
	}
	return len(p) >= 2 && p[1] == ':' && isASCIILetter(p[0])
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// isWithinWorkspace checks if a canonical path is the workspace root or below it.
// The separator check keeps /root from matching /root-evil.
func isWithinWorkspace(path, workspaceRoot string) bool {
	if path == workspaceRoot {
		return true
	}
	prefix := workspaceRoot
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(path, prefix)
}
