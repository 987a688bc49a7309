package cookies

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
)

// DefaultFileName is the conventional name of a Netscape-format cookie export,
// resolved against the current working directory when no explicit path is given.
const DefaultFileName = "cookies.txt"

// MissingFileError reports that no regular file exists at the resolved cookies
// path. Directories and dangling symlinks produce it the same way as absent
// paths. It unwraps to fs.ErrNotExist so callers can match it with errors.Is
// as well as errors.As.
type MissingFileError struct {
	Path string // absolute, resolved path that was checked
}

// Error returns the user-facing diagnostic with the resolved path embedded.
func (e *MissingFileError) Error() string {
	return fmt.Sprintf("Missing Apple Music cookies file at '%s'. "+
		"Create a Netscape-format cookies.txt export before running downloads.", e.Path)
}

// Unwrap makes errors.Is(err, fs.ErrNotExist) hold for MissingFileError.
func (e *MissingFileError) Unwrap() error {
	return fs.ErrNotExist
}

// Resolve normalizes cookiesPath to an absolute path and verifies a regular
// file exists there. An empty path falls back to DefaultFileName in the current
// working directory. The file itself is never opened; format validation is left
// to whatever reads the export later.
func Resolve(cookiesPath string) (string, error) {
	if cookiesPath == "" {
		cookiesPath = DefaultFileName
	}

	absPath, err := filepath.Abs(cookiesPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve cookies path: %w", err)
	}

	// EvalSymlinks fails on paths that do not exist; keep the cleaned
	// absolute form for the diagnostic in that case.
	if resolved, err := filepath.EvalSymlinks(absPath); err == nil {
		absPath = resolved
	}

	info, err := os.Stat(absPath)
	if err != nil {
		// ENOTDIR covers paths routed through a regular file, e.g.
		// cookies.txt/nested.txt; no file can exist there either.
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return "", &MissingFileError{Path: absPath}
		}
		return "", fmt.Errorf("failed to check cookies file: %w", err)
	}

	if !info.Mode().IsRegular() {
		return "", &MissingFileError{Path: absPath}
	}

	return absPath, nil
}
