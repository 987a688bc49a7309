package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Directory names
const (
	MusicDirName   = "Music"
	LibraryDirName = "Apple Music"

	FallbackDownloadsDir = "/tmp/downloads"
)

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// DefaultLibraryDir returns the default output directory for downloaded
// content, "Apple Music" under the user's Music directory
func DefaultLibraryDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, MusicDirName, LibraryDirName), nil
}
