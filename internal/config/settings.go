package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/amget/am-downloader/internal/platform"
)

// Quality presets for downloads
type QualityPreset string

const (
	QualityBest   QualityPreset = "best"
	QualityMedium QualityPreset = "medium"
	QualityAudio  QualityPreset = "audio"
)

// DefaultSettingsFile is looked up in the working directory; its absence is
// not an error
const DefaultSettingsFile = "am-downloader.toml"

// Default values
const (
	DefaultMaxParallel   = 2
	DefaultQualityPreset = QualityAudio

	MinParallelDownloads = 1
	MaxParallelDownloads = 10
)

// Settings holds application configuration
type Settings struct {
	DownloadDir          string        `toml:"download_directory"`
	MaxParallelDownloads int           `toml:"max_parallel_downloads"`
	QualityPreset        QualityPreset `toml:"quality_preset"`
	CookiesFile          string        `toml:"cookies_file"`
}

// DefaultSettings returns settings with all defaults applied. The download
// directory defaults to the local music library; CookiesFile is left empty so
// the cookies validator applies its own default.
func DefaultSettings() *Settings {
	downloadDir, err := platform.DefaultLibraryDir()
	if err != nil {
		downloadDir = platform.FallbackDownloadsDir
	}

	return &Settings{
		DownloadDir:          downloadDir,
		MaxParallelDownloads: DefaultMaxParallel,
		QualityPreset:        DefaultQualityPreset,
	}
}

// Load reads settings from the given TOML file. A missing file yields the
// defaults; a present but malformed file is an error.
func Load(path string) (*Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return settings, nil
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	if err := toml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}

	settings.normalize()
	return settings, nil
}

// Save writes settings to the given TOML file
func (s *Settings) Save(path string) error {
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}

// normalize clamps out-of-range values back to usable ones
func (s *Settings) normalize() {
	if s.MaxParallelDownloads < MinParallelDownloads {
		s.MaxParallelDownloads = DefaultMaxParallel
	}
	if s.MaxParallelDownloads > MaxParallelDownloads {
		s.MaxParallelDownloads = MaxParallelDownloads
	}

	switch s.QualityPreset {
	case QualityBest, QualityMedium, QualityAudio:
	default:
		s.QualityPreset = DefaultQualityPreset
	}

	if s.DownloadDir == "" {
		s.DownloadDir = DefaultSettings().DownloadDir
	}
}

// QualityPresetOptions returns the available quality preset options
func QualityPresetOptions() []QualityPreset {
	return []QualityPreset{QualityBest, QualityMedium, QualityAudio}
}
