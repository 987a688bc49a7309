package model

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// DownloadTask represents a single Apple Music download task
type DownloadTask struct {
	ID         string
	URL        string
	Status     TaskStatus
	Progress   float64   // 0.0 to 1.0
	Percent    int       // 0 to 100
	Speed      string    // human readable speed (e.g., "1.2MB/s")
	ETASec     int       // ETA in seconds, -1 if unknown
	LastError  string    // last error message if any
	OutputPath string    // path to downloaded file
	StartedAt  time.Time // when download started
	FinishedAt time.Time // when download finished
	Title      string    // track or video title
	Artist     string    // performing artist
	Album      string    // album name, empty for standalone videos
	FileSize   int64     // file size in bytes
}

// GetETAString returns ETA formatted as hh:mm:ss, or "—" if unknown
func (dt *DownloadTask) GetETAString() string {
	if dt.ETASec <= 0 {
		return "—"
	}

	hours := dt.ETASec / 3600
	minutes := (dt.ETASec % 3600) / 60
	seconds := dt.ETASec % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// GetDisplayTitle returns "Artist — Title", the output filename, or the URL,
// in order of preference
func (dt *DownloadTask) GetDisplayTitle() string {
	// First priority: track metadata (non-URL)
	if dt.Title != "" && !strings.HasPrefix(dt.Title, "http") {
		if dt.Artist != "" {
			return dt.Artist + " — " + dt.Title
		}
		return dt.Title
	}

	// Second priority: filename from OutputPath without its extension
	if dt.OutputPath != "" {
		filename := filepath.Base(dt.OutputPath)
		if ext := filepath.Ext(filename); ext != "" {
			filename = strings.TrimSuffix(filename, ext)
		}
		if filename != "" && filename != "." {
			return filename
		}
	}

	// Fallback: the catalog URL as-is
	return dt.URL
}
