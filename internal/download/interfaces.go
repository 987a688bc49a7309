package download

import (
	"github.com/amget/am-downloader/internal/config"
	"github.com/amget/am-downloader/internal/model"
)

// Downloader defines the interface for the download service.
type Downloader interface {
	SetUpdateCallback(func(*model.DownloadTask))
	AddTask(url string) (*model.DownloadTask, error)
	GetTask(id string) (*model.DownloadTask, bool)
	GetAllTasks() []*model.DownloadTask
	StopTask(id string) error

	// SetQualityPreset configures quality selection for downloads
	SetQualityPreset(preset config.QualityPreset)

	// SetMaxParallelDownloads sets the maximum number of parallel downloads
	SetMaxParallelDownloads(max int)

	// SetDownloadDirectory sets the download directory
	SetDownloadDirectory(dir string)
}

var _ Downloader = (*Service)(nil)
