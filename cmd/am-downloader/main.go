package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/amget/am-downloader/internal/config"
	"github.com/amget/am-downloader/internal/cookies"
	"github.com/amget/am-downloader/internal/download"
	"github.com/amget/am-downloader/internal/model"
	"github.com/amget/am-downloader/internal/platform"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppName = "AM Downloader"

	// ContentURL is the single catalog item this demo fetches. Update it to
	// target a different song or music video.
	ContentURL = "https://music.apple.com/us/album/never-gonna-give-you-up-2022-remaster/1624945511?i=1624945512"
)

func main() {
	fmt.Printf("%s v%s starting...\n", AppName, version)

	settings, err := config.Load(config.DefaultSettingsFile)
	if err != nil {
		color.Red("%v", err)
		os.Exit(1)
	}

	// The cookies file must exist before any session or download machinery
	// is constructed.
	cookiesPath, err := cookies.Resolve(settings.CookiesFile)
	if err != nil {
		color.Red("%v", err)
		os.Exit(1)
	}
	fmt.Printf("Using cookies file: %s\n", cookiesPath)

	if err := platform.CreateDirectoryIfNotExists(settings.DownloadDir); err != nil {
		color.Red("failed to ensure download dir: %v", err)
		os.Exit(1)
	}

	downloadSvc := download.NewService(settings.DownloadDir, cookiesPath, settings.MaxParallelDownloads)
	downloadSvc.SetQualityPreset(settings.QualityPreset)

	task, err := downloadOne(downloadSvc, ContentURL)
	if err != nil {
		color.Red("%v", err)
		os.Exit(1)
	}

	if task.OutputPath != "" {
		color.Green("Downloaded %s to %s", task.GetDisplayTitle(), task.OutputPath)
	} else {
		color.Green("Downloaded %s", task.GetDisplayTitle())
	}
}

// downloadOne enqueues a single catalog URL and blocks until its task reaches
// a terminal state.
func downloadOne(dl download.Downloader, url string) (*model.DownloadTask, error) {
	done := make(chan *model.DownloadTask, 1)
	dl.SetUpdateCallback(func(task *model.DownloadTask) {
		if task.Status.IsFinished() {
			select {
			case done <- task:
			default:
			}
		}
	})

	task, err := dl.AddTask(url)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Downloading %s (task %s)\n", url, task.ID)

	finished := <-done
	switch finished.Status {
	case model.TaskStatusCompleted:
		return finished, nil
	case model.TaskStatusStopped:
		return nil, fmt.Errorf("download stopped before completion")
	default:
		return nil, fmt.Errorf("download failed: %s", finished.LastError)
	}
}
