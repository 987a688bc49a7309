package download

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lrstanley/go-ytdlp"

	"github.com/amget/am-downloader/internal/config"
	"github.com/amget/am-downloader/internal/model"
)

// Timing constants
const (
	ProgressUpdateInterval = 500 * time.Millisecond
	StopPollInterval       = 100 * time.Millisecond
	RetryBackoff           = 2 * time.Second
)

// Retry and naming constants
const (
	MaxRetries     = 1
	TaskIDPrefix   = "task-"
	OutputTemplate = "%(title)s.%(ext)s"
)

// Format selectors per quality preset. Songs are audio-only; music videos fall
// back to the best available stream.
const (
	FormatSelectorAudio  = "bestaudio[ext=m4a]/bestaudio/best"
	FormatSelectorMedium = "bv*[height<=720]+ba/b[height<=720]/best"
)

// Service drives Apple Music downloads through the external library
type Service struct {
	tasks       map[string]*model.DownloadTask
	tasksMutex  sync.RWMutex
	maxParallel int
	activeCount int
	downloadDir string
	cookiesPath string
	quality     config.QualityPreset

	callbackMutex sync.RWMutex
	onUpdate      func(*model.DownloadTask) // callback for task updates
}

// NewService creates a new download service. cookiesPath must be the resolved
// path of an existing Netscape cookie export; the library uses it for the
// authenticated session.
func NewService(downloadDir, cookiesPath string, maxParallel int) *Service {
	return &Service{
		tasks:       make(map[string]*model.DownloadTask),
		maxParallel: maxParallel,
		downloadDir: downloadDir,
		cookiesPath: cookiesPath,
		quality:     config.DefaultQualityPreset,
	}
}

// SetUpdateCallback sets the callback function for task updates
func (s *Service) SetUpdateCallback(callback func(*model.DownloadTask)) {
	s.callbackMutex.Lock()
	defer s.callbackMutex.Unlock()
	s.onUpdate = callback
}

// SetQualityPreset configures quality selection for downloads
func (s *Service) SetQualityPreset(preset config.QualityPreset) {
	s.quality = preset
}

// SetMaxParallelDownloads sets the maximum number of parallel downloads
func (s *Service) SetMaxParallelDownloads(max int) {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()
	if max < 1 {
		max = 1
	}
	s.maxParallel = max
}

// SetDownloadDirectory sets the download directory
func (s *Service) SetDownloadDirectory(dir string) {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()
	s.downloadDir = dir
}

// AddTask adds a new download task for a catalog URL
func (s *Service) AddTask(url string) (*model.DownloadTask, error) {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()

	// Check for duplicate URLs
	for _, task := range s.tasks {
		if task.URL == url && !task.Status.IsFinished() {
			return nil, fmt.Errorf("task already exists for URL: %s", url)
		}
	}

	task := &model.DownloadTask{
		ID:        newTaskID(),
		URL:       url,
		Status:    model.TaskStatusPending,
		Progress:  0.0,
		Percent:   0,
		ETASec:    -1,
		StartedAt: time.Now(),
	}

	s.tasks[task.ID] = task

	// Claim a download slot under the lock so a burst of adds cannot
	// exceed maxParallel
	if s.activeCount < s.maxParallel {
		s.activeCount++
		go s.startTask(task)
	}

	return task, nil
}

// GetTask returns a task by ID
func (s *Service) GetTask(id string) (*model.DownloadTask, bool) {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	task, exists := s.tasks[id]
	return task, exists
}

// GetAllTasks returns all tasks
func (s *Service) GetAllTasks() []*model.DownloadTask {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()

	tasks := make([]*model.DownloadTask, 0, len(s.tasks))
	for _, task := range s.tasks {
		tasks = append(tasks, task)
	}
	return tasks
}

// StopTask requests a running task to stop
func (s *Service) StopTask(id string) error {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()

	task, exists := s.tasks[id]
	if !exists {
		return fmt.Errorf("task not found: %s", id)
	}

	if !task.Status.IsActive() {
		return fmt.Errorf("task is not active: %s", task.Status)
	}

	// The task goroutine observes this status and cancels its context
	task.Status = model.TaskStatusStopping
	s.notifyUpdate(task)

	return nil
}

// startTask downloads a task; the caller has already claimed its slot in
// activeCount
func (s *Service) startTask(task *model.DownloadTask) {
	s.tasksMutex.Lock()
	task.Status = model.TaskStatusStarting
	s.tasksMutex.Unlock()

	s.notifyUpdate(task)

	defer func() {
		s.tasksMutex.Lock()
		s.activeCount--
		s.tasksMutex.Unlock()

		s.startNextPendingTask()
	}()

	s.tasksMutex.Lock()
	task.Status = model.TaskStatusDownloading
	s.tasksMutex.Unlock()
	s.notifyUpdate(task)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Monitor for stop requests
	go func() {
		for {
			s.tasksMutex.RLock()
			status := task.Status
			s.tasksMutex.RUnlock()

			if status == model.TaskStatusStopping {
				cancel()
				return
			}
			if status.IsFinished() {
				return
			}
			time.Sleep(StopPollInterval)
		}
	}()

	dl := s.newCommand()
	dl.ProgressFunc(ProgressUpdateInterval, func(update ytdlp.ProgressUpdate) {
		s.updateTaskProgress(task, &update)
	})

	result, err := s.downloadWithRetry(ctx, dl, task)

	s.tasksMutex.Lock()
	if err != nil {
		if ctx.Err() == context.Canceled {
			task.Status = model.TaskStatusStopped
		} else {
			task.Status = model.TaskStatusError
			task.LastError = err.Error()
		}
	} else {
		task.Status = model.TaskStatusCompleted
		task.Progress = 1.0
		task.Percent = 100

		if result != nil {
			info, err := result.GetExtractedInfo()
			if err == nil && len(info) > 0 {
				applyExtractedInfo(task, info[0])
			}
		}
	}
	task.FinishedAt = time.Now()
	s.tasksMutex.Unlock()

	s.notifyUpdate(task)
}

// newCommand builds the library invocation with the session cookies and the
// format selector for the configured quality preset
func (s *Service) newCommand() *ytdlp.Command {
	dl := ytdlp.New().
		ForceOverwrites().
		RestrictFilenames().
		Cookies(s.cookiesPath).
		Output(s.downloadDir + "/" + OutputTemplate)

	switch s.quality {
	case config.QualityAudio:
		dl = dl.Format(FormatSelectorAudio)
	case config.QualityMedium:
		dl = dl.Format(FormatSelectorMedium)
	}

	return dl
}

// downloadWithRetry attempts download with retry logic
func (s *Service) downloadWithRetry(ctx context.Context, dl *ytdlp.Command, task *model.DownloadTask) (*ytdlp.Result, error) {
	var lastErr error
	var result *ytdlp.Result

	for attempt := 0; attempt <= MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(RetryBackoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}

			log.Printf("Retrying download for task %s, attempt %d", task.ID, attempt+1)
		}

		res, err := dl.Run(ctx, task.URL)
		if err == nil {
			return res, nil
		}

		lastErr = err
		result = res // keep last result even if there was an error
		log.Printf("Download attempt %d failed for task %s: %v", attempt+1, task.ID, err)

		if ctx.Err() != nil {
			return result, ctx.Err()
		}
	}

	return result, lastErr
}

// updateTaskProgress updates task progress from library callbacks
func (s *Service) updateTaskProgress(task *model.DownloadTask, update *ytdlp.ProgressUpdate) {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()

	if update.TotalBytes > 0 {
		percent := float64(update.DownloadedBytes) / float64(update.TotalBytes) * 100
		task.Percent = int(percent)
		task.Progress = percent / 100.0
	}

	if !update.Started.IsZero() {
		elapsed := time.Since(update.Started)
		if elapsed.Seconds() > 0 {
			bytesPerSecond := float64(update.DownloadedBytes) / elapsed.Seconds()
			task.Speed = fmt.Sprintf("%.1fMB/s", bytesPerSecond/1024/1024)
		}
	}

	eta := update.ETA()
	if eta > 0 {
		task.ETASec = int(eta.Seconds())
	}

	if update.Info != nil && update.Info.Title != nil && *update.Info.Title != "" && task.Title == "" {
		task.Title = *update.Info.Title
	}

	s.notifyUpdate(task)
}

// startNextPendingTask starts the next pending task if we have capacity
func (s *Service) startNextPendingTask() {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()

	if s.activeCount >= s.maxParallel {
		return
	}

	for _, task := range s.tasks {
		if task.Status == model.TaskStatusPending {
			s.activeCount++
			go s.startTask(task)
			return
		}
	}
}

// applyExtractedInfo copies output metadata from the library's info dict onto
// a completed task
func applyExtractedInfo(task *model.DownloadTask, info *ytdlp.ExtractedInfo) {
	if info.Filename != nil {
		task.OutputPath = *info.Filename
		if stat, err := os.Stat(*info.Filename); err == nil {
			task.FileSize = stat.Size()
		}
	}
	if task.Title == "" && info.Title != nil {
		task.Title = *info.Title
	}
	if info.Artist != nil {
		task.Artist = *info.Artist
	}
	if info.Album != nil {
		task.Album = *info.Album
	}
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(task *model.DownloadTask) {
	s.callbackMutex.RLock()
	callback := s.onUpdate
	s.callbackMutex.RUnlock()

	if callback != nil {
		callback(task)
	}
}

// newTaskID generates a unique task ID
func newTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf("%s%d", TaskIDPrefix, time.Now().UnixNano())
	}
	return TaskIDPrefix + id.String()
}
