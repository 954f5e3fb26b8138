package download

import (
	"context"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/2amir563/khodam-down-upload-instagram-youtube-x-facebook/internal/model"
)

// Format specs passed to the extractor when the user made no explicit choice.
const (
	// DefaultFormatSpec is the fallback when no acceptable format catalog
	// could be built.
	DefaultFormatSpec = "best[height<=720]"

	// BestFormatSpec is used for platforms without quality selection.
	BestFormatSpec = "best"

	// AudioFormatSpec is the reserved audio-only choice.
	AudioFormatSpec = "bestaudio"
)

// maxFinishedTasks caps how many finished tasks the registry keeps for the
// /status report. Older finished tasks are evicted; active tasks always stay.
const maxFinishedTasks = 20

// Service orchestrates downloads: it runs the extractor under a concurrency
// cap, registers a task per request, and enforces the size ceiling. Two
// concurrent requests for the same URL perform two independent downloads;
// there is no request coalescing.
type Service struct {
	extractor  Extractor
	maxBytes   int64
	log        *logrus.Logger
	semaphore  chan struct{}
	tasks      map[string]*model.DownloadTask
	tasksMutex sync.RWMutex
}

// NewService creates a download service with at most maxParallel concurrent
// extractor runs.
func NewService(extractor Extractor, maxBytes int64, maxParallel int, log *logrus.Logger) *Service {
	if maxParallel < 1 {
		maxParallel = 1
	}
	return &Service{
		extractor: extractor,
		maxBytes:  maxBytes,
		log:       log,
		semaphore: make(chan struct{}, maxParallel),
		tasks:     make(map[string]*model.DownloadTask),
	}
}

// ListFormats proxies to the extractor.
func (s *Service) ListFormats(ctx context.Context, url string) ([]model.FormatInfo, error) {
	formats, err := s.extractor.ListFormats(ctx, url)
	if err != nil {
		return nil, &Error{Reason: err.Error(), Err: err}
	}
	return formats, nil
}

// Download retrieves url with the given format spec. It blocks while all
// download slots are busy, fails with *Error on any extractor problem, and
// with *FileTooLargeError (after deleting the file) when the result exceeds
// the size ceiling.
func (s *Service) Download(ctx context.Context, url, formatSpec string) (*model.DownloadResult, error) {
	task := s.registerTask(url, formatSpec)

	select {
	case s.semaphore <- struct{}{}:
	case <-ctx.Done():
		err := ctx.Err()
		s.finishTask(task, nil, err)
		return nil, &Error{Reason: "cancelled waiting for a download slot", Err: err}
	}
	defer func() { <-s.semaphore }()

	s.markDownloading(task)

	result, err := s.extractor.Download(ctx, url, formatSpec)
	if err != nil {
		s.finishTask(task, nil, err)
		return nil, &Error{Reason: err.Error(), Err: err}
	}

	if err := s.enforceSizeLimit(result); err != nil {
		s.finishTask(task, nil, err)
		return nil, err
	}

	s.finishTask(task, result, nil)
	return result, nil
}

// enforceSizeLimit deletes the file and fails when it exceeds the ceiling, so
// an oversized file never reaches the delivery dispatcher.
func (s *Service) enforceSizeLimit(result *model.DownloadResult) error {
	if result.SizeBytes <= s.maxBytes {
		return nil
	}
	if err := os.Remove(result.FilePath); err != nil && !os.IsNotExist(err) {
		s.log.WithField("file", result.FilePath).WithError(err).Warn("failed to delete oversized file")
	}
	return &FileTooLargeError{Actual: result.SizeBytes, Max: s.maxBytes}
}

func (s *Service) registerTask(url, formatSpec string) *model.DownloadTask {
	task := &model.DownloadTask{
		ID:         uuid.NewString(),
		URL:        url,
		FormatSpec: formatSpec,
		Status:     model.TaskStatusPending,
		StartedAt:  time.Now(),
	}

	s.tasksMutex.Lock()
	s.tasks[task.ID] = task
	s.tasksMutex.Unlock()

	s.log.WithFields(logrus.Fields{
		"task":   task.ID,
		"url":    url,
		"format": formatSpec,
	}).Info("download queued")
	return task
}

func (s *Service) markDownloading(task *model.DownloadTask) {
	s.tasksMutex.Lock()
	task.Status = model.TaskStatusDownloading
	s.tasksMutex.Unlock()

	s.log.WithField("task", task.ID).Info("download started")
}

func (s *Service) finishTask(task *model.DownloadTask, result *model.DownloadResult, err error) {
	s.tasksMutex.Lock()
	if err != nil {
		task.Status = model.TaskStatusError
		task.LastError = err.Error()
	} else {
		task.Status = model.TaskStatusCompleted
		task.OutputPath = result.FilePath
		task.Title = result.Title
		task.FileSize = result.SizeBytes
	}
	task.FinishedAt = time.Now()
	s.evictFinishedLocked()
	s.tasksMutex.Unlock()

	if err != nil {
		s.log.WithField("task", task.ID).WithError(err).Warn("download failed")
		return
	}
	s.log.WithFields(logrus.Fields{
		"task": task.ID,
		"file": result.FilePath,
		"size": result.SizeBytes,
	}).Info("download completed")
}

// evictFinishedLocked drops the oldest finished tasks once more than
// maxFinishedTasks have accumulated, so the registry stays bounded over a
// long-running process. Caller holds tasksMutex.
func (s *Service) evictFinishedLocked() {
	finished := make([]*model.DownloadTask, 0, len(s.tasks))
	for _, task := range s.tasks {
		if task.Status.IsFinished() {
			finished = append(finished, task)
		}
	}
	if len(finished) <= maxFinishedTasks {
		return
	}

	sort.Slice(finished, func(i, j int) bool {
		return finished[i].FinishedAt.Before(finished[j].FinishedAt)
	})
	for _, task := range finished[:len(finished)-maxFinishedTasks] {
		delete(s.tasks, task.ID)
	}
}

// ActiveCount returns the number of downloads currently in flight.
func (s *Service) ActiveCount() int {
	return len(s.semaphore)
}

// Tasks returns a snapshot of the registry, newest first: every active task
// plus up to maxFinishedTasks finished ones.
func (s *Service) Tasks() []model.DownloadTask {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()

	tasks := make([]model.DownloadTask, 0, len(s.tasks))
	for _, task := range s.tasks {
		tasks = append(tasks, *task)
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].StartedAt.After(tasks[j].StartedAt)
	})
	return tasks
}
