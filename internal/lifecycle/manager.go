// Package lifecycle deletes delivered and abandoned files from the download
// directory. Every tracked file gets a one-shot deletion timer; a periodic
// sweep additionally removes anything whose age exceeds its TTL, so files the
// process forgot about (crashed handler, restart) still disappear. Both paths
// may race on the same file and deletion is idempotent.
package lifecycle

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultSweepInterval is how often the background sweep scans the download
// directory.
const DefaultSweepInterval = time.Minute

// Manager owns deletion of ephemeral files in a single directory.
type Manager struct {
	dir        string
	defaultTTL time.Duration
	log        *logrus.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
	ttls   map[string]time.Duration
}

// NewManager creates a manager for dir. defaultTTL applies to files found by
// the sweep that were never explicitly tracked.
func NewManager(dir string, defaultTTL time.Duration, log *logrus.Logger) *Manager {
	return &Manager{
		dir:        dir,
		defaultTTL: defaultTTL,
		log:        log,
		timers:     make(map[string]*time.Timer),
		ttls:       make(map[string]time.Duration),
	}
}

// Track schedules path for deletion after ttl. Tracking the same path again
// resets its timer.
func (m *Manager) Track(path string, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if timer, ok := m.timers[path]; ok {
		timer.Stop()
	}
	m.ttls[path] = ttl
	m.timers[path] = time.AfterFunc(ttl, func() {
		m.expire(path)
	})
}

func (m *Manager) expire(path string) {
	m.mu.Lock()
	delete(m.timers, path)
	delete(m.ttls, path)
	m.mu.Unlock()

	m.remove(path)
}

// remove deletes the file, treating "already gone" as success.
func (m *Manager) remove(path string) bool {
	err := os.Remove(path)
	switch {
	case err == nil:
		m.log.WithField("file", filepath.Base(path)).Info("deleted temp file")
		return true
	case os.IsNotExist(err):
		return false
	default:
		// Permission errors and the like are logged, never fatal.
		m.log.WithField("file", filepath.Base(path)).WithError(err).Warn("failed to delete temp file")
		return false
	}
}

// Sweep scans the download directory once and removes every file whose age
// exceeds its TTL. Returns the number of files removed.
func (m *Manager) Sweep() int {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		m.log.WithError(err).Warn("sweep: cannot read download directory")
		return 0
	}

	now := time.Now()
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}

		path := filepath.Join(m.dir, entry.Name())
		ttl := m.ttlFor(path)
		if now.Sub(info.ModTime()) <= ttl {
			continue
		}
		if m.remove(path) {
			removed++
		}
	}

	if removed > 0 {
		m.log.WithField("count", removed).Info("sweep removed old files")
	}
	return removed
}

func (m *Manager) ttlFor(path string) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ttl, ok := m.ttls[path]; ok {
		return ttl
	}
	return m.defaultTTL
}

// Run drives the periodic sweep until the context is cancelled.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// CleanAll deletes every file in the download directory immediately and
// cancels all pending timers. Returns the number of files removed.
func (m *Manager) CleanAll() int {
	m.mu.Lock()
	for path, timer := range m.timers {
		timer.Stop()
		delete(m.timers, path)
		delete(m.ttls, path)
	}
	m.mu.Unlock()

	entries, err := os.ReadDir(m.dir)
	if err != nil {
		m.log.WithError(err).Warn("clean: cannot read download directory")
		return 0
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if m.remove(filepath.Join(m.dir, entry.Name())) {
			removed++
		}
	}
	return removed
}

// Usage reports the number of files in the download directory and their total
// size in bytes, for the /status report.
func (m *Manager) Usage() (int, int64) {
	var count int
	var total int64

	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return 0, 0
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		count++
		total += info.Size()
	}
	return count, total
}
