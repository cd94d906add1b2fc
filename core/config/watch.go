package config

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events editors emit on save.
const DefaultDebounce = 200 * time.Millisecond

// Watch reloads the configuration when any config file changes. Reload
// failures are logged and keep the previous snapshot. Watching stops on
// Close.
func (m *Manager) Watch(debounce time.Duration) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	files := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, path := range m.Paths() {
		abs, err := filepath.Abs(path)
		if err != nil {
			continue
		}
		files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}

	watched := 0
	for dir := range dirs {
		// Layers whose directory does not exist yet are skipped.
		if err := watcher.Add(dir); err == nil {
			watched++
		}
	}
	m.logger.Debug("watching config", "dirs", watched)

	m.watchWG.Add(1)
	go m.watchLoop(watcher, files, debounce)
	return nil
}

func (m *Manager) watchLoop(watcher *fsnotify.Watcher, files map[string]bool, debounce time.Duration) {
	defer m.watchWG.Done()
	defer watcher.Close()

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-m.stopWatch:
			return

		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !files[filepath.Clean(ev.Name)] || ev.Op == fsnotify.Chmod {
				continue
			}
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			m.logger.Warn("config watcher error", "error", err)

		case <-timer.C:
			if err := m.Reload(); err != nil {
				m.logger.Warn("config reload failed, keeping previous config", "error", err)
				continue
			}
			m.logger.Info("config reloaded")
		}
	}
}
