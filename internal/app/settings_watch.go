package app

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	// SettingsDebounceDelay coalesces the bursts of fsnotify events that
	// editors produce when they write via rename or in several chunks.
	SettingsDebounceDelay = 500 * time.Millisecond
)

// settingsWatcher watches the settings file and invokes a callback with
// the freshly parsed settings after external edits.
type settingsWatcher struct {
	watcher  *fsnotify.Watcher
	stopChan chan struct{}
}

// watchSettingsFile starts watching the given settings file. The
// callback runs on the watcher goroutine, debounced.
func watchSettingsFile(settingsPath string, onChange func(PanelSettings)) (*settingsWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create settings watcher: %v", err)
	}

	// Watch the directory, not the file: editors replace the file by
	// rename, which silently drops a direct file watch.
	if err := watcher.Add(filepath.Dir(settingsPath)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch config directory: %v", err)
	}

	sw := &settingsWatcher{
		watcher:  watcher,
		stopChan: make(chan struct{}),
	}
	go sw.run(settingsPath, onChange)
	return sw, nil
}

func (sw *settingsWatcher) run(settingsPath string, onChange func(PanelSettings)) {
	var debounce <-chan time.Time

	for {
		select {
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(settingsPath) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			debounce = time.After(SettingsDebounceDelay)

		case <-debounce:
			debounce = nil
			settings, err := readPanelSettings(settingsPath)
			if err != nil {
				log.Printf("⚠️ Ignoring settings change: %v", err)
				continue
			}
			onChange(settings)

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("⚠️ Settings watcher error: %v", err)

		case <-sw.stopChan:
			return
		}
	}
}

// Stop shuts the watcher down. Pending debounced changes are dropped.
func (sw *settingsWatcher) Stop() {
	close(sw.stopChan)
	sw.watcher.Close()
}
