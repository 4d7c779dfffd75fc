package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher hot-reloads configuration when files change. Reloading is
// only enabled in development; in other environments the watcher is a
// passive holder for the initial configuration.
type Watcher struct {
	config    *Config
	callbacks []func(*Config)
	mu        sync.RWMutex
	logger    *zap.Logger
	watcher   *fsnotify.Watcher
	stopCh    chan struct{}
}

// NewWatcher creates a configuration watcher around the initial
// configuration.
func NewWatcher(initial *Config, logger *zap.Logger) (*Watcher, error) {
	w := &Watcher{
		config:    initial,
		callbacks: make([]func(*Config), 0),
		logger:    logger,
		stopCh:    make(chan struct{}),
	}

	if !initial.IsDevelopment() {
		logger.Info("configuration hot reload disabled",
			zap.String("environment", string(initial.Environment)),
		)
		return w, nil
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	w.watcher = fsWatcher

	if err := w.watchConfigFiles(); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch config files: %w", err)
	}

	go w.watchLoop()

	logger.Info("configuration hot reload enabled",
		zap.String("environment", string(initial.Environment)),
	)

	return w, nil
}

// watchConfigFiles registers the configuration directory and its files
// with the filesystem watcher.
func (w *Watcher) watchConfigFiles() error {
	configDir := os.Getenv("CONFIG_DIR")
	if configDir == "" {
		configDir = "configs"
	}

	err := filepath.Walk(configDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip entries we cannot access
		}

		if info.IsDir() || isConfigFile(path) {
			if addErr := w.watcher.Add(path); addErr != nil {
				w.logger.Warn("failed to watch config path",
					zap.String("path", path),
					zap.Error(addErr),
				)
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk config directory: %w", err)
	}

	return nil
}

// watchLoop consumes filesystem events and triggers debounced reloads.
func (w *Watcher) watchLoop() {
	defer w.watcher.Close()

	// Editors often produce bursts of writes for a single save.
	var debounceTimer *time.Timer
	const debounceDelay = 500 * time.Millisecond

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 && isConfigFile(event.Name) {
				w.logger.Info("configuration file changed",
					zap.String("file", event.Name),
					zap.String("operation", event.Op.String()),
				)

				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(debounceDelay, w.reload)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", zap.Error(err))

		case <-w.stopCh:
			return
		}
	}
}

// reload loads the configuration from scratch and publishes it to the
// registered callbacks if it changed.
func (w *Watcher) reload() {
	newConfig, err := LoadConfig()
	if err != nil {
		w.logger.Error("invalid configuration after reload", zap.Error(err))
		return
	}

	w.mu.Lock()
	if configsEqual(w.config, newConfig) {
		w.mu.Unlock()
		w.logger.Debug("configuration unchanged after reload")
		return
	}
	w.config = newConfig
	callbacks := make([]func(*Config), len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.Unlock()

	for i, callback := range callbacks {
		// Callbacks run in goroutines so a slow consumer cannot stall
		// the watch loop.
		go func(idx int, cb func(*Config)) {
			defer func() {
				if r := recover(); r != nil {
					w.logger.Error("config change callback panicked",
						zap.Int("callback_index", idx),
						zap.Any("panic", r),
					)
				}
			}()
			cb(newConfig)
		}(i, callback)
	}

	w.logger.Info("configuration reloaded",
		zap.Int("callbacks_notified", len(callbacks)),
	)
}

// OnChange registers a callback invoked with each new configuration.
func (w *Watcher) OnChange(callback func(*Config)) {
	w.mu.Lock()
	w.callbacks = append(w.callbacks, callback)
	w.mu.Unlock()
}

// Config returns the current configuration.
func (w *Watcher) Config() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.config
}

// Stop stops the watcher and releases the filesystem handle.
func (w *Watcher) Stop() {
	if w.watcher != nil {
		close(w.stopCh)
		w.watcher.Close()
	}
}

// configsEqual compares configurations ignoring load metadata.
func configsEqual(a, b *Config) bool {
	ac, bc := *a, *b
	ac.LoadedFrom, bc.LoadedFrom = nil, nil
	return reflect.DeepEqual(ac, bc)
}

// isConfigFile reports whether a path looks like a configuration file.
func isConfigFile(path string) bool {
	switch filepath.Ext(path) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}
