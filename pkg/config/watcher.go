// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports changes to a set of files. Events are debounced so that
// an editor writing a file in several steps yields one notification.
//
// Parent directories are watched rather than the files themselves, so
// files replaced through rename are still tracked.
type Watcher struct {
	mu        sync.RWMutex
	paths     map[string]struct{}
	debounce  time.Duration
	listeners []func(path string)
	logger    *slog.Logger

	fs      *fsnotify.Watcher
	started bool
	stopCh  chan struct{}
	doneCh  chan struct{}
	once    sync.Once
}

// WatcherOption configures the watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the quiet period after the last event before listeners
// are notified.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatchLogger sets the logger for the watcher.
func WithWatchLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWatcher creates a watcher for paths. Call Start to begin delivering
// notifications and Stop to release the underlying file descriptors.
func NewWatcher(paths []string, opts ...WatcherOption) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, errors.New("watcher requires at least one path")
	}
	w := &Watcher{
		paths:    make(map[string]struct{}, len(paths)),
		debounce: 100 * time.Millisecond,
		logger:   slog.Default(),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, err
		}
		w.paths[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	w.fs = fsw
	return w, nil
}

// OnChange registers a callback invoked with the path that changed.
func (w *Watcher) OnChange(fn func(path string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.listeners = append(w.listeners, fn)
}

// Start begins watching until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return
	}
	w.started = true
	go w.watch(ctx)
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.once.Do(func() {
		close(w.stopCh)
		w.mu.RLock()
		started := w.started
		w.mu.RUnlock()
		if started {
			<-w.doneCh
		}
		w.fs.Close()
	})
}

func (w *Watcher) watch(ctx context.Context) {
	defer close(w.doneCh)

	pending := make(map[string]struct{})
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			name, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if _, watched := w.paths[name]; !watched {
				continue
			}
			pending[name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
		case <-timerC:
			timer = nil
			timerC = nil
			for name := range pending {
				w.notify(name)
			}
			pending = make(map[string]struct{})
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config.watch.error", slog.String("error", err.Error()))
		}
	}
}

func (w *Watcher) notify(path string) {
	w.mu.RLock()
	listeners := make([]func(string), len(w.listeners))
	copy(listeners, w.listeners)
	w.mu.RUnlock()
	for _, fn := range listeners {
		fn(path)
	}
}

// ConfigWatcher reloads configuration whenever one of its files changes.
type ConfigWatcher struct {
	mu        sync.RWMutex
	watcher   *Watcher
	path      string
	profile   string
	config    *Config
	listeners []func(*Config)
	logger    *slog.Logger
}

// NewConfigWatcher loads the configuration at path (plus the profile
// overlay, if any) and prepares to reload it on change.
func NewConfigWatcher(path, profile string, opts ...WatcherOption) (*ConfigWatcher, error) {
	cfg, err := LoadWithProfile(path, profile)
	if err != nil {
		return nil, err
	}
	paths := []string{path}
	if overlay := profileConfigPath(path, profile); overlay != "" {
		paths = append(paths, overlay)
	}
	w, err := NewWatcher(paths, opts...)
	if err != nil {
		return nil, err
	}
	cw := &ConfigWatcher{
		watcher: w,
		path:    path,
		profile: profile,
		config:  cfg,
		logger:  w.logger,
	}
	w.OnChange(cw.reload)
	return cw, nil
}

// OnChange registers a callback invoked with every successfully reloaded
// configuration.
func (c *ConfigWatcher) OnChange(fn func(*Config)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Config returns the current configuration.
func (c *ConfigWatcher) Config() *Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

// Start begins watching.
func (c *ConfigWatcher) Start(ctx context.Context) { c.watcher.Start(ctx) }

// Stop stops watching.
func (c *ConfigWatcher) Stop() { c.watcher.Stop() }

func (c *ConfigWatcher) reload(path string) {
	cfg, err := LoadWithProfile(c.path, c.profile)
	if err != nil {
		c.logger.Error("config.reload", slog.String("path", path), slog.String("error", err.Error()))
		return
	}

	c.mu.Lock()
	c.config = cfg
	listeners := make([]func(*Config), len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	c.logger.Info("config.reload", slog.String("path", path))
	for _, fn := range listeners {
		fn(cfg)
	}
}

// WatchConfig creates a config watcher for path and starts it.
func WatchConfig(ctx context.Context, path string, opts ...WatcherOption) (*ConfigWatcher, *Config, error) {
	cw, err := NewConfigWatcher(path, "", opts...)
	if err != nil {
		return nil, nil, err
	}
	cw.Start(ctx)
	return cw, cw.Config(), nil
}

// ReloadableConfig is a thread-safe holder for a Config that can be
// swapped atomically.
type ReloadableConfig struct {
	mu     sync.RWMutex
	config *Config
}

// NewReloadableConfig creates a new reloadable config wrapper.
func NewReloadableConfig(cfg *Config) *ReloadableConfig {
	return &ReloadableConfig{config: cfg}
}

// Get returns the current configuration.
func (r *ReloadableConfig) Get() *Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.config
}

// Update atomically replaces the configuration.
func (r *ReloadableConfig) Update(cfg *Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.config = cfg
}

// Planner returns the planner configuration.
func (r *ReloadableConfig) Planner() PlannerConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.config.Planner
}

// Log returns the log configuration.
func (r *ReloadableConfig) Log() LogConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.config.Log
}
