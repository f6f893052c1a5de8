package renderer

import (
	"path/filepath"
	"sync"

	"Prism3D/internal/logger"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Reloadable is a program rebuilt from its source files.
type Reloadable interface {
	Reload() error
	Paths() (vertex, fragment string)
}

// ShaderWatcher marks programs dirty when one of their source files changes on disk.
// The watcher goroutine only records paths; ReloadPending does the GPU work and must
// run on the render thread.
type ShaderWatcher struct {
	watcher *fsnotify.Watcher

	mu       sync.Mutex
	programs map[string][]Reloadable
	dirs     map[string]struct{}
	pending  map[Reloadable]struct{}

	done chan struct{}
	wg   sync.WaitGroup
}

func NewShaderWatcher() (*ShaderWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	sw := &ShaderWatcher{
		watcher:  watcher,
		programs: make(map[string][]Reloadable),
		dirs:     make(map[string]struct{}),
		pending:  make(map[Reloadable]struct{}),
		done:     make(chan struct{}),
	}
	sw.wg.Add(1)
	go sw.loop()
	return sw, nil
}

// Watch registers program under both of its source paths.
func (sw *ShaderWatcher) Watch(program Reloadable) error {
	vertex, fragment := program.Paths()

	sw.mu.Lock()
	defer sw.mu.Unlock()

	var errs error
	for _, path := range []string{vertex, fragment} {
		abs, err := filepath.Abs(path)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		sw.programs[abs] = append(sw.programs[abs], program)

		dir := filepath.Dir(abs)
		if _, watched := sw.dirs[dir]; watched {
			continue
		}
		if err := sw.watcher.Add(dir); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		sw.dirs[dir] = struct{}{}
		logger.Log.Debug("Watching shader directory", zap.String("dir", dir))
	}
	return errs
}

func (sw *ShaderWatcher) loop() {
	defer sw.wg.Done()
	for {
		select {
		case <-sw.done:
			return
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				sw.markDirty(event.Name)
			}
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			logger.Log.Warn("Shader watcher error", zap.Error(err))
		}
	}
}

func (sw *ShaderWatcher) markDirty(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}

	sw.mu.Lock()
	defer sw.mu.Unlock()
	for _, program := range sw.programs[abs] {
		if _, already := sw.pending[program]; !already {
			logger.Log.Debug("Shader source changed", zap.String("path", abs))
		}
		sw.pending[program] = struct{}{}
	}
}

// Pending is the number of programs waiting for a reload.
func (sw *ShaderWatcher) Pending() int {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return len(sw.pending)
}

// ReloadPending reloads every dirty program once and reports how many it reloaded.
func (sw *ShaderWatcher) ReloadPending() (int, error) {
	sw.mu.Lock()
	dirty := sw.pending
	sw.pending = make(map[Reloadable]struct{})
	sw.mu.Unlock()

	var errs error
	for program := range dirty {
		errs = multierr.Append(errs, program.Reload())
	}
	if len(dirty) > 0 {
		logger.Log.Info("Hot reloaded shaders", zap.Int("programs", len(dirty)), zap.Error(errs))
	}
	return len(dirty), errs
}

func (sw *ShaderWatcher) Close() error {
	close(sw.done)
	err := sw.watcher.Close()
	sw.wg.Wait()
	return err
}
