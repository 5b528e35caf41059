// Package watch reruns generation when Go files change.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/syssam/pathstr/internal/logger"
)

// DefaultDebounce batches the events of an editor save or a git checkout.
const DefaultDebounce = 200 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	// Dirs are the package directories to watch.
	Dirs []string
	// Output is the base name of the generated file. Its changes are ignored.
	Output string
	// Debounce is the quiet period before a run. Defaults to DefaultDebounce.
	Debounce time.Duration
}

// Watcher watches package directories for changes of Go source files.
type Watcher struct {
	opts    Options
	watcher *fsnotify.Watcher
}

// New creates a watcher. The directories are watched from the moment
// New returns.
func New(ctx context.Context, opts Options) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	log := logger.FromContext(ctx)
	watched := 0
	for _, dir := range opts.Dirs {
		if err := fw.Add(dir); err != nil {
			log.Warn("failed to watch directory", "path", dir, "error", err)
			continue
		}
		watched++
	}
	if watched == 0 && len(opts.Dirs) > 0 {
		_ = fw.Close()
		return nil, fmt.Errorf("no directory could be watched")
	}
	log.Info("watching for changes", "directories", watched)
	return &Watcher{opts: opts, watcher: fw}, nil
}

// Run calls fn after each batch of relevant changes until ctx is done.
// Errors returned by fn are logged and do not stop the watcher. The
// caller closes the watcher when Run returns.
func (w *Watcher) Run(ctx context.Context, fn func(context.Context) error) error {
	log := logger.FromContext(ctx)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			log.Debug("file changed", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.opts.Debounce)
			} else {
				timer.Reset(w.opts.Debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			if err := fn(ctx); err != nil {
				log.Error("generation failed", "error", err)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("file watcher error", "error", err)
		}
	}
}

// Close stops watching and makes a running Run return.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// relevant reports whether the event may change the generated output.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(event.Name)
	switch {
	case !strings.HasSuffix(base, ".go"):
		return false
	case strings.HasSuffix(base, "_test.go"):
		return false
	case base == w.opts.Output:
		return false
	case strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_"):
		return false
	}
	return true
}
