// Package watch validates the imports of source files as they are written
// inside a directory tree.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
	"github.com/asdzza/RACG-Defense/internal/core/ports/driving"
	"github.com/asdzza/RACG-Defense/internal/logger"
)

// DefaultDebounce coalesces the burst of events editors emit per save.
const DefaultDebounce = 200 * time.Millisecond

// Event is the validation outcome for one changed file.
type Event struct {
	Path     string
	Language domain.Language
	Report   *domain.ValidationReport
	Err      error
}

// Options tunes the watcher.
type Options struct {
	// Debounce is the quiet period per file before it is validated.
	Debounce time.Duration
}

// Watcher validates files under a root directory when they change.
type Watcher struct {
	root      string
	validator driving.ImportValidator
	debounce  time.Duration
}

// New creates a watcher for root.
func New(root string, validator driving.ImportValidator, opts Options) (*Watcher, error) {
	if validator == nil {
		return nil, errors.New("watch: import validator is required")
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch: %s is not a directory: %w", root, domain.ErrInvalidInput)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	return &Watcher{root: root, validator: validator, debounce: opts.Debounce}, nil
}

// Watch starts watching and returns a channel of validation events.
// The channel is closed when ctx is cancelled or the watcher fails.
func (w *Watcher) Watch(ctx context.Context) (<-chan Event, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := w.addWatchRecursive(fw, w.root); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watching %s: %w", w.root, err)
	}

	out := make(chan Event)
	go w.loop(ctx, fw, out)
	return out, nil
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher, out chan<- Event) {
	defer close(out)
	defer fw.Close()

	ready := make(chan string)
	timers := make(map[string]*time.Timer)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher error: %v", err)
		case evt, ok := <-fw.Events:
			if !ok {
				return
			}
			switch w.classify(evt) {
			case eventNewDir:
				if err := w.addWatchRecursive(fw, evt.Name); err != nil {
					logger.Warn("watching %s: %v", evt.Name, err)
				}
			case eventChanged:
				path := evt.Name
				if t, exists := timers[path]; exists {
					t.Reset(w.debounce)
					continue
				}
				timers[path] = time.AfterFunc(w.debounce, func() {
					select {
					case ready <- path:
					case <-ctx.Done():
					}
				})
			}
		case path := <-ready:
			delete(timers, path)
			select {
			case out <- w.check(ctx, path):
			case <-ctx.Done():
				return
			}
		}
	}
}

type eventKind int

const (
	eventIgnored eventKind = iota
	eventNewDir
	eventChanged
)

// classify decides what a filesystem event means for the watcher.
// Only creates and writes of visible files with a known suffix count.
func (w *Watcher) classify(evt fsnotify.Event) eventKind {
	if evt.Name == "" || w.hidden(evt.Name) {
		return eventIgnored
	}
	if !evt.Op.Has(fsnotify.Create) && !evt.Op.Has(fsnotify.Write) {
		return eventIgnored
	}
	info, err := os.Stat(evt.Name)
	if err != nil {
		return eventIgnored
	}
	if info.IsDir() {
		if evt.Op.Has(fsnotify.Create) {
			return eventNewDir
		}
		return eventIgnored
	}
	if _, err := domain.LanguageFromPath(evt.Name); err != nil {
		return eventIgnored
	}
	return eventChanged
}

// check validates one file.
func (w *Watcher) check(ctx context.Context, path string) Event {
	ev := Event{Path: path}
	lang, err := domain.LanguageFromPath(path)
	if err != nil {
		ev.Err = err
		return ev
	}
	ev.Language = lang

	code, err := os.ReadFile(path)
	if err != nil {
		ev.Err = fmt.Errorf("reading %s: %w", path, err)
		return ev
	}
	logger.Debug("validating %s (%s)", path, lang)
	ev.Report, ev.Err = w.validator.Validate(ctx, lang, string(code))
	return ev
}

func (w *Watcher) addWatchRecursive(fw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if w.hidden(path) {
			return filepath.SkipDir
		}
		return fw.Add(path)
	})
}

// hidden reports whether path is hidden below the watched root. Dot
// directories above the root, as in ~/.config/proj, do not count.
func (w *Watcher) hidden(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return isHidden(path)
	}
	return isHidden(rel)
}

// isHidden reports whether any element of path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "." || part == ".." || part == "" {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
