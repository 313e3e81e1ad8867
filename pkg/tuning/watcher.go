package tuning

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/golang/glog"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 250 * time.Millisecond

// Watcher parses a tuning file whenever it changes and offers the result
// on a single slot channel, replacing an update not consumed yet.
type Watcher struct {
	Path     string
	Debounce time.Duration

	updates chan *Params
}

// NewWatcher creates a Watcher for path.
func NewWatcher(path string) *Watcher {
	return &Watcher{Path: path, Debounce: DefaultDebounce, updates: make(chan *Params, 1)}
}

// Updates delivers parsed parameters.
func (w *Watcher) Updates() <-chan *Params {
	return w.updates
}

// Name implements Named.
func (w *Watcher) Name() string {
	return "tuning"
}

func (w *Watcher) reload() {
	p, err := LoadParams(w.Path)
	if err != nil {
		glog.Warningf("tuning: reload %s failed: %v", w.Path, err)
		return
	}
	glog.V(1).Infof("tuning: loaded %s: %v", w.Path, p)
	select {
	case w.updates <- p:
		return
	default:
	}
	select {
	case <-w.updates:
	default:
	}
	select {
	case w.updates <- p:
	default:
	}
}

// Run implements Runnable. The file is loaded once at start and again
// after every change.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()
	// the directory is watched so editors replacing the file are seen
	if err := fw.Add(filepath.Dir(w.Path)); err != nil {
		return err
	}
	w.reload()

	file := filepath.Base(w.Path)
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != file || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.Debounce)
			fire = timer.C
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			glog.Warningf("tuning: watch %s: %v", w.Path, err)
		case <-fire:
			fire = nil
			w.reload()
		}
	}
}
