package save_watch

// Watches the save directory so that we don't write a character file while the game
// is busy writing it.

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

const SAVE_EXT = ".chr"

type Save_watch interface {
	// Start_watching reports the names of saves being written on saves (which may be nil).
	Start_watching(saves chan<- string) error
	Stop_watching()
	// Is_saving is true until the directory has been quiet for the quiet period.
	Is_saving() bool
	Last_error() error
}

func New_watcher(dir string, quiet time.Duration) Save_watch {
	return &dir_watcher{dir: dir, quiet: quiet, now: time.Now}
}

type dir_watcher struct {
	dir     string
	quiet   time.Duration
	watcher *fsnotify.Watcher
	now     func() time.Time

	mu         sync.Mutex
	last_event time.Time
	last_err   error
}

func Is_save_file(name string) bool {
	return strings.EqualFold(filepath.Ext(name), SAVE_EXT)
}

func (dw *dir_watcher) Start_watching(saves chan<- string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	dw.watcher = watcher

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					if Is_save_file(event.Name) {
						dw.handle_file(event.Name, saves)
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				dw.mu.Lock()
				dw.last_err = err
				dw.mu.Unlock()
			}
		}
	}()

	err = dw.watcher.Add(dw.dir)
	if err != nil {
		dw.watcher.Close()
		return errors.Wrapf(err, "watch %v", dw.dir)
	}

	return nil
}

func (dw *dir_watcher) Stop_watching() {
	if dw.watcher != nil {
		dw.watcher.Close()
	}
}

func (dw *dir_watcher) handle_file(filename string, out chan<- string) {
	dw.mu.Lock()
	dw.last_event = dw.now()
	dw.mu.Unlock()

	if out != nil {
		out <- filename
	}
}

func (dw *dir_watcher) Is_saving() bool {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	if dw.last_event.IsZero() {
		return false
	}
	return dw.now().Sub(dw.last_event) < dw.quiet
}

func (dw *dir_watcher) Last_error() error {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	return dw.last_err
}
