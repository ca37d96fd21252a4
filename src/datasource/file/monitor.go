// monitor.go
package file

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Monitor watches the catalog file for rewrites. The dashboard registers a
// handler so a refreshed dataset is picked up on the next request.
type Monitor struct {
	target  string
	watcher *fsnotify.Watcher
	lastMod time.Time
	mu      sync.Mutex
}

// NewMonitor watches the directory containing target; editors and download
// tools typically replace the file rather than write it in place, so the
// directory is the reliable thing to watch.
func NewMonitor(target string) (*Monitor, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(target)
	if err != nil {
		watcher.Close()
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, err
	}

	return &Monitor{target: abs, watcher: watcher}, nil
}

// Watch blocks, invoking handler whenever the target file is written or
// replaced. Returns when the watcher is closed.
func (m *Monitor) Watch(handler func(string)) error {
	for {
		select {
		case event, ok := <-m.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || abs != m.target {
				continue
			}
			info, err := os.Stat(abs)
			if err != nil {
				continue
			}

			m.mu.Lock()
			if info.ModTime().After(m.lastMod) {
				m.lastMod = info.ModTime()
				go handler(abs)
			}
			m.mu.Unlock()
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}

func (m *Monitor) Close() error {
	return m.watcher.Close()
}
