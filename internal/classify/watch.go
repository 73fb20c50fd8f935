package classify

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher hot-reloads a rules file into a classifier whenever the file
// changes on disk. A parse failure keeps the previous table.
type Watcher struct {
	watcher    *fsnotify.Watcher
	classifier *Classifier
	path       string
	logger     *zap.Logger
	done       chan struct{}
}

// Watch starts watching path and applies valid updates to c. The watch
// is registered on the parent directory so editor rename-and-replace
// saves are still observed.
func Watch(path string, c *Classifier, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create rules watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch rules directory: %w", err)
	}

	w := &Watcher{
		watcher:    fw,
		classifier: c,
		path:       path,
		logger:     logger.Named("rules_watcher"),
		done:       make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("rules watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	rs, err := LoadRules(w.path)
	if err != nil {
		w.logger.Warn("ignoring rules update", zap.String("path", w.path), zap.Error(err))
		return
	}
	w.classifier.Reload(rs)
	w.logger.Info("rules reloaded",
		zap.String("path", w.path),
		zap.Int("rules", len(rs.Rules)),
		zap.Int("responses", len(rs.Responses)))
}

// Close stops the watcher and waits for the event loop to exit.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}
