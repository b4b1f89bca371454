package vault

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reports documents that were written to the vault. Rapid writes to
// the same document are coalesced; the callback fires once the document has
// been quiet for the delay.
type Watcher struct {
	vault  *Vault
	delay  time.Duration
	onDoc  func(Document)
	logger *zap.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
	wg     sync.WaitGroup
}

// Watch creates a watcher calling onRendered for every written document.
func (v *Vault) Watch(delay time.Duration, onRendered func(Document)) *Watcher {
	return &Watcher{
		vault:  v,
		delay:  delay,
		onDoc:  onRendered,
		logger: v.logger.Named("watcher"),
		timers: make(map[string]*time.Timer),
	}
}

// Run watches until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create watcher")
	}
	defer fw.Close()

	if err := w.addTree(fw, w.vault.root); err != nil {
		return err
	}
	w.logger.Info("watching", zap.String("root", w.vault.root))

	defer w.stop()
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handle(fw, ev)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) addTree(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.vault.root && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			return errors.Wrapf(err, "failed to watch: %s", path)
		}
		return nil
	})
}

func (w *Watcher) handle(fw *fsnotify.Watcher, ev fsnotify.Event) {
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.addTree(fw, ev.Name); err != nil {
				w.logger.Warn("failed to watch new directory", zap.Error(err))
			}
			return
		}
	}
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return
	}
	if !IsDocument(ev.Name) {
		return
	}

	rel, err := filepath.Rel(w.vault.root, ev.Name)
	if err != nil {
		return
	}
	w.debounce(filepath.ToSlash(rel))
}

func (w *Watcher) debounce(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[name]; ok && t.Stop() {
		w.wg.Done()
	}

	w.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(w.delay, func() {
		defer w.wg.Done()

		w.mu.Lock()
		if w.timers[name] == t {
			delete(w.timers, name)
		}
		w.mu.Unlock()

		doc, err := w.vault.ReadDocument(name)
		if err != nil {
			w.logger.Debug("document vanished", zap.String("doc", name), zap.Error(err))
			return
		}
		w.onDoc(doc)
	})
	w.timers[name] = t
}

func (w *Watcher) stop() {
	w.mu.Lock()
	for name, t := range w.timers {
		if t.Stop() {
			w.wg.Done()
		}
		delete(w.timers, name)
	}
	w.mu.Unlock()

	w.wg.Wait()
}
