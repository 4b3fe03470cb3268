package database

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher reports documents of a FileStore that were changed by something
// other than the store itself (manual edits, another process).
type Watcher struct {
	store    *FileStore
	logger   zerolog.Logger
	debounce time.Duration
	onChange func(Document)

	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
}

func NewWatcher(store *FileStore, logger zerolog.Logger, onChange func(Document)) *Watcher {
	return &Watcher{
		store:    store,
		logger:   logger,
		debounce: defaultDebounce,
		onChange: onChange,
		done:     make(chan struct{}),
	}
}

// Start watches the store directory until ctx ends or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(w.store.Dir()); err != nil {
		_ = fw.Close()
		return fmt.Errorf("watch data dir: %w", err)
	}
	w.watcher = fw

	w.logger.Info().
		Str("event", "store.watcher_started").
		Str("path", w.store.Dir()).
		Msg("watching data dir for external changes")

	w.wg.Add(1)
	go w.loop(ctx)
	return nil
}

func (w *Watcher) Stop() {
	select {
	case <-w.done:
	default:
		close(w.done)
	}
	w.wg.Wait()
}

func documentFor(path string) (Document, bool) {
	name := strings.TrimSuffix(filepath.Base(path), ".json")
	for _, d := range Documents {
		if string(d) == name && strings.HasSuffix(path, ".json") {
			return d, true
		}
	}
	return "", false
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()
	defer func() { _ = w.watcher.Close() }()

	pending := make(map[Document]struct{})
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			doc, ok := documentFor(event.Name)
			if !ok {
				continue
			}
			pending[doc] = struct{}{}
			timer.Reset(w.debounce)

		case <-timer.C:
			for doc := range pending {
				delete(pending, doc)
				if !w.store.changedExternally(doc) {
					continue
				}
				w.logger.Info().
					Str("event", "store.external_change").
					Str("document", string(doc)).
					Msg("document changed on disk")
				if w.onChange != nil {
					w.onChange(doc)
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error().Err(err).Str("event", "store.watcher_error").Msg("data dir watcher error")
		}
	}
}
