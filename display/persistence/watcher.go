package persistence

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dfryer1193/signboard/display/domain"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// DirWatcher keeps the catalog in sync with the image directory: an allowed
// image file dropped into the directory out-of-band gets a catalog record so
// it shows up in listings. Removal events are ignored; this service never
// deletes images.
type DirWatcher struct {
	watcher *fsnotify.Watcher
	catalog *SQLiteCatalogRepository
	done    chan struct{}
}

// NewDirWatcher starts watching the catalog's image directory. The directory
// must exist before the watcher is created.
func NewDirWatcher(catalog *SQLiteCatalogRepository) (*DirWatcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create directory watcher: %w", err)
	}

	if err := fsWatcher.Add(catalog.imageDir); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", catalog.imageDir, err)
	}

	w := &DirWatcher{
		watcher: fsWatcher,
		catalog: catalog,
		done:    make(chan struct{}),
	}
	go w.loop()

	return w, nil
}

func (w *DirWatcher) loop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("Image directory watcher error")
		case <-w.done:
			return
		}
	}
}

func (w *DirWatcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return
	}

	name := filepath.Base(event.Name)
	if !domain.AllowedExtension(name) {
		return
	}

	if err := w.catalog.recordFromDisk(context.Background(), event.Name); err != nil {
		// Rename events can fire for a path that is already gone.
		log.Warn().Err(err).Str("file", name).Msg("Failed to catalog image from directory")
		return
	}

	log.Info().Str("file", name).Msg("Cataloged image from directory")
}

// Close stops the watcher. Safe to call once.
func (w *DirWatcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
