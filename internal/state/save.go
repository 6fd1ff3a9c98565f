package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/gitbobobo/tidyflow/internal/logger"
)

// Saver coalesces repeated save signals into one debounced disk write,
// so a burst of state mutations during a single handler causes at most
// one JSON serialization (grounded on the Rust StateSaver actor).
type Saver struct {
	signal chan struct{}
	done   chan struct{}
}

// StartSaver launches the debounce loop, writing store's document to path
// after each settle window. Call Stop to flush and shut down.
func StartSaver(store *Store, path string, debounce time.Duration) *Saver {
	s := &Saver{
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}

	go func() {
		defer close(s.done)
		for range s.signal {
			drainAndWait(s.signal, debounce)
			if err := saveToDisk(store, path); err != nil {
				logger.Error("state save failed", "path", path, "err", err)
			}
		}
		// final save on shutdown
		if err := saveToDisk(store, path); err != nil {
			logger.Error("state final save failed", "path", path, "err", err)
		}
	}()

	return s
}

// drainAndWait resets the debounce window each time a new signal arrives
// within it, settling once debounce elapses with no further signals.
func drainAndWait(signal chan struct{}, debounce time.Duration) {
	timer := time.NewTimer(debounce)
	defer timer.Stop()
	for {
		select {
		case <-timer.C:
			return
		case _, ok := <-signal:
			if !ok {
				return
			}
			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(debounce)
		}
	}
}

// Trigger marks the document dirty; a save will happen within the
// debounce window. Never blocks — a pending signal already covers any
// further mutation before it fires.
func (s *Saver) Trigger() {
	select {
	case s.signal <- struct{}{}:
	default:
	}
}

// Stop closes the signal channel and blocks until the final save
// completes.
func (s *Saver) Stop() {
	close(s.signal)
	<-s.done
}

func saveToDisk(store *Store, path string) error {
	doc := store.Snapshot()
	now := time.Now().UTC()
	doc.LastUpdated = &now

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
