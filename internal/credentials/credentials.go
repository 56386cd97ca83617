// Package credentials holds generation provider API keys. Keys come from
// three layers with fixed precedence: runtime Set (rotation) over a watched
// JSON credentials file over the initial environment values. The file layer
// reloads on change via fsnotify, so keys rotate without a restart.
package credentials

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Provider name constants
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Store is a layered credential store. Safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	base      map[string]string // from config/env, set at construction
	fromFile  map[string]string
	overrides map[string]string // runtime Set

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewStore creates a store seeded with the given provider keys. Empty values
// are treated as absent.
func NewStore(initial map[string]string) *Store {
	base := make(map[string]string, len(initial))
	for provider, key := range initial {
		if key != "" {
			base[provider] = key
		}
	}
	return &Store{
		base:      base,
		fromFile:  map[string]string{},
		overrides: map[string]string{},
		done:      make(chan struct{}),
	}
}

// Get returns the current key for a provider, or empty when unconfigured.
func (s *Store) Get(provider string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if key, ok := s.overrides[provider]; ok {
		return key
	}
	if key, ok := s.fromFile[provider]; ok {
		return key
	}
	return s.base[provider]
}

// Set installs a runtime key for a provider, taking precedence over the file
// and environment layers. An empty key removes the override.
func (s *Store) Set(provider, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if key == "" {
		delete(s.overrides, provider)
		return
	}
	s.overrides[provider] = key
}

// KeyFunc returns a getter bound to one provider, in the shape the gateway
// clients consume.
func (s *Store) KeyFunc(provider string) func() string {
	return func() string { return s.Get(provider) }
}

// WatchFile loads the JSON credentials file now and reloads it whenever it
// changes. The file maps provider name to key:
//
//	{"openai": "sk-...", "anthropic": "sk-ant-..."}
//
// The parent directory is watched rather than the file itself, so atomic
// rename-into-place writes are seen.
func (s *Store) WatchFile(path string) error {
	if err := s.loadFile(path); err != nil && !os.IsNotExist(err) {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return err
	}
	s.watcher = w

	go s.loop(path)
	log.Printf("credentials: watching %s for key rotation", path)
	return nil
}

// Stop shuts down the file watcher, if one was started.
func (s *Store) Stop() {
	if s.watcher != nil {
		_ = s.watcher.Close()
		<-s.done
	}
}

func (s *Store) loop(path string) {
	defer close(s.done)
	for {
		select {
		case evt, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(evt.Name) != filepath.Clean(path) {
				continue
			}
			if evt.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				if err := s.loadFile(path); err != nil {
					log.Printf("credentials: reload failed: %v", err)
				}
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("credentials: watcher error: %v", err)
		}
	}
}

func (s *Store) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var keys map[string]string
	if err := json.Unmarshal(data, &keys); err != nil {
		return fmt.Errorf("credentials: invalid file %s: %w", filepath.Base(path), err)
	}

	s.mu.Lock()
	s.fromFile = make(map[string]string, len(keys))
	for provider, key := range keys {
		if key != "" {
			s.fromFile[provider] = key
		}
	}
	s.mu.Unlock()
	return nil
}
