package credentials

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLayerPrecedence(t *testing.T) {
	s := NewStore(map[string]string{ProviderOpenAI: "env-key"})

	if got := s.Get(ProviderOpenAI); got != "env-key" {
		t.Fatalf("Get = %q, want env-key", got)
	}
	if got := s.Get(ProviderAnthropic); got != "" {
		t.Fatalf("Get(anthropic) = %q, want empty", got)
	}

	s.Set(ProviderOpenAI, "rotated-key")
	if got := s.Get(ProviderOpenAI); got != "rotated-key" {
		t.Fatalf("Get after Set = %q, want rotated-key", got)
	}

	// Clearing the override falls back to the env layer.
	s.Set(ProviderOpenAI, "")
	if got := s.Get(ProviderOpenAI); got != "env-key" {
		t.Fatalf("Get after clear = %q, want env-key", got)
	}
}

func TestKeyFuncSeesRotation(t *testing.T) {
	s := NewStore(nil)
	get := s.KeyFunc(ProviderAnthropic)

	if get() != "" {
		t.Fatal("key present before rotation")
	}
	s.Set(ProviderAnthropic, "fresh")
	if get() != "fresh" {
		t.Fatal("KeyFunc did not observe rotation")
	}
}

func TestWatchFileLoadsAndReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.json")
	if err := os.WriteFile(path, []byte(`{"openai": "first"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	s := NewStore(nil)
	if err := s.WatchFile(path); err != nil {
		t.Fatalf("WatchFile: %v", err)
	}
	defer s.Stop()

	if got := s.Get(ProviderOpenAI); got != "first" {
		t.Fatalf("initial load: Get = %q, want first", got)
	}

	if err := os.WriteFile(path, []byte(`{"openai": "second", "anthropic": "new"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if s.Get(ProviderOpenAI) == "second" && s.Get(ProviderAnthropic) == "new" {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("reload not observed: openai=%q anthropic=%q",
		s.Get(ProviderOpenAI), s.Get(ProviderAnthropic))
}

func TestWatchFileMissingFileIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(map[string]string{ProviderOpenAI: "env-key"})
	if err := s.WatchFile(filepath.Join(dir, "absent.json")); err != nil {
		t.Fatalf("WatchFile on missing file: %v", err)
	}
	defer s.Stop()

	if got := s.Get(ProviderOpenAI); got != "env-key" {
		t.Fatalf("Get = %q, want env-key", got)
	}
}

func TestRuntimeSetBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.json")
	if err := os.WriteFile(path, []byte(`{"openai": "file-key"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	s := NewStore(nil)
	if err := s.WatchFile(path); err != nil {
		t.Fatalf("WatchFile: %v", err)
	}
	defer s.Stop()

	s.Set(ProviderOpenAI, "runtime-key")
	if got := s.Get(ProviderOpenAI); got != "runtime-key" {
		t.Fatalf("Get = %q, want runtime-key", got)
	}
}
