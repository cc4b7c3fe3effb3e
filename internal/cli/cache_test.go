package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCacheLayout(t *testing.T) {
	root := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", root)

	cfg := DefaultConfig()
	responses, artifacts, err := cacheLayout(cfg)
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(root, appName)
	if responses != want {
		t.Errorf("responses = %q, want %q", responses, want)
	}
	if artifacts != filepath.Join(want, "artifacts") {
		t.Errorf("artifacts = %q, want the artifacts subdirectory", artifacts)
	}

	// A configured response cache dir wins; artifacts stay under the root.
	cfg.Cache.Dir = filepath.Join(root, "responses")
	responses, artifacts, err = cacheLayout(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if responses != cfg.Cache.Dir {
		t.Errorf("responses = %q, want the configured dir", responses)
	}
	if artifacts != filepath.Join(want, "artifacts") {
		t.Errorf("artifacts = %q, want the artifacts subdirectory", artifacts)
	}
}

func TestCountFiles(t *testing.T) {
	dir := t.TempDir()
	if got := countFiles(dir); got != 0 {
		t.Errorf("empty dir: count = %d, want 0", got)
	}

	if err := os.MkdirAll(filepath.Join(dir, "ab"), 0o755); err != nil {
		t.Fatal(err)
	}
	os.WriteFile(filepath.Join(dir, "ab", "entry.json"), []byte("{}"), 0o644)
	os.WriteFile(filepath.Join(dir, "response"), []byte("{}"), 0o644)

	if got := countFiles(dir); got != 2 {
		t.Errorf("count = %d, want 2", got)
	}
	if got := countFiles(filepath.Join(dir, "missing")); got != 0 {
		t.Errorf("missing dir: count = %d, want 0", got)
	}
}
