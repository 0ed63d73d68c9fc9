package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheCommandsRefuseRemoteBackends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[cache]\nbackend = \"redis\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, sub := range []string{"clear", "prune"} {
		if _, err := execute(t, "--config", path, "cache", sub); err == nil {
			t.Errorf("cache %s on redis backend succeeded", sub)
		}
	}
}

func TestCacheCommandsFileBackend(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	path := filepath.Join(t.TempDir(), "config.toml")
	body := "[cache]\nbackend = \"file\"\ndir = \"" + filepath.ToSlash(dir) + "\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "--config", path, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != filepath.ToSlash(dir) {
		t.Errorf("cache path = %q, want %q", out, dir)
	}

	if _, err := execute(t, "--config", path, "render", "-n", "5", "-f", "json", "-o", filepath.Join(t.TempDir(), "g.json")); err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, err := execute(t, "--config", path, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("cache dir still has %d entries after clear", len(entries))
	}
}
