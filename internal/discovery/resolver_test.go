package discovery

import (
	"os"
	"path/filepath"
	"testing"
)

func mkdirAll(t *testing.T, paths ...string) {
	t.Helper()
	for _, p := range paths {
		if err := os.MkdirAll(p, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", p, err)
		}
	}
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	mkdirAll(t, filepath.Dir(path))
	if err := os.WriteFile(path, []byte("Sessão 1:\n"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func newResolver(root string) Resolver {
	return Resolver{
		Root:          root,
		DataDir:       "jogadores",
		BackupDir:     "jogadores_bak",
		HistorySuffix: "_historico.txt",
	}
}

func TestFirstMatchOrder(t *testing.T) {
	calls := 0
	miss := func() (string, bool) { calls++; return "", false }
	hit := func(v string) Strategy {
		return func() (string, bool) { calls++; return v, true }
	}
	path, ok := FirstMatch(miss, nil, hit("a"), hit("b"))
	if !ok || path != "a" {
		t.Fatalf("expected first hit a, got %q %v", path, ok)
	}
	if calls != 2 {
		t.Fatalf("expected evaluation to stop at the first hit, got %d calls", calls)
	}
	if _, ok := FirstMatch(miss); ok {
		t.Fatalf("expected no match")
	}
}

func TestResolveDataDirInRoot(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "work")
	mkdirAll(t, filepath.Join(root, "jogadores"), filepath.Join(base, "jogadores"))

	path, ok := newResolver(root).Resolve()
	if !ok || path != filepath.Join(root, "jogadores") {
		t.Fatalf("expected root data dir, got %q %v", path, ok)
	}
}

func TestResolveDataDirInParent(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "work")
	mkdirAll(t, root, filepath.Join(base, "jogadores"))

	path, ok := newResolver(root).Resolve()
	if !ok || filepath.Clean(path) != filepath.Join(base, "jogadores") {
		t.Fatalf("expected parent data dir, got %q %v", path, ok)
	}
}

func TestResolveTreeSearchBeforeBackup(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "work")
	mkdirAll(t,
		filepath.Join(root, "a", "deep", "jogadores"),
		filepath.Join(root, "z", "jogadores"),
		filepath.Join(root, "jogadores_bak"),
	)

	path, ok := newResolver(root).Resolve()
	if !ok || path != filepath.Join(root, "a", "deep", "jogadores") {
		t.Fatalf("expected first top-down tree match, got %q %v", path, ok)
	}
}

func TestResolveBackupDir(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "work")
	mkdirAll(t, filepath.Join(root, "jogadores_bak"))

	path, ok := newResolver(root).Resolve()
	if !ok || path != filepath.Join(root, "jogadores_bak") {
		t.Fatalf("expected backup dir, got %q %v", path, ok)
	}
}

func TestResolveHistoryFileFallback(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "work")
	writeFile(t, filepath.Join(root, ".hidden", "Dean_historico.txt"))
	writeFile(t, filepath.Join(root, "dados", "rpg", "Dean_historico.txt"))

	path, ok := newResolver(root).Resolve()
	if !ok || path != filepath.Join(root, "dados", "rpg") {
		t.Fatalf("expected history file dir, got %q %v", path, ok)
	}
}

func TestResolveNothing(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "work")
	mkdirAll(t, filepath.Join(root, "empty"))
	writeFile(t, filepath.Join(root, "notes.txt"))

	if path, ok := newResolver(root).Resolve(); ok {
		t.Fatalf("expected no match, got %q", path)
	}
}

func TestDataDirMustBeDirectory(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "work")
	writeFile(t, filepath.Join(root, "jogadores"))

	if _, ok := ExistingDir(filepath.Join(root, "jogadores"))(); ok {
		t.Fatalf("expected a plain file not to match")
	}
}
