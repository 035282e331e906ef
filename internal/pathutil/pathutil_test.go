package pathutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestCanonicalizeIsAbsolute(t *testing.T) {
	got, err := Canonicalize(".")
	if err != nil {
		t.Fatalf("Canonicalize failed: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("expected absolute path, got %q", got)
	}
}

func TestCanonicalizeResolvesSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on windows")
	}

	tmp := t.TempDir()
	real := filepath.Join(tmp, "real")
	if err := os.Mkdir(real, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	link := filepath.Join(tmp, "link")
	if err := os.Symlink(real, link); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	fromLink, err := Canonicalize(link)
	if err != nil {
		t.Fatalf("Canonicalize(link): %v", err)
	}
	fromReal, err := Canonicalize(real)
	if err != nil {
		t.Fatalf("Canonicalize(real): %v", err)
	}
	if fromLink != fromReal {
		t.Errorf("same location canonicalized differently: %q vs %q", fromLink, fromReal)
	}
}

func TestCanonicalizeNonexistentPath(t *testing.T) {
	tmp := t.TempDir()
	missing := filepath.Join(tmp, "not", "yet", "..", "yet")

	got, err := Canonicalize(missing)
	if err != nil {
		t.Fatalf("Canonicalize should tolerate missing paths: %v", err)
	}
	want := filepath.Join(tmp, "not", "yet")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFilePredicates(t *testing.T) {
	tmp := t.TempDir()
	file := filepath.Join(tmp, "f")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if !FileExists(file) || !FileExists(tmp) {
		t.Error("FileExists should report existing file and dir")
	}
	if FileExists(filepath.Join(tmp, "missing")) {
		t.Error("FileExists reported a missing path")
	}
	if !IsRegularFile(file) {
		t.Error("IsRegularFile should report a regular file")
	}
	if IsRegularFile(tmp) {
		t.Error("IsRegularFile reported a directory")
	}
}
