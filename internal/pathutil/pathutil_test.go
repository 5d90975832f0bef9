package pathutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCanonicalResolvesToAbsoluteCleanPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Foo.h")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Canonical(filepath.Join(dir, ".", "Foo.h"))
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(got) != "Foo.h" {
		t.Fatalf("Canonical = %q, want basename Foo.h", got)
	}
}

func TestRelativeToFirstMatchingDir(t *testing.T) {
	got := RelativeTo("/proj/include/sub/Foo.h", []string{"/other", "/proj/include"})
	if got != "sub/Foo.h" {
		t.Fatalf("RelativeTo = %q, want sub/Foo.h", got)
	}
}

func TestRelativeToFallsBackToBaseName(t *testing.T) {
	got := RelativeTo("/proj/include/Foo.h", []string{"/unrelated"})
	if got != "Foo.h" {
		t.Fatalf("RelativeTo = %q, want Foo.h", got)
	}
}

func TestRelativeToNoDirsFallsBackToBaseName(t *testing.T) {
	got := RelativeTo("/proj/include/Foo.h", nil)
	if got != "Foo.h" {
		t.Fatalf("RelativeTo = %q, want Foo.h", got)
	}
}
