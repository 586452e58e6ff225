package fsutil

import (
	"bytes"
	"testing"
)

func TestMemoryFileSystemRoundtrip(t *testing.T) {
	fs := NewMemoryFileSystem()

	if err := fs.WriteFile("out/data.csv", []byte("a,b\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	data, err := fs.ReadFile("out/data.csv")
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if !bytes.Equal(data, []byte("a,b\n")) {
		t.Errorf("ReadFile() = %q", data)
	}

	if _, err := fs.ReadFile("out/missing.csv"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestMemoryFileSystemExists(t *testing.T) {
	fs := NewMemoryFileSystem()

	if fs.Exists("nope") {
		t.Error("Exists on empty fs returned true")
	}

	if err := fs.MkdirAll("a/b/c", 0o755); err != nil {
		t.Fatal(err)
	}
	for _, dir := range []string{"a", "a/b", "a/b/c"} {
		if !fs.Exists(dir) {
			t.Errorf("Exists(%q) = false after MkdirAll", dir)
		}
	}

	if err := fs.WriteFile("a/b/c/f.txt", nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if !fs.Exists("a/b/c/f.txt") {
		t.Error("Exists on written file returned false")
	}
}

func TestMemoryFileSystemFiles(t *testing.T) {
	fs := NewMemoryFileSystem()
	for _, name := range []string{"z.txt", "a.txt", "m.txt"} {
		if err := fs.WriteFile(name, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got := fs.Files()
	want := []string{"a.txt", "m.txt", "z.txt"}
	if len(got) != len(want) {
		t.Fatalf("Files() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Files()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
