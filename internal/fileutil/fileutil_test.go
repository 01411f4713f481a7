package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCopyFileVerified(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")
	payload := []byte("deposit payload")
	if err := os.WriteFile(src, payload, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := CopyFileVerified(src, dst); err != nil {
		t.Fatalf("copy: %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(payload) {
		t.Fatalf("content mismatch: %q", got)
	}
}

func TestCopyTreeVerified(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "copy")
	if err := os.MkdirAll(filepath.Join(src, "DATA"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "DATA", "a.txt"), []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "top.txt"), []byte("t"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := CopyTreeVerified(src, dst); err != nil {
		t.Fatalf("copy tree: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dst, "DATA", "a.txt")); err != nil {
		t.Fatalf("missing copied file: %v", err)
	}
}

func TestLockTreeThenUnlock(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "DATA")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	file := filepath.Join(sub, "f.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := LockTree(root, 0o555); err != nil {
		t.Fatalf("lock: %v", err)
	}
	info, err := os.Stat(file)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o555 {
		t.Fatalf("expected 0555, got %o", perm)
	}

	if err := UnlockTree(root, 0o755); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if err := os.WriteFile(filepath.Join(sub, "g.txt"), []byte("y"), 0o644); err != nil {
		t.Fatalf("expected writable tree after unlock: %v", err)
	}
}
