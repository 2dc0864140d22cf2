package fsutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCopyTree_SkipsGitAndKeepsExecBit(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	if err := os.MkdirAll(filepath.Join(src, ".git", "objects"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(src, ".git", "HEAD"), []byte("ref\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(src, "bin"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(src, "bin", "run.sh"), []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(src, "file.txt"), []byte("x\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := CopyTree(src, dst); err != nil {
		t.Fatalf("CopyTree: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dst, ".git")); !os.IsNotExist(err) {
		t.Fatal(".git should not be copied")
	}
	info, err := os.Stat(filepath.Join(dst, "bin", "run.sh"))
	if err != nil {
		t.Fatalf("copied file missing: %v", err)
	}
	if info.Mode().Perm()&0o100 == 0 {
		t.Fatalf("exec bit lost: %v", info.Mode())
	}
	raw, err := os.ReadFile(filepath.Join(dst, "file.txt"))
	if err != nil || string(raw) != "x\n" {
		t.Fatalf("content = %q, %v", raw, err)
	}
}
