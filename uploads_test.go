package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveFrameStripsTraversal(t *testing.T) {
	dir := t.TempDir()

	path, err := saveFrame(dir, strings.NewReader("frame-bytes"), "../../etc/passwd")
	if err != nil {
		t.Fatalf("saveFrame: %v", err)
	}

	if filepath.Dir(path) != dir {
		t.Fatalf("frame escaped uploads dir: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved frame: %v", err)
	}
	if string(data) != "frame-bytes" {
		t.Errorf("saved content = %q", data)
	}
}

func TestSaveFrameUniquifiesNames(t *testing.T) {
	dir := t.TempDir()

	p1, err := saveFrame(dir, strings.NewReader("a"), "frame.png")
	if err != nil {
		t.Fatalf("saveFrame: %v", err)
	}
	p2, err := saveFrame(dir, strings.NewReader("b"), "frame.png")
	if err != nil {
		t.Fatalf("saveFrame: %v", err)
	}

	if p1 == p2 {
		t.Fatalf("identical client filenames collided: %s", p1)
	}
}

func TestSaveFrameEmptyName(t *testing.T) {
	dir := t.TempDir()

	path, err := saveFrame(dir, strings.NewReader("x"), "")
	if err != nil {
		t.Fatalf("saveFrame: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Fatalf("frame escaped uploads dir: %s", path)
	}
}
