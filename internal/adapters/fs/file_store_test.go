package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/parlaynu/pi-multicapture/internal/domain"
)

func TestFileStore_Path(t *testing.T) {
	s := NewFileStore("/out")

	tests := []struct {
		peer  string
		index uint64
		want  string
	}{
		{"cam1", 0, "/out/cam1/image_0000.jpg"},
		{"cam1", 7, "/out/cam1/image_0007.jpg"},
		{"cam2", 1234, "/out/cam2/image_1234.jpg"},
		{"cam2", 12345, "/out/cam2/image_12345.jpg"},
	}
	for _, tt := range tests {
		if got := s.Path(tt.peer, tt.index); got != tt.want {
			t.Errorf("Path(%q, %d) = %s, want %s", tt.peer, tt.index, got, tt.want)
		}
	}
}

func TestFileStore_Store(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(filepath.Join(dir, "nested", "out"))

	path, err := s.Store("cam1", 3, []byte("jpeg-bytes"))
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if path != filepath.Join(dir, "nested", "out", "cam1", "image_0003.jpg") {
		t.Errorf("path = %s", path)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if string(got) != "jpeg-bytes" {
		t.Errorf("content = %q", got)
	}
}

func TestFileStore_LastWriteWins(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)

	if _, err := s.Store("cam1", 5, []byte("first, longer payload")); err != nil {
		t.Fatalf("Store #1: %v", err)
	}
	path, err := s.Store("cam1", 5, []byte("second"))
	if err != nil {
		t.Fatalf("Store #2: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "second" {
		t.Errorf("content = %q, want second", got)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "cam1"))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("peer dir has %d entries, want 1", len(entries))
	}
}

func TestFileStore_GapsAndResets(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)

	for _, idx := range []uint64{10, 2, 0, 10, 9999} {
		if _, err := s.Store("cam1", idx, []byte{byte(idx)}); err != nil {
			t.Fatalf("Store(%d): %v", idx, err)
		}
	}

	entries, err := os.ReadDir(filepath.Join(dir, "cam1"))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 4 {
		t.Errorf("peer dir has %d entries, want 4", len(entries))
	}
}

func TestFileStore_RejectsEscapingPeer(t *testing.T) {
	s := NewFileStore(t.TempDir())

	for _, peer := range []string{"", ".", "..", "../etc", "a/b", `a\b`} {
		if _, err := s.Store(peer, 0, []byte("x")); !errors.Is(err, domain.ErrStorage) {
			t.Errorf("Store(%q) error = %v, want ErrStorage", peer, err)
		}
	}
}

func TestFileStore_WriteFailure(t *testing.T) {
	dir := t.TempDir()
	// A regular file where the output root should be makes MkdirAll fail.
	root := filepath.Join(dir, "out")
	if err := os.WriteFile(root, nil, 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	_, err := NewFileStore(root).Store("cam1", 0, []byte("x"))
	if !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("Store error = %v, want ErrStorage", err)
	}
}
