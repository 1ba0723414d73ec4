package source

import (
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPattern_Sequence(t *testing.T) {
	p := NewPattern(32, 16, 0)
	ctx := context.Background()
	if err := p.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer p.Stop()

	for want := uint64(0); want < 5; want++ {
		item, err := p.Next(ctx)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if item.Index != want {
			t.Errorf("Index = %d, want %d", item.Index, want)
		}
		if b := item.Raw.Bounds(); b.Dx() != 32 || b.Dy() != 16 {
			t.Errorf("size = %v, want 32x16", b)
		}
	}
}

func TestPattern_RestartResetsIndex(t *testing.T) {
	p := NewPattern(4, 4, 0)
	ctx := context.Background()
	p.Start(ctx)
	p.Next(ctx)
	p.Next(ctx)
	p.Stop()

	p.Start(ctx)
	defer p.Stop()
	item, err := p.Next(ctx)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if item.Index != 0 {
		t.Errorf("Index after restart = %d, want 0", item.Index)
	}
}

func TestPattern_RateLimitedHonoursContext(t *testing.T) {
	p := NewPattern(4, 4, 1)
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer p.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := p.Next(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Next error = %v, want DeadlineExceeded", err)
	}
}

func TestPattern_InvalidSize(t *testing.T) {
	if err := NewPattern(0, 10, 1).Start(context.Background()); err == nil {
		t.Fatal("Start accepted a zero width")
	}
}

// dropImage writes a PNG under a temporary name and renames it into dir.
func dropImage(t *testing.T, dir, name string, w, h int) {
	t.Helper()
	tmp := filepath.Join(dir, "."+name+".tmp")
	f, err := os.Create(tmp)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	f.Close()
	if err := os.Rename(tmp, filepath.Join(dir, name)); err != nil {
		t.Fatalf("rename: %v", err)
	}
}

func nextWithTimeout(t *testing.T, s *Spool) (uint64, image.Rectangle) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	item, err := s.Next(ctx)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	return item.Index, item.Raw.Bounds()
}

func TestSpool_BacklogThenNewFiles(t *testing.T) {
	dir := t.TempDir()
	dropImage(t, dir, "b.png", 2, 2)
	dropImage(t, dir, "a.png", 1, 1)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s := NewSpool(dir, false)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	idx, b := nextWithTimeout(t, s)
	if idx != 0 || b.Dx() != 1 {
		t.Errorf("first item = %d %v, want index 0 from a.png", idx, b)
	}
	idx, b = nextWithTimeout(t, s)
	if idx != 1 || b.Dx() != 2 {
		t.Errorf("second item = %d %v, want index 1 from b.png", idx, b)
	}

	dropImage(t, dir, "c.png", 3, 3)
	idx, b = nextWithTimeout(t, s)
	if idx != 2 || b.Dx() != 3 {
		t.Errorf("third item = %d %v, want index 2 from c.png", idx, b)
	}
}

func TestSpool_RemoveAfterRead(t *testing.T) {
	dir := t.TempDir()
	dropImage(t, dir, "a.png", 1, 1)

	s := NewSpool(dir, true)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	nextWithTimeout(t, s)
	if _, err := os.Stat(filepath.Join(dir, "a.png")); !os.IsNotExist(err) {
		t.Errorf("a.png still present after read: %v", err)
	}
}

func TestSpool_CorruptImage(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.jpg"), []byte("not an image"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s := NewSpool(dir, false)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	if _, err := s.Next(context.Background()); err == nil {
		t.Fatal("Next accepted a corrupt image")
	}
}

func TestSpool_MissingDir(t *testing.T) {
	s := NewSpool(filepath.Join(t.TempDir(), "missing"), false)
	if err := s.Start(context.Background()); err == nil {
		s.Stop()
		t.Fatal("Start succeeded on a missing directory")
	}
}

func TestIsImageName(t *testing.T) {
	tests := map[string]bool{
		"a.jpg":     true,
		"A.JPEG":    true,
		"b.png":     true,
		".a.jpg":    false,
		"a.jpg.tmp": false,
		"a.txt":     false,
	}
	for name, want := range tests {
		if got := isImageName(name); got != want {
			t.Errorf("isImageName(%q) = %v, want %v", name, got, want)
		}
	}
}
