package source

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/parlaynu/pi-multicapture/internal/domain"
)

// Spool yields images dropped into a directory by an external capture tool.
//
// Writers must create the file under a hidden or .tmp name and rename it into
// place, so that the Create event only fires for complete images. Files
// present when the source starts are yielded first, in name order.
type Spool struct {
	dir    string
	remove bool

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	pending []string
	next    uint64
}

// NewSpool creates a spool source over dir. If remove is set, each image is
// deleted once it has been read.
func NewSpool(dir string, remove bool) *Spool {
	return &Spool{dir: dir, remove: remove}
}

// Start begins watching the directory and queues any existing images.
func (s *Spool) Start(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("spool: create watcher: %w", err)
	}
	if err := w.Add(s.dir); err != nil {
		w.Close()
		return fmt.Errorf("spool: watch %s: %w", s.dir, err)
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		w.Close()
		return fmt.Errorf("spool: list %s: %w", s.dir, err)
	}
	var backlog []string
	for _, e := range entries {
		if !e.IsDir() && isImageName(e.Name()) {
			backlog = append(backlog, filepath.Join(s.dir, e.Name()))
		}
	}
	sort.Strings(backlog)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.watcher = w
	s.pending = backlog
	s.next = 0
	return nil
}

// Next returns the next image, blocking until one arrives.
func (s *Spool) Next(ctx context.Context) (*domain.Item, error) {
	for {
		s.mu.Lock()
		w := s.watcher
		var path string
		if len(s.pending) > 0 {
			path = s.pending[0]
			s.pending = s.pending[1:]
		}
		s.mu.Unlock()

		if w == nil {
			return nil, fmt.Errorf("spool: not started")
		}
		if path != "" {
			return s.read(path)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case event, ok := <-w.Events:
			if !ok {
				return nil, fmt.Errorf("spool: watcher closed")
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !isImageName(filepath.Base(event.Name)) {
				continue
			}
			s.mu.Lock()
			s.pending = append(s.pending, event.Name)
			s.mu.Unlock()

		case err, ok := <-w.Errors:
			if !ok {
				return nil, fmt.Errorf("spool: watcher closed")
			}
			return nil, fmt.Errorf("spool: watch %s: %w", s.dir, err)
		}
	}
}

// Stop stops watching the directory.
func (s *Spool) Stop() error {
	s.mu.Lock()
	w := s.watcher
	s.watcher = nil
	s.pending = nil
	s.mu.Unlock()

	if w == nil {
		return nil
	}
	return w.Close()
}

func (s *Spool) read(path string) (*domain.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("spool: open %s: %w", path, err)
	}
	img, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("spool: decode %s: %w", path, err)
	}

	if s.remove {
		if err := os.Remove(path); err != nil {
			return nil, fmt.Errorf("spool: remove %s: %w", path, err)
		}
	}

	s.mu.Lock()
	idx := s.next
	s.next++
	s.mu.Unlock()

	return &domain.Item{Index: idx, Raw: img}, nil
}

func isImageName(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}
