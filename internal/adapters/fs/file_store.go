package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/parlaynu/pi-multicapture/internal/domain"
)

// FileStore implements ports.FrameStore by writing one file per frame under
// a directory per peer.
type FileStore struct {
	dir string
}

// NewFileStore creates a new FileStore rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the output root.
func (s *FileStore) Dir() string {
	return s.dir
}

// Path returns <dir>/<peer>/image_<index>.jpg with the index zero-padded to
// four digits.
func (s *FileStore) Path(peer string, index uint64) string {
	return filepath.Join(s.dir, peer, fmt.Sprintf("image_%04d.jpg", index))
}

// Store writes payload verbatim, creating the peer directory if needed and
// truncating any existing file at the same path.
func (s *FileStore) Store(peer string, index uint64, payload []byte) (string, error) {
	if err := checkPeer(peer); err != nil {
		return "", err
	}

	peerDir := filepath.Join(s.dir, peer)
	if err := os.MkdirAll(peerDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create %s: %v", domain.ErrStorage, peerDir, err)
	}

	path := s.Path(peer, index)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("%w: write %s: %v", domain.ErrStorage, path, err)
	}
	return path, nil
}

// checkPeer keeps a peer name from resolving outside the output root.
func checkPeer(peer string) error {
	if peer == "" || peer == "." || peer == ".." ||
		strings.ContainsAny(peer, `/\`) || strings.IndexByte(peer, 0) >= 0 {
		return fmt.Errorf("%w: peer name %q is not a valid directory name", domain.ErrStorage, peer)
	}
	return nil
}
