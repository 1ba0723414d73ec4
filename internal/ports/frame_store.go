package ports

// FrameStore persists received frames.
type FrameStore interface {
	// Store writes payload for (peer, index), replacing any previous content,
	// and returns the path written.
	Store(peer string, index uint64, payload []byte) (string, error)
}
