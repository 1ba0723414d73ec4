package domain

import (
	"image"
	"time"
)

// Metadata describes how and when an image was captured.
type Metadata struct {
	// Camera identifies the capture device (e.g. the node name or sensor id).
	Camera string

	// Software names the program that produced the image.
	Software string

	// CapturedAt is the wall-clock capture time.
	CapturedAt time.Time
}

// Item is the record that flows through the producer pipeline.
// Each stage populates the fields it owns; a nil field is absent.
type Item struct {
	// Index is the sequence number assigned by the source.
	Index uint64

	// Raw is the decoded image, set by the source.
	Raw image.Image

	// Meta is set by the annotate stage.
	Meta *Metadata

	// Tags is the serialized metadata block embedded in the encoded image.
	Tags []byte

	// Encoded is the final payload, set by the encode stage.
	Encoded []byte
}

// HasRaw reports whether the raw image is present.
func (it *Item) HasRaw() bool { return it.Raw != nil }

// HasEncoded reports whether the encoded payload is present.
func (it *Item) HasEncoded() bool { return it.Encoded != nil }
