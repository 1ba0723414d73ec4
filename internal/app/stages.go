package app

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"time"

	"github.com/parlaynu/pi-multicapture/internal/domain"
)

// Stage transforms one item. A stage returns exactly one item per call.
type Stage func(ctx context.Context, item *domain.Item) (*domain.Item, error)

// DefaultJPEGQuality matches the quality used by the reference cameras.
const DefaultJPEGQuality = 95

// Geometry selects the flips and crop applied to raw images.
type Geometry struct {
	HFlip  bool
	VFlip  bool
	Centre bool // crop the centre square
}

// IsIdentity reports whether the geometry leaves images untouched.
func (g Geometry) IsIdentity() bool {
	return !g.HFlip && !g.VFlip && !g.Centre
}

// Transform returns a stage applying g to the raw image.
func Transform(g Geometry) Stage {
	return func(ctx context.Context, item *domain.Item) (*domain.Item, error) {
		if g.IsIdentity() || !item.HasRaw() {
			return item, nil
		}
		item.Raw = transformImage(item.Raw, g)
		return item, nil
	}
}

func transformImage(src image.Image, g Geometry) *image.RGBA {
	crop := src.Bounds()
	if g.Centre {
		side := min(crop.Dx(), crop.Dy())
		x0 := crop.Min.X + (crop.Dx()-side)/2
		y0 := crop.Min.Y + (crop.Dy()-side)/2
		crop = image.Rect(x0, y0, x0+side, y0+side)
	}

	w, h := crop.Dx(), crop.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		sy := crop.Min.Y + y
		if g.VFlip {
			sy = crop.Max.Y - 1 - y
		}
		for x := 0; x < w; x++ {
			sx := crop.Min.X + x
			if g.HFlip {
				sx = crop.Max.X - 1 - x
			}
			dst.Set(x, y, src.At(sx, sy))
		}
	}
	return dst
}

// Annotate returns a stage that records capture metadata and builds the tag
// block embedded by the encoder.
func Annotate(camera, software string, now func() time.Time) Stage {
	if now == nil {
		now = time.Now
	}
	return func(ctx context.Context, item *domain.Item) (*domain.Item, error) {
		meta := &domain.Metadata{
			Camera:     camera,
			Software:   software,
			CapturedAt: now(),
		}
		item.Meta = meta
		item.Tags = []byte(fmt.Sprintf("camera=%s;software=%s;datetime=%s;index=%d",
			meta.Camera, meta.Software, meta.CapturedAt.Format("2006:01:02 15:04:05"), item.Index))
		return item, nil
	}
}

// maxCommentLen is the largest payload a JPEG COM segment can carry.
const maxCommentLen = 0xffff - 2

// EncodeJPEG returns a stage that encodes the raw image. Items that arrive
// already encoded and without a raw image pass through unchanged.
func EncodeJPEG(quality int) Stage {
	return func(ctx context.Context, item *domain.Item) (*domain.Item, error) {
		if !item.HasRaw() {
			if item.HasEncoded() {
				return item, nil
			}
			return nil, fmt.Errorf("%w: item %d has no image", domain.ErrDevice, item.Index)
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, item.Raw, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("%w: encode item %d: %v", domain.ErrDevice, item.Index, err)
		}

		encoded := buf.Bytes()
		if len(item.Tags) > 0 {
			encoded = insertComment(encoded, item.Tags)
		}
		item.Encoded = encoded
		return item, nil
	}
}

// insertComment places a COM segment directly after the SOI marker.
func insertComment(jpg, comment []byte) []byte {
	if len(jpg) < 2 || jpg[0] != 0xff || jpg[1] != 0xd8 {
		return jpg
	}
	if len(comment) > maxCommentLen {
		comment = comment[:maxCommentLen]
	}
	n := len(comment) + 2

	out := make([]byte, 0, len(jpg)+n+2)
	out = append(out, 0xff, 0xd8)
	out = append(out, 0xff, 0xfe, byte(n>>8), byte(n))
	out = append(out, comment...)
	return append(out, jpg[2:]...)
}
