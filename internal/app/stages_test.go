package app

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
	"time"

	"github.com/parlaynu/pi-multicapture/internal/domain"
)

// gradient returns a w x h image where pixel (x, y) has R=x and G=y.
func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}
	return img
}

func pixel(img image.Image, x, y int) (uint8, uint8) {
	c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
	return c.R, c.G
}

func TestTransform(t *testing.T) {
	tests := []struct {
		name       string
		geometry   Geometry
		wantW      int
		wantH      int
		wantOrigin [2]uint8 // R,G of the output pixel (0,0)
	}{
		{"identity", Geometry{}, 6, 4, [2]uint8{0, 0}},
		{"hflip", Geometry{HFlip: true}, 6, 4, [2]uint8{5, 0}},
		{"vflip", Geometry{VFlip: true}, 6, 4, [2]uint8{0, 3}},
		{"both", Geometry{HFlip: true, VFlip: true}, 6, 4, [2]uint8{5, 3}},
		{"centre crop", Geometry{Centre: true}, 4, 4, [2]uint8{1, 0}},
		{"centre crop hflip", Geometry{Centre: true, HFlip: true}, 4, 4, [2]uint8{4, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &domain.Item{Raw: gradient(6, 4)}
			out, err := Transform(tt.geometry)(context.Background(), item)
			if err != nil {
				t.Fatalf("Transform: %v", err)
			}
			b := out.Raw.Bounds()
			if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Fatalf("size = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
			r, g := pixel(out.Raw, b.Min.X, b.Min.Y)
			if r != tt.wantOrigin[0] || g != tt.wantOrigin[1] {
				t.Errorf("origin pixel = (%d,%d), want (%d,%d)", r, g, tt.wantOrigin[0], tt.wantOrigin[1])
			}
		})
	}
}

func TestAnnotate(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	item := &domain.Item{Index: 12}

	out, err := Annotate("cam1", "camstream", func() time.Time { return at })(context.Background(), item)
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	if out.Meta == nil || out.Meta.Camera != "cam1" || !out.Meta.CapturedAt.Equal(at) {
		t.Fatalf("Meta = %+v", out.Meta)
	}
	want := "camera=cam1;software=camstream;datetime=2024:03:01 12:30:00;index=12"
	if string(out.Tags) != want {
		t.Errorf("Tags = %q, want %q", out.Tags, want)
	}
}

func TestEncodeJPEG(t *testing.T) {
	item := &domain.Item{Raw: gradient(16, 8), Tags: []byte("camera=cam1")}

	out, err := EncodeJPEG(DefaultJPEGQuality)(context.Background(), item)
	if err != nil {
		t.Fatalf("EncodeJPEG: %v", err)
	}
	if !bytes.HasPrefix(out.Encoded, []byte{0xff, 0xd8, 0xff, 0xfe}) {
		t.Fatalf("payload does not start with SOI + COM: % x", out.Encoded[:4])
	}
	if !bytes.Contains(out.Encoded, []byte("camera=cam1")) {
		t.Error("tag block missing from payload")
	}

	img, err := jpeg.Decode(bytes.NewReader(out.Encoded))
	if err != nil {
		t.Fatalf("decode encoded payload: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 8 {
		t.Errorf("decoded size = %v", b)
	}
}

func TestEncodeJPEG_PassThroughAndMissing(t *testing.T) {
	pre := &domain.Item{Encoded: []byte("already-encoded")}
	out, err := EncodeJPEG(DefaultJPEGQuality)(context.Background(), pre)
	if err != nil {
		t.Fatalf("EncodeJPEG: %v", err)
	}
	if string(out.Encoded) != "already-encoded" {
		t.Errorf("pre-encoded payload changed to %q", out.Encoded)
	}

	if _, err := EncodeJPEG(DefaultJPEGQuality)(context.Background(), &domain.Item{}); !errors.Is(err, domain.ErrDevice) {
		t.Fatalf("empty item error = %v, want ErrDevice", err)
	}
}

func TestInsertComment_NotJPEG(t *testing.T) {
	in := []byte("not a jpeg")
	if out := insertComment(in, []byte("x")); !bytes.Equal(out, in) {
		t.Errorf("insertComment modified non-JPEG input: %q", out)
	}
}
