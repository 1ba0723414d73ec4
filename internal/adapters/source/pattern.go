package source

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"time"

	"github.com/parlaynu/pi-multicapture/internal/domain"
)

// Pattern is a synthetic capture device. Each frame shows a vertical bar
// that advances by one step per frame.
type Pattern struct {
	width  int
	height int
	fps    int

	mu     sync.Mutex
	ticker *time.Ticker
	next   uint64
}

// NewPattern creates a pattern source. fps <= 0 produces frames as fast as
// they are requested.
func NewPattern(width, height, fps int) *Pattern {
	return &Pattern{width: width, height: height, fps: fps}
}

// Start resets the sequence index and starts the frame clock.
func (p *Pattern) Start(ctx context.Context) error {
	if p.width <= 0 || p.height <= 0 {
		return errors.New("pattern: width and height must be positive")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.next = 0
	if p.fps > 0 {
		p.ticker = time.NewTicker(time.Second / time.Duration(p.fps))
	}
	return nil
}

// Next waits for the next frame tick and renders the frame.
func (p *Pattern) Next(ctx context.Context) (*domain.Item, error) {
	p.mu.Lock()
	ticker := p.ticker
	p.mu.Unlock()

	if ticker != nil {
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	idx := p.next
	p.next++
	p.mu.Unlock()

	return &domain.Item{Index: idx, Raw: p.render(idx)}, nil
}

// Stop halts the frame clock.
func (p *Pattern) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ticker != nil {
		p.ticker.Stop()
		p.ticker = nil
	}
	return nil
}

func (p *Pattern) render(idx uint64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	barW := max(p.width/16, 1)
	barX := int(idx%16) * barW

	for y := 0; y < p.height; y++ {
		shade := uint8(y * 255 / p.height)
		for x := 0; x < p.width; x++ {
			c := color.RGBA{R: shade, G: uint8(x * 255 / p.width), B: 128, A: 255}
			if x >= barX && x < barX+barW {
				c = color.RGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}
