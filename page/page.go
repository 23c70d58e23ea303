// Package page implements a fixed-size texture page: a backing pixmap,
// a slab-packing allocator deciding where glyph bitmaps land inside it,
// and a record cache keyed by (rasterizer, character sequence,
// metadata). The atlas coordinator owns an ordered list of pages and
// routes requests to them; a page never talks to its siblings.
package page

import (
	"fmt"
	"image"
	"image/draw"
	"sync"
	"sync/atomic"

	"github.com/gogpu/glyphatlas/glyph"
	"github.com/gogpu/glyphatlas/raster"
)

// DefaultPadding is the spacing between packed glyphs, in pixels.
// One pixel prevents sampler bleed between neighboring glyphs.
const DefaultPadding = 1

// Page is one fixed-size backing texture plus its packing state.
// The backing store is a CPU pixmap; uploading it to the GPU is the
// host's concern, with Record regions as the stable handles.
//
// Page is safe for concurrent use.
type Page struct {
	index    int
	size     int
	strategy string

	mu      sync.RWMutex
	alloc   *slabAllocator
	pix     *image.RGBA
	records map[glyph.Key]*glyph.Record

	released bool

	hits   atomic.Uint64
	misses atomic.Uint64
}

// New creates an empty size×size page. The strategy tag names the
// packing algorithm for diagnostics; "slab" is the only strategy
// implemented.
func New(index, size int, strategy string) *Page {
	return &Page{
		index:    index,
		size:     size,
		strategy: strategy,
		alloc:    newSlabAllocator(size, DefaultPadding),
		pix:      image.NewRGBA(image.Rect(0, 0, size, size)),
		records:  make(map[glyph.Key]*glyph.Record, 256),
	}
}

// Index returns the page's position in the atlas page list.
func (p *Page) Index() int { return p.index }

// Size returns the side length of the square backing texture.
func (p *Page) Size() int { return p.size }

// GetGlyph returns the cached record for the request, or rasterizes
// and packs a new one. The rasterization happens under the page lock
// so concurrent misses for the same key do not duplicate work.
func (p *Page) GetGlyph(r raster.Rasterizer, req glyph.Request) (*glyph.Record, error) {
	if r == nil {
		return nil, ErrNilRasterizer
	}

	key := req.Key(r.ID())

	p.mu.RLock()
	if p.released {
		p.mu.RUnlock()
		return nil, ErrPageReleased
	}
	if rec, ok := p.records[key]; ok {
		p.mu.RUnlock()
		p.hits.Add(1)
		return rec, nil
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.released {
		return nil, ErrPageReleased
	}
	// Re-check: another goroutine may have packed it meanwhile.
	if rec, ok := p.records[key]; ok {
		p.hits.Add(1)
		return rec, nil
	}
	p.misses.Add(1)

	bm, err := r.Rasterize(req.Chars, req.FG)
	if err != nil {
		return nil, err
	}

	rec := &glyph.Record{
		PageIndex: p.index,
		Meta:      req.Meta,
		Advance:   bm.Advance,
	}

	if !bm.Empty() {
		b := bm.Pix.Bounds()
		region := p.alloc.allocate(b.Dx(), b.Dy())
		if !region.IsValid() {
			return nil, fmt.Errorf("page %d: %w", p.index, ErrPageFull)
		}
		dst := image.Rect(region.X, region.Y, region.X+region.Width, region.Y+region.Height)
		draw.Draw(p.pix, dst, bm.Pix, b.Min, draw.Src)
		rec.Region = region
	}

	p.records[key] = rec
	return rec, nil
}

// UsagePreview returns a copy of the backing pixmap for diagnostics.
// Returns nil after Release.
func (p *Page) UsagePreview() *image.RGBA {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.released {
		return nil
	}
	out := image.NewRGBA(p.pix.Bounds())
	copy(out.Pix, p.pix.Pix)
	return out
}

// Stats returns a one-line textual summary of the page.
func (p *Page) Stats() string {
	p.mu.RLock()
	count := len(p.records)
	utilization := p.alloc.utilization()
	p.mu.RUnlock()

	return fmt.Sprintf("page %d (%s, %dx%d): %d glyphs, %d hits, %d misses, %.1f%% full",
		p.index, p.strategy, p.size, p.size,
		count, p.hits.Load(), p.misses.Load(), utilization*100)
}

// GlyphCount returns the number of cached records.
func (p *Page) GlyphCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.records)
}

// Utilization returns the fraction of texture area holding glyphs.
func (p *Page) Utilization() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.alloc.utilization()
}

// Release frees the backing pixmap and record cache. Release is
// idempotent; subsequent GetGlyph calls return ErrPageReleased.
func (p *Page) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.released {
		return
	}
	p.released = true
	p.pix = nil
	p.records = nil
	p.alloc = nil
}
