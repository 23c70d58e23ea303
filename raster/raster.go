// Package raster turns character sequences into colored glyph bitmaps
// ready for atlas packing. Two backends are provided: XImage draws
// through golang.org/x/image/font, and Shaped runs HarfBuzz shaping via
// go-text/typesetting before filling glyph outlines, which handles
// ligatures and complex scripts.
//
// Every rasterizer carries a stable process-unique identity so caches
// can partition their entries per rasterizer without inspecting its
// configuration.
package raster

import (
	"errors"
	"image"
	"image/color"
	"sync/atomic"

	"golang.org/x/image/font"

	"github.com/gogpu/glyphatlas/internal/cache"
)

// Sentinel errors for the raster package.
var (
	// ErrEmptyText is returned when the character sequence is empty.
	ErrEmptyText = errors.New("raster: empty character sequence")

	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("raster: empty font data")
)

// Rasterizer produces glyph bitmaps. Implementations are safe for
// concurrent use.
type Rasterizer interface {
	// ID is a stable process-unique identity, used by caches as a
	// partition key. Two rasterizers never share an ID, even when
	// configured identically.
	ID() uint64

	// Rasterize renders the character sequence in the given foreground
	// color. The returned bitmap is shared and must not be modified.
	Rasterize(chars string, fg color.RGBA) (*Bitmap, error)
}

// Bitmap is a rasterized character sequence.
type Bitmap struct {
	// Pix holds the premultiplied color pixels, tightly cropped.
	// Nil for whitespace-only sequences.
	Pix *image.RGBA

	// Bounds places the bitmap relative to the baseline origin:
	// Min.Y is negative for glyphs rising above the baseline.
	Bounds image.Rectangle

	// Advance is the horizontal cursor advance in pixels.
	Advance float64
}

// Empty returns true if the bitmap carries no pixels.
func (b *Bitmap) Empty() bool {
	return b == nil || b.Pix == nil || b.Pix.Bounds().Empty()
}

// nextID allocates rasterizer identities.
var nextID atomic.Uint64

// NewID returns a fresh rasterizer identity. Backends call this at
// construction; custom Rasterizer implementations should too.
func NewID() uint64 {
	return nextID.Add(1)
}

// Option configures a rasterizer backend.
type Option func(*config)

// config holds backend configuration shared by XImage and Shaped.
type config struct {
	dpi       float64
	hinting   font.Hinting
	cacheSize int
}

// defaultConfig returns the default backend configuration.
func defaultConfig() config {
	return config{
		dpi:       72,
		hinting:   font.HintingFull,
		cacheSize: 0, // internal/cache default
	}
}

// WithDPI sets the rendering resolution in dots per inch. Default: 72.
func WithDPI(dpi float64) Option {
	return func(c *config) {
		if dpi > 0 {
			c.dpi = dpi
		}
	}
}

// WithHinting sets the hinting mode. Default: font.HintingFull.
// Only the XImage backend applies hinting.
func WithHinting(h font.Hinting) Option {
	return func(c *config) {
		c.hinting = h
	}
}

// WithCacheSize sets the per-shard capacity of the bitmap memo cache.
// Values <= 0 select the internal default.
func WithCacheSize(n int) Option {
	return func(c *config) {
		c.cacheSize = n
	}
}

// bitmapKey memoizes rasterized bitmaps per (sequence, foreground).
type bitmapKey struct {
	chars string
	fg    uint32
}

func packRGBA(c color.RGBA) uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)
}

func bitmapKeyHasher(k bitmapKey) uint64 {
	return cache.StringHasher(k.chars)*31 + uint64(k.fg)
}
