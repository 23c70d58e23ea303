package raster

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/glyphatlas/internal/cache"
)

// XImage rasterizes through golang.org/x/image/font: the character
// sequence is drawn with a font.Drawer onto a tightly cropped RGBA
// bitmap in the requested foreground color. One XImage is bound to one
// font at one size; create one per (font, size, style) combination.
//
// XImage is safe for concurrent use. Produced bitmaps are memoized per
// (sequence, foreground), so sharing one XImage across several pages or
// atlases never re-rasterizes.
type XImage struct {
	id   uint64
	size float64

	// mu guards face: font.Face is not safe for concurrent use.
	mu   sync.Mutex
	face font.Face

	bitmaps *cache.Sharded[bitmapKey, *Bitmap]
}

// NewXImage parses OpenType font data and creates a rasterizer at the
// given size in pixels.
func NewXImage(data []byte, size float64, opts ...Option) (*XImage, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("raster: failed to parse font: %w", err)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     cfg.dpi,
		Hinting: cfg.hinting,
	})
	if err != nil {
		return nil, fmt.Errorf("raster: failed to create face: %w", err)
	}

	return &XImage{
		id:      NewID(),
		size:    size,
		face:    face,
		bitmaps: cache.New[bitmapKey, *Bitmap](cfg.cacheSize, bitmapKeyHasher),
	}, nil
}

// ID implements Rasterizer.
func (x *XImage) ID() uint64 { return x.id }

// Size returns the font size in pixels.
func (x *XImage) Size() float64 { return x.size }

// Rasterize implements Rasterizer.
func (x *XImage) Rasterize(chars string, fg color.RGBA) (*Bitmap, error) {
	if chars == "" {
		return nil, ErrEmptyText
	}

	key := bitmapKey{chars: chars, fg: packRGBA(fg)}
	if bm, ok := x.bitmaps.Get(key); ok {
		return bm, nil
	}

	bm := x.render(chars, fg)
	x.bitmaps.Set(key, bm)
	return bm, nil
}

// render draws the sequence onto a fresh bitmap. The face lock is held
// for the whole measurement-and-draw pass.
func (x *XImage) render(chars string, fg color.RGBA) *Bitmap {
	x.mu.Lock()
	defer x.mu.Unlock()

	bounds, advance := font.BoundString(x.face, chars)

	minX := bounds.Min.X.Floor()
	minY := bounds.Min.Y.Floor()
	maxX := bounds.Max.X.Ceil()
	maxY := bounds.Max.Y.Ceil()

	adv := float64(advance) / 64

	// Whitespace-only sequences have no ink; the advance still matters.
	if maxX <= minX || maxY <= minY {
		return &Bitmap{Advance: adv}
	}

	dst := image.NewRGBA(image.Rect(0, 0, maxX-minX, maxY-minY))
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(fg),
		Face: x.face,
		// Shift the baseline origin so the ink lands at (0, 0).
		Dot: fixed.Point26_6{X: -bounds.Min.X, Y: -bounds.Min.Y},
	}
	d.DrawString(chars)

	return &Bitmap{
		Pix:     dst,
		Bounds:  image.Rect(minX, minY, maxX, maxY),
		Advance: adv,
	}
}
