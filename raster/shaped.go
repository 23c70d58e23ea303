package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
	"golang.org/x/text/unicode/bidi"

	"github.com/gogpu/glyphatlas/internal/cache"
)

// Shaped rasterizes through HarfBuzz shaping: the character sequence is
// shaped with go-text/typesetting (ligatures, kerning, complex scripts,
// right-to-left runs), then each positioned glyph's outline is loaded
// from the font and filled with a scanline rasterizer in the requested
// foreground color. Use it when cell contents can be multi-codepoint
// sequences; for plain ASCII the XImage backend is cheaper.
//
// Shaped handles horizontal text only.
//
// Shaped is safe for concurrent use. HarfbuzzShaper instances are
// pooled since they carry mutable state; the parsed fonts are read-only
// and shared. Produced bitmaps are memoized per (sequence, foreground).
type Shaped struct {
	id   uint64
	size float64
	ppem fixed.Int26_6

	shapeFont   *font.Font // go-text font, drives shaping
	outlineFont *sfnt.Font // same data via x/image, drives outlines

	// shaperPool pools HarfbuzzShaper instances; they are not safe for
	// concurrent use but cheap to reuse sequentially.
	shaperPool sync.Pool

	bitmaps *cache.Sharded[bitmapKey, *Bitmap]
}

// NewShaped parses OpenType font data and creates a shaping rasterizer
// at the given size in pixels.
func NewShaped(data []byte, size float64, opts ...Option) (*Shaped, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("raster: failed to parse font for shaping: %w", err)
	}

	outline, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("raster: failed to parse font outlines: %w", err)
	}

	return &Shaped{
		id:          NewID(),
		size:        size,
		ppem:        fixed.Int26_6(size * cfg.dpi / 72 * 64),
		shapeFont:   face.Font,
		outlineFont: outline,
		shaperPool: sync.Pool{
			New: func() any { return &shaping.HarfbuzzShaper{} },
		},
		bitmaps: cache.New[bitmapKey, *Bitmap](cfg.cacheSize, bitmapKeyHasher),
	}, nil
}

// ID implements Rasterizer.
func (s *Shaped) ID() uint64 { return s.id }

// Size returns the font size in pixels.
func (s *Shaped) Size() float64 { return s.size }

// Rasterize implements Rasterizer.
func (s *Shaped) Rasterize(chars string, fg color.RGBA) (*Bitmap, error) {
	if chars == "" {
		return nil, ErrEmptyText
	}

	key := bitmapKey{chars: chars, fg: packRGBA(fg)}
	if bm, ok := s.bitmaps.Get(key); ok {
		return bm, nil
	}

	bm := s.render(chars, fg)
	s.bitmaps.Set(key, bm)
	return bm, nil
}

// placedGlyph is one shaped glyph's outline with its pen offset, both
// in 26.6 fixed point with y growing downward.
type placedGlyph struct {
	segs   sfnt.Segments
	dx, dy fixed.Int26_6
}

// render shapes the sequence and fills the outlines into a bitmap.
func (s *Shaped) render(chars string, fg color.RGBA) *Bitmap {
	runes := []rune(chars)

	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: detectDirection(chars),
		// font.Face is not safe for concurrent use; wrap the shared
		// read-only Font per call, as creating a Face is cheap.
		Face:     font.NewFace(s.shapeFont),
		Size:     s.ppem,
		Script:   detectScript(runes),
		Language: language.NewLanguage("en"),
	}

	shaper := s.shaperPool.Get().(*shaping.HarfbuzzShaper)
	out := shaper.Shape(input)
	s.shaperPool.Put(shaper)

	var (
		buf    sfnt.Buffer
		placed []placedGlyph
		penX   fixed.Int26_6
		found  bool

		minX, minY fixed.Int26_6
		maxX, maxY fixed.Int26_6
	)

	for _, g := range out.Glyphs {
		dx := penX + g.XOffset
		dy := -g.YOffset
		penX += g.Advance

		segs, err := s.outlineFont.LoadGlyph(&buf, sfnt.GlyphIndex(g.GlyphID), s.ppem, nil)
		if err != nil || len(segs) == 0 {
			continue
		}

		// Segments may alias the sfnt buffer; copy before the next load.
		own := make(sfnt.Segments, len(segs))
		copy(own, segs)

		for _, seg := range own {
			for i := 0; i < segmentPoints(seg.Op); i++ {
				x := seg.Args[i].X + dx
				y := seg.Args[i].Y + dy
				if !found {
					minX, maxX = x, x
					minY, maxY = y, y
					found = true
					continue
				}
				if x < minX {
					minX = x
				}
				if x > maxX {
					maxX = x
				}
				if y < minY {
					minY = y
				}
				if y > maxY {
					maxY = y
				}
			}
		}

		placed = append(placed, placedGlyph{segs: own, dx: dx, dy: dy})
	}

	adv := float64(penX) / 64
	if !found {
		return &Bitmap{Advance: adv}
	}

	bx0, by0 := minX.Floor(), minY.Floor()
	bx1, by1 := maxX.Ceil(), maxY.Ceil()

	z := vector.NewRasterizer(bx1-bx0, by1-by0)
	for _, pg := range placed {
		fillSegments(z, pg, bx0, by0)
	}

	dst := image.NewRGBA(image.Rect(0, 0, bx1-bx0, by1-by0))
	z.Draw(dst, dst.Bounds(), image.NewUniform(fg), image.Point{})

	return &Bitmap{
		Pix:     dst,
		Bounds:  image.Rect(bx0, by0, bx1, by1),
		Advance: adv,
	}
}

// fillSegments replays one glyph's outline into the scanline
// rasterizer, translated so the bitmap's top-left corner is (0, 0).
func fillSegments(z *vector.Rasterizer, pg placedGlyph, bx0, by0 int) {
	tx := func(v fixed.Int26_6) float32 {
		return float32(v+pg.dx)/64 - float32(bx0)
	}
	ty := func(v fixed.Int26_6) float32 {
		return float32(v+pg.dy)/64 - float32(by0)
	}

	open := false
	for _, seg := range pg.segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if open {
				z.ClosePath()
			}
			z.MoveTo(tx(seg.Args[0].X), ty(seg.Args[0].Y))
			open = true
		case sfnt.SegmentOpLineTo:
			z.LineTo(tx(seg.Args[0].X), ty(seg.Args[0].Y))
		case sfnt.SegmentOpQuadTo:
			z.QuadTo(
				tx(seg.Args[0].X), ty(seg.Args[0].Y),
				tx(seg.Args[1].X), ty(seg.Args[1].Y),
			)
		case sfnt.SegmentOpCubeTo:
			z.CubeTo(
				tx(seg.Args[0].X), ty(seg.Args[0].Y),
				tx(seg.Args[1].X), ty(seg.Args[1].Y),
				tx(seg.Args[2].X), ty(seg.Args[2].Y),
			)
		}
	}
	if open {
		z.ClosePath()
	}
}

// segmentPoints returns the number of meaningful points in a segment.
func segmentPoints(op sfnt.SegmentOp) int {
	switch op {
	case sfnt.SegmentOpQuadTo:
		return 2
	case sfnt.SegmentOpCubeTo:
		return 3
	default:
		return 1
	}
}

// detectScript inspects the runes and returns the script of the first
// non-space character. For mixed-script sequences, the first script
// wins; terminal cells rarely mix scripts.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

// detectDirection runs bidi paragraph analysis and returns the shaping
// direction of the sequence's first run.
func detectDirection(chars string) di.Direction {
	p := bidi.Paragraph{}
	if _, err := p.SetString(chars, bidi.DefaultDirection(bidi.Neutral)); err != nil {
		return di.DirectionLTR
	}
	ordering, err := p.Order()
	if err != nil || ordering.NumRuns() == 0 {
		return di.DirectionLTR
	}
	run := ordering.Run(0)
	if run.Direction() == bidi.RightToLeft {
		return di.DirectionRTL
	}
	return di.DirectionLTR
}
