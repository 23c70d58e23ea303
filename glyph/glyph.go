// Package glyph defines the shared value types of the atlas pipeline:
// the metadata bitfield attached to glyph requests, the cache key pages
// index records by, the rectangular atlas region a record occupies, and
// the record handle returned to renderers.
package glyph

import (
	"fmt"
	"image/color"
)

// Metadata is an integer bitfield encoding rendering attributes of a
// glyph request. The foreground color index occupies the low bits; the
// remaining bits are reserved for future attributes (style flags and
// the like) and must be zero.
//
// Records are keyed by their full Metadata value, so two requests with
// different foreground indices produce two distinct cache entries.
type Metadata uint32

// Bit layout of Metadata.
const (
	// FGIndexShift is the bit offset of the foreground color index.
	FGIndexShift = 0

	// FGIndexMask selects the foreground color index (8 bits, palette
	// indices 0-255).
	FGIndexMask Metadata = 0xFF << FGIndexShift
)

// FGIndex returns the foreground color index encoded in the metadata.
func (m Metadata) FGIndex() int {
	return int((m & FGIndexMask) >> FGIndexShift)
}

// WithFGIndex returns a copy of the metadata with the foreground color
// index replaced. Indices outside 0-255 are truncated to the mask.
func (m Metadata) WithFGIndex(i int) Metadata {
	return (m &^ FGIndexMask) | (Metadata(i) << FGIndexShift & FGIndexMask)
}

// Key uniquely identifies a cached glyph record within a page.
// All request parameters that affect the rasterized result are included.
type Key struct {
	// RasterizerID partitions the cache per rasterizer identity.
	RasterizerID uint64

	// Chars is the character sequence the glyph renders.
	Chars string

	// Meta is the full metadata bitfield of the request.
	Meta Metadata
}

// Region is a rectangular area inside a page's backing texture.
// A zero Region means the glyph produced no pixels (whitespace).
type Region struct {
	// X is the left edge of the region.
	X int
	// Y is the top edge of the region.
	Y int
	// Width is the region width.
	Width int
	// Height is the region height.
	Height int
}

// IsValid returns true if the region has positive dimensions.
func (r Region) IsValid() bool {
	return r.Width > 0 && r.Height > 0
}

// Contains returns true if the point (x, y) is inside the region.
func (r Region) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// String returns a string representation of the region.
func (r Region) String() string {
	return fmt.Sprintf("Region(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}

// Record is the handle a page returns for a cached glyph. It describes
// where the glyph's pixels live and how far the cursor advances after
// drawing it. Records are read-only to callers; their lifetime is tied
// to the owning page's packing state.
type Record struct {
	// PageIndex is the index of the page holding the pixels.
	PageIndex int

	// Region is the occupied area inside the page texture.
	// Zero for whitespace-only glyphs.
	Region Region

	// Meta is the metadata the record was produced under.
	Meta Metadata

	// Advance is the horizontal cursor advance in pixels.
	Advance float64
}

// Request is a glyph request with the foreground color already resolved
// against the active color table. The coordinator constructs one per
// lookup; pages key their caches by (rasterizer, Chars, Meta) and hand
// FG to the rasterizer on a miss.
type Request struct {
	// Chars is the character sequence to rasterize.
	Chars string

	// Meta is the originating metadata bitfield.
	Meta Metadata

	// FG is the foreground color resolved from Meta's color index.
	FG color.RGBA
}

// Key returns the page cache key for this request under the given
// rasterizer identity.
func (q Request) Key(rasterizerID uint64) Key {
	return Key{RasterizerID: rasterizerID, Chars: q.Chars, Meta: q.Meta}
}
