package glyphatlas

import "errors"

// Sentinel errors for the glyphatlas package.
var (
	// ErrAtlasClosed is returned when operating on a closed atlas.
	ErrAtlasClosed = errors.New("glyphatlas: atlas is closed")

	// ErrNilRasterizer is returned when GetGlyph is called without a
	// rasterizer.
	ErrNilRasterizer = errors.New("glyphatlas: nil rasterizer")

	// ErrInvalidMaxTextureSize is returned by New when the hardware
	// texture limit is missing or not positive.
	ErrInvalidMaxTextureSize = errors.New("glyphatlas: max texture size must be positive")
)
