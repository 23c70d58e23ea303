package page

import "errors"

// Sentinel errors for the page package.
var (
	// ErrPageFull is returned when the page cannot fit a new glyph.
	// No eviction occurs: records are handles into the page's pixel
	// storage, so reclaiming one would invalidate issued handles.
	ErrPageFull = errors.New("page: texture page is full")

	// ErrPageReleased is returned when operating on a released page.
	ErrPageReleased = errors.New("page: texture page is released")

	// ErrNilRasterizer is returned when GetGlyph is called without a
	// rasterizer.
	ErrNilRasterizer = errors.New("page: nil rasterizer")
)
