package page

import "github.com/gogpu/glyphatlas/glyph"

// shelf is one horizontal band of the slab-packing layout.
type shelf struct {
	y      int // top Y coordinate
	height int // band height (tallest item so far)
	nextX  int // next free X position
}

// slabAllocator packs rectangles into a fixed square area using
// horizontal shelves: each new rectangle goes on the first shelf it
// fits on, or opens a new shelf below the last one. Glyph bitmaps of
// one font size cluster into a few shelf heights, which keeps waste
// low and makes allocation O(shelves).
//
// The allocator is not goroutine-safe; the owning Page serializes
// access.
type slabAllocator struct {
	size    int // square side length
	padding int // spacing between items and shelves

	shelves []*shelf

	allocCount int
	usedArea   int
}

func newSlabAllocator(size, padding int) *slabAllocator {
	if padding < 0 {
		padding = 0
	}
	return &slabAllocator{
		size:    size,
		padding: padding,
		shelves: make([]*shelf, 0, 16),
	}
}

// allocate finds space for a width×height rectangle. The returned
// region is invalid if the rectangle cannot be placed.
func (a *slabAllocator) allocate(width, height int) glyph.Region {
	if width <= 0 || height <= 0 {
		return glyph.Region{}
	}

	paddedW := width + a.padding
	paddedH := height + a.padding

	if paddedW > a.size || paddedH > a.size {
		return glyph.Region{}
	}

	for _, s := range a.shelves {
		if a.fits(s, paddedW, paddedH) {
			return a.place(s, width, height, paddedW)
		}
	}

	return a.openShelf(width, height, paddedW, paddedH)
}

// fits reports whether a padded rectangle fits on the shelf. A shelf
// can only grow taller while it is still empty.
func (a *slabAllocator) fits(s *shelf, paddedW, paddedH int) bool {
	if s.nextX+paddedW > a.size {
		return false
	}
	if paddedH > s.height && s.nextX > 0 {
		return false
	}
	return true
}

func (a *slabAllocator) place(s *shelf, width, height, paddedW int) glyph.Region {
	region := glyph.Region{X: s.nextX, Y: s.y, Width: width, Height: height}

	s.nextX += paddedW
	if height+a.padding > s.height {
		s.height = height + a.padding
	}

	a.allocCount++
	a.usedArea += width * height
	return region
}

func (a *slabAllocator) openShelf(width, height, paddedW, paddedH int) glyph.Region {
	newY := 0
	if n := len(a.shelves); n > 0 {
		last := a.shelves[n-1]
		newY = last.y + last.height
	}

	if newY+paddedH > a.size {
		return glyph.Region{}
	}

	a.shelves = append(a.shelves, &shelf{
		y:      newY,
		height: paddedH,
		nextX:  paddedW,
	})

	a.allocCount++
	a.usedArea += width * height
	return glyph.Region{X: 0, Y: newY, Width: width, Height: height}
}

// utilization returns the fraction of area holding glyph pixels.
func (a *slabAllocator) utilization() float64 {
	total := a.size * a.size
	if total == 0 {
		return 0
	}
	return float64(a.usedArea) / float64(total)
}
