// Package theme supplies the ordered color table glyph metadata indexes
// into, and change notification when the active scheme is replaced.
package theme

import (
	"image/color"
	"sync"
)

// Source provides the current color table and change notification.
// Colors returns the table in index order; implementations return a
// copy the caller may hold without synchronization. Subscribe registers
// a change callback and returns a cancel func that unregisters it.
type Source interface {
	Colors() []color.RGBA
	Subscribe(fn func()) (cancel func())
}

// Static is a Source whose palette never changes.
type Static struct {
	colors []color.RGBA
}

// NewStatic creates a fixed-palette source. The slice is copied.
func NewStatic(colors []color.RGBA) *Static {
	return &Static{colors: cloneColors(colors)}
}

// Colors returns a copy of the palette.
func (s *Static) Colors() []color.RGBA {
	return cloneColors(s.colors)
}

// Subscribe is a no-op for a static palette; the callback never fires.
func (s *Static) Subscribe(fn func()) (cancel func()) {
	return func() {}
}

// Broadcaster is a Source with a settable palette. Set replaces the
// table wholesale and notifies every subscriber synchronously.
// Broadcaster is safe for concurrent use.
type Broadcaster struct {
	mu     sync.RWMutex
	colors []color.RGBA
	subs   map[int]func()
	nextID int
}

// NewBroadcaster creates a settable source with the given initial
// palette. The slice is copied.
func NewBroadcaster(initial []color.RGBA) *Broadcaster {
	return &Broadcaster{
		colors: cloneColors(initial),
		subs:   make(map[int]func()),
	}
}

// Colors returns a copy of the current palette.
func (b *Broadcaster) Colors() []color.RGBA {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return cloneColors(b.colors)
}

// Set replaces the palette and notifies subscribers. The slice is
// copied, so the table is never partially updated: a reader sees either
// the previous palette in full or the new one in full.
func (b *Broadcaster) Set(colors []color.RGBA) {
	b.mu.Lock()
	b.colors = cloneColors(colors)
	fns := make([]func(), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	// Callbacks run without the lock so they can call Colors.
	for _, fn := range fns {
		fn()
	}
}

// Subscribe registers a change callback. The returned cancel func
// removes it; cancelling twice is harmless.
func (b *Broadcaster) Subscribe(fn func()) (cancel func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// DefaultPalette returns the conventional 16 ANSI terminal colors:
// 8 normal followed by 8 bright, index order matching the usual
// foreground color numbering.
func DefaultPalette() []color.RGBA {
	return []color.RGBA{
		{R: 0x00, G: 0x00, B: 0x00, A: 0xFF}, // black
		{R: 0xCD, G: 0x31, B: 0x31, A: 0xFF}, // red
		{R: 0x0D, G: 0xBC, B: 0x79, A: 0xFF}, // green
		{R: 0xE5, G: 0xE5, B: 0x10, A: 0xFF}, // yellow
		{R: 0x24, G: 0x72, B: 0xC8, A: 0xFF}, // blue
		{R: 0xBC, G: 0x3F, B: 0xBC, A: 0xFF}, // magenta
		{R: 0x11, G: 0xA8, B: 0xCD, A: 0xFF}, // cyan
		{R: 0xE5, G: 0xE5, B: 0xE5, A: 0xFF}, // white
		{R: 0x66, G: 0x66, B: 0x66, A: 0xFF}, // bright black
		{R: 0xF1, G: 0x4C, B: 0x4C, A: 0xFF}, // bright red
		{R: 0x23, G: 0xD1, B: 0x8B, A: 0xFF}, // bright green
		{R: 0xF5, G: 0xF5, B: 0x43, A: 0xFF}, // bright yellow
		{R: 0x3B, G: 0x8E, B: 0xEA, A: 0xFF}, // bright blue
		{R: 0xD6, G: 0x70, B: 0xD6, A: 0xFF}, // bright magenta
		{R: 0x29, G: 0xB8, B: 0xDB, A: 0xFF}, // bright cyan
		{R: 0xE5, G: 0xE5, B: 0xE5, A: 0xFF}, // bright white
	}
}

func cloneColors(colors []color.RGBA) []color.RGBA {
	out := make([]color.RGBA, len(colors))
	copy(out, colors)
	return out
}
