package glyphatlas

import (
	"image"
	"image/color"
	"math"
	"sync"
	"sync/atomic"

	"github.com/gogpu/glyphatlas/glyph"
	"github.com/gogpu/glyphatlas/idle"
	"github.com/gogpu/glyphatlas/page"
	"github.com/gogpu/glyphatlas/raster"
	"github.com/gogpu/glyphatlas/theme"
)

// Default atlas settings.
const (
	// BasePageSize is the page dimension at scale factor 1, before
	// clamping to the hardware texture limit.
	BasePageSize = 1024

	// DefaultPageCount is the number of pages created when Config
	// leaves PageCount zero.
	DefaultPageCount = 2

	// PackingSlab is the strategy tag of the slab/shelf packer.
	PackingSlab = "slab"
)

// Page is the coordinator's view of one texture page. The page package
// provides the canonical implementation; tests substitute instrumented
// fakes through Config.NewPage.
type Page interface {
	// GetGlyph returns a cached record or rasterizes and packs a new
	// one. Synchronous; errors propagate to the Atlas caller verbatim.
	GetGlyph(r raster.Rasterizer, req glyph.Request) (*glyph.Record, error)

	// UsagePreview returns a copy of the page's backing pixmap.
	UsagePreview() *image.RGBA

	// Stats returns a one-line textual summary.
	Stats() string

	// Release frees the page's resources.
	Release()
}

// PageFactory constructs the page at the given index. Every page of an
// atlas shares the same size.
type PageFactory func(index, size int) Page

// QueueFactory constructs an idle queue for one warm-up campaign.
// A fresh queue is created each time a new rasterizer triggers warm-up;
// the previous one is cancelled.
type QueueFactory func() idle.Queue

// Config holds configuration for New. The zero value of every field
// except MaxTextureSize selects a default.
type Config struct {
	// MaxTextureSize is the largest texture dimension the GPU
	// supports. Required; page size is clamped to it.
	MaxTextureSize int

	// ScaleFactor is the display's device pixel ratio. It is floored
	// to an integer; values below 1 are treated as 1.
	ScaleFactor float64

	// Theme supplies the color table glyph metadata indexes into.
	// Default: a static 16-color ANSI palette. Replacing the palette
	// does not invalidate records already cached under old colors;
	// hosts that need a full repaint after a theme change should
	// construct a fresh Atlas.
	Theme theme.Source

	// PageCount is the number of pages. Default: DefaultPageCount.
	PageCount int

	// Route selects the target page for a character sequence.
	// Default: RouteASCIILetters. Results outside the page list are
	// clamped to the last page.
	Route RoutePolicy

	// NewPage constructs the pages. Default: page.New with the
	// PackingSlab strategy.
	NewPage PageFactory

	// NewQueue constructs warm-up queues. Default: idle.NewTaskQueue,
	// which drains in the background. Hosts with their own idle
	// callbacks can supply idle.NewManualQueue and pump it.
	NewQueue QueueFactory
}

// Atlas coordinates a fixed list of texture pages: it routes glyph
// requests to a page, resolves foreground colors against the live
// color table, and pre-warms the printable ASCII range for each new
// rasterizer on an idle queue.
//
// Atlas is safe for concurrent use.
type Atlas struct {
	pageSize int
	pages    []Page
	route    RoutePolicy
	newQueue QueueFactory

	// colors holds the current color table; replaced wholesale on
	// theme change, never mutated in place.
	colors atomic.Pointer[[]color.RGBA]

	mu          sync.Mutex
	warmed      map[uint64]struct{} // rasterizer IDs with warm-up enqueued; grow-only
	warmQueue   idle.Queue          // at most one live campaign
	unsubscribe func()
	closed      bool
}

// New creates an atlas sized for the given display and hardware
// limits: pages are BasePageSize times the floored scale factor,
// clamped to MaxTextureSize.
func New(cfg Config) (*Atlas, error) {
	if cfg.MaxTextureSize <= 0 {
		return nil, ErrInvalidMaxTextureSize
	}

	scale := int(math.Floor(cfg.ScaleFactor))
	if scale < 1 {
		scale = 1
	}
	pageSize := BasePageSize * scale
	if pageSize > cfg.MaxTextureSize {
		pageSize = cfg.MaxTextureSize
	}

	pageCount := cfg.PageCount
	if pageCount <= 0 {
		pageCount = DefaultPageCount
	}

	route := cfg.Route
	if route == nil {
		route = RouteASCIILetters
	}

	newPage := cfg.NewPage
	if newPage == nil {
		newPage = func(index, size int) Page {
			return page.New(index, size, PackingSlab)
		}
	}

	newQueue := cfg.NewQueue
	if newQueue == nil {
		newQueue = func() idle.Queue { return idle.NewTaskQueue() }
	}

	src := cfg.Theme
	if src == nil {
		src = theme.NewStatic(theme.DefaultPalette())
	}

	a := &Atlas{
		pageSize: pageSize,
		pages:    make([]Page, 0, pageCount),
		route:    route,
		newQueue: newQueue,
		warmed:   make(map[uint64]struct{}),
	}
	for i := 0; i < pageCount; i++ {
		a.pages = append(a.pages, newPage(i, pageSize))
	}

	// Query the palette on subscribe and again on every change.
	a.setColors(src.Colors())
	a.unsubscribe = src.Subscribe(func() {
		a.setColors(src.Colors())
	})

	Logger().Debug("glyphatlas: atlas created",
		"pageSize", pageSize, "pages", pageCount, "scale", scale)
	return a, nil
}

// setColors swaps the color table atomically. Readers holding the
// previous table keep a fully consistent snapshot.
func (a *Atlas) setColors(colors []color.RGBA) {
	a.colors.Store(&colors)
}

// GetGlyph returns a record locating the glyph's pixels inside one of
// the atlas pages, rasterizing and packing it on first use. The first
// call with a given rasterizer identity additionally enqueues a
// background warm-up campaign for it; the call itself never waits for
// warm-up.
//
// Errors from the page (including page exhaustion) propagate
// unchanged; the atlas performs no retries.
func (a *Atlas) GetGlyph(r raster.Rasterizer, chars string, meta glyph.Metadata) (*glyph.Record, error) {
	if r == nil {
		return nil, ErrNilRasterizer
	}
	return a.getGlyph(r, chars, meta, *a.colors.Load())
}

// getGlyph is the shared lookup path. Warm-up tasks call it with their
// own palette snapshot so one task never observes a half-applied theme
// change.
func (a *Atlas) getGlyph(r raster.Rasterizer, chars string, meta glyph.Metadata, table []color.RGBA) (*glyph.Record, error) {
	var stale idle.Queue

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil, ErrAtlasClosed
	}
	if _, ok := a.warmed[r.ID()]; !ok {
		a.warmed[r.ID()] = struct{}{}
		stale = a.warmQueue
		q := a.newQueue()
		a.warmQueue = q
		a.enqueueWarmup(q, r)
	}
	a.mu.Unlock()

	// Cancel outside the lock: a mid-flight task of the stale campaign
	// may itself be inside getGlyph.
	if stale != nil {
		stale.Cancel()
	}

	idx := a.route(chars)
	if idx < 0 || idx >= len(a.pages) {
		idx = len(a.pages) - 1
	}

	fg := color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	if i := meta.FGIndex(); i < len(table) {
		fg = table[i]
	} else {
		Logger().Warn("glyphatlas: palette index out of range",
			"fg", i, "colors", len(table))
	}

	return a.pages[idx].GetGlyph(r, glyph.Request{Chars: chars, Meta: meta, FG: fg})
}

// PageSize returns the side length shared by all pages.
func (a *Atlas) PageSize() int { return a.pageSize }

// Pages returns the page list in index order. The slice is a copy; the
// pages themselves are shared and remain owned by the atlas.
func (a *Atlas) Pages() []Page {
	out := make([]Page, len(a.pages))
	copy(out, a.pages)
	return out
}

// Stats returns each page's textual statistics in page order.
func (a *Atlas) Stats() []string {
	out := make([]string, len(a.pages))
	for i, p := range a.pages {
		out[i] = p.Stats()
	}
	return out
}

// UsagePreviews returns each page's usage preview in page order.
func (a *Atlas) UsagePreviews() []*image.RGBA {
	out := make([]*image.RGBA, len(a.pages))
	for i, p := range a.pages {
		out[i] = p.UsagePreview()
	}
	return out
}

// Close cancels any in-flight warm-up campaign, unsubscribes from the
// theme source, and releases all pages. Close is idempotent;
// subsequent GetGlyph calls return ErrAtlasClosed.
func (a *Atlas) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	q := a.warmQueue
	a.warmQueue = nil
	unsub := a.unsubscribe
	a.unsubscribe = nil
	a.mu.Unlock()

	if q != nil {
		q.Cancel()
	}
	if unsub != nil {
		unsub()
	}
	for _, p := range a.pages {
		p.Release()
	}
}
