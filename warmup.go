package glyphatlas

import (
	"github.com/gogpu/glyphatlas/glyph"
	"github.com/gogpu/glyphatlas/idle"
	"github.com/gogpu/glyphatlas/raster"
)

// warmupCodes returns the character codes of a warm-up campaign in
// enqueue order: uppercase letters, then lowercase, then the remaining
// printable ASCII range. Larger glyphs go first so the page packer
// makes its shelf decisions while the page is still mostly empty.
func warmupCodes() []byte {
	codes := make([]byte, 0, 94)
	for c := byte('A'); c <= 'Z'; c++ {
		codes = append(codes, c)
	}
	for c := byte('a'); c <= 'z'; c++ {
		codes = append(codes, c)
	}
	for c := byte(33); c <= 126; c++ {
		if isASCIILetter(c) {
			continue
		}
		codes = append(codes, c)
	}
	return codes
}

// enqueueWarmup schedules one task per character code. Each task warms
// that character for every color of the table current when the task
// runs, then yields back to the queue, so interactive work is never
// delayed by more than one character's worth of rasterization.
func (a *Atlas) enqueueWarmup(q idle.Queue, r raster.Rasterizer) {
	for _, c := range warmupCodes() {
		chars := string(rune(c))
		q.Enqueue(func() {
			a.warmChar(r, chars)
		})
	}
	Logger().Debug("glyphatlas: warm-up enqueued", "rasterizer", r.ID())
}

// warmChar populates the cache for one character across the full color
// table. The table is snapshotted once per task: a concurrent theme
// change is observed either in full or not at all within a task.
// Failures abort only the failing (character, color) pair; warm-up is
// best-effort and never surfaces to interactive callers.
func (a *Atlas) warmChar(r raster.Rasterizer, chars string) {
	table := *a.colors.Load()
	for i := range table {
		meta := glyph.Metadata(0).WithFGIndex(i)
		if _, err := a.getGlyph(r, chars, meta, table); err != nil {
			Logger().Debug("glyphatlas: warm-up rasterization failed",
				"chars", chars, "fg", i, "err", err)
		}
	}
}
