package glyphatlas

import (
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/glyphatlas/glyph"
	"github.com/gogpu/glyphatlas/idle"
	"github.com/gogpu/glyphatlas/raster"
)

// TestAtlas_EndToEnd runs the full stack: real pages, a real rasterizer
// and a pumped warm-up campaign.
func TestAtlas_EndToEnd(t *testing.T) {
	q := idle.NewManualQueue()
	a, err := New(Config{
		MaxTextureSize: 4096,
		NewQueue:       func() idle.Queue { return q },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	r, err := raster.NewXImage(goregular.TTF, 14)
	if err != nil {
		t.Fatalf("NewXImage: %v", err)
	}

	rec, err := a.GetGlyph(r, "g", glyph.Metadata(0).WithFGIndex(2))
	if err != nil {
		t.Fatalf("GetGlyph: %v", err)
	}
	if rec.PageIndex != 0 {
		t.Errorf("letter landed on page %d, want 0", rec.PageIndex)
	}
	if !rec.Region.IsValid() {
		t.Errorf("region invalid: %v", rec.Region)
	}
	if rec.Advance <= 0 {
		t.Errorf("Advance = %v, want > 0", rec.Advance)
	}

	// Drain the warm-up campaign: 94 characters times 16 palette colors.
	if n := q.RunAll(); n != 94 {
		t.Fatalf("warm-up tasks = %d, want 94", n)
	}

	// Warmed glyphs come back as cache hits, identical records.
	again, err := a.GetGlyph(r, "g", glyph.Metadata(0).WithFGIndex(2))
	if err != nil {
		t.Fatalf("GetGlyph (warmed): %v", err)
	}
	if again != rec {
		t.Error("warmed lookup returned a different record")
	}

	punct, err := a.GetGlyph(r, "!", glyph.Metadata(0).WithFGIndex(0))
	if err != nil {
		t.Fatalf("GetGlyph(!): %v", err)
	}
	if punct.PageIndex != 1 {
		t.Errorf("punctuation landed on page %d, want 1", punct.PageIndex)
	}

	for i, s := range a.Stats() {
		if s == "" {
			t.Errorf("Stats()[%d] is empty", i)
		}
	}
}
