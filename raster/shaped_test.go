package raster

import (
	"errors"
	"testing"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/language"
	"golang.org/x/image/font/gofont/goregular"
)

func newTestShaped(t *testing.T) *Shaped {
	t.Helper()
	s, err := NewShaped(goregular.TTF, 16)
	if err != nil {
		t.Fatalf("NewShaped: %v", err)
	}
	return s
}

func TestShaped_EmptyFontData(t *testing.T) {
	if _, err := NewShaped(nil, 16); !errors.Is(err, ErrEmptyFontData) {
		t.Errorf("err = %v, want ErrEmptyFontData", err)
	}
}

func TestShaped_BadFontData(t *testing.T) {
	if _, err := NewShaped([]byte("not a font"), 16); err == nil {
		t.Error("NewShaped accepted garbage font data")
	}
}

func TestShaped_RasterizeLetter(t *testing.T) {
	s := newTestShaped(t)

	bm, err := s.Rasterize("A", red)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if bm.Empty() {
		t.Fatal("bitmap for 'A' is empty")
	}
	if bm.Advance <= 0 {
		t.Errorf("Advance = %v, want > 0", bm.Advance)
	}

	var inked bool
	for i := 3; i < len(bm.Pix.Pix); i += 4 {
		if bm.Pix.Pix[i] != 0 {
			inked = true
			break
		}
	}
	if !inked {
		t.Error("bitmap has no opaque pixels")
	}
}

func TestShaped_MultiGlyphSequence(t *testing.T) {
	s := newTestShaped(t)

	single, err := s.Rasterize("f", red)
	if err != nil {
		t.Fatal(err)
	}
	seq, err := s.Rasterize("fifi", red)
	if err != nil {
		t.Fatal(err)
	}
	if seq.Empty() {
		t.Fatal("bitmap for 'fifi' is empty")
	}
	if seq.Advance <= single.Advance {
		t.Errorf("sequence advance %v not beyond single glyph %v",
			seq.Advance, single.Advance)
	}
}

func TestShaped_WhitespaceAdvanceOnly(t *testing.T) {
	s := newTestShaped(t)

	bm, err := s.Rasterize(" ", red)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if !bm.Empty() {
		t.Error("space produced ink")
	}
	if bm.Advance <= 0 {
		t.Errorf("Advance = %v, want > 0", bm.Advance)
	}
}

func TestShaped_EmptyText(t *testing.T) {
	s := newTestShaped(t)
	if _, err := s.Rasterize("", red); !errors.Is(err, ErrEmptyText) {
		t.Errorf("err = %v, want ErrEmptyText", err)
	}
}

func TestShaped_Memoization(t *testing.T) {
	s := newTestShaped(t)

	a, err := s.Rasterize("W", red)
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Rasterize("W", red)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("repeat rasterization returned a new bitmap")
	}
}

func TestShaped_UniqueIDs(t *testing.T) {
	a := newTestShaped(t)
	b := newTestShaped(t)
	if a.ID() == b.ID() {
		t.Errorf("two rasterizers share ID %d", a.ID())
	}
}

func TestShaped_Concurrent(t *testing.T) {
	s := newTestShaped(t)

	done := make(chan error, 8)
	for g := 0; g < 8; g++ {
		go func() {
			for _, str := range []string{"A", "fi", "->", "."} {
				if _, err := s.Rasterize(str, red); err != nil {
					done <- err
					return
				}
			}
			done <- nil
		}()
	}
	for g := 0; g < 8; g++ {
		if err := <-done; err != nil {
			t.Fatal(err)
		}
	}
}

func TestDetectScript(t *testing.T) {
	tests := []struct {
		runes []rune
		want  language.Script
	}{
		{[]rune("hello"), language.Latin},
		{[]rune("  x"), language.Latin},
		{[]rune(""), language.Latin},
		{[]rune("שלום"), language.Hebrew},
	}
	for _, tt := range tests {
		if got := detectScript(tt.runes); got != tt.want {
			t.Errorf("detectScript(%q) = %v, want %v", string(tt.runes), got, tt.want)
		}
	}
}

func TestDetectDirection(t *testing.T) {
	tests := []struct {
		chars string
		want  di.Direction
	}{
		{"hello", di.DirectionLTR},
		{"שלום", di.DirectionRTL},
		{"", di.DirectionLTR},
		{"123", di.DirectionLTR},
	}
	for _, tt := range tests {
		if got := detectDirection(tt.chars); got != tt.want {
			t.Errorf("detectDirection(%q) = %v, want %v", tt.chars, got, tt.want)
		}
	}
}
