package theme

import (
	"image/color"
	"testing"
)

func TestDefaultPalette(t *testing.T) {
	p := DefaultPalette()
	if len(p) != 16 {
		t.Fatalf("len(DefaultPalette()) = %d, want 16", len(p))
	}
	for i, c := range p {
		if c.A != 0xFF {
			t.Errorf("palette[%d] not opaque: %v", i, c)
		}
	}
}

func TestStatic_ColorsCopy(t *testing.T) {
	orig := []color.RGBA{{R: 1, A: 0xFF}, {G: 2, A: 0xFF}}
	s := NewStatic(orig)

	// Mutating the input after construction must not leak through.
	orig[0].R = 99
	got := s.Colors()
	if got[0].R != 1 {
		t.Errorf("Colors()[0].R = %d, want 1", got[0].R)
	}

	// Mutating a returned copy must not affect the source.
	got[1].G = 99
	if s.Colors()[1].G != 2 {
		t.Error("Colors() returned a shared slice")
	}
}

func TestStatic_SubscribeNoop(t *testing.T) {
	s := NewStatic(DefaultPalette())
	cancel := s.Subscribe(func() { t.Error("static source fired a change") })
	cancel()
	cancel() // double cancel is harmless
}

func TestBroadcaster_SetNotifies(t *testing.T) {
	b := NewBroadcaster([]color.RGBA{{R: 1, A: 0xFF}})

	fired := 0
	var seen []color.RGBA
	cancel := b.Subscribe(func() {
		fired++
		seen = b.Colors()
	})
	defer cancel()

	next := []color.RGBA{{G: 2, A: 0xFF}, {B: 3, A: 0xFF}}
	b.Set(next)

	if fired != 1 {
		t.Fatalf("callback fired %d times, want 1", fired)
	}
	if len(seen) != 2 || seen[0].G != 2 || seen[1].B != 3 {
		t.Errorf("Colors() inside callback = %v, want new palette", seen)
	}
}

func TestBroadcaster_CancelStopsNotifications(t *testing.T) {
	b := NewBroadcaster(nil)

	fired := 0
	cancel := b.Subscribe(func() { fired++ })
	b.Set([]color.RGBA{{A: 0xFF}})
	cancel()
	b.Set([]color.RGBA{{A: 0xFF}})

	if fired != 1 {
		t.Errorf("callback fired %d times, want 1", fired)
	}
	cancel() // double cancel is harmless
}

func TestBroadcaster_MultipleSubscribers(t *testing.T) {
	b := NewBroadcaster(nil)

	a, c := 0, 0
	cancelA := b.Subscribe(func() { a++ })
	defer cancelA()
	cancelC := b.Subscribe(func() { c++ })
	defer cancelC()

	b.Set([]color.RGBA{{A: 0xFF}})
	if a != 1 || c != 1 {
		t.Errorf("subscribers fired (%d, %d), want (1, 1)", a, c)
	}
}

func TestBroadcaster_SetCopies(t *testing.T) {
	b := NewBroadcaster(nil)
	p := []color.RGBA{{R: 5, A: 0xFF}}
	b.Set(p)
	p[0].R = 99

	if got := b.Colors()[0].R; got != 5 {
		t.Errorf("Colors()[0].R = %d, want 5", got)
	}
}
