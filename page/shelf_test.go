package page

import "testing"

func TestSlabAllocator_FirstAllocation(t *testing.T) {
	a := newSlabAllocator(128, 1)

	r := a.allocate(10, 20)
	if !r.IsValid() {
		t.Fatal("first allocation failed")
	}
	if r.X != 0 || r.Y != 0 || r.Width != 10 || r.Height != 20 {
		t.Errorf("region = %v, want Region(0,0 10x20)", r)
	}
}

func TestSlabAllocator_SameShelfAdvancesX(t *testing.T) {
	a := newSlabAllocator(128, 1)

	a.allocate(10, 10)
	r := a.allocate(10, 10)
	if r.X != 11 || r.Y != 0 {
		t.Errorf("second region at (%d,%d), want (11,0)", r.X, r.Y)
	}
}

func TestSlabAllocator_NewShelfBelow(t *testing.T) {
	a := newSlabAllocator(32, 1)

	a.allocate(30, 10) // fills shelf 0 horizontally
	r := a.allocate(30, 10)
	if !r.IsValid() {
		t.Fatal("allocation on new shelf failed")
	}
	if r.Y != 11 {
		t.Errorf("new shelf Y = %d, want 11", r.Y)
	}
}

func TestSlabAllocator_TallerItemOnUsedShelf(t *testing.T) {
	a := newSlabAllocator(64, 0)

	a.allocate(10, 10)
	// A taller item cannot grow a shelf that already has items; it
	// must open a new shelf.
	r := a.allocate(10, 20)
	if r.Y != 10 {
		t.Errorf("taller item Y = %d, want 10", r.Y)
	}
}

func TestSlabAllocator_Full(t *testing.T) {
	a := newSlabAllocator(16, 0)

	if r := a.allocate(16, 16); !r.IsValid() {
		t.Fatal("allocation filling the area failed")
	}
	if r := a.allocate(1, 1); r.IsValid() {
		t.Error("allocation in a full area succeeded")
	}
}

func TestSlabAllocator_RejectsOversized(t *testing.T) {
	a := newSlabAllocator(16, 0)
	if r := a.allocate(17, 1); r.IsValid() {
		t.Error("oversized width accepted")
	}
	if r := a.allocate(1, 17); r.IsValid() {
		t.Error("oversized height accepted")
	}
	if r := a.allocate(0, 5); r.IsValid() {
		t.Error("zero width accepted")
	}
}

func TestSlabAllocator_Utilization(t *testing.T) {
	a := newSlabAllocator(10, 0)
	if got := a.utilization(); got != 0 {
		t.Errorf("utilization of empty allocator = %v, want 0", got)
	}

	a.allocate(10, 5)
	if got := a.utilization(); got != 0.5 {
		t.Errorf("utilization = %v, want 0.5", got)
	}
}
