package routing

import "testing"

func TestArrayTableSetLookup(t *testing.T) {
	tbl := NewArrayTable(nil, nil)

	if _, ok := tbl.Lookup(9); ok {
		t.Fatal("Lookup() on empty table returned ok=true, want false")
	}

	// Relay from sender 9 via last-hop 8 (spec §8 P5).
	tbl.Set(9, 8)
	nh, ok := tbl.Lookup(9)
	if !ok || nh != 8 {
		t.Errorf("Lookup(9) = (%v, %v), want (8, true)", nh, ok)
	}

	// Set is idempotent and always overwrites.
	tbl.Set(9, 3)
	nh, ok = tbl.Lookup(9)
	if !ok || nh != 3 {
		t.Errorf("Lookup(9) after overwrite = (%v, %v), want (3, true)", nh, ok)
	}
}

func TestArrayTableClear(t *testing.T) {
	tbl := NewArrayTable(nil, nil)
	tbl.Set(5, 1)
	tbl.Set(6, 1)

	tbl.Clear()

	for _, dest := range []byte{5, 6} {
		if _, ok := tbl.Lookup(dest); ok {
			t.Errorf("Lookup(%d) after Clear() returned ok=true, want false", dest)
		}
	}
}

func TestArrayTablePersistHooks(t *testing.T) {
	var lastDest, lastNextHop byte
	var clearedCount int

	tbl := NewArrayTable(
		func(dest, nextHop byte) { lastDest, lastNextHop = dest, nextHop },
		func([255]byte) { clearedCount++ },
	)

	tbl.Set(4, 2)
	if lastDest != 4 || lastNextHop != 2 {
		t.Errorf("persist hook saw (%d, %d), want (4, 2)", lastDest, lastNextHop)
	}

	tbl.Clear()
	if clearedCount != 1 {
		t.Errorf("persistAll hook called %d times, want 1", clearedCount)
	}
}

func TestNoopTable(t *testing.T) {
	var tbl NoopTable
	tbl.Set(1, 2)
	if _, ok := tbl.Lookup(1); ok {
		t.Error("NoopTable.Lookup() returned ok=true, want always false")
	}
	tbl.Clear() // must not panic
}
