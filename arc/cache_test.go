package arc

import "testing"

/*
cache_test.go checks ARC the way the rest of the family is checked:
functional correctness first, then the structural invariants that
distinguish it — the four list-size bounds, and the ghost-hit
adaptation of p — then TTL.
*/

func TestInsertAndGet(t *testing.T) {
	c, err := New[string, string](3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c.Insert("a", "b")

	val, found := c.Get("a")
	if !found || val != "b" {
		t.Fatalf("expected a=b, got %v (found=%v)", val, found)
	}
}

func TestNegativeCapacityRejected(t *testing.T) {
	if _, err := New[string, string](-1); err != ErrInvalidCapacity {
		t.Fatalf("expected ErrInvalidCapacity, got %v", err)
	}
}

// TestZeroCapacityEvictsImmediately mirrors lru's equivalent test: a
// zero-capacity cache must never retain a live entry, and — unlike a
// non-zero capacity eviction — must not retain a ghost for it either,
// since the ghost lists are bounded by capacity too.
func TestZeroCapacityEvictsImmediately(t *testing.T) {
	c, err := New[string, int](0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c.Insert("a", 1)

	if c.Len() != 0 {
		t.Fatalf("expected zero-capacity cache to stay empty, got len=%d", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected a to have been evicted immediately")
	}

	t1, t2, b1, b2 := c.ListLens()
	if t1 != 0 || t2 != 0 || b1 != 0 || b2 != 0 {
		t.Fatalf("expected all four lists empty, got t1=%d t2=%d b1=%d b2=%d", t1, t2, b1, b2)
	}
}

// TestNewEntryLivesInT1 checks a fresh key starts in T1, not T2.
func TestNewEntryLivesInT1(t *testing.T) {
	c, _ := New[string, string](3)
	c.Insert("a", "1")

	t1, t2, _, _ := c.ListLens()
	if t1 != 1 || t2 != 0 {
		t.Fatalf("expected t1=1 t2=0, got t1=%d t2=%d", t1, t2)
	}
}

// TestSecondAccessPromotesToT2 checks a repeat hit moves a key from T1
// into T2, per §4.6 case 1.
func TestSecondAccessPromotesToT2(t *testing.T) {
	c, _ := New[string, string](3)
	c.Insert("a", "1")
	c.Get("a")

	t1, t2, _, _ := c.ListLens()
	if t1 != 0 || t2 != 1 {
		t.Fatalf("expected t1=0 t2=1 after second access, got t1=%d t2=%d", t1, t2)
	}
}

// TestGhostHitAdaptsP exercises case 2: evicting from T1 leaves a B1
// ghost, and re-inserting that ghosted key grows p and resurrects it into
// T2. "a" is promoted into T2 first so that the later eviction (forced by
// inserting "c" at capacity) takes "b" from T1 into a B1 ghost rather than
// dropping it with no ghost at all (the §4.6 case-4 branch taken only when
// B1 has no room to grow).
func TestGhostHitAdaptsP(t *testing.T) {
	c, _ := New[string, int](2)

	c.Insert("a", 1)
	c.Get("a") // promotes a into T2
	c.Insert("b", 2)
	c.Insert("c", 3) // over capacity: b is T1's only entry, ghosts into B1

	_, _, b1, _ := c.ListLens()
	if b1 != 1 {
		t.Fatalf("expected one B1 ghost after eviction, got %d", b1)
	}
	if c.Contains("b") {
		t.Fatal("expected b to be evicted, not live")
	}

	pBefore := c.P()
	c.Insert("b", 100) // B1 hit: adapts p upward, resurrects b into T2

	if c.P() <= pBefore {
		t.Fatalf("expected p to grow on a B1 hit, was %d now %d", pBefore, c.P())
	}
	v, ok := c.Get("b")
	if !ok || v != 100 {
		t.Fatalf("expected resurrected b=100, got %v (ok=%v)", v, ok)
	}
}

// TestInvariantsHoldUnderPressure checks the four structural bounds from
// §4.6 after a burst of inserts well past capacity.
func TestInvariantsHoldUnderPressure(t *testing.T) {
	const capacity = 4
	c, _ := New[int, int](capacity)

	for i := 0; i < 50; i++ {
		c.Insert(i, i)
	}

	t1, t2, b1, b2 := c.ListLens()
	if t1+b1 > capacity {
		t.Fatalf("violated |T1|+|B1| <= C: %d > %d", t1+b1, capacity)
	}
	if t2+b2 > capacity {
		t.Fatalf("violated |T2|+|B2| <= C: %d > %d", t2+b2, capacity)
	}
	if t1+t2 > capacity {
		t.Fatalf("violated |T1|+|T2| <= C: %d > %d", t1+t2, capacity)
	}
	if t1+t2+b1+b2 > 2*capacity {
		t.Fatalf("violated |T1|+|T2|+|B1|+|B2| <= 2C: %d > %d", t1+t2+b1+b2, 2*capacity)
	}
	if c.Len() != t1+t2 {
		t.Fatalf("expected Len to equal live T1+T2, got Len=%d t1+t2=%d", c.Len(), t1+t2)
	}
}

func TestRemove(t *testing.T) {
	c, _ := New[string, string](3)
	c.Insert("a", "b")

	v, had := c.Remove("a")
	if !had || v != "b" {
		t.Fatalf("expected removed value b, got %v (had=%v)", v, had)
	}
	if c.Contains("a") {
		t.Fatal("expected a to be gone")
	}
}

func TestTTLExpiresLazily(t *testing.T) {
	c, _ := New[string, string](3)
	c.InsertWithTTL("a", "b", 5)
	c.AdvanceTime(10)

	if _, found := c.Get("a"); found {
		t.Fatal("expected key to be expired after its ticks elapsed")
	}
}

func TestStatsTracking(t *testing.T) {
	c, _ := New[string, int](3)
	c.Insert("a", 1)
	c.Get("a") // hit
	c.Get("b") // miss

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Fatalf("expected 1 hit and 1 miss, got %+v", stats)
	}
}

func TestClearResetsCache(t *testing.T) {
	c, _ := New[string, int](3)
	c.Insert("a", 1)
	c.Clear()

	if !c.IsEmpty() || c.P() != 0 {
		t.Fatalf("expected empty cache with p=0 after Clear, got len=%d p=%d", c.Len(), c.P())
	}
}
