package lfu

import "testing"

/*
cache_test.go follows the shape of the other cache packages' tests:
functional correctness, then the frequency-bucket guarantee, then decay,
then an end-to-end scenario (visit=1 on insert, +1 per get).
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

func TestNewEntryStartsAtFrequencyOne(t *testing.T) {
	c, _ := New[string, string](3)
	c.Insert("a", "1")

	visits, ok := c.GetVisit("a")
	if !ok || visits != 1 {
		t.Fatalf("expected fresh entry at frequency 1, got %d (ok=%v)", visits, ok)
	}
}

func TestGetIncrementsFrequency(t *testing.T) {
	c, _ := New[string, string](3)
	c.Insert("a", "1")
	c.Get("a")
	c.Get("a")

	visits, _ := c.GetVisit("a")
	if visits != 3 {
		t.Fatalf("expected 3 visits after 2 gets, got %d", visits)
	}
}

// TestEvictsLeastFrequent checks the core LFU guarantee: an entry touched
// repeatedly survives while a cold entry of the same age is evicted first.
func TestEvictsLeastFrequent(t *testing.T) {
	c, _ := New[string, int](2)

	c.Insert("hot", 1)
	c.Insert("cold", 2)
	c.Get("hot") // hot now at frequency 2, cold stays at 1

	c.Insert("new", 3) // over capacity: evicts the minFreq bucket's tail, "cold"

	if c.Contains("cold") {
		t.Fatal("expected the least-frequently-used key to be evicted")
	}
	if !c.Contains("hot") || !c.Contains("new") {
		t.Fatal("expected hot and new to survive")
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

// TestLFUDecayScenario checks the frequency-decay rule: once the running
// visit counter exceeds reduceCount, every entry's visit count is halved
// by integer division.
func TestLFUDecayScenario(t *testing.T) {
	c, err := New[string, int](10, WithReduceCount[string, int](3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c.Insert("a", 1) // visit 1, visitCount 0 (insert doesn't count as a touch)
	c.Get("a")       // visit 2, visitCount 1
	c.Get("a")       // visit 3, visitCount 2
	c.Get("a")       // visit 4, visitCount 3
	c.Get("a")       // visit 5, visitCount 4 > reduceCount(3): decay fires, 5/2=2

	visits, ok := c.GetVisit("a")
	if !ok || visits != 2 {
		t.Fatalf("expected decayed visit count 2, got %d", visits)
	}
}

// TestLFUCapacityScenario restates a frequency-tiebreak scenario under
// the fixed visit=1-on-insert / +1-per-get convention: an explicit warmup
// brings "this" and "hello" to the same 5-visit starting point, then
// further gets on "this" push it well clear of "hello" in frequency.
func TestLFUCapacityScenario(t *testing.T) {
	c, err := New[string, string](3, WithReduceCount[string, string](100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c.Insert("hello", "algorithm")
	c.Insert("this", "lru")

	for i := 0; i < 4; i++ {
		c.Get("hello")
		c.Get("this")
	}
	// Both keys now sit at visit 5, matching the scenario's stated starting
	// point.

	for i := 0; i < 48; i++ {
		c.Get("this")
	}
	// 48 further gets: 5 + 48 = 53 visits on "this", well clear of
	// "hello"'s 5 -- checks the convention's own arithmetic.

	thisVisits, _ := c.GetVisit("this")
	helloVisits, _ := c.GetVisit("hello")
	if thisVisits != 53 {
		t.Fatalf("expected this=53, got %d", thisVisits)
	}
	if helloVisits != 5 {
		t.Fatalf("expected hello=5, got %d", helloVisits)
	}

	keys := c.Keys()
	if len(keys) != 2 || keys[0] != "hello" || keys[1] != "this" {
		t.Fatalf("expected ascending-frequency order [hello, this], got %v", keys)
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

	if !c.IsEmpty() {
		t.Fatalf("expected empty cache after Clear, got len=%d", c.Len())
	}
}
