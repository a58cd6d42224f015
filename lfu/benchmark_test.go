package lfu

import "testing"

// BenchmarkInsertUniqueKeys measures the write path under steady-state
// eviction pressure.
func BenchmarkInsertUniqueKeys(b *testing.B) {
	c, err := New[int, int](1024)
	if err != nil {
		b.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < b.N; i++ {
		c.Insert(i, i)
	}
}

// BenchmarkGetHit measures the read path's bucket-migration cost.
func BenchmarkGetHit(b *testing.B) {
	c, err := New[int, int](1024)
	if err != nil {
		b.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 1024; i++ {
		c.Insert(i, i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get(i % 1024)
	}
}
