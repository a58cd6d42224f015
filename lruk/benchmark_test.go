package lruk

import "testing"

// BenchmarkInsertUniqueKeys measures the write path under steady-state
// eviction pressure, same shape as package lru's benchmark.
func BenchmarkInsertUniqueKeys(b *testing.B) {
	c, err := New[int, int](1024)
	if err != nil {
		b.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < b.N; i++ {
		c.Insert(i, i)
	}
}

// BenchmarkGetPromotion measures the read path once every key has already
// been promoted to main, so Get only pays for the main-list move-to-front.
func BenchmarkGetPromotion(b *testing.B) {
	c, err := New[int, int](1024)
	if err != nil {
		b.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 1024; i++ {
		c.Insert(i, i)
		c.Get(i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get(i % 1024)
	}
}
