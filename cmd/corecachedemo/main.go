// Command corecachedemo is a small runnable tour of the four cache kinds:
// construct each policy, drive it through a few operations, and print
// what changed.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/tempuscache/corecache/arc"
	"github.com/tempuscache/corecache/lfu"
	"github.com/tempuscache/corecache/lru"
	"github.com/tempuscache/corecache/lruk"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout})

	demoLRU(logger)
	demoLRUK(logger)
	demoLFU(logger)
	demoARC(logger)
}

func demoLRU(logger zerolog.Logger) {
	fmt.Println("=== lru ===")

	c, err := lru.New[string, string](2, lru.WithLogger[string, string](logger))
	if err != nil {
		panic(err)
	}

	c.Insert("name", "krishna")
	c.InsertWithTTL("session", "abc123", 5)

	if v, ok := c.Get("name"); ok {
		fmt.Println("name =", v)
	}

	// Advancing the wheel past the session's TTL evicts it without a Get.
	c.AdvanceTime(6)
	if _, ok := c.Get("session"); !ok {
		fmt.Println("session expired (active expiration via AdvanceTime)")
	}

	c.Insert("third", "value")
	fmt.Println("keys after third insert fills the slot the expired session freed:", c.Keys())
}

func demoLRUK(logger zerolog.Logger) {
	fmt.Println("=== lruk ===")

	c, err := lruk.New[string, int](2, lruk.WithK[string, int](2), lruk.WithLogger[string, int](logger))
	if err != nil {
		panic(err)
	}

	c.Insert("hot", 1)
	c.Get("hot") // second visit promotes "hot" out of history into main

	c.Insert("cold1", 2)
	c.Insert("cold2", 3) // capacity pressure evicts from history first, not main

	fmt.Println("keys:", c.Keys())
}

func demoLFU(logger zerolog.Logger) {
	fmt.Println("=== lfu ===")

	c, err := lfu.New[string, int](2, lfu.WithReduceCount[string, int](5), lfu.WithLogger[string, int](logger))
	if err != nil {
		panic(err)
	}

	c.Insert("a", 1)
	c.Insert("b", 2)
	for i := 0; i < 4; i++ {
		c.Get("a")
	}

	c.Insert("c", 3) // "b" is least frequent, evicted to make room
	fmt.Println("keys in ascending-frequency order:", c.Keys())
}

func demoARC(logger zerolog.Logger) {
	fmt.Println("=== arc ===")

	c, err := arc.New[string, int](2, arc.WithLogger[string, int](logger))
	if err != nil {
		panic(err)
	}

	c.Insert("a", 1)
	c.Get("a") // promotes "a" into T2
	c.Insert("b", 2)
	c.Insert("c", 3) // evicts "b" from T1 into the B1 ghost list; p stays 0 until a ghost hit

	fmt.Println("p after ghost formation:", c.P())
	fmt.Println("keys:", c.Keys())
}
