package lru

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

/*
property_test.go checks invariants that must hold for all random op
sequences with gopter-generated sequences, rather than hand-picking a
handful of orderings: for every prefix of a random Insert/Get/Remove
sequence, Len never exceeds Capacity, and Contains/Get/Keys agree with
each other.
*/

// An op packs a kind (insert/get/remove) and a key into one int so gopter
// only needs to shrink a []int, not a custom struct generator: kind =
// op/16, key = op%16.
const keySpace = 16

func decodeOp(op int) (kind, key int) {
	return op / keySpace, op % keySpace
}

func genOps() gopter.Gen {
	return gen.SliceOfN(200, gen.IntRange(0, 3*keySpace-1))
}

func TestLRUInvariantsUnderRandomOps(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("len stays within capacity and the index agrees with Get/Contains/Keys", prop.ForAll(
		func(ops []int) bool {
			const capacity = 8
			c, err := New[int, int](capacity)
			if err != nil {
				return false
			}

			for _, op := range ops {
				kind, key := decodeOp(op)
				switch kind {
				case 0:
					c.Insert(key, key)
				case 1:
					c.Get(key)
				case 2:
					c.Remove(key)
				}

				if c.Len() > c.Capacity() {
					return false
				}

				for _, k := range c.Keys() {
					if !c.Contains(k) {
						return false
					}
					if _, ok := c.Peek(k); !ok {
						return false
					}
				}
			}
			return true
		},
		genOps(),
	))

	properties.Property("inserting the same key twice with no intervening eviction yields the newer value", prop.ForAll(
		func(a, b int) bool {
			c, err := New[int, int](4)
			if err != nil {
				return false
			}
			c.Insert(1, a)
			c.Insert(1, b)
			v, ok := c.Get(1)
			return ok && v == b
		},
		gen.Int(),
		gen.Int(),
	))

	properties.TestingRun(t)
}
