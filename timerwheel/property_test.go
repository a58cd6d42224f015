package timerwheel

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// property_test.go checks, for a random batch of delays, that every timer
// fires exactly once, exactly on the tick its delay points to — not
// early, not late, not dropped by a cascade — and that the wheel reports
// empty once every target tick has passed.
func genDelays() gopter.Gen {
	return gen.SliceOfN(60, gen.IntRange(1, 5000)).Map(func(ds []int) []int64 {
		out := make([]int64, len(ds))
		for i, d := range ds {
			out[i] = int64(d)
		}
		return out
	})
}

func TestWheelFiresEveryTimerExactlyOnItsTargetTick(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("every timer fires exactly once, exactly at its target tick", prop.ForAll(
		func(delays []int64) bool {
			w := NewDefault()

			target := make(map[TimerID]int64, len(delays))
			var maxTarget int64
			for _, d := range delays {
				id := w.AddTimer(d)
				target[id] = w.Now() + d
				if target[id] > maxTarget {
					maxTarget = target[id]
				}
			}

			fired := make(map[TimerID]bool, len(delays))
			for w.Now() < maxTarget {
				for _, id := range w.UpdateDeltatime(1) {
					if fired[id] {
						return false // fired twice
					}
					if w.Now() != target[id] {
						return false // fired off-schedule
					}
					fired[id] = true
				}
			}

			if len(fired) != len(target) {
				return false // some timer never fired
			}
			return w.IsEmpty()
		},
		genDelays(),
	))

	properties.TestingRun(t)
}
