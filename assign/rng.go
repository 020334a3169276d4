package assign

import "math/rand"

// defaultSeed is used when callers pass seed 0.
const defaultSeed int64 = 1

// rngFromSeed returns a deterministic source; seed 0 selects defaultSeed.
// A *rand.Rand is not safe for concurrent use and is never shared between
// calls.
func rngFromSeed(seed int64) *rand.Rand {
	if seed == 0 {
		seed = defaultSeed
	}

	return rand.New(rand.NewSource(seed))
}
