package mines

import (
	"hash/maphash"
	"math/rand/v2"
)

// NewRand returns a PCG source seeded from the runtime's hash seed.
func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

// placeMines marks count distinct cells of grid, every subset of that size
// being equally likely.
func placeMines(grid []bool, count int, r *rand.Rand) {
	/*
	 * Write down the list of possible mine locations.
	 */
	candidates := make([]int, len(grid))
	for i := range candidates {
		candidates[i] = i
	}

	/*
	 * Now pick count off the list at random.
	 */
	k := len(candidates)
	for range count {
		i := r.IntN(k)
		grid[candidates[i]] = true
		k--
		candidates[i] = candidates[k]
	}
}
