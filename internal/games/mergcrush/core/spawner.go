package core

// Rand is the random source the simulation consumes.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// RankPicker chooses the rank of a newly spawned item.
type RankPicker interface {
	PickRank(rng Rand, difficulty int) int
}

// WeightedRanks favours low ranks: with maxTypes = min(difficulty+2, ceiling),
// rank i (1-based) has weight maxTypes-i+1.
type WeightedRanks struct {
	MaxRank int // Game max rank
	Cap     int // Optional per-level spawn ceiling, 0 for none
}

// MaxTypes returns how many distinct ranks can spawn at difficulty.
func (w WeightedRanks) MaxTypes(difficulty int) int {
	difficulty = max(difficulty, 1)
	n := min(difficulty+2, w.MaxRank)
	if w.Cap > 0 {
		n = min(n, w.Cap)
	}
	return max(n, 1)
}

// Weights returns the spawn weight of ranks 1..MaxTypes.
func (w WeightedRanks) Weights(difficulty int) []int {
	n := w.MaxTypes(difficulty)
	weights := make([]int, n)
	for i := range n {
		weights[i] = n - i
	}
	return weights
}

// PickRank draws a rank using rng.
func (w WeightedRanks) PickRank(rng Rand, difficulty int) int {
	weights := w.Weights(difficulty)
	total := 0
	for _, wt := range weights {
		total += wt
	}
	if rng == nil || total <= 0 {
		return 1
	}

	roll := rng.IntN(total)
	cumulative := 0
	for i, wt := range weights {
		cumulative += wt
		if roll < cumulative {
			return i + 1
		}
	}
	return 1
}

// FixedRank always picks the same rank. Useful for scripted spawns and tests.
type FixedRank int

// PickRank returns the fixed rank.
func (f FixedRank) PickRank(Rand, int) int {
	return int(f)
}
