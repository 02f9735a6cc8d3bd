package simulation

import (
	"fmt"
	"math"
)

const (
	lcgMultiplier = 1103515245
	lcgIncrement  = 12345
	lcgMask       = 1<<31 - 1

	idHashMultiplier = 2654435761
	idHashMask       = 1<<32 - 1
)

// Rand is a seeded linear-congruential source. Two instances built from the
// same seed and called in the same order produce identical sequences, which is
// the reproducibility contract everything downstream leans on. One instance
// belongs to one logical unit of work (one cohort build, one simulated day);
// instances are not safe for concurrent use.
type Rand struct {
	seed   int64
	origin int64
}

// NewRand returns a source seeded with the given value.
func NewRand(seed int64) *Rand {
	masked := seed & lcgMask
	return &Rand{seed: masked, origin: masked}
}

// Next advances the state and returns a float in [0, 1).
func (r *Rand) Next() float64 {
	r.seed = (r.seed*lcgMultiplier + lcgIncrement) & lcgMask
	return float64(r.seed) / float64(lcgMask)
}

// NextRange returns a float in [min, max).
func (r *Rand) NextRange(min, max float64) float64 {
	return min + r.Next()*(max-min)
}

// NextInt returns an integer in [min, max], bounds inclusive.
func (r *Rand) NextInt(min, max int) int {
	return int(math.Floor(r.NextRange(float64(min), float64(max)+1)))
}

// GenerateID derives a reproducible id for (seed, index). It hashes the
// original seed rather than the advancing state, so ids stay stable no matter
// how many draws happened in between.
func (r *Rand) GenerateID(prefix string, index int) string {
	return fmt.Sprintf("%s_%08x", prefix, r.hash(index)&idHashMask)
}

// ShortHash derives a 16-bit reproducible hash for the given index, also
// independent of the draw position.
func (r *Rand) ShortHash(index int) uint32 {
	return uint32(r.hash(index) & 0xffff)
}

func (r *Rand) hash(index int) uint64 {
	return (uint64(r.origin) + uint64(index)) * idHashMultiplier
}

// Weighted pairs a candidate value with its relative likelihood.
type Weighted[T any] struct {
	Value  T
	Weight float64
}

// WeightedChoice draws one value proportionally to its weight. When rounding
// exhausts the list without triggering, the last option is returned rather
// than failing; callers are responsible for supplying at least one positive
// weight. The second return is false only for an empty list.
func WeightedChoice[T any](r *Rand, options []Weighted[T]) (T, bool) {
	var zero T
	if len(options) == 0 {
		return zero, false
	}

	total := 0.0
	for _, opt := range options {
		total += opt.Weight
	}

	draw := r.Next() * total
	for _, opt := range options {
		draw -= opt.Weight
		if draw <= 0 {
			return opt.Value, true
		}
	}
	return options[len(options)-1].Value, true
}

// Choice picks uniformly from the given items. The second return is false
// only for an empty slice.
func Choice[T any](r *Rand, items []T) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	return items[r.NextInt(0, len(items)-1)], true
}
