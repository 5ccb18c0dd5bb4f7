// Package sampler selects parks for the guide.
package sampler

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// ErrNotEnoughParks is matched by BoundsError when the pool is smaller than the sample
var ErrNotEnoughParks = errors.New("not enough unique parks to sample from")

// BoundsError reports a sample size the pool cannot satisfy
type BoundsError struct {
	Requested int
	Available int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("cannot sample %d parks: only %d unique identifiers available", e.Requested, e.Available)
}

func (e *BoundsError) Is(target error) bool {
	return target == ErrNotEnoughParks
}

// NewRand returns a generator seeded with seed, or with the clock when seed is 0
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Sample returns k distinct identifiers chosen uniformly at random from pool.
// Duplicates in pool are collapsed first; the pool itself is not modified.
func Sample(rng *rand.Rand, pool []string, k int) ([]string, error) {
	if k <= 0 {
		return nil, fmt.Errorf("sample size must be positive, got %d", k)
	}

	unique := dedupe(pool)
	if len(unique) < k {
		return nil, &BoundsError{Requested: k, Available: len(unique)}
	}

	rng.Shuffle(len(unique), func(i, j int) {
		unique[i], unique[j] = unique[j], unique[i]
	})
	return unique[:k:k], nil
}

func dedupe(pool []string) []string {
	seen := make(map[string]struct{}, len(pool))
	out := make([]string, 0, len(pool))
	for _, id := range pool {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
