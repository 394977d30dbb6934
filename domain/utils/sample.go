package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Sample returns k elements of items chosen uniformly without replacement,
// using a partial Fisher-Yates shuffle. k is clamped to len(items). The
// input slice is not modified.
func Sample[T any](items []T, k int) ([]T, error) {
	n := len(items)
	if k > n {
		k = n
	}
	if k <= 0 {
		return nil, nil
	}

	shuffled := make([]T, n)
	copy(shuffled, items)

	for i := 0; i < k; i++ {
		j, err := randomIndex(int64(n - i))
		if err != nil {
			return nil, err
		}
		shuffled[i], shuffled[i+int(j)] = shuffled[i+int(j)], shuffled[i]
	}

	return shuffled[:k], nil
}

// randomIndex returns a uniform random value in [0, bound)
func randomIndex(bound int64) (int64, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(bound))
	if err != nil {
		return 0, fmt.Errorf("failed to generate random index: %w", err)
	}
	return v.Int64(), nil
}
