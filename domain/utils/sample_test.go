package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSample_NoReplacement(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e", "f", "g", "h"}

	for run := 0; run < 50; run++ {
		picked, err := Sample(items, 5)
		require.NoError(t, err)
		require.Len(t, picked, 5)

		seen := make(map[string]bool)
		for _, p := range picked {
			assert.False(t, seen[p], "element %q picked twice", p)
			seen[p] = true
			assert.Contains(t, items, p)
		}
	}
}

func TestSample_ClampsToInputSize(t *testing.T) {
	items := []int{1, 2, 3}

	picked, err := Sample(items, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, items, picked)
}

func TestSample_EmptyAndZero(t *testing.T) {
	picked, err := Sample([]int{}, 3)
	require.NoError(t, err)
	assert.Empty(t, picked)

	picked, err = Sample([]int{1, 2}, 0)
	require.NoError(t, err)
	assert.Empty(t, picked)
}

func TestSample_DoesNotModifyInput(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	original := []int{1, 2, 3, 4, 5}

	_, err := Sample(items, 3)
	require.NoError(t, err)
	assert.Equal(t, original, items)
}

func TestSample_CoversAllElements(t *testing.T) {
	// With enough runs every element should appear at least once.
	items := []int{0, 1, 2, 3}
	counts := make([]int, len(items))

	for run := 0; run < 200; run++ {
		picked, err := Sample(items, 1)
		require.NoError(t, err)
		require.Len(t, picked, 1)
		counts[picked[0]]++
	}

	for i, c := range counts {
		assert.Greater(t, c, 0, "element %d never sampled", i)
	}
}
