package lib

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makePaths(n int) []string {
	paths := make([]string, n)
	for i := range paths {
		paths[i] = fmt.Sprintf("file-%04d.html", i)
	}
	return paths
}

func TestSplitBatches(t *testing.T) {
	for _, n := range []int{0, 1, 499, 500, 501, 1000, 1001} {
		t.Run(fmt.Sprintf("%d paths", n), func(t *testing.T) {
			paths := makePaths(n)
			batches := SplitBatches(paths, DefaultBatchSize)

			require.Len(t, batches, (n+DefaultBatchSize-1)/DefaultBatchSize)

			// Batches are contiguous, bounded and cover every path once.
			next := 0
			var joined []string
			for _, b := range batches {
				assert.Equal(t, next, b.Start)
				assert.LessOrEqual(t, b.End-b.Start, DefaultBatchSize)
				assert.Greater(t, b.End, b.Start)
				assert.Equal(t, paths[b.Start:b.End], b.Paths)
				joined = append(joined, b.Paths...)
				next = b.End
			}
			assert.Equal(t, n, next)
			if n > 0 {
				assert.Equal(t, paths, joined)
			}
		})
	}

	t.Run("non-positive size uses the default", func(t *testing.T) {
		batches := SplitBatches(makePaths(1001), 0)
		require.Len(t, batches, 3)
		assert.Equal(t, Batch{Start: 1000, End: 1001, Paths: []string{"file-1000.html"}}, batches[2])
	})

	t.Run("appending to a batch does not clobber the next one", func(t *testing.T) {
		paths := makePaths(4)
		batches := SplitBatches(paths, 2)
		_ = append(batches[0].Paths, "extra")
		assert.Equal(t, "file-0002.html", batches[1].Paths[0])
	})
}
