package lib

// DefaultBatchSize is the number of files published per commit.
const DefaultBatchSize = 500

// Batch is a contiguous slice [Start, End) of the full path list.
type Batch struct {
	Start int
	End   int
	Paths []string
}

// SplitBatches partitions paths, in order, into batches of at most size
// entries. A non-positive size falls back to DefaultBatchSize.
func SplitBatches(paths []string, size int) []Batch {
	if size <= 0 {
		size = DefaultBatchSize
	}
	batches := make([]Batch, 0, (len(paths)+size-1)/size)
	for start := 0; start < len(paths); start += size {
		end := min(start+size, len(paths))
		batches = append(batches, Batch{
			Start: start,
			End:   end,
			Paths: paths[start:end:end],
		})
	}
	return batches
}
