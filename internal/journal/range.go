package journal

import "fmt"

// SeqRange is an inclusive range of operation indexes.
type SeqRange struct {
	From uint64
	To   uint64
}

// SplitRange splits an inclusive range into batches of at most batchSize.
func SplitRange(from, to, batchSize uint64) ([]SeqRange, error) {
	if batchSize == 0 {
		return nil, fmt.Errorf("batch size must be greater than zero")
	}
	if to < from {
		return nil, fmt.Errorf("range end must be >= range start")
	}

	ranges := make([]SeqRange, 0, (to-from)/batchSize+1)
	for start := from; ; start += batchSize {
		if to-start < batchSize {
			ranges = append(ranges, SeqRange{From: start, To: to})
			return ranges, nil
		}
		ranges = append(ranges, SeqRange{From: start, To: start + batchSize - 1})
	}
}
