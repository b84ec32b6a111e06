package indexer

import (
	"fmt"
	"time"
)

// BlockRange represents an inclusive block range.
type BlockRange struct {
	From uint64
	To   uint64
}

// Blocks returns the number of blocks covered by the range.
func (r BlockRange) Blocks() uint64 {
	return r.To - r.From + 1
}

// BlocksForWindow converts a wall-clock window into a block count assuming a constant block time.
func BlocksForWindow(window, blockTime time.Duration) (uint64, error) {
	if window <= 0 {
		return 0, fmt.Errorf("window must be positive")
	}
	if blockTime <= 0 {
		return 0, fmt.Errorf("block time must be positive")
	}
	blocks := uint64(window / blockTime)
	if blocks == 0 {
		return 0, fmt.Errorf("window %s is shorter than one block (%s)", window, blockTime)
	}
	return blocks, nil
}

// ClampWindow limits the window so it never starts before genesis.
// It returns the usable block count and whether clamping happened.
func ClampWindow(head, totalBlocks uint64) (uint64, bool) {
	if totalBlocks > head {
		return head, true
	}
	return totalBlocks, false
}

// PlanRanges splits the window [head-totalBlocks, head] into at most maxChunk-wide
// ranges, most recent first. Ranges are disjoint and contiguous; the last one
// reaches down to head-totalBlocks.
func PlanRanges(head, totalBlocks, maxChunk uint64) ([]BlockRange, error) {
	if maxChunk == 0 {
		return nil, fmt.Errorf("max chunk must be greater than zero")
	}
	if totalBlocks > head {
		return nil, fmt.Errorf("window of %d blocks starts before genesis (head %d)", totalBlocks, head)
	}
	if totalBlocks == 0 {
		return []BlockRange{{From: head, To: head}}, nil
	}

	count := totalBlocks / maxChunk
	if totalBlocks%maxChunk != 0 {
		count++
	}
	start := head - totalBlocks
	ranges := make([]BlockRange, 0, count)
	// end never drops below start, so every subtraction stays in range.
	for end := head; ; end -= maxChunk {
		if end-start <= maxChunk {
			ranges = append(ranges, BlockRange{From: start, To: end})
			break
		}
		ranges = append(ranges, BlockRange{From: end - maxChunk + 1, To: end})
	}

	return ranges, nil
}
