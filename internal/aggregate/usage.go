package aggregate

import (
	"sort"

	"github.com/ethereum/go-ethereum/common"

	"ethflowScope/internal/model"
)

// UsageTable counts occurrences per app data hash and remembers first-seen order.
type UsageTable struct {
	counts map[common.Hash]int
	order  []common.Hash
	total  int
}

func NewUsageTable() *UsageTable {
	return &UsageTable{counts: make(map[common.Hash]int)}
}

// Add records one occurrence of hash.
func (u *UsageTable) Add(hash common.Hash) {
	if _, ok := u.counts[hash]; !ok {
		u.order = append(u.order, hash)
	}
	u.counts[hash]++
	u.total++
}

// Count returns the occurrences recorded for hash.
func (u *UsageTable) Count(hash common.Hash) int {
	return u.counts[hash]
}

// Len returns the number of distinct hashes.
func (u *UsageTable) Len() int {
	return len(u.order)
}

// Total returns the number of occurrences across all hashes.
func (u *UsageTable) Total() int {
	return u.total
}

// Sorted returns entries by descending count. Equal counts keep first-seen order.
func (u *UsageTable) Sorted() []model.UsageEntry {
	entries := make([]model.UsageEntry, 0, len(u.order))
	for _, hash := range u.order {
		entries = append(entries, model.UsageEntry{AppData: hash.Hex(), Count: u.counts[hash]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	return entries
}
