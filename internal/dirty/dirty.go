// Package dirty tracks the byte ranges of a mapped flash image modified since
// the last flush.
//
// The tracker keeps a list of dirty ranges, coalesces them into page-aligned
// ranges at flush time, and hands each one to a Flusher (msync of the
// matching pages for a memory-mapped image).
package dirty

import (
	"os"
	"sort"
)

// defaultRangeCapacity is the pre-allocated capacity for dirty ranges.
const defaultRangeCapacity = 64

// Range is a dirty byte range, as offsets from the start of the image.
type Range struct {
	Off int64
	Len int64
}

// Flusher writes back one page-aligned range of a mapping.
type Flusher interface {
	FlushRange(off, length int) error
}

// Tracker accumulates dirty ranges and flushes them.
//
// NOT thread-safe. Only one goroutine should use it at a time.
type Tracker struct {
	ranges   []Range
	pageSize int64
	size     int64 // image size; coalesced ranges never extend past it
}

// NewTracker returns a tracker for an image of size bytes using the OS page
// size.
func NewTracker(size int) *Tracker {
	return newTracker(size, os.Getpagesize())
}

func newTracker(size, pageSize int) *Tracker {
	return &Tracker{
		ranges:   make([]Range, 0, defaultRangeCapacity),
		pageSize: int64(pageSize),
		size:     int64(size),
	}
}

// Add records a dirty range. Alignment and merging happen at flush time.
func (t *Tracker) Add(off, length int) {
	if length <= 0 {
		return
	}
	t.ranges = append(t.ranges, Range{Off: int64(off), Len: int64(length)})
}

// Pending reports how many raw ranges are waiting for a flush.
func (t *Tracker) Pending() int {
	return len(t.ranges)
}

// Reset drops every tracked range.
func (t *Tracker) Reset() {
	t.ranges = t.ranges[:0]
}

// Flush hands every coalesced range to f and clears the tracker. On error
// the ranges are kept so a later Flush retries them.
func (t *Tracker) Flush(f Flusher) error {
	for _, r := range t.Coalesced() {
		if err := f.FlushRange(int(r.Off), int(r.Len)); err != nil {
			return err
		}
	}
	t.Reset()
	return nil
}

// Coalesced page-aligns all ranges, sorts them, and merges overlapping or
// adjacent ones. The result is a new slice.
func (t *Tracker) Coalesced() []Range {
	if len(t.ranges) == 0 {
		return nil
	}

	aligned := make([]Range, len(t.ranges))
	for i, r := range t.ranges {
		start := (r.Off / t.pageSize) * t.pageSize

		end := r.Off + r.Len
		if end%t.pageSize != 0 {
			end = ((end / t.pageSize) + 1) * t.pageSize
		}
		if end > t.size {
			end = t.size
		}

		aligned[i] = Range{Off: start, Len: end - start}
	}

	sort.Slice(aligned, func(i, j int) bool {
		return aligned[i].Off < aligned[j].Off
	})

	merged := make([]Range, 0, len(aligned))
	current := aligned[0]
	for _, next := range aligned[1:] {
		if next.Off <= current.Off+current.Len {
			current.Len = max(current.Off+current.Len, next.Off+next.Len) - current.Off
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}
