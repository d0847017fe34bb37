// Package alloc manages file-space allocation for container writing.
// Allocation is append-only: blocks are handed out at the end of file and
// never reclaimed, which matches a write-once snapshot workload.
package alloc

import "sync"

// Allocator hands out non-overlapping byte ranges within a file.
type Allocator struct {
	mu sync.Mutex

	// base is the first allocatable address, just past the superblock.
	base uint64
	// eof is the next allocation point, also the logical end of file.
	eof uint64
}

// New creates an allocator whose first block starts at base.
func New(base uint64) *Allocator {
	return &Allocator{base: base, eof: base}
}

// Alloc reserves size bytes and returns the address of the block.
// A zero-size request returns the current EOF without reserving anything.
func (a *Allocator) Alloc(size uint64) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	addr := a.eof
	a.eof += size
	return addr
}

// EOF returns the current end-of-file address.
func (a *Allocator) EOF() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.eof
}

// Base returns the start of allocatable space.
func (a *Allocator) Base() uint64 {
	return a.base
}
