// Package filter implements the chunk filters the writer can apply:
// deflate, byte shuffle, fletcher32, zstd and lz4. Filters encode chunk
// data on the way out and decode it again during verification.
package filter

import (
	"fmt"

	"github.com/hpcio/snapio/internal/message"
)

// Filter transforms chunk data in both directions.
type Filter interface {
	// ID returns the registered HDF5 filter identifier.
	ID() uint16
	// Encode transforms raw data to its stored form.
	Encode(input []byte) ([]byte, error)
	// Decode reverses Encode.
	Decode(input []byte) ([]byte, error)
}

// Registry maps filter IDs to constructors taking the filter client data.
var Registry = map[uint16]func([]uint32) Filter{
	message.FilterDeflate:    func(cd []uint32) Filter { return NewDeflate(cd) },
	message.FilterShuffle:    func(cd []uint32) Filter { return NewShuffle(cd) },
	message.FilterFletcher32: func(cd []uint32) Filter { return NewFletcher32(cd) },
	message.FilterZstd:       func(cd []uint32) Filter { return NewZstd(cd) },
	message.FilterLZ4:        func(cd []uint32) Filter { return NewLZ4(cd) },
}

// New creates a filter from its pipeline description.
func New(info message.FilterInfo) (Filter, error) {
	constructor, ok := Registry[info.ID]
	if !ok {
		if info.IsOptional() {
			return nil, nil
		}
		return nil, fmt.Errorf("unsupported filter ID %d", info.ID)
	}
	return constructor(info.ClientData), nil
}
