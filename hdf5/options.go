package hdf5

import (
	"github.com/hpcio/snapio/internal/dtype"
	"github.com/hpcio/snapio/internal/message"
)

// DatasetOption configures storage for one dataset.
type DatasetOption func(*datasetConfig)

type datasetConfig struct {
	chunkDims []uint32
	filters   []message.FilterInfo
}

func (c *datasetConfig) chunked() bool { return len(c.chunkDims) > 0 }

// WithChunks stores the dataset chunked with the given chunk extents.
// Filters only apply to chunked datasets.
func WithChunks(chunkDims []uint32) DatasetOption {
	return func(c *datasetConfig) {
		c.chunkDims = append([]uint32(nil), chunkDims...)
	}
}

// WithDeflate appends the deflate filter at the given level (0-9).
func WithDeflate(level int) DatasetOption {
	return func(c *datasetConfig) {
		c.filters = append(c.filters, message.FilterInfo{
			ID:         message.FilterDeflate,
			ClientData: []uint32{uint32(level)},
		})
	}
}

// WithShuffle appends the byte shuffle filter for elements of kind.
// Place it before the compression filter it is meant to help.
func WithShuffle(kind dtype.Kind) DatasetOption {
	return func(c *datasetConfig) {
		c.filters = append(c.filters, message.FilterInfo{
			ID:         message.FilterShuffle,
			ClientData: []uint32{kind.Size()},
		})
	}
}

// WithFletcher32 appends the fletcher32 checksum filter.
func WithFletcher32() DatasetOption {
	return func(c *datasetConfig) {
		c.filters = append(c.filters, message.FilterInfo{
			ID: message.FilterFletcher32,
		})
	}
}

// WithZstd appends the registered Zstandard filter at the given level.
func WithZstd(level int) DatasetOption {
	return func(c *datasetConfig) {
		c.filters = append(c.filters, message.FilterInfo{
			ID:         message.FilterZstd,
			Name:       "zstd",
			ClientData: []uint32{uint32(level)},
		})
	}
}

// WithLZ4 appends the registered lz4 filter with its default block size.
func WithLZ4() DatasetOption {
	return func(c *datasetConfig) {
		c.filters = append(c.filters, message.FilterInfo{
			ID:   message.FilterLZ4,
			Name: "lz4",
		})
	}
}
