package hdf5

import (
	"fmt"

	"github.com/hpcio/snapio/internal/dtype"
	"github.com/hpcio/snapio/internal/filter"
	"github.com/hpcio/snapio/internal/layout"
	"github.com/hpcio/snapio/internal/message"
)

// CreateDataset writes a dataset at path holding raw little-endian
// elements of the given kind and extents. Intermediate groups are created
// as needed. The element data is written to the file immediately; the
// object header waits for the next flush.
func (f *File) CreateDataset(path string, kind dtype.Kind, dims []uint64, raw []byte, opts ...DatasetOption) error {
	if f.closed {
		return ErrFileClosed
	}
	parts := splitPath(path)
	if len(parts) == 0 {
		return fmt.Errorf("%w: empty dataset path", ErrInvalidName)
	}
	name := parts[len(parts)-1]

	parent, err := f.ensureGroups(parts[:len(parts)-1])
	if err != nil {
		return err
	}
	if parent.child(name) != nil {
		return fmt.Errorf("%w: %s", ErrObjectExists, path)
	}

	var numElems uint64 = 1
	for _, d := range dims {
		numElems *= d
	}
	if numElems*uint64(kind.Size()) != uint64(len(raw)) {
		return fmt.Errorf("%w: %d bytes for %d elements of %s",
			ErrShapeMismatch, len(raw), numElems, kind)
	}

	var cfg datasetConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.chunked() && len(cfg.chunkDims) != len(dims) {
		return fmt.Errorf("%w: %d chunk dimensions for rank %d",
			ErrShapeMismatch, len(cfg.chunkDims), len(dims))
	}

	info := &datasetInfo{
		dataspace: message.NewDataspace(dims),
		datatype:  kind.Message(),
	}

	if cfg.chunked() && numElems > 0 {
		if err := f.writeChunked(info, &cfg, kind, dims, raw); err != nil {
			return fmt.Errorf("dataset %s: %w", path, err)
		}
	} else {
		if err := f.writeContiguous(info, raw); err != nil {
			return fmt.Errorf("dataset %s: %w", path, err)
		}
	}

	parent.children = append(parent.children, &node{name: name, dataset: info})
	return nil
}

func (f *File) writeContiguous(info *datasetInfo, raw []byte) error {
	addr := message.UndefinedAddress
	if len(raw) > 0 {
		addr = f.alloc.Alloc(uint64(len(raw)))
		if err := f.w.At(int64(addr)).WriteBytes(raw); err != nil {
			return err
		}
	}
	info.layout = message.NewContiguousLayout(addr, uint64(len(raw)))
	return nil
}

func (f *File) writeChunked(info *datasetInfo, cfg *datasetConfig, kind dtype.Kind, dims []uint64, raw []byte) error {
	var pipeline *filter.Pipeline
	filtered := len(cfg.filters) > 0
	if filtered {
		info.pipeline = message.NewFilterPipeline(cfg.filters)
		p, err := filter.NewPipeline(info.pipeline)
		if err != nil {
			return err
		}
		pipeline = p
	}

	chunks := layout.SplitIntoChunks(raw, dims, cfg.chunkDims, kind.Size())
	cw := layout.NewChunkWriter(f.w, func(size int64) uint64 {
		return f.alloc.Alloc(uint64(size))
	})

	entries := make([]layout.Entry, len(chunks))
	for i, chunk := range chunks {
		stored := chunk
		if filtered {
			var err error
			if stored, err = pipeline.Encode(chunk); err != nil {
				return err
			}
		}
		addr, err := cw.WriteChunk(stored)
		if err != nil {
			return err
		}
		entries[i] = layout.Entry{Addr: addr, StoredSize: uint32(len(stored))}
	}

	if len(entries) == 1 {
		// One chunk needs no index structure: the layout message points
		// straight at the chunk.
		l := message.NewChunkedLayout(cfg.chunkDims, kind.Size(), message.ChunkIndexSingleChunk)
		l.ChunkIndexAddr = entries[0].Addr
		if filtered {
			l.Filtered = true
			l.FilteredChunkSize = uint64(entries[0].StoredSize)
		}
		info.layout = l
		return nil
	}

	indexAddr, err := cw.WriteFixedArrayIndex(entries, filtered)
	if err != nil {
		return err
	}
	l := message.NewChunkedLayout(cfg.chunkDims, kind.Size(), message.ChunkIndexFixedArray)
	l.ChunkIndexAddr = indexAddr
	info.layout = l
	return nil
}
