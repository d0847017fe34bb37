package message

import (
	"fmt"

	"github.com/hpcio/snapio/internal/binary"
)

// LayoutClass is the dataset storage layout class.
type LayoutClass uint8

const (
	LayoutCompact    LayoutClass = 0
	LayoutContiguous LayoutClass = 1
	LayoutChunked    LayoutClass = 2
)

// ChunkIndexType identifies the chunk index of a version 4 chunked layout.
type ChunkIndexType uint8

const (
	ChunkIndexSingleChunk ChunkIndexType = 0
	ChunkIndexImplicit    ChunkIndexType = 1
	ChunkIndexFixedArray  ChunkIndexType = 2
)

// Layout flags (version 4 chunked).
const (
	layoutFlagSingleIndexWithFilter = 0x02
)

// fixedArrayPageBits is log2 of the entries per Fixed Array data block
// page. Must agree with the value encoded in the index header.
const fixedArrayPageBits = 10

// DataLayout is a data layout message (type 0x0008). Contiguous datasets
// use the version 3 encoding, chunked datasets version 4.
type DataLayout struct {
	Version uint8
	Class   LayoutClass

	// Contiguous.
	Address uint64
	Size    uint64

	// Chunked. ChunkDims carries the element size as a trailing extra
	// dimension, as the version 4 encoding requires.
	ChunkDims          []uint32
	ChunkIndexType     ChunkIndexType
	ChunkIndexAddr     uint64
	DimensionSizeBytes uint8

	// Single filtered chunk: the stored (post-filter) size and the mask of
	// skipped filters, embedded directly in the message.
	FilteredChunkSize uint64
	FilterMask        uint32
	Filtered          bool
}

func (m *DataLayout) Type() Type { return TypeDataLayout }

// IsChunked reports whether data is stored in chunks.
func (m *DataLayout) IsChunked() bool { return m.Class == LayoutChunked }

// NewContiguousLayout creates a version 3 contiguous layout.
func NewContiguousLayout(address, size uint64) *DataLayout {
	return &DataLayout{
		Version: 3,
		Class:   LayoutContiguous,
		Address: address,
		Size:    size,
	}
}

// NewChunkedLayout creates a version 4 chunked layout. chunkDims are the
// dataset-facing chunk extents; the element size is appended as the extra
// dimension the encoding expects.
func NewChunkedLayout(chunkDims []uint32, elementSize uint32, indexType ChunkIndexType) *DataLayout {
	allDims := make([]uint32, len(chunkDims)+1)
	copy(allDims, chunkDims)
	allDims[len(chunkDims)] = elementSize

	var dimSizeBytes uint8 = 1
	for _, d := range allDims {
		if d > 0xff && dimSizeBytes < 2 {
			dimSizeBytes = 2
		}
		if d > 0xffff && dimSizeBytes < 4 {
			dimSizeBytes = 4
		}
	}

	return &DataLayout{
		Version:            4,
		Class:              LayoutChunked,
		ChunkDims:          allDims,
		ChunkIndexType:     indexType,
		DimensionSizeBytes: dimSizeBytes,
	}
}

// Serialize writes the layout message.
func (m *DataLayout) Serialize(w *binary.Writer) error {
	version := m.Version
	if version == 0 {
		version = 3
		if m.Class == LayoutChunked {
			version = 4
		}
	}
	if err := w.WriteUint8(version); err != nil {
		return err
	}
	if err := w.WriteUint8(uint8(m.Class)); err != nil {
		return err
	}

	switch m.Class {
	case LayoutContiguous:
		if err := w.WriteOffset(m.Address); err != nil {
			return err
		}
		return w.WriteLength(m.Size)

	case LayoutChunked:
		flags := uint8(0)
		if m.ChunkIndexType == ChunkIndexSingleChunk && m.Filtered {
			flags |= layoutFlagSingleIndexWithFilter
		}
		if err := w.WriteUint8(flags); err != nil {
			return err
		}
		if err := w.WriteUint8(uint8(len(m.ChunkDims))); err != nil {
			return err
		}
		dimSizeBytes := m.DimensionSizeBytes
		if dimSizeBytes == 0 {
			dimSizeBytes = 4
		}
		if err := w.WriteUint8(dimSizeBytes); err != nil {
			return err
		}
		for _, dim := range m.ChunkDims {
			if err := w.WriteUintN(uint64(dim), int(dimSizeBytes)); err != nil {
				return err
			}
		}
		if err := w.WriteUint8(uint8(m.ChunkIndexType)); err != nil {
			return err
		}

		switch m.ChunkIndexType {
		case ChunkIndexSingleChunk:
			if m.Filtered {
				if err := w.WriteLength(m.FilteredChunkSize); err != nil {
					return err
				}
				if err := w.WriteUint32(m.FilterMask); err != nil {
					return err
				}
			}
		case ChunkIndexFixedArray:
			if err := w.WriteUint8(fixedArrayPageBits); err != nil {
				return err
			}
		}

		return w.WriteOffset(m.ChunkIndexAddr)

	default:
		return fmt.Errorf("unsupported layout class %d", m.Class)
	}
}

// SerializedSize returns the encoded size in bytes.
func (m *DataLayout) SerializedSize(w *binary.Writer) int {
	size := 2

	switch m.Class {
	case LayoutContiguous:
		size += w.OffsetSize() + w.LengthSize()

	case LayoutChunked:
		dimSizeBytes := int(m.DimensionSizeBytes)
		if dimSizeBytes == 0 {
			dimSizeBytes = 4
		}
		size += 3 // flags, ndims, dim size bytes
		size += len(m.ChunkDims) * dimSizeBytes
		size++ // index type
		switch m.ChunkIndexType {
		case ChunkIndexSingleChunk:
			if m.Filtered {
				size += w.LengthSize() + 4
			}
		case ChunkIndexFixedArray:
			size++ // page bits
		}
		size += w.OffsetSize()
	}

	return size
}

func parseDataLayout(data []byte, r *binary.Reader) (*DataLayout, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("data layout message too short: %d bytes", len(data))
	}

	layout := &DataLayout{Version: data[0], Class: LayoutClass(data[1])}
	offset := 2

	switch layout.Class {
	case LayoutContiguous:
		offSize, lenSize := r.OffsetSize(), r.LengthSize()
		if offset+offSize+lenSize > len(data) {
			return nil, fmt.Errorf("contiguous layout truncated")
		}
		layout.Address = binary.DecodeUint(r.ByteOrder(), data[offset:], offSize)
		offset += offSize
		layout.Size = binary.DecodeUint(r.ByteOrder(), data[offset:], lenSize)
		return layout, nil

	case LayoutChunked:
		if layout.Version != 4 {
			return nil, fmt.Errorf("unsupported chunked layout version %d", layout.Version)
		}
		if offset+3 > len(data) {
			return nil, fmt.Errorf("chunked layout truncated")
		}
		flags := data[offset]
		ndims := int(data[offset+1])
		dimSize := int(data[offset+2])
		offset += 3

		layout.DimensionSizeBytes = uint8(dimSize)
		layout.ChunkDims = make([]uint32, ndims)
		for i := 0; i < ndims; i++ {
			if offset+dimSize > len(data) {
				return nil, fmt.Errorf("chunked layout truncated reading dimensions")
			}
			layout.ChunkDims[i] = uint32(binary.DecodeUint(r.ByteOrder(), data[offset:], dimSize))
			offset += dimSize
		}

		if offset >= len(data) {
			return nil, fmt.Errorf("chunked layout missing index type")
		}
		layout.ChunkIndexType = ChunkIndexType(data[offset])
		offset++

		switch layout.ChunkIndexType {
		case ChunkIndexSingleChunk:
			if flags&layoutFlagSingleIndexWithFilter != 0 {
				lenSize := r.LengthSize()
				if offset+lenSize+4 > len(data) {
					return nil, fmt.Errorf("filtered single chunk layout truncated")
				}
				layout.Filtered = true
				layout.FilteredChunkSize = binary.DecodeUint(r.ByteOrder(), data[offset:], lenSize)
				offset += lenSize
				layout.FilterMask = uint32(binary.DecodeUint(r.ByteOrder(), data[offset:], 4))
				offset += 4
			}
		case ChunkIndexFixedArray:
			offset++ // page bits
		}

		offSize := r.OffsetSize()
		if offset+offSize > len(data) {
			return nil, fmt.Errorf("chunked layout missing index address")
		}
		layout.ChunkIndexAddr = binary.DecodeUint(r.ByteOrder(), data[offset:], offSize)
		return layout, nil

	default:
		return nil, fmt.Errorf("unsupported layout class %d", layout.Class)
	}
}
