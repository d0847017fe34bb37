package layout

import (
	"github.com/hpcio/snapio/internal/binary"
)

// Entry describes one stored chunk for the chunk index.
type Entry struct {
	Addr       uint64
	StoredSize uint32 // post-filter byte size
	FilterMask uint32 // bit i set = filter i was skipped
}

// entryChunkSizeBytes is the width of the stored-size field in filtered
// Fixed Array entries.
const entryChunkSizeBytes = 4

// ChunkWriter writes chunk data and the Fixed Array index for one dataset.
type ChunkWriter struct {
	w     *binary.Writer
	alloc func(size int64) uint64
}

// NewChunkWriter creates a chunk writer allocating file space via alloc.
func NewChunkWriter(w *binary.Writer, alloc func(size int64) uint64) *ChunkWriter {
	return &ChunkWriter{w: w, alloc: alloc}
}

// WriteChunk writes one chunk's stored bytes and returns its address.
func (cw *ChunkWriter) WriteChunk(data []byte) (uint64, error) {
	addr := cw.alloc(int64(len(data)))
	if err := cw.w.At(int64(addr)).WriteBytes(data); err != nil {
		return 0, err
	}
	return addr, nil
}

// WriteFixedArrayIndex writes a Fixed Array chunk index (header plus one
// data block) for the given entries in storage order and returns the
// header address, which is what the layout message points at. filtered
// selects the entry format: plain addresses for client ID 0, address plus
// stored size plus filter mask for client ID 1.
func (cw *ChunkWriter) WriteFixedArrayIndex(entries []Entry, filtered bool) (uint64, error) {
	numChunks := len(entries)
	if numChunks == 0 {
		return 0, nil
	}

	offsetSize := cw.w.OffsetSize()
	lengthSize := cw.w.LengthSize()

	clientID := uint8(0)
	entrySize := offsetSize
	if filtered {
		clientID = 1
		entrySize = offsetSize + entryChunkSizeBytes + 4
	}

	// Keep the data block unpaged by growing the page size past the
	// entry count.
	pageBits := uint8(10)
	for numChunks > 1<<pageBits {
		pageBits++
	}

	headerSize := 4 + 4 + lengthSize + offsetSize + 4
	headerAddr := cw.alloc(int64(headerSize))

	dataBlockSize := 4 + 1 + 1 + offsetSize + numChunks*entrySize + 4
	dataBlockAddr := cw.alloc(int64(dataBlockSize))

	// Data block: FADB, version, client ID, header address, entries,
	// checksum over everything before it.
	buf := binary.NewBuffer(dataBlockSize)
	bw := binary.NewWriter(buf, cw.w.Config())
	if err := bw.WriteBytes([]byte("FADB")); err != nil {
		return 0, err
	}
	if err := bw.WriteUint8(0); err != nil {
		return 0, err
	}
	if err := bw.WriteUint8(clientID); err != nil {
		return 0, err
	}
	if err := bw.WriteOffset(headerAddr); err != nil {
		return 0, err
	}
	for _, e := range entries {
		if err := bw.WriteOffset(e.Addr); err != nil {
			return 0, err
		}
		if filtered {
			if err := bw.WriteUintN(uint64(e.StoredSize), entryChunkSizeBytes); err != nil {
				return 0, err
			}
			if err := bw.WriteUint32(e.FilterMask); err != nil {
				return 0, err
			}
		}
	}
	if err := bw.WriteUint32(binary.Lookup3(buf.Bytes(bw.Pos()))); err != nil {
		return 0, err
	}
	if err := cw.w.At(int64(dataBlockAddr)).WriteBytes(buf.Bytes(bw.Pos())); err != nil {
		return 0, err
	}

	// Header: FAHD, version, client ID, entry size, page bits, max entry
	// count, data block address, checksum.
	hbuf := binary.NewBuffer(headerSize)
	hw := binary.NewWriter(hbuf, cw.w.Config())
	if err := hw.WriteBytes([]byte("FAHD")); err != nil {
		return 0, err
	}
	if err := hw.WriteUint8(0); err != nil {
		return 0, err
	}
	if err := hw.WriteUint8(clientID); err != nil {
		return 0, err
	}
	if err := hw.WriteUint8(uint8(entrySize)); err != nil {
		return 0, err
	}
	if err := hw.WriteUint8(pageBits); err != nil {
		return 0, err
	}
	if err := hw.WriteLength(uint64(numChunks)); err != nil {
		return 0, err
	}
	if err := hw.WriteOffset(dataBlockAddr); err != nil {
		return 0, err
	}
	if err := hw.WriteUint32(binary.Lookup3(hbuf.Bytes(hw.Pos()))); err != nil {
		return 0, err
	}
	if err := cw.w.At(int64(headerAddr)).WriteBytes(hbuf.Bytes(hw.Pos())); err != nil {
		return 0, err
	}

	return headerAddr, nil
}
