package layout

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/hpcio/snapio/internal/binary"
)

var (
	ErrBadIndexSignature = errors.New("chunk index signature not found")
	ErrBadIndexChecksum  = errors.New("chunk index checksum mismatch")
)

// ReadFixedArrayIndex parses the Fixed Array index at headerAddr and
// returns the chunk entries in storage order.
func ReadFixedArrayIndex(r *binary.Reader, headerAddr uint64) ([]Entry, error) {
	offsetSize := r.OffsetSize()
	lengthSize := r.LengthSize()

	headerSize := 4 + 4 + lengthSize + offsetSize + 4
	hr := r.At(int64(headerAddr))
	header, err := hr.ReadBytes(headerSize)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(header[:4], []byte("FAHD")) {
		return nil, fmt.Errorf("fixed array header at 0x%x: %w", headerAddr, ErrBadIndexSignature)
	}
	if err := verifyTrailingChecksum(header, r); err != nil {
		return nil, fmt.Errorf("fixed array header: %w", err)
	}

	clientID := header[5]
	entrySize := int(header[6])
	numEntries := binary.DecodeUint(r.ByteOrder(), header[8:], lengthSize)
	dataBlockAddr := binary.DecodeUint(r.ByteOrder(), header[8+lengthSize:], offsetSize)

	filtered := clientID == 1
	wantEntrySize := offsetSize
	if filtered {
		wantEntrySize = offsetSize + entryChunkSizeBytes + 4
	}
	if entrySize != wantEntrySize {
		return nil, fmt.Errorf("fixed array entry size %d, want %d", entrySize, wantEntrySize)
	}

	dataBlockSize := 4 + 1 + 1 + offsetSize + int(numEntries)*entrySize + 4
	dr := r.At(int64(dataBlockAddr))
	block, err := dr.ReadBytes(dataBlockSize)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(block[:4], []byte("FADB")) {
		return nil, fmt.Errorf("fixed array data block at 0x%x: %w", dataBlockAddr, ErrBadIndexSignature)
	}
	if err := verifyTrailingChecksum(block, r); err != nil {
		return nil, fmt.Errorf("fixed array data block: %w", err)
	}

	entries := make([]Entry, numEntries)
	offset := 6 + offsetSize
	for i := range entries {
		entries[i].Addr = binary.DecodeUint(r.ByteOrder(), block[offset:], offsetSize)
		offset += offsetSize
		if filtered {
			entries[i].StoredSize = uint32(binary.DecodeUint(r.ByteOrder(), block[offset:], entryChunkSizeBytes))
			offset += entryChunkSizeBytes
			entries[i].FilterMask = uint32(binary.DecodeUint(r.ByteOrder(), block[offset:], 4))
			offset += 4
		}
	}
	return entries, nil
}

func verifyTrailingChecksum(data []byte, r *binary.Reader) error {
	body := data[:len(data)-4]
	stored := uint32(binary.DecodeUint(r.ByteOrder(), data[len(data)-4:], 4))
	if stored != binary.Lookup3(body) {
		return ErrBadIndexChecksum
	}
	return nil
}
