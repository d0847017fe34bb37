package filter

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/hpcio/snapio/internal/message"
)

// lz4DefaultBlockSize matches the registered filter's default.
const lz4DefaultBlockSize = 1 << 30

var lz4CompressorPool = sync.Pool{
	New: func() any { return &lz4.Compressor{} },
}

// LZ4 implements the registered lz4 filter (ID 32004). The stored form is
// the filter's own framing, not the lz4 frame format: an 8-byte big-endian
// original size, a 4-byte big-endian block size, then per block a 4-byte
// big-endian compressed length followed by the block bytes. A block whose
// compressed form would not shrink is stored raw with its length equal to
// the original block size.
type LZ4 struct {
	blockSize int
}

// NewLZ4 creates an lz4 filter. Client data: [0] = block size in bytes.
func NewLZ4(clientData []uint32) *LZ4 {
	blockSize := lz4DefaultBlockSize
	if len(clientData) > 0 && clientData[0] > 0 {
		blockSize = int(clientData[0])
	}
	return &LZ4{blockSize: blockSize}
}

func (f *LZ4) ID() uint16 { return message.FilterLZ4 }

func (f *LZ4) Encode(input []byte) ([]byte, error) {
	blockSize := f.blockSize
	if blockSize > len(input) && len(input) > 0 {
		blockSize = len(input)
	}

	output := make([]byte, 0, len(input)+16)
	var hdr [12]byte
	binary.BigEndian.PutUint64(hdr[0:8], uint64(len(input)))
	binary.BigEndian.PutUint32(hdr[8:12], uint32(blockSize))
	output = append(output, hdr[:]...)

	lc := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	for off := 0; off < len(input); off += blockSize {
		end := off + blockSize
		if end > len(input) {
			end = len(input)
		}
		block := input[off:end]

		dst := make([]byte, lz4.CompressBlockBound(len(block)))
		n, err := lc.CompressBlock(block, dst)
		if err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}

		var lenBuf [4]byte
		if n == 0 || n >= len(block) {
			// Incompressible block, store raw.
			binary.BigEndian.PutUint32(lenBuf[:], uint32(len(block)))
			output = append(output, lenBuf[:]...)
			output = append(output, block...)
		} else {
			binary.BigEndian.PutUint32(lenBuf[:], uint32(n))
			output = append(output, lenBuf[:]...)
			output = append(output, dst[:n]...)
		}
	}
	return output, nil
}

func (f *LZ4) Decode(input []byte) ([]byte, error) {
	if len(input) < 12 {
		return nil, fmt.Errorf("lz4: input too short for header")
	}
	origSize := binary.BigEndian.Uint64(input[0:8])
	blockSize := int(binary.BigEndian.Uint32(input[8:12]))
	if blockSize <= 0 {
		return nil, fmt.Errorf("lz4: invalid block size %d", blockSize)
	}

	output := make([]byte, 0, origSize)
	offset := 12
	for uint64(len(output)) < origSize {
		if offset+4 > len(input) {
			return nil, fmt.Errorf("lz4: truncated block header")
		}
		compLen := int(binary.BigEndian.Uint32(input[offset:]))
		offset += 4
		if offset+compLen > len(input) {
			return nil, fmt.Errorf("lz4: truncated block")
		}

		remaining := origSize - uint64(len(output))
		thisBlock := blockSize
		if uint64(thisBlock) > remaining {
			thisBlock = int(remaining)
		}

		if compLen == thisBlock {
			// Stored raw.
			output = append(output, input[offset:offset+compLen]...)
		} else {
			dst := make([]byte, thisBlock)
			n, err := lz4.UncompressBlock(input[offset:offset+compLen], dst)
			if err != nil {
				return nil, fmt.Errorf("lz4 decompress: %w", err)
			}
			output = append(output, dst[:n]...)
		}
		offset += compLen
	}
	return output, nil
}
