package filter

import (
	"encoding/binary"
	"fmt"

	binpkg "github.com/hpcio/snapio/internal/binary"
	"github.com/hpcio/snapio/internal/message"
)

// Fletcher32Filter implements the fletcher32 checksum filter (ID 3). The
// stored form is the data followed by its 4-byte little-endian checksum.
type Fletcher32Filter struct{}

// NewFletcher32 creates a fletcher32 filter. It takes no client data.
func NewFletcher32(clientData []uint32) *Fletcher32Filter {
	return &Fletcher32Filter{}
}

func (f *Fletcher32Filter) ID() uint16 { return message.FilterFletcher32 }

func (f *Fletcher32Filter) Encode(input []byte) ([]byte, error) {
	checksum := binpkg.Fletcher32(input)
	output := make([]byte, len(input)+4)
	copy(output, input)
	binary.LittleEndian.PutUint32(output[len(input):], checksum)
	return output, nil
}

func (f *Fletcher32Filter) Decode(input []byte) ([]byte, error) {
	if len(input) < 4 {
		return nil, fmt.Errorf("fletcher32: input too short for checksum")
	}
	data := input[:len(input)-4]
	stored := binary.LittleEndian.Uint32(input[len(input)-4:])
	if computed := binpkg.Fletcher32(data); stored != computed {
		return nil, fmt.Errorf("fletcher32: checksum mismatch (stored=0x%08x, computed=0x%08x)",
			stored, computed)
	}
	return data, nil
}
