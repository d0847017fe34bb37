package message

import (
	"fmt"

	"github.com/hpcio/snapio/internal/binary"
)

// DataspaceType distinguishes scalar, simple and null dataspaces.
type DataspaceType uint8

const (
	DataspaceScalar DataspaceType = 0
	DataspaceSimple DataspaceType = 1
	DataspaceNull   DataspaceType = 2
)

// Dataspace is a dataspace message (type 0x0001), always written in the
// version 2 format.
type Dataspace struct {
	Version    uint8
	Rank       int
	SpaceType  DataspaceType
	Dimensions []uint64
}

func (m *Dataspace) Type() Type { return TypeDataspace }

// NewDataspace creates a simple dataspace with the given extents.
func NewDataspace(dims []uint64) *Dataspace {
	return &Dataspace{
		Version:    2,
		Rank:       len(dims),
		SpaceType:  DataspaceSimple,
		Dimensions: dims,
	}
}

// NewScalarDataspace creates a rank-0 scalar dataspace.
func NewScalarDataspace() *Dataspace {
	return &Dataspace{Version: 2, SpaceType: DataspaceScalar}
}

// NumElements returns the total element count.
func (m *Dataspace) NumElements() uint64 {
	switch m.SpaceType {
	case DataspaceNull:
		return 0
	case DataspaceScalar:
		return 1
	default:
		n := uint64(1)
		for _, d := range m.Dimensions {
			n *= d
		}
		return n
	}
}

// Serialize writes the version 2 encoding:
// version(1) rank(1) flags(1) type(1) then rank extents of length-size each.
func (m *Dataspace) Serialize(w *binary.Writer) error {
	if err := w.WriteUint8(2); err != nil {
		return err
	}
	if err := w.WriteUint8(uint8(m.Rank)); err != nil {
		return err
	}
	// Flags: no max dimensions, extents are fixed.
	if err := w.WriteUint8(0); err != nil {
		return err
	}
	if err := w.WriteUint8(uint8(m.SpaceType)); err != nil {
		return err
	}
	for _, dim := range m.Dimensions {
		if err := w.WriteLength(dim); err != nil {
			return err
		}
	}
	return nil
}

// SerializedSize returns the encoded size in bytes.
func (m *Dataspace) SerializedSize(w *binary.Writer) int {
	return 4 + m.Rank*w.LengthSize()
}

func parseDataspace(data []byte, r *binary.Reader) (*Dataspace, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("dataspace message too short: %d bytes", len(data))
	}

	ds := &Dataspace{Version: data[0], Rank: int(data[1])}
	if ds.Version != 2 {
		return nil, fmt.Errorf("unsupported dataspace version %d", ds.Version)
	}
	ds.SpaceType = DataspaceType(data[3])

	if ds.SpaceType != DataspaceSimple || ds.Rank == 0 {
		return ds, nil
	}

	lengthSize := r.LengthSize()
	offset := 4
	ds.Dimensions = make([]uint64, ds.Rank)
	for i := 0; i < ds.Rank; i++ {
		if offset+lengthSize > len(data) {
			return nil, fmt.Errorf("dataspace message truncated reading dimensions")
		}
		ds.Dimensions[i] = binary.DecodeUint(r.ByteOrder(), data[offset:], lengthSize)
		offset += lengthSize
	}
	return ds, nil
}
