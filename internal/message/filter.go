package message

import (
	"fmt"

	"github.com/hpcio/snapio/internal/binary"
)

// Registered filter identifiers.
const (
	FilterDeflate    uint16 = 1
	FilterShuffle    uint16 = 2
	FilterFletcher32 uint16 = 3
	FilterLZ4        uint16 = 32004
	FilterZstd       uint16 = 32015
)

// FilterInfo describes one filter in a pipeline.
type FilterInfo struct {
	ID         uint16
	Flags      uint16 // bit 0: filter is optional
	Name       string // required on the wire for dynamically loaded filters
	ClientData []uint32
}

// IsOptional reports whether a failing filter may be skipped.
func (f *FilterInfo) IsOptional() bool { return f.Flags&0x01 != 0 }

// FilterPipeline is a filter pipeline message (type 0x000B), written in the
// version 2 format.
type FilterPipeline struct {
	Version uint8
	Filters []FilterInfo
}

func (m *FilterPipeline) Type() Type { return TypeFilterPipeline }

// NewFilterPipeline creates a version 2 pipeline message.
func NewFilterPipeline(filters []FilterInfo) *FilterPipeline {
	return &FilterPipeline{Version: 2, Filters: filters}
}

// HasFilter reports whether the pipeline contains id.
func (m *FilterPipeline) HasFilter(id uint16) bool {
	for _, f := range m.Filters {
		if f.ID == id {
			return true
		}
	}
	return false
}

// Serialize writes the version 2 encoding. Unlike version 1 there are no
// reserved bytes and no 8-byte name padding; the name length field appears
// only for filter IDs at or above 256.
func (m *FilterPipeline) Serialize(w *binary.Writer) error {
	if err := w.WriteUint8(2); err != nil {
		return err
	}
	if err := w.WriteUint8(uint8(len(m.Filters))); err != nil {
		return err
	}

	for _, f := range m.Filters {
		if err := w.WriteUint16(f.ID); err != nil {
			return err
		}
		if f.ID >= 256 {
			if err := w.WriteUint16(uint16(len(f.Name))); err != nil {
				return err
			}
		}
		if err := w.WriteUint16(f.Flags); err != nil {
			return err
		}
		if err := w.WriteUint16(uint16(len(f.ClientData))); err != nil {
			return err
		}
		if f.ID >= 256 && len(f.Name) > 0 {
			if err := w.WriteBytes([]byte(f.Name)); err != nil {
				return err
			}
		}
		for _, cd := range f.ClientData {
			if err := w.WriteUint32(cd); err != nil {
				return err
			}
		}
	}
	return nil
}

// SerializedSize returns the encoded size in bytes.
func (m *FilterPipeline) SerializedSize(w *binary.Writer) int {
	size := 2
	for _, f := range m.Filters {
		size += 6 // id, flags, client data count
		if f.ID >= 256 {
			size += 2 + len(f.Name)
		}
		size += 4 * len(f.ClientData)
	}
	return size
}

func parseFilterPipeline(data []byte) (*FilterPipeline, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("filter pipeline message too short")
	}
	fp := &FilterPipeline{
		Version: data[0],
		Filters: make([]FilterInfo, data[1]),
	}
	if fp.Version != 2 {
		return nil, fmt.Errorf("unsupported filter pipeline version %d", fp.Version)
	}

	offset := 2
	for i := range fp.Filters {
		f := &fp.Filters[i]
		if offset+2 > len(data) {
			return nil, fmt.Errorf("filter %d truncated", i)
		}
		f.ID = uint16(data[offset]) | uint16(data[offset+1])<<8
		offset += 2

		var nameLen int
		if f.ID >= 256 {
			if offset+2 > len(data) {
				return nil, fmt.Errorf("filter %d truncated", i)
			}
			nameLen = int(uint16(data[offset]) | uint16(data[offset+1])<<8)
			offset += 2
		}

		if offset+4 > len(data) {
			return nil, fmt.Errorf("filter %d truncated", i)
		}
		f.Flags = uint16(data[offset]) | uint16(data[offset+1])<<8
		numCD := int(uint16(data[offset+2]) | uint16(data[offset+3])<<8)
		offset += 4

		if nameLen > 0 {
			if offset+nameLen > len(data) {
				return nil, fmt.Errorf("filter %d name truncated", i)
			}
			f.Name = string(data[offset : offset+nameLen])
			offset += nameLen
		}

		f.ClientData = make([]uint32, numCD)
		for j := 0; j < numCD; j++ {
			if offset+4 > len(data) {
				return nil, fmt.Errorf("filter %d client data truncated", i)
			}
			f.ClientData[j] = uint32(data[offset]) | uint32(data[offset+1])<<8 |
				uint32(data[offset+2])<<16 | uint32(data[offset+3])<<24
			offset += 4
		}
	}
	return fp, nil
}
