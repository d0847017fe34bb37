package message

import (
	"fmt"

	"github.com/hpcio/snapio/internal/binary"
)

// Link is a link message (type 0x0006). Snapshot groups only ever hold
// hard links, written in the version 1 format.
type Link struct {
	Name          string
	ObjectAddress uint64
}

func (m *Link) Type() Type { return TypeLink }

// NewHardLink creates a hard link to the object header at objectAddress.
func NewHardLink(name string, objectAddress uint64) *Link {
	return &Link{Name: name, ObjectAddress: objectAddress}
}

// Serialize writes the version 1 encoding. Flags carry only the width of
// the name length field; hard links omit the explicit link type byte.
func (m *Link) Serialize(w *binary.Writer) error {
	if err := w.WriteUint8(1); err != nil {
		return err
	}

	nameLen := len(m.Name)
	nameLenSize, nameLenSizeBits := linkNameLenSize(nameLen)
	if err := w.WriteUint8(nameLenSizeBits); err != nil {
		return err
	}
	if err := w.WriteUintN(uint64(nameLen), nameLenSize); err != nil {
		return err
	}
	if err := w.WriteBytes([]byte(m.Name)); err != nil {
		return err
	}
	return w.WriteOffset(m.ObjectAddress)
}

// SerializedSize returns the encoded size in bytes.
func (m *Link) SerializedSize(w *binary.Writer) int {
	nameLenSize, _ := linkNameLenSize(len(m.Name))
	return 2 + nameLenSize + len(m.Name) + w.OffsetSize()
}

func linkNameLenSize(nameLen int) (size int, flagBits uint8) {
	switch {
	case nameLen <= 0xff:
		return 1, 0
	case nameLen <= 0xffff:
		return 2, 1
	case nameLen <= 0xffffffff:
		return 4, 2
	default:
		return 8, 3
	}
}

func parseLink(data []byte, r *binary.Reader) (*Link, error) {
	if len(data) < 3 {
		return nil, fmt.Errorf("link message too short: %d bytes", len(data))
	}
	if data[0] != 1 {
		return nil, fmt.Errorf("unsupported link message version %d", data[0])
	}

	flags := data[1]
	if flags&0x08 != 0 {
		return nil, fmt.Errorf("unsupported link type")
	}

	nameLenSize := 1 << (flags & 0x03)
	offset := 2
	if flags&0x04 != 0 {
		offset += 8 // creation order
	}
	if flags&0x10 != 0 {
		offset++ // charset
	}

	if offset+nameLenSize > len(data) {
		return nil, fmt.Errorf("link message truncated")
	}
	nameLen := int(binary.DecodeUint(r.ByteOrder(), data[offset:], nameLenSize))
	offset += nameLenSize

	if offset+nameLen+r.OffsetSize() > len(data) {
		return nil, fmt.Errorf("link message truncated")
	}
	name := string(data[offset : offset+nameLen])
	offset += nameLen
	addr := binary.DecodeUint(r.ByteOrder(), data[offset:], r.OffsetSize())

	return &Link{Name: name, ObjectAddress: addr}, nil
}
