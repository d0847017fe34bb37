package message

import (
	"fmt"

	"github.com/hpcio/snapio/internal/binary"
)

// Attribute is an attribute message (type 0x000C), written in the version
// 3 format.
type Attribute struct {
	Version   uint8
	Name      string
	Datatype  *Datatype
	Dataspace *Dataspace
	Data      []byte
}

func (m *Attribute) Type() Type { return TypeAttribute }

// NewScalarAttribute creates an attribute holding a single scalar value.
func NewScalarAttribute(name string, datatype *Datatype, data []byte) *Attribute {
	return &Attribute{
		Version:   3,
		Name:      name,
		Datatype:  datatype,
		Dataspace: NewScalarDataspace(),
		Data:      data,
	}
}

// Serialize writes the version 3 encoding: version(1) flags(1)
// name size(2) datatype size(2) dataspace size(2) encoding(1), then the
// null-terminated name, the datatype, the dataspace and the raw value.
func (m *Attribute) Serialize(w *binary.Writer) error {
	if err := w.WriteUint8(3); err != nil {
		return err
	}
	if err := w.WriteUint8(0); err != nil {
		return err
	}
	if err := w.WriteUint16(uint16(len(m.Name) + 1)); err != nil {
		return err
	}
	if err := w.WriteUint16(uint16(m.Datatype.SerializedSize(w))); err != nil {
		return err
	}
	if err := w.WriteUint16(uint16(m.Dataspace.SerializedSize(w))); err != nil {
		return err
	}
	// Name character set: ASCII.
	if err := w.WriteUint8(0); err != nil {
		return err
	}
	if err := w.WriteBytes(append([]byte(m.Name), 0)); err != nil {
		return err
	}
	if err := m.Datatype.Serialize(w); err != nil {
		return err
	}
	if err := m.Dataspace.Serialize(w); err != nil {
		return err
	}
	return w.WriteBytes(m.Data)
}

// SerializedSize returns the encoded size in bytes.
func (m *Attribute) SerializedSize(w *binary.Writer) int {
	return 9 + len(m.Name) + 1 +
		m.Datatype.SerializedSize(w) +
		m.Dataspace.SerializedSize(w) +
		len(m.Data)
}

func parseAttribute(data []byte, r *binary.Reader) (*Attribute, error) {
	if len(data) < 9 {
		return nil, fmt.Errorf("attribute message too short: %d bytes", len(data))
	}
	if data[0] != 3 {
		return nil, fmt.Errorf("unsupported attribute message version %d", data[0])
	}

	nameSize := int(uint16(data[2]) | uint16(data[3])<<8)
	dtSize := int(uint16(data[4]) | uint16(data[5])<<8)
	dsSize := int(uint16(data[6]) | uint16(data[7])<<8)

	offset := 9
	if offset+nameSize+dtSize+dsSize > len(data) {
		return nil, fmt.Errorf("attribute message truncated")
	}

	// Trim the null terminator from the stored name.
	name := data[offset : offset+nameSize]
	for i, b := range name {
		if b == 0 {
			name = name[:i]
			break
		}
	}
	offset += nameSize

	dt, err := parseDatatype(data[offset : offset+dtSize])
	if err != nil {
		return nil, fmt.Errorf("attribute %q datatype: %w", name, err)
	}
	offset += dtSize

	ds, err := parseDataspace(data[offset:offset+dsSize], r)
	if err != nil {
		return nil, fmt.Errorf("attribute %q dataspace: %w", name, err)
	}
	offset += dsSize

	return &Attribute{
		Version:   3,
		Name:      string(name),
		Datatype:  dt,
		Dataspace: ds,
		Data:      append([]byte(nil), data[offset:]...),
	}, nil
}
