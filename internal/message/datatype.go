package message

import (
	"fmt"

	"github.com/hpcio/snapio/internal/binary"
)

// DatatypeClass is the HDF5 datatype class.
type DatatypeClass uint8

const (
	ClassFixedPoint DatatypeClass = 0
	ClassFloatPoint DatatypeClass = 1
)

// ByteOrder is the datatype byte-order flag (bit 0 of the class bits).
type ByteOrder uint8

const (
	OrderLE ByteOrder = 0
	OrderBE ByteOrder = 1
)

// Datatype is a datatype message (type 0x0003) restricted to the scalar
// kinds a snapshot carries: fixed-point integers and IEEE floats.
type Datatype struct {
	Class     DatatypeClass
	ClassBits uint32 // 24-bit class-specific bit field
	Size      uint32 // element size in bytes

	// Fixed-point properties.
	Signed       bool
	BitOffset    uint16
	BitPrecision uint16

	// Float properties, the 12-byte IEEE block.
	Properties []byte
}

func (m *Datatype) Type() Type { return TypeDatatype }

// IsFloat reports whether this is a floating-point type.
func (m *Datatype) IsFloat() bool { return m.Class == ClassFloatPoint }

// NewFixedPoint creates an integer datatype of the given width.
func NewFixedPoint(size uint32, signed bool, order ByteOrder) *Datatype {
	classBits := uint32(order)
	if signed {
		classBits |= 0x08
	}
	return &Datatype{
		Class:        ClassFixedPoint,
		ClassBits:    classBits,
		Size:         size,
		Signed:       signed,
		BitPrecision: uint16(size * 8),
	}
}

// NewFloat creates an IEEE 754 float datatype of size 4 or 8.
func NewFloat(size uint32, order ByteOrder) *Datatype {
	// The 12-byte property block: bit offset(2) bit precision(2)
	// exp location(1) exp size(1) mant location(1) mant size(1) exp bias(4).
	// Note the mantissa size is a single byte.
	var signLocation uint32
	var props []byte
	switch size {
	case 4:
		signLocation = 31
		props = []byte{0, 0, 32, 0, 23, 8, 0, 23, 127, 0, 0, 0}
	case 8:
		signLocation = 63
		props = []byte{0, 0, 64, 0, 52, 11, 0, 52, 255, 3, 0, 0}
	}

	// Class bits: byte order (bit 0), normalized mantissa with implied MSB
	// (bit 5), sign bit location in byte 1.
	classBits := uint32(order) | 1<<5 | signLocation<<8

	return &Datatype{
		Class:      ClassFloatPoint,
		ClassBits:  classBits,
		Size:       size,
		Properties: props,
	}
}

// Serialize writes the version 1 datatype encoding:
// class+version(1) class bits(3) size(4) then class properties.
func (m *Datatype) Serialize(w *binary.Writer) error {
	classAndVersion := uint8(m.Class) | 1<<4
	if err := w.WriteUint8(classAndVersion); err != nil {
		return err
	}
	for shift := 0; shift < 24; shift += 8 {
		if err := w.WriteUint8(uint8(m.ClassBits >> shift)); err != nil {
			return err
		}
	}
	if err := w.WriteUint32(m.Size); err != nil {
		return err
	}

	switch m.Class {
	case ClassFixedPoint:
		if err := w.WriteUint16(m.BitOffset); err != nil {
			return err
		}
		return w.WriteUint16(m.BitPrecision)
	case ClassFloatPoint:
		return w.WriteBytes(m.Properties[:12])
	default:
		return fmt.Errorf("unsupported datatype class %d", m.Class)
	}
}

// SerializedSize returns the encoded size in bytes.
func (m *Datatype) SerializedSize(w *binary.Writer) int {
	switch m.Class {
	case ClassFloatPoint:
		return 8 + 12
	default:
		return 8 + 4
	}
}

func parseDatatype(data []byte) (*Datatype, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("datatype message too short: %d bytes", len(data))
	}

	dt := &Datatype{
		Class:     DatatypeClass(data[0] & 0x0f),
		ClassBits: uint32(data[1]) | uint32(data[2])<<8 | uint32(data[3])<<16,
		Size:      uint32(data[4]) | uint32(data[5])<<8 | uint32(data[6])<<16 | uint32(data[7])<<24,
	}

	switch dt.Class {
	case ClassFixedPoint:
		if len(data) < 12 {
			return nil, fmt.Errorf("fixed-point datatype truncated")
		}
		dt.Signed = dt.ClassBits&0x08 != 0
		dt.BitOffset = uint16(data[8]) | uint16(data[9])<<8
		dt.BitPrecision = uint16(data[10]) | uint16(data[11])<<8
	case ClassFloatPoint:
		if len(data) < 20 {
			return nil, fmt.Errorf("float datatype truncated")
		}
		dt.Properties = append([]byte(nil), data[8:20]...)
	default:
		return nil, fmt.Errorf("unsupported datatype class %d", dt.Class)
	}
	return dt, nil
}
