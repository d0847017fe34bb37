// Package message implements the HDF5 header messages the snapshot writer
// emits: dataspace, datatype, data layout, filter pipeline, links and
// attributes. Each message knows how to serialize itself and how to parse
// its own output back, which is what file verification needs.
package message

import (
	"fmt"

	"github.com/hpcio/snapio/internal/binary"
)

// Type identifies an HDF5 header message type.
type Type uint16

const (
	TypeNIL                      Type = 0x0000
	TypeDataspace                Type = 0x0001
	TypeLinkInfo                 Type = 0x0002
	TypeDatatype                 Type = 0x0003
	TypeFillValueOld             Type = 0x0004
	TypeFillValue                Type = 0x0005
	TypeLink                     Type = 0x0006
	TypeDataLayout               Type = 0x0008
	TypeGroupInfo                Type = 0x000A
	TypeFilterPipeline           Type = 0x000B
	TypeAttribute                Type = 0x000C
	TypeObjectHeaderContinuation Type = 0x0010
)

// Message is implemented by all header messages.
type Message interface {
	Type() Type
}

// Serializable is a message that can be written to a container.
type Serializable interface {
	Message
	// Serialize writes the message body at the writer's position.
	Serialize(w *binary.Writer) error
	// SerializedSize returns the body size in bytes.
	SerializedSize(w *binary.Writer) int
}

// Parse decodes a header message body. Types the writer never emits come
// back as *Unknown rather than an error, so verification can skip them.
func Parse(typ Type, data []byte, r *binary.Reader) (Message, error) {
	switch typ {
	case TypeDataspace:
		return parseDataspace(data, r)
	case TypeDatatype:
		return parseDatatype(data)
	case TypeDataLayout:
		return parseDataLayout(data, r)
	case TypeFilterPipeline:
		return parseFilterPipeline(data)
	case TypeLink:
		return parseLink(data, r)
	case TypeAttribute:
		return parseAttribute(data, r)
	case TypeObjectHeaderContinuation:
		return parseContinuation(data, r)
	default:
		return &Unknown{typ: typ, data: data}, nil
	}
}

// Unknown wraps a message type the parser does not handle.
type Unknown struct {
	typ  Type
	data []byte
}

func (m *Unknown) Type() Type   { return m.typ }
func (m *Unknown) Data() []byte { return m.data }

// Continuation points at an object header continuation block.
type Continuation struct {
	Offset uint64
	Length uint64
}

func (m *Continuation) Type() Type { return TypeObjectHeaderContinuation }

func parseContinuation(data []byte, r *binary.Reader) (*Continuation, error) {
	offSize := r.OffsetSize()
	lenSize := r.LengthSize()
	if len(data) < offSize+lenSize {
		return nil, fmt.Errorf("continuation message too short: %d bytes", len(data))
	}
	return &Continuation{
		Offset: binary.DecodeUint(r.ByteOrder(), data, offSize),
		Length: binary.DecodeUint(r.ByteOrder(), data[offSize:], lenSize),
	}, nil
}
