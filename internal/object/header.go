// Package object writes and reads version 2 object headers, the metadata
// blocks that describe groups and datasets.
package object

import (
	"errors"

	"github.com/hpcio/snapio/internal/binary"
	"github.com/hpcio/snapio/internal/message"
)

// SignatureV2 marks a version 2 object header.
var SignatureV2 = []byte("OHDR")

// signatureOCHK marks an object header continuation block.
var signatureOCHK = []byte("OCHK")

var (
	ErrBadSignature       = errors.New("object header signature not found")
	ErrUnsupportedVersion = errors.New("unsupported object header version")
	ErrBadChecksum        = errors.New("object header checksum mismatch")
)

// MinGroupChunkSize is the minimum message-chunk size for group headers.
// The HDF5 library pre-allocates this much so a group can grow a few links
// in place; matching it keeps h5py happy with our files.
const MinGroupChunkSize = 120

// Header is a parsed object header.
type Header struct {
	Version  uint8
	Address  uint64
	Flags    uint8
	Messages []message.Message
}

// Links returns the hard link messages in the header.
func (h *Header) Links() []*message.Link {
	var links []*message.Link
	for _, m := range h.Messages {
		if l, ok := m.(*message.Link); ok {
			links = append(links, l)
		}
	}
	return links
}

// Attributes returns the attribute messages in the header.
func (h *Header) Attributes() []*message.Attribute {
	var attrs []*message.Attribute
	for _, m := range h.Messages {
		if a, ok := m.(*message.Attribute); ok {
			attrs = append(attrs, a)
		}
	}
	return attrs
}

// FindMessage returns the first message of the given type, or nil.
func (h *Header) FindMessage(typ message.Type) message.Message {
	for _, m := range h.Messages {
		if m.Type() == typ {
			return m
		}
	}
	return nil
}

// NewGroupHeader builds the message list for a group: link info and group
// info followed by one hard link per member.
func NewGroupHeader(links []*message.Link) []message.Message {
	msgs := make([]message.Message, 0, len(links)+2)
	msgs = append(msgs, message.NewLinkInfo(), message.NewGroupInfo())
	for _, l := range links {
		msgs = append(msgs, l)
	}
	return msgs
}

// NewDatasetHeader builds the message list for a dataset.
func NewDatasetHeader(dataspace *message.Dataspace, datatype *message.Datatype, layout *message.DataLayout) []message.Message {
	return []message.Message{dataspace, datatype, layout}
}

func messageHeaderSize(w *binary.Writer, msg message.Message) int {
	s, ok := msg.(message.Serializable)
	if !ok {
		return 0
	}
	if s.SerializedSize(w) > 0xffff {
		// extended format: marker, type, 32-bit size, flags
		return 7
	}
	// type, 16-bit size, flags
	return 4
}

func chunkSizeFieldBytes(size int) int {
	switch {
	case size <= 0xff:
		return 1
	case size <= 0xffff:
		return 2
	case size <= 0xffffffff:
		return 4
	default:
		return 8
	}
}
