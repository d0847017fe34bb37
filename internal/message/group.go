package message

import "github.com/hpcio/snapio/internal/binary"

// UndefinedAddress is the all-ones "no address" sentinel at 8-byte width.
const UndefinedAddress = ^uint64(0)

// LinkInfo is a link info message (type 0x0002). Groups that store links
// as compact Link messages still carry one, with the fractal heap and name
// index addresses undefined.
type LinkInfo struct {
	Version            uint8
	Flags              uint8
	FractalHeapAddr    uint64
	NameIndexBTreeAddr uint64
}

func (m *LinkInfo) Type() Type { return TypeLinkInfo }

// NewLinkInfo creates the minimal link info for compact link storage.
func NewLinkInfo() *LinkInfo {
	return &LinkInfo{
		FractalHeapAddr:    UndefinedAddress,
		NameIndexBTreeAddr: UndefinedAddress,
	}
}

// Serialize writes the link info. The heap and B-tree addresses are always
// present, undefined or not.
func (m *LinkInfo) Serialize(w *binary.Writer) error {
	if err := w.WriteUint8(m.Version); err != nil {
		return err
	}
	if err := w.WriteUint8(m.Flags); err != nil {
		return err
	}
	if err := w.WriteOffset(m.FractalHeapAddr); err != nil {
		return err
	}
	return w.WriteOffset(m.NameIndexBTreeAddr)
}

// SerializedSize returns the encoded size in bytes.
func (m *LinkInfo) SerializedSize(w *binary.Writer) int {
	return 2 + 2*w.OffsetSize()
}

// GroupInfo is a group info message (type 0x000A), written in its minimal
// form with no phase-change or estimation fields.
type GroupInfo struct {
	Version uint8
	Flags   uint8
}

func (m *GroupInfo) Type() Type { return TypeGroupInfo }

// NewGroupInfo creates the minimal group info message.
func NewGroupInfo() *GroupInfo {
	return &GroupInfo{}
}

// Serialize writes the group info.
func (m *GroupInfo) Serialize(w *binary.Writer) error {
	if err := w.WriteUint8(m.Version); err != nil {
		return err
	}
	return w.WriteUint8(m.Flags)
}

// SerializedSize returns the encoded size in bytes.
func (m *GroupInfo) SerializedSize(w *binary.Writer) int { return 2 }
