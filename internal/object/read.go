package object

import (
	"bytes"
	"fmt"

	"github.com/hpcio/snapio/internal/binary"
	"github.com/hpcio/snapio/internal/message"
)

// ReadHeader parses the version 2 object header at address.
func ReadHeader(r *binary.Reader, address uint64) (*Header, error) {
	hr := r.At(int64(address))

	sig, err := hr.ReadBytes(4)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(sig, SignatureV2) {
		return nil, fmt.Errorf("%w at 0x%x", ErrBadSignature, address)
	}

	version, err := hr.ReadUint8()
	if err != nil {
		return nil, err
	}
	if version != 2 {
		return nil, fmt.Errorf("%w: version %d", ErrUnsupportedVersion, version)
	}

	flags, err := hr.ReadUint8()
	if err != nil {
		return nil, err
	}

	hdr := &Header{Version: 2, Address: address, Flags: flags}

	// Optional timestamps (flag bit 5).
	if flags&0x20 != 0 {
		hr.Skip(16)
	}
	// Optional attribute phase change values (flag bit 4).
	if flags&0x10 != 0 {
		hr.Skip(4)
	}

	sizeFieldSize := 1 << (flags & 0x03)
	chunk0Size, err := hr.ReadUintN(sizeFieldSize)
	if err != nil {
		return nil, err
	}
	trackOrder := flags&0x04 != 0

	// Chunk size excludes the trailing checksum.
	chunkEnd := hr.Pos() + int64(chunk0Size)
	if err := readMessages(hr, chunkEnd, trackOrder, hdr); err != nil {
		return nil, err
	}
	return hdr, nil
}

// readMessages parses messages until chunkEnd, following continuation
// blocks as they appear.
func readMessages(r *binary.Reader, chunkEnd int64, trackOrder bool, hdr *Header) error {
	for r.Pos() < chunkEnd {
		msg, err := readV2Message(r, trackOrder)
		if err != nil {
			return err
		}
		if msg == nil {
			continue
		}
		if cont, ok := msg.(*message.Continuation); ok {
			if err := readContinuation(r, cont, trackOrder, hdr); err != nil {
				return err
			}
			continue
		}
		hdr.Messages = append(hdr.Messages, msg)
	}
	return nil
}

func readContinuation(r *binary.Reader, cont *message.Continuation, trackOrder bool, hdr *Header) error {
	cr := r.At(int64(cont.Offset))

	sig, err := cr.ReadBytes(4)
	if err != nil {
		return err
	}
	if !bytes.Equal(sig, signatureOCHK) {
		return fmt.Errorf("continuation block at 0x%x: %w", cont.Offset, ErrBadSignature)
	}

	// Block length includes signature and checksum.
	chunkEnd := int64(cont.Offset) + int64(cont.Length) - 4
	return readMessages(cr, chunkEnd, trackOrder, hdr)
}

func readV2Message(r *binary.Reader, trackOrder bool) (message.Message, error) {
	firstByte, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}

	var msgType uint8
	var dataSize uint32
	if firstByte == 0xff {
		if msgType, err = r.ReadUint8(); err != nil {
			return nil, err
		}
		if dataSize, err = r.ReadUint32(); err != nil {
			return nil, err
		}
	} else {
		msgType = firstByte
		size16, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		dataSize = uint32(size16)
	}

	if _, err := r.ReadUint8(); err != nil { // flags
		return nil, err
	}
	if trackOrder {
		r.Skip(2)
	}

	data, err := r.ReadBytes(int(dataSize))
	if err != nil {
		return nil, err
	}
	if message.Type(msgType) == message.TypeNIL {
		return nil, nil
	}
	return message.Parse(message.Type(msgType), data, r)
}
