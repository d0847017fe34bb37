package object

import (
	"github.com/hpcio/snapio/internal/binary"
	"github.com/hpcio/snapio/internal/message"
)

// WriteHeader writes a version 2 object header at the writer's position
// and returns the bytes written.
func WriteHeader(w *binary.Writer, messages []message.Message) (int64, error) {
	return WriteHeaderWithMinChunk(w, messages, 0)
}

// WriteHeaderWithMinChunk writes a version 2 object header, padding the
// message chunk with a NIL message up to minChunkSize. The chunk size
// field counts message bytes only; the trailing checksum sits outside it.
func WriteHeaderWithMinChunk(w *binary.Writer, messages []message.Message, minChunkSize int) (int64, error) {
	var messagesSize int
	for _, msg := range messages {
		messagesSize += messageHeaderSize(w, msg)
		if s, ok := msg.(message.Serializable); ok {
			messagesSize += s.SerializedSize(w)
		}
	}

	chunkSize := messagesSize
	if minChunkSize > 0 && chunkSize < minChunkSize {
		chunkSize = minChunkSize
	}
	paddingSize := chunkSize - messagesSize

	chunkSizeFieldSize := chunkSizeFieldBytes(chunkSize)
	// Flag bits 0-1 encode the width of the chunk size field.
	flags := uint8(chunkSizeFieldSize - 1)

	headerSize := 4 + 1 + 1 + chunkSizeFieldSize + chunkSize + 4
	buf := binary.NewBuffer(headerSize)
	bw := binary.NewWriter(buf, w.Config())

	if err := bw.WriteBytes(SignatureV2); err != nil {
		return 0, err
	}
	if err := bw.WriteUint8(2); err != nil {
		return 0, err
	}
	if err := bw.WriteUint8(flags); err != nil {
		return 0, err
	}
	if err := bw.WriteUintN(uint64(chunkSize), chunkSizeFieldSize); err != nil {
		return 0, err
	}

	for _, msg := range messages {
		if err := writeV2Message(bw, msg); err != nil {
			return 0, err
		}
	}

	if paddingSize > 0 {
		if err := writeNILPadding(bw, paddingSize); err != nil {
			return 0, err
		}
	}

	checksum := binary.Lookup3(buf.Bytes(bw.Pos()))
	if err := bw.WriteUint32(checksum); err != nil {
		return 0, err
	}

	if err := w.WriteBytes(buf.Bytes(bw.Pos())); err != nil {
		return 0, err
	}
	return bw.Pos(), nil
}

// HeaderSize returns the on-disk size of a header with the given messages.
func HeaderSize(w *binary.Writer, messages []message.Message) int {
	return HeaderSizeWithMinChunk(w, messages, 0)
}

// HeaderSizeWithMinChunk returns the on-disk size including NIL padding.
func HeaderSizeWithMinChunk(w *binary.Writer, messages []message.Message, minChunkSize int) int {
	var messagesSize int
	for _, msg := range messages {
		messagesSize += messageHeaderSize(w, msg)
		if s, ok := msg.(message.Serializable); ok {
			messagesSize += s.SerializedSize(w)
		}
	}

	chunkSize := messagesSize
	if minChunkSize > 0 && chunkSize < minChunkSize {
		chunkSize = minChunkSize
	}

	return 4 + 1 + 1 + chunkSizeFieldBytes(chunkSize) + chunkSize + 4
}

func writeV2Message(w *binary.Writer, msg message.Message) error {
	s, ok := msg.(message.Serializable)
	if !ok {
		return nil
	}

	dataSize := s.SerializedSize(w)
	if dataSize > 0xffff {
		if err := w.WriteUint8(0xff); err != nil {
			return err
		}
		if err := w.WriteUint8(uint8(msg.Type())); err != nil {
			return err
		}
		if err := w.WriteUint32(uint32(dataSize)); err != nil {
			return err
		}
	} else {
		if err := w.WriteUint8(uint8(msg.Type())); err != nil {
			return err
		}
		if err := w.WriteUint16(uint16(dataSize)); err != nil {
			return err
		}
	}
	if err := w.WriteUint8(0); err != nil {
		return err
	}
	return s.Serialize(w)
}

// writeNILPadding fills size bytes with a NIL message. The NIL header
// itself takes 4 bytes, so the data length is size-4.
func writeNILPadding(w *binary.Writer, size int) error {
	nilDataSize := size - 4
	if nilDataSize < 0 {
		nilDataSize = 0
	}
	if err := w.WriteUint8(uint8(message.TypeNIL)); err != nil {
		return err
	}
	if err := w.WriteUint16(uint16(nilDataSize)); err != nil {
		return err
	}
	if err := w.WriteUint8(0); err != nil {
		return err
	}
	return w.WriteZeros(nilDataSize)
}
