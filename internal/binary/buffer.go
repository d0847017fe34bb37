package binary

// Buffer is a growable in-memory io.WriterAt. Metadata blocks that carry a
// trailing checksum are staged in a Buffer so the checksum can be computed
// over the assembled bytes before anything touches the file.
type Buffer struct {
	buf []byte
}

// NewBuffer creates a buffer preallocated to sizeHint bytes.
func NewBuffer(sizeHint int) *Buffer {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &Buffer{buf: make([]byte, sizeHint)}
}

// WriteAt implements io.WriterAt, growing the buffer as needed.
func (b *Buffer) WriteAt(p []byte, off int64) (int, error) {
	if end := int(off) + len(p); end > len(b.buf) {
		grown := make([]byte, end)
		copy(grown, b.buf)
		b.buf = grown
	}
	copy(b.buf[off:], p)
	return len(p), nil
}

// Bytes returns the first n bytes of the buffer, growing it with zeros if
// it has not been written that far.
func (b *Buffer) Bytes(n int64) []byte {
	if int(n) > len(b.buf) {
		grown := make([]byte, n)
		copy(grown, b.buf)
		b.buf = grown
	}
	return b.buf[:n]
}
