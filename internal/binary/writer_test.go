package binary

import (
	"bytes"
	"testing"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	buf := NewBuffer(0)
	w := NewWriter(buf, DefaultConfig())

	if err := w.WriteUint8(0xab); err != nil {
		t.Fatalf("WriteUint8: %v", err)
	}
	if err := w.WriteUint16(0x1234); err != nil {
		t.Fatalf("WriteUint16: %v", err)
	}
	if err := w.WriteUint32(0xdeadbeef); err != nil {
		t.Fatalf("WriteUint32: %v", err)
	}
	if err := w.WriteUint64(0x0102030405060708); err != nil {
		t.Fatalf("WriteUint64: %v", err)
	}
	if err := w.WriteOffset(0x1000); err != nil {
		t.Fatalf("WriteOffset: %v", err)
	}
	if err := w.WriteLength(42); err != nil {
		t.Fatalf("WriteLength: %v", err)
	}
	if w.Pos() != 1+2+4+8+8+8 {
		t.Fatalf("Pos = %d, want %d", w.Pos(), 31)
	}

	r := NewReader(bytes.NewReader(buf.Bytes(w.Pos())), DefaultConfig())
	if v, _ := r.ReadUint8(); v != 0xab {
		t.Errorf("ReadUint8 = 0x%x", v)
	}
	if v, _ := r.ReadUint16(); v != 0x1234 {
		t.Errorf("ReadUint16 = 0x%x", v)
	}
	if v, _ := r.ReadUint32(); v != 0xdeadbeef {
		t.Errorf("ReadUint32 = 0x%x", v)
	}
	if v, _ := r.ReadUint64(); v != 0x0102030405060708 {
		t.Errorf("ReadUint64 = 0x%x", v)
	}
	if v, _ := r.ReadOffset(); v != 0x1000 {
		t.Errorf("ReadOffset = 0x%x", v)
	}
	if v, _ := r.ReadLength(); v != 42 {
		t.Errorf("ReadLength = %d", v)
	}
}

func TestWriterAt(t *testing.T) {
	buf := NewBuffer(16)
	w := NewWriter(buf, DefaultConfig())

	if err := w.At(8).WriteUint32(0x11223344); err != nil {
		t.Fatalf("WriteUint32: %v", err)
	}
	// The parent writer position is unaffected by the positioned clone.
	if w.Pos() != 0 {
		t.Errorf("parent Pos = %d, want 0", w.Pos())
	}

	r := NewReader(bytes.NewReader(buf.Bytes(16)), DefaultConfig())
	if v, _ := r.At(8).ReadUint32(); v != 0x11223344 {
		t.Errorf("value at offset 8 = 0x%x", v)
	}
}

func TestUndefinedOffset(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OffsetSize = 4

	buf := NewBuffer(0)
	w := NewWriter(buf, cfg)
	if err := w.WriteUndefinedOffset(); err != nil {
		t.Fatalf("WriteUndefinedOffset: %v", err)
	}

	r := NewReader(bytes.NewReader(buf.Bytes(4)), cfg)
	v, err := r.ReadOffset()
	if err != nil {
		t.Fatalf("ReadOffset: %v", err)
	}
	if !r.IsUndefinedOffset(v) {
		t.Errorf("offset 0x%x not recognized as undefined", v)
	}
}

func TestBufferGrowth(t *testing.T) {
	buf := NewBuffer(4)
	if _, err := buf.WriteAt([]byte{1, 2, 3, 4}, 10); err != nil {
		t.Fatalf("WriteAt: %v", err)
	}
	got := buf.Bytes(14)
	if got[10] != 1 || got[13] != 4 {
		t.Errorf("unexpected buffer contents: %v", got)
	}
	// Bytes before the write stay zeroed.
	for i := 0; i < 10; i++ {
		if got[i] != 0 {
			t.Errorf("byte %d = %d, want 0", i, got[i])
		}
	}
}

func TestWriteZeros(t *testing.T) {
	buf := NewBuffer(0)
	w := NewWriter(buf, DefaultConfig())
	if err := w.WriteUint8(0xff); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteZeros(7); err != nil {
		t.Fatal(err)
	}
	if w.Pos() != 8 {
		t.Errorf("Pos = %d, want 8", w.Pos())
	}
}
