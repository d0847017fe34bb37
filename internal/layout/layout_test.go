package layout

import (
	"bytes"
	"encoding/binary"
	"testing"

	binpkg "github.com/hpcio/snapio/internal/binary"
)

func TestGridDims(t *testing.T) {
	tests := []struct {
		name      string
		dataDims  []uint64
		chunkDims []uint32
		want      []uint64
	}{
		{"exact", []uint64{100}, []uint32{10}, []uint64{10}},
		{"remainder", []uint64{105}, []uint32{10}, []uint64{11}},
		{"single", []uint64{5}, []uint32{10}, []uint64{1}},
		{"2d", []uint64{3, 20000}, []uint32{3, 8192}, []uint64{1, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GridDims(tt.dataDims, tt.chunkDims)
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("GridDims = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func makeElements(n int) []byte {
	buf := make([]byte, n*4)
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(i))
	}
	return buf
}

func TestSplitAssemble1D(t *testing.T) {
	dataDims := []uint64{25}
	chunkDims := []uint32{10}
	data := makeElements(25)

	chunks := SplitIntoChunks(data, dataDims, chunkDims, 4)
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	// All chunks are full-size; the last is zero-padded.
	for i, c := range chunks {
		if uint64(len(c)) != ChunkBytes(chunkDims, 4) {
			t.Errorf("chunk %d size = %d", i, len(c))
		}
	}
	if got := binary.LittleEndian.Uint32(chunks[2][16:]); got != 24 {
		t.Errorf("last element = %d, want 24", got)
	}
	for off := 20; off < len(chunks[2]); off += 4 {
		if binary.LittleEndian.Uint32(chunks[2][off:]) != 0 {
			t.Errorf("edge padding not zero at offset %d", off)
		}
	}

	back := AssembleChunks(chunks, dataDims, chunkDims, 4)
	if !bytes.Equal(back, data) {
		t.Error("assemble does not invert split")
	}
}

func TestSplitAssemble2D(t *testing.T) {
	dataDims := []uint64{7, 11}
	chunkDims := []uint32{3, 4}
	data := makeElements(7 * 11)

	chunks := SplitIntoChunks(data, dataDims, chunkDims, 4)
	if want := NumChunks(dataDims, chunkDims); uint64(len(chunks)) != want {
		t.Fatalf("got %d chunks, want %d", len(chunks), want)
	}

	// First chunk holds rows 0-2, columns 0-3.
	first := chunks[0]
	for row := 0; row < 3; row++ {
		for col := 0; col < 4; col++ {
			got := binary.LittleEndian.Uint32(first[(row*4+col)*4:])
			want := uint32(row*11 + col)
			if got != want {
				t.Fatalf("chunk[0] element (%d,%d) = %d, want %d", row, col, got, want)
			}
		}
	}

	back := AssembleChunks(chunks, dataDims, chunkDims, 4)
	if !bytes.Equal(back, data) {
		t.Error("assemble does not invert split")
	}
}

func TestSplitAssemble3D(t *testing.T) {
	dataDims := []uint64{5, 6, 7}
	chunkDims := []uint32{2, 3, 4}
	data := makeElements(5 * 6 * 7)

	chunks := SplitIntoChunks(data, dataDims, chunkDims, 4)
	back := AssembleChunks(chunks, dataDims, chunkDims, 4)
	if !bytes.Equal(back, data) {
		t.Error("assemble does not invert split")
	}
}

func newTestWriter() (*binpkg.Buffer, *binpkg.Writer, func(int64) uint64) {
	buf := binpkg.NewBuffer(0)
	w := binpkg.NewWriter(buf, binpkg.DefaultConfig())
	next := uint64(0)
	alloc := func(size int64) uint64 {
		addr := next
		next += uint64(size)
		return addr
	}
	return buf, w, alloc
}

func TestFixedArrayIndexRoundTrip(t *testing.T) {
	buf, w, alloc := newTestWriter()
	cw := NewChunkWriter(w, alloc)

	entries := []Entry{{Addr: 0x100}, {Addr: 0x200}, {Addr: 0x300}}
	headerAddr, err := cw.WriteFixedArrayIndex(entries, false)
	if err != nil {
		t.Fatalf("WriteFixedArrayIndex: %v", err)
	}

	r := binpkg.NewReader(bytes.NewReader(buf.Bytes(1<<16)), binpkg.DefaultConfig())
	got, err := ReadFixedArrayIndex(r, headerAddr)
	if err != nil {
		t.Fatalf("ReadFixedArrayIndex: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d entries, want 3", len(got))
	}
	for i := range entries {
		if got[i].Addr != entries[i].Addr {
			t.Errorf("entry %d addr = 0x%x, want 0x%x", i, got[i].Addr, entries[i].Addr)
		}
	}
}

func TestFixedArrayIndexFiltered(t *testing.T) {
	buf, w, alloc := newTestWriter()
	cw := NewChunkWriter(w, alloc)

	entries := []Entry{
		{Addr: 0x100, StoredSize: 512, FilterMask: 0},
		{Addr: 0x300, StoredSize: 480, FilterMask: 0x1},
	}
	headerAddr, err := cw.WriteFixedArrayIndex(entries, true)
	if err != nil {
		t.Fatalf("WriteFixedArrayIndex: %v", err)
	}

	r := binpkg.NewReader(bytes.NewReader(buf.Bytes(1<<16)), binpkg.DefaultConfig())
	got, err := ReadFixedArrayIndex(r, headerAddr)
	if err != nil {
		t.Fatalf("ReadFixedArrayIndex: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	for i := range entries {
		if got[i] != entries[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], entries[i])
		}
	}
}

func TestFixedArrayIndexDetectsCorruption(t *testing.T) {
	buf, w, alloc := newTestWriter()
	cw := NewChunkWriter(w, alloc)

	headerAddr, err := cw.WriteFixedArrayIndex([]Entry{{Addr: 0x100}}, false)
	if err != nil {
		t.Fatalf("WriteFixedArrayIndex: %v", err)
	}

	raw := buf.Bytes(1 << 16)
	raw[headerAddr+8] ^= 0xff
	r := binpkg.NewReader(bytes.NewReader(raw), binpkg.DefaultConfig())
	if _, err := ReadFixedArrayIndex(r, headerAddr); err == nil {
		t.Error("corrupted index passed checksum verification")
	}
}

func TestWriteChunk(t *testing.T) {
	buf, w, alloc := newTestWriter()
	cw := NewChunkWriter(w, alloc)

	data := []byte{1, 2, 3, 4, 5}
	addr, err := cw.WriteChunk(data)
	if err != nil {
		t.Fatalf("WriteChunk: %v", err)
	}
	got := buf.Bytes(int64(addr) + int64(len(data)))[addr:]
	if !bytes.Equal(got, data) {
		t.Errorf("stored chunk = %v", got)
	}
}
