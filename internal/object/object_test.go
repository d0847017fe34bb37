package object

import (
	"bytes"
	"testing"

	"github.com/hpcio/snapio/internal/binary"
	"github.com/hpcio/snapio/internal/message"
)

func writeAndRead(t *testing.T, msgs []message.Message, minChunk int) *Header {
	t.Helper()
	buf := binary.NewBuffer(0)
	w := binary.NewWriter(buf, binary.DefaultConfig())

	n, err := WriteHeaderWithMinChunk(w, msgs, minChunk)
	if err != nil {
		t.Fatalf("WriteHeaderWithMinChunk: %v", err)
	}
	if want := HeaderSizeWithMinChunk(w, msgs, minChunk); int(n) != want {
		t.Fatalf("wrote %d bytes, HeaderSize predicts %d", n, want)
	}

	r := binary.NewReader(bytes.NewReader(buf.Bytes(n)), binary.DefaultConfig())
	hdr, err := ReadHeader(r, 0)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	return hdr
}

func TestDatasetHeaderRoundTrip(t *testing.T) {
	msgs := NewDatasetHeader(
		message.NewDataspace([]uint64{100}),
		message.NewFixedPoint(4, true, message.OrderLE),
		message.NewContiguousLayout(0x800, 400),
	)
	hdr := writeAndRead(t, msgs, 0)

	if len(hdr.Messages) != 3 {
		t.Fatalf("got %d messages, want 3", len(hdr.Messages))
	}
	ds, ok := hdr.FindMessage(message.TypeDataspace).(*message.Dataspace)
	if !ok || ds.Dimensions[0] != 100 {
		t.Errorf("dataspace = %+v", ds)
	}
	dt, ok := hdr.FindMessage(message.TypeDatatype).(*message.Datatype)
	if !ok || dt.Size != 4 || !dt.Signed {
		t.Errorf("datatype = %+v", dt)
	}
	layout, ok := hdr.FindMessage(message.TypeDataLayout).(*message.DataLayout)
	if !ok || layout.Address != 0x800 || layout.Size != 400 {
		t.Errorf("layout = %+v", layout)
	}
}

func TestGroupHeaderMinChunkPadding(t *testing.T) {
	msgs := NewGroupHeader(nil)

	buf := binary.NewBuffer(0)
	w := binary.NewWriter(buf, binary.DefaultConfig())
	n, err := WriteHeaderWithMinChunk(w, msgs, MinGroupChunkSize)
	if err != nil {
		t.Fatalf("WriteHeaderWithMinChunk: %v", err)
	}
	// prefix(4+1+1+1) + chunk(120) + checksum(4)
	if n != 7+MinGroupChunkSize+4 {
		t.Errorf("header size = %d, want %d", n, 7+MinGroupChunkSize+4)
	}

	r := binary.NewReader(bytes.NewReader(buf.Bytes(n)), binary.DefaultConfig())
	hdr, err := ReadHeader(r, 0)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	// NIL padding is dropped during parsing.
	if len(hdr.Messages) != 2 {
		t.Errorf("got %d messages, want 2", len(hdr.Messages))
	}
}

func TestGroupHeaderLinks(t *testing.T) {
	msgs := NewGroupHeader([]*message.Link{
		message.NewHardLink("coordinates", 0x100),
		message.NewHardLink("velocities", 0x200),
	})
	hdr := writeAndRead(t, msgs, MinGroupChunkSize)

	links := hdr.Links()
	if len(links) != 2 {
		t.Fatalf("got %d links, want 2", len(links))
	}
	if links[0].Name != "coordinates" || links[0].ObjectAddress != 0x100 {
		t.Errorf("link[0] = %+v", links[0])
	}
	if links[1].Name != "velocities" || links[1].ObjectAddress != 0x200 {
		t.Errorf("link[1] = %+v", links[1])
	}
}

func TestHeaderWithAttributes(t *testing.T) {
	value := []byte{0x40, 0xe2, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00} // 123456 as uint64
	msgs := NewGroupHeader(nil)
	msgs = append(msgs, message.NewScalarAttribute("num_particles",
		message.NewFixedPoint(8, false, message.OrderLE), value))
	hdr := writeAndRead(t, msgs, MinGroupChunkSize)

	attrs := hdr.Attributes()
	if len(attrs) != 1 {
		t.Fatalf("got %d attributes, want 1", len(attrs))
	}
	if attrs[0].Name != "num_particles" {
		t.Errorf("attribute name = %q", attrs[0].Name)
	}
	if !bytes.Equal(attrs[0].Data, value) {
		t.Errorf("attribute data = %v", attrs[0].Data)
	}
}

func TestReadHeaderRejectsGarbage(t *testing.T) {
	data := make([]byte, 64)
	copy(data, "GARB")
	r := binary.NewReader(bytes.NewReader(data), binary.DefaultConfig())
	if _, err := ReadHeader(r, 0); err == nil {
		t.Error("expected error for bad signature")
	}
}
