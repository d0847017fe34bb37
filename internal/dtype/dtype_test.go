package dtype

import (
	"bytes"
	"testing"
)

func TestKindOfCoversScalarSet(t *testing.T) {
	if KindOf[int32]() != Int32 {
		t.Error("int32")
	}
	if KindOf[int64]() != Int64 {
		t.Error("int64")
	}
	if KindOf[uint32]() != Uint32 {
		t.Error("uint32")
	}
	if KindOf[uint64]() != Uint64 {
		t.Error("uint64")
	}
	if KindOf[float32]() != Float32 {
		t.Error("float32")
	}
	if KindOf[float64]() != Float64 {
		t.Error("float64")
	}
}

func TestKindMessageRoundTrip(t *testing.T) {
	// Every kind maps to a distinct datatype message and back.
	kinds := []Kind{Int32, Int64, Uint32, Uint64, Float32, Float64}
	for _, k := range kinds {
		msg := k.Message()
		got, err := KindFromMessage(msg)
		if err != nil {
			t.Fatalf("%v: KindFromMessage: %v", k, err)
		}
		if got != k {
			t.Errorf("%v maps back to %v", k, got)
		}
		if msg.Size != k.Size() {
			t.Errorf("%v: message size %d, kind size %d", k, msg.Size, k.Size())
		}
	}
}

func TestEncodeDecodeSameKind(t *testing.T) {
	in := []float64{0, 1.5, -2.25, 1e300}
	data := EncodeSlice(in, Float64)
	if len(data) != len(in)*8 {
		t.Fatalf("encoded %d bytes", len(data))
	}
	out, err := DecodeSlice[float64](data, Float64)
	if err != nil {
		t.Fatalf("DecodeSlice: %v", err)
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("element %d: %v != %v", i, out[i], in[i])
		}
	}
}

func TestEncodeWithConversion(t *testing.T) {
	// Memory float64, file float32: stored narrow, read back widened.
	in := []float64{1.5, -0.25, 3.0}
	data := EncodeSlice(in, Float32)
	if len(data) != len(in)*4 {
		t.Fatalf("encoded %d bytes", len(data))
	}
	out, err := DecodeSlice[float64](data, Float32)
	if err != nil {
		t.Fatalf("DecodeSlice: %v", err)
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("element %d: %v != %v", i, out[i], in[i])
		}
	}
}

func TestEncodeIntegerConversion(t *testing.T) {
	in := []int64{0, 1, -5, 1 << 20}
	data := EncodeSlice(in, Int32)
	out, err := DecodeSlice[int64](data, Int32)
	if err != nil {
		t.Fatalf("DecodeSlice: %v", err)
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("element %d: %v != %v", i, out[i], in[i])
		}
	}
}

func TestEncodeValue(t *testing.T) {
	data := EncodeValue(1.5, Float64)
	want := []byte{0, 0, 0, 0, 0, 0, 0xf8, 0x3f}
	if !bytes.Equal(data, want) {
		t.Errorf("EncodeValue(1.5) = %v, want %v", data, want)
	}
}

func TestDecodeSliceRejectsOddLength(t *testing.T) {
	if _, err := DecodeSlice[int32]([]byte{1, 2, 3}, Int32); err == nil {
		t.Error("expected error for misaligned data")
	}
}
