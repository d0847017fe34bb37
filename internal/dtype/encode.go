package dtype

import (
	"encoding/binary"
	"fmt"
	"math"
)

// EncodeSlice converts a slice of Go elements into the little-endian file
// representation of fileKind. When fileKind matches the element type this
// is a plain byte serialization; otherwise each element is converted with
// Go conversion semantics, the way an on-disk type override behaves.
func EncodeSlice[T Scalar](values []T, fileKind Kind) []byte {
	elemSize := int(fileKind.Size())
	out := make([]byte, len(values)*elemSize)
	for i, v := range values {
		putScalar(out[i*elemSize:], v, fileKind)
	}
	return out
}

// EncodeValue encodes a single element.
func EncodeValue[T Scalar](value T, fileKind Kind) []byte {
	out := make([]byte, fileKind.Size())
	putScalar(out, value, fileKind)
	return out
}

// DecodeSlice converts file bytes of fileKind back into Go elements.
func DecodeSlice[T Scalar](data []byte, fileKind Kind) ([]T, error) {
	elemSize := int(fileKind.Size())
	if len(data)%elemSize != 0 {
		return nil, fmt.Errorf("data length %d not a multiple of element size %d", len(data), elemSize)
	}
	values := make([]T, len(data)/elemSize)
	for i := range values {
		values[i] = getScalar[T](data[i*elemSize:], fileKind)
	}
	return values, nil
}

func putScalar[T Scalar](buf []byte, v T, fileKind Kind) {
	switch fileKind {
	case Int32:
		binary.LittleEndian.PutUint32(buf, uint32(int32(v)))
	case Int64:
		binary.LittleEndian.PutUint64(buf, uint64(int64(v)))
	case Uint32:
		binary.LittleEndian.PutUint32(buf, uint32(v))
	case Uint64:
		binary.LittleEndian.PutUint64(buf, uint64(v))
	case Float32:
		binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(v)))
	case Float64:
		binary.LittleEndian.PutUint64(buf, math.Float64bits(float64(v)))
	}
}

func getScalar[T Scalar](buf []byte, fileKind Kind) T {
	switch fileKind {
	case Int32:
		return T(int32(binary.LittleEndian.Uint32(buf)))
	case Int64:
		return T(int64(binary.LittleEndian.Uint64(buf)))
	case Uint32:
		return T(binary.LittleEndian.Uint32(buf))
	case Uint64:
		return T(binary.LittleEndian.Uint64(buf))
	case Float32:
		return T(math.Float32frombits(binary.LittleEndian.Uint32(buf)))
	default:
		return T(math.Float64frombits(binary.LittleEndian.Uint64(buf)))
	}
}
