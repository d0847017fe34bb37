package dtype

// Convert re-encodes raw elements of kind from as elements of kind to,
// using Go conversion semantics per element. data is returned unchanged
// when the kinds match.
func Convert(data []byte, from, to Kind) ([]byte, error) {
	if from == to {
		return data, nil
	}
	switch from {
	case Int32:
		return convertSlice[int32](data, from, to)
	case Int64:
		return convertSlice[int64](data, from, to)
	case Uint32:
		return convertSlice[uint32](data, from, to)
	case Uint64:
		return convertSlice[uint64](data, from, to)
	case Float32:
		return convertSlice[float32](data, from, to)
	default:
		return convertSlice[float64](data, from, to)
	}
}

func convertSlice[T Scalar](data []byte, from, to Kind) ([]byte, error) {
	vals, err := DecodeSlice[T](data, from)
	if err != nil {
		return nil, err
	}
	return EncodeSlice(vals, to), nil
}
