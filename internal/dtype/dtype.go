// Package dtype maps the closed set of Go scalar types a snapshot may
// carry onto file datatypes, and converts element buffers between the two.
package dtype

import (
	"fmt"

	"github.com/hpcio/snapio/internal/message"
)

// Scalar is the closed set of element types. The constraint is exact:
// named types with these underlying representations are rejected at
// compile time rather than silently widened.
type Scalar interface {
	int32 | int64 | uint32 | uint64 | float32 | float64
}

// Kind tags a file datatype.
type Kind uint8

const (
	Int32 Kind = iota
	Int64
	Uint32
	Uint64
	Float32
	Float64
)

func (k Kind) String() string {
	switch k {
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint32:
		return "uint32"
	case Uint64:
		return "uint64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Size returns the element size in bytes.
func (k Kind) Size() uint32 {
	switch k {
	case Int32, Uint32, Float32:
		return 4
	default:
		return 8
	}
}

// IsFloat reports whether the kind is a floating-point type.
func (k Kind) IsFloat() bool { return k == Float32 || k == Float64 }

// Signed reports whether the kind is a signed integer type.
func (k Kind) Signed() bool { return k == Int32 || k == Int64 }

// Message returns the file datatype message for the kind. Everything is
// written little-endian.
func (k Kind) Message() *message.Datatype {
	if k.IsFloat() {
		return message.NewFloat(k.Size(), message.OrderLE)
	}
	return message.NewFixedPoint(k.Size(), k.Signed(), message.OrderLE)
}

// KindOf returns the kind matching the Go element type T.
func KindOf[T Scalar]() Kind {
	var zero T
	switch any(zero).(type) {
	case int32:
		return Int32
	case int64:
		return Int64
	case uint32:
		return Uint32
	case uint64:
		return Uint64
	case float32:
		return Float32
	default:
		return Float64
	}
}

// KindFromMessage recovers the kind from a parsed datatype message.
func KindFromMessage(dt *message.Datatype) (Kind, error) {
	switch {
	case dt.IsFloat() && dt.Size == 4:
		return Float32, nil
	case dt.IsFloat() && dt.Size == 8:
		return Float64, nil
	case dt.Size == 4 && dt.Signed:
		return Int32, nil
	case dt.Size == 8 && dt.Signed:
		return Int64, nil
	case dt.Size == 4:
		return Uint32, nil
	case dt.Size == 8:
		return Uint64, nil
	default:
		return 0, fmt.Errorf("no scalar kind for datatype class %d size %d", dt.Class, dt.Size)
	}
}
