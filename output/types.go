package output

import "github.com/hpcio/snapio/internal/dtype"

// Scalar is the closed set of element types a snapshot may hold. Anything
// outside the set is rejected at compile time.
type Scalar = dtype.Scalar

// Datatype tags an on-disk element type.
type Datatype = dtype.Kind

// The on-disk type descriptors, usable as explicit overrides with
// WriteDatasetAs.
const (
	Int32   = dtype.Int32
	Int64   = dtype.Int64
	Uint32  = dtype.Uint32
	Uint64  = dtype.Uint64
	Float32 = dtype.Float32
	Float64 = dtype.Float64
)

// TypeOf resolves a native scalar type to its on-disk type descriptor.
// The mapping is total and injective over Scalar.
func TypeOf[T Scalar]() Datatype { return dtype.KindOf[T]() }
