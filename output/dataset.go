package output

import (
	"fmt"

	"github.com/hpcio/snapio/internal/dtype"
)

// WriteDataset writes values as a dataset of the given shape under name.
// The on-disk type matches the in-memory type. Any failure is fatal.
func WriteDataset[T Scalar](f *File, name string, shape []uint64, values []T) {
	writeDataset(f, name, shape, values, TypeOf[T]())
}

// WriteDatasetAs is WriteDataset with an explicit on-disk type; elements
// are converted from the in-memory type during the write.
func WriteDatasetAs[T Scalar](f *File, name string, shape []uint64, values []T, onDisk Datatype) {
	writeDataset(f, name, shape, values, onDisk)
}

func writeDataset[T Scalar](f *File, name string, shape []uint64, values []T, onDisk Datatype) {
	const op = "writing dataset"
	if !f.ensureOpen(op, name) {
		return
	}
	if name == "" {
		f.fatal(op, name, errEmptyName)
		return
	}
	if len(shape) == 0 {
		f.fatal(op, name, errZeroRank)
		return
	}
	numElems := uint64(1)
	for _, extent := range shape {
		numElems *= extent
	}
	if uint64(len(values)) != numElems {
		f.fatal(op, name, fmt.Errorf("%d values for shape %v", len(values), shape))
		return
	}

	memType := TypeOf[T]()
	plan := PlanLayout(shape)

	region, err := f.backend.CreateRegion(name, onDisk, shape, plan)
	if err != nil {
		f.fatal(op, name, err)
		return
	}
	defer func() {
		if err := f.backend.ReleaseRegion(region); err != nil {
			f.fatal(op, name, err)
		}
	}()

	if err := f.backend.WriteRegion(region, memType, dtype.EncodeSlice(values, memType)); err != nil {
		f.fatal(op, name, err)
	}
}
