package hdf5

import "errors"

var (
	// ErrFileClosed is returned by operations on a closed file.
	ErrFileClosed = errors.New("hdf5: file is closed")

	// ErrObjectExists is returned when a path is created twice.
	ErrObjectExists = errors.New("hdf5: object already exists")

	// ErrObjectNotFound is returned when a path does not resolve.
	ErrObjectNotFound = errors.New("hdf5: object not found")

	// ErrNotAGroup is returned when a path component resolves to a dataset.
	ErrNotAGroup = errors.New("hdf5: not a group")

	// ErrNotADataset is returned when a dataset operation hits a group.
	ErrNotADataset = errors.New("hdf5: not a dataset")

	// ErrInvalidName is returned for empty names or names containing '/'
	// where a single path component is expected.
	ErrInvalidName = errors.New("hdf5: invalid name")

	// ErrShapeMismatch is returned when the data size does not match the
	// dataset extents.
	ErrShapeMismatch = errors.New("hdf5: data size does not match extents")
)
