package output

import (
	"fmt"

	"github.com/hpcio/snapio/hdf5"
	"github.com/hpcio/snapio/internal/dtype"
)

// RegionHandle refers to one data region being written. Opaque to the
// caller; every handle obtained from a Backend must be released.
type RegionHandle interface{}

// ObjectHandle refers to an opened named object. Opaque; must be released.
type ObjectHandle interface{}

// Backend is the storage-format collaborator. It owns the binary encoding
// and disk I/O; the policy layer above it owns type resolution, layout
// decisions and the error discipline.
type Backend interface {
	// CreateContainer creates the container file at path, truncating any
	// existing file.
	CreateContainer(path string) error
	// CloseContainer finalizes and closes the container.
	CloseContainer() error

	// CreateRegion creates an n-dimensional data region with the given
	// on-disk type and layout. Intermediate groups implied by name are
	// the backend's responsibility.
	CreateRegion(name string, onDisk Datatype, shape []uint64, plan Layout) (RegionHandle, error)
	// WriteRegion writes raw little-endian elements of the in-memory
	// type into the region, converting to the region's on-disk type.
	WriteRegion(r RegionHandle, memType Datatype, raw []byte) error
	// ReleaseRegion releases a region handle.
	ReleaseRegion(r RegionHandle) error

	// OpenObject opens the existing object at path ("/" is the root).
	OpenObject(path string) (ObjectHandle, error)
	// WriteScalarAttribute attaches a scalar attribute to an opened
	// object. The name must not already be used on that object.
	WriteScalarAttribute(obj ObjectHandle, name string, typ Datatype, value []byte) error
	// ReleaseObject releases an object handle.
	ReleaseObject(obj ObjectHandle) error
}

// hdf5Backend adapts the hdf5 package to the Backend boundary. Region
// creation is deferred until the data arrives because the container
// commits a dataset's data and metadata together.
type hdf5Backend struct {
	file *hdf5.File
}

// NewHDF5Backend returns the production backend.
func NewHDF5Backend() Backend { return &hdf5Backend{} }

type hdf5Region struct {
	name  string
	kind  dtype.Kind
	shape []uint64
	plan  Layout
}

type hdf5Object struct {
	path string
}

func (b *hdf5Backend) CreateContainer(path string) error {
	if b.file != nil {
		return fmt.Errorf("container already open at %s", b.file.Path())
	}
	f, err := hdf5.Create(path)
	if err != nil {
		return err
	}
	b.file = f
	return nil
}

func (b *hdf5Backend) CloseContainer() error {
	if b.file == nil {
		return fmt.Errorf("no open container")
	}
	err := b.file.Close()
	b.file = nil
	return err
}

func (b *hdf5Backend) CreateRegion(name string, onDisk Datatype, shape []uint64, plan Layout) (RegionHandle, error) {
	if b.file == nil {
		return nil, fmt.Errorf("no open container")
	}
	return &hdf5Region{name: name, kind: onDisk, shape: shape, plan: plan}, nil
}

func (b *hdf5Backend) WriteRegion(r RegionHandle, memType Datatype, raw []byte) error {
	region, ok := r.(*hdf5Region)
	if !ok || b.file == nil {
		return fmt.Errorf("invalid region handle")
	}
	data, err := dtype.Convert(raw, memType, region.kind)
	if err != nil {
		return err
	}

	var opts []hdf5.DatasetOption
	if region.plan.Chunked {
		opts = append(opts,
			hdf5.WithChunks(region.plan.ChunkDims),
			hdf5.WithDeflate(region.plan.DeflateLevel))
	}
	return b.file.CreateDataset(region.name, region.kind, region.shape, data, opts...)
}

func (b *hdf5Backend) ReleaseRegion(r RegionHandle) error {
	if _, ok := r.(*hdf5Region); !ok {
		return fmt.Errorf("invalid region handle")
	}
	return nil
}

func (b *hdf5Backend) OpenObject(path string) (ObjectHandle, error) {
	if b.file == nil {
		return nil, fmt.Errorf("no open container")
	}
	if !b.file.HasObject(path) {
		return nil, fmt.Errorf("no object at %s", path)
	}
	return &hdf5Object{path: path}, nil
}

func (b *hdf5Backend) WriteScalarAttribute(obj ObjectHandle, name string, typ Datatype, value []byte) error {
	o, ok := obj.(*hdf5Object)
	if !ok || b.file == nil {
		return fmt.Errorf("invalid object handle")
	}
	return b.file.SetAttribute(o.path, name, typ, value)
}

func (b *hdf5Backend) ReleaseObject(obj ObjectHandle) error {
	if _, ok := obj.(*hdf5Object); !ok {
		return fmt.Errorf("invalid object handle")
	}
	return nil
}
