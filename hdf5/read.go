package hdf5

import (
	"fmt"
	"os"

	binpkg "github.com/hpcio/snapio/internal/binary"
	"github.com/hpcio/snapio/internal/dtype"
	"github.com/hpcio/snapio/internal/filter"
	"github.com/hpcio/snapio/internal/layout"
	"github.com/hpcio/snapio/internal/message"
	"github.com/hpcio/snapio/internal/object"
	"github.com/hpcio/snapio/internal/superblock"
)

// Reader verifies containers this package wrote. It handles the subset of
// the format the writer produces: version 3 superblocks, version 2 object
// headers, contiguous and chunked datasets, scalar attributes.
type Reader struct {
	f  *os.File
	r  *binpkg.Reader
	sb *superblock.Superblock
}

// Open opens a container for reading.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	sb, err := superblock.Read(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return &Reader{f: f, r: binpkg.NewReader(f, sb.Config()), sb: sb}, nil
}

// Close closes the underlying file.
func (r *Reader) Close() error { return r.f.Close() }

// resolve walks hard links from the root group to the header at path.
func (r *Reader) resolve(path string) (*object.Header, error) {
	hdr, err := object.ReadHeader(r.r, r.sb.RootGroupAddress)
	if err != nil {
		return nil, err
	}
	for _, part := range splitPath(path) {
		var next uint64
		found := false
		for _, l := range hdr.Links() {
			if l.Name == part {
				next = l.ObjectAddress
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, path)
		}
		if hdr, err = object.ReadHeader(r.r, next); err != nil {
			return nil, err
		}
	}
	return hdr, nil
}

// ListChildren returns the link names of the group at path in link order.
func (r *Reader) ListChildren(path string) ([]string, error) {
	hdr, err := r.resolve(path)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, l := range hdr.Links() {
		names = append(names, l.Name)
	}
	return names, nil
}

// ReadDataset returns the raw little-endian element bytes, extents and
// element kind of the dataset at path, with any chunk filters undone.
func (r *Reader) ReadDataset(path string) ([]byte, []uint64, dtype.Kind, error) {
	hdr, err := r.resolve(path)
	if err != nil {
		return nil, nil, 0, err
	}

	ds, _ := hdr.FindMessage(message.TypeDataspace).(*message.Dataspace)
	dt, _ := hdr.FindMessage(message.TypeDatatype).(*message.Datatype)
	lo, _ := hdr.FindMessage(message.TypeDataLayout).(*message.DataLayout)
	if ds == nil || dt == nil || lo == nil {
		return nil, nil, 0, fmt.Errorf("%w: %s", ErrNotADataset, path)
	}

	kind, err := dtype.KindFromMessage(dt)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("dataset %s: %w", path, err)
	}

	var pipeline *filter.Pipeline
	if fp, ok := hdr.FindMessage(message.TypeFilterPipeline).(*message.FilterPipeline); ok {
		if pipeline, err = filter.NewPipeline(fp); err != nil {
			return nil, nil, 0, fmt.Errorf("dataset %s: %w", path, err)
		}
	}

	var raw []byte
	switch {
	case lo.Class == message.LayoutContiguous:
		raw, err = r.readContiguous(lo)
	case lo.IsChunked():
		raw, err = r.readChunked(lo, ds, kind, pipeline)
	default:
		err = fmt.Errorf("unsupported layout class %d", lo.Class)
	}
	if err != nil {
		return nil, nil, 0, fmt.Errorf("dataset %s: %w", path, err)
	}
	return raw, ds.Dimensions, kind, nil
}

func (r *Reader) readContiguous(lo *message.DataLayout) ([]byte, error) {
	if lo.Size == 0 || r.r.IsUndefinedOffset(lo.Address) {
		return nil, nil
	}
	return r.r.At(int64(lo.Address)).ReadBytes(int(lo.Size))
}

func (r *Reader) readChunked(lo *message.DataLayout, ds *message.Dataspace, kind dtype.Kind, pipeline *filter.Pipeline) ([]byte, error) {
	// The trailing chunk dimension is the element size.
	chunkDims := lo.ChunkDims[:len(lo.ChunkDims)-1]
	chunkBytes := layout.ChunkBytes(chunkDims, kind.Size())

	var entries []layout.Entry
	switch lo.ChunkIndexType {
	case message.ChunkIndexSingleChunk:
		e := layout.Entry{Addr: lo.ChunkIndexAddr, StoredSize: uint32(chunkBytes)}
		if lo.Filtered {
			e.StoredSize = uint32(lo.FilteredChunkSize)
			e.FilterMask = lo.FilterMask
		}
		entries = []layout.Entry{e}
	case message.ChunkIndexFixedArray:
		var err error
		if entries, err = layout.ReadFixedArrayIndex(r.r, lo.ChunkIndexAddr); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported chunk index type %d", lo.ChunkIndexType)
	}

	filtered := pipeline != nil && !pipeline.Empty()
	chunks := make([][]byte, len(entries))
	for i, e := range entries {
		stored, err := r.r.At(int64(e.Addr)).ReadBytes(int(e.StoredSize))
		if err != nil {
			return nil, err
		}
		if filtered {
			if stored, err = pipeline.Decode(stored, e.FilterMask); err != nil {
				return nil, fmt.Errorf("chunk %d: %w", i, err)
			}
		}
		if uint64(len(stored)) != chunkBytes {
			return nil, fmt.Errorf("chunk %d: %d bytes, want %d", i, len(stored), chunkBytes)
		}
		chunks[i] = stored
	}

	return layout.AssembleChunks(chunks, ds.Dimensions, chunkDims, kind.Size()), nil
}

// ObjectInfo describes one object for inspection tools.
type ObjectInfo struct {
	Group   bool
	Dims    []uint64
	Kind    dtype.Kind
	Chunked bool
	Filters []string
}

// AttributeEntry is one scalar attribute listed from an object header.
type AttributeEntry struct {
	Name  string
	Kind  dtype.Kind
	Value []byte
}

// Stat describes the object at path without reading its data.
func (r *Reader) Stat(path string) (*ObjectInfo, error) {
	hdr, err := r.resolve(path)
	if err != nil {
		return nil, err
	}
	ds, _ := hdr.FindMessage(message.TypeDataspace).(*message.Dataspace)
	dt, _ := hdr.FindMessage(message.TypeDatatype).(*message.Datatype)
	lo, _ := hdr.FindMessage(message.TypeDataLayout).(*message.DataLayout)
	if ds == nil || dt == nil || lo == nil {
		return &ObjectInfo{Group: true}, nil
	}
	kind, err := dtype.KindFromMessage(dt)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", path, err)
	}
	info := &ObjectInfo{Dims: ds.Dimensions, Kind: kind, Chunked: lo.IsChunked()}
	if fp, ok := hdr.FindMessage(message.TypeFilterPipeline).(*message.FilterPipeline); ok {
		for _, f := range fp.Filters {
			info.Filters = append(info.Filters, filterName(f))
		}
	}
	return info, nil
}

func filterName(f message.FilterInfo) string {
	switch f.ID {
	case message.FilterDeflate:
		return "deflate"
	case message.FilterShuffle:
		return "shuffle"
	case message.FilterFletcher32:
		return "fletcher32"
	default:
		if f.Name != "" {
			return f.Name
		}
		return fmt.Sprintf("filter-%d", f.ID)
	}
}

// ListAttributes returns the scalar attributes of the object at objPath in
// header order.
func (r *Reader) ListAttributes(objPath string) ([]AttributeEntry, error) {
	hdr, err := r.resolve(objPath)
	if err != nil {
		return nil, err
	}
	var entries []AttributeEntry
	for _, a := range hdr.Attributes() {
		kind, err := dtype.KindFromMessage(a.Datatype)
		if err != nil {
			return nil, fmt.Errorf("attribute %s on %s: %w", a.Name, objPath, err)
		}
		entries = append(entries, AttributeEntry{Name: a.Name, Kind: kind, Value: a.Data})
	}
	return entries, nil
}

// ReadScalarAttribute returns the value bytes and kind of an attribute on
// the object at objPath.
func (r *Reader) ReadScalarAttribute(objPath, name string) ([]byte, dtype.Kind, error) {
	hdr, err := r.resolve(objPath)
	if err != nil {
		return nil, 0, err
	}
	for _, a := range hdr.Attributes() {
		if a.Name != name {
			continue
		}
		kind, err := dtype.KindFromMessage(a.Datatype)
		if err != nil {
			return nil, 0, fmt.Errorf("attribute %s on %s: %w", name, objPath, err)
		}
		return a.Data, kind, nil
	}
	return nil, 0, fmt.Errorf("%w: attribute %s on %s", ErrObjectNotFound, name, objPath)
}
