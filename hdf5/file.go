// Package hdf5 writes HDF5 containers for simulation snapshots and reads
// back the subset it writes. Bulk dataset data goes to disk as soon as a
// dataset is created; object headers, group links and the superblock are
// held in memory and materialized when the file is flushed or closed,
// mirroring how the C library's metadata cache behaves.
package hdf5

import (
	"fmt"
	"os"
	"strings"

	"github.com/hpcio/snapio/internal/alloc"
	binpkg "github.com/hpcio/snapio/internal/binary"
	"github.com/hpcio/snapio/internal/message"
	"github.com/hpcio/snapio/internal/object"
	"github.com/hpcio/snapio/internal/superblock"
)

// File is an HDF5 container open for writing.
type File struct {
	path  string
	f     *os.File
	w     *binpkg.Writer
	alloc *alloc.Allocator
	sb    *superblock.Superblock

	root   *node
	closed bool
}

// node is one object in the in-memory tree: a group or a dataset.
type node struct {
	name     string
	group    bool
	children []*node // groups only, in creation order
	dataset  *datasetInfo
	attrs    []*message.Attribute

	addr uint64 // assigned during flush
}

func (n *node) child(name string) *node {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// datasetInfo carries the header messages recorded when the data was
// written.
type datasetInfo struct {
	dataspace *message.Dataspace
	datatype  *message.Datatype
	layout    *message.DataLayout
	pipeline  *message.FilterPipeline
}

// Create creates a new HDF5 container at path, truncating any existing
// file.
func Create(path string) (*File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}

	sb := superblock.New()
	file := &File{
		path:  path,
		f:     f,
		w:     binpkg.NewWriter(f, sb.Config()),
		alloc: alloc.New(uint64(sb.Size())),
		sb:    sb,
		root:  &node{group: true},
	}
	return file, nil
}

// Path returns the file path.
func (f *File) Path() string { return f.path }

// Flush materializes all metadata and the superblock. The file stays
// usable; a later flush rewrites the metadata at fresh addresses.
func (f *File) Flush() error {
	if f.closed {
		return ErrFileClosed
	}
	if err := f.writeTree(f.root); err != nil {
		return err
	}

	f.sb.RootGroupAddress = f.root.addr
	f.sb.EOFAddress = f.alloc.EOF()
	if err := f.sb.Write(f.w.At(0)); err != nil {
		return fmt.Errorf("writing superblock: %w", err)
	}
	return f.f.Sync()
}

// Close flushes metadata and closes the file. Closing twice is an error.
func (f *File) Close() error {
	if f.closed {
		return ErrFileClosed
	}
	if err := f.Flush(); err != nil {
		f.f.Close()
		f.closed = true
		return err
	}
	f.closed = true
	return f.f.Close()
}

// writeTree writes object headers depth-first so group links can point at
// finished children.
func (f *File) writeTree(n *node) error {
	var msgs []message.Message
	if n.group {
		var links []*message.Link
		for _, c := range n.children {
			if err := f.writeTree(c); err != nil {
				return err
			}
			links = append(links, message.NewHardLink(c.name, c.addr))
		}
		msgs = object.NewGroupHeader(links)
	} else {
		d := n.dataset
		msgs = object.NewDatasetHeader(d.dataspace, d.datatype, d.layout)
		if d.pipeline != nil {
			msgs = append(msgs, d.pipeline)
		}
	}
	for _, a := range n.attrs {
		msgs = append(msgs, a)
	}

	minChunk := 0
	if n.group {
		minChunk = object.MinGroupChunkSize
	}
	size := object.HeaderSizeWithMinChunk(f.w, msgs, minChunk)
	n.addr = f.alloc.Alloc(uint64(size))
	if _, err := object.WriteHeaderWithMinChunk(f.w.At(int64(n.addr)), msgs, minChunk); err != nil {
		return fmt.Errorf("writing object header: %w", err)
	}
	return nil
}

// splitPath splits "/a/b/c" into components; the root path yields none.
func splitPath(path string) []string {
	var parts []string
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// lookup resolves path against the tree, or returns ErrObjectNotFound.
func (f *File) lookup(path string) (*node, error) {
	n := f.root
	for _, part := range splitPath(path) {
		if !n.group {
			return nil, fmt.Errorf("%w: %s", ErrNotAGroup, path)
		}
		c := n.child(part)
		if c == nil {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, path)
		}
		n = c
	}
	return n, nil
}

// HasObject reports whether path names the root or an object created in
// this session.
func (f *File) HasObject(path string) bool {
	_, err := f.lookup(path)
	return err == nil
}

// ensureGroups walks the group components of a path, creating missing
// groups, and returns the parent node for the final component.
func (f *File) ensureGroups(parts []string) (*node, error) {
	n := f.root
	for _, part := range parts {
		if !n.group {
			return nil, fmt.Errorf("%w: %s", ErrNotAGroup, part)
		}
		c := n.child(part)
		if c == nil {
			c = &node{name: part, group: true}
			n.children = append(n.children, c)
		}
		n = c
	}
	if !n.group {
		return nil, ErrNotAGroup
	}
	return n, nil
}

// CreateGroup creates a group at path, including intermediate groups.
// Creating an existing group is not an error.
func (f *File) CreateGroup(path string) error {
	if f.closed {
		return ErrFileClosed
	}
	parts := splitPath(path)
	if len(parts) == 0 {
		return nil // the root group always exists
	}
	_, err := f.ensureGroups(parts)
	return err
}
