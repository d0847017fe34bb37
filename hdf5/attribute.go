package hdf5

import (
	"fmt"
	"strings"

	"github.com/hpcio/snapio/internal/dtype"
	"github.com/hpcio/snapio/internal/message"
)

// SetAttribute attaches a scalar attribute to the object at objPath, which
// must already exist in this session. value is the little-endian encoding
// of one element of kind. The name must be unique among the object's
// attributes; setting it twice is an error.
func (f *File) SetAttribute(objPath, name string, kind dtype.Kind, value []byte) error {
	if f.closed {
		return ErrFileClosed
	}
	if name == "" || strings.Contains(name, "/") {
		return fmt.Errorf("%w: attribute name %q", ErrInvalidName, name)
	}
	if uint64(len(value)) != uint64(kind.Size()) {
		return fmt.Errorf("%w: %d bytes for scalar %s", ErrShapeMismatch, len(value), kind)
	}

	n, err := f.lookup(objPath)
	if err != nil {
		return err
	}

	for _, a := range n.attrs {
		if a.Name == name {
			return fmt.Errorf("%w: attribute %s on %s", ErrObjectExists, name, objPath)
		}
	}
	n.attrs = append(n.attrs, message.NewScalarAttribute(name, kind.Message(), value))
	return nil
}
