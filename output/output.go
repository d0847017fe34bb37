// Package output is a write-only layer that serializes in-memory numeric
// arrays and scalar metadata into a self-describing hierarchical container
// for simulation snapshots. It decides per dataset how the data is stored
// (contiguous or chunked with compression), maps native scalar types to
// container type descriptors, and treats every failure as fatal: partial
// snapshot files are worse than a hard stop, and under a multi-process job
// a silent local failure would leave sibling processes waiting forever on
// a collective operation.
package output

import (
	"errors"
	"runtime"
)

// Usage errors reported through the fatal path.
var (
	errAlreadyOpen   = errors.New("container already open")
	errAlreadyClosed = errors.New("container already closed")
	errNotOpen       = errors.New("container not open")
	errEmptyName     = errors.New("empty name")
	errZeroRank      = errors.New("shape has rank 0")
)

type state int

const (
	stateNotOpen state = iota
	stateOpen
	stateClosed
)

// File owns the lifecycle of one output container. A File starts not
// open; Create opens it, Close closes it, and a File collected while still
// open closes itself through the fatal path rather than leaking the
// container.
type File struct {
	backend Backend
	fail    FailHandler
	state   state
	path    string
}

// FileOption configures a File.
type FileOption func(*File)

// WithBackend substitutes the storage backend.
func WithBackend(b Backend) FileOption {
	return func(f *File) { f.backend = b }
}

// WithFailHandler substitutes the fatal-error handler. Tests use this to
// assert that an operation would abort without terminating the process; a
// handler that returns makes the failing operation return without effect.
func WithFailHandler(h FailHandler) FileOption {
	return func(f *File) { f.fail = h }
}

// New returns a File in the not-open state.
func New(opts ...FileOption) *File {
	f := &File{backend: NewHDF5Backend(), fail: Fatal}
	for _, opt := range opts {
		opt(f)
	}
	runtime.SetFinalizer(f, finalize)
	return f
}

func finalize(f *File) {
	if f.state != stateOpen {
		return
	}
	f.state = stateClosed
	if err := f.backend.CloseContainer(); err != nil {
		f.fatal("closing leaked container", f.path, err)
	}
}

// Create creates the container at path, truncating any existing file, and
// moves the handle to the open state. Creating on an already-open or
// closed handle is a fatal usage error.
func (f *File) Create(path string) {
	if f.state == stateOpen {
		f.fatal("creating container", path, errAlreadyOpen)
		return
	}
	if f.state == stateClosed {
		f.fatal("creating container", path, errAlreadyClosed)
		return
	}
	if err := f.backend.CreateContainer(path); err != nil {
		f.fatal("creating container", path, err)
		return
	}
	f.path = path
	f.state = stateOpen
}

// Close finalizes and closes the container. Closing a handle that is not
// open is a fatal usage error.
func (f *File) Close() {
	if f.state != stateOpen {
		f.fatal("closing container", f.path, errNotOpen)
		return
	}
	f.state = stateClosed
	if err := f.backend.CloseContainer(); err != nil {
		f.fatal("closing container", f.path, err)
	}
}

// IsOpen reports whether the handle is in the open state.
func (f *File) IsOpen() bool { return f.state == stateOpen }

// ensureOpen reports whether the handle is open, escalating a usage error
// otherwise.
func (f *File) ensureOpen(op, target string) bool {
	if f.state != stateOpen {
		f.fatal(op, target, errNotOpen)
		return false
	}
	return true
}
