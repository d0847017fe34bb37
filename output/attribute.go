package output

import "github.com/hpcio/snapio/internal/dtype"

// WriteAttribute attaches value as a scalar attribute named name to the
// object at objectPath ("/" is the container root). The object must
// already exist in the container. Any failure is fatal.
func WriteAttribute[T Scalar](f *File, objectPath, name string, value T) {
	const op = "writing attribute"
	target := objectPath + "#" + name
	if !f.ensureOpen(op, target) {
		return
	}
	if name == "" {
		f.fatal(op, target, errEmptyName)
		return
	}

	obj, err := f.backend.OpenObject(objectPath)
	if err != nil {
		f.fatal(op, target, err)
		return
	}
	defer func() {
		if err := f.backend.ReleaseObject(obj); err != nil {
			f.fatal(op, target, err)
		}
	}()

	typ := TypeOf[T]()
	if err := f.backend.WriteScalarAttribute(obj, name, typ, dtype.EncodeValue(value, typ)); err != nil {
		f.fatal(op, target, err)
	}
}
